package fortune

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/zhouzirui/zenstellar/backend/internal/fallback"
	"github.com/zhouzirui/zenstellar/backend/internal/model/zodiac"
	"github.com/zhouzirui/zenstellar/backend/internal/service/ai"
	"github.com/zhouzirui/zenstellar/backend/pkg/utils"
)

// Handler 提供星座列表与每日运势
type Handler struct {
	signs  zodiac.Store
	client *ai.Client
}

// New 创建运势处理器
func New(signs zodiac.Store, client *ai.Client) *Handler {
	return &Handler{signs: signs, client: client}
}

// RegisterRoutes 注册运势相关的路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/zodiac", h.handleListSigns)
	r.Get("/fortune/{sign}", h.handleFortune)
}

// Response is one fortune reading. Text always holds something to display.
type Response struct {
	Sign    zodiac.Sign `json:"sign"`
	Text    string      `json:"text"`
	Failure ai.Failure  `json:"failure,omitempty"`
}

func (h *Handler) handleListSigns(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, h.signs.List())
}

func (h *Handler) handleFortune(w http.ResponseWriter, r *http.Request) {
	sign, ok := h.signs.Find(chi.URLParam(r, "sign"))
	if !ok {
		utils.RespondError(w, http.StatusNotFound, "zodiac sign not found")
		return
	}

	result := h.client.Fortune(r.Context(), sign.Name)
	utils.RespondJSON(w, http.StatusOK, Response{
		Sign:    sign,
		Text:    fallback.Fortune(result),
		Failure: result.Failure,
	})
}
