package inspiration

import (
	"net/http"
	"sync/atomic"

	"github.com/go-chi/chi/v5"

	"github.com/zhouzirui/zenstellar/backend/internal/fallback"
	"github.com/zhouzirui/zenstellar/backend/internal/service/ai"
	"github.com/zhouzirui/zenstellar/backend/pkg/utils"
)

// Handler 生成禅意灵感图片，并统计成功生成的次数
type Handler struct {
	client *ai.Client
	count  atomic.Int64
}

// New 创建灵感处理器
func New(client *ai.Client) *Handler {
	return &Handler{client: client}
}

// RegisterRoutes 注册灵感相关的路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/inspiration", h.handleGenerate)
}

// Response carries the image as a data URI, or null when none was produced.
type Response struct {
	Image   *string    `json:"image"`
	Prompt  string     `json:"prompt,omitempty"`
	Count   int64      `json:"count"`
	Failure ai.Failure `json:"failure,omitempty"`
}

func (h *Handler) handleGenerate(w http.ResponseWriter, r *http.Request) {
	result := h.client.Inspire(r.Context())

	count := h.count.Load()
	if result.OK() {
		count = h.count.Add(1)
	}

	utils.RespondJSON(w, http.StatusOK, Response{
		Image:   fallback.Image(result),
		Prompt:  result.Prompt,
		Count:   count,
		Failure: result.Failure,
	})
}
