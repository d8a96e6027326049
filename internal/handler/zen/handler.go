package zen

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	zenService "github.com/zhouzirui/zenstellar/backend/internal/service/zen"
	"github.com/zhouzirui/zenstellar/backend/pkg/utils"
)

// Handler 古琴曲目播放器的HTTP处理器
type Handler struct {
	zenSvc *zenService.Service
}

// New 创建播放器处理器
func New(zenSvc *zenService.Service) *Handler {
	return &Handler{zenSvc: zenSvc}
}

// RegisterRoutes 注册播放器相关的路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/zen", func(r chi.Router) {
		r.Get("/songs", h.handleSongs)
		r.Post("/players", h.handleCreatePlayer)
		r.Get("/players/{playerID}", h.handleState)
		r.Delete("/players/{playerID}", h.handleDeletePlayer)
		r.Post("/players/{playerID}/{action}", h.handleAction)
	})
}

func (h *Handler) handleSongs(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, h.zenSvc.Songs())
}

func (h *Handler) handleCreatePlayer(w http.ResponseWriter, r *http.Request) {
	player, err := h.zenSvc.Create()
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.RespondJSON(w, http.StatusCreated, player.State())
}

func (h *Handler) handleState(w http.ResponseWriter, r *http.Request) {
	player, err := h.zenSvc.Get(chi.URLParam(r, "playerID"))
	if err != nil {
		utils.RespondError(w, http.StatusNotFound, err.Error())
		return
	}
	utils.RespondJSON(w, http.StatusOK, player.State())
}

func (h *Handler) handleDeletePlayer(w http.ResponseWriter, r *http.Request) {
	if err := h.zenSvc.Delete(chi.URLParam(r, "playerID")); err != nil {
		utils.RespondError(w, http.StatusNotFound, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleAction(w http.ResponseWriter, r *http.Request) {
	player, err := h.zenSvc.Get(chi.URLParam(r, "playerID"))
	if err != nil {
		utils.RespondError(w, http.StatusNotFound, err.Error())
		return
	}

	var state zenService.State
	switch action := chi.URLParam(r, "action"); action {
	case "select":
		index, convErr := strconv.Atoi(r.URL.Query().Get("index"))
		if convErr != nil {
			utils.RespondError(w, http.StatusBadRequest, "index query parameter must be an integer")
			return
		}
		state, err = player.Select(index)
	case "toggle":
		state = player.Toggle()
	case "next":
		state = player.Next()
	case "prev":
		state = player.Prev()
	default:
		utils.RespondError(w, http.StatusNotFound, "unknown player action: "+action)
		return
	}

	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, zenService.ErrInvalidIndex) {
			status = http.StatusBadRequest
		}
		utils.RespondError(w, status, err.Error())
		return
	}
	utils.RespondJSON(w, http.StatusOK, state)
}
