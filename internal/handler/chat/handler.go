package chat

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/zhouzirui/zenstellar/backend/internal/model/chat"
	chatService "github.com/zhouzirui/zenstellar/backend/internal/service/chat"
	"github.com/zhouzirui/zenstellar/backend/internal/service/sage"
	"github.com/zhouzirui/zenstellar/backend/pkg/utils"
)

// Handler 星禅智者对话的HTTP处理器
type Handler struct {
	chatSvc  *chatService.Service
	sage     *sage.Sage
	upgrader websocket.Upgrader
}

// New 创建聊天处理器
func New(chatSvc *chatService.Service, sageSvc *sage.Sage) *Handler {
	return &Handler{
		chatSvc: chatSvc,
		sage:    sageSvc,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// RegisterRoutes 注册对话相关的路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/conversations", func(r chi.Router) {
		r.Post("/", h.handleCreateConversation)
		r.Route("/{conversationID}", func(r chi.Router) {
			r.Delete("/", h.handleDeleteConversation)
			r.Get("/messages", h.handleTranscript)
			r.Post("/messages", h.handleSendMessage)
			r.Get("/ws", h.handleWebSocket)
		})
	})
}

type conversationResponse struct {
	Conversation chat.Conversation `json:"conversation"`
	Messages     []chat.Message    `json:"messages"`
}

// handleCreateConversation 创建对话，返回带欢迎语的初始记录
func (h *Handler) handleCreateConversation(w http.ResponseWriter, r *http.Request) {
	conversation, messages, err := h.chatSvc.CreateConversation(r.Context())
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	utils.RespondJSON(w, http.StatusCreated, conversationResponse{Conversation: conversation, Messages: messages})
}

// handleTranscript 返回完整的对话记录；busy 表示智者仍在回应上一条消息
func (h *Handler) handleTranscript(w http.ResponseWriter, r *http.Request) {
	conversationID := chi.URLParam(r, "conversationID")

	messages, err := h.chatSvc.Transcript(r.Context(), conversationID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"messages": messages,
		"busy":     h.sage.Busy(conversationID),
	})
}

// handleSendMessage 处理一轮对话
func (h *Handler) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	conversationID := chi.URLParam(r, "conversationID")

	var payload struct {
		Text string `json:"text"`
	}
	if err := utils.DecodeJSON(w, r, &payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	exchange, err := h.sage.Ask(r.Context(), conversationID, payload.Text)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	utils.RespondJSON(w, http.StatusOK, exchange)
}

// handleDeleteConversation 丢弃对话及其会话
func (h *Handler) handleDeleteConversation(w http.ResponseWriter, r *http.Request) {
	conversationID := chi.URLParam(r, "conversationID")

	if err := h.sage.Close(r.Context(), conversationID); err != nil {
		respondServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, chatService.ErrConversationNotFound):
		utils.RespondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, sage.ErrEmptyMessage), errors.Is(err, chatService.ErrInvalidRole):
		utils.RespondError(w, http.StatusBadRequest, err.Error())
	default:
		utils.RespondError(w, http.StatusInternalServerError, err.Error())
	}
}
