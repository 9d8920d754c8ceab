package chat

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	chatService "github.com/zhouzirui/startup-chat/backend/internal/service/chat"
	"github.com/zhouzirui/startup-chat/backend/pkg/utils"
)

const (
	errChatFailed   = "An error occurred while processing your request."
	errDeleteFailed = "An error occurred while deleting the conversation."
	errFetchFailed  = "An error occurred while fetching the conversation."
	errNotFound     = "Conversation not found"
)

// Generator produces a reply for a single user message.
type Generator interface {
	Generate(ctx context.Context, message string) (string, error)
}

// Handler 聊天服务的HTTP处理器
type Handler struct {
	generator Generator
	store     chatService.Store
}

// New 创建聊天处理器
func New(generator Generator, store chatService.Store) *Handler {
	return &Handler{
		generator: generator,
		store:     store,
	}
}

// RegisterRoutes 注册聊天相关的路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/chat", h.handleChat)
	r.Get("/chat/conversation/{id}", h.handleGetConversation)
	r.Delete("/chat/conversation/{id}", h.handleDeleteConversation)
}

type chatRequest struct {
	Message        string `json:"message"`
	ConversationID string `json:"conversationId,omitempty"`
}

type chatResponse struct {
	Reply          string `json:"reply"`
	ConversationID string `json:"conversationId"`
}

// handleChat runs one turn: model call, then a single store write.
// A store failure after a successful model call drops the turn.
func (h *Handler) handleChat(w http.ResponseWriter, r *http.Request) {
	var payload chatRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		log.Printf("[chat] invalid request body: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, errChatFailed)
		return
	}

	ctx := r.Context()

	reply, err := h.generator.Generate(ctx, payload.Message)
	if err != nil {
		log.Printf("[chat] model call failed, conversation=%q: %v", payload.ConversationID, err)
		utils.RespondError(w, http.StatusInternalServerError, errChatFailed)
		return
	}

	conversationID, err := h.store.AppendTurn(ctx, payload.ConversationID, payload.Message, reply)
	if err != nil {
		log.Printf("[chat] failed to persist turn, conversation=%q: %v", payload.ConversationID, err)
		utils.RespondError(w, http.StatusInternalServerError, errChatFailed)
		return
	}

	utils.RespondJSON(w, http.StatusOK, chatResponse{Reply: reply, ConversationID: conversationID})
}

func (h *Handler) handleGetConversation(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	conversation, err := h.store.GetConversation(r.Context(), id)
	if errors.Is(err, chatService.ErrNotFound) {
		utils.RespondError(w, http.StatusNotFound, errNotFound)
		return
	}
	if err != nil {
		log.Printf("[chat] failed to load conversation=%s: %v", id, err)
		utils.RespondError(w, http.StatusInternalServerError, errFetchFailed)
		return
	}

	utils.RespondJSON(w, http.StatusOK, conversation)
}

func (h *Handler) handleDeleteConversation(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	deleted, err := h.store.DeleteConversation(r.Context(), id)
	if err != nil {
		log.Printf("[chat] failed to delete conversation=%s: %v", id, err)
		utils.RespondError(w, http.StatusInternalServerError, errDeleteFailed)
		return
	}
	if !deleted {
		utils.RespondError(w, http.StatusNotFound, errNotFound)
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]string{"message": "Conversation deleted successfully"})
}
