package handlers

import (
	"context"

	"maizey-chat/services/chat-api/internal/domain/chat"
	chatrequests "maizey-chat/services/chat-api/internal/interfaces/httpserver/requests/chat"
)

// ChatHandler invokes domain logic for conversation and message use cases.
type ChatHandler struct {
	service chat.Service
}

// NewChatHandler wires dependencies for chat routes.
func NewChatHandler(service chat.Service) *ChatHandler {
	return &ChatHandler{
		service: service,
	}
}

// ListConversations returns every known conversation, most recently active first.
func (h *ChatHandler) ListConversations(ctx context.Context) ([]*chat.Conversation, error) {
	return h.service.ListConversations(ctx)
}

// CreateConversation opens a new remote conversation and records it locally.
func (h *ChatHandler) CreateConversation(ctx context.Context) (*chat.Conversation, error) {
	return h.service.CreateConversation(ctx)
}

// ListMessages returns the stored transcript for a conversation.
func (h *ChatHandler) ListMessages(ctx context.Context, conversationPK int64) ([]*chat.Message, error) {
	return h.service.ListMessages(ctx, conversationPK)
}

// SendMessage forwards the query upstream and persists the exchange.
func (h *ChatHandler) SendMessage(ctx context.Context, conversationPK int64, req *chatrequests.SendMessageRequest) (*chat.RemoteMessage, error) {
	return h.service.SendMessage(ctx, conversationPK, req.Query)
}
