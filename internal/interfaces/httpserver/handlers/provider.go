package handlers

import (
	"maizey-chat/services/chat-api/internal/domain/chat"
)

// Provider wires all HTTP handlers for dependency injection.
type Provider struct {
	Chat *ChatHandler
}

// NewProvider constructs the handler provider with domain services.
func NewProvider(chatService chat.Service) *Provider {
	return &Provider{
		Chat: NewChatHandler(chatService),
	}
}
