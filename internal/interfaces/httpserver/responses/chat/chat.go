package chatresponses

import (
	"time"

	"maizey-chat/services/chat-api/internal/domain/chat"
)

// ConversationResponse is the client-facing view of a stored conversation.
type ConversationResponse struct {
	ConversationPK int64     `json:"conversation_pk"`
	Title          string    `json:"title"`
	Created        time.Time `json:"created"`
	Updated        time.Time `json:"updated"`
	MessageCount   int64     `json:"message_count"`
}

// MessageResponse is the client-facing view of a stored message. Conversation
// refers to the remote conversation_pk, not the local row id.
type MessageResponse struct {
	ID             int64         `json:"id"`
	ConversationPK int64         `json:"conversation_id"`
	Query          string        `json:"query"`
	Response       string        `json:"response"`
	Sources        []chat.Source `json:"sources"`
	Created        time.Time     `json:"created"`
}

// NewConversationResponse creates a response from a domain conversation
func NewConversationResponse(conv *chat.Conversation) *ConversationResponse {
	return &ConversationResponse{
		ConversationPK: conv.ConversationPK,
		Title:          conv.Title,
		Created:        conv.CreatedAt,
		Updated:        conv.UpdatedAt,
		MessageCount:   conv.MessageCount,
	}
}

// NewConversationListResponse maps a slice of domain conversations, skipping nils.
func NewConversationListResponse(conversations []*chat.Conversation) []ConversationResponse {
	data := make([]ConversationResponse, 0, len(conversations))
	for _, conv := range conversations {
		if conv == nil {
			continue
		}
		data = append(data, *NewConversationResponse(conv))
	}
	return data
}

// NewMessageResponse creates a response from a domain message.
func NewMessageResponse(msg *chat.Message, conversationPK int64) *MessageResponse {
	sources := msg.Sources
	if sources == nil {
		sources = []chat.Source{}
	}
	return &MessageResponse{
		ID:             msg.MessageID,
		ConversationPK: conversationPK,
		Query:          msg.Query,
		Response:       msg.Response,
		Sources:        sources,
		Created:        msg.CreatedAt,
	}
}

// NewMessageListResponse maps a slice of domain messages, skipping nils.
func NewMessageListResponse(messages []*chat.Message, conversationPK int64) []MessageResponse {
	data := make([]MessageResponse, 0, len(messages))
	for _, msg := range messages {
		if msg == nil {
			continue
		}
		data = append(data, *NewMessageResponse(msg, conversationPK))
	}
	return data
}
