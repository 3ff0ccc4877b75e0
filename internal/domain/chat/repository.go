package chat

import (
	"context"
	"time"
)

// ConversationRepository persists conversations keyed by their Maizey pk.
type ConversationRepository interface {
	// GetOrCreate inserts conv unless a row with the same ConversationPK
	// already exists. Concurrent calls for the same pk must collapse to a
	// single row. Returns the stored row and whether it was created.
	GetOrCreate(ctx context.Context, conv *Conversation) (*Conversation, bool, error)
	// FindByConversationPK returns the conversation with the given Maizey pk,
	// or a not-found error.
	FindByConversationPK(ctx context.Context, conversationPK int64) (*Conversation, error)
	// ListWithMessageCount returns all conversations ordered by UpdatedAt
	// descending, with MessageCount computed from the message table.
	ListWithMessageCount(ctx context.Context) ([]*Conversation, error)
	// TouchUpdated refreshes the conversation's UpdatedAt without touching
	// any other column.
	TouchUpdated(ctx context.Context, id uint, at time.Time) error
}

// MessageRepository persists messages scoped to a conversation.
type MessageRepository interface {
	// GetOrCreate inserts msg unless a row with the same (ConversationID,
	// MessageID) pair already exists. Returns the stored row and whether it
	// was created; an existing row is returned with its original fields.
	GetOrCreate(ctx context.Context, msg *Message) (*Message, bool, error)
	// ListByConversationID returns all messages for a conversation ordered by
	// CreatedAt ascending.
	ListByConversationID(ctx context.Context, conversationID uint) ([]*Message, error)
	// CountByConversationID returns the number of messages in a conversation.
	CountByConversationID(ctx context.Context, conversationID uint) (int64, error)
}

// MaizeyGateway is the outbound surface toward the Maizey API.
type MaizeyGateway interface {
	CreateConversation(ctx context.Context) (*RemoteConversation, error)
	SendMessage(ctx context.Context, conversationPK int64, query string) (*RemoteMessage, error)
}
