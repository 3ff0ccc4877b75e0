package entities

import (
	"time"

	"maizey-chat/services/chat-api/internal/domain/chat"
)

// Conversation represents the database schema for conversations. The
// conversation_pk column mirrors Maizey's identifier space and is unique.
type Conversation struct {
	ID        uint      `gorm:"primaryKey"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime;index:idx_conversations_updated_at,sort:desc"`

	ConversationPK int64  `gorm:"column:conversation_pk;uniqueIndex:idx_conversations_conversation_pk;not null"`
	Title          string `gorm:"type:varchar(200);not null;default:'New Chat'"`
	UserID         int64  `gorm:"not null"`

	Messages []Message `gorm:"foreignKey:ConversationID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for Conversation.
func (Conversation) TableName() string {
	return "conversations"
}

// EtoD converts the database entity to the domain model.
func (c *Conversation) EtoD() *chat.Conversation {
	return &chat.Conversation{
		ID:             c.ID,
		ConversationPK: c.ConversationPK,
		Title:          c.Title,
		UserID:         c.UserID,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}
}

// NewSchemaConversation creates a database entity from the domain model.
func NewSchemaConversation(c *chat.Conversation) *Conversation {
	return &Conversation{
		ID:             c.ID,
		ConversationPK: c.ConversationPK,
		Title:          c.Title,
		UserID:         c.UserID,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}
}
