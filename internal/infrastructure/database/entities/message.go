package entities

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"

	"maizey-chat/services/chat-api/internal/domain/chat"
)

// Message stores one query/response exchange. The (conversation_id,
// message_id) pair is unique so concurrent reconciliation of the same remote
// message collapses to a single row.
type Message struct {
	ID        uint      `gorm:"primaryKey"`
	CreatedAt time.Time `gorm:"autoCreateTime;index:idx_messages_conversation_created,priority:2"`

	ConversationID uint           `gorm:"not null;uniqueIndex:idx_messages_conversation_message,priority:1;index:idx_messages_conversation_created,priority:1"`
	MessageID      int64          `gorm:"column:message_id;not null;uniqueIndex:idx_messages_conversation_message,priority:2"`
	Query          string         `gorm:"type:text;not null"`
	Response       string         `gorm:"type:text;not null;default:''"`
	Sources        datatypes.JSON `gorm:"type:jsonb"`
}

// TableName specifies the table name for Message.
func (Message) TableName() string {
	return "messages"
}

// EtoD converts the database entity to the domain model. A malformed or
// missing sources column decodes to an empty slice.
func (m *Message) EtoD() *chat.Message {
	sources := []chat.Source{}
	if len(m.Sources) > 0 {
		if err := json.Unmarshal(m.Sources, &sources); err != nil {
			sources = []chat.Source{}
		}
	}

	return &chat.Message{
		ID:             m.ID,
		ConversationID: m.ConversationID,
		MessageID:      m.MessageID,
		Query:          m.Query,
		Response:       m.Response,
		Sources:        sources,
		CreatedAt:      m.CreatedAt,
	}
}

// NewSchemaMessage creates a database entity from the domain model.
func NewSchemaMessage(m *chat.Message) *Message {
	sources := m.Sources
	if sources == nil {
		sources = []chat.Source{}
	}
	raw, err := json.Marshal(sources)
	if err != nil {
		raw = []byte("[]")
	}

	return &Message{
		ID:             m.ID,
		ConversationID: m.ConversationID,
		MessageID:      m.MessageID,
		Query:          m.Query,
		Response:       m.Response,
		Sources:        datatypes.JSON(raw),
		CreatedAt:      m.CreatedAt,
	}
}
