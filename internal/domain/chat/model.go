package chat

import (
	"encoding/json"
	"time"
)

// DefaultTitle is assigned to conversations whose remote record carries no title.
const DefaultTitle = "New Chat"

// Conversation mirrors a Maizey conversation persisted locally. ID is the
// local surrogate key; ConversationPK is the identifier assigned by Maizey
// and is never generated locally.
type Conversation struct {
	ID             uint
	ConversationPK int64
	Title          string
	UserID         int64
	MessageCount   int64
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Source is one opaque source reference attached to a Maizey answer.
type Source map[string]any

// Message is a single query/response exchange within a conversation.
// MessageID is the identifier assigned by Maizey.
type Message struct {
	ID             uint
	ConversationID uint
	MessageID      int64
	Query          string
	Response       string
	Sources        []Source
	CreatedAt      time.Time
}

// RemoteConversation is the reconciled shape of a Maizey create-conversation
// response.
type RemoteConversation struct {
	PK     int64
	Title  string
	UserID int64
}

// RemoteMessage is the reconciled shape of a Maizey send-message response.
// Raw preserves the upstream payload verbatim; the send-message endpoint
// returns it untouched.
type RemoteMessage struct {
	ID       int64
	Query    string
	Response string
	Sources  []Source
	Raw      json.RawMessage
}
