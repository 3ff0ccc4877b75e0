package chatrequests

import "strings"

// SendMessageRequest carries the user's query for a conversation.
type SendMessageRequest struct {
	Query string `json:"query" binding:"required,min=1,max=1000"`
}

// Validate rejects queries that are whitespace only. Length limits are
// enforced by the binding tags.
func (r *SendMessageRequest) Validate() bool {
	return strings.TrimSpace(r.Query) != ""
}
