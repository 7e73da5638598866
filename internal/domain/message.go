package domain

import "time"

// ConversationMessage is a system message appended to a rental's
// conversation channel. The chat transport itself is an external
// collaborator; this engine only appends.
type ConversationMessage struct {
	ID             int32     `json:"id"`
	ConversationID int32     `json:"conversation_id"`
	Body           string    `json:"body"`
	System         bool      `json:"system"`
	CreatedOn      time.Time `json:"created_on"`
}

// Notification is a persisted notification row surfaced on dashboards,
// written by the reminder sweep alongside email.
type Notification struct {
	ID         int32             `json:"id"`
	ProfileID  int32             `json:"profile_id"`
	Title      string            `json:"title"`
	Message    string            `json:"message"`
	IsRead     bool              `json:"is_read"`
	Attributes map[string]string `json:"attributes"`
	CreatedOn  time.Time         `json:"created_on"`
}
