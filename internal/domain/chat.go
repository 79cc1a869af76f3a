package domain

import "time"

// ChatMessage is one entry of a request's conversation thread.
type ChatMessage struct {
	ID          string
	RequestID   string
	AuthorID    *string
	Body        string
	Read        bool
	Attachments []string
	CreatedAt   time.Time
}
