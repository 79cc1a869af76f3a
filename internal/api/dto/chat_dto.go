package dto

import (
	"time"

	"github.com/re-fagiano/Project-feffoemaurizia/internal/domain"
)

// ChatMessageRequest payload.
type ChatMessageRequest struct {
	Body        string   `json:"body"`
	Attachments []string `json:"attachments"`
}

// ChatMessageResponse is the public view of a message.
type ChatMessageResponse struct {
	ID          string    `json:"id"`
	RequestID   string    `json:"request_id"`
	AuthorID    *string   `json:"author_id"`
	Body        string    `json:"body"`
	Read        bool      `json:"read"`
	Attachments []string  `json:"attachments"`
	CreatedAt   time.Time `json:"created_at"`
}

// UnreadCountResponse carries the unread counter of a thread.
type UnreadCountResponse struct {
	RequestID string `json:"request_id"`
	Unread    int64  `json:"unread"`
}

// NewChatMessageResponse maps a domain message.
func NewChatMessageResponse(m *domain.ChatMessage) ChatMessageResponse {
	return ChatMessageResponse{
		ID:          m.ID,
		RequestID:   m.RequestID,
		AuthorID:    m.AuthorID,
		Body:        m.Body,
		Read:        m.Read,
		Attachments: m.Attachments,
		CreatedAt:   m.CreatedAt,
	}
}
