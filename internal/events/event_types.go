package events

import (
	"time"

	"github.com/re-fagiano/Project-feffoemaurizia/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventRequestCreated      EventType = "request_created"
	EventRequestStateChanged EventType = "request_state_changed"
	EventActivityCompleted   EventType = "activity_completed"
	EventContractHoursLow    EventType = "contract_hours_low"
	EventChatMessageAdded    EventType = "chat_message_added"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	ActorID   *string     `json:"actor_id,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// RequestCreatedPayload payload.
type RequestCreatedPayload struct {
	RequestID   string               `json:"request_id"`
	Number      int64                `json:"number"`
	ClientID    string               `json:"client_id"`
	Origin      domain.RequestOrigin `json:"origin"`
	State       domain.RequestState  `json:"state"`
	Priority    string               `json:"priority"`
	Description string               `json:"description"`
}

// RequestStateChangedPayload payload.
type RequestStateChangedPayload struct {
	RequestID string              `json:"request_id"`
	OldState  domain.RequestState `json:"old_state"`
	NewState  domain.RequestState `json:"new_state"`
	Reason    string              `json:"reason,omitempty"`
}

// ActivityCompletedPayload payload.
type ActivityCompletedPayload struct {
	ActivityID     string `json:"activity_id"`
	RequestID      string `json:"request_id"`
	Resolving      bool   `json:"resolving"`
	ParentResolved bool   `json:"parent_resolved"`
}

// ContractHoursLowPayload payload.
type ContractHoursLowPayload struct {
	ClientContractID string  `json:"client_contract_id"`
	ClientID         string  `json:"client_id"`
	RemainingHours   float64 `json:"remaining_hours"`
	AlertThreshold   int     `json:"alert_threshold"`
}

// ChatMessageAddedPayload payload.
type ChatMessageAddedPayload struct {
	MessageID string `json:"message_id"`
	RequestID string `json:"request_id"`
	Preview   string `json:"preview"`
}
