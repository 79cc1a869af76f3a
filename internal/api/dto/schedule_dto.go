package dto

import (
	"time"

	"github.com/re-fagiano/Project-feffoemaurizia/internal/domain"
)

// ScheduleRequest payload for create and update.
type ScheduleRequest struct {
	EntityKind     domain.ScheduleEntityKind  `json:"entity_kind"`
	EntityID       *string                    `json:"entity_id"`
	Name           string                     `json:"name"`
	ActionKind     domain.ScheduleActionKind  `json:"action_kind"`
	Frequency      domain.ScheduleFrequency   `json:"frequency"`
	CustomInterval *string                    `json:"custom_interval"`
	NoticeDays     int                        `json:"notice_days"`
	NextTrigger    *time.Time                 `json:"next_trigger"`
	Active         bool                       `json:"active"`
	ActionConfig   map[string]any             `json:"action_config"`
}

// ScheduleResponse is the public view of a schedule.
type ScheduleResponse struct {
	ID             string                    `json:"id"`
	EntityKind     domain.ScheduleEntityKind `json:"entity_kind"`
	EntityID       *string                   `json:"entity_id"`
	Name           string                    `json:"name"`
	ActionKind     domain.ScheduleActionKind `json:"action_kind"`
	Frequency      domain.ScheduleFrequency  `json:"frequency"`
	CustomInterval *string                   `json:"custom_interval"`
	NoticeDays     int                       `json:"notice_days"`
	LastTrigger    *time.Time                `json:"last_trigger"`
	NextTrigger    *time.Time                `json:"next_trigger"`
	Active         bool                      `json:"active"`
	ActionConfig   map[string]any            `json:"action_config"`
	CreatedAt      time.Time                 `json:"created_at"`
	UpdatedAt      time.Time                 `json:"updated_at"`
}

// NewScheduleResponse maps a domain schedule.
func NewScheduleResponse(s *domain.Schedule) ScheduleResponse {
	return ScheduleResponse{
		ID:             s.ID,
		EntityKind:     s.EntityKind,
		EntityID:       s.EntityID,
		Name:           s.Name,
		ActionKind:     s.ActionKind,
		Frequency:      s.Frequency,
		CustomInterval: s.CustomInterval,
		NoticeDays:     s.NoticeDays,
		LastTrigger:    s.LastTrigger,
		NextTrigger:    s.NextTrigger,
		Active:         s.Active,
		ActionConfig:   s.ActionConfig,
		CreatedAt:      s.CreatedAt,
		UpdatedAt:      s.UpdatedAt,
	}
}
