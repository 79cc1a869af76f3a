package dto

import (
	"time"

	"github.com/re-fagiano/Project-feffoemaurizia/internal/domain"
)

// CreateActivityRequest payload.
type CreateActivityRequest struct {
	RequestID         string     `json:"request_id"`
	WorkTypeID        *string    `json:"work_type_id"`
	Description       string     `json:"description"`
	Priority          string     `json:"priority"`
	ScheduledAt       *time.Time `json:"scheduled_at"`
	InternalNotes     *string    `json:"internal_notes"`
	ExternalReference *string    `json:"external_reference"`
	Resolving         bool       `json:"resolving"`
	TechnicianIDs     []string   `json:"technician_ids"`
}

// UpdateActivityRequest payload. Absent fields stay untouched.
type UpdateActivityRequest struct {
	WorkTypeID        *string    `json:"work_type_id"`
	Description       *string    `json:"description"`
	Priority          *string    `json:"priority"`
	ScheduledAt       *time.Time `json:"scheduled_at"`
	InternalNotes     *string    `json:"internal_notes"`
	ExternalReference *string    `json:"external_reference"`
	Resolving         *bool      `json:"resolving"`
}

// TransitionActivityRequest drives one state change.
type TransitionActivityRequest struct {
	State domain.ActivityState `json:"state"`
}

// SetBillingRequest classifies an activity's charge.
type SetBillingRequest struct {
	Kind             domain.BillingKind `json:"kind"`
	ClientContractID *string            `json:"client_contract_id"`
	ContractLineID   *string            `json:"contract_line_id"`
	Hours            *float64           `json:"hours"`
	Note             *string            `json:"note"`
}

// CheckInRequest starts a timer.
type CheckInRequest struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Note      *string  `json:"note"`
}

// CheckOutRequest closes a timer.
type CheckOutRequest struct {
	Note *string `json:"note"`
}

// AssignTechnicianRequest payload.
type AssignTechnicianRequest struct {
	TechnicianID string `json:"technician_id"`
}

// ActivityResponse is the public view of an activity.
type ActivityResponse struct {
	ID                string               `json:"id"`
	RequestID         string               `json:"request_id"`
	WorkTypeID        *string              `json:"work_type_id"`
	Description       string               `json:"description"`
	State             domain.ActivityState `json:"state"`
	Priority          string               `json:"priority"`
	ScheduledAt       *time.Time           `json:"scheduled_at"`
	InternalNotes     *string              `json:"internal_notes"`
	ExternalReference *string              `json:"external_reference"`
	Resolving         bool                 `json:"resolving"`
	BillingKind       *domain.BillingKind  `json:"billing_kind"`
	ClientContractID  *string              `json:"client_contract_id"`
	ContractLineID    *string              `json:"contract_line_id"`
	BilledHours       *float64             `json:"billed_hours"`
	Attachments       []string             `json:"attachments"`
	CreatedAt         time.Time            `json:"created_at"`
	UpdatedAt         time.Time            `json:"updated_at"`
}

// TimeEntryResponse is the public view of a time entry.
type TimeEntryResponse struct {
	ID              string     `json:"id"`
	ActivityID      string     `json:"activity_id"`
	TechnicianID    string     `json:"technician_id"`
	StartedAt       time.Time  `json:"started_at"`
	EndedAt         *time.Time `json:"ended_at"`
	DurationMinutes *int       `json:"duration_minutes"`
	StartLatitude   *float64   `json:"start_latitude"`
	StartLongitude  *float64   `json:"start_longitude"`
	Note            *string    `json:"note"`
}

// NewActivityResponse maps a domain activity.
func NewActivityResponse(a *domain.Activity) ActivityResponse {
	return ActivityResponse{
		ID:                a.ID,
		RequestID:         a.RequestID,
		WorkTypeID:        a.WorkTypeID,
		Description:       a.Description,
		State:             a.State,
		Priority:          a.Priority,
		ScheduledAt:       a.ScheduledAt,
		InternalNotes:     a.InternalNotes,
		ExternalReference: a.ExternalReference,
		Resolving:         a.Resolving,
		BillingKind:       a.BillingKind,
		ClientContractID:  a.ClientContractID,
		ContractLineID:    a.ContractLineID,
		BilledHours:       a.BilledHours,
		Attachments:       a.Attachments,
		CreatedAt:         a.CreatedAt,
		UpdatedAt:         a.UpdatedAt,
	}
}

// NewTimeEntryResponse maps a domain time entry.
func NewTimeEntryResponse(e *domain.TimeEntry) TimeEntryResponse {
	return TimeEntryResponse{
		ID:              e.ID,
		ActivityID:      e.ActivityID,
		TechnicianID:    e.TechnicianID,
		StartedAt:       e.StartedAt,
		EndedAt:         e.EndedAt,
		DurationMinutes: e.DurationMinutes,
		StartLatitude:   e.StartLatitude,
		StartLongitude:  e.StartLongitude,
		Note:            e.Note,
	}
}
