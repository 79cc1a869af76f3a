package dto

import (
	"time"

	"github.com/re-fagiano/Project-feffoemaurizia/internal/domain"
)

// CreateRequestRequest payload.
type CreateRequestRequest struct {
	ClientID      string               `json:"client_id"`
	SiteID        *string              `json:"site_id"`
	ScopeID       *string              `json:"scope_id"`
	Description   string               `json:"description"`
	Origin        domain.RequestOrigin `json:"origin"`
	Priority      string               `json:"priority"`
	AppointmentAt *time.Time           `json:"appointment_at"`
	SupervisorID  *string              `json:"supervisor_id"`
}

// UpdateRequestRequest payload. Absent fields stay untouched.
type UpdateRequestRequest struct {
	SiteID        *string    `json:"site_id"`
	ScopeID       *string    `json:"scope_id"`
	Description   *string    `json:"description"`
	Priority      *string    `json:"priority"`
	AppointmentAt *time.Time `json:"appointment_at"`
	SupervisorID  *string    `json:"supervisor_id"`
}

// TransitionRequestRequest drives one state change.
type TransitionRequestRequest struct {
	State  domain.RequestState `json:"state"`
	Reason string              `json:"reason"`
}

// RequestSummary response.
type RequestSummary struct {
	ID          string               `json:"id"`
	Number      int64                `json:"number"`
	ClientID    string               `json:"client_id"`
	Description string               `json:"description"`
	State       domain.RequestState  `json:"state"`
	Origin      domain.RequestOrigin `json:"origin"`
	Priority    string               `json:"priority"`
	CreatedAt   time.Time            `json:"created_at"`
	UpdatedAt   time.Time            `json:"updated_at"`
}

// RequestDetailResponse provides the full request view.
type RequestDetailResponse struct {
	ID            string               `json:"id"`
	Number        int64                `json:"number"`
	ClientID      string               `json:"client_id"`
	SiteID        *string              `json:"site_id"`
	ScopeID       *string              `json:"scope_id"`
	Description   string               `json:"description"`
	State         domain.RequestState  `json:"state"`
	Origin        domain.RequestOrigin `json:"origin"`
	Priority      string               `json:"priority"`
	AppointmentAt *time.Time           `json:"appointment_at"`
	CreatedByID   *string              `json:"created_by_id"`
	SupervisorID  *string              `json:"supervisor_id"`
	AutoValidated *bool                `json:"auto_validated"`
	ValidatedByID *string              `json:"validated_by_id"`
	ValidatedAt   *time.Time           `json:"validated_at"`
	ValidationDue *time.Time           `json:"validation_due"`
	ReopenedAt    *time.Time           `json:"reopened_at"`
	ReopenReason  *string              `json:"reopen_reason"`
	Activities    []ActivityResponse   `json:"activities"`
	CreatedAt     time.Time            `json:"created_at"`
	UpdatedAt     time.Time            `json:"updated_at"`
}

// NewRequestSummary maps a domain request to its list view.
func NewRequestSummary(r *domain.Request) RequestSummary {
	return RequestSummary{
		ID:          r.ID,
		Number:      r.Number,
		ClientID:    r.ClientID,
		Description: r.Description,
		State:       r.State,
		Origin:      r.Origin,
		Priority:    r.Priority,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

// NewRequestDetail maps a domain request with activities.
func NewRequestDetail(r *domain.Request) RequestDetailResponse {
	resp := RequestDetailResponse{
		ID:            r.ID,
		Number:        r.Number,
		ClientID:      r.ClientID,
		SiteID:        r.SiteID,
		ScopeID:       r.ScopeID,
		Description:   r.Description,
		State:         r.State,
		Origin:        r.Origin,
		Priority:      r.Priority,
		AppointmentAt: r.AppointmentAt,
		CreatedByID:   r.CreatedByID,
		SupervisorID:  r.SupervisorID,
		AutoValidated: r.AutoValidated,
		ValidatedByID: r.ValidatedByID,
		ValidatedAt:   r.ValidatedAt,
		ValidationDue: r.ValidationDue,
		ReopenedAt:    r.ReopenedAt,
		ReopenReason:  r.ReopenReason,
		Activities:    []ActivityResponse{},
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
	for i := range r.Activities {
		resp.Activities = append(resp.Activities, NewActivityResponse(&r.Activities[i]))
	}
	return resp
}
