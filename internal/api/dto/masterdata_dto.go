package dto

import (
	"time"

	"github.com/re-fagiano/Project-feffoemaurizia/internal/domain"
)

// ScopeRequest payload for create and update.
type ScopeRequest struct {
	Name         string  `json:"name"`
	Description  *string `json:"description"`
	SupervisorID *string `json:"supervisor_id"`
	Active       bool    `json:"active"`
}

// ScopeResponse is the public view of a scope.
type ScopeResponse struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Description  *string   `json:"description"`
	SupervisorID *string   `json:"supervisor_id"`
	Active       bool      `json:"active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// WorkTypeRequest payload for create and update.
type WorkTypeRequest struct {
	Name             string  `json:"name"`
	Billable         bool    `json:"billable"`
	ScopeID          *string `json:"scope_id"`
	EstimatedMinutes *int    `json:"estimated_minutes"`
	Active           bool    `json:"active"`
}

// WorkTypeResponse is the public view of a work type.
type WorkTypeResponse struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Billable         bool      `json:"billable"`
	ScopeID          *string   `json:"scope_id"`
	EstimatedMinutes *int      `json:"estimated_minutes"`
	Active           bool      `json:"active"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// NewScopeResponse maps a domain scope.
func NewScopeResponse(s *domain.Scope) ScopeResponse {
	return ScopeResponse{
		ID:           s.ID,
		Name:         s.Name,
		Description:  s.Description,
		SupervisorID: s.SupervisorID,
		Active:       s.Active,
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
	}
}

// NewWorkTypeResponse maps a domain work type.
func NewWorkTypeResponse(wt *domain.WorkType) WorkTypeResponse {
	return WorkTypeResponse{
		ID:               wt.ID,
		Name:             wt.Name,
		Billable:         wt.Billable,
		ScopeID:          wt.ScopeID,
		EstimatedMinutes: wt.EstimatedMinutes,
		Active:           wt.Active,
		CreatedAt:        wt.CreatedAt,
		UpdatedAt:        wt.UpdatedAt,
	}
}
