package dto

import (
	"time"

	"github.com/re-fagiano/Project-feffoemaurizia/internal/domain"
)

// TemplateRequest payload for create and update.
type TemplateRequest struct {
	Name         string              `json:"name"`
	Kind         domain.ContractKind `json:"kind"`
	Description  *string             `json:"description"`
	Configurable bool                `json:"configurable"`
	Active       bool                `json:"active"`
}

// LineRequest payload for create and update.
type LineRequest struct {
	LineKind      string   `json:"line_kind"`
	Name          string   `json:"name"`
	Description   *string  `json:"description"`
	IncludedHours *int     `json:"included_hours"`
	Amount        *float64 `json:"amount"`
	ScopeID       *string  `json:"scope_id"`
	WorkTypeID    *string  `json:"work_type_id"`
	Position      int      `json:"position"`
}

// CreateClientContractRequest payload.
type CreateClientContractRequest struct {
	ClientID         string               `json:"client_id"`
	TemplateID       *string              `json:"template_id"`
	CustomName       *string              `json:"custom_name"`
	ActivatedOn      time.Time            `json:"activated_on"`
	ExpiresOn        *time.Time           `json:"expires_on"`
	Kind             domain.ContractKind  `json:"kind"`
	FeeAmount        *float64             `json:"fee_amount"`
	FeeFrequency     *domain.FeeFrequency `json:"fee_frequency"`
	TotalHours       *int                 `json:"total_hours"`
	AlertThreshold   *int                 `json:"alert_threshold"`
	SignedAttachment *string              `json:"signed_attachment"`
	Notes            *string              `json:"notes"`
}

// UpdateClientContractRequest payload. Absent fields stay untouched.
type UpdateClientContractRequest struct {
	CustomName     *string               `json:"custom_name"`
	ExpiresOn      *time.Time            `json:"expires_on"`
	AlertThreshold *int                  `json:"alert_threshold"`
	State          *domain.ContractState `json:"state"`
	Notes          *string               `json:"notes"`
}

// UsageRequest records one manual hour deduction.
type UsageRequest struct {
	Hours          float64 `json:"hours"`
	ContractLineID *string `json:"contract_line_id"`
	Note           *string `json:"note"`
}

// TopUpRequest adds hours to an hour-bank contract.
type TopUpRequest struct {
	AdditionalHours int     `json:"additional_hours"`
	Note            *string `json:"note"`
}

// TemplateResponse is the public view of a contract template.
type TemplateResponse struct {
	ID           string              `json:"id"`
	Name         string              `json:"name"`
	Kind         domain.ContractKind `json:"kind"`
	Description  *string             `json:"description"`
	Configurable bool                `json:"configurable"`
	Active       bool                `json:"active"`
	Lines        []LineResponse      `json:"lines,omitempty"`
	CreatedAt    time.Time           `json:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at"`
}

// LineResponse is the public view of a template line.
type LineResponse struct {
	ID            string   `json:"id"`
	TemplateID    string   `json:"template_id"`
	LineKind      string   `json:"line_kind"`
	Name          string   `json:"name"`
	Description   *string  `json:"description"`
	IncludedHours *int     `json:"included_hours"`
	Amount        *float64 `json:"amount"`
	ScopeID       *string  `json:"scope_id"`
	WorkTypeID    *string  `json:"work_type_id"`
	Position      int      `json:"position"`
}

// ClientContractResponse is the public view of a subscription.
type ClientContractResponse struct {
	ID               string               `json:"id"`
	ClientID         string               `json:"client_id"`
	TemplateID       *string              `json:"template_id"`
	CustomName       *string              `json:"custom_name"`
	ActivatedOn      time.Time            `json:"activated_on"`
	ExpiresOn        *time.Time           `json:"expires_on"`
	Kind             domain.ContractKind  `json:"kind"`
	FeeAmount        *float64             `json:"fee_amount"`
	FeeFrequency     *domain.FeeFrequency `json:"fee_frequency"`
	TotalHours       *int                 `json:"total_hours"`
	UsedHours        float64              `json:"used_hours"`
	RemainingHours   *float64             `json:"remaining_hours"`
	AlertThreshold   int                  `json:"alert_threshold"`
	State            domain.ContractState `json:"state"`
	SignedAttachment *string              `json:"signed_attachment"`
	Notes            *string              `json:"notes"`
	CreatedAt        time.Time            `json:"created_at"`
	UpdatedAt        time.Time            `json:"updated_at"`
}

// UsageResponse is the public view of a ledger entry.
type UsageResponse struct {
	ID               string    `json:"id"`
	ClientContractID string    `json:"client_contract_id"`
	ActivityID       *string   `json:"activity_id"`
	ContractLineID   *string   `json:"contract_line_id"`
	Hours            float64   `json:"hours"`
	UsedOn           time.Time `json:"used_on"`
	Note             *string   `json:"note"`
	RecordedByID     *string   `json:"recorded_by_id"`
	CreatedAt        time.Time `json:"created_at"`
}

// NewTemplateResponse maps a domain template.
func NewTemplateResponse(t *domain.ContractTemplate) TemplateResponse {
	resp := TemplateResponse{
		ID:           t.ID,
		Name:         t.Name,
		Kind:         t.Kind,
		Description:  t.Description,
		Configurable: t.Configurable,
		Active:       t.Active,
		CreatedAt:    t.CreatedAt,
		UpdatedAt:    t.UpdatedAt,
	}
	for i := range t.Lines {
		resp.Lines = append(resp.Lines, NewLineResponse(&t.Lines[i]))
	}
	return resp
}

// NewLineResponse maps a domain line.
func NewLineResponse(l *domain.ContractLine) LineResponse {
	return LineResponse{
		ID:            l.ID,
		TemplateID:    l.TemplateID,
		LineKind:      l.LineKind,
		Name:          l.Name,
		Description:   l.Description,
		IncludedHours: l.IncludedHours,
		Amount:        l.Amount,
		ScopeID:       l.ScopeID,
		WorkTypeID:    l.WorkTypeID,
		Position:      l.Position,
	}
}

// NewClientContractResponse maps a subscription, remaining hours included.
func NewClientContractResponse(c *domain.ClientContract, remaining *float64) ClientContractResponse {
	return ClientContractResponse{
		ID:               c.ID,
		ClientID:         c.ClientID,
		TemplateID:       c.TemplateID,
		CustomName:       c.CustomName,
		ActivatedOn:      c.ActivatedOn,
		ExpiresOn:        c.ExpiresOn,
		Kind:             c.Kind,
		FeeAmount:        c.FeeAmount,
		FeeFrequency:     c.FeeFrequency,
		TotalHours:       c.TotalHours,
		UsedHours:        c.UsedHours,
		RemainingHours:   remaining,
		AlertThreshold:   c.AlertThreshold,
		State:            c.State,
		SignedAttachment: c.SignedAttachment,
		Notes:            c.Notes,
		CreatedAt:        c.CreatedAt,
		UpdatedAt:        c.UpdatedAt,
	}
}

// NewUsageResponse maps a ledger entry.
func NewUsageResponse(u *domain.ContractUsage) UsageResponse {
	return UsageResponse{
		ID:               u.ID,
		ClientContractID: u.ClientContractID,
		ActivityID:       u.ActivityID,
		ContractLineID:   u.ContractLineID,
		Hours:            u.Hours,
		UsedOn:           u.UsedOn,
		Note:             u.Note,
		RecordedByID:     u.RecordedByID,
		CreatedAt:        u.CreatedAt,
	}
}
