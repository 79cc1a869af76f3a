package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/re-fagiano/Project-feffoemaurizia/internal/billing"
	"github.com/re-fagiano/Project-feffoemaurizia/internal/domain"
	"github.com/re-fagiano/Project-feffoemaurizia/internal/events"
	"github.com/re-fagiano/Project-feffoemaurizia/internal/repository"
	apperrors "github.com/re-fagiano/Project-feffoemaurizia/pkg/util"
)

// ContractService covers templates, client contracts and the hour-bank
// ledger.
type ContractService struct {
	templates repository.ContractTemplateRepository
	contracts repository.ClientContractRepository
	clients   repository.ClientRepository
	pool      TxStarter
	dispatcher events.Dispatcher
	policy    billing.Policy
	logger    *zap.Logger
}

// ContractDependencies bundles collaborators for the contract service.
type ContractDependencies struct {
	TemplateRepo repository.ContractTemplateRepository
	ContractRepo repository.ClientContractRepository
	ClientRepo   repository.ClientRepository
	Pool         TxStarter
	Dispatcher   events.Dispatcher
	Policy       billing.Policy
	Logger       *zap.Logger
}

// NewContractService constructs the service.
func NewContractService(deps ContractDependencies) *ContractService {
	return &ContractService{
		templates:  deps.TemplateRepo,
		contracts:  deps.ContractRepo,
		clients:    deps.ClientRepo,
		pool:       deps.Pool,
		dispatcher: deps.Dispatcher,
		policy:     deps.Policy,
		logger:     deps.Logger,
	}
}

// TemplateInput carries the editable fields of a contract template.
type TemplateInput struct {
	Name         string
	Kind         domain.ContractKind
	Description  *string
	Configurable bool
	Active       bool
}

// LineInput carries the editable fields of a template line.
type LineInput struct {
	LineKind      string
	Name          string
	Description   *string
	IncludedHours *int
	Amount        *float64
	ScopeID       *string
	WorkTypeID    *string
	Position      int
}

// ClientContractInput describes a client's subscription.
type ClientContractInput struct {
	ClientID         string
	TemplateID       *string
	CustomName       *string
	ActivatedOn      time.Time
	ExpiresOn        *time.Time
	Kind             domain.ContractKind
	FeeAmount        *float64
	FeeFrequency     *domain.FeeFrequency
	TotalHours       *int
	AlertThreshold   *int
	SignedAttachment *string
	Notes            *string
}

// UsageInput records one manual hour deduction.
type UsageInput struct {
	Hours          float64
	ContractLineID *string
	Note           *string
}

func validContractKind(k domain.ContractKind) bool {
	return k == domain.ContractFlatFee || k == domain.ContractHourBank
}

// CreateTemplate registers a contract template.
func (s *ContractService) CreateTemplate(ctx context.Context, input TemplateInput) (*domain.ContractTemplate, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, apperrors.NewValidationError("template name is required", nil)
	}
	if !validContractKind(input.Kind) {
		return nil, apperrors.NewValidationError("unknown contract kind", map[string]any{"kind": string(input.Kind)})
	}

	tpl := &domain.ContractTemplate{
		Name:         strings.TrimSpace(input.Name),
		Kind:         input.Kind,
		Description:  input.Description,
		Configurable: input.Configurable,
		Active:       input.Active,
	}
	if err := s.templates.Create(ctx, tpl); err != nil {
		return nil, apperrors.MapError(err)
	}
	return tpl, nil
}

// UpdateTemplate edits a contract template.
func (s *ContractService) UpdateTemplate(ctx context.Context, id string, input TemplateInput) (*domain.ContractTemplate, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, apperrors.NewValidationError("template name is required", nil)
	}
	if !validContractKind(input.Kind) {
		return nil, apperrors.NewValidationError("unknown contract kind", map[string]any{"kind": string(input.Kind)})
	}
	tpl, err := s.templates.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	tpl.Name = strings.TrimSpace(input.Name)
	tpl.Kind = input.Kind
	tpl.Description = input.Description
	tpl.Configurable = input.Configurable
	tpl.Active = input.Active

	if err := s.templates.Update(ctx, tpl); err != nil {
		return nil, apperrors.MapError(err)
	}
	return tpl, nil
}

// GetTemplate fetches a template with its lines.
func (s *ContractService) GetTemplate(ctx context.Context, id string) (*domain.ContractTemplate, error) {
	tpl, err := s.templates.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return tpl, nil
}

// ListTemplates returns templates, optionally filtered by active flag.
func (s *ContractService) ListTemplates(ctx context.Context, active *bool) ([]domain.ContractTemplate, error) {
	templates, err := s.templates.List(ctx, active)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return templates, nil
}

// AddLine appends a line to a template.
func (s *ContractService) AddLine(ctx context.Context, templateID string, input LineInput) (*domain.ContractLine, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, apperrors.NewValidationError("line name is required", nil)
	}
	if _, err := s.templates.GetByID(ctx, templateID); err != nil {
		return nil, apperrors.MapError(err)
	}

	line := &domain.ContractLine{
		TemplateID:    templateID,
		LineKind:      input.LineKind,
		Name:          strings.TrimSpace(input.Name),
		Description:   input.Description,
		IncludedHours: input.IncludedHours,
		Amount:        input.Amount,
		ScopeID:       input.ScopeID,
		WorkTypeID:    input.WorkTypeID,
		Position:      input.Position,
	}
	if line.LineKind == "" {
		line.LineKind = "servizio"
	}
	if err := s.templates.CreateLine(ctx, line); err != nil {
		return nil, apperrors.MapError(err)
	}
	return line, nil
}

// UpdateLine edits a template line.
func (s *ContractService) UpdateLine(ctx context.Context, lineID string, input LineInput) (*domain.ContractLine, error) {
	line, err := s.templates.GetLine(ctx, lineID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	line.LineKind = input.LineKind
	line.Name = strings.TrimSpace(input.Name)
	line.Description = input.Description
	line.IncludedHours = input.IncludedHours
	line.Amount = input.Amount
	line.ScopeID = input.ScopeID
	line.WorkTypeID = input.WorkTypeID
	line.Position = input.Position

	if err := s.templates.UpdateLine(ctx, line); err != nil {
		return nil, apperrors.MapError(err)
	}
	return line, nil
}

// RemoveLine deletes a template line.
func (s *ContractService) RemoveLine(ctx context.Context, lineID string) error {
	if err := s.templates.DeleteLine(ctx, lineID); err != nil {
		return apperrors.MapError(err)
	}
	return nil
}

// CreateClientContract subscribes a client. Hour-bank contracts need a
// total; flat-fee contracts need a fee and a frequency.
func (s *ContractService) CreateClientContract(ctx context.Context, input ClientContractInput) (*domain.ClientContract, error) {
	if !validContractKind(input.Kind) {
		return nil, apperrors.NewValidationError("unknown contract kind", map[string]any{"kind": string(input.Kind)})
	}
	client, err := s.clients.GetByID(ctx, input.ClientID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if !client.Active {
		return nil, apperrors.NewValidationError("client is deactivated", nil)
	}
	if input.TemplateID != nil {
		tpl, err := s.templates.GetByID(ctx, *input.TemplateID)
		if err != nil {
			return nil, apperrors.MapError(err)
		}
		if tpl.Kind != input.Kind {
			return nil, apperrors.NewValidationError("contract kind must match its template", map[string]any{
				"template_kind": string(tpl.Kind),
			})
		}
	}

	switch input.Kind {
	case domain.ContractHourBank:
		if input.TotalHours == nil || *input.TotalHours <= 0 {
			return nil, apperrors.NewValidationError("hour-bank contracts need a positive hour total", nil)
		}
	case domain.ContractFlatFee:
		if input.FeeAmount == nil || input.FeeFrequency == nil {
			return nil, apperrors.NewValidationError("flat-fee contracts need a fee amount and frequency", nil)
		}
	}

	threshold := 20
	if input.AlertThreshold != nil {
		if *input.AlertThreshold < 0 {
			return nil, apperrors.NewValidationError("alert threshold cannot be negative", nil)
		}
		threshold = *input.AlertThreshold
	}

	contract := &domain.ClientContract{
		ClientID:         input.ClientID,
		TemplateID:       input.TemplateID,
		CustomName:       input.CustomName,
		ActivatedOn:      input.ActivatedOn,
		ExpiresOn:        input.ExpiresOn,
		Kind:             input.Kind,
		FeeAmount:        input.FeeAmount,
		FeeFrequency:     input.FeeFrequency,
		TotalHours:       input.TotalHours,
		AlertThreshold:   threshold,
		State:            domain.ContractStateActive,
		SignedAttachment: input.SignedAttachment,
		Notes:            input.Notes,
	}
	if err := s.contracts.Create(ctx, contract); err != nil {
		return nil, apperrors.MapError(err)
	}
	return contract, nil
}

// UpdateClientContract edits a subscription's descriptive fields and
// state. Hour counters only move through usages and top-ups.
func (s *ContractService) UpdateClientContract(ctx context.Context, id string, customName *string, expiresOn *time.Time, alertThreshold *int, state *domain.ContractState, notes *string) (*domain.ClientContract, error) {
	contract, err := s.contracts.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	if customName != nil {
		contract.CustomName = customName
	}
	if expiresOn != nil {
		contract.ExpiresOn = expiresOn
	}
	if alertThreshold != nil {
		if *alertThreshold < 0 {
			return nil, apperrors.NewValidationError("alert threshold cannot be negative", nil)
		}
		contract.AlertThreshold = *alertThreshold
	}
	if state != nil {
		switch *state {
		case domain.ContractStateActive, domain.ContractStateExpired, domain.ContractStateSuspended,
			domain.ContractStateCancelled, domain.ContractStateExhausted:
			contract.State = *state
		default:
			return nil, apperrors.NewValidationError("unknown contract state", map[string]any{"state": string(*state)})
		}
	}
	if notes != nil {
		contract.Notes = notes
	}

	if err := s.contracts.Update(ctx, contract); err != nil {
		return nil, apperrors.MapError(err)
	}
	return contract, nil
}

// GetClientContract fetches one subscription.
func (s *ContractService) GetClientContract(ctx context.Context, id string) (*domain.ClientContract, error) {
	contract, err := s.contracts.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return contract, nil
}

// ListClientContracts returns subscriptions matching the filter.
func (s *ContractService) ListClientContracts(ctx context.Context, filter repository.ClientContractFilter) ([]domain.ClientContract, error) {
	contracts, err := s.contracts.List(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return contracts, nil
}

// RecordUsage deducts hours from a contract manually, outside activity
// billing. The ledger row and the counters commit together.
func (s *ContractService) RecordUsage(ctx context.Context, actorID, contractID string, input UsageInput) (*domain.ClientContract, error) {
	contract, err := s.contracts.GetByID(ctx, contractID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if contract.State != domain.ContractStateActive {
		return nil, apperrors.NewConflict("contract is not active", map[string]any{
			"contract_state": string(contract.State),
		})
	}

	updated, usage, lowHours, err := billing.RecordUsage(*contract, billing.UsageInput{
		Hours:          input.Hours,
		ContractLineID: input.ContractLineID,
		Note:           input.Note,
		RecordedByID:   &actorID,
		Now:            time.Now(),
	}, s.policy)
	if err != nil {
		return nil, err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	defer tx.Rollback(ctx)

	txContracts := s.contracts.WithTx(tx)
	if err := txContracts.InsertUsage(ctx, &usage); err != nil {
		return nil, apperrors.MapError(err)
	}
	if err := txContracts.UpdateAccounting(ctx, &updated, contract.UsedHours); err != nil {
		if errors.Is(err, repository.ErrStaleState) {
			return nil, apperrors.NewConflict("contract hours changed concurrently", map[string]any{
				"contract_id": contractID,
			})
		}
		return nil, apperrors.MapError(err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	if lowHours {
		s.publishLowHours(ctx, actorID, updated)
	}
	return &updated, nil
}

// TopUp adds hours to an hour-bank contract, reactivating it when
// exhausted.
func (s *ContractService) TopUp(ctx context.Context, actorID, contractID string, additional int, note *string) (*domain.ClientContract, error) {
	contract, err := s.contracts.GetByID(ctx, contractID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	updated, err := billing.TopUp(*contract, additional)
	if err != nil {
		return nil, err
	}
	if err := s.contracts.UpdateAccounting(ctx, &updated, contract.UsedHours); err != nil {
		if errors.Is(err, repository.ErrStaleState) {
			return nil, apperrors.NewConflict("contract hours changed concurrently", map[string]any{
				"contract_id": contractID,
			})
		}
		return nil, apperrors.MapError(err)
	}

	s.logger.Info("contract topped up",
		zap.String("contract_id", contractID),
		zap.Int("additional_hours", additional),
		zap.String("actor_id", actorID))
	return &updated, nil
}

// ListUsages returns the hour ledger of a contract.
func (s *ContractService) ListUsages(ctx context.Context, contractID string) ([]domain.ContractUsage, error) {
	usages, err := s.contracts.ListUsages(ctx, contractID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return usages, nil
}

func (s *ContractService) publishLowHours(ctx context.Context, actorID string, c domain.ClientContract) {
	remaining := 0.0
	if r := billing.RemainingHours(c); r != nil {
		remaining = *r
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventContractHoursLow,
		ActorID:   &actorID,
		Timestamp: time.Now(),
		Payload: events.ContractHoursLowPayload{
			ClientContractID: c.ID,
			ClientID:         c.ClientID,
			RemainingHours:   remaining,
			AlertThreshold:   c.AlertThreshold,
		},
	})
}
