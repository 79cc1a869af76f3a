package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/re-fagiano/Project-feffoemaurizia/internal/billing"
	"github.com/re-fagiano/Project-feffoemaurizia/internal/domain"
	"github.com/re-fagiano/Project-feffoemaurizia/internal/events"
	"github.com/re-fagiano/Project-feffoemaurizia/internal/lifecycle"
	"github.com/re-fagiano/Project-feffoemaurizia/internal/repository"
	apperrors "github.com/re-fagiano/Project-feffoemaurizia/pkg/util"
)

// ActivityService coordinates activity workflows: planning, lifecycle,
// time tracking and billing classification.
type ActivityService struct {
	activities repository.ActivityRepository
	requests   repository.RequestRepository
	timeEntries repository.TimeEntryRepository
	contracts  repository.ClientContractRepository
	workTypes  repository.WorkTypeRepository
	users      repository.UserRepository
	pool       TxStarter
	dispatcher events.Dispatcher
	policy     billing.Policy
	logger     *zap.Logger
}

// ActivityDependencies bundles collaborators for the activity service.
type ActivityDependencies struct {
	ActivityRepo  repository.ActivityRepository
	RequestRepo   repository.RequestRepository
	TimeEntryRepo repository.TimeEntryRepository
	ContractRepo  repository.ClientContractRepository
	WorkTypeRepo  repository.WorkTypeRepository
	UserRepo      repository.UserRepository
	Pool          TxStarter
	Dispatcher    events.Dispatcher
	Policy        billing.Policy
	Logger        *zap.Logger
}

// NewActivityService constructs the service.
func NewActivityService(deps ActivityDependencies) *ActivityService {
	return &ActivityService{
		activities:  deps.ActivityRepo,
		requests:    deps.RequestRepo,
		timeEntries: deps.TimeEntryRepo,
		contracts:   deps.ContractRepo,
		workTypes:   deps.WorkTypeRepo,
		users:       deps.UserRepo,
		pool:        deps.Pool,
		dispatcher:  deps.Dispatcher,
		policy:      deps.Policy,
		logger:      deps.Logger,
	}
}

// ActivityCreateInput describes a new activity.
type ActivityCreateInput struct {
	RequestID         string
	WorkTypeID        *string
	Description       string
	Priority          string
	ScheduledAt       *time.Time
	InternalNotes     *string
	ExternalReference *string
	Resolving         bool
	TechnicianIDs     []string
}

// ActivityUpdateInput carries the mutable descriptive fields.
type ActivityUpdateInput struct {
	WorkTypeID        *string
	Description       *string
	Priority          *string
	ScheduledAt       *time.Time
	InternalNotes     *string
	ExternalReference *string
	Resolving         *bool
}

// BillingInput classifies how a completed activity is charged.
type BillingInput struct {
	Kind             domain.BillingKind
	ClientContractID *string
	ContractLineID   *string
	Hours            *float64
	Note             *string
}

var validBillingKinds = map[domain.BillingKind]bool{
	domain.BillingPaid:     true,
	domain.BillingContract: true,
	domain.BillingHourBank: true,
	domain.BillingIncluded: true,
}

// CheckInInput starts a timer.
type CheckInInput struct {
	Latitude  *float64
	Longitude *float64
	Note      *string
}

// Create adds an activity under a request. Creating the first activity of
// a request in stato da_gestire advances the request, atomically with the
// insert.
func (s *ActivityService) Create(ctx context.Context, input ActivityCreateInput) (*domain.Activity, error) {
	if strings.TrimSpace(input.Description) == "" {
		return nil, apperrors.NewValidationError("description is required", nil)
	}

	req, err := s.requests.GetByID(ctx, input.RequestID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if req.State != domain.RequestStateToHandle && req.State != domain.RequestStateInProgress &&
		req.State != domain.RequestStateReopened {
		return nil, apperrors.NewConflict("request does not accept new activities in its current state", map[string]any{
			"request_state": string(req.State),
		})
	}
	if input.WorkTypeID != nil {
		if _, err := s.workTypes.GetByID(ctx, *input.WorkTypeID); err != nil {
			return nil, apperrors.MapError(err)
		}
	}
	for _, techID := range input.TechnicianIDs {
		tech, err := s.users.GetByID(ctx, techID)
		if err != nil {
			return nil, apperrors.MapError(err)
		}
		if tech.Role == domain.RoleClient {
			return nil, apperrors.NewValidationError("clients cannot be assigned to activities", map[string]any{
				"user_id": techID,
			})
		}
	}

	priority := input.Priority
	if priority == "" {
		priority = req.Priority
	}
	act := &domain.Activity{
		RequestID:         req.ID,
		WorkTypeID:        input.WorkTypeID,
		Description:       strings.TrimSpace(input.Description),
		State:             domain.ActivityStatePlanned,
		Priority:          priority,
		ScheduledAt:       input.ScheduledAt,
		InternalNotes:     input.InternalNotes,
		ExternalReference: input.ExternalReference,
		Resolving:         input.Resolving,
		Attachments:       []string{},
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	defer tx.Rollback(ctx)

	txActivities := s.activities.WithTx(tx)
	if err := txActivities.Create(ctx, act); err != nil {
		return nil, apperrors.MapError(err)
	}
	for _, techID := range input.TechnicianIDs {
		if err := txActivities.AssignTechnician(ctx, act.ID, techID); err != nil {
			return nil, apperrors.MapError(err)
		}
	}

	if next, moved := lifecycle.OnActivityCreated(req.State); moved {
		previous := req.State
		req.State = next
		if err := s.requests.WithTx(tx).UpdateStateGuarded(ctx, req, previous); err != nil {
			if errors.Is(err, repository.ErrStaleState) {
				return nil, apperrors.NewConflict("request state changed concurrently", nil)
			}
			return nil, apperrors.MapError(err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	s.logger.Info("activity created",
		zap.String("activity_id", act.ID),
		zap.String("request_id", req.ID))
	return act, nil
}

// GetByID fetches one activity with its time entries attached by the
// handler when needed.
func (s *ActivityService) GetByID(ctx context.Context, id string) (*domain.Activity, error) {
	act, err := s.activities.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return act, nil
}

// List returns activities matching the filter.
func (s *ActivityService) List(ctx context.Context, filter repository.ActivityFilter) ([]domain.Activity, error) {
	acts, err := s.activities.List(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return acts, nil
}

// Update edits the descriptive fields of an activity.
func (s *ActivityService) Update(ctx context.Context, id string, input ActivityUpdateInput) (*domain.Activity, error) {
	act, err := s.activities.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	if input.Description != nil {
		if strings.TrimSpace(*input.Description) == "" {
			return nil, apperrors.NewValidationError("description is required", nil)
		}
		act.Description = strings.TrimSpace(*input.Description)
	}
	if input.WorkTypeID != nil {
		if _, err := s.workTypes.GetByID(ctx, *input.WorkTypeID); err != nil {
			return nil, apperrors.MapError(err)
		}
		act.WorkTypeID = input.WorkTypeID
	}
	if input.Priority != nil {
		act.Priority = *input.Priority
	}
	if input.ScheduledAt != nil {
		act.ScheduledAt = input.ScheduledAt
	}
	if input.InternalNotes != nil {
		act.InternalNotes = input.InternalNotes
	}
	if input.ExternalReference != nil {
		act.ExternalReference = input.ExternalReference
	}
	if input.Resolving != nil {
		act.Resolving = *input.Resolving
	}

	if err := s.activities.Update(ctx, act); err != nil {
		return nil, apperrors.MapError(err)
	}
	return act, nil
}

// Transition applies one lifecycle step. Completing a resolving activity
// also resolves the parent request, both writes in one transaction.
func (s *ActivityService) Transition(ctx context.Context, actorID string, id string, target domain.ActivityState) (*domain.Activity, error) {
	act, err := s.activities.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	req, err := s.requests.GetByID(ctx, act.RequestID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	previous := act.State
	updated, effect, err := lifecycle.TransitionActivity(*act, target, req.State)
	if err != nil {
		return nil, err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	defer tx.Rollback(ctx)

	if err := s.activities.WithTx(tx).UpdateStateGuarded(ctx, &updated, previous); err != nil {
		if errors.Is(err, repository.ErrStaleState) {
			return nil, apperrors.NewConflict("activity state changed concurrently", map[string]any{
				"activity_id": act.ID,
			})
		}
		return nil, apperrors.MapError(err)
	}

	parentResolved := false
	if effect.ResolveParent {
		prevReqState := req.State
		resolved, err := lifecycle.TransitionRequest(*req, lifecycle.RequestTransitionInput{
			Target:  domain.RequestStateResolved,
			ActorID: actorID,
			Now:     time.Now(),
		})
		if err != nil {
			return nil, err
		}
		if err := s.requests.WithTx(tx).UpdateStateGuarded(ctx, &resolved, prevReqState); err != nil {
			if errors.Is(err, repository.ErrStaleState) {
				return nil, apperrors.NewConflict("request state changed concurrently", nil)
			}
			return nil, apperrors.MapError(err)
		}
		parentResolved = true
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	if updated.State == domain.ActivityStateCompleted {
		_ = s.dispatcher.Publish(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventActivityCompleted,
			ActorID:   &actorID,
			Timestamp: time.Now(),
			Payload: events.ActivityCompletedPayload{
				ActivityID:     updated.ID,
				RequestID:      updated.RequestID,
				Resolving:      updated.Resolving,
				ParentResolved: parentResolved,
			},
		})
	}

	s.logger.Info("activity transitioned",
		zap.String("activity_id", updated.ID),
		zap.String("from", string(previous)),
		zap.String("to", string(updated.State)),
		zap.Bool("parent_resolved", parentResolved))
	return &updated, nil
}

// SetBilling classifies the charge of a completed activity. For hour-bank
// billing the contract deduction and the activity update commit together.
func (s *ActivityService) SetBilling(ctx context.Context, actorID string, id string, input BillingInput) (*domain.Activity, error) {
	act, err := s.activities.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if act.State != domain.ActivityStateCompleted {
		return nil, apperrors.NewConflict("only completed activities can be billed", map[string]any{
			"activity_state": string(act.State),
		})
	}
	if !validBillingKinds[input.Kind] {
		return nil, apperrors.NewValidationError("unknown billing kind", map[string]any{
			"kind": string(input.Kind),
		})
	}

	kind := input.Kind
	act.BillingKind = &kind
	act.ClientContractID = input.ClientContractID
	act.ContractLineID = input.ContractLineID
	act.BilledHours = input.Hours

	if kind != domain.BillingHourBank {
		if err := s.activities.SetBilling(ctx, act); err != nil {
			return nil, apperrors.MapError(err)
		}
		return act, nil
	}

	if input.ClientContractID == nil {
		return nil, apperrors.NewValidationError("hour-bank billing requires a contract", nil)
	}
	if input.Hours == nil {
		return nil, apperrors.NewValidationError("hour-bank billing requires the hours to deduct", nil)
	}

	contract, err := s.contracts.GetByID(ctx, *input.ClientContractID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if contract.State != domain.ContractStateActive {
		return nil, apperrors.NewConflict("contract is not active", map[string]any{
			"contract_state": string(contract.State),
		})
	}

	updatedContract, usage, lowHours, err := billing.RecordUsage(*contract, billing.UsageInput{
		Hours:          *input.Hours,
		ActivityID:     &act.ID,
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
	if err := txContracts.UpdateAccounting(ctx, &updatedContract, contract.UsedHours); err != nil {
		if errors.Is(err, repository.ErrStaleState) {
			return nil, apperrors.NewConflict("contract hours changed concurrently", map[string]any{
				"contract_id": contract.ID,
			})
		}
		return nil, apperrors.MapError(err)
	}
	if err := s.activities.WithTx(tx).SetBilling(ctx, act); err != nil {
		return nil, apperrors.MapError(err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	if lowHours {
		remaining := 0.0
		if r := billing.RemainingHours(updatedContract); r != nil {
			remaining = *r
		}
		_ = s.dispatcher.Publish(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventContractHoursLow,
			ActorID:   &actorID,
			Timestamp: time.Now(),
			Payload: events.ContractHoursLowPayload{
				ClientContractID: updatedContract.ID,
				ClientID:         updatedContract.ClientID,
				RemainingHours:   remaining,
				AlertThreshold:   updatedContract.AlertThreshold,
			},
		})
	}
	return act, nil
}

// CheckIn opens a timer on an activity for a technician. The partial
// unique index on open entries backs the lookup against concurrent
// check-ins.
func (s *ActivityService) CheckIn(ctx context.Context, technicianID, activityID string, input CheckInInput) (*domain.TimeEntry, error) {
	act, err := s.activities.GetByID(ctx, activityID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if act.State == domain.ActivityStateCompleted {
		return nil, apperrors.NewConflict("activity is already completed", nil)
	}

	hasOpen := true
	if _, err := s.timeEntries.FindOpen(ctx, activityID, technicianID); err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.MapError(err)
		}
		hasOpen = false
	}

	entry, updatedAct, moved, err := lifecycle.CheckIn(*act, hasOpen, lifecycle.CheckInInput{
		TechnicianID: technicianID,
		Latitude:     input.Latitude,
		Longitude:    input.Longitude,
		Note:         input.Note,
		Now:          time.Now(),
	})
	if err != nil {
		return nil, err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	defer tx.Rollback(ctx)

	if err := s.timeEntries.WithTx(tx).Create(ctx, &entry); err != nil {
		if repository.IsUniqueViolation(err, "uniq_open_time_entry") {
			return nil, apperrors.NewConflict("timer already running for this activity", nil)
		}
		return nil, apperrors.MapError(err)
	}
	if moved {
		if err := s.activities.WithTx(tx).UpdateStateGuarded(ctx, &updatedAct, act.State); err != nil {
			if errors.Is(err, repository.ErrStaleState) {
				return nil, apperrors.NewConflict("activity state changed concurrently", nil)
			}
			return nil, apperrors.MapError(err)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	s.logger.Info("technician checked in",
		zap.String("activity_id", activityID),
		zap.String("technician_id", technicianID))
	return &entry, nil
}

// CheckOut closes the caller's open timer on an activity.
func (s *ActivityService) CheckOut(ctx context.Context, technicianID, activityID string, note *string) (*domain.TimeEntry, error) {
	open, err := s.timeEntries.FindOpen(ctx, activityID, technicianID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewConflict("no running timer for this activity", map[string]any{
				"activity_id": activityID,
			})
		}
		return nil, apperrors.MapError(err)
	}

	closed, err := lifecycle.CheckOut(*open, time.Now(), note)
	if err != nil {
		return nil, err
	}
	if err := s.timeEntries.Close(ctx, &closed); err != nil {
		if errors.Is(err, repository.ErrStaleState) {
			return nil, apperrors.NewConflict("timer already closed", nil)
		}
		return nil, apperrors.MapError(err)
	}

	s.logger.Info("technician checked out",
		zap.String("activity_id", activityID),
		zap.String("technician_id", technicianID),
		zap.Intp("duration_minutes", closed.DurationMinutes))
	return &closed, nil
}

// ListTimeEntries returns the time entries of an activity.
func (s *ActivityService) ListTimeEntries(ctx context.Context, activityID string) ([]domain.TimeEntry, error) {
	entries, err := s.timeEntries.ListByActivity(ctx, activityID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return entries, nil
}

// AssignTechnician adds a technician to an activity.
func (s *ActivityService) AssignTechnician(ctx context.Context, activityID, technicianID string) error {
	tech, err := s.users.GetByID(ctx, technicianID)
	if err != nil {
		return apperrors.MapError(err)
	}
	if tech.Role == domain.RoleClient {
		return apperrors.NewValidationError("clients cannot be assigned to activities", nil)
	}
	if _, err := s.activities.GetByID(ctx, activityID); err != nil {
		return apperrors.MapError(err)
	}
	if err := s.activities.AssignTechnician(ctx, activityID, technicianID); err != nil {
		return apperrors.MapError(err)
	}
	return nil
}

// UnassignTechnician removes a technician from an activity.
func (s *ActivityService) UnassignTechnician(ctx context.Context, activityID, technicianID string) error {
	if err := s.activities.UnassignTechnician(ctx, activityID, technicianID); err != nil {
		return apperrors.MapError(err)
	}
	return nil
}

// Delete removes an activity and its time entries.
func (s *ActivityService) Delete(ctx context.Context, id string) error {
	if err := s.activities.Delete(ctx, id); err != nil {
		return apperrors.MapError(err)
	}
	return nil
}
