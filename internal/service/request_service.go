package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/re-fagiano/Project-feffoemaurizia/internal/authz"
	"github.com/re-fagiano/Project-feffoemaurizia/internal/config"
	"github.com/re-fagiano/Project-feffoemaurizia/internal/domain"
	"github.com/re-fagiano/Project-feffoemaurizia/internal/events"
	"github.com/re-fagiano/Project-feffoemaurizia/internal/lifecycle"
	"github.com/re-fagiano/Project-feffoemaurizia/internal/repository"
	apperrors "github.com/re-fagiano/Project-feffoemaurizia/pkg/util"
)

// RequestService coordinates request workflows.
type RequestService struct {
	requests   repository.RequestRepository
	activities repository.ActivityRepository
	clients    repository.ClientRepository
	scopes     repository.ScopeRepository
	pool       TxStarter
	dispatcher events.Dispatcher
	cfg        config.AppConfig
	logger     *zap.Logger
}

// RequestDependencies bundles collaborators for the request service.
type RequestDependencies struct {
	RequestRepo  repository.RequestRepository
	ActivityRepo repository.ActivityRepository
	ClientRepo   repository.ClientRepository
	ScopeRepo    repository.ScopeRepository
	Pool         TxStarter
	Dispatcher   events.Dispatcher
	Config       config.AppConfig
	Logger       *zap.Logger
}

// NewRequestService constructs the service.
func NewRequestService(deps RequestDependencies) *RequestService {
	return &RequestService{
		requests:   deps.RequestRepo,
		activities: deps.ActivityRepo,
		clients:    deps.ClientRepo,
		scopes:     deps.ScopeRepo,
		pool:       deps.Pool,
		dispatcher: deps.Dispatcher,
		cfg:        deps.Config,
		logger:     deps.Logger,
	}
}

// RequestCreateInput describes a new request.
type RequestCreateInput struct {
	ClientID      string
	SiteID        *string
	ScopeID       *string
	Description   string
	Origin        domain.RequestOrigin
	Priority      string
	AppointmentAt *time.Time
	SupervisorID  *string
}

// RequestUpdateInput carries the mutable descriptive fields.
type RequestUpdateInput struct {
	SiteID        *string
	ScopeID       *string
	Description   *string
	Priority      *string
	AppointmentAt *time.Time
	SupervisorID  *string
}

// RequestTransitionInput drives one state change.
type RequestTransitionInput struct {
	Target domain.RequestState
	Reason string
}

var validOrigins = map[domain.RequestOrigin]bool{
	domain.OriginClient:      true,
	domain.OriginTechnician:  true,
	domain.OriginAdmin:       true,
	domain.OriginMonitoring:  true,
	domain.OriginSwitchboard: true,
	domain.OriginEmail:       true,
	domain.OriginScheduler:   true,
}

// Create registers a request. The starting state depends on the origin
// channel and a client principal can only open requests under its own
// account.
func (s *RequestService) Create(ctx context.Context, actor *domain.User, input RequestCreateInput) (*domain.Request, error) {
	if strings.TrimSpace(input.Description) == "" {
		return nil, apperrors.NewValidationError("description is required", nil)
	}
	if !validOrigins[input.Origin] {
		return nil, apperrors.NewValidationError("unknown origin", map[string]any{"origin": string(input.Origin)})
	}

	client, err := s.clients.GetByID(ctx, input.ClientID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if !client.Active {
		return nil, apperrors.NewValidationError("client is deactivated", map[string]any{"client_id": client.ID})
	}
	if input.ScopeID != nil {
		if _, err := s.scopes.GetByID(ctx, *input.ScopeID); err != nil {
			return nil, apperrors.MapError(err)
		}
	}

	priority := input.Priority
	if priority == "" {
		priority = "normale"
	}

	due := time.Now().AddDate(0, 0, s.cfg.ValidationDeadlineDays)
	req := &domain.Request{
		ClientID:      input.ClientID,
		SiteID:        input.SiteID,
		ScopeID:       input.ScopeID,
		Description:   strings.TrimSpace(input.Description),
		State:         lifecycle.InitialRequestState(input.Origin),
		Origin:        input.Origin,
		Priority:      priority,
		AppointmentAt: input.AppointmentAt,
		SupervisorID:  input.SupervisorID,
		ValidationDue: &due,
	}
	if actor != nil {
		req.CreatedByID = &actor.ID
	}

	if err := s.requests.Create(ctx, req); err != nil {
		return nil, apperrors.MapError(err)
	}

	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventRequestCreated,
		ActorID:   req.CreatedByID,
		Timestamp: time.Now(),
		Payload: events.RequestCreatedPayload{
			RequestID:   req.ID,
			Number:      req.Number,
			ClientID:    req.ClientID,
			Origin:      req.Origin,
			State:       req.State,
			Priority:    req.Priority,
			Description: req.Description,
		},
	})

	s.logger.Info("request created",
		zap.String("request_id", req.ID),
		zap.Int64("number", req.Number),
		zap.String("state", string(req.State)))
	return req, nil
}

// GetByID fetches one request with its activities. Clients only see their
// own requests.
func (s *RequestService) GetByID(ctx context.Context, actor *domain.User, id string) (*domain.Request, error) {
	req, err := s.requests.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if err := s.checkVisibility(actor, req); err != nil {
		return nil, err
	}

	acts, err := s.activities.List(ctx, repository.ActivityFilter{RequestID: &req.ID})
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	req.Activities = acts
	return req, nil
}

// List returns requests matching the filter. A client principal is pinned
// to its own rows.
func (s *RequestService) List(ctx context.Context, actor *domain.User, filter repository.RequestFilter) ([]domain.Request, error) {
	if actor != nil && actor.Role == domain.RoleClient {
		filter.CreatedByID = &actor.ID
	}
	requests, err := s.requests.List(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return requests, nil
}

// Update edits the descriptive fields; state never moves through here.
func (s *RequestService) Update(ctx context.Context, actor *domain.User, id string, input RequestUpdateInput) (*domain.Request, error) {
	req, err := s.requests.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if err := s.checkVisibility(actor, req); err != nil {
		return nil, err
	}

	if input.Description != nil {
		if strings.TrimSpace(*input.Description) == "" {
			return nil, apperrors.NewValidationError("description is required", nil)
		}
		req.Description = strings.TrimSpace(*input.Description)
	}
	if input.SiteID != nil {
		req.SiteID = input.SiteID
	}
	if input.ScopeID != nil {
		if _, err := s.scopes.GetByID(ctx, *input.ScopeID); err != nil {
			return nil, apperrors.MapError(err)
		}
		req.ScopeID = input.ScopeID
	}
	if input.Priority != nil {
		req.Priority = *input.Priority
	}
	if input.AppointmentAt != nil {
		req.AppointmentAt = input.AppointmentAt
	}
	if input.SupervisorID != nil {
		req.SupervisorID = input.SupervisorID
	}

	if err := s.requests.Update(ctx, req); err != nil {
		return nil, apperrors.MapError(err)
	}
	return req, nil
}

// Transition applies one lifecycle step. Reopening without a reason is
// refused; a concurrent transition on the same request surfaces as a
// conflict.
func (s *RequestService) Transition(ctx context.Context, actor *domain.User, id string, input RequestTransitionInput) (*domain.Request, error) {
	if actor == nil || !authz.CanTransition(actor.Role) {
		// clients may still validate or reopen their own resolved requests
		if actor == nil || actor.Role != domain.RoleClient ||
			(input.Target != domain.RequestStateValidated && input.Target != domain.RequestStateReopened) {
			return nil, apperrors.NewForbidden("role cannot change request state")
		}
	}
	if input.Target == domain.RequestStateReopened && strings.TrimSpace(input.Reason) == "" {
		return nil, apperrors.NewValidationError("a reason is required to reopen", nil)
	}

	req, err := s.requests.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if err := s.checkVisibility(actor, req); err != nil {
		return nil, err
	}

	previous := req.State
	updated, err := lifecycle.TransitionRequest(*req, lifecycle.RequestTransitionInput{
		Target:  input.Target,
		Reason:  strings.TrimSpace(input.Reason),
		ActorID: actor.ID,
		Now:     time.Now(),
	})
	if err != nil {
		return nil, err
	}

	if err := s.requests.UpdateStateGuarded(ctx, &updated, previous); err != nil {
		if errors.Is(err, repository.ErrStaleState) {
			return nil, apperrors.NewConflict("request state changed concurrently", map[string]any{
				"request_id": req.ID,
			})
		}
		return nil, apperrors.MapError(err)
	}

	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventRequestStateChanged,
		ActorID:   &actor.ID,
		Timestamp: time.Now(),
		Payload: events.RequestStateChangedPayload{
			RequestID: updated.ID,
			OldState:  previous,
			NewState:  updated.State,
			Reason:    input.Reason,
		},
	})

	s.logger.Info("request transitioned",
		zap.String("request_id", updated.ID),
		zap.String("from", string(previous)),
		zap.String("to", string(updated.State)))
	return &updated, nil
}

// Delete removes a request and, via cascade, everything under it.
func (s *RequestService) Delete(ctx context.Context, id string) error {
	if err := s.requests.Delete(ctx, id); err != nil {
		return apperrors.MapError(err)
	}
	s.logger.Info("request deleted", zap.String("request_id", id))
	return nil
}

func (s *RequestService) checkVisibility(actor *domain.User, req *domain.Request) error {
	if actor == nil || actor.Role != domain.RoleClient {
		return nil
	}
	if req.CreatedByID != nil && *req.CreatedByID == actor.ID {
		return nil
	}
	return apperrors.NewNotFound("request", map[string]any{"request_id": req.ID})
}
