package service

import (
	"context"
	"strings"

	"github.com/re-fagiano/Project-feffoemaurizia/internal/domain"
	"github.com/re-fagiano/Project-feffoemaurizia/internal/repository"
	apperrors "github.com/re-fagiano/Project-feffoemaurizia/pkg/util"
)

// MasterdataService covers scopes and work types.
type MasterdataService struct {
	scopes    repository.ScopeRepository
	workTypes repository.WorkTypeRepository
	users     repository.UserRepository
}

// NewMasterdataService constructs the service.
func NewMasterdataService(scopes repository.ScopeRepository, workTypes repository.WorkTypeRepository, users repository.UserRepository) *MasterdataService {
	return &MasterdataService{scopes: scopes, workTypes: workTypes, users: users}
}

// ScopeInput carries the editable fields of a scope.
type ScopeInput struct {
	Name         string
	Description  *string
	SupervisorID *string
	Active       bool
}

// WorkTypeInput carries the editable fields of a work type.
type WorkTypeInput struct {
	Name             string
	Billable         bool
	ScopeID          *string
	EstimatedMinutes *int
	Active           bool
}

func (s *MasterdataService) checkSupervisor(ctx context.Context, id *string) error {
	if id == nil {
		return nil
	}
	user, err := s.users.GetByID(ctx, *id)
	if err != nil {
		return apperrors.MapError(err)
	}
	if user.Role != domain.RoleSupervisor && user.Role != domain.RoleAdmin {
		return apperrors.NewValidationError("supervisor must hold a supervisor or admin role", map[string]any{
			"role": string(user.Role),
		})
	}
	return nil
}

// CreateScope registers a scope.
func (s *MasterdataService) CreateScope(ctx context.Context, input ScopeInput) (*domain.Scope, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, apperrors.NewValidationError("scope name is required", nil)
	}
	if err := s.checkSupervisor(ctx, input.SupervisorID); err != nil {
		return nil, err
	}

	scope := &domain.Scope{
		Name:         strings.TrimSpace(input.Name),
		Description:  input.Description,
		SupervisorID: input.SupervisorID,
		Active:       input.Active,
	}
	if err := s.scopes.Create(ctx, scope); err != nil {
		if repository.IsUniqueViolation(err, "") {
			return nil, apperrors.NewConflict("a scope with this name already exists", nil)
		}
		return nil, apperrors.MapError(err)
	}
	return scope, nil
}

// UpdateScope edits a scope.
func (s *MasterdataService) UpdateScope(ctx context.Context, id string, input ScopeInput) (*domain.Scope, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, apperrors.NewValidationError("scope name is required", nil)
	}
	if err := s.checkSupervisor(ctx, input.SupervisorID); err != nil {
		return nil, err
	}
	scope, err := s.scopes.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	scope.Name = strings.TrimSpace(input.Name)
	scope.Description = input.Description
	scope.SupervisorID = input.SupervisorID
	scope.Active = input.Active

	if err := s.scopes.Update(ctx, scope); err != nil {
		if repository.IsUniqueViolation(err, "") {
			return nil, apperrors.NewConflict("a scope with this name already exists", nil)
		}
		return nil, apperrors.MapError(err)
	}
	return scope, nil
}

// GetScope fetches one scope.
func (s *MasterdataService) GetScope(ctx context.Context, id string) (*domain.Scope, error) {
	scope, err := s.scopes.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return scope, nil
}

// ListScopes returns scopes, optionally filtered by active flag.
func (s *MasterdataService) ListScopes(ctx context.Context, active *bool) ([]domain.Scope, error) {
	scopes, err := s.scopes.List(ctx, active)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return scopes, nil
}

// CreateWorkType registers a work type.
func (s *MasterdataService) CreateWorkType(ctx context.Context, input WorkTypeInput) (*domain.WorkType, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, apperrors.NewValidationError("work type name is required", nil)
	}
	if input.ScopeID != nil {
		if _, err := s.scopes.GetByID(ctx, *input.ScopeID); err != nil {
			return nil, apperrors.MapError(err)
		}
	}

	wt := &domain.WorkType{
		Name:             strings.TrimSpace(input.Name),
		Billable:         input.Billable,
		ScopeID:          input.ScopeID,
		EstimatedMinutes: input.EstimatedMinutes,
		Active:           input.Active,
	}
	if err := s.workTypes.Create(ctx, wt); err != nil {
		if repository.IsUniqueViolation(err, "") {
			return nil, apperrors.NewConflict("a work type with this name already exists", nil)
		}
		return nil, apperrors.MapError(err)
	}
	return wt, nil
}

// UpdateWorkType edits a work type.
func (s *MasterdataService) UpdateWorkType(ctx context.Context, id string, input WorkTypeInput) (*domain.WorkType, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, apperrors.NewValidationError("work type name is required", nil)
	}
	if input.ScopeID != nil {
		if _, err := s.scopes.GetByID(ctx, *input.ScopeID); err != nil {
			return nil, apperrors.MapError(err)
		}
	}
	wt, err := s.workTypes.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	wt.Name = strings.TrimSpace(input.Name)
	wt.Billable = input.Billable
	wt.ScopeID = input.ScopeID
	wt.EstimatedMinutes = input.EstimatedMinutes
	wt.Active = input.Active

	if err := s.workTypes.Update(ctx, wt); err != nil {
		if repository.IsUniqueViolation(err, "") {
			return nil, apperrors.NewConflict("a work type with this name already exists", nil)
		}
		return nil, apperrors.MapError(err)
	}
	return wt, nil
}

// GetWorkType fetches one work type.
func (s *MasterdataService) GetWorkType(ctx context.Context, id string) (*domain.WorkType, error) {
	wt, err := s.workTypes.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return wt, nil
}

// ListWorkTypes returns work types, optionally narrowed to a scope.
func (s *MasterdataService) ListWorkTypes(ctx context.Context, active *bool, scopeID *string) ([]domain.WorkType, error) {
	workTypes, err := s.workTypes.List(ctx, active, scopeID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return workTypes, nil
}
