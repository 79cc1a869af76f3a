package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/re-fagiano/Project-feffoemaurizia/internal/auth"
	"github.com/re-fagiano/Project-feffoemaurizia/internal/config"
	"github.com/re-fagiano/Project-feffoemaurizia/internal/domain"
	"github.com/re-fagiano/Project-feffoemaurizia/internal/repository"
	apperrors "github.com/re-fagiano/Project-feffoemaurizia/pkg/util"
)

// UserService covers administrator management of principals.
type UserService struct {
	users  repository.UserRepository
	pool   TxStarter
	cfg    config.AuthConfig
	logger *zap.Logger
}

// NewUserService constructs the service.
func NewUserService(users repository.UserRepository, pool TxStarter, cfg config.AuthConfig, logger *zap.Logger) *UserService {
	return &UserService{users: users, pool: pool, cfg: cfg, logger: logger}
}

// UserCreateInput describes an admin-created principal.
type UserCreateInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Role      domain.UserRole
	Phone     *string
}

// UserUpdateInput carries mutable profile fields. Nil pointers leave the
// stored value untouched.
type UserUpdateInput struct {
	FirstName *string
	LastName  *string
	Role      *domain.UserRole
	Phone     *string
	Active    *bool
}

// Create registers a principal. New users must rotate the initial
// password at first login.
func (s *UserService) Create(ctx context.Context, input UserCreateInput) (*domain.User, error) {
	if !domain.ValidRole(input.Role) {
		return nil, apperrors.NewValidationError("unknown role", map[string]any{"role": string(input.Role)})
	}
	if err := validateCredentials(input.Email, input.Password); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(input.Password, s.cfg.BcryptCost)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	user := &domain.User{
		Email:               normalizeEmail(input.Email),
		PasswordHash:        hash,
		FirstName:           strings.TrimSpace(input.FirstName),
		LastName:            strings.TrimSpace(input.LastName),
		Role:                input.Role,
		Phone:               input.Phone,
		Active:              true,
		ForcePasswordChange: true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if repository.IsUniqueViolation(err, "") {
			return nil, apperrors.NewConflict("email already registered", nil)
		}
		return nil, apperrors.MapError(err)
	}
	return user, nil
}

// Update edits a principal. The super-admin can only be edited by itself
// and its role and active flag are immutable.
func (s *UserService) Update(ctx context.Context, actorID, userID string, input UserUpdateInput) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if user.SuperAdmin && actorID != userID {
		return nil, apperrors.NewForbidden("super administrator can only be edited by itself")
	}

	if input.FirstName != nil {
		user.FirstName = strings.TrimSpace(*input.FirstName)
	}
	if input.LastName != nil {
		user.LastName = strings.TrimSpace(*input.LastName)
	}
	if input.Phone != nil {
		user.Phone = input.Phone
	}
	if input.Role != nil {
		if user.SuperAdmin {
			return nil, apperrors.NewForbidden("super administrator role cannot change")
		}
		if !domain.ValidRole(*input.Role) {
			return nil, apperrors.NewValidationError("unknown role", map[string]any{"role": string(*input.Role)})
		}
		user.Role = *input.Role
	}
	if input.Active != nil {
		if user.SuperAdmin {
			return nil, apperrors.NewForbidden("super administrator cannot be deactivated")
		}
		if actorID == userID && !*input.Active {
			return nil, apperrors.NewForbidden("cannot deactivate yourself")
		}
		user.Active = *input.Active
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, apperrors.MapError(err)
	}
	return user, nil
}

// Delete removes a principal. Self-deletion and super-admin deletion are
// refused.
func (s *UserService) Delete(ctx context.Context, actorID, userID string) error {
	if actorID == userID {
		return apperrors.NewForbidden("cannot delete yourself")
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return apperrors.MapError(err)
	}
	if user.SuperAdmin {
		return apperrors.NewForbidden("super administrator cannot be deleted")
	}
	if err := s.users.Delete(ctx, userID); err != nil {
		return apperrors.MapError(err)
	}
	s.logger.Info("user deleted", zap.String("user_id", userID), zap.String("actor_id", actorID))
	return nil
}

// TransferSuperAdmin moves the super-admin flag from the caller to another
// active administrator.
func (s *UserService) TransferSuperAdmin(ctx context.Context, actorID, targetID string) error {
	if actorID == targetID {
		return apperrors.NewValidationError("target is already the super administrator", nil)
	}

	actor, err := s.users.GetByID(ctx, actorID)
	if err != nil {
		return apperrors.MapError(err)
	}
	if !actor.SuperAdmin {
		return apperrors.NewForbidden("only the super administrator can transfer the flag")
	}

	target, err := s.users.GetByID(ctx, targetID)
	if err != nil {
		return apperrors.MapError(err)
	}
	if !target.Active || target.Role != domain.RoleAdmin {
		return apperrors.NewValidationError("target must be an active administrator", map[string]any{
			"role":   string(target.Role),
			"active": target.Active,
		})
	}

	actor.SuperAdmin = false
	target.SuperAdmin = true

	// both rows flip or neither does
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	defer tx.Rollback(ctx)

	txUsers := s.users.WithTx(tx)
	if err := txUsers.Update(ctx, actor); err != nil {
		return apperrors.MapError(err)
	}
	if err := txUsers.Update(ctx, target); err != nil {
		return apperrors.MapError(err)
	}
	if err := tx.Commit(ctx); err != nil {
		return apperrors.NewInternalError(err)
	}
	s.logger.Info("super administrator transferred",
		zap.String("from", actorID), zap.String("to", targetID))
	return nil
}

// GetByID fetches one principal.
func (s *UserService) GetByID(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return user, nil
}

// List returns principals matching the filter.
func (s *UserService) List(ctx context.Context, filter repository.UserFilter) ([]domain.User, error) {
	users, err := s.users.List(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return users, nil
}
