package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/entradahq/entrada/internal/models"
	"github.com/entradahq/entrada/internal/throttle"
	pkglogger "github.com/entradahq/entrada/pkg/logger"
)

// validUserID reports whether id can possibly match a stored user id.
func validUserID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// AdminService handles administrative user management
type AdminService struct {
	repo        UserRepository
	limiter     *throttle.Limiter
	logger      *slog.Logger
	auditLogger *pkglogger.AuditLogger
}

// NewAdminService creates a new AdminService
func NewAdminService(repo UserRepository, limiter *throttle.Limiter, logger *slog.Logger, auditLogger *pkglogger.AuditLogger) *AdminService {
	return &AdminService{
		repo:        repo,
		limiter:     limiter,
		logger:      logger,
		auditLogger: auditLogger,
	}
}

// AdminUserResponse is a user row in the admin listing, annotated with
// its live lockout state.
type AdminUserResponse struct {
	UserResponse
	Locked               bool  `json:"locked"`
	LockRemainingSeconds int64 `json:"lock_remaining_seconds,omitempty"`
}

// ListUsers returns users matching the filter, ordered by name. When
// lockedOnly is set, only users with an active login lockout are
// returned.
func (s *AdminService) ListUsers(ctx context.Context, filter models.UserFilter, lockedOnly bool, limit, offset int) ([]*AdminUserResponse, error) {
	users, err := s.repo.List(ctx, filter, limit, offset)
	if err != nil {
		s.logger.Error("failed to list users", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	responses := make([]*AdminUserResponse, 0, len(users))
	for _, user := range users {
		locked, remaining := s.limiter.IsLocked(user.Email)
		if lockedOnly && !locked {
			continue
		}

		resp := &AdminUserResponse{
			UserResponse: *userModelToResponse(user),
			Locked:       locked,
		}
		if locked {
			resp.LockRemainingSeconds = int64(remaining.Seconds())
		}
		responses = append(responses, resp)
	}

	return responses, nil
}

// SetStatus switches a user between active and disabled. Admins cannot
// change their own status.
func (s *AdminService) SetStatus(ctx context.Context, actorID, userID, status string) (*UserResponse, error) {
	if status != models.StatusActive && status != models.StatusDisabled {
		return nil, models.ErrBadRequest
	}
	if actorID == userID {
		s.logger.Warn("admin attempted to change own status", slog.String("user_id", actorID))
		return nil, models.ErrForbidden
	}
	if !validUserID(userID) {
		return nil, models.ErrNotFound
	}

	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrNotFound
		}
		s.logger.Error("failed to get user", slog.String("user_id", userID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	user.Status = status
	updated, err := s.repo.Update(ctx, userID, user)
	if err != nil {
		s.logger.Error("failed to update user status", slog.String("user_id", userID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	s.logger.Info("user status changed",
		slog.String("user_id", userID),
		slog.String("status", status),
		slog.String("actor_id", actorID))
	s.auditLogger.LogAccountAction("status_"+status, userID, actorID)

	return userModelToResponse(updated), nil
}

// SetRole changes a user's role. Admins cannot change their own role.
func (s *AdminService) SetRole(ctx context.Context, actorID, userID, role string) (*UserResponse, error) {
	if role != models.RoleUser && role != models.RoleAdmin {
		return nil, models.ErrBadRequest
	}
	if actorID == userID {
		s.logger.Warn("admin attempted to change own role", slog.String("user_id", actorID))
		return nil, models.ErrForbidden
	}
	if !validUserID(userID) {
		return nil, models.ErrNotFound
	}

	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrNotFound
		}
		s.logger.Error("failed to get user", slog.String("user_id", userID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	user.Role = role
	updated, err := s.repo.Update(ctx, userID, user)
	if err != nil {
		s.logger.Error("failed to update user role", slog.String("user_id", userID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	s.logger.Info("user role changed",
		slog.String("user_id", userID),
		slog.String("role", role),
		slog.String("actor_id", actorID))
	s.auditLogger.LogAccountAction("role_"+role, userID, actorID)

	return userModelToResponse(updated), nil
}

// DeleteUser removes a user account. Admins cannot delete their own
// account; orders keep their email snapshot and survive the deletion.
func (s *AdminService) DeleteUser(ctx context.Context, actorID, userID string) error {
	if actorID == userID {
		s.logger.Warn("admin attempted to delete own account", slog.String("user_id", actorID))
		return models.ErrForbidden
	}
	if !validUserID(userID) {
		return models.ErrNotFound
	}

	if err := s.repo.Delete(ctx, userID); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return models.ErrNotFound
		}
		s.logger.Error("failed to delete user", slog.String("user_id", userID), slog.Any("error", err))
		return models.ErrInternalServer
	}

	s.logger.Info("user deleted",
		slog.String("user_id", userID),
		slog.String("actor_id", actorID))
	s.auditLogger.LogAccountAction("user_deleted", userID, actorID)

	return nil
}
