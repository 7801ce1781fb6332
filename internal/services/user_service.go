package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/entradahq/entrada/internal/models"
	"github.com/entradahq/entrada/internal/validation"
	pkgauth "github.com/entradahq/entrada/pkg/auth"
	pkglogger "github.com/entradahq/entrada/pkg/logger"
)

// UserService handles profile business logic
type UserService struct {
	repo        UserRepository
	logger      *slog.Logger
	auditLogger *pkglogger.AuditLogger
}

// NewUserService creates a new UserService
func NewUserService(repo UserRepository, logger *slog.Logger, auditLogger *pkglogger.AuditLogger) *UserService {
	return &UserService{
		repo:        repo,
		logger:      logger,
		auditLogger: auditLogger,
	}
}

// ProfileUpdateForm carries the editable profile fields. Password is
// optional; when set it must pass the full password policy.
type ProfileUpdateForm struct {
	FullName        string
	Phone           string
	Password        string
	ConfirmPassword string
}

// GetProfile returns the user's profile
func (s *UserService) GetProfile(ctx context.Context, userID string) (*UserResponse, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrNotFound
		}
		s.logger.Error("failed to get user", slog.String("user_id", userID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	return userModelToResponse(user), nil
}

// UpdateProfile validates and applies profile edits. Field-level problems
// come back in the map keyed by field name, with the error return nil.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, form ProfileUpdateForm) (*UserResponse, map[string]string, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, nil, models.ErrNotFound
		}
		s.logger.Error("failed to get user", slog.String("user_id", userID), slog.Any("error", err))
		return nil, nil, models.ErrInternalServer
	}

	fieldErrors := make(map[string]string)

	fullName, err := validation.ValidateFullName(form.FullName)
	if err != nil {
		fieldErrors["full_name"] = err.Error()
	}

	phone, err := validation.ValidatePhone(form.Phone)
	if err != nil {
		fieldErrors["phone"] = err.Error()
	}

	var passwordHash string
	if form.Password != "" || form.ConfirmPassword != "" {
		cleanEmail := strings.ToLower(user.Email)
		if _, err := validation.ValidatePassword(form.Password, form.ConfirmPassword, cleanEmail); err != nil {
			fieldErrors["password"] = err.Error()
		} else {
			passwordHash, err = pkgauth.HashPassword(form.Password)
			if err != nil {
				s.logger.Error("failed to hash password", slog.Any("error", err))
				return nil, nil, models.ErrInternalServer
			}
		}
	}

	if len(fieldErrors) > 0 {
		return nil, fieldErrors, nil
	}

	user.FullName = fullName
	user.Phone = phone
	if passwordHash != "" {
		user.PasswordHash = passwordHash
	}

	updated, err := s.repo.Update(ctx, userID, user)
	if err != nil {
		s.logger.Error("failed to update user", slog.String("user_id", userID), slog.Any("error", err))
		return nil, nil, models.ErrInternalServer
	}

	s.logger.Info("profile updated", slog.String("user_id", userID))
	s.auditLogger.LogAccountAction("profile_updated", userID, userID)

	return userModelToResponse(updated), nil, nil
}
