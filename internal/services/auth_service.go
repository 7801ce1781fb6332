package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/entradahq/entrada/internal/models"
	"github.com/entradahq/entrada/internal/throttle"
	"github.com/entradahq/entrada/internal/validation"
	pkgauth "github.com/entradahq/entrada/pkg/auth"
	pkglogger "github.com/entradahq/entrada/pkg/logger"
)

// UserRepository defines the user storage operations the services need
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	ListEmails(ctx context.Context) ([]string, error)
	List(ctx context.Context, filter models.UserFilter, limit, offset int) ([]*models.User, error)
	Create(ctx context.Context, user *models.User) (*models.User, error)
	Update(ctx context.Context, id string, user *models.User) (*models.User, error)
	Delete(ctx context.Context, id string) error
}

// TokenManager defines the token operations the auth service needs
type TokenManager interface {
	GenerateAccessToken(userID, email string) (string, error)
	GenerateRefreshToken(userID, email string) (string, error)
	ValidateToken(tokenString string) (*models.TokenClaims, error)
}

// TimingDelayer pads authentication response times
type TimingDelayer interface {
	WaitFrom(startTime time.Time, success bool)
}

// AuthService handles authentication business logic
type AuthService struct {
	repo        UserRepository
	limiter     *throttle.Limiter
	tm          TokenManager
	timing      TimingDelayer
	logger      *slog.Logger
	auditLogger *pkglogger.AuditLogger
}

// NewAuthService creates a new AuthService
func NewAuthService(repo UserRepository, limiter *throttle.Limiter, tm TokenManager, timing TimingDelayer, logger *slog.Logger, auditLogger *pkglogger.AuditLogger) *AuthService {
	return &AuthService{
		repo:        repo,
		limiter:     limiter,
		tm:          tm,
		timing:      timing,
		logger:      logger,
		auditLogger: auditLogger,
	}
}

// UserResponse represents a user in the HTTP response
type UserResponse struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FullName  string `json:"full_name"`
	Phone     string `json:"phone,omitempty"`
	Role      string `json:"role"`
	Status    string `json:"status"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// AuthResponse represents the response from auth operations
type AuthResponse struct {
	AccessToken  string        `json:"access_token"`
	RefreshToken string        `json:"refresh_token"`
	User         *UserResponse `json:"user"`
}

// Login authenticates a user and returns tokens. Failed attempts count
// toward the per-identifier lockout, including attempts against unknown
// emails, so the throttle cannot be used to probe which accounts exist.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	start := time.Now()
	email = strings.ToLower(strings.TrimSpace(email))

	if email == "" || password == "" {
		s.logger.Warn("login attempt with missing credentials")
		return nil, models.ErrUnauthorized
	}

	if locked, remaining := s.limiter.IsLocked(email); locked {
		s.logger.Info("login blocked by lockout",
			slog.String("email", pkglogger.SanitizedEmail(email)),
			slog.Duration("remaining", remaining))
		s.auditLogger.LogAuthAttempt(pkglogger.AuditEvent{
			EventType:     "login_failed",
			FailureReason: "locked_out",
			Success:       false,
		})
		return nil, &models.LockoutError{Remaining: remaining}
	}

	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			s.limiter.RecordFailure(email)
			s.logger.Info("login failed: invalid credentials")
			s.auditLogger.LogAuthAttempt(pkglogger.AuditEvent{
				EventType:     "login_failed",
				FailureReason: "invalid_credentials",
				Success:       false,
			})
			s.timing.WaitFrom(start, false)
			return nil, models.ErrUnauthorized
		}
		s.logger.Error("failed to get user by email", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	if err := pkgauth.ComparePassword(user.PasswordHash, password); err != nil {
		s.limiter.RecordFailure(email)
		s.logger.Info("login failed: invalid credentials")
		s.auditLogger.LogAuthAttempt(pkglogger.AuditEvent{
			EventType:     "login_failed",
			UserID:        user.ID,
			FailureReason: "invalid_credentials",
			Success:       false,
		})
		s.timing.WaitFrom(start, false)
		return nil, models.ErrUnauthorized
	}

	if user.Status != models.StatusActive {
		s.logger.Info("login blocked: account disabled", slog.String("user_id", user.ID))
		s.auditLogger.LogAuthAttempt(pkglogger.AuditEvent{
			EventType:     "login_failed",
			UserID:        user.ID,
			FailureReason: "account_disabled",
			Success:       false,
		})
		return nil, models.ErrAccountDisabled
	}

	s.limiter.RecordSuccess(email)

	accessToken, err := s.tm.GenerateAccessToken(user.ID, user.Email)
	if err != nil {
		s.logger.Error("failed to generate access token", slog.String("user_id", user.ID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	refreshToken, err := s.tm.GenerateRefreshToken(user.ID, user.Email)
	if err != nil {
		s.logger.Error("failed to generate refresh token", slog.String("user_id", user.ID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	s.logger.Info("user logged in", slog.String("user_id", user.ID))
	s.auditLogger.LogAuthAttempt(pkglogger.AuditEvent{
		EventType: "login_success",
		UserID:    user.ID,
		Success:   true,
	})
	s.timing.WaitFrom(start, true)

	return &AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         userModelToResponse(user),
	}, nil
}

// RefreshToken generates a new token pair from a refresh token
func (s *AuthService) RefreshToken(ctx context.Context, refreshTokenString string) (*AuthResponse, error) {
	if refreshTokenString = strings.TrimSpace(refreshTokenString); refreshTokenString == "" {
		return nil, models.ErrUnauthorized
	}

	claims, err := s.tm.ValidateToken(refreshTokenString)
	if err != nil {
		s.logger.Info("refresh token validation failed", slog.Any("error", err))
		return nil, models.ErrUnauthorized
	}

	if claims.Type != "refresh" {
		s.logger.Warn("refresh attempt with non-refresh token", slog.String("user_id", claims.UserID))
		return nil, models.ErrUnauthorized
	}

	user, err := s.repo.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			s.logger.Info("user not found for token refresh", slog.String("user_id", claims.UserID))
			return nil, models.ErrUnauthorized
		}
		s.logger.Error("failed to get user for token refresh", slog.String("user_id", claims.UserID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	if user.Status != models.StatusActive {
		s.logger.Info("token refresh blocked: account disabled", slog.String("user_id", user.ID))
		return nil, models.ErrUnauthorized
	}

	accessToken, err := s.tm.GenerateAccessToken(user.ID, user.Email)
	if err != nil {
		s.logger.Error("failed to generate access token", slog.String("user_id", user.ID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	newRefreshToken, err := s.tm.GenerateRefreshToken(user.ID, user.Email)
	if err != nil {
		s.logger.Error("failed to generate refresh token", slog.String("user_id", user.ID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	s.logger.Info("token refreshed", slog.String("user_id", user.ID))

	return &AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: newRefreshToken,
		User:         userModelToResponse(user),
	}, nil
}

// Register creates a new user account. The form is run through the
// registration validators; field-level problems come back in the map
// keyed by field name, with the error return nil.
func (s *AuthService) Register(ctx context.Context, form validation.RegistrationForm) (*AuthResponse, map[string]string, error) {
	existingEmails, err := s.repo.ListEmails(ctx)
	if err != nil {
		s.logger.Error("failed to list emails for duplicate check", slog.Any("error", err))
		return nil, nil, models.ErrInternalServer
	}

	result := validation.ValidateRegistrationForm(form, existingEmails)
	if !result.Valid() {
		s.logger.Info("registration rejected by validation",
			slog.Int("field_errors", len(result.Errors)))
		return nil, result.Errors, nil
	}

	hashedPassword, err := pkgauth.HashPassword(form.Password)
	if err != nil {
		s.logger.Error("failed to hash password", slog.Any("error", err))
		return nil, nil, models.ErrInternalServer
	}

	user := &models.User{
		Email:        result.Clean["email"],
		PasswordHash: hashedPassword,
		FullName:     result.Clean["full_name"],
		Phone:        result.Clean["phone"],
		Role:         models.RoleUser,
		Status:       models.StatusActive,
	}

	createdUser, err := s.repo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, models.ErrConflict) {
			// Raced another registration for the same email
			return nil, map[string]string{"email": "Email is already registered"}, nil
		}
		s.logger.Error("failed to create user", slog.Any("error", err))
		return nil, nil, models.ErrInternalServer
	}

	accessToken, err := s.tm.GenerateAccessToken(createdUser.ID, createdUser.Email)
	if err != nil {
		s.logger.Error("failed to generate access token", slog.String("user_id", createdUser.ID), slog.Any("error", err))
		return nil, nil, models.ErrInternalServer
	}

	refreshToken, err := s.tm.GenerateRefreshToken(createdUser.ID, createdUser.Email)
	if err != nil {
		s.logger.Error("failed to generate refresh token", slog.String("user_id", createdUser.ID), slog.Any("error", err))
		return nil, nil, models.ErrInternalServer
	}

	s.logger.Info("user registered", slog.String("user_id", createdUser.ID))
	s.auditLogger.LogAccountAction("user_registered", createdUser.ID, "")

	return &AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         userModelToResponse(createdUser),
	}, nil, nil
}

// userModelToResponse converts a user model to its response DTO
func userModelToResponse(user *models.User) *UserResponse {
	return &UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		FullName:  user.FullName,
		Phone:     user.Phone,
		Role:      user.Role,
		Status:    user.Status,
		CreatedAt: user.CreatedAt.Format(time.RFC3339),
		UpdatedAt: user.UpdatedAt.Format(time.RFC3339),
	}
}
