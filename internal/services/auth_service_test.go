package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/entradahq/entrada/internal/models"
	"github.com/entradahq/entrada/internal/throttle"
	"github.com/entradahq/entrada/internal/validation"
	pkgauth "github.com/entradahq/entrada/pkg/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAuthService(repo UserRepository) (*AuthService, *throttle.Limiter) {
	limiter := throttle.New(throttle.NewMemoryStore(), throttle.Config{}, newTestLogger())
	return NewAuthService(
		repo,
		limiter,
		&MockTokenManager{},
		&MockTimingDelay{},
		newTestLogger(),
		newTestAuditLogger(),
	), limiter
}

func TestLogin_Success(t *testing.T) {
	hash, err := pkgauth.HashPassword("Correct1!Pass")
	require.NoError(t, err)
	user := NewTestUserWithPassword("user-1", "ana@example.com", "Ana Gomez", hash)

	repo := &MockUserRepository{
		GetByEmailFunc: func(ctx context.Context, email string) (*models.User, error) {
			assert.Equal(t, "ana@example.com", email)
			return user, nil
		},
	}
	svc, _ := newTestAuthService(repo)

	resp, err := svc.Login(context.Background(), "  Ana@Example.COM ", "Correct1!Pass")

	require.NoError(t, err)
	assert.Equal(t, "access_token_user-1", resp.AccessToken)
	assert.Equal(t, "refresh_token_user-1", resp.RefreshToken)
	assert.Equal(t, "ana@example.com", resp.User.Email)
}

func TestLogin_InvalidPassword(t *testing.T) {
	hash, err := pkgauth.HashPassword("Correct1!Pass")
	require.NoError(t, err)
	user := NewTestUserWithPassword("user-1", "ana@example.com", "Ana Gomez", hash)

	repo := &MockUserRepository{
		GetByEmailFunc: func(ctx context.Context, email string) (*models.User, error) {
			return user, nil
		},
	}
	svc, _ := newTestAuthService(repo)

	_, err = svc.Login(context.Background(), "ana@example.com", "wrong-password")

	assert.ErrorIs(t, err, models.ErrUnauthorized)
}

func TestLogin_UnknownEmail(t *testing.T) {
	repo := &MockUserRepository{}
	svc, _ := newTestAuthService(repo)

	_, err := svc.Login(context.Background(), "nobody@example.com", "whatever")

	assert.ErrorIs(t, err, models.ErrUnauthorized)
}

func TestLogin_EmptyCredentials(t *testing.T) {
	svc, _ := newTestAuthService(&MockUserRepository{})

	_, err := svc.Login(context.Background(), "", "password")
	assert.ErrorIs(t, err, models.ErrUnauthorized)

	_, err = svc.Login(context.Background(), "ana@example.com", "")
	assert.ErrorIs(t, err, models.ErrUnauthorized)
}

func TestLogin_DisabledAccount(t *testing.T) {
	hash, err := pkgauth.HashPassword("Correct1!Pass")
	require.NoError(t, err)
	user := NewTestUserWithPassword("user-1", "ana@example.com", "Ana Gomez", hash)
	user.Status = models.StatusDisabled

	repo := &MockUserRepository{
		GetByEmailFunc: func(ctx context.Context, email string) (*models.User, error) {
			return user, nil
		},
	}
	svc, _ := newTestAuthService(repo)

	_, err = svc.Login(context.Background(), "ana@example.com", "Correct1!Pass")

	assert.ErrorIs(t, err, models.ErrAccountDisabled)
}

func TestLogin_LocksAfterRepeatedFailures(t *testing.T) {
	repo := &MockUserRepository{}
	svc, _ := newTestAuthService(repo)

	for i := 0; i < throttle.DefaultMaxAttempts; i++ {
		_, err := svc.Login(context.Background(), "nobody@example.com", "bad")
		assert.ErrorIs(t, err, models.ErrUnauthorized)
	}

	_, err := svc.Login(context.Background(), "nobody@example.com", "bad")

	assert.ErrorIs(t, err, models.ErrAccountLocked)
	var lockErr *models.LockoutError
	require.ErrorAs(t, err, &lockErr)
	assert.Greater(t, lockErr.Remaining, time.Duration(0))
}

func TestLogin_LockoutBlocksCorrectPassword(t *testing.T) {
	hash, err := pkgauth.HashPassword("Correct1!Pass")
	require.NoError(t, err)
	user := NewTestUserWithPassword("user-1", "ana@example.com", "Ana Gomez", hash)

	repo := &MockUserRepository{
		GetByEmailFunc: func(ctx context.Context, email string) (*models.User, error) {
			return user, nil
		},
	}
	svc, _ := newTestAuthService(repo)

	for i := 0; i < throttle.DefaultMaxAttempts; i++ {
		_, _ = svc.Login(context.Background(), "ana@example.com", "wrong")
	}

	_, err = svc.Login(context.Background(), "ana@example.com", "Correct1!Pass")

	assert.ErrorIs(t, err, models.ErrAccountLocked)
}

func TestLogin_SuccessResetsFailureCount(t *testing.T) {
	hash, err := pkgauth.HashPassword("Correct1!Pass")
	require.NoError(t, err)
	user := NewTestUserWithPassword("user-1", "ana@example.com", "Ana Gomez", hash)

	repo := &MockUserRepository{
		GetByEmailFunc: func(ctx context.Context, email string) (*models.User, error) {
			return user, nil
		},
	}
	svc, limiter := newTestAuthService(repo)

	_, _ = svc.Login(context.Background(), "ana@example.com", "wrong")
	_, _ = svc.Login(context.Background(), "ana@example.com", "wrong")

	_, err = svc.Login(context.Background(), "ana@example.com", "Correct1!Pass")
	require.NoError(t, err)

	locked, _ := limiter.IsLocked("ana@example.com")
	assert.False(t, locked)

	// The slate is clean: two more failures still do not lock
	_, _ = svc.Login(context.Background(), "ana@example.com", "wrong")
	_, _ = svc.Login(context.Background(), "ana@example.com", "wrong")
	locked, _ = limiter.IsLocked("ana@example.com")
	assert.False(t, locked)
}

func TestRefreshToken(t *testing.T) {
	user := NewTestUser("user-1", "ana@example.com", "Ana Gomez")

	tests := []struct {
		name      string
		tokenType string
		user      *models.User
		claimsErr error
		wantErr   error
	}{
		{
			name:      "valid refresh token",
			tokenType: "refresh",
			user:      user,
		},
		{
			name:      "access token rejected",
			tokenType: "access",
			user:      user,
			wantErr:   models.ErrUnauthorized,
		},
		{
			name:      "invalid token",
			claimsErr: errors.New("parse failed"),
			wantErr:   models.ErrUnauthorized,
		},
		{
			name:      "disabled user rejected",
			tokenType: "refresh",
			user: func() *models.User {
				u := NewTestUser("user-1", "ana@example.com", "Ana Gomez")
				u.Status = models.StatusDisabled
				return u
			}(),
			wantErr: models.ErrUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &MockUserRepository{
				GetByIDFunc: func(ctx context.Context, id string) (*models.User, error) {
					return tt.user, nil
				},
			}
			tm := &MockTokenManager{
				ValidateTokenFunc: func(tokenString string) (*models.TokenClaims, error) {
					if tt.claimsErr != nil {
						return nil, tt.claimsErr
					}
					return &models.TokenClaims{Type: tt.tokenType, UserID: "user-1", Email: "ana@example.com"}, nil
				},
			}
			limiter := throttle.New(throttle.NewMemoryStore(), throttle.Config{}, newTestLogger())
			svc := NewAuthService(repo, limiter, tm, &MockTimingDelay{}, newTestLogger(), newTestAuditLogger())

			resp, err := svc.RefreshToken(context.Background(), "some-token")

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "access_token_user-1", resp.AccessToken)
		})
	}
}

func TestRegister_Success(t *testing.T) {
	var created *models.User
	repo := &MockUserRepository{
		ListEmailsFunc: func(ctx context.Context) ([]string, error) {
			return []string{"taken@example.com"}, nil
		},
		CreateFunc: func(ctx context.Context, user *models.User) (*models.User, error) {
			user.ID = "user-9"
			created = user
			return user, nil
		},
	}
	limiter := throttle.New(throttle.NewMemoryStore(), throttle.Config{}, newTestLogger())
	svc := NewAuthService(repo, limiter, &MockTokenManager{}, &MockTimingDelay{}, newTestLogger(), newTestAuditLogger())

	form := validation.RegistrationForm{
		FullName:        "  Ana   Gomez ",
		Email:           "Ana@Example.com",
		Phone:           "(555) 123-4567",
		Password:        "Str0ng!Pass",
		ConfirmPassword: "Str0ng!Pass",
	}

	resp, fieldErrors, err := svc.Register(context.Background(), form)

	require.NoError(t, err)
	require.Empty(t, fieldErrors)
	require.NotNil(t, created)
	assert.Equal(t, "ana@example.com", created.Email)
	assert.Equal(t, "Ana Gomez", created.FullName)
	assert.Equal(t, "5551234567", created.Phone)
	assert.Equal(t, models.RoleUser, created.Role)
	assert.Equal(t, models.StatusActive, created.Status)
	assert.NotEqual(t, "Str0ng!Pass", created.PasswordHash)
	assert.Equal(t, "access_token_user-9", resp.AccessToken)
}

func TestRegister_FieldErrors(t *testing.T) {
	repo := &MockUserRepository{
		ListEmailsFunc: func(ctx context.Context) ([]string, error) {
			return []string{"taken@example.com"}, nil
		},
	}
	limiter := throttle.New(throttle.NewMemoryStore(), throttle.Config{}, newTestLogger())
	svc := NewAuthService(repo, limiter, &MockTokenManager{}, &MockTimingDelay{}, newTestLogger(), newTestAuditLogger())

	form := validation.RegistrationForm{
		FullName:        "A",
		Email:           "Taken@Example.com",
		Phone:           "123",
		Password:        "short",
		ConfirmPassword: "different",
	}

	resp, fieldErrors, err := svc.Register(context.Background(), form)

	require.NoError(t, err)
	assert.Nil(t, resp)
	assert.Contains(t, fieldErrors, "full_name")
	assert.Contains(t, fieldErrors, "email")
	assert.Contains(t, fieldErrors, "phone")
	assert.Contains(t, fieldErrors, "password")
}
