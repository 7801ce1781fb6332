package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/entradahq/entrada/internal/models"
	"github.com/entradahq/entrada/internal/throttle"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testAdminID = uuid.NewString()
	testUserID  = uuid.NewString()
)

func newTestAdminService(repo UserRepository) (*AdminService, *throttle.Limiter) {
	limiter := throttle.New(throttle.NewMemoryStore(), throttle.Config{}, newTestLogger())
	return NewAdminService(repo, limiter, newTestLogger(), newTestAuditLogger()), limiter
}

func TestListUsers_AnnotatesLockouts(t *testing.T) {
	users := []*models.User{
		NewTestUser(testUserID, "ana@example.com", "Ana Gomez"),
		NewTestUser("user-2", "ben@example.com", "Ben Okafor"),
	}
	repo := &MockUserRepository{
		ListFunc: func(ctx context.Context, filter models.UserFilter, limit, offset int) ([]*models.User, error) {
			return users, nil
		},
	}
	svc, limiter := newTestAdminService(repo)

	for i := 0; i < throttle.DefaultMaxAttempts; i++ {
		limiter.RecordFailure("ana@example.com")
	}

	got, err := svc.ListUsers(context.Background(), models.UserFilter{}, false, 50, 0)

	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.True(t, got[0].Locked)
	assert.Greater(t, got[0].LockRemainingSeconds, int64(0))
	assert.False(t, got[1].Locked)
}

func TestListUsers_LockedOnlyFilter(t *testing.T) {
	users := []*models.User{
		NewTestUser(testUserID, "ana@example.com", "Ana Gomez"),
		NewTestUser("user-2", "ben@example.com", "Ben Okafor"),
	}
	repo := &MockUserRepository{
		ListFunc: func(ctx context.Context, filter models.UserFilter, limit, offset int) ([]*models.User, error) {
			return users, nil
		},
	}
	svc, limiter := newTestAdminService(repo)

	for i := 0; i < throttle.DefaultMaxAttempts; i++ {
		limiter.RecordFailure("ben@example.com")
	}

	got, err := svc.ListUsers(context.Background(), models.UserFilter{}, true, 50, 0)

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "ben@example.com", got[0].Email)
}

func TestSetStatus(t *testing.T) {
	tests := []struct {
		name    string
		actorID string
		userID  string
		status  string
		wantErr error
	}{
		{name: "disable user", actorID: testAdminID, userID: testUserID, status: models.StatusDisabled},
		{name: "re-enable user", actorID: testAdminID, userID: testUserID, status: models.StatusActive},
		{name: "invalid status", actorID: testAdminID, userID: testUserID, status: "banned", wantErr: models.ErrBadRequest},
		{name: "cannot change own status", actorID: testAdminID, userID: testAdminID, status: models.StatusDisabled, wantErr: models.ErrForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user := NewTestUser(tt.userID, "ana@example.com", "Ana Gomez")
			repo := &MockUserRepository{
				GetByIDFunc: func(ctx context.Context, id string) (*models.User, error) {
					return user, nil
				},
				UpdateFunc: func(ctx context.Context, id string, u *models.User) (*models.User, error) {
					return u, nil
				},
			}
			svc, _ := newTestAdminService(repo)

			resp, err := svc.SetStatus(context.Background(), tt.actorID, tt.userID, tt.status)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.Status)
		})
	}
}

func TestSetRole(t *testing.T) {
	tests := []struct {
		name    string
		actorID string
		userID  string
		role    string
		wantErr error
	}{
		{name: "promote to admin", actorID: testAdminID, userID: testUserID, role: models.RoleAdmin},
		{name: "demote to user", actorID: testAdminID, userID: testUserID, role: models.RoleUser},
		{name: "invalid role", actorID: testAdminID, userID: testUserID, role: "superuser", wantErr: models.ErrBadRequest},
		{name: "cannot change own role", actorID: testAdminID, userID: testAdminID, role: models.RoleUser, wantErr: models.ErrForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user := NewTestUser(tt.userID, "ana@example.com", "Ana Gomez")
			repo := &MockUserRepository{
				GetByIDFunc: func(ctx context.Context, id string) (*models.User, error) {
					return user, nil
				},
				UpdateFunc: func(ctx context.Context, id string, u *models.User) (*models.User, error) {
					return u, nil
				},
			}
			svc, _ := newTestAdminService(repo)

			resp, err := svc.SetRole(context.Background(), tt.actorID, tt.userID, tt.role)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.role, resp.Role)
		})
	}
}

func TestSetStatus_UserNotFound(t *testing.T) {
	svc, _ := newTestAdminService(&MockUserRepository{})

	_, err := svc.SetStatus(context.Background(), testAdminID, uuid.NewString(), models.StatusDisabled)

	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestDeleteUser(t *testing.T) {
	tests := []struct {
		name    string
		actorID string
		userID  string
		repoErr error
		wantErr error
	}{
		{name: "delete user", actorID: testAdminID, userID: testUserID},
		{name: "cannot delete own account", actorID: testAdminID, userID: testAdminID, wantErr: models.ErrForbidden},
		{name: "user not found", actorID: testAdminID, userID: uuid.NewString(), repoErr: models.ErrNotFound, wantErr: models.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var deletedID string
			repo := &MockUserRepository{
				DeleteFunc: func(ctx context.Context, id string) error {
					deletedID = id
					return tt.repoErr
				},
			}
			svc, _ := newTestAdminService(repo)

			err := svc.DeleteUser(context.Background(), tt.actorID, tt.userID)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				if errors.Is(tt.wantErr, models.ErrForbidden) {
					assert.Empty(t, deletedID, "repo should not be called for self-deletion")
				}
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.userID, deletedID)
		})
	}
}
