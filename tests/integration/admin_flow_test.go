package integration

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/entradahq/entrada/internal/models"
)

func TestAdminManageUsers(t *testing.T) {
	ts := newTestServer(t)
	ctx := context.Background()

	adminEmail, adminPassword := TestUser("admin")
	_, err := SeedUser(ctx, testDB.Pool, adminEmail, adminPassword, models.RoleAdmin)
	require.NoError(t, err)

	userEmail, userPassword := TestUser("member")
	user, err := SeedUser(ctx, testDB.Pool, userEmail, userPassword, models.RoleUser)
	require.NoError(t, err)

	adminToken := loginAs(t, ts, adminEmail, adminPassword)

	// Both accounts appear in the listing, neither locked
	resp, err := ts.RequestWithAuth("GET", "/admin/users", adminToken, nil)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var users []struct {
		Email  string `json:"email"`
		Locked bool   `json:"locked"`
	}
	require.NoError(t, ParseJSONResponse(resp, &users))
	assert.Len(t, users, 2)
	for _, u := range users {
		assert.False(t, u.Locked)
	}

	// Disable the member account
	resp, err = ts.RequestWithAuth("PUT", fmt.Sprintf("/admin/users/%s/status", user.ID), adminToken, map[string]interface{}{
		"status": models.StatusDisabled,
	})
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// A disabled account cannot log in, and the response stays generic
	resp, err = ts.Request("POST", "/auth/login", map[string]interface{}{
		"email":    userEmail,
		"password": userPassword,
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	msg, err := GetErrorMessage(resp)
	require.NoError(t, err)
	assert.Equal(t, "Authentication failed", msg)
}

func TestAdminCannotModifySelf(t *testing.T) {
	ts := newTestServer(t)
	ctx := context.Background()

	adminEmail, adminPassword := TestUser("selfadmin")
	admin, err := SeedUser(ctx, testDB.Pool, adminEmail, adminPassword, models.RoleAdmin)
	require.NoError(t, err)

	adminToken := loginAs(t, ts, adminEmail, adminPassword)

	resp, err := ts.RequestWithAuth("PUT", fmt.Sprintf("/admin/users/%s/role", admin.ID), adminToken, map[string]interface{}{
		"role": models.RoleUser,
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestAdminRoutesRejectNonAdmins(t *testing.T) {
	ts := newTestServer(t)
	ctx := context.Background()

	email, password := TestUser("plain")
	_, err := SeedUser(ctx, testDB.Pool, email, password, models.RoleUser)
	require.NoError(t, err)

	token := loginAs(t, ts, email, password)

	resp, err := ts.RequestWithAuth("GET", "/admin/users", token, nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestAdminListLockedUsers(t *testing.T) {
	ts := newTestServer(t)
	ctx := context.Background()

	adminEmail, adminPassword := TestUser("lockadmin")
	_, err := SeedUser(ctx, testDB.Pool, adminEmail, adminPassword, models.RoleAdmin)
	require.NoError(t, err)

	victimEmail, victimPassword := TestUser("victim")
	_, err = SeedUser(ctx, testDB.Pool, victimEmail, victimPassword, models.RoleUser)
	require.NoError(t, err)

	// Lock the victim account through the shared limiter
	for i := 0; i < 3; i++ {
		ts.Limiter.RecordFailure(victimEmail)
	}

	adminToken := loginAs(t, ts, adminEmail, adminPassword)

	resp, err := ts.RequestWithAuth("GET", "/admin/users?locked=true", adminToken, nil)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var users []struct {
		Email                string `json:"email"`
		Locked               bool   `json:"locked"`
		LockRemainingSeconds int64  `json:"lock_remaining_seconds"`
	}
	require.NoError(t, ParseJSONResponse(resp, &users))
	require.Len(t, users, 1)
	assert.Equal(t, victimEmail, users[0].Email)
	assert.True(t, users[0].Locked)
	assert.Greater(t, users[0].LockRemainingSeconds, int64(0))
}
