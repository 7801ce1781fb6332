package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/entradahq/entrada/internal/models"
	"github.com/entradahq/entrada/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdminListUsers_ParsesQueryParams(t *testing.T) {
	var gotFilter models.UserFilter
	var gotLockedOnly bool
	var gotLimit, gotOffset int
	svc := &MockAdminService{
		ListUsersFunc: func(ctx context.Context, filter models.UserFilter, lockedOnly bool, limit, offset int) ([]*services.AdminUserResponse, error) {
			gotFilter = filter
			gotLockedOnly = lockedOnly
			gotLimit = limit
			gotOffset = offset
			return []*services.AdminUserResponse{
				{UserResponse: services.UserResponse{ID: "user-1", Email: "ana@example.com"}, Locked: true, LockRemainingSeconds: 120},
			}, nil
		},
	}
	handler := NewAdminHandler(svc)

	req := httptest.NewRequest(http.MethodGet, "/admin/users?q=ana&role=user&status=active&locked=true&limit=10&offset=20", nil)
	req = WithAuthContext(req, "admin-1", "admin@example.com")
	rec := httptest.NewRecorder()

	handler.ListUsers(rec, req)

	var resp []*services.AdminUserResponse
	AssertJSONResponse(t, rec, http.StatusOK, &resp)
	require.Len(t, resp, 1)
	assert.True(t, resp[0].Locked)
	assert.Equal(t, "ana", gotFilter.Query)
	assert.Equal(t, "user", gotFilter.Role)
	assert.Equal(t, "active", gotFilter.Status)
	assert.True(t, gotLockedOnly)
	assert.Equal(t, 10, gotLimit)
	assert.Equal(t, 20, gotOffset)
}

func TestAdminListUsers_InvalidPagination(t *testing.T) {
	handler := NewAdminHandler(&MockAdminService{})

	req := httptest.NewRequest(http.MethodGet, "/admin/users?limit=zero", nil)
	rec := httptest.NewRecorder()
	handler.ListUsers(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/admin/users?offset=-5", nil)
	rec = httptest.NewRecorder()
	handler.ListUsers(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAdminSetStatus(t *testing.T) {
	tests := []struct {
		name           string
		body           interface{}
		serviceErr     error
		expectedStatus int
	}{
		{
			name:           "disable user",
			body:           SetStatusRequest{Status: models.StatusDisabled},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "invalid status rejected by validation",
			body:           SetStatusRequest{Status: "banned"},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "self modification forbidden",
			body:           SetStatusRequest{Status: models.StatusDisabled},
			serviceErr:     models.ErrForbidden,
			expectedStatus: http.StatusForbidden,
		},
		{
			name:           "user not found",
			body:           SetStatusRequest{Status: models.StatusDisabled},
			serviceErr:     models.ErrNotFound,
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &MockAdminService{
				SetStatusFunc: func(ctx context.Context, actorID, userID, status string) (*services.UserResponse, error) {
					if tt.serviceErr != nil {
						return nil, tt.serviceErr
					}
					return &services.UserResponse{ID: userID, Status: status}, nil
				},
			}
			handler := NewAdminHandler(svc)

			req := NewTestRequest(t, http.MethodPut, "/admin/users/user-1/status", tt.body)
			req = WithAuthContext(req, "admin-1", "admin@example.com")
			req = WithChiRouteContext(req, map[string]string{"id": "user-1"})
			rec := httptest.NewRecorder()

			handler.SetStatus(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
		})
	}
}

func TestAdminSetRole(t *testing.T) {
	var gotActorID, gotUserID, gotRole string
	svc := &MockAdminService{
		SetRoleFunc: func(ctx context.Context, actorID, userID, role string) (*services.UserResponse, error) {
			gotActorID = actorID
			gotUserID = userID
			gotRole = role
			return &services.UserResponse{ID: userID, Role: role}, nil
		},
	}
	handler := NewAdminHandler(svc)

	req := NewTestRequest(t, http.MethodPut, "/admin/users/user-1/role", SetRoleRequest{Role: models.RoleAdmin})
	req = WithAuthContext(req, "admin-1", "admin@example.com")
	req = WithChiRouteContext(req, map[string]string{"id": "user-1"})
	rec := httptest.NewRecorder()

	handler.SetRole(rec, req)

	var resp services.UserResponse
	AssertJSONResponse(t, rec, http.StatusOK, &resp)
	assert.Equal(t, models.RoleAdmin, resp.Role)
	assert.Equal(t, "admin-1", gotActorID)
	assert.Equal(t, "user-1", gotUserID)
	assert.Equal(t, models.RoleAdmin, gotRole)
}

func TestAdminSetRole_InvalidRole(t *testing.T) {
	handler := NewAdminHandler(&MockAdminService{})

	req := NewTestRequest(t, http.MethodPut, "/admin/users/user-1/role", SetRoleRequest{Role: "superuser"})
	req = WithAuthContext(req, "admin-1", "admin@example.com")
	req = WithChiRouteContext(req, map[string]string{"id": "user-1"})
	rec := httptest.NewRecorder()

	handler.SetRole(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAdminDeleteUser(t *testing.T) {
	tests := []struct {
		name           string
		serviceErr     error
		expectedStatus int
	}{
		{
			name:           "delete user",
			expectedStatus: http.StatusNoContent,
		},
		{
			name:           "self deletion forbidden",
			serviceErr:     models.ErrForbidden,
			expectedStatus: http.StatusForbidden,
		},
		{
			name:           "user not found",
			serviceErr:     models.ErrNotFound,
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotActorID, gotUserID string
			svc := &MockAdminService{
				DeleteUserFunc: func(ctx context.Context, actorID, userID string) error {
					gotActorID = actorID
					gotUserID = userID
					return tt.serviceErr
				},
			}
			handler := NewAdminHandler(svc)

			req := NewTestRequest(t, http.MethodDelete, "/admin/users/user-1", nil)
			req = WithAuthContext(req, "admin-1", "admin@example.com")
			req = WithChiRouteContext(req, map[string]string{"id": "user-1"})
			rec := httptest.NewRecorder()

			handler.DeleteUser(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			assert.Equal(t, "admin-1", gotActorID)
			assert.Equal(t, "user-1", gotUserID)
		})
	}
}
