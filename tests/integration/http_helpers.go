package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/entradahq/entrada/internal/auth"
	"github.com/entradahq/entrada/internal/config"
	"github.com/entradahq/entrada/internal/database"
	"github.com/entradahq/entrada/internal/handlers"
	middlewareCustom "github.com/entradahq/entrada/internal/middleware"
	"github.com/entradahq/entrada/internal/models"
	"github.com/entradahq/entrada/internal/routes"
	"github.com/entradahq/entrada/internal/services"
	"github.com/entradahq/entrada/internal/throttle"
	pkglogger "github.com/entradahq/entrada/pkg/logger"
)

// MockEmailService captures order receipts for test assertions
type MockEmailService struct {
	SentReceipts []*models.Order
	mu           sync.Mutex
}

// SendOrderReceipt records the order
func (m *MockEmailService) SendOrderReceipt(ctx context.Context, order *models.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.SentReceipts = append(m.SentReceipts, order)
	return nil
}

// GetLastReceipt returns the most recent receipt sent
func (m *MockEmailService) GetLastReceipt() *models.Order {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.SentReceipts) == 0 {
		return nil
	}
	return m.SentReceipts[len(m.SentReceipts)-1]
}

// TestServer wraps httptest.Server with database and all dependencies
type TestServer struct {
	Server       *httptest.Server
	Pool         *database.DB
	EmailService *MockEmailService
	Config       *config.Config

	// Dependency references for inspection in tests
	Limiter *throttle.Limiter
	logger  *slog.Logger
}

// NewTestServer initializes a complete HTTP server with real database + mocked email
func NewTestServer(db *database.DB) *TestServer {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelWarn}))

	// Create test config. Timing delays are zeroed so auth tests run fast.
	cfg := &config.Config{
		Auth: config.AuthConfig{
			JWTSecret:          "test-secret-32-characters-long-for-testing",
			AccessTokenExpiry:  15 * time.Minute,
			RefreshTokenExpiry: 7 * 24 * time.Hour,
			TimingDelayBaseMs:  0,
			TimingDelayRandMs:  0,
		},
		Throttle: config.ThrottleConfig{
			MaxLoginAttempts: 3,
			LoginLockWindow:  5 * time.Minute,
		},
		Email: config.EmailConfig{
			Enabled:     true,
			FromAddress: "tickets@test.local",
		},
		Server: config.ServerConfig{
			Port:           "0",
			Env:            "test",
			AllowedOrigins: []string{},
		},
	}

	// Initialize repositories
	userRepo, eventRepo, orderRepo := InitializeRepositories(db)

	// Create mock email service
	mockEmail := &MockEmailService{}

	// Initialize TokenManager
	tokenManager := auth.NewTokenManager(
		cfg.Auth.JWTSecret,
		cfg.Auth.AccessTokenExpiry,
		cfg.Auth.RefreshTokenExpiry,
	)

	// Initialize audit logger
	auditLogger := pkglogger.NewAuditLogger(logger)

	// Login throttle
	limiter := throttle.New(throttle.NewMemoryStore(), throttle.Config{
		MaxAttempts: cfg.Throttle.MaxLoginAttempts,
		LockWindow:  cfg.Throttle.LoginLockWindow,
	}, logger)

	// Timing delay for auth security
	timingDelay := auth.NewTimingDelay(auth.TimingConfig{
		BaseDelayMs:   cfg.Auth.TimingDelayBaseMs,
		RandomDelayMs: cfg.Auth.TimingDelayRandMs,
	})

	// Initialize services
	authService := services.NewAuthService(userRepo, limiter, tokenManager, timingDelay, logger, auditLogger)
	userService := services.NewUserService(userRepo, logger, auditLogger)
	eventService := services.NewEventService(eventRepo, logger)
	orderService := services.NewOrderService(orderRepo, eventRepo, mockEmail, logger, auditLogger)
	adminService := services.NewAdminService(userRepo, limiter, logger, auditLogger)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService, orderService)
	eventHandler := handlers.NewEventHandler(eventService)
	checkoutHandler := handlers.NewCheckoutHandler(orderService)
	adminHandler := handlers.NewAdminHandler(adminService)

	// Setup Chi router with middleware
	r := chi.NewRouter()
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(middlewareCustom.SecurityHeaders(middlewareCustom.SecurityHeadersConfig{Env: cfg.Server.Env}))
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Timeout(60 * time.Second))

	// Setup routes using production pattern
	routes.RegisterRoutes(r, authHandler, userHandler, eventHandler, checkoutHandler, adminHandler, tokenManager, userRepo)

	// Create httptest.Server
	server := httptest.NewServer(r)

	return &TestServer{
		Server:       server,
		Pool:         db,
		EmailService: mockEmail,
		Config:       cfg,
		Limiter:      limiter,
		logger:       logger,
	}
}

// Close shuts down the test server
func (ts *TestServer) Close() {
	if ts.Server != nil {
		ts.Server.Close()
	}
}

// Request makes an HTTP request to the test server
func (ts *TestServer) Request(method, path string, body interface{}, headers map[string]string) (*http.Response, error) {
	url := ts.Server.URL + path

	var bodyReader io.Reader
	if body != nil {
		bodyBytes, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		bodyReader = bytes.NewReader(bodyBytes)
	}

	req, err := http.NewRequest(method, url, bodyReader)
	if err != nil {
		return nil, err
	}

	// Set headers
	req.Header.Set("Content-Type", "application/json")
	if headers != nil {
		for key, value := range headers {
			req.Header.Set(key, value)
		}
	}

	return http.DefaultClient.Do(req)
}

// RequestWithAuth makes an authenticated HTTP request with access token
func (ts *TestServer) RequestWithAuth(method, path, accessToken string, body interface{}) (*http.Response, error) {
	headers := map[string]string{
		"Authorization": "Bearer " + accessToken,
	}
	return ts.Request(method, path, body, headers)
}

// ParseJSONResponse parses JSON response body into target struct
func ParseJSONResponse(resp *http.Response, target interface{}) error {
	defer resp.Body.Close()
	return json.NewDecoder(resp.Body).Decode(target)
}

// ExtractTokensFromResponse extracts access/refresh tokens from auth response
func ExtractTokensFromResponse(resp *http.Response) (accessToken, refreshToken string, err error) {
	defer resp.Body.Close()

	var authResp map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&authResp); err != nil {
		return "", "", fmt.Errorf("failed to parse response: %w", err)
	}

	if access, ok := authResp["access_token"].(string); ok {
		accessToken = access
	}
	if refresh, ok := authResp["refresh_token"].(string); ok {
		refreshToken = refresh
	}

	return
}

// GetErrorMessage extracts error message from error response
func GetErrorMessage(resp *http.Response) (string, error) {
	defer resp.Body.Close()
	var errResp map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&errResp); err != nil {
		return "", err
	}
	if msg, ok := errResp["message"].(string); ok {
		return msg, nil
	}
	return "", nil
}
