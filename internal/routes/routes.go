package routes

import (
	"github.com/entradahq/entrada/internal/auth"
	"github.com/entradahq/entrada/internal/handlers"
	"github.com/entradahq/entrada/internal/middleware"
	"github.com/entradahq/entrada/internal/models"
	"github.com/entradahq/entrada/internal/repositories"
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all application routes
func RegisterRoutes(
	router chi.Router,
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	eventHandler *handlers.EventHandler,
	checkoutHandler *handlers.CheckoutHandler,
	adminHandler *handlers.AdminHandler,
	tokenManager *auth.TokenManager,
	userRepo *repositories.UserRepository,
) {
	// Rate limiting config for auth endpoints
	rateLimitConfig := middleware.DefaultAuthRateLimit()

	// Public routes - no authentication required
	router.Get("/events", eventHandler.List)
	router.Get("/events/filters", eventHandler.FilterOptions)
	router.Get("/events/{id}", eventHandler.Get)
	router.With(middleware.RateLimitByIP(rateLimitConfig)).Post("/auth/login", authHandler.Login)
	router.With(middleware.RateLimitByIP(rateLimitConfig)).Post("/auth/register", authHandler.Register)
	router.With(middleware.RateLimitByIP(rateLimitConfig)).Post("/auth/refresh", authHandler.RefreshToken)

	// Protected routes - authentication required
	router.Group(func(r chi.Router) {
		r.Use(auth.AuthMiddleware(tokenManager))

		r.Post("/auth/logout", authHandler.Logout)

		r.Get("/users/me", userHandler.Me)
		r.Put("/users/me", userHandler.UpdateMe)
		r.Get("/users/me/orders", userHandler.MyOrders)
		r.Get("/users/me/orders/{id}", userHandler.MyOrder)

		r.Post("/events/{id}/checkout", checkoutHandler.Checkout)

		// Admin-only routes
		r.Group(func(r chi.Router) {
			r.Use(auth.RequireRole(userRepo, models.RoleAdmin))
			r.Get("/admin/users", adminHandler.ListUsers)
			r.Put("/admin/users/{id}/status", adminHandler.SetStatus)
			r.Put("/admin/users/{id}/role", adminHandler.SetRole)
			r.Delete("/admin/users/{id}", adminHandler.DeleteUser)
		})
	})
}
