package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/nabin-thapa/gighub/internal/api/handlers"
	"github.com/nabin-thapa/gighub/internal/api/middleware"
	"github.com/nabin-thapa/gighub/internal/config"
	"github.com/nabin-thapa/gighub/internal/domain/user"
	"github.com/nabin-thapa/gighub/internal/pkg/logger"
	"github.com/nabin-thapa/gighub/internal/pkg/metrics"
)

type Handlers struct {
	Health       *handlers.HealthHandler
	Auth         *handlers.AuthHandler
	Plan         *handlers.PlanHandler
	Subscription *handlers.SubscriptionHandler
	Category     *handlers.CategoryHandler
	Coupon       *handlers.CouponHandler
}

func New(cfg *config.Config, log *logger.Logger, h *Handlers) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(log))
	r.Use(middleware.Recovery(log))
	r.Use(middleware.DefaultCORS(cfg.Server.FrontendURL))
	r.Use(middleware.RateLimit(100, 200)) // 100 req/sec, burst of 200
	r.Use(metrics.HTTPMiddleware)

	// Public routes
	r.Group(func(r chi.Router) {
		r.Get("/swagger/*", httpSwagger.WrapHandler)
		r.Handle("/metrics", metrics.Handler())

		r.Get("/health", h.Health.Healthz)
		r.Get("/healthz", h.Health.Healthz)
		r.Get("/readyz", h.Health.Readyz)

		r.Post("/api/v1/auth/register", h.Auth.Register)
		r.Post("/api/v1/auth/login", h.Auth.Login)
		r.Post("/api/v1/auth/verify", h.Auth.VerifyOTP)
		r.Post("/api/v1/auth/refresh", h.Auth.Refresh)
		r.Post("/api/v1/auth/logout", h.Auth.Logout)

		r.Get("/api/v1/plans", h.Plan.List)
		r.Get("/api/v1/plans/{id}", h.Plan.Get)

		r.Get("/api/v1/categories", h.Category.List)
		r.Get("/api/v1/categories/{id}/freelancers", h.Category.Freelancers)
	})

	// Protected routes (require authentication)
	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(cfg.Auth.JWTSecret))

		// Subscriptions (freelancers only)
		r.Route("/api/v1/subscriptions", func(r chi.Router) {
			r.Get("/current", h.Subscription.Current)
			r.With(middleware.RequireRole(user.RoleFreelancer)).Post("/", h.Subscription.Subscribe)
			r.With(middleware.RequireRole(user.RoleFreelancer)).Post("/cancel", h.Subscription.Cancel)
		})

		// Category tagging (freelancers only)
		r.Route("/api/v1/categories", func(r chi.Router) {
			r.Get("/mine", h.Category.MyCategories)
			r.With(middleware.RequireRole(user.RoleFreelancer)).Post("/tag", h.Category.Tag)
			r.With(middleware.RequireRole(user.RoleFreelancer)).Delete("/tag/{id}", h.Category.Untag)
		})

		// Coupons
		r.Post("/api/v1/coupons/redeem", h.Coupon.Redeem)
	})

	// Admin routes
	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(cfg.Auth.JWTSecret))
		r.Use(middleware.RequireRole(user.RoleAdmin))

		r.Route("/api/v1/admin", func(r chi.Router) {
			r.Route("/plans", func(r chi.Router) {
				r.Post("/", h.Plan.Create)
				r.Put("/{id}", h.Plan.Update)
				r.Delete("/{id}", h.Plan.Delete)
			})

			r.Route("/subscriptions", func(r chi.Router) {
				r.Get("/", h.Subscription.List)
				r.Post("/sweep", h.Subscription.Sweep)
				r.Patch("/{id}", h.Subscription.AdminUpdate)
				r.Delete("/{id}", h.Subscription.AdminDelete)
			})

			r.Route("/categories", func(r chi.Router) {
				r.Post("/", h.Category.Create)
				r.Put("/{id}", h.Category.Update)
				r.Delete("/{id}", h.Category.Delete)
			})

			r.Route("/coupons", func(r chi.Router) {
				r.Get("/", h.Coupon.List)
				r.Post("/", h.Coupon.Create)
				r.Delete("/{id}", h.Coupon.Delete)
			})
		})
	})

	return r
}
