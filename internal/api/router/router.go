package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/Bhuvanyu1/Cloudcatcher/internal/api/handlers"
	"github.com/Bhuvanyu1/Cloudcatcher/internal/api/middleware"
	"github.com/Bhuvanyu1/Cloudcatcher/internal/config"
	"github.com/Bhuvanyu1/Cloudcatcher/internal/pkg/logger"
	"github.com/Bhuvanyu1/Cloudcatcher/internal/pkg/metrics"
)

type Handlers struct {
	Health         *handlers.HealthHandler
	Account        *handlers.AccountHandler
	Sync           *handlers.SyncHandler
	Instance       *handlers.InstanceHandler
	Recommendation *handlers.RecommendationHandler
	Alert          *handlers.AlertHandler
	Dashboard      *handlers.DashboardHandler
}

func New(cfg *config.Config, log *logger.Logger, h *Handlers) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(log))
	r.Use(middleware.Recovery(log))
	r.Use(metrics.Middleware)
	r.Use(middleware.CORS(cfg.Server.AllowedOrigins))
	r.Use(middleware.RateLimit(100, 200)) // 100 req/sec, burst of 200

	// Health and observability
	r.Get("/healthz", h.Health.Healthz)
	r.Get("/readyz", h.Health.Readyz)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	// Accounts
	r.Route("/api/v1/accounts", func(r chi.Router) {
		r.Get("/", h.Account.List)
		r.Post("/", h.Account.Create)
		r.Get("/{id}", h.Account.Get)
		r.Put("/{id}", h.Account.Update)
		r.Delete("/{id}", h.Account.Delete)
		r.Post("/{id}/enable", h.Account.Enable)
		r.Post("/{id}/disable", h.Account.Disable)
	})

	// Sync
	r.Route("/api/v1/sync", func(r chi.Router) {
		r.Post("/", h.Sync.SyncAll)
		r.Post("/{accountID}", h.Sync.SyncAccount)
	})

	// Instances
	r.Get("/api/v1/instances", h.Instance.List)

	// Recommendations
	r.Route("/api/v1/recommendations", func(r chi.Router) {
		r.Get("/", h.Recommendation.List)
		r.Post("/run", h.Recommendation.Run)
		r.Patch("/{id}", h.Recommendation.UpdateStatus)
	})

	// Alerts
	r.Route("/api/v1/alerts", func(r chi.Router) {
		r.Get("/", h.Alert.List)
		r.Post("/webhook", h.Alert.Webhook)
		r.Post("/detect", h.Alert.Detect)
	})

	// Dashboard
	r.Route("/api/v1/dashboard", func(r chi.Router) {
		r.Get("/stats", h.Dashboard.Stats)
		r.Get("/correlated-alerts", h.Dashboard.CorrelatedAlerts)
	})

	return r
}
