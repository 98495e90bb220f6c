package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ivy-monitoring/supplier-api/internal/observability"
	"github.com/ivy-monitoring/supplier-api/internal/platform/httpx"
	"github.com/ivy-monitoring/supplier-api/internal/suppliers"
)

// Service identity reported by the health and root endpoints.
const (
	ServiceName    = "monitoring-platform-api"
	ServiceVersion = "1.0.0"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger          *slog.Logger
	Config          *Config
	SupplierHandler *suppliers.Handler
	Metrics         *observability.Metrics
}

// NewRouter constructs the chi.Router with the API defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]string{
			"status":  "healthy",
			"service": ServiceName,
			"version": ServiceVersion,
		})
	})

	environment := "development"
	prefix := "/api"
	if params.Config != nil {
		environment = params.Config.Environment
		prefix = params.Config.APIPrefix
	}

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]string{
			"message":     "Welcome to Monitoring Platform API",
			"health":      "/health",
			"version":     ServiceVersion,
			"environment": environment,
		})
	})

	if params.SupplierHandler != nil {
		r.Route(prefix+"/suppliers", params.SupplierHandler.MountRoutes)
	}
	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	return r
}
