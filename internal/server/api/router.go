package api

import (
	"net/http"

	"wkmetrics/internal/auth"
	"wkmetrics/internal/server/api/middleware"
	av1 "wkmetrics/internal/server/api/v1"
	"wkmetrics/internal/server/config"
	"wkmetrics/internal/server/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Router handles all routing logic
type Router struct {
	engine   *gin.Engine
	config   *config.Config
	provider auth.Provider
	logger   *zap.Logger
}

// NewRouter creates and configures a new router. The auth provider may
// be nil when authentication is disabled.
func NewRouter(cfg *config.Config, svc *service.Service, provider auth.Provider, logger *zap.Logger) *Router {
	// Set gin mode based on config
	if cfg.Log.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := &Router{
		engine:   gin.New(),
		config:   cfg,
		provider: provider,
		logger:   logger,
	}

	// Initialize middleware
	r.setupMiddleware()

	// Initialize API versions
	r.setupAPIV1(svc)

	return r
}

// Handler returns the HTTP handler
func (r *Router) Handler() http.Handler {
	return r.engine
}

// setupMiddleware configures all middleware
func (r *Router) setupMiddleware() {
	m := middleware.New(r.config, r.provider, r.logger)

	// Basic middleware
	r.engine.Use(m.RequestID())
	r.engine.Use(m.Logger())
	r.engine.Use(m.Recovery())

	// Security middleware
	r.engine.Use(m.Secure())

	// CORS if enabled
	if r.config.API.CORS.Enabled {
		r.engine.Use(m.Cors())
	}

	// Rate limiting if enabled
	if r.config.API.RateLimit.Enabled {
		r.engine.Use(m.RateLimit())
	}

	// Prometheus collection and scrape endpoint if enabled
	if r.config.API.Metrics.Enabled {
		r.engine.Use(m.Metrics())
		r.engine.GET(r.config.API.Metrics.Path, m.MetricsHandler())
	}
}

// setupAPIV1 configures v1 API routes
func (r *Router) setupAPIV1(svc *service.Service) {
	api := av1.NewAPI(svc, r.logger)

	// Create v1 route group
	v1Router := r.engine.Group("/api/v1")

	// Add authentication and role gating for protected routes
	if r.config.API.Auth.Enabled {
		m := middleware.New(r.config, r.provider, r.logger)
		v1Router.Use(m.Auth())
		api.RegisterRoutes(v1Router, m.RequireManager(), m.RequireAdmin())
		return
	}

	api.RegisterRoutes(v1Router, nil, nil)
}
