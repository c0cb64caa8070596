// Package router assembles the gin engine: the shared middleware chain,
// the health endpoint and the versioned API surface.
package router

import (
	"time"

	"github.com/facture/backend/internal/infrastructure/config"
	"github.com/facture/backend/internal/infrastructure/logger"
	"github.com/facture/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RouteRegistrar is implemented by handlers that register their own routes
// on the versioned API group
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// Router wires middleware and handlers into one gin engine
type Router struct {
	engine     *gin.Engine
	apiVersion string
	registrars []RouteRegistrar
	health     gin.HandlerFunc
	limiter    *middleware.RateLimiter
}

// Option is a functional option for Router configuration
type Option func(*Router)

// WithAPIVersion sets the API version prefix (e.g., "v1", "v2")
func WithAPIVersion(version string) Option {
	return func(r *Router) {
		r.apiVersion = version
	}
}

// WithHealth mounts a health check handler at GET /health, outside the
// versioned API group so probes never hit the rate limiter
func WithHealth(h gin.HandlerFunc) Option {
	return func(r *Router) {
		r.health = h
	}
}

// WithRateLimit throttles the API group per client IP
func WithRateLimit(limit int, window time.Duration) Option {
	return func(r *Router) {
		r.limiter = middleware.NewRateLimiter(limit, window)
	}
}

// New builds a Router with the shared middleware chain already applied:
// request IDs, structured request logging, panic recovery, security
// headers, CORS and the body size limit, in that order.
func New(cfg *config.Config, log *zap.Logger, opts ...Option) (*Router, error) {
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		return nil, err
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.GinMiddleware(log))
	engine.Use(logger.Recovery(log))
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORSWithConfig(corsConfig(&cfg.HTTP)))
	if cfg.HTTP.MaxBodySize > 0 {
		engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))
	}

	r := &Router{
		engine:     engine,
		apiVersion: "v1",
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Register adds a RouteRegistrar to be mounted by Setup
func (r *Router) Register(registrar RouteRegistrar) *Router {
	r.registrars = append(r.registrars, registrar)
	return r
}

// Setup mounts the health endpoint and every registered handler, then
// returns the finished engine
func (r *Router) Setup() *gin.Engine {
	if r.health != nil {
		r.engine.GET("/health", r.health)
	}

	api := r.engine.Group("/api/" + r.apiVersion)
	if r.limiter != nil {
		api.Use(middleware.RateLimit(r.limiter))
	}
	for _, registrar := range r.registrars {
		registrar.RegisterRoutes(api)
	}
	return r.engine
}

// Engine exposes the underlying gin engine
func (r *Router) Engine() *gin.Engine {
	return r.engine
}

// corsConfig maps the HTTP server configuration onto the CORS middleware,
// falling back to the middleware defaults for anything left unset
func corsConfig(cfg *config.HTTPConfig) middleware.CORSConfig {
	corsCfg := middleware.DefaultCORSConfig()
	if len(cfg.CORSAllowOrigins) > 0 {
		corsCfg.AllowOrigins = cfg.CORSAllowOrigins
	}
	if len(cfg.CORSAllowMethods) > 0 {
		corsCfg.AllowMethods = cfg.CORSAllowMethods
	}
	if len(cfg.CORSAllowHeaders) > 0 {
		corsCfg.AllowHeaders = cfg.CORSAllowHeaders
	}
	return corsCfg
}
