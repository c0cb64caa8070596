package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/facture/backend/internal/infrastructure/logger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestIDHeader is the header clients use to supply or read back the
// request correlation ID.
const RequestIDHeader = "X-Request-ID"

// RequestID assigns each request a correlation ID. A caller-supplied
// X-Request-ID is kept so the ID stays stable across proxies. The ID goes
// into the gin context for handlers, the response header for clients, and
// the request context so SQL traces can pick it up.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Writer.Header().Set(RequestIDHeader, id)
		c.Request = c.Request.WithContext(
			logger.ContextWithRequestID(c.Request.Context(), id))
		c.Next()
	}
}

// CORSConfig lists the cross-origin rules for the API.
type CORSConfig struct {
	AllowOrigins     []string
	AllowMethods     []string
	AllowHeaders     []string
	ExposeHeaders    []string
	AllowCredentials bool
	MaxAge           time.Duration
}

// DefaultCORSConfig allows no origins: browsers can only reach the API
// cross-origin once config.toml names them explicitly. The exposed headers
// cover everything the render endpoint reports about a document.
func DefaultCORSConfig() CORSConfig {
	return CORSConfig{
		AllowMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPut,
			http.MethodDelete, http.MethodOptions,
		},
		AllowHeaders: []string{"Content-Type", RequestIDHeader, "Accept", "Origin"},
		ExposeHeaders: []string{
			RequestIDHeader, "Content-Disposition",
			"X-Render-Backend", "X-From-Cache", "X-Artifact-URL",
			"X-RateLimit-Limit", "X-RateLimit-Remaining",
		},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
}

// CORSWithConfig applies cfg. Preflight OPTIONS requests always end here
// with 204 so an unmatched route never turns a preflight into a 404.
func CORSWithConfig(cfg CORSConfig) gin.HandlerFunc {
	allowed := make(map[string]bool, len(cfg.AllowOrigins))
	wildcard := false
	for _, o := range cfg.AllowOrigins {
		if o == "*" {
			wildcard = true
		}
		allowed[o] = true
	}

	methods := strings.Join(cfg.AllowMethods, ", ")
	headers := strings.Join(cfg.AllowHeaders, ", ")
	expose := strings.Join(cfg.ExposeHeaders, ", ")
	maxAge := strconv.Itoa(int(cfg.MaxAge.Seconds()))

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		grant := ""
		switch {
		case wildcard:
			grant = "*"
		case origin != "" && allowed[origin]:
			grant = origin
		}

		if grant != "" {
			h := c.Writer.Header()
			h.Set("Access-Control-Allow-Origin", grant)
			h.Set("Access-Control-Allow-Methods", methods)
			h.Set("Access-Control-Allow-Headers", headers)
			if expose != "" {
				h.Set("Access-Control-Expose-Headers", expose)
			}
			if cfg.MaxAge > 0 {
				h.Set("Access-Control-Max-Age", maxAge)
			}
			// Credentials with a wildcard origin is rejected by browsers.
			if cfg.AllowCredentials && grant != "*" {
				h.Set("Access-Control-Allow-Credentials", "true")
			}
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// Secure sets the baseline security headers for an API that serves JSON
// and binary artifacts but never HTML pages.
func Secure() gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		h.Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")
		c.Next()
	}
}
