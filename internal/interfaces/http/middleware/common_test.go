package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/facture/backend/internal/infrastructure/logger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestRequestID_GeneratesAndPropagatesID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())

	var fromGin, fromCtx string
	r.GET("/manufacturer", func(c *gin.Context) {
		fromGin = c.GetString("request_id")
		fromCtx = logger.RequestIDFromContext(c.Request.Context())
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/manufacturer", nil))

	require.NotEmpty(t, fromGin)
	_, err := uuid.Parse(fromGin)
	assert.NoError(t, err, "generated IDs are UUIDs")
	assert.Equal(t, fromGin, fromCtx, "the ID reaches the request context")
	assert.Equal(t, fromGin, w.Header().Get(RequestIDHeader))
}

func TestRequestID_KeepsCallerSuppliedID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set(RequestIDHeader, "gateway-7cafe")
	r.ServeHTTP(w, req)

	assert.Equal(t, "gateway-7cafe", w.Header().Get(RequestIDHeader))
}

func corsRouter(cfg CORSConfig) *gin.Engine {
	r := gin.New()
	r.Use(CORSWithConfig(cfg))
	r.POST("/api/v1/invoices/render", func(c *gin.Context) { c.Status(http.StatusOK) })
	return r
}

func TestCORS_AllowedOriginEchoed(t *testing.T) {
	cfg := DefaultCORSConfig()
	cfg.AllowOrigins = []string{"https://facture.example.com"}
	r := corsRouter(cfg)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/v1/invoices/render", nil)
	req.Header.Set("Origin", "https://facture.example.com")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "https://facture.example.com", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
	assert.Contains(t, w.Header().Get("Access-Control-Expose-Headers"), "X-Render-Backend")
	assert.Contains(t, w.Header().Get("Access-Control-Expose-Headers"), "Content-Disposition")
}

func TestCORS_UnknownOriginGetsNoGrant(t *testing.T) {
	cfg := DefaultCORSConfig()
	cfg.AllowOrigins = []string{"https://facture.example.com"}
	r := corsRouter(cfg)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/v1/invoices/render", nil)
	req.Header.Set("Origin", "https://evil.example.net")
	r.ServeHTTP(w, req)

	// The request still runs; the browser enforces the missing grant.
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORS_EmptyAllowListGrantsNothing(t *testing.T) {
	r := corsRouter(DefaultCORSConfig())

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/v1/invoices/render", nil)
	req.Header.Set("Origin", "https://facture.example.com")
	r.ServeHTTP(w, req)

	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORS_PreflightAlwaysEndsWith204(t *testing.T) {
	cfg := DefaultCORSConfig()
	cfg.AllowOrigins = []string{"https://facture.example.com"}
	r := corsRouter(cfg)

	t.Run("allowed origin", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest("OPTIONS", "/api/v1/invoices/render", nil)
		req.Header.Set("Origin", "https://facture.example.com")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, "https://facture.example.com", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "POST")
	})

	t.Run("unknown origin", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest("OPTIONS", "/api/v1/invoices/render", nil)
		req.Header.Set("Origin", "https://evil.example.net")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})
}

func TestCORS_WildcardDisablesCredentials(t *testing.T) {
	cfg := DefaultCORSConfig()
	cfg.AllowOrigins = []string{"*"}
	r := corsRouter(cfg)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/v1/invoices/render", nil)
	req.Header.Set("Origin", "https://anywhere.example.org")
	r.ServeHTTP(w, req)

	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Credentials"))
}

func TestSecure_SetsBaselineHeaders(t *testing.T) {
	r := gin.New()
	r.Use(Secure())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/", nil))

	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	assert.Equal(t, "strict-origin-when-cross-origin", w.Header().Get("Referrer-Policy"))
	assert.Contains(t, w.Header().Get("Content-Security-Policy"), "default-src 'none'")
}
