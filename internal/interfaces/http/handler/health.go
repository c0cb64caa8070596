package handler

import (
	"net/http"
	"runtime"
	"time"

	"github.com/facture/backend/internal/infrastructure/persistence"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// HealthHandler reports process liveness and dependency health
type HealthHandler struct {
	BaseHandler
	db        *persistence.Database
	redis     *redis.Client
	startTime time.Time
}

// NewHealthHandler creates a new HealthHandler. The redis client may be nil
// when the deployment runs on the in-memory artifact cache.
func NewHealthHandler(db *persistence.Database, redisClient *redis.Client) *HealthHandler {
	return &HealthHandler{
		db:        db,
		redis:     redisClient,
		startTime: time.Now(),
	}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string            `json:"status"`
	GoVersion string            `json:"go_version"`
	Uptime    string            `json:"uptime"`
	Checks    map[string]string `json:"checks"`
}

// Health reports overall service health. Returns 503 when a required
// dependency is unreachable so load balancers stop routing traffic here.
func (h *HealthHandler) Health(c *gin.Context) {
	checks := make(map[string]string)
	healthy := true

	if h.db != nil {
		if err := h.db.Ping(); err != nil {
			checks["database"] = "unreachable"
			healthy = false
		} else {
			checks["database"] = "ok"
		}
	}

	if h.redis != nil {
		if err := h.redis.Ping(c.Request.Context()).Err(); err != nil {
			// The artifact cache is an optimization; a dead redis degrades
			// performance but does not take the service down.
			checks["redis"] = "unreachable"
		} else {
			checks["redis"] = "ok"
		}
	}

	status := "ok"
	code := http.StatusOK
	if !healthy {
		status = "degraded"
		code = http.StatusServiceUnavailable
	}

	c.JSON(code, HealthResponse{
		Status:    status,
		GoVersion: runtime.Version(),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
		Checks:    checks,
	})
}
