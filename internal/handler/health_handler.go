package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/seifhassan89/full-stack-user-curd/pkg/database"
	"github.com/seifhassan89/full-stack-user-curd/pkg/redis"
)

// HealthHandler handles health check HTTP requests
type HealthHandler struct {
	service string
	db      *database.PostgresDB
	cache   *redis.Client // nil when Redis is not configured
	started time.Time
}

// NewHealthHandler creates a new HealthHandler
func NewHealthHandler(service string, db *database.PostgresDB, cache *redis.Client) *HealthHandler {
	return &HealthHandler{
		service: service,
		db:      db,
		cache:   cache,
		started: time.Now(),
	}
}

// Health returns basic health status
// GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": h.service,
		"uptime":  time.Since(h.started).Round(time.Second).String(),
	})
}

// Ready checks if the service is ready to accept traffic
// GET /ready
func (h *HealthHandler) Ready(c *gin.Context) {
	checks := gin.H{"database": "connected"}
	ready := true

	if err := h.db.Ping(c.Request.Context()); err != nil {
		checks["database"] = "disconnected"
		ready = false
	}

	if h.cache != nil {
		checks["redis"] = "connected"
		if err := h.cache.Ping(c.Request.Context()); err != nil {
			checks["redis"] = "disconnected"
			ready = false
		}
	}

	status := "ready"
	code := http.StatusOK
	if !ready {
		status = "not_ready"
		code = http.StatusServiceUnavailable
	}

	c.JSON(code, gin.H{
		"status":  status,
		"service": h.service,
		"checks":  checks,
	})
}
