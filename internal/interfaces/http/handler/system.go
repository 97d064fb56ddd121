package handler

import (
	"net/http"
	"time"

	"github.com/erp/resolver/internal/infrastructure/cache"
	"github.com/erp/resolver/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// Pinger checks a dependency
type Pinger interface {
	Ping() error
}

// CacheStatser reports check cache counters
type CacheStatser interface {
	CheckCacheStats() cache.PartitionStats
}

// SystemHandler serves health and ping
type SystemHandler struct {
	BaseHandler
	name      string
	startTime time.Time
	db        Pinger
	stats     CacheStatser
}

// NewSystemHandler creates a SystemHandler. db may be nil.
func NewSystemHandler(name string, db Pinger, stats CacheStatser) *SystemHandler {
	return &SystemHandler{
		name:      name,
		startTime: time.Now(),
		db:        db,
		stats:     stats,
	}
}

// HealthResponse is the health payload
type HealthResponse struct {
	Status   string                `json:"status"`
	Service  string                `json:"service"`
	Uptime   string                `json:"uptime"`
	Database string                `json:"database,omitempty"`
	Cache    *cache.PartitionStats `json:"check_cache,omitempty"`
}

// Health reports service and database status
func (h *SystemHandler) Health(c *gin.Context) {
	resp := HealthResponse{
		Status:  "healthy",
		Service: h.name,
		Uptime:  time.Since(h.startTime).Round(time.Second).String(),
	}
	if h.stats != nil {
		stats := h.stats.CheckCacheStats()
		resp.Cache = &stats
	}

	status := http.StatusOK
	if h.db != nil {
		resp.Database = "connected"
		if err := h.db.Ping(); err != nil {
			resp.Status = "unhealthy"
			resp.Database = "disconnected"
			status = http.StatusServiceUnavailable
		}
	}
	c.JSON(status, dto.NewSuccessResponse(resp))
}

// PingResponse is the ping payload
type PingResponse struct {
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

// Ping answers pong
func (h *SystemHandler) Ping(c *gin.Context) {
	h.Success(c, PingResponse{Message: "pong", Timestamp: time.Now().Format(time.RFC3339)})
}

// RegisterRoutes registers the versioned system routes
func (h *SystemHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/system/ping", h.Ping)
}

