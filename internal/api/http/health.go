package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Pinger is satisfied by *pgxpool.Pool and the Redis cache repository.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Service   string    `json:"service"`
	Version   string    `json:"version"`
	DB        string    `json:"db,omitempty"`
	Cache     string    `json:"cache,omitempty"`
	Records   int       `json:"records"`
	Dataset   string    `json:"dataset_version,omitempty"`
}

// DatasetInfo reports what is currently loaded.
type DatasetInfo interface {
	Len() int
	Version() string
}

type HealthHandler struct {
	serviceName string
	version     string
	db          Pinger
	cache       Pinger
	dataset     DatasetInfo
}

// NewHealthHandler accepts nil for any dependency that is not configured.
func NewHealthHandler(serviceName, version string, db, cache Pinger, dataset DatasetInfo) *HealthHandler {
	return &HealthHandler{
		serviceName: serviceName,
		version:     version,
		db:          db,
		cache:       cache,
		dataset:     dataset,
	}
}

func pingStatus(ctx context.Context, p Pinger) string {
	if p == nil {
		return "disabled"
	}
	pingCtx, cancel := context.WithTimeout(ctx, 1*time.Second)
	defer cancel()

	if err := p.Ping(pingCtx); err != nil {
		return "down"
	}
	return "up"
}

func (h *HealthHandler) HealthCheck(c *gin.Context) {
	resp := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
		Service:   h.serviceName,
		Version:   h.version,
		DB:        pingStatus(c.Request.Context(), h.db),
		Cache:     pingStatus(c.Request.Context(), h.cache),
	}
	if h.dataset != nil {
		resp.Records = h.dataset.Len()
		resp.Dataset = h.dataset.Version()
	}
	if resp.Dataset == "" {
		resp.Status = "degraded"
	}

	c.JSON(http.StatusOK, resp)
}

func (h *HealthHandler) RegisterRoutes(r gin.IRouter) {
	r.GET("/health", h.HealthCheck)
	r.GET("/healthz", h.HealthCheck)
}
