package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"spacetime-server/internal/shared/response"
)

type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Database  string `json:"database"`
	Redis     string `json:"redis"`
	Spaces    int    `json:"spaces"`
}

type dbPinger interface {
	PingContext(ctx context.Context) error
}

type redisPinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	db     dbPinger
	redis  redisPinger
	spaces func() int
}

// NewHealthHandler reports on db and redis; redis may be nil when caching is
// disabled.
func NewHealthHandler(db dbPinger, redis redisPinger, spaces func() int) *HealthHandler {
	return &HealthHandler{db: db, redis: redis, spaces: spaces}
}

func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "health")

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status := "healthy"

	dbStatus := "connected"
	if err := h.db.PingContext(ctx); err != nil {
		logger.Warn("Database ping failed", "error", err)
		dbStatus = "disconnected"
		status = "degraded"
	}

	redisStatus := "disabled"
	if h.redis != nil {
		redisStatus = "connected"
		if err := h.redis.Ping(ctx); err != nil {
			logger.Warn("Redis ping failed", "error", err)
			redisStatus = "disconnected"
			status = "degraded"
		}
	}

	resp := HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Database:  dbStatus,
		Redis:     redisStatus,
		Spaces:    h.spaces(),
	}

	code := http.StatusOK
	if status != "healthy" {
		code = http.StatusServiceUnavailable
	}
	response.Success(w, code, resp)
}
