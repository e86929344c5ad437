package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"lunarbase-server/internal/shared/response"
)

type HealthResponse struct {
	Status         string `json:"status"`
	Timestamp      string `json:"timestamp"`
	Database       string `json:"database"`
	Redis          string `json:"redis"`
	SessionBreaker string `json:"session_breaker,omitempty"`
}

// Pinger reports a dependency status such as "healthy" or "unhealthy".
type Pinger interface {
	Status(ctx context.Context) string
}

// BreakerState is implemented by session stores guarded by a circuit breaker.
type BreakerState interface {
	State() string
}

type HealthHandler struct {
	db       Pinger
	redis    Pinger
	sessions any
}

func NewHealthHandler(db, redis Pinger, sessions any) *HealthHandler {
	return &HealthHandler{db: db, redis: redis, sessions: sessions}
}

func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "health")

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	resp := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().Format(time.RFC3339),
		Database:  h.db.Status(ctx),
		Redis:     h.redis.Status(ctx),
	}
	if b, ok := h.sessions.(BreakerState); ok {
		resp.SessionBreaker = b.State()
	}

	status := http.StatusOK
	if resp.Database != "healthy" || resp.Redis == "unhealthy" {
		resp.Status = "degraded"
		status = http.StatusServiceUnavailable
		logger.Warn("Dependency check failed", "database", resp.Database, "redis", resp.Redis)
	}

	response.Success(w, status, resp)
}
