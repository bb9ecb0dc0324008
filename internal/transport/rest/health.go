package rest

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"
	goredis "github.com/redis/go-redis/v9"
)

const componentTimeout = 2 * time.Second

type HealthStatus string

const (
	HealthHealthy   HealthStatus = "healthy"
	HealthUnhealthy HealthStatus = "unhealthy"
)

type HealthResponse struct {
	Status     HealthStatus               `json:"status"`
	CheckedAt  time.Time                  `json:"checked_at"`
	Components map[string]ComponentHealth `json:"components"`
}

type ComponentHealth struct {
	Status     HealthStatus   `json:"status"`
	Message    string         `json:"message,omitempty"`
	Details    map[string]any `json:"details,omitempty"`
	DurationMs int64          `json:"duration_ms"`
}

type componentCheck func(ctx context.Context) (map[string]any, error)

type HealthHandler struct {
	checks map[string]componentCheck
}

// NewHealthHandler checks the database, plus redis when rdb is not nil.
func NewHealthHandler(db *sqlx.DB, rdb *goredis.Client) *HealthHandler {
	checks := map[string]componentCheck{
		"database": func(ctx context.Context) (map[string]any, error) {
			if err := db.PingContext(ctx); err != nil {
				return nil, err
			}
			stats := db.Stats()
			return map[string]any{
				"open_connections": stats.OpenConnections,
				"in_use":           stats.InUse,
				"idle":             stats.Idle,
			}, nil
		},
	}
	if rdb != nil {
		checks["redis"] = func(ctx context.Context) (map[string]any, error) {
			if err := rdb.Ping(ctx).Err(); err != nil {
				return nil, err
			}
			stats := rdb.PoolStats()
			return map[string]any{
				"total_conns": stats.TotalConns,
				"idle_conns":  stats.IdleConns,
			}, nil
		}
	}
	return &HealthHandler{checks: checks}
}

func (h *HealthHandler) pingHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "OK"})
}

// healthCheckHandler is unhealthy, with a 503, as soon as one component fails.
func (h *HealthHandler) healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{
		Status:     HealthHealthy,
		Components: make(map[string]ComponentHealth, len(h.checks)),
	}

	for name, check := range h.checks {
		c := runCheck(r.Context(), check)
		if c.Status == HealthUnhealthy {
			resp.Status = HealthUnhealthy
		}
		resp.Components[name] = c
	}
	resp.CheckedAt = time.Now()

	statusCode := http.StatusOK
	if resp.Status == HealthUnhealthy {
		statusCode = http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(resp)
}

func runCheck(parent context.Context, check componentCheck) ComponentHealth {
	ctx, cancel := context.WithTimeout(parent, componentTimeout)
	defer cancel()

	start := time.Now()
	details, err := check(ctx)
	c := ComponentHealth{
		Status:     HealthHealthy,
		Details:    details,
		DurationMs: time.Since(start).Milliseconds(),
	}
	if err != nil {
		c.Status = HealthUnhealthy
		c.Message = err.Error()
	}
	return c
}
