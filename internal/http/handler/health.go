// Package handler provides HTTP handler functions for the SnipShare API.
package handler

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/roguepikachu/snipshare/pkg"
	"github.com/roguepikachu/snipshare/pkg/logger"
)

// Health keeps a dependency-free health endpoint.
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, pkg.NewResponse(http.StatusOK, gin.H{"ok": true}, "ok"))
}

// Pinger is anything readiness can probe.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingerFunc adapts a function to Pinger.
type PingerFunc func(ctx context.Context) error

func (f PingerFunc) Ping(ctx context.Context) error { return f(ctx) }

// PostgresPinger probes a pgx pool.
func PostgresPinger(pool *pgxpool.Pool) Pinger { return PingerFunc(pool.Ping) }

// RedisPinger probes a Redis client.
func RedisPinger(c *redis.Client) Pinger {
	return PingerFunc(func(ctx context.Context) error { return c.Ping(ctx).Err() })
}

// SQLPinger probes a database/sql handle such as the SQLite store.
func SQLPinger(db *sql.DB) Pinger { return PingerFunc(db.PingContext) }

type dependency struct {
	name   string
	pinger Pinger
}

// HealthHandler provides liveness and readiness probes checking downstream deps.
type HealthHandler struct {
	deps        []dependency
	pingTimeout time.Duration
}

// NewHealthHandler constructs a HealthHandler with no dependencies.
func NewHealthHandler() *HealthHandler {
	return &HealthHandler{pingTimeout: time.Second}
}

// WithDependency registers a named dependency checked by Readiness. Nil pingers are ignored.
func (h *HealthHandler) WithDependency(name string, p Pinger) *HealthHandler {
	if p != nil {
		h.deps = append(h.deps, dependency{name: name, pinger: p})
	}
	return h
}

type check struct {
	Name   string `json:"name"`
	Status string `json:"status"`
	Err    string `json:"error,omitempty"`
}

// Liveness reports that the process is up. Do not check external deps here.
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, pkg.NewResponse(http.StatusOK, gin.H{"status": "alive"}, "ok"))
}

// Readiness checks external dependencies to decide if we can serve traffic.
func (h *HealthHandler) Readiness(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.pingTimeout)
	defer cancel()

	results := make([]check, 0, len(h.deps))
	ready := true
	for _, d := range h.deps {
		if err := d.pinger.Ping(ctx); err != nil {
			ready = false
			results = append(results, check{Name: d.name, Status: "down", Err: err.Error()})
			continue
		}
		results = append(results, check{Name: d.name, Status: "up"})
	}

	if ready {
		c.JSON(http.StatusOK, pkg.NewResponse(http.StatusOK, gin.H{"ready": true, "checks": results}, "ready"))
		return
	}
	logger.Warn(c.Request.Context(), "readiness failed: %+v", results)
	c.JSON(http.StatusServiceUnavailable, pkg.NewResponse(http.StatusServiceUnavailable, gin.H{"ready": false, "checks": results}, "not ready"))
}
