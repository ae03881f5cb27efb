package httpserver

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// healthCheckTimeout bounds one full health sweep.
const healthCheckTimeout = 5 * time.Second

// CheckFunc probes one dependency and returns an error when it is unhealthy.
type CheckFunc func(ctx context.Context) error

// Checker aggregates named dependency probes into one health verdict.
type Checker struct {
	mu     sync.RWMutex
	checks map[string]CheckFunc
}

// NewChecker creates an empty health checker.
func NewChecker() *Checker {
	return &Checker{checks: make(map[string]CheckFunc)}
}

// Register adds a named dependency probe.
func (c *Checker) Register(name string, fn CheckFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.checks[name] = fn
}

// Check runs every probe and reports overall health plus per-check detail.
func (c *Checker) Check(ctx context.Context) (bool, map[string]string) {
	c.mu.RLock()
	checks := make(map[string]CheckFunc, len(c.checks))
	for name, fn := range c.checks {
		checks[name] = fn
	}
	c.mu.RUnlock()

	healthy := true
	results := make(map[string]string, len(checks))
	for name, fn := range checks {
		if err := fn(ctx); err != nil {
			results[name] = "error: " + err.Error()
			healthy = false
			continue
		}
		results[name] = "ok"
	}

	return healthy, results
}

// GinHandler serves the aggregated health verdict. Unhealthy maps to 503 so
// orchestrators rotate the instance out.
func (c *Checker) GinHandler() gin.HandlerFunc {
	return func(gc *gin.Context) {
		ctx, cancel := context.WithTimeout(gc.Request.Context(), healthCheckTimeout)
		defer cancel()

		healthy, results := c.Check(ctx)

		status := "healthy"
		code := http.StatusOK
		if !healthy {
			status = "unhealthy"
			code = http.StatusServiceUnavailable
		}

		gc.JSON(code, gin.H{
			"status":    status,
			"checks":    results,
			"timestamp": time.Now().Format(time.RFC3339),
		})
	}
}
