// Package health provides health checks for a swapd node.
//
// The checker exposes three endpoints:
// - /health - Basic liveness check
// - /health/ready - Readiness check for load balancers
// - /health/detailed - Full status including ledger invariants
package health

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"cosmossdk.io/log"
	cmtproto "github.com/cometbft/cometbft/proto/tendermint/types"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	healthCheckTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "swapcore_health_check_total",
			Help: "Total number of health check requests",
		},
		[]string{"endpoint", "status"},
	)

	healthCheckDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "swapcore_health_check_duration_seconds",
			Help:    "Health check request duration in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1.0, 5.0},
		},
		[]string{"endpoint"},
	)
)

// Status represents the health status of a component
type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusDegraded  Status = "degraded"
	StatusUnhealthy Status = "unhealthy"
	StatusUnknown   Status = "unknown"
)

// ComponentHealth represents the health status of a single component
type ComponentHealth struct {
	Status    Status                 `json:"status"`
	Message   string                 `json:"message,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	Metrics   map[string]interface{} `json:"metrics,omitempty"`
}

// HealthCheck represents the overall health check response
type HealthCheck struct {
	Status     Status                     `json:"status"`
	Timestamp  time.Time                  `json:"timestamp"`
	Version    string                     `json:"version,omitempty"`
	Components map[string]ComponentHealth `json:"components,omitempty"`
}

// Node is the state machine the checker inspects.
type Node interface {
	Header() cmtproto.Header
	Initialized() bool
	Stats() (map[string]uint64, error)
	CheckInvariants() (string, bool)
}

// Checker performs health checks on a node
type Checker struct {
	logger log.Logger
	node   Node

	maxResponseTime time.Duration

	mu            sync.RWMutex
	lastCheck     time.Time
	cachedHealth  *HealthCheck
	cacheDuration time.Duration
}

// Config holds configuration for the health checker
type Config struct {
	// MaxResponseTime is the store query time above which the node is degraded
	MaxResponseTime time.Duration

	// CacheDuration is how long to cache readiness results
	CacheDuration time.Duration
}

// DefaultConfig returns the default health check configuration
func DefaultConfig() Config {
	return Config{
		MaxResponseTime: 2 * time.Second,
		CacheDuration:   5 * time.Second,
	}
}

// NewChecker creates a new health checker
func NewChecker(logger log.Logger, cfg Config, node Node) (*Checker, error) {
	if node == nil {
		return nil, fmt.Errorf("node is required")
	}

	return &Checker{
		logger:          logger,
		node:            node,
		maxResponseTime: cfg.MaxResponseTime,
		cacheDuration:   cfg.CacheDuration,
	}, nil
}

// Check runs the component checks. Detailed checks also verify the ledger
// invariants and are never served from cache.
func (c *Checker) Check(ctx context.Context, detailed bool) (*HealthCheck, error) {
	if !detailed {
		if cached, ok := c.cached(); ok {
			return cached, nil
		}
	}

	health := &HealthCheck{
		Timestamp:  time.Now(),
		Components: make(map[string]ComponentHealth),
	}

	var wg sync.WaitGroup
	var mu sync.Mutex

	checks := []struct {
		name string
		fn   func(context.Context) ComponentHealth
	}{
		{"chain", c.checkChain},
		{"store", c.checkStore},
	}

	if detailed {
		checks = append(checks,
			struct {
				name string
				fn   func(context.Context) ComponentHealth
			}{"invariants", c.checkInvariants},
		)
	}

	for _, check := range checks {
		wg.Add(1)
		go func(name string, fn func(context.Context) ComponentHealth) {
			defer wg.Done()
			result := fn(ctx)
			mu.Lock()
			health.Components[name] = result
			mu.Unlock()
		}(check.name, check.fn)
	}

	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	health.Status = c.calculateOverallStatus(health.Components)

	if !detailed {
		c.mu.Lock()
		c.lastCheck = time.Now()
		c.cachedHealth = health
		c.mu.Unlock()
	}

	return health, nil
}

// checkChain verifies that genesis has been loaded
func (c *Checker) checkChain(context.Context) ComponentHealth {
	header := c.node.Header()
	metrics := map[string]interface{}{
		"height":     header.Height,
		"chain_id":   header.ChainID,
		"block_time": header.Time.Format(time.RFC3339),
	}

	if !c.node.Initialized() {
		return ComponentHealth{
			Status:    StatusUnhealthy,
			Message:   "Chain has no genesis state",
			Timestamp: time.Now(),
			Metrics:   metrics,
		}
	}

	return ComponentHealth{
		Status:    StatusHealthy,
		Message:   fmt.Sprintf("Chain at height %d", header.Height),
		Timestamp: time.Now(),
		Metrics:   metrics,
	}
}

// checkStore verifies that the state store answers queries in time
func (c *Checker) checkStore(context.Context) ComponentHealth {
	start := time.Now()
	stats, err := c.node.Stats()
	duration := time.Since(start)

	if err != nil {
		return ComponentHealth{
			Status:    StatusUnhealthy,
			Message:   fmt.Sprintf("Store query failed: %v", err),
			Timestamp: time.Now(),
		}
	}

	metrics := map[string]interface{}{
		"query_time_ms": duration.Milliseconds(),
	}
	for k, v := range stats {
		metrics[k] = v
	}

	componentStatus := StatusHealthy
	message := "Store is responsive"

	if duration > c.maxResponseTime {
		componentStatus = StatusDegraded
		message = "Store response time is degraded"
	}

	return ComponentHealth{
		Status:    componentStatus,
		Message:   message,
		Timestamp: time.Now(),
		Metrics:   metrics,
	}
}

// checkInvariants runs the ledger and pair invariants
func (c *Checker) checkInvariants(context.Context) ComponentHealth {
	if msg, broken := c.node.CheckInvariants(); broken {
		c.logger.Error("invariant broken", "details", msg)
		return ComponentHealth{
			Status:    StatusUnhealthy,
			Message:   msg,
			Timestamp: time.Now(),
		}
	}

	return ComponentHealth{
		Status:    StatusHealthy,
		Message:   "All invariants hold",
		Timestamp: time.Now(),
	}
}

// calculateOverallStatus determines the overall health status based on component statuses
func (c *Checker) calculateOverallStatus(components map[string]ComponentHealth) Status {
	hasUnhealthy := false
	hasDegraded := false

	for _, component := range components {
		switch component.Status {
		case StatusUnhealthy:
			hasUnhealthy = true
		case StatusDegraded:
			hasDegraded = true
		}
	}

	if hasUnhealthy {
		return StatusUnhealthy
	}
	if hasDegraded {
		return StatusDegraded
	}
	return StatusHealthy
}

func (c *Checker) cached() (*HealthCheck, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.cachedHealth == nil || time.Since(c.lastCheck) >= c.cacheDuration {
		return nil, false
	}
	return c.cachedHealth, true
}

// RegisterRoutes registers health check endpoints
func (c *Checker) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/health", c.handleHealth).Methods("GET")
	router.HandleFunc("/health/ready", c.handleHealthReady).Methods("GET")
	router.HandleFunc("/health/detailed", c.handleHealthDetailed).Methods("GET")
}

func (c *Checker) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

func (c *Checker) handleHealthReady(w http.ResponseWriter, r *http.Request) {
	c.serveCheck(w, r, false)
}

func (c *Checker) handleHealthDetailed(w http.ResponseWriter, r *http.Request) {
	c.serveCheck(w, r, true)
}

// serveCheck answers 503 only when a component is unhealthy; degraded is still ready.
func (c *Checker) serveCheck(w http.ResponseWriter, r *http.Request, detailed bool) {
	endpoint := r.URL.Path
	timer := prometheus.NewTimer(healthCheckDuration.WithLabelValues(endpoint))
	defer timer.ObserveDuration()

	health, err := c.Check(r.Context(), detailed)
	if err != nil {
		healthCheckTotal.WithLabelValues(endpoint, "error").Inc()
		c.logger.Error("Health check failed", "error", err)
		writeJSON(w, http.StatusServiceUnavailable, map[string]interface{}{
			"status":  "error",
			"message": err.Error(),
		})
		return
	}

	statusCode := http.StatusOK
	if health.Status == StatusUnhealthy {
		statusCode = http.StatusServiceUnavailable
	}
	healthCheckTotal.WithLabelValues(endpoint, string(health.Status)).Inc()
	writeJSON(w, statusCode, health)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
