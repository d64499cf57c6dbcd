package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/sony/gobreaker"

	"georag/internal/contextutil"
)

// VectorChecker reports whether the vector server answers and the collection exists.
type VectorChecker interface {
	HealthCheck(ctx context.Context) error
	CollectionExists(ctx context.Context, collection string) (bool, error)
}

// ConnectivityChecker verifies that a backing store is reachable.
type ConnectivityChecker interface {
	VerifyConnectivity(ctx context.Context) error
}

// BreakerState exposes a circuit breaker's state.
type BreakerState interface {
	State() gobreaker.State
}

// HealthHandler handles HTTP requests for health checks.
type HealthHandler struct {
	vectorStore        VectorChecker
	graph              ConnectivityChecker
	recognizer         BreakerState
	collectionName     string
	healthCheckTimeout time.Duration
}

// NewHealthHandler creates a new HealthHandler. graph and recognizer may be nil,
// in which case their checks are skipped.
func NewHealthHandler(vectorStore VectorChecker, graph ConnectivityChecker, recognizer BreakerState, collectionName string) *HealthHandler {
	return &HealthHandler{
		vectorStore:        vectorStore,
		graph:              graph,
		recognizer:         recognizer,
		collectionName:     collectionName,
		healthCheckTimeout: 5 * time.Second,
	}
}

// HealthResponse represents the health check response.
//
// swagger:model HealthResponse
type HealthResponse struct {
	// Overall health status: "healthy", "degraded", or "unhealthy"
	Status string `json:"status"`

	// Timestamp of the health check
	Timestamp string `json:"timestamp"`

	// Individual check results
	Checks map[string]string `json:"checks"`

	// List of issues (only present if status is degraded or unhealthy)
	Issues []string `json:"issues,omitempty"`
}

// ServeHTTP handles HTTP requests for health checks.
//
// A missing vector collection makes the service unhealthy. An unreachable graph
// or an open recognizer breaker only degrades it, since vector-only retrieval
// still works.
//
// swagger:route GET /api/health healthCheck
//
// # Health check endpoint
//
// ---
// produces:
// - application/json
// responses:
//
//	'200':
//	  description: System is healthy or degraded
//	  schema:
//	    "$ref": "#/definitions/HealthResponse"
//	'503':
//	  description: System is unhealthy
//	  schema:
//	    "$ref": "#/definitions/HealthResponse"
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodGet {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	checkCtx, cancel := context.WithTimeout(ctx, h.healthCheckTimeout)
	defer cancel()

	checks := make(map[string]string)
	var issues []string
	critical := false

	if h.checkVectorStore(checkCtx, logger) {
		checks["vector_store"] = "ok"
	} else {
		checks["vector_store"] = "error"
		issues = append(issues, "vector_store_unavailable")
		critical = true
	}

	if h.graph != nil {
		if err := h.graph.VerifyConnectivity(checkCtx); err != nil {
			logger.WarnContext(ctx, "graph health check failed", "error", err)
			checks["graph"] = "error"
			issues = append(issues, "graph_unavailable")
		} else {
			checks["graph"] = "ok"
		}
	}

	if h.recognizer != nil {
		state := h.recognizer.State()
		checks["recognizer"] = state.String()
		if state == gobreaker.StateOpen {
			issues = append(issues, "recognizer_circuit_open")
		}
	}

	status := "healthy"
	httpStatus := http.StatusOK
	switch {
	case critical:
		status = "unhealthy"
		httpStatus = http.StatusServiceUnavailable
	case len(issues) > 0:
		status = "degraded"
	}

	response := HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks:    checks,
		Issues:    issues,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpStatus)

	if err := json.NewEncoder(w).Encode(response); err != nil {
		logger.ErrorContext(ctx, "failed to encode health response", "error", err)
	}
}

// checkVectorStore checks that the server answers and the collection exists.
func (h *HealthHandler) checkVectorStore(ctx context.Context, logger *slog.Logger) bool {
	if err := h.vectorStore.HealthCheck(ctx); err != nil {
		logger.WarnContext(ctx, "vector store unreachable", "error", err)
		return false
	}
	exists, err := h.vectorStore.CollectionExists(ctx, h.collectionName)
	if err != nil {
		logger.WarnContext(ctx, "vector store health check failed", "error", err)
		return false
	}
	if !exists {
		logger.WarnContext(ctx, "vector store collection does not exist", "collection", h.collectionName)
		return false
	}
	return true
}
