package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sony/gobreaker"
)

type fakeCollections struct {
	pingErr error
	exists  bool
	err     error
}

func (f fakeCollections) HealthCheck(context.Context) error {
	return f.pingErr
}

func (f fakeCollections) CollectionExists(context.Context, string) (bool, error) {
	return f.exists, f.err
}

type fakeGraph struct{ err error }

func (f fakeGraph) VerifyConnectivity(context.Context) error { return f.err }

type fakeBreaker struct{ state gobreaker.State }

func (f fakeBreaker) State() gobreaker.State { return f.state }

func TestHealthHandler_ServeHTTP(t *testing.T) {
	tests := []struct {
		name       string
		vectors    VectorChecker
		graph      ConnectivityChecker
		recognizer BreakerState
		wantStatus int
		wantHealth string
		wantIssues int
	}{
		{
			name:       "healthy",
			vectors:    fakeCollections{exists: true},
			graph:      fakeGraph{},
			recognizer: fakeBreaker{state: gobreaker.StateClosed},
			wantStatus: http.StatusOK,
			wantHealth: "healthy",
		},
		{
			name:       "graph down degrades",
			vectors:    fakeCollections{exists: true},
			graph:      fakeGraph{err: errors.New("connection refused")},
			wantStatus: http.StatusOK,
			wantHealth: "degraded",
			wantIssues: 1,
		},
		{
			name:       "open breaker degrades",
			vectors:    fakeCollections{exists: true},
			recognizer: fakeBreaker{state: gobreaker.StateOpen},
			wantStatus: http.StatusOK,
			wantHealth: "degraded",
			wantIssues: 1,
		},
		{
			name:       "missing collection",
			vectors:    fakeCollections{exists: false},
			wantStatus: http.StatusServiceUnavailable,
			wantHealth: "unhealthy",
			wantIssues: 1,
		},
		{
			name:       "vector server unreachable",
			vectors:    fakeCollections{pingErr: errors.New("connection refused"), exists: true},
			graph:      fakeGraph{},
			wantStatus: http.StatusServiceUnavailable,
			wantHealth: "unhealthy",
			wantIssues: 1,
		},
		{
			name:       "vector store error",
			vectors:    fakeCollections{err: errors.New("unavailable")},
			graph:      fakeGraph{err: errors.New("unavailable")},
			wantStatus: http.StatusServiceUnavailable,
			wantHealth: "unhealthy",
			wantIssues: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewHealthHandler(tt.vectors, tt.graph, tt.recognizer, "corpus")

			w := httptest.NewRecorder()
			handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/health", nil))

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			var resp HealthResponse
			if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if resp.Status != tt.wantHealth {
				t.Errorf("status field = %q, want %q", resp.Status, tt.wantHealth)
			}
			if len(resp.Issues) != tt.wantIssues {
				t.Errorf("issues = %v, want %d", resp.Issues, tt.wantIssues)
			}
		})
	}
}

func TestHealthHandler_MethodNotAllowed(t *testing.T) {
	handler := NewHealthHandler(fakeCollections{exists: true}, nil, nil, "corpus")

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/health", nil))

	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", w.Code)
	}
}
