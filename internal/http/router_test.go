package http

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/mock/gomock"

	"georag/internal/retrieval"
	"georag/internal/service/mocks"
)

type stubCollections struct{}

func (stubCollections) HealthCheck(context.Context) error { return nil }

func (stubCollections) CollectionExists(context.Context, string) (bool, error) { return true, nil }

func newTestRouter(t *testing.T) (http.Handler, *mocks.MockQueryService) {
	t.Helper()
	ctrl := gomock.NewController(t)
	svc := mocks.NewMockQueryService(ctrl)
	return NewRouter(&Deps{
		QueryService:   svc,
		VectorStore:    stubCollections{},
		CollectionName: "corpus",
	}), svc
}

func TestRouter_Routes(t *testing.T) {
	tests := []struct {
		name       string
		method     string
		path       string
		body       string
		setup      func(svc *mocks.MockQueryService)
		wantStatus int
	}{
		{
			name:       "GET /api/health",
			method:     http.MethodGet,
			path:       "/api/health",
			wantStatus: http.StatusOK,
		},
		{
			name:   "POST /api/v1/retrieve",
			method: http.MethodPost,
			path:   "/api/v1/retrieve",
			body:   `{"question": "q"}`,
			setup: func(svc *mocks.MockQueryService) {
				svc.EXPECT().Retrieve(gomock.Any(), gomock.Any()).Return(retrieval.Result{}, nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name:       "POST /api/v1/ask with bad body",
			method:     http.MethodPost,
			path:       "/api/v1/ask",
			body:       `not json`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "POST /api/v1/compare with bad body",
			method:     http.MethodPost,
			path:       "/api/v1/compare",
			body:       `not json`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "GET /api/v1/retrieve method not allowed",
			method:     http.MethodGet,
			path:       "/api/v1/retrieve",
			wantStatus: http.StatusMethodNotAllowed,
		},
		{
			name:       "unknown route",
			method:     http.MethodGet,
			path:       "/api/v1/notes",
			wantStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, svc := newTestRouter(t)
			if tt.setup != nil {
				tt.setup(svc)
			}

			req := httptest.NewRequest(tt.method, tt.path, bytes.NewBufferString(tt.body))
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("Router %s %s status = %v, want %v", tt.method, tt.path, w.Code, tt.wantStatus)
			}
		})
	}
}

func TestRouter_MiddlewareApplied(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Header().Get("Access-Control-Allow-Origin") == "" {
		t.Error("Router should apply CORS middleware")
	}
}
