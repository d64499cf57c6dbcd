package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/mock/gomock"

	"georag/internal/retrieval"
	"georag/internal/service"
	"georag/internal/service/mocks"
)

func TestAskHandler_ServeHTTP(t *testing.T) {
	answer := service.AskResponse{
		Answer: "The Rhine and the Danube.",
		Retrieval: retrieval.Result{
			Strategy: retrieval.StrategyFusionRanked,
			Context:  "--- Fused Context (KG + TEXT) ---\n[KG] [Rhine] -[:FLOWS_THROUGH]-> [Germany]",
		},
	}

	tests := []struct {
		name           string
		body           string
		mockSetup      func(svc *mocks.MockQueryService)
		expectedStatus int
		expectDetail   bool
	}{
		{
			name: "answer without detail",
			body: `{"question": "Which rivers flow through Germany?"}`,
			mockSetup: func(svc *mocks.MockQueryService) {
				svc.EXPECT().Ask(gomock.Any(), service.RetrieveRequest{Question: "Which rivers flow through Germany?"}).
					Return(answer, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "answer with detail",
			body: `{"question": "Which rivers flow through Germany?", "detail": true}`,
			mockSetup: func(svc *mocks.MockQueryService) {
				svc.EXPECT().Ask(gomock.Any(), gomock.Any()).Return(answer, nil)
			},
			expectedStatus: http.StatusOK,
			expectDetail:   true,
		},
		{
			name: "llm failure",
			body: `{"question": "Which rivers flow through Germany?"}`,
			mockSetup: func(svc *mocks.MockQueryService) {
				svc.EXPECT().Ask(gomock.Any(), gomock.Any()).
					Return(service.AskResponse{}, fmt.Errorf("%w: timeout", service.ErrExternalService))
			},
			expectedStatus: http.StatusBadGateway,
		},
		{
			name: "unknown failure",
			body: `{"question": "Which rivers flow through Germany?"}`,
			mockSetup: func(svc *mocks.MockQueryService) {
				svc.EXPECT().Ask(gomock.Any(), gomock.Any()).Return(service.AskResponse{}, errors.New("boom"))
			},
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			svc := mocks.NewMockQueryService(ctrl)
			tt.mockSetup(svc)

			req := httptest.NewRequest(http.MethodPost, "/api/v1/ask", bytes.NewBufferString(tt.body))
			w := httptest.NewRecorder()

			NewAskHandler(svc).ServeHTTP(w, req)

			if w.Code != tt.expectedStatus {
				t.Fatalf("ServeHTTP() status = %d, want %d", w.Code, tt.expectedStatus)
			}
			if w.Code != http.StatusOK {
				return
			}

			var resp AskResponse
			if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if resp.Answer != answer.Answer || resp.Strategy != "fusion_ranked" || resp.Context != answer.Retrieval.Context {
				t.Errorf("response = %+v", resp)
			}
			if (resp.Retrieval != nil) != tt.expectDetail {
				t.Errorf("retrieval detail present = %v, want %v", resp.Retrieval != nil, tt.expectDetail)
			}
		})
	}
}

func TestCompareHandler_ServeHTTP(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := mocks.NewMockQueryService(ctrl)

	var results []retrieval.Result
	for _, st := range retrieval.Strategies() {
		results = append(results, retrieval.Result{Strategy: st, Context: string(st)})
	}
	svc.EXPECT().Compare(gomock.Any(), "Rivers of Austria?", 2).Return(results, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/compare", bytes.NewBufferString(`{"question": "Rivers of Austria?", "k": 2}`))
	w := httptest.NewRecorder()

	NewCompareHandler(svc).ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("ServeHTTP() status = %d, want 200", w.Code)
	}
	var resp CompareResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Results) != len(results) {
		t.Fatalf("results = %d, want %d", len(resp.Results), len(results))
	}
	for i, st := range retrieval.Strategies() {
		if resp.Results[i].Strategy != string(st) {
			t.Errorf("result %d strategy = %s, want %s", i, resp.Results[i].Strategy, st)
		}
	}
}
