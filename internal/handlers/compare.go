package handlers

import (
	"encoding/json"
	"net/http"

	"georag/internal/contextutil"
	"georag/internal/service"
)

// CompareHandler runs every retrieval strategy for one question.
type CompareHandler struct {
	svc service.QueryService
}

// NewCompareHandler creates a new CompareHandler.
func NewCompareHandler(svc service.QueryService) *CompareHandler {
	return &CompareHandler{svc: svc}
}

// CompareRequest represents the HTTP request payload for a strategy comparison.
//
// swagger:model CompareRequest
type CompareRequest struct {
	Question string `json:"question"`
	K        int    `json:"k,omitempty"`
}

// CompareResponse lists one retrieval per strategy, in a fixed strategy order.
//
// swagger:model CompareResponse
type CompareResponse struct {
	Question string             `json:"question"`
	Results  []RetrieveResponse `json:"results"`
}

// ServeHTTP handles HTTP requests for strategy comparisons.
//
// swagger:route POST /api/v1/compare compareStrategies
//
// # Compare retrieval strategies
//
// ---
// consumes:
// - application/json
// produces:
// - application/json
// responses:
//
//	'200':
//	  description: One result per strategy
//	  schema:
//	    "$ref": "#/definitions/CompareResponse"
//	'400':
//	  description: Invalid question or k
//	  schema:
//	    "$ref": "#/definitions/ErrorResponse"
func (h *CompareHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodPost {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req CompareRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WarnContext(ctx, "invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	results, err := h.svc.Compare(ctx, req.Question, req.K)
	if err != nil {
		handleServiceError(ctx, w, err)
		return
	}

	resp := CompareResponse{Question: req.Question, Results: make([]RetrieveResponse, len(results))}
	for i, result := range results {
		resp.Results[i] = toRetrieveResponse(result)
	}
	writeJSON(ctx, w, resp)
}
