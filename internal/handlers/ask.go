package handlers

import (
	"encoding/json"
	"net/http"

	"georag/internal/contextutil"
	"georag/internal/service"
)

// AskHandler handles HTTP requests that answer a question from retrieved context.
type AskHandler struct {
	svc service.QueryService
}

// NewAskHandler creates a new AskHandler.
func NewAskHandler(svc service.QueryService) *AskHandler {
	return &AskHandler{svc: svc}
}

// AskRequest represents the HTTP request payload for questions.
//
// swagger:model AskRequest
type AskRequest struct {
	Question string `json:"question"`
	Strategy string `json:"strategy,omitempty"`
	K        int    `json:"k,omitempty"`

	// Include the full retrieval intermediates in the response
	Detail bool `json:"detail,omitempty"`
}

// AskResponse represents the HTTP response payload for questions.
//
// swagger:model AskResponse
type AskResponse struct {
	// The generated answer
	Answer string `json:"answer"`

	// The strategy that produced the context
	Strategy string `json:"strategy"`

	// The context block the answer was generated from
	Context string `json:"context"`

	// Retrieval intermediates, present when detail was requested
	Retrieval *RetrieveResponse `json:"retrieval,omitempty"`
}

// ServeHTTP handles HTTP requests for questions.
//
// swagger:route POST /api/v1/ask askQuestion
//
// # Ask a question
//
// Retrieves context with the requested strategy and generates an answer from it.
//
// ---
// consumes:
// - application/json
// produces:
// - application/json
// responses:
//
//	'200':
//	  description: Generated answer
//	  schema:
//	    "$ref": "#/definitions/AskResponse"
//	'400':
//	  description: Invalid question, strategy or k
//	  schema:
//	    "$ref": "#/definitions/ErrorResponse"
//	'409':
//	  description: Corpus is empty
//	  schema:
//	    "$ref": "#/definitions/ErrorResponse"
//	'502':
//	  description: LLM unavailable
//	  schema:
//	    "$ref": "#/definitions/ErrorResponse"
//	'503':
//	  description: Recognizer, graph store or vector store unavailable
//	  schema:
//	    "$ref": "#/definitions/ErrorResponse"
func (h *AskHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodPost {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req AskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WarnContext(ctx, "invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	answer, err := h.svc.Ask(ctx, service.RetrieveRequest{
		Question: req.Question,
		Strategy: req.Strategy,
		K:        req.K,
	})
	if err != nil {
		handleServiceError(ctx, w, err)
		return
	}

	resp := AskResponse{
		Answer:   answer.Answer,
		Strategy: string(answer.Retrieval.Strategy),
		Context:  answer.Retrieval.Context,
	}
	if req.Detail {
		detail := toRetrieveResponse(answer.Retrieval)
		resp.Retrieval = &detail
	}
	writeJSON(ctx, w, resp)
}
