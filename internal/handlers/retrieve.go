package handlers

import (
	"encoding/json"
	"net/http"

	"georag/internal/contextutil"
	"georag/internal/domain"
	"georag/internal/retrieval"
	"georag/internal/service"
)

// RetrieveHandler handles HTTP requests that build a retrieval context.
type RetrieveHandler struct {
	svc service.QueryService
}

// NewRetrieveHandler creates a new RetrieveHandler.
func NewRetrieveHandler(svc service.QueryService) *RetrieveHandler {
	return &RetrieveHandler{svc: svc}
}

// RetrieveRequest represents the HTTP request payload for retrieval.
//
// swagger:model RetrieveRequest
type RetrieveRequest struct {
	// The natural-language question
	Question string `json:"question"`

	// One of graph_only, vector_only, naive_hybrid, entity_driven, fusion_ranked (default)
	Strategy string `json:"strategy,omitempty"`

	// Number of corpus documents to retrieve (default from server config)
	K int `json:"k,omitempty"`
}

// RetrieveResponse represents the HTTP response payload for retrieval.
//
// swagger:model RetrieveResponse
type RetrieveResponse struct {
	Strategy string `json:"strategy"`

	// The rendered, section-labeled context block
	Context string `json:"context"`

	Entities       []string            `json:"entities"`
	Facts          []domain.Fact       `json:"facts"`
	Documents      []domain.Document   `json:"documents"`
	AugmentedQuery string              `json:"augmented_query,omitempty"`
	Fused          []FusedItemResponse `json:"fused,omitempty"`
	FailedEntities []string            `json:"failed_entities,omitempty"`
	NoEntities     bool                `json:"no_entities"`
	NoFacts        bool                `json:"no_facts"`
}

// FusedItemResponse is one entry of a fused ranking.
//
// swagger:model FusedItemResponse
type FusedItemResponse struct {
	Display string  `json:"display"`
	Score   float64 `json:"score"`
}

// ServeHTTP handles HTTP requests for retrieval.
//
// swagger:route POST /api/v1/retrieve retrieveContext
//
// # Build a retrieval context
//
// Runs one retrieval strategy against the knowledge graph and the text corpus and
// returns the rendered context together with its intermediates.
//
// ---
// consumes:
// - application/json
// produces:
// - application/json
// responses:
//
//	'200':
//	  description: Rendered context
//	  schema:
//	    "$ref": "#/definitions/RetrieveResponse"
//	'400':
//	  description: Invalid question, strategy or k
//	  schema:
//	    "$ref": "#/definitions/ErrorResponse"
//	'409':
//	  description: Corpus is empty
//	  schema:
//	    "$ref": "#/definitions/ErrorResponse"
//	'503':
//	  description: Recognizer, graph store or vector store unavailable
//	  schema:
//	    "$ref": "#/definitions/ErrorResponse"
func (h *RetrieveHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodPost {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req RetrieveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WarnContext(ctx, "invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.svc.Retrieve(ctx, service.RetrieveRequest{
		Question: req.Question,
		Strategy: req.Strategy,
		K:        req.K,
	})
	if err != nil {
		handleServiceError(ctx, w, err)
		return
	}

	writeJSON(ctx, w, toRetrieveResponse(result))
}

func toRetrieveResponse(result retrieval.Result) RetrieveResponse {
	resp := RetrieveResponse{
		Strategy:       string(result.Strategy),
		Context:        result.Context,
		Entities:       result.Entities,
		Facts:          result.Facts,
		Documents:      result.Documents,
		AugmentedQuery: result.AugmentedQuery,
		FailedEntities: result.FailedEntities,
		NoEntities:     result.NoEntities,
		NoFacts:        result.NoFacts,
	}
	if resp.Entities == nil {
		resp.Entities = []string{}
	}
	if resp.Facts == nil {
		resp.Facts = []domain.Fact{}
	}
	if resp.Documents == nil {
		resp.Documents = []domain.Document{}
	}
	for _, item := range result.Fused {
		resp.Fused = append(resp.Fused, FusedItemResponse{Display: item.Display, Score: item.Score})
	}
	return resp
}
