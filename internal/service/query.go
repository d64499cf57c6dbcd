package service

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_service.go -package=mocks georag/internal/service LLMClient,Retriever,QueryService

import (
	"context"
	"fmt"
	"strings"

	"georag/internal/contextutil"
	"georag/internal/retrieval"
)

// MaxK bounds the document count a caller may request.
const MaxK = 50

const answerPrompt = `Based on the following context, please answer the question.

Context:
%s

Question:
%s`

// LLMClient is an interface for interacting with an LLM API.
// This interface is defined from the service layer's perspective (consumer-first).
type LLMClient interface {
	// Chat sends a message to the LLM and returns the reply.
	Chat(ctx context.Context, message string) (string, error)
}

// Retriever runs one retrieval strategy. *retrieval.Engine implements it.
type Retriever interface {
	Retrieve(ctx context.Context, req retrieval.Request) (retrieval.Result, error)
}

// RetrieveRequest represents a retrieval request in the domain layer.
type RetrieveRequest struct {
	Question string
	// Strategy defaults to fusion_ranked when empty.
	Strategy string
	// K defaults to the engine's configured count when zero.
	K int
}

// AskResponse is an answer together with the retrieval that grounded it.
type AskResponse struct {
	Answer    string
	Retrieval retrieval.Result
}

// QueryService validates questions, runs retrieval and generates answers.
type QueryService interface {
	// Retrieve runs a single strategy and returns its rendered context.
	Retrieve(ctx context.Context, req RetrieveRequest) (retrieval.Result, error)
	// Ask retrieves context and asks the LLM to answer the question from it.
	Ask(ctx context.Context, req RetrieveRequest) (AskResponse, error)
	// Compare runs every strategy for the same question, in strategy order.
	Compare(ctx context.Context, question string, k int) ([]retrieval.Result, error)
}

// queryService implements QueryService.
type queryService struct {
	retriever Retriever
	llm       LLMClient
}

// NewQueryService creates a new QueryService. llm may be nil, in which case Ask fails.
func NewQueryService(retriever Retriever, llm LLMClient) QueryService {
	return &queryService{
		retriever: retriever,
		llm:       llm,
	}
}

// Retrieve validates req and runs the requested strategy.
func (s *queryService) Retrieve(ctx context.Context, req RetrieveRequest) (retrieval.Result, error) {
	logger := contextutil.LoggerFromContext(ctx)

	rreq, err := toRequest(req)
	if err != nil {
		logger.WarnContext(ctx, "invalid retrieve request", "error", err)
		return retrieval.Result{}, err
	}

	result, err := s.retriever.Retrieve(ctx, rreq)
	if err != nil {
		logger.ErrorContext(ctx, "retrieval failed", "strategy", rreq.Strategy, "error", err)
		return retrieval.Result{}, WrapError(err, "retrieval failed")
	}

	logger.InfoContext(ctx, "retrieval completed",
		"strategy", result.Strategy,
		"entities", len(result.Entities),
		"facts", len(result.Facts),
		"documents", len(result.Documents),
		"context_length", len(result.Context),
	)
	return result, nil
}

// Ask retrieves context for req and generates an answer from it.
func (s *queryService) Ask(ctx context.Context, req RetrieveRequest) (AskResponse, error) {
	logger := contextutil.LoggerFromContext(ctx)

	if s.llm == nil {
		return AskResponse{}, fmt.Errorf("%w: no answer model configured", ErrExternalService)
	}

	result, err := s.Retrieve(ctx, req)
	if err != nil {
		return AskResponse{}, err
	}

	answer, err := s.llm.Chat(ctx, BuildPrompt(result.Context, req.Question))
	if err != nil {
		logger.ErrorContext(ctx, "failed to get LLM response", "error", err)
		return AskResponse{}, fmt.Errorf("%w: failed to get LLM response: %w", ErrExternalService, err)
	}

	logger.InfoContext(ctx, "answer generated", "strategy", result.Strategy, "answer_length", len(answer))
	return AskResponse{Answer: answer, Retrieval: result}, nil
}

// Compare runs every strategy against the same question. The first failure aborts.
func (s *queryService) Compare(ctx context.Context, question string, k int) ([]retrieval.Result, error) {
	results := make([]retrieval.Result, 0, len(retrieval.Strategies()))
	for _, st := range retrieval.Strategies() {
		result, err := s.Retrieve(ctx, RetrieveRequest{Question: question, Strategy: string(st), K: k})
		if err != nil {
			return nil, WrapError(err, string(st))
		}
		results = append(results, result)
	}
	return results, nil
}

// BuildPrompt renders the answer prompt for a context block and question.
func BuildPrompt(contextBlock, question string) string {
	return fmt.Sprintf(answerPrompt, contextBlock, question)
}

func toRequest(req RetrieveRequest) (retrieval.Request, error) {
	question := strings.TrimSpace(req.Question)
	if question == "" {
		return retrieval.Request{}, &ValidationError{Field: "question", Message: "cannot be empty"}
	}

	strategy := retrieval.StrategyFusionRanked
	if req.Strategy != "" {
		st, err := retrieval.ParseStrategy(req.Strategy)
		if err != nil {
			return retrieval.Request{}, &ValidationError{Field: "strategy", Message: err.Error()}
		}
		strategy = st
	}

	if req.K < 0 || req.K > MaxK {
		return retrieval.Request{}, &ValidationError{
			Field:   "k",
			Message: fmt.Sprintf("must be between 0 and %d (0 = server default)", MaxK),
		}
	}

	return retrieval.Request{Query: question, Strategy: strategy, K: req.K}, nil
}
