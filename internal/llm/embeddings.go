package llm

import (
	"context"
	"fmt"
	"net/http"
)

// EmbeddingsClient talks to an OpenAI-compatible embeddings API.
type EmbeddingsClient struct {
	BaseURL      string
	APIKey       string
	Model        string
	ExpectedSize int // every returned vector must have this many dimensions
	client       *http.Client
}

// NewEmbeddingsClient creates a new embeddings client. expectedSize must match
// the vector size of the Qdrant collection.
func NewEmbeddingsClient(baseURL, apiKey, model string, expectedSize int) *EmbeddingsClient {
	return &EmbeddingsClient{
		BaseURL:      baseURL,
		APIKey:       apiKey,
		Model:        model,
		ExpectedSize: expectedSize,
		client:       &http.Client{Timeout: defaultTimeout},
	}
}

// EmbeddingsRequest represents the request payload for embeddings API.
type EmbeddingsRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

// EmbeddingData represents a single embedding in the response.
type EmbeddingData struct {
	Index     *int      `json:"index,omitempty"`
	Embedding []float64 `json:"embedding"`
}

// EmbeddingsResponse represents the response from the embeddings API.
type EmbeddingsResponse struct {
	Data []EmbeddingData `json:"data"`
}

// EmbedTexts returns one vector per input text, in input order.
func (c *EmbeddingsClient) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, fmt.Errorf("empty input array")
	}

	var embeddingsResp EmbeddingsResponse
	payload := EmbeddingsRequest{Model: c.Model, Input: texts}
	if err := postJSON(ctx, c.client, c.BaseURL+"/v1/embeddings", c.APIKey, payload, &embeddingsResp); err != nil {
		return nil, err
	}

	if len(embeddingsResp.Data) != len(texts) {
		return nil, fmt.Errorf("expected %d embeddings, got %d", len(texts), len(embeddingsResp.Data))
	}

	result := make([][]float32, len(texts))
	for i, data := range embeddingsResp.Data {
		slot := i
		if data.Index != nil {
			slot = *data.Index
		}
		if slot < 0 || slot >= len(result) || result[slot] != nil {
			return nil, fmt.Errorf("embedding %d has invalid index %d", i, slot)
		}
		if len(data.Embedding) != c.ExpectedSize {
			return nil, fmt.Errorf("embedding %d has size %d, expected %d", i, len(data.Embedding), c.ExpectedSize)
		}

		vec := make([]float32, len(data.Embedding))
		for j, v := range data.Embedding {
			vec[j] = float32(v)
		}
		result[slot] = vec
	}

	return result, nil
}

// Validate embeds a short sample text to check that the server is reachable and
// produces vectors of the expected size.
func (c *EmbeddingsClient) Validate(ctx context.Context) error {
	if _, err := c.EmbedTexts(ctx, []string{"test"}); err != nil {
		return fmt.Errorf("embedding client validation failed: %w", err)
	}
	return nil
}
