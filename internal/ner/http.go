package ner

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sony/gobreaker"

	"georag/internal/contextutil"
	"georag/internal/domain"
)

// defaultTimeout bounds one recognition call.
const defaultTimeout = 10 * time.Second

// DefaultLabels are the entity labels kept when no allow-list is configured:
// geopolitical entities, locations, people, facilities and organizations.
var DefaultLabels = []string{"GPE", "LOC", "PERSON", "FAC", "ORG"}

// EntitiesRequest is the payload sent to the recognition service.
type EntitiesRequest struct {
	Text string `json:"text"`
}

// Entity is one recognized span.
type Entity struct {
	Text  string `json:"text"`
	Label string `json:"label"`
}

// EntitiesResponse is the recognition service reply.
type EntitiesResponse struct {
	Entities []Entity `json:"entities"`
}

// BreakerSettings tunes the circuit breaker in front of the recognition service.
type BreakerSettings struct {
	// MaxRequests allowed through while half-open.
	MaxRequests uint32
	// Interval after which closed-state counts reset. Zero never resets.
	Interval time.Duration
	// Timeout the breaker stays open before probing again.
	Timeout time.Duration
	// ConsecutiveFailures that trip the breaker.
	ConsecutiveFailures uint32
}

// DefaultBreakerSettings returns the breaker configuration used by NewHTTPRecognizer.
func DefaultBreakerSettings() BreakerSettings {
	return BreakerSettings{
		MaxRequests:         1,
		Interval:            time.Minute,
		Timeout:             30 * time.Second,
		ConsecutiveFailures: 5,
	}
}

// HTTPRecognizer calls an external named-entity recognition service over HTTP.
type HTTPRecognizer struct {
	BaseURL string
	labels  map[string]struct{}
	client  *http.Client
	cb      *gobreaker.CircuitBreaker
}

// NewHTTPRecognizer creates a recognizer for the service at baseURL that keeps
// only entities whose label is in labels. An empty labels slice means DefaultLabels.
func NewHTTPRecognizer(baseURL string, labels []string, settings BreakerSettings) *HTTPRecognizer {
	if len(labels) == 0 {
		labels = DefaultLabels
	}
	allowed := make(map[string]struct{}, len(labels))
	for _, l := range labels {
		allowed[l] = struct{}{}
	}

	trip := settings.ConsecutiveFailures
	if trip == 0 {
		trip = DefaultBreakerSettings().ConsecutiveFailures
	}
	st := gobreaker.Settings{
		Name:        "ner",
		MaxRequests: settings.MaxRequests,
		Interval:    settings.Interval,
		Timeout:     settings.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= trip
		},
		// A caller giving up says nothing about the service.
		IsSuccessful: func(err error) bool {
			return err == nil || isContextError(err)
		},
	}

	return &HTTPRecognizer{
		BaseURL: baseURL,
		labels:  allowed,
		client: &http.Client{
			Timeout: defaultTimeout,
		},
		cb: gobreaker.NewCircuitBreaker(st),
	}
}

// ExtractEntities returns the surface text of every allowed entity in text, in
// the order the service reports them. Empty text returns no entities without a call.
func (r *HTTPRecognizer) ExtractEntities(ctx context.Context, text string) ([]string, error) {
	if text == "" {
		return []string{}, nil
	}

	resp, err := r.cb.Execute(func() (any, error) {
		return r.call(ctx, text)
	})
	if err != nil && isContextError(err) {
		return nil, fmt.Errorf("entity recognition interrupted: %w", err)
	}
	if err != nil {
		contextutil.LoggerFromContext(ctx).WarnContext(ctx, "entity recognition failed",
			"breaker_state", r.cb.State().String(),
			"error", err,
		)
		return nil, fmt.Errorf("%w: %w", domain.ErrRecognitionUnavailable, err)
	}

	entities := resp.(*EntitiesResponse).Entities
	out := make([]string, 0, len(entities))
	for _, e := range entities {
		if _, ok := r.labels[e.Label]; !ok || e.Text == "" {
			continue
		}
		out = append(out, e.Text)
	}
	return out, nil
}

func isContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// State reports the breaker state, for health output.
func (r *HTTPRecognizer) State() gobreaker.State {
	return r.cb.State()
}

func (r *HTTPRecognizer) call(ctx context.Context, text string) (*EntitiesResponse, error) {
	url := fmt.Sprintf("%s/v1/entities", r.BaseURL)

	body, err := json.Marshal(EntitiesRequest{Text: text})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("bad status %d: %s", resp.StatusCode, string(raw))
	}

	var entitiesResp EntitiesResponse
	if err := json.NewDecoder(resp.Body).Decode(&entitiesResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &entitiesResp, nil
}
