package domain

import "errors"

var (
	// ErrRecognitionUnavailable is returned when the entity recognizer cannot be reached
	// or is not configured.
	ErrRecognitionUnavailable = errors.New("entity recognition unavailable")
	// ErrGraphUnavailable is returned when the graph store itself is unreachable.
	// Per-entity lookup failures are not reported with this error.
	ErrGraphUnavailable = errors.New("graph store unavailable")
	// ErrRetrievalUnavailable is returned when the vector channel fails.
	ErrRetrievalUnavailable = errors.New("vector retrieval unavailable")
	// ErrEmptyCorpus is returned when the vector index has no documents to rank.
	ErrEmptyCorpus = errors.New("corpus is empty")
)
