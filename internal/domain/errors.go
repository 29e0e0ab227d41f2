package domain

import "errors"

var (
	// ErrModelUnavailable signals that the completion endpoint failed
	// for all retry attempts of one call.
	ErrModelUnavailable = errors.New("model unavailable")
	// ErrCorpusNotFound signals a missing or unreadable corpus file.
	ErrCorpusNotFound = errors.New("corpus file not found")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
)
