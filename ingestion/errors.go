package ingestion

import "errors"

var (
	// ErrRepositoryRequired is returned when a message repository is not provided.
	ErrRepositoryRequired = errors.New("message repository required")

	// ErrAIProviderRequired is returned when an AI provider is not provided.
	ErrAIProviderRequired = errors.New("AI provider required")

	// ErrSourceRequired is returned when a corpus source is not provided.
	ErrSourceRequired = errors.New("corpus source required")

	// ErrMalformedPayload is returned when a source payload cannot be decoded.
	ErrMalformedPayload = errors.New("malformed corpus payload")

	// ErrEmbeddingFailed is returned when the embedding backend failed while
	// computing corpus vectors at load time.
	ErrEmbeddingFailed = errors.New("corpus embedding failed")
)
