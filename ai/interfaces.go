package ai

import "context"

// Embedder generates vector embeddings from text for semantic similarity ranking.
// Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	// The returned vector represents the semantic meaning of the text.
	// Returns an error if the embedding generation fails.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates vector embeddings for multiple text strings in a batch.
	// Batch processing is more efficient than calling EmbedText multiple times.
	// The returned slice contains embeddings in the same order as the input texts.
	// Returns an error if any embedding generation fails.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// Reasoner produces a free-form completion for a prompt.
// It is the system's opaque reasoning capability: given instructions and a
// question plus candidate context, it returns natural-language text. Only
// sanitized content may ever be passed to a Reasoner.
// Implementations must be thread-safe for concurrent use.
type Reasoner interface {
	// Complete generates a completion for the given system and user prompts.
	// Returns an error if the reasoning backend fails; it never invents output.
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// AIProvider aggregates AI services for convenient initialization and lifecycle management.
// A provider creates and manages Embedder and Reasoner instances, ensuring
// they share configuration and resources appropriately.
type AIProvider interface {
	// Embedder returns the text embedding service.
	// The returned Embedder is safe for concurrent use.
	Embedder() Embedder

	// Reasoner returns the completion service.
	// The returned Reasoner is safe for concurrent use.
	Reasoner() Reasoner

	// Close releases resources held by the provider and its services.
	// After Close is called, the provider and its services should not be used.
	Close() error
}
