package ai

import "context"

// Embedder generates vector embeddings from text for semantic similarity search.
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

// EmotionClassifier scores text against the emotion class vocabulary.
// Implementations must be thread-safe for concurrent use.
type EmotionClassifier interface {
	// Classify returns a probability per emotion class, indexed by
	// EmotionLabels order. Values are independent (multi-label), not a
	// softmax distribution.
	// Returns an error if classification fails.
	Classify(ctx context.Context, text string) ([]float32, error)
}

// AIProvider aggregates AI services for convenient initialization and lifecycle management.
// A provider creates and manages the two embedding services and the emotion
// classifier, ensuring they share configuration and resources appropriately.
type AIProvider interface {
	// SemanticEmbedder returns the deep semantic embedding service used for
	// chunk-averaged document vectors.
	SemanticEmbedder() Embedder

	// RephraseEmbedder returns the fine-grained rephrasing embedding service.
	// This model tolerates longer spans directly, so callers pass truncated
	// whole texts rather than chunk-averaging.
	RephraseEmbedder() Embedder

	// EmotionClassifier returns the emotion classification service.
	EmotionClassifier() EmotionClassifier

	// Close releases resources held by the provider and its services.
	// After Close is called, the provider and its services should not be used.
	Close() error
}
