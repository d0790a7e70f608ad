package openai

import (
	"context"
	"log/slog"
	"time"

	"github.com/poiesic/lyrica/ai"
	"github.com/poiesic/lyrica/providers"
	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/openai"
)

// Request bounds for calls to the model services. Every call carries a
// per-attempt timeout and a small bounded retry with exponential backoff.
const (
	defaultTimeout     = 30 * time.Second
	defaultMaxAttempts = 3
	defaultBaseDelay   = 1 * time.Second
)

// Embedder implements ai.Embedder using OpenAI-compatible embedding APIs.
// Two instances are created per provider: one for the deep semantic model and
// one for the rephrasing model.
type Embedder struct {
	embedder  embeddings.Embedder
	timeout   time.Duration
	baseDelay time.Duration
	logger    *slog.Logger
}

// newEmbedder is an internal constructor that returns the concrete type.
// Used by Provider to manage instances for both embedding models.
func newEmbedder(host, model, component string) (*Embedder, error) {
	// Create OpenAI client configured for embeddings
	// Use "none" as token for local OpenAI-compatible services that don't require authentication
	client, err := openai.New(
		openai.WithBaseURL(host),
		openai.WithToken("none"),
		openai.WithEmbeddingModel(model),
	)
	if err != nil {
		return nil, err
	}

	// Wrap in langchaingo embedder
	embedder, err := embeddings.NewEmbedder(client, embeddings.WithStripNewLines(true))
	if err != nil {
		return nil, err
	}

	return &Embedder{
		embedder:  embedder,
		timeout:   defaultTimeout,
		baseDelay: defaultBaseDelay,
		logger:    slog.Default().With("component", component),
	}, nil
}

// NewSemanticEmbedder creates the deep semantic embedder from the configuration.
//
// Returns ai.Embedder interface to enforce abstraction.
func NewSemanticEmbedder(config *ai.Config) (ai.Embedder, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return newEmbedder(config.EmbeddingHost, config.SemanticModel, "openai-semantic-embedder")
}

// NewRephraseEmbedder creates the rephrasing embedder from the configuration.
//
// Returns ai.Embedder interface to enforce abstraction.
func NewRephraseEmbedder(config *ai.Config) (ai.Embedder, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return newEmbedder(config.EmbeddingHost, config.RephraseModel, "openai-rephrase-embedder")
}

// EmbedText generates a vector embedding for a single text string.
func (e *Embedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	e.logger.Debug("generating embedding for single text", "length", len(text))

	embeddings, err := e.embed(ctx, []string{text})
	if err != nil {
		e.logger.Error("failed to generate embedding", "err", err)
		return nil, err
	}

	if len(embeddings) == 0 {
		e.logger.Warn("embedder returned empty result")
		return []float32{}, nil
	}

	return embeddings[0], nil
}

// EmbedTexts generates vector embeddings for multiple text strings in a batch.
func (e *Embedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	e.logger.Debug("generating embeddings for texts", "count", len(texts))

	embeddings, err := e.embed(ctx, texts)
	if err != nil {
		e.logger.Error("failed to generate embeddings", "count", len(texts), "err", err)
		return nil, err
	}

	return embeddings, nil
}

// embed runs one bounded call against the embedding service: each attempt
// carries its own timeout, and transient failures are retried with backoff.
func (e *Embedder) embed(ctx context.Context, texts []string) ([][]float32, error) {
	var result [][]float32
	err := providers.RetryWithBackoff(ctx, func() error {
		callCtx, cancel := context.WithTimeout(ctx, e.timeout)
		defer cancel()

		var embedErr error
		result, embedErr = e.embedder.EmbedDocuments(callCtx, texts)
		return embedErr
	}, defaultMaxAttempts, e.baseDelay)
	if err != nil {
		return nil, err
	}
	return result, nil
}
