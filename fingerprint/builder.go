// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package fingerprint

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/poiesic/lyrica/ai"
	"github.com/poiesic/lyrica/core"
)

const (
	// semanticChunkWords is the chunk size for deep semantic embedding.
	// Long lyrics are split into chunks of this many words, each chunk is
	// embedded separately, and the chunk vectors are mean-pooled.
	semanticChunkWords = 200

	// semanticQueryPrefix is prepended to every chunk before embedding.
	// E5-family models expect it on retrieval inputs.
	semanticQueryPrefix = "query: "

	// rephraseWindowWords bounds the lyrics excerpt used for the
	// rephrasing embedding.
	rephraseWindowWords = 400

	// DefaultCacheSize is the number of fingerprints memoized by content
	// hash before eviction.
	DefaultCacheSize = 10000
)

// Builder computes track fingerprints: the deep semantic vector, the
// rephrasing vector, the emotion distribution with its polarity scalar, and
// the extracted themes. Results are memoized by lyrics content hash, so
// re-ingesting unchanged lyrics never touches the model services.
type Builder struct {
	provider ai.AIProvider
	themes   *ThemeExtractor
	cache    *lru.Cache[string, *core.Fingerprint]
	logger   *slog.Logger
}

// BuilderOption configures a Builder.
type BuilderOption func(*builderConfig)

type builderConfig struct {
	cacheSize int
	logger    *slog.Logger
}

// WithCacheSize overrides the fingerprint memo cache capacity.
func WithCacheSize(n int) BuilderOption {
	return func(c *builderConfig) {
		if n > 0 {
			c.cacheSize = n
		}
	}
}

// WithLogger sets the logger used by the builder.
func WithLogger(logger *slog.Logger) BuilderOption {
	return func(c *builderConfig) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewBuilder creates a fingerprint builder backed by the given AI provider.
func NewBuilder(provider ai.AIProvider, opts ...BuilderOption) (*Builder, error) {
	cfg := &builderConfig{
		cacheSize: DefaultCacheSize,
		logger:    slog.Default().With("component", "fingerprint-builder"),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	cache, err := lru.New[string, *core.Fingerprint](cfg.cacheSize)
	if err != nil {
		return nil, fmt.Errorf("creating fingerprint cache: %w", err)
	}

	return &Builder{
		provider: provider,
		themes:   NewThemeExtractor(provider.SemanticEmbedder()),
		cache:    cache,
		logger:   cfg.logger,
	}, nil
}

// Build computes the full fingerprint for the given lyrics. Cached
// fingerprints are returned as-is; callers must treat them as immutable.
func (b *Builder) Build(ctx context.Context, lyrics string) (*core.Fingerprint, error) {
	hash := core.HashLyrics(lyrics)
	if fp, ok := b.cache.Get(hash); ok {
		b.logger.Debug("fingerprint cache hit", "hash", hash)
		return fp, nil
	}

	semantic, err := b.embedSemantic(ctx, lyrics)
	if err != nil {
		return nil, fmt.Errorf("semantic embedding: %w", err)
	}

	rephrase, err := b.embedRephrase(ctx, lyrics)
	if err != nil {
		return nil, fmt.Errorf("rephrase embedding: %w", err)
	}

	emotion, err := b.provider.EmotionClassifier().Classify(ctx, lyrics)
	if err != nil {
		return nil, fmt.Errorf("emotion classification: %w", err)
	}

	themes, err := b.themes.Extract(ctx, lyrics)
	if err != nil {
		return nil, fmt.Errorf("theme extraction: %w", err)
	}

	fp := &core.Fingerprint{
		Semantic: semantic,
		Rephrase: rephrase,
		Emotion:  emotion,
		Polarity: ai.Polarity(emotion),
		Themes:   themes,
		Hash:     hash,
	}
	b.cache.Add(hash, fp)

	b.logger.Debug("fingerprint built",
		"hash", hash,
		"semanticDim", len(semantic),
		"rephraseDim", len(rephrase),
		"themes", len(themes))
	return fp, nil
}

// CacheLen reports how many fingerprints are currently memoized.
func (b *Builder) CacheLen() int {
	return b.cache.Len()
}

// embedSemantic splits the lyrics into word chunks, embeds each chunk with
// the retrieval prefix, then mean-pools and renormalizes the chunk vectors.
func (b *Builder) embedSemantic(ctx context.Context, lyrics string) ([]float32, error) {
	words := strings.Fields(strings.ReplaceAll(lyrics, "\n", " "))
	if len(words) == 0 {
		return nil, nil
	}

	chunks := make([]string, 0, (len(words)+semanticChunkWords-1)/semanticChunkWords)
	for i := 0; i < len(words); i += semanticChunkWords {
		end := i + semanticChunkWords
		if end > len(words) {
			end = len(words)
		}
		chunks = append(chunks, semanticQueryPrefix+strings.Join(words[i:end], " "))
	}

	vecs, err := b.provider.SemanticEmbedder().EmbedTexts(ctx, chunks)
	if err != nil {
		return nil, err
	}
	if len(vecs) != len(chunks) {
		return nil, fmt.Errorf("got %d vectors for %d chunks", len(vecs), len(chunks))
	}

	for i, v := range vecs {
		vecs[i] = Normalize(v)
	}
	return Normalize(Mean(vecs)), nil
}

// embedRephrase embeds the head of the lyrics as one block. The rephrasing
// model tolerates paraphrase and word-order changes better than the deep
// semantic model, so it sees a single window rather than pooled chunks.
func (b *Builder) embedRephrase(ctx context.Context, lyrics string) ([]float32, error) {
	words := strings.Fields(lyrics)
	if len(words) > rephraseWindowWords {
		words = words[:rephraseWindowWords]
	}

	vec, err := b.provider.RephraseEmbedder().EmbedText(ctx, strings.Join(words, " "))
	if err != nil {
		return nil, err
	}
	return Normalize(vec), nil
}
