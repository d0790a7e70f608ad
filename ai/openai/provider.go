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


package openai

import (
	"log/slog"

	"github.com/poiesic/lyrica/ai"
)

// Provider implements ai.AIProvider using OpenAI-compatible services.
// It manages the two embedder instances and the emotion classifier.
type Provider struct {
	config     *ai.Config
	semantic   *Embedder
	rephrase   *Embedder
	classifier *EmotionClassifier
	logger     *slog.Logger
}

// NewProvider creates a new AI provider with OpenAI-compatible services.
// The config is validated and normalized before use.
//
// Returns ai.AIProvider interface (not *Provider) to enforce abstraction
// and prevent coupling to OpenAI-specific implementation details.
func NewProvider(config *ai.Config) (ai.AIProvider, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	semantic, err := newEmbedder(config.EmbeddingHost, config.SemanticModel, "openai-semantic-embedder")
	if err != nil {
		return nil, err
	}

	rephrase, err := newEmbedder(config.EmbeddingHost, config.RephraseModel, "openai-rephrase-embedder")
	if err != nil {
		return nil, err
	}

	classifier, err := newEmotionClassifier(config)
	if err != nil {
		return nil, err
	}

	return &Provider{
		config:     config,
		semantic:   semantic,
		rephrase:   rephrase,
		classifier: classifier,
		logger:     slog.Default().With("component", "openai-provider"),
	}, nil
}

// SemanticEmbedder returns the deep semantic embedding service.
func (p *Provider) SemanticEmbedder() ai.Embedder {
	return p.semantic
}

// RephraseEmbedder returns the rephrasing embedding service.
func (p *Provider) RephraseEmbedder() ai.Embedder {
	return p.rephrase
}

// EmotionClassifier returns the emotion classification service.
func (p *Provider) EmotionClassifier() ai.EmotionClassifier {
	return p.classifier
}

// Close releases resources held by the provider.
// Currently a no-op as the underlying clients don't require explicit cleanup.
func (p *Provider) Close() error {
	p.logger.Debug("closing OpenAI provider")
	return nil
}
