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


package mock

import "github.com/poiesic/lyrica/ai"

// MockProvider is a test double for ai.AIProvider.
// It aggregates mock embedders and a mock classifier.
type MockProvider struct {
	semantic   *MockEmbedder
	rephrase   *MockEmbedder
	classifier *MockClassifier
}

// NewMockProvider creates a new mock provider with default mock services.
//
// Returns ai.AIProvider interface for consistency with production constructors.
// Use GetSemanticMock()/GetRephraseMock()/GetClassifierMock() to access
// concrete types for test assertions.
func NewMockProvider() ai.AIProvider {
	return &MockProvider{
		semantic:   NewMockEmbedder(),
		rephrase:   NewMockEmbedder(),
		classifier: NewMockClassifier(),
	}
}

// NewMockProviderWithServices creates a mock provider with custom mock services.
// This allows full control over the behavior of each service.
func NewMockProviderWithServices(semantic, rephrase *MockEmbedder, classifier *MockClassifier) ai.AIProvider {
	return &MockProvider{
		semantic:   semantic,
		rephrase:   rephrase,
		classifier: classifier,
	}
}

// SemanticEmbedder returns the mock semantic embedder.
func (p *MockProvider) SemanticEmbedder() ai.Embedder {
	return p.semantic
}

// RephraseEmbedder returns the mock rephrase embedder.
func (p *MockProvider) RephraseEmbedder() ai.Embedder {
	return p.rephrase
}

// EmotionClassifier returns the mock classifier.
func (p *MockProvider) EmotionClassifier() ai.EmotionClassifier {
	return p.classifier
}

// Close is a no-op for mock provider.
func (p *MockProvider) Close() error {
	return nil
}

// GetSemanticMock returns the underlying semantic mock for test assertions.
func (p *MockProvider) GetSemanticMock() *MockEmbedder {
	return p.semantic
}

// GetRephraseMock returns the underlying rephrase mock for test assertions.
func (p *MockProvider) GetRephraseMock() *MockEmbedder {
	return p.rephrase
}

// GetClassifierMock returns the underlying classifier mock for test assertions.
func (p *MockProvider) GetClassifierMock() *MockClassifier {
	return p.classifier
}
