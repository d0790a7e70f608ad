package mock

import (
	"context"
	"hash/fnv"

	"github.com/poiesic/lyrica/ai"
)

// MockClassifier is a test double for ai.EmotionClassifier.
// It allows custom behavior injection via function fields.
type MockClassifier struct {
	// ClassifyFunc is called by Classify if set.
	// If nil, uses default deterministic behavior.
	ClassifyFunc func(ctx context.Context, text string) ([]float32, error)

	callCount int
}

// NewMockClassifier creates a mock classifier with default deterministic behavior.
// Note: Returns concrete type to allow test assertions.
func NewMockClassifier() *MockClassifier {
	return &MockClassifier{}
}

// Classify returns a deterministic distribution over ai.EmotionLabels derived
// from the text hash. Values are in [0, 1) and vary per class.
func (m *MockClassifier) Classify(ctx context.Context, text string) ([]float32, error) {
	m.callCount++

	if m.ClassifyFunc != nil {
		return m.ClassifyFunc(ctx, text)
	}

	h := fnv.New32a()
	h.Write([]byte(text))
	seed := h.Sum32()

	dist := make([]float32, len(ai.EmotionLabels))
	for i := range dist {
		seed = seed*1664525 + 1013904223
		dist[i] = float32(seed%1000) / 1000.0
	}
	return dist, nil
}

// CallCount returns the number of times Classify was called.
func (m *MockClassifier) CallCount() int {
	return m.callCount
}

// Reset clears the call count and injected behavior.
func (m *MockClassifier) Reset() {
	m.callCount = 0
	m.ClassifyFunc = nil
}
