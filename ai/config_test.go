package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.NotNil(t, cfg)
	assert.Equal(t, "http://localhost:11434/v1", cfg.EmbeddingHost)
	assert.Equal(t, "http://localhost:11434/v1", cfg.ClassifierHost)
	assert.Equal(t, "multilingual-e5-large", cfg.SemanticModel)
	assert.Equal(t, "distiluse-base-multilingual-cased-v1", cfg.RephraseModel)
	assert.Equal(t, "qwen2.5:3b", cfg.ClassifierModel)
}

func TestNewConfig(t *testing.T) {
	t.Run("with no options", func(t *testing.T) {
		cfg := NewConfig()

		assert.NotNil(t, cfg)
		// Should have default values
		assert.Equal(t, "http://localhost:11434/v1", cfg.EmbeddingHost)
		assert.Equal(t, "http://localhost:11434/v1", cfg.ClassifierHost)
	})

	t.Run("with custom host", func(t *testing.T) {
		cfg := NewConfig(WithHost("http://custom:8080/v1"))

		assert.Equal(t, "http://custom:8080/v1", cfg.EmbeddingHost)
		assert.Equal(t, "http://custom:8080/v1", cfg.ClassifierHost)
	})

	t.Run("with separate hosts", func(t *testing.T) {
		cfg := NewConfig(
			WithEmbeddingHost("http://embed:8080/v1"),
			WithClassifierHost("http://classify:9090/v1"),
		)

		assert.Equal(t, "http://embed:8080/v1", cfg.EmbeddingHost)
		assert.Equal(t, "http://classify:9090/v1", cfg.ClassifierHost)
	})

	t.Run("with custom models", func(t *testing.T) {
		cfg := NewConfig(
			WithSemanticModel("text-embedding-3-small"),
			WithRephraseModel("all-MiniLM-L6-v2"),
			WithClassifierModel("gpt-4o-mini"),
		)

		assert.Equal(t, "text-embedding-3-small", cfg.SemanticModel)
		assert.Equal(t, "all-MiniLM-L6-v2", cfg.RephraseModel)
		assert.Equal(t, "gpt-4o-mini", cfg.ClassifierModel)
	})
}

func TestConfig_Normalize(t *testing.T) {
	t.Run("adds v1 suffix", func(t *testing.T) {
		cfg := NewConfig(WithHost("http://localhost:11434"))
		cfg.Normalize()

		assert.Equal(t, "http://localhost:11434/v1", cfg.EmbeddingHost)
		assert.Equal(t, "http://localhost:11434/v1", cfg.ClassifierHost)
	})

	t.Run("strips trailing slash before suffixing", func(t *testing.T) {
		cfg := NewConfig(WithHost("http://localhost:11434/"))
		cfg.Normalize()

		assert.Equal(t, "http://localhost:11434/v1", cfg.EmbeddingHost)
	})

	t.Run("leaves canonical hosts untouched", func(t *testing.T) {
		cfg := NewConfig(WithHost("http://localhost:11434/v1"))
		cfg.Normalize()

		assert.Equal(t, "http://localhost:11434/v1", cfg.EmbeddingHost)
	})
}

func TestConfig_Validate(t *testing.T) {
	t.Run("valid config", func(t *testing.T) {
		cfg := DefaultConfig()
		require.NoError(t, cfg.Validate())
	})

	t.Run("missing embedding host", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.EmbeddingHost = ""
		assert.Error(t, cfg.Validate())
	})

	t.Run("missing semantic model", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.SemanticModel = ""
		assert.Error(t, cfg.Validate())
	})

	t.Run("missing rephrase model", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.RephraseModel = ""
		assert.Error(t, cfg.Validate())
	})

	t.Run("missing classifier model", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.ClassifierModel = ""
		assert.Error(t, cfg.Validate())
	})
}

func TestEmotionIndex(t *testing.T) {
	assert.Equal(t, 17, EmotionIndex("joy"))
	assert.Equal(t, 25, EmotionIndex("sadness"))
	assert.Equal(t, -1, EmotionIndex("unknown-emotion"))
}

func TestPolarity(t *testing.T) {
	dist := make([]float32, len(EmotionLabels))
	dist[EmotionIndex("joy")] = 0.8
	dist[EmotionIndex("sadness")] = 0.3

	assert.InDelta(t, 0.5, Polarity(dist), 1e-6)
	assert.Equal(t, float32(0), Polarity([]float32{0.1}))
}
