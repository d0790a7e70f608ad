package fingerprint

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/lyrica/ai"
	"github.com/poiesic/lyrica/ai/mock"
)

const testLyrics = `I walk the empty streets at night and call your name out loud
The city lights are burning bright but I am lost inside the crowd
Remember when we used to dance beneath the summer rain
I'd give it all for one more chance to hold your hand again`

func newTestProvider() *mock.MockProvider {
	return mock.NewMockProvider().(*mock.MockProvider)
}

func TestBuilder_Build(t *testing.T) {
	provider := newTestProvider()
	builder, err := NewBuilder(provider)
	require.NoError(t, err)

	fp, err := builder.Build(context.Background(), testLyrics)
	require.NoError(t, err)
	require.NotNil(t, fp)

	assert.True(t, fp.Complete())
	assert.Len(t, fp.Hash, 32)
	assert.Len(t, fp.Emotion, len(ai.EmotionLabels))
	assert.InDelta(t, 1.0, magnitude(fp.Semantic), 1e-5)
	assert.InDelta(t, 1.0, magnitude(fp.Rephrase), 1e-5)
	assert.LessOrEqual(t, len(fp.Themes), DefaultTopK)

	joy := fp.Emotion[ai.EmotionIndex("joy")]
	sadness := fp.Emotion[ai.EmotionIndex("sadness")]
	assert.InDelta(t, float64(joy-sadness), float64(fp.Polarity), 1e-6)
}

func TestBuilder_CacheHit(t *testing.T) {
	provider := newTestProvider()
	builder, err := NewBuilder(provider)
	require.NoError(t, err)

	first, err := builder.Build(context.Background(), testLyrics)
	require.NoError(t, err)

	semanticCalls := provider.GetSemanticMock().CallCount()
	rephraseCalls := provider.GetRephraseMock().CallCount()
	classifierCalls := provider.GetClassifierMock().CallCount()

	second, err := builder.Build(context.Background(), testLyrics)
	require.NoError(t, err)

	// Cached result, no new model calls
	assert.Same(t, first, second)
	assert.Equal(t, semanticCalls, provider.GetSemanticMock().CallCount())
	assert.Equal(t, rephraseCalls, provider.GetRephraseMock().CallCount())
	assert.Equal(t, classifierCalls, provider.GetClassifierMock().CallCount())
	assert.Equal(t, 1, builder.CacheLen())
}

func TestBuilder_DifferentLyricsDifferentFingerprint(t *testing.T) {
	provider := newTestProvider()
	builder, err := NewBuilder(provider)
	require.NoError(t, err)

	a, err := builder.Build(context.Background(), testLyrics)
	require.NoError(t, err)
	b, err := builder.Build(context.Background(), testLyrics+" and one more line to change the hash entirely")
	require.NoError(t, err)

	assert.NotEqual(t, a.Hash, b.Hash)
	assert.Equal(t, 2, builder.CacheLen())
}

func TestBuilder_ChunkedSemanticEmbedding(t *testing.T) {
	provider := newTestProvider()

	var batches [][]string
	provider.GetSemanticMock().EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		batches = append(batches, texts)
		vecs := make([][]float32, len(texts))
		for i := range texts {
			vecs[i] = []float32{1, 0, 0}
		}
		return vecs, nil
	}

	builder, err := NewBuilder(provider)
	require.NoError(t, err)

	// 450 words: expect chunks of 200, 200 and 50
	long := strings.Repeat("word ", 450)
	_, err = builder.Build(context.Background(), long)
	require.NoError(t, err)

	// First batch is the lyrics chunks, the second is theme centroids
	require.NotEmpty(t, batches)
	chunks := batches[0]
	require.Len(t, chunks, 3)
	for _, chunk := range chunks {
		assert.True(t, strings.HasPrefix(chunk, semanticQueryPrefix))
	}
	assert.Len(t, strings.Fields(chunks[0]), semanticChunkWords+1)
	assert.Len(t, strings.Fields(chunks[2]), 51)
}

func TestBuilder_RephraseWindow(t *testing.T) {
	provider := newTestProvider()

	var captured string
	provider.GetRephraseMock().EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		captured = text
		return []float32{0, 1}, nil
	}

	builder, err := NewBuilder(provider)
	require.NoError(t, err)

	long := strings.Repeat("word ", 600)
	_, err = builder.Build(context.Background(), long)
	require.NoError(t, err)

	assert.Len(t, strings.Fields(captured), rephraseWindowWords)
}
