package fingerprint

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func magnitude(v []float32) float64 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	return math.Sqrt(sum)
}

func TestNormalize_UnitLength(t *testing.T) {
	v := []float32{3, 4}
	n := Normalize(v)
	assert.InDelta(t, 1.0, magnitude(n), 1e-5)
	assert.InDelta(t, 0.6, float64(n[0]), 1e-5)
	assert.InDelta(t, 0.8, float64(n[1]), 1e-5)

	// Input untouched
	assert.Equal(t, []float32{3, 4}, v)
}

func TestNormalize_ZeroVector(t *testing.T) {
	n := Normalize([]float32{0, 0, 0})
	assert.Equal(t, []float32{0, 0, 0}, n)
}

func TestNormalize_Empty(t *testing.T) {
	assert.Empty(t, Normalize(nil))
}

func TestCosine(t *testing.T) {
	a := []float32{1, 0, 0}
	b := []float32{0, 1, 0}

	assert.InDelta(t, 1.0, float64(Cosine(a, a)), 1e-5)
	assert.InDelta(t, 0.0, float64(Cosine(a, b)), 1e-5)
	assert.InDelta(t, -1.0, float64(Cosine(a, []float32{-1, 0, 0})), 1e-5)
}

func TestCosine_Mismatched(t *testing.T) {
	assert.Zero(t, Cosine([]float32{1, 2}, []float32{1, 2, 3}))
	assert.Zero(t, Cosine(nil, nil))
}

func TestMean(t *testing.T) {
	vecs := [][]float32{
		{1, 2, 3},
		{3, 4, 5},
	}
	m := Mean(vecs)
	require.Len(t, m, 3)
	assert.InDelta(t, 2.0, float64(m[0]), 1e-5)
	assert.InDelta(t, 3.0, float64(m[1]), 1e-5)
	assert.InDelta(t, 4.0, float64(m[2]), 1e-5)

	assert.Nil(t, Mean(nil))
}
