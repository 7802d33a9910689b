package index

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeVector(t *testing.T) {
	t.Run("normalizes to unit length", func(t *testing.T) {
		v := []float32{3, 4}
		normalized := NormalizeVector(v)

		assert.InDelta(t, 0.6, normalized[0], 1e-6)
		assert.InDelta(t, 0.8, normalized[1], 1e-6)
		assert.InDelta(t, 1.0, l2Norm(normalized), 1e-6)
	})

	t.Run("unit vector stays unchanged", func(t *testing.T) {
		v := []float32{1, 0, 0}
		normalized := NormalizeVector(v)
		assert.Equal(t, v, normalized)
	})

	t.Run("zero vector returns zero vector", func(t *testing.T) {
		v := []float32{0, 0, 0}
		normalized := NormalizeVector(v)
		assert.Equal(t, []float32{0, 0, 0}, normalized)
	})

	t.Run("empty vector", func(t *testing.T) {
		assert.Empty(t, NormalizeVector(nil))
	})

	t.Run("does not mutate input", func(t *testing.T) {
		v := []float32{2, 0}
		_ = NormalizeVector(v)
		assert.Equal(t, []float32{2, 0}, v)
	})

	t.Run("norm is one for arbitrary vectors", func(t *testing.T) {
		vectors := [][]float32{
			{0.1, -0.7, 2.3},
			{5, 5, 5, 5},
			{-1, 2, -3, 4, -5},
		}
		for _, v := range vectors {
			assert.InDelta(t, 1.0, l2Norm(NormalizeVector(v)), 1e-6)
		}
	})
}

func TestDotProduct(t *testing.T) {
	t.Run("orthogonal vectors", func(t *testing.T) {
		assert.Equal(t, float32(0), dotProduct([]float32{1, 0}, []float32{0, 1}))
	})

	t.Run("identical unit vectors", func(t *testing.T) {
		assert.InDelta(t, 1.0, dotProduct([]float32{0.6, 0.8}, []float32{0.6, 0.8}), 1e-6)
	})

	t.Run("opposite vectors", func(t *testing.T) {
		assert.InDelta(t, -1.0, dotProduct([]float32{1, 0}, []float32{-1, 0}), 1e-6)
	})
}

func l2Norm(v []float32) float64 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	return math.Sqrt(sum)
}
