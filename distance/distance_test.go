package distance

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSquaredL2(t *testing.T) {
	a := []float32{1, 2, 3}
	b := []float32{4, 6, 3}

	assert.Equal(t, float32(25), SquaredL2(a, b))
	assert.Equal(t, float32(0), SquaredL2(a, a))
}

func TestSquaredL2PartialCompleted(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	// Completed partial sums must equal the plain accumulation bit for bit,
	// across lengths on both sides of the block boundary.
	for _, dim := range []int{1, 3, 8, 9, 16, 37, 128} {
		a := make([]float32, dim)
		b := make([]float32, dim)
		for i := range a {
			a[i] = rng.Float32()
			b[i] = rng.Float32()
		}

		want := SquaredL2(a, b)
		got, ok := SquaredL2Partial(a, b, float32(math.Inf(1)))
		require.True(t, ok, "dim %d", dim)
		assert.Equal(t, want, got, "dim %d", dim)
	}
}

func TestSquaredL2PartialEarlyExit(t *testing.T) {
	a := make([]float32, 64)
	b := make([]float32, 64)
	for i := range a {
		b[i] = 1 // each dimension contributes 1
	}

	partial, ok := SquaredL2Partial(a, b, 10)
	assert.False(t, ok)
	assert.Less(t, float64(10), float64(partial))
	assert.Less(t, float64(partial), float64(64), "scan must stop well before the full sum")

	// A bound at or above the full distance completes.
	full, ok := SquaredL2Partial(a, b, 64)
	assert.True(t, ok)
	assert.Equal(t, float32(64), full)
}

func TestDot(t *testing.T) {
	a := []float32{1, 2, 3}
	b := []float32{4, 5, 6}

	assert.InDelta(t, 32, Dot(a, b), 1e-6)
}

func TestNormalizeL2(t *testing.T) {
	v := []float32{3, 4}

	normalized, ok := NormalizeL2Copy(v)
	require.True(t, ok)
	assert.InDelta(t, 0.6, normalized[0], 1e-6)
	assert.InDelta(t, 0.8, normalized[1], 1e-6)
	assert.Equal(t, float32(3), v[0], "copy must not modify the source")

	ok = NormalizeL2InPlace(v)
	require.True(t, ok)
	assert.InDelta(t, 1.0, Dot(v, v), 1e-6)

	_, ok = NormalizeL2Copy([]float32{0, 0})
	assert.False(t, ok)
	assert.False(t, NormalizeL2InPlace(nil))
}
