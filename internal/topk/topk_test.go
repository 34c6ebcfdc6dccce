package topk

import (
	"math"
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectorUnderCapacity(t *testing.T) {
	s := New(3)

	assert.Equal(t, 0, s.Len())
	assert.True(t, math.IsInf(float64(s.MaxKey()), 1))

	s.Insert(2.0, 10)
	s.Insert(1.0, 20)

	assert.Equal(t, 2, s.Len())
	assert.True(t, math.IsInf(float64(s.MaxKey()), 1), "under-filled selector must report +Inf")

	assert.Equal(t, float32(1.0), s.Key(0))
	assert.Equal(t, uint32(20), s.ID(0))
	assert.Equal(t, float32(2.0), s.Key(1))
	assert.Equal(t, uint32(10), s.ID(1))
}

func TestSelectorEviction(t *testing.T) {
	s := New(2)

	s.Insert(5.0, 1)
	s.Insert(3.0, 2)
	assert.Equal(t, float32(5.0), s.MaxKey())

	// Smaller key evicts the current maximum.
	s.Insert(4.0, 3)
	assert.Equal(t, 2, s.Len())
	assert.Equal(t, float32(4.0), s.MaxKey())
	assert.Equal(t, uint32(2), s.ID(0))
	assert.Equal(t, uint32(3), s.ID(1))

	// Key >= max is a no-op at capacity.
	s.Insert(4.0, 4)
	s.Insert(9.0, 5)
	assert.Equal(t, uint32(3), s.ID(1), "tie at the maximum must favor the earlier-seen point")
}

func TestSelectorMatchesSortReference(t *testing.T) {
	const k = 8
	rng := rand.New(rand.NewSource(42))

	s := New(k)
	var keys []float32
	for i := 0; i < 500; i++ {
		key := rng.Float32()
		s.Insert(key, uint32(i))
		keys = append(keys, key)
	}

	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	require.Equal(t, k, s.Len())
	for i := 0; i < k; i++ {
		assert.Equal(t, keys[i], s.Key(i))
	}
	assert.Equal(t, keys[k-1], s.MaxKey())
}

func TestSelectorReset(t *testing.T) {
	s := New(2)
	s.Insert(1.0, 1)
	s.Insert(2.0, 2)

	s.Reset()

	assert.Equal(t, 0, s.Len())
	assert.True(t, math.IsInf(float64(s.MaxKey()), 1))
}
