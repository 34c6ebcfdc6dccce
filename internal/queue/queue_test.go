package queue

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPriorityQueueOrdering(t *testing.T) {
	pq := NewMin[int](0)

	distances := []float32{0.4, 9, 0.001, 0.0534, 2.03, 2.042, 1.0009, 0.329, 10.03, 1.039}
	for i, d := range distances {
		pq.Push(d, i)
	}

	require.Equal(t, len(distances), pq.Len())

	top, ok := pq.Top()
	require.True(t, ok)
	assert.Equal(t, float32(0.001), top.Distance)
	assert.Equal(t, 2, top.Ref)

	sorted := append([]float32(nil), distances...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	for _, want := range sorted {
		item, ok := pq.Pop()
		require.True(t, ok)
		assert.Equal(t, want, item.Distance)
	}

	_, ok = pq.Pop()
	assert.False(t, ok)
}

func TestPriorityQueueInterleaved(t *testing.T) {
	pq := NewMin[uint32](16)
	rng := rand.New(rand.NewSource(7))

	var popped []float32
	for round := 0; round < 50; round++ {
		for i := 0; i < 5; i++ {
			pq.Push(rng.Float32(), uint32(i))
		}
		item, ok := pq.Pop()
		require.True(t, ok)
		popped = append(popped, item.Distance)
	}

	// Drain the rest; the global pop sequence need not be sorted, but
	// every pop must return the then-minimum.
	for pq.Len() > 0 {
		top, _ := pq.Top()
		item, _ := pq.Pop()
		assert.Equal(t, top.Distance, item.Distance)
		popped = append(popped, item.Distance)
	}
	assert.Len(t, popped, 250)
}

func TestPriorityQueueReset(t *testing.T) {
	pq := NewMin[int](4)
	pq.Push(1.0, 1)
	pq.Push(2.0, 2)

	pq.Reset()

	assert.Equal(t, 0, pq.Len())
	_, ok := pq.Top()
	assert.False(t, ok)
}
