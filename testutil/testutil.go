// Package testutil provides deterministic fixtures for search tests: a
// seeded RNG for vector generation and a brute-force reference search to
// cross-check tree results against.
package testutil

import (
	"math/rand"
	"sort"
	"sync"

	"github.com/hupe1980/kdann/distance"
	"github.com/hupe1980/kdann/pointset"
)

// RNG encapsulates a seeded random number generator. It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Float32 returns a pseudo-random number in [0.0,1.0).
func (r *RNG) Float32() float32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Float32()
}

// UniformVectors generates random vectors with values in range [0, 1).
// A single backing array holds all coordinates.
func (r *RNG) UniformVectors(num, dimensions int) [][]float32 {
	r.mu.Lock()
	defer r.mu.Unlock()

	data := make([]float32, num*dimensions)
	vectors := make([][]float32, num)

	for i := 0; i < num; i++ {
		vec := data[i*dimensions : (i+1)*dimensions]
		for j := range vec {
			vec[j] = r.rand.Float32()
		}
		vectors[i] = vec
	}

	return vectors
}

// UniformVector generates one random vector with values in [0, 1).
func (r *RNG) UniformVector(dimensions int) []float32 {
	r.mu.Lock()
	defer r.mu.Unlock()

	vec := make([]float32, dimensions)
	for j := range vec {
		vec[j] = r.rand.Float32()
	}
	return vec
}

// Neighbor is one brute-force search hit.
type Neighbor struct {
	ID       uint32
	Distance float32
}

// BruteForceKNN returns the k nearest points to q by exhaustive scan,
// sorted ascending by squared distance with ties broken by lower id.
// The distance accumulation matches the tree's leaf scan, so distances
// compare bit for bit.
func BruteForceKNN(points pointset.Store, q []float32, k int) []Neighbor {
	all := make([]Neighbor, points.Len())
	for id := range all {
		all[id] = Neighbor{
			ID:       uint32(id),
			Distance: distance.SquaredL2(q, points.Vector(uint32(id))),
		}
	}

	sort.Slice(all, func(i, j int) bool {
		if all[i].Distance != all[j].Distance {
			return all[i].Distance < all[j].Distance
		}
		return all[i].ID < all[j].ID
	})

	if k < len(all) {
		all = all[:k]
	}
	return all
}
