// Package topk provides a bounded best-k selector for nearest neighbor
// candidates. It keeps the k smallest (key, id) pairs seen so far in
// ascending key order, so the current pruning bound and the final sorted
// result set are both O(1) reads.
package topk

import "math"

// inf is the sentinel key reported while the selector is under-filled.
var inf = float32(math.Inf(1))

// Selector holds at most k (key, id) pairs, sorted ascending by key.
//
// Insertion is O(k) by shifting, which beats a heap for the small k typical
// of nearest neighbor queries and keeps the entries sorted for free.
//
// Selector is NOT thread-safe. It is intended to be owned by a single
// query for its lifetime.
type Selector struct {
	keys []float32
	ids  []uint32
	k    int
}

// New creates a Selector with capacity k. k must be positive.
func New(k int) *Selector {
	return &Selector{
		keys: make([]float32, 0, k),
		ids:  make([]uint32, 0, k),
		k:    k,
	}
}

// Insert offers a (key, id) pair. While under capacity every pair is
// accepted. At capacity the pair is accepted only if key is strictly less
// than the current maximum, which it then evicts; ties at the maximum are
// dropped, favoring earlier-seen points.
func (s *Selector) Insert(key float32, id uint32) {
	n := len(s.keys)

	if n == s.k {
		if key >= s.keys[n-1] {
			return
		}
		n-- // evict the current maximum
	} else {
		s.keys = s.keys[:n+1]
		s.ids = s.ids[:n+1]
	}

	// Shift larger entries up and slot the new pair in.
	i := n
	for i > 0 && s.keys[i-1] > key {
		s.keys[i] = s.keys[i-1]
		s.ids[i] = s.ids[i-1]
		i--
	}
	s.keys[i] = key
	s.ids[i] = id
}

// MaxKey returns the k-th smallest key seen so far, the active pruning
// bound. While fewer than k pairs have been inserted it returns +Inf.
func (s *Selector) MaxKey() float32 {
	if len(s.keys) < s.k {
		return inf
	}
	return s.keys[len(s.keys)-1]
}

// Len returns the number of pairs currently held, at most k.
func (s *Selector) Len() int { return len(s.keys) }

// Key returns the i-th smallest key. i must be < Len().
func (s *Selector) Key(i int) float32 { return s.keys[i] }

// ID returns the id paired with the i-th smallest key. i must be < Len().
func (s *Selector) ID(i int) uint32 { return s.ids[i] }

// Reset clears the selector for reuse without freeing memory.
func (s *Selector) Reset() {
	s.keys = s.keys[:0]
	s.ids = s.ids[:0]
}
