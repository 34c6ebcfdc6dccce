// Package queue provides the min-priority queue that orders unexplored
// tree regions by their squared distance to the query point.
package queue

// Item is a queue entry: an opaque region reference keyed by the squared
// distance from the query to the region's bounding box.
// Value-based (no pointers) for cache locality and zero allocations.
type Item[T any] struct {
	Ref      T       // the not-yet-explored subtree
	Distance float32 // squared distance from the query to the region
}

// PriorityQueue is a binary min-heap over Items. Ties between equal
// distances are broken arbitrarily.
//
// PriorityQueue is NOT thread-safe; each query owns its own instance.
type PriorityQueue[T any] struct {
	items []Item[T]
}

// NewMin initializes a min-priority queue with the given capacity hint.
func NewMin[T any](capacity int) *PriorityQueue[T] {
	return &PriorityQueue[T]{
		items: make([]Item[T], 0, capacity),
	}
}

// Len returns the number of elements in the priority queue.
func (pq *PriorityQueue[T]) Len() int { return len(pq.items) }

// Push inserts a region while maintaining the heap invariant.
func (pq *PriorityQueue[T]) Push(distance float32, ref T) {
	pq.items = append(pq.items, Item[T]{Ref: ref, Distance: distance})
	pq.siftUp(len(pq.items) - 1)
}

// Pop removes and returns the entry with the smallest distance.
func (pq *PriorityQueue[T]) Pop() (Item[T], bool) {
	n := len(pq.items)
	if n == 0 {
		return Item[T]{}, false
	}
	root := pq.items[0]
	last := pq.items[n-1]
	pq.items[n-1] = Item[T]{} // zero out for GC
	pq.items = pq.items[:n-1]
	if n-1 > 0 {
		pq.items[0] = last
		pq.siftDown(0)
	}
	return root, true
}

// Top returns the entry with the smallest distance without removing it.
func (pq *PriorityQueue[T]) Top() (Item[T], bool) {
	if len(pq.items) == 0 {
		return Item[T]{}, false
	}
	return pq.items[0], true
}

// Reset clears the priority queue for reuse without freeing memory.
func (pq *PriorityQueue[T]) Reset() {
	clear(pq.items)
	pq.items = pq.items[:0]
}

func (pq *PriorityQueue[T]) siftUp(i int) {
	for i > 0 {
		p := (i - 1) / 2
		if pq.items[i].Distance >= pq.items[p].Distance {
			return
		}
		pq.items[i], pq.items[p] = pq.items[p], pq.items[i]
		i = p
	}
}

func (pq *PriorityQueue[T]) siftDown(i int) {
	n := len(pq.items)
	for {
		l := 2*i + 1
		if l >= n {
			return
		}
		best := l
		if r := l + 1; r < n && pq.items[r].Distance < pq.items[l].Distance {
			best = r
		}
		if pq.items[best].Distance >= pq.items[i].Distance {
			return
		}
		pq.items[i], pq.items[best] = pq.items[best], pq.items[i]
		i = best
	}
}
