package kdtree

import (
	"github.com/RoaringBitmap/roaring/v2"

	"github.com/hupe1980/kdann/distance"
	"github.com/hupe1980/kdann/internal/queue"
	"github.com/hupe1980/kdann/internal/topk"
)

// SearchOptions controls a single priority search call.
type SearchOptions struct {
	// Epsilon is the relative error tolerance. With Epsilon = 0 the search
	// is exact; with Epsilon > 0 every returned squared distance is within
	// a factor (1+Epsilon)^2 of the true i-th nearest squared distance,
	// per the termination bound. Must be non-negative.
	Epsilon float64

	// MaxVisited caps the number of points examined before the search
	// terminates early with whatever candidates it has collected so far.
	// The check happens between region visits, never mid-leaf. Exceeding
	// the cap is not an error, but the eps guarantee no longer holds.
	// 0 means unlimited.
	MaxVisited int

	// Filter, when non-nil, restricts results to the point ids it
	// contains. Filtered-out points still count against MaxVisited.
	Filter *roaring.Bitmap

	// AllowSelfMatch controls whether a point at squared distance zero
	// from the query (the query itself, when querying indexed points) is
	// eligible as a result.
	AllowSelfMatch bool
}

// DefaultSearchOptions contains the default search options.
var DefaultSearchOptions = SearchOptions{
	AllowSelfMatch: true,
}

// Result is a single search hit.
type Result struct {
	// ID is the identifier of the matched point.
	ID uint32

	// Distance is the squared Euclidean distance to the query.
	Distance float32
}

// queryState carries everything one search call mutates. It is created per
// call and never shared, so concurrent searches against the same tree need
// no synchronization.
type queryState struct {
	query          []float32
	maxErr         float32 // (1+eps)^2, applied in squared-distance space
	visited        int
	maxVisited     int
	filter         *roaring.Bitmap
	allowSelfMatch bool

	boxPQ   *queue.PriorityQueue[node]
	closest *topk.Selector
}

// PrioritySearch returns the k points nearest to q, sorted ascending by
// squared distance. If the tree indexes fewer than k points, fewer than k
// results are returned.
//
// Argument violations (k <= 0, negative epsilon, dimension mismatch) are
// reported before any traversal work.
func (t *Tree) PrioritySearch(q []float32, k int, optFns ...func(o *SearchOptions)) ([]Result, error) {
	opts := DefaultSearchOptions
	for _, fn := range optFns {
		fn(&opts)
	}

	if k <= 0 {
		return nil, ErrInvalidK
	}
	if opts.Epsilon < 0 {
		return nil, ErrInvalidEpsilon
	}
	if len(q) != t.dim {
		return nil, &ErrDimensionMismatch{Expected: t.dim, Actual: len(q)}
	}
	if t.points == nil {
		return nil, ErrNoPoints
	}

	maxErr := float32((1 + opts.Epsilon) * (1 + opts.Epsilon))

	qs := &queryState{
		query:          q,
		maxErr:         maxErr,
		maxVisited:     opts.MaxVisited,
		filter:         opts.Filter,
		allowSelfMatch: opts.AllowSelfMatch,
		// One entry per unexplored sibling along a root-to-leaf path; the
		// point count is a generous static bound that avoids growth.
		boxPQ:   queue.NewMin[node](t.size),
		closest: topk.New(k),
	}

	qs.boxPQ.Push(boxDistance(q, t.boxLo, t.boxHi), t.root)

	for qs.boxPQ.Len() > 0 {
		if qs.maxVisited > 0 && qs.visited > qs.maxVisited {
			break
		}

		item, _ := qs.boxPQ.Pop()

		// No remaining region can improve on the current k-th best by
		// more than the tolerated factor.
		if item.Distance*qs.maxErr >= qs.closest.MaxKey() {
			break
		}

		t.searchNode(item.Ref, item.Distance, qs)
	}

	results := make([]Result, qs.closest.Len())
	for i := range results {
		results[i] = Result{ID: qs.closest.ID(i), Distance: qs.closest.Key(i)}
	}
	return results, nil
}

// searchNode processes one region popped from the priority queue. Split
// nodes are descended iteratively toward the child containing the query,
// enqueueing each farther sibling with an incrementally updated region
// distance; the descent bottoms out in a leaf scan.
func (t *Tree) searchNode(nd node, boxDist float32, qs *queryState) {
	for {
		switch n := nd.(type) {
		case *leafNode:
			t.searchLeaf(n, qs)
			return

		case *splitNode:
			cutDiff := qs.query[n.cutDim] - n.cutVal

			var near, far node
			var boxDiff float32
			if cutDiff < 0 {
				near, far = n.left, n.right
				boxDiff = n.lowBound - qs.query[n.cutDim]
			} else {
				near, far = n.right, n.left
				boxDiff = qs.query[n.cutDim] - n.highBound
			}
			if boxDiff < 0 {
				// Query was already inside this node's slab along the
				// cutting dimension.
				boxDiff = 0
			}

			if far != nil {
				// Only the cutting dimension's contribution changes when
				// descending one level: the old gap (boxDiff) is replaced
				// by the gap to the cutting plane (cutDiff).
				qs.boxPQ.Push(boxDist+(cutDiff*cutDiff-boxDiff*boxDiff), far)
			}

			if near == nil {
				return
			}
			// The near child's region distance equals the parent's: the
			// query lies within the near child's slab along cutDim.
			nd = near
		}
	}
}

// searchLeaf scans every point in the bucket against the query, feeding
// the best-k selector. Partial distance sums are abandoned as soon as they
// exceed the current k-th best, which is admissible because squared
// per-dimension terms only ever add.
func (t *Tree) searchLeaf(n *leafNode, qs *queryState) {
	minDist := qs.closest.MaxKey()

	for _, id := range n.bucket {
		if qs.filter != nil && !qs.filter.Contains(id) {
			continue
		}

		dist, ok := distance.SquaredL2Partial(qs.query, t.points.Vector(id), minDist)
		if !ok {
			continue
		}
		if dist == 0 && !qs.allowSelfMatch {
			continue
		}

		qs.closest.Insert(dist, id)
		minDist = qs.closest.MaxKey()
	}

	qs.visited += len(n.bucket)
}
