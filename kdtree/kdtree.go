// Package kdtree implements a static kd-tree and approximate k-nearest
// neighbor queries over it using priority search.
//
// The tree is built once over an immutable point set and is read-only
// afterwards, so any number of searches may run concurrently against it;
// every query owns its own traversal state.
//
// Priority search visits tree regions in increasing order of distance from
// the query instead of a fixed top-down order, and stops as soon as no
// unexplored region can beat the current k-th best candidate by more than
// the caller's error tolerance. The method is due to Arya and Mount
// ("Algorithms for fast vector quantization", DCC '93).
package kdtree

import (
	"errors"
	"fmt"

	"github.com/hupe1980/kdann/pointset"
)

var (
	// ErrInvalidK is returned when k is not positive.
	ErrInvalidK = errors.New("k must be positive")

	// ErrInvalidEpsilon is returned when the error tolerance is negative.
	ErrInvalidEpsilon = errors.New("epsilon must be non-negative")

	// ErrNoPoints is returned when the tree has no point set attached.
	ErrNoPoints = errors.New("no point set attached")
)

// ErrDimensionMismatch indicates a query/tree dimensionality mismatch.
type ErrDimensionMismatch struct {
	Expected int // Expected dimensions
	Actual   int // Actual dimensions
}

// Error returns the error message for dimension mismatch.
func (e *ErrDimensionMismatch) Error() string {
	return fmt.Sprintf("dimension mismatch: expected %d, got %d", e.Expected, e.Actual)
}

// node is one of exactly two variants: *splitNode or *leafNode.
// The variant set is closed and fixed for the life of the tree; dispatch
// is a type switch in the traversal.
type node interface {
	isNode()
}

// splitNode cuts its region in two at cutVal along cutDim. The low child
// holds points with coordinate <= cutVal, the high child the rest. A nil
// child means an empty subtree and is never enqueued during search.
type splitNode struct {
	cutDim int     // cutting dimension
	cutVal float32 // cutting coordinate value

	// Bounds of this node's region along cutDim, kept for the O(1)
	// incremental box-distance update during descent.
	lowBound  float32
	highBound float32

	left  node // coordinate <= cutVal
	right node // coordinate > cutVal
}

// leafNode stores the identifiers of the points contained in its region.
type leafNode struct {
	bucket []uint32
}

func (*splitNode) isNode() {}
func (*leafNode) isNode()  {}

// Tree is an immutable kd-tree over an externally owned point set.
type Tree struct {
	points pointset.Store
	root   node
	dim    int
	size   int

	// Bounding box enclosing all points, used to seed the search.
	boxLo []float32
	boxHi []float32

	bucketSize int
}

// Len returns the number of points indexed by the tree.
func (t *Tree) Len() int { return t.size }

// Dimension returns the coordinate dimension of the indexed points.
func (t *Tree) Dimension() int { return t.dim }

// Points returns the point set the tree was built over.
func (t *Tree) Points() pointset.Store { return t.points }

// AttachPoints re-attaches a point set to a tree whose structure was
// decoded from a snapshot. The store must describe the same points the
// tree was built over.
func (t *Tree) AttachPoints(points pointset.Store) error {
	if points.Dimension() != t.dim {
		return &ErrDimensionMismatch{Expected: t.dim, Actual: points.Dimension()}
	}
	if points.Len() != t.size {
		return fmt.Errorf("kdtree: point set has %d points, tree indexes %d", points.Len(), t.size)
	}
	t.points = points
	return nil
}
