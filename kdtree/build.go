package kdtree

import (
	"errors"
	"slices"

	"github.com/hupe1980/kdann/pointset"
)

// BuildOptions contains configuration options for tree construction.
type BuildOptions struct {
	// BucketSize is the maximum number of points stored in a leaf.
	// Smaller buckets mean deeper trees and finer pruning; larger buckets
	// shift work into the brute-force leaf scan. Must be positive.
	BucketSize int
}

// DefaultBuildOptions contains the default construction options.
var DefaultBuildOptions = BuildOptions{
	BucketSize: 16,
}

// Build constructs a kd-tree over the given point set using sliding-midpoint
// splits: each region is cut at the midpoint of its bounding box along the
// dimension of largest point spread, with the cut slid toward the points so
// that neither child is empty. Sliding keeps the tree depth O(log n) on
// clustered inputs, bounding the recursion depth of both construction and
// search.
//
// The point set is captured by reference and must not change afterwards.
func Build(points pointset.Store, optFns ...func(o *BuildOptions)) (*Tree, error) {
	opts := DefaultBuildOptions
	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.BucketSize <= 0 {
		return nil, errors.New("kdtree: bucket size must be positive")
	}
	if points == nil || points.Len() == 0 {
		return nil, errors.New("kdtree: empty point set")
	}

	n := points.Len()
	ids := make([]uint32, n)
	for i := range ids {
		ids[i] = uint32(i)
	}

	boxLo, boxHi := pointBounds(points, ids)

	b := &builder{points: points, bucketSize: opts.BucketSize}
	root := b.build(ids, slices.Clone(boxLo), slices.Clone(boxHi))

	return &Tree{
		points:     points,
		root:       root,
		dim:        points.Dimension(),
		size:       n,
		boxLo:      boxLo,
		boxHi:      boxHi,
		bucketSize: opts.BucketSize,
	}, nil
}

type builder struct {
	points     pointset.Store
	bucketSize int
}

// build constructs the subtree for ids, whose region is the box [lo, hi].
// lo and hi are mutated around the recursive calls and restored before
// returning, so a single pair of scratch slices serves the whole build.
func (b *builder) build(ids []uint32, lo, hi []float32) node {
	if len(ids) <= b.bucketSize {
		return &leafNode{bucket: ids}
	}

	cutDim, cutVal, nLow, ok := b.split(ids, lo, hi)
	if !ok {
		// All remaining points are coincident; no dimension can separate
		// them, so they live in one oversized bucket.
		return &leafNode{bucket: ids}
	}

	nd := &splitNode{
		cutDim:    cutDim,
		cutVal:    cutVal,
		lowBound:  lo[cutDim],
		highBound: hi[cutDim],
	}

	saved := hi[cutDim]
	hi[cutDim] = cutVal
	nd.left = b.build(ids[:nLow], lo, hi)
	hi[cutDim] = saved

	saved = lo[cutDim]
	lo[cutDim] = cutVal
	nd.right = b.build(ids[nLow:], lo, hi)
	lo[cutDim] = saved

	return nd
}

// split chooses a cutting plane for ids within the box [lo, hi] and
// partitions ids in place so ids[:nLow] have coordinate <= cutVal along
// cutDim and ids[nLow:] have coordinate > cutVal. Both sides are
// guaranteed non-empty. ok is false if the points have zero spread in
// every dimension.
func (b *builder) split(ids []uint32, lo, hi []float32) (cutDim int, cutVal float32, nLow int, ok bool) {
	pLo, pHi := pointBounds(b.points, ids)

	var maxSpread float32 = -1
	for d := range pLo {
		if spread := pHi[d] - pLo[d]; spread > maxSpread {
			maxSpread = spread
			cutDim = d
		}
	}
	if maxSpread <= 0 {
		return 0, 0, 0, false
	}

	// Midpoint of the box, slid into the range actually occupied by points.
	cutVal = (lo[cutDim] + hi[cutDim]) / 2
	if cutVal < pLo[cutDim] {
		cutVal = pLo[cutDim]
	}
	if cutVal >= pHi[cutDim] {
		// Slide down so the maximal points end up on the high side.
		cutVal = maxBelow(b.points, ids, cutDim, pHi[cutDim])
	}

	nLow = partition(b.points, ids, cutDim, cutVal)
	return cutDim, cutVal, nLow, true
}

// partition reorders ids so the first block has coordinate <= cutVal along
// dim and returns its length.
func partition(points pointset.Store, ids []uint32, dim int, cutVal float32) int {
	i, j := 0, len(ids)-1
	for i <= j {
		for i <= j && points.Vector(ids[i])[dim] <= cutVal {
			i++
		}
		for i <= j && points.Vector(ids[j])[dim] > cutVal {
			j--
		}
		if i < j {
			ids[i], ids[j] = ids[j], ids[i]
			i++
			j--
		}
	}
	return i
}

// maxBelow returns the largest coordinate along dim that is strictly less
// than limit. The caller guarantees one exists.
func maxBelow(points pointset.Store, ids []uint32, dim int, limit float32) float32 {
	best := float32(0)
	found := false
	for _, id := range ids {
		c := points.Vector(id)[dim]
		if c < limit && (!found || c > best) {
			best = c
			found = true
		}
	}
	return best
}

// pointBounds returns the tight bounding box of the given points.
func pointBounds(points pointset.Store, ids []uint32) (lo, hi []float32) {
	dim := points.Dimension()
	lo = slices.Clone(points.Vector(ids[0]))
	hi = slices.Clone(points.Vector(ids[0]))
	for _, id := range ids[1:] {
		v := points.Vector(id)
		for d := 0; d < dim; d++ {
			if v[d] < lo[d] {
				lo[d] = v[d]
			} else if v[d] > hi[d] {
				hi[d] = v[d]
			}
		}
	}
	return lo, hi
}
