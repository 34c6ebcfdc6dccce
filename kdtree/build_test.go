package kdtree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/kdann/pointset"
	"github.com/hupe1980/kdann/testutil"
)

func buildFromVectors(t *testing.T, vectors [][]float32, optFns ...func(o *BuildOptions)) *Tree {
	t.Helper()

	points, err := pointset.FromVectors(vectors)
	require.NoError(t, err)

	tree, err := Build(points, optFns...)
	require.NoError(t, err)
	return tree
}

// collectLeaves walks the tree and returns every leaf bucket, checking split
// invariants along the way.
func collectLeaves(t *testing.T, tree *Tree) [][]uint32 {
	t.Helper()

	var leaves [][]uint32
	var walk func(nd node, depth int)
	walk = func(nd node, depth int) {
		require.Less(t, depth, 64, "tree depth exploded")
		switch n := nd.(type) {
		case *leafNode:
			leaves = append(leaves, n.bucket)
		case *splitNode:
			require.GreaterOrEqual(t, n.cutDim, 0)
			require.Less(t, n.cutDim, tree.dim)
			require.LessOrEqual(t, n.lowBound, n.cutVal)
			require.LessOrEqual(t, n.cutVal, n.highBound)
			if n.left != nil {
				walk(n.left, depth+1)
			}
			if n.right != nil {
				walk(n.right, depth+1)
			}
		}
	}
	walk(tree.root, 0)
	return leaves
}

func TestBuildPartitionsEveryPoint(t *testing.T) {
	rng := testutil.NewRNG(11)
	vectors := rng.UniformVectors(500, 4)

	tree := buildFromVectors(t, vectors, func(o *BuildOptions) {
		o.BucketSize = 8
	})

	assert.Equal(t, 500, tree.Len())
	assert.Equal(t, 4, tree.Dimension())

	seen := make(map[uint32]int)
	for _, bucket := range collectLeaves(t, tree) {
		assert.LessOrEqual(t, len(bucket), 8)
		for _, id := range bucket {
			seen[id]++
		}
	}

	require.Len(t, seen, 500, "every point must land in a leaf")
	for id, count := range seen {
		assert.Equal(t, 1, count, "point %d appears in multiple leaves", id)
	}
}

func TestBuildSplitSidesRespectCut(t *testing.T) {
	rng := testutil.NewRNG(23)
	tree := buildFromVectors(t, rng.UniformVectors(200, 3), func(o *BuildOptions) {
		o.BucketSize = 4
	})

	var walk func(nd node)
	walk = func(nd node) {
		n, ok := nd.(*splitNode)
		if !ok {
			return
		}

		var checkSide func(child node, high bool)
		checkSide = func(child node, high bool) {
			switch c := child.(type) {
			case *leafNode:
				for _, id := range c.bucket {
					coord := tree.points.Vector(id)[n.cutDim]
					if high {
						assert.Greater(t, coord, n.cutVal)
					} else {
						assert.LessOrEqual(t, coord, n.cutVal)
					}
				}
			case *splitNode:
				checkSide(c.left, high)
				checkSide(c.right, high)
			}
		}
		checkSide(n.left, false)
		checkSide(n.right, true)

		walk(n.left)
		walk(n.right)
	}
	walk(tree.root)
}

func TestBuildCoincidentPoints(t *testing.T) {
	// More duplicates of one point than fit a bucket: no dimension can
	// separate them, so they must end up in one oversized leaf instead of
	// recursing forever.
	vectors := make([][]float32, 40)
	for i := range vectors {
		vectors[i] = []float32{1, 2}
	}
	vectors = append(vectors, []float32{5, 5})

	tree := buildFromVectors(t, vectors, func(o *BuildOptions) {
		o.BucketSize = 4
	})

	total := 0
	for _, bucket := range collectLeaves(t, tree) {
		total += len(bucket)
	}
	assert.Equal(t, 41, total)

	results, err := tree.PrioritySearch([]float32{1, 2}, 3)
	require.NoError(t, err)
	require.Len(t, results, 3)
	for _, r := range results {
		assert.Equal(t, float32(0), r.Distance)
	}
}

func TestBuildSmallerThanBucket(t *testing.T) {
	tree := buildFromVectors(t, [][]float32{{1}, {2}, {3}})

	_, ok := tree.root.(*leafNode)
	assert.True(t, ok, "n <= bucket size must produce a single leaf")
}

func TestBuildErrors(t *testing.T) {
	points, err := pointset.FromVectors([][]float32{{1, 2}})
	require.NoError(t, err)

	_, err = Build(points, func(o *BuildOptions) { o.BucketSize = 0 })
	assert.Error(t, err)

	_, err = Build(nil)
	assert.Error(t, err)
}

func TestStats(t *testing.T) {
	rng := testutil.NewRNG(3)
	tree := buildFromVectors(t, rng.UniformVectors(300, 2), func(o *BuildOptions) {
		o.BucketSize = 8
	})

	stats := tree.Stats()
	assert.Equal(t, 300, stats.Points)
	assert.Greater(t, stats.Leaves, 0)
	assert.Greater(t, stats.MaxDepth, 0)
	assert.Greater(t, stats.MeanBucket, 0.0)
	assert.NotEmpty(t, stats.String())
}
