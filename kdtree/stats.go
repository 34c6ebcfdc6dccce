package kdtree

import (
	"fmt"

	"gonum.org/v1/gonum/stat"
)

// Stats summarizes the shape of a built tree.
type Stats struct {
	Points       int
	SplitNodes   int
	Leaves       int
	MaxDepth     int
	MeanBucket   float64
	StdDevBucket float64
}

// Stats walks the tree and returns shape statistics.
func (t *Tree) Stats() Stats {
	s := Stats{Points: t.size}

	var buckets []float64
	var walk func(nd node, depth int)
	walk = func(nd node, depth int) {
		if depth > s.MaxDepth {
			s.MaxDepth = depth
		}
		switch n := nd.(type) {
		case *leafNode:
			s.Leaves++
			buckets = append(buckets, float64(len(n.bucket)))
		case *splitNode:
			s.SplitNodes++
			if n.left != nil {
				walk(n.left, depth+1)
			}
			if n.right != nil {
				walk(n.right, depth+1)
			}
		}
	}
	walk(t.root, 0)

	s.MeanBucket = stat.Mean(buckets, nil)
	if len(buckets) > 1 {
		s.StdDevBucket = stat.StdDev(buckets, nil)
	}
	return s
}

// String returns a human-readable one-line summary.
func (s Stats) String() string {
	return fmt.Sprintf("points=%d splits=%d leaves=%d maxDepth=%d bucket(mean=%.1f stddev=%.1f)",
		s.Points, s.SplitNodes, s.Leaves, s.MaxDepth, s.MeanBucket, s.StdDevBucket)
}
