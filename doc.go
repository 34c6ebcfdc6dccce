// Package kdann provides approximate k-nearest-neighbor search over a
// static point set using a kd-tree with priority search.
//
// The index is built once and is read-only afterwards; searches are exact
// by default and can trade a bounded relative error for speed via
// WithEpsilon. Indexes can be persisted as compressed snapshots to local
// disk or S3-compatible object storage.
//
// Basic usage:
//
//	points, _ := pointset.FromVectors(vectors)
//	ix, _ := kdann.New(points)
//	results, _ := ix.Search(ctx, query, 10, kdann.WithEpsilon(0.1))
package kdann
