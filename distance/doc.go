// Package distance provides vector distance calculations for kd-tree search.
//
// All distances are squared Euclidean distances: the search core never takes
// a square root on the hot path, and comparisons between squared values are
// order-preserving.
//
// SquaredL2 and SquaredL2Partial accumulate dimension by dimension in index
// order, so a partial sum abandoned early and a full sum over the same
// prefix are bit-identical. Dot and normalization use SIMD-accelerated
// kernels from viterin/vek.
package distance
