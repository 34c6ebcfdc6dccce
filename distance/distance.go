package distance

import (
	"math"
	"slices"

	"github.com/viterin/vek/vek32"
)

// blockDims is the number of dimensions accumulated between early-exit
// checks in SquaredL2Partial. Checking per block instead of per dimension
// keeps the inner loop branch-light without changing the accumulated sum.
const blockDims = 8

// SquaredL2 calculates the squared L2 (Euclidean) distance between two
// vectors, accumulating in dimension order.
// Assumes vectors are the same length (caller's responsibility).
func SquaredL2(a, b []float32) float32 {
	var sum float32
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}

// SquaredL2Partial calculates the squared L2 distance between two vectors,
// abandoning the accumulation as soon as the partial sum exceeds bound.
// Squared per-dimension terms are non-negative, so a prefix sum above bound
// can never come back below it.
//
// It returns (sum, true) if the full distance was computed and (partial,
// false) if the scan was abandoned. The completed sum equals SquaredL2(a, b)
// bit for bit.
func SquaredL2Partial(a, b []float32, bound float32) (float32, bool) {
	var sum float32
	n := len(a)

	i := 0
	for ; i+blockDims <= n; i += blockDims {
		for j := i; j < i+blockDims; j++ {
			d := a[j] - b[j]
			sum += d * d
		}
		if sum > bound {
			return sum, false
		}
	}
	for ; i < n; i++ {
		d := a[i] - b[i]
		sum += d * d
	}
	if sum > bound {
		return sum, false
	}
	return sum, true
}

// Dot calculates the dot product of two vectors.
// Assumes vectors are the same length (caller's responsibility).
// Uses SIMD acceleration when available.
func Dot(a, b []float32) float32 {
	return vek32.Dot(a, b)
}

// NormalizeL2InPlace L2-normalizes v in place.
// Returns false if v has zero L2 norm.
func NormalizeL2InPlace(v []float32) bool {
	if len(v) == 0 {
		return false
	}
	norm2 := vek32.Dot(v, v)
	if norm2 == 0 {
		return false
	}
	vek32.MulNumber_Inplace(v, 1/float32(math.Sqrt(float64(norm2))))
	return true
}

// NormalizeL2Copy returns a normalized copy of src.
// Returns false if src has zero L2 norm.
func NormalizeL2Copy(src []float32) ([]float32, bool) {
	dst := slices.Clone(src)
	if !NormalizeL2InPlace(dst) {
		return nil, false
	}
	return dst, true
}
