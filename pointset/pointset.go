// Package pointset provides immutable point-set storage for kd-tree search.
//
// A Store gives the search core random access to fixed-dimension coordinate
// vectors by integer identifier. Stores are read-only once built; the search
// core never mutates them.
package pointset

import (
	"fmt"
)

// Store is read-only random access to a set of fixed-dimension points.
type Store interface {
	// Vector returns the coordinates of the point with the given id.
	// The returned slice must not be modified and stays valid for the
	// lifetime of the store.
	Vector(id uint32) []float32

	// Dimension returns the number of coordinates per point.
	Dimension() int

	// Len returns the total number of points.
	Len() int
}

// Flat is a Store backed by a single contiguous float32 slice, point i
// occupying data[i*dim : (i+1)*dim]. The contiguous layout keeps leaf
// bucket scans hardware-prefetch friendly.
type Flat struct {
	data []float32
	dim  int
}

var _ Store = (*Flat)(nil)

// FromVectors builds a Flat store from a slice of equal-length vectors.
func FromVectors(vectors [][]float32) (*Flat, error) {
	if len(vectors) == 0 {
		return nil, fmt.Errorf("pointset: empty point set")
	}

	dim := len(vectors[0])
	if dim == 0 {
		return nil, fmt.Errorf("pointset: zero-dimension points")
	}

	data := make([]float32, 0, len(vectors)*dim)
	for i, v := range vectors {
		if len(v) != dim {
			return nil, fmt.Errorf("pointset: point %d has dimension %d, want %d", i, len(v), dim)
		}
		data = append(data, v...)
	}

	return &Flat{data: data, dim: dim}, nil
}

// FromFlat wraps an existing flattened coordinate buffer without copying.
// len(data) must be a multiple of dim. The caller must not modify data
// afterwards.
func FromFlat(data []float32, dim int) (*Flat, error) {
	if dim <= 0 {
		return nil, fmt.Errorf("pointset: invalid dimension %d", dim)
	}
	if len(data) == 0 || len(data)%dim != 0 {
		return nil, fmt.Errorf("pointset: buffer length %d is not a positive multiple of dimension %d", len(data), dim)
	}
	return &Flat{data: data, dim: dim}, nil
}

// Vector returns the coordinates of the point with the given id.
func (f *Flat) Vector(id uint32) []float32 {
	off := int(id) * f.dim
	return f.data[off : off+f.dim : off+f.dim]
}

// Dimension returns the number of coordinates per point.
func (f *Flat) Dimension() int { return f.dim }

// Len returns the total number of points.
func (f *Flat) Len() int { return len(f.data) / f.dim }

// Data returns the flattened backing buffer. Read-only.
func (f *Flat) Data() []float32 { return f.data }
