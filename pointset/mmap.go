package pointset

import (
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"unsafe"

	"github.com/hupe1980/kdann/internal/mmap"
)

// File format for memory-mapped point sets. All integers little-endian.
//
//	offset 0:  magic "KDPT"
//	offset 4:  version uint32
//	offset 8:  dimension uint32
//	offset 12: count uint32
//	offset 16: count*dimension float32 coordinates
const (
	mmapMagic      = "KDPT"
	mmapVersion    = 1
	mmapHeaderSize = 16
)

// MMap is a Store backed by a memory-mapped file, giving zero-copy access
// to point sets larger than comfortably fit on the heap.
//
// The on-disk coordinates are little-endian float32; the mapping is
// reinterpreted in place, so only little-endian hosts are supported.
type MMap struct {
	m    *mmap.File
	data []float32
	dim  int
}

var _ Store = (*MMap)(nil)

// OpenMMap maps the point-set file at path.
func OpenMMap(path string) (*MMap, error) {
	m, err := mmap.Open(path)
	if err != nil {
		return nil, err
	}

	b := m.Bytes()
	if len(b) < mmapHeaderSize {
		m.Close()
		return nil, fmt.Errorf("pointset: %s: truncated header", path)
	}
	if string(b[:4]) != mmapMagic {
		m.Close()
		return nil, fmt.Errorf("pointset: %s: bad magic", path)
	}
	if v := binary.LittleEndian.Uint32(b[4:]); v != mmapVersion {
		m.Close()
		return nil, fmt.Errorf("pointset: %s: unsupported version %d", path, v)
	}

	dim := int(binary.LittleEndian.Uint32(b[8:]))
	count := int(binary.LittleEndian.Uint32(b[12:]))
	want := mmapHeaderSize + 4*dim*count
	if dim <= 0 || count <= 0 || len(b) < want {
		m.Close()
		return nil, fmt.Errorf("pointset: %s: header claims %d x %d points, file has %d bytes", path, count, dim, len(b))
	}

	payload := b[mmapHeaderSize:want]
	data := unsafe.Slice((*float32)(unsafe.Pointer(&payload[0])), dim*count)

	return &MMap{m: m, data: data, dim: dim}, nil
}

// Vector returns the coordinates of the point with the given id.
func (s *MMap) Vector(id uint32) []float32 {
	off := int(id) * s.dim
	return s.data[off : off+s.dim : off+s.dim]
}

// Dimension returns the number of coordinates per point.
func (s *MMap) Dimension() int { return s.dim }

// Len returns the total number of points.
func (s *MMap) Len() int { return len(s.data) / s.dim }

// Close unmaps the file. Vectors returned earlier become invalid.
func (s *MMap) Close() error {
	s.data = nil
	return s.m.Close()
}

// WriteFile writes a store to path in the memory-mappable format.
func WriteFile(path string, s Store) error {
	dim, count := s.Dimension(), s.Len()
	if count > math.MaxUint32 {
		return fmt.Errorf("pointset: %d points exceed format limit", count)
	}

	buf := make([]byte, mmapHeaderSize, mmapHeaderSize+4*dim*count)
	copy(buf, mmapMagic)
	binary.LittleEndian.PutUint32(buf[4:], mmapVersion)
	binary.LittleEndian.PutUint32(buf[8:], uint32(dim))
	binary.LittleEndian.PutUint32(buf[12:], uint32(count))

	var scratch [4]byte
	for id := uint32(0); int(id) < count; id++ {
		for _, c := range s.Vector(id) {
			binary.LittleEndian.PutUint32(scratch[:], math.Float32bits(c))
			buf = append(buf, scratch[:]...)
		}
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, buf, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
