// Package snapshot serializes a built kd-tree together with its point set
// into a single blob, so an index can be built once and shipped to query
// hosts through any blobstore.BlobStore.
//
// Layout (integers little-endian):
//
//	offset 0: magic "KDSN"
//	offset 4: format version uint32
//	offset 8: compression type uint8, 3 reserved bytes
//	offset 12: dimension uint32, point count uint32
//	then: tree section, points section (see compression.go for the
//	section framing)
//
// The points section payload is the flattened float32 coordinate buffer.
package snapshot

import (
	"context"
	"encoding/binary"
	"fmt"
	"math"

	"github.com/hupe1980/kdann/blobstore"
	"github.com/hupe1980/kdann/kdtree"
	"github.com/hupe1980/kdann/pointset"
)

const (
	magic       = "KDSN"
	version     = 1
	headerSize  = 20
	compressOff = 8
	dimOff      = 12
	countOff    = 16
)

// Options contains configuration options for writing snapshots.
type Options struct {
	// Compression selects the section compression algorithm.
	Compression CompressionType
}

// DefaultOptions contains the default snapshot options.
var DefaultOptions = Options{
	Compression: CompressionZSTD,
}

// Write serializes tree and its point set into the named blob.
func Write(ctx context.Context, store blobstore.BlobStore, name string, tree *kdtree.Tree, optFns ...func(o *Options)) error {
	opts := DefaultOptions
	for _, fn := range optFns {
		fn(&opts)
	}

	points := tree.Points()
	if points == nil {
		return kdtree.ErrNoPoints
	}

	treeData, err := tree.GobEncode()
	if err != nil {
		return fmt.Errorf("snapshot: encode tree: %w", err)
	}
	treeSection, err := compressSection(treeData, opts.Compression)
	if err != nil {
		return fmt.Errorf("snapshot: compress tree: %w", err)
	}

	pointsSection, err := compressSection(flattenPoints(points), opts.Compression)
	if err != nil {
		return fmt.Errorf("snapshot: compress points: %w", err)
	}

	buf := make([]byte, headerSize, headerSize+len(treeSection)+len(pointsSection))
	copy(buf, magic)
	binary.LittleEndian.PutUint32(buf[4:], version)
	buf[compressOff] = byte(opts.Compression)
	binary.LittleEndian.PutUint32(buf[dimOff:], uint32(points.Dimension()))
	binary.LittleEndian.PutUint32(buf[countOff:], uint32(points.Len()))
	buf = append(buf, treeSection...)
	buf = append(buf, pointsSection...)

	return store.Put(ctx, name, buf)
}

// Read loads a snapshot and returns the tree with its point set attached,
// ready for searching.
func Read(ctx context.Context, store blobstore.BlobStore, name string) (*kdtree.Tree, error) {
	data, err := blobstore.ReadAll(ctx, store, name)
	if err != nil {
		return nil, err
	}

	if len(data) < headerSize || string(data[:4]) != magic {
		return nil, fmt.Errorf("snapshot: %s: bad magic", name)
	}
	if v := binary.LittleEndian.Uint32(data[4:]); v != version {
		return nil, fmt.Errorf("snapshot: %s: unsupported version %d", name, v)
	}

	compression := CompressionType(data[compressOff])
	dim := int(binary.LittleEndian.Uint32(data[dimOff:]))
	count := int(binary.LittleEndian.Uint32(data[countOff:]))

	treeData, n, err := decompressSection(data[headerSize:], compression)
	if err != nil {
		return nil, fmt.Errorf("snapshot: %s: tree section: %w", name, err)
	}

	pointData, _, err := decompressSection(data[headerSize+n:], compression)
	if err != nil {
		return nil, fmt.Errorf("snapshot: %s: points section: %w", name, err)
	}
	if len(pointData) != 4*dim*count {
		return nil, fmt.Errorf("snapshot: %s: points section has %d bytes, want %d", name, len(pointData), 4*dim*count)
	}

	points, err := pointset.FromFlat(unflattenPoints(pointData), dim)
	if err != nil {
		return nil, fmt.Errorf("snapshot: %s: %w", name, err)
	}

	tree := &kdtree.Tree{}
	if err := tree.GobDecode(treeData); err != nil {
		return nil, fmt.Errorf("snapshot: %s: decode tree: %w", name, err)
	}
	if err := tree.AttachPoints(points); err != nil {
		return nil, fmt.Errorf("snapshot: %s: %w", name, err)
	}
	return tree, nil
}

func flattenPoints(points pointset.Store) []byte {
	dim, count := points.Dimension(), points.Len()
	buf := make([]byte, 0, 4*dim*count)

	var scratch [4]byte
	for id := uint32(0); int(id) < count; id++ {
		for _, c := range points.Vector(id) {
			binary.LittleEndian.PutUint32(scratch[:], math.Float32bits(c))
			buf = append(buf, scratch[:]...)
		}
	}
	return buf
}

func unflattenPoints(buf []byte) []float32 {
	out := make([]float32, len(buf)/4)
	for i := range out {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(buf[4*i:]))
	}
	return out
}
