package snapshot

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/kdann/blobstore"
	"github.com/hupe1980/kdann/kdtree"
	"github.com/hupe1980/kdann/pointset"
	"github.com/hupe1980/kdann/testutil"
)

func buildTree(t *testing.T, num, dim int) (*kdtree.Tree, *testutil.RNG) {
	t.Helper()

	rng := testutil.NewRNG(int64(num*31 + dim))
	points, err := pointset.FromVectors(rng.UniformVectors(num, dim))
	require.NoError(t, err)

	tree, err := kdtree.Build(points)
	require.NoError(t, err)
	return tree, rng
}

func TestSnapshotRoundTrip(t *testing.T) {
	compressions := []CompressionType{CompressionNone, CompressionLZ4, CompressionZSTD}

	for _, compression := range compressions {
		t.Run(compression.String(), func(t *testing.T) {
			ctx := context.Background()
			tree, rng := buildTree(t, 500, 6)
			store := blobstore.NewMemoryStore()

			require.NoError(t, Write(ctx, store, "index.snap", tree, func(o *Options) {
				o.Compression = compression
			}))

			loaded, err := Read(ctx, store, "index.snap")
			require.NoError(t, err)

			assert.Equal(t, tree.Len(), loaded.Len())
			assert.Equal(t, tree.Dimension(), loaded.Dimension())

			for trial := 0; trial < 10; trial++ {
				q := rng.UniformVector(6)

				want, err := tree.PrioritySearch(q, 5)
				require.NoError(t, err)
				got, err := loaded.PrioritySearch(q, 5)
				require.NoError(t, err)

				assert.Equal(t, want, got)
			}
		})
	}
}

func TestSnapshotReadErrors(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()

	_, err := Read(ctx, store, "missing")
	assert.ErrorIs(t, err, blobstore.ErrNotFound)

	require.NoError(t, store.Put(ctx, "garbage", []byte("definitely not a snapshot")))
	_, err = Read(ctx, store, "garbage")
	assert.Error(t, err)

	// Valid snapshot truncated mid-section.
	tree, _ := buildTree(t, 100, 3)
	require.NoError(t, Write(ctx, store, "ok", tree))
	data, err := blobstore.ReadAll(ctx, store, "ok")
	require.NoError(t, err)
	require.NoError(t, store.Put(ctx, "truncated", data[:len(data)/2]))

	_, err = Read(ctx, store, "truncated")
	assert.Error(t, err)
}

func TestSnapshotWriteRequiresPoints(t *testing.T) {
	tree, _ := buildTree(t, 50, 2)

	data, err := tree.GobEncode()
	require.NoError(t, err)
	var detached kdtree.Tree
	require.NoError(t, detached.GobDecode(data))

	err = Write(context.Background(), blobstore.NewMemoryStore(), "x", &detached)
	assert.ErrorIs(t, err, kdtree.ErrNoPoints)
}

func TestParseCompressionType(t *testing.T) {
	tests := []struct {
		in      string
		want    CompressionType
		wantErr bool
	}{
		{"none", CompressionNone, false},
		{"", CompressionNone, false},
		{"lz4", CompressionLZ4, false},
		{"zstd", CompressionZSTD, false},
		{"gzip", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseCompressionType(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	assert.Equal(t, "lz4", CompressionLZ4.String())
	assert.Equal(t, "unknown", CompressionType(99).String())
}

func TestCompressSectionFallback(t *testing.T) {
	// Incompressible input must be stored raw and still round-trip.
	data := make([]byte, 256)
	for i := range data {
		data[i] = byte(i*7 + 13)
	}

	for _, compression := range []CompressionType{CompressionLZ4, CompressionZSTD} {
		section, err := compressSection(data, compression)
		require.NoError(t, err)

		got, n, err := decompressSection(section, compression)
		require.NoError(t, err)
		assert.Equal(t, len(section), n)
		assert.Equal(t, data, got)
	}
}
