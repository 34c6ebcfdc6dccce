package kdtree

import (
	"bytes"
	"encoding/gob"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/kdann/pointset"
	"github.com/hupe1980/kdann/testutil"
)

func TestGobRoundTrip(t *testing.T) {
	rng := testutil.NewRNG(77)
	vectors := rng.UniformVectors(400, 5)
	tree := buildFromVectors(t, vectors, func(o *BuildOptions) {
		o.BucketSize = 8
	})

	var buf bytes.Buffer
	require.NoError(t, gob.NewEncoder(&buf).Encode(tree))

	var decoded Tree
	require.NoError(t, gob.NewDecoder(&buf).Decode(&decoded))

	assert.Equal(t, tree.Len(), decoded.Len())
	assert.Equal(t, tree.Dimension(), decoded.Dimension())
	assert.Nil(t, decoded.Points(), "point set is not part of the encoding")

	points, err := pointset.FromVectors(vectors)
	require.NoError(t, err)
	require.NoError(t, decoded.AttachPoints(points))

	// The reconstructed structure must answer queries identically.
	for trial := 0; trial < 10; trial++ {
		q := rng.UniformVector(5)

		want, err := tree.PrioritySearch(q, 7)
		require.NoError(t, err)
		got, err := decoded.PrioritySearch(q, 7)
		require.NoError(t, err)

		assert.Equal(t, want, got)
	}
}

func TestAttachPointsValidates(t *testing.T) {
	tree := buildFromVectors(t, [][]float32{{0, 0}, {1, 1}, {2, 2}})

	var decoded Tree
	data, err := tree.GobEncode()
	require.NoError(t, err)
	require.NoError(t, decoded.GobDecode(data))

	wrongDim, err := pointset.FromVectors([][]float32{{0}, {1}, {2}})
	require.NoError(t, err)
	assert.Error(t, decoded.AttachPoints(wrongDim))

	wrongLen, err := pointset.FromVectors([][]float32{{0, 0}, {1, 1}})
	require.NoError(t, err)
	assert.Error(t, decoded.AttachPoints(wrongLen))
}

func TestGobDecodeTruncated(t *testing.T) {
	var tree Tree
	assert.Error(t, tree.GobDecode([]byte("not a gob stream")))
}
