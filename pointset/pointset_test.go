package pointset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromVectors(t *testing.T) {
	f, err := FromVectors([][]float32{{1, 2}, {3, 4}, {5, 6}})
	require.NoError(t, err)

	assert.Equal(t, 3, f.Len())
	assert.Equal(t, 2, f.Dimension())
	assert.Equal(t, []float32{3, 4}, f.Vector(1))
	assert.Equal(t, []float32{1, 2, 3, 4, 5, 6}, f.Data())
}

func TestFromVectorsErrors(t *testing.T) {
	_, err := FromVectors(nil)
	assert.Error(t, err)

	_, err = FromVectors([][]float32{{}})
	assert.Error(t, err)

	_, err = FromVectors([][]float32{{1, 2}, {3}})
	assert.Error(t, err)
}

func TestFromFlat(t *testing.T) {
	f, err := FromFlat([]float32{1, 2, 3, 4, 5, 6}, 3)
	require.NoError(t, err)

	assert.Equal(t, 2, f.Len())
	assert.Equal(t, []float32{4, 5, 6}, f.Vector(1))

	_, err = FromFlat([]float32{1, 2, 3}, 2)
	assert.Error(t, err, "length not a multiple of dimension")

	_, err = FromFlat(nil, 2)
	assert.Error(t, err)

	_, err = FromFlat([]float32{1}, 0)
	assert.Error(t, err)
}
