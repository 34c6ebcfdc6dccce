package pointset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMMapRoundTrip(t *testing.T) {
	src, err := FromVectors([][]float32{
		{1, 2, 3},
		{4, 5, 6},
		{-7.5, 0, 9.25},
	})
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "points.kdpt")
	require.NoError(t, WriteFile(path, src))

	m, err := OpenMMap(path)
	require.NoError(t, err)
	defer m.Close()

	assert.Equal(t, src.Len(), m.Len())
	assert.Equal(t, src.Dimension(), m.Dimension())
	for id := uint32(0); int(id) < src.Len(); id++ {
		assert.Equal(t, src.Vector(id), m.Vector(id))
	}
}

func TestOpenMMapRejectsCorruptFiles(t *testing.T) {
	dir := t.TempDir()

	write := func(name string, data []byte) string {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, data, 0o644))
		return path
	}

	_, err := OpenMMap(write("short", []byte("KD")))
	assert.Error(t, err)

	_, err = OpenMMap(write("magic", make([]byte, 32)))
	assert.Error(t, err)

	// Valid header claiming more points than the file holds.
	src, err := FromVectors([][]float32{{1, 2}, {3, 4}})
	require.NoError(t, err)
	path := filepath.Join(dir, "truncated")
	require.NoError(t, WriteFile(path, src))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data[:len(data)-4], 0o644))

	_, err = OpenMMap(path)
	assert.Error(t, err)
}
