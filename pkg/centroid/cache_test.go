package centroid

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiskCache_RoundTrip(t *testing.T) {
	c, err := NewDiskCache(t.TempDir(), "sentence-transformers/paraphrase-multilingual-mpnet-base-v2")
	require.NoError(t, err)

	vec := []float32{0.1, -0.25, 1.0 / 3.0, 0, 0.999999}
	require.NoError(t, c.Put(9, vec))

	got, ok := c.Get(9)
	require.True(t, ok)
	assert.Equal(t, vec, got, "round trip must be exact")
}

func TestDiskCache_MissOnAbsent(t *testing.T) {
	c, err := NewDiskCache(t.TempDir(), "model")
	require.NoError(t, err)

	_, ok := c.Get(42)
	assert.False(t, ok)
}

func TestDiskCache_CorruptFileIsMiss(t *testing.T) {
	dir := t.TempDir()
	c, err := NewDiskCache(dir, "model")
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(c.path(7), []byte("{corrupt"), 0o644))

	_, ok := c.Get(7)
	assert.False(t, ok)

	// A rewrite recovers the entry.
	require.NoError(t, c.Put(7, []float32{1, 2}))
	got, ok := c.Get(7)
	require.True(t, ok)
	assert.Equal(t, []float32{1, 2}, got)
}

func TestDiskCache_KeyedByModelAndVersion(t *testing.T) {
	dir := t.TempDir()

	a, err := NewDiskCache(dir, "model-a")
	require.NoError(t, err)
	b, err := NewDiskCache(dir, "model-b")
	require.NoError(t, err)

	require.NoError(t, a.Put(1, []float32{1}))

	_, ok := b.Get(1)
	assert.False(t, ok, "different model name must not share entries")

	name := filepath.Base(a.path(1))
	assert.Contains(t, name, "model-a")
	assert.Contains(t, name, cacheVersion)
}

func TestSanitizeModelName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"sentence-transformers/paraphrase-multilingual-mpnet-base-v2", "paraphrase-multilingual-mpnet-base-v2"},
		{"my model v1.2:latest", "my_model_v1-2-latest"},
		{"plain", "plain"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, sanitizeModelName(tt.in))
	}
}
