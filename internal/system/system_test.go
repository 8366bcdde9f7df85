package system

import (
	"image"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindLatest(t *testing.T) {
	dir := t.TempDir()
	files := []string{"a.png", "b.PNG", "c.jpg", "notes.txt"}
	for i, name := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte("x"), 0644))
		modTime := time.Now().Add(time.Duration(i) * time.Hour)
		require.NoError(t, os.Chtimes(path, modTime, modTime))
	}

	latest, err := FindLatest(dir, ".png")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "b.PNG"), latest)

	latest, err = FindLatest(dir, ".png", ".jpg")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "c.jpg"), latest)

	_, err = FindLatest(dir, ".pdf")
	assert.Error(t, err)
}

func TestCanvasPool(t *testing.T) {
	pool := NewCanvasPool()
	size := image.Pt(4, 3)

	img := pool.Get(size)
	require.NotNil(t, img)
	assert.Equal(t, image.Rect(0, 0, 4, 3), img.Rect)
	pool.Put(img)
	pool.Put(nil)
	// unknown sizes and shifted canvases are not pooled
	pool.Put(image.NewRGBA(image.Rect(0, 0, 1, 1)))
	pool.Put(image.NewRGBA(image.Rect(1, 1, 5, 4)))

	assert.Equal(t, size, pool.Get(size).Rect.Size())
	assert.Equal(t, image.Pt(2, 2), pool.Get(image.Pt(2, 2)).Rect.Size())

	st := pool.Stats()
	assert.Equal(t, int64(3), st.Gets)
	assert.GreaterOrEqual(t, st.Allocated, int64(2))
	assert.Equal(t, st.Gets-st.Allocated, st.Reused())
}

func TestCurrentProcessStats(t *testing.T) {
	stats, err := CurrentProcessStats()
	require.NoError(t, err)
	assert.Greater(t, stats.RSS, uint64(0))
}
