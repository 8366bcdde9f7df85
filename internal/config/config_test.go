package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 30.0, cfg.FPS)
	assert.Equal(t, 100, cfg.DPI)
	assert.Equal(t, "./movie.gif", cfg.OutPath)
	assert.Equal(t, "mpeg4", cfg.Codec)
	assert.Greater(t, cfg.Workers, 0)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("MAPMOVIE_FPS", "12.5")
	t.Setenv("MAPMOVIE_DPI", "72")
	t.Setenv("MAPMOVIE_OUT", "out/aia.mp4")
	t.Setenv("MAPMOVIE_STATS", "true")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 12.5, cfg.FPS)
	assert.Equal(t, 72, cfg.DPI)
	assert.Equal(t, "out/aia.mp4", cfg.OutPath)
	assert.True(t, cfg.ShowStats)
}

func TestLoadFromDotEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	require.NoError(t, os.WriteFile(".env", []byte("MAPMOVIE_VERBOSE=true\nMAPMOVIE_CODEC=libx264\n"), 0644))
	t.Cleanup(func() {
		os.Unsetenv("MAPMOVIE_VERBOSE")
		os.Unsetenv("MAPMOVIE_CODEC")
	})

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.Verbose)
	assert.Equal(t, "libx264", cfg.Codec)
}

func TestLoadInvalid(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("MAPMOVIE_DPI", "0")
	_, err := Load()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	t.Chdir(t.TempDir())
	cfg, err := Load()
	require.NoError(t, err)
	assert.NoError(t, cfg.Validate())

	bad := cfg
	bad.FPS = 0
	assert.Error(t, bad.Validate())

	bad = cfg
	bad.DPI = -1
	assert.Error(t, bad.Validate())

	bad = cfg
	bad.OutPath = ""
	assert.Error(t, bad.Validate())
}
