package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 300, cfg.Rasterizer.DPI)
	assert.Equal(t, []string{"eng"}, cfg.OCR.Languages)
	assert.Equal(t, 1500, cfg.Pipeline.MinImageWidth)
	assert.True(t, cfg.Debug.Enabled)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rollscan.yaml")
	data := []byte("rasterizer:\n  dpi: 400\npipeline:\n  workers: 2\n")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 400, cfg.Rasterizer.DPI)
	assert.Equal(t, 2, cfg.Pipeline.Workers)
	// Untouched sections keep defaults.
	assert.Equal(t, "ocr_debug_output", cfg.Debug.Dir)
}

func TestLoad_EnvWinsOverFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rollscan.yaml")
	require.NoError(t, os.WriteFile(path, []byte("rasterizer:\n  dpi: 400\n"), 0o644))

	t.Setenv("ROLLSCAN_DPI", "600")
	t.Setenv("ROLLSCAN_LANGUAGES", "eng,hin")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 600, cfg.Rasterizer.DPI)
	assert.Equal(t, []string{"eng", "hin"}, cfg.OCR.Languages)
}

func TestLoad_RejectsBadDPI(t *testing.T) {
	t.Setenv("ROLLSCAN_DPI", "10")
	_, err := Load("")
	assert.Error(t, err)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("/nonexistent/rollscan.yaml")
	assert.Error(t, err)
}

func TestValidate_DebugDirRequired(t *testing.T) {
	cfg := Default()
	cfg.Debug.Enabled = true
	cfg.Debug.Dir = "  "
	assert.Error(t, cfg.Validate())
}
