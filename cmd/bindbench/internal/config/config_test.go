package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/delaneyj/bindparty/cmd/bindbench/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// should fall back to defaults when the file is missing
func TestLoadOptionalMissing(t *testing.T) {
	cfg, err := config.LoadOptional(filepath.Join(t.TempDir(), config.DefaultFile))
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

// should merge file values over defaults
func TestLoadOptionalMerge(t *testing.T) {
	path := filepath.Join(t.TempDir(), config.DefaultFile)
	require.NoError(t, os.WriteFile(path, []byte(`
iterations: 500
format: markdown
timeout: 2s
scenarios: [immediate, cross-queue]
`), 0o644))

	cfg, err := config.LoadOptional(path)
	require.NoError(t, err)
	assert.Equal(t, 500, cfg.Iterations)
	assert.Equal(t, "markdown", cfg.Format)
	assert.Equal(t, 2*time.Second, cfg.Timeout)
	assert.Equal(t, []string{"immediate", "cross-queue"}, cfg.Scenarios)
}

// should reject invalid values
func TestLoadOptionalInvalid(t *testing.T) {
	dir := t.TempDir()

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("format: csv\n"), 0o644))
	_, err := config.LoadOptional(bad)
	assert.ErrorContains(t, err, "unknown format")

	broken := filepath.Join(dir, "broken.yaml")
	require.NoError(t, os.WriteFile(broken, []byte("iterations: [\n"), 0o644))
	_, err = config.LoadOptional(broken)
	assert.ErrorContains(t, err, "failed to parse")
}
