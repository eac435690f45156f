package configutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

type testConfig struct {
	Concurrency int     `json:"concurrency"`
	TimeoutS    float64 `json:"timeout_s"`
}

func TestReadConfigLocalOverride(t *testing.T) {
	dir := t.TempDir()
	base := filepath.Join(dir, "scanner.json5")

	err := os.WriteFile(base, []byte(`{concurrency: 6, timeout_s: 15}`), 0600)
	require.NoError(t, err)

	cfg, err := ReadConfig[testConfig](base)
	require.NoError(t, err)
	require.Equal(t, testConfig{Concurrency: 6, TimeoutS: 15}, cfg)

	err = os.WriteFile(filepath.Join(dir, "scanner.local.json5"), []byte(`{concurrency: 2}`), 0600)
	require.NoError(t, err)

	cfg, err = ReadConfig[testConfig](base)
	require.NoError(t, err)
	require.Equal(t, testConfig{Concurrency: 2, TimeoutS: 15}, cfg)
}

func TestReadConfigMissing(t *testing.T) {
	_, err := ReadConfig[testConfig](filepath.Join(t.TempDir(), "nope.json5"))
	require.ErrorIs(t, err, os.ErrNotExist)
}
