package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), FileName))
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)
}

func TestLoadNormalizesValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	data := "tools: [Cursor, claude, cursor, ' ']\nvalidation:\n  concurrency: 0\narchive:\n  skip_specs: true\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, CurrentVersion, cfg.Version)
	require.Equal(t, []string{"claude", "cursor"}, cfg.Tools)
	require.Equal(t, DefaultConcurrency, cfg.Validation.Concurrency)
	require.True(t, cfg.Archive.SkipSpecs)
}

func TestLoadRejectsBadValues(t *testing.T) {
	dir := t.TempDir()
	cases := map[string]string{
		"version.yaml":     "version: 9\n",
		"concurrency.yaml": "validation:\n  concurrency: 500\n",
		"syntax.yaml":      "tools: [unclosed\n",
	}
	for name, data := range cases {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(data), 0644))
		_, err := Load(path)
		require.Error(t, err, name)
	}
}

func TestMarshalRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Tools = []string{"windsurf", "claude"}
	cfg.Validation.Concurrency = 8

	data, err := cfg.Marshal()
	require.NoError(t, err)
	require.Contains(t, string(data), "# openspec project configuration\n")

	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, data, 0644))
	loaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, []string{"claude", "windsurf"}, loaded.Tools)
	require.Equal(t, 8, loaded.Validation.Concurrency)
}
