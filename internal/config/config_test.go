package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadParsesBlobSection(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "node.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
log: info
blob:
  data: /var/lib/blobnode/data
  history: /var/lib/blobnode/history
  data_block_size: "512"
  compression: "true"
`), 0644))

	f, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "info", f.Log)
	require.Equal(t, "/var/lib/blobnode/data", f.Blob["data"])
	require.Equal(t, "true", f.Blob["compression"])
}

func TestLoadMissingBlobSectionYieldsEmptyMap(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "node.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log: debug\n"), 0644))

	f, err := Load(path)
	require.NoError(t, err)
	require.NotNil(t, f.Blob)
	require.Empty(t, f.Blob)
}

func TestLoadFailsOnMissingFile(t *testing.T) {
	_, err := Load("/nonexistent/path/node.yaml")
	require.Error(t, err)
}
