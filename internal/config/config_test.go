package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, 1000, cfg.Chunking.Size)
	assert.Equal(t, 150, cfg.Chunking.Overlap)
	assert.Equal(t, 5, cfg.Search.TopK)
	assert.Equal(t, 240, cfg.Search.SnippetLength)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default().Chunking, cfg.Chunking)
}

func TestLoad_ExplicitMissingFileFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_FileAndEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "docdex.yaml")
	content := `
data_dir: /tmp/docdex-test
chunking:
  size: 500
  overlap: 50
provider:
  model: openai/text-embedding-3-large
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	t.Setenv("GITHUB_MODELS_TOKEN", "env-token")
	t.Setenv("DOCDEX_EMBED_MODEL", "openai/text-embedding-ada-002")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/docdex-test", cfg.DataDir)
	assert.Equal(t, 500, cfg.Chunking.Size)
	// Env wins over the file.
	assert.Equal(t, "env-token", cfg.Provider.Token)
	assert.Equal(t, "openai/text-embedding-ada-002", cfg.Provider.Model)
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "docdex.yaml")
	require.NoError(t, os.WriteFile(path, []byte("chunking: ["), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidate_RejectsBadValues(t *testing.T) {
	cfg := Default()
	cfg.Chunking.Size = 0
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Chunking.Overlap = -1
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Provider.Timeout = "soon"
	assert.Error(t, cfg.Validate())
}

func TestProviderTimeout_Clamped(t *testing.T) {
	cfg := Default()

	cfg.Provider.Timeout = "5s"
	assert.Equal(t, MinProviderTimeout, cfg.ProviderTimeout())

	cfg.Provider.Timeout = "5m"
	assert.Equal(t, MaxProviderTimeout, cfg.ProviderTimeout())

	cfg.Provider.Timeout = "45s"
	assert.Equal(t, 45*time.Second, cfg.ProviderTimeout())
}

func TestPaths(t *testing.T) {
	cfg := Default()
	cfg.DataDir = "/data"

	assert.Equal(t, filepath.Join("/data", "docdex.db"), cfg.MetadataPath())
	assert.Equal(t, filepath.Join("/data", "indexes"), cfg.IndexRoot())
	assert.Equal(t, filepath.Join("/data", "uploads"), cfg.UploadRoot())
}
