package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithEnv(t *testing.T) {
	t.Setenv("PORTFOLIO_ROOT", "/srv/site")
	t.Setenv("PORTFOLIO_PORT", "9000")
	t.Setenv("PORTFOLIO_ENVIRONMENT", "production")
	t.Setenv("PORTFOLIO_GIT_BRANCH", "gh-pages")
	t.Setenv("PORTFOLIO_SERVE_STATIC", "false")
	t.Setenv("PORTFOLIO_ASSET_STORAGE_URL", "s3://assets")
	t.Setenv("PORTFOLIO_S3_REGION", "eu-central-1")
	t.Setenv("PORTFOLIO_CORS_ORIGINS", "http://localhost:5173,https://admin.example")

	cfg, err := Load(WithEnv())
	require.NoError(t, err)

	assert.Equal(t, "/srv/site", cfg.Root)
	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, "gh-pages", cfg.Git.Branch)
	assert.Equal(t, "origin", cfg.Git.Remote)
	assert.False(t, cfg.ServeStatic)
	assert.Equal(t, "eu-central-1", cfg.S3.Region)
	assert.Equal(t, []string{"http://localhost:5173", "https://admin.example"}, cfg.CORSOrigins)

	backend, err := cfg.assetStorage()
	require.NoError(t, err)
	assert.Equal(t, "assets", backend.s3.Bucket)
	assert.Equal(t, "eu-central-1", backend.s3.Region)
}

func TestWithEnvKeepsEarlierOptions(t *testing.T) {
	cfg, err := Load(WithPort("9999"), WithEnv())
	require.NoError(t, err)
	assert.Equal(t, "9999", cfg.Port)

	t.Setenv("PORTFOLIO_PORT", "8000")
	cfg, err = Load(WithPort("9999"), WithEnv())
	require.NoError(t, err)
	assert.Equal(t, "8000", cfg.Port)
}

func TestWithEnvInvalid(t *testing.T) {
	t.Setenv("PORTFOLIO_SERVE_STATIC", "sometimes")
	_, err := Load(WithEnv())
	assert.Error(t, err)
}

func TestWithFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "portfolio.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
root: /home/me/site
port: "8800"
data_dir: content
git:
  remote: upstream
  branch: main
s3:
  region: ap-south-1
`), 0644))

	cfg, err := Load(WithFile(path))
	require.NoError(t, err)
	assert.Equal(t, "/home/me/site", cfg.Root)
	assert.Equal(t, "8800", cfg.Port)
	assert.Equal(t, "content", cfg.DataDir)
	assert.Equal(t, "images", cfg.ImagesDir)
	assert.Equal(t, "upstream", cfg.Git.Remote)
	assert.Equal(t, "ap-south-1", cfg.S3.Region)
}

func TestWithFileMissing(t *testing.T) {
	_, err := Load(WithFile(filepath.Join(t.TempDir(), "missing.yaml")))
	assert.Error(t, err)
}

func TestUsage(t *testing.T) {
	usage, err := Usage()
	require.NoError(t, err)
	assert.Contains(t, usage, "PORTFOLIO_ROOT")
	assert.Contains(t, usage, "PORTFOLIO_GIT_REMOTE")
}
