package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	return dir
}

func TestLoadDefaults(t *testing.T) {
	chdirTemp(t)
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("API_BASE_URL", "http://localhost:5000/api")
	t.Setenv("SECRET_KEY", "s3cret")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.ServerAddress)
	assert.Equal(t, LikesFile, cfg.LikesBackend)
	assert.Equal(t, 15*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 30*time.Minute, cfg.CatalogTTL)
	assert.False(t, cfg.Development())
}

func TestLoadRequired(t *testing.T) {
	chdirTemp(t)
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("API_BASE_URL", "")
	t.Setenv("SECRET_KEY", "x")

	_, err := Load()
	assert.ErrorContains(t, err, "API_BASE_URL")
}

func TestLoadFileThenEnv(t *testing.T) {
	dir := chdirTemp(t)
	path := filepath.Join(dir, "tilawat.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
environment = "development"
api_base_url = "http://file/api"
secret_key = "from-file"
likes_backend = "sqlite"
database_url = "likes.db"
request_timeout = "5s"
catalog_ttl = "1m"
`), 0o644))

	t.Setenv("CONFIG_FILE", path)
	t.Setenv("API_BASE_URL", "")
	t.Setenv("SECRET_KEY", "")
	os.Unsetenv("API_BASE_URL")
	os.Unsetenv("SECRET_KEY")
	t.Setenv("SERVER_ADDRESS", ":9090")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "http://file/api", cfg.APIBaseURL)
	assert.Equal(t, "from-file", cfg.SecretKey)
	assert.Equal(t, ":9090", cfg.ServerAddress)
	assert.Equal(t, LikesSQLite, cfg.LikesBackend)
	assert.Equal(t, 5*time.Second, cfg.RequestTimeout)
	assert.Equal(t, time.Minute, cfg.CatalogTTL)
	assert.True(t, cfg.Development())
}

func TestLoadDotEnv(t *testing.T) {
	dir := chdirTemp(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("LIKES_BACKEND=redis\nREDIS_ADDRESS=localhost:6379\n"), 0o644))
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("API_BASE_URL", "http://x")
	t.Setenv("SECRET_KEY", "k")
	t.Setenv("LIKES_BACKEND", "")
	os.Unsetenv("LIKES_BACKEND")
	t.Setenv("REDIS_ADDRESS", "")
	os.Unsetenv("REDIS_ADDRESS")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, LikesRedis, cfg.LikesBackend)
	assert.Equal(t, "localhost:6379", cfg.RedisAddress)
}

func TestValidateBackend(t *testing.T) {
	cfg := defaults()
	cfg.APIBaseURL = "http://x"
	cfg.SecretKey = "k"
	cfg.LikesBackend = "mongo"
	assert.ErrorContains(t, cfg.Validate(), "unknown likes backend")

	cfg.LikesBackend = LikesPostgres
	assert.ErrorContains(t, cfg.Validate(), "DATABASE_URL")
}
