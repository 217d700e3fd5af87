package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("TMDB_API_KEY", "tmdb-key")
	t.Setenv("ANTHROPIC_API_KEY", "")
	t.Setenv("SESSION_STORE", "")
	t.Setenv("REDIS_ADDR", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "tmdb-key", cfg.TMDB.APIKey)
	assert.Equal(t, "https://api.themoviedb.org/3", cfg.TMDB.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.TMDB.Timeout)
	assert.Empty(t, cfg.TextGen.APIKey)
	assert.Equal(t, SessionStoreMemory, cfg.Session.Store)
	assert.Equal(t, 168*time.Hour, cfg.Session.IdleTimeout)
	assert.False(t, cfg.Redis.Enabled())
	assert.Equal(t, "5000", cfg.Port)
	assert.Equal(t, 100, cfg.RateLimit.Max)
}

func TestLoadRequiresTMDBKey(t *testing.T) {
	t.Setenv("TMDB_API_KEY", "")

	_, err := Load()
	assert.EqualError(t, err, "TMDB_API_KEY is required")
}

func TestLoadSessionStore(t *testing.T) {
	t.Setenv("TMDB_API_KEY", "k")

	t.Run("redis without address", func(t *testing.T) {
		t.Setenv("SESSION_STORE", "redis")
		t.Setenv("REDIS_ADDR", "")
		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("redis with address", func(t *testing.T) {
		t.Setenv("SESSION_STORE", "Redis")
		t.Setenv("REDIS_ADDR", "127.0.0.1:6379")
		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, SessionStoreRedis, cfg.Session.Store)
	})

	t.Run("unknown", func(t *testing.T) {
		t.Setenv("SESSION_STORE", "etcd")
		_, err := Load()
		assert.EqualError(t, err, `unknown SESSION_STORE "etcd"`)
	})
}

func TestDSN(t *testing.T) {
	d := DBConfig{Host: "db", Port: 5432, User: "u", Password: "p", DBName: "movies", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=movies sslmode=disable", d.DSN())

	d.SSLRootCert = "/ca.pem"
	assert.Contains(t, d.DSN(), " sslrootcert=/ca.pem")
}
