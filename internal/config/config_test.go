package config

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Setenv("APP_ENV", "dev")
	t.Setenv("APP_PORT", "8080")
	t.Setenv("API_BASE_URL", "http://api.local")
	t.Setenv("SESSION_SECRET", "s3cret")
	t.Setenv("API_TIMEOUT", "3s")
	t.Setenv("SESSION_STORE", "memory")

	cfg := Load()
	assert.Equal(t, "http://api.local", cfg.APIBaseURL)
	assert.Equal(t, 3*time.Second, cfg.APITimeout)
	assert.Equal(t, "sf_session", cfg.SessionCookie)
	assert.Equal(t, 2*time.Hour, cfg.SessionTTL)
	assert.Equal(t, "memory", cfg.SessionStore)
	assert.Equal(t, 30*time.Second, cfg.SubmitLockTTL)
	assert.False(t, cfg.IsProd())
}

func TestLoadRateLimitConfig(t *testing.T) {
	cfg := LoadRateLimitConfig()
	assert.True(t, cfg.Enabled)
	assert.Equal(t, 10, cfg.Capacity)
	assert.Equal(t, 6*time.Second, cfg.RefillInterval)

	t.Setenv("RATE_LIMIT_BURST", "3")
	t.Setenv("RATE_LIMIT_REFILL_EVERY", "1m")
	t.Setenv("RATE_LIMIT_TTL", "1s")
	t.Setenv("RATE_LIMIT_ENABLED", "off")
	cfg = LoadRateLimitConfig()
	assert.False(t, cfg.Enabled)
	assert.Equal(t, 3, cfg.Capacity)
	assert.Equal(t, 1, cfg.RefillTokens)
	assert.Equal(t, time.Minute, cfg.RefillInterval)
	assert.Equal(t, 5*time.Minute, cfg.TTL)
}

func TestLoadCacheConfig(t *testing.T) {
	t.Setenv("CACHE_METHODS", "get, head,")
	t.Setenv("CACHE_TTL", "bogus")
	cfg := LoadCacheConfig()
	assert.Equal(t, map[string]bool{"GET": true, "HEAD": true}, cfg.Methods)
	assert.Equal(t, 15*time.Second, cfg.TTL)
	assert.Equal(t, 1048576, cfg.MaxBodyBytes)
}

func TestLoadQueueConfig(t *testing.T) {
	t.Setenv("RABBITMQ_URL", "")
	t.Setenv("QUEUE_ENABLED", "")
	t.Setenv("AMQP_URL", "amqp://u:p@broker:5672/")
	cfg := LoadQueueConfig()
	assert.Equal(t, "amqp://u:p@broker:5672/", cfg.URL)
	assert.False(t, cfg.Enabled)

	t.Setenv("RABBITMQ_URL", "amqp://other/")
	assert.Equal(t, "amqp://other/", LoadQueueConfig().URL)
}

func TestLoadRateLimitConfig_UnknownStrategy(t *testing.T) {
	t.Setenv("RATE_LIMIT_KEY_STRATEGY", "User")
	assert.Equal(t, KeyIPSessionRoute, LoadRateLimitConfig().KeyStrategy)

	t.Setenv("RATE_LIMIT_KEY_STRATEGY", "Session_Route")
	assert.Equal(t, KeySessionRoute, LoadRateLimitConfig().KeyStrategy)
}

func TestLoadRedisConfig(t *testing.T) {
	t.Setenv("REDIS_ADDR", "")
	t.Setenv("REDIS_HOST", "cache")
	t.Setenv("REDIS_PORT", "6380")
	t.Setenv("REDIS_DB", "2")
	t.Setenv("REDIS_TLS", "true")
	cfg := LoadRedisConfig()
	assert.True(t, cfg.Enabled)
	assert.Equal(t, "cache:6380", cfg.Addr)

	opt, err := cfg.Options()
	require.NoError(t, err)
	assert.Equal(t, "cache:6380", opt.Addr)
	assert.Equal(t, 2, opt.DB)
	assert.NotNil(t, opt.TLSConfig)

	cfg.URL = "redis://:pw@other:6379/4"
	opt, err = cfg.Options()
	require.NoError(t, err)
	assert.Equal(t, "other:6379", opt.Addr)
	assert.Equal(t, "pw", opt.Password)
	assert.Equal(t, 4, opt.DB)

	cfg.URL = "http://nope"
	_, err = cfg.Options()
	assert.Error(t, err)
}

func TestNewRedisClient(t *testing.T) {
	assert.Nil(t, NewRedisClient(RedisConfig{Enabled: false}))

	mr := miniredis.RunT(t)
	client := NewRedisClient(RedisConfig{Enabled: true, Addr: mr.Addr(), PingTimeout: time.Second})
	require.NotNil(t, client)
	_ = client.Close()

	addr := mr.Addr()
	mr.Close()
	assert.Nil(t, NewRedisClient(RedisConfig{Enabled: true, Addr: addr, PingTimeout: 200 * time.Millisecond}))
}
