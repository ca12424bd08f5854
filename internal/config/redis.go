package config

import (
    "context"
    "crypto/tls"
    "log"
    "time"

    "github.com/redis/go-redis/v9"
)

// RedisConfig locates the Redis server behind the page cache, the rate
// limiter, the checkout session store and the submit lock.
type RedisConfig struct {
    Enabled     bool
    URL         string // redis:// or rediss:// URL; wins over Addr when set
    Addr        string
    Password    string
    DB          int
    TLS         bool
    PingTimeout time.Duration
}

// LoadRedisConfig reads REDIS_URL, or REDIS_HOST/REDIS_PORT (REDIS_ADDR as
// shorthand), REDIS_PASSWORD, REDIS_DB and REDIS_TLS.  REDIS_ENABLED=false
// runs the storefront on in-process stores only.
func LoadRedisConfig() RedisConfig {
    addr := envStr("REDIS_ADDR", "localhost:6379")
    if host, port := envStr("REDIS_HOST", ""), envStr("REDIS_PORT", ""); host != "" && port != "" {
        addr = host + ":" + port
    }
    return RedisConfig{
        Enabled:     envBool("REDIS_ENABLED", true),
        URL:         envStr("REDIS_URL", ""),
        Addr:        addr,
        Password:    envStr("REDIS_PASSWORD", ""),
        DB:          envInt("REDIS_DB", 0),
        TLS:         envBool("REDIS_TLS", false),
        PingTimeout: envDur("REDIS_PING_TIMEOUT", 2*time.Second),
    }
}

// Options builds the go-redis options.
func (c RedisConfig) Options() (*redis.Options, error) {
    if c.URL != "" {
        return redis.ParseURL(c.URL)
    }
    opt := &redis.Options{Addr: c.Addr, Password: c.Password, DB: c.DB}
    if c.TLS {
        opt.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
    }
    return opt, nil
}

// NewRedisClient connects and pings.  It returns nil when Redis is
// disabled, misconfigured or unreachable; callers then fall back to the
// in-process session store and lock, and skip caching and rate limiting.
func NewRedisClient(cfg RedisConfig) *redis.Client {
    if !cfg.Enabled {
        log.Printf("redis: disabled; using in-process stores")
        return nil
    }
    opt, err := cfg.Options()
    if err != nil {
        log.Printf("redis: bad REDIS_URL: %v; using in-process stores", err)
        return nil
    }
    client := redis.NewClient(opt)
    ctx, cancel := context.WithTimeout(context.Background(), cfg.PingTimeout)
    defer cancel()
    if err := client.Ping(ctx).Err(); err != nil {
        log.Printf("redis: ping %s failed: %v; using in-process stores", opt.Addr, err)
        _ = client.Close()
        return nil
    }
    return client
}
