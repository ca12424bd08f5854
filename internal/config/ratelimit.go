package config

import (
    "log"
    "strings"
    "time"
)

// Rate limit key strategies.  The storefront has no accounts, so the
// visitor is identified by client ip and by the signed session cookie.
const (
    KeyIP             = "ip"
    KeySession        = "session"
    KeyRoute          = "route"
    KeyIPRoute        = "ip_route"
    KeySessionRoute   = "session_route"
    KeyIPSessionRoute = "ip_session_route"
)

var keyStrategies = map[string]bool{
    KeyIP: true, KeySession: true, KeyRoute: true,
    KeyIPRoute: true, KeySessionRoute: true, KeyIPSessionRoute: true,
}

// RateLimitConfig drives the token bucket in front of the two form posts,
// reservation creation and payment.  The defaults allow a burst of ten
// posts and one more every six seconds: enough to fix a mistyped card a
// few times, not enough to guess card numbers.
type RateLimitConfig struct {
    Enabled        bool
    Capacity       int
    RefillTokens   int
    RefillInterval time.Duration
    TTL            time.Duration
    KeyStrategy    string
    Prefix         string
    Debug          bool
}

// LoadRateLimitConfig reads the RATE_LIMIT_* variables.  RATE_LIMIT_BURST
// and RATE_LIMIT_REFILL_EVERY are shorthands that override capacity and
// the refill pace.
func LoadRateLimitConfig() RateLimitConfig {
    cfg := RateLimitConfig{
        Enabled:        envBool("RATE_LIMIT_ENABLED", true),
        Capacity:       envInt("RATE_LIMIT_CAPACITY", 10),
        RefillTokens:   envInt("RATE_LIMIT_REFILL_TOKENS", 1),
        RefillInterval: envDur("RATE_LIMIT_REFILL_INTERVAL", 6*time.Second),
        TTL:            envDur("RATE_LIMIT_TTL", 10*time.Minute),
        KeyStrategy:    strings.ToLower(envStr("RATE_LIMIT_KEY_STRATEGY", KeyIPSessionRoute)),
        Prefix:         envStr("RATE_LIMIT_PREFIX", "sf:rl"),
        Debug:          envBool("RATE_LIMIT_DEBUG", false),
    }
    if burst := envInt("RATE_LIMIT_BURST", 0); burst > 0 {
        cfg.Capacity = burst
    }
    if every := envDur("RATE_LIMIT_REFILL_EVERY", 0); every > 0 {
        cfg.RefillTokens = 1
        cfg.RefillInterval = every
    }
    cfg.normalize()
    return cfg
}

// normalize clamps out-of-range values.  The bucket must outlive a full
// refill cycle or an idle visitor would get a fresh burst early.
func (c *RateLimitConfig) normalize() {
    c.Capacity = max(c.Capacity, 1)
    c.RefillTokens = max(c.RefillTokens, 1)
    if c.RefillInterval <= 0 {
        c.RefillInterval = time.Second
    }
    c.TTL = max(c.TTL, 5*c.RefillInterval)
    if !keyStrategies[c.KeyStrategy] {
        log.Printf("config: unknown RATE_LIMIT_KEY_STRATEGY %q, using %s", c.KeyStrategy, KeyIPSessionRoute)
        c.KeyStrategy = KeyIPSessionRoute
    }
}
