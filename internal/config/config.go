package config // package config loads application configuration from environment variables

import (
    "log"      // log is used to report configuration errors and halt execution
    "os"       // os provides access to environment variables
    "time"     // durations for timeouts and TTLs

    "github.com/joho/godotenv" // godotenv loads a local .env file into the environment
)

// Config holds the runtime configuration of the storefront.  APIBaseURL is
// the only value the checkout core depends on; the rest shapes the HTTP
// server and the session.
type Config struct {
    Env           string        // application environment (e.g. "dev", "prod")
    Port          string        // HTTP port to listen on
    APIBaseURL    string        // base URL of the reservation API
    APITimeout    time.Duration // timeout of each call to the reservation API
    SessionSecret string        // secret used to sign session cookies
    SessionCookie string        // name of the session cookie
    SessionTTL    time.Duration // lifetime of a session and of its stored checkout state
    SessionStore  string        // "redis" or "memory"
    SubmitLockTTL time.Duration // upper bound on how long a payment submission holds its lock
}

// Load reads a .env file when present, then builds a Config from the
// environment.  Required variables are enforced by must() and missing
// values cause the program to exit with a fatal log message.
func Load() Config {
    if err := godotenv.Load(); err != nil {
        log.Printf("config: no .env file loaded: %v", err)
    }
    return Config{
        Env:           must("APP_ENV"),
        Port:          must("APP_PORT"),
        APIBaseURL:    must("API_BASE_URL"),
        APITimeout:    envDur("API_TIMEOUT", 10*time.Second),
        SessionSecret: must("SESSION_SECRET"),
        SessionCookie: envStr("SESSION_COOKIE", "sf_session"),
        SessionTTL:    envDur("SESSION_TTL", 2*time.Hour),
        SessionStore:  envStr("SESSION_STORE", "redis"),
        SubmitLockTTL: envDur("SUBMIT_LOCK_TTL", 30*time.Second),
    }
}

// IsProd reports whether the server runs in production mode.
func (c Config) IsProd() bool { return c.Env == "prod" || c.Env == "production" }

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
    v, ok := os.LookupEnv(key)
    if !ok || v == "" {
        log.Fatalf("missing required env var: %s", key)
    }
    return v
}
