package handler // declare the package name; contains HTTP handlers

import (
    "context"
    "net/http" // net/http provides status codes and response helpers
    "time"

    "github.com/labstack/echo/v4"      // echo is the web framework used for this project
    "github.com/redis/go-redis/v9"     // optional dependency reported by the health check
)

// HealthHandler reports liveness together with the state of optional
// backing services.  Redis being down never fails the check: the
// storefront degrades to in-memory sessions.
type HealthHandler struct {
    Redis *redis.Client // nil when Redis is not configured
}

// Health returns 200 with {"status":"ok","redis":"up|down|disabled"}.
func (h *HealthHandler) Health(c echo.Context) error {
    redisState := "disabled"
    if h != nil && h.Redis != nil {
        ctx, cancel := context.WithTimeout(c.Request().Context(), time.Second)
        defer cancel()
        redisState = "up"
        if err := h.Redis.Ping(ctx).Err(); err != nil {
            redisState = "down"
        }
    }
    return c.JSON(http.StatusOK, echo.Map{"status": "ok", "redis": redisState})
}
