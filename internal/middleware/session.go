package middleware // declare the middleware package; contains reusable HTTP middleware functions

import (
    "net/http"
    "time"

    "github.com/google/uuid"      // session ids
    "github.com/labstack/echo/v4" // Echo framework used for defining middleware and handlers

    "github.com/iliyamo/reservas-express/internal/utils"
)

// sessionKey is the echo context key holding the current session id.
const sessionKey = "session_id"

// SessionConfig configures the Session middleware.
type SessionConfig struct {
    Secret     string
    CookieName string
    TTL        time.Duration
    Secure     bool // set the Secure flag on the cookie (production)
}

// Session returns an Echo middleware that attaches a storefront session to
// every request.  The session id travels in an HS256-signed cookie; when the
// cookie is missing, expired or tampered with, a fresh session is issued.
// Handlers read the id with SessionID.
func Session(cfg SessionConfig) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            if ck, err := c.Cookie(cfg.CookieName); err == nil && ck.Value != "" {
                if id, err := utils.ParseSessionToken(cfg.Secret, ck.Value); err == nil {
                    c.Set(sessionKey, id)
                    return next(c)
                }
            }
            id := uuid.NewString()
            tok, err := utils.NewSessionToken(cfg.Secret, id, cfg.TTL)
            if err != nil {
                c.Logger().Errorf("session: sign token: %v", err)
                return echo.NewHTTPError(http.StatusInternalServerError, "session unavailable")
            }
            c.SetCookie(&http.Cookie{
                Name:     cfg.CookieName,
                Value:    tok.Token,
                Path:     "/",
                Expires:  tok.Exp,
                HttpOnly: true,
                Secure:   cfg.Secure,
                SameSite: http.SameSiteLaxMode,
            })
            c.Set(sessionKey, id)
            return next(c)
        }
    }
}

// SessionID returns the id attached by Session, or "anon" outside of it.
func SessionID(c echo.Context) string {
    if s, ok := c.Get(sessionKey).(string); ok && s != "" {
        return s
    }
    return "anon"
}
