package handler

import (
    "errors"
    "log"
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/reservas-express/internal/view"
)

// renderError writes the error page with the given status.
func renderError(c echo.Context, status int, msg string) error {
    return c.Render(status, view.PageError, view.ErrorData{Status: status, Message: msg})
}

// ErrorHandler renders errors escaping the handlers (unknown routes, the
// rate limiter, bind failures) as the storefront error page.
func ErrorHandler(err error, c echo.Context) {
    if c.Response().Committed {
        return
    }
    status := http.StatusInternalServerError
    msg := http.StatusText(status)
    var he *echo.HTTPError
    if errors.As(err, &he) {
        status = he.Code
        if m, ok := he.Message.(string); ok {
            msg = m
        } else {
            msg = http.StatusText(status)
        }
    } else {
        log.Printf("handler: unhandled error on %s %s: %v", c.Request().Method, c.Request().URL.Path, err)
    }
    if c.Request().Method == http.MethodHead {
        _ = c.NoContent(status)
        return
    }
    if rerr := renderError(c, status, msg); rerr != nil {
        _ = c.String(status, msg)
    }
}
