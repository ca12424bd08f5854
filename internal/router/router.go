package router // package router defines how HTTP routes are registered for the storefront

import (
	"github.com/labstack/echo/v4"  // import the Echo web framework to handle routing
	"github.com/redis/go-redis/v9" // shared client for the cache and the rate limiter

	"github.com/iliyamo/reservas-express/internal/config"     // cache and rate limit settings
	"github.com/iliyamo/reservas-express/internal/handler"    // page handlers
	"github.com/iliyamo/reservas-express/internal/middleware" // cache, rate limit and session middleware
)

// Handlers groups the page handlers the storefront serves.
type Handlers struct {
	Health       *handler.HealthHandler
	Storefront   *handler.StorefrontHandler
	Checkout     *handler.CheckoutHandler
	Confirmation *handler.ConfirmationHandler
}

// Options configures the middleware wrapped around the pages.  Redis may
// be nil, in which case caching and rate limiting are skipped.
type Options struct {
	Session   middleware.SessionConfig
	Cache     config.CacheConfig
	RateLimit config.RateLimitConfig
	Redis     *redis.Client
}

// RegisterRoutes registers every storefront route on e.
func RegisterRoutes(e *echo.Echo, h Handlers, opt Options) {
	// The health check stays outside the session so health checks do not get cookies.
	e.GET("/healthz", h.Health.Health)

	pages := e.Group("", middleware.Session(opt.Session))
	cache := middleware.PageCache(opt.Cache, opt.Redis)
	limit := middleware.NewTokenBucket(opt.RateLimit, opt.Redis)

	// Availability is cached by query; the same ranges get searched over and over.
	pages.GET("/", h.Storefront.Home, cache)
	pages.POST("/reservations", h.Storefront.CreateReservation, limit)

	pages.GET("/checkout", h.Checkout.Page)
	pages.POST("/checkout/pay", h.Checkout.Pay, limit)

	pages.GET("/confirmation", h.Confirmation.Page)
	pages.GET("/confirmation/receipt.pdf", h.Confirmation.Receipt)
}
