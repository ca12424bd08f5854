package main // Entry point package

import (
	"context"
	"errors"
	"log" // Logging library
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"                     // Echo web framework
	echomw "github.com/labstack/echo/v4/middleware"   // request id, recover and request logging

	"github.com/iliyamo/reservas-express/internal/apiclient"
	"github.com/iliyamo/reservas-express/internal/booking"
	"github.com/iliyamo/reservas-express/internal/checkout"
	"github.com/iliyamo/reservas-express/internal/config" // Internal config loader
	"github.com/iliyamo/reservas-express/internal/database"
	"github.com/iliyamo/reservas-express/internal/handler"
	"github.com/iliyamo/reservas-express/internal/middleware"
	"github.com/iliyamo/reservas-express/internal/queue"
	"github.com/iliyamo/reservas-express/internal/repository"
	"github.com/iliyamo/reservas-express/internal/router" // Internal router setup
	"github.com/iliyamo/reservas-express/internal/service"
	"github.com/iliyamo/reservas-express/internal/view"
)

func main() {
	cfg := config.Load() // Load environment config
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	api := apiclient.New(cfg.APIBaseURL, cfg.APITimeout)

	// Redis is optional: without it sessions and submit locks live in process.
	rdb := config.NewRedisClient(config.LoadRedisConfig())
	var (
		store  checkout.Store  = checkout.NewMemoryStore(cfg.SessionTTL)
		locker checkout.Locker = checkout.NewMemoryLocker()
	)
	if rdb != nil {
		defer rdb.Close()
		locker = repository.NewSubmitLock(rdb, cfg.SubmitLockTTL)
		if cfg.SessionStore == "redis" {
			store = repository.NewCheckoutSessionRepo(rdb, cfg.SessionTTL)
		}
	}

	flow := checkout.NewService(api, store, locker)

	if dbCfg := config.LoadDBConfig(); dbCfg.Enabled {
		db, err := database.Open(dbCfg)
		if err != nil {
			log.Fatalf("db: %v", err)
		}
		defer db.Close()
		if err := database.Migrate(ctx, db); err != nil {
			log.Fatalf("db: %v", err)
		}
		flow.Recorder = repository.NewCheckoutAttemptRepo(db)
	}

	if qCfg := config.LoadQueueConfig(); qCfg.Enabled {
		flow.Publisher = service.NewQueuePublisher(qCfg.URL)
		if qCfg.ConsumerEnabled {
			go func() {
				if err := queue.StartReservationPaidConsumer(ctx, qCfg.URL, qCfg.LogDir); err != nil && !errors.Is(err, context.Canceled) {
					log.Printf("paid-consumer: stopped: %v", err)
				}
			}()
		}
	}

	renderer, err := view.New()
	if err != nil {
		log.Fatal(err)
	}

	e := echo.New() // Create Echo instance
	e.HideBanner = true
	e.Renderer = renderer
	e.HTTPErrorHandler = handler.ErrorHandler
	e.Use(echomw.RequestID())
	e.Use(echomw.Recover())
	e.Use(echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			log.Printf("http: %s %s %d %s id=%s", v.Method, v.URI, v.Status, v.Latency, v.RequestID)
			return nil
		},
	}))

	router.RegisterRoutes(e, router.Handlers{ // Register application routes
		Health:       &handler.HealthHandler{Redis: rdb},
		Storefront:   handler.NewStorefrontHandler(booking.NewService(api)),
		Checkout:     handler.NewCheckoutHandler(flow),
		Confirmation: handler.NewConfirmationHandler(api),
	}, router.Options{
		Session: middleware.SessionConfig{
			Secret:     cfg.SessionSecret,
			CookieName: cfg.SessionCookie,
			TTL:        cfg.SessionTTL,
			Secure:     cfg.IsProd(),
		},
		Cache:     config.LoadCacheConfig(),
		RateLimit: config.LoadRateLimitConfig(),
		Redis:     rdb,
	})

	addr := ":" + cfg.Port                                               // Address string with port
	log.Printf("listening on %s (env=%s, api=%s)", addr, cfg.Env, cfg.APIBaseURL) // Print startup info

	go func() {
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) { // Start HTTP server
			log.Fatal(err) // Log and exit if server fails
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}
