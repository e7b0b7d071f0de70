package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"

	httpapi "github.com/i474232898/weather-widget/internal/api/http"
	"github.com/i474232898/weather-widget/internal/config"
	"github.com/i474232898/weather-widget/internal/geolocation"
	"github.com/i474232898/weather-widget/internal/log"
	"github.com/i474232898/weather-widget/internal/notify"
	"github.com/i474232898/weather-widget/internal/scheduler"
	"github.com/i474232898/weather-widget/internal/weather"
	"github.com/i474232898/weather-widget/internal/weather/providers"
)

func main() {
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := log.Init(cfg.Debug); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	if envErr != nil {
		log.Infow("no .env file loaded", "error", envErr)
	}
	if cfg.OpenWeatherAPIKey == "" {
		log.Warnw("OPENWEATHER_API_KEY is not set; queries will be rejected by the provider")
	}

	// Shared HTTP client for outbound calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	provider := providers.NewOpenWeatherProvider(httpClient, cfg.OpenWeatherAPIKey, cfg.OpenWeatherBaseURL)
	feed := notify.NewFeed(cfg.NotifyMaxHistory, cfg.NotifyTTL)
	controller := weather.NewController(provider, buildLocator(cfg, httpClient), feed, cfg.DefaultCity)

	// Initial resolution runs in the background so the page is served
	// (with its loading indicator) while the first query is in flight.
	go func() {
		if err := controller.Resolve(context.Background()); err != nil && !errors.Is(err, weather.ErrAlreadyResolved) {
			log.Warnw("initial weather resolution failed", "error", err)
		}
	}()

	sched := scheduler.New(controller, cfg.RefreshInterval)
	if err := sched.Start(); err != nil {
		log.Fatalf("failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	app := fiber.New(fiber.Config{
		AppName:               "weather-widget",
		DisableStartupMessage: true,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Centralized error response
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
			})
		},
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,DELETE,OPTIONS",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "weather-widget",
		})
	})

	httpapi.RegisterRoutes(app, controller, feed)

	go func() {
		log.Infow("server starting", "port", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Errorw("fiber server stopped", "error", err)
		}
	}()

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Errorw("error during shutdown", "error", err)
	}
}

// buildLocator assembles the configured position sources in priority order.
func buildLocator(cfg *config.AppConfig, client *http.Client) weather.Locator {
	var chain geolocation.Chain

	if cfg.HomePosition != nil {
		chain = append(chain, geolocation.StaticLocator{Position: *cfg.HomePosition})
	}
	if cfg.GeocoderAPIKey != "" && !cfg.HomeAddress.Empty() {
		chain = append(chain, geolocation.NewAddressLocator(cfg.GeocoderAPIKey, cfg.HomeAddress))
	}
	if !cfg.GeoIPDisabled {
		chain = append(chain, geolocation.NewIPLocator(client, cfg.GeoIPURL))
	}

	log.Debugw("position sources configured", "count", len(chain))
	return chain
}
