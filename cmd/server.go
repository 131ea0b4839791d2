// server.go
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/joho/godotenv"
	"github.com/pyguy/pybot/pkg/config"
	"github.com/pyguy/pybot/pkg/errx"
	"github.com/pyguy/pybot/pkg/logx"
)

func main() {
	// 1. Load environment & configuration
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logx.Fatalf("Failed to load configuration: %v", err)
	}

	// 2. Initialize logger with config
	switch cfg.Server.LogLevel {
	case "debug":
		logx.SetLevel(logx.LevelDebug)
	case "warn":
		logx.SetLevel(logx.LevelWarn)
	case "error":
		logx.SetLevel(logx.LevelError)
	default:
		logx.SetLevel(logx.LevelInfo)
	}

	logx.Info("Starting PyBot server...")
	logx.Infof("Environment: %s", cfg.Server.Environment)

	// 3. Initialize dependency container
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	container := NewContainer(ctx, cfg)
	defer container.Cleanup()

	// 4. Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:               "PyBot",
		DisableStartupMessage: true,
		ErrorHandler:          globalErrorHandler(cfg),
		ReadTimeout:           30 * time.Second,
		IdleTimeout:           120 * time.Second,
	})

	// 5. Global middleware
	setupMiddleware(app, cfg)

	// 6. Liveness endpoints
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("PyBot is running. Use /chat to interact.")
	})
	app.Get("/ping", func(c *fiber.Ctx) error {
		return c.SendString("pong")
	})

	// 7. Register routes
	container.ChatHandlers.RegisterRoutes(app)

	// 8. 404 handler
	app.Use(notFoundHandler)

	// 9. Start server with graceful shutdown
	startServer(app, cfg, cancel)
}

// ============================================================================
// Setup Functions
// ============================================================================

func setupMiddleware(app *fiber.App, cfg *config.Config) {
	// Panic recovery
	app.Use(recover.New(recover.Config{
		EnableStackTrace: cfg.IsDevelopment(),
	}))

	// Request ID
	app.Use(requestid.New(requestid.Config{
		Header: "X-Request-ID",
	}))

	// CORS with credentials so the session cookie survives browser clients
	app.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Join(cfg.Server.CORSOrigins, ","),
		AllowHeaders:     "Origin, Content-Type, Accept, X-Request-ID",
		AllowMethods:     "GET, POST, OPTIONS",
		AllowCredentials: true,
		ExposeHeaders:    "X-Request-ID",
	}))

	// Request logger
	app.Use(logger.New(logger.Config{
		Format:     "${time} | ${status} | ${latency} | ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
		TimeZone:   "Local",
	}))
}

// notFoundHandler handles 404 errors
func notFoundHandler(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
		"error":      "Route not found",
		"code":       "NOT_FOUND",
		"path":       c.Path(),
		"method":     c.Method(),
		"request_id": c.Get("X-Request-ID"),
	})
}

// ============================================================================
// Error Handler
// ============================================================================

// globalErrorHandler converts internal errors to standard HTTP responses
func globalErrorHandler(cfg *config.Config) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		logx.WithFields(logx.Fields{
			"path":       c.Path(),
			"method":     c.Method(),
			"request_id": c.Get("X-Request-ID"),
		}).Errorf("Request error: %v", err)

		// If it's a Fiber error
		if e, ok := err.(*fiber.Error); ok {
			return c.Status(e.Code).JSON(fiber.Map{
				"error":      e.Message,
				"code":       "FIBER_ERROR",
				"status":     e.Code,
				"request_id": c.Get("X-Request-ID"),
			})
		}

		// If it's our custom errx.Error
		if e, ok := err.(*errx.Error); ok {
			response := fiber.Map{
				"error":      e.Message,
				"code":       e.Code,
				"type":       string(e.Type),
				"status":     e.HTTPStatus,
				"request_id": c.Get("X-Request-ID"),
			}

			if len(e.Details) > 0 {
				response["details"] = e.Details
			}

			if cfg.IsDevelopment() && e.Err != nil {
				response["underlying_error"] = e.Err.Error()
			}

			return c.Status(e.HTTPStatus).JSON(response)
		}

		// Default unknown error
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":      "Internal Server Error",
			"type":       "INTERNAL",
			"code":       "INTERNAL_ERROR",
			"request_id": c.Get("X-Request-ID"),
		})
	}
}

// ============================================================================
// Server Lifecycle
// ============================================================================

// startServer starts the server with graceful shutdown
func startServer(app *fiber.App, cfg *config.Config, cancel context.CancelFunc) {
	port := fmt.Sprintf("%d", cfg.Server.Port)

	go func() {
		logx.Infof("Server listening on port %s", port)
		logx.Infof("Health check: http://localhost:%s/ping", port)

		if err := app.Listen(":" + port); err != nil {
			logx.Fatalf("Server error: %v", err)
		}
	}()

	gracefulShutdown(app, cancel)
}

// gracefulShutdown handles graceful server shutdown
func gracefulShutdown(app *fiber.App, cancel context.CancelFunc) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)

	sig := <-sigChan
	logx.Infof("Received signal: %v", sig)
	logx.Info("Shutting down gracefully...")

	cancel()

	if err := app.ShutdownWithTimeout(30 * time.Second); err != nil {
		logx.Errorf("Server forced to shutdown: %v", err)
	}

	logx.Info("Server exited")
}
