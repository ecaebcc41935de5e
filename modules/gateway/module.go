// Package gateway hosts the per-connection event channel: a Fiber server
// exposing the WebSocket endpoint, static assets, and a read-only REST view
// of the registry. The relay core has no dependency on how this hosting
// works beyond the Emitter the connection table implements.
package gateway

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/go-monolith/mono"
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/example/chat-relay/modules/registry"
	"github.com/example/chat-relay/modules/router"
)

// Config holds the gateway settings.
type Config struct {
	Addr           string
	StaticDir      string
	AllowedOrigins string
}

// ConfigFromEnv builds a Config from environment variables, falling back to
// defaults when unset.
func ConfigFromEnv() Config {
	cfg := Config{
		Addr:           ":3500",
		StaticDir:      "./public",
		AllowedOrigins: "http://localhost:5500,http://127.0.0.1:5500",
	}
	if port := os.Getenv("PORT"); port != "" {
		cfg.Addr = ":" + port
	}
	if dir := os.Getenv("STATIC_DIR"); dir != "" {
		cfg.StaticDir = dir
	}
	if origins := os.Getenv("CORS_ALLOWED_ORIGINS"); origins != "" {
		cfg.AllowedOrigins = origins
	}
	return cfg
}

// Module implements the gateway server module using the Fiber framework.
type Module struct {
	app      *fiber.App
	handlers *Handlers
	table    *ConnTable
	cfg      Config
}

// Compile-time interface checks.
var _ mono.Module = (*Module)(nil)
var _ mono.HealthCheckableModule = (*Module)(nil)

// NewModule creates a new gateway module.
func NewModule(cfg Config, rt *router.Router, store *registry.Store, table *ConnTable) *Module {
	return &Module{
		handlers: NewHandlers(rt, store, table),
		table:    table,
		cfg:      cfg,
	}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "gateway"
}

// Start initializes and starts the Fiber server.
func (m *Module) Start(_ context.Context) error {
	m.app = fiber.New(fiber.Config{
		AppName:               "chat-relay",
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler,
		ReadTimeout:           30 * time.Second,
		WriteTimeout:          60 * time.Second,
		IdleTimeout:           120 * time.Second,
	})

	m.app.Use(recover.New())
	m.app.Use(requestLogger())
	m.app.Use(cors.New(cors.Config{
		AllowOrigins: m.cfg.AllowedOrigins,
		AllowMethods: "GET,OPTIONS",
		AllowHeaders: "Content-Type",
	}))

	m.registerRoutes()

	// Start server in goroutine with startup error detection
	errCh := make(chan error, 1)
	go func() {
		if err := m.app.Listen(m.cfg.Addr); err != nil {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("gateway failed to start: %w", err)
	case <-time.After(100 * time.Millisecond):
		// Server started successfully
	}

	return nil
}

// Stop gracefully shuts down the Fiber server.
func (m *Module) Stop(ctx context.Context) error {
	if m.app == nil {
		return nil
	}
	if err := m.app.ShutdownWithContext(ctx); err != nil {
		return fmt.Errorf("failed to shutdown gateway: %w", err)
	}
	return nil
}

// Health returns the health status.
func (m *Module) Health(_ context.Context) mono.HealthStatus {
	return mono.HealthStatus{
		Healthy: m.app != nil,
		Message: "operational",
		Details: map[string]any{
			"addr":        m.cfg.Addr,
			"connections": m.table.Len(),
		},
	}
}

// registerRoutes sets up the WebSocket endpoint, REST views, and static
// asset hosting.
func (m *Module) registerRoutes() {
	m.app.Get("/health", m.handlers.HealthCheck)

	// WebSocket upgrade middleware
	m.app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	m.app.Get("/ws", websocket.New(m.handlers.HandleWebSocket))

	api := m.app.Group("/api/v1")
	api.Get("/rooms", m.handlers.ListRooms)
	api.Get("/rooms/:room/users", m.handlers.ListRoomUsers)

	m.app.Static("/", m.cfg.StaticDir)
}

// errorHandler handles Fiber errors globally.
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	return c.Status(code).JSON(fiber.Map{
		"error": message,
	})
}

// requestLogger returns the request logging middleware, skipping WebSocket
// upgrade requests.
func requestLogger() fiber.Handler {
	log := logger.New(logger.Config{
		Format: "[${time}] ${status} ${method} ${path} ${latency}\n",
	})
	return func(c *fiber.Ctx) error {
		if c.Get("Upgrade") == "websocket" {
			return c.Next()
		}
		return log(c)
	}
}
