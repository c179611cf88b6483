// Package server assembles the fiber application: middleware, metrics, docs,
// static files and the page and API routes.
package server

import (
	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/filesystem"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	swagger "github.com/gofiber/swagger"
	"github.com/localnerve/callboard/internal/config"
	"github.com/localnerve/callboard/internal/handlers"
	"github.com/localnerve/callboard/internal/services"
	"github.com/localnerve/callboard/web"
	"github.com/prometheus/client_golang/prometheus"

	_ "github.com/localnerve/callboard/docs/api" // Swagger docs
)

// Options tune the parts of the app that differ between production and tests
type Options struct {
	Config *config.Config

	// Registerer receives the HTTP metrics. Nil means a private registry.
	Registerer prometheus.Registerer

	// Quiet drops the request log line
	Quiet bool
}

// New builds the application around h
func New(h *handlers.Handler, opts Options) *fiber.App {
	cfg := opts.Config
	if cfg == nil {
		cfg = &config.Config{}
	}

	app := fiber.New(fiber.Config{
		Views:                 web.Engine(),
		ErrorHandler:          h.ErrorHandler,
		BodyLimit:             64 << 20,
		DisableStartupMessage: opts.Quiet,
	})

	app.Use(recover.New())
	if !opts.Quiet {
		app.Use(logger.New())
	}
	app.Use(compress.New())

	registerer := opts.Registerer
	if registerer == nil {
		registerer = prometheus.NewRegistry()
	}
	prom := fiberprometheus.NewWithRegistry(registerer, "callboard", "http", "", nil)
	prom.RegisterAt(app, "/metrics")
	app.Use(prom.Middleware)

	app.Get("/swagger/*", swagger.HandlerDefault)

	app.Get("/healthz", func(c *fiber.Ctx) error {
		result := services.HealthCheck(cfg, h.DB.WithContext(c.UserContext()), h.Log)
		status := fiber.StatusOK
		if result.Status != "healthy" {
			status = fiber.StatusServiceUnavailable
		}
		return c.Status(status).JSON(result)
	})

	if cfg.MediaRoot != "" {
		app.Static("/media", cfg.MediaRoot)
	}
	app.Use("/static", filesystem.New(filesystem.Config{
		Root:   web.Static(),
		MaxAge: 3600,
	}))

	h.Routes(app)
	return app
}
