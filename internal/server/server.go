package server

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"

	"cinescope-api/internal/handler"
)

// Options configures the fiber app.
type Options struct {
	AllowOrigins []string
	SwaggerYAML  []byte
	AccessLog    bool
}

// New builds the fiber app with middleware and all routes mounted.
func New(h *handler.MovieHandler, opts Options) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "CineScope API",
		ServerHeader: "CineScope-API",
		ErrorHandler: errorHandler,
	})

	app.Use(recover.New())
	if opts.AccessLog {
		app.Use(logger.New())
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: opts.AllowOrigins,
		AllowMethods: []string{fiber.MethodGet, fiber.MethodHead, fiber.MethodOptions},
	}))

	if opts.SwaggerYAML != nil {
		handler.RegisterSwagger(app, opts.SwaggerYAML)
	}

	h.RegisterRoutes(app.Group("/api/v1"))

	return app
}

func errorHandler(c fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	if code >= fiber.StatusInternalServerError {
		slog.Error("unhandled error", "error", err, "status", code, "path", c.Path())
	}
	return c.Status(code).JSON(handler.ErrorResponse{Error: err.Error()})
}
