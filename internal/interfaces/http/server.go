package http

import (
	"errors"
	"os"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog"

	"github.com/jhoicas/gestionale-api/internal/application/dto"
	"github.com/jhoicas/gestionale-api/internal/infrastructure/metrics"
)

// AppOptions lo que NewApp necesita además de los casos de uso.
type AppOptions struct {
	Name     string
	DocsPath string            // swagger.json; vacío o inexistente = sin /docs
	Metrics  *metrics.Registry // nil = sin /metrics
	Logger   zerolog.Logger
}

// NewApp construye la aplicación Fiber con middlewares, /health, /metrics, /docs y la API.
func NewApp(opts AppOptions, deps RouterDeps) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      opts.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
		ErrorHandler: errorHandler,
	})
	app.Use(recover.New())

	var obs requestObserver
	if opts.Metrics != nil {
		obs = opts.Metrics
	}
	app.Use(RequestLogger(opts.Logger, obs))

	// Swagger UI en local: http://localhost:<port>/docs
	if opts.DocsPath != "" {
		if _, err := os.Stat(opts.DocsPath); err == nil {
			app.Use(swagger.New(swagger.Config{
				BasePath: "/",
				FilePath: opts.DocsPath,
				Path:     "docs",
				Title:    "Gestionale API",
			}))
		} else {
			opts.Logger.Warn().Str("path", opts.DocsPath).Msg("swagger.json no encontrado, /docs desactivado")
		}
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": opts.Name})
	})
	if opts.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(opts.Metrics.Handler()))
	}

	Router(app, deps)
	return app
}

// errorHandler para errores que llegan a Fiber sin pasar por respondError (404 de ruta, panics recuperados).
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	msg := "error interno"
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		msg = fe.Message
	}
	if code >= fiber.StatusInternalServerError {
		requestLogger(c).Error().Err(err).Msg("error no controlado")
	}
	return c.Status(code).JSON(dto.ErrorResponse{Code: errorCode(code), Message: msg})
}

func errorCode(status int) string {
	switch status {
	case fiber.StatusNotFound:
		return "NOT_FOUND"
	case fiber.StatusMethodNotAllowed:
		return "METHOD_NOT_ALLOWED"
	case fiber.StatusBadRequest:
		return "INVALID_BODY"
	}
	if status >= fiber.StatusInternalServerError {
		return "INTERNAL"
	}
	return "ERROR"
}
