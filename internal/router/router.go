package router

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/wichananm65/vts-portal-api/internal/auth"
	"github.com/wichananm65/vts-portal-api/internal/logger"
	"github.com/wichananm65/vts-portal-api/internal/request"
)

// Module is implemented by every entity handler.
type Module interface {
	RegisterPublicRoutes(app *fiber.App)
	RegisterProtectedRoutes(app *fiber.App)
}

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Options struct {
	AllowOrigins string
	// RequireAuth puts protected routes behind a bearer token signed with
	// AuthSecret.
	RequireAuth bool
	AuthSecret  string
	Health      Pinger
}

// New builds the fiber app. Public routes of every module are registered
// before the JWT middleware, protected routes after it.
func New(log *logger.Logger, opts Options, modules ...Module) *fiber.App {
	app := fiber.New(fiber.Config{
		// params and body strings outlive the request in services and stores
		Immutable:    true,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		ErrorHandler: errorHandler,
	})
	app.Use(requestLogger(log))
	app.Use(recover.New())
	setupCORS(app, opts.AllowOrigins)

	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("Hello VTS!")
	})
	app.Get("/health", health(opts.Health))

	for _, m := range modules {
		m.RegisterPublicRoutes(app)
	}
	if opts.RequireAuth {
		app.Use(auth.Middleware(opts.AuthSecret))
	}
	for _, m := range modules {
		m.RegisterProtectedRoutes(app)
	}
	return app
}

func setupCORS(app *fiber.App, origins string) {
	if origins == "" {
		origins = "*"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: origins,
		AllowMethods: "GET,POST,HEAD,PUT,DELETE,PATCH",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
}

func health(p Pinger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if p != nil {
			if err := p.Ping(c.UserContext()); err != nil {
				return request.Message(c, fiber.StatusServiceUnavailable, err.Error())
			}
		}
		return c.JSON(fiber.Map{"status": "ok"})
	}
}

func requestLogger(log *logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			status = fiber.StatusInternalServerError
			var fe *fiber.Error
			if errors.As(err, &fe) {
				status = fe.Code
			}
		}
		log.Info("HTTP request",
			"method", c.Method(),
			"path", c.Path(),
			"status", status,
			"duration", time.Since(start),
		)
		return err
	}
}

// errorHandler renders errors that escape handlers, including recovered
// panics and unmatched routes, in the common error body.
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	return request.Message(c, code, err.Error())
}
