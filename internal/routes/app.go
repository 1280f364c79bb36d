package routes

import (
	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"github.com/ahmetcoskunkizilkaya/catalog-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/catalog-backend/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/catalog-backend/internal/metrics"
	"github.com/ahmetcoskunkizilkaya/catalog-backend/internal/middleware"
)

// NewApp builds the Fiber app with the global middleware chain. Extra
// handlers, such as the Sentry middleware, run first.
func NewApp(cfg *config.Config, m *metrics.Metrics, first ...fiber.Handler) *fiber.App {
	app := fiber.New(fiber.Config{
		BodyLimit:    4 * 1024 * 1024,
		ErrorHandler: handlers.ErrorHandler,
	})

	for _, h := range first {
		app.Use(h)
	}

	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path} | ${locals:requestid}\n",
	}))
	app.Use(m.Middleware())
	app.Use(middleware.CORS(cfg))
	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("X-XSS-Protection", "1; mode=block")
		return c.Next()
	})
	app.Use(middleware.RequestContext(cfg.RequestTimeout))

	return app
}
