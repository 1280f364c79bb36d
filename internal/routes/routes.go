package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/ahmetcoskunkizilkaya/catalog-backend/internal/auth"
	"github.com/ahmetcoskunkizilkaya/catalog-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/catalog-backend/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/catalog-backend/internal/metrics"
	"github.com/ahmetcoskunkizilkaya/catalog-backend/internal/middleware"
)

// Handlers groups everything Setup mounts.
type Handlers struct {
	Auth        *handlers.AuthHandler
	Health      *handlers.HealthHandler
	Category    *handlers.CategoryHandler
	Subcategory *handlers.SubcategoryHandler
	Product     *handlers.ProductHandler
}

func Setup(app *fiber.App, cfg *config.Config, resolver *auth.Resolver, m *metrics.Metrics, h Handlers) {
	app.Get("/metrics", m.Handler())

	api := app.Group(cfg.APIPrefix)
	if limit := rateLimiter(cfg.RateLimit); limit != nil {
		api.Use(limit)
	}

	api.Get("/health", h.Health.Check)

	// Auth (public). Login and register get a stricter per-IP limit.
	authGroup := api.Group("/auth")
	if limit := rateLimiter(cfg.AuthRateLimit); limit != nil {
		authGroup.Use(limit)
	}
	authGroup.Post("/register", h.Auth.Register)
	authGroup.Get("/users", h.Auth.ListUsers)
	authGroup.Post("/login", h.Auth.Login)
	authGroup.Post("/refresh", h.Auth.Refresh)

	// Reads are public, every write needs an active admin.
	admin := middleware.AdminRequired(resolver, m)

	category := api.Group("/category")
	category.Get("/", h.Category.List)
	category.Get("/:id", h.Category.Get)
	category.Post("/", admin, h.Category.Create)
	category.Put("/:id", admin, h.Category.Update)
	category.Delete("/:id", admin, h.Category.Delete)

	subcategory := api.Group("/subcategory")
	subcategory.Get("/", h.Subcategory.List)
	subcategory.Get("/:id", h.Subcategory.Get)
	subcategory.Post("/", admin, h.Subcategory.Create)
	subcategory.Put("/:id", admin, h.Subcategory.Update)
	subcategory.Delete("/:id", admin, h.Subcategory.Delete)

	product := api.Group("/product")
	product.Get("/", h.Product.List)
	product.Get("/:id", h.Product.Get)
	product.Post("/", admin, h.Product.Create)
	product.Put("/:id", admin, h.Product.Update)
	product.Delete("/:id", admin, h.Product.Delete)
}

// rateLimiter allows max requests per minute per IP. Zero or less disables it.
func rateLimiter(max int) fiber.Handler {
	if max <= 0 {
		return nil
	}
	return limiter.New(limiter.Config{
		Max:               max,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	})
}
