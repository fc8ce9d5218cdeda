package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/hermeskali/bfd-commerce-sync/internal/handlers"
)

func Setup(
	app *fiber.App,
	healthHandler *handlers.HealthHandler,
	catalogHandler *handlers.CatalogHandler,
	fulfillmentHandler *handlers.FulfillmentHandler,
	signupHandler *handlers.SignupHandler,
) {
	api := app.Group("/api")

	// General API rate limiter: 60 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               60,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	api.Get("/health", healthHandler.Check)

	// Webhooks are HMAC-gated, not rate-limited: sender retry storms must
	// reach the idempotent handlers rather than bounce off a limiter.
	hooks := app.Group("/webhooks")
	hooks.Post("/catalog-sync", catalogHandler.Handle)
	hooks.Post("/order-fulfillment", fulfillmentHandler.Handle)

	// Form submissions are unsigned, so they get the strict limiter.
	hooks.Post("/submission", limiter.New(limiter.Config{
		Max:               30,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}), signupHandler.Handle)
}
