package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/hermeskali/bfd-commerce-sync/internal/config"
)

// CORS allows the webhook signature headers so sender preflights get a 204.
func CORS(cfg *config.Config) fiber.Handler {
	return cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowHeaders:     "Origin, Content-Type, Accept, Sanity-Webhook-Signature, Stripe-Signature",
		AllowMethods:     "GET, POST, OPTIONS",
		AllowCredentials: false,
	})
}
