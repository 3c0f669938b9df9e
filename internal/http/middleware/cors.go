package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

// CORS allows credentialed cross-origin requests from the given origins on every route.
// Fiber refuses a wildcard origin together with credentials, so origins must be explicit.
func CORS(origins []string) fiber.Handler {
	return cors.New(cors.Config{
		AllowOrigins:     strings.Join(origins, ","),
		AllowMethods:     "GET,POST,HEAD,OPTIONS",
		AllowHeaders:     "Origin,Content-Type,Accept,Authorization," + RequestIDHeader,
		ExposeHeaders:    RequestIDHeader,
		AllowCredentials: true,
	})
}
