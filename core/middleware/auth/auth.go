package auth

import (
	"crypto/subtle"

	"github.com/gofiber/fiber/v2"
)

// Config holds the auth middleware configuration.
type Config struct {
	// ApiKey is the expected key. An empty key disables authentication.
	ApiKey string
}

// New returns a middleware that rejects requests lacking the configured API
// key in the X-Api-Key header.
func New(cfg Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if cfg.ApiKey == "" {
			return c.Next()
		}
		provided := c.Get("X-Api-Key")
		if subtle.ConstantTimeCompare([]byte(provided), []byte(cfg.ApiKey)) != 1 {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "invalid or missing API key",
			})
		}
		return c.Next()
	}
}
