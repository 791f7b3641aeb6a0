package rayid

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// HeaderName is the response header carrying the request's ray ID.
const HeaderName = "X-Ray-Id"

// New returns a middleware that assigns every request a unique ray ID,
// stored in locals for loggers and echoed in the response headers.
func New() fiber.Handler {
	return func(c *fiber.Ctx) error {
		rid := c.Get(HeaderName)
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Locals("ray_id", rid)
		c.Set(HeaderName, rid)
		return c.Next()
	}
}
