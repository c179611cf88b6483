package middleware

import (
	"github.com/gofiber/fiber/v2"
)

// APIVersion is the current JSON API version
const APIVersion = "1.0.0"

// VersionMiddleware parses the X-Api-Version header, stores it in context and
// echoes the served version back
func VersionMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		version := c.Get("X-Api-Version", APIVersion)

		// Support version aliases
		if version == "1" || version == "1.0" {
			version = APIVersion
		}

		c.Locals("apiVersion", version)
		c.Set("X-Api-Version", APIVersion)

		return c.Next()
	}
}
