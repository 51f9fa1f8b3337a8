package middleware

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
)

// MasterDataCache marks successful GETs of slow changing master data, such
// as the branch directory, as cacheable by the client for maxAge.
func MasterDataCache(maxAge time.Duration) fiber.Handler {
	value := fmt.Sprintf("private, max-age=%d", int(maxAge/time.Second))
	return func(c *fiber.Ctx) error {
		err := c.Next()
		if err == nil && c.Method() == fiber.MethodGet && c.Response().StatusCode() == fiber.StatusOK {
			c.Set(fiber.HeaderCacheControl, value)
		}
		return err
	}
}

// NoCacheHeaders keeps bookings, challans and user data out of browser and
// proxy caches.
func NoCacheHeaders() fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Set(fiber.HeaderCacheControl, "no-store")
		c.Set(fiber.HeaderPragma, "no-cache")
		return c.Next()
	}
}
