// Package middleware holds the Fiber middleware shared by every route.
package middleware

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

// Logging logs one line per request with status and latency. It runs the
// error handler first so the logged status matches the response.
func Logging() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		if err != nil {
			if herr := c.App().ErrorHandler(c, err); herr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}
		log.Printf("[HTTP] %s %s %d %s id=%s",
			c.Method(), c.OriginalURL(), c.Response().StatusCode(),
			time.Since(start).Round(time.Microsecond), c.GetRespHeader(fiber.HeaderXRequestID))
		return nil
	}
}

// Recover turns handler panics into 500 responses.
func Recover() fiber.Handler {
	return recover.New(recover.Config{EnableStackTrace: true})
}

// RequestID tags every response with an X-Request-ID header.
func RequestID() fiber.Handler {
	return requestid.New()
}
