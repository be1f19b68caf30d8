package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	// RequestIDHeader carries the request ID between client, proxies and
	// the response.
	RequestIDHeader = "X-Request-ID"
	// RequestIDLocalKey is the key used to store the request ID in Fiber's
	// context locals.
	RequestIDLocalKey = "request_id"
)

// RequestID tags every request with an ID the logger, the error envelope
// and the audit log can correlate on.
//
// An incoming X-Request-ID is propagated as-is; when absent a fresh UUID
// is generated. The ID lands in locals under RequestIDLocalKey and is
// echoed on the response header.
func RequestID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}

		c.Locals(RequestIDLocalKey, id)
		c.Set(RequestIDHeader, id)

		return c.Next()
	}
}
