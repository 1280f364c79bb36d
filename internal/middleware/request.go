package middleware

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"

	"github.com/ahmetcoskunkizilkaya/catalog-backend/internal/logging"
)

// RequestContext prepares the context handlers pass to services: it carries
// the request id for logging and, when timeout is positive, a deadline for
// all storage work done on behalf of the request, including the wait for a
// pooled connection.
// It must run after the requestid middleware.
func RequestContext(timeout time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		requestID, _ := c.Locals("requestid").(string)
		ctx := logging.WithRequest(c.UserContext(), &logging.RequestInfo{
			RequestID: requestID,
			Method:    c.Method(),
			Path:      utils.CopyString(c.Path()),
		})

		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}

		c.SetUserContext(ctx)
		return c.Next()
	}
}
