package handler

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"keyword-scout/pkg/logger"
)

// AccessLog writes one line per request. The status reflects the error
// handler's outcome when a handler returned an error.
func AccessLog(log *logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			status = fiber.StatusInternalServerError
			var e *fiber.Error
			if errors.As(err, &e) {
				status = e.Code
			}
		}

		entry := log.WithFields(map[string]interface{}{
			"request_id":  c.Locals("requestid"),
			"method":      c.Method(),
			"path":        c.Path(),
			"status":      status,
			"duration_ms": time.Since(start).Milliseconds(),
		})
		switch {
		case status >= 500:
			entry.Error("Request failed")
		case status >= 400:
			entry.Warn("Request rejected")
		default:
			entry.Info("Request served")
		}
		return err
	}
}
