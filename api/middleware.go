package api

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

const (
	requestIDHeader = "X-Request-ID"
	requestIDKey    = "requestID"
)

// RequestID tags every request with an id, reusing the caller's X-Request-ID when present
func RequestID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		requestID := c.Get(requestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}

		c.Locals(requestIDKey, requestID)
		c.Set(requestIDHeader, requestID)
		return c.Next()
	}
}

// RequestLogger logs method, path, status and latency of every request
func RequestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			// the error handler has not written the response yet
			status = statusForError(err)
		}

		entry := log.WithFields(log.Fields{
			"request_id": requestIDFrom(c),
			"method":     c.Method(),
			"path":       c.Path(),
			"status":     status,
			"duration":   time.Since(start),
			"remote_ip":  c.IP(),
		})
		if status >= fiber.StatusInternalServerError {
			entry.Warn("HTTP request")
		} else {
			entry.Info("HTTP request")
		}

		return err
	}
}

func requestIDFrom(c *fiber.Ctx) string {
	id, _ := c.Locals(requestIDKey).(string)
	return id
}

func logPanic(c *fiber.Ctx, e interface{}) {
	log.WithFields(log.Fields{
		"request_id": requestIDFrom(c),
		"method":     c.Method(),
		"path":       c.Path(),
		"panic":      e,
	}).Error("Panic recovered in HTTP handler")
}
