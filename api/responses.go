package api

import (
	"errors"

	"ledger/service"

	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"
)

type successEnvelope struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

type failureEnvelope struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func success(c *fiber.Ctx, status int, data any) error {
	return c.Status(status).JSON(successEnvelope{Success: true, Data: data})
}

func failure(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(failureEnvelope{Success: false, Error: message})
}

// statusForError maps domain errors to HTTP status codes
func statusForError(err error) int {
	var fiberErr *fiber.Error
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		return fiber.StatusBadRequest
	case errors.Is(err, service.ErrAccountNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, service.ErrInvalidCredential):
		return fiber.StatusUnauthorized
	case errors.Is(err, service.ErrInsufficientFunds):
		return fiber.StatusBadRequest
	case errors.Is(err, service.ErrOverflow):
		return fiber.StatusUnprocessableEntity
	case errors.As(err, &fiberErr):
		return fiberErr.Code
	default:
		return fiber.StatusInternalServerError
	}
}

// messageForError returns the client facing message for err
func messageForError(err error) string {
	var fiberErr *fiber.Error
	switch {
	case errors.Is(err, service.ErrAccountNotFound):
		return "User not found!"
	case errors.Is(err, service.ErrInvalidCredential):
		return "Incorrect password!"
	case errors.Is(err, service.ErrInsufficientFunds):
		return "Not enough balance!"
	case errors.Is(err, service.ErrInvalidInput), errors.Is(err, service.ErrOverflow):
		return err.Error()
	case errors.As(err, &fiberErr):
		return fiberErr.Message
	default:
		return "Internal server error"
	}
}

// errorHandler turns errors returned by handlers into envelope responses
func errorHandler(c *fiber.Ctx, err error) error {
	status := statusForError(err)
	if status >= fiber.StatusInternalServerError {
		log.WithFields(log.Fields{
			"request_id": requestIDFrom(c),
			"method":     c.Method(),
			"path":       c.Path(),
			"error":      err,
		}).Error("Request failed")
	}
	return failure(c, status, messageForError(err))
}
