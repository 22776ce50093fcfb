package response

import (
	"time"

	"loandesk/internal/core/domain"

	"github.com/gofiber/fiber/v2"
)

// ErrorBody is the wire shape of every error response.
type ErrorBody struct {
	Timestamp time.Time         `json:"timestamp"`
	Status    int               `json:"status"`
	Code      string            `json:"code"`
	Message   string            `json:"message"`
	Errors    map[string]string `json:"errors,omitempty"`
}

// OK writes a 200 response with the given payload
func OK(c *fiber.Ctx, data interface{}) error {
	return c.JSON(data)
}

// Created writes a 201 response with the given payload
func Created(c *fiber.Ctx, data interface{}) error {
	return c.Status(fiber.StatusCreated).JSON(data)
}

// NoContent writes a 204 response
func NoContent(c *fiber.Ctx) error {
	return c.SendStatus(fiber.StatusNoContent)
}

// Error writes an error body with an explicit status and code
func Error(c *fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(ErrorBody{
		Timestamp: time.Now(),
		Status:    status,
		Code:      code,
		Message:   message,
	})
}

// DomainError translates a domain error into its wire shape
func DomainError(c *fiber.Ctx, err *domain.Error) error {
	status := err.HTTPStatus()
	return c.Status(status).JSON(ErrorBody{
		Timestamp: time.Now(),
		Status:    status,
		Code:      err.Code,
		Message:   err.Message,
		Errors:    err.Fields,
	})
}

// BadRequest writes a 400 error
func BadRequest(c *fiber.Ctx, code, message string) error {
	return Error(c, fiber.StatusBadRequest, code, message)
}

// Unauthorized writes a 401 error
func Unauthorized(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusUnauthorized, "AUTHENTICATION_ERROR", message)
}

// Forbidden writes a 403 error
func Forbidden(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusForbidden, "ACCESS_DENIED", message)
}
