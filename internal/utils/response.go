package utils

import "github.com/gofiber/fiber/v2"

// Success writes the standard success envelope.
func Success(c *fiber.Ctx, status int, data any, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"statusCode": status,
		"data":       data,
		"message":    message,
		"success":    status < fiber.StatusBadRequest,
	})
}
