package apperr

import (
	"errors"
	"log/slog"
	"net/http"

	sentryfiber "github.com/getsentry/sentry-go/fiber"
	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/mongo"
)

const genericMessage = "Something went wrong!"

// Handler is the Fiber ErrorHandler every route funnels into.
// Operational errors keep their message at any status; only unexpected errors
// are masked in production. Outside production the envelope also carries the
// stack of operational errors.
func Handler(production bool) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := http.StatusInternalServerError
		message := genericMessage
		var details []string
		var stack string

		var appErr *AppError
		var fiberErr *fiber.Error
		switch {
		case errors.As(err, &appErr):
			status = appErr.Status
			message = appErr.Message
			details = appErr.Errors
			stack = appErr.Stack()
		case errors.As(err, &fiberErr):
			status = fiberErr.Code
			message = fiberErr.Message
		case mongo.IsDuplicateKeyError(err):
			status = http.StatusBadRequest
			message = "Duplicate value violates a unique constraint"
		default:
			if !production {
				message = err.Error()
			}
		}

		if status >= http.StatusInternalServerError {
			slog.Error("unhandled server error",
				"method", c.Method(),
				"path", c.Path(),
				"request_id", c.Locals("requestid"),
				"error", err.Error(),
			)
			if hub := sentryfiber.GetHubFromContext(c); hub != nil {
				hub.CaptureException(err)
			}
		}

		body := fiber.Map{
			"statusCode": status,
			"message":    message,
			"success":    false,
		}
		if len(details) > 0 {
			body["errors"] = details
		}
		if !production && stack != "" {
			body["stack"] = stack
		}
		return c.Status(status).JSON(body)
	}
}
