package validators

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/arzan03/PaperBot/internal/apperr"
	"github.com/arzan03/PaperBot/internal/models"
	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const bodyKey = "body"

// checker is implemented by request shapes with cross-field rules.
type checker interface {
	Check() []string
}

// Body parses the JSON request body into a T, validates it and stores it for
// the handler. Every failing rule is reported together as one 422 error.
// An empty body is validated as the zero value.
func Body[T any]() fiber.Handler {
	return func(c *fiber.Ctx) error {
		body := new(T)
		if len(c.Body()) > 0 {
			if err := c.BodyParser(body); err != nil {
				return parseError(err)
			}
		}

		messages := Struct(body)
		if ch, ok := any(body).(checker); ok {
			messages = append(messages, ch.Check()...)
		}
		if len(messages) > 0 {
			return apperr.Validation(messages...)
		}

		c.Locals(bodyKey, body)
		return c.Next()
	}
}

// Parsed returns the body stored by Body[T].
func Parsed[T any](c *fiber.Ctx) *T {
	if body, ok := c.Locals(bodyKey).(*T); ok {
		return body
	}
	return new(T)
}

func parseError(err error) error {
	var typeErr *json.UnmarshalTypeError
	var syntaxErr *json.SyntaxError
	switch {
	case errors.Is(err, models.ErrQuestionBodyShape):
		return apperr.Validation("question must be either a string or an object")
	case errors.As(err, &typeErr):
		return apperr.Validation(fmt.Sprintf("%s must be a %s", typeErr.Field, jsonKind(typeErr.Type.Kind().String())))
	case errors.As(err, &syntaxErr):
		return apperr.Validation("Request body is not valid JSON")
	case errors.Is(err, fiber.ErrUnprocessableEntity):
		return apperr.Validation("Request body must be JSON")
	}
	return apperr.Validation(err.Error())
}

func jsonKind(goKind string) string {
	switch goKind {
	case "string":
		return "string"
	case "bool":
		return "boolean"
	case "slice", "array":
		return "list"
	case "struct", "map", "ptr":
		return "object"
	}
	return "number"
}

// ObjectIDParams rejects requests whose named route params are not valid ids.
func ObjectIDParams(names ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var messages []string
		for _, name := range names {
			if !primitive.IsValidObjectID(c.Params(name)) {
				messages = append(messages, fmt.Sprintf("%s must be a valid id", name))
			}
		}
		if len(messages) > 0 {
			return apperr.Validation(messages...)
		}
		return c.Next()
	}
}
