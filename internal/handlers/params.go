package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// paramID reads a route param already checked by validators.ObjectIDParams.
func paramID(c *fiber.Ctx, name string) primitive.ObjectID {
	id, _ := primitive.ObjectIDFromHex(c.Params(name))
	return id
}

func schoolID(raw string) primitive.ObjectID {
	id, _ := primitive.ObjectIDFromHex(raw)
	return id
}
