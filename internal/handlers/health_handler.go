package handlers

import (
	"context"
	"time"

	"github.com/arzan03/PaperBot/internal/utils"
	"github.com/gofiber/fiber/v2"
)

type HealthHandler struct {
	ping func(ctx context.Context) error
}

func NewHealthHandler(ping func(ctx context.Context) error) *HealthHandler {
	return &HealthHandler{ping: ping}
}

func (h *HealthHandler) Check(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
	defer cancel()

	db, status, message := "ok", fiber.StatusOK, "Health check passed"
	if err := h.ping(ctx); err != nil {
		db, status, message = "unhealthy: "+err.Error(), fiber.StatusServiceUnavailable, "Database is unreachable"
	}
	return utils.Success(c, status, fiber.Map{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"db":        db,
	}, message)
}
