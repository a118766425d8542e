package handlers

import (
	"github.com/arzan03/PaperBot/internal/dto"
	"github.com/arzan03/PaperBot/internal/middleware"
	"github.com/arzan03/PaperBot/internal/utils"
	"github.com/arzan03/PaperBot/internal/validators"
	"github.com/gofiber/fiber/v2"
)

// Admin-only user management. Users are never hard-deleted.

func (h *UserHandler) ListUsers(c *fiber.Ctx) error {
	page, err := h.auth.ListUsers(c.UserContext(), c.Queries())
	if err != nil {
		return err
	}
	return utils.Success(c, fiber.StatusOK, page, "Users fetched successfully")
}

func (h *UserHandler) GetUser(c *fiber.Ctx) error {
	user, err := h.auth.GetUser(c.UserContext(), paramID(c, "userId"))
	if err != nil {
		return err
	}
	return utils.Success(c, fiber.StatusOK, user, "User fetched successfully")
}

func (h *UserHandler) AssignRole(c *fiber.Ctx) error {
	req := validators.Parsed[dto.AssignRoleRequest](c)
	user, err := h.auth.AssignRole(c.UserContext(), paramID(c, "userId"), req.Role)
	if err != nil {
		return err
	}
	return utils.Success(c, fiber.StatusOK, user, "Role changed for the user")
}

func (h *UserHandler) SetStatus(c *fiber.Ctx) error {
	req := validators.Parsed[dto.StatusRequest](c)
	user, err := h.auth.SetUserActive(c.UserContext(), middleware.UserID(c), paramID(c, "userId"), *req.IsActive)
	if err != nil {
		return err
	}
	return utils.Success(c, fiber.StatusOK, user, "User status updated successfully")
}
