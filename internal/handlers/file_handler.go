package handlers

import (
	"fmt"

	"github.com/arzan03/PaperBot/internal/apperr"
	"github.com/arzan03/PaperBot/internal/middleware"
	"github.com/arzan03/PaperBot/internal/utils"
	"github.com/gofiber/fiber/v2"
)

// UpdateAvatar takes the multipart "avatar" file and stores it in object storage.
func (h *UserHandler) UpdateAvatar(c *fiber.Ctx) error {
	file, err := c.FormFile("avatar")
	if err != nil {
		return apperr.Validation("avatar is required")
	}

	src, err := file.Open()
	if err != nil {
		return fmt.Errorf("open avatar upload: %w", err)
	}
	defer src.Close()

	user, err := h.auth.UpdateAvatar(c.UserContext(), middleware.UserID(c),
		file.Filename, file.Header.Get(fiber.HeaderContentType), src, file.Size)
	if err != nil {
		return err
	}
	return utils.Success(c, fiber.StatusOK, user, "Avatar updated successfully")
}
