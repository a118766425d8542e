package handlers

import (
	"github.com/arzan03/PaperBot/internal/dto"
	"github.com/arzan03/PaperBot/internal/middleware"
	"github.com/arzan03/PaperBot/internal/services"
	"github.com/arzan03/PaperBot/internal/utils"
	"github.com/arzan03/PaperBot/internal/validators"
	"github.com/gofiber/fiber/v2"
)

type QuestionTypeHandler struct {
	types *services.QuestionTypeService
}

func NewQuestionTypeHandler(types *services.QuestionTypeService) *QuestionTypeHandler {
	return &QuestionTypeHandler{types: types}
}

func (h *QuestionTypeHandler) List(c *fiber.Ctx) error {
	page, err := h.types.List(c.UserContext(), c.Queries())
	if err != nil {
		return err
	}
	return utils.Success(c, fiber.StatusOK, page, "Question types fetched successfully")
}

// Create is open to every signed-in user; only admins create active types.
func (h *QuestionTypeHandler) Create(c *fiber.Ctx) error {
	req := validators.Parsed[dto.QuestionTypeRequest](c)
	qt, err := h.types.Create(c.UserContext(), middleware.UserID(c), middleware.Role(c), req)
	if err != nil {
		return err
	}
	return utils.Success(c, fiber.StatusCreated, qt, "Question type created successfully")
}

func (h *QuestionTypeHandler) Get(c *fiber.Ctx) error {
	qt, err := h.types.Get(c.UserContext(), paramID(c, "id"))
	if err != nil {
		return err
	}
	return utils.Success(c, fiber.StatusOK, qt, "Question type fetched successfully")
}

func (h *QuestionTypeHandler) Update(c *fiber.Ctx) error {
	req := validators.Parsed[dto.UpdateQuestionTypeRequest](c)
	qt, err := h.types.Update(c.UserContext(), paramID(c, "id"), req)
	if err != nil {
		return err
	}
	return utils.Success(c, fiber.StatusOK, qt, "Question type updated successfully")
}

func (h *QuestionTypeHandler) Delete(c *fiber.Ctx) error {
	if err := h.types.Delete(c.UserContext(), paramID(c, "id")); err != nil {
		return err
	}
	return utils.Success(c, fiber.StatusOK, nil, "Question type deleted successfully")
}
