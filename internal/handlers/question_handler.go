package handlers

import (
	"github.com/arzan03/PaperBot/internal/dto"
	"github.com/arzan03/PaperBot/internal/middleware"
	"github.com/arzan03/PaperBot/internal/services"
	"github.com/arzan03/PaperBot/internal/utils"
	"github.com/arzan03/PaperBot/internal/validators"
	"github.com/gofiber/fiber/v2"
)

// QuestionHandler serves /questions/:modelName, one subject's collection at a time.
type QuestionHandler struct {
	questions *services.QuestionService
}

func NewQuestionHandler(questions *services.QuestionService) *QuestionHandler {
	return &QuestionHandler{questions: questions}
}

func (h *QuestionHandler) List(c *fiber.Ctx) error {
	page, err := h.questions.List(c.UserContext(), c.Params("modelName"), c.Queries(), middleware.Role(c))
	if err != nil {
		return err
	}
	return utils.Success(c, fiber.StatusOK, page, "Questions fetched successfully")
}

func (h *QuestionHandler) Create(c *fiber.Ctx) error {
	req := validators.Parsed[dto.CreateQuestionRequest](c)
	question, err := h.questions.Create(c.UserContext(), c.Params("modelName"), middleware.UserID(c), req)
	if err != nil {
		return err
	}
	return utils.Success(c, fiber.StatusCreated, question, "Question created successfully")
}

func (h *QuestionHandler) Get(c *fiber.Ctx) error {
	question, err := h.questions.Get(c.UserContext(), c.Params("modelName"), paramID(c, "id"), middleware.Role(c))
	if err != nil {
		return err
	}
	return utils.Success(c, fiber.StatusOK, question, "Question fetched successfully")
}

func (h *QuestionHandler) Update(c *fiber.Ctx) error {
	req := validators.Parsed[dto.UpdateQuestionRequest](c)
	question, err := h.questions.Update(c.UserContext(), c.Params("modelName"), paramID(c, "id"), req)
	if err != nil {
		return err
	}
	return utils.Success(c, fiber.StatusOK, question, "Question updated successfully")
}

func (h *QuestionHandler) Delete(c *fiber.Ctx) error {
	if err := h.questions.Delete(c.UserContext(), c.Params("modelName"), paramID(c, "id")); err != nil {
		return err
	}
	return utils.Success(c, fiber.StatusOK, nil, "Question deleted successfully")
}

func (h *QuestionHandler) ToggleStatus(c *fiber.Ctx) error {
	req := validators.Parsed[dto.ToggleQuestionRequest](c)
	question, err := h.questions.ToggleStatus(c.UserContext(), c.Params("modelName"), paramID(c, "id"), req.IsActive)
	if err != nil {
		return err
	}
	return utils.Success(c, fiber.StatusOK, question, "Question status updated successfully")
}

func (h *QuestionHandler) Verify(c *fiber.Ctx) error {
	req := validators.Parsed[dto.VerifyQuestionRequest](c)
	question, err := h.questions.SetVerified(c.UserContext(), c.Params("modelName"), paramID(c, "id"), *req.IsVerified)
	if err != nil {
		return err
	}
	return utils.Success(c, fiber.StatusOK, question, "Question verification updated successfully")
}
