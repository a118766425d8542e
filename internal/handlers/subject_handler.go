package handlers

import (
	"github.com/arzan03/PaperBot/internal/dto"
	"github.com/arzan03/PaperBot/internal/middleware"
	"github.com/arzan03/PaperBot/internal/services"
	"github.com/arzan03/PaperBot/internal/utils"
	"github.com/arzan03/PaperBot/internal/validators"
	"github.com/gofiber/fiber/v2"
)

type SubjectHandler struct {
	subjects *services.SubjectService
}

func NewSubjectHandler(subjects *services.SubjectService) *SubjectHandler {
	return &SubjectHandler{subjects: subjects}
}

func (h *SubjectHandler) List(c *fiber.Ctx) error {
	page, err := h.subjects.List(c.UserContext(), c.Queries())
	if err != nil {
		return err
	}
	return utils.Success(c, fiber.StatusOK, page, "Subjects fetched successfully")
}

func (h *SubjectHandler) Create(c *fiber.Ctx) error {
	req := validators.Parsed[dto.CreateSubjectRequest](c)
	subject, err := h.subjects.Create(c.UserContext(), middleware.UserID(c), req)
	if err != nil {
		return err
	}
	return utils.Success(c, fiber.StatusCreated, subject, "Subject created successfully")
}

func (h *SubjectHandler) Get(c *fiber.Ctx) error {
	subject, err := h.subjects.Get(c.UserContext(), paramID(c, "id"))
	if err != nil {
		return err
	}
	return utils.Success(c, fiber.StatusOK, subject, "Subject fetched successfully")
}

func (h *SubjectHandler) Update(c *fiber.Ctx) error {
	req := validators.Parsed[dto.UpdateSubjectRequest](c)
	subject, err := h.subjects.Update(c.UserContext(), paramID(c, "id"), req)
	if err != nil {
		return err
	}
	return utils.Success(c, fiber.StatusOK, subject, "Subject updated successfully")
}

func (h *SubjectHandler) Delete(c *fiber.Ctx) error {
	if err := h.subjects.Delete(c.UserContext(), paramID(c, "id")); err != nil {
		return err
	}
	return utils.Success(c, fiber.StatusOK, nil, "Subject deleted successfully")
}

func (h *SubjectHandler) AddSchool(c *fiber.Ctx) error {
	req := validators.Parsed[dto.SchoolRequest](c)
	subject, err := h.subjects.AddSchool(c.UserContext(), paramID(c, "id"), schoolID(req.SchoolID))
	if err != nil {
		return err
	}
	return utils.Success(c, fiber.StatusOK, subject, "School added successfully")
}

func (h *SubjectHandler) RemoveSchool(c *fiber.Ctx) error {
	req := validators.Parsed[dto.SchoolRequest](c)
	subject, err := h.subjects.RemoveSchool(c.UserContext(), paramID(c, "id"), schoolID(req.SchoolID))
	if err != nil {
		return err
	}
	return utils.Success(c, fiber.StatusOK, subject, "School removed successfully")
}

func (h *SubjectHandler) SetStatus(c *fiber.Ctx) error {
	req := validators.Parsed[dto.StatusRequest](c)
	subject, err := h.subjects.SetStatus(c.UserContext(), paramID(c, "id"), *req.IsActive)
	if err != nil {
		return err
	}
	return utils.Success(c, fiber.StatusOK, subject, "Subject status updated successfully")
}

func (h *SubjectHandler) UpsertUnits(c *fiber.Ctx) error {
	req := validators.Parsed[dto.UnitsRequest](c)
	subject, err := h.subjects.UpsertUnits(c.UserContext(), paramID(c, "id"), req.Units)
	if err != nil {
		return err
	}
	return utils.Success(c, fiber.StatusOK, subject.Units, "Units added successfully")
}

func (h *SubjectHandler) ReconcileUnits(c *fiber.Ctx) error {
	modified, err := h.subjects.ReconcileUnits(c.UserContext(), paramID(c, "id"))
	if err != nil {
		return err
	}
	return utils.Success(c, fiber.StatusOK, fiber.Map{"modified": modified}, "Unit status reconciled successfully")
}

func (h *SubjectHandler) UpsertQuestionTypes(c *fiber.Ctx) error {
	req := validators.Parsed[dto.QuestionTypesRequest](c)
	subject, err := h.subjects.UpsertQuestionTypes(c.UserContext(), paramID(c, "id"), req.QuestionTypes)
	if err != nil {
		return err
	}
	return utils.Success(c, fiber.StatusOK, subject.QuestionTypes, "Question types updated successfully")
}

func (h *SubjectHandler) Filters(c *fiber.Ctx) error {
	filters, err := h.subjects.Filters(c.UserContext())
	if err != nil {
		return err
	}
	return utils.Success(c, fiber.StatusOK, filters, "All Filters fetched successfully")
}
