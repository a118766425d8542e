package services

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/arzan03/PaperBot/internal/apperr"
	"github.com/arzan03/PaperBot/internal/constants"
	"github.com/arzan03/PaperBot/internal/dto"
	"github.com/arzan03/PaperBot/internal/models"
	"github.com/arzan03/PaperBot/internal/querybuilder"
	"github.com/arzan03/PaperBot/internal/repository"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// QuestionTypeService manages the shared question-type catalogue.
type QuestionTypeService struct {
	types repository.QuestionTypeRepository
}

func NewQuestionTypeService(types repository.QuestionTypeRepository) *QuestionTypeService {
	return &QuestionTypeService{types: types}
}

func normalizeTypeName(name string) string {
	return strings.ToUpper(strings.TrimSpace(name))
}

func (s *QuestionTypeService) List(ctx context.Context, params map[string]string) (*models.Page[models.GlobalQuestionType], error) {
	return s.types.List(ctx, querybuilder.ForQuestionTypes(params))
}

// Create adds a catalogue entry. Entries proposed by non-admins start inactive.
func (s *QuestionTypeService) Create(ctx context.Context, actor primitive.ObjectID, role string, req *dto.QuestionTypeRequest) (*models.GlobalQuestionType, error) {
	name := normalizeTypeName(req.Name)
	if err := s.ensureNameFree(ctx, name, primitive.NilObjectID); err != nil {
		return nil, err
	}
	qt := &models.GlobalQuestionType{
		Name:        name,
		Description: strings.TrimSpace(req.Description),
		CreatedBy:   actor,
		IsActive:    constants.IsAdmin(role),
	}
	if err := s.types.Create(ctx, qt); err != nil {
		return nil, err
	}
	return qt, nil
}

func (s *QuestionTypeService) ensureNameFree(ctx context.Context, name string, self primitive.ObjectID) error {
	existing, err := s.types.FindOne(ctx, bson.M{"name": name})
	if errors.Is(err, repository.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if existing.ID != self {
		return apperr.New(http.StatusConflict, "Question type "+name+" already exists")
	}
	return nil
}

func (s *QuestionTypeService) Get(ctx context.Context, id primitive.ObjectID) (*models.GlobalQuestionType, error) {
	qt, err := s.types.FindOne(ctx, bson.M{"_id": id, "isActive": true})
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperr.NotFound("Question type not found")
	}
	return qt, err
}

func (s *QuestionTypeService) Update(ctx context.Context, id primitive.ObjectID, req *dto.UpdateQuestionTypeRequest) (*models.GlobalQuestionType, error) {
	set := bson.M{}
	if req.Name != nil {
		name := normalizeTypeName(*req.Name)
		if err := s.ensureNameFree(ctx, name, id); err != nil {
			return nil, err
		}
		set["name"] = name
	}
	if req.Description != nil {
		set["description"] = strings.TrimSpace(*req.Description)
	}
	if req.IsActive != nil {
		set["isActive"] = *req.IsActive
	}

	qt, err := s.types.Update(ctx, id, set)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperr.NotFound("Question type not found")
	}
	return qt, err
}

// Delete only deactivates the entry; subjects may still reference its name.
func (s *QuestionTypeService) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := s.types.Update(ctx, id, bson.M{"isActive": false})
	if errors.Is(err, repository.ErrNotFound) {
		return apperr.NotFound("Question type not found")
	}
	return err
}
