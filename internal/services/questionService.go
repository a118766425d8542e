package services

import (
	"context"
	"errors"
	"strings"

	"github.com/arzan03/PaperBot/internal/apperr"
	"github.com/arzan03/PaperBot/internal/db"
	"github.com/arzan03/PaperBot/internal/dto"
	"github.com/arzan03/PaperBot/internal/models"
	"github.com/arzan03/PaperBot/internal/querybuilder"
	"github.com/arzan03/PaperBot/internal/repository"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// QuestionService manages the questions of one subject at a time, addressed
// by the subject's model name.
type QuestionService struct {
	subjects  repository.SubjectRepository
	questions repository.QuestionRepository
}

func NewQuestionService(subjects repository.SubjectRepository, questions repository.QuestionRepository) *QuestionService {
	return &QuestionService{subjects: subjects, questions: questions}
}

func collectionNotFound(model string) error {
	return apperr.NotFound("Question collection %s not found", model)
}

// owner loads the subject that owns the collection. The collection handle is
// always derived from the persisted model name, never from process state.
func (s *QuestionService) owner(ctx context.Context, model string) (*models.Subject, error) {
	subject, err := s.subjects.FindByModelName(ctx, strings.ToLower(model))
	if errors.Is(err, repository.ErrNotFound) {
		return nil, collectionNotFound(model)
	}
	return subject, err
}

func (s *QuestionService) translate(model string, err error) error {
	switch {
	case errors.Is(err, db.ErrCollectionNotFound):
		return collectionNotFound(model)
	case errors.Is(err, repository.ErrNotFound):
		return apperr.NotFound("Question not found")
	}
	return err
}

func (s *QuestionService) List(ctx context.Context, model string, params map[string]string, role string) (*models.Page[models.Question], error) {
	subject, err := s.owner(ctx, model)
	if err != nil {
		return nil, err
	}
	page, err := s.questions.List(ctx, subject.ModelName, querybuilder.ForQuestions(params, role, subject.QuestionTypeIDs()))
	if err != nil {
		return nil, s.translate(model, err)
	}
	return page, nil
}

// Get hides inactive or unverified questions from non-admins.
func (s *QuestionService) Get(ctx context.Context, model string, id primitive.ObjectID, role string) (*models.Question, error) {
	subject, err := s.owner(ctx, model)
	if err != nil {
		return nil, err
	}
	filter := querybuilder.VisibleTo(role)
	filter["_id"] = id
	question, err := s.questions.FindOne(ctx, subject.ModelName, filter)
	if err != nil {
		return nil, s.translate(model, err)
	}
	return question, nil
}

// Create stores a new unverified question. It starts active only when its unit is.
func (s *QuestionService) Create(ctx context.Context, model string, actor primitive.ObjectID, req *dto.CreateQuestionRequest) (*models.Question, error) {
	subject, err := s.owner(ctx, model)
	if err != nil {
		return nil, err
	}
	unit, err := unitOf(subject, req.Unit)
	if err != nil {
		return nil, err
	}
	typeID, err := questionTypeOf(subject, req.Type)
	if err != nil {
		return nil, err
	}

	question := &models.Question{
		Type:        typeID,
		IsFormatted: *req.IsFormatted,
		Question:    req.Question,
		Answer:      req.Answer,
		Details:     req.Details,
		Marks:       *req.Marks,
		Unit:        unit.ID,
		IsActive:    unit.IsActive,
		IsVerified:  false,
		CreatedBy:   actor,
	}
	if err := s.questions.Create(ctx, subject.ModelName, question); err != nil {
		return nil, s.translate(model, err)
	}
	return question, nil
}

func unitOf(subject *models.Subject, raw string) (models.Unit, error) {
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		return models.Unit{}, apperr.Validation("unit must be a valid id")
	}
	unit, ok := subject.Unit(id)
	if !ok {
		return models.Unit{}, apperr.BadRequest("Unit %s does not belong to this subject", raw)
	}
	return unit, nil
}

func questionTypeOf(subject *models.Subject, raw string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		return primitive.NilObjectID, apperr.Validation("type must be a valid id")
	}
	if _, ok := subject.QuestionType(id); !ok {
		return primitive.NilObjectID, apperr.BadRequest("Question type %s does not belong to this subject", raw)
	}
	return id, nil
}

func (s *QuestionService) Update(ctx context.Context, model string, id primitive.ObjectID, req *dto.UpdateQuestionRequest) (*models.Question, error) {
	subject, err := s.owner(ctx, model)
	if err != nil {
		return nil, err
	}
	current, err := s.questions.FindOne(ctx, subject.ModelName, bson.M{"_id": id})
	if err != nil {
		return nil, s.translate(model, err)
	}

	set := bson.M{}
	unit, unitKnown := subject.Unit(current.Unit)
	if req.Unit != nil {
		if unit, err = unitOf(subject, *req.Unit); err != nil {
			return nil, err
		}
		unitKnown = true
		set["unit"] = unit.ID
		// Moving into an inactive unit deactivates the question.
		if !unit.IsActive {
			set["isActive"] = false
		}
	}
	if req.Type != nil {
		typeID, err := questionTypeOf(subject, *req.Type)
		if err != nil {
			return nil, err
		}
		set["type"] = typeID
	}
	if req.IsActive != nil {
		if *req.IsActive && (!unitKnown || !unit.IsActive) {
			return nil, apperr.BadRequest("Cannot activate a question while its unit is inactive")
		}
		set["isActive"] = *req.IsActive
	}
	if req.Question != nil {
		set["question"] = *req.Question
	}
	if req.Answer != nil {
		set["answer"] = *req.Answer
	}
	if req.Details != nil {
		set["queDetails"] = *req.Details
	}
	if req.Marks != nil {
		set["marks"] = *req.Marks
	}
	if req.IsFormatted != nil {
		set["isFormatted"] = *req.IsFormatted
	}
	if req.IsVerified != nil {
		set["isVerified"] = *req.IsVerified
	}

	updated, err := s.questions.Update(ctx, subject.ModelName, id, set)
	if err != nil {
		return nil, s.translate(model, err)
	}
	return updated, nil
}

func (s *QuestionService) Delete(ctx context.Context, model string, id primitive.ObjectID) error {
	subject, err := s.owner(ctx, model)
	if err != nil {
		return err
	}
	if err := s.questions.Delete(ctx, subject.ModelName, id); err != nil {
		return s.translate(model, err)
	}
	return nil
}

// ToggleStatus sets the active flag, or flips it when active is nil.
// Activation requires the question's unit to be active; deactivation always succeeds.
func (s *QuestionService) ToggleStatus(ctx context.Context, model string, id primitive.ObjectID, active *bool) (*models.Question, error) {
	subject, err := s.owner(ctx, model)
	if err != nil {
		return nil, err
	}
	question, err := s.questions.FindOne(ctx, subject.ModelName, bson.M{"_id": id})
	if err != nil {
		return nil, s.translate(model, err)
	}

	target := !question.IsActive
	if active != nil {
		target = *active
	}
	if target {
		unit, ok := subject.Unit(question.Unit)
		if !ok {
			return nil, apperr.BadRequest("The question's unit no longer exists")
		}
		if !unit.IsActive {
			return nil, apperr.BadRequest("Cannot activate a question while its unit is inactive")
		}
	}

	updated, err := s.questions.Update(ctx, subject.ModelName, id, bson.M{"isActive": target})
	if err != nil {
		return nil, s.translate(model, err)
	}
	return updated, nil
}

func (s *QuestionService) SetVerified(ctx context.Context, model string, id primitive.ObjectID, verified bool) (*models.Question, error) {
	subject, err := s.owner(ctx, model)
	if err != nil {
		return nil, err
	}
	updated, err := s.questions.Update(ctx, subject.ModelName, id, bson.M{"isVerified": verified})
	if err != nil {
		return nil, s.translate(model, err)
	}
	return updated, nil
}
