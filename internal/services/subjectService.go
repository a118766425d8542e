package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/arzan03/PaperBot/internal/apperr"
	"github.com/arzan03/PaperBot/internal/constants"
	"github.com/arzan03/PaperBot/internal/db"
	"github.com/arzan03/PaperBot/internal/dto"
	"github.com/arzan03/PaperBot/internal/models"
	"github.com/arzan03/PaperBot/internal/querybuilder"
	"github.com/arzan03/PaperBot/internal/repository"
	"github.com/arzan03/PaperBot/internal/utils"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// unitSyncRetries is how many extra reconciliation passes follow a failed unit fan-out.
const unitSyncRetries = 2

// QuestionCollections creates and drops the physical per-subject question collections.
type QuestionCollections interface {
	Exists(ctx context.Context, name string) (bool, error)
	Create(ctx context.Context, name string) (*mongo.Collection, error)
	Drop(ctx context.Context, name string) error
}

type SubjectService struct {
	subjects      repository.SubjectRepository
	questions     repository.QuestionRepository
	users         repository.UserRepository
	questionTypes repository.QuestionTypeRepository
	collections   QuestionCollections
}

func NewSubjectService(
	subjects repository.SubjectRepository,
	questions repository.QuestionRepository,
	users repository.UserRepository,
	questionTypes repository.QuestionTypeRepository,
	collections QuestionCollections,
) *SubjectService {
	return &SubjectService{
		subjects:      subjects,
		questions:     questions,
		users:         users,
		questionTypes: questionTypes,
		collections:   collections,
	}
}

func (s *SubjectService) subject(ctx context.Context, id primitive.ObjectID) (*models.Subject, error) {
	subject, err := s.subjects.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperr.NotFound("Subject not found")
	}
	return subject, err
}

func (s *SubjectService) List(ctx context.Context, params map[string]string) (*models.Page[models.Subject], error) {
	return s.subjects.List(ctx, querybuilder.ForSubjects(params))
}

// Create stores the subject and its empty question collection. The derived
// model name must be new.
func (s *SubjectService) Create(ctx context.Context, actor primitive.ObjectID, req *dto.CreateSubjectRequest) (*models.Subject, error) {
	code := strings.TrimSpace(req.Code)
	modelName := models.GenerateModelName(req.Board, req.Standard, req.Name, code, req.Medium)
	if err := s.ensureModelNameFree(ctx, modelName); err != nil {
		return nil, err
	}

	subject := &models.Subject{
		Board:     req.Board,
		Standard:  req.Standard,
		Name:      req.Name,
		Code:      code,
		Medium:    req.Medium,
		ModelName: modelName,
		CreatedBy: actor,
		IsActive:  true,
	}
	if req.Price != nil {
		subject.Price = *req.Price
	}
	if req.IsSequenceRequired != nil {
		subject.IsSequenceRequired = *req.IsSequenceRequired
	}
	if err := s.subjects.Create(ctx, subject); err != nil {
		return nil, err
	}

	if _, err := s.collections.Create(ctx, modelName); err != nil {
		if delErr := s.subjects.Delete(ctx, subject.ID); delErr != nil {
			slog.Error("failed to roll back subject", "subject_id", subject.ID.Hex(), "error", delErr)
		}
		return nil, err
	}
	return subject, nil
}

func (s *SubjectService) ensureModelNameFree(ctx context.Context, modelName string) error {
	_, err := s.subjects.FindByModelName(ctx, modelName)
	if err == nil {
		return apperr.BadRequest("Subject already exists with model name %s", modelName)
	}
	if errors.Is(err, repository.ErrNotFound) {
		return nil
	}
	return err
}

// Get returns the subject with its schools and creator resolved.
func (s *SubjectService) Get(ctx context.Context, id primitive.ObjectID) (*models.SubjectDetail, error) {
	subject, err := s.subject(ctx, id)
	if err != nil {
		return nil, err
	}

	detail := &models.SubjectDetail{Subject: subject, Schools: []models.UserRef{}}
	err = utils.RunParallelTasks(
		func() error {
			schools, err := s.users.FindByIDs(ctx, subject.Schools)
			if err != nil {
				return err
			}
			for i := range schools {
				detail.Schools = append(detail.Schools, schools[i].Ref())
			}
			return nil
		},
		func() error {
			creator, err := s.users.FindByID(ctx, subject.CreatedBy)
			if errors.Is(err, repository.ErrNotFound) {
				return nil
			}
			if err != nil {
				return err
			}
			ref := creator.Ref()
			detail.CreatedBy = &ref
			return nil
		},
	)
	if err != nil {
		return nil, err
	}
	return detail, nil
}

// Update changes the mutable fields. The identity fields feed the model
// name, so they may only change while no question collection exists for it.
func (s *SubjectService) Update(ctx context.Context, id primitive.ObjectID, req *dto.UpdateSubjectRequest) (*models.Subject, error) {
	subject, err := s.subject(ctx, id)
	if err != nil {
		return nil, err
	}

	set := bson.M{}
	board, standard, name, code, medium := subject.Board, subject.Standard, subject.Name, subject.Code, subject.Medium
	if req.Board != nil {
		board = *req.Board
	}
	if req.Standard != nil {
		standard = *req.Standard
	}
	if req.Name != nil {
		name = *req.Name
	}
	if req.Code != nil {
		code = strings.TrimSpace(*req.Code)
	}
	if req.Medium != nil {
		medium = *req.Medium
	}

	var newModel string
	if modelName := models.GenerateModelName(board, standard, name, code, medium); modelName != subject.ModelName {
		exists, err := s.collections.Exists(ctx, subject.ModelName)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, apperr.BadRequest("board, standard, name, code and medium cannot change once the subject has a question collection")
		}
		if err := s.ensureModelNameFree(ctx, modelName); err != nil {
			return nil, err
		}
		newModel = modelName
		set["board"], set["standard"], set["name"], set["code"], set["medium"] = board, standard, name, code, medium
		set["model_name"] = modelName
	}

	if req.Price != nil {
		set["price"] = *req.Price
	}
	if req.IsSequenceRequired != nil {
		set["isSequenceRequired"] = *req.IsSequenceRequired
	}
	if req.Outlines != nil {
		outlines := make([]models.Outline, 0, len(*req.Outlines))
		for _, o := range *req.Outlines {
			outlineID, _ := primitive.ObjectIDFromHex(o.OutlineID)
			outlines = append(outlines, models.Outline{Marks: o.Marks, OutlineID: outlineID})
		}
		set["outlines"] = outlines
	}

	updated, err := s.subjects.Update(ctx, id, set)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperr.NotFound("Subject not found")
	}
	if err != nil {
		return nil, err
	}
	if newModel != "" {
		if _, err := s.collections.Create(ctx, newModel); err != nil {
			return nil, err
		}
	}
	return updated, nil
}

// Delete removes a subject whose question collection is empty, and the collection with it.
func (s *SubjectService) Delete(ctx context.Context, id primitive.ObjectID) error {
	subject, err := s.subject(ctx, id)
	if err != nil {
		return err
	}

	count, err := s.questions.Count(ctx, subject.ModelName)
	if err != nil && !errors.Is(err, db.ErrCollectionNotFound) {
		return err
	}
	if count > 0 {
		return apperr.BadRequest("Subject still has %d questions; delete them first", count)
	}

	if err := s.subjects.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.NotFound("Subject not found")
		}
		return err
	}
	if err := s.collections.Drop(ctx, subject.ModelName); err != nil {
		return fmt.Errorf("subject deleted but its question collection was not: %w", err)
	}
	return nil
}

// AddSchool links a school account to the subject; adding it twice is a no-op.
func (s *SubjectService) AddSchool(ctx context.Context, id, schoolID primitive.ObjectID) (*models.Subject, error) {
	if _, err := s.users.FindByID(ctx, schoolID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.NotFound("School not found")
		}
		return nil, err
	}
	subject, err := s.subjects.AddSchool(ctx, id, schoolID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperr.NotFound("Subject not found")
	}
	return subject, err
}

func (s *SubjectService) RemoveSchool(ctx context.Context, id, schoolID primitive.ObjectID) (*models.Subject, error) {
	subject, err := s.subjects.RemoveSchool(ctx, id, schoolID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperr.NotFound("Subject not found")
	}
	return subject, err
}

func (s *SubjectService) SetStatus(ctx context.Context, id primitive.ObjectID, active bool) (*models.Subject, error) {
	subject, err := s.subjects.Update(ctx, id, bson.M{"isActive": active})
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperr.NotFound("Subject not found")
	}
	return subject, err
}

// UpsertUnits adds units without an _id and updates the ones with a known _id.
// Units whose active flag changed have it copied onto their questions.
func (s *SubjectService) UpsertUnits(ctx context.Context, id primitive.ObjectID, reqs []dto.UnitRequest) (*models.Subject, error) {
	subject, err := s.subject(ctx, id)
	if err != nil {
		return nil, err
	}

	units := append([]models.Unit(nil), subject.Units...)
	var changed []models.Unit
	for _, r := range reqs {
		unit := models.Unit{Number: r.Number, Name: strings.TrimSpace(r.Name), IsActive: *r.IsActive}
		if r.ID == "" {
			unit.ID = primitive.NewObjectID()
			units = append(units, unit)
			continue
		}

		unit.ID, _ = primitive.ObjectIDFromHex(r.ID)
		i := indexOfUnit(units, unit.ID)
		if i < 0 {
			return nil, apperr.BadRequest("Unit %s does not belong to this subject", r.ID)
		}
		if units[i].IsActive != unit.IsActive {
			changed = append(changed, unit)
		}
		units[i] = unit
	}

	updated, err := s.subjects.Update(ctx, id, bson.M{"units": units})
	if err != nil {
		return nil, err
	}
	if _, err := s.syncUnits(ctx, updated.ModelName, changed); err != nil {
		return nil, err
	}
	return updated, nil
}

func indexOfUnit(units []models.Unit, id primitive.ObjectID) int {
	for i, u := range units {
		if u.ID == id {
			return i
		}
	}
	return -1
}

// ReconcileUnits re-applies every unit's flag to its questions and reports
// how many questions had drifted.
func (s *SubjectService) ReconcileUnits(ctx context.Context, id primitive.ObjectID) (int64, error) {
	subject, err := s.subject(ctx, id)
	if err != nil {
		return 0, err
	}
	return s.syncUnits(ctx, subject.ModelName, subject.Units)
}

// syncUnits fans unit flags out to questions. The batch is idempotent, so a
// failed pass is simply repeated.
func (s *SubjectService) syncUnits(ctx context.Context, modelName string, units []models.Unit) (int64, error) {
	if len(units) == 0 {
		return 0, nil
	}
	var total int64
	var err error
	for attempt := 0; attempt <= unitSyncRetries; attempt++ {
		var modified int64
		modified, err = s.questions.SyncUnitStatus(ctx, modelName, units)
		total += modified
		if err == nil || errors.Is(err, db.ErrCollectionNotFound) {
			return total, nil
		}
		slog.Warn("unit status sync failed", "model", modelName, "attempt", attempt+1, "error", err)
	}
	slog.Error("unit status sync gave up", "model", modelName, "error", err)
	return total, apperr.Internal("Units were saved but their questions could not be updated; run unit reconciliation")
}

// UpsertQuestionTypes adds question types without an _id and updates known ones.
func (s *SubjectService) UpsertQuestionTypes(ctx context.Context, id primitive.ObjectID, items []dto.QuestionTypeItem) (*models.Subject, error) {
	subject, err := s.subject(ctx, id)
	if err != nil {
		return nil, err
	}

	types := append([]models.QuestionType(nil), subject.QuestionTypes...)
	for _, item := range items {
		qt := models.QuestionType{Name: strings.TrimSpace(item.Name), Description: strings.TrimSpace(item.Description)}
		if item.ID == "" {
			qt.ID = primitive.NewObjectID()
			types = append(types, qt)
			continue
		}
		qt.ID, _ = primitive.ObjectIDFromHex(item.ID)
		found := false
		for i := range types {
			if types[i].ID == qt.ID {
				types[i] = qt
				found = true
				break
			}
		}
		if !found {
			return nil, apperr.BadRequest("Question type %s does not belong to this subject", item.ID)
		}
	}

	return s.subjects.Update(ctx, id, bson.M{"questionTypes": types})
}

// Filters lists the values accepted by the subject and question filters.
func (s *SubjectService) Filters(ctx context.Context) (*dto.Filters, error) {
	types, err := s.questionTypes.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	return &dto.Filters{
		Boards:        constants.Boards,
		Subjects:      constants.Subjects,
		Mediums:       constants.Mediums,
		Standards:     constants.Standards,
		QuestionTypes: types,
	}, nil
}
