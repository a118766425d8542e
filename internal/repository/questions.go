package repository

import (
	"context"
	"fmt"

	"github.com/arzan03/PaperBot/internal/db"
	"github.com/arzan03/PaperBot/internal/models"
	"github.com/arzan03/PaperBot/internal/querybuilder"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// QuestionRepository reads and writes the question collection named by model.
// Every call resolves model through the registry, so a missing collection
// surfaces as db.ErrCollectionNotFound.
type QuestionRepository interface {
	List(ctx context.Context, model string, q querybuilder.Query) (*models.Page[models.Question], error)
	Create(ctx context.Context, model string, question *models.Question) error
	FindOne(ctx context.Context, model string, filter bson.M) (*models.Question, error)
	Update(ctx context.Context, model string, id primitive.ObjectID, set bson.M) (*models.Question, error)
	Delete(ctx context.Context, model string, id primitive.ObjectID) error
	Count(ctx context.Context, model string) (int64, error)
	SyncUnitStatus(ctx context.Context, model string, units []models.Unit) (int64, error)
}

type mongoQuestions struct {
	registry *db.QuestionRegistry
}

func NewQuestionRepository(registry *db.QuestionRegistry) QuestionRepository {
	return &mongoQuestions{registry: registry}
}

func (r *mongoQuestions) List(ctx context.Context, model string, q querybuilder.Query) (*models.Page[models.Question], error) {
	coll, err := r.registry.Resolve(ctx, model)
	if err != nil {
		return nil, err
	}
	return aggregatePage[models.Question](ctx, coll, q)
}

func (r *mongoQuestions) Create(ctx context.Context, model string, question *models.Question) error {
	coll, err := r.registry.Resolve(ctx, model)
	if err != nil {
		return err
	}
	stamp(&question.ID, &question.CreatedAt, &question.UpdatedAt)
	_, err = coll.InsertOne(ctx, question)
	return err
}

func (r *mongoQuestions) FindOne(ctx context.Context, model string, filter bson.M) (*models.Question, error) {
	coll, err := r.registry.Resolve(ctx, model)
	if err != nil {
		return nil, err
	}
	return findOne[models.Question](ctx, coll, filter)
}

func (r *mongoQuestions) Update(ctx context.Context, model string, id primitive.ObjectID, set bson.M) (*models.Question, error) {
	coll, err := r.registry.Resolve(ctx, model)
	if err != nil {
		return nil, err
	}
	return updateByID[models.Question](ctx, coll, id, bson.M{"$set": set})
}

func (r *mongoQuestions) Delete(ctx context.Context, model string, id primitive.ObjectID) error {
	coll, err := r.registry.Resolve(ctx, model)
	if err != nil {
		return err
	}
	return deleteByID(ctx, coll, id)
}

func (r *mongoQuestions) Count(ctx context.Context, model string) (int64, error) {
	coll, err := r.registry.Resolve(ctx, model)
	if err != nil {
		return 0, err
	}
	return coll.CountDocuments(ctx, bson.M{})
}

// SyncUnitStatus copies each unit's active flag onto its questions in one
// unordered batch. Only questions that disagree with their unit are touched,
// so repeating the call after a partial failure finishes the job.
func (r *mongoQuestions) SyncUnitStatus(ctx context.Context, model string, units []models.Unit) (int64, error) {
	if len(units) == 0 {
		return 0, nil
	}
	coll, err := r.registry.Resolve(ctx, model)
	if err != nil {
		return 0, err
	}

	writes := UnitStatusWrites(units)
	res, err := coll.BulkWrite(ctx, writes, options.BulkWrite().SetOrdered(false))
	if err != nil {
		var modified int64
		if res != nil {
			modified = res.ModifiedCount
		}
		return modified, fmt.Errorf("sync unit status on %s: %w", model, err)
	}
	return res.ModifiedCount, nil
}

// UnitStatusWrites builds one UpdateMany per unit for SyncUnitStatus.
func UnitStatusWrites(units []models.Unit) []mongo.WriteModel {
	writes := make([]mongo.WriteModel, 0, len(units))
	for _, u := range units {
		writes = append(writes, mongo.NewUpdateManyModel().
			SetFilter(bson.M{"unit": u.ID, "isActive": bson.M{"$ne": u.IsActive}}).
			SetUpdate(bson.M{"$set": bson.M{"isActive": u.IsActive}}))
	}
	return writes
}
