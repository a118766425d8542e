package repository

import (
	"context"

	"github.com/arzan03/PaperBot/internal/db"
	"github.com/arzan03/PaperBot/internal/models"
	"github.com/arzan03/PaperBot/internal/querybuilder"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type QuestionTypeRepository interface {
	List(ctx context.Context, q querybuilder.Query) (*models.Page[models.GlobalQuestionType], error)
	ListActive(ctx context.Context) ([]models.GlobalQuestionType, error)
	Create(ctx context.Context, qt *models.GlobalQuestionType) error
	FindOne(ctx context.Context, filter bson.M) (*models.GlobalQuestionType, error)
	Update(ctx context.Context, id primitive.ObjectID, set bson.M) (*models.GlobalQuestionType, error)
}

type mongoQuestionTypes struct {
	coll *mongo.Collection
}

func NewQuestionTypeRepository(database *mongo.Database) QuestionTypeRepository {
	return &mongoQuestionTypes{coll: database.Collection(db.QuestionTypesCollection)}
}

func (r *mongoQuestionTypes) List(ctx context.Context, q querybuilder.Query) (*models.Page[models.GlobalQuestionType], error) {
	return aggregatePage[models.GlobalQuestionType](ctx, r.coll, q)
}

func (r *mongoQuestionTypes) ListActive(ctx context.Context) ([]models.GlobalQuestionType, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := r.coll.Find(ctx, bson.M{"isActive": true}, opts)
	if err != nil {
		return nil, err
	}
	types := []models.GlobalQuestionType{}
	if err := cursor.All(ctx, &types); err != nil {
		return nil, err
	}
	return types, nil
}

func (r *mongoQuestionTypes) Create(ctx context.Context, qt *models.GlobalQuestionType) error {
	stamp(&qt.ID, &qt.CreatedAt, &qt.UpdatedAt)
	_, err := r.coll.InsertOne(ctx, qt)
	return err
}

func (r *mongoQuestionTypes) FindOne(ctx context.Context, filter bson.M) (*models.GlobalQuestionType, error) {
	return findOne[models.GlobalQuestionType](ctx, r.coll, filter)
}

func (r *mongoQuestionTypes) Update(ctx context.Context, id primitive.ObjectID, set bson.M) (*models.GlobalQuestionType, error) {
	return updateByID[models.GlobalQuestionType](ctx, r.coll, id, bson.M{"$set": set})
}
