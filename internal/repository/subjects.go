package repository

import (
	"context"

	"github.com/arzan03/PaperBot/internal/db"
	"github.com/arzan03/PaperBot/internal/models"
	"github.com/arzan03/PaperBot/internal/querybuilder"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type SubjectRepository interface {
	List(ctx context.Context, q querybuilder.Query) (*models.Page[models.Subject], error)
	Create(ctx context.Context, subject *models.Subject) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Subject, error)
	FindByModelName(ctx context.Context, modelName string) (*models.Subject, error)
	Update(ctx context.Context, id primitive.ObjectID, set bson.M) (*models.Subject, error)
	AddSchool(ctx context.Context, id, school primitive.ObjectID) (*models.Subject, error)
	RemoveSchool(ctx context.Context, id, school primitive.ObjectID) (*models.Subject, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type mongoSubjects struct {
	coll *mongo.Collection
}

func NewSubjectRepository(database *mongo.Database) SubjectRepository {
	return &mongoSubjects{coll: database.Collection(db.SubjectsCollection)}
}

func (r *mongoSubjects) List(ctx context.Context, q querybuilder.Query) (*models.Page[models.Subject], error) {
	return aggregatePage[models.Subject](ctx, r.coll, q)
}

func (r *mongoSubjects) Create(ctx context.Context, subject *models.Subject) error {
	stamp(&subject.ID, &subject.CreatedAt, &subject.UpdatedAt)
	if subject.Schools == nil {
		subject.Schools = []primitive.ObjectID{}
	}
	if subject.Units == nil {
		subject.Units = []models.Unit{}
	}
	if subject.QuestionTypes == nil {
		subject.QuestionTypes = []models.QuestionType{}
	}
	if subject.Outlines == nil {
		subject.Outlines = []models.Outline{}
	}
	_, err := r.coll.InsertOne(ctx, subject)
	return err
}

func (r *mongoSubjects) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Subject, error) {
	return findOne[models.Subject](ctx, r.coll, bson.M{"_id": id})
}

func (r *mongoSubjects) FindByModelName(ctx context.Context, modelName string) (*models.Subject, error) {
	return findOne[models.Subject](ctx, r.coll, bson.M{"model_name": modelName})
}

func (r *mongoSubjects) Update(ctx context.Context, id primitive.ObjectID, set bson.M) (*models.Subject, error) {
	return updateByID[models.Subject](ctx, r.coll, id, bson.M{"$set": set})
}

func (r *mongoSubjects) AddSchool(ctx context.Context, id, school primitive.ObjectID) (*models.Subject, error) {
	return updateByID[models.Subject](ctx, r.coll, id, bson.M{"$addToSet": bson.M{"schools": school}})
}

func (r *mongoSubjects) RemoveSchool(ctx context.Context, id, school primitive.ObjectID) (*models.Subject, error) {
	return updateByID[models.Subject](ctx, r.coll, id, bson.M{"$pull": bson.M{"schools": school}})
}

func (r *mongoSubjects) Delete(ctx context.Context, id primitive.ObjectID) error {
	return deleteByID(ctx, r.coll, id)
}
