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

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error)
	FindOne(ctx context.Context, filter bson.M) (*models.User, error)
	Update(ctx context.Context, id primitive.ObjectID, set bson.M) (*models.User, error)
	List(ctx context.Context, q querybuilder.Query) (*models.Page[models.User], error)
}

type mongoUsers struct {
	coll *mongo.Collection
}

func NewUserRepository(database *mongo.Database) UserRepository {
	return &mongoUsers{coll: database.Collection(db.UsersCollection)}
}

func (r *mongoUsers) Create(ctx context.Context, user *models.User) error {
	stamp(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	_, err := r.coll.InsertOne(ctx, user)
	return err
}

func (r *mongoUsers) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return findOne[models.User](ctx, r.coll, bson.M{"_id": id})
}

func (r *mongoUsers) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error) {
	users := []models.User{}
	if len(ids) == 0 {
		return users, nil
	}
	cursor, err := r.coll.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (r *mongoUsers) FindOne(ctx context.Context, filter bson.M) (*models.User, error) {
	return findOne[models.User](ctx, r.coll, filter)
}

func (r *mongoUsers) Update(ctx context.Context, id primitive.ObjectID, set bson.M) (*models.User, error) {
	return updateByID[models.User](ctx, r.coll, id, bson.M{"$set": set})
}

func (r *mongoUsers) List(ctx context.Context, q querybuilder.Query) (*models.Page[models.User], error) {
	return aggregatePage[models.User](ctx, r.coll, q)
}
