// Package repository persists the domain models in MongoDB.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/arzan03/PaperBot/internal/models"
	"github.com/arzan03/PaperBot/internal/querybuilder"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var ErrNotFound = errors.New("document not found")

type facetCount struct {
	Count int64 `bson:"count"`
}

type facetResult[T any] struct {
	Data  []T          `bson:"data"`
	Total []facetCount `bson:"total"`
}

// aggregatePage runs the query's facet pipeline and wraps the result in a page.
func aggregatePage[T any](ctx context.Context, coll *mongo.Collection, q querybuilder.Query) (*models.Page[T], error) {
	cursor, err := coll.Aggregate(ctx, q.Pipeline())
	if err != nil {
		return nil, fmt.Errorf("aggregate %s: %w", coll.Name(), err)
	}
	defer cursor.Close(ctx)

	var results []facetResult[T]
	if err := cursor.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("decode %s page: %w", coll.Name(), err)
	}

	var docs []T
	var total int64
	if len(results) > 0 {
		docs = results[0].Data
		if len(results[0].Total) > 0 {
			total = results[0].Total[0].Count
		}
	}
	return querybuilder.Paginate(q, docs, total), nil
}

func findOne[T any](ctx context.Context, coll *mongo.Collection, filter any) (*T, error) {
	var doc T
	if err := coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &doc, nil
}

// updateByID applies update to the document and returns it as stored afterwards.
// updatedAt is always refreshed.
func updateByID[T any](ctx context.Context, coll *mongo.Collection, id primitive.ObjectID, update bson.M) (*T, error) {
	set := bson.M{"updatedAt": time.Now().UTC()}
	if given, ok := update["$set"].(bson.M); ok {
		for k, v := range given {
			set[k] = v
		}
	}
	update["$set"] = set

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc T
	err := coll.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

func deleteByID(ctx context.Context, coll *mongo.Collection, id primitive.ObjectID) error {
	res, err := coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func stamp(id *primitive.ObjectID, createdAt, updatedAt *time.Time) {
	if id.IsZero() {
		*id = primitive.NewObjectID()
	}
	now := time.Now().UTC()
	if createdAt.IsZero() {
		*createdAt = now
	}
	*updatedAt = now
}
