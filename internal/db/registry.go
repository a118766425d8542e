package db

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

var ErrCollectionNotFound = errors.New("question collection not found")

// QuestionRegistry hands out collection handles for per-subject question
// collections. A handle being cached does not mean the collection exists:
// Resolve always confirms against the server before binding a new name.
type QuestionRegistry struct {
	database *mongo.Database

	mu      sync.RWMutex
	handles map[string]*mongo.Collection
}

func NewQuestionRegistry(database *mongo.Database) *QuestionRegistry {
	return &QuestionRegistry{
		database: database,
		handles:  make(map[string]*mongo.Collection),
	}
}

// GetOrCreate returns the cached handle for name, binding one if needed.
// It never touches the server.
func (r *QuestionRegistry) GetOrCreate(name string) *mongo.Collection {
	r.mu.RLock()
	coll, ok := r.handles[name]
	r.mu.RUnlock()
	if ok {
		return coll
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if coll, ok := r.handles[name]; ok {
		return coll
	}
	coll = r.database.Collection(name)
	r.handles[name] = coll
	return coll
}

// Bound reports whether a handle for name is cached in this process.
func (r *QuestionRegistry) Bound(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.handles[name]
	return ok
}

// Exists checks the server for a collection with exactly this name.
func (r *QuestionRegistry) Exists(ctx context.Context, name string) (bool, error) {
	names, err := r.database.ListCollectionNames(ctx, bson.D{{Key: "name", Value: name}})
	if err != nil {
		return false, fmt.Errorf("list collections: %w", err)
	}
	return len(names) > 0, nil
}

// Resolve returns a handle for an existing collection. Cached handles are
// trusted; anything else is checked on the server first.
func (r *QuestionRegistry) Resolve(ctx context.Context, name string) (*mongo.Collection, error) {
	if name == "" {
		return nil, ErrCollectionNotFound
	}
	if r.Bound(name) {
		return r.GetOrCreate(name), nil
	}
	ok, err := r.Exists(ctx, name)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrCollectionNotFound
	}
	return r.GetOrCreate(name), nil
}

// Create makes the physical collection and binds its handle.
// An existing collection is not an error.
func (r *QuestionRegistry) Create(ctx context.Context, name string) (*mongo.Collection, error) {
	err := r.database.CreateCollection(ctx, name)
	var cmdErr mongo.CommandError
	if err != nil && !(errors.As(err, &cmdErr) && cmdErr.Name == "NamespaceExists") {
		return nil, fmt.Errorf("create collection %s: %w", name, err)
	}
	return r.GetOrCreate(name), nil
}

// Drop removes the collection from the server and forgets its handle.
func (r *QuestionRegistry) Drop(ctx context.Context, name string) error {
	if err := r.database.Collection(name).Drop(ctx); err != nil {
		return fmt.Errorf("drop collection %s: %w", name, err)
	}
	r.mu.Lock()
	delete(r.handles, name)
	r.mu.Unlock()
	return nil
}
