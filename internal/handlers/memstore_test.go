package handlers_test

import (
	"context"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/arzan03/PaperBot/internal/db"
	"github.com/arzan03/PaperBot/internal/models"
	"github.com/arzan03/PaperBot/internal/querybuilder"
	"github.com/arzan03/PaperBot/internal/repository"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// table is a tiny in-memory document collection. It understands plain
// equality, $or, $ne and ignores other operators.
type table struct {
	mu   sync.Mutex
	docs []bson.M
}

func toDoc(v any) bson.M {
	raw, err := bson.Marshal(v)
	if err != nil {
		panic(err)
	}
	var doc bson.M
	if err := bson.Unmarshal(raw, &doc); err != nil {
		panic(err)
	}
	return doc
}

func decode[T any](doc bson.M) *T {
	raw, err := bson.Marshal(doc)
	if err != nil {
		panic(err)
	}
	out := new(T)
	if err := bson.Unmarshal(raw, out); err != nil {
		panic(err)
	}
	return out
}

func decodeAll[T any](docs []bson.M) []T {
	out := make([]T, 0, len(docs))
	for _, d := range docs {
		out = append(out, *decode[T](d))
	}
	return out
}

func matches(doc, filter bson.M) bool {
	for key, want := range filter {
		if key == "$or" {
			hit := false
			for _, sub := range want.(bson.A) {
				if matches(doc, sub.(bson.M)) {
					hit = true
					break
				}
			}
			if !hit {
				return false
			}
			continue
		}
		if strings.HasPrefix(key, "$") {
			continue
		}
		if op, ok := want.(bson.M); ok {
			if ne, ok := op["$ne"]; ok && reflect.DeepEqual(doc[key], ne) {
				return false
			}
			continue
		}
		if !reflect.DeepEqual(doc[key], want) {
			return false
		}
	}
	return true
}

func (t *table) insert(v any) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.docs = append(t.docs, toDoc(v))
}

func (t *table) find(filter bson.M) []bson.M {
	t.mu.Lock()
	defer t.mu.Unlock()
	var out []bson.M
	for _, d := range t.docs {
		if matches(d, filter) {
			out = append(out, d)
		}
	}
	return out
}

func (t *table) findOne(filter bson.M) (bson.M, error) {
	found := t.find(filter)
	if len(found) == 0 {
		return nil, repository.ErrNotFound
	}
	return found[0], nil
}

func (t *table) updateMany(filter, set bson.M) int64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	normalized := toDoc(set)
	var n int64
	for _, d := range t.docs {
		if !matches(d, filter) {
			continue
		}
		for k, v := range normalized {
			d[k] = v
		}
		n++
	}
	return n
}

func (t *table) update(id primitive.ObjectID, set bson.M) (bson.M, error) {
	if t.updateMany(bson.M{"_id": id}, set) == 0 {
		return nil, repository.ErrNotFound
	}
	return t.findOne(bson.M{"_id": id})
}

func (t *table) delete(id primitive.ObjectID) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i, d := range t.docs {
		if d["_id"] == id {
			t.docs = append(t.docs[:i], t.docs[i+1:]...)
			return true
		}
	}
	return false
}

type memUsers struct{ t table }

func (m *memUsers) Create(_ context.Context, u *models.User) error {
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	u.CreatedAt = time.Now()
	m.t.insert(u)
	return nil
}

func (m *memUsers) FindByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	return m.FindOne(context.Background(), bson.M{"_id": id})
}

func (m *memUsers) FindByIDs(_ context.Context, ids []primitive.ObjectID) ([]models.User, error) {
	var users []models.User
	for _, id := range ids {
		if doc, err := m.t.findOne(bson.M{"_id": id}); err == nil {
			users = append(users, *decode[models.User](doc))
		}
	}
	return users, nil
}

func (m *memUsers) FindOne(_ context.Context, filter bson.M) (*models.User, error) {
	doc, err := m.t.findOne(filter)
	if err != nil {
		return nil, err
	}
	return decode[models.User](doc), nil
}

func (m *memUsers) Update(_ context.Context, id primitive.ObjectID, set bson.M) (*models.User, error) {
	doc, err := m.t.update(id, set)
	if err != nil {
		return nil, err
	}
	return decode[models.User](doc), nil
}

func (m *memUsers) List(_ context.Context, q querybuilder.Query) (*models.Page[models.User], error) {
	docs := decodeAll[models.User](m.t.find(q.Match))
	return querybuilder.Paginate(q, docs, int64(len(docs))), nil
}

type memSubjects struct{ t table }

func (m *memSubjects) List(_ context.Context, q querybuilder.Query) (*models.Page[models.Subject], error) {
	docs := decodeAll[models.Subject](m.t.find(q.Match))
	return querybuilder.Paginate(q, docs, int64(len(docs))), nil
}

func (m *memSubjects) Create(_ context.Context, s *models.Subject) error {
	if s.ID.IsZero() {
		s.ID = primitive.NewObjectID()
	}
	m.t.insert(s)
	return nil
}

func (m *memSubjects) FindByID(_ context.Context, id primitive.ObjectID) (*models.Subject, error) {
	doc, err := m.t.findOne(bson.M{"_id": id})
	if err != nil {
		return nil, err
	}
	return decode[models.Subject](doc), nil
}

func (m *memSubjects) FindByModelName(_ context.Context, name string) (*models.Subject, error) {
	doc, err := m.t.findOne(bson.M{"model_name": name})
	if err != nil {
		return nil, err
	}
	return decode[models.Subject](doc), nil
}

func (m *memSubjects) Update(_ context.Context, id primitive.ObjectID, set bson.M) (*models.Subject, error) {
	doc, err := m.t.update(id, set)
	if err != nil {
		return nil, err
	}
	return decode[models.Subject](doc), nil
}

func (m *memSubjects) AddSchool(ctx context.Context, id, school primitive.ObjectID) (*models.Subject, error) {
	s, err := m.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	for _, existing := range s.Schools {
		if existing == school {
			return s, nil
		}
	}
	return m.Update(ctx, id, bson.M{"schools": append(s.Schools, school)})
}

func (m *memSubjects) RemoveSchool(ctx context.Context, id, school primitive.ObjectID) (*models.Subject, error) {
	s, err := m.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	kept := []primitive.ObjectID{}
	for _, existing := range s.Schools {
		if existing != school {
			kept = append(kept, existing)
		}
	}
	return m.Update(ctx, id, bson.M{"schools": kept})
}

func (m *memSubjects) Delete(_ context.Context, id primitive.ObjectID) error {
	if !m.t.delete(id) {
		return repository.ErrNotFound
	}
	return nil
}

// memQuestions holds one table per question collection.
type memQuestions struct {
	mu          sync.Mutex
	collections map[string]*table
}

func newMemQuestions() *memQuestions {
	return &memQuestions{collections: map[string]*table{}}
}

func (m *memQuestions) resolve(model string) (*table, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.collections[model]
	if !ok {
		return nil, db.ErrCollectionNotFound
	}
	return t, nil
}

func (m *memQuestions) List(_ context.Context, model string, q querybuilder.Query) (*models.Page[models.Question], error) {
	t, err := m.resolve(model)
	if err != nil {
		return nil, err
	}
	docs := decodeAll[models.Question](t.find(q.Match))
	return querybuilder.Paginate(q, docs, int64(len(docs))), nil
}

func (m *memQuestions) Create(_ context.Context, model string, q *models.Question) error {
	t, err := m.resolve(model)
	if err != nil {
		return err
	}
	if q.ID.IsZero() {
		q.ID = primitive.NewObjectID()
	}
	t.insert(q)
	return nil
}

func (m *memQuestions) FindOne(_ context.Context, model string, filter bson.M) (*models.Question, error) {
	t, err := m.resolve(model)
	if err != nil {
		return nil, err
	}
	doc, err := t.findOne(filter)
	if err != nil {
		return nil, err
	}
	return decode[models.Question](doc), nil
}

func (m *memQuestions) Update(_ context.Context, model string, id primitive.ObjectID, set bson.M) (*models.Question, error) {
	t, err := m.resolve(model)
	if err != nil {
		return nil, err
	}
	doc, err := t.update(id, set)
	if err != nil {
		return nil, err
	}
	return decode[models.Question](doc), nil
}

func (m *memQuestions) Delete(_ context.Context, model string, id primitive.ObjectID) error {
	t, err := m.resolve(model)
	if err != nil {
		return err
	}
	if !t.delete(id) {
		return repository.ErrNotFound
	}
	return nil
}

func (m *memQuestions) Count(_ context.Context, model string) (int64, error) {
	t, err := m.resolve(model)
	if err != nil {
		return 0, err
	}
	return int64(len(t.find(bson.M{}))), nil
}

func (m *memQuestions) SyncUnitStatus(_ context.Context, model string, units []models.Unit) (int64, error) {
	t, err := m.resolve(model)
	if err != nil {
		return 0, err
	}
	var n int64
	for _, u := range units {
		n += t.updateMany(bson.M{"unit": u.ID, "isActive": bson.M{"$ne": u.IsActive}}, bson.M{"isActive": u.IsActive})
	}
	return n, nil
}

// memCollections creates and drops the tables of a memQuestions.
type memCollections struct{ q *memQuestions }

func (m memCollections) Exists(_ context.Context, name string) (bool, error) {
	_, err := m.q.resolve(name)
	return err == nil, nil
}

func (m memCollections) Create(_ context.Context, name string) (*mongo.Collection, error) {
	m.q.mu.Lock()
	defer m.q.mu.Unlock()
	if _, ok := m.q.collections[name]; !ok {
		m.q.collections[name] = &table{}
	}
	return nil, nil
}

func (m memCollections) Drop(_ context.Context, name string) error {
	m.q.mu.Lock()
	defer m.q.mu.Unlock()
	delete(m.q.collections, name)
	return nil
}

type memQuestionTypes struct{ t table }

func (m *memQuestionTypes) List(_ context.Context, q querybuilder.Query) (*models.Page[models.GlobalQuestionType], error) {
	docs := decodeAll[models.GlobalQuestionType](m.t.find(q.Match))
	return querybuilder.Paginate(q, docs, int64(len(docs))), nil
}

func (m *memQuestionTypes) ListActive(_ context.Context) ([]models.GlobalQuestionType, error) {
	return decodeAll[models.GlobalQuestionType](m.t.find(bson.M{"isActive": true})), nil
}

func (m *memQuestionTypes) Create(_ context.Context, qt *models.GlobalQuestionType) error {
	if qt.ID.IsZero() {
		qt.ID = primitive.NewObjectID()
	}
	m.t.insert(qt)
	return nil
}

func (m *memQuestionTypes) FindOne(_ context.Context, filter bson.M) (*models.GlobalQuestionType, error) {
	doc, err := m.t.findOne(filter)
	if err != nil {
		return nil, err
	}
	return decode[models.GlobalQuestionType](doc), nil
}

func (m *memQuestionTypes) Update(_ context.Context, id primitive.ObjectID, set bson.M) (*models.GlobalQuestionType, error) {
	doc, err := m.t.update(id, set)
	if err != nil {
		return nil, err
	}
	return decode[models.GlobalQuestionType](doc), nil
}

type memTokens struct {
	mu      sync.Mutex
	revoked map[string]bool
}

func (m *memTokens) Revoke(_ context.Context, jti string, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.revoked[jti] = true
}

func (m *memTokens) Revoked(_ context.Context, jti string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.revoked[jti]
}
