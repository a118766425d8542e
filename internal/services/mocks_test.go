package services

import (
	"context"
	"io"
	"time"

	"github.com/arzan03/PaperBot/internal/models"
	"github.com/arzan03/PaperBot/internal/querybuilder"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type mockUsers struct{ mock.Mock }

func (m *mockUsers) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	return args.Error(0)
}

func (m *mockUsers) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	args := m.Called(ctx, id)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

func (m *mockUsers) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error) {
	args := m.Called(ctx, ids)
	users, _ := args.Get(0).([]models.User)
	return users, args.Error(1)
}

func (m *mockUsers) FindOne(ctx context.Context, filter bson.M) (*models.User, error) {
	args := m.Called(ctx, filter)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

func (m *mockUsers) Update(ctx context.Context, id primitive.ObjectID, set bson.M) (*models.User, error) {
	args := m.Called(ctx, id, set)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

func (m *mockUsers) List(ctx context.Context, q querybuilder.Query) (*models.Page[models.User], error) {
	args := m.Called(ctx, q)
	page, _ := args.Get(0).(*models.Page[models.User])
	return page, args.Error(1)
}

type mockSubjects struct{ mock.Mock }

func (m *mockSubjects) List(ctx context.Context, q querybuilder.Query) (*models.Page[models.Subject], error) {
	args := m.Called(ctx, q)
	page, _ := args.Get(0).(*models.Page[models.Subject])
	return page, args.Error(1)
}

func (m *mockSubjects) Create(ctx context.Context, subject *models.Subject) error {
	args := m.Called(ctx, subject)
	if subject.ID.IsZero() {
		subject.ID = primitive.NewObjectID()
	}
	return args.Error(0)
}

func (m *mockSubjects) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Subject, error) {
	args := m.Called(ctx, id)
	subject, _ := args.Get(0).(*models.Subject)
	return subject, args.Error(1)
}

func (m *mockSubjects) FindByModelName(ctx context.Context, modelName string) (*models.Subject, error) {
	args := m.Called(ctx, modelName)
	subject, _ := args.Get(0).(*models.Subject)
	return subject, args.Error(1)
}

func (m *mockSubjects) Update(ctx context.Context, id primitive.ObjectID, set bson.M) (*models.Subject, error) {
	args := m.Called(ctx, id, set)
	subject, _ := args.Get(0).(*models.Subject)
	return subject, args.Error(1)
}

func (m *mockSubjects) AddSchool(ctx context.Context, id, school primitive.ObjectID) (*models.Subject, error) {
	args := m.Called(ctx, id, school)
	subject, _ := args.Get(0).(*models.Subject)
	return subject, args.Error(1)
}

func (m *mockSubjects) RemoveSchool(ctx context.Context, id, school primitive.ObjectID) (*models.Subject, error) {
	args := m.Called(ctx, id, school)
	subject, _ := args.Get(0).(*models.Subject)
	return subject, args.Error(1)
}

func (m *mockSubjects) Delete(ctx context.Context, id primitive.ObjectID) error {
	return m.Called(ctx, id).Error(0)
}

type mockQuestions struct{ mock.Mock }

func (m *mockQuestions) List(ctx context.Context, model string, q querybuilder.Query) (*models.Page[models.Question], error) {
	args := m.Called(ctx, model, q)
	page, _ := args.Get(0).(*models.Page[models.Question])
	return page, args.Error(1)
}

func (m *mockQuestions) Create(ctx context.Context, model string, question *models.Question) error {
	return m.Called(ctx, model, question).Error(0)
}

func (m *mockQuestions) FindOne(ctx context.Context, model string, filter bson.M) (*models.Question, error) {
	args := m.Called(ctx, model, filter)
	question, _ := args.Get(0).(*models.Question)
	return question, args.Error(1)
}

func (m *mockQuestions) Update(ctx context.Context, model string, id primitive.ObjectID, set bson.M) (*models.Question, error) {
	args := m.Called(ctx, model, id, set)
	question, _ := args.Get(0).(*models.Question)
	return question, args.Error(1)
}

func (m *mockQuestions) Delete(ctx context.Context, model string, id primitive.ObjectID) error {
	return m.Called(ctx, model, id).Error(0)
}

func (m *mockQuestions) Count(ctx context.Context, model string) (int64, error) {
	args := m.Called(ctx, model)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockQuestions) SyncUnitStatus(ctx context.Context, model string, units []models.Unit) (int64, error) {
	args := m.Called(ctx, model, units)
	return args.Get(0).(int64), args.Error(1)
}

type mockQuestionTypes struct{ mock.Mock }

func (m *mockQuestionTypes) List(ctx context.Context, q querybuilder.Query) (*models.Page[models.GlobalQuestionType], error) {
	args := m.Called(ctx, q)
	page, _ := args.Get(0).(*models.Page[models.GlobalQuestionType])
	return page, args.Error(1)
}

func (m *mockQuestionTypes) ListActive(ctx context.Context) ([]models.GlobalQuestionType, error) {
	args := m.Called(ctx)
	types, _ := args.Get(0).([]models.GlobalQuestionType)
	return types, args.Error(1)
}

func (m *mockQuestionTypes) Create(ctx context.Context, qt *models.GlobalQuestionType) error {
	return m.Called(ctx, qt).Error(0)
}

func (m *mockQuestionTypes) FindOne(ctx context.Context, filter bson.M) (*models.GlobalQuestionType, error) {
	args := m.Called(ctx, filter)
	qt, _ := args.Get(0).(*models.GlobalQuestionType)
	return qt, args.Error(1)
}

func (m *mockQuestionTypes) Update(ctx context.Context, id primitive.ObjectID, set bson.M) (*models.GlobalQuestionType, error) {
	args := m.Called(ctx, id, set)
	qt, _ := args.Get(0).(*models.GlobalQuestionType)
	return qt, args.Error(1)
}

type mockCollections struct{ mock.Mock }

func (m *mockCollections) Exists(ctx context.Context, name string) (bool, error) {
	args := m.Called(ctx, name)
	return args.Bool(0), args.Error(1)
}

func (m *mockCollections) Create(ctx context.Context, name string) (*mongo.Collection, error) {
	return nil, m.Called(ctx, name).Error(0)
}

func (m *mockCollections) Drop(ctx context.Context, name string) error {
	return m.Called(ctx, name).Error(0)
}

type mockTokens struct{ mock.Mock }

func (m *mockTokens) Revoke(ctx context.Context, jti string, ttl time.Duration) {
	m.Called(ctx, jti, ttl)
}

func (m *mockTokens) Revoked(ctx context.Context, jti string) bool {
	return m.Called(ctx, jti).Bool(0)
}

type mockMailer struct{ mock.Mock }

func (m *mockMailer) SendEmailVerification(ctx context.Context, user *models.User, link string) error {
	return m.Called(ctx, user, link).Error(0)
}

func (m *mockMailer) SendPasswordReset(ctx context.Context, user *models.User, link string) error {
	return m.Called(ctx, user, link).Error(0)
}

func (m *mockMailer) SendOTP(ctx context.Context, user *models.User, otp string) error {
	return m.Called(ctx, user, otp).Error(0)
}

type mockAvatars struct{ mock.Mock }

func (m *mockAvatars) Put(ctx context.Context, userID, filename, contentType string, r io.Reader, size int64) (string, string, error) {
	args := m.Called(ctx, userID, filename, contentType, r, size)
	return args.String(0), args.String(1), args.Error(2)
}

func (m *mockAvatars) Remove(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}
