package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/arzan03/PaperBot/internal/apperr"
	"github.com/arzan03/PaperBot/internal/config"
	"github.com/arzan03/PaperBot/internal/constants"
	"github.com/arzan03/PaperBot/internal/handlers"
	"github.com/arzan03/PaperBot/internal/models"
	"github.com/arzan03/PaperBot/internal/routes"
	"github.com/arzan03/PaperBot/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const englishModel = "cbse_std10_english_e1_english_medium_questions"

type envelope struct {
	StatusCode int             `json:"statusCode"`
	Data       json.RawMessage `json:"data"`
	Message    string          `json:"message"`
	Success    bool            `json:"success"`
	Errors     []string        `json:"errors"`
}

type harness struct {
	app       *fiber.App
	users     *memUsers
	subjects  *memSubjects
	questions *memQuestions
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	cfg := &config.Config{
		Env:                "test",
		ServerURL:          "http://localhost:8080",
		AccessTokenSecret:  "access-secret",
		AccessTokenExpiry:  time.Hour,
		RefreshTokenSecret: "refresh-secret",
		RefreshTokenExpiry: 24 * time.Hour,
		RateLimitMax:       1000,
		RateLimitWindow:    time.Minute,
	}
	h := &harness{
		users:     &memUsers{},
		subjects:  &memSubjects{},
		questions: newMemQuestions(),
	}
	types := &memQuestionTypes{}

	auth := services.NewAuthService(h.users, &memTokens{revoked: map[string]bool{}}, services.NewLogMailer(slog.Default()), nil, cfg)
	subjectSvc := services.NewSubjectService(h.subjects, h.questions, h.users, types, memCollections{q: h.questions})

	h.app = fiber.New(fiber.Config{ErrorHandler: apperr.Handler(false)})
	routes.Setup(h.app, cfg, auth, routes.Handlers{
		Health:        handlers.NewHealthHandler(func(context.Context) error { return nil }),
		Users:         handlers.NewUserHandler(auth, cfg),
		Subjects:      handlers.NewSubjectHandler(subjectSvc),
		Questions:     handlers.NewQuestionHandler(services.NewQuestionService(h.subjects, h.questions)),
		QuestionTypes: handlers.NewQuestionTypeHandler(services.NewQuestionTypeService(types)),
	})
	return h
}

// login seeds an account with the given role and returns its access token.
func (h *harness) login(t *testing.T, username, role string) string {
	t.Helper()
	hash, err := services.HashPassword("Secret123")
	require.NoError(t, err)
	require.NoError(t, h.users.Create(context.Background(), &models.User{
		Username: username,
		Email:    username + "@example.com",
		Password: hash,
		Role:     role,
		IsActive: true,
	}))

	env, status := h.do(t, http.MethodPost, "/api/v1/users/login", "", fiber.Map{"username": username, "password": "Secret123"})
	require.Equal(t, http.StatusOK, status, env.Message)
	var data struct {
		AccessToken string `json:"accessToken"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	return data.AccessToken
}

func (h *harness) do(t *testing.T, method, path, token string, body any) (envelope, int) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := h.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return env, resp.StatusCode
}

func englishSubject() fiber.Map {
	return fiber.Map{
		"board":    "CBSE",
		"standard": "STD10",
		"name":     "ENGLISH",
		"code":     "E1",
		"medium":   "ENGLISH_MEDIUM",
	}
}

func (h *harness) createSubject(t *testing.T, admin string) models.Subject {
	t.Helper()
	env, status := h.do(t, http.MethodPost, "/api/v1/subjects", admin, englishSubject())
	require.Equal(t, http.StatusCreated, status, env.Message)
	var subject models.Subject
	require.NoError(t, json.Unmarshal(env.Data, &subject))
	return subject
}

func TestCreateSubjectAndFetchIt(t *testing.T) {
	h := newHarness(t)
	admin := h.login(t, "admin", constants.RoleAdmin)

	subject := h.createSubject(t, admin)
	assert.Equal(t, englishModel, subject.ModelName)
	assert.True(t, subject.IsActive)

	exists, err := memCollections{q: h.questions}.Exists(context.Background(), englishModel)
	require.NoError(t, err)
	assert.True(t, exists)

	env, status := h.do(t, http.MethodGet, "/api/v1/subjects/"+subject.ID.Hex(), admin, nil)
	require.Equal(t, http.StatusOK, status)
	var detail struct {
		ModelName string          `json:"model_name"`
		CreatedBy *models.UserRef `json:"created_by"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &detail))
	assert.Equal(t, englishModel, detail.ModelName)
	require.NotNil(t, detail.CreatedBy)
	assert.Equal(t, "admin", detail.CreatedBy.Username)

	env, status = h.do(t, http.MethodPost, "/api/v1/subjects", admin, englishSubject())
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, env.Message, englishModel)
}

func TestCreateSubjectGuards(t *testing.T) {
	h := newHarness(t)
	user := h.login(t, "staff", constants.RoleUser)
	admin := h.login(t, "admin", constants.RoleAdmin)

	_, status := h.do(t, http.MethodPost, "/api/v1/subjects", "", englishSubject())
	assert.Equal(t, http.StatusUnauthorized, status)

	_, status = h.do(t, http.MethodPost, "/api/v1/subjects", user, englishSubject())
	assert.Equal(t, http.StatusForbidden, status)

	body := englishSubject()
	delete(body, "board")
	body["medium"] = "FRENCH_MEDIUM"
	env, status := h.do(t, http.MethodPost, "/api/v1/subjects", admin, body)
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.False(t, env.Success)
	assert.Len(t, env.Errors, 2)

	_, status = h.do(t, http.MethodGet, "/api/v1/subjects/not-an-id", admin, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, status)
}

func TestQuestionLifecycle(t *testing.T) {
	h := newHarness(t)
	admin := h.login(t, "admin", constants.RoleAdmin)
	user := h.login(t, "student", constants.RoleUser)
	subject := h.createSubject(t, admin)
	base := "/api/v1/subjects/" + subject.ID.Hex()
	questionsPath := "/api/v1/questions/" + englishModel

	env, status := h.do(t, http.MethodPost, base+"/units", admin, fiber.Map{
		"units": []fiber.Map{{"number": 1, "name": "Grammar", "isActive": true}},
	})
	require.Equal(t, http.StatusOK, status, env.Message)
	var units []models.Unit
	require.NoError(t, json.Unmarshal(env.Data, &units))
	require.Len(t, units, 1)

	env, status = h.do(t, http.MethodPost, base+"/question-types", admin, fiber.Map{
		"questionTypes": []fiber.Map{{"name": "MCQ", "description": "Multiple choice"}},
	})
	require.Equal(t, http.StatusOK, status, env.Message)
	var types []models.QuestionType
	require.NoError(t, json.Unmarshal(env.Data, &types))
	require.Len(t, types, 1)

	env, status = h.do(t, http.MethodPost, questionsPath, admin, fiber.Map{
		"type":        types[0].ID.Hex(),
		"unit":        units[0].ID.Hex(),
		"question":    "Define a noun.",
		"answer":      "A naming word",
		"marks":       2,
		"isFormatted": false,
	})
	require.Equal(t, http.StatusCreated, status, env.Message)
	var question models.Question
	require.NoError(t, json.Unmarshal(env.Data, &question))
	assert.True(t, question.IsActive)
	assert.False(t, question.IsVerified)
	questionPath := questionsPath + "/" + question.ID.Hex()

	countFor := func(token string) int64 {
		env, status := h.do(t, http.MethodGet, questionsPath, token, nil)
		require.Equal(t, http.StatusOK, status, env.Message)
		var page models.Page[models.Question]
		require.NoError(t, json.Unmarshal(env.Data, &page))
		return page.Count
	}
	assert.EqualValues(t, 1, countFor(admin))
	assert.EqualValues(t, 0, countFor(user), "unverified questions stay hidden")

	_, status = h.do(t, http.MethodPatch, questionPath+"/verify", user, fiber.Map{"isVerified": true})
	assert.Equal(t, http.StatusForbidden, status)
	_, status = h.do(t, http.MethodPatch, questionPath+"/verify", admin, fiber.Map{"isVerified": true})
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 1, countFor(user))

	// deactivating the unit fans out to its questions
	env, status = h.do(t, http.MethodPost, base+"/units", admin, fiber.Map{
		"units": []fiber.Map{{"_id": units[0].ID.Hex(), "number": 1, "name": "Grammar", "isActive": false}},
	})
	require.Equal(t, http.StatusOK, status, env.Message)
	assert.EqualValues(t, 0, countFor(user))

	env, status = h.do(t, http.MethodPatch, questionPath+"/active", admin, fiber.Map{"isActive": true})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.False(t, env.Success)

	_, status = h.do(t, http.MethodDelete, base, admin, nil)
	assert.Equal(t, http.StatusBadRequest, status, "subjects with questions cannot be deleted")

	_, status = h.do(t, http.MethodDelete, questionPath, admin, nil)
	require.Equal(t, http.StatusOK, status)
	_, status = h.do(t, http.MethodDelete, base, admin, nil)
	require.Equal(t, http.StatusOK, status)

	env, status = h.do(t, http.MethodGet, questionsPath, admin, nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Contains(t, env.Message, englishModel)
}

func TestQuestionTypesCreatedByUsersStartInactive(t *testing.T) {
	h := newHarness(t)
	user := h.login(t, "staff", constants.RoleUser)
	admin := h.login(t, "admin", constants.RoleAdmin)

	env, status := h.do(t, http.MethodPost, "/api/v1/question-types", user, fiber.Map{"name": "essay", "description": "Long answer"})
	require.Equal(t, http.StatusCreated, status, env.Message)
	var qt models.GlobalQuestionType
	require.NoError(t, json.Unmarshal(env.Data, &qt))
	assert.Equal(t, "ESSAY", qt.Name)
	assert.False(t, qt.IsActive)

	_, status = h.do(t, http.MethodPost, "/api/v1/question-types", admin, fiber.Map{"name": "Essay", "description": "Again"})
	assert.Equal(t, http.StatusConflict, status)

	_, status = h.do(t, http.MethodPost, "/api/v1/question-types", admin, fiber.Map{"name": "mcq", "description": "Multiple choice"})
	require.Equal(t, http.StatusCreated, status)

	env, status = h.do(t, http.MethodGet, "/api/v1/subjects/filters", "", nil)
	require.Equal(t, http.StatusOK, status)
	var filters struct {
		Boards        []string                    `json:"boards"`
		QuestionTypes []models.GlobalQuestionType `json:"questionTypes"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &filters))
	assert.Equal(t, constants.Boards, filters.Boards)
	require.Len(t, filters.QuestionTypes, 1)
	assert.Equal(t, "MCQ", filters.QuestionTypes[0].Name)
}

func TestRegisterLoginLogout(t *testing.T) {
	h := newHarness(t)

	env, status := h.do(t, http.MethodPost, "/api/v1/users/register", "", fiber.Map{
		"email": "new@example.com", "username": "newbie", "password": "Secret123",
	})
	require.Equal(t, http.StatusCreated, status, env.Message)
	assert.NotContains(t, string(env.Data), "password")

	_, status = h.do(t, http.MethodPost, "/api/v1/users/register", "", fiber.Map{
		"email": "new@example.com", "username": "other", "password": "Secret123",
	})
	assert.Equal(t, http.StatusConflict, status)

	env, status = h.do(t, http.MethodPost, "/api/v1/users/login", "", fiber.Map{"email": "new@example.com", "password": "Secret123"})
	require.Equal(t, http.StatusOK, status, env.Message)
	var session struct {
		AccessToken string       `json:"accessToken"`
		User        *models.User `json:"user"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &session))
	assert.Equal(t, constants.RoleUser, session.User.Role)

	_, status = h.do(t, http.MethodGet, "/api/v1/users/current-user", session.AccessToken, nil)
	require.Equal(t, http.StatusOK, status)

	_, status = h.do(t, http.MethodGet, "/api/v1/users", session.AccessToken, nil)
	assert.Equal(t, http.StatusForbidden, status)

	_, status = h.do(t, http.MethodPost, "/api/v1/users/logout", session.AccessToken, nil)
	require.Equal(t, http.StatusOK, status)

	_, status = h.do(t, http.MethodGet, "/api/v1/users/current-user", session.AccessToken, nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestLoginRequiresIdentifier(t *testing.T) {
	h := newHarness(t)
	env, status := h.do(t, http.MethodPost, "/api/v1/users/login", "", fiber.Map{"password": "Secret123"})
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, []string{"Username or email is required"}, env.Errors)
}

// newMultipart writes a single-file form into buf and returns its content type.
func newMultipart(t *testing.T, buf *bytes.Buffer, field, filename string, content []byte) string {
	t.Helper()
	w := multipart.NewWriter(buf)
	part, err := w.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return w.FormDataContentType()
}

func TestAvatarUploadDisabled(t *testing.T) {
	h := newHarness(t)
	token := h.login(t, "staff", constants.RoleUser)

	var buf bytes.Buffer
	form := newMultipart(t, &buf, "avatar", "me.png", []byte("png"))
	req := httptest.NewRequest(http.MethodPatch, "/api/v1/users/avatar", &buf)
	req.Header.Set("Content-Type", form)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := h.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestUnknownRoute(t *testing.T) {
	h := newHarness(t)
	env, status := h.do(t, http.MethodGet, "/api/v1/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Can't find /api/v1/nope on this server!", env.Message)
	assert.False(t, env.Success)
}

func TestHealthcheck(t *testing.T) {
	h := newHarness(t)
	env, status := h.do(t, http.MethodGet, "/api/v1/healthcheck", "", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.True(t, env.Success)
}
