package routes

import (
	"github.com/arzan03/PaperBot/internal/apperr"
	"github.com/arzan03/PaperBot/internal/config"
	"github.com/arzan03/PaperBot/internal/dto"
	"github.com/arzan03/PaperBot/internal/handlers"
	"github.com/arzan03/PaperBot/internal/middleware"
	v "github.com/arzan03/PaperBot/internal/validators"
	"github.com/gofiber/fiber/v2"
)

// Handlers groups everything the router dispatches to.
type Handlers struct {
	Health        *handlers.HealthHandler
	Users         *handlers.UserHandler
	Subjects      *handlers.SubjectHandler
	Questions     *handlers.QuestionHandler
	QuestionTypes *handlers.QuestionTypeHandler
}

func Setup(app *fiber.App, cfg *config.Config, auth middleware.Authenticator, h Handlers) {
	api := app.Group("/api/v1", middleware.GlobalRateLimiter(cfg))

	jwt := middleware.Protected(cfg.AccessTokenSecret, auth)
	admin := middleware.AdminOnly()
	id := v.ObjectIDParams("id")

	api.Get("/healthcheck", h.Health.Check)

	// Users: static paths are registered before /:userId.
	users := api.Group("/users")
	creds := middleware.AuthRateLimiter()
	users.Post("/register", creds, v.Body[dto.RegisterRequest](), h.Users.Register)
	users.Post("/login", creds, v.Body[dto.LoginRequest](), h.Users.Login)
	users.Post("/refresh-token", v.Body[dto.RefreshTokenRequest](), h.Users.RefreshToken)
	users.Get("/verify-email/:verificationToken", h.Users.VerifyEmail)
	users.Post("/forgot-password", creds, v.Body[dto.ForgotPasswordRequest](), h.Users.ForgotPassword)
	users.Post("/reset-password/:resetToken", v.Body[dto.ResetPasswordRequest](), h.Users.ResetPassword)
	users.Post("/otp", creds, v.Body[dto.OTPRequest](), h.Users.RequestOTP)
	users.Post("/otp/verify", creds, v.Body[dto.VerifyOTPRequest](), h.Users.VerifyOTP)

	users.Post("/logout", jwt, h.Users.Logout)
	users.Get("/current-user", jwt, h.Users.CurrentUser)
	users.Post("/change-password", jwt, v.Body[dto.ChangePasswordRequest](), h.Users.ChangePassword)
	users.Post("/resend-email-verification", jwt, h.Users.ResendEmailVerification)
	users.Patch("/avatar", jwt, h.Users.UpdateAvatar)

	userID := v.ObjectIDParams("userId")
	users.Get("/", jwt, admin, h.Users.ListUsers)
	users.Post("/assign-role/:userId", jwt, admin, userID, v.Body[dto.AssignRoleRequest](), h.Users.AssignRole)
	users.Get("/:userId", jwt, admin, userID, h.Users.GetUser)
	users.Patch("/:userId/status", jwt, admin, userID, v.Body[dto.StatusRequest](), h.Users.SetStatus)

	subjects := api.Group("/subjects")
	subjects.Get("/filters", h.Subjects.Filters)
	subjects.Get("/", jwt, h.Subjects.List)
	subjects.Post("/", jwt, admin, v.Body[dto.CreateSubjectRequest](), h.Subjects.Create)
	subjects.Get("/:id", jwt, admin, id, h.Subjects.Get)
	subjects.Put("/:id", jwt, admin, id, v.Body[dto.UpdateSubjectRequest](), h.Subjects.Update)
	subjects.Delete("/:id", jwt, admin, id, h.Subjects.Delete)
	subjects.Post("/:id/schools", jwt, admin, id, v.Body[dto.SchoolRequest](), h.Subjects.AddSchool)
	subjects.Delete("/:id/schools", jwt, admin, id, v.Body[dto.SchoolRequest](), h.Subjects.RemoveSchool)
	subjects.Patch("/:id/status", jwt, admin, id, v.Body[dto.StatusRequest](), h.Subjects.SetStatus)
	subjects.Post("/:id/units", jwt, admin, id, v.Body[dto.UnitsRequest](), h.Subjects.UpsertUnits)
	subjects.Post("/:id/units/reconcile", jwt, admin, id, h.Subjects.ReconcileUnits)
	subjects.Post("/:id/question-types", jwt, admin, id, v.Body[dto.QuestionTypesRequest](), h.Subjects.UpsertQuestionTypes)

	questions := api.Group("/questions/:modelName", jwt)
	questions.Get("/", h.Questions.List)
	questions.Post("/", admin, v.Body[dto.CreateQuestionRequest](), h.Questions.Create)
	questions.Get("/:id", id, h.Questions.Get)
	questions.Put("/:id", admin, id, v.Body[dto.UpdateQuestionRequest](), h.Questions.Update)
	questions.Delete("/:id", admin, id, h.Questions.Delete)
	questions.Patch("/:id/active", admin, id, v.Body[dto.ToggleQuestionRequest](), h.Questions.ToggleStatus)
	questions.Patch("/:id/verify", admin, id, v.Body[dto.VerifyQuestionRequest](), h.Questions.Verify)

	questionTypes := api.Group("/question-types", jwt)
	questionTypes.Get("/", h.QuestionTypes.List)
	questionTypes.Post("/", v.Body[dto.QuestionTypeRequest](), h.QuestionTypes.Create)
	questionTypes.Get("/:id", id, h.QuestionTypes.Get)
	questionTypes.Put("/:id", admin, id, v.Body[dto.UpdateQuestionTypeRequest](), h.QuestionTypes.Update)
	questionTypes.Delete("/:id", admin, id, h.QuestionTypes.Delete)

	app.Use(func(c *fiber.Ctx) error {
		return apperr.NotFound("Can't find %s on this server!", c.OriginalURL())
	})
}
