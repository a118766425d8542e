package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/arzan03/PaperBot/internal/apperr"
	"github.com/arzan03/PaperBot/internal/cache"
	"github.com/arzan03/PaperBot/internal/config"
	"github.com/arzan03/PaperBot/internal/db"
	"github.com/arzan03/PaperBot/internal/handlers"
	"github.com/arzan03/PaperBot/internal/logging"
	"github.com/arzan03/PaperBot/internal/middleware"
	"github.com/arzan03/PaperBot/internal/repository"
	"github.com/arzan03/PaperBot/internal/routes"
	"github.com/arzan03/PaperBot/internal/services"
	"github.com/arzan03/PaperBot/internal/storage"
	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"
	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

func main() {
	// Load .env file if it exists
	envErr := godotenv.Load()

	cfg := config.Load()
	logger := logging.Setup(cfg.IsProduction())
	if envErr != nil {
		slog.Info("no .env file found, using environment variables")
	}

	if cfg.AccessTokenSecret == "" || cfg.RefreshTokenSecret == "" {
		slog.Error("ACCESS_TOKEN_SECRET and REFRESH_TOKEN_SECRET are required")
		os.Exit(1)
	}

	ctx := context.Background()

	// MongoDB
	client, err := db.Connect(ctx, cfg.MongoURI)
	if err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	database := client.Database(cfg.MongoDatabase)
	if err := db.EnsureIndexes(ctx, database); err != nil {
		slog.Error("index bootstrap failed", "error", err)
		os.Exit(1)
	}
	registry := db.NewQuestionRegistry(database)

	// Redis backs the access token blacklist; without it logout is best effort.
	var redis *cache.Client
	if cfg.RedisAddr != "" {
		redis = cache.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err := redis.Ping(ctx); err != nil {
			slog.Warn("redis unreachable, token revocation degraded", "addr", cfg.RedisAddr, "error", err)
		}
	}

	// MinIO holds avatars; uploads are refused when it is not configured.
	var avatars services.AvatarStorage
	if cfg.MinioEndpoint != "" {
		store, err := storage.NewAvatarStore(cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey, cfg.MinioBucket, cfg.MinioUseSSL)
		if err != nil {
			slog.Error("minio client init failed", "error", err)
			os.Exit(1)
		}
		if err := store.EnsureBucket(ctx); err != nil {
			slog.Warn("avatar bucket unavailable", "bucket", cfg.MinioBucket, "error", err)
		}
		avatars = store
	}

	// Repositories and services
	users := repository.NewUserRepository(database)
	subjects := repository.NewSubjectRepository(database)
	questionTypes := repository.NewQuestionTypeRepository(database)
	questions := repository.NewQuestionRepository(registry)

	authService := services.NewAuthService(users, services.NewTokenStore(redis), services.NewLogMailer(logger), avatars, cfg)
	subjectService := services.NewSubjectService(subjects, questions, users, questionTypes, registry)
	questionService := services.NewQuestionService(subjects, questions)
	questionTypeService := services.NewQuestionTypeService(questionTypes)

	// Sentry error tracking
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			EnableTracing:    true,
			TracesSampleRate: 0.2,
			Environment:      cfg.Env,
		}); err != nil {
			slog.Error("sentry init failed", "error", err)
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	app := fiber.New(fiber.Config{
		BodyLimit:    4 * 1024 * 1024,
		ErrorHandler: apperr.Handler(cfg.IsProduction()),
	})

	app.Use(sentryfiber.New(sentryfiber.Options{
		Repanic:         true,
		WaitForDelivery: false,
	}))
	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path} | ${locals:requestid}\n",
	}))
	app.Use(middleware.CORS(cfg))
	app.Use(middleware.SecurityHeaders())

	routes.Setup(app, cfg, authService, routes.Handlers{
		Health: handlers.NewHealthHandler(func(ctx context.Context) error {
			return client.Ping(ctx, readpref.Primary())
		}),
		Users:         handlers.NewUserHandler(authService, cfg),
		Subjects:      handlers.NewSubjectHandler(subjectService),
		Questions:     handlers.NewQuestionHandler(questionService),
		QuestionTypes: handlers.NewQuestionTypeHandler(questionTypeService),
	})

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "port", cfg.Port, "env", cfg.Env)
		if err := app.Listen(":" + cfg.Port); err != nil {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	<-quit
	slog.Info("shutting down server...")

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Disconnect(shutdownCtx); err != nil {
		slog.Error("database disconnect error", "error", err)
	}
	if err := redis.Close(); err != nil {
		slog.Error("redis close error", "error", err)
	}

	slog.Info("server stopped")
}
