package server

import (
	"context"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/mansoorceksport/fitbuddy/internal/config"
	"github.com/mansoorceksport/fitbuddy/internal/domain"
	"github.com/mansoorceksport/fitbuddy/internal/handler"
	"github.com/mansoorceksport/fitbuddy/internal/middleware"
	"github.com/mansoorceksport/fitbuddy/internal/repository"
	"github.com/mansoorceksport/fitbuddy/internal/service"
	"github.com/mansoorceksport/fitbuddy/internal/telemetry"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
)

// AppDependencies holds the dependencies required to start the application
type AppDependencies struct {
	Config      *config.Config
	MongoDB     *mongo.Database
	RedisClient *redis.Client
	// MediaStore overrides the S3 media repository. Nil means build one from config.
	MediaStore domain.FileRepository
}

// NewApp creates and configures the Fiber application with the given dependencies
func NewApp(deps AppDependencies) *fiber.App {
	// Initialize repositories
	userRepo := repository.NewMongoUserRepository(deps.MongoDB)
	programRepo := repository.NewMongoProgramRepository(deps.MongoDB)
	logRepo := repository.NewMongoProgressLogRepository(deps.MongoDB)
	exerciseRepo := repository.NewMongoExerciseRepository(deps.MongoDB)
	redisRepo := repository.NewRedisCacheRepository(deps.RedisClient)
	cachedExerciseRepo := repository.NewCachedExerciseRepository(exerciseRepo, redisRepo)
	tx := repository.NewMongoTransactor(deps.MongoDB.Client())

	mediaStore := deps.MediaStore
	if mediaStore == nil && deps.Config.S3.Enabled() {
		s3Repo, err := repository.NewS3MediaRepository(context.Background(), deps.Config.S3)
		if err != nil {
			log.Printf("Warning: Failed to initialize S3 repository: %v", err)
		} else {
			mediaStore = s3Repo
		}
	}

	// Initialize services. The reconciler and recorder read exercises straight
	// from Mongo so they see writes made inside the same transaction.
	guard := service.NewAccessGuard(userRepo, programRepo, logRepo)
	reconciler := service.NewProgramReconciler(exerciseRepo)
	recorder := service.NewProgressRecorder(exerciseRepo)
	summaries := service.NewSummaryAggregator(programRepo, logRepo)

	authService := service.NewAuthService(userRepo, deps.Config.JWT)
	programService := service.NewProgramService(guard, reconciler, summaries, programRepo, logRepo, tx)
	progressService := service.NewProgressService(guard, recorder, programRepo, logRepo, tx)
	exerciseService := service.NewExerciseService(guard, cachedExerciseRepo, programRepo, mediaStore, tx)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService)
	exerciseHandler := handler.NewExerciseHandler(exerciseService, deps.Config.Server.MaxUploadSizeMB)
	programHandler := handler.NewProgramHandler(programService, progressService)
	progressHandler := handler.NewProgressHandler(progressService)

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "FitBuddy API",
		BodyLimit:    int(deps.Config.Server.MaxUploadSizeMB * 1024 * 1024),
		ErrorHandler: customErrorHandler,
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-Correlation-ID",
		AllowMethods: "GET, POST, PUT, DELETE, OPTIONS",
	}))
	app.Use(telemetry.FiberMiddleware())

	// Health check endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "healthy",
			"service": "fitbuddy",
		})
	})

	// API v1 routes
	v1 := app.Group("/v1")

	// Auth endpoints (public)
	auth := v1.Group("/auth")
	auth.Post("/signup", authHandler.Signup)
	auth.Post("/login", authHandler.Login)

	// Everything below requires an access token
	protected := v1.Group("", middleware.VerifyAccessToken(deps.Config.JWT.Secret))
	protected.Use(middleware.IdempotencyMiddleware(deps.RedisClient, deps.Config.Idempotency.TTL))

	exercises := protected.Group("/exercises")
	exercises.Get("/", exerciseHandler.Search)
	exercises.Post("/", exerciseHandler.Create)
	exercises.Delete("/", exerciseHandler.BatchDelete)
	exercises.Get("/:id", exerciseHandler.Get)
	exercises.Put("/:id", exerciseHandler.Update)
	exercises.Delete("/:id", exerciseHandler.Delete)
	exercises.Get("/:id/usage", exerciseHandler.Usage)
	exercises.Post("/:id/media", exerciseHandler.UploadMedia)

	// Static paths must be registered before /:id
	programs := protected.Group("/programs")
	programs.Get("/with-logs", programHandler.WithLogs)
	programs.Get("/without-logs", programHandler.WithoutLogs)
	programs.Get("/overview", programHandler.Overview)
	programs.Get("/", programHandler.List)
	programs.Post("/", programHandler.Create)
	programs.Get("/:id", programHandler.Get)
	programs.Put("/:id", programHandler.Update)
	programs.Delete("/:id", programHandler.Delete)
	programs.Put("/:id/days/:dayId", programHandler.UpdateDay)
	programs.Get("/:id/progress-logs", programHandler.Logs)
	programs.Get("/:id/progress-logs/summaries", programHandler.LogSummaries)

	progressLogs := protected.Group("/progress-logs")
	progressLogs.Get("/", progressHandler.List)
	progressLogs.Post("/", progressHandler.Create)
	progressLogs.Get("/:id", progressHandler.Get)
	progressLogs.Put("/:id", progressHandler.Update)
	progressLogs.Delete("/:id", progressHandler.Delete)

	protected.Get("/exercise-progress/:id", progressHandler.GetEntry)

	return app
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}
	log.Printf("Error: %v", err)
	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
	})
}
