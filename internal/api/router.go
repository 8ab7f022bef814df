package api

import (
	"transcript-extractor/docs"
	"transcript-extractor/internal/api/handlers"
	"transcript-extractor/pkg/auth"
	"transcript-extractor/pkg/config"
	"transcript-extractor/pkg/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	"go.uber.org/zap"
)

// SetupRouter wires the transcript API. A nil jwtManager leaves /api open;
// an empty uploadsDir disables static serving of stored files.
func SetupRouter(
	transcriptHandler *handlers.TranscriptHandler,
	healthHandler *handlers.HealthHandler,
	jwtManager *auth.JWTManager,
	uploadsDir string,
	serverCfg *config.ServerConfig,
	appLogger *zap.Logger,
) *fiber.App {
	app := fiber.New(fiber.Config{
		ReadTimeout:  serverCfg.ReadTimeout,
		WriteTimeout: serverCfg.WriteTimeout,
		BodyLimit:    serverCfg.BodyLimit,
		ErrorHandler: handlers.ErrorHandler,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
	}))
	app.Use(logger.New())

	// importing docs registers the swagger document through its init()
	_ = docs.SwaggerInfo
	app.Get("/swagger/*", swagger.HandlerDefault)

	app.Get("/healthz", healthHandler.Health)

	if uploadsDir != "" {
		appLogger.Info("Serving uploads", zap.String("path", uploadsDir))
		app.Static("/uploads", uploadsDir)
	}

	api := app.Group("/api")
	if jwtManager != nil {
		api.Use(middleware.AuthMiddleware(jwtManager, appLogger))
	} else {
		appLogger.Warn("Authentication disabled, /api is open")
	}

	transcripts := api.Group("/transcripts")
	transcripts.Get("/", transcriptHandler.ListTranscripts)
	transcripts.Post("/", transcriptHandler.CreateTranscript)
	transcripts.Get("/:id", transcriptHandler.GetTranscript)
	transcripts.Put("/:id", transcriptHandler.UpdateTranscript)
	transcripts.Patch("/:id", transcriptHandler.UpdateTranscript)
	transcripts.Delete("/:id", transcriptHandler.DeleteTranscript)

	return app
}
