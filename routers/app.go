package routers

import (
	"time"

	"learnhub/config"
	authControllers "learnhub/controllers/auth"
	courseControllers "learnhub/controllers/course"
	quizControllers "learnhub/controllers/quiz"
	superAdminController "learnhub/controllers/superAdmin"
	"learnhub/middleware"
	"learnhub/routers/authRoutes"
	"learnhub/routers/courseRoutes"
	"learnhub/routers/lessonRoutes"
	"learnhub/routers/quizRoutes"
	superAdminRoutes "learnhub/routers/superAdmin"
	"learnhub/services/auth"
	"learnhub/services/catalog"
	"learnhub/services/progress"
	"learnhub/services/quiz"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
)

// Services are the domain components the HTTP layer is built on.
type Services struct {
	Credentials *auth.CredentialStore
	Catalog     *catalog.Service
	Progress    *progress.Tracker
	Quiz        *quiz.Engine
}

// NewApp builds the fiber application with every /api route registered.
func NewApp(cfg *config.Config, svc Services) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "learnhub",
		ErrorHandler: middleware.NewErrorHandler(cfg.IsDevelopment()),
	})

	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigin,
		AllowMethods: "GET,POST,PUT,DELETE",        // Allowed HTTP methods
		AllowHeaders: "Content-Type,Authorization", // Allowed headers
	}))
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "[${time}] ${locals:requestid} ${ip} ${method} ${path} ${status} ${latency}\n",
	}))

	if cfg.StaticDir != "" {
		app.Static("/", cfg.StaticDir)
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":    "OK",
			"message":   "Server is running",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	})

	tokens := svc.Credentials.Tokens()
	api := app.Group("/api")

	authRoutes.SetupAuthRoutes(api, authControllers.NewAuthController(svc.Credentials), tokens)
	courseRoutes.SetupCourseRoutes(api, courseControllers.NewCourseController(svc.Catalog), tokens)
	courseRoutes.SetupAdminRoutes(api, courseControllers.NewAdminController(svc.Catalog, svc.Progress), tokens)
	lessonRoutes.SetupLessonRoutes(api, courseControllers.NewLessonController(svc.Progress), tokens)
	quizRoutes.SetupQuizRoutes(api, quizControllers.NewQuizController(svc.Quiz), tokens)
	superAdminRoutes.SetupSuperAdminRoutes(api, superAdminController.NewUserController(svc.Credentials), tokens)

	app.Use(func(c *fiber.Ctx) error {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Route not found", nil)
	})

	return app
}
