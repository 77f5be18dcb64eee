package api

import (
	"fin-ledger/docs"
	"fin-ledger/internal/api/handlers"
	"fin-ledger/pkg/auth"
	"fin-ledger/pkg/config"
	"fin-ledger/pkg/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	"go.uber.org/zap"
)

type Handlers struct {
	Auth         *handlers.AuthHandler
	Profile      *handlers.ProfileHandler
	Transactions *handlers.TransactionHandler
	Categories   *handlers.CategoryHandler
	Summary      *handlers.SummaryHandler
	Suggestions  *handlers.SuggestionHandler
}

func SetupRouter(h Handlers, jwtManager *auth.JWTManager, serverCfg config.ServerConfig, appLogger *zap.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		ReadTimeout:  serverCfg.ReadTimeout,
		WriteTimeout: serverCfg.WriteTimeout,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			if code == fiber.StatusInternalServerError {
				appLogger.Error("Unhandled request error", zap.String("path", c.Path()), zap.Error(err))
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	// Middleware
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
	}))
	app.Use(logger.New())

	// importing docs registers the swagger document in init()
	_ = docs.SwaggerInfo
	app.Get("/swagger/*", swagger.HandlerDefault)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// Auth routes (public)
	authGroup := app.Group("/user/auth")
	authGroup.Post("/register", h.Auth.Register)
	authGroup.Post("/login", h.Auth.Login)
	authGroup.Post("/refresh", h.Auth.RefreshToken)

	// Protected routes
	protected := app.Group("/api/v1", middleware.AuthMiddleware(jwtManager, appLogger))

	protected.Get("/profile", h.Profile.GetProfile)
	protected.Put("/profile", h.Profile.UpdateProfile)

	transactions := protected.Group("/transactions")
	transactions.Get("", h.Transactions.ListTransactions)
	transactions.Post("", h.Transactions.CreateTransaction)
	transactions.Get("/:id", h.Transactions.GetTransaction)
	transactions.Put("/:id", h.Transactions.UpdateTransaction)
	transactions.Delete("/:id", h.Transactions.DeleteTransaction)

	categories := protected.Group("/categories")
	categories.Get("", h.Categories.ListCategories)
	categories.Post("", h.Categories.CreateCategory)
	categories.Delete("/:id", h.Categories.DeleteCategory)

	summary := protected.Group("/summary")
	summary.Get("", h.Summary.GetSummary)
	summary.Get("/categories", h.Summary.GetCategoryBreakdown)
	summary.Get("/trend", h.Summary.GetTrend)
	protected.Get("/dashboard", h.Summary.GetDashboard)

	suggestions := protected.Group("/suggestions")
	suggestions.Post("", h.Suggestions.GenerateSuggestion)
	suggestions.Get("", h.Suggestions.ListSuggestions)

	return app
}
