package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"fin-ledger/internal/api"
	"fin-ledger/internal/api/handlers"
	"fin-ledger/internal/backend"
	"fin-ledger/internal/events"
	"fin-ledger/internal/llm"
	"fin-ledger/internal/service"
	"fin-ledger/pkg/auth"
	"fin-ledger/pkg/config"
	"fin-ledger/pkg/logger"

	"go.uber.org/zap"
)

// @title Fin Ledger API
// @version 1.0
// @description Personal finance ledger: transactions, categories, period summaries and spending suggestions
// @termsOfService http://swagger.io/terms/

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize global logger
	if err := logger.Init(cfg.Logger.Level); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	appLogger := logger.Get()
	appLogger.Info("Starting fin-ledger service", zap.String("store", cfg.Store.Driver), zap.String("llm", cfg.LLM.Provider))

	ctx := context.Background()
	opened, err := backend.Open(ctx, cfg, logger.Component("store"))
	if err != nil {
		appLogger.Fatal("Failed to open store", zap.Error(err))
	}
	defer opened.Cleanup()
	store := opened.Store

	var publisher events.Publisher = events.NopPublisher{}
	if cfg.Events.AMQPURL != "" {
		amqpPublisher, err := events.NewAMQPPublisher(cfg.Events.AMQPURL, cfg.Events.Exchange, logger.Component("events"))
		if err != nil {
			appLogger.Fatal("Failed to connect to message broker", zap.Error(err))
		}
		publisher = amqpPublisher
	}
	defer publisher.Close()

	llmClient, err := llm.NewClient(llm.Config{
		Provider:           cfg.LLM.Provider,
		APIKey:             cfg.LLM.APIKey,
		Scope:              cfg.LLM.Scope,
		Model:              cfg.LLM.Model,
		BaseURL:            cfg.LLM.BaseURL,
		Temperature:        cfg.LLM.Temperature,
		Timeout:            cfg.LLM.Timeout,
		InsecureSkipVerify: cfg.LLM.InsecureSkipVerify,
	}, logger.Component("llm"))
	if err != nil {
		appLogger.Fatal("Failed to initialize LLM client", zap.Error(err))
	}
	defer llmClient.Close()

	jwtManager := auth.NewJWTManager(cfg.JWT.SecretKey, cfg.JWT.Expiration, cfg.JWT.RefreshExp)

	// Initialize services
	authService := service.NewAuthService(store.Users, jwtManager, logger.Component("auth"))
	userService := service.NewUserService(store.Users, logger.Component("users"))
	ledger := service.NewLedgerService(store, publisher, logger.Component("ledger"))
	aggregator := service.NewAggregatorService(ledger, logger.Component("aggregator"))
	insights := service.NewInsightService(store, ledger, llmClient, publisher, service.InsightConfig{
		Timeout:            cfg.LLM.Timeout,
		RecentTransactions: cfg.Insight.RecentTransactions,
	}, logger.Component("insights"))

	httpLogger := logger.Component("http")
	app := api.SetupRouter(api.Handlers{
		Auth:         handlers.NewAuthHandler(authService, httpLogger),
		Profile:      handlers.NewProfileHandler(userService, httpLogger),
		Transactions: handlers.NewTransactionHandler(ledger, httpLogger),
		Categories:   handlers.NewCategoryHandler(ledger, httpLogger),
		Summary:      handlers.NewSummaryHandler(aggregator, httpLogger),
		Suggestions:  handlers.NewSuggestionHandler(insights, httpLogger),
	}, jwtManager, cfg.Server, httpLogger)

	// Start server
	go func() {
		addr := ":" + cfg.Server.Port
		appLogger.Info("Server starting", zap.String("address", addr))
		if err := app.Listen(addr); err != nil {
			appLogger.Fatal("Server failed", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server")
	if err := app.ShutdownWithTimeout(cfg.Server.WriteTimeout); err != nil {
		appLogger.Error("Server shutdown error", zap.Error(err))
	}
}
