package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/veritas-legal/casefile-api/docs"
	"github.com/veritas-legal/casefile-api/internal/ai"
	"github.com/veritas-legal/casefile-api/internal/auth"
	"github.com/veritas-legal/casefile-api/internal/blob"
	"github.com/veritas-legal/casefile-api/internal/config"
	"github.com/veritas-legal/casefile-api/internal/database"
	"github.com/veritas-legal/casefile-api/internal/health"
	"github.com/veritas-legal/casefile-api/internal/http/handler"
	"github.com/veritas-legal/casefile-api/internal/http/middleware"
	"github.com/veritas-legal/casefile-api/internal/http/router"
	"github.com/veritas-legal/casefile-api/internal/jobs"
	"github.com/veritas-legal/casefile-api/internal/logger"
	"github.com/veritas-legal/casefile-api/internal/repository"
	"github.com/veritas-legal/casefile-api/internal/service"
	"go.uber.org/zap"
)

// @title Casefile API
// @version 1.0
// @description Legal case management backend with document storage, medical bill tracking and AI assistance

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT Bearer token

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	// Load basic configuration first (for logging setup)
	basicCfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.NewLogger(&basicCfg.Logging, &basicCfg.App)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting application",
		zap.String("app", basicCfg.App.Name),
		zap.String("env", basicCfg.App.Environment),
		zap.Int("port", basicCfg.App.Port),
	)

	docs.SwaggerInfo.Host = fmt.Sprintf("localhost:%d", basicCfg.App.Port)
	if host := os.Getenv("SWAGGER_HOST"); host != "" {
		docs.SwaggerInfo.Host = host
	}

	// Full configuration with secrets resolved (Key Vault in staging/production)
	cfg, err := config.LoadWithSecrets(ctx, log)
	if err != nil {
		return fmt.Errorf("failed to load secrets: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	db, err := database.NewDatabase(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := database.AutoMigrate(db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	if err := database.SeedPrompts(db); err != nil {
		return fmt.Errorf("failed to seed prompts: %w", err)
	}

	// Blob storage; all managed containers are created up front
	blobService, err := blob.NewService(&cfg.Blob, log)
	if err != nil {
		return fmt.Errorf("failed to initialize blob storage: %w", err)
	}
	if err := blobService.InitializeContainers(ctx); err != nil {
		return fmt.Errorf("failed to initialize blob containers: %w", err)
	}
	log.Info("Blob storage initialized")

	aiClient := ai.NewClient(&cfg.AI, log)

	// Repositories
	userRepo := repository.NewUserRepository(db)
	caseRepo := repository.NewCaseRepository(db)
	docRepo := repository.NewDocumentRepository(db)
	billRepo := repository.NewMedicalBillRepository(db)
	chatRepo := repository.NewChatRepository(db)
	letterRepo := repository.NewDemandLetterRepository(db)
	promptRepo := repository.NewPromptRepository(db)

	// Services
	tokenIssuer := auth.NewTokenIssuer(&cfg.Auth)
	userService := service.NewUserService(userRepo, tokenIssuer, aiClient, log)
	caseService := service.NewCaseService(caseRepo, docRepo, blobService, log)
	docService := service.NewDocumentService(docRepo, caseRepo, userRepo, promptRepo, blobService, aiClient, log)
	billService := service.NewMedicalBillService(billRepo, caseRepo, docRepo, log)
	chatService := service.NewChatService(chatRepo, caseRepo, docRepo, userRepo, promptRepo, aiClient, log)
	letterService := service.NewDemandLetterService(letterRepo, caseRepo, docRepo, billRepo, userRepo, promptRepo, aiClient, log)

	// Middleware
	authMiddleware := auth.NewMiddleware(tokenIssuer, log)
	rateLimiter := middleware.NewRateLimiter(&cfg.RateLimit, log)

	// Handlers
	authHandler := handler.NewAuthHandler(userService, log)
	caseHandler := handler.NewCaseHandler(caseService, log)
	docHandler := handler.NewDocumentHandler(docService, cfg.Blob.MaxUploadSizeMB, log)
	billHandler := handler.NewMedicalBillHandler(billService, log)
	chatHandler := handler.NewChatHandler(chatService, log)
	letterHandler := handler.NewDemandLetterHandler(letterService, log)
	healthChecker := health.NewChecker(blobService, log)
	healthHandler := handler.NewHealthHandler(healthChecker, log)

	rt := router.NewRouter(
		cfg,
		log,
		db,
		authMiddleware,
		rateLimiter,
		authHandler,
		caseHandler,
		docHandler,
		billHandler,
		chatHandler,
		letterHandler,
		healthHandler,
	)

	// Background jobs
	scheduler := jobs.NewScheduler(log)
	cleanupJob := jobs.NewTempCleanupJob(blobService, cfg.Jobs.TempMaxAge(), log)
	if err := scheduler.AddJob(jobs.TempCleanupJobName, cfg.Jobs.TempCleanupCron, cleanupJob.Run); err != nil {
		log.Error("Failed to register temp cleanup job", zap.Error(err))
	} else {
		scheduler.Start()
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      rt.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeoutDuration(),
		WriteTimeout: cfg.Server.WriteTimeoutDuration(),
	}

	serverErrors := make(chan error, 1)
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		serverErrors <- srv.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		log.Info("Shutdown signal received", zap.String("signal", sig.String()))

		stopCtx := scheduler.Stop()
		<-stopCtx.Done()
		log.Info("Scheduler stopped")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Error("Failed to shutdown gracefully", zap.Error(err))
			return err
		}

		log.Info("Server stopped gracefully")
	}

	return nil
}
