package main

import (
	"context"
	"log"

	"legalintake-backend/config"
	"legalintake-backend/handlers"
	"legalintake-backend/repository"
	"legalintake-backend/service"
	"legalintake-backend/storage"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// Load .env file from project root (relative to cmd/server/)
	// Try current directory first, then project root
	if err := godotenv.Load(); err != nil {
		if err := godotenv.Load("../../.env"); err != nil {
			log.Printf("Warning: No .env file found, using environment variables")
		}
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := initLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()
	sugar := logger.Sugar()

	// Initialize database connection
	db, err := initPostgres(cfg.DatabaseURL)
	if err != nil {
		sugar.Fatalw("Failed to initialize Postgres", "error", err)
	}
	defer db.Close()
	sugar.Info("Postgres connection established")

	// Initialize storage
	blobStorage, err := storage.NewStorage(storage.StorageConfig{
		Type:         storage.StorageType(cfg.Storage.Type),
		LocalPath:    cfg.Storage.LocalPath,
		S3Bucket:     cfg.Storage.S3Bucket,
		S3Region:     cfg.Storage.S3Region,
		AWSAccessKey: cfg.Storage.AWSAccessKey,
		AWSSecretKey: cfg.Storage.AWSSecretKey,
	})
	if err != nil {
		sugar.Fatalw("Failed to initialize storage", "error", err)
	}
	sugar.Infow("Storage initialized", "type", cfg.Storage.Type)

	// Initialize repositories
	intakeRepo := repository.NewIntakeRepository(db)

	// Select the analyzer: remote backend when configured, embedded
	// Gemini analyzer as fallback, none otherwise (intakes are then
	// created without AI fields).
	analyzer, err := initAnalyzer(cfg, sugar)
	if err != nil {
		sugar.Fatalw("Failed to initialize analyzer", "error", err)
	}

	// Initialize services
	intakeService := service.NewIntakeService(
		service.WithIntakeStore(intakeRepo),
		service.WithAnalyzer(analyzer),
		service.WithIntakeLogger(sugar),
	)
	chatRelay := service.NewChatRelay(cfg.ChatBackendURL, sugar)

	// Initialize handlers
	intakeHandler := handlers.NewIntakeHandler(intakeService, sugar)
	chatHandler := handlers.NewChatHandler(chatRelay, sugar)
	uploadHandler := handlers.NewUploadHandler(blobStorage, cfg.UploadURLTTL, sugar)

	// Setup Gin router
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
		})
	})

	// API routes
	api := r.Group("/api")
	{
		// Intake endpoints
		api.POST("/intakes", intakeHandler.CreateIntake)
		api.GET("/intakes", intakeHandler.ListIntakes)
		api.DELETE("/intakes/:id", intakeHandler.DeleteIntake)

		// Chat relay
		api.POST("/chat", chatHandler.RelayChat)

		// Attachment upload flow
		api.POST("/blob/upload-authorize", uploadHandler.AuthorizeUpload)
		api.POST("/blob/upload-completed", uploadHandler.UploadCompleted)
		api.PUT("/blob/local/*key", uploadHandler.LocalUpload)
		api.GET("/blob/local/*key", uploadHandler.LocalDownload)
	}

	// Start server
	sugar.Infow("Server starting", "port", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		sugar.Fatalw("Failed to start server", "error", err)
	}
}

func initLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsProduction() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

func initPostgres(connString string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(context.Background(), connString)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(context.Background()); err != nil {
		return nil, err
	}

	return pool, nil
}

func initAnalyzer(cfg *config.Config, sugar *zap.SugaredLogger) (service.Analyzer, error) {
	if cfg.AnalysisBackendURL != "" {
		sugar.Infow("Using remote analysis backend", "url", cfg.AnalysisBackendURL)
		return service.NewAnalysisClient(cfg.AnalysisBackendURL, sugar), nil
	}

	if cfg.GeminiAPIKey != "" {
		sugar.Info("Using embedded Gemini analyzer")
		return service.NewGeminiAnalyzer(context.Background(), cfg.GeminiAPIKey, sugar)
	}

	sugar.Warn("No analyzer configured; intakes will be created without AI fields")
	return nil, nil
}
