package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"docquiz/internal/adapter"
	"docquiz/internal/adapter/llm"
	"docquiz/internal/adapter/ocr"
	"docquiz/internal/adapter/storage"
	"docquiz/internal/cache"
	"docquiz/internal/config"
	"docquiz/internal/database"
	"docquiz/internal/domain"
	"docquiz/internal/handler"
	"docquiz/internal/logger"
	"docquiz/internal/middleware"
	"docquiz/internal/repository"
	"docquiz/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
)

// requestLogger is a middleware that logs HTTP requests
func requestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		path := c.Path()
		method := c.Method()

		err := c.Next()

		duration := time.Since(start)
		status := c.Response().StatusCode()

		logger.Get().Info("HTTP Request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", status),
			zap.Duration("duration", duration),
			zap.String("ip", c.IP()),
			zap.String("user_agent", c.Get("User-Agent")),
		)

		return err
	}
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Initialize(cfg.Logger); err != nil {
		panic(err)
	}
	appLogger := logger.Get()
	defer logger.Sync()

	// Model invoker, selected by config
	var invoker domain.ModelInvoker
	switch cfg.LLM.Source {
	case "ollama":
		appLogger.Info("Initializing Ollama model invoker",
			zap.String("server_url", cfg.LLM.ServerURL), zap.String("model", cfg.LLM.Model))
		invoker, err = llm.NewOllamaInvoker(cfg.LLM.ServerURL, cfg.LLM.Model)
		if err != nil {
			appLogger.Fatal("Failed to create Ollama model invoker", zap.Error(err))
		}
	case "openai":
		appLogger.Info("Initializing OpenAI model invoker", zap.String("model", cfg.LLM.Model))
		invoker, err = llm.NewOpenAIInvoker(cfg.LLM.APIKey, cfg.LLM.Model)
		if err != nil {
			appLogger.Fatal("Failed to create OpenAI model invoker", zap.Error(err))
		}
	default:
		appLogger.Fatal(fmt.Sprintf("Unsupported LLM source: %s. Please check LLM_SOURCE in config.", cfg.LLM.Source))
	}

	// Text extractor
	extractor, err := ocr.NewHTTPTextExtractor(cfg.OCR.Endpoint, cfg.OCR.Timeout)
	if err != nil {
		appLogger.Fatal("Failed to create text extractor", zap.Error(err))
	}

	// Database and quiz repository
	db, err := database.NewSQLXOracleDB(cfg.GetDSN())
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	quizRepository := repository.NewQuizDatabaseAdapter(db)

	// Redis read cache; the pipeline works without it
	var cacheAdapter domain.Cache
	redisClient, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		appLogger.Warn("Redis unavailable, quiz reads will not be cached", zap.Error(err))
	} else {
		cacheAdapter = adapter.NewRedisCacheAdapter(redisClient)
		appLogger.Info("RedisCacheAdapter initialized")
	}

	// Object storage for upload credentials
	urlIssuer, err := storage.NewMinioURLIssuer(cfg.Storage)
	if err != nil {
		appLogger.Fatal("Failed to initialize object storage", zap.Error(err))
	}

	// Services
	generator := service.NewQuizGenerator(invoker, cfg.LLM.MaxOutputTokens)
	pipelineService := service.NewPipelineService(extractor, generator, quizRepository, cacheAdapter, cfg.Redis.QuizTTL)
	uploadService := service.NewUploadService(urlIssuer, cfg.Storage.UploadURLExpiry)

	// Handlers
	quizHandler := handler.NewQuizHandler(pipelineService)
	documentHandler := handler.NewDocumentHandler(pipelineService)
	uploadHandler := handler.NewUploadHandler(uploadService)

	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  20 * time.Second,
		BodyLimit:    10 * 1024 * 1024,
		ErrorHandler: middleware.ErrorHandler(),
	})

	app.Use(requestLogger())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept",
		MaxAge:       300,
	}))
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	apiGroup := app.Group("/api")
	apiGroup.Post("/quizzes", quizHandler.GenerateQuiz)
	apiGroup.Get("/quizzes/:id", quizHandler.GetQuiz)
	apiGroup.Post("/documents/process", documentHandler.ProcessDocument)
	apiGroup.Post("/uploads/presign", uploadHandler.CreateUploadURL)

	go func() {
		appLogger.Info("Starting server", zap.Int("port", cfg.Server.Port), zap.String("env", cfg.Logger.Env))
		if err := app.Listen(":" + strconv.Itoa(cfg.Server.Port)); err != nil {
			appLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(ctx); err != nil {
		appLogger.Fatal("Server forced to shutdown", zap.Error(err))
	}
	appLogger.Info("Server exited gracefully")
}
