package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/Jayeshfarkunde27/To-let/internal/adapter/ai"
	"github.com/Jayeshfarkunde27/To-let/internal/adapter/http/handler"
	"github.com/Jayeshfarkunde27/To-let/internal/adapter/http/router"
	"github.com/Jayeshfarkunde27/To-let/internal/adapter/messaging/nats"
	"github.com/Jayeshfarkunde27/To-let/internal/adapter/repository/cache"
	"github.com/Jayeshfarkunde27/To-let/internal/adapter/repository/mongodb"
	"github.com/Jayeshfarkunde27/To-let/internal/adapter/storage/s3"
	assistantuc "github.com/Jayeshfarkunde27/To-let/internal/assistant/usecase"
	"github.com/Jayeshfarkunde27/To-let/internal/config"
	"github.com/Jayeshfarkunde27/To-let/internal/mailer"
	"github.com/Jayeshfarkunde27/To-let/internal/platform/logger"
	"github.com/Jayeshfarkunde27/To-let/internal/platform/metrics"
	"github.com/Jayeshfarkunde27/To-let/internal/platform/tracer"
	propertyuc "github.com/Jayeshfarkunde27/To-let/internal/property/usecase"
	"github.com/Jayeshfarkunde27/To-let/internal/user/repository"
	useruc "github.com/Jayeshfarkunde27/To-let/internal/user/usecase"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

const serviceName = "tolet"

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading configuration from environment")
	}

	appLogger := logger.NewLogger()
	defer appLogger.Sync()

	cfg, err := config.LoadConfig()
	if err != nil {
		appLogger.Fatal("Failed to load config", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tp := tracer.InitTracer(serviceName, cfg.OTLPEndpoint, appLogger)
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(shutdownCtx); err != nil {
			appLogger.Error("Failed to shut down tracer provider", zap.Error(err))
		}
	}()

	mm := metrics.NewMetricsManager(serviceName)
	go func() {
		if err := metrics.StartMetricsServer(cfg.MetricsPort, appLogger, mm.Registry); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Error("Metrics server stopped", zap.Error(err))
		}
	}()

	// Connect to MongoDB
	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		appLogger.Fatal("Failed to connect to MongoDB", zap.Error(err))
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			appLogger.Error("Failed to disconnect MongoDB", zap.Error(err))
		}
	}()
	db := mongoClient.Database(cfg.MongoDB)

	// Connect to Redis
	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		appLogger.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer redisClient.Close()

	// Object storage for property photos
	storageClient, err := s3.NewS3Storage(cfg.MinIOEndpoint, cfg.MinIOAccessKey, cfg.MinIOSecretKey, cfg.MinIOBucket, cfg.MinIOUseSSL, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize storage", zap.Error(err))
	}

	natsPublisher, err := nats.NewPublisher(cfg.NATSURL)
	if err != nil {
		appLogger.Fatal("Failed to initialize NATS", zap.Error(err))
	}
	defer natsPublisher.Close()

	gemini, err := ai.NewGemini(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize Gemini client", zap.Error(err))
	}

	smtpMailer := mailer.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPEmail, cfg.SMTPPassword, appLogger)

	userRepo := repository.NewUserRepository(db, redisClient, appLogger)
	propertyRepo := mongodb.NewPropertyRepository(db)
	propertyCache := cache.NewPropertyCache(redisClient)

	userUC := useruc.NewUserUsecase(userRepo, natsPublisher, smtpMailer, cfg.JWTSecret, appLogger)
	propertyUC := propertyuc.NewPropertyUsecase(propertyRepo, propertyCache, natsPublisher, userRepo, smtpMailer, appLogger)
	photoUC := propertyuc.NewPhotoUsecase(storageClient, propertyRepo, propertyCache, appLogger)
	chatUC := assistantuc.NewChatUsecase(propertyUC, gemini, appLogger)

	userHandler := handler.NewUserHandler(userUC, mm, appLogger)
	propertyHandler := handler.NewPropertyHandler(propertyUC, photoUC, mm, appLogger)
	chatHandler := handler.NewChatHandler(chatUC, gemini, mm, appLogger)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router.New(userHandler, propertyHandler, chatHandler, mm, cfg.JWTSecret, appLogger),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	go func() {
		appLogger.Info("Starting HTTP server", zap.Int("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatal("Failed to serve HTTP", zap.Error(err))
		}
	}()

	<-ctx.Done()
	appLogger.Info("Shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("HTTP server shutdown failed", zap.Error(err))
	}
	appLogger.Info("Server stopped")
}
