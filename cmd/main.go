package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/schrodchat/schrodchat-backend/internal/clients/openai"
	"github.com/schrodchat/schrodchat-backend/internal/db"
	"github.com/schrodchat/schrodchat-backend/internal/environment"
	"github.com/schrodchat/schrodchat-backend/internal/handlers"
	"github.com/schrodchat/schrodchat-backend/internal/logger"
	"github.com/schrodchat/schrodchat-backend/internal/middleware"
	"github.com/schrodchat/schrodchat-backend/internal/observability"
	"github.com/schrodchat/schrodchat-backend/internal/repos"
	"github.com/schrodchat/schrodchat-backend/internal/rubric"
	"github.com/schrodchat/schrodchat-backend/internal/server"
	"github.com/schrodchat/schrodchat-backend/internal/services"
	"github.com/schrodchat/schrodchat-backend/internal/utils"
)

func main() {
	_ = godotenv.Load()

	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Tracing
	ctx := context.Background()
	shutdownOTel := observability.InitOTel(ctx, log, observability.OtelConfig{
		ServiceName: utils.GetEnv("OTEL_SERVICE_NAME", "schrodchat-backend", log),
		Environment: utils.GetEnv("APP_ENV", "development", log),
		Version:     utils.GetEnv("APP_VERSION", "", log),
	})
	if shutdownOTel != nil {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = shutdownOTel(shutdownCtx)
		}()
	}

	// Env
	log.Info("Loading environment variables from main...")
	jwtSecretKey := utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log)
	accessTokenTTL := utils.GetEnvAsInt("ACCESS_TOKEN_TTL", 3600, log)
	refreshTokenTTL := utils.GetEnvAsInt("REFRESH_TOKEN_TTL", 86400, log)

	// Static config
	catalog, err := environment.LoadCatalog()
	if err != nil {
		log.Error("Could not load environment catalog", "error", err)
		os.Exit(1)
	}
	scoringRubric, err := rubric.Load()
	if err != nil {
		log.Error("Could not load rubric", "error", err)
		os.Exit(1)
	}

	// Database
	dbService, err := db.NewService(log)
	if err != nil {
		log.Error("Database init failed", "error", err)
		os.Exit(1)
	}
	if err = dbService.AutoMigrateAll(); err != nil {
		log.Error("Database auto migration failed", "error", err)
		os.Exit(1)
	}
	theDB := dbService.DB()

	// Repos
	log.Info("Setting up Repos from main...")
	userRepo := repos.NewUserRepo(theDB, log)
	userTokenRepo := repos.NewUserTokenRepo(theDB, log)
	sessionRepo := repos.NewSessionRepo(theDB, log)

	// Services
	log.Info("Setting up Services from main...")
	openaiClient, err := openai.NewClient(log)
	if err != nil {
		log.Error("Could not init OpenAI client", "error", err)
		os.Exit(1)
	}
	stateStore, err := services.ResolveGameStateStore(log)
	if err != nil {
		log.Error("Could not init game state store", "error", err)
		os.Exit(1)
	}
	authService := services.NewAuthService(theDB, log, userRepo, userTokenRepo, jwtSecretKey,
		time.Duration(accessTokenTTL)*time.Second, time.Duration(refreshTokenTTL)*time.Second)
	userService := services.NewUserService(theDB, log, userRepo)
	tutorService := services.NewTutorService(log, openaiClient)
	assessmentService := services.NewAssessmentService(log, openaiClient, scoringRubric)
	gameService := services.NewGameService(theDB, log, catalog, stateStore, tutorService, assessmentService, sessionRepo)
	sessionService := services.NewSessionService(theDB, log, sessionRepo)

	adminEmail := utils.GetEnv("ADMIN_EMAIL", "", log)
	adminPassword := utils.GetEnv("ADMIN_PASSWORD", "", log)
	if err := authService.EnsureAdminUser(ctx, adminEmail, adminPassword); err != nil {
		log.Warn("Admin user bootstrap failed", "error", err)
	}

	// Handlers
	log.Info("Setting up handlers from main...")
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService)
	gameHandler := handlers.NewGameHandler(gameService)
	sessionHandler := handlers.NewSessionHandler(sessionService)
	adminHandler := handlers.NewAdminHandler(sessionService)

	// Middleware
	log.Info("Setting up middleware from main...")
	authMiddleware := middleware.NewAuthMiddleware(log, authService)

	// Router
	log.Info("Setting up router from main...")
	router := server.NewRouter(server.RouterConfig{
		AuthHandler:    authHandler,
		AuthMiddleware: authMiddleware,
		UserHandler:    userHandler,
		GameHandler:    gameHandler,
		SessionHandler: sessionHandler,
		AdminHandler:   adminHandler,
		AllowOrigins:   server.SplitOrigins(utils.GetEnv("CORS_ALLOW_ORIGINS", "", log)),
		TracingEnabled: observability.Enabled(),
		ServiceName:    utils.GetEnv("OTEL_SERVICE_NAME", "schrodchat-backend", log),
	})

	port := utils.GetEnv("PORT", "7860", log)
	fmt.Printf("Server listening on :%s\n", port)
	if err := router.Run(":" + port); err != nil {
		log.Warn("Server failed", "error", err)
	}
}
