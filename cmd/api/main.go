package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/sleepquest/diary-api/internal/config"
	"github.com/sleepquest/diary-api/internal/database"
	"github.com/sleepquest/diary-api/internal/handler"
	"github.com/sleepquest/diary-api/internal/middleware"
	"github.com/sleepquest/diary-api/internal/models"
	"github.com/sleepquest/diary-api/internal/repository"
	"github.com/sleepquest/diary-api/internal/router"
	"github.com/sleepquest/diary-api/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	loc, err := cfg.Location()
	if err != nil {
		log.Fatalf("failed to resolve timezone: %v", err)
	}

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(&models.Participant{}, &models.Submission{}, &models.Question{}, &models.Class{}, &models.Staff{}); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	redisClient, err := database.ConnectRedis(cfg.RedisURL)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()

	natsConn, err := database.ConnectNATS(cfg.NATSURL)
	if err != nil {
		log.Fatalf("failed to connect to nats: %v", err)
	}
	if natsConn != nil {
		defer natsConn.Close()
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	participantRepo := repository.NewParticipantRepository(db)
	submissionRepo := repository.NewSubmissionRepository(db)
	questionRepo := repository.NewQuestionRepository(db)
	classRepo := repository.NewClassRepository(db)
	staffRepo := repository.NewStaffRepository(db)

	questionService := service.NewQuestionService(questionRepo, logger)
	gameService := service.NewGameService(participantRepo, redisClient, cfg.GameStateTTL, logger)
	diaryService := service.NewDiaryService(db, participantRepo, questionService, gameService, natsConn, loc, logger)
	authService := service.NewAuthService(participantRepo, staffRepo, validate, cfg.JWTSecret, cfg.JWTTTL, loc, logger)
	teacherService := service.NewTeacherService(questionRepo, classRepo, staffRepo, participantRepo, submissionRepo, validate, loc, logger)
	adminService := service.NewAdminService(db, questionRepo, classRepo, staffRepo, participantRepo, validate, logger)
	exportService := service.NewExportService(questionRepo, submissionRepo, logger)

	authHandler := handler.NewAuthHandler(authService, logger)
	diaryHandler := handler.NewDiaryHandler(diaryService, validate, logger)
	gameHandler := handler.NewGameHandler(gameService, validate, logger)
	teacherHandler := handler.NewTeacherHandler(teacherService, logger)
	adminHandler := handler.NewAdminHandler(adminService, exportService, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		AuthHandler:    authHandler,
		DiaryHandler:   diaryHandler,
		GameHandler:    gameHandler,
		TeacherHandler: teacherHandler,
		AdminHandler:   adminHandler,
		JWTMiddleware:  middleware.JWTProtected(cfg.JWTSecret),
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

func waitForShutdown(app *fiber.App) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
