package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/tutorhub/backend/internal/app"
	"github.com/tutorhub/backend/internal/auth"
	"github.com/tutorhub/backend/internal/config"
	"github.com/tutorhub/backend/internal/controller"
	"github.com/tutorhub/backend/internal/email"
	"github.com/tutorhub/backend/internal/repository"
	"github.com/tutorhub/backend/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := app.NewLogger(cfg.Environment)
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.DBDSN)
	if err != nil {
		logger.Fatal("failed to create db pool", zap.Error(err))
	}
	defer pool.Close()

	migrator, err := app.NewMigrator(pool, cfg.MigrationsDir)
	if err != nil {
		logger.Fatal("failed to create migrator", zap.Error(err))
	}
	if err := migrator.Run(ctx); err != nil {
		logger.Fatal("failed to apply migrations", zap.Error(err))
	}
	migrator.Close()

	users := repository.NewUserRepository(pool)
	courses := repository.NewCourseRepository(pool)
	lessons := repository.NewLessonRepository(pool)
	enrollments := repository.NewEnrollmentRepository(pool)
	sessions := repository.NewSessionRepository(pool)
	homework := repository.NewHomeworkRepository(pool)
	resetTokens := repository.NewPasswordResetRepository(pool)

	clock := service.SystemClock()
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL)
	hasher := auth.NewBcryptHasher()

	var sender service.EmailSender
	if cfg.UnisenderAPIKey != "" {
		sender = email.NewUnisenderSender(cfg.UnisenderAPIKey, cfg.EmailFromAddress, cfg.EmailFromName, logger)
	} else {
		if !cfg.IsDev() {
			logger.Fatal("UNISENDER_API_KEY is required in production")
		}
		sender = email.NewLogSender(logger)
	}

	authSvc := service.NewAuthService(users, jwtManager, hasher, clock, logger)
	resetSvc := service.NewPasswordResetService(users, resetTokens, hasher, sender, cfg.ResetTokenTTL, cfg.IsDev(), clock, logger)
	courseSvc := service.NewCourseService(courses, clock, logger)
	lessonSvc := service.NewLessonService(courses, lessons, clock, logger)
	enrollmentSvc := service.NewEnrollmentService(users, courses, enrollments, clock, logger)
	sessionSvc := service.NewSessionService(courses, lessons, enrollments, sessions, clock, logger)
	homeworkSvc := service.NewHomeworkService(courses, enrollments, homework, clock, logger)

	var seedCtl *controller.SeedController
	if cfg.IsDev() {
		seedSvc := service.NewSeedService(users, courses, lessons, enrollments, jwtManager, hasher, clock, logger)
		seedCtl = controller.NewSeedController(seedSvc)
	}

	router := controller.NewRouter(
		jwtManager,
		controller.NewAuthController(authSvc, resetSvc),
		controller.NewCourseController(courseSvc, lessonSvc),
		controller.NewEnrollmentController(enrollmentSvc, homeworkSvc),
		controller.NewHomeworkController(homeworkSvc),
		controller.NewSessionController(sessionSvc),
		controller.NewStudentController(courseSvc, lessonSvc, sessionSvc, homeworkSvc),
		seedCtl,
	)

	scheduler := app.NewScheduler(resetTokens, logger)
	scheduler.Start(ctx)
	defer scheduler.Stop()

	e := echo.New()
	e.HideBanner = true
	router.Mount(e)

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server stopped", zap.Error(err))
		}
	}()

	logger.Info("api started",
		zap.String("port", cfg.Port),
		zap.String("environment", cfg.Environment),
	)

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown failed", zap.Error(err))
	}

	logger.Info("api stopped")
}
