// Package main runs the Integrated Oasis API.
//
// @title           Integrated Oasis API
// @version         1.0
// @description     Learning platform API: accounts, course catalog, enrollments, admin analytics and operations.
// @BasePath        /
//
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the session token.
package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/Goodness-MArcel/oasis/internal/api"
	"github.com/Goodness-MArcel/oasis/internal/api/handler"
	"github.com/Goodness-MArcel/oasis/internal/core/ports"
	"github.com/Goodness-MArcel/oasis/internal/core/service"
	"github.com/Goodness-MArcel/oasis/internal/infrastructure/config"
	"github.com/Goodness-MArcel/oasis/internal/infrastructure/db/migrations"
	"github.com/Goodness-MArcel/oasis/internal/infrastructure/db/postgres"
	redisdb "github.com/Goodness-MArcel/oasis/internal/infrastructure/db/redis"
	"github.com/Goodness-MArcel/oasis/internal/infrastructure/http/handlers"
	"github.com/Goodness-MArcel/oasis/internal/infrastructure/mail"
	"github.com/Goodness-MArcel/oasis/internal/infrastructure/queue"
	"github.com/Goodness-MArcel/oasis/internal/infrastructure/storage"
	"github.com/Goodness-MArcel/oasis/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		bootLog := logger.Init(logger.Options{Service: "oasis"})
		bootLog.Fatal().Err(err).Msg("load config")
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: "oasis",
	})

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped with error")
	}
	log.Info().Msg("server stopped gracefully")
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	db, err := postgres.Connect(ctx, postgres.Config{
		URL:          cfg.Database.URL,
		MaxOpenConns: cfg.Database.MaxOpenConns,
		MaxIdleConns: cfg.Database.MaxIdleConns,
	}, logger.Component("gorm"))
	if err != nil {
		return err
	}
	defer func() {
		if err := postgres.Close(db); err != nil {
			log.Warn().Err(err).Msg("close postgres")
		}
	}()

	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	if err := migrations.Up(sqlDB); err != nil {
		return err
	}

	// Redis only backs caches; the API runs without it.
	var (
		rdb   *goredis.Client
		cache ports.AnalyticsCache
		dedup queue.Dedup
	)
	rdb, err = redisdb.Connect(ctx, redisdb.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
	})
	if err != nil {
		log.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("redis unavailable, running without cache")
	} else {
		defer rdb.Close()
		cache = redisdb.NewAnalyticsCache(rdb, cfg.Redis.CacheTTL)
		dedup = redisdb.NewTaskDedup(rdb)
	}

	users := postgres.NewUserRepository(db)
	admins := postgres.NewAdminRepository(db)
	courses := postgres.NewCourseRepository(db)
	enrollments := postgres.NewEnrollmentRepository(db)
	payments := postgres.NewPaymentRepository(db)
	activities := postgres.NewActivityRepository(db)
	meetings := postgres.NewMeetingRepository(db)
	analyticsRepo := postgres.NewAnalyticsRepository(db)
	store := postgres.NewStore(db)

	mailer := mail.New(mail.Config{
		SMTP: mail.SMTPConfig{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			User:     cfg.SMTP.User,
			Password: cfg.SMTP.Password,
		},
		From:   cfg.SMTP.From,
		AppURL: cfg.AppURL,
	}, log)
	if !mailer.Configured() {
		log.Warn().Msg("SMTP not configured, emails are disabled")
	}

	images, err := storage.NewImageStore(cfg.UploadDir, log)
	if err != nil {
		return err
	}

	workerCtx, cancelWorkers := context.WithCancel(context.Background())
	defer cancelWorkers()

	dispatcher := queue.NewDispatcher(
		service.NewTaskService(activities, mailer, log),
		queue.Options{
			Workers:     cfg.Worker.Count,
			MaxAttempts: cfg.Worker.MaxAttempts,
			Dedup:       dedup,
		},
		logger.Component("queue"),
	)
	dispatcher.Start(workerCtx)

	tokens := service.NewTokenService(cfg.JWTSecret)
	authSvc := service.NewAuthService(users, tokens, mailer, dispatcher, cfg.AppURL, log)
	adminAuthSvc := service.NewAdminAuthService(admins, tokens, log)
	analyticsSvc := service.NewAnalyticsService(analyticsRepo, cache, log)
	courseSvc := service.NewCourseService(courses, images, dispatcher, log)
	enrollmentSvc := service.NewEnrollmentService(courses, enrollments, dispatcher, log)
	meetingSvc := service.NewMeetingService(meetings)
	userAdminSvc := service.NewUserAdminService(users, payments, store, mailer, dispatcher, log)

	if cfg.AdminSeed.Email != "" && cfg.AdminSeed.Password != "" {
		if err := adminAuthSvc.EnsureAdmin(ctx, cfg.AdminSeed.Email, cfg.AdminSeed.Password); err != nil {
			return err
		}
	}

	cookies := handler.CookieOptions{Secure: cfg.IsProduction()}
	optional := map[string]handlers.Pinger{}
	if rdb != nil {
		optional["redis"] = handlers.RedisPinger(rdb)
	}

	e := api.NewRouter(api.RouterConfig{
		Tokens:    tokens,
		UploadDir: cfg.UploadDir,
	}, api.Handlers{
		Auth:        handler.NewAuthHandler(authSvc, cookies),
		AdminAuth:   handler.NewAdminAuthHandler(adminAuthSvc, cookies),
		Analytics:   handler.NewAnalyticsHandler(analyticsSvc),
		Courses:     handler.NewCourseHandler(courseSvc),
		Enrollments: handler.NewEnrollmentHandler(enrollmentSvc),
		Meetings:    handler.NewMeetingHandler(meetingSvc),
		Users:       handler.NewUserAdminHandler(userAdminSvc),
		Health:      handlers.NewHealthHandler(),
		Ready: handlers.NewHealthDependenciesHandler(
			map[string]handlers.Pinger{"postgres": handlers.PostgresPinger(db)},
			optional,
		),
	}, logger.Component("http"))

	serveErr := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("http server listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("http shutdown")
	}
	cancelWorkers()
	return nil
}
