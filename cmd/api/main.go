package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/ticket-scheduler/internal/api/http"
	"github.com/spec-kit/ticket-scheduler/internal/api/http/handlers"
	"github.com/spec-kit/ticket-scheduler/internal/auth"
	"github.com/spec-kit/ticket-scheduler/internal/config"
	"github.com/spec-kit/ticket-scheduler/internal/events"
	"github.com/spec-kit/ticket-scheduler/internal/observability"
	"github.com/spec-kit/ticket-scheduler/internal/persistence"
	"github.com/spec-kit/ticket-scheduler/internal/repository"
	"github.com/spec-kit/ticket-scheduler/internal/scheduling"
	"github.com/spec-kit/ticket-scheduler/internal/service"
	"github.com/spec-kit/ticket-scheduler/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher()

	pool := pg.PoolHandle()
	ticketRepo := repository.NewTicketRepository(pool)
	assignmentRepo := repository.NewAssignmentRepository(pool)
	holidayRepo := repository.NewHolidayRepository(pool)
	userRepo := repository.NewUserRepository(pool)
	specialtyRepo := repository.NewSpecialtyRepository(pool)
	settingRepo := repository.NewSettingRepository(pool)

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes)
	denylist := auth.NewDenylist(redis.Client)
	authMiddleware := auth.NewAuthMiddleware(tokens, denylist, userRepo)

	ticketService := service.NewTicketService(service.TicketDependencies{
		Pool:           pool,
		TicketRepo:     ticketRepo,
		AssignmentRepo: assignmentRepo,
		HolidayRepo:    holidayRepo,
		UserRepo:       userRepo,
		Dispatcher:     dispatcher,
		Locks:          scheduling.NewUserLocks(),
		Logger:         logger,
	})
	holidayService := service.NewHolidayService(holidayRepo, dispatcher, cfg.Holidays, logger)
	authService := service.NewAuthService(userRepo, tokens, denylist, cfg.Auth, logger)
	userService := service.NewUserService(userRepo, specialtyRepo, settingRepo)
	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService)

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:           handlers.NewAuthHandler(authService),
		Tickets:        handlers.NewTicketsHandler(ticketService),
		Calendar:       handlers.NewCalendarHandler(ticketService),
		Holidays:       handlers.NewHolidaysHandler(holidayService),
		Users:          handlers.NewUsersHandler(userService),
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
