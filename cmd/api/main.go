package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/re-fagiano/Project-feffoemaurizia/internal/api/http"
	"github.com/re-fagiano/Project-feffoemaurizia/internal/api/http/handlers"
	"github.com/re-fagiano/Project-feffoemaurizia/internal/auth"
	"github.com/re-fagiano/Project-feffoemaurizia/internal/billing"
	"github.com/re-fagiano/Project-feffoemaurizia/internal/config"
	"github.com/re-fagiano/Project-feffoemaurizia/internal/events"
	"github.com/re-fagiano/Project-feffoemaurizia/internal/mailer"
	"github.com/re-fagiano/Project-feffoemaurizia/internal/observability"
	"github.com/re-fagiano/Project-feffoemaurizia/internal/persistence"
	"github.com/re-fagiano/Project-feffoemaurizia/internal/repository"
	"github.com/re-fagiano/Project-feffoemaurizia/internal/service"
	"github.com/re-fagiano/Project-feffoemaurizia/internal/worker"
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

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	clientRepo := repository.NewClientRepository(pool)
	scopeRepo := repository.NewScopeRepository(pool)
	workTypeRepo := repository.NewWorkTypeRepository(pool)
	requestRepo := repository.NewRequestRepository(pool)
	activityRepo := repository.NewActivityRepository(pool)
	timeEntryRepo := repository.NewTimeEntryRepository(pool)
	templateRepo := repository.NewContractTemplateRepository(pool)
	contractRepo := repository.NewClientContractRepository(pool)
	scheduleRepo := repository.NewScheduleRepository(pool)
	chatRepo := repository.NewChatRepository(pool)

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes)
	dispatcher := events.NewInMemoryDispatcher()
	mail := mailer.New(cfg.SMTP)
	policy := billing.Policy{
		BlockOverdraw: cfg.Billing.BlockOverdraw,
		AutoExhaust:   cfg.Billing.AutoExhaust,
	}

	authService := service.NewAuthService(userRepo, tokens, cfg.Auth, logger)
	userService := service.NewUserService(userRepo, pool, cfg.Auth, logger)
	clientService := service.NewClientService(clientRepo, logger)
	masterdataService := service.NewMasterdataService(scopeRepo, workTypeRepo, userRepo)
	requestService := service.NewRequestService(service.RequestDependencies{
		RequestRepo:  requestRepo,
		ActivityRepo: activityRepo,
		ClientRepo:   clientRepo,
		ScopeRepo:    scopeRepo,
		Pool:         pool,
		Dispatcher:   dispatcher,
		Config:       cfg.App,
		Logger:       logger,
	})
	activityService := service.NewActivityService(service.ActivityDependencies{
		ActivityRepo:  activityRepo,
		RequestRepo:   requestRepo,
		TimeEntryRepo: timeEntryRepo,
		ContractRepo:  contractRepo,
		WorkTypeRepo:  workTypeRepo,
		UserRepo:      userRepo,
		Pool:          pool,
		Dispatcher:    dispatcher,
		Policy:        policy,
		Logger:        logger,
	})
	contractService := service.NewContractService(service.ContractDependencies{
		TemplateRepo: templateRepo,
		ContractRepo: contractRepo,
		ClientRepo:   clientRepo,
		Pool:         pool,
		Dispatcher:   dispatcher,
		Policy:       policy,
		Logger:       logger,
	})
	scheduleService := service.NewScheduleService(scheduleRepo)
	chatService := service.NewChatService(chatRepo, requestRepo, redis.Client, dispatcher, logger)
	notificationService := service.NewNotificationService(dispatcher, mail, clientRepo, requestRepo, logger)

	worker.StartNotificationWorker(notificationService)

	authMiddleware := auth.NewMiddleware(tokens, userRepo)
	metrics := observability.NewMetrics()

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis, metrics),
		Auth:           handlers.NewAuthHandler(authService),
		Users:          handlers.NewUsersHandler(userService),
		Clients:        handlers.NewClientsHandler(clientService),
		Masterdata:     handlers.NewMasterdataHandler(masterdataService),
		Requests:       handlers.NewRequestsHandler(requestService),
		Activities:     handlers.NewActivitiesHandler(activityService),
		Contracts:      handlers.NewContractsHandler(contractService),
		Schedules:      handlers.NewSchedulesHandler(scheduleService),
		Chat:           handlers.NewChatHandler(chatService),
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
