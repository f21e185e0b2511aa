package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk/internal/ai"
	httptransport "github.com/spec-kit/helpdesk/internal/api/http"
	"github.com/spec-kit/helpdesk/internal/api/http/handlers"
	"github.com/spec-kit/helpdesk/internal/auth"
	"github.com/spec-kit/helpdesk/internal/config"
	"github.com/spec-kit/helpdesk/internal/events"
	"github.com/spec-kit/helpdesk/internal/observability"
	"github.com/spec-kit/helpdesk/internal/persistence"
	"github.com/spec-kit/helpdesk/internal/repository"
	"github.com/spec-kit/helpdesk/internal/service"
	"github.com/spec-kit/helpdesk/internal/worker"
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
	ticketRepo := repository.NewTicketRepository(pool)
	commentRepo := repository.NewCommentRepository(pool)
	attachmentRepo := repository.NewAttachmentRepository(pool)
	updateRepo := repository.NewUpdateRepository(pool)
	escalationRepo := repository.NewEscalationRepository(pool)
	departmentRepo := repository.NewDepartmentRepository(pool)
	analysisRepo := repository.NewAnalysisRepository(pool)
	feedbackRepo := repository.NewFeedbackRepository(pool)
	notificationRepo := repository.NewNotificationRepository(pool)
	systemLogRepo := repository.NewSystemLogRepository(pool)

	assistant, err := userRepo.EnsureAssistant(ctx)
	if err != nil {
		logger.Fatal("failed to provision assistant user", zap.Error(err))
	}

	dispatcher := events.NewInMemoryDispatcher(logger)
	provider := ai.NewGeminiClient(cfg.AI, logger)

	ticketService := service.NewTicketService(service.TicketDependencies{
		TicketRepo:     ticketRepo,
		CommentRepo:    commentRepo,
		AttachmentRepo: attachmentRepo,
		UpdateRepo:     updateRepo,
		EscalationRepo: escalationRepo,
		DepartmentRepo: departmentRepo,
		UserRepo:       userRepo,
		Dispatcher:     dispatcher,
		Logger:         logger,
	})
	triageService := service.NewTriageService(service.TriageDependencies{
		Provider:       provider,
		TicketRepo:     ticketRepo,
		CommentRepo:    commentRepo,
		AnalysisRepo:   analysisRepo,
		FeedbackRepo:   feedbackRepo,
		DepartmentRepo: departmentRepo,
		UserRepo:       userRepo,
		Cache:          redis.Client,
		Dispatcher:     dispatcher,
		Logger:         logger,
		AssistantID:    assistant.ID,
	})
	conversationService := service.NewConversationService(service.ConversationDependencies{
		Provider:       provider,
		TicketRepo:     ticketRepo,
		CommentRepo:    commentRepo,
		DepartmentRepo: departmentRepo,
		UserRepo:       userRepo,
		TicketService:  ticketService,
		Dispatcher:     dispatcher,
		Logger:         logger,
		Assistant:      assistant,
	})
	notificationService := service.NewNotificationService(notificationRepo, systemLogRepo, ticketRepo, dispatcher, logger)
	authService := service.NewAuthService(*cfg, userRepo)
	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), userRepo)

	worker.StartNotificationWorker(notificationService)
	slaWorker := worker.NewSLAWorker(ticketService, cfg.App.SLASweepInterval(), logger)
	go slaWorker.Run(ctx)

	metrics := observability.NewMetrics()
	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Users:          handlers.NewUsersHandler(authService),
		Tickets:        handlers.NewTicketsHandler(ticketService, triageService, conversationService, logger),
		StaffTickets:   handlers.NewStaffTicketsHandler(ticketService),
		AI:             handlers.NewAIHandler(triageService),
		Notifications:  handlers.NewNotificationsHandler(notificationService),
		Taxonomy:       handlers.NewTaxonomyHandler(departmentRepo),
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)
	cancel()

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
