package bootstrap

import (
	"context"
	"errors"
	"log"

	"petmatch/internal/config"
	"petmatch/internal/controller"
	"petmatch/internal/handler"
	"petmatch/internal/pkg/logger"
	"petmatch/internal/pkg/serverutils"
	"petmatch/internal/repository/contract"
	"petmatch/internal/repository/implementation"
	"petmatch/internal/repository/memory"
	"petmatch/internal/repository/redisstore"
	"petmatch/internal/service"
	"petmatch/internal/web"
	"petmatch/pkg/auth"
	"petmatch/pkg/llm"
	"petmatch/pkg/llm/factory"
	"petmatch/pkg/render"
	"petmatch/pkg/supabase"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	PageController        controller.IPageController
	MatchController       controller.IMatchController
	DiagnosticsController controller.IDiagnosticsController
	AuthController        controller.IAuthController

	// Handlers
	SessionHandler *handler.SessionHandler

	// Middleware guarding the JSON API
	Protected fiber.Handler

	Notifier *auth.Notifier
	Logger   logger.ILogger

	pubSub *gochannel.GoChannel
	rdb    *redis.Client
}

// NewContainer wires the application. db is nil unless the data store is
// reached directly over Postgres.
func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.IsProduction())

	supabaseClient := supabase.NewClient(cfg.Supabase.URL, cfg.Supabase.AnonKey)
	authClient := supabase.NewAuthClient(supabaseClient)

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := auth.NewEventBus(watermillLogger)
	notifier := auth.NewNotifier(pubSub, auth.DefaultTopic, sysLogger)

	// 3. Repositories
	var dogRepository contract.DogRepository
	var diagnosticsRepository contract.DiagnosticsRepository
	if db != nil {
		dogRepository = implementation.NewDogRepository(db, cfg.Supabase.CandidateTable)
		diagnosticsRepository = implementation.NewDiagnosticsRepository(db, cfg.Supabase.PingProcedure)
		log.Printf("[INFO] Using data store driver: POSTGRES")
	} else {
		dogRepository = implementation.NewDogRepositoryRest(supabaseClient, cfg.Supabase.CandidateTable)
		diagnosticsRepository = implementation.NewDiagnosticsRepositoryRest(supabaseClient, cfg.Supabase.PingProcedure)
		log.Printf("[INFO] Using data store driver: REST")
	}

	var rdb *redis.Client
	var sessionStore auth.SessionStore
	if cfg.App.SessionStore == "redis" {
		opt, err := redis.ParseURL(cfg.App.RedisURL)
		if err != nil {
			log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
			opt = &redis.Options{
				Addr: cfg.App.RedisURL,
			}
		}
		rdb = redis.NewClient(opt)
		if _, err := rdb.Ping(context.Background()).Result(); err != nil {
			log.Printf("[WARN] Failed to connect to Redis: %v", err)
		}
		sessionStore = redisstore.NewSessionRepository(rdb, cfg.App.SessionTTL)
	} else {
		sessionStore = memory.NewSessionRepository(cfg.App.SessionTTL)
	}
	boards := memory.NewBoardRepository(cfg.App.SessionTTL)

	// 4. Generation
	var generator llm.LLMProvider
	var lister llm.ModelLister
	provider, err := factory.NewLLMProvider(context.Background(), cfg.Ai)
	switch {
	case errors.Is(err, llm.ErrMissingCredential):
		log.Printf("[WARN] GEMINI_API_KEY is not set: search and model listing will report it")
	case err != nil:
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	default:
		generator, lister = provider, provider
		log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)
	}

	// 5. Services
	manager := auth.NewManager(authClient, sessionStore, notifier, sysLogger)
	authService := service.NewAuthService(manager, sysLogger)
	matchService := service.NewMatchService(dogRepository, generator, sysLogger)
	diagnosticsService := service.NewDiagnosticsService(lister, diagnosticsRepository, sysLogger)

	renderer, err := web.NewRenderer()
	if err != nil {
		log.Fatalf("[FATAL] Failed to parse templates: %v", err)
	}

	// 6. Controllers
	wsLogger := logger.NewIsolatedLogger("logs/session_ws.log")

	return &Container{
		PageController: controller.NewPageController(
			authService,
			matchService,
			diagnosticsService,
			manager,
			boards,
			renderer,
			render.NewMarkdown(),
			controller.CookieConfig{
				Name:   cfg.App.SessionCookieName,
				Secure: cfg.App.SessionCookieSecure,
				TTL:    cfg.App.SessionTTL,
			},
			sysLogger,
		),
		MatchController:       controller.NewMatchController(matchService, boards),
		DiagnosticsController: controller.NewDiagnosticsController(diagnosticsService, boards),
		AuthController:        controller.NewAuthController(),
		SessionHandler:        handler.NewSessionHandler(manager, cfg.App.SessionCookieName, wsLogger),
		Protected:             serverutils.JwtMiddleware(auth.NewTokenVerifier(cfg.Supabase.JWTSecret, authClient)),
		Notifier:              notifier,
		Logger:                sysLogger,
		pubSub:                pubSub,
		rdb:                   rdb,
	}
}

// Start launches background consumers. They stop when ctx is done.
func (c *Container) Start(ctx context.Context) error {
	return c.Notifier.Run(ctx)
}

func (c *Container) Close() {
	if err := c.pubSub.Close(); err != nil {
		log.Printf("[WARN] Failed to close event bus: %v", err)
	}
	if c.rdb != nil {
		if err := c.rdb.Close(); err != nil {
			log.Printf("[WARN] Failed to close Redis: %v", err)
		}
	}
	_ = c.Logger.Sync()
}
