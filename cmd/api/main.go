package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"namfulgor_backend/internal/adapters"
	"namfulgor_backend/internal/batteries"
	"namfulgor_backend/internal/chat"
	"namfulgor_backend/internal/events"
	"namfulgor_backend/internal/financing"
	"namfulgor_backend/internal/fitment"
	fitsvc "namfulgor_backend/internal/fitment/service"
	apphttp "namfulgor_backend/internal/http"
	"namfulgor_backend/internal/http/router"
	"namfulgor_backend/platform/ai/vehicleparse"
	"namfulgor_backend/platform/config"
	"namfulgor_backend/platform/db"
	"namfulgor_backend/platform/logger"
	"namfulgor_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
	"google.golang.org/genai"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize structured logger
	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	if err := withRetry(ctx, log, "database migrations", 5, 2*time.Second, func() error {
		return db.RunMigrations(ctx, cfg, "migrations")
	}); err != nil {
		log.Error("failed to run database migrations", "error", err)
		panic("failed to run database migrations: " + err.Error())
	}
	log.Info("database migrations complete")

	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()
	log.Info("database connection established")

	// Event bus for decoupled communication between modules
	eventBus := events.NewInMemoryBus(log)

	// Shared validator instance for dependency injection
	val := validator.New()

	// One Gemini client shared by the vehicle parser and the chat agent.
	// Without an API key the bot degrades: no parsing tier, fallback replies.
	genaiClient, queryParser := initAI(ctx, cfg, log)

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	fitmentModule := fitment.NewModule(pool, queryParser, cfg, eventBus, val, log)
	financingModule := financing.NewModule(pool, cfg, eventBus, val, log)
	batteriesModule := batteries.NewModule(pool, val, log)

	chatModule, err := chat.NewModule(pool, genaiClient, fitmentModule.Resolver(), financingModule.Calculator(), cfg, eventBus, log)
	if err != nil {
		log.Error("failed to initialize chat module", "error", err)
		panic("failed to initialize chat module: " + err.Error())
	}
	defer func() { _ = chatModule.Close() }()

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config:   cfg,
		Logger:   log,
		Health:   db.NewPoolAdapter(pool),
		EventBus: eventBus,
		Modules: []apphttp.Module{
			fitmentModule,
			financingModule,
			batteriesModule,
			chatModule,
		},
	}

	engine := router.New(app)

	srvErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		srvErr <- engine.Run(cfg.HTTPAddr)
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, gracefully shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = shutdownCtx
	case err := <-srvErr:
		if err != nil {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
	}
}

// initAI builds the shared Gemini client and the query parser. Both are
// optional: the service runs without them, just with fewer smarts.
func initAI(ctx context.Context, cfg *config.Config, log *logger.Logger) (*genai.Client, fitsvc.QueryParser) {
	if !cfg.IsAIEnabled() {
		log.Warn("GEMINI_API_KEY not configured; LLM parsing and chat replies disabled")
		return nil, adapters.NoopVehicleParser{}
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GetGeminiAPIKey(),
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		log.Error("failed to initialize gemini client, continuing without AI", "error", err)
		return nil, adapters.NoopVehicleParser{}
	}

	parser := vehicleparse.NewParserWithClient(client, cfg, log)
	log.Info("gemini client initialized", "chat_model", cfg.GetGeminiChatModel(), "parse_model", cfg.GetGeminiParseModel())
	return client, adapters.NewVehicleParseAdapter(parser)
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return fmt.Errorf("%s: invalid retry attempts", name)
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}
