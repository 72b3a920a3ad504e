// Package chat provides the conversational bounded context: the Support
// Board webhook, the Gemini tool-calling agent and the glue around them.
package chat

import (
	"google.golang.org/genai"

	"github.com/jackc/pgx/v5/pgxpool"

	"namfulgor_backend/internal/chat/handler"
	"namfulgor_backend/internal/chat/pause"
	"namfulgor_backend/internal/chat/searchlog"
	"namfulgor_backend/internal/chat/service"
	"namfulgor_backend/internal/chat/supportboard"
	"namfulgor_backend/internal/events"
	apphttp "namfulgor_backend/internal/http"
	"namfulgor_backend/platform/config"
	"namfulgor_backend/platform/logger"
)

// Config narrows the configuration surfaces the chat module needs.
type Config interface {
	config.AIConfig
	config.SupportBoardConfig
	config.RedisConfig
}

// Module is the chat bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	store   *pause.Store
}

// NewModule wires the chat module. A nil genai client (AI disabled)
// still mounts the webhook; every message then gets the fallback reply.
func NewModule(
	pool *pgxpool.Pool,
	client *genai.Client,
	searcher service.VehicleSearcher,
	quoter service.FinancingQuoter,
	cfg Config,
	bus events.Bus,
	log *logger.Logger,
) (*Module, error) {
	store, err := pause.New(cfg, log)
	if err != nil {
		return nil, err
	}

	board := supportboard.New(cfg, log)

	var agent *service.Agent
	if client != nil {
		agent = service.NewAgent(client, cfg, searcher, quoter, store, board, bus, log)
	} else {
		log.Warn("AI disabled, chat webhook will answer with the fallback reply")
	}

	searchlog.New(pool, log).Register(bus)

	h := handler.New(agent, store, board, cfg, cfg, log)

	return &Module{
		handler: h,
		store:   store,
	}, nil
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "chat"
}

// Close releases the pause store's redis connection.
func (m *Module) Close() error {
	return m.store.Close()
}

// RegisterRoutes mounts the webhook on the public v1 group. Support
// Board authenticates with the shared webhook key, not a JWT.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.V1.POST("/chat/webhook", m.handler.Webhook)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
