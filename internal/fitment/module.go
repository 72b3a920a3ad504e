// Package fitment provides the vehicle-fitment bounded context: the
// multi-tier resolution engine that maps free-text vehicle descriptions
// to compatible battery products.
package fitment

import (
	"namfulgor_backend/internal/events"
	"namfulgor_backend/internal/fitment/domain"
	"namfulgor_backend/internal/fitment/handler"
	"namfulgor_backend/internal/fitment/makecache"
	"namfulgor_backend/internal/fitment/repository"
	"namfulgor_backend/internal/fitment/service"
	apphttp "namfulgor_backend/internal/http"
	"namfulgor_backend/platform/config"
	"namfulgor_backend/platform/logger"
	"namfulgor_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the fitment bounded context module implementing http.Module.
type Module struct {
	handler  *handler.Handler
	resolver *service.Resolver
	repo     repository.Repository
}

// NewModule creates and initializes the fitment module with all its dependencies.
func NewModule(
	pool *pgxpool.Pool,
	parser service.QueryParser,
	cfg config.FitmentConfig,
	bus events.Bus,
	val *validator.Validator,
	log *logger.Logger,
) *Module {
	repo := repository.New(pool)
	makes := makecache.New(repo, cfg.GetMakeCacheTTL())
	resolver := service.NewResolver(
		repo,
		parser,
		domain.DefaultAliases(),
		makes,
		cfg.GetFuzzyMatchThreshold(),
		cfg.GetFitmentSearchLimit(),
		bus,
		log,
	)
	h := handler.New(resolver, val)

	return &Module{
		handler:  h,
		resolver: resolver,
		repo:     repo,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "fitment"
}

// Resolver returns the resolution service for other modules (chat tools).
func (m *Module) Resolver() *service.Resolver {
	return m.resolver
}

// Repository returns the repository for direct access if needed.
func (m *Module) Repository() repository.Repository {
	return m.repo
}

// RegisterRoutes mounts fitment routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Admin.POST("/fitments/search", m.handler.Search)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
