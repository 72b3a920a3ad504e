// Package batteries provides the battery catalog bounded context with
// admin endpoints for listing products and maintaining prices.
package batteries

import (
	"namfulgor_backend/internal/batteries/handler"
	"namfulgor_backend/internal/batteries/repository"
	"namfulgor_backend/internal/batteries/service"
	apphttp "namfulgor_backend/internal/http"
	"namfulgor_backend/platform/logger"
	"namfulgor_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the batteries bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	svc     *service.Service
	repo    repository.Repository
}

// NewModule creates and initializes the batteries module with all its dependencies.
func NewModule(pool *pgxpool.Pool, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, log)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		svc:     svc,
		repo:    repo,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "batteries"
}

// Service returns the catalog service for other modules.
func (m *Module) Service() *service.Service {
	return m.svc
}

// Repository returns the repository for direct access if needed.
func (m *Module) Repository() repository.Repository {
	return m.repo
}

// RegisterRoutes mounts battery catalog routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Admin.GET("/batteries", m.handler.List)
	ctx.Admin.GET("/batteries/:id", m.handler.GetByID)
	ctx.Admin.PATCH("/batteries/:id/prices", m.handler.UpdatePrices)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
