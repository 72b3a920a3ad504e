// Package financing provides the installment-financing bounded context:
// percentage-rule storage and the deterministic plan calculator.
package financing

import (
	"namfulgor_backend/internal/events"
	"namfulgor_backend/internal/financing/handler"
	"namfulgor_backend/internal/financing/repository"
	"namfulgor_backend/internal/financing/service"
	apphttp "namfulgor_backend/internal/http"
	"namfulgor_backend/platform/config"
	"namfulgor_backend/platform/logger"
	"namfulgor_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the financing bounded context module implementing http.Module.
type Module struct {
	handler    *handler.Handler
	calculator *service.Calculator
	repo       repository.Repository
}

// NewModule creates and initializes the financing module.
func NewModule(
	pool *pgxpool.Pool,
	cfg config.FinancingConfig,
	bus events.Bus,
	val *validator.Validator,
	log *logger.Logger,
) *Module {
	repo := repository.New(pool)
	calc := service.NewCalculator(repo, cfg.GetFinancingProvider(), bus, log)
	h := handler.New(calc, val)

	return &Module{
		handler:    h,
		calculator: calc,
		repo:       repo,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "financing"
}

// Calculator returns the plan calculator for other modules (chat tools).
func (m *Module) Calculator() *service.Calculator {
	return m.calculator
}

// Repository returns the repository for direct access (rule loader CLI).
func (m *Module) Repository() repository.Repository {
	return m.repo
}

// RegisterRoutes mounts financing routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	adminGroup := ctx.Admin.Group("/financing")
	adminGroup.POST("/plan", m.handler.ComputePlan)
	adminGroup.GET("/rules", m.handler.ListRules)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
