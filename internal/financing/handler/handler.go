// Package handler exposes the financing calculator over HTTP.
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"namfulgor_backend/internal/financing/service"
	"namfulgor_backend/internal/financing/transport"
	"namfulgor_backend/platform/httpkit"
	"namfulgor_backend/platform/validator"
)

const msgInvalidRequest = "invalid request"

// Handler handles HTTP requests for financing plans and rules.
type Handler struct {
	calc *service.Calculator
	val  *validator.Validator
}

// New creates a new financing handler.
func New(calc *service.Calculator, val *validator.Validator) *Handler {
	return &Handler{calc: calc, val: val}
}

// ComputePlan calculates an installment plan for a price and tier.
// POST /api/v1/admin/financing/plan
func (h *Handler) ComputePlan(c *gin.Context) {
	var req transport.ComputePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}

	plan, err := h.calc.Compute(c.Request.Context(), req.ProductPriceCents, req.UserLevel, req.PayInForeignCurrency)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, plan)
}

// ListRules returns the provider's stored rule set.
// GET /api/v1/admin/financing/rules
func (h *Handler) ListRules(c *gin.Context) {
	rules, err := h.calc.ListRules(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.FromRules(rules))
}
