// Package handler exposes the battery catalog admin API.
package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"namfulgor_backend/internal/batteries/repository"
	"namfulgor_backend/internal/batteries/service"
	"namfulgor_backend/internal/batteries/transport"
	"namfulgor_backend/platform/httpkit"
	"namfulgor_backend/platform/validator"
)

const (
	msgInvalidRequest = "invalid request"
	msgInvalidID      = "invalid battery ID"
)

// Handler handles HTTP requests for the battery catalog.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

// New creates a new batteries handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// List returns the whole catalog.
// GET /api/v1/admin/batteries
func (h *Handler) List(c *gin.Context) {
	batteries, err := h.svc.List(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.FromBatteries(batteries))
}

// GetByID returns one battery.
// GET /api/v1/admin/batteries/:id
func (h *Handler) GetByID(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}

	battery, err := h.svc.GetByID(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.FromBattery(battery))
}

// UpdatePrices applies an admin price change.
// PATCH /api/v1/admin/batteries/:id/prices
func (h *Handler) UpdatePrices(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}

	var req transport.UpdatePricesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}

	battery, err := h.svc.UpdatePrices(c.Request.Context(), repository.PriceUpdate{
		ID:                   id,
		PriceRegularCents:    req.PriceRegularCents,
		PriceDiscountFXCents: req.PriceDiscountFXCents,
	})
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.FromBattery(battery))
}
