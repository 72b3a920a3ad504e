// Package handler exposes the fitment resolver over HTTP for admin and
// diagnostic use. The main consumer of the resolver is the chat module,
// which calls the service directly.
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"namfulgor_backend/internal/fitment/service"
	"namfulgor_backend/internal/fitment/transport"
	"namfulgor_backend/platform/httpkit"
	"namfulgor_backend/platform/validator"
)

const msgInvalidRequest = "invalid request"

// Handler handles HTTP requests for vehicle battery searches.
type Handler struct {
	resolver *service.Resolver
	val      *validator.Validator
}

// New creates a new fitment handler.
func New(resolver *service.Resolver, val *validator.Validator) *Handler {
	return &Handler{resolver: resolver, val: val}
}

// Search resolves a free-text vehicle description to compatible batteries.
// POST /api/v1/admin/fitments/search
func (h *Handler) Search(c *gin.Context) {
	var req transport.SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}

	result, err := h.resolver.Resolve(c.Request.Context(), req.Query)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.FromResult(result))
}
