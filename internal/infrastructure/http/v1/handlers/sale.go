package handlers

import (
	"github.com/gin-gonic/gin"

	"pharmastock/internal/core/apperror"
	"pharmastock/internal/core/id"
	"pharmastock/internal/domain/sales"
	"pharmastock/internal/infrastructure/http/v1/dto"
)

// SaleHandler handles HTTP requests for sales.
type SaleHandler struct {
	*BaseHandler
	service *sales.Service
}

// NewSaleHandler creates a new sale handler.
func NewSaleHandler(base *BaseHandler, service *sales.Service) *SaleHandler {
	return &SaleHandler{
		BaseHandler: base,
		service:     service,
	}
}

// Submit handles POST /sales.
// The stock check at submission is authoritative; a batch depleted by a
// concurrent sale answers 422 and nothing is committed, so the terminal can
// re-fetch batches and re-compose.
func (h *SaleHandler) Submit(c *gin.Context) {
	var req dto.SubmitSaleRequest
	if !h.BindJSON(c, &req) {
		return
	}

	payload, err := req.ToPayload()
	if err != nil {
		h.Error(c, err)
		return
	}

	sale, err := h.service.Submit(c.Request.Context(), payload)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, dto.FromSale(sale))
}

// Get handles GET /sales/:id
func (h *SaleHandler) Get(c *gin.Context) {
	saleID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid sale id format"))
		return
	}

	sale, err := h.service.Get(c.Request.Context(), saleID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromSale(sale))
}

// RegisterRoutes registers sale routes.
func (h *SaleHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.Submit)
	rg.GET("/:id", h.Get)
}
