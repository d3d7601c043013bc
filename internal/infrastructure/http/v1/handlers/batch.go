package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"pharmastock/internal/core/apperror"
	"pharmastock/internal/core/id"
	"pharmastock/internal/domain/inventory"
	"pharmastock/internal/infrastructure/http/v1/dto"
)

// BatchHandler handles HTTP requests for the stock ledger.
type BatchHandler struct {
	*BaseHandler
	service *inventory.Service
}

// NewBatchHandler creates a new batch handler.
func NewBatchHandler(base *BaseHandler, service *inventory.Service) *BatchHandler {
	return &BatchHandler{
		BaseHandler: base,
		service:     service,
	}
}

// ListByMedicine handles GET /medicines/:id/batches.
// Batches come back in sale-candidate order: earliest expiration first,
// exhausted excluded unless includeExhausted=true.
func (h *BatchHandler) ListByMedicine(c *gin.Context) {
	medicineID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid medicine id format"))
		return
	}

	includeExhausted := h.ParseBoolQuery(c, "includeExhausted", false)

	batches, err := h.service.FetchBatches(c.Request.Context(), medicineID, includeExhausted)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.NewListResponse(dto.FromBatches(batches, time.Now())))
}

// Create handles POST /medicines/:id/batches
func (h *BatchHandler) Create(c *gin.Context) {
	medicineID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid medicine id format"))
		return
	}

	var req dto.CreateBatchRequest
	if !h.BindJSON(c, &req) {
		return
	}

	spec, err := req.ToSpec()
	if err != nil {
		h.Error(c, err)
		return
	}

	batch, err := h.service.CreateBatch(c.Request.Context(), medicineID, spec)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, dto.FromBatch(batch, time.Now()))
}

// Get handles GET /batches/:id
func (h *BatchHandler) Get(c *gin.Context) {
	batchID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid batch id format"))
		return
	}

	batch, err := h.service.GetBatch(c.Request.Context(), batchID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromBatch(batch, time.Now()))
}
