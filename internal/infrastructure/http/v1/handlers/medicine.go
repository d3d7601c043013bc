package handlers

import (
	"github.com/gin-gonic/gin"

	"pharmastock/internal/core/apperror"
	"pharmastock/internal/core/id"
	"pharmastock/internal/domain/catalogs/medicine"
	"pharmastock/internal/infrastructure/http/v1/dto"
)

// MedicineHandler handles HTTP requests for the Medicine catalog.
type MedicineHandler struct {
	*BaseHandler
	service *medicine.Service
}

// NewMedicineHandler creates a new medicine handler.
func NewMedicineHandler(base *BaseHandler, service *medicine.Service) *MedicineHandler {
	return &MedicineHandler{
		BaseHandler: base,
		service:     service,
	}
}

// Create handles POST /medicines
func (h *MedicineHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.CreateMedicineRequest
	if !h.BindJSON(c, &req) {
		return
	}

	m := req.ToEntity()

	if req.Batch == nil {
		if err := h.service.Create(ctx, m); err != nil {
			h.Error(c, err)
			return
		}
		h.Created(c, dto.CreateMedicineResponse{MedicineResponse: dto.FromMedicine(m)})
		return
	}

	spec, err := req.Batch.ToSpec()
	if err != nil {
		h.Error(c, err)
		return
	}

	batch, err := h.service.CreateWithBatch(ctx, m, spec)
	if err != nil {
		h.Error(c, err)
		return
	}

	batchID := batch.ID.String()
	h.Created(c, dto.CreateMedicineResponse{
		MedicineResponse: dto.FromMedicine(m),
		BatchID:          &batchID,
	})
}

// Get handles GET /medicines/:id
func (h *MedicineHandler) Get(c *gin.Context) {
	medicineID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid medicine id format"))
		return
	}

	m, err := h.service.GetByID(c.Request.Context(), medicineID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromMedicine(m))
}

// List handles GET /medicines
func (h *MedicineHandler) List(c *gin.Context) {
	includeDisabled := h.ParseBoolQuery(c, "includeDisabled", false)

	items, err := h.service.List(c.Request.Context(), includeDisabled)
	if err != nil {
		h.Error(c, err)
		return
	}

	responses := make([]dto.MedicineResponse, len(items))
	for i, m := range items {
		responses[i] = dto.FromMedicine(m)
	}
	h.OK(c, dto.NewListResponse(responses))
}

// Search handles GET /medicines/search
func (h *MedicineHandler) Search(c *gin.Context) {
	term := c.Query("term")
	mode := medicine.MatchMode(c.DefaultQuery("mode", string(medicine.MatchStartsWith)))

	items, err := h.service.SearchByName(c.Request.Context(), term, mode)
	if err != nil {
		h.Error(c, err)
		return
	}

	responses := make([]dto.MedicineResponse, len(items))
	for i, m := range items {
		responses[i] = dto.FromMedicine(m)
	}
	h.OK(c, dto.NewListResponse(responses))
}

// Delete handles DELETE /medicines/:id
func (h *MedicineHandler) Delete(c *gin.Context) {
	medicineID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid medicine id format"))
		return
	}

	if err := h.service.Delete(c.Request.Context(), medicineID); err != nil {
		h.Error(c, err)
		return
	}
	h.NoContent(c)
}

// RegisterRoutes registers medicine catalog routes.
func (h *MedicineHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.Create)
	rg.GET("", h.List)
	rg.GET("/search", h.Search)
	rg.GET("/:id", h.Get)
	rg.DELETE("/:id", h.Delete)
}
