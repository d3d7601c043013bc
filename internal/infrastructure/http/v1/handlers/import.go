package handlers

import (
	"io"

	"github.com/gin-gonic/gin"

	"pharmastock/internal/core/apperror"
	"pharmastock/internal/domain/importer"
	"pharmastock/internal/infrastructure/http/v1/dto"
)

// maxImportBytes caps upload size for bulk imports.
const maxImportBytes = 32 << 20

// ImportHandler handles bulk CSV reconciliation uploads.
type ImportHandler struct {
	*BaseHandler
	service *importer.Service
}

// NewImportHandler creates a new import handler.
func NewImportHandler(base *BaseHandler, service *importer.Service) *ImportHandler {
	return &ImportHandler{
		BaseHandler: base,
		service:     service,
	}
}

// openUpload returns the CSV stream: the "file" multipart part when present,
// otherwise the raw request body.
func (h *ImportHandler) openUpload(c *gin.Context) (io.ReadCloser, error) {
	file, _, err := c.Request.FormFile("file")
	if err == nil {
		return file, nil
	}
	if c.Request.Body == nil {
		return nil, apperror.NewValidation("request body is required")
	}
	return c.Request.Body, nil
}

// ImportCatalog handles POST /imports/catalog.
// Always answers 200 with a per-row report; row failures are data, not
// transport errors.
func (h *ImportHandler) ImportCatalog(c *gin.Context) {
	src, err := h.openUpload(c)
	if err != nil {
		h.Error(c, err)
		return
	}
	defer src.Close()

	report, err := h.service.ImportCatalog(c.Request.Context(), io.LimitReader(src, maxImportBytes))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromImportReport(report))
}

// ImportStock handles POST /imports/stock
func (h *ImportHandler) ImportStock(c *gin.Context) {
	src, err := h.openUpload(c)
	if err != nil {
		h.Error(c, err)
		return
	}
	defer src.Close()

	report, err := h.service.ImportStock(c.Request.Context(), io.LimitReader(src, maxImportBytes))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromImportReport(report))
}

// RegisterRoutes registers import routes.
func (h *ImportHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/catalog", h.ImportCatalog)
	rg.POST("/stock", h.ImportStock)
}
