package handlers

import (
	"io"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/klauspost/compress/gzip"

	"pharmastock/internal/domain/importer"
	"pharmastock/internal/domain/inventory"
)

// ExportHandler streams the stock snapshot as CSV.
type ExportHandler struct {
	*BaseHandler
	inventory *inventory.Service
}

// NewExportHandler creates a new export handler.
func NewExportHandler(base *BaseHandler, inv *inventory.Service) *ExportHandler {
	return &ExportHandler{
		BaseHandler: base,
		inventory:   inv,
	}
}

// ExportStock handles GET /exports/stock.
// The snapshot is the flattened per-batch view ordered by medicine name and
// expiration; the response is gzip-compressed when the client accepts it.
func (h *ExportHandler) ExportStock(c *gin.Context) {
	rows, err := h.inventory.StockRows(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", `attachment; filename="stock.csv"`)

	var w io.Writer = c.Writer
	if strings.Contains(c.GetHeader("Accept-Encoding"), "gzip") {
		c.Header("Content-Encoding", "gzip")
		gz := gzip.NewWriter(c.Writer)
		defer gz.Close()
		w = gz
	}

	if err := importer.WriteStock(w, rows); err != nil {
		// headers are out; nothing useful left to send
		_ = c.Error(err)
	}
}

// RegisterRoutes registers export routes.
func (h *ExportHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/stock", h.ExportStock)
}
