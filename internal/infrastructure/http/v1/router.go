// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"

	"pharmastock/internal/domain/catalogs/medicine"
	"pharmastock/internal/domain/importer"
	"pharmastock/internal/domain/inventory"
	"pharmastock/internal/domain/sales"
	"pharmastock/internal/infrastructure/http/v1/handlers"
	"pharmastock/internal/infrastructure/http/v1/middleware"
	"pharmastock/internal/infrastructure/storage/postgres"
	"pharmastock/pkg/logger"
)

// RouterConfig holds the wired services the router exposes.
type RouterConfig struct {
	// Pool is the database connection (for health checks)
	Pool *postgres.Pool

	// Logger for request logging
	Logger *logger.Logger

	Medicines *medicine.Service
	Inventory *inventory.Service
	Sales     *sales.Service
	Imports   *importer.Service
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())

	healthHandler := handlers.NewHealthHandler(cfg.Pool)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
		health.GET("/info", healthHandler.Info)
	}

	baseHandler := handlers.NewBaseHandler()

	api := router.Group("/api/v1")
	{
		medicineHandler := handlers.NewMedicineHandler(baseHandler, cfg.Medicines)
		batchHandler := handlers.NewBatchHandler(baseHandler, cfg.Inventory)

		medicines := api.Group("/medicines")
		medicineHandler.RegisterRoutes(medicines)
		medicines.GET("/:id/batches", batchHandler.ListByMedicine)
		medicines.POST("/:id/batches", batchHandler.Create)

		api.GET("/batches/:id", batchHandler.Get)

		saleHandler := handlers.NewSaleHandler(baseHandler, cfg.Sales)
		saleHandler.RegisterRoutes(api.Group("/sales"))

		importHandler := handlers.NewImportHandler(baseHandler, cfg.Imports)
		importHandler.RegisterRoutes(api.Group("/imports"))

		exportHandler := handlers.NewExportHandler(baseHandler, cfg.Inventory)
		exportHandler.RegisterRoutes(api.Group("/exports"))
	}

	return router
}
