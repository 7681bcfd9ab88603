package stock

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"warehouse.GO/api"
	salesService "warehouse.GO/service/sales"
	stockService "warehouse.GO/service/stock"
)

func init() {
	api.RegisterModule(RegisterStockRoutes)
}

func RegisterStockRoutes(apiGroup *echo.Group, db *gorm.DB) {
	deduction, err := salesService.NewDeductionService(db)
	if err != nil {
		log.Fatalf("stock api: %v", err)
	}

	g := apiGroup.Group("/stock")

	// POST /api/stock/import – bulk stock upsert (auth required via /api middleware)
	g.POST("/import", func(c echo.Context) error {
		start := time.Now()

		var body struct {
			Items   []stockService.StockItemInput `json:"items"`
			ActorID string                        `json:"actor_id"`
		}
		if err := c.Bind(&body); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		if len(body.Items) == 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "items array is required and must not be empty"})
		}

		res, err := stockService.ImportStock(db, body.Items, body.ActorID)
		duration := time.Since(start).Milliseconds()
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error(), "request_duration_ms": duration})
		}

		c.Response().Header().Set("X-Request-Duration-ms", strconv.FormatInt(duration, 10))
		return c.JSON(http.StatusOK, echo.Map{
			"imported":            res.Imported,
			"skipped":             res.Skipped,
			"warnings":            res.Warnings,
			"request_duration_ms": duration,
		})
	})

	// POST /api/stock/deduct – sale-order stock deduction. Shares the
	// ledger's per-key serialization with transfer approvals.
	g.POST("/deduct", func(c echo.Context) error {
		var body struct {
			WarehouseID uint   `json:"warehouse_id"`
			ProductID   uint   `json:"product_id"`
			Quantity    int    `json:"quantity"`
			OrderRef    string `json:"order_ref"`
			ActorID     string `json:"actor_id"`
		}
		if err := c.Bind(&body); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		if body.Quantity <= 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "quantity must be positive"})
		}
		if err := deduction.Deduct(body.WarehouseID, body.ProductID, body.Quantity, body.OrderRef, body.ActorID); err != nil {
			return api.RespondError(c, err)
		}
		return c.JSON(http.StatusOK, echo.Map{
			"warehouse_id": body.WarehouseID,
			"product_id":   body.ProductID,
			"deducted":     body.Quantity,
		})
	})
}
