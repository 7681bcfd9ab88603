package inventory

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"warehouse.GO/api"
	"warehouse.GO/config"
	inventoryRepo "warehouse.GO/model/repository/inventory"
)

func init() {
	api.RegisterModule(RegisterInventoryRoutes)
}

func RegisterInventoryRoutes(apiGroup *echo.Group, db *gorm.DB) {
	repo, err := inventoryRepo.NewInventoryRepository(db)
	if err != nil {
		log.Fatalf("inventory api: %v", err)
	}

	g := apiGroup.Group("/inventory")

	// GET /api/inventory/low-stock – records at or below reorder level
	g.GET("/low-stock", func(c echo.Context) error {
		recs, err := repo.LowStock()
		if err != nil {
			return api.RespondError(c, err)
		}
		return c.JSON(http.StatusOK, echo.Map{"items": recs, "count": len(recs)})
	})

	// GET /api/inventory/:warehouseID/:productID – availability for display.
	// Served from Redis when configured; this read is eventually consistent
	// and never feeds a write (approval re-checks under lock).
	g.GET("/:warehouseID/:productID", func(c echo.Context) error {
		wid, err := strconv.ParseUint(c.Param("warehouseID"), 10, 32)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid warehouse id"})
		}
		pid, err := strconv.ParseUint(c.Param("productID"), 10, 32)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid product id"})
		}

		cacheKey := "availability:" + c.Param("warehouseID") + ":" + c.Param("productID")
		if config.RedisClient != nil {
			if cached, err := config.RedisClient.Get(config.RedisCtx(), cacheKey).Int(); err == nil {
				return c.JSON(http.StatusOK, echo.Map{
					"warehouse_id": uint(wid),
					"product_id":   uint(pid),
					"available":    cached,
					"cached":       true,
				})
			}
		}

		avail, ok := repo.Available(uint(wid), uint(pid))
		if !ok {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "no inventory record for this warehouse and product"})
		}
		if config.RedisClient != nil {
			ttl := time.Duration(config.AppConfig.AvailabilityCacheTTL) * time.Second
			config.RedisClient.Set(config.RedisCtx(), cacheKey, avail, ttl)
		}
		return c.JSON(http.StatusOK, echo.Map{
			"warehouse_id": uint(wid),
			"product_id":   uint(pid),
			"available":    avail,
		})
	})
}
