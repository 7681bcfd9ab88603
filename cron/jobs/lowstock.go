package jobs

import (
	"log"

	"warehouse.GO/config"
	"warehouse.GO/cron"
	inventoryRepo "warehouse.GO/model/repository/inventory"
)

func init() {
	cron.Register("lowstock", "@every 15m", LowStockJob)
}

// LowStockJob logs every inventory record whose available quantity has
// fallen to or below its reorder level. Reporting only: the reorder level is
// a display threshold, never an implicit reservation.
func LowStockJob(args ...string) {
	db, err := config.NewDB()
	if err != nil {
		log.Printf("lowstock: db connect failed: %v", err)
		return
	}
	repo, err := inventoryRepo.NewInventoryRepository(db)
	if err != nil {
		log.Printf("lowstock: %v", err)
		return
	}
	recs, err := repo.LowStock()
	if err != nil {
		log.Printf("lowstock: query failed: %v", err)
		return
	}
	if len(recs) == 0 {
		log.Println("lowstock: all records above reorder level")
		return
	}
	for _, r := range recs {
		log.Printf("lowstock: reorder needed warehouse=%d product=%d on_hand=%d reserved=%d available=%d reorder_level=%d",
			r.WarehouseID, r.ProductID, r.OnHandQty, r.ReservedQty, r.Available(), r.ReorderLevel)
	}
}
