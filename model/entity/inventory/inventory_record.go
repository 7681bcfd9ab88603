package inventory

// InventoryRecord is the authoritative stock row for one (warehouse, product)
// pair. Quantities are mutated only through the InventoryRepository's
// reserve/release/debit/credit/deduct operations.
type InventoryRecord struct {
	RecordID     uint `gorm:"column:record_id;primaryKey;autoIncrement" json:"record_id,omitempty"`
	WarehouseID  uint `gorm:"column:warehouse_id;not null;uniqueIndex:idx_warehouse_product,priority:1" json:"warehouse_id"`
	ProductID    uint `gorm:"column:product_id;not null;uniqueIndex:idx_warehouse_product,priority:2" json:"product_id"`
	OnHandQty    int  `gorm:"column:on_hand_qty;not null;default:0" json:"on_hand_qty"`
	ReservedQty  int  `gorm:"column:reserved_qty;not null;default:0" json:"reserved_qty"`
	ReorderLevel int  `gorm:"column:reorder_level;not null;default:0" json:"reorder_level"`
}

func (InventoryRecord) TableName() string {
	return "inventory_record"
}

// Available returns on-hand stock not earmarked by a reservation.
func (r InventoryRecord) Available() int {
	return r.OnHandQty - r.ReservedQty
}
