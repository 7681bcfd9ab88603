package inventory

import (
	"time"

	"gorm.io/datatypes"
)

// Movement doc types written by the ledger.
const (
	DocTransferReserve = "transfer_reserve"
	DocTransferRelease = "transfer_release"
	DocTransferDebit   = "transfer_debit"
	DocTransferCredit  = "transfer_credit"
	DocSaleDeduct      = "sale_deduct"
	DocStockImport     = "stock_import"
)

// StockMovement is an append-only journal row, one per ledger mutation,
// written in the same transaction as the mutation it records.
type StockMovement struct {
	MovementID    string         `gorm:"column:movement_id;type:varchar(36);primaryKey" json:"movement_id"`
	WarehouseID   uint           `gorm:"column:warehouse_id;not null;index:idx_movement_key,priority:1" json:"warehouse_id"`
	ProductID     uint           `gorm:"column:product_id;not null;index:idx_movement_key,priority:2" json:"product_id"`
	OnHandDelta   int            `gorm:"column:on_hand_delta;not null;default:0" json:"on_hand_delta"`
	ReservedDelta int            `gorm:"column:reserved_delta;not null;default:0" json:"reserved_delta"`
	DocType       string         `gorm:"column:doc_type;type:varchar(32);not null;index" json:"doc_type"`
	DocRef        string         `gorm:"column:doc_ref;type:varchar(64);index" json:"doc_ref"`
	ActorID       string         `gorm:"column:actor_id;type:varchar(64)" json:"actor_id"`
	Meta          datatypes.JSON `gorm:"column:meta" json:"meta,omitempty"`
	CreatedAt     time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (StockMovement) TableName() string {
	return "stock_movement"
}
