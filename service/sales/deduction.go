package sales

import (
	"fmt"

	"gorm.io/gorm"

	inventoryRepo "warehouse.GO/model/repository/inventory"
)

// DeductionService records sale-order stock deductions against the ledger.
// It holds no state of its own: going through the inventory repository puts
// sales in the same per-key serialization domain as transfer approvals and
// dispatches, so a sale can never race a transfer over the same stock.
type DeductionService struct {
	ledger *inventoryRepo.InventoryRepository
}

func NewDeductionService(db *gorm.DB) (*DeductionService, error) {
	ledger, err := inventoryRepo.NewInventoryRepository(db)
	if err != nil {
		return nil, err
	}
	return &DeductionService{ledger: ledger}, nil
}

// Deduct removes qty units of available stock for a sale order. Reserved
// stock is untouched; a sale cannot consume units earmarked by an approved
// transfer.
func (s *DeductionService) Deduct(warehouseID, productID uint, qty int, orderRef, actorID string) error {
	if qty <= 0 {
		return fmt.Errorf("deduct quantity must be positive, got %d", qty)
	}
	return s.ledger.Deduct(warehouseID, productID, qty, orderRef, actorID)
}
