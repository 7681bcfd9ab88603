package inventory

import "fmt"

// InsufficientStockError is returned when a reserve or deduct asks for more
// than the available (on-hand minus reserved) quantity. Recoverable: the
// caller may retry once stock is released or replenished.
type InsufficientStockError struct {
	WarehouseID uint
	ProductID   uint
	Requested   int
	Available   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock in warehouse %d for product %d: requested %d, available %d",
		e.WarehouseID, e.ProductID, e.Requested, e.Available)
}

// InvariantViolationError is returned when a mutation would break
// reserved <= on-hand or push a quantity negative. Never retried: it signals
// a consistency bug or external tampering.
type InvariantViolationError struct {
	WarehouseID uint
	ProductID   uint
	Detail      string
}

func (e *InvariantViolationError) Error() string {
	return fmt.Sprintf("inventory invariant violated for warehouse %d product %d: %s",
		e.WarehouseID, e.ProductID, e.Detail)
}
