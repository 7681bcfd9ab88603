package inventory

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"warehouse.GO/core/keylock"
	inventoryEntity "warehouse.GO/model/entity/inventory"
)

// locks is the process-wide serialization domain for stock mutations. Every
// writer into the ledger (transfer approvals, dispatches, sale deductions,
// imports) goes through the same per-key lock, so two writers can never race
// on one (warehouse, product) pair regardless of which repository instance
// they hold.
var locks = keylock.New()

type InventoryRepository struct {
	db    *gorm.DB
	sqlDB *sql.DB
}

func NewInventoryRepository(db *gorm.DB) (*InventoryRepository, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	return &InventoryRepository{db: db, sqlDB: sqlDB}, nil
}

func lockKey(warehouseID, productID uint) string {
	return fmt.Sprintf("%d:%d", warehouseID, productID)
}

// LockKey acquires the mutation lock for one (warehouse, product) pair and
// returns the unlock func. Callers composing a ledger mutation with other
// writes (e.g. a transfer status change) hold this around the whole
// transaction.
func (r *InventoryRepository) LockKey(warehouseID, productID uint) func() {
	return locks.Lock(lockKey(warehouseID, productID))
}

// Available returns on_hand - reserved for the pair. Read-only and lock-free;
// suitable for display. Validation reads that feed a write re-verify inside
// the locked transaction instead.
// Uses raw SQL for minimal overhead.
func (r *InventoryRepository) Available(warehouseID, productID uint) (int, bool) {
	const query = `SELECT on_hand_qty - reserved_qty FROM inventory_record WHERE warehouse_id = ? AND product_id = ? LIMIT 1`
	var avail sql.NullInt64
	if err := r.sqlDB.QueryRow(query, warehouseID, productID).Scan(&avail); err != nil || !avail.Valid {
		return 0, false
	}
	return int(avail.Int64), true
}

// Get returns the full record using GORM.
func (r *InventoryRepository) Get(warehouseID, productID uint) (*inventoryEntity.InventoryRecord, error) {
	var rec inventoryEntity.InventoryRecord
	err := r.db.Where("warehouse_id = ? AND product_id = ?", warehouseID, productID).First(&rec).Error
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// LowStock returns every record at or below its reorder level.
func (r *InventoryRepository) LowStock() ([]inventoryEntity.InventoryRecord, error) {
	var recs []inventoryEntity.InventoryRecord
	err := r.db.Where("on_hand_qty - reserved_qty <= reorder_level").Find(&recs).Error
	return recs, err
}

func (r *InventoryRepository) fetch(tx *gorm.DB, warehouseID, productID uint) (*inventoryEntity.InventoryRecord, error) {
	var rec inventoryEntity.InventoryRecord
	err := tx.Where("warehouse_id = ? AND product_id = ?", warehouseID, productID).First(&rec).Error
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// journal appends a StockMovement row inside tx.
func (r *InventoryRepository) journal(tx *gorm.DB, warehouseID, productID uint, onHandDelta, reservedDelta int, docType, docRef, actorID string, meta map[string]interface{}) error {
	m := inventoryEntity.StockMovement{
		MovementID:    uuid.NewString(),
		WarehouseID:   warehouseID,
		ProductID:     productID,
		OnHandDelta:   onHandDelta,
		ReservedDelta: reservedDelta,
		DocType:       docType,
		DocRef:        docRef,
		ActorID:       actorID,
	}
	if meta != nil {
		raw, err := json.Marshal(meta)
		if err != nil {
			return err
		}
		m.Meta = datatypes.JSON(raw)
	}
	return tx.Create(&m).Error
}

// ReserveTx earmarks qty units of available stock. The caller holds the key
// lock and supplies the transaction.
func (r *InventoryRepository) ReserveTx(tx *gorm.DB, warehouseID, productID uint, qty int, docRef, actorID string) error {
	rec, err := r.fetch(tx, warehouseID, productID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &InsufficientStockError{WarehouseID: warehouseID, ProductID: productID, Requested: qty, Available: 0}
	}
	if err != nil {
		return err
	}
	if qty > rec.Available() {
		return &InsufficientStockError{WarehouseID: warehouseID, ProductID: productID, Requested: qty, Available: rec.Available()}
	}
	rec.ReservedQty += qty
	if err := tx.Save(rec).Error; err != nil {
		return err
	}
	return r.journal(tx, warehouseID, productID, 0, qty, inventoryEntity.DocTransferReserve, docRef, actorID, nil)
}

// ReleaseTx undoes a reservation, flooring reserved at 0.
func (r *InventoryRepository) ReleaseTx(tx *gorm.DB, warehouseID, productID uint, qty int, docRef, actorID string) error {
	rec, err := r.fetch(tx, warehouseID, productID)
	if err != nil {
		return err
	}
	released := qty
	if released > rec.ReservedQty {
		released = rec.ReservedQty
	}
	rec.ReservedQty -= released
	if err := tx.Save(rec).Error; err != nil {
		return err
	}
	return r.journal(tx, warehouseID, productID, 0, -released, inventoryEntity.DocTransferRelease, docRef, actorID, nil)
}

// DebitTx removes qty reserved units from on-hand (goods left the building).
func (r *InventoryRepository) DebitTx(tx *gorm.DB, warehouseID, productID uint, qty int, docRef, actorID string) error {
	rec, err := r.fetch(tx, warehouseID, productID)
	if err != nil {
		return err
	}
	if rec.OnHandQty < qty {
		return &InvariantViolationError{WarehouseID: warehouseID, ProductID: productID,
			Detail: fmt.Sprintf("debit of %d exceeds on-hand %d", qty, rec.OnHandQty)}
	}
	if rec.ReservedQty < qty {
		return &InvariantViolationError{WarehouseID: warehouseID, ProductID: productID,
			Detail: fmt.Sprintf("debit of %d exceeds reserved %d", qty, rec.ReservedQty)}
	}
	rec.OnHandQty -= qty
	rec.ReservedQty -= qty
	if err := tx.Save(rec).Error; err != nil {
		return err
	}
	return r.journal(tx, warehouseID, productID, -qty, -qty, inventoryEntity.DocTransferDebit, docRef, actorID, nil)
}

// CreditTx adds qty units to on-hand, creating the record when the
// destination has never stocked the product.
func (r *InventoryRepository) CreditTx(tx *gorm.DB, warehouseID, productID uint, qty int, docRef, actorID string, meta map[string]interface{}) error {
	rec, err := r.fetch(tx, warehouseID, productID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		rec = &inventoryEntity.InventoryRecord{WarehouseID: warehouseID, ProductID: productID}
		if err := tx.Create(rec).Error; err != nil {
			return err
		}
	} else if err != nil {
		return err
	}
	rec.OnHandQty += qty
	if err := tx.Save(rec).Error; err != nil {
		return err
	}
	return r.journal(tx, warehouseID, productID, qty, 0, inventoryEntity.DocTransferCredit, docRef, actorID, meta)
}

// DeductTx removes qty units of available stock without touching
// reservations. Used by the sale-order writer, which therefore shares the
// transfer engine's serialization domain.
func (r *InventoryRepository) DeductTx(tx *gorm.DB, warehouseID, productID uint, qty int, docRef, actorID string) error {
	rec, err := r.fetch(tx, warehouseID, productID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &InsufficientStockError{WarehouseID: warehouseID, ProductID: productID, Requested: qty, Available: 0}
	}
	if err != nil {
		return err
	}
	if qty > rec.Available() {
		return &InsufficientStockError{WarehouseID: warehouseID, ProductID: productID, Requested: qty, Available: rec.Available()}
	}
	rec.OnHandQty -= qty
	if err := tx.Save(rec).Error; err != nil {
		return err
	}
	return r.journal(tx, warehouseID, productID, -qty, 0, inventoryEntity.DocSaleDeduct, docRef, actorID, nil)
}

// Reserve is the standalone form of ReserveTx: takes the key lock and runs
// its own transaction. Same shape for Release, Debit, Credit and Deduct.
func (r *InventoryRepository) Reserve(warehouseID, productID uint, qty int, docRef, actorID string) error {
	unlock := r.LockKey(warehouseID, productID)
	defer unlock()
	return r.db.Transaction(func(tx *gorm.DB) error {
		return r.ReserveTx(tx, warehouseID, productID, qty, docRef, actorID)
	})
}

func (r *InventoryRepository) Release(warehouseID, productID uint, qty int, docRef, actorID string) error {
	unlock := r.LockKey(warehouseID, productID)
	defer unlock()
	return r.db.Transaction(func(tx *gorm.DB) error {
		return r.ReleaseTx(tx, warehouseID, productID, qty, docRef, actorID)
	})
}

func (r *InventoryRepository) Debit(warehouseID, productID uint, qty int, docRef, actorID string) error {
	unlock := r.LockKey(warehouseID, productID)
	defer unlock()
	return r.db.Transaction(func(tx *gorm.DB) error {
		return r.DebitTx(tx, warehouseID, productID, qty, docRef, actorID)
	})
}

func (r *InventoryRepository) Credit(warehouseID, productID uint, qty int, docRef, actorID string) error {
	unlock := r.LockKey(warehouseID, productID)
	defer unlock()
	return r.db.Transaction(func(tx *gorm.DB) error {
		return r.CreditTx(tx, warehouseID, productID, qty, docRef, actorID, nil)
	})
}

func (r *InventoryRepository) Deduct(warehouseID, productID uint, qty int, docRef, actorID string) error {
	unlock := r.LockKey(warehouseID, productID)
	defer unlock()
	return r.db.Transaction(func(tx *gorm.DB) error {
		return r.DeductTx(tx, warehouseID, productID, qty, docRef, actorID)
	})
}

// Upsert sets on-hand and reorder level for a pair, creating the record if
// absent. Refuses an on-hand below the current reservation (would break the
// ledger invariant mid-flight). Used by the bulk stock import.
func (r *InventoryRepository) Upsert(warehouseID, productID uint, onHand, reorderLevel int, actorID string) error {
	unlock := r.LockKey(warehouseID, productID)
	defer unlock()
	return r.db.Transaction(func(tx *gorm.DB) error {
		rec, err := r.fetch(tx, warehouseID, productID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			rec = &inventoryEntity.InventoryRecord{
				WarehouseID:  warehouseID,
				ProductID:    productID,
				OnHandQty:    onHand,
				ReorderLevel: reorderLevel,
			}
			if err := tx.Create(rec).Error; err != nil {
				return err
			}
			return r.journal(tx, warehouseID, productID, onHand, 0, inventoryEntity.DocStockImport, "", actorID, nil)
		}
		if err != nil {
			return err
		}
		if onHand < rec.ReservedQty {
			return &InvariantViolationError{WarehouseID: warehouseID, ProductID: productID,
				Detail: fmt.Sprintf("import on-hand %d below reserved %d", onHand, rec.ReservedQty)}
		}
		delta := onHand - rec.OnHandQty
		rec.OnHandQty = onHand
		rec.ReorderLevel = reorderLevel
		if err := tx.Save(rec).Error; err != nil {
			return err
		}
		return r.journal(tx, warehouseID, productID, delta, 0, inventoryEntity.DocStockImport, "", actorID, nil)
	})
}
