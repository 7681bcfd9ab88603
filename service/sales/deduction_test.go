package sales

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

	inventoryEntity "warehouse.GO/model/entity/inventory"
	inventoryRepo "warehouse.GO/model/repository/inventory"
)

func deductionTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	tmpFile := filepath.Join(os.TempDir(), fmt.Sprintf("deduction_test_%s_%d.db", t.Name(), time.Now().UnixNano()))
	t.Cleanup(func() { os.Remove(tmpFile) })
	db, err := gorm.Open(sqlite.Open(tmpFile), &gorm.Config{SkipDefaultTransaction: true})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	db.Exec("PRAGMA journal_mode=WAL")
	db.Exec("PRAGMA busy_timeout=5000")
	if err := db.AutoMigrate(&inventoryEntity.InventoryRecord{}, &inventoryEntity.StockMovement{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestDeduct_LeavesReservationIntact(t *testing.T) {
	db := deductionTestDB(t)
	rec := inventoryEntity.InventoryRecord{WarehouseID: 1, ProductID: 1, OnHandQty: 100, ReservedQty: 40}
	if err := db.Create(&rec).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}
	svc, err := NewDeductionService(db)
	if err != nil {
		t.Fatalf("NewDeductionService: %v", err)
	}

	if err := svc.Deduct(1, 1, 60, "SO-1", "pos"); err != nil {
		t.Fatalf("Deduct: %v", err)
	}

	var after inventoryEntity.InventoryRecord
	db.Where("warehouse_id = ? AND product_id = ?", 1, 1).First(&after)
	if after.OnHandQty != 40 || after.ReservedQty != 40 {
		t.Errorf("after deduct: on_hand=%d reserved=%d, want 40/40", after.OnHandQty, after.ReservedQty)
	}

	// Everything left is reserved; the next sale must fail.
	err = svc.Deduct(1, 1, 1, "SO-2", "pos")
	var ise *inventoryRepo.InsufficientStockError
	if !errors.As(err, &ise) {
		t.Fatalf("err = %v, want InsufficientStockError", err)
	}
	if ise.Available != 0 {
		t.Errorf("Available = %d, want 0", ise.Available)
	}

	// The sale left a journal entry with the order reference.
	var m inventoryEntity.StockMovement
	if err := db.Where("doc_type = ? AND doc_ref = ?", inventoryEntity.DocSaleDeduct, "SO-1").First(&m).Error; err != nil {
		t.Fatalf("movement: %v", err)
	}
	if m.OnHandDelta != -60 {
		t.Errorf("OnHandDelta = %d, want -60", m.OnHandDelta)
	}
}

func TestDeduct_RejectsNonPositive(t *testing.T) {
	db := deductionTestDB(t)
	svc, err := NewDeductionService(db)
	if err != nil {
		t.Fatalf("NewDeductionService: %v", err)
	}
	if err := svc.Deduct(1, 1, 0, "SO-1", "pos"); err == nil {
		t.Fatal("expected error for zero quantity")
	}
	if err := svc.Deduct(1, 1, -3, "SO-1", "pos"); err == nil {
		t.Fatal("expected error for negative quantity")
	}
}
