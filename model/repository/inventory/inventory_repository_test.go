package inventory

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

	inventoryEntity "warehouse.GO/model/entity/inventory"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	tmpFile := filepath.Join(os.TempDir(), fmt.Sprintf("ledger_test_%s_%d.db", t.Name(), time.Now().UnixNano()))
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

func testRepo(t *testing.T) (*InventoryRepository, *gorm.DB) {
	t.Helper()
	db := testDB(t)
	repo, err := NewInventoryRepository(db)
	if err != nil {
		t.Fatalf("NewInventoryRepository: %v", err)
	}
	return repo, db
}

func seed(t *testing.T, db *gorm.DB, warehouseID, productID uint, onHand, reserved, reorder int) {
	t.Helper()
	rec := inventoryEntity.InventoryRecord{
		WarehouseID:  warehouseID,
		ProductID:    productID,
		OnHandQty:    onHand,
		ReservedQty:  reserved,
		ReorderLevel: reorder,
	}
	if err := db.Create(&rec).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}
}

func mustGet(t *testing.T, repo *InventoryRepository, warehouseID, productID uint) *inventoryEntity.InventoryRecord {
	t.Helper()
	rec, err := repo.Get(warehouseID, productID)
	if err != nil {
		t.Fatalf("Get(%d,%d): %v", warehouseID, productID, err)
	}
	if rec.ReservedQty < 0 || rec.ReservedQty > rec.OnHandQty {
		t.Fatalf("invariant broken: on_hand=%d reserved=%d", rec.OnHandQty, rec.ReservedQty)
	}
	return rec
}

func TestAvailable_MissingRecord(t *testing.T) {
	repo, _ := testRepo(t)
	if _, ok := repo.Available(1, 1); ok {
		t.Error("Available on missing record: want false")
	}
}

func TestAvailable_SubtractsReservation(t *testing.T) {
	repo, db := testRepo(t)
	seed(t, db, 1, 1, 10, 4, 0)
	avail, ok := repo.Available(1, 1)
	if !ok {
		t.Fatal("Available: want ok")
	}
	if avail != 6 {
		t.Errorf("Available = %d, want 6", avail)
	}
}

func TestReserve_Insufficient(t *testing.T) {
	repo, db := testRepo(t)
	seed(t, db, 1, 1, 10, 0, 0)

	err := repo.Reserve(1, 1, 11, "req-1", "alice")
	var ise *InsufficientStockError
	if !errors.As(err, &ise) {
		t.Fatalf("err = %v, want InsufficientStockError", err)
	}
	if ise.Requested != 11 || ise.Available != 10 {
		t.Errorf("error fields = requested %d available %d, want 11/10", ise.Requested, ise.Available)
	}

	rec := mustGet(t, repo, 1, 1)
	if rec.ReservedQty != 0 {
		t.Errorf("ReservedQty = %d, want 0 after failed reserve", rec.ReservedQty)
	}
	var count int64
	db.Model(&inventoryEntity.StockMovement{}).Count(&count)
	if count != 0 {
		t.Errorf("movements = %d, want 0 after failed reserve", count)
	}
}

func TestReserve_MissingRecordIsInsufficient(t *testing.T) {
	repo, _ := testRepo(t)
	err := repo.Reserve(9, 9, 1, "req-1", "alice")
	var ise *InsufficientStockError
	if !errors.As(err, &ise) {
		t.Fatalf("err = %v, want InsufficientStockError", err)
	}
	if ise.Available != 0 {
		t.Errorf("Available = %d, want 0", ise.Available)
	}
}

func TestReserve_Release_RoundTrip(t *testing.T) {
	repo, db := testRepo(t)
	seed(t, db, 1, 1, 10, 0, 0)

	if err := repo.Reserve(1, 1, 4, "req-1", "alice"); err != nil {
		t.Fatalf("Reserve: %v", err)
	}
	rec := mustGet(t, repo, 1, 1)
	if rec.ReservedQty != 4 || rec.OnHandQty != 10 {
		t.Errorf("after reserve: on_hand=%d reserved=%d, want 10/4", rec.OnHandQty, rec.ReservedQty)
	}
	if avail, _ := repo.Available(1, 1); avail != 6 {
		t.Errorf("Available = %d, want 6", avail)
	}

	if err := repo.Release(1, 1, 4, "req-1", "alice"); err != nil {
		t.Fatalf("Release: %v", err)
	}
	rec = mustGet(t, repo, 1, 1)
	if rec.ReservedQty != 0 {
		t.Errorf("after release: reserved=%d, want 0", rec.ReservedQty)
	}
	if avail, _ := repo.Available(1, 1); avail != 10 {
		t.Errorf("Available = %d, want 10 restored exactly", avail)
	}

	var count int64
	db.Model(&inventoryEntity.StockMovement{}).Count(&count)
	if count != 2 {
		t.Errorf("movements = %d, want 2", count)
	}
}

func TestRelease_FloorsAtZero(t *testing.T) {
	repo, db := testRepo(t)
	seed(t, db, 1, 1, 10, 2, 0)

	if err := repo.Release(1, 1, 5, "req-1", "alice"); err != nil {
		t.Fatalf("Release: %v", err)
	}
	rec := mustGet(t, repo, 1, 1)
	if rec.ReservedQty != 0 {
		t.Errorf("ReservedQty = %d, want 0", rec.ReservedQty)
	}

	var m inventoryEntity.StockMovement
	if err := db.Where("doc_type = ?", inventoryEntity.DocTransferRelease).First(&m).Error; err != nil {
		t.Fatalf("movement row: %v", err)
	}
	if m.ReservedDelta != -2 {
		t.Errorf("ReservedDelta = %d, want -2 (only what was actually held)", m.ReservedDelta)
	}
}

func TestDebit_RequiresReservation(t *testing.T) {
	repo, db := testRepo(t)
	seed(t, db, 1, 1, 10, 3, 0)

	err := repo.Debit(1, 1, 5, "req-1", "bob")
	var ive *InvariantViolationError
	if !errors.As(err, &ive) {
		t.Fatalf("err = %v, want InvariantViolationError", err)
	}
	rec := mustGet(t, repo, 1, 1)
	if rec.OnHandQty != 10 || rec.ReservedQty != 3 {
		t.Errorf("record mutated on failed debit: on_hand=%d reserved=%d", rec.OnHandQty, rec.ReservedQty)
	}

	if err := repo.Debit(1, 1, 3, "req-1", "bob"); err != nil {
		t.Fatalf("Debit: %v", err)
	}
	rec = mustGet(t, repo, 1, 1)
	if rec.OnHandQty != 7 || rec.ReservedQty != 0 {
		t.Errorf("after debit: on_hand=%d reserved=%d, want 7/0", rec.OnHandQty, rec.ReservedQty)
	}
}

func TestCredit_CreatesRecord(t *testing.T) {
	repo, _ := testRepo(t)

	if err := repo.Credit(2, 1, 5, "req-1", "carol"); err != nil {
		t.Fatalf("Credit: %v", err)
	}
	rec := mustGet(t, repo, 2, 1)
	if rec.OnHandQty != 5 || rec.ReservedQty != 0 {
		t.Errorf("after credit: on_hand=%d reserved=%d, want 5/0", rec.OnHandQty, rec.ReservedQty)
	}
}

func TestDeduct_RespectsReservation(t *testing.T) {
	repo, db := testRepo(t)
	seed(t, db, 1, 1, 10, 4, 0)

	err := repo.Deduct(1, 1, 7, "order-55", "pos")
	var ise *InsufficientStockError
	if !errors.As(err, &ise) {
		t.Fatalf("err = %v, want InsufficientStockError (reserved stock is off limits)", err)
	}
	if ise.Available != 6 {
		t.Errorf("Available = %d, want 6", ise.Available)
	}

	if err := repo.Deduct(1, 1, 6, "order-55", "pos"); err != nil {
		t.Fatalf("Deduct: %v", err)
	}
	rec := mustGet(t, repo, 1, 1)
	if rec.OnHandQty != 4 || rec.ReservedQty != 4 {
		t.Errorf("after deduct: on_hand=%d reserved=%d, want 4/4", rec.OnHandQty, rec.ReservedQty)
	}
}

func TestUpsert_RejectsOnHandBelowReserved(t *testing.T) {
	repo, db := testRepo(t)
	seed(t, db, 1, 1, 10, 6, 0)

	err := repo.Upsert(1, 1, 5, 2, "importer")
	var ive *InvariantViolationError
	if !errors.As(err, &ive) {
		t.Fatalf("err = %v, want InvariantViolationError", err)
	}

	if err := repo.Upsert(1, 1, 20, 8, "importer"); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	rec := mustGet(t, repo, 1, 1)
	if rec.OnHandQty != 20 || rec.ReorderLevel != 8 {
		t.Errorf("after upsert: on_hand=%d reorder=%d, want 20/8", rec.OnHandQty, rec.ReorderLevel)
	}
}

func TestLowStock(t *testing.T) {
	repo, db := testRepo(t)
	seed(t, db, 1, 1, 10, 8, 5) // available 2 <= 5
	seed(t, db, 1, 2, 10, 0, 5) // available 10 > 5

	recs, err := repo.LowStock()
	if err != nil {
		t.Fatalf("LowStock: %v", err)
	}
	if len(recs) != 1 || recs[0].ProductID != 1 {
		t.Fatalf("LowStock = %v, want single record for product 1", recs)
	}
}

func TestConcurrentReserves_AtMostOneWins(t *testing.T) {
	repo, db := testRepo(t)
	seed(t, db, 1, 1, 100, 0, 0)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			errs[n] = repo.Reserve(1, 1, 60, fmt.Sprintf("req-%d", n), "alice")
		}(i)
	}
	wg.Wait()

	var failures int
	for _, err := range errs {
		if err != nil {
			var ise *InsufficientStockError
			if !errors.As(err, &ise) {
				t.Fatalf("unexpected error type: %v", err)
			}
			failures++
		}
	}
	if failures != 1 {
		t.Fatalf("failures = %d, want exactly 1 of 2 competing reserves to fail", failures)
	}
	rec := mustGet(t, repo, 1, 1)
	if rec.ReservedQty != 60 {
		t.Errorf("ReservedQty = %d, want 60", rec.ReservedQty)
	}
}

func TestConcurrentDeductAndReserve_NeverOversell(t *testing.T) {
	repo, db := testRepo(t)
	seed(t, db, 1, 1, 50, 0, 0)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			if n%2 == 0 {
				_ = repo.Reserve(1, 1, 10, fmt.Sprintf("req-%d", n), "alice")
			} else {
				_ = repo.Deduct(1, 1, 10, fmt.Sprintf("order-%d", n), "pos")
			}
		}(i)
	}
	wg.Wait()

	rec := mustGet(t, repo, 1, 1)
	if rec.OnHandQty < 0 || rec.ReservedQty < 0 || rec.ReservedQty > rec.OnHandQty {
		t.Fatalf("invariant broken: on_hand=%d reserved=%d", rec.OnHandQty, rec.ReservedQty)
	}
	// Whatever interleaving happened, no stock was created or destroyed
	// beyond the recorded movements.
	var deltaSum int64
	db.Model(&inventoryEntity.StockMovement{}).Select("COALESCE(SUM(on_hand_delta), 0)").Scan(&deltaSum)
	if int(deltaSum) != rec.OnHandQty-50 {
		t.Errorf("journal on-hand delta %d does not match record drift %d", deltaSum, rec.OnHandQty-50)
	}
}
