package stock

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"gorm.io/gorm"

	inventoryRepo "warehouse.GO/model/repository/inventory"
)

// StockItemInput is one row of a bulk stock upsert.
type StockItemInput struct {
	WarehouseID  uint `json:"warehouse_id"`
	ProductID    uint `json:"product_id"`
	OnHandQty    int  `json:"on_hand_qty"`
	ReorderLevel int  `json:"reorder_level"`
}

// ImportResult summarizes a bulk import run.
type ImportResult struct {
	Imported int
	Skipped  int
	Warnings []string
}

// ImportStock upserts inventory records row by row through the ledger, so
// each write holds the same per-key lock as live transfer traffic. Rows that
// would break the ledger invariant (on-hand below an active reservation) are
// skipped with a warning rather than failing the whole run.
func ImportStock(db *gorm.DB, items []StockItemInput, actorID string) (*ImportResult, error) {
	if len(items) == 0 {
		return nil, errors.New("no stock items to import")
	}
	ledger, err := inventoryRepo.NewInventoryRepository(db)
	if err != nil {
		return nil, err
	}

	res := &ImportResult{}
	for i, item := range items {
		if item.WarehouseID == 0 || item.ProductID == 0 {
			res.Skipped++
			res.Warnings = append(res.Warnings, fmt.Sprintf("row %d: warehouse_id and product_id are required", i+1))
			continue
		}
		if item.OnHandQty < 0 || item.ReorderLevel < 0 {
			res.Skipped++
			res.Warnings = append(res.Warnings, fmt.Sprintf("row %d: negative quantity", i+1))
			continue
		}
		if err := ledger.Upsert(item.WarehouseID, item.ProductID, item.OnHandQty, item.ReorderLevel, actorID); err != nil {
			var iv *inventoryRepo.InvariantViolationError
			if errors.As(err, &iv) {
				res.Skipped++
				res.Warnings = append(res.Warnings, fmt.Sprintf("row %d: %v", i+1, err))
				continue
			}
			return res, err
		}
		res.Imported++
	}
	return res, nil
}

// ParseStockCSV reads rows of warehouse_id,product_id,on_hand_qty[,reorder_level]
// with a header line into StockItemInputs.
func ParseStockCSV(r io.Reader) ([]StockItemInput, []string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, nil, err
	}
	if len(rows) < 2 {
		return nil, nil, errors.New("CSV has no data rows")
	}

	colIndex := map[string]int{}
	for i, col := range rows[0] {
		colIndex[strings.ToLower(strings.TrimSpace(col))] = i
	}
	for _, required := range []string{"warehouse_id", "product_id", "on_hand_qty"} {
		if _, ok := colIndex[required]; !ok {
			return nil, nil, fmt.Errorf("CSV missing required column %q", required)
		}
	}

	var items []StockItemInput
	var warnings []string
	for n, row := range rows[1:] {
		parse := func(col string) (int, bool) {
			ci, ok := colIndex[col]
			if !ok || ci >= len(row) {
				return 0, true
			}
			v := strings.TrimSpace(row[ci])
			if v == "" {
				return 0, true
			}
			iv, err := strconv.Atoi(v)
			if err != nil {
				warnings = append(warnings, fmt.Sprintf("row %d: invalid %s %q", n+2, col, v))
				return 0, false
			}
			return iv, true
		}

		wid, ok1 := parse("warehouse_id")
		pid, ok2 := parse("product_id")
		qty, ok3 := parse("on_hand_qty")
		reorder, ok4 := parse("reorder_level")
		if !ok1 || !ok2 || !ok3 || !ok4 {
			continue
		}
		items = append(items, StockItemInput{
			WarehouseID:  uint(wid),
			ProductID:    uint(pid),
			OnHandQty:    qty,
			ReorderLevel: reorder,
		})
	}
	return items, warnings, nil
}
