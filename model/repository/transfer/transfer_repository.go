package transfer

import (
	"gorm.io/gorm"

	transferEntity "warehouse.GO/model/entity/transfer"
)

type TransferRequestRepository struct {
	db *gorm.DB
}

func NewTransferRequestRepository(db *gorm.DB) *TransferRequestRepository {
	return &TransferRequestRepository{db: db}
}

func (r *TransferRequestRepository) Create(req *transferEntity.TransferRequest) error {
	return r.db.Create(req).Error
}

func (r *TransferRequestRepository) FindByID(id string) (*transferEntity.TransferRequest, error) {
	var req transferEntity.TransferRequest
	err := r.db.Where("request_id = ?", id).First(&req).Error
	if err != nil {
		return nil, err
	}
	return &req, nil
}

// FindByIDTx reads the request inside tx. State-machine operations re-read
// under the ledger key lock so a concurrent transition is always observed.
func (r *TransferRequestRepository) FindByIDTx(tx *gorm.DB, id string) (*transferEntity.TransferRequest, error) {
	var req transferEntity.TransferRequest
	err := tx.Where("request_id = ?", id).First(&req).Error
	if err != nil {
		return nil, err
	}
	return &req, nil
}

// UpdateTx persists all fields of req inside tx.
func (r *TransferRequestRepository) UpdateTx(tx *gorm.DB, req *transferEntity.TransferRequest) error {
	return tx.Save(req).Error
}

// ListFilter narrows List. Zero values mean "no filter".
type ListFilter struct {
	Status      transferEntity.Status
	WarehouseID uint // matches either side of the transfer
	ProductID   uint
	Limit       int
	Offset      int
}

// List returns requests newest first. Requests are never deleted, so the
// full audit history is reachable here.
func (r *TransferRequestRepository) List(f ListFilter) ([]transferEntity.TransferRequest, error) {
	q := r.db.Model(&transferEntity.TransferRequest{})
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.WarehouseID != 0 {
		q = q.Where("from_warehouse_id = ? OR to_warehouse_id = ?", f.WarehouseID, f.WarehouseID)
	}
	if f.ProductID != 0 {
		q = q.Where("product_id = ?", f.ProductID)
	}
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}
	if f.Offset > 0 {
		q = q.Offset(f.Offset)
	}
	var reqs []transferEntity.TransferRequest
	err := q.Order("created_at DESC").Find(&reqs).Error
	return reqs, err
}
