package transfer

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	transferEntity "warehouse.GO/model/entity/transfer"
	inventoryRepo "warehouse.GO/model/repository/inventory"
	transferRepo "warehouse.GO/model/repository/transfer"
)

// Lookup resolves warehouse/product existence for request validation. The
// catalog repository satisfies it; tests may substitute their own.
type Lookup interface {
	WarehouseExists(id uint) bool
	ProductExists(id uint) bool
}

// TransferService drives the transfer request lifecycle:
//
//	pending -> approved -> dispatched -> received
//	pending -> rejected
//	pending|approved -> cancelled
//
// Each operation re-reads the request inside a transaction held under the
// ledger's per-key lock, so the status change and the matching ledger
// mutation commit or roll back together.
type TransferService struct {
	db       *gorm.DB
	ledger   *inventoryRepo.InventoryRepository
	requests *transferRepo.TransferRequestRepository
	catalog  Lookup
}

func NewTransferService(db *gorm.DB, catalog Lookup) (*TransferService, error) {
	ledger, err := inventoryRepo.NewInventoryRepository(db)
	if err != nil {
		return nil, err
	}
	return &TransferService{
		db:       db,
		ledger:   ledger,
		requests: transferRepo.NewTransferRequestRepository(db),
		catalog:  catalog,
	}, nil
}

// Ledger exposes the inventory repository backing this service, so other
// writers (sale deduction, imports) share its serialization domain.
func (s *TransferService) Ledger() *inventoryRepo.InventoryRepository {
	return s.ledger
}

type CreateInput struct {
	FromWarehouseID uint
	ToWarehouseID   uint
	ProductID       uint
	Quantity        int
	Priority        transferEntity.Priority
	Reason          string
	RequestedBy     string
}

// Create validates the input and persists a new pending request. The
// availability comparison is advisory only: stock is checked again, under
// lock, at approval time.
func (s *TransferService) Create(in CreateInput) (*transferEntity.TransferRequest, error) {
	if in.Quantity <= 0 {
		return nil, &ValidationError{Field: "requested_qty", Reason: fmt.Sprintf("must be positive, got %d", in.Quantity)}
	}
	if in.FromWarehouseID == in.ToWarehouseID {
		return nil, &ValidationError{Field: "to_warehouse_id", Reason: "must differ from from_warehouse_id"}
	}
	if strings.TrimSpace(in.Reason) == "" {
		return nil, &ValidationError{Field: "reason", Reason: "must not be empty"}
	}
	if strings.TrimSpace(in.RequestedBy) == "" {
		return nil, &ValidationError{Field: "requested_by", Reason: "must not be empty"}
	}
	if in.Priority == "" {
		in.Priority = transferEntity.PriorityNormal
	}
	if !in.Priority.Valid() {
		return nil, &ValidationError{Field: "priority", Reason: fmt.Sprintf("unknown priority %q", in.Priority)}
	}
	if s.catalog != nil {
		if !s.catalog.WarehouseExists(in.FromWarehouseID) {
			return nil, &ValidationError{Field: "from_warehouse_id", Reason: fmt.Sprintf("unknown warehouse %d", in.FromWarehouseID)}
		}
		if !s.catalog.WarehouseExists(in.ToWarehouseID) {
			return nil, &ValidationError{Field: "to_warehouse_id", Reason: fmt.Sprintf("unknown warehouse %d", in.ToWarehouseID)}
		}
		if !s.catalog.ProductExists(in.ProductID) {
			return nil, &ValidationError{Field: "product_id", Reason: fmt.Sprintf("unknown product %d", in.ProductID)}
		}
	}

	if avail, ok := s.ledger.Available(in.FromWarehouseID, in.ProductID); !ok || in.Quantity > avail {
		log.Printf("transfer: request over current availability (warehouse=%d product=%d requested=%d available=%d), approval will re-check",
			in.FromWarehouseID, in.ProductID, in.Quantity, avail)
	}

	req := &transferEntity.TransferRequest{
		RequestID:       uuid.NewString(),
		ProductID:       in.ProductID,
		FromWarehouseID: in.FromWarehouseID,
		ToWarehouseID:   in.ToWarehouseID,
		RequestedQty:    in.Quantity,
		Priority:        in.Priority,
		Reason:          in.Reason,
		RequestedBy:     in.RequestedBy,
		Status:          transferEntity.StatusPending,
	}
	if err := s.requests.Create(req); err != nil {
		return nil, err
	}
	return req, nil
}

// Get returns a request by id.
func (s *TransferService) Get(id string) (*transferEntity.TransferRequest, error) {
	req, err := s.requests.FindByID(id)
	if err != nil {
		return nil, fmt.Errorf("transfer request %s: %w", id, err)
	}
	return req, nil
}

// List returns requests matching the filter.
func (s *TransferService) List(f transferRepo.ListFilter) ([]transferEntity.TransferRequest, error) {
	return s.requests.List(f)
}

// Approve re-checks availability under the source key lock and converts the
// pending request into a reservation. Status change and reservation commit
// as one transaction. On insufficient stock nothing is mutated and the
// request stays pending.
func (s *TransferService) Approve(id, approverID string) (*transferEntity.TransferRequest, error) {
	if strings.TrimSpace(approverID) == "" {
		return nil, &ValidationError{Field: "approver_id", Reason: "must not be empty"}
	}
	req, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	unlock := s.ledger.LockKey(req.FromWarehouseID, req.ProductID)
	defer unlock()

	err = s.db.Transaction(func(tx *gorm.DB) error {
		fresh, err := s.requests.FindByIDTx(tx, id)
		if err != nil {
			return err
		}
		if !fresh.Status.CanTransition(transferEntity.StatusApproved) {
			return &IllegalTransitionError{RequestID: id, Current: fresh.Status, Attempted: transferEntity.StatusApproved}
		}
		if err := s.ledger.ReserveTx(tx, fresh.FromWarehouseID, fresh.ProductID, fresh.RequestedQty, id, approverID); err != nil {
			return err
		}
		now := time.Now()
		fresh.Status = transferEntity.StatusApproved
		fresh.ApprovedBy = &approverID
		fresh.ApprovedAt = &now
		req = fresh
		return s.requests.UpdateTx(tx, fresh)
	})
	if err != nil {
		return nil, err
	}
	return req, nil
}

// Reject closes a pending request without touching the ledger (nothing was
// reserved yet). A non-empty reason is required.
func (s *TransferService) Reject(id, approverID, reason string) (*transferEntity.TransferRequest, error) {
	if strings.TrimSpace(approverID) == "" {
		return nil, &ValidationError{Field: "approver_id", Reason: "must not be empty"}
	}
	if strings.TrimSpace(reason) == "" {
		return nil, &ValidationError{Field: "rejection_reason", Reason: "must not be empty"}
	}
	req, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	unlock := s.ledger.LockKey(req.FromWarehouseID, req.ProductID)
	defer unlock()

	err = s.db.Transaction(func(tx *gorm.DB) error {
		fresh, err := s.requests.FindByIDTx(tx, id)
		if err != nil {
			return err
		}
		if !fresh.Status.CanTransition(transferEntity.StatusRejected) {
			return &IllegalTransitionError{RequestID: id, Current: fresh.Status, Attempted: transferEntity.StatusRejected}
		}
		fresh.Status = transferEntity.StatusRejected
		fresh.RejectedBy = &approverID
		fresh.RejectionReason = reason
		req = fresh
		return s.requests.UpdateTx(tx, fresh)
	})
	if err != nil {
		return nil, err
	}
	return req, nil
}

// Cancel aborts a pending or approved request. For an approved request the
// reservation is released back to the source warehouse in the same
// transaction. Cancellation after dispatch is not permitted: goods are in
// transit and only receive can close the request.
func (s *TransferService) Cancel(id, actorID, reason string) (*transferEntity.TransferRequest, error) {
	if strings.TrimSpace(actorID) == "" {
		return nil, &ValidationError{Field: "actor_id", Reason: "must not be empty"}
	}
	req, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	unlock := s.ledger.LockKey(req.FromWarehouseID, req.ProductID)
	defer unlock()

	err = s.db.Transaction(func(tx *gorm.DB) error {
		fresh, err := s.requests.FindByIDTx(tx, id)
		if err != nil {
			return err
		}
		if !fresh.Status.CanTransition(transferEntity.StatusCancelled) {
			return &IllegalTransitionError{RequestID: id, Current: fresh.Status, Attempted: transferEntity.StatusCancelled}
		}
		if fresh.Status == transferEntity.StatusApproved {
			if err := s.ledger.ReleaseTx(tx, fresh.FromWarehouseID, fresh.ProductID, fresh.RequestedQty, id, actorID); err != nil {
				return err
			}
		}
		now := time.Now()
		fresh.Status = transferEntity.StatusCancelled
		fresh.CancelledBy = &actorID
		fresh.CancelledAt = &now
		fresh.CancelReason = reason
		req = fresh
		return s.requests.UpdateTx(tx, fresh)
	})
	if err != nil {
		return nil, err
	}
	return req, nil
}

// Dispatch converts the reservation into an outbound debit: the only point
// where source on-hand actually decreases. A debit failure here means the
// ledger invariant was broken externally and is surfaced, never retried.
func (s *TransferService) Dispatch(id, dispatcherID, remarks string) (*transferEntity.TransferRequest, error) {
	if strings.TrimSpace(dispatcherID) == "" {
		return nil, &ValidationError{Field: "dispatcher_id", Reason: "must not be empty"}
	}
	req, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	unlock := s.ledger.LockKey(req.FromWarehouseID, req.ProductID)
	defer unlock()

	err = s.db.Transaction(func(tx *gorm.DB) error {
		fresh, err := s.requests.FindByIDTx(tx, id)
		if err != nil {
			return err
		}
		if !fresh.Status.CanTransition(transferEntity.StatusDispatched) {
			return &IllegalTransitionError{RequestID: id, Current: fresh.Status, Attempted: transferEntity.StatusDispatched}
		}
		if err := s.ledger.DebitTx(tx, fresh.FromWarehouseID, fresh.ProductID, fresh.RequestedQty, id, dispatcherID); err != nil {
			return err
		}
		now := time.Now()
		fresh.Status = transferEntity.StatusDispatched
		fresh.DispatchedBy = &dispatcherID
		fresh.DispatchedAt = &now
		fresh.DispatchRemarks = remarks
		req = fresh
		return s.requests.UpdateTx(tx, fresh)
	})
	if err != nil {
		return nil, err
	}
	return req, nil
}

// Receive credits the destination with the actually received quantity and
// closes the request. A quantity mismatch is not fatal but must carry
// remarks; it is recorded on the request and in the movement journal for
// audit.
func (s *TransferService) Receive(id, receiverID string, actualQty int, remarks string) (*transferEntity.TransferRequest, error) {
	if strings.TrimSpace(receiverID) == "" {
		return nil, &ValidationError{Field: "receiver_id", Reason: "must not be empty"}
	}
	if actualQty <= 0 {
		return nil, &ValidationError{Field: "actual_quantity", Reason: fmt.Sprintf("must be positive, got %d", actualQty)}
	}
	req, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	unlock := s.ledger.LockKey(req.ToWarehouseID, req.ProductID)
	defer unlock()

	err = s.db.Transaction(func(tx *gorm.DB) error {
		fresh, err := s.requests.FindByIDTx(tx, id)
		if err != nil {
			return err
		}
		if !fresh.Status.CanTransition(transferEntity.StatusReceived) {
			return &IllegalTransitionError{RequestID: id, Current: fresh.Status, Attempted: transferEntity.StatusReceived}
		}
		var meta map[string]interface{}
		if actualQty != fresh.RequestedQty {
			if strings.TrimSpace(remarks) == "" {
				return &ReconciliationError{RequestID: id, Requested: fresh.RequestedQty, Actual: actualQty}
			}
			meta = map[string]interface{}{
				"requested": fresh.RequestedQty,
				"actual":    actualQty,
				"remarks":   remarks,
			}
		}
		if err := s.ledger.CreditTx(tx, fresh.ToWarehouseID, fresh.ProductID, actualQty, id, receiverID, meta); err != nil {
			return err
		}
		now := time.Now()
		fresh.Status = transferEntity.StatusReceived
		fresh.ReceivedBy = &receiverID
		fresh.ReceivedAt = &now
		fresh.ActualQty = &actualQty
		fresh.ReceiptRemarks = remarks
		fresh.QtyDiscrepancy = fresh.RequestedQty - actualQty
		req = fresh
		return s.requests.UpdateTx(tx, fresh)
	})
	if err != nil {
		return nil, err
	}
	return req, nil
}
