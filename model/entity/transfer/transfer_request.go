package transfer

import "time"

// TransferRequest is the durable record of one inter-warehouse stock
// transfer. Rows are never deleted; terminal states are retained for audit.
type TransferRequest struct {
	RequestID       string   `gorm:"column:request_id;type:varchar(36);primaryKey" json:"request_id"`
	ProductID       uint     `gorm:"column:product_id;not null;index" json:"product_id"`
	FromWarehouseID uint     `gorm:"column:from_warehouse_id;not null;index" json:"from_warehouse_id"`
	ToWarehouseID   uint     `gorm:"column:to_warehouse_id;not null;index" json:"to_warehouse_id"`
	RequestedQty    int      `gorm:"column:requested_qty;not null" json:"requested_qty"`
	Priority        Priority `gorm:"column:priority;type:varchar(16);not null;default:normal" json:"priority"`
	Reason          string   `gorm:"column:reason;type:varchar(512);not null" json:"reason"`
	RequestedBy     string   `gorm:"column:requested_by;type:varchar(64);not null" json:"requested_by"`
	Status          Status   `gorm:"column:status;type:varchar(16);not null;index" json:"status"`

	ApprovedBy *string    `gorm:"column:approved_by;type:varchar(64)" json:"approved_by,omitempty"`
	ApprovedAt *time.Time `gorm:"column:approved_at" json:"approved_at,omitempty"`

	DispatchedBy    *string    `gorm:"column:dispatched_by;type:varchar(64)" json:"dispatched_by,omitempty"`
	DispatchedAt    *time.Time `gorm:"column:dispatched_at" json:"dispatched_at,omitempty"`
	DispatchRemarks string     `gorm:"column:dispatch_remarks;type:varchar(512)" json:"dispatch_remarks,omitempty"`

	ReceivedBy     *string    `gorm:"column:received_by;type:varchar(64)" json:"received_by,omitempty"`
	ReceivedAt     *time.Time `gorm:"column:received_at" json:"received_at,omitempty"`
	ActualQty      *int       `gorm:"column:actual_qty_received" json:"actual_qty_received,omitempty"`
	ReceiptRemarks string     `gorm:"column:receipt_remarks;type:varchar(512)" json:"receipt_remarks,omitempty"`
	// QtyDiscrepancy = requested - actually received; 0 on a clean receipt.
	QtyDiscrepancy int `gorm:"column:qty_discrepancy;not null;default:0" json:"qty_discrepancy"`

	RejectedBy      *string `gorm:"column:rejected_by;type:varchar(64)" json:"rejected_by,omitempty"`
	RejectionReason string  `gorm:"column:rejection_reason;type:varchar(512)" json:"rejection_reason,omitempty"`

	CancelledBy  *string    `gorm:"column:cancelled_by;type:varchar(64)" json:"cancelled_by,omitempty"`
	CancelledAt  *time.Time `gorm:"column:cancelled_at" json:"cancelled_at,omitempty"`
	CancelReason string     `gorm:"column:cancel_reason;type:varchar(512)" json:"cancel_reason,omitempty"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (TransferRequest) TableName() string {
	return "transfer_request"
}

// HasDiscrepancy reports whether the received quantity differed from the
// requested one.
func (r TransferRequest) HasDiscrepancy() bool {
	return r.Status == StatusReceived && r.QtyDiscrepancy != 0
}
