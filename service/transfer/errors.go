package transfer

import (
	"fmt"

	transferEntity "warehouse.GO/model/entity/transfer"
)

// ValidationError reports a malformed field on a request. No state is
// mutated; the caller corrects the field and retries.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// IllegalTransitionError reports an operation invoked from a state that does
// not permit it. The request is left unchanged.
type IllegalTransitionError struct {
	RequestID string
	Current   transferEntity.Status
	Attempted transferEntity.Status
}

func (e *IllegalTransitionError) Error() string {
	return fmt.Sprintf("illegal transition for transfer %s: %s does not permit %s",
		e.RequestID, e.Current, e.Attempted)
}

// ReconciliationError reports a receive whose actual quantity differs from
// the requested one without the remarks explaining the difference.
// Recoverable: resubmit receive with remarks.
type ReconciliationError struct {
	RequestID string
	Requested int
	Actual    int
}

func (e *ReconciliationError) Error() string {
	return fmt.Sprintf("quantity discrepancy on transfer %s: requested %d, received %d; receipt remarks are required",
		e.RequestID, e.Requested, e.Actual)
}
