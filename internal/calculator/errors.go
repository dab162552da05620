package calculator

import "fmt"

// InvalidSplitStateError reports a split configuration that can never produce
// a valid allocation (no included members, zero total shares, no members at
// all). These are rejected before an expense can be submitted.
type InvalidSplitStateError struct {
	Reason string
}

func (e *InvalidSplitStateError) Error() string {
	return fmt.Sprintf("invalid split state: %s", e.Reason)
}

// AllocationMismatchError reports member shares that do not sum to the
// expense total within the epsilon tolerance. It is surfaced to the caller
// and never auto-corrected.
type AllocationMismatchError struct {
	Total     float64
	Allocated float64
}

func (e *AllocationMismatchError) Error() string {
	return fmt.Sprintf("allocation mismatch: shares sum to %.2f, expense total is %.2f", e.Allocated, e.Total)
}
