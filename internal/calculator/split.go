// Package calculator turns an expense total into per-member owed amounts
// under a chosen split mode. It is pure computation: no I/O, no state shared
// across calls.
package calculator

import (
	"github.com/fairshare-app/backend/internal/models"
)

// SplitMode selects how an expense total is divided among members.
type SplitMode int

const (
	// SplitEqual divides the total evenly among included members.
	SplitEqual SplitMode = iota

	// SplitShares divides the total proportionally to integer weights.
	SplitShares

	// SplitUnequal uses per-member amounts entered by hand.
	SplitUnequal
)

func (m SplitMode) String() string {
	switch m {
	case SplitEqual:
		return "equal"
	case SplitShares:
		return "shares"
	case SplitUnequal:
		return "unequal"
	}
	return "unknown"
}

// ParseSplitMode converts a wire-level mode name into a SplitMode.
func ParseSplitMode(s string) (SplitMode, error) {
	switch s {
	case "equal":
		return SplitEqual, nil
	case "shares":
		return SplitShares, nil
	case "unequal":
		return SplitUnequal, nil
	}
	return 0, &InvalidSplitStateError{Reason: "unknown split mode " + s}
}

// MemberShare is the per-member state of an expense under composition.
// Included and Edited only matter for the Equal and Unequal modes
// respectively; Shares only matters for the Shares mode.
type MemberShare struct {
	UserID   string  `json:"userId"`
	Included bool    `json:"included"`
	Shares   int     `json:"shares"`
	Amount   float64 `json:"amount"`
	Edited   bool    `json:"edited"`
}

// Allocate computes each member's owed amount for the given mode.
//
// Degenerate inputs (no members, no included members under Equal, zero total
// shares under Shares) return InvalidSplitStateError. If the computed shares
// do not sum to total within models.Epsilon the allocation is rejected with
// AllocationMismatchError rather than silently rounded; for Equal and Shares
// this cannot happen on well-formed input, for Unequal it catches totals the
// hand-entered amounts fail to explain.
func Allocate(total float64, shares []MemberShare, mode SplitMode) ([]models.Member, error) {
	if len(shares) == 0 {
		return nil, &InvalidSplitStateError{Reason: "expense has no members"}
	}

	members := make([]models.Member, len(shares))
	for i, s := range shares {
		members[i] = models.Member{UserID: s.UserID}
	}

	switch mode {
	case SplitEqual:
		included := 0
		for _, s := range shares {
			if s.Included {
				included++
			}
		}
		if included == 0 {
			return nil, &InvalidSplitStateError{Reason: "no members included in equal split"}
		}
		per := total / float64(included)
		for i, s := range shares {
			if s.Included {
				members[i].AmountOwed = per
			}
		}

	case SplitShares:
		totalShares := 0
		for _, s := range shares {
			totalShares += s.Shares
		}
		if totalShares == 0 {
			return nil, &InvalidSplitStateError{Reason: "total shares is zero"}
		}
		for i, s := range shares {
			members[i].AmountOwed = total * float64(s.Shares) / float64(totalShares)
		}

	case SplitUnequal:
		for i, s := range shares {
			members[i].AmountOwed = s.Amount
		}

	default:
		return nil, &InvalidSplitStateError{Reason: "unknown split mode"}
	}

	allocated := 0.0
	for _, m := range members {
		allocated += m.AmountOwed
	}
	if !models.EqualAmounts(allocated, total) {
		return nil, &AllocationMismatchError{Total: total, Allocated: allocated}
	}

	return members, nil
}

// ValidateExpense checks the ledger preconditions on a fully composed
// expense: payers and members must each sum to the expense amount.
func ValidateExpense(e *models.Expense) error {
	paid := 0.0
	for _, p := range e.Payers {
		paid += p.PaidAmount
	}
	if !models.EqualAmounts(paid, e.Amount) {
		return &AllocationMismatchError{Total: e.Amount, Allocated: paid}
	}

	owed := 0.0
	for _, m := range e.Members {
		owed += m.AmountOwed
	}
	if !models.EqualAmounts(owed, e.Amount) {
		return &AllocationMismatchError{Total: e.Amount, Allocated: owed}
	}

	return nil
}
