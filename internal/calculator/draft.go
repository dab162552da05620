package calculator

import "github.com/fairshare-app/backend/internal/models"

// Draft holds the working state of an expense while it is being composed.
// It exists only until the expense is submitted; nothing in it is persisted.
//
// The redistribution rules mirror the composition flow of the app: equal
// shares track the inclusion set, share weights never go below zero, and
// hand-editing one member under Unequal spreads the remainder across the
// members that have not been touched yet.
type Draft struct {
	total  float64
	mode   SplitMode
	shares []MemberShare
}

// NewDraft starts a draft with every member included, one share each, and
// the total spread evenly.
func NewDraft(total float64, memberIDs []string) *Draft {
	d := &Draft{total: total, mode: SplitEqual}
	per := 0.0
	if total > 0 && len(memberIDs) > 0 {
		per = total / float64(len(memberIDs))
	}
	d.shares = make([]MemberShare, len(memberIDs))
	for i, id := range memberIDs {
		d.shares[i] = MemberShare{
			UserID:   id,
			Included: true,
			Shares:   1,
			Amount:   per,
		}
	}
	return d
}

// Mode returns the draft's current split mode.
func (d *Draft) Mode() SplitMode { return d.mode }

// Shares returns a copy of the current per-member state.
func (d *Draft) Shares() []MemberShare {
	out := make([]MemberShare, len(d.shares))
	copy(out, d.shares)
	return out
}

// SetTotal updates the expense total and redistributes the unedited amounts.
func (d *Draft) SetTotal(total float64) {
	d.total = total
	d.redistribute()
}

// SetMode switches the split mode. Leaving Unequal clears every Edited flag
// so a later switch back starts from a clean even spread.
func (d *Draft) SetMode(mode SplitMode) {
	if d.mode == mode {
		return
	}
	d.mode = mode
	if mode != SplitUnequal {
		for i := range d.shares {
			d.shares[i].Edited = false
		}
	}
	d.redistribute()
}

// ToggleIncluded flips a member in or out of an equal split. It has no
// effect outside Equal mode.
func (d *Draft) ToggleIncluded(userID string) {
	if d.mode != SplitEqual {
		return
	}
	for i := range d.shares {
		if d.shares[i].UserID == userID {
			d.shares[i].Included = !d.shares[i].Included
			return
		}
	}
}

// IncShares raises a member's share weight by one.
func (d *Draft) IncShares(userID string) {
	for i := range d.shares {
		if d.shares[i].UserID == userID {
			d.shares[i].Shares++
			return
		}
	}
}

// DecShares lowers a member's share weight by one. Weights never go below
// zero; decrementing at zero is a no-op.
func (d *Draft) DecShares(userID string) {
	for i := range d.shares {
		if d.shares[i].UserID == userID {
			if d.shares[i].Shares > 0 {
				d.shares[i].Shares--
			}
			return
		}
	}
}

// SetAmount hand-edits one member's amount under Unequal, marks the member
// edited, and recomputes every non-edited member so the running total keeps
// matching the expense total.
func (d *Draft) SetAmount(userID string, amount float64) {
	if d.mode != SplitUnequal {
		return
	}
	for i := range d.shares {
		if d.shares[i].UserID == userID {
			d.shares[i].Amount = amount
			d.shares[i].Edited = true
			break
		}
	}
	d.redistribute()
}

// Allocate materializes the draft into per-member owed amounts.
func (d *Draft) Allocate() ([]models.Member, error) {
	return Allocate(d.total, d.shares, d.mode)
}

// redistribute recomputes the non-edited amounts from whatever the edited
// members leave over. When every member has been edited the amounts stand as
// entered; a mismatch then surfaces at Allocate time as a validation error.
func (d *Draft) redistribute() {
	editedCount := 0
	editedTotal := 0.0
	for _, s := range d.shares {
		if s.Edited {
			editedCount++
			editedTotal += s.Amount
		}
	}

	remaining := len(d.shares) - editedCount
	if remaining == 0 {
		return
	}

	per := 0.0
	if left := d.total - editedTotal; left >= 0 {
		per = left / float64(remaining)
	}
	for i := range d.shares {
		if !d.shares[i].Edited {
			d.shares[i].Amount = per
		}
	}
}
