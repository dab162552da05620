package calculator

import (
	"math"
	"testing"
)

func draftAmounts(d *Draft) map[string]float64 {
	out := make(map[string]float64)
	for _, s := range d.Shares() {
		out[s.UserID] = s.Amount
	}
	return out
}

func TestNewDraftStartsEven(t *testing.T) {
	d := NewDraft(90.0, []string{"alice", "bob", "carol"})

	for _, s := range d.Shares() {
		if !s.Included {
			t.Errorf("%s should start included", s.UserID)
		}
		if s.Shares != 1 {
			t.Errorf("%s starts with %d shares, want 1", s.UserID, s.Shares)
		}
		if math.Abs(s.Amount-30.0) > 0.01 {
			t.Errorf("%s starts at %v, want 30.0", s.UserID, s.Amount)
		}
	}
}

func TestDraftUnequalEditRedistributes(t *testing.T) {
	// Editing one member to X leaves (total-X)/(n-1) for each of the rest.
	d := NewDraft(100.0, []string{"alice", "bob", "carol"})
	d.SetMode(SplitUnequal)
	d.SetAmount("alice", 70.0)

	amounts := draftAmounts(d)
	if math.Abs(amounts["alice"]-70.0) > 0.01 {
		t.Errorf("alice = %v, want 70.0", amounts["alice"])
	}
	for _, id := range []string{"bob", "carol"} {
		if math.Abs(amounts[id]-15.0) > 0.01 {
			t.Errorf("%s = %v, want 15.0", id, amounts[id])
		}
	}

	// A second edit only redistributes across the remaining unedited member.
	d.SetAmount("bob", 10.0)
	amounts = draftAmounts(d)
	if math.Abs(amounts["carol"]-20.0) > 0.01 {
		t.Errorf("carol = %v, want 20.0", amounts["carol"])
	}

	members, err := d.Allocate()
	if err != nil {
		t.Fatalf("Allocate failed: %v", err)
	}
	sum := 0.0
	for _, m := range members {
		sum += m.AmountOwed
	}
	if math.Abs(sum-100.0) > 0.01 {
		t.Errorf("allocation sums to %v, want 100.0", sum)
	}
}

func TestDraftAllEditedNoRedistribution(t *testing.T) {
	d := NewDraft(100.0, []string{"alice", "bob"})
	d.SetMode(SplitUnequal)
	d.SetAmount("alice", 40.0)
	d.SetAmount("bob", 30.0)

	// Nothing left to absorb the gap; the mismatch must surface at
	// allocation time instead of being corrected silently.
	amounts := draftAmounts(d)
	if math.Abs(amounts["alice"]-40.0) > 0.01 || math.Abs(amounts["bob"]-30.0) > 0.01 {
		t.Fatalf("edited amounts changed: %v", amounts)
	}
	if _, err := d.Allocate(); err == nil {
		t.Error("expected allocation mismatch error")
	}
}

func TestDraftModeSwitchClearsEdits(t *testing.T) {
	d := NewDraft(100.0, []string{"alice", "bob"})
	d.SetMode(SplitUnequal)
	d.SetAmount("alice", 70.0)

	d.SetMode(SplitEqual)
	for _, s := range d.Shares() {
		if s.Edited {
			t.Errorf("%s still marked edited after leaving unequal", s.UserID)
		}
	}

	// Switching back starts from a clean even spread.
	d.SetMode(SplitUnequal)
	amounts := draftAmounts(d)
	for id, v := range amounts {
		if math.Abs(v-50.0) > 0.01 {
			t.Errorf("%s = %v after mode round-trip, want 50.0", id, v)
		}
	}
}

func TestDraftToggleIncluded(t *testing.T) {
	d := NewDraft(90.0, []string{"alice", "bob", "carol"})
	d.ToggleIncluded("carol")

	members, err := d.Allocate()
	if err != nil {
		t.Fatalf("Allocate failed: %v", err)
	}
	for _, m := range members {
		want := 45.0
		if m.UserID == "carol" {
			want = 0
		}
		if math.Abs(m.AmountOwed-want) > 0.01 {
			t.Errorf("%s owes %v, want %v", m.UserID, m.AmountOwed, want)
		}
	}

	// Toggling is ignored outside Equal mode.
	d.SetMode(SplitShares)
	d.ToggleIncluded("alice")
	for _, s := range d.Shares() {
		if s.UserID == "alice" && !s.Included {
			t.Error("toggle should be a no-op outside equal mode")
		}
	}
}

func TestDraftShareAdjustment(t *testing.T) {
	d := NewDraft(60.0, []string{"alice", "bob"})
	d.SetMode(SplitShares)

	d.IncShares("alice")           // alice: 2
	d.DecShares("bob")             // bob: 0
	d.DecShares("bob")             // no-op at zero
	d.DecShares("bob")             // still a no-op

	shares := d.Shares()
	if shares[0].Shares != 2 {
		t.Errorf("alice has %d shares, want 2", shares[0].Shares)
	}
	if shares[1].Shares != 0 {
		t.Errorf("bob has %d shares, want 0", shares[1].Shares)
	}

	members, err := d.Allocate()
	if err != nil {
		t.Fatalf("Allocate failed: %v", err)
	}
	if math.Abs(members[0].AmountOwed-60.0) > 0.01 {
		t.Errorf("alice owes %v, want 60.0", members[0].AmountOwed)
	}
}
