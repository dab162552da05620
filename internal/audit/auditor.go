// Package audit periodically re-checks the zero-sum invariant across every
// group. The ledger preserves the invariant by construction; the sweep
// exists to catch corruption from outside writes or floating-point drift
// accumulated over many operations. It detects and reports, never repairs.
package audit

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/robfig/cron/v3"

	"github.com/fairshare-app/backend/internal/models"
	"github.com/fairshare-app/backend/internal/settlement"
	"github.com/fairshare-app/backend/internal/storage"
)

var driftGroups = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "fairshare_audit_drift_groups",
	Help: "Number of groups whose balances failed the zero-sum check in the last sweep.",
})

// Auditor runs scheduled zero-sum sweeps over all groups.
type Auditor struct {
	store storage.Store
	cron  *cron.Cron
}

// New creates an Auditor sweeping on the given cron expression.
func New(store storage.Store, spec string) (*Auditor, error) {
	a := &Auditor{
		store: store,
		cron:  cron.New(),
	}
	if _, err := a.cron.AddFunc(spec, func() {
		if err := a.Sweep(context.Background()); err != nil {
			slog.Error("Audit sweep failed", "error", err)
		}
	}); err != nil {
		return nil, fmt.Errorf("register audit sweep: %w", err)
	}
	return a, nil
}

// Start begins the schedule.
func (a *Auditor) Start() {
	a.cron.Start()
	slog.Info("Audit scheduler started")
}

// Stop halts the schedule, waiting for a running sweep to finish.
func (a *Auditor) Stop() {
	<-a.cron.Stop().Done()
}

// Sweep checks every group once: the balances must sum to zero within
// epsilon and must reduce to a settlement plan without drift. Violations are
// logged and counted; the first storage failure aborts the sweep.
func (a *Auditor) Sweep(ctx context.Context) error {
	groupIDs, err := a.store.GroupIDs(ctx)
	if err != nil {
		return fmt.Errorf("list groups: %w", err)
	}

	drifted := 0
	for _, groupID := range groupIDs {
		balances, err := a.store.GroupBalances(ctx, groupID)
		if err != nil {
			return fmt.Errorf("read balances for %s: %w", groupID, err)
		}

		sum := 0.0
		for _, amount := range balances {
			sum += amount
		}
		if math.Abs(sum) >= models.Epsilon {
			drifted++
			slog.Error("Zero-sum invariant violated", "group_id", groupID, "sum", sum)
			continue
		}

		if _, err := settlement.Plan(balances); err != nil {
			drifted++
			slog.Error("Settlement drift detected", "group_id", groupID, "error", err)
		}
	}

	driftGroups.Set(float64(drifted))
	slog.Info("Audit sweep completed", "groups", len(groupIDs), "drifted", drifted)
	return nil
}
