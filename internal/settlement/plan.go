// Package settlement reduces a group's net balances into a short list of
// point-to-point transfers that zeroes them out.
package settlement

import (
	"container/heap"
	"fmt"
	"math"

	"github.com/fairshare-app/backend/internal/models"
)

// DriftError reports balances that did not cancel out: after matching every
// debtor against every creditor, more than epsilon was left on one side.
// That means the input violated the zero-sum invariant upstream; it is
// surfaced rather than resolved here.
type DriftError struct {
	Residual float64
}

func (e *DriftError) Error() string {
	return fmt.Sprintf("settlement drift: %.4f left unmatched, balances do not sum to zero", e.Residual)
}

// Plan computes transfers that, if applied, drive every balance to zero.
//
// The strategy is greedy: repeatedly match the largest creditor with the
// largest debtor. This keeps the transfer count at most n-1 for n nonzero
// balances but is an approximation, not a guaranteed global minimum. Which
// pairs get matched among equal amounts is implementation-defined; only the
// zero-sum property of the result is stable, and callers must not depend on
// a particular pairing.
//
// Sub-epsilon residue is clamped to zero instead of being emitted as a
// transfer; residue beyond epsilon returns DriftError.
func Plan(balances map[string]float64) ([]models.Transfer, error) {
	creditors := &maxHeap{}
	debtors := &maxHeap{}
	for userID, amount := range balances {
		switch {
		case amount >= models.Epsilon:
			heap.Push(creditors, entry{userID: userID, amount: amount})
		case amount <= -models.Epsilon:
			heap.Push(debtors, entry{userID: userID, amount: -amount})
		}
		// Near-zero balances need no payment.
	}

	var transfers []models.Transfer
	for creditors.Len() > 0 && debtors.Len() > 0 {
		creditor := heap.Pop(creditors).(entry)
		debtor := heap.Pop(debtors).(entry)

		settled := math.Min(creditor.amount, debtor.amount)
		transfers = append(transfers, models.Transfer{
			From:   debtor.userID,
			To:     creditor.userID,
			Amount: settled,
		})

		if rest := creditor.amount - settled; rest >= models.Epsilon {
			heap.Push(creditors, entry{userID: creditor.userID, amount: rest})
		}
		if rest := debtor.amount - settled; rest >= models.Epsilon {
			heap.Push(debtors, entry{userID: debtor.userID, amount: rest})
		}
	}

	residual := 0.0
	for _, e := range *creditors {
		residual += e.amount
	}
	for _, e := range *debtors {
		residual += e.amount
	}
	if residual >= models.Epsilon {
		return nil, &DriftError{Residual: residual}
	}

	return transfers, nil
}
