package models

// Payer records one contributor to an expense and the amount they put in.
type Payer struct {
	UserID     string  `json:"userId"`
	PaidAmount float64 `json:"paidAmount"`
}

// Member records one participant's allocated share of an expense.
type Member struct {
	UserID     string  `json:"userId"`
	AmountOwed float64 `json:"amountOwed"`
}

// Expense represents a shared cost inside a group.
//
// An expense is immutable once persisted: edits are modeled as delete plus
// recreate so the ledger only ever sees whole expenses applied or reversed.
// Invariants: Amount == sum(PaidAmount) == sum(AmountOwed), within Epsilon.
type Expense struct {
	// ID is the unique identifier for the expense (UUID format).
	ID string `json:"id"`

	// GroupID is the group this expense belongs to.
	GroupID string `json:"groupId"`

	// Title is the human-readable name for the expense.
	Title string `json:"title"`

	// Amount is the full expense amount.
	Amount float64 `json:"amount"`

	// Date is the Unix timestamp the expense is dated at (user-chosen,
	// defaults to creation time).
	Date int64 `json:"date"`

	// Payers are the users who contributed money, with amounts.
	Payers []Payer `json:"payers"`

	// Members are the users who owe a share, with amounts.
	Members []Member `json:"members"`

	// CreatedAt is the Unix timestamp when the expense was persisted.
	CreatedAt int64 `json:"createdAt"`
}
