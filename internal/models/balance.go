package models

// Balance is the persisted net position of one user inside one group.
// One record exists per nonzero (user, group) pair; a record whose amount
// falls under Epsilon is deleted rather than kept at zero.
type Balance struct {
	// ID is the unique identifier for the balance record (UUID format).
	ID string `json:"id"`

	// UserID is the user this balance belongs to.
	UserID string `json:"userId"`

	// GroupID is the group this balance is scoped to.
	GroupID string `json:"groupId"`

	// Balance is the signed net amount. Positive: the group owes this
	// user. Negative: this user owes the group.
	Balance float64 `json:"balance"`

	// CreatedAt is the Unix timestamp when the record was created.
	CreatedAt int64 `json:"createdAt"`

	// UpdatedAt is the Unix timestamp of the last ledger write.
	UpdatedAt int64 `json:"updatedAt"`
}

// Transfer is a proposed point-to-point payment that reduces outstanding
// group debt. Transfers are computed on demand and never persisted.
type Transfer struct {
	From   string  `json:"from"`
	To     string  `json:"to"`
	Amount float64 `json:"amount"`
}
