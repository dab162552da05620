// Package models defines the core domain models for FairShare.
//
// # Models
//
//   - Expense: a shared cost, with who paid (payers) and who owes (members)
//   - Balance: the persisted net position of one user inside one group
//   - Transfer: a proposed payment that reduces outstanding group debt
//
// Users and groups are referenced by opaque ID strings; account and group
// management live outside this backend.
//
// # Sign convention
//
// A positive balance means the group owes the user money; a negative balance
// means the user owes the group. The sum of all balances in a group is always
// zero (within Epsilon) after any committed ledger operation.
package models
