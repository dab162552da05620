package models

import "math"

// Epsilon is the tolerance under which two currency amounts are treated as
// equal. Amounts are float64 dollars; after many apply/reverse cycles the
// accumulated rounding noise stays well under one cent.
const Epsilon = 0.01

// EqualAmounts reports whether two amounts are equal within Epsilon.
func EqualAmounts(a, b float64) bool {
	return math.Abs(a-b) < Epsilon
}

// ZeroAmount reports whether an amount is zero within Epsilon.
func ZeroAmount(v float64) bool {
	return math.Abs(v) < Epsilon
}
