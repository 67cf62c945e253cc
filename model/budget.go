package model

import "math"

// Budget is a department's budget state.  Remaining is always derived from
// Total and Spent; Spent changes only when a request is finally approved.
type Budget struct {
	Department string  `json:"department" yaml:"department"`
	Name       string  `json:"name,omitempty" yaml:"name,omitempty"`
	LeaderID   string  `json:"leaderId,omitempty" yaml:"leaderId,omitempty"`
	Strategic  bool    `json:"strategic,omitempty" yaml:"strategic,omitempty"`
	Total      float64 `json:"total" yaml:"total"`
	Spent      float64 `json:"spent" yaml:"spent"`
}

// Remaining returns Total - Spent, computed in whole cents.
func (b *Budget) Remaining() float64 {
	return FromCents(Cents(b.Total) - Cents(b.Spent))
}

// Fits reports whether amount does not exceed the remaining budget when
// both are compared in whole cents.
func (b *Budget) Fits(amount float64) bool {
	return Cents(amount) <= Cents(b.Total)-Cents(b.Spent)
}

// Cents rounds amount to whole cents.
func Cents(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

// FromCents converts cents back to a currency amount.
func FromCents(cents int64) float64 {
	return float64(cents) / 100
}

// Utilization returns the consumed percentage of Total, or 0 when no total
// budget is configured.
func (b *Budget) Utilization() float64 {
	return Utilization(b.Spent, b.Total)
}

// Utilization returns spent as a percentage of total (0 when total <= 0).
func Utilization(spent, total float64) float64 {
	if total <= 0 {
		return 0
	}
	return spent / total * 100
}

// Clone returns a copy of the budget.
func (b *Budget) Clone() *Budget {
	if b == nil {
		return nil
	}
	ret := *b
	return &ret
}
