package unit

// MarkupCalculator derives a unit's total cost from its base cost. The
// booking engine treats it as an opaque pure function.
type MarkupCalculator interface {
	TotalCost(baseCost Money) Money
}

// FixedMarkup adds a flat percentage on top of the base cost, rounding
// half-up to the nearest cent.
type FixedMarkup struct {
	RatePercent int64
}

func NewFixedMarkup() *FixedMarkup {
	return &FixedMarkup{RatePercent: 15}
}

func (m *FixedMarkup) TotalCost(baseCost Money) Money {
	cents := (baseCost.Cents()*(100+m.RatePercent) + 50) / 100
	return Money{cents: cents}
}
