package domain

// Currency describes a selectable display currency. CostPerPoint is the
// configured default; the effective rate used in a calculation is usually
// derived from the latest submitted daily price instead.
type Currency struct {
	Code         string  `yaml:"code" json:"code"`
	Symbol       string  `yaml:"symbol" json:"symbol"`
	Name         string  `yaml:"name" json:"name"`
	CostPerPoint float64 `yaml:"cost_per_point" json:"cost_per_point"`
}

// WithRate returns a copy of the currency with an overridden cost-per-point.
// The base currency is never mutated.
func WithRate(c Currency, rate float64) Currency {
	c.CostPerPoint = rate
	return c
}
