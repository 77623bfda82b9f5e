package domain

// Tier is one bracket of the gift-points scale.
type Tier struct {
	Level int   `yaml:"level" json:"level"`
	Start int64 `yaml:"start" json:"start"`
	End   int64 `yaml:"end" json:"end"`
}

// SinglePoint reports whether the bracket covers exactly one value.
func (t Tier) SinglePoint() bool {
	return t.Start == t.End
}

// TierTable is an ordered list of contiguous, disjoint tiers. It is loaded
// once at startup, validated, and never mutated afterwards.
type TierTable []Tier

// Top returns the final (open-ended) tier.
func (t TierTable) Top() Tier {
	return t[len(t)-1]
}

// ByLevel returns the tier with the given level number.
func (t TierTable) ByLevel(level int) (Tier, bool) {
	// Levels are contiguous ascending integers starting at the first entry's
	// level, so the lookup is an index.
	first := t[0].Level
	idx := level - first
	if idx < 0 || idx >= len(t) {
		return Tier{}, false
	}
	return t[idx], true
}
