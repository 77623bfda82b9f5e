package config

import (
	"fmt"
	"os"

	"github.com/vitos/gifter_levels/internal/domain"
	"gopkg.in/yaml.v3"
)

// LoadTierTable reads a tier table from a yaml file and validates it. The
// table is data, not logic: swapping the file is the supported way to change
// range boundaries.
func LoadTierTable(path string) (domain.TierTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var doc struct {
		Levels []domain.Tier `yaml:"levels"`
	}
	if err := yaml.NewDecoder(f).Decode(&doc); err != nil {
		return nil, fmt.Errorf("parse tier table %s: %w", path, err)
	}
	table := domain.TierTable(doc.Levels)
	if err := ValidateTierTable(table); err != nil {
		return nil, fmt.Errorf("tier table %s: %w", path, err)
	}
	return table, nil
}

// ValidateTierTable checks the structural invariants the engines rely on:
// levels are contiguous ascending integers, ranges are disjoint with no gaps,
// and every range has start <= end. A table that fails here must not be used.
func ValidateTierTable(table domain.TierTable) error {
	if len(table) == 0 {
		return fmt.Errorf("tier table is empty")
	}
	if table[0].Start != 0 {
		return fmt.Errorf("level %d must start at 0, got %d", table[0].Level, table[0].Start)
	}
	for i, t := range table {
		if t.Level < 0 {
			return fmt.Errorf("levels[%d]: level must be >= 0, got %d", i, t.Level)
		}
		if t.Start < 0 {
			return fmt.Errorf("level %d: start must be >= 0, got %d", t.Level, t.Start)
		}
		if t.End < t.Start {
			return fmt.Errorf("level %d: end %d is below start %d", t.Level, t.End, t.Start)
		}
		if i == 0 {
			continue
		}
		prev := table[i-1]
		if t.Level != prev.Level+1 {
			return fmt.Errorf("level %d follows level %d: levels must be contiguous ascending", t.Level, prev.Level)
		}
		if t.Start != prev.End+1 {
			return fmt.Errorf("level %d starts at %d, expected %d (gap or overlap after level %d)", t.Level, t.Start, prev.End+1, prev.Level)
		}
	}
	return nil
}

// DefaultTierTable returns the built-in 51-level table. The final level is
// treated as unbounded above its nominal end.
func DefaultTierTable() domain.TierTable {
	return domain.TierTable{
		{Level: 0, Start: 0, End: 0},
		{Level: 1, Start: 1, End: 7},
		{Level: 2, Start: 8, End: 17},
		{Level: 3, Start: 18, End: 33},
		{Level: 4, Start: 34, End: 55},
		{Level: 5, Start: 56, End: 89},
		{Level: 6, Start: 90, End: 139},
		{Level: 7, Start: 140, End: 219},
		{Level: 8, Start: 220, End: 339},
		{Level: 9, Start: 340, End: 529},
		{Level: 10, Start: 530, End: 819},
		{Level: 11, Start: 820, End: 1259},
		{Level: 12, Start: 1260, End: 1919},
		{Level: 13, Start: 1920, End: 2839},
		{Level: 14, Start: 2840, End: 4339},
		{Level: 15, Start: 4340, End: 6419},
		{Level: 16, Start: 6420, End: 9279},
		{Level: 17, Start: 9280, End: 13499},
		{Level: 18, Start: 13500, End: 19399},
		{Level: 19, Start: 19400, End: 27799},
		{Level: 20, Start: 27800, End: 39599},
		{Level: 21, Start: 39600, End: 54599},
		{Level: 22, Start: 54600, End: 75799},
		{Level: 23, Start: 75800, End: 104999},
		{Level: 24, Start: 105000, End: 143999},
		{Level: 25, Start: 144000, End: 195999},
		{Level: 26, Start: 196000, End: 264999},
		{Level: 27, Start: 265000, End: 356999},
		{Level: 28, Start: 357000, End: 577999},
		{Level: 29, Start: 578000, End: 636999},
		{Level: 30, Start: 637000, End: 844999},
		{Level: 31, Start: 845000, End: 1119999},
		{Level: 32, Start: 1120000, End: 1469999},
		{Level: 33, Start: 1470000, End: 1919999},
		{Level: 34, Start: 1920000, End: 2499999},
		{Level: 35, Start: 2500000, End: 3229999},
		{Level: 36, Start: 3230000, End: 4179999},
		{Level: 37, Start: 4180000, End: 5429999},
		{Level: 38, Start: 5430000, End: 6889999},
		{Level: 39, Start: 6890000, End: 8779999},
		{Level: 40, Start: 8780000, End: 11199999},
		{Level: 41, Start: 11200000, End: 14099999},
		{Level: 42, Start: 14100000, End: 22299999},
		{Level: 43, Start: 22300000, End: 30199999},
		{Level: 44, Start: 30200000, End: 37499999},
		{Level: 45, Start: 37500000, End: 47499999},
		{Level: 46, Start: 47500000, End: 56699999},
		{Level: 47, Start: 56700000, End: 67499999},
		{Level: 48, Start: 67500000, End: 74999999},
		{Level: 49, Start: 75000000, End: 97499999},
		{Level: 50, Start: 97500000, End: 999999999999},
	}
}
