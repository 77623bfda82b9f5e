package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vitos/gifter_levels/internal/domain"
)

func TestDefaultTierTableIsValid(t *testing.T) {
	require.NoError(t, ValidateTierTable(DefaultTierTable()))
}

func TestValidateTierTable_Rejections(t *testing.T) {
	cases := []struct {
		name  string
		table domain.TierTable
	}{
		{"empty", domain.TierTable{}},
		{"first not zero", domain.TierTable{
			{Level: 0, Start: 1, End: 5},
		}},
		{"gap", domain.TierTable{
			{Level: 0, Start: 0, End: 0},
			{Level: 1, Start: 2, End: 7},
		}},
		{"overlap", domain.TierTable{
			{Level: 0, Start: 0, End: 0},
			{Level: 1, Start: 0, End: 7},
		}},
		{"level skip", domain.TierTable{
			{Level: 0, Start: 0, End: 0},
			{Level: 2, Start: 1, End: 7},
		}},
		{"inverted range", domain.TierTable{
			{Level: 0, Start: 0, End: 0},
			{Level: 1, Start: 1, End: 0},
		}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			require.Error(t, ValidateTierTable(c.table))
		})
	}
}

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadTierTable(t *testing.T) {
	path := writeTemp(t, "levels.yaml", `levels:
  - { level: 0, start: 0, end: 0 }
  - { level: 1, start: 1, end: 7 }
  - { level: 2, start: 8, end: 17 }
`)
	table, err := LoadTierTable(path)
	require.NoError(t, err)
	require.Len(t, table, 3)
	require.Equal(t, 2, table.Top().Level)
}

func TestLoadTierTable_MalformedIsFatal(t *testing.T) {
	path := writeTemp(t, "levels.yaml", `levels:
  - { level: 0, start: 0, end: 0 }
  - { level: 1, start: 5, end: 7 }
`)
	_, err := LoadTierTable(path)
	require.Error(t, err)
}

func TestLoadConfig(t *testing.T) {
	path := writeTemp(t, "config.yaml", `server:
  port: 9090
logging:
  level: debug
storage:
  path: test.db
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 9090, cfg.Server.Port)
	require.Equal(t, "test.db", cfg.Storage.Path)
	// Currencies default in when omitted.
	require.NotEmpty(t, cfg.Currencies)

	table, err := cfg.TierTable()
	require.NoError(t, err)
	require.Equal(t, 50, table.Top().Level)
}

func TestConfigValidate_Rejections(t *testing.T) {
	base := func() *Config {
		cfg := &Config{}
		cfg.applyDefaults()
		return cfg
	}

	cfg := base()
	cfg.Server.Port = -1
	require.Error(t, cfg.Validate())

	cfg = base()
	cfg.Currencies = append(cfg.Currencies, domain.Currency{Code: "BRL", CostPerPoint: 1})
	require.Error(t, cfg.Validate(), "duplicate currency code")

	cfg = base()
	cfg.Currencies[0].CostPerPoint = 0
	require.Error(t, cfg.Validate(), "non-positive cost per point")
}
