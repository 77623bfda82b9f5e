package config

import (
	"fmt"
	"os"

	"github.com/vitos/gifter_levels/internal/domain"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port int `yaml:"port"`
	} `yaml:"server"`
	Logging struct {
		Level     string `yaml:"level"`
		AuditFile string `yaml:"audit_file"`
	} `yaml:"logging"`
	Storage struct {
		Path string `yaml:"path"`
	} `yaml:"storage"`
	// LevelsFile points at a replacement tier table. Empty means the built-in
	// table.
	LevelsFile string            `yaml:"levels_file"`
	Currencies []domain.Currency `yaml:"currencies"`
}

func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg Config
	decoder := yaml.NewDecoder(f)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Storage.Path == "" {
		c.Storage.Path = "gifter.db"
	}
	if len(c.Currencies) == 0 {
		c.Currencies = DefaultCurrencies()
	}
}

// Validate checks that all required fields are set and values are valid.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}
	seen := make(map[string]bool)
	for i, cur := range c.Currencies {
		if cur.Code == "" {
			return fmt.Errorf("currencies[%d].code is required", i)
		}
		if seen[cur.Code] {
			return fmt.Errorf("currencies[%d].code %q is duplicated", i, cur.Code)
		}
		seen[cur.Code] = true
		if cur.CostPerPoint <= 0 {
			return fmt.Errorf("currencies[%d].cost_per_point must be > 0, got %v", i, cur.CostPerPoint)
		}
	}
	return nil
}

// TierTable returns the tier table configured for this process: the file
// named by levels_file, or the built-in default. A malformed table is a fatal
// configuration error.
func (c *Config) TierTable() (domain.TierTable, error) {
	if c.LevelsFile == "" {
		return DefaultTierTable(), nil
	}
	return LoadTierTable(c.LevelsFile)
}

// DefaultCurrencies returns the shipped currency set with default
// cost-per-point rates.
func DefaultCurrencies() []domain.Currency {
	return []domain.Currency{
		{Code: "BRL", Symbol: "R$", Name: "Real Brasileiro", CostPerPoint: 0.05845},
		{Code: "USD", Symbol: "$", Name: "Dólar Americano", CostPerPoint: 0.01},
		{Code: "EUR", Symbol: "€", Name: "Euro", CostPerPoint: 0.0095},
		{Code: "GBP", Symbol: "£", Name: "Libra Esterlina", CostPerPoint: 0.008},
		{Code: "ARS", Symbol: "$", Name: "Peso Argentino", CostPerPoint: 10.5},
	}
}
