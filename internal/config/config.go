package config

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/cleared-dev/ingro/internal/charset"
	"github.com/cleared-dev/ingro/internal/importer"
	"github.com/cleared-dev/ingro/internal/locale"
	"github.com/cleared-dev/ingro/internal/statement"
)

// FileName is the config file looked up in a project directory.
const FileName = "ingro.yaml"

// Config represents the top-level ingro.yaml configuration.
type Config struct {
	Bank              string        `yaml:"bank"`
	Charset           string        `yaml:"charset"`
	Locale            string        `yaml:"locale"`
	Format            string        `yaml:"format"`
	FlushUnterminated bool          `yaml:"flush_unterminated"`
	Account           AccountConfig `yaml:"account"`
	Balance           BalanceConfig `yaml:"balance,omitempty"`
}

// AccountConfig identifies the account written into statements.
type AccountConfig struct {
	BankID      string `yaml:"bank_id"`
	AccountID   string `yaml:"account_id"`
	AccountType string `yaml:"account_type"`
	Currency    string `yaml:"currency"`
}

// BalanceConfig anchors running balances. Values are decimal strings
// ("1234.56"); at most one may be set.
type BalanceConfig struct {
	Opening string `yaml:"opening,omitempty"`
	Closing string `yaml:"closing,omitempty"`
}

// Load reads an ingro.yaml file from disk. Unset fields keep their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config for ING Romania current accounts.
func Default() *Config {
	return &Config{
		Bank:    "ing-ro",
		Charset: charset.Default,
		Locale:  "ro",
		Format:  "ofx",
		Account: AccountConfig{
			BankID:      "INGBROBU",
			AccountType: "CHECKING",
			Currency:    "RON",
		},
	}
}

// ImporterOptions builds parser options from the config.
func (c *Config) ImporterOptions() (importer.Options, error) {
	if _, err := charset.Lookup(c.Charset); err != nil {
		return importer.Options{}, err
	}
	months, err := locale.Lookup(c.Locale)
	if err != nil {
		return importer.Options{}, err
	}
	return importer.Options{
		Charset:           c.Charset,
		Months:            months,
		FlushUnterminated: c.FlushUnterminated,
	}, nil
}

// StatementAccount returns the account section as a statement.Account.
func (c *Config) StatementAccount() statement.Account {
	return statement.Account{
		BankID:    c.Account.BankID,
		AccountID: c.Account.AccountID,
		Type:      c.Account.AccountType,
		Currency:  c.Account.Currency,
	}
}

// Balances parses the balance section.
func (c *Config) Balances() (statement.Balances, error) {
	var b statement.Balances
	if c.Balance.Opening != "" && c.Balance.Closing != "" {
		return b, statement.ErrBothBalances
	}
	if c.Balance.Opening != "" {
		d, err := decimal.NewFromString(c.Balance.Opening)
		if err != nil {
			return b, fmt.Errorf("parsing opening balance %q: %w", c.Balance.Opening, err)
		}
		b.Opening = &d
	}
	if c.Balance.Closing != "" {
		d, err := decimal.NewFromString(c.Balance.Closing)
		if err != nil {
			return b, fmt.Errorf("parsing closing balance %q: %w", c.Balance.Closing, err)
		}
		b.Closing = &d
	}
	return b, nil
}
