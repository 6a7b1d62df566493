package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ricksladkey/synthetic-dividend-sub002/internal/backtest"
	"github.com/ricksladkey/synthetic-dividend-sub002/internal/model"

	"gopkg.in/yaml.v3"
)

// Config is the on-disk configuration shape (YAML).
type Config struct {
	Ticker string `yaml:"ticker"`

	// Optional: load strategy parameters from a separate YAML (e.g.
	// examples/strategies/*.yaml). If both StrategyFile and Strategy are
	// provided, Strategy overrides StrategyFile field by field.
	StrategyFile string         `yaml:"strategy_file"`
	Strategy     StrategyConfig `yaml:"strategy"`

	Withdrawal  WithdrawalConfig  `yaml:"withdrawal"`
	Adjustments AdjustmentsConfig `yaml:"adjustments"`

	// Simple disables CPI adjustment, opportunity cost and risk-free gains.
	Simple bool `yaml:"simple"`

	Data DataConfig `yaml:"data"`
}

// StrategyConfig defines the rebalancing strategy parameters.
type StrategyConfig struct {
	Trigger         float64 `yaml:"trigger" json:"trigger"`
	ProfitSharing   float64 `yaml:"profit_sharing" json:"profit_sharing"`
	InitialQuantity int     `yaml:"initial_quantity" json:"initial_quantity"`
	Buyback         *bool   `yaml:"buyback" json:"buyback,omitempty"` // default: true
	Margin          string  `yaml:"margin" json:"margin,omitempty"`   // "permissive" (default) or "strict"
	NormalizePrices bool    `yaml:"normalize_prices" json:"normalize_prices,omitempty"`
}

// WithdrawalConfig defines the withdrawal schedule. frequency_days of 0
// disables withdrawals.
type WithdrawalConfig struct {
	AnnualRate    float64 `yaml:"annual_rate" json:"annual_rate"`
	FrequencyDays int     `yaml:"frequency_days" json:"frequency_days"`
	CPIAdjusted   bool    `yaml:"cpi_adjusted" json:"cpi_adjusted,omitempty"`
}

// AdjustmentsConfig sets the flat daily fallback rates used for dates
// missing from the return series.
type AdjustmentsConfig struct {
	ReferenceDailyRate float64 `yaml:"reference_daily_rate" json:"reference_daily_rate,omitempty"`
	RiskFreeDailyRate  float64 `yaml:"risk_free_daily_rate" json:"risk_free_daily_rate,omitempty"`
}

// DataConfig points at the input files. Bars is required by the CLI; the
// series are optional.
type DataConfig struct {
	Bars             string `yaml:"bars"`
	Dividends        string `yaml:"dividends"`
	ReferenceReturns string `yaml:"reference_returns"`
	RiskFreeReturns  string `yaml:"risk_free_returns"`
	CPI              string `yaml:"cpi"`
}

// Load reads, merges, defaults and validates a config file.
func Load(path string) (*Config, error) {
	c, err := LoadUnchecked(path)
	if err != nil {
		return nil, err
	}
	c.ApplyDefaults()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadUnchecked loads and merges config, but does not validate it.
// Useful for debugging/printing partial configs.
func LoadUnchecked(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, err
	}
	if c.StrategyFile != "" {
		strategyPath := c.StrategyFile
		if !filepath.IsAbs(strategyPath) {
			// Prefer interpreting relative paths as relative to the config
			// file directory, falling back to the path as given.
			cand := filepath.Join(filepath.Dir(path), strategyPath)
			if _, err := os.Stat(cand); err == nil {
				strategyPath = cand
			}
		}
		loaded, err := loadStrategyFile(strategyPath)
		if err != nil {
			return nil, err
		}
		c.Strategy = MergeStrategy(loaded, c.Strategy)
	}
	return &c, nil
}

// ApplyDefaults fills the fields the YAML may omit.
func (c *Config) ApplyDefaults() {
	if c.Strategy.Margin == "" {
		c.Strategy.Margin = string(model.MarginPermissive)
	}
	if c.Strategy.Buyback == nil {
		t := true
		c.Strategy.Buyback = &t
	}
}

// Validate checks the config by constructing the engine parameters.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if _, err := backtest.New(c.EngineParams()); err != nil {
		return fmt.Errorf("strategy config invalid: %w", err)
	}
	return nil
}

// EngineParams converts the config into engine parameters.
func (c *Config) EngineParams() backtest.Params {
	buyback := true
	if c.Strategy.Buyback != nil {
		buyback = *c.Strategy.Buyback
	}
	return backtest.Params{
		Strategy: model.StrategyParams{
			Trigger:         c.Strategy.Trigger,
			ProfitSharing:   c.Strategy.ProfitSharing,
			InitialQuantity: c.Strategy.InitialQuantity,
			Buyback:         buyback,
			Margin:          model.MarginMode(c.Strategy.Margin),
			NormalizePrices: c.Strategy.NormalizePrices,
		},
		Withdrawal: backtest.WithdrawalSchedule{
			AnnualRate:    c.Withdrawal.AnnualRate,
			FrequencyDays: c.Withdrawal.FrequencyDays,
			CPIAdjusted:   c.Withdrawal.CPIAdjusted,
		},
		ReferenceFallback: c.Adjustments.ReferenceDailyRate,
		RiskFreeFallback:  c.Adjustments.RiskFreeDailyRate,
		Simple:            c.Simple,
	}
}

type strategyFileWrapper struct {
	Strategy StrategyConfig `yaml:"strategy"`
}

// LoadStrategyFile reads a standalone strategy YAML (the strategy_file
// indirection target). The API uses it to resolve request-level overrides.
func LoadStrategyFile(path string) (StrategyConfig, error) {
	return loadStrategyFile(path)
}

func loadStrategyFile(path string) (StrategyConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return StrategyConfig{}, err
	}
	var w strategyFileWrapper
	if err := yaml.Unmarshal(raw, &w); err != nil {
		return StrategyConfig{}, err
	}
	return w.Strategy, nil
}

// MergeStrategy overlays non-zero fields from override onto base. Used when
// loading a strategy file and then applying overrides from the config or an
// API request.
func MergeStrategy(base, override StrategyConfig) StrategyConfig {
	out := base
	if override.Trigger != 0 {
		out.Trigger = override.Trigger
	}
	// Note: profit_sharing 0 is a valid value (buy-and-hold), but configs
	// that want it set it in the strategy file rather than as an override.
	if override.ProfitSharing != 0 {
		out.ProfitSharing = override.ProfitSharing
	}
	if override.InitialQuantity != 0 {
		out.InitialQuantity = override.InitialQuantity
	}
	if override.Buyback != nil {
		out.Buyback = override.Buyback
	}
	if override.Margin != "" {
		out.Margin = override.Margin
	}
	if override.NormalizePrices {
		out.NormalizePrices = true
	}
	return out
}
