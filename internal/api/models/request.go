package models

import "github.com/ricksladkey/synthetic-dividend-sub002/internal/config"

// BacktestRequest is the body of POST /api/v1/backtest.
type BacktestRequest struct {
	DataSource DataSourceConfig `json:"data_source" binding:"required"`
	Config     RunConfig        `json:"config" binding:"required"`
	Options    BacktestOptions  `json:"options,omitempty"`
}

// DataSourceConfig names the bar file to simulate over. Path is resolved
// relative to the server's data directory.
type DataSourceConfig struct {
	Path      string `json:"path" binding:"required"`
	LimitBars int    `json:"limit_bars,omitempty"` // 0 = all
}

// RunConfig mirrors the YAML config minus the data section. StrategyFile,
// if set, is loaded first and overlaid with the inline strategy fields.
type RunConfig struct {
	StrategyFile string                   `json:"strategy_file,omitempty"`
	Strategy     config.StrategyConfig    `json:"strategy"`
	Withdrawal   config.WithdrawalConfig  `json:"withdrawal,omitempty"`
	Adjustments  config.AdjustmentsConfig `json:"adjustments,omitempty"`
	Simple       bool                     `json:"simple,omitempty"`
}

// BacktestOptions contains optional backtest parameters.
type BacktestOptions struct {
	IncludeTransactions bool `json:"include_transactions,omitempty"` // default: false
}

// CompareRequest is the body of POST /api/v1/backtest/compare: a base
// configuration plus named variations run over the same data source.
type CompareRequest struct {
	DataSource DataSourceConfig `json:"data_source" binding:"required"`
	BaseConfig RunConfig        `json:"base_config" binding:"required"`
	Variations []Variation      `json:"variations" binding:"required"`
}

// Variation is one named configuration to compare.
type Variation struct {
	Name   string    `json:"name" binding:"required"`
	Config RunConfig `json:"config" binding:"required"`
}
