package config

import (
	"fmt"
	"os"
	"strconv"
)

const (
	// DefaultLookback is used when the timeframe has no entry in the
	// lookback table.
	DefaultLookback = 200

	DefaultThresholdMultiplier = 2.0
	DefaultBaseThreshold       = 1.5
	DefaultMaxLookForward      = 50
)

// DefaultLookbackByInterval maps a timeframe to its volatility lookback
// window length. Values are fixed per timeframe, never recomputed.
var DefaultLookbackByInterval = map[string]int{
	"1m":  240,
	"5m":  288,
	"15m": 192,
	"30m": 160,
	"1h":  168,
	"4h":  180,
	"1d":  90,
}

// ScanConfig is the immutable configuration for one scan run. A copy is
// handed to each engine, so parallel runs can carry different settings.
type ScanConfig struct {
	Symbol   string `json:"symbol"`
	Interval string `json:"interval"`

	// ThresholdMultiplier scales the window average move into the primary
	// dynamic threshold that sizes the upward/downward price levels.
	ThresholdMultiplier float64 `json:"threshold_multiplier"`

	// BaseThreshold scales the window average into the advisory threshold
	// used only for the diagnostic legend check.
	BaseThreshold float64 `json:"base_threshold"`

	// MaxLookForward bounds how many candles past a legend candle the
	// entry simulator may scan.
	MaxLookForward int `json:"max_look_forward"`

	// LookbackByInterval overrides the default lookback table when set.
	LookbackByInterval map[string]int `json:"lookback_by_interval,omitempty"`
}

// NewScanConfig returns a ScanConfig with process defaults, optionally
// overridden by environment variables (SCANNER_THRESHOLD_MULTIPLIER,
// SCANNER_BASE_THRESHOLD, SCANNER_MAX_LOOK_FORWARD).
func NewScanConfig(symbol, interval string) ScanConfig {
	return ScanConfig{
		Symbol:              symbol,
		Interval:            interval,
		ThresholdMultiplier: getEnvFloat("SCANNER_THRESHOLD_MULTIPLIER", DefaultThresholdMultiplier),
		BaseThreshold:       getEnvFloat("SCANNER_BASE_THRESHOLD", DefaultBaseThreshold),
		MaxLookForward:      getEnvInt("SCANNER_MAX_LOOK_FORWARD", DefaultMaxLookForward),
	}
}

// LookbackFor returns the lookback window length for the given interval,
// falling back to DefaultLookback for unrecognized timeframes.
func (c ScanConfig) LookbackFor(interval string) int {
	table := c.LookbackByInterval
	if table == nil {
		table = DefaultLookbackByInterval
	}
	if lookback, ok := table[interval]; ok {
		return lookback
	}
	return DefaultLookback
}

// Validate checks the configuration bounds before a scan starts
func (c ScanConfig) Validate() error {
	if c.Symbol == "" {
		return fmt.Errorf("symbol is required")
	}
	if c.Interval == "" {
		return fmt.Errorf("interval is required")
	}
	if c.ThresholdMultiplier <= 0 {
		return fmt.Errorf("threshold multiplier must be positive, got %f", c.ThresholdMultiplier)
	}
	if c.BaseThreshold <= 0 {
		return fmt.Errorf("base threshold must be positive, got %f", c.BaseThreshold)
	}
	if c.MaxLookForward <= 0 {
		return fmt.Errorf("max look-forward must be positive, got %d", c.MaxLookForward)
	}
	return nil
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if val := os.Getenv(key); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f
		}
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}
