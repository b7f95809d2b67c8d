package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestNewScanConfig_Defaults tests the process defaults
func TestNewScanConfig_Defaults(t *testing.T) {
	cfg := NewScanConfig("BTCUSDT", "1h")

	assert.Equal(t, "BTCUSDT", cfg.Symbol)
	assert.Equal(t, "1h", cfg.Interval)
	assert.Equal(t, DefaultThresholdMultiplier, cfg.ThresholdMultiplier)
	assert.Equal(t, DefaultBaseThreshold, cfg.BaseThreshold)
	assert.Equal(t, DefaultMaxLookForward, cfg.MaxLookForward)
}

// TestNewScanConfig_EnvOverrides tests environment-variable overrides
func TestNewScanConfig_EnvOverrides(t *testing.T) {
	t.Setenv("SCANNER_THRESHOLD_MULTIPLIER", "3.5")
	t.Setenv("SCANNER_BASE_THRESHOLD", "2.25")
	t.Setenv("SCANNER_MAX_LOOK_FORWARD", "120")

	cfg := NewScanConfig("ETHUSDT", "4h")

	assert.Equal(t, 3.5, cfg.ThresholdMultiplier)
	assert.Equal(t, 2.25, cfg.BaseThreshold)
	assert.Equal(t, 120, cfg.MaxLookForward)
}

// TestLookbackFor_TableValues tests the per-interval lookback table
func TestLookbackFor_TableValues(t *testing.T) {
	cfg := NewScanConfig("BTCUSDT", "1h")

	assert.Equal(t, 240, cfg.LookbackFor("1m"))
	assert.Equal(t, 288, cfg.LookbackFor("5m"))
	assert.Equal(t, 192, cfg.LookbackFor("15m"))
	assert.Equal(t, 160, cfg.LookbackFor("30m"))
	assert.Equal(t, 168, cfg.LookbackFor("1h"))
	assert.Equal(t, 180, cfg.LookbackFor("4h"))
	assert.Equal(t, 90, cfg.LookbackFor("1d"))
}

// TestLookbackFor_UnknownIntervalFallsBack tests the fixed fallback for
// timeframes missing from the table
func TestLookbackFor_UnknownIntervalFallsBack(t *testing.T) {
	cfg := NewScanConfig("BTCUSDT", "2h")

	assert.Equal(t, DefaultLookback, cfg.LookbackFor("2h"))
	assert.Equal(t, DefaultLookback, cfg.LookbackFor("3d"))
	assert.Equal(t, DefaultLookback, cfg.LookbackFor(""))
}

// TestLookbackFor_CustomTable tests that an explicit table replaces the
// defaults entirely
func TestLookbackFor_CustomTable(t *testing.T) {
	cfg := NewScanConfig("BTCUSDT", "1h")
	cfg.LookbackByInterval = map[string]int{"1h": 24}

	assert.Equal(t, 24, cfg.LookbackFor("1h"))
	// Intervals absent from the custom table use the fixed fallback,
	// not the default table
	assert.Equal(t, DefaultLookback, cfg.LookbackFor("4h"))
}

// TestScanConfig_Validate tests the configuration bounds
func TestScanConfig_Validate(t *testing.T) {
	valid := NewScanConfig("BTCUSDT", "1h")
	assert.NoError(t, valid.Validate())

	noSymbol := valid
	noSymbol.Symbol = ""
	assert.Error(t, noSymbol.Validate())

	noInterval := valid
	noInterval.Interval = ""
	assert.Error(t, noInterval.Validate())

	badMultiplier := valid
	badMultiplier.ThresholdMultiplier = 0
	assert.Error(t, badMultiplier.Validate())

	badBase := valid
	badBase.BaseThreshold = -1
	assert.Error(t, badBase.Validate())

	badForward := valid
	badForward.MaxLookForward = 0
	assert.Error(t, badForward.Validate())
}
