package scanner

import (
	"strconv"
	"time"

	"github.com/ducminhle1904/legend-candle-scanner/internal/config"
	"github.com/ducminhle1904/legend-candle-scanner/pkg/types"
)

// Side is the direction of a simulated entry
type Side string

const (
	SideLong  Side = "LONG"
	SideShort Side = "SHORT"
)

// TriggerReason records which threshold the forward candle crossed
type TriggerReason string

const (
	ReasonUpwardMet   TriggerReason = "upward_threshold_met"
	ReasonDownwardMet TriggerReason = "downward_threshold_met"
)

// CandleSnapshot is a candle formatted to the symbol's display precision.
// Prices use the price precision, volume the quantity precision.
type CandleSnapshot struct {
	OpenTime time.Time `json:"open_time"`
	Open     string    `json:"open"`
	High     string    `json:"high"`
	Low      string    `json:"low"`
	Close    string    `json:"close"`
	Volume   string    `json:"volume"`
}

// Entry is the outcome of the forward scan from one legend candle
type Entry struct {
	Side                Side           `json:"side"`
	Price               float64        `json:"price"`
	PriceFormatted      string         `json:"price_formatted"`
	Reason              TriggerReason  `json:"reason"`
	CandlesUntilThreshold int          `json:"candles_until_threshold"`
	Time                time.Time      `json:"time"`
	Candle              CandleSnapshot `json:"candle"`
}

// ThresholdResult is one detected legend candle with its sized thresholds
// and the simulated entry, if any. Created once, never mutated.
type ThresholdResult struct {
	LegendCandleNo     int            `json:"Legend_Candle_no"`
	Time               time.Time      `json:"time"`
	AverageMove        float64        `json:"average_move_pct"`
	DynamicThreshold   float64        `json:"dynamic_threshold_pct"`
	UpwardThreshold    float64        `json:"upward_threshold"`
	DownwardThreshold  float64        `json:"downward_threshold"`
	UpwardFormatted    string         `json:"upward_threshold_formatted"`
	DownwardFormatted  string         `json:"downward_threshold_formatted"`
	AboveBaseThreshold bool           `json:"above_base_threshold"`
	Candle             CandleSnapshot `json:"candle"`
	Entry              *Entry         `json:"entry,omitempty"`
	Success            bool           `json:"success"`
}

// RunStats are the aggregate counters of one scan run. They are derived
// entirely from the result list and can be recomputed at any time.
type RunStats struct {
	TotalCandles      int     `json:"total_candles"`
	LegendCandles     int     `json:"legend_candles"`
	SuccessfulEntries int     `json:"successful_entries"`
	SuccessRate       float64 `json:"success_rate"`
}

// ScanReport is the serializable output of one scan run
type ScanReport struct {
	Symbol     string            `json:"symbol"`
	Interval   string            `json:"interval"`
	SymbolInfo types.SymbolInfo  `json:"symbol_info"`
	Config     config.ScanConfig `json:"config"`
	Results    []ThresholdResult `json:"results"`
	Stats      RunStats          `json:"stats"`
}

// ComputeStats rebuilds run statistics from a result list. totalCandles is
// the number of candles the scan considered.
func ComputeStats(results []ThresholdResult, totalCandles int) RunStats {
	stats := RunStats{
		TotalCandles:  totalCandles,
		LegendCandles: len(results),
	}

	for _, r := range results {
		if r.Success {
			stats.SuccessfulEntries++
		}
	}

	// 0 when no legend candles, never NaN
	if stats.LegendCandles > 0 {
		stats.SuccessRate = float64(stats.SuccessfulEntries) / float64(stats.LegendCandles)
	}

	return stats
}

// FormatPrice renders a price at the given decimal precision
func FormatPrice(value float64, precision int) string {
	if precision < 0 {
		precision = 0
	}
	return strconv.FormatFloat(value, 'f', precision, 64)
}

// Snapshot formats a candle with the symbol's precision metadata
func Snapshot(candle types.OHLCV, info types.SymbolInfo) CandleSnapshot {
	return CandleSnapshot{
		OpenTime: candle.OpenTime,
		Open:     FormatPrice(candle.Open, info.PricePrecision),
		High:     FormatPrice(candle.High, info.PricePrecision),
		Low:      FormatPrice(candle.Low, info.PricePrecision),
		Close:    FormatPrice(candle.Close, info.PricePrecision),
		Volume:   FormatPrice(candle.Volume, info.QuantityPrecision),
	}
}
