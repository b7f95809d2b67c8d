package data

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ducminhle1904/legend-candle-scanner/pkg/types"
)

func hourlySeries(hours int) []types.OHLCV {
	series := make([]types.OHLCV, hours)
	for i := range series {
		series[i] = candleAt(i, 100, 101, 99, 100.5)
	}
	return series
}

// TestFilterByDateRange_Inclusive tests that both boundary candles survive
func TestFilterByDateRange_Inclusive(t *testing.T) {
	filter := NewDefaultDataFilter()
	series := hourlySeries(10)

	start := series[2].OpenTime
	end := series[6].OpenTime

	filtered := filter.FilterByDateRange(series, start, end)

	assert.Len(t, filtered, 5)
	assert.Equal(t, start, filtered[0].OpenTime)
	assert.Equal(t, end, filtered[len(filtered)-1].OpenTime)
}

// TestFilterByDateRange_Empty tests the empty-input passthrough
func TestFilterByDateRange_Empty(t *testing.T) {
	filter := NewDefaultDataFilter()

	assert.Empty(t, filter.FilterByDateRange(nil, time.Now(), time.Now()))
}

// TestFilterByPeriod tests the trailing window anchored at the latest candle
func TestFilterByPeriod(t *testing.T) {
	filter := NewDefaultDataFilter()
	series := hourlySeries(48)

	filtered := filter.FilterByPeriod(series, 24*time.Hour)

	// 24h back from the newest candle, cutoff inclusive
	assert.Len(t, filtered, 25)
	assert.Equal(t, series[len(series)-1].OpenTime, filtered[len(filtered)-1].OpenTime)

	// Non-positive periods are a no-op
	assert.Len(t, filter.FilterByPeriod(series, 0), 48)
}

// TestValidateTimeSequence tests ordering and duplicate detection
func TestValidateTimeSequence(t *testing.T) {
	filter := NewDefaultDataFilter()

	assert.NoError(t, filter.ValidateTimeSequence(nil))
	assert.NoError(t, filter.ValidateTimeSequence(hourlySeries(5)))

	outOfOrder := []types.OHLCV{candleAt(3, 100, 101, 99, 100), candleAt(1, 100, 101, 99, 100)}
	assert.Error(t, filter.ValidateTimeSequence(outOfOrder))

	duplicated := []types.OHLCV{candleAt(2, 100, 101, 99, 100), candleAt(2, 100, 101, 99, 100)}
	assert.Error(t, filter.ValidateTimeSequence(duplicated))
}

// TestSortByOpenTime tests sorting without mutating the input
func TestSortByOpenTime(t *testing.T) {
	filter := NewDefaultDataFilter()

	series := []types.OHLCV{
		candleAt(5, 100, 101, 99, 100),
		candleAt(1, 100, 101, 99, 100),
		candleAt(3, 100, 101, 99, 100),
	}

	sorted := filter.SortByOpenTime(series)

	assert.NoError(t, filter.ValidateTimeSequence(sorted))
	// Original order untouched
	assert.True(t, series[0].OpenTime.After(series[1].OpenTime))
}

// TestRemoveDuplicates tests first-occurrence deduplication
func TestRemoveDuplicates(t *testing.T) {
	filter := NewDefaultDataFilter()

	series := []types.OHLCV{
		candleAt(0, 100, 101, 99, 100),
		candleAt(0, 200, 201, 199, 200), // same open time, later occurrence
		candleAt(1, 100, 101, 99, 100),
	}

	deduped := filter.RemoveDuplicates(series)

	assert.Len(t, deduped, 2)
	assert.Equal(t, 100.0, deduped[0].Open)
}

// TestParseTrailingPeriod tests the day-suffixed period notation
func TestParseTrailingPeriod(t *testing.T) {
	period, ok := ParseTrailingPeriod("30d")
	assert.True(t, ok)
	assert.Equal(t, 30*24*time.Hour, period)

	period, ok = ParseTrailingPeriod(" 7D ")
	assert.True(t, ok)
	assert.Equal(t, 7*24*time.Hour, period)

	for _, bad := range []string{"", "d", "30", "30h", "-5d", "0d", "xd"} {
		_, ok := ParseTrailingPeriod(bad)
		assert.False(t, ok, "expected %q to be rejected", bad)
	}
}
