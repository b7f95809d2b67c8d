package data

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/ducminhle1904/legend-candle-scanner/pkg/types"
)

// DefaultDataFilter implements DataFilter for common filtering operations
type DefaultDataFilter struct{}

// NewDefaultDataFilter creates a new default data filter
func NewDefaultDataFilter() *DefaultDataFilter {
	return &DefaultDataFilter{}
}

// FilterByPeriod filters data to the trailing period, anchored at the
// latest candle of the series
func (f *DefaultDataFilter) FilterByPeriod(data []types.OHLCV, period time.Duration) []types.OHLCV {
	if period <= 0 || len(data) == 0 {
		return data
	}

	latestTime := data[len(data)-1].OpenTime
	cutoffTime := latestTime.Add(-period)

	startIdx := 0
	for i, candle := range data {
		if !candle.OpenTime.Before(cutoffTime) {
			startIdx = i
			break
		}
	}

	return data[startIdx:]
}

// FilterByDateRange filters data to a specific date range (inclusive)
func (f *DefaultDataFilter) FilterByDateRange(data []types.OHLCV, start, end time.Time) []types.OHLCV {
	if len(data) == 0 {
		return data
	}

	var filtered []types.OHLCV

	for _, candle := range data {
		if !candle.OpenTime.Before(start) && !candle.OpenTime.After(end) {
			filtered = append(filtered, candle)
		}
	}

	return filtered
}

// ValidateTimeSequence ensures data is in chronological order with no
// duplicate timestamps
func (f *DefaultDataFilter) ValidateTimeSequence(data []types.OHLCV) error {
	if len(data) <= 1 {
		return nil
	}

	for i := 1; i < len(data); i++ {
		if data[i].OpenTime.Before(data[i-1].OpenTime) {
			return fmt.Errorf("data not in chronological order at index %d: %s comes after %s",
				i, data[i].OpenTime.Format(time.RFC3339), data[i-1].OpenTime.Format(time.RFC3339))
		}

		if data[i].OpenTime.Equal(data[i-1].OpenTime) {
			return fmt.Errorf("duplicate timestamp at index %d: %s",
				i, data[i].OpenTime.Format(time.RFC3339))
		}
	}

	return nil
}

// SortByOpenTime sorts data by open time ascending, without modifying the input
func (f *DefaultDataFilter) SortByOpenTime(data []types.OHLCV) []types.OHLCV {
	if len(data) <= 1 {
		return data
	}

	sorted := make([]types.OHLCV, len(data))
	copy(sorted, data)

	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].OpenTime.Before(sorted[j].OpenTime)
	})

	return sorted
}

// RemoveDuplicates removes duplicate open times, keeping the first occurrence
func (f *DefaultDataFilter) RemoveDuplicates(data []types.OHLCV) []types.OHLCV {
	if len(data) <= 1 {
		return data
	}

	var filtered []types.OHLCV
	seen := make(map[int64]bool)

	for _, candle := range data {
		timestamp := candle.OpenTime.UnixMilli()
		if !seen[timestamp] {
			seen[timestamp] = true
			filtered = append(filtered, candle)
		}
	}

	return filtered
}

// ParseTrailingPeriod parses period strings like "7d", "30d", "365d" into a duration
func ParseTrailingPeriod(period string) (time.Duration, bool) {
	period = strings.ToLower(strings.TrimSpace(period))
	if len(period) < 2 || !strings.HasSuffix(period, "d") {
		return 0, false
	}

	days, err := strconv.Atoi(period[:len(period)-1])
	if err != nil || days <= 0 {
		return 0, false
	}

	return time.Duration(days) * 24 * time.Hour, true
}
