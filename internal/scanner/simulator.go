package scanner

import "github.com/ducminhle1904/legend-candle-scanner/pkg/types"

// EntrySimulator scans forward from a legend candle for the first candle
// that crosses either price threshold.
type EntrySimulator struct {
	// MaxLookForward bounds the scan; candles past index+MaxLookForward
	// are never examined
	MaxLookForward int
}

// trigger is the raw outcome of a forward scan before formatting
type trigger struct {
	side   Side
	price  float64
	reason TriggerReason
	// count is the 1-based number of candles scanned, inclusive of the
	// triggering one
	count  int
	candle types.OHLCV
}

// scan walks candles at index+1 .. min(index+MaxLookForward, last) in
// order and returns the first threshold crossing, or nil when nothing
// triggers inside the window. The upward check runs first on each candle,
// so when both thresholds are met on the same candle the LONG wins.
func (s EntrySimulator) scan(candles []types.OHLCV, index int, upward, downward float64) *trigger {
	last := len(candles) - 1
	end := index + s.MaxLookForward
	if end > last {
		end = last
	}

	for i := index + 1; i <= end; i++ {
		candle := candles[i]
		count := i - index

		if candle.High >= upward {
			return &trigger{
				side:   SideLong,
				price:  upward, // entry at the threshold, not the candle's high
				reason: ReasonUpwardMet,
				count:  count,
				candle: candle,
			}
		}

		if candle.Low <= downward {
			return &trigger{
				side:   SideShort,
				price:  downward,
				reason: ReasonDownwardMet,
				count:  count,
				candle: candle,
			}
		}
	}

	return nil
}
