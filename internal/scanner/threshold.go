package scanner

import "github.com/ducminhle1904/legend-candle-scanner/pkg/types"

// AverageAbsMove returns the arithmetic mean of abs(close-open)/open*100
// over the window. Callers guarantee open != 0; candles with a zero open
// are rejected at the ingestion boundary.
func AverageAbsMove(window []types.OHLCV) float64 {
	if len(window) == 0 {
		return 0
	}

	sum := 0.0
	for _, candle := range window {
		sum += absMovePercent(candle)
	}

	return sum / float64(len(window))
}

func absMovePercent(candle types.OHLCV) float64 {
	move := (candle.Close - candle.Open) / candle.Open * 100
	if move < 0 {
		move = -move
	}
	return move
}

// Evaluation is the threshold math for one candle position
type Evaluation struct {
	// AverageMove is the mean absolute percent move of the lookback window
	AverageMove float64

	// CurrentMove is the candle's own absolute percent move
	CurrentMove float64

	// DynamicThreshold is the primary multiplier-scaled percentage that
	// sizes the price thresholds
	DynamicThreshold float64

	// AdvisoryThreshold is the base-threshold-scaled percentage; it only
	// feeds the diagnostic flag below and never gates result emission
	AdvisoryThreshold float64

	// AboveBaseThreshold reports CurrentMove >= AdvisoryThreshold
	AboveBaseThreshold bool

	// Absolute price levels around the candle's close
	UpwardThreshold   float64
	DownwardThreshold float64
}

// Classifier sizes dynamic thresholds from recent volatility. Two scaled
// values are kept deliberately: the multiplier-based one drives the scan,
// the base-threshold one is an advisory check (see DESIGN.md).
type Classifier struct {
	ThresholdMultiplier float64
	BaseThreshold       float64
}

// Evaluate computes the threshold math for candle against its lookback
// window. Pure function, full float precision; rounding happens only when
// results are formatted.
func (c Classifier) Evaluate(window []types.OHLCV, candle types.OHLCV) Evaluation {
	avg := AverageAbsMove(window)
	dynamic := avg * c.ThresholdMultiplier
	advisory := avg * c.BaseThreshold
	current := absMovePercent(candle)

	thresholdValue := candle.Close * (dynamic / 100)

	return Evaluation{
		AverageMove:        avg,
		CurrentMove:        current,
		DynamicThreshold:   dynamic,
		AdvisoryThreshold:  advisory,
		AboveBaseThreshold: current >= advisory,
		UpwardThreshold:    candle.Close + thresholdValue,
		DownwardThreshold:  candle.Close - thresholdValue,
	}
}
