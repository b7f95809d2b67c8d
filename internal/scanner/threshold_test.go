package scanner

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ducminhle1904/legend-candle-scanner/pkg/types"
)

// TestAverageAbsMove_EmptyWindow tests that an empty window averages to zero
func TestAverageAbsMove_EmptyWindow(t *testing.T) {
	assert.Equal(t, 0.0, AverageAbsMove(nil))
	assert.Equal(t, 0.0, AverageAbsMove([]types.OHLCV{}))
}

// TestAverageAbsMove_KnownValues tests the mean absolute percent move
func TestAverageAbsMove_KnownValues(t *testing.T) {
	window := []types.OHLCV{
		{Open: 100, Close: 101}, // +1%
		{Open: 100, Close: 99},  // -1%, counted as 1%
		{Open: 200, Close: 204}, // +2%
	}

	avg := AverageAbsMove(window)
	assert.InDelta(t, (1.0+1.0+2.0)/3.0, avg, 1e-9)
}

// TestAverageAbsMove_NegativeMovesCountAbsolute tests that downward candles
// contribute their magnitude
func TestAverageAbsMove_NegativeMovesCountAbsolute(t *testing.T) {
	up := []types.OHLCV{{Open: 100, Close: 103}}
	down := []types.OHLCV{{Open: 100, Close: 97}}

	assert.InDelta(t, AverageAbsMove(up), AverageAbsMove(down), 1e-9)
}

// TestClassifier_Evaluate_ThresholdExactness tests that the price levels are
// derived exactly from the candle close and the dynamic threshold
func TestClassifier_Evaluate_ThresholdExactness(t *testing.T) {
	classifier := Classifier{ThresholdMultiplier: 2.0, BaseThreshold: 1.5}

	window := []types.OHLCV{
		{Open: 100, Close: 100.5},
		{Open: 100, Close: 100.5},
		{Open: 100, Close: 100.5},
	}
	candle := types.OHLCV{Open: 100, Close: 100, High: 100, Low: 100}

	eval := classifier.Evaluate(window, candle)

	assert.InDelta(t, 0.5, eval.AverageMove, 1e-9)
	assert.InDelta(t, 1.0, eval.DynamicThreshold, 1e-9)
	assert.InDelta(t, 0.75, eval.AdvisoryThreshold, 1e-9)

	// upward = close + close*dyn/100, downward mirrors it
	assert.InDelta(t, 101.0, eval.UpwardThreshold, 1e-9)
	assert.InDelta(t, 99.0, eval.DownwardThreshold, 1e-9)
}

// TestClassifier_Evaluate_AdvisoryFlagIndependent tests that the advisory
// flag reflects the candle's own move against the base-scaled threshold
func TestClassifier_Evaluate_AdvisoryFlagIndependent(t *testing.T) {
	classifier := Classifier{ThresholdMultiplier: 2.0, BaseThreshold: 1.5}

	window := []types.OHLCV{
		{Open: 100, Close: 101},
		{Open: 100, Close: 99},
	}

	quiet := classifier.Evaluate(window, types.OHLCV{Open: 100, Close: 100.1})
	assert.False(t, quiet.AboveBaseThreshold)

	loud := classifier.Evaluate(window, types.OHLCV{Open: 100, Close: 105})
	assert.True(t, loud.AboveBaseThreshold)

	// The price levels never depend on the advisory outcome
	assert.InDelta(t, quiet.DynamicThreshold, loud.DynamicThreshold, 1e-9)
}

// TestClassifier_Evaluate_ScalesWithMultiplier tests that a larger
// multiplier widens both price levels symmetrically
func TestClassifier_Evaluate_ScalesWithMultiplier(t *testing.T) {
	window := []types.OHLCV{{Open: 100, Close: 102}}
	candle := types.OHLCV{Open: 100, Close: 100}

	narrow := Classifier{ThresholdMultiplier: 1.0, BaseThreshold: 1.5}.Evaluate(window, candle)
	wide := Classifier{ThresholdMultiplier: 3.0, BaseThreshold: 1.5}.Evaluate(window, candle)

	assert.Greater(t, wide.UpwardThreshold, narrow.UpwardThreshold)
	assert.Less(t, wide.DownwardThreshold, narrow.DownwardThreshold)

	assert.InDelta(t, 100.0-narrow.DownwardThreshold, narrow.UpwardThreshold-100.0, 1e-9)
	assert.InDelta(t, 100.0-wide.DownwardThreshold, wide.UpwardThreshold-100.0, 1e-9)
}
