package scanner

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ducminhle1904/legend-candle-scanner/internal/config"
	datamanager "github.com/ducminhle1904/legend-candle-scanner/pkg/data"
	"github.com/ducminhle1904/legend-candle-scanner/pkg/types"
)

// writeCandleFixture writes a loadable candles.csv under the locator's
// expected directory layout
func writeCandleFixture(t *testing.T, dataRoot, symbol string, rows int) {
	t.Helper()

	dir := filepath.Join(dataRoot, "bybit", "linear", symbol, "60")
	assert.NoError(t, os.MkdirAll(dir, 0755))

	content := "open_time,open,high,low,close,volume,close_time,quote_volume\n"
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < rows; i++ {
		openTime := base.Add(time.Duration(i) * time.Hour)
		closeTime := openTime.Add(time.Hour - time.Second)
		content += fmt.Sprintf("%s,100,101,99,100.5,1000,%s,100500\n",
			openTime.Format("2006-01-02 15:04:05"), closeTime.Format("2006-01-02 15:04:05"))
	}

	path := filepath.Join(dir, "candles.csv")
	assert.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func staticInfoFor(symbol string) (types.SymbolInfo, error) {
	return types.SymbolInfo{Symbol: symbol, PricePrecision: 2, QuantityPrecision: 4}, nil
}

// TestWorkerPool_ProcessesAllJobs tests that every submitted job produces
// exactly one result
func TestWorkerPool_ProcessesAllJobs(t *testing.T) {
	pool := NewWorkerPool(2, 8)
	pool.Start()

	series := make([]types.OHLCV, 10)
	for i := range series {
		series[i] = types.OHLCV{Open: 100, High: 101, Low: 99, Close: 100.5}
	}
	series = stampSeries(series)

	jobCount := 3
	for i := 0; i < jobCount; i++ {
		job := ScanJob{
			ID:         fmt.Sprintf("job_%d", i),
			Config:     testScanConfig(3),
			Data:       series,
			SymbolInfo: testSymbolInfo(),
		}
		assert.NoError(t, pool.SubmitJob(job))
	}

	seen := map[string]bool{}
	for i := 0; i < jobCount; i++ {
		res := <-pool.GetResults()
		assert.NoError(t, res.Error)
		assert.NotNil(t, res.Report)
		assert.Len(t, res.Report.Results, 7)
		seen[res.ID] = true
	}
	assert.Len(t, seen, jobCount)

	pool.Stop()
}

// TestBatchProcessor_ErrorIsolation tests that a missing data file fails
// its own job without affecting the others
func TestBatchProcessor_ErrorIsolation(t *testing.T) {
	dataRoot := t.TempDir()
	writeCandleFixture(t, dataRoot, "BTCUSDT", 12)

	provider := datamanager.NewCSVProvider()
	processor := NewBatchProcessor(2, 4, provider, dataRoot, "bybit")

	good := testScanConfig(3)
	bad := testScanConfig(3)
	bad.Symbol = "ETHUSDT" // no fixture written for it

	results := processor.ProcessBatch([]config.ScanConfig{good, bad}, staticInfoFor)
	assert.Len(t, results, 2)

	bySymbol := map[string]ScanJobResult{}
	for _, res := range results {
		bySymbol[res.Config.Symbol] = res
	}

	assert.NoError(t, bySymbol["BTCUSDT"].Error)
	assert.NotNil(t, bySymbol["BTCUSDT"].Report)
	assert.Equal(t, 12, bySymbol["BTCUSDT"].Report.Stats.TotalCandles)

	assert.Error(t, bySymbol["ETHUSDT"].Error)
	assert.Nil(t, bySymbol["ETHUSDT"].Report)
}

// TestBatchProcessor_RejectsMalformedSeries tests that an unordered or
// duplicated series fails its job at the ingestion boundary instead of
// being scanned
func TestBatchProcessor_RejectsMalformedSeries(t *testing.T) {
	dataRoot := t.TempDir()

	dir := filepath.Join(dataRoot, "bybit", "linear", "BTCUSDT", "60")
	assert.NoError(t, os.MkdirAll(dir, 0755))

	// Hour 5 first, then ascending rows with hour 2 appearing twice
	content := "open_time,open,high,low,close,volume\n" +
		"2024-01-01 05:00:00,100,101,99,100.5,1000\n" +
		"2024-01-01 01:00:00,100,101,99,100.5,1000\n" +
		"2024-01-01 02:00:00,100,101,99,100.5,1000\n" +
		"2024-01-01 02:00:00,100,101,99,100.5,1000\n" +
		"2024-01-01 03:00:00,100,101,99,100.5,1000\n" +
		"2024-01-01 04:00:00,100,101,99,100.5,1000\n"
	assert.NoError(t, os.WriteFile(filepath.Join(dir, "candles.csv"), []byte(content), 0644))

	processor := NewBatchProcessor(1, 2, datamanager.NewCSVProvider(), dataRoot, "bybit")

	results := processor.ProcessBatch([]config.ScanConfig{testScanConfig(3)}, staticInfoFor)

	assert.Len(t, results, 1)
	assert.Error(t, results[0].Error)
	assert.Nil(t, results[0].Report)
}

// TestBatchProcessor_SeriesFilterApplied tests that an installed filter
// trims the series before scanning
func TestBatchProcessor_SeriesFilterApplied(t *testing.T) {
	dataRoot := t.TempDir()
	writeCandleFixture(t, dataRoot, "BTCUSDT", 12)

	provider := datamanager.NewCSVProvider()
	processor := NewBatchProcessor(1, 2, provider, dataRoot, "bybit")
	processor.SetSeriesFilter(func(data []types.OHLCV) []types.OHLCV {
		if len(data) > 8 {
			return data[:8]
		}
		return data
	})

	results := processor.ProcessBatch([]config.ScanConfig{testScanConfig(3)}, staticInfoFor)
	assert.Len(t, results, 1)
	assert.NoError(t, results[0].Error)
	assert.Equal(t, 8, results[0].Report.Stats.TotalCandles)
}

// TestProgressTracker tests completion accounting
func TestProgressTracker(t *testing.T) {
	tracker := NewProgressTracker(4)

	tracker.Increment()
	tracker.Increment()

	completed, total, progress, elapsed := tracker.GetProgress()
	assert.Equal(t, 2, completed)
	assert.Equal(t, 4, total)
	assert.Equal(t, 50.0, progress)
	assert.GreaterOrEqual(t, elapsed, time.Duration(0))
}
