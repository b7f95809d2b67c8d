package data

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ducminhle1904/legend-candle-scanner/pkg/types"
)

// candleAt builds a candle offset by hours from a fixed base time
func candleAt(hour int, open, high, low, close float64) types.OHLCV {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return types.OHLCV{
		OpenTime: base.Add(time.Duration(hour) * time.Hour),
		Open:     open,
		High:     high,
		Low:      low,
		Close:    close,
		Volume:   1000,
	}
}

func writeTempCSV(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "candles.csv")
	assert.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// TestCSVProvider_LoadData tests loading the default downloader layout
func TestCSVProvider_LoadData(t *testing.T) {
	csv := `open_time,open,high,low,close,volume,close_time,quote_volume
2024-01-01 00:00:00,100,101,99,100.5,1000,2024-01-01 00:59:59,100500
2024-01-01 01:00:00,100.5,102,100,101.5,1200,2024-01-01 01:59:59,121800
`
	provider := NewCSVProvider()
	data, err := provider.LoadData(writeTempCSV(t, csv))

	assert.NoError(t, err)
	assert.Len(t, data, 2)

	first := data[0]
	assert.Equal(t, 100.0, first.Open)
	assert.Equal(t, 101.0, first.High)
	assert.Equal(t, 99.0, first.Low)
	assert.Equal(t, 100.5, first.Close)
	assert.Equal(t, 1000.0, first.Volume)
	assert.Equal(t, 100500.0, first.QuoteVolume)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), first.OpenTime)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 59, 59, 0, time.UTC), first.CloseTime)
}

// TestCSVProvider_LoadData_MissingFile tests that a missing file is an error
func TestCSVProvider_LoadData_MissingFile(t *testing.T) {
	provider := NewCSVProvider()

	data, err := provider.LoadData(filepath.Join(t.TempDir(), "nope.csv"))

	assert.Error(t, err)
	assert.Nil(t, data)
}

// TestCSVProvider_LoadData_SkipsBadRows tests that malformed rows are
// skipped rather than failing the load
func TestCSVProvider_LoadData_SkipsBadRows(t *testing.T) {
	csv := `open_time,open,high,low,close,volume,close_time,quote_volume
2024-01-01 00:00:00,100,101,99,100.5,1000,2024-01-01 00:59:59,100500
2024-01-01 01:00:00,not-a-number,102,100,101.5,1200,2024-01-01 01:59:59,121800
2024-01-01 02:00:00,100,99,100,100,1000,2024-01-01 02:59:59,100000
2024-01-01 03:00:00,-5,101,99,100,1000,2024-01-01 03:59:59,100000
2024-01-01 04:00:00,100,101,99,100.5,1000,2024-01-01 04:59:59,100500
`
	provider := NewCSVProvider()
	data, err := provider.LoadData(writeTempCSV(t, csv))

	assert.NoError(t, err)
	// bad price, high below open, negative open are all dropped
	assert.Len(t, data, 2)
}

// TestCSVProvider_LoadData_NoHeader tests that a headerless file loads
func TestCSVProvider_LoadData_NoHeader(t *testing.T) {
	csv := `2024-01-01 00:00:00,100,101,99,100.5,1000
2024-01-01 01:00:00,100.5,102,100,101.5,1200
`
	provider := NewCSVProvider()
	data, err := provider.LoadData(writeTempCSV(t, csv))

	assert.NoError(t, err)
	assert.Len(t, data, 2)
	// optional trailing columns simply stay zero
	assert.True(t, data[0].CloseTime.IsZero())
	assert.Equal(t, 0.0, data[0].QuoteVolume)
}

// TestCSVProvider_LoadData_ArchiveFormat tests epoch-millisecond archive
// dumps with the full raw column set
func TestCSVProvider_LoadData_ArchiveFormat(t *testing.T) {
	csv := `1704067200000,100,101,99,100.5,1000,1704070799999,100500,42,600,60300
1704070800000,100.5,102,100,101.5,1200,1704074399999,121800,55,700,71050
`
	provider := NewCSVProviderWithFormat(ArchiveCSVFormat)
	data, err := provider.LoadData(writeTempCSV(t, csv))

	assert.NoError(t, err)
	assert.Len(t, data, 2)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), data[0].OpenTime)
	assert.Equal(t, int64(42), data[0].TradeCount)
	assert.Equal(t, 600.0, data[0].TakerBuyVolume)
	assert.Equal(t, 60300.0, data[0].TakerBuyQuoteVolume)
}

// TestCSVProvider_ValidateData tests the series integrity checks
func TestCSVProvider_ValidateData(t *testing.T) {
	provider := NewCSVProvider()

	assert.Error(t, provider.ValidateData(nil))

	good := []types.OHLCV{
		candleAt(0, 100, 101, 99, 100.5),
		candleAt(1, 100.5, 102, 100, 101.5),
	}
	assert.NoError(t, provider.ValidateData(good))

	outOfOrder := []types.OHLCV{
		candleAt(1, 100, 101, 99, 100.5),
		candleAt(0, 100.5, 102, 100, 101.5),
	}
	assert.Error(t, provider.ValidateData(outOfOrder))

	duplicate := []types.OHLCV{
		candleAt(0, 100, 101, 99, 100.5),
		candleAt(0, 100.5, 102, 100, 101.5),
	}
	assert.Error(t, provider.ValidateData(duplicate))

	highBelowLow := []types.OHLCV{
		candleAt(0, 100, 98, 99, 100),
	}
	assert.Error(t, provider.ValidateData(highBelowLow))
}

// TestCachedProvider_LoadsOnce tests that a second load hits the cache
func TestCachedProvider_LoadsOnce(t *testing.T) {
	csv := `open_time,open,high,low,close,volume
2024-01-01 00:00:00,100,101,99,100.5,1000
`
	path := writeTempCSV(t, csv)

	cached := NewCachedProvider(NewCSVProvider())

	first, err := cached.LoadData(path)
	assert.NoError(t, err)
	assert.Len(t, first, 1)
	assert.Equal(t, 1, cached.CacheSize())

	// Remove the file: a cache hit must still serve the series
	assert.NoError(t, os.Remove(path))

	second, err := cached.LoadData(path)
	assert.NoError(t, err)
	assert.Equal(t, first, second)

	cached.ClearCache()
	_, err = cached.LoadData(path)
	assert.Error(t, err)
}
