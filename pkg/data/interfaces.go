package data

import (
	"time"

	"github.com/ducminhle1904/legend-candle-scanner/pkg/types"
)

// DataProvider interface for loading candle series from various sources
type DataProvider interface {
	// LoadData loads a candle series from the specified source
	LoadData(source string) ([]types.OHLCV, error)

	// ValidateData validates the integrity of the loaded series
	ValidateData(data []types.OHLCV) error

	// GetName returns the name of the data provider
	GetName() string
}

// DataCache interface for caching loaded series
type DataCache interface {
	// Get retrieves a series from cache if available
	Get(key string) ([]types.OHLCV, bool)

	// Set stores a series in cache
	Set(key string, data []types.OHLCV)

	// Clear removes all cached data
	Clear()

	// Size returns the number of cached entries
	Size() int
}

// DataFilter interface for filtering and transforming series
type DataFilter interface {
	// FilterByPeriod filters data to the trailing period
	FilterByPeriod(data []types.OHLCV, period time.Duration) []types.OHLCV

	// FilterByDateRange filters data to a specific date range
	FilterByDateRange(data []types.OHLCV, start, end time.Time) []types.OHLCV

	// ValidateTimeSequence ensures data is in chronological order
	ValidateTimeSequence(data []types.OHLCV) error
}

// CSVColumnMapping defines the column positions for different CSV formats.
// Optional columns (close time and the raw exchange extras) are marked
// absent with -1.
type CSVColumnMapping struct {
	OpenTimeCol  int
	OpenCol      int
	HighCol      int
	LowCol       int
	CloseCol     int
	VolumeCol    int
	CloseTimeCol int
	QuoteVolCol  int
	TradeCntCol  int
	TakerBuyCol  int
	TakerQuoteCol int
	MinColumns   int
	DateFormat   string
	EpochMillis  bool
}

// Predefined CSV formats
var (
	// DefaultCSVFormat matches the downloader output:
	// open_time,open,high,low,close,volume,close_time,quote_volume
	DefaultCSVFormat = CSVColumnMapping{
		OpenTimeCol:   0,
		OpenCol:       1,
		HighCol:       2,
		LowCol:        3,
		CloseCol:      4,
		VolumeCol:     5,
		CloseTimeCol:  6,
		QuoteVolCol:   7,
		TradeCntCol:   -1,
		TakerBuyCol:   -1,
		TakerQuoteCol: -1,
		MinColumns:    6,
		DateFormat:    "2006-01-02 15:04:05",
	}

	// ArchiveCSVFormat matches exchange archive dumps: epoch-millisecond
	// timestamps and the full raw column set.
	ArchiveCSVFormat = CSVColumnMapping{
		OpenTimeCol:   0,
		OpenCol:       1,
		HighCol:       2,
		LowCol:        3,
		CloseCol:      4,
		VolumeCol:     5,
		CloseTimeCol:  6,
		QuoteVolCol:   7,
		TradeCntCol:   8,
		TakerBuyCol:   9,
		TakerQuoteCol: 10,
		MinColumns:    6,
		EpochMillis:   true,
	}
)

// FileLocator interface for finding data files
type FileLocator interface {
	// FindDataFile attempts to locate data files for a specific exchange and symbol
	FindDataFile(dataRoot, exchange, symbol, interval string) string

	// ConvertIntervalToMinutes converts interval strings like "5m", "1h", "4h" to minute numbers
	ConvertIntervalToMinutes(interval string) string
}
