package main

import (
	"flag"
	"fmt"
	"strings"
)

// ScanFlags holds all command line flags for the scanner CLI
type ScanFlags struct {
	// Target selection
	Symbol    *string
	Symbols   *string
	Interval  *string
	Intervals *string

	// Data source
	DataFile *string
	DataRoot *string
	Exchange *string
	Category *string

	// Scan parameters
	Multiplier     *float64
	BaseThreshold  *float64
	MaxLookForward *int
	Lookback       *int

	// Date filtering
	StartDate *string
	EndDate   *string
	Period    *string

	// Execution
	Workers     *int
	ConsoleOnly *bool
	Offline     *bool

	// Precision overrides for offline runs
	PricePrecision *int
	QtyPrecision   *int

	// Environment / monitoring
	EnvFile     *string
	MetricsAddr *string

	ShowVersion *bool
	ShowHelp    *bool
}

// NewScanFlags creates and registers all command line flags
func NewScanFlags() *ScanFlags {
	return &ScanFlags{
		Symbol:    flag.String("symbol", "BTCUSDT", "Trading symbol (e.g. BTCUSDT)"),
		Symbols:   flag.String("symbols", "", "Comma-separated list of symbols (overrides -symbol)"),
		Interval:  flag.String("interval", "1h", "Candle interval (1m, 5m, 15m, 30m, 1h, 4h, 1d)"),
		Intervals: flag.String("intervals", "", "Comma-separated list of intervals (overrides -interval)"),

		DataFile: flag.String("data", "", "Explicit candles.csv path (single symbol/interval only)"),
		DataRoot: flag.String("data-root", "data", "Root directory of downloaded candle data"),
		Exchange: flag.String("exchange", "bybit", "Exchange subdirectory under the data root"),
		Category: flag.String("category", "linear", "Market category for metadata lookup (spot, linear, inverse)"),

		Multiplier:     flag.Float64("multiplier", 0, "Threshold multiplier (0 = config default)"),
		BaseThreshold:  flag.Float64("base-threshold", 0, "Advisory base threshold (0 = config default)"),
		MaxLookForward: flag.Int("max-forward", 0, "Max candles scanned forward for an entry (0 = config default)"),
		Lookback:       flag.Int("lookback", 0, "Lookback window override (0 = per-interval table)"),

		StartDate: flag.String("start", "", "Start date filter (YYYY-MM-DD)"),
		EndDate:   flag.String("end", "", "End date filter (YYYY-MM-DD)"),
		Period:    flag.String("period", "", "Trailing period filter (7d, 30d, 180d, 365d)"),

		Workers:     flag.Int("workers", 0, "Worker count for batch mode (0 = NumCPU)"),
		ConsoleOnly: flag.Bool("console-only", false, "Skip writing report files"),
		Offline:     flag.Bool("offline", false, "Skip the exchange metadata lookup, use precision flags"),

		PricePrecision: flag.Int("price-precision", 2, "Price decimals for -offline runs"),
		QtyPrecision:   flag.Int("qty-precision", 4, "Quantity decimals for -offline runs"),

		EnvFile:     flag.String("env", ".env", "Environment file to load"),
		MetricsAddr: flag.String("metrics-addr", "", "Address for the Prometheus /metrics endpoint (empty = disabled)"),

		ShowVersion: flag.Bool("version", false, "Show version and exit"),
		ShowHelp:    flag.Bool("help", false, "Show usage help"),
	}
}

// ValidateScanFlags validates flag combinations before the run starts
func ValidateScanFlags(flags *ScanFlags) error {
	if *flags.Multiplier < 0 {
		return fmt.Errorf("multiplier cannot be negative")
	}
	if *flags.BaseThreshold < 0 {
		return fmt.Errorf("base threshold cannot be negative")
	}
	if *flags.MaxLookForward < 0 {
		return fmt.Errorf("max-forward cannot be negative")
	}
	if *flags.Lookback < 0 {
		return fmt.Errorf("lookback cannot be negative")
	}
	if *flags.PricePrecision < 0 || *flags.QtyPrecision < 0 {
		return fmt.Errorf("precision flags must be >= 0")
	}

	multiTarget := strings.Contains(*flags.Symbols, ",") || strings.Contains(*flags.Intervals, ",")
	if *flags.DataFile != "" && multiTarget {
		return fmt.Errorf("-data only applies to a single symbol/interval run")
	}

	return nil
}

// SymbolList resolves the effective symbol list
func (f *ScanFlags) SymbolList() []string {
	return splitList(*f.Symbols, *f.Symbol, strings.ToUpper)
}

// IntervalList resolves the effective interval list
func (f *ScanFlags) IntervalList() []string {
	return splitList(*f.Intervals, *f.Interval, strings.ToLower)
}

func splitList(multi, single string, normalize func(string) string) []string {
	if strings.TrimSpace(multi) == "" {
		return []string{normalize(strings.TrimSpace(single))}
	}

	var out []string
	for _, item := range strings.Split(multi, ",") {
		item = normalize(strings.TrimSpace(item))
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}

// PrintUsageExamples prints common invocations
func PrintUsageExamples() {
	fmt.Println("EXAMPLES:")
	fmt.Println("  legend-scan -symbol BTCUSDT -interval 1h")
	fmt.Println("  legend-scan -symbol ETHUSDT -interval 4h -multiplier 3 -max-forward 100")
	fmt.Println("  legend-scan -symbols BTCUSDT,ETHUSDT,SOLUSDT -intervals 1h,4h -workers 4")
	fmt.Println("  legend-scan -data data/bybit/linear/BTCUSDT/60/candles.csv -offline -price-precision 2")
	fmt.Println("  legend-scan -symbol BTCUSDT -interval 1d -period 365d -console-only")
	fmt.Println()
}
