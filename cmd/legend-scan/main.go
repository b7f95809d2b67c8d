package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/ducminhle1904/legend-candle-scanner/internal/config"
	"github.com/ducminhle1904/legend-candle-scanner/internal/exchange/bybit"
	"github.com/ducminhle1904/legend-candle-scanner/internal/logger"
	"github.com/ducminhle1904/legend-candle-scanner/internal/monitoring"
	"github.com/ducminhle1904/legend-candle-scanner/internal/scanner"
	datamanager "github.com/ducminhle1904/legend-candle-scanner/pkg/data"
	"github.com/ducminhle1904/legend-candle-scanner/pkg/reporting"
	"github.com/ducminhle1904/legend-candle-scanner/pkg/types"
)

const (
	AppName    = "Legend Candle Scanner"
	AppVersion = "1.2.0"
)

func main() {
	flags := NewScanFlags()
	flag.Parse()

	if *flags.ShowVersion {
		fmt.Printf("%s v%s\n", AppName, AppVersion)
		return
	}

	if *flags.ShowHelp {
		printUsageHelp()
		return
	}

	if err := ValidateScanFlags(flags); err != nil {
		log.Fatalf("❌ Flag validation error: %v", err)
	}

	printHeader()
	loadEnvironment(*flags.EnvFile)

	if *flags.MetricsAddr != "" {
		startMetricsServer(*flags.MetricsAddr)
	}

	seriesFilter, err := buildSeriesFilter(flags)
	if err != nil {
		log.Fatalf("❌ %v", err)
	}

	configs, err := buildConfigs(flags)
	if err != nil {
		log.Fatalf("❌ Configuration error: %v", err)
	}

	infoFor := buildSymbolInfoResolver(flags)

	if len(configs) == 1 {
		runSingleScan(configs[0], flags, seriesFilter, infoFor)
		return
	}

	runBatchScan(configs, flags, seriesFilter, infoFor)
}

func printHeader() {
	fmt.Printf("🕯️  %s v%s\n", strings.ToUpper(AppName), AppVersion)
	fmt.Printf("%s\n\n", strings.Repeat("=", 50))
}

func printUsageHelp() {
	fmt.Printf("%s v%s - Legend candle detection and entry simulation\n\n", AppName, AppVersion)
	fmt.Printf("USAGE:\n  %s [OPTIONS]\n\n", filepath.Base(flag.CommandLine.Name()))
	PrintUsageExamples()
	flag.PrintDefaults()
}

func loadEnvironment(envFile string) {
	if err := godotenv.Load(envFile); err != nil {
		log.Printf("⚠️  Could not load %s (%v)", envFile, err)
	}
}

func startMetricsServer(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", monitoring.NewMetricsHandler())
	go func() {
		if err := http.ListenAndServe(addr, mux); err != nil {
			log.Printf("⚠️  Metrics server stopped: %v", err)
		}
	}()
	fmt.Printf("📈 Metrics available at http://%s/metrics\n\n", addr)
}

// buildConfigs expands the symbol/interval lists into one ScanConfig per
// combination, applying flag overrides on top of env-backed defaults
func buildConfigs(flags *ScanFlags) ([]config.ScanConfig, error) {
	var configs []config.ScanConfig

	for _, symbol := range flags.SymbolList() {
		for _, interval := range flags.IntervalList() {
			cfg := config.NewScanConfig(symbol, interval)

			if *flags.Multiplier > 0 {
				cfg.ThresholdMultiplier = *flags.Multiplier
			}
			if *flags.BaseThreshold > 0 {
				cfg.BaseThreshold = *flags.BaseThreshold
			}
			if *flags.MaxLookForward > 0 {
				cfg.MaxLookForward = *flags.MaxLookForward
			}
			if *flags.Lookback > 0 {
				cfg.LookbackByInterval = map[string]int{interval: *flags.Lookback}
			}

			if err := cfg.Validate(); err != nil {
				return nil, err
			}

			configs = append(configs, cfg)
		}
	}

	printConfigSummary(configs[0], len(configs))
	return configs, nil
}

func printConfigSummary(cfg config.ScanConfig, combos int) {
	fmt.Printf("📊 Scan Configuration\n")
	fmt.Printf("   Combinations: %d\n", combos)
	fmt.Printf("   Threshold Multiplier: %.2fx\n", cfg.ThresholdMultiplier)
	fmt.Printf("   Base Threshold (advisory): %.2fx\n", cfg.BaseThreshold)
	fmt.Printf("   Max Look-Forward: %d candles\n", cfg.MaxLookForward)
	fmt.Printf("   Lookback (%s): %d candles\n\n", cfg.Interval, cfg.LookbackFor(cfg.Interval))
}

// buildSeriesFilter assembles the optional date-range / trailing-period trim
func buildSeriesFilter(flags *ScanFlags) (func([]types.OHLCV) []types.OHLCV, error) {
	filter := datamanager.NewDefaultDataFilter()

	var start, end time.Time
	if *flags.StartDate != "" {
		parsed, err := time.Parse("2006-01-02", *flags.StartDate)
		if err != nil {
			return nil, fmt.Errorf("invalid start date: %v", err)
		}
		start = parsed
	}
	if *flags.EndDate != "" {
		parsed, err := time.Parse("2006-01-02", *flags.EndDate)
		if err != nil {
			return nil, fmt.Errorf("invalid end date: %v", err)
		}
		end = parsed.Add(24*time.Hour - time.Nanosecond)
	}

	var period time.Duration
	if *flags.Period != "" {
		parsed, ok := datamanager.ParseTrailingPeriod(*flags.Period)
		if !ok {
			return nil, fmt.Errorf("invalid period format: %s (use 7d, 30d, 180d, 365d)", *flags.Period)
		}
		period = parsed
	}

	if start.IsZero() && end.IsZero() && period == 0 {
		return nil, nil
	}

	return func(data []types.OHLCV) []types.OHLCV {
		if !start.IsZero() || !end.IsZero() {
			rangeStart := start
			rangeEnd := end
			if rangeEnd.IsZero() {
				rangeEnd = time.Now()
			}
			data = filter.FilterByDateRange(data, rangeStart, rangeEnd)
		}
		if period > 0 {
			data = filter.FilterByPeriod(data, period)
		}
		return data
	}, nil
}

// buildSymbolInfoResolver returns the precision lookup: static values in
// offline mode, Bybit instruments-info otherwise
func buildSymbolInfoResolver(flags *ScanFlags) func(symbol string) (types.SymbolInfo, error) {
	if *flags.Offline {
		price, qty := *flags.PricePrecision, *flags.QtyPrecision
		return func(symbol string) (types.SymbolInfo, error) {
			return bybit.StaticSymbolInfo(symbol, price, qty), nil
		}
	}

	client := bybit.NewClient(bybit.Config{})
	provider := bybit.NewSymbolInfoProvider(client, *flags.Category)
	return func(symbol string) (types.SymbolInfo, error) {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return provider.GetSymbolInfo(ctx, symbol)
	}
}

func runSingleScan(cfg config.ScanConfig, flags *ScanFlags,
	seriesFilter func([]types.OHLCV) []types.OHLCV,
	infoFor func(symbol string) (types.SymbolInfo, error)) {

	fmt.Printf("🚀 Scanning %s %s\n\n", cfg.Symbol, cfg.Interval)

	dataPath := *flags.DataFile
	if dataPath == "" {
		dataPath = datamanager.FindDataFile(*flags.DataRoot, *flags.Exchange, cfg.Symbol, cfg.Interval)
		if dataPath == "" {
			log.Fatalf("❌ No data file found for %s %s\n"+
				"💡 Expected structure: %s/%s/{category}/%s/{interval}/candles.csv",
				cfg.Symbol, cfg.Interval, *flags.DataRoot, *flags.Exchange, cfg.Symbol)
		}
	}

	provider := datamanager.NewCachedProvider(datamanager.NewCSVProvider())
	series, err := provider.LoadData(dataPath)
	if err != nil {
		log.Fatalf("❌ Data load failed: %v", err)
	}

	if err := provider.ValidateData(series); err != nil {
		log.Fatalf("❌ Data validation failed: %v", err)
	}

	if seriesFilter != nil {
		series = seriesFilter(series)
	}

	info, err := infoFor(cfg.Symbol)
	if err != nil {
		log.Fatalf("❌ Symbol metadata lookup failed: %v", err)
	}

	engine := scanner.NewEngine(cfg)
	engine.SetSymbolInfo(info)

	runLog, err := logger.NewLogger(cfg.Symbol, cfg.Interval)
	if err != nil {
		log.Printf("⚠️  Diagnostics logger unavailable: %v", err)
	} else {
		engine.SetDiagnostics(runLog)
		defer runLog.Close()
	}

	started := time.Now()
	report, err := engine.Run(context.Background(), series)
	if err != nil {
		monitoring.RecordScanError("engine")
		log.Fatalf("❌ Scan failed: %v", err)
	}
	duration := time.Since(started)

	monitoring.RecordScan(cfg.Symbol, cfg.Interval, duration)
	monitoring.RecordLegendCandles(cfg.Symbol, cfg.Interval, report.Stats.LegendCandles)

	if runLog != nil {
		for _, res := range report.Results {
			runLog.LogLegendCandle(res.LegendCandleNo, res.Time, res.DynamicThreshold,
				res.UpwardFormatted, res.DownwardFormatted)
		}
		runLog.LogScanSummary(report.Stats.TotalCandles, report.Stats.LegendCandles,
			report.Stats.SuccessfulEntries, report.Stats.SuccessRate)
	}

	reporting.OutputConsole(report)

	if !*flags.ConsoleOnly {
		saveReports(report)
	}
}

func runBatchScan(configs []config.ScanConfig, flags *ScanFlags,
	seriesFilter func([]types.OHLCV) []types.OHLCV,
	infoFor func(symbol string) (types.SymbolInfo, error)) {

	fmt.Printf("🚀 Batch scanning %d combinations\n\n", len(configs))

	provider := datamanager.NewCachedProvider(datamanager.NewCSVProvider())
	processor := scanner.NewBatchProcessor(*flags.Workers, len(configs), provider, *flags.DataRoot, *flags.Exchange)
	if seriesFilter != nil {
		processor.SetSeriesFilter(seriesFilter)
	}

	results := processor.ProcessBatch(configs, infoFor)

	reporter := reporting.NewDefaultConsoleReporter()
	reporter.OutputBatchSummary(results)

	if !*flags.ConsoleOnly {
		for _, res := range results {
			if res.Error != nil || res.Report == nil {
				continue
			}
			saveReports(res.Report)
		}
	}
}

func saveReports(report *scanner.ScanReport) {
	outputDir := reporting.DefaultOutputDir(report.Symbol, report.Interval)

	jsonPath := filepath.Join(outputDir, "scan_report.json")
	if err := reporting.WriteReportJSON(report, jsonPath); err != nil {
		log.Printf("⚠️  Failed to save JSON report: %v", err)
	} else {
		fmt.Printf("💾 Report saved: %s\n", jsonPath)
	}

	csvPath := filepath.Join(outputDir, "legend_candles.csv")
	if err := reporting.WriteResultsCSV(report, csvPath); err != nil {
		log.Printf("⚠️  Failed to save CSV results: %v", err)
	}

	xlsxPath := filepath.Join(outputDir, "legend_candles.xlsx")
	if err := reporting.WriteReportXLSX(report, xlsxPath); err != nil {
		log.Printf("⚠️  Failed to save Excel report: %v", err)
	} else {
		fmt.Printf("💾 Workbook saved: %s\n", xlsxPath)
	}
}
