package reporting

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/ducminhle1904/legend-candle-scanner/internal/scanner"
)

// maxConsoleRows caps the per-result table so very long scans stay readable
const maxConsoleRows = 30

// DefaultConsoleReporter implements console output for scan reports
type DefaultConsoleReporter struct{}

// NewDefaultConsoleReporter creates a new console reporter
func NewDefaultConsoleReporter() *DefaultConsoleReporter {
	return &DefaultConsoleReporter{}
}

// OutputReport prints a scan report summary and the most recent legend
// candles to the console
func (r *DefaultConsoleReporter) OutputReport(report *scanner.ScanReport) {
	fmt.Println("\n" + strings.Repeat("=", 60))
	fmt.Printf("🕯️  LEGEND CANDLE SCAN — %s %s\n", report.Symbol, report.Interval)
	fmt.Println(strings.Repeat("=", 60))

	fmt.Printf("📊 Candles Scanned:     %d\n", report.Stats.TotalCandles)
	fmt.Printf("🕯️  Legend Candles:      %d\n", report.Stats.LegendCandles)
	fmt.Printf("✅ Successful Entries:  %d\n", report.Stats.SuccessfulEntries)
	fmt.Printf("🎯 Success Rate:        %.2f%%\n", report.Stats.SuccessRate*100)
	fmt.Printf("🔢 Price Precision:     %d decimals\n", report.SymbolInfo.PricePrecision)

	if len(report.Results) == 0 {
		fmt.Println("\nNo legend candles detected (series shorter than lookback?)")
		return
	}

	r.renderResultsTable(report)
}

func (r *DefaultConsoleReporter) renderResultsTable(report *scanner.ScanReport) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"#", "Time", "Close", "Threshold %", "Upward", "Downward", "Entry", "Price", "Candles", "Advisory"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Name: "Threshold %", Align: text.AlignRight},
		{Name: "Upward", Align: text.AlignRight},
		{Name: "Downward", Align: text.AlignRight},
		{Name: "Price", Align: text.AlignRight},
		{Name: "Candles", Align: text.AlignRight},
	})

	results := report.Results
	if len(results) > maxConsoleRows {
		fmt.Printf("\nShowing last %d of %d results:\n", maxConsoleRows, len(results))
		results = results[len(results)-maxConsoleRows:]
	}

	for _, res := range results {
		entrySide := "-"
		entryPrice := "-"
		entryCandles := "-"
		if res.Entry != nil {
			entrySide = string(res.Entry.Side)
			entryPrice = res.Entry.PriceFormatted
			entryCandles = fmt.Sprintf("%d", res.Entry.CandlesUntilThreshold)
		}

		advisory := ""
		if res.AboveBaseThreshold {
			advisory = "✓"
		}

		t.AppendRow(table.Row{
			res.LegendCandleNo,
			res.Time.Format("2006-01-02 15:04"),
			res.Candle.Close,
			fmt.Sprintf("%.4f", res.DynamicThreshold),
			res.UpwardFormatted,
			res.DownwardFormatted,
			entrySide,
			entryPrice,
			entryCandles,
			advisory,
		})
	}

	t.Render()
}

// OutputBatchSummary prints one row per completed batch job
func (r *DefaultConsoleReporter) OutputBatchSummary(results []scanner.ScanJobResult) {
	fmt.Println("\n" + strings.Repeat("=", 60))
	fmt.Println("📊 BATCH SCAN SUMMARY")
	fmt.Println(strings.Repeat("=", 60))

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Symbol", "Interval", "Candles", "Legends", "Entries", "Success %", "Duration", "Status"})

	for _, res := range results {
		if res.Error != nil {
			t.AppendRow(table.Row{
				res.Config.Symbol, res.Config.Interval,
				"-", "-", "-", "-", "-",
				fmt.Sprintf("ERROR: %v", res.Error),
			})
			continue
		}

		stats := res.Report.Stats
		t.AppendRow(table.Row{
			res.Config.Symbol, res.Config.Interval,
			stats.TotalCandles, stats.LegendCandles, stats.SuccessfulEntries,
			fmt.Sprintf("%.2f", stats.SuccessRate*100),
			res.Duration.Round(time.Millisecond).String(),
			"ok",
		})
	}

	t.Render()
}

// OutputConsole is a package-level convenience
func OutputConsole(report *scanner.ScanReport) {
	reporter := NewDefaultConsoleReporter()
	reporter.OutputReport(report)
}
