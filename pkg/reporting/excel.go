package reporting

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/ducminhle1904/legend-candle-scanner/internal/scanner"
)

// DefaultExcelReporter implements Excel output for scan reports
type DefaultExcelReporter struct{}

// NewDefaultExcelReporter creates a new Excel reporter
func NewDefaultExcelReporter() *DefaultExcelReporter {
	return &DefaultExcelReporter{}
}

// ExcelStyles holds the style IDs used across sheets
type ExcelStyles struct {
	HeaderStyle int
	PriceStyle  int
	PctStyle    int
}

// WriteReportXLSX writes a scan report workbook with a result sheet and a
// summary sheet
func (r *DefaultExcelReporter) WriteReportXLSX(report *scanner.ScanReport, path string) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	fx := excelize.NewFile()
	defer fx.Close()

	const resultsSheet = "Legend Candles"
	const summarySheet = "Summary"

	fx.SetSheetName(fx.GetSheetName(0), resultsSheet)
	fx.NewSheet(summarySheet)

	styles, err := r.createExcelStyles(fx)
	if err != nil {
		return err
	}

	if err := r.writeResultsSheet(fx, resultsSheet, report, styles); err != nil {
		return err
	}

	if err := r.writeSummarySheet(fx, summarySheet, report, styles); err != nil {
		return err
	}

	return fx.SaveAs(path)
}

func (r *DefaultExcelReporter) createExcelStyles(fx *excelize.File) (ExcelStyles, error) {
	var styles ExcelStyles
	var err error

	styles.HeaderStyle, err = fx.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Bold:   true,
			Size:   11,
			Color:  "FFFFFF",
			Family: "Calibri",
		},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"2F4F4F"},
			Pattern: 1,
		},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
	if err != nil {
		return styles, err
	}

	styles.PriceStyle, err = fx.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Horizontal: "right"},
	})
	if err != nil {
		return styles, err
	}

	styles.PctStyle, err = fx.NewStyle(&excelize.Style{
		NumFmt:    2, // two-decimal number
		Alignment: &excelize.Alignment{Horizontal: "right"},
	})

	return styles, err
}

func (r *DefaultExcelReporter) writeResultsSheet(fx *excelize.File, sheet string, report *scanner.ScanReport, styles ExcelStyles) error {
	headers := []string{
		"No", "Time", "Open", "High", "Low", "Close",
		"Avg Move %", "Threshold %", "Upward", "Downward", "Advisory",
		"Entry Side", "Entry Price", "Entry Reason", "Candles Until Trigger", "Entry Time", "Success",
	}

	for col, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		fx.SetCellValue(sheet, cell, header)
		fx.SetCellStyle(sheet, cell, cell, styles.HeaderStyle)
	}

	for i, res := range report.Results {
		row := i + 2
		values := []interface{}{
			res.LegendCandleNo,
			res.Time.Format("2006-01-02 15:04:05"),
			res.Candle.Open,
			res.Candle.High,
			res.Candle.Low,
			res.Candle.Close,
			res.AverageMove,
			res.DynamicThreshold,
			res.UpwardFormatted,
			res.DownwardFormatted,
			res.AboveBaseThreshold,
		}

		if res.Entry != nil {
			values = append(values,
				string(res.Entry.Side),
				res.Entry.PriceFormatted,
				string(res.Entry.Reason),
				res.Entry.CandlesUntilThreshold,
				res.Entry.Time.Format("2006-01-02 15:04:05"),
				res.Success,
			)
		} else {
			values = append(values, "", "", "", "", "", res.Success)
		}

		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			fx.SetCellValue(sheet, cell, value)
		}

		// Percent columns get the numeric style
		for _, col := range []int{7, 8} {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			fx.SetCellStyle(sheet, cell, cell, styles.PctStyle)
		}
	}

	fx.SetColWidth(sheet, "B", "B", 20)
	fx.SetColWidth(sheet, "P", "P", 20)

	return nil
}

func (r *DefaultExcelReporter) writeSummarySheet(fx *excelize.File, sheet string, report *scanner.ScanReport, styles ExcelStyles) error {
	rows := [][]interface{}{
		{"Symbol", report.Symbol},
		{"Interval", report.Interval},
		{"Price Precision", report.SymbolInfo.PricePrecision},
		{"Quantity Precision", report.SymbolInfo.QuantityPrecision},
		{"Threshold Multiplier", report.Config.ThresholdMultiplier},
		{"Base Threshold", report.Config.BaseThreshold},
		{"Max Look-Forward", report.Config.MaxLookForward},
		{"Lookback", report.Config.LookbackFor(report.Interval)},
		{"Total Candles", report.Stats.TotalCandles},
		{"Legend Candles", report.Stats.LegendCandles},
		{"Successful Entries", report.Stats.SuccessfulEntries},
		{"Success Rate", report.Stats.SuccessRate},
	}

	headerCell := "A1"
	fx.SetCellValue(sheet, headerCell, "Scan Summary")
	fx.SetCellStyle(sheet, headerCell, headerCell, styles.HeaderStyle)

	for i, row := range rows {
		keyCell, _ := excelize.CoordinatesToCellName(1, i+2)
		valCell, _ := excelize.CoordinatesToCellName(2, i+2)
		fx.SetCellValue(sheet, keyCell, row[0])
		fx.SetCellValue(sheet, valCell, row[1])
	}

	fx.SetColWidth(sheet, "A", "A", 22)

	return nil
}

// WriteReportXLSX is a package-level convenience
func WriteReportXLSX(report *scanner.ScanReport, path string) error {
	reporter := NewDefaultExcelReporter()
	return reporter.WriteReportXLSX(report, path)
}
