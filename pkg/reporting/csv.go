package reporting

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/ducminhle1904/legend-candle-scanner/internal/scanner"
)

// WriteResultsCSV writes the result list as a flat CSV file, one row per
// legend candle
func WriteResultsCSV(report *scanner.ScanReport, path string) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	header := []string{
		"legend_candle_no", "time", "close",
		"average_move_pct", "dynamic_threshold_pct",
		"upward_threshold", "downward_threshold", "above_base_threshold",
		"entry_side", "entry_price", "entry_reason", "candles_until_threshold", "entry_time", "success",
	}
	if err := writer.Write(header); err != nil {
		return err
	}

	for _, res := range report.Results {
		row := []string{
			strconv.Itoa(res.LegendCandleNo),
			res.Time.Format("2006-01-02 15:04:05"),
			res.Candle.Close,
			strconv.FormatFloat(res.AverageMove, 'f', 6, 64),
			strconv.FormatFloat(res.DynamicThreshold, 'f', 6, 64),
			res.UpwardFormatted,
			res.DownwardFormatted,
			strconv.FormatBool(res.AboveBaseThreshold),
			"", "", "", "", "",
			strconv.FormatBool(res.Success),
		}

		if res.Entry != nil {
			row[8] = string(res.Entry.Side)
			row[9] = res.Entry.PriceFormatted
			row[10] = string(res.Entry.Reason)
			row[11] = strconv.Itoa(res.Entry.CandlesUntilThreshold)
			row[12] = res.Entry.Time.Format("2006-01-02 15:04:05")
		}

		if err := writer.Write(row); err != nil {
			return err
		}
	}

	return nil
}
