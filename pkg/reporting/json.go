package reporting

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ducminhle1904/legend-candle-scanner/internal/scanner"
)

// DefaultJSONFormatter implements JSON output for scan reports
type DefaultJSONFormatter struct{}

// NewDefaultJSONFormatter creates a new JSON formatter
func NewDefaultJSONFormatter() *DefaultJSONFormatter {
	return &DefaultJSONFormatter{}
}

// FormatReport renders a scan report as indented JSON bytes
func (f *DefaultJSONFormatter) FormatReport(report *scanner.ScanReport) ([]byte, error) {
	return json.MarshalIndent(report, "", "  ")
}

// PrintReport prints a scan report as JSON to the console
func (f *DefaultJSONFormatter) PrintReport(report *scanner.ScanReport) {
	data, _ := f.FormatReport(report)
	fmt.Println(string(data))
}

// WriteReportJSON writes a scan report to a JSON file, creating parent
// directories as needed
func WriteReportJSON(report *scanner.ScanReport, path string) error {
	formatter := NewDefaultJSONFormatter()

	data, err := formatter.FormatReport(report)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	return os.WriteFile(path, data, 0644)
}
