package data

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/ducminhle1904/legend-candle-scanner/pkg/types"
)

// CSVProvider implements DataProvider for CSV candle files
type CSVProvider struct {
	format CSVColumnMapping
}

// NewCSVProvider creates a new CSV data provider with the default format
func NewCSVProvider() *CSVProvider {
	return &CSVProvider{
		format: DefaultCSVFormat,
	}
}

// NewCSVProviderWithFormat creates a new CSV data provider with a custom format
func NewCSVProviderWithFormat(format CSVColumnMapping) *CSVProvider {
	return &CSVProvider{
		format: format,
	}
}

// GetName returns the name of the data provider
func (p *CSVProvider) GetName() string {
	return "CSV Provider"
}

// LoadData loads a candle series from a CSV file
func (p *CSVProvider) LoadData(source string) ([]types.OHLCV, error) {
	file, err := os.Open(source)
	if err != nil {
		return nil, fmt.Errorf("failed to open data file %s: %w", source, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	var data []types.OHLCV

	lineNum := 0
	for {
		record, err := reader.Read()
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, fmt.Errorf("error reading CSV at line %d: %v", lineNum+1, err)
		}
		lineNum++

		// Skip header row
		if lineNum == 1 && !isNumericStart(record, p.format) {
			continue
		}

		if len(record) < p.format.MinColumns {
			log.Printf("⚠️ Insufficient columns at line %d (expected %d, got %d), skipping", lineNum, p.format.MinColumns, len(record))
			continue
		}

		openTime, err := p.parseTimestamp(record[p.format.OpenTimeCol])
		if err != nil {
			log.Printf("⚠️ Invalid open time '%s' at line %d, skipping: %v", record[p.format.OpenTimeCol], lineNum, err)
			continue
		}

		open, err := strconv.ParseFloat(record[p.format.OpenCol], 64)
		if err != nil {
			log.Printf("⚠️ Invalid open price '%s' at line %d, skipping: %v", record[p.format.OpenCol], lineNum, err)
			continue
		}

		high, err := strconv.ParseFloat(record[p.format.HighCol], 64)
		if err != nil {
			log.Printf("⚠️ Invalid high price '%s' at line %d, skipping: %v", record[p.format.HighCol], lineNum, err)
			continue
		}

		low, err := strconv.ParseFloat(record[p.format.LowCol], 64)
		if err != nil {
			log.Printf("⚠️ Invalid low price '%s' at line %d, skipping: %v", record[p.format.LowCol], lineNum, err)
			continue
		}

		close, err := strconv.ParseFloat(record[p.format.CloseCol], 64)
		if err != nil {
			log.Printf("⚠️ Invalid close price '%s' at line %d, skipping: %v", record[p.format.CloseCol], lineNum, err)
			continue
		}

		volume, err := strconv.ParseFloat(record[p.format.VolumeCol], 64)
		if err != nil {
			log.Printf("⚠️ Invalid volume '%s' at line %d, skipping: %v", record[p.format.VolumeCol], lineNum, err)
			continue
		}

		// Zero or negative opens break the percent-move math downstream,
		// reject them here rather than in the scan loop
		if open <= 0 || high <= 0 || low <= 0 || close <= 0 {
			log.Printf("⚠️ Invalid price data (negative or zero) at line %d, skipping", lineNum)
			continue
		}

		if high < open || high < close || high < low {
			log.Printf("⚠️ High price is lower than other prices at line %d, skipping", lineNum)
			continue
		}

		if low > open || low > close || low > high {
			log.Printf("⚠️ Low price is higher than other prices at line %d, skipping", lineNum)
			continue
		}

		candle := types.OHLCV{
			OpenTime: openTime,
			Open:     open,
			High:     high,
			Low:      low,
			Close:    close,
			Volume:   volume,
		}

		if p.format.CloseTimeCol >= 0 && p.format.CloseTimeCol < len(record) {
			if closeTime, err := p.parseTimestamp(record[p.format.CloseTimeCol]); err == nil {
				candle.CloseTime = closeTime
			}
		}
		if p.format.QuoteVolCol >= 0 && p.format.QuoteVolCol < len(record) {
			candle.QuoteVolume, _ = strconv.ParseFloat(record[p.format.QuoteVolCol], 64)
		}
		if p.format.TradeCntCol >= 0 && p.format.TradeCntCol < len(record) {
			candle.TradeCount, _ = strconv.ParseInt(record[p.format.TradeCntCol], 10, 64)
		}
		if p.format.TakerBuyCol >= 0 && p.format.TakerBuyCol < len(record) {
			candle.TakerBuyVolume, _ = strconv.ParseFloat(record[p.format.TakerBuyCol], 64)
		}
		if p.format.TakerQuoteCol >= 0 && p.format.TakerQuoteCol < len(record) {
			candle.TakerBuyQuoteVolume, _ = strconv.ParseFloat(record[p.format.TakerQuoteCol], 64)
		}

		data = append(data, candle)
	}

	return data, nil
}

// parseTimestamp handles both epoch-millisecond and formatted timestamps
func (p *CSVProvider) parseTimestamp(value string) (time.Time, error) {
	if p.format.EpochMillis {
		ms, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return time.Time{}, err
		}
		return time.UnixMilli(ms).UTC(), nil
	}
	return time.Parse(p.format.DateFormat, value)
}

// isNumericStart reports whether the record looks like data rather than a header
func isNumericStart(record []string, format CSVColumnMapping) bool {
	if format.OpenCol >= len(record) {
		return false
	}
	_, err := strconv.ParseFloat(record[format.OpenCol], 64)
	return err == nil
}

// ValidateData validates the integrity of a loaded series
func (p *CSVProvider) ValidateData(data []types.OHLCV) error {
	if len(data) == 0 {
		return fmt.Errorf("no data provided")
	}

	for i, candle := range data {
		if candle.Open <= 0 || candle.High <= 0 || candle.Low <= 0 || candle.Close <= 0 {
			return fmt.Errorf("invalid price data at index %d: prices must be positive", i)
		}

		if candle.High < candle.Low {
			return fmt.Errorf("invalid price data at index %d: high (%.4f) cannot be less than low (%.4f)",
				i, candle.High, candle.Low)
		}

		if candle.High < candle.Open || candle.High < candle.Close {
			return fmt.Errorf("invalid price data at index %d: high (%.4f) must be >= open (%.4f) and close (%.4f)",
				i, candle.High, candle.Open, candle.Close)
		}

		if candle.Low > candle.Open || candle.Low > candle.Close {
			return fmt.Errorf("invalid price data at index %d: low (%.4f) must be <= open (%.4f) and close (%.4f)",
				i, candle.Low, candle.Open, candle.Close)
		}

		if i > 0 && !candle.OpenTime.After(data[i-1].OpenTime) {
			return fmt.Errorf("invalid timestamp sequence at index %d: candles must be in strictly ascending order", i)
		}
	}

	return nil
}
