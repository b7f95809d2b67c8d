package data

import (
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// bybitCategories is the search order under an exchange directory. The
// downloader writes one of these per market; linear is the common case for
// USDT perpetuals, so it is tried first.
var bybitCategories = []string{"linear", "spot", "inverse"}

// DefaultFileLocator implements FileLocator over the downloader's on-disk
// layout
type DefaultFileLocator struct{}

// NewDefaultFileLocator creates a new default file locator
func NewDefaultFileLocator() *DefaultFileLocator {
	return &DefaultFileLocator{}
}

// ConvertIntervalToMinutes converts interval notation like "5m", "1h", "4h"
// to the minute-based directory names the downloader writes
func (f *DefaultFileLocator) ConvertIntervalToMinutes(interval string) string {
	// Already-numeric values pass through
	if _, err := strconv.Atoi(interval); err == nil {
		return interval
	}

	interval = strings.ToLower(strings.TrimSpace(interval))
	if len(interval) < 2 {
		return interval
	}

	num, err := strconv.Atoi(interval[:len(interval)-1])
	if err != nil {
		return interval
	}

	switch interval[len(interval)-1:] {
	case "m":
		return strconv.Itoa(num)
	case "h":
		return strconv.Itoa(num * 60)
	case "d":
		return strconv.Itoa(num * 24 * 60)
	case "w":
		return strconv.Itoa(num * 7 * 24 * 60)
	default:
		return interval
	}
}

// FindDataFile locates a candle file under
// {dataRoot}/{exchange}/{category}/{symbol}/{interval-minutes}/candles.csv,
// trying each market category in order. Returns empty string when no file
// exists.
func (f *DefaultFileLocator) FindDataFile(dataRoot, exchange, symbol, interval string) string {
	symbol = strings.ToUpper(symbol)
	intervalMinutes := f.ConvertIntervalToMinutes(interval)

	var attemptedPaths []string
	for _, category := range bybitCategories {
		path := filepath.Join(dataRoot, exchange, category, symbol, intervalMinutes, "candles.csv")
		attemptedPaths = append(attemptedPaths, path)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	log.Printf("⚠️ No data file found for %s %s %s in:", exchange, symbol, interval)
	for _, path := range attemptedPaths {
		log.Printf("   - %s", path)
	}

	return ""
}

// FindDataFile is a package-level convenience using the default locator
func FindDataFile(dataRoot, exchange, symbol, interval string) string {
	locator := NewDefaultFileLocator()
	return locator.FindDataFile(dataRoot, exchange, symbol, interval)
}
