package main

import (
	"encoding/csv"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Kline is one candlestick row from the Bybit market API
type Kline struct {
	StartTime int64
	Open      string
	High      string
	Low       string
	Close     string
	Volume    string
	Turnover  string
}

// klineResponse mirrors the /v5/market/kline payload
type klineResponse struct {
	RetCode int    `json:"retCode"`
	RetMsg  string `json:"retMsg"`
	Result  struct {
		Symbol   string     `json:"symbol"`
		Category string     `json:"category"`
		List     [][]string `json:"list"`
	} `json:"result"`
	Time int64 `json:"time"`
}

func main() {
	var (
		symbol   = flag.String("symbol", "BTCUSDT", "Trading symbol (e.g. BTCUSDT)")
		interval = flag.String("interval", "1h", "Candle interval (1m, 5m, 15m, 30m, 1h, 4h, 1d)")
		category = flag.String("category", "linear", "Market category (spot, linear, inverse)")

		symbols    = flag.String("symbols", "", "Comma-separated list of symbols (overrides -symbol)")
		intervals  = flag.String("intervals", "", "Comma-separated list of intervals (overrides -interval)")
		categories = flag.String("categories", "", "Comma-separated list of categories (overrides -category)")
		outdir     = flag.String("outdir", "data/bybit", "Directory to write CSV files")

		startDate = flag.String("start", "", "Start date (YYYY-MM-DD)")
		endDate   = flag.String("end", "", "End date (YYYY-MM-DD)")
		output    = flag.String("output", "", "Explicit output file path (single symbol/interval/category only)")
		limit     = flag.Int("limit", 1000, "Number of klines per request (max 1000)")
	)

	flag.Parse()

	if *limit > 1000 {
		*limit = 1000 // Bybit max limit
	}

	symList := splitUpper(*symbols, *symbol)
	intList := splitLower(*intervals, *interval)
	catList := splitLower(*categories, *category)

	end := time.Now()
	start := end.AddDate(-1, 0, 0)

	if *startDate != "" {
		parsed, err := time.Parse("2006-01-02", *startDate)
		if err != nil {
			log.Fatalf("Invalid start date format: %v", err)
		}
		start = parsed
	}
	if *endDate != "" {
		parsed, err := time.Parse("2006-01-02", *endDate)
		if err != nil {
			log.Fatalf("Invalid end date format: %v", err)
		}
		end = parsed
	}

	if err := os.MkdirAll(*outdir, 0755); err != nil {
		log.Fatalf("Failed to create output directory: %v", err)
	}

	fmt.Println("🚀 Bybit Historical Data Downloader")
	fmt.Println("====================================")
	fmt.Printf("📊 Categories: %s\n", strings.Join(catList, ", "))
	fmt.Printf("🎯 Symbols: %s\n", strings.Join(symList, ", "))
	fmt.Printf("⏱️  Intervals: %s\n", strings.Join(intList, ", "))
	fmt.Printf("📅 Date Range: %s to %s\n", start.Format("2006-01-02"), end.Format("2006-01-02"))
	fmt.Println()

	singleMode := len(symList) == 1 && len(intList) == 1 && len(catList) == 1
	if singleMode && strings.TrimSpace(*output) != "" {
		downloadOne(catList[0], symList[0], intList[0], start, end, *limit, *output)
		return
	}

	// Directory layout matches the scanner's file locator:
	// {outdir}/{category}/{symbol}/{interval-minutes}/candles.csv
	for _, cat := range catList {
		for _, sym := range symList {
			for _, ival := range intList {
				comboDir := filepath.Join(*outdir, cat, sym, intervalToMinutes(ival))
				outPath := filepath.Join(comboDir, "candles.csv")
				downloadOne(cat, sym, ival, start, end, *limit, outPath)
			}
		}
	}

	fmt.Println("\n🎉 All downloads completed!")
}

func splitUpper(multi, single string) []string {
	return splitNormalized(multi, single, strings.ToUpper)
}

func splitLower(multi, single string) []string {
	return splitNormalized(multi, single, strings.ToLower)
}

func splitNormalized(multi, single string, normalize func(string) string) []string {
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

func downloadOne(category, symbol, interval string, start, end time.Time, limit int, outputPath string) {
	fmt.Printf("\n📊 Downloading %s %s data for %s\n", category, interval, symbol)
	fmt.Printf("📅 Period: %s to %s\n", start.Format("2006-01-02"), end.Format("2006-01-02"))
	fmt.Printf("📁 Output: %s\n", outputPath)
	fmt.Println("🔄 Fetching data...")

	klines, err := downloadKlines(category, symbol, bybitInterval(interval), start, end, limit)
	if err != nil {
		log.Printf("❌ Failed to download data for %s %s %s: %v", category, symbol, interval, err)
		return
	}

	fmt.Printf("✅ Downloaded %d klines\n", len(klines))

	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		log.Printf("❌ Failed to prepare output directory %s: %v", filepath.Dir(outputPath), err)
		return
	}

	if err := saveToCSV(klines, interval, outputPath); err != nil {
		log.Printf("❌ Failed to save %s %s %s: %v", category, symbol, interval, err)
		return
	}

	fmt.Printf("💾 Data saved to %s\n", outputPath)
	printSummary(klines, interval)
}

func printSummary(klines []Kline, interval string) {
	if len(klines) == 0 {
		return
	}

	fmt.Println("\n📊 DATA SUMMARY:")
	fmt.Printf("  First: %s\n", time.UnixMilli(klines[0].StartTime).UTC().Format("2006-01-02 15:04:05"))
	fmt.Printf("  Last:  %s\n", time.UnixMilli(klines[len(klines)-1].StartTime).UTC().Format("2006-01-02 15:04:05"))
	fmt.Printf("  Total: %d %s candles\n", len(klines), interval)

	var totalVolume, totalTurnover float64
	highPrice := 0.0
	lowPrice := 1e9

	for _, kline := range klines {
		volume, _ := strconv.ParseFloat(kline.Volume, 64)
		turnover, _ := strconv.ParseFloat(kline.Turnover, 64)
		high, _ := strconv.ParseFloat(kline.High, 64)
		low, _ := strconv.ParseFloat(kline.Low, 64)

		totalVolume += volume
		totalTurnover += turnover
		if high > highPrice {
			highPrice = high
		}
		if low < lowPrice {
			lowPrice = low
		}
	}

	fmt.Printf("  High:  $%.2f\n", highPrice)
	fmt.Printf("  Low:   $%.2f\n", lowPrice)
	fmt.Printf("  Avg Volume: %.2f\n", totalVolume/float64(len(klines)))
	fmt.Printf("  Avg Turnover: $%.2f\n", totalTurnover/float64(len(klines)))
}

// bybitInterval maps scanner interval notation to Bybit API interval codes
func bybitInterval(interval string) string {
	switch strings.ToLower(interval) {
	case "1m":
		return "1"
	case "3m":
		return "3"
	case "5m":
		return "5"
	case "15m":
		return "15"
	case "30m":
		return "30"
	case "1h":
		return "60"
	case "2h":
		return "120"
	case "4h":
		return "240"
	case "6h":
		return "360"
	case "12h":
		return "720"
	case "1d":
		return "D"
	case "1w":
		return "W"
	default:
		return interval
	}
}

// intervalToMinutes converts scanner interval notation to the minute-based
// directory names the file locator expects
func intervalToMinutes(interval string) string {
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

func intervalDuration(interval string) time.Duration {
	minutes, err := strconv.Atoi(intervalToMinutes(interval))
	if err != nil {
		return time.Hour
	}
	return time.Duration(minutes) * time.Minute
}

func downloadKlines(category, symbol, apiInterval string, start, end time.Time, limit int) ([]Kline, error) {
	var allKlines []Kline

	startMs := start.Unix() * 1000
	endMs := end.Unix() * 1000
	currentEndMs := endMs

	for currentEndMs > startMs {
		// Bybit returns data newest-first, so page backwards with 'end'
		url := fmt.Sprintf("https://api.bybit.com/v5/market/kline?category=%s&symbol=%s&interval=%s&end=%d&limit=%d",
			category, symbol, apiInterval, currentEndMs, limit)

		resp, err := http.Get(url)
		if err != nil {
			return nil, fmt.Errorf("HTTP request failed: %w", err)
		}

		if resp.StatusCode != 200 {
			body, _ := io.ReadAll(resp.Body)
			resp.Body.Close()
			return nil, fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(body))
		}

		var klineResp klineResponse
		if err := json.NewDecoder(resp.Body).Decode(&klineResp); err != nil {
			resp.Body.Close()
			return nil, fmt.Errorf("JSON decode error: %w", err)
		}
		resp.Body.Close()

		if klineResp.RetCode != 0 {
			return nil, fmt.Errorf("Bybit API error %d: %s", klineResp.RetCode, klineResp.RetMsg)
		}

		if len(klineResp.Result.List) == 0 {
			break
		}

		oldestTimestamp := int64(0)
		for _, raw := range klineResp.Result.List {
			if len(raw) < 7 {
				continue
			}

			// Format: [startTime, open, high, low, close, volume, turnover]
			startTime, err := strconv.ParseInt(raw[0], 10, 64)
			if err != nil {
				continue
			}

			kline := Kline{
				StartTime: startTime,
				Open:      raw[1],
				High:      raw[2],
				Low:       raw[3],
				Close:     raw[4],
				Volume:    raw[5],
				Turnover:  raw[6],
			}

			if kline.StartTime >= startMs && kline.StartTime <= endMs {
				allKlines = append(allKlines, kline)
			}

			if oldestTimestamp == 0 || startTime < oldestTimestamp {
				oldestTimestamp = startTime
			}
		}

		if oldestTimestamp <= startMs {
			break
		}

		currentEndMs = oldestTimestamp - 1

		fmt.Printf("\r  Progress: %d klines downloaded...", len(allKlines))

		// Public endpoint rate limit headroom
		time.Sleep(500 * time.Millisecond)
	}

	fmt.Println()

	// Reverse into ascending order
	for i, j := 0, len(allKlines)-1; i < j; i, j = i+1, j-1 {
		allKlines[i], allKlines[j] = allKlines[j], allKlines[i]
	}

	return allKlines, nil
}

// saveToCSV writes the layout the scanner's CSV provider reads:
// open_time,open,high,low,close,volume,close_time,quote_volume
func saveToCSV(klines []Kline, interval, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	header := []string{"open_time", "open", "high", "low", "close", "volume", "close_time", "quote_volume"}
	if err := writer.Write(header); err != nil {
		return err
	}

	candleSpan := intervalDuration(interval)

	for _, kline := range klines {
		openTime := time.UnixMilli(kline.StartTime).UTC()
		closeTime := openTime.Add(candleSpan - time.Second)

		record := []string{
			openTime.Format("2006-01-02 15:04:05"),
			kline.Open,
			kline.High,
			kline.Low,
			kline.Close,
			kline.Volume,
			closeTime.Format("2006-01-02 15:04:05"),
			kline.Turnover,
		}

		if err := writer.Write(record); err != nil {
			return err
		}
	}

	return nil
}
