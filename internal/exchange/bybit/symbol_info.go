package bybit

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"
	"time"

	bybit_api "github.com/bybit-exchange/bybit.go.api"

	"github.com/ducminhle1904/legend-candle-scanner/pkg/types"
)

// SymbolInfoProvider fetches and caches symbol precision metadata from the
// Bybit instruments-info endpoint. The scan engine hard-requires this
// metadata before producing any formatted output.
type SymbolInfoProvider struct {
	client         *Client
	category       string
	symbols        map[string]types.SymbolInfo
	mutex          sync.RWMutex
	lastUpdate     time.Time
	updateInterval time.Duration
}

// NewSymbolInfoProvider creates a provider for the given market category
// (spot, linear, inverse)
func NewSymbolInfoProvider(client *Client, category string) *SymbolInfoProvider {
	return &SymbolInfoProvider{
		client:         client,
		category:       category,
		symbols:        make(map[string]types.SymbolInfo),
		updateInterval: 1 * time.Hour,
	}
}

// GetSymbolInfo retrieves precision metadata for one symbol, cached for
// the update interval
func (p *SymbolInfoProvider) GetSymbolInfo(ctx context.Context, symbol string) (types.SymbolInfo, error) {
	p.mutex.RLock()
	if info, exists := p.symbols[symbol]; exists && time.Since(p.lastUpdate) < p.updateInterval {
		p.mutex.RUnlock()
		return info, nil
	}
	p.mutex.RUnlock()

	info, err := p.fetchSymbolInfo(ctx, symbol)
	if err != nil {
		return types.SymbolInfo{}, err
	}

	p.mutex.Lock()
	p.symbols[symbol] = info
	p.lastUpdate = time.Now()
	p.mutex.Unlock()

	return info, nil
}

func (p *SymbolInfoProvider) fetchSymbolInfo(ctx context.Context, symbol string) (types.SymbolInfo, error) {
	params := map[string]interface{}{
		"category": p.category,
		"symbol":   symbol,
	}

	result, err := p.client.httpClient.NewUtaBybitServiceWithParams(params).GetInstrumentInfo(ctx)
	if err != nil {
		return types.SymbolInfo{}, fmt.Errorf("failed to fetch instrument info: %w", err)
	}

	info, err := parseSymbolInfoResponse(result, symbol)
	if err != nil {
		return types.SymbolInfo{}, fmt.Errorf("failed to parse instrument info: %w", err)
	}

	return info, nil
}

func parseSymbolInfoResponse(response interface{}, targetSymbol string) (types.SymbolInfo, error) {
	serverResp, ok := response.(*bybit_api.ServerResponse)
	if !ok {
		return types.SymbolInfo{}, fmt.Errorf("invalid response type")
	}

	if serverResp.RetCode != 0 {
		return types.SymbolInfo{}, fmt.Errorf("API error: %s (code: %d)", serverResp.RetMsg, serverResp.RetCode)
	}

	resultBytes, err := json.Marshal(serverResp.Result)
	if err != nil {
		return types.SymbolInfo{}, fmt.Errorf("failed to marshal result: %w", err)
	}

	var instrumentResult struct {
		Category string `json:"category"`
		List     []struct {
			Symbol     string `json:"symbol"`
			PriceScale string `json:"priceScale"`
			PriceFilter struct {
				TickSize string `json:"tickSize"`
			} `json:"priceFilter"`
			LotSizeFilter struct {
				QtyStep        string `json:"qtyStep"`
				BasePrecision  string `json:"basePrecision"`
			} `json:"lotSizeFilter"`
		} `json:"list"`
	}

	if err := json.Unmarshal(resultBytes, &instrumentResult); err != nil {
		return types.SymbolInfo{}, fmt.Errorf("failed to unmarshal instrument result: %w", err)
	}

	for _, item := range instrumentResult.List {
		if item.Symbol != targetSymbol {
			continue
		}

		pricePrecision, ok := parsePrecision(item.PriceScale)
		if !ok {
			pricePrecision = stepPrecision(item.PriceFilter.TickSize)
		}

		qtyStep := item.LotSizeFilter.QtyStep
		if qtyStep == "" {
			qtyStep = item.LotSizeFilter.BasePrecision
		}

		return types.SymbolInfo{
			Symbol:            item.Symbol,
			PricePrecision:    pricePrecision,
			QuantityPrecision: stepPrecision(qtyStep),
		}, nil
	}

	return types.SymbolInfo{}, fmt.Errorf("instrument %s not found", targetSymbol)
}

// parsePrecision parses a decimal-count field like priceScale ("2")
func parsePrecision(value string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// stepPrecision derives decimal places from a step size ("0.001" -> 3)
func stepPrecision(step string) int {
	f, err := strconv.ParseFloat(strings.TrimSpace(step), 64)
	if err != nil || f <= 0 || f >= 1 {
		return 0
	}
	return int(math.Round(-math.Log10(f)))
}

// StaticSymbolInfo returns fixed precision metadata for offline runs that
// skip the exchange lookup
func StaticSymbolInfo(symbol string, pricePrecision, qtyPrecision int) types.SymbolInfo {
	return types.SymbolInfo{
		Symbol:            symbol,
		PricePrecision:    pricePrecision,
		QuantityPrecision: qtyPrecision,
	}
}
