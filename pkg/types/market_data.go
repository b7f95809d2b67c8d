package types

import "time"

// OHLCV is a single candle of one symbol/interval series.
// The raw exchange extras (quote volume, trade count, taker buy volumes)
// are carried through unmodified when the source provides them.
type OHLCV struct {
	OpenTime  time.Time
	CloseTime time.Time
	Open      float64
	High      float64
	Low       float64
	Close     float64
	Volume    float64

	QuoteVolume         float64
	TradeCount          int64
	TakerBuyVolume      float64
	TakerBuyQuoteVolume float64
}

// SymbolInfo holds the display precision metadata for one symbol.
// The scan engine refuses to produce results without it.
type SymbolInfo struct {
	Symbol            string `json:"symbol"`
	PricePrecision    int    `json:"price_precision"`
	QuantityPrecision int    `json:"quantity_precision"`
}
