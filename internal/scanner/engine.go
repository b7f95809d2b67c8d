package scanner

import (
	"context"
	"errors"

	"github.com/ducminhle1904/legend-candle-scanner/internal/config"
	"github.com/ducminhle1904/legend-candle-scanner/pkg/types"
)

// ErrMissingSymbolInfo is returned when a scan would produce results but
// no precision metadata was set. This is a configuration error, not
// retried.
var ErrMissingSymbolInfo = errors.New("symbol precision info not set before scan")

// DiagnosticLogger receives the advisory-check diagnostics. Optional.
type DiagnosticLogger interface {
	Info(format string, args ...interface{})
}

// Engine runs the legend-candle scan over one in-memory series. It is
// single-threaded and deterministic; each engine owns its accumulator, so
// concurrent engines need no locking.
type Engine struct {
	cfg        config.ScanConfig
	classifier Classifier
	simulator  EntrySimulator
	symbolInfo *types.SymbolInfo
	diag       DiagnosticLogger
}

// NewEngine creates a scan engine for one (symbol, interval) run
func NewEngine(cfg config.ScanConfig) *Engine {
	return &Engine{
		cfg: cfg,
		classifier: Classifier{
			ThresholdMultiplier: cfg.ThresholdMultiplier,
			BaseThreshold:       cfg.BaseThreshold,
		},
		simulator: EntrySimulator{MaxLookForward: cfg.MaxLookForward},
	}
}

// SetSymbolInfo supplies the precision metadata required to format any
// result. Must be called before Run on a series long enough to produce
// results.
func (e *Engine) SetSymbolInfo(info types.SymbolInfo) {
	e.symbolInfo = &info
}

// SetDiagnostics attaches an optional logger for the advisory threshold
// channel.
func (e *Engine) SetDiagnostics(diag DiagnosticLogger) {
	e.diag = diag
}

// Run scans the series and returns the report. The series must be
// chronologically sorted and deduplicated with non-zero opens; the data
// layer guarantees that, the engine does not re-check it in the loop.
// Cancellation is honored only at the per-candle loop boundary so a
// partial result list is never handed out.
func (e *Engine) Run(ctx context.Context, candles []types.OHLCV) (*ScanReport, error) {
	report := &ScanReport{
		Symbol:   e.cfg.Symbol,
		Interval: e.cfg.Interval,
		Config:   e.cfg,
		Results:  []ThresholdResult{},
	}

	lookback := e.cfg.LookbackFor(e.cfg.Interval)

	// Documented short-circuit: too little data is not an error
	if len(candles) < lookback {
		return report, nil
	}

	if e.symbolInfo == nil {
		return nil, ErrMissingSymbolInfo
	}
	report.SymbolInfo = *e.symbolInfo

	for i := lookback; i < len(candles); i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		window := candles[i-lookback : i]
		candle := candles[i]

		eval := e.classifier.Evaluate(window, candle)

		// Advisory channel only; never gates the result below
		if e.diag != nil && eval.AboveBaseThreshold {
			e.diag.Info("advisory threshold met at %s: move %.4f%% >= %.4f%%",
				candle.OpenTime.Format("2006-01-02 15:04:05"), eval.CurrentMove, eval.AdvisoryThreshold)
		}

		result := ThresholdResult{
			LegendCandleNo:     len(report.Results) + 1,
			Time:               candle.OpenTime,
			AverageMove:        eval.AverageMove,
			DynamicThreshold:   eval.DynamicThreshold,
			UpwardThreshold:    eval.UpwardThreshold,
			DownwardThreshold:  eval.DownwardThreshold,
			UpwardFormatted:    FormatPrice(eval.UpwardThreshold, e.symbolInfo.PricePrecision),
			DownwardFormatted:  FormatPrice(eval.DownwardThreshold, e.symbolInfo.PricePrecision),
			AboveBaseThreshold: eval.AboveBaseThreshold,
			Candle:             Snapshot(candle, *e.symbolInfo),
		}

		if hit := e.simulator.scan(candles, i, eval.UpwardThreshold, eval.DownwardThreshold); hit != nil {
			result.Entry = &Entry{
				Side:                  hit.side,
				Price:                 hit.price,
				PriceFormatted:        FormatPrice(hit.price, e.symbolInfo.PricePrecision),
				Reason:                hit.reason,
				CandlesUntilThreshold: hit.count,
				Time:                  hit.candle.OpenTime,
				Candle:                Snapshot(hit.candle, *e.symbolInfo),
			}
			result.Success = true
		}

		report.Results = append(report.Results, result)
	}

	report.Stats = ComputeStats(report.Results, len(candles))

	return report, nil
}
