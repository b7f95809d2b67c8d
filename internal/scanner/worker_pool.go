package scanner

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/ducminhle1904/legend-candle-scanner/internal/config"
	"github.com/ducminhle1904/legend-candle-scanner/internal/monitoring"
	"github.com/ducminhle1904/legend-candle-scanner/pkg/data"
	"github.com/ducminhle1904/legend-candle-scanner/pkg/types"
)

// WorkerPool runs independent (symbol, interval) scans side by side with a
// bounded worker count. Each job owns its series and result accumulator;
// nothing is shared between in-flight scans.
type WorkerPool struct {
	workerCount int
	jobQueue    chan ScanJob
	resultQueue chan ScanJobResult
	wg          sync.WaitGroup
	ctx         context.Context
	cancel      context.CancelFunc
}

// ScanJob is a single scan task
type ScanJob struct {
	ID         string
	Config     config.ScanConfig
	Data       []types.OHLCV
	SymbolInfo types.SymbolInfo
}

// ScanJobResult is the outcome of one job. A failed job carries its error
// here instead of aborting the batch.
type ScanJobResult struct {
	ID       string
	Config   config.ScanConfig
	Report   *ScanReport
	Duration time.Duration
	Error    error
}

// NewWorkerPool creates a worker pool for parallel scans
func NewWorkerPool(workerCount int, jobBufferSize int) *WorkerPool {
	if workerCount <= 0 {
		workerCount = runtime.NumCPU()
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &WorkerPool{
		workerCount: workerCount,
		jobQueue:    make(chan ScanJob, jobBufferSize),
		resultQueue: make(chan ScanJobResult, jobBufferSize),
		ctx:         ctx,
		cancel:      cancel,
	}
}

// Start starts the worker pool
func (wp *WorkerPool) Start() {
	for i := 0; i < wp.workerCount; i++ {
		wp.wg.Add(1)
		go wp.worker()
	}
}

// Stop stops the worker pool gracefully
func (wp *WorkerPool) Stop() {
	close(wp.jobQueue)
	wp.wg.Wait()
	close(wp.resultQueue)
	wp.cancel()
}

// SubmitJob submits a scan job to the pool
func (wp *WorkerPool) SubmitJob(job ScanJob) error {
	select {
	case wp.jobQueue <- job:
		return nil
	case <-wp.ctx.Done():
		return wp.ctx.Err()
	}
}

// GetResults returns the result channel for collecting completed jobs
func (wp *WorkerPool) GetResults() <-chan ScanJobResult {
	return wp.resultQueue
}

func (wp *WorkerPool) worker() {
	defer wp.wg.Done()

	for {
		select {
		case job, ok := <-wp.jobQueue:
			if !ok {
				return
			}

			result := wp.processJob(job)

			select {
			case wp.resultQueue <- result:
			case <-wp.ctx.Done():
				return
			}

		case <-wp.ctx.Done():
			return
		}
	}
}

// processJob runs one scan; the error stays local to the job result
func (wp *WorkerPool) processJob(job ScanJob) ScanJobResult {
	startTime := time.Now()

	result := ScanJobResult{
		ID:     job.ID,
		Config: job.Config,
	}

	engine := NewEngine(job.Config)
	engine.SetSymbolInfo(job.SymbolInfo)

	report, err := engine.Run(wp.ctx, job.Data)
	result.Duration = time.Since(startTime)

	if err != nil {
		result.Error = err
		monitoring.RecordScanError("engine")
		return result
	}

	result.Report = report
	monitoring.RecordScan(job.Config.Symbol, job.Config.Interval, result.Duration)
	monitoring.RecordLegendCandles(job.Config.Symbol, job.Config.Interval, report.Stats.LegendCandles)
	for _, r := range report.Results {
		if r.Entry != nil {
			monitoring.RecordEntry(job.Config.Symbol, string(r.Entry.Side))
		}
	}

	return result
}

// BatchProcessor drives many scan configurations through the pool,
// loading each job's series from the data layer.
type BatchProcessor struct {
	workerPool   *WorkerPool
	provider     data.DataProvider
	dataRoot     string
	exchange     string
	seriesFilter func([]types.OHLCV) []types.OHLCV
}

// NewBatchProcessor creates a batch processor backed by the given provider
func NewBatchProcessor(workerCount, jobBufferSize int, provider data.DataProvider, dataRoot, exchange string) *BatchProcessor {
	return &BatchProcessor{
		workerPool: NewWorkerPool(workerCount, jobBufferSize),
		provider:   provider,
		dataRoot:   dataRoot,
		exchange:   exchange,
	}
}

// SetSeriesFilter installs an optional transform (date-range or trailing
// period trim) applied to every loaded series before scanning
func (bp *BatchProcessor) SetSeriesFilter(filter func([]types.OHLCV) []types.OHLCV) {
	bp.seriesFilter = filter
}

// ProcessBatch runs every configuration and returns one result per config.
// infoFor resolves precision metadata per symbol; data-load and metadata
// failures are reported per job, never propagated across jobs.
func (bp *BatchProcessor) ProcessBatch(configs []config.ScanConfig, infoFor func(symbol string) (types.SymbolInfo, error)) []ScanJobResult {
	bp.workerPool.Start()
	defer bp.workerPool.Stop()

	results := make([]ScanJobResult, 0, len(configs))

	jobCount := 0
	for i, cfg := range configs {
		id := generateJobID(cfg, i)

		path := data.FindDataFile(bp.dataRoot, bp.exchange, cfg.Symbol, cfg.Interval)
		if path == "" {
			results = append(results, ScanJobResult{
				ID: id, Config: cfg,
				Error: fmt.Errorf("no data file for %s %s under %s", cfg.Symbol, cfg.Interval, bp.dataRoot),
			})
			monitoring.RecordScanError("data_missing")
			continue
		}

		series, err := bp.provider.LoadData(path)
		if err != nil {
			results = append(results, ScanJobResult{ID: id, Config: cfg, Error: err})
			monitoring.RecordScanError("data_load")
			continue
		}

		// The engine assumes a sorted, deduplicated series; reject malformed
		// input here, same as the single-scan path
		if err := bp.provider.ValidateData(series); err != nil {
			results = append(results, ScanJobResult{ID: id, Config: cfg, Error: err})
			monitoring.RecordScanError("data_invalid")
			continue
		}

		if bp.seriesFilter != nil {
			series = bp.seriesFilter(series)
		}

		info, err := infoFor(cfg.Symbol)
		if err != nil {
			results = append(results, ScanJobResult{ID: id, Config: cfg, Error: err})
			monitoring.RecordScanError("symbol_info")
			continue
		}

		job := ScanJob{
			ID:         id,
			Config:     cfg,
			Data:       series,
			SymbolInfo: info,
		}

		if err := bp.workerPool.SubmitJob(job); err != nil {
			results = append(results, ScanJobResult{ID: id, Config: cfg, Error: err})
			continue
		}
		jobCount++
	}

	for i := 0; i < jobCount; i++ {
		results = append(results, <-bp.workerPool.GetResults())
	}

	return results
}

func generateJobID(cfg config.ScanConfig, index int) string {
	return fmt.Sprintf("%s_%s_%d", cfg.Symbol, cfg.Interval, index)
}

// ProgressTracker tracks batch progress
type ProgressTracker struct {
	total     int
	completed int
	startTime time.Time
	mutex     sync.RWMutex
}

// NewProgressTracker creates a tracker for a batch of the given size
func NewProgressTracker(total int) *ProgressTracker {
	return &ProgressTracker{
		total:     total,
		startTime: time.Now(),
	}
}

// Increment increments the completion count
func (pt *ProgressTracker) Increment() {
	pt.mutex.Lock()
	defer pt.mutex.Unlock()
	pt.completed++
}

// GetProgress returns completed count, total, percent done, and elapsed time
func (pt *ProgressTracker) GetProgress() (int, int, float64, time.Duration) {
	pt.mutex.RLock()
	defer pt.mutex.RUnlock()

	elapsed := time.Since(pt.startTime)
	progress := 0.0
	if pt.total > 0 {
		progress = float64(pt.completed) / float64(pt.total) * 100
	}

	return pt.completed, pt.total, progress, elapsed
}
