package logger

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Logger is a per-run file logger. Each scan gets its own file, so
// concurrent runs never contend on a writer.
type Logger struct {
	symbol   string
	interval string
	logFile  *os.File
	logger   *log.Logger
	mu       sync.Mutex
	logPath  string
}

// LogLevel represents different types of log entries
type LogLevel string

const (
	LogLevelInfo    LogLevel = "INFO"
	LogLevelWarning LogLevel = "WARN"
	LogLevelError   LogLevel = "ERROR"
	LogLevelLegend  LogLevel = "LEGEND"
)

// NewLogger creates a file logger for the specified symbol and interval
func NewLogger(symbol, interval string) (*Logger, error) {
	logDir := "logs"
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	timestamp := time.Now().Format("2006-01-02")
	filename := fmt.Sprintf("%s_%s_%s.log", symbol, interval, timestamp)
	logPath := filepath.Join(logDir, filename)

	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	logger := log.New(file, "", 0)

	l := &Logger{
		symbol:   symbol,
		interval: interval,
		logFile:  file,
		logger:   logger,
		logPath:  logPath,
	}

	l.writeSessionHeader()

	return l, nil
}

func (l *Logger) writeSessionHeader() {
	l.mu.Lock()
	defer l.mu.Unlock()

	header := fmt.Sprintf(`
================================================================================
🔍 LEGEND CANDLE SCAN STARTED
================================================================================
Symbol: %s | Interval: %s
Started: %s
================================================================================
`, l.symbol, l.interval, time.Now().Format("2006-01-02 15:04:05"))

	l.logger.Print(header)
}

// Log writes a formatted log entry with the specified level
func (l *Logger) Log(level LogLevel, format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	timestamp := time.Now().Format("2006-01-02 15:04:05")
	message := fmt.Sprintf(format, args...)
	l.logger.Printf("[%s] [%s] %s", timestamp, level, message)
}

// Info logs an info message
func (l *Logger) Info(format string, args ...interface{}) {
	l.Log(LogLevelInfo, format, args...)
}

// Warning logs a warning message
func (l *Logger) Warning(format string, args ...interface{}) {
	l.Log(LogLevelWarning, format, args...)
}

// Error logs an error message
func (l *Logger) Error(format string, args ...interface{}) {
	l.Log(LogLevelError, format, args...)
}

// LogLegendCandle logs one detected legend candle with its thresholds
func (l *Logger) LogLegendCandle(no int, candleTime time.Time, dynamicThreshold float64, upward, downward string) {
	l.Log(LogLevelLegend, "#%d %s threshold=%.4f%% up=%s down=%s",
		no, candleTime.Format("2006-01-02 15:04:05"), dynamicThreshold, upward, downward)
}

// LogScanSummary logs the run statistics at completion
func (l *Logger) LogScanSummary(totalCandles, legendCandles, successfulEntries int, successRate float64) {
	l.mu.Lock()
	defer l.mu.Unlock()

	summary := fmt.Sprintf(`
[%s] [STATUS] ==================== SCAN SUMMARY ====================
📊 Candles: %d | Legend Candles: %d
🎯 Successful Entries: %d | Success Rate: %.2f%%
========================================================`,
		time.Now().Format("2006-01-02 15:04:05"), totalCandles, legendCandles,
		successfulEntries, successRate*100)

	l.logger.Println(summary)
}

// LogError logs an error with context
func (l *Logger) LogError(context string, err error) {
	l.Error("%s: %v", context, err)
}

// Close closes the log file
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.logFile != nil {
		timestamp := time.Now().Format("2006-01-02 15:04:05")
		footer := fmt.Sprintf(`
================================================================================
🛑 LEGEND CANDLE SCAN ENDED
================================================================================
Ended: %s
================================================================================

`, timestamp)
		l.logger.Print(footer)

		return l.logFile.Close()
	}
	return nil
}

// GetLogPath returns the path the logger opened at construction
func (l *Logger) GetLogPath() string {
	return l.logPath
}
