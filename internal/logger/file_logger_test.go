package logger

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func timeFixture() time.Time {
	return time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
}

// chdir is a stand-in for t.Chdir (added in Go 1.24) for older toolchains.
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(old); err != nil {
			t.Fatal(err)
		}
	})
}

// TestLogger_GetLogPath tests that the reported path is the file that was
// actually opened
func TestLogger_GetLogPath(t *testing.T) {
	chdir(t, t.TempDir())

	l, err := NewLogger("BTCUSDT", "1h")
	assert.NoError(t, err)
	defer l.Close()

	path := l.GetLogPath()
	assert.NotEmpty(t, path)

	// The opened file exists at the reported path
	_, statErr := os.Stat(path)
	assert.NoError(t, statErr)

	// The path is fixed at construction, not recomputed per call
	assert.Equal(t, path, l.GetLogPath())
}

// TestLogger_WritesEntries tests that log lines land in the session file
func TestLogger_WritesEntries(t *testing.T) {
	chdir(t, t.TempDir())

	l, err := NewLogger("ETHUSDT", "4h")
	assert.NoError(t, err)

	l.Info("scan starting with %d candles", 500)
	l.Warning("thin series")
	l.LogLegendCandle(1, timeFixture(), 1.25, "101.00", "99.00")
	l.LogScanSummary(500, 12, 9, 0.75)
	assert.NoError(t, l.Close())

	content, readErr := os.ReadFile(l.GetLogPath())
	assert.NoError(t, readErr)

	text := string(content)
	assert.Contains(t, text, "[INFO] scan starting with 500 candles")
	assert.Contains(t, text, "[WARN] thin series")
	assert.Contains(t, text, "[LEGEND] #1")
	assert.Contains(t, text, "SCAN SUMMARY")
	assert.Contains(t, text, "Success Rate: 75.00%")
}
