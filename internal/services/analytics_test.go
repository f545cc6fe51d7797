package services

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyticsWritesUsageLines(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "logs", "usage.log")
	analytics := NewAnalyticsService(logPath)
	analytics.Start()

	analytics.Track("resume_analysis", "127.0.0.1")
	analytics.Track("chat", "unknown")
	analytics.Stop()

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)

	assert.Contains(t, lines[0], "| resume_analysis | ip=127.0.0.1")
	// Unknown clients get no ip segment.
	assert.Contains(t, lines[1], "| chat")
	assert.NotContains(t, lines[1], "ip=")

	for _, line := range lines {
		parts := strings.SplitN(line, " | ", 3)
		require.GreaterOrEqual(t, len(parts), 2)
		assert.NotEmpty(t, parts[0], "timestamp segment")
	}
}

func TestAnalyticsStopDrainsQueue(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "usage.log")
	analytics := NewAnalyticsService(logPath)
	analytics.Start()

	for i := 0; i < 20; i++ {
		analytics.Track("resume_grading", "10.0.0.1")
	}
	analytics.Stop()

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Equal(t, 20, strings.Count(string(data), "resume_grading"))
}

func TestAnalyticsTrackNeverBlocksOrPanics(t *testing.T) {
	// Not started: the buffer absorbs what fits, the rest is dropped.
	analytics := NewAnalyticsService(filepath.Join(t.TempDir(), "usage.log"))

	for i := 0; i < 1000; i++ {
		analytics.Track("chat", "")
	}

	analytics.Start()
	analytics.Stop()

	// Stopped: still safe to call.
	assert.NotPanics(t, func() {
		analytics.Track("chat", "")
	})
}

func TestAnalyticsSwallowsWriteFailures(t *testing.T) {
	// Point the log at an unwritable path, events must vanish silently.
	analytics := NewAnalyticsService("/dev/null/nope/usage.log")
	analytics.Start()

	assert.NotPanics(t, func() {
		analytics.Track("resume_analysis", "127.0.0.1")
		analytics.Stop()
	})
}
