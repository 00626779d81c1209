package main

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"lipsync/internal/progress"
)

func TestNewProgressSinkQuiet(t *testing.T) {
	sink, stop := newProgressSink(&bytes.Buffer{}, true, slog.Default())
	defer stop()
	if _, ok := sink.(progress.NullSink); !ok {
		t.Fatalf("expected NullSink, got %T", sink)
	}
}

func TestLogReporterSamplesBuckets(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))

	sink, stop := newProgressSink(&bytes.Buffer{}, false, logger)
	defer stop()
	if _, ok := sink.(*logReporter); !ok {
		t.Fatalf("expected log reporter for non-terminal output, got %T", sink)
	}
	for _, value := range []float64{0, 0.05, 0.1, 0.15, 0.2, 1, 1} {
		sink.ReportProgress(value)
	}
	if got := strings.Count(logs.String(), "msg=progress"); got != 4 {
		t.Fatalf("expected 4 progress lines, got %d:\n%s", got, logs.String())
	}
	if !strings.Contains(logs.String(), "percent=100") {
		t.Fatalf("expected completion line, got:\n%s", logs.String())
	}
}
