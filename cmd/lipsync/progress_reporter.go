package main

import (
	"io"
	"log/slog"
	"sync"

	"lipsync/internal/logging"
	"lipsync/internal/progress"
)

// logReporter turns progress into sampled log lines when stderr is not a
// terminal.
type logReporter struct {
	mu      sync.Mutex
	logger  *slog.Logger
	sampler *logging.ProgressSampler
	stage   string
}

func (r *logReporter) ReportProgress(value float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if percent, ok := r.sampler.Sample(progress.Sanitize(value), r.stage); ok {
		r.logger.Info("progress", logging.String(logging.FieldStage, r.stage), logging.Int("percent", percent))
	}
}

// newProgressSink picks a terminal bar, sampled logging or nothing. The
// returned stop function is safe to call more than once.
func newProgressSink(out io.Writer, quiet bool, logger *slog.Logger) (progress.Sink, func()) {
	switch {
	case quiet:
		return progress.NullSink{}, func() {}
	case progress.IsTerminal(out):
		bar := progress.NewBar(out)
		return bar, bar.Close
	default:
		return &logReporter{
			logger:  logger,
			sampler: logging.NewProgressSampler(0),
			stage:   "recognize",
		}, func() {}
	}
}
