package progress

import (
	"io"
	"math"
	"os"

	"github.com/mattn/go-isatty"
)

// Sink receives progress values in [0,1]. Implementations should be cheap;
// a Merger serializes its upstream calls but holds no state lock during them.
type Sink interface {
	ReportProgress(value float64)
}

// NullSink discards progress.
type NullSink struct{}

func (NullSink) ReportProgress(float64) {}

// Forwarder relays every value to a callback.
type Forwarder struct {
	callback func(float64)
}

// NewForwarder wraps callback. A nil callback discards values.
func NewForwarder(callback func(float64)) *Forwarder {
	return &Forwarder{callback: callback}
}

func (f *Forwarder) ReportProgress(value float64) {
	if f == nil || f.callback == nil {
		return
	}
	f.callback(value)
}

// Sanitize clamps value into [0,1]; NaN becomes 0.
func Sanitize(value float64) float64 {
	if math.IsNaN(value) {
		return 0
	}
	return math.Min(1, math.Max(0, value))
}

// IsTerminal reports whether w is an interactive terminal.
func IsTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
