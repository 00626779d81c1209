package recognizer

import (
	"context"

	"lipsync/internal/progress"
	"lipsync/internal/speech"
	"lipsync/internal/timeline"
)

// Request describes one span of audio to recognize. Progress receives the
// completion of this request; nil discards it.
type Request struct {
	AudioPath  string
	Range      timeline.TimeRange
	DialogPath string
	Progress   progress.Sink
}

// Recognizer produces timed phones for a request. Implementations must be
// safe for concurrent use.
type Recognizer interface {
	Name() string
	Recognize(ctx context.Context, req Request) ([]timeline.Timed[speech.Phone], error)
}
