package logging

import (
	"math"
	"strings"
)

// ProgressSampler thins the progress fractions a run reports down to one log
// line per step of percentage points, plus one whenever the stage changes.
type ProgressSampler struct {
	step   int
	stage  string
	bucket int
}

// NewProgressSampler returns a sampler that logs every step percentage
// points. A non-positive step means 10.
func NewProgressSampler(step int) *ProgressSampler {
	if step <= 0 {
		step = 10
	}
	return &ProgressSampler{step: step, bucket: -1}
}

// Sample converts fraction to whole percent and reports whether it should be
// logged. Negative or NaN fractions carry no progress and only log on a stage
// change. A nil sampler logs everything.
func (s *ProgressSampler) Sample(fraction float64, stage string) (int, bool) {
	known := fraction >= 0
	percent := 0
	if known {
		percent = int(math.Floor(math.Min(fraction, 1)*100 + 1e-9))
	}
	if s == nil {
		return percent, true
	}

	emit := false
	if stage = strings.TrimSpace(stage); stage != "" && stage != s.stage {
		s.stage, s.bucket, emit = stage, -1, true
	}
	if known {
		if bucket := percent / s.step; bucket > s.bucket {
			s.bucket, emit = bucket, true
		}
	}
	return percent, emit
}

// Reset forgets the last stage and bucket.
func (s *ProgressSampler) Reset() {
	if s == nil {
		return
	}
	s.stage = ""
	s.bucket = -1
}
