package progress

import (
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	"lipsync/internal/services"
)

type recordingSink struct {
	mu     sync.Mutex
	values []float64
}

func (r *recordingSink) ReportProgress(value float64) {
	r.mu.Lock()
	r.values = append(r.values, value)
	r.mu.Unlock()
}

func (r *recordingSink) last() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.values) == 0 {
		return math.NaN()
	}
	return r.values[len(r.values)-1]
}

func TestMergerWeightedMean(t *testing.T) {
	tests := []struct {
		name    string
		weights []float64
		values  []float64
		want    float64
	}{
		{name: "weighted", weights: []float64{1, 3}, values: []float64{0.5, 0.5}, want: 0.5},
		{name: "half done", weights: []float64{1, 1}, values: []float64{0, 1}, want: 0.5},
		{name: "heavy source dominates", weights: []float64{1, 3}, values: []float64{0, 1}, want: 0.75},
		{name: "single", weights: []float64{2}, values: []float64{0.25}, want: 0.25},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			upstream := &recordingSink{}
			merger := NewMerger(upstream)
			sinks := make([]Sink, len(tt.weights))
			for i, weight := range tt.weights {
				sink, err := merger.AddSink(weight)
				if err != nil {
					t.Fatalf("AddSink(%v): %v", weight, err)
				}
				sinks[i] = sink
			}
			for i, value := range tt.values {
				sinks[i].ReportProgress(value)
			}
			if got := upstream.last(); math.Abs(got-tt.want) > 1e-9 {
				t.Fatalf("merged = %v, want %v", got, tt.want)
			}
			if got := merger.Value(); math.Abs(got-tt.want) > 1e-9 {
				t.Fatalf("Value() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMergerRejectsInvalidWeights(t *testing.T) {
	merger := NewMerger(nil)
	for _, weight := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		if _, err := merger.AddSink(weight); !errors.Is(err, services.ErrInvalidArgument) {
			t.Fatalf("AddSink(%v) error = %v, want invalid argument", weight, err)
		}
	}
	if merger.SourceCount() != 0 {
		t.Fatalf("expected rejected sources to be ignored, got %d", merger.SourceCount())
	}
}

func TestMergerSanitizesValues(t *testing.T) {
	upstream := &recordingSink{}
	merger := NewMerger(upstream)
	sink, err := merger.AddSink(1)
	if err != nil {
		t.Fatal(err)
	}
	sink.ReportProgress(1.7)
	if got := upstream.last(); got != 1 {
		t.Fatalf("expected clamp to 1, got %v", got)
	}
	sink.ReportProgress(math.NaN())
	if got := upstream.last(); got != 0 {
		t.Fatalf("expected NaN to report 0, got %v", got)
	}
}

func TestMergerConcurrentReports(t *testing.T) {
	upstream := &recordingSink{}
	merger := NewMerger(upstream)
	const sources = 16
	sinks := make([]Sink, sources)
	for i := range sinks {
		sink, err := merger.AddSink(float64(i + 1))
		if err != nil {
			t.Fatal(err)
		}
		sinks[i] = sink
	}

	var wg sync.WaitGroup
	for _, sink := range sinks {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for step := 1; step <= 10; step++ {
				sink.ReportProgress(float64(step) / 10)
			}
		}()
	}
	wg.Wait()

	if got := merger.Value(); math.Abs(got-1) > 1e-9 {
		t.Fatalf("expected completion, got %v", got)
	}
	if got := upstream.last(); math.Abs(got-1) > 1e-9 {
		t.Fatalf("expected final upstream value 1, got %v", got)
	}
	upstream.mu.Lock()
	defer upstream.mu.Unlock()
	if n := len(upstream.values); n == 0 || n > sources*10 {
		t.Fatalf("expected between 1 and %d upstream reports, got %d", sources*10, n)
	}
	previous := 0.0
	for _, value := range upstream.values {
		if value < 0 || value > 1 {
			t.Fatalf("upstream value out of range: %v", value)
		}
		// Every source only moves forward, so merged order is non-decreasing.
		if value < previous-1e-12 {
			t.Fatalf("upstream went backwards: %v after %v", value, previous)
		}
		previous = value
	}
}

type queryingSink struct {
	merger *Merger
	seen   []float64
}

func (q *queryingSink) ReportProgress(value float64) {
	q.seen = append(q.seen, q.merger.Value(), float64(q.merger.SourceCount()))
}

func TestMergerUpstreamMayQueryMerger(t *testing.T) {
	upstream := &queryingSink{}
	merger := NewMerger(upstream)
	upstream.merger = merger
	sink, err := merger.AddSink(1)
	if err != nil {
		t.Fatal(err)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		sink.ReportProgress(0.25)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("report blocked while upstream queried the merger")
	}
	if len(upstream.seen) != 2 || upstream.seen[0] != 0.25 || upstream.seen[1] != 1 {
		t.Fatalf("unexpected upstream view: %v", upstream.seen)
	}
}

func TestForwarderAndNullSink(t *testing.T) {
	var got float64
	NewForwarder(func(v float64) { got = v }).ReportProgress(0.3)
	if got != 0.3 {
		t.Fatalf("forwarder delivered %v", got)
	}
	NewForwarder(nil).ReportProgress(0.3)
	NullSink{}.ReportProgress(0.3)
}
