package progress

import (
	"math"
	"sync"

	"lipsync/internal/services"
)

// Merger reports the weighted mean of its sources to an upstream sink every
// time any source reports. It is safe for concurrent use; sources handed to
// pool jobs keep the merger alive for as long as they are referenced.
//
// The upstream sink is called without the state lock held, so it may query
// the merger. Concurrent reports reach upstream in the order they were
// merged; a mean overtaken by a newer one is dropped instead of sent late.
type Merger struct {
	sink Sink

	mu          sync.Mutex
	totalWeight float64
	weights     []float64
	values      []float64
	merged      uint64

	sendMu sync.Mutex
	sent   uint64
}

// NewMerger creates a merger with no sources. A nil sink discards the merged
// value.
func NewMerger(sink Sink) *Merger {
	if sink == nil {
		sink = NullSink{}
	}
	return &Merger{sink: sink}
}

// AddSink registers a source with the given weight and returns the sink the
// source reports into. Weight must be positive and finite.
func (m *Merger) AddSink(weight float64) (Sink, error) {
	if !(weight > 0) || math.IsInf(weight, 0) {
		return nil, services.InvalidArgument("progress weight must be positive, got %v", weight)
	}
	m.mu.Lock()
	index := len(m.weights)
	m.weights = append(m.weights, weight)
	m.values = append(m.values, 0)
	m.totalWeight += weight
	m.mu.Unlock()

	return NewForwarder(func(value float64) {
		m.report(index, value)
	}), nil
}

// Value returns the current weighted mean, or 0 without sources.
func (m *Merger) Value() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.meanLocked()
}

// SourceCount returns the number of registered sources.
func (m *Merger) SourceCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.weights)
}

func (m *Merger) report(index int, value float64) {
	m.mu.Lock()
	m.values[index] = Sanitize(value)
	m.merged++
	seq, mean := m.merged, m.meanLocked()
	m.mu.Unlock()

	m.sendMu.Lock()
	defer m.sendMu.Unlock()
	if seq <= m.sent {
		return
	}
	m.sent = seq
	m.sink.ReportProgress(mean)
}

func (m *Merger) meanLocked() float64 {
	if m.totalWeight == 0 {
		return 0
	}
	var weighted float64
	for i, weight := range m.weights {
		weighted += weight * m.values[i]
	}
	return weighted / m.totalWeight
}
