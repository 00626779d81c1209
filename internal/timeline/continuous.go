package timeline

import (
	"iter"
	"slices"
	"sort"
	"strings"
)

// ContinuousTimeline partitions a fixed range into consecutive segments.
// Segments are sorted, disjoint, non-empty, and together cover the range
// exactly; time nobody has written holds the default value.
type ContinuousTimeline[T comparable] struct {
	timeRange    TimeRange
	defaultValue T
	segments     []Timed[T]
	autoJoin     bool
}

// NewContinuousTimeline builds a timeline over r filled with defaultValue and
// applies entries in order, each one overwriting whatever it overlaps.
// Entries are clipped to r; entries entirely outside r are dropped.
func NewContinuousTimeline[T comparable](r TimeRange, defaultValue T, entries ...Timed[T]) *ContinuousTimeline[T] {
	tl := &ContinuousTimeline[T]{}
	tl.init(r, defaultValue, false, entries)
	return tl
}

func (tl *ContinuousTimeline[T]) init(r TimeRange, defaultValue T, autoJoin bool, entries []Timed[T]) {
	tl.timeRange = r
	tl.defaultValue = defaultValue
	tl.autoJoin = autoJoin
	tl.segments = nil
	if !r.Empty() {
		tl.segments = []Timed[T]{{Range: r, Value: defaultValue}}
	}
	for _, entry := range entries {
		tl.SetTimed(entry)
	}
}

// Range returns the covered range.
func (tl *ContinuousTimeline[T]) Range() TimeRange { return tl.timeRange }

// DefaultValue returns the fill value.
func (tl *ContinuousTimeline[T]) DefaultValue() T { return tl.defaultValue }

// Len returns the number of segments.
func (tl *ContinuousTimeline[T]) Len() int { return len(tl.segments) }

// Empty reports whether the timeline has no segments, which only happens
// when its range is empty.
func (tl *ContinuousTimeline[T]) Empty() bool { return len(tl.segments) == 0 }

// Set overwrites the content of r ∩ Range() with value. Degenerate and
// out-of-range writes are no-ops.
func (tl *ContinuousTimeline[T]) Set(r TimeRange, value T) {
	clipped, ok := r.Intersect(tl.timeRange)
	if !ok {
		return
	}
	start, end := clipped.start, clipped.end

	if tl.autoJoin {
		// Absorb touching neighbours that already hold the value.
		if start > tl.timeRange.start {
			if i := tl.indexCovering(start - 1); i < len(tl.segments) && tl.segments[i].Value == value {
				start = tl.segments[i].Range.start
			}
		}
		if j := tl.indexCovering(end); j < len(tl.segments) && tl.segments[j].Value == value {
			end = tl.segments[j].Range.end
		}
	}

	// Segments [first, last) intersect [start, end).
	first := tl.indexEndingAfter(start)
	last := sort.Search(len(tl.segments), func(i int) bool {
		return tl.segments[i].Range.start >= end
	})

	replacement := make([]Timed[T], 0, 3)
	if first < last {
		if head := tl.segments[first]; head.Range.start < start {
			head.Range.end = start
			replacement = append(replacement, head)
		}
	}
	replacement = append(replacement, Timed[T]{Range: TimeRange{start: start, end: end}, Value: value})
	if first < last {
		if tail := tl.segments[last-1]; tail.Range.end > end {
			tail.Range.start = end
			replacement = append(replacement, tail)
		}
	}
	tl.segments = slices.Replace(tl.segments, first, last, replacement...)
}

// SetTimed is Set for a Timed value.
func (tl *ContinuousTimeline[T]) SetTimed(entry Timed[T]) {
	tl.Set(entry.Range, entry.Value)
}

// Get returns the value at t. The boolean is false when t lies outside the
// timeline's range.
func (tl *ContinuousTimeline[T]) Get(t Centiseconds) (T, bool) {
	seg, ok := tl.SegmentAt(t)
	return seg.Value, ok
}

// SegmentAt returns the segment covering t.
func (tl *ContinuousTimeline[T]) SegmentAt(t Centiseconds) (Timed[T], bool) {
	i := tl.indexCovering(t)
	if i == len(tl.segments) {
		return Timed[T]{}, false
	}
	return tl.segments[i], true
}

// Shift translates the range and every segment by offset.
func (tl *ContinuousTimeline[T]) Shift(offset Centiseconds) {
	if offset == 0 {
		return
	}
	tl.timeRange.Shift(offset)
	for i := range tl.segments {
		tl.segments[i].Range.Shift(offset)
	}
}

// All iterates the segments earliest first. The timeline must not be
// mutated during iteration.
func (tl *ContinuousTimeline[T]) All() iter.Seq[Timed[T]] {
	return func(yield func(Timed[T]) bool) {
		for _, seg := range tl.segments {
			if !yield(seg) {
				return
			}
		}
	}
}

// Segments returns a copy of the segment list.
func (tl *ContinuousTimeline[T]) Segments() []Timed[T] {
	return slices.Clone(tl.segments)
}

// Equal compares range, default value, and segments.
func (tl *ContinuousTimeline[T]) Equal(o *ContinuousTimeline[T]) bool {
	if tl == nil || o == nil {
		return tl == o
	}
	return tl.timeRange == o.timeRange &&
		tl.defaultValue == o.defaultValue &&
		slices.Equal(tl.segments, o.segments)
}

// Clone returns an independent copy.
func (tl *ContinuousTimeline[T]) Clone() *ContinuousTimeline[T] {
	cp := *tl
	cp.segments = slices.Clone(tl.segments)
	return &cp
}

func (tl *ContinuousTimeline[T]) String() string {
	return formatSegments("ContinuousTimeline", tl.segments)
}

// indexCovering returns the index of the segment containing t, or
// len(segments) if none does.
func (tl *ContinuousTimeline[T]) indexCovering(t Centiseconds) int {
	i := tl.indexEndingAfter(t)
	if i < len(tl.segments) && tl.segments[i].Range.start <= t {
		return i
	}
	return len(tl.segments)
}

// indexEndingAfter returns the first segment whose end is after t.
func (tl *ContinuousTimeline[T]) indexEndingAfter(t Centiseconds) int {
	return sort.Search(len(tl.segments), func(i int) bool {
		return tl.segments[i].Range.end > t
	})
}

func formatSegments[T any](name string, segments []Timed[T]) string {
	var b strings.Builder
	b.WriteString(name)
	b.WriteByte('{')
	for i, seg := range segments {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(seg.String())
	}
	b.WriteByte('}')
	return b.String()
}
