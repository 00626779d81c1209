package timeline

import (
	"fmt"

	"lipsync/internal/services"
)

// TimeRange is the half-open interval [start, end). The zero value is the
// empty range at 0.
type TimeRange struct {
	start Centiseconds
	end   Centiseconds
}

// NewTimeRange validates start <= end.
func NewTimeRange(start, end Centiseconds) (TimeRange, error) {
	if start > end {
		return TimeRange{}, services.InvalidArgument("time range start must not be greater than end (start: %s, end: %s)", start, end)
	}
	return TimeRange{start: start, end: end}, nil
}

// MustTimeRange is NewTimeRange for values known to be valid. It panics
// otherwise.
func MustTimeRange(start, end Centiseconds) TimeRange {
	r, err := NewTimeRange(start, end)
	if err != nil {
		panic(err)
	}
	return r
}

func (r TimeRange) Start() Centiseconds { return r.start }

func (r TimeRange) End() Centiseconds { return r.end }

// Duration returns end - start.
func (r TimeRange) Duration() Centiseconds { return r.end.Sub(r.start) }

// Midpoint returns (start+end)/2 truncated toward zero, so ranges before
// time zero round up.
func (r TimeRange) Midpoint() Centiseconds {
	return r.start.Add(r.end).Div(2)
}

// Empty reports start == end.
func (r TimeRange) Empty() bool { return r.start == r.end }

// Contains reports whether t lies in [start, end).
func (r TimeRange) Contains(t Centiseconds) bool {
	return t >= r.start && t < r.end
}

// Intersect returns the overlap of r and o. The boolean is false when the
// ranges share no time.
func (r TimeRange) Intersect(o TimeRange) (TimeRange, bool) {
	start := max(r.start, o.start)
	end := min(r.end, o.end)
	if start >= end {
		return TimeRange{}, false
	}
	return TimeRange{start: start, end: end}, true
}

// Resize replaces both edges.
func (r *TimeRange) Resize(start, end Centiseconds) error {
	next, err := NewTimeRange(start, end)
	if err != nil {
		return err
	}
	*r = next
	return nil
}

// Shift moves both edges by offset.
func (r *TimeRange) Shift(offset Centiseconds) {
	r.start = r.start.Add(offset)
	r.end = r.end.Add(offset)
}

// Shifted returns a copy moved by offset.
func (r TimeRange) Shifted(offset Centiseconds) TimeRange {
	r.Shift(offset)
	return r
}

// Grow moves start left and end right by amount. A negative amount shrinks.
func (r *TimeRange) Grow(amount Centiseconds) error {
	return r.Resize(r.start.Sub(amount), r.end.Add(amount))
}

// Shrink moves start right and end left by amount.
func (r *TimeRange) Shrink(amount Centiseconds) error {
	return r.Grow(amount.Neg())
}

// Trim clamps both edges to limits. Ranges that do not overlap limits fail.
func (r *TimeRange) Trim(limits TimeRange) error {
	return r.Resize(max(r.start, limits.start), min(r.end, limits.end))
}

// TrimLeft clamps only the start edge so it is not before limit.
func (r *TimeRange) TrimLeft(limit Centiseconds) error {
	return r.Resize(max(r.start, limit), r.end)
}

// TrimRight clamps only the end edge so it is not after limit.
func (r *TimeRange) TrimRight(limit Centiseconds) error {
	return r.Resize(r.start, min(r.end, limit))
}

// SetStartIfEarlier widens the range to begin at t when t precedes start.
func (r *TimeRange) SetStartIfEarlier(t Centiseconds) {
	if t < r.start {
		r.start = t
	}
}

// SetEndIfLater widens the range to finish at t when t follows end.
func (r *TimeRange) SetEndIfLater(t Centiseconds) {
	if t > r.end {
		r.end = t
	}
}

// Equal reports whether both edges match.
func (r TimeRange) Equal(o TimeRange) bool {
	return r == o
}

func (r TimeRange) String() string {
	return fmt.Sprintf("TimeRange(%s, %s)", r.start, r.end)
}
