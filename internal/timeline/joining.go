package timeline

// JoiningTimeline is a ContinuousTimeline that never holds two adjacent
// segments with equal values: every write merges with matching neighbours on
// either side.
type JoiningTimeline[T comparable] struct {
	ContinuousTimeline[T]
}

// NewJoiningTimeline builds a joining timeline over r. Entries are applied in
// order through Set, so adjacent equal entries coalesce.
func NewJoiningTimeline[T comparable](r TimeRange, defaultValue T, entries ...Timed[T]) *JoiningTimeline[T] {
	tl := &JoiningTimeline[T]{}
	tl.init(r, defaultValue, true, entries)
	return tl
}

// Equal compares range, default value, and segments.
func (tl *JoiningTimeline[T]) Equal(o *JoiningTimeline[T]) bool {
	if tl == nil || o == nil {
		return tl == o
	}
	return tl.ContinuousTimeline.Equal(&o.ContinuousTimeline)
}

// Clone returns an independent copy.
func (tl *JoiningTimeline[T]) Clone() *JoiningTimeline[T] {
	return &JoiningTimeline[T]{ContinuousTimeline: *tl.ContinuousTimeline.Clone()}
}

// Continuous exposes the underlying timeline for code that only reads.
func (tl *JoiningTimeline[T]) Continuous() *ContinuousTimeline[T] {
	return &tl.ContinuousTimeline
}

func (tl *JoiningTimeline[T]) String() string {
	return formatSegments("JoiningTimeline", tl.segments)
}
