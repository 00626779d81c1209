package timeline

import "fmt"

// Timed pairs a value with the range it applies to.
type Timed[T any] struct {
	Range TimeRange
	Value T
}

// NewTimed validates the range and returns the pair.
func NewTimed[T any](start, end Centiseconds, value T) (Timed[T], error) {
	r, err := NewTimeRange(start, end)
	if err != nil {
		return Timed[T]{}, err
	}
	return Timed[T]{Range: r, Value: value}, nil
}

// At builds a Timed value and panics on an invalid range. Intended for
// literals in tables and tests.
func At[T any](start, end Centiseconds, value T) Timed[T] {
	return Timed[T]{Range: MustTimeRange(start, end), Value: value}
}

func (t Timed[T]) Start() Centiseconds { return t.Range.Start() }

func (t Timed[T]) End() Centiseconds { return t.Range.End() }

func (t Timed[T]) Duration() Centiseconds { return t.Range.Duration() }

func (t Timed[T]) String() string {
	return fmt.Sprintf("Timed(%s, %s, %v)", t.Range.Start(), t.Range.End(), t.Value)
}
