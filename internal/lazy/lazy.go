// Package lazy provides a value computed on first use.
package lazy

import "sync"

// Value computes its content once, on the first Get. Concurrent callers block
// until the first computation finishes and then share its result, including
// its error.
type Value[T any] struct {
	mu    sync.Mutex
	init  func() (T, error)
	done  bool
	value T
	err   error
}

// New returns a Value computed by init.
func New[T any](init func() (T, error)) *Value[T] {
	return &Value[T]{init: init}
}

// Get computes the value on first call and returns the cached result after.
func (v *Value[T]) Get() (T, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.done {
		v.value, v.err = v.init()
		v.done = true
		v.init = nil
	}
	return v.value, v.err
}

// Initialized reports whether Get has already run the computation.
func (v *Value[T]) Initialized() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.done
}
