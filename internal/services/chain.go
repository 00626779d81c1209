package services

import (
	"errors"
	"strings"
)

// Causer is implemented by errors that carry a context message separate from
// the cause they wrap. Context renders as its own line in MessageChain.
type Causer interface {
	error
	Context() string
	Unwrap() error
}

// ContextError attaches a human readable context line to a cause.
type ContextError struct {
	message string
	cause   error
}

// WithContext wraps err with a message describing what was being attempted.
// A nil err yields nil.
func WithContext(err error, message string) error {
	if err == nil {
		return nil
	}
	return &ContextError{message: strings.TrimSpace(message), cause: err}
}

func (e *ContextError) Error() string {
	if e.cause == nil {
		return e.message
	}
	return e.message + ": " + e.cause.Error()
}

// Context returns the message without the cause.
func (e *ContextError) Context() string { return e.message }

func (e *ContextError) Unwrap() error { return e.cause }

// MessageChain renders err as newline-joined messages, outermost first.
// ContextError links contribute their own message; the first error that is
// not a ContextError contributes its full text and ends the chain.
func MessageChain(err error) string {
	if err == nil {
		return ""
	}
	lines := make([]string, 0, 4)
	collectChain(err, &lines)
	return strings.Join(lines, "\n")
}

func collectChain(err error, lines *[]string) {
	for err != nil {
		causer, ok := err.(Causer)
		if !ok {
			*lines = append(*lines, err.Error())
			return
		}
		if msg := causer.Context(); msg != "" {
			*lines = append(*lines, msg)
		}
		err = errors.Unwrap(causer)
	}
}
