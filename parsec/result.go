package parsec

import "fmt"

// Result is the outcome of running a Parser: either Ok with a value or Err
// with a message. Both variants carry the remaining stream and whether any
// input was consumed since the parser started.
type Result[C, T any] struct {
	ok       bool
	rest     Stream[C]
	consumed bool
	value    T
	msg      string
}

// Ok returns a successful Result.
func Ok[C, T any](rest Stream[C], consumed bool, value T) Result[C, T] {
	return Result[C, T]{ok: true, rest: rest, consumed: consumed, value: value}
}

// Err returns a failed Result.
func Err[C, T any](rest Stream[C], consumed bool, msg string) Result[C, T] {
	return Result[C, T]{rest: rest, consumed: consumed, msg: msg}
}

// IsOk reports whether r is the Ok variant.
func (r Result[C, T]) IsOk() bool { return r.ok }

// Rest returns the stream remaining after the attempt. For an Err it is the
// position at which parsing failed.
func (r Result[C, T]) Rest() Stream[C] { return r.rest }

// Consumed reports whether at least one token was read.
func (r Result[C, T]) Consumed() bool { return r.consumed }

// Value returns the parsed value, or the zero value for an Err.
func (r Result[C, T]) Value() T { return r.value }

// Message returns the failure message, or "" for an Ok.
func (r Result[C, T]) Message() string { return r.msg }

// Get returns the value and whether r is Ok.
func (r Result[C, T]) Get() (T, bool) { return r.value, r.ok }

// Error returns nil for an Ok and a *ParseError for an Err.
func (r Result[C, T]) Error() error {
	if r.ok {
		return nil
	}
	return &ParseError{Message: r.msg, Rest: r.rest}
}

func (r Result[C, T]) String() string {
	if r.ok {
		return fmt.Sprintf("Ok(%v, consumed=%t)", r.value, r.consumed)
	}
	return fmt.Sprintf("Err(%q, consumed=%t)", r.msg, r.consumed)
}

// withConsumed returns r with its consumed flag OR-ed with c.
func (r Result[C, T]) withConsumed(c bool) Result[C, T] {
	r.consumed = r.consumed || c
	return r
}

// MapResult applies f to the value of an Ok and passes an Err through.
func MapResult[C, T, U any](r Result[C, T], f func(T) U) Result[C, U] {
	if !r.ok {
		return Err[C, U](r.rest, r.consumed, r.msg)
	}
	return Ok(r.rest, r.consumed, f(r.value))
}

// MapResultError applies f to the message of an Err and passes an Ok through.
func MapResultError[C, T any](r Result[C, T], f func(string) string) Result[C, T] {
	if r.ok {
		return r
	}
	r.msg = f(r.msg)
	return r
}

// FlatMapResult feeds the value of an Ok to k. The combined result reports
// consumed if either step consumed.
func FlatMapResult[C, T, U any](r Result[C, T], k func(T) Result[C, U]) Result[C, U] {
	if !r.ok {
		return Err[C, U](r.rest, r.consumed, r.msg)
	}
	return k(r.value).withConsumed(r.consumed)
}

// ParseError is the error form of a failed Result.
type ParseError struct {
	Message string
	// Rest is the Stream[C] at which parsing failed; a Text when the input
	// was a string.
	Rest any
}

// Offset returns the position of the failure for streams that track one:
// a byte offset for Text, an index for Slice. It returns -1 otherwise.
func (e *ParseError) Offset() int {
	if o, ok := e.Rest.(interface{ Offset() int }); ok {
		return o.Offset()
	}
	return -1
}

func (e *ParseError) Error() string {
	if t, ok := e.Rest.(Text); ok && t.Len() > 0 {
		return fmt.Sprintf("%s (remaining %q)", e.Message, preview(t.String()))
	}
	return e.Message
}

const previewLen = 32

func preview(s string) string {
	n := 0
	for i := range s {
		if n == previewLen {
			return s[:i] + "..."
		}
		n++
	}
	return s
}
