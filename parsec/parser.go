package parsec

import (
	"fmt"
	"strconv"
	"sync"
)

// Parser maps a Stream to a Result. Parsers hold no mutable state: the same
// Parser may run any number of times, from any goroutine, against
// independent streams.
type Parser[C, T any] func(Stream[C]) Result[C, T]

// Run runs p on s.
func (p Parser[C, T]) Run(s Stream[C]) Result[C, T] {
	return p(s)
}

// Pure succeeds with v without reading input.
func Pure[C, T any](v T) Parser[C, T] {
	return func(s Stream[C]) Result[C, T] {
		return Ok(s, false, v)
	}
}

// Fail fails with msg without reading input.
func Fail[C, T any](msg string) Parser[C, T] {
	return func(s Stream[C]) Result[C, T] {
		return Err[C, T](s, false, msg)
	}
}

// Failf is Fail with a formatted message.
func Failf[C, T any](format string, args ...any) Parser[C, T] {
	return Fail[C, T](fmt.Sprintf(format, args...))
}

// Delay defers building a parser until it first runs. Rules that refer to
// themselves, directly or through other rules, are written with Delay so
// that constructing the grammar terminates:
//
//	var expr parsec.Parser[rune, int]
//	expr = parsec.Delay(func() parsec.Parser[rune, int] {
//		return parsec.Between(parsec.Rune('('), expr, parsec.Rune(')')).Or(parsec.Int())
//	})
//
// The factory runs at most once.
func Delay[C, T any](factory func() Parser[C, T]) Parser[C, T] {
	var (
		once sync.Once
		p    Parser[C, T]
	)
	return func(s Stream[C]) Result[C, T] {
		once.Do(func() { p = factory() })
		return p(s)
	}
}

// EOS succeeds only at the end of the stream. It never consumes.
func EOS[C any]() Parser[C, struct{}] {
	return func(s Stream[C]) Result[C, struct{}] {
		if head, _, ok := s.Next(); ok {
			return Err[C, struct{}](s, false, "expected end of input, got "+describeRest(s, head))
		}
		return Ok(s, false, struct{}{})
	}
}

// Any reads one token.
func Any[C any]() Parser[C, C] {
	return func(s Stream[C]) Result[C, C] {
		head, tail, ok := s.Next()
		if !ok {
			return Err[C, C](s, false, "expected input, got none")
		}
		return Ok(tail, true, head)
	}
}

// Satisfy reads one token for which pred holds. desc names the expected
// token in the failure message. A rejected token is not consumed.
func Satisfy[C any](pred func(C) bool, desc string) Parser[C, C] {
	return func(s Stream[C]) Result[C, C] {
		head, tail, ok := s.Next()
		if !ok {
			return Err[C, C](s, false, "expected "+desc+", stream ended prematurely")
		}
		if !pred(head) {
			return Err[C, C](s, false, "expected "+desc+", got "+show(head))
		}
		return Ok(tail, true, head)
	}
}

// Map applies f to the value of a successful parse.
func Map[C, T, U any](p Parser[C, T], f func(T) U) Parser[C, U] {
	return func(s Stream[C]) Result[C, U] {
		return MapResult(p(s), f)
	}
}

// MapError applies f to the message of a failed parse.
func (p Parser[C, T]) MapError(f func(string) string) Parser[C, T] {
	return func(s Stream[C]) Result[C, T] {
		return MapResultError(p(s), f)
	}
}

// FlatMap runs p and then the parser k builds from p's value on the
// remaining input. The result is consumed if either step consumed.
func FlatMap[C, T, U any](p Parser[C, T], k func(T) Parser[C, U]) Parser[C, U] {
	return func(s Stream[C]) Result[C, U] {
		r := p(s)
		return FlatMapResult(r, func(v T) Result[C, U] {
			return k(v)(r.rest)
		})
	}
}

// Filter fails with msg when p succeeds with a value rejected by pred. The
// failure keeps p's remaining stream and consumed flag.
func (p Parser[C, T]) Filter(pred func(T) bool, msg string) Parser[C, T] {
	return func(s Stream[C]) Result[C, T] {
		r := p(s)
		if r.ok && !pred(r.value) {
			return Err[C, T](r.rest, r.consumed, msg)
		}
		return r
	}
}

// Collect applies the partial function f to p's value and fails with msg
// where f is undefined.
func Collect[C, T, U any](p Parser[C, T], f func(T) (U, bool), msg string) Parser[C, U] {
	return func(s Stream[C]) Result[C, U] {
		r := p(s)
		if !r.ok {
			return Err[C, U](r.rest, r.consumed, r.msg)
		}
		u, ok := f(r.value)
		if !ok {
			return Err[C, U](r.rest, r.consumed, msg)
		}
		return Ok(r.rest, r.consumed, u)
	}
}

// Try runs p and, if it fails, rewinds to where p started: the failure
// reports the original stream and consumed=false however far p got.
func (p Parser[C, T]) Try() Parser[C, T] {
	return func(s Stream[C]) Result[C, T] {
		r := p(s)
		if r.ok {
			return r
		}
		return Err[C, T](s, false, r.msg)
	}
}

// Or runs p, and runs q on the same input only if p failed without
// consuming. Once p has consumed input its result stands, success or not;
// wrap p in Try to allow backtracking.
func (p Parser[C, T]) Or(q Parser[C, T]) Parser[C, T] {
	return func(s Stream[C]) Result[C, T] {
		r := p(s)
		if r.ok || r.consumed {
			return r
		}
		return q(s)
	}
}

// Lookahead runs p and, on success, keeps its value without advancing.
// Failures are returned unchanged.
func (p Parser[C, T]) Lookahead() Parser[C, T] {
	return func(s Stream[C]) Result[C, T] {
		r := p(s)
		if !r.ok {
			return r
		}
		return Ok(s, false, r.value)
	}
}

// Label replaces the message of a failure that consumed nothing, so the
// error names the rule rather than its first token.
func (p Parser[C, T]) Label(msg string) Parser[C, T] {
	return func(s Stream[C]) Result[C, T] {
		r := p(s)
		if !r.ok && !r.consumed {
			r.msg = msg
		}
		return r
	}
}

// NotFollowedBy succeeds without consuming when p fails at this position.
func NotFollowedBy[C, T any](p Parser[C, T]) Parser[C, struct{}] {
	return func(s Stream[C]) Result[C, struct{}] {
		if r := p(s); r.ok {
			return Err[C, struct{}](s, false, "unexpected "+show(r.value))
		}
		return Ok(s, false, struct{}{})
	}
}

func show(v any) string {
	switch x := v.(type) {
	case rune:
		return strconv.QuoteRune(x)
	case byte:
		return strconv.QuoteRune(rune(x))
	case string:
		return strconv.Quote(x)
	case []rune:
		return strconv.Quote(string(x))
	case fmt.Stringer:
		return x.String()
	}
	return fmt.Sprintf("%v", v)
}

func describeRest[C any](s Stream[C], head C) string {
	if t, ok := any(s).(Text); ok {
		return strconv.Quote(preview(t.String()))
	}
	return show(head)
}
