package parsec

import "fmt"

// Pair holds the values of two parsers run in sequence.
type Pair[A, B any] struct {
	First  A
	Second B
}

// Tuple3 holds the values of And3.
type Tuple3[A, B, D any] struct {
	V1 A
	V2 B
	V3 D
}

// Tuple4 holds the values of And4.
type Tuple4[A, B, D, E any] struct {
	V1 A
	V2 B
	V3 D
	V4 E
}

// Tuple5 holds the values of And5.
type Tuple5[A, B, D, E, F any] struct {
	V1 A
	V2 B
	V3 D
	V4 E
	V5 F
}

// Option is the value of an Optional parser.
type Option[T any] struct {
	Value   T
	Present bool
}

// And runs p then q and pairs their values.
func And[C, A, B any](p Parser[C, A], q Parser[C, B]) Parser[C, Pair[A, B]] {
	return func(s Stream[C]) Result[C, Pair[A, B]] {
		ra := p(s)
		return FlatMapResult(ra, func(a A) Result[C, Pair[A, B]] {
			return MapResult(q(ra.rest), func(b B) Pair[A, B] {
				return Pair[A, B]{First: a, Second: b}
			})
		})
	}
}

// SkipAnd runs p then q and keeps q's value.
func SkipAnd[C, A, B any](p Parser[C, A], q Parser[C, B]) Parser[C, B] {
	return Map(And(p, q), func(v Pair[A, B]) B { return v.Second })
}

// AndSkip runs p then q and keeps p's value.
func AndSkip[C, A, B any](p Parser[C, A], q Parser[C, B]) Parser[C, A] {
	return Map(And(p, q), func(v Pair[A, B]) A { return v.First })
}

// Between runs open, p and close in sequence and keeps p's value.
func Between[C, O, T, E any](open Parser[C, O], p Parser[C, T], close Parser[C, E]) Parser[C, T] {
	return AndSkip(SkipAnd(open, p), close)
}

// And3 runs three parsers in sequence and collects their values.
func And3[C, A, B, D any](pa Parser[C, A], pb Parser[C, B], pd Parser[C, D]) Parser[C, Tuple3[A, B, D]] {
	return Map(And(And(pa, pb), pd), func(v Pair[Pair[A, B], D]) Tuple3[A, B, D] {
		return Tuple3[A, B, D]{v.First.First, v.First.Second, v.Second}
	})
}

// And4 is And3 for four parsers.
func And4[C, A, B, D, E any](pa Parser[C, A], pb Parser[C, B], pd Parser[C, D], pe Parser[C, E]) Parser[C, Tuple4[A, B, D, E]] {
	return Map(And(And3(pa, pb, pd), pe), func(v Pair[Tuple3[A, B, D], E]) Tuple4[A, B, D, E] {
		return Tuple4[A, B, D, E]{v.First.V1, v.First.V2, v.First.V3, v.Second}
	})
}

// And5 is And3 for five parsers.
func And5[C, A, B, D, E, F any](pa Parser[C, A], pb Parser[C, B], pd Parser[C, D], pe Parser[C, E], pf Parser[C, F]) Parser[C, Tuple5[A, B, D, E, F]] {
	return Map(And(And4(pa, pb, pd, pe), pf), func(v Pair[Tuple4[A, B, D, E], F]) Tuple5[A, B, D, E, F] {
		return Tuple5[A, B, D, E, F]{v.First.V1, v.First.V2, v.First.V3, v.First.V4, v.Second}
	})
}

func noProgress(name string) string {
	return name + ": parser succeeded without consuming input"
}

// Many runs p until it fails and returns the values of the successful runs.
// The failing attempt is rewound, so Many itself never fails on account of
// p. It is an error for p to succeed without consuming, since repeating it
// would never terminate.
//
// Many runs in constant stack space regardless of the number of repetitions.
func Many[C, T any](p Parser[C, T]) Parser[C, []T] {
	return func(s Stream[C]) Result[C, []T] {
		var (
			out      = []T{}
			cur      = s
			consumed bool
		)
		for {
			r := p(cur)
			if !r.ok {
				return Ok(cur, consumed, out)
			}
			if !r.consumed {
				return Err[C, []T](cur, consumed, noProgress("many"))
			}
			out = append(out, r.value)
			cur = r.rest
			consumed = true
		}
	}
}

// Plus is Many requiring at least one match.
func Plus[C, T any](p Parser[C, T]) Parser[C, []T] {
	return Map(And(p, Many(p)), prepend[T])
}

// Until collects values of p until end matches, and returns them with end's
// value. end is tried first at every step; a failed end is rewound before p
// runs. A failure of p is returned as is, with everything read so far
// counted as consumed.
//
// Until runs in constant stack space regardless of the number of repetitions.
func Until[C, T, E any](p Parser[C, T], end Parser[C, E]) Parser[C, Pair[[]T, E]] {
	return func(s Stream[C]) Result[C, Pair[[]T, E]] {
		var (
			out      = []T{}
			cur      = s
			consumed bool
		)
		for {
			if re := end(cur); re.ok {
				return Ok(re.rest, consumed || re.consumed, Pair[[]T, E]{First: out, Second: re.value})
			}
			r := p(cur)
			if !r.ok {
				return Err[C, Pair[[]T, E]](r.rest, consumed || r.consumed, r.msg)
			}
			if !r.consumed {
				return Err[C, Pair[[]T, E]](cur, consumed, noProgress("until"))
			}
			out = append(out, r.value)
			cur = r.rest
			consumed = true
		}
	}
}

// Repeat runs p exactly n times.
func Repeat[C, T any](p Parser[C, T], n int) Parser[C, []T] {
	return func(s Stream[C]) Result[C, []T] {
		var (
			out      = make([]T, 0, max(n, 0))
			cur      = s
			consumed bool
		)
		for range n {
			r := p(cur)
			if !r.ok {
				return Err[C, []T](r.rest, consumed || r.consumed, r.msg)
			}
			out = append(out, r.value)
			cur = r.rest
			consumed = consumed || r.consumed
		}
		return Ok(cur, consumed, out)
	}
}

// SeparatedBy matches zero or more p separated by sep. A trailing separator
// is left unconsumed.
func SeparatedBy[C, T, S any](p Parser[C, T], sep Parser[C, S]) Parser[C, []T] {
	return SeparatedBy1(p, sep).Or(Pure[C]([]T{}))
}

// SeparatedBy1 is SeparatedBy requiring at least one p.
func SeparatedBy1[C, T, S any](p Parser[C, T], sep Parser[C, S]) Parser[C, []T] {
	return Map(And(p, Many(SkipAnd(sep, p))), prepend[T])
}

// Choice tries each parser in order on the same input and returns the first
// success. Every alternative is rewound on failure, so a later alternative
// is tried even if an earlier one consumed input. If all fail, Choice fails
// with "no match".
func Choice[C, T any](ps ...Parser[C, T]) Parser[C, T] {
	return ChoiceMsg("no match", ps...)
}

// ChoiceMsg is Choice with a custom failure message.
func ChoiceMsg[C, T any](msg string, ps ...Parser[C, T]) Parser[C, T] {
	alts := make([]Parser[C, T], len(ps))
	for i, p := range ps {
		alts[i] = p.Try()
	}
	return func(s Stream[C]) Result[C, T] {
		for _, alt := range alts {
			if r := alt(s); r.ok {
				return r
			}
		}
		return Err[C, T](s, false, msg)
	}
}

// Optional matches p or nothing. When p fails, however far it got, Optional
// succeeds with an absent value and consumes nothing.
func Optional[C, T any](p Parser[C, T]) Parser[C, Option[T]] {
	present := Map(p.Try(), func(v T) Option[T] {
		return Option[T]{Value: v, Present: true}
	})
	return present.Or(Pure[C](Option[T]{}))
}

// Exactly matches the token tok.
func Exactly[C comparable](tok C) Parser[C, C] {
	return Satisfy(func(c C) bool { return c == tok }, show(tok))
}

// ExactlySeq matches the tokens of seq in order. On a mismatch the failure
// points at the offending token and reports consumed if any of seq matched.
func ExactlySeq[C comparable](seq []C) Parser[C, []C] {
	seq = append([]C(nil), seq...)
	want := showSeq(seq)
	return func(s Stream[C]) Result[C, []C] {
		cur := s
		for i, tok := range seq {
			head, tail, ok := cur.Next()
			if !ok {
				return Err[C, []C](cur, i > 0, "expected "+want+", stream ended prematurely")
			}
			if head != tok {
				return Err[C, []C](cur, i > 0, "expected "+want+", got "+show(head))
			}
			cur = tail
		}
		return Ok(cur, len(seq) > 0, seq)
	}
}

func showSeq[C any](seq []C) string {
	if rs, ok := any(seq).([]rune); ok {
		return show(string(rs))
	}
	return fmt.Sprintf("%v", seq)
}

func prepend[T any](v Pair[T, []T]) []T {
	out := make([]T, 0, len(v.Second)+1)
	out = append(out, v.First)
	return append(out, v.Second...)
}
