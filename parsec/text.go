package parsec

import (
	"strconv"
	"strings"
	"unicode"
)

// Rune matches r.
func Rune(r rune) Parser[rune, rune] {
	return Exactly(r)
}

// String matches the literal s.
func String(s string) Parser[rune, string] {
	return Map(ExactlySeq([]rune(s)), func([]rune) string { return s })
}

// RuneIn matches any rune contained in set.
func RuneIn(set string) Parser[rune, rune] {
	return Satisfy(func(r rune) bool { return strings.ContainsRune(set, r) }, "one of "+strconv.Quote(set))
}

// RuneRange matches a rune in the inclusive range lo..hi.
func RuneRange(lo, hi rune) Parser[rune, rune] {
	desc := strconv.QuoteRune(lo) + "…" + strconv.QuoteRune(hi)
	return Satisfy(func(r rune) bool { return lo <= r && r <= hi }, desc)
}

// Letter matches a Unicode letter.
func Letter() Parser[rune, rune] {
	return Satisfy(unicode.IsLetter, "letter")
}

// Digit matches an ASCII decimal digit.
func Digit() Parser[rune, rune] {
	return Satisfy(func(r rune) bool { return '0' <= r && r <= '9' }, "digit")
}

// Space matches a Unicode white space rune.
func Space() Parser[rune, rune] {
	return Satisfy(unicode.IsSpace, "space")
}

// Spaces skips zero or more white space runes.
func Spaces() Parser[rune, struct{}] {
	return Map(Many(Space()), func([]rune) struct{} { return struct{}{} })
}

// Token runs p and skips the white space that follows it.
func Token[T any](p Parser[rune, T]) Parser[rune, T] {
	return AndSkip(p, Spaces())
}

// Concat joins the runes produced by p into a string.
func Concat(p Parser[rune, []rune]) Parser[rune, string] {
	return Map(p, func(rs []rune) string { return string(rs) })
}

// Int matches an optionally signed decimal integer.
func Int() Parser[rune, int] {
	digits := And(Optional(RuneIn("+-")), Plus(Digit()))
	return Collect(digits, func(v Pair[Option[rune], []rune]) (int, bool) {
		text := string(v.Second)
		if v.First.Present {
			text = string(v.First.Value) + text
		}
		n, err := strconv.Atoi(text)
		return n, err == nil
	}, "integer out of range").Label("expected integer")
}

// Parse runs p over input and requires it to consume all of it.
func Parse[T any](p Parser[rune, T], input string) (T, error) {
	r := AndSkip(p, EOS[rune]())(FromString(input))
	return r.Value(), r.Error()
}
