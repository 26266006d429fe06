package parsec

import (
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/sync/errgroup"
)

func TestAnd(t *testing.T) {
	p := And(Letter(), Digit())

	r := run(p, "a1")
	if diff := cmp.Diff(Pair[rune, rune]{'a', '1'}, r.Value()); diff != "" || !r.IsOk() {
		t.Errorf("And on \"a1\" = %v (-want +got):\n%s", r, diff)
	}

	tests := []struct {
		input    string
		message  string
		consumed bool
	}{
		{"11", "expected letter, got '1'", false},
		{"ab", "expected digit, got 'b'", true},
		{"a", "expected digit, stream ended prematurely", true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			r := run(p, tt.input)
			if r.IsOk() || r.Message() != tt.message || r.Consumed() != tt.consumed {
				t.Errorf("got %v, want message %q consumed=%v", r, tt.message, tt.consumed)
			}
		})
	}
}

func TestSkipAndAndSkip(t *testing.T) {
	if r := run(SkipAnd(Rune('$'), Digit()), "$5"); r.Value() != '5' {
		t.Errorf("SkipAnd value = %q", r.Value())
	}
	if r := run(AndSkip(Digit(), Rune(';')), "5;"); r.Value() != '5' || rest(r) != "" {
		t.Errorf("AndSkip = %v, rest %q", r, rest(r))
	}

	r := run(AndSkip(Rune('x'), EOS[rune]()), "xy")
	if r.IsOk() || !r.Consumed() {
		t.Errorf("trailing input should fail after consumption, got %v", r)
	}
	if ok := run(AndSkip(Rune('x'), EOS[rune]()), "x"); !ok.IsOk() {
		t.Errorf("got %v, want success", ok)
	}
}

func TestFixedArity(t *testing.T) {
	r3 := run(And3(Letter(), Digit(), Letter()), "a1b")
	if diff := cmp.Diff(Tuple3[rune, rune, rune]{'a', '1', 'b'}, r3.Value()); diff != "" {
		t.Errorf("And3 mismatch (-want +got):\n%s", diff)
	}

	r4 := run(And4(Letter(), Digit(), Letter(), Int()), "a1b-42")
	if diff := cmp.Diff(Tuple4[rune, rune, rune, int]{'a', '1', 'b', -42}, r4.Value()); diff != "" {
		t.Errorf("And4 mismatch (-want +got):\n%s", diff)
	}

	r5 := run(And5(Rune('<'), Letter(), Rune('='), Int(), Rune('>')), "<x=7>")
	want := Tuple5[rune, rune, rune, int, rune]{'<', 'x', '=', 7, '>'}
	if diff := cmp.Diff(want, r5.Value()); diff != "" || rest(r5) != "" {
		t.Errorf("And5 mismatch (-want +got):\n%s", diff)
	}

	failed := run(And5(Rune('<'), Letter(), Rune('='), Int(), Rune('>')), "<x=7")
	if failed.IsOk() || !failed.Consumed() {
		t.Errorf("And5 on truncated input = %v", failed)
	}
}

func TestBetween(t *testing.T) {
	p := Between(Rune('['), Concat(Many(Letter())), Rune(']'))
	if r := run(p, "[abc]!"); r.Value() != "abc" || rest(r) != "!" {
		t.Errorf("got %v, rest %q", r, rest(r))
	}
}

func TestMany(t *testing.T) {
	tests := []struct {
		input    string
		want     string
		rest     string
		consumed bool
	}{
		{"", "", "", false},
		{"1", "", "1", false},
		{"abc", "abc", "", true},
		{"ab1", "ab", "1", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			r := run(Concat(Many(Letter())), tt.input)
			if !r.IsOk() || r.Value() != tt.want || rest(r) != tt.rest || r.Consumed() != tt.consumed {
				t.Errorf("got %v rest %q, want %q rest %q consumed=%v", r, rest(r), tt.want, tt.rest, tt.consumed)
			}
		})
	}
}

func TestManyRewindsFailedIteration(t *testing.T) {
	pair := And(Letter(), Digit())

	r := run(Many(pair), "a1b2cd")
	if !r.IsOk() || len(r.Value()) != 2 || rest(r) != "cd" {
		t.Errorf("got %v rest %q, want 2 pairs and rest \"cd\"", r, rest(r))
	}
}

func TestManyEmptyIsNotNil(t *testing.T) {
	r := run(Many(Digit()), "")
	if r.Value() == nil {
		t.Errorf("Many returned a nil slice")
	}
}

func TestManyRejectsZeroProgress(t *testing.T) {
	p := Many(Optional(Digit()))

	r := run(p, "12x")
	if r.IsOk() {
		t.Fatalf("Many over a parser that succeeds without consuming should fail, got %v", r)
	}
	if want := "many: parser succeeded without consuming input"; r.Message() != want {
		t.Errorf("message = %q, want %q", r.Message(), want)
	}
	if !r.Consumed() || rest(r) != "x" {
		t.Errorf("failure should point at the stalled position: consumed=%v rest=%q", r.Consumed(), rest(r))
	}

	if r := run(Many(Pure[rune](1)), ""); r.IsOk() {
		t.Errorf("Many(Pure) = %v, want failure", r)
	}
}

func TestManyStackSafety(t *testing.T) {
	const n = 1_000_000
	input := strings.Repeat("a", n)

	r := run(Many(Rune('a')), input)
	if !r.IsOk() || len(r.Value()) != n {
		t.Fatalf("got ok=%v len=%d, want %d", r.IsOk(), len(r.Value()), n)
	}

	u := run(Until(Any[rune](), EOS[rune]()), input)
	if !u.IsOk() || len(u.Value().First) != n {
		t.Fatalf("Until got ok=%v len=%d, want %d", u.IsOk(), len(u.Value().First), n)
	}
}

func TestPlus(t *testing.T) {
	r := run(Plus(Digit()), "123abc")
	if diff := cmp.Diff([]rune{'1', '2', '3'}, r.Value()); diff != "" {
		t.Errorf("value mismatch (-want +got):\n%s", diff)
	}
	if rest(r) != "abc" {
		t.Errorf("rest = %q, want %q", rest(r), "abc")
	}

	failed := run(Plus(Digit()), "abc")
	if failed.IsOk() || failed.Consumed() || failed.Message() != "expected digit, got 'a'" {
		t.Errorf("Plus on \"abc\" = %v", failed)
	}
}

func TestUntil(t *testing.T) {
	p := Until(Any[rune](), String("!!"))

	r := run(p, "hi!!")
	if !r.IsOk() {
		t.Fatalf("got %v", r)
	}
	if diff := cmp.Diff(Pair[[]rune, string]{[]rune("hi"), "!!"}, r.Value()); diff != "" {
		t.Errorf("value mismatch (-want +got):\n%s", diff)
	}
	if rest(r) != "" || !r.Consumed() {
		t.Errorf("rest = %q consumed=%v", rest(r), r.Consumed())
	}

	// A partial terminator is read as content.
	r = run(p, "a!b!!")
	if diff := cmp.Diff([]rune("a!b"), r.Value().First); diff != "" {
		t.Errorf("value mismatch (-want +got):\n%s", diff)
	}

	failed := run(p, "hi")
	if failed.IsOk() {
		t.Fatalf("Until without terminator succeeded: %v", failed)
	}
	if rest(failed) != "" || !failed.Consumed() {
		t.Errorf("failure should not rewind: rest %q consumed=%v", rest(failed), failed.Consumed())
	}
	if failed.Message() != "expected input, got none" {
		t.Errorf("message = %q", failed.Message())
	}

	empty := run(p, "!!")
	if !empty.IsOk() || len(empty.Value().First) != 0 {
		t.Errorf("Until on terminator only = %v", empty)
	}
}

func TestUntilRejectsZeroProgress(t *testing.T) {
	r := run(Until(Pure[rune]('x'), Rune(';')), "ab;")
	if r.IsOk() || r.Message() != "until: parser succeeded without consuming input" {
		t.Errorf("got %v", r)
	}
}

func TestRepeat(t *testing.T) {
	tests := []struct {
		input string
		n     int
		want  string
		ok    bool
	}{
		{"abcd", 3, "abc", true},
		{"abcd", 0, "", true},
		{"ab", 3, "", false},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s/%d", tt.input, tt.n), func(t *testing.T) {
			r := run(Concat(Repeat(Letter(), tt.n)), tt.input)
			if r.IsOk() != tt.ok || (tt.ok && r.Value() != tt.want) {
				t.Errorf("got %v, want ok=%v value %q", r, tt.ok, tt.want)
			}
		})
	}

	failed := run(Repeat(Letter(), 3), "ab")
	if !failed.Consumed() || rest(failed) != "" {
		t.Errorf("failure should keep position: consumed=%v rest=%q", failed.Consumed(), rest(failed))
	}
}

func TestSeparatedBy(t *testing.T) {
	p := SeparatedBy(Rune('x'), Rune(','))

	tests := []struct {
		input string
		count int
		rest  string
	}{
		{"", 0, ""},
		{"y", 0, "y"},
		{"x", 1, ""},
		{"x,x,x", 3, ""},
		{"x,x,", 2, ","},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			r := run(p, tt.input)
			if !r.IsOk() {
				t.Fatalf("got %v, want success", r)
			}
			if len(r.Value()) != tt.count || rest(r) != tt.rest {
				t.Errorf("got %d items rest %q, want %d rest %q", len(r.Value()), rest(r), tt.count, tt.rest)
			}
		})
	}

	if r := run(SeparatedBy1(Rune('x'), Rune(',')), ""); r.IsOk() {
		t.Errorf("SeparatedBy1 on empty input = %v, want failure", r)
	}
}

func TestChoice(t *testing.T) {
	tag := func(name string, p Parser[rune, string]) Parser[rune, string] {
		return Map(p, func(string) string { return name })
	}

	p := Choice(tag("a", String("a")), tag("ab", String("ab")), tag("abc", String("abc")))
	r := run(p, "abc")
	if r.Value() != "a" || rest(r) != "bc" {
		t.Errorf("Choice should commit to the first success: got %v, rest %q", r, rest(r))
	}

	// Alternatives are rewound, unlike Or.
	q := Choice(String("let"), String("lambda"))
	if r := run(q, "lambda"); !r.IsOk() || r.Value() != "lambda" {
		t.Errorf("got %v", r)
	}
	if r := run(String("let").Or(String("lambda")), "lambda"); r.IsOk() {
		t.Errorf("Or should not backtrack, got %v", r)
	}

	if r := run(Choice(Rune('a'), Rune('b')), "b"); !r.IsOk() || r.Value() != 'b' {
		t.Errorf("got %v", r)
	}

	none := run(Choice(Rune('a'), Rune('b')), "c")
	if none.IsOk() || none.Message() != "no match" || none.Consumed() || rest(none) != "c" {
		t.Errorf("got %v", none)
	}

	custom := run(ChoiceMsg("expected operator", RuneIn("+-"), RuneIn("*/")), "%")
	if custom.Message() != "expected operator" {
		t.Errorf("message = %q", custom.Message())
	}

	if r := run(Choice[rune, rune](), "x"); r.IsOk() {
		t.Errorf("empty Choice succeeded: %v", r)
	}
}

func TestOptional(t *testing.T) {
	p := Optional(String("ab"))

	r := run(p, "abc")
	if diff := cmp.Diff(Option[string]{Value: "ab", Present: true}, r.Value()); diff != "" {
		t.Errorf("value mismatch (-want +got):\n%s", diff)
	}

	absent := run(p, "ac")
	if !absent.IsOk() || absent.Value().Present || absent.Consumed() || rest(absent) != "ac" {
		t.Errorf("got %v rest %q, want absent without consuming", absent, rest(absent))
	}
}

func TestExactly(t *testing.T) {
	tests := []struct {
		name    string
		p       Parser[rune, string]
		input   string
		message string
		rest    string
	}{
		{"token", Map(Exactly('x'), func(r rune) string { return string(r) }), "y", "expected 'x', got 'y'", "y"},
		{"token at end", Map(Exactly('x'), func(r rune) string { return string(r) }), "", "expected 'x', stream ended prematurely", ""},
		{"sequence", String("abc"), "abd", `expected "abc", got 'd'`, "d"},
		{"sequence at end", String("abc"), "ab", `expected "abc", stream ended prematurely`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := run(tt.p, tt.input)
			if r.IsOk() || r.Message() != tt.message || rest(r) != tt.rest {
				t.Errorf("got %v rest %q, want message %q rest %q", r, rest(r), tt.message, tt.rest)
			}
		})
	}

	tokens := ExactlySeq([]string{"let", "x"}).Run(FromSlice([]string{"let", "y"}))
	if want := "expected [let x], got \"y\""; tokens.Message() != want {
		t.Errorf("message = %q, want %q", tokens.Message(), want)
	}

	if r := run(String(""), "a"); !r.IsOk() || r.Consumed() {
		t.Errorf("empty literal = %v", r)
	}
}

func TestParse(t *testing.T) {
	word := Concat(Plus(Letter()))

	v, err := Parse(word, "hello")
	if err != nil || v != "hello" {
		t.Errorf("Parse = %q, %v", v, err)
	}

	_, err = Parse(word, "hello!")
	if err == nil {
		t.Fatal("trailing input accepted")
	}
	if want := `expected end of input, got "!" (remaining "!")`; err.Error() != want {
		t.Errorf("error = %q, want %q", err.Error(), want)
	}
}

func TestConcurrentRuns(t *testing.T) {
	list := Between(Token(Rune('[')), SeparatedBy(Token(Int()), Token(Rune(','))), Rune(']'))

	var g errgroup.Group
	for i := range 64 {
		g.Go(func() error {
			nums := make([]string, i%10)
			want := 0
			for j := range nums {
				nums[j] = fmt.Sprint(i * j)
				want += i * j
			}
			got, err := Parse(list, "["+strings.Join(nums, ", ")+"]")
			if err != nil {
				return err
			}
			sum := 0
			for _, n := range got {
				sum += n
			}
			if sum != want {
				return fmt.Errorf("goroutine %d: sum = %d, want %d", i, sum, want)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatal(err)
	}
}
