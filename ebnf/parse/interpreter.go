package parse

import (
	"fmt"
	"strconv"
	"unicode"
	"unicode/utf8"

	"github.com/dhamidi/parsec/parsec"
	"github.com/tliron/commonlog"
	"golang.org/x/exp/ebnf"
)

type nodes = parsec.Parser[rune, []*Node]

// Interpreter parses text directly against an EBNF grammar.
//
// Each production becomes a parser built from parsec combinators:
//
//	a | b     Choice: alternatives in order, first match wins
//	a b       And, left to right
//	[ a ]     Optional
//	{ a }     Many
//	( a )     a
//	"lit"     String
//	"a" … "z" RuneRange
//	name      the production's parser, through Delay
//
// Productions whose name starts with a lower-case letter are lexical: they
// produce a single terminal node holding the matched text. Other
// productions produce interior nodes. An Interpreter is immutable once
// built and safe for concurrent use.
type Interpreter struct {
	skip string
	log  commonlog.Logger

	rules     map[string]parsec.Parser[rune, *Node]
	skipSpace parsec.Parser[rune, struct{}]
}

// Option configures an Interpreter.
type Option func(*Interpreter)

// WithSkip names a lexical production, typically white space or comments,
// that is skipped before every terminal of a non-lexical production and at
// the end of the input.
func WithSkip(production string) Option {
	return func(i *Interpreter) {
		i.skip = production
	}
}

// WithLogger traces production attempts at debug level.
func WithLogger(log commonlog.Logger) Option {
	return func(i *Interpreter) {
		i.log = log
	}
}

// NewInterpreter prepares g for parsing.
func NewInterpreter(g ebnf.Grammar, opts ...Option) (*Interpreter, error) {
	i := &Interpreter{
		rules:     make(map[string]parsec.Parser[rune, *Node], len(g)),
		skipSpace: parsec.Pure[rune](struct{}{}),
	}
	for _, opt := range opts {
		opt(i)
	}

	for name, prod := range g {
		i.rules[name] = parsec.Delay(func() parsec.Parser[rune, *Node] {
			return i.production(name, prod)
		})
	}

	if i.skip != "" {
		rule, ok := i.rules[i.skip]
		if !ok {
			return nil, fmt.Errorf("skip production %q not found in grammar", i.skip)
		}
		if !isLexical(i.skip) {
			return nil, fmt.Errorf("skip production %q must be lexical (lower-case name)", i.skip)
		}
		i.skipSpace = skipAll(rule)
	}

	return i, nil
}

// Parser returns the parser for the named production.
func (i *Interpreter) Parser(start string) (parsec.Parser[rune, *Node], error) {
	rule, ok := i.rules[start]
	if !ok {
		return nil, fmt.Errorf("production %q not found in grammar", start)
	}
	return rule, nil
}

// Parse parses all of input as the named production.
func (i *Interpreter) Parse(start, input string) (*Node, error) {
	rule, err := i.Parser(start)
	if err != nil {
		return nil, err
	}
	whole := parsec.AndSkip(parsec.AndSkip(rule, i.skipSpace), parsec.EOS[rune]())
	node, err := parsec.Parse(whole, input)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", start, err)
	}
	return node, nil
}

func isLexical(name string) bool {
	ch, _ := utf8.DecodeRuneInString(name)
	return !unicode.IsUpper(ch)
}

// production builds the parser for one production.
func (i *Interpreter) production(name string, prod *ebnf.Production) parsec.Parser[rune, *Node] {
	lexical := isLexical(name)

	body := i.expr(prod.Expr, lexical)
	spanned := parsec.And3(offset, body, offset)

	var p parsec.Parser[rune, *Node]
	if lexical {
		p = parsec.Map(spanned, func(v parsec.Tuple3[int, []*Node, int]) *Node {
			return NewTerminal(name, literal(v.V2), Span{v.V1, v.V3})
		})
	} else {
		p = parsec.Map(spanned, func(v parsec.Tuple3[int, []*Node, int]) *Node {
			n := NewNonTerminal(name)
			n.Span = Span{v.V1, v.V3}
			for _, child := range v.V2 {
				n.AddChild(child)
			}
			return n
		})
	}
	p = p.Label("expected " + name)

	if i.log == nil {
		return p
	}
	return i.trace(name, p)
}

func (i *Interpreter) trace(name string, p parsec.Parser[rune, *Node]) parsec.Parser[rune, *Node] {
	return func(s parsec.Stream[rune]) parsec.Result[rune, *Node] {
		at := offset(s).Value()
		i.log.Debugf("enter %s at %d", name, at)
		r := p(s)
		if r.IsOk() {
			i.log.Debugf("match %s [%d,%d)", name, at, offset(r.Rest()).Value())
		} else {
			i.log.Debugf("fail %s at %d: %s", name, at, r.Message())
		}
		return r
	}
}

// expr builds the parser for an expression inside a production. Inside
// non-lexical productions the skip production runs before each terminal.
func (i *Interpreter) expr(x ebnf.Expression, lexical bool) nodes {
	switch e := x.(type) {
	case nil:
		return parsec.Pure[rune, []*Node](nil)

	case ebnf.Alternative:
		alts := make([]nodes, len(e))
		for k, alt := range e {
			alts[k] = i.expr(alt, lexical)
		}
		return parsec.ChoiceMsg("no alternative matched", alts...)

	case ebnf.Sequence:
		seq := parsec.Pure[rune, []*Node](nil)
		for _, item := range e {
			seq = parsec.Map(parsec.And(seq, i.expr(item, lexical)), concat)
		}
		return seq

	case *ebnf.Group:
		return i.expr(e.Body, lexical)

	case *ebnf.Option:
		return parsec.Map(parsec.Optional(i.expr(e.Body, lexical)), func(o parsec.Option[[]*Node]) []*Node {
			return o.Value
		})

	case *ebnf.Repetition:
		return parsec.Map(parsec.Many(i.expr(e.Body, lexical)), flatten)

	case *ebnf.Token:
		lit := e.String
		tok := parsec.Map(parsec.And3(offset, parsec.String(lit), offset), func(v parsec.Tuple3[int, string, int]) []*Node {
			return []*Node{NewTerminal(strconv.Quote(lit), lit, Span{v.V1, v.V3})}
		})
		return i.skipped(tok, lexical)

	case *ebnf.Range:
		lo, hi, err := bounds(e)
		if err != nil {
			return parsec.Fail[rune, []*Node](err.Error())
		}
		r := parsec.Map(parsec.And3(offset, parsec.RuneRange(lo, hi), offset), func(v parsec.Tuple3[int, rune, int]) []*Node {
			return []*Node{NewTerminal("range", string(v.V2), Span{v.V1, v.V3})}
		})
		return i.skipped(r, lexical)

	case *ebnf.Name:
		rule, ok := i.rules[e.String]
		if !ok {
			return parsec.Failf[rune, []*Node]("undefined production %q", e.String)
		}
		one := parsec.Map(rule, func(n *Node) []*Node { return []*Node{n} })
		if isLexical(e.String) {
			return i.skipped(one, lexical)
		}
		return one

	case *ebnf.Bad:
		return parsec.Fail[rune, []*Node]("bad expression: " + e.Error)
	}

	return parsec.Failf[rune, []*Node]("unsupported expression %T", x)
}

func (i *Interpreter) skipped(p nodes, lexical bool) nodes {
	if lexical {
		return p
	}
	return parsec.SkipAnd(i.skipSpace, p)
}

// skipAll runs rule for as long as it matches and consumes input. Skip
// productions are usually nullable (ws = { " " } .), so a match of nothing
// ends the loop instead of failing.
func skipAll(rule parsec.Parser[rune, *Node]) parsec.Parser[rune, struct{}] {
	return func(s parsec.Stream[rune]) parsec.Result[rune, struct{}] {
		cur, consumed := s, false
		for {
			r := rule(cur)
			if !r.IsOk() || !r.Consumed() {
				return parsec.Ok(cur, consumed, struct{}{})
			}
			cur, consumed = r.Rest(), true
		}
	}
}

func bounds(r *ebnf.Range) (rune, rune, error) {
	lo, n := utf8.DecodeRuneInString(r.Begin.String)
	if n == 0 || n != len(r.Begin.String) {
		return 0, 0, fmt.Errorf("range start %q is not a single character", r.Begin.String)
	}
	hi, n := utf8.DecodeRuneInString(r.End.String)
	if n == 0 || n != len(r.End.String) {
		return 0, 0, fmt.Errorf("range end %q is not a single character", r.End.String)
	}
	return lo, hi, nil
}

// offset is a zero-width parser yielding the byte offset of the stream, or
// -1 for streams that are not Text.
var offset parsec.Parser[rune, int] = func(s parsec.Stream[rune]) parsec.Result[rune, int] {
	if t, ok := s.(parsec.Text); ok {
		return parsec.Ok(s, false, t.Offset())
	}
	return parsec.Ok(s, false, -1)
}

func literal(children []*Node) string {
	var text string
	for _, n := range children {
		text += n.Literal
	}
	return text
}

func concat(v parsec.Pair[[]*Node, []*Node]) []*Node {
	return append(v.First[:len(v.First):len(v.First)], v.Second...)
}

func flatten(groups [][]*Node) []*Node {
	var out []*Node
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}
