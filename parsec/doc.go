// Package parsec provides parser combinators over arbitrary token streams.
//
// # Overview
//
// A grammar is assembled from small parsers rather than written as a
// hand-coded recursive-descent parser:
//
//	Stream[C] ──▶ Parser[C, T] ──▶ Result[C, T]
//	                                 ├── Ok:  value, rest, consumed
//	                                 └── Err: message, rest, consumed
//
// A Stream is an immutable position in the input. Text walks a string rune
// by rune, Slice walks a slice, and FromFunc/FromSeq wrap lazy sources.
// Advancing a stream returns a new stream; the old one stays valid, which is
// what makes rewinding free.
//
// # Consumption and backtracking
//
// Every Result records whether the parser read any input. Alternation with
// Or only tries its second branch when the first failed without consuming,
// so a failure deep inside a partially matched rule is reported where it
// happened instead of being hidden behind a sibling alternative:
//
//	kw := parsec.String("let").Or(parsec.String("lambda"))
//	kw.Run(parsec.FromString("lambda")) // Err: expected "let", got 'a'
//
// Backtracking is requested explicitly with Try, or implicitly by Choice and
// Optional, which rewind each failed alternative:
//
//	kw := parsec.Choice(parsec.String("let"), parsec.String("lambda"))
//	kw.Run(parsec.FromString("lambda")) // Ok: "lambda"
//
// # Repetition
//
// Many and Until loop rather than recurse, so they run in constant stack
// space however long the input is. A parser passed to Many that succeeds
// without consuming input is reported as an error rather than looping
// forever.
//
// # Recursion
//
// Self-referential rules are built with Delay, which postpones constructing
// the rule until it first runs.
//
// # Concurrency
//
// Parsers and streams are immutable values. A parser may run concurrently
// from many goroutines against independent streams without locking.
package parsec
