package parse

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/exp/ebnf"
)

// LoadGrammar loads an EBNF grammar from a file.
func LoadGrammar(filename string) (ebnf.Grammar, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("open grammar: %w", err)
	}
	defer f.Close()

	return ParseGrammar(filename, f)
}

// ParseGrammar reads an EBNF grammar from r. filename is used in error
// messages only.
func ParseGrammar(filename string, r io.Reader) (ebnf.Grammar, error) {
	g, err := ebnf.Parse(filename, r)
	if err != nil {
		return nil, fmt.Errorf("parse grammar: %w", err)
	}
	return g, nil
}

// Verify checks that every production reachable from start is defined and
// that lexical productions only refer to lexical productions.
func Verify(g ebnf.Grammar, start string) error {
	if err := ebnf.Verify(g, start); err != nil {
		return fmt.Errorf("verify grammar: %w", err)
	}
	return nil
}

// ParseText is a convenience function to parse input as the start production
// of g.
func ParseText(g ebnf.Grammar, input []byte, start string, opts ...Option) (*Node, error) {
	interp, err := NewInterpreter(g, opts...)
	if err != nil {
		return nil, err
	}
	return interp.Parse(start, string(input))
}
