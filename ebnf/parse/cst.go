// Package parse interprets EBNF grammars with parser combinators, producing
// concrete syntax trees.
package parse

import (
	"fmt"
	"strings"
)

// Span is a range of byte offsets into the input.
type Span struct {
	Start int
	End   int
}

// Node represents a node in the concrete syntax tree.
// Terminals carry the matched Literal; interior nodes have Children.
type Node struct {
	Kind     string  // Production name, or the quoted literal for tokens
	Literal  string  // Matched text (terminals only)
	Children []*Node // Child nodes (nil for terminals)
	Span     Span    // Input range covered by this node
}

// IsTerminal returns true if this is a leaf node.
func (n *Node) IsTerminal() bool {
	return n.Children == nil
}

// Text returns the matched text of a terminal, or "" for interior nodes.
func (n *Node) Text() string {
	return n.Literal
}

// AddChild appends a child node and updates the span.
func (n *Node) AddChild(child *Node) {
	if child == nil {
		return
	}
	n.Children = append(n.Children, child)
	if len(n.Children) == 1 {
		n.Span.Start = child.Span.Start
	}
	n.Span.End = child.Span.End
}

// NewTerminal creates a leaf node.
func NewTerminal(kind, literal string, span Span) *Node {
	return &Node{
		Kind:    kind,
		Literal: literal,
		Span:    span,
	}
}

// NewNonTerminal creates an interior node.
func NewNonTerminal(kind string) *Node {
	return &Node{
		Kind:     kind,
		Children: make([]*Node, 0),
	}
}

// String renders the tree, one node per line, children indented.
func (n *Node) String() string {
	var b strings.Builder
	n.write(&b, 0)
	return b.String()
}

func (n *Node) write(b *strings.Builder, depth int) {
	b.WriteString(strings.Repeat("  ", depth))
	if n.IsTerminal() {
		fmt.Fprintf(b, "%s %q [%d,%d)\n", n.Kind, n.Literal, n.Span.Start, n.Span.End)
		return
	}
	fmt.Fprintf(b, "%s [%d,%d)\n", n.Kind, n.Span.Start, n.Span.End)
	for _, child := range n.Children {
		child.write(b, depth+1)
	}
}

// Find returns the nodes of the given kind in depth-first order.
func (n *Node) Find(kind string) []*Node {
	var out []*Node
	stack := []*Node{n}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if cur.Kind == kind {
			out = append(out, cur)
		}
		for i := len(cur.Children) - 1; i >= 0; i-- {
			stack = append(stack, cur.Children[i])
		}
	}
	return out
}
