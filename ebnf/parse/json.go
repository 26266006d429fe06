package parse

import "encoding/json"

type jsonNode struct {
	Kind     string      `json:"kind"`
	Span     jsonSpan    `json:"span"`
	Text     string      `json:"text,omitempty"`
	Children []*jsonNode `json:"children,omitempty"`
}

type jsonSpan struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

func (n *Node) MarshalJSON() ([]byte, error) {
	return json.Marshal(n.toJSON())
}

func (n *Node) toJSON() *jsonNode {
	jn := &jsonNode{
		Kind: n.Kind,
		Span: jsonSpan{Start: n.Span.Start, End: n.Span.End},
		Text: n.Literal,
	}

	if len(n.Children) > 0 {
		jn.Children = make([]*jsonNode, len(n.Children))
		for i, child := range n.Children {
			jn.Children[i] = child.toJSON()
		}
	}

	return jn
}
