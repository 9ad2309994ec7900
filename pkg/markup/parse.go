package markup

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ErrUnparseable is returned when the input cannot be turned into a tree.
var ErrUnparseable = errors.New("markup could not be parsed")

// Parse builds the fragment tree for markup.
//
// Parsing follows the HTML5 tree-construction rules for a fragment whose
// context is a div, which is what a browser does for innerHTML: unclosed
// tags are closed, stray end tags are ignored, unknown tags become generic
// elements and attribute values may be quoted or bare. Tag and attribute
// names are lower-cased. When an attribute repeats, the first value wins.
func Parse(markup string) (nodes []Node, err error) {
	defer func() {
		if r := recover(); r != nil {
			nodes = nil
			err = fmt.Errorf("%w: %v", ErrUnparseable, r)
		}
	}()

	fragmentContext := &html.Node{
		Type:     html.ElementNode,
		Data:     "div",
		DataAtom: atom.Div,
	}
	parsed, err := html.ParseFragment(strings.NewReader(markup), fragmentContext)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnparseable, err)
	}
	return convert(parsed), nil
}

// convert maps x/net/html nodes onto the fragment tree.
func convert(roots []*html.Node) []Node {
	type pending struct {
		src *html.Node
		dst *Element
	}
	var stack []pending

	convertNode := func(n *html.Node) Node {
		switch n.Type {
		case html.TextNode:
			return &Text{Data: n.Data}
		case html.ElementNode:
			el := &Element{
				Tag:       strings.ToLower(n.Data),
				Namespace: n.Namespace,
				Attrs:     convertAttrs(n.Attr),
			}
			stack = append(stack, pending{src: n, dst: el})
			return el
		default:
			return nil
		}
	}

	out := make([]Node, 0, len(roots))
	for _, r := range roots {
		if c := convertNode(r); c != nil {
			out = append(out, c)
		}
	}
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for c := p.src.FirstChild; c != nil; c = c.NextSibling {
			if cn := convertNode(c); cn != nil {
				p.dst.Children = append(p.dst.Children, cn)
			}
		}
	}
	return out
}

func convertAttrs(attrs []html.Attribute) []Attr {
	if len(attrs) == 0 {
		return nil
	}
	out := make([]Attr, 0, len(attrs))
	seen := make(map[string]struct{}, len(attrs))
	for _, a := range attrs {
		name := strings.ToLower(a.Key)
		if a.Namespace != "" {
			name = a.Namespace + ":" + name
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, Attr{Name: name, Value: a.Val})
	}
	return out
}
