package markup

import (
	"slices"
	"strings"
)

// Walk visits nodes in pre-order, parents before children and siblings in
// document order. When fn returns false the node's children are skipped.
func Walk(nodes []Node, fn func(Node) bool) {
	stack := make([]Node, 0, len(nodes))
	for i := len(nodes) - 1; i >= 0; i-- {
		stack = append(stack, nodes[i])
	}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !fn(n) {
			continue
		}
		if el, ok := n.(*Element); ok {
			for i := len(el.Children) - 1; i >= 0; i-- {
				stack = append(stack, el.Children[i])
			}
		}
	}
}

// Elements calls fn for every element in pre-order.
func Elements(nodes []Node, fn func(*Element)) {
	Walk(nodes, func(n Node) bool {
		if el, ok := n.(*Element); ok {
			fn(el)
		}
		return true
	})
}

// TextContent returns the concatenated text of n and all its descendants.
func TextContent(n Node) string {
	var sb strings.Builder
	Walk([]Node{n}, func(n Node) bool {
		if t, ok := n.(*Text); ok {
			sb.WriteString(t.Data)
		}
		return true
	})
	return sb.String()
}

// CountElements returns the number of elements in the forest.
func CountElements(nodes []Node) int {
	count := 0
	Elements(nodes, func(*Element) { count++ })
	return count
}

// Clone returns a deep copy of the forest.
func Clone(nodes []Node) []Node {
	type pending struct {
		src, dst *Element
	}
	var stack []pending

	copyNode := func(n Node) Node {
		switch v := n.(type) {
		case *Text:
			return &Text{Data: v.Data}
		case *Element:
			c := &Element{Tag: v.Tag, Namespace: v.Namespace, Attrs: slices.Clone(v.Attrs)}
			stack = append(stack, pending{src: v, dst: c})
			return c
		}
		return nil
	}

	out := make([]Node, len(nodes))
	for i, n := range nodes {
		out[i] = copyNode(n)
	}
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if len(p.src.Children) == 0 {
			continue
		}
		p.dst.Children = make([]Node, len(p.src.Children))
		for i, c := range p.src.Children {
			p.dst.Children[i] = copyNode(c)
		}
	}
	return out
}
