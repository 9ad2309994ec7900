// Package markup provides the fragment tree the cleaning pipeline works on.
//
// A fragment is parsed into a forest of Element and Text nodes. Comments,
// doctypes and processing instructions are not represented. Every walk over
// the tree uses an explicit stack, so deeply nested input does not grow the
// goroutine stack.
package markup

// Node is either an *Element or a *Text.
type Node interface {
	isNode()
}

// Attr is a single attribute. Names are lower-case as produced by Parse.
type Attr struct {
	Name  string `json:"name" yaml:"name"`
	Value string `json:"value" yaml:"value"`
}

// Element is a tag with ordered attributes and ordered children.
type Element struct {
	Tag      string
	Attrs    []Attr
	Children []Node

	// Namespace is empty for HTML and "svg" or "math" for foreign content.
	Namespace string
}

// Text is a run of character data.
type Text struct {
	Data string
}

func (*Element) isNode() {}
func (*Text) isNode()    {}

// RawText reports whether the element's text is emitted verbatim. Only HTML
// elements qualify: style and script inside svg or math hold ordinary,
// entity-decoded text.
func (e *Element) RawText() bool {
	return e.Namespace == "" && rawTextElements[e.Tag]
}

// OnlyText reports whether every child is a text node. It is false for an
// element without children.
func (e *Element) OnlyText() bool {
	if len(e.Children) == 0 {
		return false
	}
	for _, c := range e.Children {
		if _, ok := c.(*Text); !ok {
			return false
		}
	}
	return true
}
