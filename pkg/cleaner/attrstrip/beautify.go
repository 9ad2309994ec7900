package attrstrip

import (
	"strings"
	"unicode/utf16"

	"github.com/jmylchreest/attrstrip/pkg/markup"
)

// inlineTextLimit is the text length, in UTF-16 code units, below which a
// text-only element stays on one line.
const inlineTextLimit = 50

// Beautify renders the forest as indented markup. Top-level nodes are
// separated by a blank line.
//
// Void elements print as a lone start tag. An element whose children are all
// text, with trimmed text shorter than inlineTextLimit UTF-16 code units and
// no newline, prints on one line. Characters outside the Basic Multilingual
// Plane, such as most emoji, count as two units. Any other element prints its start tag, one line per child at
// the next level and its end tag. Text is trimmed and blank text dropped.
func Beautify(nodes []markup.Node, indent string) string {
	blocks := make([]string, 0, len(nodes))
	for _, n := range nodes {
		switch v := n.(type) {
		case *markup.Text:
			if text := trimSpace(v.Data); text != "" {
				blocks = append(blocks, markup.EscapeText(text))
			}
		case *markup.Element:
			blocks = append(blocks, formatElement(v, indent))
		}
	}
	return strings.Join(blocks, "\n\n")
}

// formatElement lays out one top-level element.
func formatElement(root *markup.Element, indent string) string {
	type item struct {
		node   markup.Node
		parent *markup.Element
		depth  int
		line   string
	}

	var lines []string
	stack := []item{{node: root, depth: 0}}

	for len(stack) > 0 {
		it := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if it.node == nil {
			lines = append(lines, it.line)
			continue
		}
		pad := strings.Repeat(indent, it.depth)

		switch n := it.node.(type) {
		case *markup.Text:
			if text := trimSpace(n.Data); text != "" {
				lines = append(lines, pad+escapeIn(it.parent, text))
			}

		case *markup.Element:
			open := markup.OpenTag(n)
			closeTag := "</" + n.Tag + ">"

			if markup.VoidElements[n.Tag] {
				lines = append(lines, pad+open)
				continue
			}
			if len(n.Children) == 0 {
				lines = append(lines, pad+open+closeTag)
				continue
			}
			if n.OnlyText() {
				text := trimSpace(markup.TextContent(n))
				if utf16Len(text) < inlineTextLimit && !strings.Contains(text, "\n") {
					lines = append(lines, pad+open+escapeIn(n, text)+closeTag)
					continue
				}
			}

			lines = append(lines, pad+open)
			stack = append(stack, item{line: pad + closeTag})
			for i := len(n.Children) - 1; i >= 0; i-- {
				stack = append(stack, item{node: n.Children[i], parent: n, depth: it.depth + 1})
			}
		}
	}
	return strings.Join(lines, "\n")
}

// utf16Len returns the length of s in UTF-16 code units.
func utf16Len(s string) int {
	n := 0
	for _, r := range s {
		n += utf16.RuneLen(r)
	}
	return n
}

func escapeIn(parent *markup.Element, text string) string {
	if parent != nil && parent.RawText() {
		return text
	}
	return markup.EscapeText(text)
}
