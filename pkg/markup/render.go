package markup

import "strings"

// VoidElements have no content and no end tag.
var VoidElements = map[string]bool{
	"area":   true,
	"base":   true,
	"br":     true,
	"col":    true,
	"embed":  true,
	"hr":     true,
	"img":    true,
	"input":  true,
	"link":   true,
	"meta":   true,
	"param":  true,
	"source": true,
	"track":  true,
	"wbr":    true,
}

// rawTextElements hold text that the parser does not decode, so it must not
// be escaped on the way out. This only holds in the HTML namespace.
var rawTextElements = map[string]bool{
	"iframe":    true,
	"noembed":   true,
	"noframes":  true,
	"noscript":  true,
	"plaintext": true,
	"script":    true,
	"style":     true,
	"xmp":       true,
}

// The parser drops a newline directly after these start tags.
var leadingNewlineElements = map[string]bool{
	"listing":  true,
	"pre":      true,
	"textarea": true,
}

var (
	textEscaper = strings.NewReplacer(
		"&", "&amp;",
		"\u00a0", "&nbsp;",
		"<", "&lt;",
		">", "&gt;",
	)
	attrEscaper = strings.NewReplacer(
		"&", "&amp;",
		"\u00a0", "&nbsp;",
		`"`, "&quot;",
	)
)

// EscapeText escapes character data for use between tags.
func EscapeText(s string) string {
	return textEscaper.Replace(s)
}

// EscapeAttr escapes an attribute value for use inside double quotes.
func EscapeAttr(s string) string {
	return attrEscaper.Replace(s)
}

// OpenTag renders the start tag of el with all its attributes in order.
func OpenTag(el *Element) string {
	var sb strings.Builder
	writeOpenTag(&sb, el)
	return sb.String()
}

func writeOpenTag(sb *strings.Builder, el *Element) {
	sb.WriteByte('<')
	sb.WriteString(el.Tag)
	for _, a := range el.Attrs {
		sb.WriteByte(' ')
		sb.WriteString(a.Name)
		sb.WriteString(`="`)
		sb.WriteString(EscapeAttr(a.Value))
		sb.WriteByte('"')
	}
	sb.WriteByte('>')
}

// Render serializes the forest without adding or removing whitespace, the
// same way a browser serializes innerHTML. Parsing the result yields a tree
// with the same tags, attributes and text.
func Render(nodes []Node) string {
	type frame struct {
		node     Node
		parent   *Element
		closeTag string
	}

	var sb strings.Builder
	stack := make([]frame, 0, len(nodes))
	for i := len(nodes) - 1; i >= 0; i-- {
		stack = append(stack, frame{node: nodes[i]})
	}

	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		switch n := f.node.(type) {
		case nil:
			sb.WriteString(f.closeTag)
		case *Text:
			if f.parent != nil && f.parent.RawText() {
				sb.WriteString(n.Data)
			} else {
				sb.WriteString(EscapeText(n.Data))
			}
		case *Element:
			writeOpenTag(&sb, n)
			if VoidElements[n.Tag] {
				continue
			}
			if n.Namespace == "" && leadingNewlineElements[n.Tag] && len(n.Children) > 0 {
				if t, ok := n.Children[0].(*Text); ok && strings.HasPrefix(t.Data, "\n") {
					sb.WriteByte('\n')
				}
			}
			stack = append(stack, frame{closeTag: "</" + n.Tag + ">"})
			for i := len(n.Children) - 1; i >= 0; i-- {
				stack = append(stack, frame{node: n.Children[i], parent: n})
			}
		}
	}
	return sb.String()
}
