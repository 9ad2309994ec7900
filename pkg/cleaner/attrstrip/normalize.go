package attrstrip

import (
	"regexp"
	"strings"

	"github.com/jmylchreest/attrstrip/pkg/markup"
)

// spaceClass is the ECMAScript \s set. Pasted rich text is full of NBSP and
// other Unicode spaces, which Go's \s does not match.
const spaceClass = `[\t\n\v\f\r \x{00a0}\x{1680}\x{2000}-\x{200a}\x{2028}\x{2029}\x{202f}\x{205f}\x{3000}\x{feff}]`

var whitespaceRun = regexp.MustCompile(spaceClass + `+`)

func isSpace(r rune) bool {
	switch r {
	case '\t', '\n', '\v', '\f', '\r', ' ',
		'\u00a0', '\u1680', '\u2028', '\u2029', '\u202f', '\u205f', '\u3000', '\ufeff':
		return true
	}
	return r >= '\u2000' && r <= '\u200a'
}

func trimSpace(s string) string {
	return strings.TrimFunc(s, isSpace)
}

// NormalizeText collapses each whitespace run in every text node to a single
// space and trims the ends. Text nodes left empty are removed. The returned
// forest replaces nodes; elements and attributes are not touched.
func NormalizeText(nodes []markup.Node) []markup.Node {
	roots := normalizeChildren(nodes)
	markup.Elements(roots, func(el *markup.Element) {
		el.Children = normalizeChildren(el.Children)
	})
	return roots
}

func normalizeChildren(children []markup.Node) []markup.Node {
	kept := children[:0]
	for _, c := range children {
		if t, ok := c.(*markup.Text); ok {
			t.Data = trimSpace(whitespaceRun.ReplaceAllString(t.Data, " "))
			if t.Data == "" {
				continue
			}
		}
		kept = append(kept, c)
	}
	return kept
}
