package attrstrip

import "github.com/jmylchreest/attrstrip/pkg/markup"

// functionalEmptyTags are never pruned even without content.
var functionalEmptyTags = map[string]bool{
	"img":    true,
	"input":  true,
	"br":     true,
	"hr":     true,
	"area":   true,
	"base":   true,
	"col":    true,
	"embed":  true,
	"link":   true,
	"meta":   true,
	"param":  true,
	"source": true,
	"track":  true,
	"wbr":    true,
}

// PruneEmpty removes, bottom-up, every element that has no non-blank text,
// no remaining child elements, no Preserved attribute and is not one of the
// functional empty tags. Children are pruned before their parent is judged,
// so wrappers that only held empty elements go too. It returns the pruned
// forest and the number of elements removed.
func PruneEmpty(nodes []markup.Node) ([]markup.Node, int) {
	// Reverse pre-order visits every child before its parent.
	var order []*markup.Element
	markup.Elements(nodes, func(el *markup.Element) {
		order = append(order, el)
	})

	hasText := make(map[*markup.Element]bool, len(order))
	removable := make(map[*markup.Element]bool, len(order))
	removed := 0

	keep := func(children []markup.Node) (kept []markup.Node, text bool, elements int) {
		kept = children[:0]
		for _, c := range children {
			switch v := c.(type) {
			case *markup.Text:
				if trimSpace(v.Data) != "" {
					text = true
				}
			case *markup.Element:
				if removable[v] {
					removed++
					continue
				}
				if hasText[v] {
					text = true
				}
				elements++
			}
			kept = append(kept, c)
		}
		return kept, text, elements
	}

	for i := len(order) - 1; i >= 0; i-- {
		el := order[i]
		kept, text, elements := keep(el.Children)
		el.Children = kept
		hasText[el] = text
		removable[el] = !text && elements == 0 && !hasPreservedAttr(el) && !functionalEmptyTags[el.Tag]
	}

	roots, _, _ := keep(nodes)
	return roots, removed
}

func hasPreservedAttr(el *markup.Element) bool {
	for _, a := range el.Attrs {
		if IsPreserved(a.Name) {
			return true
		}
	}
	return false
}
