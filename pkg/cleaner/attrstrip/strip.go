package attrstrip

import "github.com/jmylchreest/attrstrip/pkg/markup"

// Strip removes every attribute that is not Preserved from every element and
// returns the distinct names seen per category. Elements are visited
// parent-first; the visiting order does not change the result.
func Strip(nodes []markup.Node) AttributeStats {
	names := make(attributeCollector)
	markup.Elements(nodes, func(el *markup.Element) {
		if len(el.Attrs) == 0 {
			return
		}
		kept := el.Attrs[:0]
		for _, a := range el.Attrs {
			cat := Classify(a.Name)
			names.add(cat, a.Name)
			if cat == Preserved {
				kept = append(kept, a)
			}
		}
		el.Attrs = kept
	})
	return names.build()
}
