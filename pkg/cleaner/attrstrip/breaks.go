package attrstrip

import "regexp"

// lineBreak matches <br>, <br/>, <br /> in any case.
var lineBreak = regexp.MustCompile(`(?i)<br` + spaceClass + `*/?>`)

// RemoveLineBreaks deletes every line-break tag from serialized markup and
// returns how many were removed. Nothing else is touched.
func RemoveLineBreaks(markup string) (string, int) {
	if trimSpace(markup) == "" {
		return "", 0
	}
	count := 0
	out := lineBreak.ReplaceAllStringFunc(markup, func(string) string {
		count++
		return ""
	})
	return out, count
}
