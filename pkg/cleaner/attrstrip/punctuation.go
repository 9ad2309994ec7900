package attrstrip

import (
	"regexp"
	"strings"
)

// rewriteRule is one text substitution applied to serialized markup.
type rewriteRule struct {
	name        string
	pattern     *regexp.Regexp
	replacement string
}

func rule(name, pattern, replacement string) rewriteRule {
	return rewriteRule{
		name:        name,
		pattern:     regexp.MustCompile(strings.ReplaceAll(pattern, `\s`, spaceClass)),
		replacement: replacement,
	}
}

// punctuationRules run in order; later rules assume earlier ones have run.
// They work on raw markup text, so attribute values and <pre> blocks are
// rewritten too.
var punctuationRules = []rewriteRule{
	rule("end-tag-before-punctuation", `(</[^>]+>)\s+([,.;:!?])`, "$1$2"),
	rule("space-before-punctuation", `\s+([,.;:!?])`, "$1"),
	rule("space-after-punctuation", `([,.;:!?])\s+`, "$1 "),
	rule("sentence-boundary", `\.\s*([A-Z])`, ". $1"),
	rule("space-before-closing-bracket", `\s+([)\]}])`, "$1"),
	rule("space-after-opening-bracket", `([(\[{])\s+`, "$1"),
	rule("end-tag-before-closing-bracket", `(</[^>]+>)\s+([)\]}])`, "$1$2"),
	rule("space-before-quote", `\s+(["'])`, "$1"),
	rule("space-after-quote", `(["'])\s+`, "$1"),
	rule("space-before-apostrophe", `\s+'`, "'"),
	rule("word-or-tag-before-punctuation", `(\w|>)\s+([,.;:!?])`, "$1$2"),
}

// FixPunctuation corrects spacing around punctuation, brackets and quotes in
// serialized markup.
func FixPunctuation(markup string) string {
	if trimSpace(markup) == "" {
		return ""
	}
	for _, r := range punctuationRules {
		markup = r.pattern.ReplaceAllString(markup, r.replacement)
	}
	return markup
}
