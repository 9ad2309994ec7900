package attrstrip

import (
	"github.com/jmylchreest/attrstrip/internal/logger"
	"github.com/jmylchreest/attrstrip/pkg/markup"
)

// Stage names as they appear in stats and warnings.
const (
	StageParse       = "parse"
	StageStrip       = "strip_attributes"
	StageNormalize   = "normalize_text"
	StagePunctuation = "fix_punctuation"
	StageLineBreaks  = "remove_br_tags"
	StagePrune       = "remove_empty_tags"
	StageBeautify    = "beautify"
)

// Stage is one optional step that rewrites serialized markup. It implements
// cleaner.Cleaner. A stage that fails hands back its input unchanged.
type Stage struct {
	name string
	fn   func(string) (string, error)
}

// Name returns the stage name.
func (s *Stage) Name() string {
	return s.name
}

// Clean applies the stage. Failures are logged and the input is returned, so
// the error is always nil.
func (s *Stage) Clean(html string) (string, error) {
	out, err := s.Apply(html)
	if err != nil {
		logger.Warn("stage failed, keeping input", "stage", s.name, "error", err)
	}
	return out, nil
}

// Apply runs the stage and reports a failure alongside the fallback output.
// Blank input yields an empty string without running the stage.
func (s *Stage) Apply(html string) (out string, err error) {
	if trimSpace(html) == "" {
		return "", nil
	}
	defer func() {
		if r := recover(); r != nil {
			out = html
			err = newStageError(s.name, recovered(r))
		}
	}()

	out, err = s.fn(html)
	if err != nil {
		return html, newStageError(s.name, err)
	}
	return out, nil
}

// NewNormalizer returns the text-normalization stage.
func NewNormalizer() *Stage {
	return &Stage{name: StageNormalize, fn: func(html string) (string, error) {
		nodes, err := markup.Parse(html)
		if err != nil {
			return "", err
		}
		return markup.Render(NormalizeText(nodes)), nil
	}}
}

// NewPunctuationFixer returns the punctuation-spacing stage.
func NewPunctuationFixer() *Stage {
	return &Stage{name: StagePunctuation, fn: func(html string) (string, error) {
		return FixPunctuation(html), nil
	}}
}

// NewBreakRemover returns the line-break removal stage.
func NewBreakRemover() *Stage {
	return newBreakRemover(nil)
}

func newBreakRemover(onRemoved func(int)) *Stage {
	return &Stage{name: StageLineBreaks, fn: func(html string) (string, error) {
		out, n := RemoveLineBreaks(html)
		if onRemoved != nil {
			onRemoved(n)
		}
		return out, nil
	}}
}

// NewEmptyPruner returns the empty-element pruning stage. It re-parses its
// input.
func NewEmptyPruner() *Stage {
	return newEmptyPruner(nil)
}

func newEmptyPruner(onPruned func(int)) *Stage {
	return &Stage{name: StagePrune, fn: func(html string) (string, error) {
		nodes, err := markup.Parse(html)
		if err != nil {
			return "", err
		}
		pruned, n := PruneEmpty(nodes)
		if onPruned != nil {
			onPruned(n)
		}
		return markup.Render(pruned), nil
	}}
}

// NewBeautifier returns the pretty-printing stage. It re-parses its input.
func NewBeautifier(indent string) *Stage {
	return &Stage{name: StageBeautify, fn: func(html string) (string, error) {
		nodes, err := markup.Parse(html)
		if err != nil {
			return "", err
		}
		return Beautify(nodes, indent), nil
	}}
}
