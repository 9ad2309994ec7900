// Package attrstrip cleans HTML fragments pasted from rich-text sources.
//
// Attributes that carry no function (styling, data-*, event handlers and
// unknown custom attributes) are removed, and the result can optionally have
// its text whitespace normalized, punctuation spacing corrected, line breaks
// removed, empty wrappers pruned and the markup pretty-printed.
package attrstrip

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// DefaultIndentWidth is the number of spaces per beautifier level.
const DefaultIndentWidth = 2

// Config selects the optional stages of a run. Attribute stripping always
// happens.
type Config struct {
	// Beautify pretty-prints the output with one element per line.
	Beautify bool `json:"beautify" yaml:"beautify" mapstructure:"beautify"`

	// NormalizeText collapses whitespace runs in text and drops
	// whitespace-only text nodes.
	NormalizeText bool `json:"normalize_text" yaml:"normalize_text" mapstructure:"normalize_text"`

	// RemoveEmptyTags prunes elements with no content and no functional attributes.
	RemoveEmptyTags bool `json:"remove_empty_tags" yaml:"remove_empty_tags" mapstructure:"remove_empty_tags"`

	// RemoveBrTags deletes every <br> in any spelling.
	RemoveBrTags bool `json:"remove_br_tags" yaml:"remove_br_tags" mapstructure:"remove_br_tags"`

	// FixPunctuation corrects spacing around punctuation, brackets and quotes.
	FixPunctuation bool `json:"fix_punctuation" yaml:"fix_punctuation" mapstructure:"fix_punctuation"`

	// IndentWidth is the number of spaces per beautifier level.
	IndentWidth int `json:"indent_width" yaml:"indent_width" mapstructure:"indent_width" validate:"gte=0,lte=8"`
}

// DefaultConfig returns the settings the tool ships with: everything on
// except line-break removal.
func DefaultConfig() *Config {
	return &Config{
		Beautify:        true,
		NormalizeText:   true,
		RemoveEmptyTags: true,
		RemoveBrTags:    false,
		FixPunctuation:  true,
		IndentWidth:     DefaultIndentWidth,
	}
}

// PresetMinimal only strips attributes and leaves the markup otherwise as
// the parser produced it.
func PresetMinimal() *Config {
	return &Config{
		IndentWidth: DefaultIndentWidth,
	}
}

// PresetCompact runs every cleanup stage but keeps the output on one line,
// suitable for embedding in string literals.
func PresetCompact() *Config {
	cfg := DefaultConfig()
	cfg.Beautify = false
	cfg.RemoveBrTags = true
	return cfg
}

// Preset returns a named preset: default, minimal or compact.
func Preset(name string) (*Config, error) {
	switch name {
	case "", "default":
		return DefaultConfig(), nil
	case "minimal":
		return PresetMinimal(), nil
	case "compact":
		return PresetCompact(), nil
	default:
		return nil, fmt.Errorf("unknown preset %q", name)
	}
}

var validate = validator.New()

// Validate checks field ranges.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Indent returns the indentation string for one beautifier level.
func (c *Config) Indent() string {
	width := c.IndentWidth
	if width < 0 {
		width = 0
	}
	return strings.Repeat(" ", width)
}
