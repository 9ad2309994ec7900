package attrstrip

import (
	"slices"
	"strings"

	"github.com/samber/lo"
)

// Category is the class an attribute name falls into.
type Category int

const (
	// Preserved attributes carry semantics, accessibility or behaviour.
	Preserved Category = iota
	// Styling attributes only affect presentation.
	Styling
	// DataAttribute is any data-* attribute.
	DataAttribute
	// EventHandler is any on* attribute.
	EventHandler
	// Unknown is everything else.
	Unknown
)

// String returns the stats key for the category.
func (c Category) String() string {
	switch c {
	case Preserved:
		return "preserved"
	case Styling:
		return "styling"
	case DataAttribute:
		return "dataAttributes"
	case EventHandler:
		return "eventHandlers"
	default:
		return "unknown"
	}
}

// functionalAttributes are kept on every element.
var functionalAttributes = lo.SliceToMap([]string{
	// Core
	"id", "title", "lang", "dir", "hidden",

	// Links
	"href", "target", "rel", "download", "hreflang", "type",

	// Forms
	"action", "method", "name", "value", "placeholder", "required",
	"disabled", "readonly", "checked", "selected", "multiple", "size",
	"maxlength", "minlength", "min", "max", "step", "pattern",
	"autocomplete", "autofocus", "form", "formaction", "formmethod",
	"formtarget", "for",

	// Media
	"src", "alt", "width", "height", "controls", "autoplay", "loop",
	"muted", "poster", "preload", "crossorigin",

	// Tables
	"colspan", "rowspan", "headers", "scope",

	// Interaction
	"tabindex", "accesskey", "contenteditable", "draggable", "dropzone",

	// ARIA
	"role", "aria-label", "aria-labelledby", "aria-describedby",
	"aria-hidden", "aria-expanded", "aria-selected", "aria-checked",
	"aria-disabled", "aria-required", "aria-invalid", "aria-live",
	"aria-atomic", "aria-relevant", "aria-busy", "aria-controls",
	"aria-owns", "aria-flowto", "aria-activedescendant",

	// Metadata
	"charset", "content", "http-equiv", "property", "itemprop",
	"itemscope", "itemtype",

	// Script hints
	"defer", "async", "integrity", "nonce",

	// Semantics
	"datetime", "cite", "open", "reversed", "start", "span",
}, func(name string) (string, struct{}) { return name, struct{}{} })

// stylingAttributes are presentation-only, including legacy HTML 4 attributes.
// size is listed here too but the functional set is checked first.
var stylingAttributes = lo.SliceToMap([]string{
	"class", "style", "bgcolor", "color", "face", "size", "align",
	"valign", "background", "border", "cellpadding", "cellspacing",
	"frame", "rules", "summary", "bordercolor", "bordercolordark",
	"bordercolorlight",
}, func(name string) (string, struct{}) { return name, struct{}{} })

// Classify returns the category of an attribute name. Matching ignores case.
func Classify(name string) Category {
	lower := strings.ToLower(name)

	if _, ok := functionalAttributes[lower]; ok || strings.HasPrefix(lower, "aria-") {
		return Preserved
	}
	if _, ok := stylingAttributes[lower]; ok {
		return Styling
	}
	if strings.HasPrefix(lower, "data-") {
		return DataAttribute
	}
	if strings.HasPrefix(lower, "on") {
		return EventHandler
	}
	return Unknown
}

// IsPreserved reports whether name survives stripping.
func IsPreserved(name string) bool {
	return Classify(name) == Preserved
}

// FunctionalAttributes returns the fixed functional set, sorted.
func FunctionalAttributes() []string {
	names := lo.Keys(functionalAttributes)
	slices.Sort(names)
	return names
}

// StylingAttributes returns the fixed styling set, sorted.
func StylingAttributes() []string {
	names := lo.Keys(stylingAttributes)
	slices.Sort(names)
	return names
}
