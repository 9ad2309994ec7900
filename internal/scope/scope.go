// Package scope narrows fetched pages down to the fragment worth cleaning.
package scope

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"github.com/antchfx/htmlquery"
)

var (
	// ErrInvalidSelector is returned for a CSS selector or XPath expression
	// that does not compile.
	ErrInvalidSelector = errors.New("invalid selector")
	// ErrNoMatch is returned when the selector matches nothing.
	ErrNoMatch = errors.New("selector matched nothing")
)

// Selector picks part of a document. At most one field should be set; CSS
// wins when both are.
type Selector struct {
	CSS   string
	XPath string
}

// IsZero reports whether no selector is set.
func (s Selector) IsZero() bool {
	return s.CSS == "" && s.XPath == ""
}

var documentMarker = regexp.MustCompile(`(?i)<(!doctype|html|body)[\s>]`)

// IsDocument reports whether markup looks like a whole page rather than a
// fragment.
func IsDocument(markup string) bool {
	return documentMarker.MatchString(markup)
}

// Extract returns the part of markup that sel selects, as outer HTML joined
// by newlines. With no selector a whole document is reduced to the contents
// of its body and a fragment is returned unchanged.
func Extract(markup string, sel Selector) (string, error) {
	switch {
	case sel.CSS != "":
		return extractCSS(markup, sel.CSS)
	case sel.XPath != "":
		return extractXPath(markup, sel.XPath)
	case IsDocument(markup):
		return bodyOf(markup)
	default:
		return markup, nil
	}
}

func extractCSS(markup, css string) (string, error) {
	matcher, err := cascadia.Compile(css)
	if err != nil {
		return "", fmt.Errorf("%w: %q: %w", ErrInvalidSelector, css, err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return "", err
	}

	var parts []string
	var outerErr error
	doc.FindMatcher(matcher).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		h, err := goquery.OuterHtml(s)
		if err != nil {
			outerErr = err
			return false
		}
		parts = append(parts, h)
		return true
	})
	if outerErr != nil {
		return "", outerErr
	}
	if len(parts) == 0 {
		return "", fmt.Errorf("%w: %s", ErrNoMatch, css)
	}
	return strings.Join(parts, "\n"), nil
}

func extractXPath(markup, expr string) (string, error) {
	root, err := htmlquery.Parse(strings.NewReader(markup))
	if err != nil {
		return "", err
	}

	nodes, err := htmlquery.QueryAll(root, expr)
	if err != nil {
		return "", fmt.Errorf("%w: %q: %w", ErrInvalidSelector, expr, err)
	}
	if len(nodes) == 0 {
		return "", fmt.Errorf("%w: %s", ErrNoMatch, expr)
	}

	parts := make([]string, 0, len(nodes))
	for _, n := range nodes {
		parts = append(parts, htmlquery.OutputHTML(n, true))
	}
	return strings.Join(parts, "\n"), nil
}

func bodyOf(markup string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return "", err
	}
	return doc.Find("body").First().Html()
}
