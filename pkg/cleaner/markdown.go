package cleaner

import (
	"slices"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"

	"github.com/jmylchreest/attrstrip/pkg/markup"
)

// MarkdownCleaner converts HTML to Markdown using html-to-markdown.
// Headings, lists, tables and links keep their structure.
type MarkdownCleaner struct {
	config markdownConfig
	conv   *converter.Converter
}

// MarkdownOption configures the markdown cleaner.
type MarkdownOption func(*markdownConfig)

type markdownConfig struct {
	// StripLinks removes link URLs, keeping only the link text
	StripLinks bool
	// StripImages removes images entirely
	StripImages bool
	// Domain resolves relative link and image URLs
	Domain string
}

// WithStripLinks configures the cleaner to remove link URLs.
func WithStripLinks(strip bool) MarkdownOption {
	return func(c *markdownConfig) {
		c.StripLinks = strip
	}
}

// WithStripImages configures the cleaner to remove images.
func WithStripImages(strip bool) MarkdownOption {
	return func(c *markdownConfig) {
		c.StripImages = strip
	}
}

// WithDomain makes relative URLs absolute against domain.
func WithDomain(domain string) MarkdownOption {
	return func(c *markdownConfig) {
		c.Domain = domain
	}
}

// NewMarkdown creates a new Markdown cleaner.
func NewMarkdown(opts ...MarkdownOption) *MarkdownCleaner {
	c := &MarkdownCleaner{
		conv: converter.NewConverter(
			converter.WithPlugins(
				base.NewBasePlugin(),
				commonmark.NewCommonmarkPlugin(),
				table.NewTablePlugin(),
			),
		),
	}
	for _, opt := range opts {
		opt(&c.config)
	}
	return c
}

// Clean converts HTML to Markdown.
func (c *MarkdownCleaner) Clean(html string) (string, error) {
	if c.config.StripLinks || c.config.StripImages {
		nodes, err := markup.Parse(html)
		if err != nil {
			return "", err
		}
		html = markup.Render(c.filter(nodes))
	}

	var opts []converter.ConvertOptionFunc
	if c.config.Domain != "" {
		opts = append(opts, converter.WithDomain(c.config.Domain))
	}

	markdown, err := c.conv.ConvertString(html, opts...)
	if err != nil {
		return "", err
	}

	return cleanWhitespace(markdown), nil
}

// Name returns the cleaner type.
func (c *MarkdownCleaner) Name() string {
	return "markdown"
}

// filter drops images and unwraps links as configured.
func (c *MarkdownCleaner) filter(nodes []markup.Node) []markup.Node {
	roots := c.filterChildren(nodes)
	markup.Elements(roots, func(el *markup.Element) {
		el.Children = c.filterChildren(el.Children)
	})
	return roots
}

func (c *MarkdownCleaner) filterChildren(children []markup.Node) []markup.Node {
	out := make([]markup.Node, 0, len(children))
	queue := children
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]

		if el, ok := n.(*markup.Element); ok {
			switch {
			case c.config.StripImages && (el.Tag == "img" || el.Tag == "picture"):
				continue
			case c.config.StripLinks && el.Tag == "a":
				queue = append(slices.Clone(el.Children), queue...)
				continue
			}
		}
		out = append(out, n)
	}
	return out
}

// cleanWhitespace normalizes whitespace in the output.
func cleanWhitespace(s string) string {
	// Replace multiple blank lines with a single blank line (max 2 consecutive newlines)
	lines := strings.Split(s, "\n")
	var result []string
	blankCount := 0

	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			blankCount++
			if blankCount <= 1 {
				result = append(result, "")
			}
		} else {
			blankCount = 0
			result = append(result, line)
		}
	}

	return strings.TrimSpace(strings.Join(result, "\n"))
}
