// Package cleaner provides the interface shared by markup transformers and a
// few small implementations. Cleaners can be chained, so attribute stripping
// can feed a Markdown conversion or a single stage can be run on its own.
package cleaner

// Cleaner transforms markup into another string form.
type Cleaner interface {
	// Clean transforms the input markup.
	// The output format depends on the implementation (HTML, Markdown, etc.).
	Clean(html string) (string, error)

	// Name returns the cleaner type for logging/debugging.
	Name() string
}
