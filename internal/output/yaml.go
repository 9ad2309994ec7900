package output

import (
	"bufio"
	"io"

	"gopkg.in/yaml.v3"
)

// YAMLWriter writes one YAML document per flush.
type YAMLWriter struct {
	batch
	w      *bufio.Writer
	indent int
}

// NewYAMLWriter creates a YAML writer. indent below 2 means 2.
func NewYAMLWriter(w io.Writer, indent int) *YAMLWriter {
	if indent < 2 {
		indent = 2
	}
	return &YAMLWriter{
		w:      bufio.NewWriter(w),
		indent: indent,
	}
}

// Flush writes the buffered items. Nothing is written when empty.
func (w *YAMLWriter) Flush() error {
	doc, ok := w.take()
	if !ok {
		return w.w.Flush()
	}

	enc := yaml.NewEncoder(w.w)
	enc.SetIndent(w.indent)
	if err := enc.Encode(doc); err != nil {
		return err
	}
	if err := enc.Close(); err != nil {
		return err
	}
	return w.w.Flush()
}

// Close flushes the writer.
func (w *YAMLWriter) Close() error {
	return w.Flush()
}
