package output

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/jmylchreest/attrstrip/pkg/cleaner/attrstrip"
)

// Report is one cleaned input as the CLI and server emit it.
type Report struct {
	Source     string                   `json:"source,omitempty" yaml:"source,omitempty"`
	Content    string                   `json:"content" yaml:"content"`
	Attributes attrstrip.AttributeStats `json:"attributes" yaml:"attributes"`
	Stats      *attrstrip.Stats         `json:"stats,omitempty" yaml:"stats,omitempty"`
	Warnings   []attrstrip.Warning      `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// NewReport builds a report from a run result. source names the input
// ("stdin", a path or a URL).
func NewReport(source string, r *attrstrip.Result) *Report {
	return &Report{
		Source:     source,
		Content:    r.Content,
		Attributes: r.Attributes,
		Stats:      r.Stats,
		Warnings:   r.Warnings,
	}
}

// Summary renders the report's statistics for a terminal. The cleaned
// content itself is not included.
func (r *Report) Summary() string {
	var sb strings.Builder

	if r.Source != "" {
		fmt.Fprintf(&sb, "source:    %s\n", r.Source)
	}
	if s := r.Stats; s != nil {
		fmt.Fprintf(&sb, "size:      %s -> %s (%.1f%% smaller)\n",
			humanize.Bytes(uint64(s.InputBytes)),
			humanize.Bytes(uint64(s.OutputBytes)),
			s.ReductionPercent())
		fmt.Fprintf(&sb, "elements:  %s parsed, %s pruned\n",
			humanize.Comma(int64(s.ElementsParsed)),
			humanize.Comma(int64(s.ElementsPruned)))
		if s.LineBreaksRemoved > 0 {
			fmt.Fprintf(&sb, "breaks:    %s removed\n", humanize.Comma(int64(s.LineBreaksRemoved)))
		}
	}

	fmt.Fprintf(&sb, "removed:   %d distinct attribute names\n", r.Attributes.TotalRemoved())
	for _, c := range []attrstrip.Category{
		attrstrip.Styling,
		attrstrip.DataAttribute,
		attrstrip.EventHandler,
		attrstrip.Unknown,
		attrstrip.Preserved,
	} {
		names := r.Attributes.ByCategory(c)
		if len(names) == 0 {
			continue
		}
		fmt.Fprintf(&sb, "  %-15s %s\n", c.String()+":", strings.Join(names, ", "))
	}

	if s := r.Stats; s != nil && len(s.Stages) > 0 {
		var parts []string
		for _, st := range s.Stages {
			if !st.Enabled {
				continue
			}
			label := st.Name
			if st.Failed {
				label += " (failed)"
			}
			parts = append(parts, fmt.Sprintf("%s %v", label, st.Duration.Round(time.Microsecond)))
		}
		fmt.Fprintf(&sb, "stages:    %s\n", strings.Join(parts, ", "))
	}

	for _, w := range r.Warnings {
		fmt.Fprintf(&sb, "warning:   %s\n", w.String())
	}
	return sb.String()
}
