package attrstrip

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/samber/lo"
)

// AttributeStats lists the distinct attribute names seen in a run, grouped by
// category. Each list is sorted and never nil.
type AttributeStats struct {
	Preserved      []string `json:"preserved" yaml:"preserved"`
	Styling        []string `json:"styling" yaml:"styling"`
	Unknown        []string `json:"unknown" yaml:"unknown"`
	DataAttributes []string `json:"dataAttributes" yaml:"dataAttributes"`
	EventHandlers  []string `json:"eventHandlers" yaml:"eventHandlers"`
}

// EmptyAttributeStats returns stats with every list present and empty.
func EmptyAttributeStats() AttributeStats {
	return AttributeStats{
		Preserved:      []string{},
		Styling:        []string{},
		Unknown:        []string{},
		DataAttributes: []string{},
		EventHandlers:  []string{},
	}
}

// ByCategory returns the names recorded for c.
func (s AttributeStats) ByCategory(c Category) []string {
	switch c {
	case Preserved:
		return s.Preserved
	case Styling:
		return s.Styling
	case DataAttribute:
		return s.DataAttributes
	case EventHandler:
		return s.EventHandlers
	default:
		return s.Unknown
	}
}

// TotalRemoved counts the distinct names across the removed categories.
func (s AttributeStats) TotalRemoved() int {
	return len(s.Styling) + len(s.Unknown) + len(s.DataAttributes) + len(s.EventHandlers)
}

// attributeCollector accumulates distinct names per category.
type attributeCollector map[Category]map[string]struct{}

func (c attributeCollector) add(cat Category, name string) {
	set, ok := c[cat]
	if !ok {
		set = make(map[string]struct{})
		c[cat] = set
	}
	set[name] = struct{}{}
}

func (c attributeCollector) sorted(cat Category) []string {
	names := lo.Keys(c[cat])
	if names == nil {
		names = []string{}
	}
	slices.Sort(names)
	return names
}

func (c attributeCollector) build() AttributeStats {
	return AttributeStats{
		Preserved:      c.sorted(Preserved),
		Styling:        c.sorted(Styling),
		Unknown:        c.sorted(Unknown),
		DataAttributes: c.sorted(DataAttribute),
		EventHandlers:  c.sorted(EventHandler),
	}
}

// StageStat records one pipeline stage.
type StageStat struct {
	Name     string        `json:"name" yaml:"name"`
	Enabled  bool          `json:"enabled" yaml:"enabled"`
	Failed   bool          `json:"failed,omitempty" yaml:"failed,omitempty"`
	Duration time.Duration `json:"duration_ns" yaml:"duration_ns"`
}

// Stats captures metrics about a run.
type Stats struct {
	InputBytes  int `json:"input_bytes" yaml:"input_bytes"`
	OutputBytes int `json:"output_bytes" yaml:"output_bytes"`

	ElementsParsed    int `json:"elements_parsed" yaml:"elements_parsed"`
	ElementsPruned    int `json:"elements_pruned" yaml:"elements_pruned"`
	LineBreaksRemoved int `json:"line_breaks_removed" yaml:"line_breaks_removed"`

	Stages []*StageStat `json:"stages" yaml:"stages"`

	TotalDuration time.Duration `json:"total_duration_ns" yaml:"total_duration_ns"`
}

// NewStats creates an empty Stats.
func NewStats() *Stats {
	return &Stats{
		Stages: make([]*StageStat, 0, 8),
	}
}

// AddStage appends a stage record and returns it.
func (s *Stats) AddStage(name string, enabled bool) *StageStat {
	st := &StageStat{Name: name, Enabled: enabled}
	s.Stages = append(s.Stages, st)
	return st
}

// Stage returns the record for name, or nil.
func (s *Stats) Stage(name string) *StageStat {
	for _, st := range s.Stages {
		if st.Name == name {
			return st
		}
	}
	return nil
}

// ReductionPercent returns the percentage reduction in size.
func (s *Stats) ReductionPercent() float64 {
	if s.InputBytes == 0 {
		return 0
	}
	return float64(s.InputBytes-s.OutputBytes) / float64(s.InputBytes) * 100
}

// String returns a human-readable summary.
func (s *Stats) String() string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Size: %d -> %d bytes (%.1f%% reduction)\n",
		s.InputBytes, s.OutputBytes, s.ReductionPercent()))
	sb.WriteString(fmt.Sprintf("Elements: %d parsed, %d pruned\n", s.ElementsParsed, s.ElementsPruned))
	if s.LineBreaksRemoved > 0 {
		sb.WriteString(fmt.Sprintf("Line breaks removed: %d\n", s.LineBreaksRemoved))
	}

	parts := make([]string, 0, len(s.Stages))
	for _, st := range s.Stages {
		if !st.Enabled {
			continue
		}
		label := st.Name
		if st.Failed {
			label += "(failed)"
		}
		parts = append(parts, fmt.Sprintf("%s=%v", label, st.Duration.Round(time.Microsecond)))
	}
	if len(parts) > 0 {
		sb.WriteString("Stages: " + strings.Join(parts, ", ") + "\n")
	}
	sb.WriteString(fmt.Sprintf("Total: %v\n", s.TotalDuration.Round(time.Microsecond)))

	return sb.String()
}

// Warning is a recovered stage failure.
type Warning struct {
	Phase   string `json:"phase" yaml:"phase"`
	Message string `json:"message" yaml:"message"`
	Context string `json:"context,omitempty" yaml:"context,omitempty"`
}

// String returns a formatted warning message.
func (w Warning) String() string {
	if w.Context != "" {
		return fmt.Sprintf("[%s] %s (context: %s)", w.Phase, w.Message, w.Context)
	}
	return fmt.Sprintf("[%s] %s", w.Phase, w.Message)
}

// Result is the outcome of a run.
type Result struct {
	// Content is the cleaned markup. It is empty for blank input.
	Content string `json:"content" yaml:"content"`

	// Attributes lists the attribute names seen, by category.
	Attributes AttributeStats `json:"attributes" yaml:"attributes"`

	Stats    *Stats    `json:"stats" yaml:"stats"`
	Warnings []Warning `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// AddWarning records a recovered failure.
func (r *Result) AddWarning(phase, message, context string) {
	r.Warnings = append(r.Warnings, Warning{
		Phase:   phase,
		Message: message,
		Context: context,
	})
}

// HasWarnings returns true if any warnings were recorded.
func (r *Result) HasWarnings() bool {
	return len(r.Warnings) > 0
}
