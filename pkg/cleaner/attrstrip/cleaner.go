package attrstrip

import (
	"time"

	"github.com/jmylchreest/attrstrip/internal/logger"
	"github.com/jmylchreest/attrstrip/pkg/markup"
)

// Cleaner strips non-functional attributes from HTML fragments.
// It implements the cleaner.Cleaner interface and holds no state between
// calls, so one Cleaner may be shared.
type Cleaner struct {
	config *Config
}

// New creates a Cleaner with the given configuration.
// If config is nil, DefaultConfig() is used.
func New(config *Config) *Cleaner {
	if config == nil {
		config = DefaultConfig()
	}
	return &Cleaner{
		config: config,
	}
}

// Name returns the cleaner name for logging.
func (c *Cleaner) Name() string {
	return "attrstrip"
}

// Config returns the configuration in use.
func (c *Cleaner) Config() *Config {
	return c.config
}

// Clean returns the cleaned markup. The only error is a parse failure or an
// invalid configuration.
func (c *Cleaner) Clean(html string) (string, error) {
	result, err := c.CleanWithStats(html)
	if err != nil {
		return "", err
	}
	return result.Content, nil
}

// CleanWithStats cleans html and returns the full result.
func (c *Cleaner) CleanWithStats(html string) (*Result, error) {
	return Run(html, c.config)
}

// Run cleans raw with cfg (DefaultConfig() when nil).
//
// Stages run in a fixed order: parse, strip attributes, normalize text,
// serialize, fix punctuation, remove line breaks, prune empty elements,
// beautify. Disabled stages are skipped. A stage that fails is recorded as a
// warning and its input is passed on. The returned error is non-nil only for
// an invalid configuration or when the input cannot be parsed at all, in
// which case errors.Is(err, ErrParseFailure) holds.
func Run(raw string, cfg *Config) (*Result, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	start := time.Now()
	result := &Result{
		Attributes: EmptyAttributeStats(),
		Stats:      NewStats(),
	}
	result.Stats.InputBytes = len(raw)

	if trimSpace(raw) == "" {
		result.Stats.TotalDuration = time.Since(start)
		return result, nil
	}

	parseStat := result.Stats.AddStage(StageParse, true)
	parseStart := time.Now()
	nodes, err := markup.Parse(raw)
	parseStat.Duration = time.Since(parseStart)
	if err != nil {
		parseStat.Failed = true
		logger.Error("parse failed", "input_bytes", len(raw), "error", err)
		return nil, newParseError(err)
	}
	result.Stats.ElementsParsed = markup.CountElements(nodes)

	stripStat := result.Stats.AddStage(StageStrip, true)
	stripStart := time.Now()
	result.Attributes = Strip(nodes)
	stripStat.Duration = time.Since(stripStart)
	logger.Debug("attributes stripped",
		"preserved", len(result.Attributes.Preserved),
		"removed", result.Attributes.TotalRemoved())

	normStat := result.Stats.AddStage(StageNormalize, cfg.NormalizeText)
	if cfg.NormalizeText {
		nodes = runTreeStage(result, normStat, nodes, NormalizeText)
	}

	content := markup.Render(nodes)

	stages := []struct {
		enabled bool
		stage   *Stage
	}{
		{cfg.FixPunctuation, NewPunctuationFixer()},
		{cfg.RemoveBrTags, newBreakRemover(func(n int) { result.Stats.LineBreaksRemoved = n })},
		{cfg.RemoveEmptyTags, newEmptyPruner(func(n int) { result.Stats.ElementsPruned = n })},
		{cfg.Beautify, NewBeautifier(cfg.Indent())},
	}
	for _, s := range stages {
		stat := result.Stats.AddStage(s.stage.Name(), s.enabled)
		if !s.enabled {
			continue
		}
		content = runStage(result, stat, s.stage, content)
	}

	result.Content = content
	result.Stats.OutputBytes = len(content)
	result.Stats.TotalDuration = time.Since(start)
	return result, nil
}

// runStage applies a string stage, falling back to its input on failure.
func runStage(result *Result, stat *StageStat, stage *Stage, in string) string {
	start := time.Now()
	out, err := stage.Apply(in)
	stat.Duration = time.Since(start)

	if err != nil {
		stat.Failed = true
		result.AddWarning(stage.Name(), "stage failed, input kept", err.Error())
		logger.Warn("stage failed, keeping input", "stage", stage.Name(), "error", err)
		return in
	}
	logger.Debug("stage complete",
		"stage", stage.Name(),
		"bytes_in", len(in),
		"bytes_out", len(out),
		"duration", stat.Duration)
	return out
}

// runTreeStage applies fn to a copy of the tree so a failure leaves the
// original intact.
func runTreeStage(result *Result, stat *StageStat, nodes []markup.Node, fn func([]markup.Node) []markup.Node) (out []markup.Node) {
	start := time.Now()
	defer func() {
		stat.Duration = time.Since(start)
		if r := recover(); r != nil {
			err := newStageError(stat.Name, recovered(r))
			stat.Failed = true
			result.AddWarning(stat.Name, "stage failed, input kept", err.Error())
			logger.Warn("stage failed, keeping input", "stage", stat.Name, "error", err)
			out = nodes
		}
	}()
	return fn(markup.Clone(nodes))
}
