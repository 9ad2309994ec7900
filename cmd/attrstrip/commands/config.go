package commands

import (
	"fmt"
	"reflect"

	"github.com/dustin/go-humanize"
	"github.com/go-viper/mapstructure/v2"
	"github.com/samber/lo"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/jmylchreest/attrstrip/internal/server"
	"github.com/jmylchreest/attrstrip/pkg/cleaner/attrstrip"
)

// pipelineFlags maps each stage flag onto its key in the pipeline section
// of the config file.
var pipelineFlags = map[string]string{
	"beautify":          "beautify",
	"normalize-text":    "normalize_text",
	"remove-empty-tags": "remove_empty_tags",
	"remove-br-tags":    "remove_br_tags",
	"fix-punctuation":   "fix_punctuation",
	"indent":            "indent_width",
}

// serverFlags maps each serve flag onto its key in the server section.
var serverFlags = map[string]string{
	"addr":             "addr",
	"max-body-bytes":   "max_body_bytes",
	"read-timeout":     "read_timeout",
	"write-timeout":    "write_timeout",
	"shutdown-timeout": "shutdown_timeout",
}

// addPipelineFlags registers the preset and stage toggles on flags.
func addPipelineFlags(flags *pflag.FlagSet) {
	defaults := attrstrip.DefaultConfig()

	flags.String("preset", "default", "base settings: default, minimal, compact")
	flags.Bool("beautify", defaults.Beautify, "pretty-print with one element per line")
	flags.Bool("normalize-text", defaults.NormalizeText, "collapse whitespace runs in text")
	flags.Bool("remove-empty-tags", defaults.RemoveEmptyTags, "prune elements with no content")
	flags.Bool("remove-br-tags", defaults.RemoveBrTags, "delete every <br>")
	flags.Bool("fix-punctuation", defaults.FixPunctuation, "fix spacing around punctuation")
	flags.Int("indent", defaults.IndentWidth, "spaces per beautifier level")
}

// bindFlags binds the flags named in keys under section.*. It runs from
// PreRunE because clean and serve share the pipeline keys.
func bindFlags(flags *pflag.FlagSet, section string, keys map[string]string) error {
	for flag, key := range keys {
		if err := viper.BindPFlag(section+"."+key, flags.Lookup(flag)); err != nil {
			return err
		}
	}
	return nil
}

// bindPipelineFlags binds the flags added by addPipelineFlags.
func bindPipelineFlags(flags *pflag.FlagSet) error {
	if err := viper.BindPFlag("preset", flags.Lookup("preset")); err != nil {
		return err
	}
	return bindFlags(flags, "pipeline", pipelineFlags)
}

// pipelineConfig starts from the configured preset and applies every
// pipeline.* setting that was given explicitly by file, environment or flag.
func pipelineConfig(v *viper.Viper) (*attrstrip.Config, error) {
	cfg, err := attrstrip.Preset(v.GetString("preset"))
	if err != nil {
		return nil, err
	}
	if err := overlay(v, "pipeline", lo.Values(pipelineFlags), cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// serverConfig applies the server.* settings onto server.DefaultConfig.
func serverConfig(v *viper.Viper) (server.Config, error) {
	cfg := server.DefaultConfig()
	if err := overlay(v, "server", lo.Values(serverFlags), &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// overlay decodes the explicitly set keys of section into target, leaving
// every other field as it was.
func overlay(v *viper.Viper, section string, keys []string, target any) error {
	settings := make(map[string]any, len(keys))
	for _, key := range keys {
		if full := section + "." + key; v.IsSet(full) {
			settings[key] = v.Get(full)
		}
	}
	if len(settings) == 0 {
		return nil
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			stringToByteSizeHook,
		),
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           target,
	})
	if err != nil {
		return err
	}
	if err := decoder.Decode(settings); err != nil {
		return fmt.Errorf("invalid %s settings: %w", section, err)
	}
	return nil
}

// stringToByteSizeHook accepts sizes such as "5MB" or "512KiB" for int64
// fields.
func stringToByteSizeHook(from, to reflect.Type, data any) (any, error) {
	if from.Kind() != reflect.String || to != reflect.TypeFor[int64]() {
		return data, nil
	}
	n, err := humanize.ParseBytes(data.(string))
	if err != nil {
		return nil, err
	}
	return int64(n), nil
}
