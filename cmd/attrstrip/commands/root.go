// Package commands implements the CLI commands for attrstrip.
package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jmylchreest/attrstrip/internal/logger"
)

const envPrefix = "ATTRSTRIP"

// configErr holds the error from reading an explicit --config file.
// initConfig cannot return it, so the root pre-run does.
var configErr error

var rootCmd = &cobra.Command{
	Use:   "attrstrip",
	Short: "Strip presentational attributes from pasted HTML",
	Long: `Attrstrip cleans HTML fragments copied out of word processors, CMS
editors and web pages.

Styling, data-*, event handler and unknown attributes are removed while
functional ones (href, src, alt, aria-*, ...) are kept. Optional stages
normalize whitespace, fix punctuation spacing, drop <br> tags, prune
empty wrappers and pretty-print the result.

Examples:
  # Clean a file with the default settings
  attrstrip clean pasted.html

  # Clean from stdin on one line, and show what was removed
  pbpaste | attrstrip clean --preset compact --report text

  # Clean the article body of a live page and convert to markdown
  attrstrip clean -u "https://example.com/post" --select article --format markdown

  # Serve the cleaner over HTTP
  attrstrip serve --addr :8080`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger.Init(logger.Options{
			Debug: viper.GetBool("debug"),
			Quiet: viper.GetBool("quiet"),
			JSON:  viper.GetBool("log_json"),
			Color: viper.GetBool("log_color"),
		})
		return configErr
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "config file (default $HOME/.attrstrip.yaml)")
	flags.Bool("debug", false, "enable debug logging")
	flags.BoolP("quiet", "q", false, "suppress progress output")
	flags.Bool("log-json", false, "log as JSON")
	flags.Bool("log-color", false, "colorize log output")

	_ = viper.BindPFlag("config", flags.Lookup("config"))
	_ = viper.BindPFlag("debug", flags.Lookup("debug"))
	_ = viper.BindPFlag("quiet", flags.Lookup("quiet"))
	_ = viper.BindPFlag("log_json", flags.Lookup("log-json"))
	_ = viper.BindPFlag("log_color", flags.Lookup("log-color"))
}

func initConfig() {
	configErr = nil
	cfgFile := viper.GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
		viper.AddConfigPath(".")
		viper.SetConfigName(".attrstrip")
		viper.SetConfigType("yaml")
	}

	configureEnv(viper.GetViper())

	// A missing default config file is fine; an explicit one must load.
	if err := viper.ReadInConfig(); err != nil && cfgFile != "" {
		configErr = fmt.Errorf("reading config %s: %w", cfgFile, err)
	}
}

// configureEnv maps nested keys onto ATTRSTRIP_ variables, so
// pipeline.indent_width is read from ATTRSTRIP_PIPELINE_INDENT_WIDTH.
func configureEnv(v *viper.Viper) {
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// logInfo prints an info message to stderr (unless quiet mode).
func logInfo(format string, args ...any) {
	if !viper.GetBool("quiet") {
		fmt.Fprintf(os.Stderr, format+"\n", args...)
	}
}
