package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jmylchreest/attrstrip/internal/logger"
	"github.com/jmylchreest/attrstrip/internal/output"
	"github.com/jmylchreest/attrstrip/internal/scope"
	"github.com/jmylchreest/attrstrip/pkg/cleaner"
	"github.com/jmylchreest/attrstrip/pkg/cleaner/attrstrip"
	"github.com/jmylchreest/attrstrip/pkg/fetcher"
)

var cleanCmd = &cobra.Command{
	Use:   "clean [file]",
	Short: "Clean an HTML fragment",
	Long: `Clean an HTML fragment read from a file, stdin or a URL.

With no file argument (or "-") the fragment is read from stdin. Full
documents are reduced to their body unless --select or --xpath narrows
them further.

Examples:
  attrstrip clean pasted.html -o clean.html
  attrstrip clean --preset minimal < pasted.html
  attrstrip clean --beautify=false --remove-br-tags pasted.html
  attrstrip clean -u "https://example.com" --xpath "//main" --report json`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error { return bindPipelineFlags(cmd.Flags()) },
	RunE:    runClean,
}

func init() {
	rootCmd.AddCommand(cleanCmd)

	flags := cleanCmd.Flags()

	// Input
	flags.StringP("url", "u", "", "fetch the markup from a URL instead of a file")
	flags.String("select", "", "CSS selector narrowing the input before cleaning")
	flags.String("xpath", "", "XPath expression narrowing the input before cleaning")

	// Pipeline
	addPipelineFlags(flags)

	// Output
	flags.StringP("output", "o", "", "output file (default: stdout)")
	flags.String("format", "html", "output format: html, markdown")
	flags.Bool("strip-links", false, "markdown: keep link text only")
	flags.Bool("strip-images", false, "markdown: drop images")
	flags.String("report", "", "write a cleaning report: text, json, jsonl, yaml")
	flags.String("report-file", "", "report destination (default: stderr)")

	// Fetch
	flags.String("fetch-mode", "static", "fetch mode: static, dynamic")
	flags.Duration("timeout", 30*time.Second, "request timeout")
	flags.String("user-agent", "", "user agent for --url")
	flags.String("wait-for", "", "dynamic fetch: CSS selector to wait for")

	cleanCmd.MarkFlagsMutuallyExclusive("select", "xpath")
}

func runClean(cmd *cobra.Command, args []string) error {
	ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	flags := cmd.Flags()

	cfg, err := pipelineConfig(viper.GetViper())
	if err != nil {
		return err
	}
	logger.Debug("pipeline config", "config", fmt.Sprintf("%+v", *cfg))

	format, _ := flags.GetString("format")
	post, err := postCleaner(cmd, format)
	if err != nil {
		return err
	}

	var reportFormat output.Format
	if s, _ := flags.GetString("report"); s != "" {
		if reportFormat, err = output.ParseFormat(s); err != nil {
			return err
		}
	}

	source, raw, err := readInput(ctx, cmd, args)
	if err != nil {
		return err
	}

	css, _ := flags.GetString("select")
	xpath, _ := flags.GetString("xpath")
	fragment, err := scope.Extract(raw, scope.Selector{CSS: css, XPath: xpath})
	if err != nil {
		return err
	}

	result, err := attrstrip.Run(fragment, cfg)
	if err != nil {
		if errors.Is(err, attrstrip.ErrParseFailure) {
			logger.Error("input could not be parsed", "source", source, "error", err)
		}
		return err
	}
	for _, w := range result.Warnings {
		logger.Warn(w.Message, "phase", w.Phase, "context", w.Context)
	}

	content, err := post.Clean(result.Content)
	if err != nil {
		return err
	}

	if err := writeContent(cmd, content); err != nil {
		return err
	}

	if reportFormat != "" {
		report := output.NewReport(source, result)
		report.Content = content
		if err := writeReport(cmd, reportFormat, report); err != nil {
			return err
		}
	}

	logger.Debug("clean complete", "source", source, "stats", result.Stats.String())
	return nil
}

// postCleaner returns the cleaner applied after the pipeline for the
// requested output format.
func postCleaner(cmd *cobra.Command, format string) (cleaner.Cleaner, error) {
	switch format {
	case "", "html":
		return cleaner.NewNoop(), nil
	case "markdown", "md":
		stripLinks, _ := cmd.Flags().GetBool("strip-links")
		stripImages, _ := cmd.Flags().GetBool("strip-images")
		url, _ := cmd.Flags().GetString("url")
		return cleaner.NewMarkdown(
			cleaner.WithStripLinks(stripLinks),
			cleaner.WithStripImages(stripImages),
			cleaner.WithDomain(url),
		), nil
	default:
		return nil, fmt.Errorf("unsupported format %q (use html or markdown)", format)
	}
}

// readInput returns a name for the source and its markup.
func readInput(ctx context.Context, cmd *cobra.Command, args []string) (string, string, error) {
	url, _ := cmd.Flags().GetString("url")
	if url != "" {
		if len(args) > 0 {
			return "", "", errors.New("a file argument and --url are mutually exclusive")
		}
		html, err := fetchURL(ctx, cmd, url)
		return url, html, err
	}

	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", "", fmt.Errorf("reading stdin: %w", err)
		}
		return "stdin", string(data), nil
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", "", err
	}
	return args[0], string(data), nil
}

func fetchURL(ctx context.Context, cmd *cobra.Command, url string) (string, error) {
	flags := cmd.Flags()
	mode, _ := flags.GetString("fetch-mode")
	timeout, _ := flags.GetDuration("timeout")
	userAgent, _ := flags.GetString("user-agent")
	waitFor, _ := flags.GetString("wait-for")

	f, err := fetcher.New(mode, fetcher.Config{UserAgent: userAgent, Timeout: timeout})
	if err != nil {
		return "", err
	}
	defer f.Close()

	logger.Debug("fetching", "url", url, "mode", f.Type())
	content, err := f.Fetch(ctx, url, fetcher.Options{WaitForSelector: waitFor})
	if err != nil {
		return "", err
	}
	logger.Debug("fetched", "url", content.URL, "status", content.StatusCode, "title", content.Title)
	return content.HTML, nil
}

func writeContent(cmd *cobra.Command, content string) error {
	var w io.Writer = cmd.OutOrStdout()
	if path, _ := cmd.Flags().GetString("output"); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
		defer logInfo("Wrote %s", path)
	}

	if content == "" {
		return nil
	}
	_, err := fmt.Fprintln(w, content)
	return err
}

func writeReport(cmd *cobra.Command, format output.Format, report *output.Report) error {
	var w io.Writer = cmd.ErrOrStderr()
	if path, _ := cmd.Flags().GetString("report-file"); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}

	writer, err := output.NewWriter(w, format, output.WithPretty(true))
	if err != nil {
		return err
	}
	if err := writer.Write(report); err != nil {
		return err
	}
	return writer.Close()
}
