package commands

import (
	"errors"
	"fmt"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/jmylchreest/attrstrip/internal/output"
	"github.com/jmylchreest/attrstrip/pkg/cleaner/attrstrip"
)

// classification is one classify result.
type classification struct {
	Name      string `json:"name" yaml:"name"`
	Category  string `json:"category" yaml:"category"`
	Preserved bool   `json:"preserved" yaml:"preserved"`
}

func (c classification) String() string {
	return fmt.Sprintf("%-24s %s", c.Name, c.Category)
}

var classifyCmd = &cobra.Command{
	Use:   "classify [name...]",
	Short: "Show how attribute names are classified",
	Long: `Show which category each attribute name falls into and whether
it survives cleaning. With --list, print the preserved and styling sets.

Examples:
  attrstrip classify href class data-id onclick x-custom
  attrstrip classify --list --format yaml`,
	RunE: runClassify,
}

func init() {
	rootCmd.AddCommand(classifyCmd)

	flags := classifyCmd.Flags()
	flags.Bool("list", false, "list the built-in attribute sets")
	flags.String("format", "text", "output format: text, json, jsonl, yaml")
}

func runClassify(cmd *cobra.Command, args []string) error {
	formatStr, _ := cmd.Flags().GetString("format")
	format, err := output.ParseFormat(formatStr)
	if err != nil {
		return err
	}
	list, _ := cmd.Flags().GetBool("list")
	if !list && len(args) == 0 {
		return errors.New("requires at least one attribute name, or --list")
	}

	names := args
	if list {
		names = append(attrstrip.FunctionalAttributes(), attrstrip.StylingAttributes()...)
	}
	results := lo.Map(lo.Uniq(names), func(name string, _ int) any {
		name = strings.ToLower(name)
		return classification{
			Name:      name,
			Category:  attrstrip.Classify(name).String(),
			Preserved: attrstrip.IsPreserved(name),
		}
	})

	if format == output.FormatText {
		// One line per name rather than blank-line separated blocks.
		for _, r := range results {
			if _, err := fmt.Fprintln(cmd.OutOrStdout(), r); err != nil {
				return err
			}
		}
		return nil
	}

	w, err := output.NewWriter(cmd.OutOrStdout(), format)
	if err != nil {
		return err
	}
	if err := w.WriteAll(results); err != nil {
		return err
	}
	return w.Close()
}
