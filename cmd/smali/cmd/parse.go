package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cwbudde/go-smali/internal/reader"
	"github.com/cwbudde/go-smali/internal/visitor"
)

var (
	parseLenient bool
	parseSnippet bool
)

var parseCmd = &cobra.Command{
	Use:   "parse [file]",
	Short: "Parse a Smali file and report syntax errors",
	Long: `Parse a Smali source file with validation enabled and report the first
syntax error, if any.

Examples:
  # Validate a class file
  smali parse Example.smali

  # Validate a snippet without a .class header
  smali parse --snippet snippet.smali`,
	Args: cobra.ExactArgs(1),
	RunE: parseFile,
}

func init() {
	rootCmd.AddCommand(parseCmd)

	parseCmd.Flags().BoolVar(&parseLenient, "lenient", false, "tolerate unexpected end of line inside directives")
	parseCmd.Flags().BoolVar(&parseSnippet, "snippet", false, "skip the initial .class directive")
}

func parseFile(_ *cobra.Command, args []string) error {
	file, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", args[0], err)
	}
	defer file.Close()

	mode := reader.Strict
	if parseLenient {
		mode = reader.Ignore
	}
	r := reader.New(
		reader.WithValidation(true),
		reader.WithSnippet(parseSnippet),
		reader.WithErrorMode(mode),
	)
	if err := r.Visit(file, &visitor.BaseClassVisitor{}); err != nil {
		return err
	}
	fmt.Printf("%s: OK\n", args[0])
	return nil
}
