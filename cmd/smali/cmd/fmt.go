package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/spf13/cobra"

	"github.com/cwbudde/go-smali/internal/reader"
	"github.com/cwbudde/go-smali/internal/writer"
)

var (
	fmtDiff  bool
	fmtWrite bool
)

var fmtCmd = &cobra.Command{
	Use:   "fmt [file]",
	Short: "Re-emit a Smali file in canonical form",
	Long: `Parse a Smali source file and print it back in canonical form: one
directive per line, four-space indentation per scope, blank lines around
field and method blocks.

Examples:
  # Print the canonical form
  smali fmt Example.smali

  # Show what would change
  smali fmt --diff Example.smali

  # Rewrite the file in place
  smali fmt --write Example.smali`,
	Args: cobra.ExactArgs(1),
	RunE: formatFile,
}

func init() {
	rootCmd.AddCommand(fmtCmd)

	fmtCmd.Flags().BoolVar(&fmtDiff, "diff", false, "print a diff instead of the formatted source")
	fmtCmd.Flags().BoolVarP(&fmtWrite, "write", "w", false, "rewrite the file in place")
}

func formatFile(_ *cobra.Command, args []string) error {
	filename := args[0]
	content, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	w := writer.NewWriter()
	r := reader.New(
		reader.WithValidation(false),
		reader.WithComments(true),
		reader.WithErrorMode(reader.Ignore),
		reader.WithCopyHandler(w),
	)
	if err := r.VisitString(string(content), w); err != nil {
		return err
	}
	formatted := w.Code()

	switch {
	case fmtDiff:
		dmp := diffmatchpatch.New()
		diffs := dmp.DiffMain(string(content), formatted, false)
		if len(diffs) == 1 && diffs[0].Type == diffmatchpatch.DiffEqual {
			return nil
		}
		fmt.Print(renderDiff(diffs))
	case fmtWrite:
		if err := os.WriteFile(filename, []byte(formatted), 0o644); err != nil {
			return fmt.Errorf("failed to write file %s: %w", filename, err)
		}
	default:
		fmt.Print(formatted)
	}
	return nil
}

// renderDiff prints insertions and deletions line by line, prefixed the
// way unified diffs do.
func renderDiff(diffs []diffmatchpatch.Diff) string {
	var sb strings.Builder
	for _, diff := range diffs {
		prefix := "  "
		switch diff.Type {
		case diffmatchpatch.DiffInsert:
			prefix = "+ "
		case diffmatchpatch.DiffDelete:
			prefix = "- "
		default:
			continue
		}
		for _, line := range strings.Split(strings.TrimRight(diff.Text, "\n"), "\n") {
			sb.WriteString(prefix)
			sb.WriteString(line)
			sb.WriteString("\n")
		}
	}
	return sb.String()
}
