package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Version information (set by build flags)
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "smali",
	Short: "Smali parser, formatter and emulator",
	Long: `go-smali is a Go implementation of a Smali toolchain.

Smali is the textual assembly form of Dalvik bytecode used by Android.
This tool parses Smali sources as produced by standard DEX disassemblers,
re-emits canonical Smali, and runs small programs on an in-process
register-based emulator:
  - Streaming, visitor-driven source parser
  - Reflective class model with overload resolution
  - Interpreter for the common DEX opcode families`,
	Version: Version,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(`{{with .Name}}{{printf "%%s " .}}{{end}}{{printf "version %%s" .Version}}
Commit: %s
Built:  %s
`, GitCommit, BuildDate))
}

func exitWithError(msg string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+msg+"\n", args...)
	os.Exit(1)
}
