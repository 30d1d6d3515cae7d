package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cwbudde/go-smali/internal/bridge"
	"github.com/cwbudde/go-smali/internal/types"
)

var (
	runMethod string
	runArgs   []string
	runTrace  bool
	runStrict bool
	runNoInit bool
)

var runCmd = &cobra.Command{
	Use:   "run [file]",
	Short: "Load a Smali class and invoke a method",
	Long: `Load a Smali class into the emulator, run its static initializer and
invoke a method. Arguments are given as Smali literals and matched against
the method's parameter types.

Examples:
  # Invoke the static main()V method
  smali run Example.smali -m main

  # Invoke an overload with arguments
  smali run Example.smali -m add -a 0x2 -a 0x3

  # Trace every executed opcode
  smali run Example.smali -m main --trace`,
	Args: cobra.ExactArgs(1),
	RunE: runClass,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runMethod, "method", "m", "main", "method name or full signature to invoke")
	runCmd.Flags().StringArrayVarP(&runArgs, "arg", "a", nil, "method argument as a Smali literal (repeatable)")
	runCmd.Flags().BoolVar(&runTrace, "trace", false, "trace execution (for debugging)")
	runCmd.Flags().BoolVar(&runStrict, "strict", false, "fail on unknown opcodes instead of treating them as no-ops")
	runCmd.Flags().BoolVar(&runNoInit, "no-init", false, "skip the static initializer")
}

// traceHandler prints every executed opcode via the debug hooks.
type traceHandler struct{}

func (traceHandler) Precall(_ *bridge.VM, method *bridge.Method, in *bridge.Instruction) {
	fmt.Fprintf(os.Stderr, "[trace] %s: %s %v\n", method.Name(), in.Name, in.Args)
}

func (traceHandler) Postcall(*bridge.VM, *bridge.Method, *bridge.Instruction) {}

func runClass(_ *cobra.Command, args []string) error {
	file, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("failed to read file %s: %w", args[0], err)
	}
	defer file.Close()

	vm := bridge.NewVM(bridge.WithStrict(runStrict))
	if runTrace {
		vm.SetDebugHandler(traceHandler{})
	}

	class, err := vm.LoadClass(file, !runNoInit)
	if err != nil {
		if class == nil {
			return err
		}
		// The class is registered even when its initializer failed.
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}

	values := make([]any, 0, len(runArgs))
	for _, arg := range runArgs {
		value, err := types.ParseValue(arg)
		if err != nil {
			return fmt.Errorf("invalid argument %q: %w", arg, err)
		}
		values = append(values, value)
	}

	method, err := resolveMethod(class, runMethod, len(values))
	if err != nil {
		return err
	}
	if !method.Modifiers().Has(types.AccStatic) {
		return fmt.Errorf("method %s is not static; only static entry points can be invoked", method.Signature())
	}

	result, err := vm.Call(method, nil, values...)
	if err != nil {
		return err
	}
	if result != nil {
		fmt.Println(formatResult(result))
	}
	return nil
}

// resolveMethod accepts either a full signature or a simple name; names
// resolve through the overload broker by argument count.
func resolveMethod(class *bridge.Class, key string, argCount int) (*bridge.Method, error) {
	if method, err := class.Method(key); err == nil {
		return method, nil
	}
	broker, err := class.Broker(key)
	if err != nil {
		return nil, err
	}
	return broker.Resolve(argCount, bridge.NoHint)
}

func formatResult(result any) string {
	switch v := result.(type) {
	case string:
		return fmt.Sprintf("%q", v)
	default:
		return fmt.Sprintf("%v", v)
	}
}
