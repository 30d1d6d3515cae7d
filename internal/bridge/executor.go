package bridge

import (
	"fmt"
	"math"

	"github.com/cwbudde/go-smali/internal/types"
)

// Executor implements one opcode family. The primary name identifies the
// executor; aliases list the type-specific mnemonics that share its
// behavior (e.g. all aget-* variants run the generic aget).
type Executor struct {
	Name    string
	Aliases []string
	Run     func(f *Frame, in *Instruction) error
}

func (e *Executor) String() string {
	return fmt.Sprintf("<%s>", e.Name)
}

// OpcodeTable maps opcode mnemonics (primary names and aliases) to their
// executors. Tables are built once and treated as immutable afterwards;
// the VM takes one at construction.
type OpcodeTable map[string]*Executor

func (t OpcodeTable) register(e *Executor) {
	t[e.Name] = e
	for _, alias := range e.Aliases {
		t[alias] = e
	}
}

// Lookup returns the executor for the given mnemonic.
func (t OpcodeTable) Lookup(name string) (*Executor, error) {
	if e, ok := t[name]; ok {
		return e, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrNoSuchOpcode, name)
}

// DefaultExecutors builds the standard opcode table.
func DefaultExecutors() OpcodeTable {
	t := make(OpcodeTable)
	for _, group := range [][]*Executor{
		coreExecutors(),
		mathExecutors(),
		objectExecutors(),
	} {
		for _, e := range group {
			t.register(e)
		}
	}
	return t
}

// argN extracts the operand at index i.
func argN(in *Instruction, i int) (string, error) {
	if i >= len(in.Args) {
		return "", NewExecutionError("VerifyError", "%s: missing operand %d", in.Name, i)
	}
	return in.Args[i], nil
}

// regValue reads the register named by operand i.
func regValue(f *Frame, in *Instruction, i int) (any, error) {
	register, err := argN(in, i)
	if err != nil {
		return nil, err
	}
	return f.Get(register)
}

// asInt coerces a register value to an integer.
func asInt(value any) (int64, error) {
	switch v := value.(type) {
	case int64:
		return v, nil
	case bool:
		if v {
			return 1, nil
		}
		return 0, nil
	}
	return 0, NewExecutionError("TypeError", "expected integer value, got %T", value)
}

// asFloat coerces a register value to a floating-point number.
func asFloat(value any) (float64, error) {
	switch v := value.(type) {
	case float64:
		return v, nil
	case int64:
		return float64(v), nil
	}
	return 0, NewExecutionError("TypeError", "expected numeric value, got %T", value)
}

func isFloat(value any) bool {
	_, ok := value.(float64)
	return ok
}

// floorDiv implements Python-style integer division (quotient rounded
// towards negative infinity).
func floorDiv(a, b int64) (int64, error) {
	if b == 0 {
		return 0, NewExecutionError("ArithmeticError", "divide by zero")
	}
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q, nil
}

// floorMod implements Python-style modulo (result takes the divisor's
// sign).
func floorMod(a, b int64) (int64, error) {
	if b == 0 {
		return 0, NewExecutionError("ArithmeticError", "divide by zero")
	}
	m := a % b
	if m != 0 && ((a < 0) != (b < 0)) {
		m += b
	}
	return m, nil
}

// binaryNumeric applies the matching operation to two numeric operands:
// integers stay integral, any float operand promotes the operation to
// floating point. Strings concatenate under addition, mirroring the
// dynamic typing of register values.
func binaryNumeric(op string, a, b any) (any, error) {
	if op == "add" {
		if as, ok := a.(string); ok {
			if bs, ok := b.(string); ok {
				return as + bs, nil
			}
		}
	}

	if isFloat(a) || isFloat(b) {
		x, err := asFloat(a)
		if err != nil {
			return nil, err
		}
		y, err := asFloat(b)
		if err != nil {
			return nil, err
		}
		switch op {
		case "add":
			return x + y, nil
		case "sub":
			return x - y, nil
		case "mul":
			return x * y, nil
		case "div":
			if y == 0 {
				return nil, NewExecutionError("ArithmeticError", "float divide by zero")
			}
			return x / y, nil
		case "rem":
			return math.Mod(x, y), nil
		}
		return nil, NewExecutionError("TypeError", "operation %q undefined for float operands", op)
	}

	x, err := asInt(a)
	if err != nil {
		return nil, err
	}
	y, err := asInt(b)
	if err != nil {
		return nil, err
	}
	switch op {
	case "add":
		return x + y, nil
	case "sub":
		return x - y, nil
	case "mul":
		return x * y, nil
	case "div":
		return floorDiv(x, y)
	case "rem":
		return floorMod(x, y)
	case "and":
		return x & y, nil
	case "or":
		return x | y, nil
	case "xor":
		return x ^ y, nil
	case "shl":
		return x << uint64(y), nil
	case "shr":
		return x >> uint64(y), nil
	}
	return nil, NewExecutionError("TypeError", "unknown operation %q", op)
}

// compareValues orders two register values: numbers compare numerically,
// strings lexically, booleans as false < true.
func compareValues(a, b any) (int, error) {
	if as, ok := a.(string); ok {
		if bs, ok := b.(string); ok {
			switch {
			case as < bs:
				return -1, nil
			case as > bs:
				return 1, nil
			}
			return 0, nil
		}
	}

	x, err := asFloat(normalizeBool(a))
	if err != nil {
		return 0, err
	}
	y, err := asFloat(normalizeBool(b))
	if err != nil {
		return 0, err
	}
	switch {
	case x < y:
		return -1, nil
	case x > y:
		return 1, nil
	}
	return 0, nil
}

func normalizeBool(value any) any {
	if v, ok := value.(bool); ok {
		if v {
			return int64(1)
		}
		return int64(0)
	}
	return value
}

// valuesEqual implements the loose equality used by the eq/ne branches:
// comparable values compare by order, everything else by identity.
func valuesEqual(a, b any) bool {
	if cmp, err := compareValues(a, b); err == nil {
		return cmp == 0
	}
	return a == b
}

// isZero reports whether the value compares equal to integer zero.
func isZero(value any) bool {
	switch v := value.(type) {
	case int64:
		return v == 0
	case float64:
		return v == 0
	case bool:
		return !v
	}
	return false
}

// parseLiteral decodes an instruction literal operand.
func parseLiteral(token string) (any, error) {
	value, err := types.ParseValue(token)
	if err != nil {
		return nil, NewExecutionError("VerifyError", "invalid literal %q", token)
	}
	return value, nil
}

// literalWidth decodes an integer literal and sign-extends it from the
// encoding width of the lit8/lit16 forms, so `-0x1` stays -1.
func literalWidth(token string, bits int) (int64, error) {
	value, err := parseLiteral(token)
	if err != nil {
		return 0, err
	}
	n, err := asInt(value)
	if err != nil {
		return 0, err
	}
	if bits == 8 {
		return int64(int8(n)), nil
	}
	return int64(int16(n)), nil
}
