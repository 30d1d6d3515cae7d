package bridge

import "testing"

func TestFloorDivMod(t *testing.T) {
	tests := []struct {
		a, b, div, mod int64
	}{
		{7, 2, 3, 1},
		{-7, 2, -4, 1},
		{7, -2, -4, -1},
		{-7, -2, 3, -1},
		{6, 3, 2, 0},
	}
	for _, tt := range tests {
		div, err := floorDiv(tt.a, tt.b)
		if err != nil {
			t.Fatalf("floorDiv(%d, %d): %v", tt.a, tt.b, err)
		}
		if div != tt.div {
			t.Errorf("floorDiv(%d, %d) = %d, want %d", tt.a, tt.b, div, tt.div)
		}
		mod, err := floorMod(tt.a, tt.b)
		if err != nil {
			t.Fatalf("floorMod(%d, %d): %v", tt.a, tt.b, err)
		}
		if mod != tt.mod {
			t.Errorf("floorMod(%d, %d) = %d, want %d", tt.a, tt.b, mod, tt.mod)
		}
	}

	if _, err := floorDiv(1, 0); err == nil {
		t.Error("floorDiv by zero succeeded")
	}
	if _, err := floorMod(1, 0); err == nil {
		t.Error("floorMod by zero succeeded")
	}
}

func TestBinaryNumericPromotion(t *testing.T) {
	tests := []struct {
		op       string
		a, b     any
		expected any
	}{
		{"add", int64(1), int64(2), int64(3)},
		{"add", int64(1), 2.5, 3.5},
		{"add", "foo", "bar", "foobar"},
		{"sub", 5.0, int64(2), 3.0},
		{"mul", int64(3), int64(4), int64(12)},
		{"div", int64(7), int64(2), int64(3)},
		{"div", 7.0, 2.0, 3.5},
		{"and", int64(0b1100), int64(0b1010), int64(0b1000)},
		{"or", int64(0b1100), int64(0b1010), int64(0b1110)},
		{"xor", int64(0b1100), int64(0b1010), int64(0b0110)},
		{"shl", int64(1), int64(4), int64(16)},
		{"shr", int64(16), int64(2), int64(4)},
	}
	for _, tt := range tests {
		got, err := binaryNumeric(tt.op, tt.a, tt.b)
		if err != nil {
			t.Fatalf("binaryNumeric(%q, %v, %v): %v", tt.op, tt.a, tt.b, err)
		}
		if got != tt.expected {
			t.Errorf("binaryNumeric(%q, %v, %v) = %v, want %v", tt.op, tt.a, tt.b, got, tt.expected)
		}
	}

	if _, err := binaryNumeric("shl", 1.5, 2.0); err == nil {
		t.Error("bit operation on floats succeeded")
	}
}

func TestCompareValues(t *testing.T) {
	tests := []struct {
		a, b     any
		expected int
	}{
		{int64(1), int64(2), -1},
		{int64(2), int64(2), 0},
		{3.5, int64(3), 1},
		{"a", "b", -1},
		{"b", "b", 0},
		{true, int64(0), 1},
		{false, int64(0), 0},
	}
	for _, tt := range tests {
		got, err := compareValues(tt.a, tt.b)
		if err != nil {
			t.Fatalf("compareValues(%v, %v): %v", tt.a, tt.b, err)
		}
		if got != tt.expected {
			t.Errorf("compareValues(%v, %v) = %d, want %d", tt.a, tt.b, got, tt.expected)
		}
	}

	if _, err := compareValues("a", int64(1)); err == nil {
		t.Error("comparing string to int succeeded")
	}
}

func TestLiteralWidth(t *testing.T) {
	tests := []struct {
		token    string
		bits     int
		expected int64
	}{
		{"0x1", 8, 1},
		{"-0x1", 8, -1},
		{"0x7f", 8, 127},
		{"0xff", 8, -1},
		{"0x100", 16, 256},
		{"0xffff", 16, -1},
	}
	for _, tt := range tests {
		got, err := literalWidth(tt.token, tt.bits)
		if err != nil {
			t.Fatalf("literalWidth(%q, %d): %v", tt.token, tt.bits, err)
		}
		if got != tt.expected {
			t.Errorf("literalWidth(%q, %d) = %d, want %d", tt.token, tt.bits, got, tt.expected)
		}
	}
}

func TestJavaStringHash(t *testing.T) {
	tests := []struct {
		input    string
		expected int64
	}{
		{"", 0},
		{"a", 97},
		{"Ab", 2113},
		{"hello", 99162322},
	}
	for _, tt := range tests {
		if got := javaStringHash(tt.input); got != tt.expected {
			t.Errorf("javaStringHash(%q) = %d, want %d", tt.input, got, tt.expected)
		}
	}
}

func TestDefaultExecutorsAliases(t *testing.T) {
	table := DefaultExecutors()

	aliases := map[string]string{
		"return-void-barrier": OpReturnVoid,
		"return-wide":         OpReturnObject,
		"goto/32":             OpGoto,
		"const-string":        OpConst,
		"sget-boolean":        OpSgetObject,
		"aput-char":           OpAput,
		"add-long/2addr":      "add-int/2addr",
		"ushr-int":            "shr-int",
		"neg-double":          OpNegInt,
		"instance-of":         OpCheckCast,
		"move-object/from16":  OpMoveObject,
	}
	for alias, primary := range aliases {
		e, err := table.Lookup(alias)
		if err != nil {
			t.Errorf("Lookup(%q): %v", alias, err)
			continue
		}
		if e.Name != primary {
			t.Errorf("alias %q resolved to %q, want %q", alias, e.Name, primary)
		}
	}

	if _, err := table.Lookup("frobnicate"); err == nil {
		t.Error("Lookup of unknown opcode succeeded")
	}
}
