package bridge

// mathExecutors covers the arithmetic opcode families in their three
// encodings: three-register, two-address and literal.
func mathExecutors() []*Executor {
	ops := []*Executor{
		// Unary forms.
		{
			Name:    OpNegInt,
			Aliases: []string{OpNegLong, OpNegFloat, OpNegDouble},
			Run: func(f *Frame, in *Instruction) error {
				return unary(f, in, func(value any) (any, error) {
					if x, ok := value.(float64); ok {
						return -x, nil
					}
					n, err := asInt(value)
					if err != nil {
						return nil, err
					}
					return -n, nil
				})
			},
		},
		{
			Name:    OpNotInt,
			Aliases: []string{OpNotLong},
			Run: func(f *Frame, in *Instruction) error {
				return unary(f, in, func(value any) (any, error) {
					n, err := asInt(value)
					if err != nil {
						return nil, err
					}
					return ^n, nil
				})
			},
		},

		// True float division keeps its own executors: the generic "div"
		// floors when both operands are integral.
		{
			Name:    "div-float",
			Aliases: []string{"div-double"},
			Run:     floatDiv3,
		},
		{
			Name:    "div-float/2addr",
			Aliases: []string{"div-double/2addr"},
			Run:     floatDiv2addr,
		},
		{
			Name: "rsub-int",
			Aliases: []string{"rsub-int/lit8"},
			Run: func(f *Frame, in *Instruction) error {
				dest, err := argN(in, 0)
				if err != nil {
					return err
				}
				left, err := regValue(f, in, 1)
				if err != nil {
					return err
				}
				token, err := argN(in, 2)
				if err != nil {
					return err
				}
				width := 16
				if in.Name == "rsub-int/lit8" {
					width = 8
				}
				lit, err := literalWidth(token, width)
				if err != nil {
					return err
				}
				result, err := binaryNumeric("sub", lit, left)
				if err != nil {
					return err
				}
				f.Set(dest, result)
				return nil
			},
		},
	}

	// The regular binary families share three generic encodings per
	// operation.
	families := []struct {
		base    string
		op      string
		aliases []string
	}{
		{"add-int", "add", []string{"add-long", "add-float", "add-double"}},
		{"sub-int", "sub", []string{"sub-long", "sub-float", "sub-double"}},
		{"mul-int", "mul", []string{"mul-long", "mul-float", "mul-double"}},
		{"rem-int", "rem", []string{"rem-long", "rem-float", "rem-double"}},
		{"div-int", "div", []string{"div-long"}},
		{"and-int", "and", []string{"and-long"}},
		{"or-int", "or", []string{"or-long"}},
		{"xor-int", "xor", []string{"xor-long"}},
		{"shl-int", "shl", []string{"shl-long"}},
		{"shr-int", "shr", []string{"shr-long", "ushr-int", "ushr-long"}},
	}

	for _, fam := range families {
		op := fam.op

		ops = append(ops, &Executor{
			Name:    fam.base,
			Aliases: fam.aliases,
			Run: func(f *Frame, in *Instruction) error {
				return binary3(f, in, op)
			},
		})

		twoAddr := make([]string, 0, len(fam.aliases))
		for _, alias := range fam.aliases {
			twoAddr = append(twoAddr, alias+"/2addr")
		}
		ops = append(ops, &Executor{
			Name:    fam.base + "/2addr",
			Aliases: twoAddr,
			Run: func(f *Frame, in *Instruction) error {
				return binary2addr(f, in, op)
			},
		})

		ops = append(ops,
			&Executor{
				Name: fam.base + "/lit8",
				Run: func(f *Frame, in *Instruction) error {
					return binaryLit(f, in, op, 8)
				},
			},
			&Executor{
				Name: fam.base + "/lit16",
				Run: func(f *Frame, in *Instruction) error {
					return binaryLit(f, in, op, 16)
				},
			},
		)
	}
	return ops
}

func unary(f *Frame, in *Instruction, apply func(any) (any, error)) error {
	dest, err := argN(in, 0)
	if err != nil {
		return err
	}
	value, err := regValue(f, in, 1)
	if err != nil {
		return err
	}
	result, err := apply(value)
	if err != nil {
		return err
	}
	f.Set(dest, result)
	return nil
}

// binary3 implements `op dest, a, b`.
func binary3(f *Frame, in *Instruction, op string) error {
	dest, err := argN(in, 0)
	if err != nil {
		return err
	}
	left, err := regValue(f, in, 1)
	if err != nil {
		return err
	}
	right, err := regValue(f, in, 2)
	if err != nil {
		return err
	}
	result, err := binaryNumeric(op, left, right)
	if err != nil {
		return err
	}
	f.Set(dest, result)
	return nil
}

// binary2addr implements `op dest, src` meaning dest = dest op src.
func binary2addr(f *Frame, in *Instruction, op string) error {
	dest, err := argN(in, 0)
	if err != nil {
		return err
	}
	left, err := f.Get(dest)
	if err != nil {
		return err
	}
	right, err := regValue(f, in, 1)
	if err != nil {
		return err
	}
	result, err := binaryNumeric(op, left, right)
	if err != nil {
		return err
	}
	f.Set(dest, result)
	return nil
}

// binaryLit implements `op dest, src, literal` with the literal
// sign-extended from the encoding width.
func binaryLit(f *Frame, in *Instruction, op string, bits int) error {
	dest, err := argN(in, 0)
	if err != nil {
		return err
	}
	left, err := regValue(f, in, 1)
	if err != nil {
		return err
	}
	token, err := argN(in, 2)
	if err != nil {
		return err
	}
	lit, err := literalWidth(token, bits)
	if err != nil {
		return err
	}
	result, err := binaryNumeric(op, left, lit)
	if err != nil {
		return err
	}
	f.Set(dest, result)
	return nil
}

func floatDiv3(f *Frame, in *Instruction) error {
	dest, err := argN(in, 0)
	if err != nil {
		return err
	}
	left, err := regValue(f, in, 1)
	if err != nil {
		return err
	}
	right, err := regValue(f, in, 2)
	if err != nil {
		return err
	}
	result, err := trueDiv(left, right)
	if err != nil {
		return err
	}
	f.Set(dest, result)
	return nil
}

func floatDiv2addr(f *Frame, in *Instruction) error {
	dest, err := argN(in, 0)
	if err != nil {
		return err
	}
	left, err := f.Get(dest)
	if err != nil {
		return err
	}
	right, err := regValue(f, in, 1)
	if err != nil {
		return err
	}
	result, err := trueDiv(left, right)
	if err != nil {
		return err
	}
	f.Set(dest, result)
	return nil
}

// trueDiv always divides in floating point.
func trueDiv(a, b any) (any, error) {
	x, err := asFloat(a)
	if err != nil {
		return nil, err
	}
	y, err := asFloat(b)
	if err != nil {
		return nil, err
	}
	if y == 0 {
		return nil, NewExecutionError("ArithmeticError", "float divide by zero")
	}
	return x / y, nil
}
