package bridge

import (
	"fmt"
	"strings"
)

// coreExecutors covers control flow, moves, constants and conversions.
func coreExecutors() []*Executor {
	return []*Executor{
		{Name: OpNop, Run: func(f *Frame, in *Instruction) error { return nil }},

		{
			Name:    OpReturnVoid,
			Aliases: []string{OpReturnVoidBarrier, OpReturnVoidNoBarrier},
			Run: func(f *Frame, in *Instruction) error {
				f.Finish(nil)
				return nil
			},
		},
		{
			Name:    OpReturnObject,
			Aliases: []string{OpReturn, OpReturnWide},
			Run: func(f *Frame, in *Instruction) error {
				value, err := regValue(f, in, 0)
				if err != nil {
					return err
				}
				f.Finish(value)
				return nil
			},
		},

		{
			Name:    OpGoto,
			Aliases: []string{OpGoto16, OpGoto32},
			Run: func(f *Frame, in *Instruction) error {
				label, err := argN(in, 0)
				if err != nil {
					return err
				}
				return f.Jump(strings.TrimPrefix(label, ":"))
			},
		},

		{
			Name: OpThrow,
			Run: func(f *Frame, in *Instruction) error {
				value, err := regValue(f, in, 0)
				if err != nil {
					return err
				}
				return &ExecutionError{Name: "RuntimeError", Message: fmt.Sprintf("%v", value), Value: value}
			},
		},

		{
			Name:    OpConst,
			Aliases: []string{OpConst4, OpConst16, OpConstHigh16, OpConstString, OpConstStringJumbo, OpConstWide, OpConstWide16, OpConstWide32, OpConstWideHigh16},
			Run: func(f *Frame, in *Instruction) error {
				register, err := argN(in, 0)
				if err != nil {
					return err
				}
				token, err := argN(in, 1)
				if err != nil {
					return err
				}
				value, err := parseLiteral(token)
				if err != nil {
					return err
				}
				f.Set(register, value)
				return nil
			},
		},
		{
			Name: OpConstClass,
			Run: func(f *Frame, in *Instruction) error {
				register, err := argN(in, 0)
				if err != nil {
					return err
				}
				name, err := argN(in, 1)
				if err != nil {
					return err
				}
				class, err := f.VM().GetClass(name)
				if err != nil {
					return err
				}
				f.Set(register, class)
				return nil
			},
		},

		{
			Name:    OpMoveResult,
			Aliases: []string{OpMoveResultObject, OpMoveResultWide},
			Run: func(f *Frame, in *Instruction) error {
				register, err := argN(in, 0)
				if err != nil {
					return err
				}
				f.Set(register, f.MethodReturn())
				return nil
			},
		},
		{
			Name:    OpMove,
			Aliases: []string{OpMoveFrom16, OpMove16, OpMoveWide, OpMoveWideFrom16, OpMoveWide16},
			Run:     moveRegister,
		},
		{
			Name:    OpMoveObject,
			Aliases: []string{OpMoveObjectFrom16, OpMoveObject16},
			Run:     moveRegister,
		},
		{
			Name: OpMoveException,
			Run: func(f *Frame, in *Instruction) error {
				register, err := argN(in, 0)
				if err != nil {
					return err
				}
				f.Set(register, f.Err())
				return nil
			},
		},

		{
			Name:    OpIntToLong,
			Aliases: []string{},
			Run: func(f *Frame, in *Instruction) error {
				return convert(f, in, func(v int64) any { return v })
			},
		},
		{
			Name:    OpIntToInt,
			Aliases: []string{OpLongToInt},
			Run: func(f *Frame, in *Instruction) error {
				return convert(f, in, func(v int64) any { return int64(uint64(v) & 0xFFFFFFFF) })
			},
		},
		{
			Name:    OpIntToChar,
			Aliases: []string{OpIntToShort},
			Run: func(f *Frame, in *Instruction) error {
				return convert(f, in, func(v int64) any { return v & 0xFFFF })
			},
		},
		{
			// Sign-extending cast of the low 8 bits.
			Name: OpIntToByte,
			Run: func(f *Frame, in *Instruction) error {
				return convert(f, in, func(v int64) any { return int64(int8(v)) })
			},
		},
		{
			Name:    OpIntToFloat,
			Aliases: []string{OpIntToDouble},
			Run: func(f *Frame, in *Instruction) error {
				return convert(f, in, func(v int64) any { return float64(v) })
			},
		},

		{Name: OpIfEq, Run: branch2(func(cmp int) bool { return cmp == 0 })},
		{Name: OpIfNe, Run: branch2(func(cmp int) bool { return cmp != 0 })},
		{Name: OpIfLt, Run: branch2(func(cmp int) bool { return cmp < 0 })},
		{Name: OpIfLe, Run: branch2(func(cmp int) bool { return cmp <= 0 })},
		{Name: OpIfGt, Run: branch2(func(cmp int) bool { return cmp > 0 })},
		{Name: OpIfGe, Run: branch2(func(cmp int) bool { return cmp >= 0 })},
		{Name: OpIfEqz, Run: branchZero(func(cmp int) bool { return cmp == 0 })},
		{Name: OpIfNez, Run: branchZero(func(cmp int) bool { return cmp != 0 })},
		{Name: OpIfLtz, Run: branchZero(func(cmp int) bool { return cmp < 0 })},
		{Name: OpIfLez, Run: branchZero(func(cmp int) bool { return cmp <= 0 })},
		{Name: OpIfGtz, Run: branchZero(func(cmp int) bool { return cmp > 0 })},
		{Name: OpIfGez, Run: branchZero(func(cmp int) bool { return cmp >= 0 })},

		{
			Name: OpPackedSwitch,
			Run: func(f *Frame, in *Instruction) error {
				register, err := argN(in, 0)
				if err != nil {
					return err
				}
				label, err := argN(in, 1)
				if err != nil {
					return err
				}
				data, ok := f.switchData[strings.TrimPrefix(label, ":")]
				if !ok || !data.Packed {
					return NewExecutionError("VerifyError", "no packed-switch payload at %s", label)
				}

				value, err := f.Get(register)
				if err != nil {
					return err
				}
				current, err := asInt(value)
				if err != nil {
					return err
				}
				base, err := parseLiteral(data.FirstKey)
				if err != nil {
					return err
				}
				first, err := asInt(base)
				if err != nil {
					return err
				}

				idx := current - first
				if idx < 0 || idx >= int64(len(data.Labels)) {
					// Out of range falls through to the default branch.
					return nil
				}
				return f.Jump(data.Labels[idx])
			},
		},
		{
			Name: OpSparseSwitch,
			Run: func(f *Frame, in *Instruction) error {
				register, err := argN(in, 0)
				if err != nil {
					return err
				}
				label, err := argN(in, 1)
				if err != nil {
					return err
				}
				data, ok := f.switchData[strings.TrimPrefix(label, ":")]
				if !ok || data.Packed {
					return NewExecutionError("VerifyError", "no sparse-switch payload at %s", label)
				}

				value, err := f.Get(register)
				if err != nil {
					return err
				}
				for key, target := range data.Branches {
					parsed, err := parseLiteral(key)
					if err != nil {
						return err
					}
					if valuesEqual(parsed, value) {
						return f.Jump(target)
					}
				}
				return nil
			},
		},
	}
}

func moveRegister(f *Frame, in *Instruction) error {
	dest, err := argN(in, 0)
	if err != nil {
		return err
	}
	value, err := regValue(f, in, 1)
	if err != nil {
		return err
	}
	f.Set(dest, value)
	return nil
}

// convert implements the int-to-* conversion family.
func convert(f *Frame, in *Instruction, conv func(int64) any) error {
	dest, err := argN(in, 0)
	if err != nil {
		return err
	}
	value, err := regValue(f, in, 1)
	if err != nil {
		return err
	}
	n, err := asInt(value)
	if err != nil {
		// Float sources pass through the integer truncation first.
		x, ferr := asFloat(value)
		if ferr != nil {
			return err
		}
		n = int64(x)
	}
	f.Set(dest, conv(n))
	return nil
}

// branch2 builds a two-register conditional branch executor.
func branch2(taken func(cmp int) bool) func(f *Frame, in *Instruction) error {
	return func(f *Frame, in *Instruction) error {
		left, err := regValue(f, in, 0)
		if err != nil {
			return err
		}
		right, err := regValue(f, in, 1)
		if err != nil {
			return err
		}
		label, err := argN(in, 2)
		if err != nil {
			return err
		}
		cmp, err := compareValues(left, right)
		if err != nil {
			// eq/ne tolerate incomparable values via identity.
			if valuesEqual(left, right) {
				cmp = 0
			} else {
				cmp = 1
			}
		}
		if taken(cmp) {
			return f.Jump(strings.TrimPrefix(label, ":"))
		}
		return nil
	}
}

// branchZero builds a register-against-zero conditional branch executor.
func branchZero(taken func(cmp int) bool) func(f *Frame, in *Instruction) error {
	return func(f *Frame, in *Instruction) error {
		left, err := regValue(f, in, 0)
		if err != nil {
			return err
		}
		label, err := argN(in, 1)
		if err != nil {
			return err
		}
		cmp, err := compareValues(left, int64(0))
		if err != nil {
			if isZero(left) {
				cmp = 0
			} else {
				cmp = 1
			}
		}
		if taken(cmp) {
			return f.Jump(strings.TrimPrefix(label, ":"))
		}
		return nil
	}
}
