package bridge

import (
	"strings"

	"github.com/golang/glog"

	"github.com/cwbudde/go-smali/internal/types"
)

// objectExecutors covers field access, arrays, invocation and object
// creation.
func objectExecutors() []*Executor {
	return []*Executor{
		{
			Name:    OpInvoke,
			Aliases: []string{OpInvokeDirect, OpInvokeStatic, OpInvokeVirtual},
			Run:     invoke,
		},

		{
			Name:    OpSputObject,
			Aliases: []string{OpSput, OpSputBoolean, OpSputByte, OpSputChar, OpSputShort, OpSputWide, OpSputWideVolatile, OpSputObjectVolatile},
			Run: func(f *Frame, in *Instruction) error {
				value, err := regValue(f, in, 0)
				if err != nil {
					return err
				}
				field, err := staticField(f, in, 1)
				if err != nil {
					return err
				}
				field.SetValue(value)
				return nil
			},
		},
		{
			Name:    OpSgetObject,
			Aliases: []string{OpSget, OpSgetBoolean, OpSgetByte, OpSgetChar, OpSgetShort, OpSgetWide, OpSgetWideVolatile, OpSgetVolatile, OpSgetObjectVolatile},
			Run: func(f *Frame, in *Instruction) error {
				register, err := argN(in, 0)
				if err != nil {
					return err
				}
				field, err := staticField(f, in, 1)
				if err != nil {
					return err
				}
				f.Set(register, field.Value())
				return nil
			},
		},
		{
			Name:    OpIgetObject,
			Aliases: []string{OpIget, OpIgetBoolean, OpIgetByte, OpIgetChar, OpIgetShort, OpIgetWide, OpIgetVolatile, OpIgetObjectVolatile},
			Run: func(f *Frame, in *Instruction) error {
				dest, err := argN(in, 0)
				if err != nil {
					return err
				}
				object, err := objectOperand(f, in, 1)
				if err != nil {
					return err
				}
				name, err := fieldNameOperand(in, 2)
				if err != nil {
					return err
				}
				value, err := object.Get(name)
				if err != nil {
					return err
				}
				f.Set(dest, value)
				return nil
			},
		},
		{
			Name:    OpIputObject,
			Aliases: []string{OpIput, OpIputBoolean, OpIputByte, OpIputChar, OpIputShort, OpIputWide, OpIputVolatile, OpIputObjectVolatile},
			Run: func(f *Frame, in *Instruction) error {
				value, err := regValue(f, in, 0)
				if err != nil {
					return err
				}
				object, err := objectOperand(f, in, 1)
				if err != nil {
					return err
				}
				name, err := fieldNameOperand(in, 2)
				if err != nil {
					return err
				}
				return object.Set(name, value)
			},
		},

		{
			Name: OpArrayLength,
			Run: func(f *Frame, in *Instruction) error {
				dest, err := argN(in, 0)
				if err != nil {
					return err
				}
				value, err := regValue(f, in, 1)
				if err != nil {
					return err
				}
				switch v := value.(type) {
				case []any:
					f.Set(dest, int64(len(v)))
				case string:
					f.Set(dest, int64(len(v)))
				default:
					return NewExecutionError("TypeError", "array-length on %T", value)
				}
				return nil
			},
		},
		{
			Name: OpFillArrayData,
			Run: func(f *Frame, in *Instruction) error {
				dest, err := argN(in, 0)
				if err != nil {
					return err
				}
				label, err := argN(in, 1)
				if err != nil {
					return err
				}
				data, ok := f.arrayData[strings.TrimPrefix(label, ":")]
				if !ok {
					return NewExecutionError("VerifyError", "no array-data payload at %s", label)
				}
				f.Set(dest, data)
				return nil
			},
		},
		{
			Name:    OpAget,
			Aliases: []string{OpAgetObject, OpAgetBoolean, OpAgetByte, OpAgetChar, OpAgetShort, OpAgetWide},
			Run: func(f *Frame, in *Instruction) error {
				dest, err := argN(in, 0)
				if err != nil {
					return err
				}
				array, idx, err := arrayOperands(f, in)
				if err != nil {
					return err
				}
				if idx < 0 || idx >= int64(len(array)) {
					return NewExecutionError("IndexOutOfBoundsError", "index %d is out of bounds for length %d", idx, len(array))
				}
				f.Set(dest, array[idx])
				return nil
			},
		},
		{
			Name:    OpAput,
			Aliases: []string{OpAputObject, OpAputBoolean, OpAputByte, OpAputChar, OpAputShort, OpAputWide},
			Run: func(f *Frame, in *Instruction) error {
				value, err := regValue(f, in, 0)
				if err != nil {
					return err
				}
				array, idx, err := arrayOperands(f, in)
				if err != nil {
					return err
				}
				if idx < 0 || idx > int64(len(array)) {
					return NewExecutionError("IndexOutOfBoundsError", "index %d is out of bounds for length %d", idx, len(array))
				}
				if idx == int64(len(array)) {
					// One past the end appends.
					register, _ := argN(in, 1)
					f.Set(register, append(array, value))
					return nil
				}
				array[idx] = value
				return nil
			},
		},

		{
			Name: OpNewInstance,
			Run:  newInstance,
		},
		{
			Name: OpNewArray,
			Run: func(f *Frame, in *Instruction) error {
				dest, err := argN(in, 0)
				if err != nil {
					return err
				}
				count, err := regValue(f, in, 1)
				if err != nil {
					return err
				}
				n, err := asInt(count)
				if err != nil {
					return err
				}
				if n < 0 {
					return NewExecutionError("NegativeArraySizeError", "%d", n)
				}
				descriptor, err := argN(in, 2)
				if err != nil {
					return err
				}

				values := make([]any, n)
				if zero := zeroValueFor(types.NewDescriptor(descriptor)); zero != nil {
					for i := range values {
						values[i] = zero
					}
				}
				f.Set(dest, values)
				return nil
			},
		},

		{
			Name:    OpCheckCast,
			Aliases: []string{OpInstanceOf},
			Run: func(f *Frame, in *Instruction) error {
				value, err := regValue(f, in, 0)
				if err != nil {
					return err
				}
				object, ok := value.(*Object)
				if !ok {
					// Non-object values pass through silently.
					return nil
				}
				descriptor, err := argN(in, 1)
				if err != nil {
					return err
				}
				target, err := f.VM().GetClass(descriptor)
				if err != nil {
					return err
				}
				if !target.IsAssignable(object.Class()) {
					return NewExecutionError("ClassCastError", "could not cast %s to %s", object.Class().Name(), target.Name())
				}
				return nil
			},
		},
	}
}

// staticField resolves an `owner->name:type` operand to the class field.
func staticField(f *Frame, in *Instruction, i int) (*Field, error) {
	operand, err := argN(in, i)
	if err != nil {
		return nil, err
	}
	owner, nameType, ok := strings.Cut(operand, "->")
	if !ok {
		return nil, NewExecutionError("VerifyError", "invalid field reference %q", operand)
	}
	name, _, _ := strings.Cut(nameType, ":")

	class, err := f.VM().GetClass(owner)
	if err != nil {
		return nil, err
	}
	return class.Field(name)
}

// objectOperand reads an object register.
func objectOperand(f *Frame, in *Instruction, i int) (*Object, error) {
	value, err := regValue(f, in, i)
	if err != nil {
		return nil, err
	}
	object, ok := value.(*Object)
	if !ok {
		return nil, NewExecutionError("ClassCastError", "could not cast %T to object", value)
	}
	return object, nil
}

// fieldNameOperand extracts the field name from an `owner->name:type`
// operand.
func fieldNameOperand(in *Instruction, i int) (string, error) {
	operand, err := argN(in, i)
	if err != nil {
		return "", err
	}
	_, nameType, ok := strings.Cut(operand, "->")
	if !ok {
		return "", NewExecutionError("VerifyError", "invalid field reference %q", operand)
	}
	name, _, _ := strings.Cut(nameType, ":")
	return name, nil
}

// arrayOperands reads the array and index registers of aget/aput.
func arrayOperands(f *Frame, in *Instruction) ([]any, int64, error) {
	value, err := regValue(f, in, 1)
	if err != nil {
		return nil, 0, err
	}
	array, ok := value.([]any)
	if !ok {
		return nil, 0, NewExecutionError("TypeError", "expected array, got %T", value)
	}
	index, err := regValue(f, in, 2)
	if err != nil {
		return nil, 0, err
	}
	idx, err := asInt(index)
	if err != nil {
		return nil, 0, err
	}
	return array, idx, nil
}

// zeroValueFor returns the zero value of an array element type, or nil for
// reference types.
func zeroValueFor(descriptor *types.Descriptor) any {
	elem := descriptor
	if descriptor.ElementType() != nil {
		elem = descriptor.ElementType()
	}
	if elem.Kind() != types.KindPrimitive {
		return nil
	}
	switch elem.String() {
	case "B", "S", "I", "J":
		return int64(0)
	case "F", "D":
		return float64(0)
	case "Z":
		return false
	case "C":
		return ""
	}
	return nil
}

// wrapperZero returns the lenient zero value new-instance substitutes for
// primitives and well-known wrapper classes, and whether the descriptor is
// one of those.
func wrapperZero(descriptor string) (any, bool) {
	switch descriptor {
	case "I", "S", "B", "J",
		"Ljava/lang/Integer;", "Ljava/lang/Byte;", "Ljava/lang/Long;", "Ljava/lang/Short;":
		return int64(0), true
	case "F", "D", "Ljava/lang/Float;", "Ljava/lang/Double;":
		return float64(0), true
	case "C", "Ljava/lang/String;", "Ljava/lang/Character;":
		return "", true
	case "Z", "Ljava/lang/Boolean;":
		return false, true
	case "Ljava/util/ArrayList;", "Ljava/util/LinkedList;":
		return []any{}, true
	}
	return nil, false
}

func newInstance(f *Frame, in *Instruction) error {
	register, err := argN(in, 0)
	if err != nil {
		return err
	}
	descriptor, err := argN(in, 1)
	if err != nil {
		return err
	}

	// Primitive and well-known wrapper descriptors quietly coerce to their
	// zero values, matching what existing Smali tools emit.
	if zero, ok := wrapperZero(descriptor); ok {
		f.Set(register, zero)
		return nil
	}

	class, err := f.VM().GetClass(descriptor)
	if err != nil {
		return err
	}
	instance, err := NewObject(class)
	if err != nil {
		return err
	}
	if err := instance.Init(); err != nil {
		return err
	}
	f.Set(register, instance)
	return nil
}

// invoke dispatches invoke-direct/-virtual/-static. Built-in java/lang
// owners are served by the native tables; everything else resolves through
// the VM registry.
func invoke(f *Frame, in *Instruction) error {
	if len(in.Args) < 3 {
		return NewExecutionError("VerifyError", "malformed invoke")
	}
	invType, owner, methodSig := in.Args[0], in.Args[1], in.Args[2]
	registers := in.Args[3:]

	switch invType {
	case "direct", "virtual", "static":
	default:
		return nil
	}
	glog.V(2).Infof("invoke-%s %s->%s", invType, owner, methodSig)

	if impl, ok := builtins[owner]; ok {
		if len(registers) == 0 {
			return NewExecutionError("VerifyError", "builtin invoke without receiver")
		}
		receiver, err := f.Get(registers[0])
		if err != nil {
			return err
		}
		native, ok := impl[methodSig]
		if !ok {
			return NewExecutionError("NoSuchMethodError", "method %q not defined for %s", methodSig, owner)
		}
		result, err := native(receiver)
		if err != nil {
			return err
		}
		f.methodReturn = result
		return nil
	}

	values := make([]any, 0, len(registers))
	for _, register := range registers {
		value, err := f.Get(register)
		if err != nil {
			return err
		}
		values = append(values, value)
	}

	var instance any
	var class *Class
	if invType != "static" {
		if len(values) == 0 {
			return NewExecutionError("VerifyError", "instance invoke without receiver")
		}
		instance = values[0]
		values = values[1:]

		// invoke-direct on the super descriptor targets the super class.
		if object, ok := instance.(*Object); ok {
			super := object.Class().SuperClass()
			if super != nil && super.String() == types.NewDescriptor(owner).String() {
				superClass, err := f.VM().GetClass(super.String())
				if err != nil {
					return err
				}
				class = superClass
			}
		}
	}
	if class == nil {
		resolved, err := f.VM().GetClass(owner)
		if err != nil {
			return err
		}
		class = resolved
	}

	target, err := resolveInvokeTarget(f.VM(), class, methodSig)
	if err != nil {
		return err
	}
	result, err := f.VM().call(target, instance, values, f)
	if err != nil {
		return err
	}
	f.methodReturn = result
	return nil
}

// resolveInvokeTarget finds the method in the owner class or, failing
// that, along its super chain.
func resolveInvokeTarget(vm *VM, class *Class, methodSig string) (*Method, error) {
	current := class
	for {
		if method, err := current.Method(methodSig); err == nil {
			return method, nil
		}
		super := current.SuperClass()
		if super == nil || super.String() == "Ljava/lang/Object;" {
			break
		}
		next, err := vm.GetClass(super.String())
		if err != nil {
			break
		}
		current = next
	}
	return nil, &ExecutionError{Name: "NoSuchMethodError", Message: methodSig + " not found in " + class.Name()}
}
