package bridge

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/golang/glog"

	"github.com/cwbudde/go-smali/internal/types"
)

// ClassLoader parses Smali source into the class model and registers the
// result with the VM.
type ClassLoader interface {
	// DefineClass parses the source into a Class and registers it.
	DefineClass(source io.Reader) (*Class, error)
	// LoadClass defines the class and, when init is set, runs `<clinit>`.
	// A failing initializer is reported but does not unregister the class.
	LoadClass(source io.Reader, init bool) (*Class, error)
}

// DebugHandler hooks into the interpreter loop around every executed
// opcode.
type DebugHandler interface {
	Precall(vm *VM, method *Method, in *Instruction)
	Postcall(vm *VM, method *Method, in *Instruction)
}

// VMOption configures a VM.
type VMOption func(*VM)

// WithClassLoader installs a custom class loader.
func WithClassLoader(loader ClassLoader) VMOption {
	return func(vm *VM) { vm.loader = loader }
}

// WithExecutors installs a custom opcode table. The table is treated as
// immutable once the VM holds it.
func WithExecutors(table OpcodeTable) VMOption {
	return func(vm *VM) { vm.executors = table }
}

// WithStrict makes the VM fail on unknown opcodes at parse time instead of
// substituting no-ops.
func WithStrict(strict bool) VMOption {
	return func(vm *VM) { vm.useStrict = strict }
}

// VM emulates the Dalvik register machine over parsed Smali classes.
// Execution is single-threaded and synchronous.
type VM struct {
	loader    ClassLoader
	executors OpcodeTable
	useStrict bool
	debug     DebugHandler

	classes map[string]*Class
	frames  map[*Method]*Frame
}

// NewVM creates a virtual machine with the default class loader and
// opcode table.
func NewVM(opts ...VMOption) *VM {
	vm := &VM{
		classes: make(map[string]*Class),
		frames:  make(map[*Method]*Frame),
	}
	for _, opt := range opts {
		opt(vm)
	}
	if vm.executors == nil {
		vm.executors = DefaultExecutors()
	}
	if vm.loader == nil {
		vm.loader = &smaliClassLoader{vm: vm}
	}
	return vm
}

// ClassLoader returns the loader used to define classes.
func (vm *VM) ClassLoader() ClassLoader { return vm.loader }

// SetDebugHandler attaches precall/postcall hooks; nil detaches.
func (vm *VM) SetDebugHandler(handler DebugHandler) { vm.debug = handler }

// Strict reports whether unknown opcodes fail at parse time.
func (vm *VM) Strict() bool { return vm.useStrict }

// NewClass registers a class under its type-descriptor signature.
func (vm *VM) NewClass(class *Class) error {
	if class == nil {
		return errors.New("bridge: class must be non-nil")
	}
	vm.classes[class.Signature()] = class
	return nil
}

// NewFrame stores the template frame for a parsed method. Later calls
// clone it per invocation.
func (vm *VM) NewFrame(method *Method, frame *Frame) {
	if _, ok := vm.frames[method]; !ok {
		vm.frames[method] = frame
		frame.vm = vm
	}
}

// GetClass resolves a class by name. Dotted and bare names are normalized
// to descriptor form first.
func (vm *VM) GetClass(name string) (*Class, error) {
	key := types.NewDescriptor(name).String()
	if class, ok := vm.classes[key]; ok {
		return class, nil
	}
	return nil, fmt.Errorf("%w: class %q not defined", ErrNoSuchClass, name)
}

// DefineClass parses the source and registers the class.
func (vm *VM) DefineClass(source io.Reader) (*Class, error) {
	return vm.loader.DefineClass(source)
}

// DefineClassString parses Smali source held in a string.
func (vm *VM) DefineClassString(source string) (*Class, error) {
	return vm.loader.DefineClass(strings.NewReader(source))
}

// LoadClass defines the class and optionally runs its initializer.
func (vm *VM) LoadClass(source io.Reader, init bool) (*Class, error) {
	return vm.loader.LoadClass(source, init)
}

// LoadClassString loads a class from Smali source held in a string.
func (vm *VM) LoadClassString(source string, init bool) (*Class, error) {
	return vm.loader.LoadClass(strings.NewReader(source), init)
}

// primitiveParams maps parameter descriptors to the register value kind
// the VM expects for them.
var primitiveParams = map[string]string{
	"B": "int", "S": "int", "I": "int", "J": "int",
	"Ljava/lang/Byte;": "int", "Ljava/lang/Short;": "int",
	"Ljava/lang/Integer;": "int", "Ljava/lang/Long;": "int",
	"F": "float", "D": "float",
	"Ljava/lang/Float;": "float", "Ljava/lang/Double;": "float",
	"C": "string", "Ljava/lang/String;": "string", "Ljava/lang/Character;": "string",
	"Z": "bool", "Ljava/lang/Boolean;": "bool",
}

// checkArgType validates one call argument against the declared parameter
// descriptor. Unknown class descriptors must be defined in the registry.
func (vm *VM) checkArgType(param *types.Descriptor, value any) error {
	if kind, ok := primitiveParams[param.String()]; ok {
		valid := false
		switch kind {
		case "int":
			_, valid = value.(int64)
		case "float":
			_, valid = value.(float64)
		case "string":
			_, valid = value.(string)
		case "bool":
			_, valid = value.(bool)
		}
		if !valid {
			return fmt.Errorf("invalid type for parameter: expected %s, got %T", param, value)
		}
		return nil
	}
	if param.Kind() == types.KindArray {
		if _, ok := value.([]any); !ok {
			return fmt.Errorf("invalid type for parameter: expected %s, got %T", param, value)
		}
		return nil
	}
	_, err := vm.GetClass(param.String())
	return err
}

// Call executes the given method on the receiver. The receiver must be
// nil for static methods. Arguments are validated against the declared
// parameter descriptors before execution starts.
func (vm *VM) Call(method *Method, instance any, args ...any) (any, error) {
	return vm.call(method, instance, args, nil)
}

func (vm *VM) call(method *Method, instance any, args []any, parent *Frame) (any, error) {
	template, ok := vm.frames[method]
	if !ok {
		return nil, fmt.Errorf("%w: method not registered: %s", ErrNoSuchMethod, method.Signature())
	}
	glog.V(1).Infof("call %s (%d args)", method.Signature(), len(args))

	frame := template.Clone()
	frame.parent = parent

	for i := 0; i < method.Locals(); i++ {
		frame.Set(fmt.Sprintf("v%d", i), nil)
	}

	start := 0
	if !method.Modifiers().Has(types.AccStatic) {
		if instance == nil {
			return nil, NewExecutionError("NullPointerError", "expected instance of %s", method.Type())
		}
		frame.Set("p0", instance)
		start = 1
	}

	params := method.Parameters()
	if len(args) != len(params) {
		return nil, fmt.Errorf("invalid argument count: expected %d, got %d", len(params), len(args))
	}
	for i, arg := range args {
		if err := vm.checkArgType(params[i], arg); err != nil {
			return nil, err
		}
		frame.Set(fmt.Sprintf("p%d", start+i), arg)
	}

	if err := vm.run(method, frame); err != nil {
		return nil, err
	}
	return frame.ReturnValue(), nil
}

// run is the interpreter loop: execute opcodes until the frame finishes,
// routing execution errors through the catch table.
func (vm *VM) run(method *Method, frame *Frame) error {
	for !frame.finished && frame.pos < len(frame.opcodes) {
		in := &frame.opcodes[frame.pos]
		if vm.debug != nil {
			vm.debug.Precall(vm, method, in)
		}
		glog.V(2).Infof("exec %s %v", in.Name, in.Args)

		if err := in.Op.Run(frame, in); err != nil {
			var exe *ExecutionError
			if !errors.As(err, &exe) {
				return err
			}
			handler, ok := frame.catchHandlerFor(frame.pos)
			if !ok {
				frame.err = exe
				frame.caught = false
				break
			}
			frame.err = exe
			frame.caught = true
			if err := frame.Jump(handler.Handler); err != nil {
				return err
			}
		}

		if frame.jumped {
			frame.jumped = false
		} else {
			frame.pos++
		}
		if vm.debug != nil {
			vm.debug.Postcall(vm, method, in)
		}
	}

	if frame.err != nil && !frame.caught {
		return frame.err
	}
	return nil
}

// catchHandlerFor finds the catch entry whose guarded range contains the
// given position. Handlers match any execution error; the recorded
// exception descriptor is kept for move-exception consumers.
func (f *Frame) catchHandlerFor(pos int) (CatchHandler, bool) {
	for start, handler := range f.catch {
		startPos, ok := f.labels[start]
		if !ok || pos < startPos {
			continue
		}
		if endPos, ok := f.labels[handler.TryEnd]; ok && pos >= endPos {
			continue
		}
		return handler, true
	}
	return CatchHandler{}, false
}
