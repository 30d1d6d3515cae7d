package bridge

import (
	"fmt"

	"github.com/cwbudde/go-smali/internal/types"
)

// Member is the common parent of classes, methods, fields and annotations.
// Every member owns a type descriptor, a signature it is identified by,
// access modifiers and the annotations applied to it. The parent reference
// is for lookup only and never implies ownership.
type Member struct {
	typ         *types.Descriptor
	signature   string
	modifiers   types.AccessFlags
	parent      any
	annotations map[string][]*Annotation
}

func newMember(typ, signature string, modifiers types.AccessFlags, parent any) Member {
	return Member{
		typ:         types.NewDescriptor(typ),
		signature:   signature,
		modifiers:   modifiers,
		parent:      parent,
		annotations: make(map[string][]*Annotation),
	}
}

// Type returns the member's type descriptor.
func (m *Member) Type() *types.Descriptor { return m.typ }

// Signature returns the signature this member is identified by.
func (m *Member) Signature() string { return m.signature }

// Modifiers returns the member's access flags.
func (m *Member) Modifiers() types.AccessFlags { return m.modifiers }

// Parent returns the declaring member, or nil.
func (m *Member) Parent() any { return m.parent }

// AddAnnotation records an annotation applied to this member.
func (m *Member) AddAnnotation(a *Annotation) {
	key := a.Type().String()
	m.annotations[key] = append(m.annotations[key], a)
}

// Annotations returns the declared annotations of the given type.
func (m *Member) Annotations(descriptor string) []*Annotation {
	return m.annotations[types.NewDescriptor(descriptor).String()]
}

// IsAnnotationPresent reports whether an annotation of the given type is
// applied to this member.
func (m *Member) IsAnnotationPresent(descriptor string) bool {
	return len(m.Annotations(descriptor)) > 0
}

// EnumValue is an enum constant reference inside an annotation attribute.
type EnumValue struct {
	Owner *types.Descriptor
	Name  string
	Type  *types.Descriptor
}

func (e *EnumValue) String() string {
	return e.Owner.String() + "->" + e.Name + ":" + e.Type.String()
}

// Annotation represents a Smali annotation or subannotation. It behaves as
// a mapping of attribute names to parsed values: literals, arrays, enum
// references or nested annotations.
type Annotation struct {
	Member
	attrs map[string]any
}

// NewAnnotation creates an annotation of the given type descriptor.
func NewAnnotation(parent any, signature string, modifiers types.AccessFlags) *Annotation {
	return &Annotation{
		Member: newMember(signature, signature, modifiers, parent),
		attrs:  make(map[string]any),
	}
}

// Get returns the attribute value, or nil when absent.
func (a *Annotation) Get(name string) any { return a.attrs[name] }

// Set stores an attribute value.
func (a *Annotation) Set(name string, value any) { a.attrs[name] = value }

// Has reports whether the attribute is present.
func (a *Annotation) Has(name string) bool {
	_, ok := a.attrs[name]
	return ok
}

// Field represents a Smali field. Static fields hold their value at class
// level; instance field values live on the object.
type Field struct {
	Member
	name  string
	value any
}

// NewField creates a field with the given declaration.
func NewField(typ string, parent any, signature string, modifiers types.AccessFlags, name string, value any) *Field {
	return &Field{
		Member: newMember(typ, signature, modifiers, parent),
		name:   name,
		value:  value,
	}
}

// Name returns the field name.
func (f *Field) Name() string { return f.name }

// Value returns the class-level value of the field.
func (f *Field) Value() any { return f.value }

// SetValue updates the class-level value of the field.
func (f *Field) SetValue(value any) { f.value = value }

// Method represents a Smali method bound to the VM that executes it.
type Method struct {
	Member
	vm         *VM
	name       string
	params     []*types.Descriptor
	returnType *types.Descriptor
	locals     int
}

// NewMethod creates a method from its bare signature (`name(params)ret`).
func NewMethod(vm *VM, parent *Class, signature string, modifiers types.AccessFlags) (*Method, error) {
	m := &Method{
		Member: newMember(parent.Type().String()+"->"+signature, signature, modifiers, parent),
		vm:     vm,
	}
	sig, err := types.ParseSignature(signature)
	if err != nil {
		return nil, err
	}
	m.name = sig.Name()
	m.params = sig.ParameterTypes()
	m.returnType = sig.ReturnType()
	return m, nil
}

// Name returns the method name; `<init>` and `<clinit>` are preserved.
func (m *Method) Name() string { return m.name }

// Parameters returns the parameter type descriptors.
func (m *Method) Parameters() []*types.Descriptor { return m.params }

// ReturnType returns the return type descriptor.
func (m *Method) ReturnType() *types.Descriptor { return m.returnType }

// Locals returns the number of local registers.
func (m *Method) Locals() int { return m.locals }

// SetLocals records the number of local registers.
func (m *Method) SetLocals(count int) { m.locals = count }

// DeclaringClass returns the class this method belongs to.
func (m *Method) DeclaringClass() *Class {
	c, _ := m.parent.(*Class)
	return c
}

// Call executes the method on the given receiver. The receiver must be nil
// for static methods.
func (m *Method) Call(instance any, args ...any) (any, error) {
	if m.vm == nil {
		return nil, fmt.Errorf("%w: method %q is not bound to a VM", ErrUnsupported, m.signature)
	}
	if m.modifiers.Has(types.AccAbstract) {
		return nil, fmt.Errorf("%w: abstract methods cannot be executed", ErrUnsupported)
	}
	return m.vm.Call(m, instance, args...)
}

// ReturnHint narrows overload resolution when the argument count alone is
// ambiguous: the caller states whether it expects a value or void.
type ReturnHint int

const (
	// NoHint leaves ambiguity unresolved.
	NoHint ReturnHint = iota
	// WantsValue selects the overload with a non-void return type.
	WantsValue
	// WantsVoid selects the overload returning void.
	WantsVoid
)

// MethodBroker holds all overloads sharing a simple method name and
// resolves the target of an invocation.
type MethodBroker struct {
	name    string
	methods []*Method
}

// NewMethodBroker creates a broker for the given method name.
func NewMethodBroker(name string, methods ...*Method) *MethodBroker {
	return &MethodBroker{name: name, methods: methods}
}

// Name returns the shared method name.
func (b *MethodBroker) Name() string { return b.name }

// Add registers another overload.
func (b *MethodBroker) Add(method *Method) { b.methods = append(b.methods, method) }

// Methods returns all overloads.
func (b *MethodBroker) Methods() []*Method { return b.methods }

// Resolve picks the overload for an invocation with the given positional
// argument count. When the count is ambiguous, the return hint decides;
// without a hint the resolution fails.
func (b *MethodBroker) Resolve(argCount int, hint ReturnHint) (*Method, error) {
	if len(b.methods) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoSuchMethod, b.name)
	}
	if len(b.methods) == 1 {
		return b.methods[0], nil
	}

	var targets []*Method
	for _, m := range b.methods {
		if len(m.Parameters()) == argCount {
			targets = append(targets, m)
		}
	}
	if len(targets) == 1 {
		return targets[0], nil
	}
	if len(targets) == 0 {
		return nil, fmt.Errorf("%w: attempted to call %s() with invalid arguments", ErrNoSuchMethod, b.name)
	}
	if hint == NoHint {
		return nil, fmt.Errorf("%w: attempted to call %s() - multiple variants present", ErrNoSuchMethod, b.name)
	}

	var narrowed []*Method
	for _, m := range targets {
		void := m.ReturnType().String() == "V"
		if (hint == WantsVoid) == void {
			narrowed = append(narrowed, m)
		}
	}
	if len(narrowed) == 1 {
		return narrowed[0], nil
	}
	return nil, fmt.Errorf("%w: attempted to call %s() - multiple variants present", ErrNoSuchMethod, b.name)
}

// Class stores an imported Smali class definition: fields, method brokers,
// inner classes, the super descriptor and the implemented interfaces.
// Super and interface references are descriptors resolved through the VM
// registry, never direct pointers.
type Class struct {
	Member
	vm         *VM
	name       string
	simpleName string
	super      *types.Descriptor
	interfaces []*types.Descriptor

	fields      map[string]*Field
	fieldOrder  []string
	brokers     map[string]*MethodBroker
	brokerOrder []string
	inner       map[string]*Class
}

// NewClass creates an empty class for the given type descriptor.
func NewClass(vm *VM, parent any, signature string, modifiers types.AccessFlags) *Class {
	c := &Class{
		Member:  newMember(signature, signature, modifiers, parent),
		vm:      vm,
		fields:  make(map[string]*Field),
		brokers: make(map[string]*MethodBroker),
		inner:   make(map[string]*Class),
	}
	c.name = c.Type().PrettyName()
	c.simpleName = c.Type().SimpleName()
	return c
}

// Name returns the pretty class name (dots as package separator).
func (c *Class) Name() string { return c.name }

// SimpleName returns the class name without the package.
func (c *Class) SimpleName() string { return c.simpleName }

// SuperClass returns the super-class descriptor, or nil before `.super`
// was parsed.
func (c *Class) SuperClass() *types.Descriptor { return c.super }

// SetSuperClass records the super-class descriptor.
func (c *Class) SetSuperClass(descriptor *types.Descriptor) { c.super = descriptor }

// Interfaces returns the implemented interface descriptors in declaration
// order.
func (c *Class) Interfaces() []*types.Descriptor { return c.interfaces }

// AddInterface records an implemented interface, keeping the list unique.
func (c *Class) AddInterface(descriptor *types.Descriptor) {
	for _, existing := range c.interfaces {
		if existing.Equals(descriptor) {
			return
		}
	}
	c.interfaces = append(c.interfaces, descriptor)
}

// AddField registers a field. Fields are added monotonically during
// parsing; a re-declaration replaces the earlier one.
func (c *Class) AddField(field *Field) {
	if _, ok := c.fields[field.Name()]; !ok {
		c.fieldOrder = append(c.fieldOrder, field.Name())
	}
	c.fields[field.Name()] = field
}

// AddMethod registers a method with the broker of its name.
func (c *Class) AddMethod(method *Method) {
	broker, ok := c.brokers[method.Name()]
	if !ok {
		broker = NewMethodBroker(method.Name())
		c.brokers[method.Name()] = broker
		c.brokerOrder = append(c.brokerOrder, method.Name())
	}
	broker.Add(method)
}

// AddInnerClass registers a nested class under its descriptor.
func (c *Class) AddInnerClass(inner *Class) {
	c.inner[inner.Signature()] = inner
}

// Field returns the field with the given name.
func (c *Class) Field(name string) (*Field, error) {
	if field, ok := c.fields[name]; ok {
		return field, nil
	}
	return nil, fmt.Errorf("%w: field %q not found in %s", ErrNoSuchField, name, c.name)
}

// Fields returns all fields matching the access filter; a zero filter
// matches everything.
func (c *Class) Fields(filter types.AccessFlags) []*Field {
	var result []*Field
	for _, name := range c.fieldOrder {
		field := c.fields[name]
		if filter == 0 || field.Modifiers().Has(filter) {
			result = append(result, field)
		}
	}
	return result
}

// Broker returns the overload set for the given method name.
func (c *Class) Broker(name string) (*MethodBroker, error) {
	if broker, ok := c.brokers[name]; ok {
		return broker, nil
	}
	return nil, fmt.Errorf("%w: method %q not found in %s", ErrNoSuchMethod, name, c.name)
}

// Method resolves a method by simple name or by exact overload signature.
// A simple name only resolves when the broker holds a single overload.
func (c *Class) Method(key string) (*Method, error) {
	for _, name := range c.brokerOrder {
		broker := c.brokers[name]
		if name == key && len(broker.Methods()) == 1 {
			return broker.Methods()[0], nil
		}
		for _, method := range broker.Methods() {
			if method.Signature() == key {
				return method, nil
			}
		}
	}
	return nil, fmt.Errorf("%w: method with signature %q not found in %s", ErrNoSuchMethod, key, c.name)
}

// DeclaredMethods flattens all brokers, optionally filtered by access
// flags; a zero filter matches everything.
func (c *Class) DeclaredMethods(filter types.AccessFlags) []*Method {
	var result []*Method
	for _, name := range c.brokerOrder {
		for _, method := range c.brokers[name].Methods() {
			if filter == 0 || method.Modifiers().Has(filter) {
				result = append(result, method)
			}
		}
	}
	return result
}

// InnerClass returns a nested class by its type descriptor.
func (c *Class) InnerClass(name string) (*Class, error) {
	if inner, ok := c.inner[name]; ok {
		return inner, nil
	}
	return nil, fmt.Errorf("%w: class %q not found", ErrNoSuchClass, name)
}

// InnerClasses returns all nested classes keyed by descriptor.
func (c *Class) InnerClasses() map[string]*Class { return c.inner }

// Clinit runs the static initializer. A class without `<clinit>` is not an
// error.
func (c *Class) Clinit() error {
	method, err := c.Method(types.Clinit)
	if err != nil {
		return nil
	}
	_, err = method.Call(nil)
	return err
}

// IsAssignable reports whether other can be assigned to this class: other
// is the class itself or this class appears in other's super chain. The
// walk terminates at java/lang/Object, which every class is assignable to.
func (c *Class) IsAssignable(other *Class) bool {
	if other == nil {
		return false
	}
	if c.Signature() == "Ljava/lang/Object;" || c.Signature() == other.Signature() {
		return true
	}

	super := other.SuperClass()
	for super != nil && super.String() != "Ljava/lang/Object;" {
		if super.String() == c.Signature() {
			return true
		}
		if c.vm == nil {
			return false
		}
		next, err := c.vm.GetClass(super.String())
		if err != nil {
			return false
		}
		super = next.SuperClass()
	}
	return false
}

func (c *Class) String() string {
	return fmt.Sprintf("<Class %s>", c.signature)
}

// objectIDs hands out identity hash codes for objects. Execution is
// single-threaded, so a plain counter suffices.
var objectIDs int64

// Object is a live instance of a Smali class. It carries the values of the
// non-static fields; static reads and writes are forwarded to the class.
type Object struct {
	class  *Class
	id     int64
	fields map[string]any
}

// NewObject allocates an instance of the given class without running a
// constructor. Abstract classes and interfaces cannot be instantiated.
func NewObject(class *Class) (*Object, error) {
	if class.Modifiers().Has(types.AccAbstract | types.AccInterface) {
		return nil, fmt.Errorf("%w: class %s is abstract and cannot be instantiated directly", ErrUnsupported, class.Name())
	}

	objectIDs++
	o := &Object{class: class, id: objectIDs, fields: make(map[string]any)}
	for _, field := range class.Fields(0) {
		if !field.Modifiers().Has(types.AccStatic) {
			o.fields[field.Name()] = nil
		}
	}
	return o, nil
}

// Class returns the prototype class of this object.
func (o *Object) Class() *Class { return o.class }

// ID returns the object's identity, used for hashCode.
func (o *Object) ID() int64 { return o.id }

// Init runs the constructor overload matching the argument count.
func (o *Object) Init(args ...any) error {
	broker, err := o.class.Broker(types.Init)
	if err != nil {
		return err
	}
	ctor, err := broker.Resolve(len(args), NoHint)
	if err != nil {
		return err
	}
	_, err = ctor.Call(o, args...)
	return err
}

// Get reads a field value. Static fields read the class-level slot.
func (o *Object) Get(name string) (any, error) {
	field, err := o.class.Field(name)
	if err != nil {
		return nil, err
	}
	if field.Modifiers().Has(types.AccStatic) {
		return field.Value(), nil
	}
	value, ok := o.fields[name]
	if !ok {
		return nil, fmt.Errorf("%w: field not found: %s", ErrNoSuchField, name)
	}
	return value, nil
}

// Set writes a field value. Writes to final fields are refused; static
// fields write the class-level slot.
func (o *Object) Set(name string, value any) error {
	field, err := o.class.Field(name)
	if err != nil {
		return err
	}
	if field.Modifiers().Has(types.AccFinal) {
		return fmt.Errorf("%w: attempt to write read-only field %s.%s", ErrUnsupported, o.class.Name(), name)
	}
	if field.Modifiers().Has(types.AccStatic) {
		field.SetValue(value)
		return nil
	}
	o.fields[name] = value
	return nil
}

func (o *Object) String() string {
	return fmt.Sprintf("<%s@%x>", o.class.Name(), o.id)
}
