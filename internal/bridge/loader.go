package bridge

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/golang/glog"

	"github.com/cwbudde/go-smali/internal/reader"
	"github.com/cwbudde/go-smali/internal/types"
	"github.com/cwbudde/go-smali/internal/visitor"
)

// smaliClassLoader drives the reader into the class model.
type smaliClassLoader struct {
	vm *VM
}

// DefineClass parses the source into a Class and registers it with the VM.
func (l *smaliClassLoader) DefineClass(source io.Reader) (*Class, error) {
	r := reader.New(reader.WithValidation(true))
	builder := &classBuilder{vm: l.vm}
	if err := r.Visit(source, builder); err != nil {
		return nil, err
	}
	if builder.err != nil {
		return nil, builder.err
	}
	if builder.class == nil {
		return nil, errors.New("bridge: could not parse class")
	}
	if err := l.vm.NewClass(builder.class); err != nil {
		return nil, err
	}
	glog.V(1).Infof("defined class %s", builder.class.Signature())
	return builder.class, nil
}

// LoadClass defines the class and optionally runs `<clinit>`. The
// initializer is isolated: its failure is returned, but the class stays
// registered.
func (l *smaliClassLoader) LoadClass(source io.Reader, init bool) (*Class, error) {
	class, err := l.DefineClass(source)
	if err != nil {
		return nil, err
	}
	if init {
		if err := class.Clinit(); err != nil {
			return class, fmt.Errorf("class initializer of %s failed: %w", class.Name(), err)
		}
	}
	return class, nil
}

// classBuilder populates a Class from parser events.
type classBuilder struct {
	visitor.BaseClassVisitor

	vm     *VM
	parent *classBuilder
	class  *Class
	err    error
}

// fail records the first build error on the root builder; the parse
// continues so later diagnostics are not masked by scope imbalance.
func (b *classBuilder) fail(err error) {
	if b.parent != nil {
		b.parent.fail(err)
		return
	}
	if b.err == nil {
		b.err = err
	}
}

func (b *classBuilder) VisitClass(name string, flags types.AccessFlags) {
	b.class = NewClass(b.vm, nil, name, flags)
}

func (b *classBuilder) VisitInnerClass(name string, flags types.AccessFlags) visitor.ClassVisitor {
	inner := &classBuilder{vm: b.vm, parent: b, class: NewClass(b.vm, b.class, name, flags)}
	b.class.AddInnerClass(inner.class)
	b.vm.NewClass(inner.class)
	return inner
}

func (b *classBuilder) VisitSuper(superClass string) {
	b.class.SetSuperClass(types.NewDescriptor(superClass))
}

func (b *classBuilder) VisitImplements(iface string) {
	b.class.AddInterface(types.NewDescriptor(iface))
}

func (b *classBuilder) VisitField(name string, flags types.AccessFlags, fieldType, value string) visitor.FieldVisitor {
	var parsed any
	if value != "" {
		decoded, err := types.ParseValue(value)
		if err != nil {
			b.fail(fmt.Errorf("invalid value for field %s: %w", name, err))
		} else {
			parsed = decoded
		}
	}
	field := NewField(fieldType, b.class, name+":"+fieldType, flags, name, parsed)
	b.class.AddField(field)
	return &fieldBuilder{field: field}
}

func (b *classBuilder) VisitMethod(name string, flags types.AccessFlags, parameters []string, returnType string) visitor.MethodVisitor {
	signature := name + "(" + strings.Join(parameters, "") + ")" + returnType
	method, err := NewMethod(b.vm, b.class, signature, flags)
	if err != nil {
		b.fail(err)
		return nil
	}
	builder := &methodBuilder{vm: b.vm, owner: b, method: method, frame: NewFrame()}
	b.vm.NewFrame(method, builder.frame)
	b.class.AddMethod(method)
	return builder
}

func (b *classBuilder) VisitAnnotation(flags types.AccessFlags, signature string) visitor.AnnotationVisitor {
	annotation := NewAnnotation(b.class, signature, flags)
	b.class.AddAnnotation(annotation)
	return &annotationBuilder{annotation: annotation}
}

// fieldBuilder collects annotations applied to a field.
type fieldBuilder struct {
	visitor.BaseFieldVisitor

	field *Field
}

func (b *fieldBuilder) VisitAnnotation(flags types.AccessFlags, signature string) visitor.AnnotationVisitor {
	annotation := NewAnnotation(b.field, signature, flags)
	b.field.AddAnnotation(annotation)
	return &annotationBuilder{annotation: annotation}
}

// methodBuilder assembles a method's template frame: the opcode list plus
// the label, catch, array-data and switch tables.
type methodBuilder struct {
	visitor.BaseMethodVisitor

	vm        *VM
	owner     *classBuilder
	method    *Method
	frame     *Frame
	lastLabel string
}

func (b *methodBuilder) VisitBlock(name string) {
	b.frame.labels[name] = len(b.frame.opcodes)
	b.lastLabel = name
}

func (b *methodBuilder) VisitLocals(count int) {
	b.method.SetLocals(count)
}

func (b *methodBuilder) VisitRegisters(count int) {
	locals := count - len(b.method.Parameters())
	if !b.method.Modifiers().Has(types.AccStatic) {
		locals--
	}
	if locals < 0 {
		locals = 0
	}
	b.method.SetLocals(locals)
}

func (b *methodBuilder) VisitCatch(excName, tryStart, tryEnd, handler string) {
	b.frame.catch[tryStart] = CatchHandler{Exception: excName, TryEnd: tryEnd, Handler: handler}
}

func (b *methodBuilder) VisitCatchAll(excName, tryStart, tryEnd, handler string) {
	b.VisitCatch(excName, tryStart, tryEnd, handler)
}

func (b *methodBuilder) VisitGoto(label string) {
	b.append(OpGoto, []string{label})
}

func (b *methodBuilder) VisitInvoke(invType string, registers []string, owner, method string) {
	args := append([]string{invType, owner, method}, registers...)
	b.append(OpInvoke, args)
}

func (b *methodBuilder) VisitReturn(retType string, args []string) {
	name := OpReturn
	if retType != "" {
		name = OpReturn + "-" + retType
	}
	b.VisitInstruction(name, args)
}

func (b *methodBuilder) VisitInstruction(name string, args []string) {
	b.append(name, args)
}

// append assembles one instruction, resolving its executor. Unknown
// opcodes become no-ops unless the VM is strict.
func (b *methodBuilder) append(name string, args []string) {
	op, err := b.vm.executors.Lookup(name)
	if err != nil {
		if b.vm.useStrict {
			b.owner.fail(fmt.Errorf("%w: %s", ErrInvalidOpcode, name))
			return
		}
		op = b.vm.executors[OpNop]
	}
	b.frame.opcodes = append(b.frame.opcodes, Instruction{Name: name, Op: op, Args: args})
}

func (b *methodBuilder) VisitPackedSwitch(firstKey string, labels []string) {
	b.frame.switchData[b.lastLabel] = &SwitchData{Packed: true, FirstKey: firstKey, Labels: labels}
}

func (b *methodBuilder) VisitSparseSwitch(branches map[string]string) {
	b.frame.switchData[b.lastLabel] = &SwitchData{Branches: branches}
}

func (b *methodBuilder) VisitArrayData(width string, values []any) {
	b.frame.arrayData[b.lastLabel] = values
}

func (b *methodBuilder) VisitAnnotation(flags types.AccessFlags, signature string) visitor.AnnotationVisitor {
	annotation := NewAnnotation(b.method, signature, flags)
	b.method.AddAnnotation(annotation)
	return &annotationBuilder{annotation: annotation}
}

// annotationBuilder decodes annotation attribute values into the model.
type annotationBuilder struct {
	visitor.BaseAnnotationVisitor

	annotation *Annotation
}

func (b *annotationBuilder) VisitValue(name, value string) {
	if decoded, err := types.ParseValue(value); err == nil {
		b.annotation.Set(name, decoded)
	} else {
		b.annotation.Set(name, value)
	}
}

func (b *annotationBuilder) VisitArray(name string, values []string) {
	decoded := make([]any, 0, len(values))
	for _, value := range values {
		if v, err := types.ParseValue(value); err == nil {
			decoded = append(decoded, v)
		} else {
			decoded = append(decoded, value)
		}
	}
	b.annotation.Set(name, decoded)
}

func (b *annotationBuilder) VisitEnum(name, owner, constName, valueType string) {
	b.annotation.Set(name, &EnumValue{
		Owner: types.NewDescriptor(owner),
		Name:  constName,
		Type:  types.NewDescriptor(valueType),
	})
}

func (b *annotationBuilder) VisitSubannotation(name string, flags types.AccessFlags, signature string) visitor.AnnotationVisitor {
	sub := NewAnnotation(b.annotation, signature, flags)
	b.annotation.Set(name, sub)
	return &annotationBuilder{annotation: sub}
}
