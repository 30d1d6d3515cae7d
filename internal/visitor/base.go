package visitor

import "github.com/cwbudde/go-smali/internal/types"

// BaseAnnotationVisitor implements AnnotationVisitor by forwarding every
// event to Delegate when set. Embed it to override selected events.
type BaseAnnotationVisitor struct {
	Delegate AnnotationVisitor
}

func (b *BaseAnnotationVisitor) VisitComment(text string) {
	if b.Delegate != nil {
		b.Delegate.VisitComment(text)
	}
}

func (b *BaseAnnotationVisitor) VisitEOLComment(text string) {
	if b.Delegate != nil {
		b.Delegate.VisitEOLComment(text)
	}
}

func (b *BaseAnnotationVisitor) VisitEnd() {
	if b.Delegate != nil {
		b.Delegate.VisitEnd()
	}
}

func (b *BaseAnnotationVisitor) VisitValue(name, value string) {
	if b.Delegate != nil {
		b.Delegate.VisitValue(name, value)
	}
}

func (b *BaseAnnotationVisitor) VisitArray(name string, values []string) {
	if b.Delegate != nil {
		b.Delegate.VisitArray(name, values)
	}
}

func (b *BaseAnnotationVisitor) VisitSubannotation(name string, flags types.AccessFlags, signature string) AnnotationVisitor {
	if b.Delegate != nil {
		return b.Delegate.VisitSubannotation(name, flags, signature)
	}
	return nil
}

func (b *BaseAnnotationVisitor) VisitEnum(name, owner, constName, valueType string) {
	if b.Delegate != nil {
		b.Delegate.VisitEnum(name, owner, constName, valueType)
	}
}

// BaseMethodVisitor implements MethodVisitor by forwarding every event to
// Delegate when set.
type BaseMethodVisitor struct {
	Delegate MethodVisitor
}

func (b *BaseMethodVisitor) VisitComment(text string) {
	if b.Delegate != nil {
		b.Delegate.VisitComment(text)
	}
}

func (b *BaseMethodVisitor) VisitEOLComment(text string) {
	if b.Delegate != nil {
		b.Delegate.VisitEOLComment(text)
	}
}

func (b *BaseMethodVisitor) VisitEnd() {
	if b.Delegate != nil {
		b.Delegate.VisitEnd()
	}
}

func (b *BaseMethodVisitor) VisitAnnotation(flags types.AccessFlags, signature string) AnnotationVisitor {
	if b.Delegate != nil {
		return b.Delegate.VisitAnnotation(flags, signature)
	}
	return nil
}

func (b *BaseMethodVisitor) VisitParam(register, name string) {
	if b.Delegate != nil {
		b.Delegate.VisitParam(register, name)
	}
}

func (b *BaseMethodVisitor) VisitLocals(count int) {
	if b.Delegate != nil {
		b.Delegate.VisitLocals(count)
	}
}

func (b *BaseMethodVisitor) VisitRegisters(count int) {
	if b.Delegate != nil {
		b.Delegate.VisitRegisters(count)
	}
}

func (b *BaseMethodVisitor) VisitLine(number int) {
	if b.Delegate != nil {
		b.Delegate.VisitLine(number)
	}
}

func (b *BaseMethodVisitor) VisitBlock(name string) {
	if b.Delegate != nil {
		b.Delegate.VisitBlock(name)
	}
}

func (b *BaseMethodVisitor) VisitCatch(excName, tryStart, tryEnd, handler string) {
	if b.Delegate != nil {
		b.Delegate.VisitCatch(excName, tryStart, tryEnd, handler)
	}
}

func (b *BaseMethodVisitor) VisitCatchAll(excName, tryStart, tryEnd, handler string) {
	if b.Delegate != nil {
		b.Delegate.VisitCatchAll(excName, tryStart, tryEnd, handler)
	}
}

func (b *BaseMethodVisitor) VisitInvoke(invType string, registers []string, owner, method string) {
	if b.Delegate != nil {
		b.Delegate.VisitInvoke(invType, registers, owner, method)
	}
}

func (b *BaseMethodVisitor) VisitReturn(retType string, args []string) {
	if b.Delegate != nil {
		b.Delegate.VisitReturn(retType, args)
	}
}

func (b *BaseMethodVisitor) VisitGoto(label string) {
	if b.Delegate != nil {
		b.Delegate.VisitGoto(label)
	}
}

func (b *BaseMethodVisitor) VisitInstruction(name string, args []string) {
	if b.Delegate != nil {
		b.Delegate.VisitInstruction(name, args)
	}
}

func (b *BaseMethodVisitor) VisitPackedSwitch(firstKey string, labels []string) {
	if b.Delegate != nil {
		b.Delegate.VisitPackedSwitch(firstKey, labels)
	}
}

func (b *BaseMethodVisitor) VisitSparseSwitch(branches map[string]string) {
	if b.Delegate != nil {
		b.Delegate.VisitSparseSwitch(branches)
	}
}

func (b *BaseMethodVisitor) VisitArrayData(width string, values []any) {
	if b.Delegate != nil {
		b.Delegate.VisitArrayData(width, values)
	}
}

func (b *BaseMethodVisitor) VisitLocal(register, name, descriptor, fullDescriptor string) {
	if b.Delegate != nil {
		b.Delegate.VisitLocal(register, name, descriptor, fullDescriptor)
	}
}

func (b *BaseMethodVisitor) VisitPrologue() {
	if b.Delegate != nil {
		b.Delegate.VisitPrologue()
	}
}

func (b *BaseMethodVisitor) VisitRestart(register string) {
	if b.Delegate != nil {
		b.Delegate.VisitRestart(register)
	}
}

// BaseFieldVisitor implements FieldVisitor by forwarding every event to
// Delegate when set.
type BaseFieldVisitor struct {
	Delegate FieldVisitor
}

func (b *BaseFieldVisitor) VisitComment(text string) {
	if b.Delegate != nil {
		b.Delegate.VisitComment(text)
	}
}

func (b *BaseFieldVisitor) VisitEOLComment(text string) {
	if b.Delegate != nil {
		b.Delegate.VisitEOLComment(text)
	}
}

func (b *BaseFieldVisitor) VisitEnd() {
	if b.Delegate != nil {
		b.Delegate.VisitEnd()
	}
}

func (b *BaseFieldVisitor) VisitAnnotation(flags types.AccessFlags, signature string) AnnotationVisitor {
	if b.Delegate != nil {
		return b.Delegate.VisitAnnotation(flags, signature)
	}
	return nil
}

// BaseClassVisitor implements ClassVisitor by forwarding every event to
// Delegate when set.
type BaseClassVisitor struct {
	Delegate ClassVisitor
}

func (b *BaseClassVisitor) VisitComment(text string) {
	if b.Delegate != nil {
		b.Delegate.VisitComment(text)
	}
}

func (b *BaseClassVisitor) VisitEOLComment(text string) {
	if b.Delegate != nil {
		b.Delegate.VisitEOLComment(text)
	}
}

func (b *BaseClassVisitor) VisitEnd() {
	if b.Delegate != nil {
		b.Delegate.VisitEnd()
	}
}

func (b *BaseClassVisitor) VisitClass(name string, flags types.AccessFlags) {
	if b.Delegate != nil {
		b.Delegate.VisitClass(name, flags)
	}
}

func (b *BaseClassVisitor) VisitSuper(superClass string) {
	if b.Delegate != nil {
		b.Delegate.VisitSuper(superClass)
	}
}

func (b *BaseClassVisitor) VisitImplements(iface string) {
	if b.Delegate != nil {
		b.Delegate.VisitImplements(iface)
	}
}

func (b *BaseClassVisitor) VisitSource(source string) {
	if b.Delegate != nil {
		b.Delegate.VisitSource(source)
	}
}

func (b *BaseClassVisitor) VisitDebug(enabled int) {
	if b.Delegate != nil {
		b.Delegate.VisitDebug(enabled)
	}
}

func (b *BaseClassVisitor) VisitField(name string, flags types.AccessFlags, fieldType, value string) FieldVisitor {
	if b.Delegate != nil {
		return b.Delegate.VisitField(name, flags, fieldType, value)
	}
	return nil
}

func (b *BaseClassVisitor) VisitMethod(name string, flags types.AccessFlags, parameters []string, returnType string) MethodVisitor {
	if b.Delegate != nil {
		return b.Delegate.VisitMethod(name, flags, parameters, returnType)
	}
	return nil
}

func (b *BaseClassVisitor) VisitInnerClass(name string, flags types.AccessFlags) ClassVisitor {
	if b.Delegate != nil {
		return b.Delegate.VisitInnerClass(name, flags)
	}
	return nil
}

func (b *BaseClassVisitor) VisitAnnotation(flags types.AccessFlags, signature string) AnnotationVisitor {
	if b.Delegate != nil {
		return b.Delegate.VisitAnnotation(flags, signature)
	}
	return nil
}
