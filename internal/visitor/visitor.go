// Package visitor defines the event interfaces driven by the Smali reader.
//
// Four coordinated scopes exist: class, method, field and annotation. Every
// scope shares the comment stream and the end marker. Visitors delegate:
// each base implementation threads an optional delegate of the same scope
// and forwards every event to it, so filters can be chained in front of a
// consumer (the writer does exactly that).
//
// Methods that open a nested scope return a visitor for that scope. A nil
// return signals "no interest": the reader then installs the matching
// Empty* sentinel so subsequent lines inside the scope are handed to the
// copy handler instead of being dropped.
package visitor

import "github.com/cwbudde/go-smali/internal/types"

// Visitor is the capability shared by all scopes.
type Visitor interface {
	// VisitComment visits a whole-line comment (without the leading '#').
	VisitComment(text string)
	// VisitEOLComment visits an end-of-line comment (without the leading '#').
	VisitEOLComment(text string)
	// VisitEnd is called when the scope is closed.
	VisitEnd()
}

// AnnotationVisitor receives events inside `.annotation` and
// `.subannotation` scopes.
type AnnotationVisitor interface {
	Visitor

	// VisitValue visits a simple `name = value` pair. The value is the raw
	// literal token.
	VisitValue(name, value string)
	// VisitArray visits a `name = { ... }` array of raw literal tokens.
	VisitArray(name string, values []string)
	// VisitSubannotation opens a nested annotation scope.
	VisitSubannotation(name string, flags types.AccessFlags, signature string) AnnotationVisitor
	// VisitEnum visits a `.enum` reference value.
	VisitEnum(name, owner, constName, valueType string)
}

// MethodVisitor receives events inside a `.method` scope.
type MethodVisitor interface {
	Visitor

	// VisitAnnotation opens an annotation scope on the method.
	VisitAnnotation(flags types.AccessFlags, signature string) AnnotationVisitor
	// VisitParam visits a `.param` directive.
	VisitParam(register, name string)
	// VisitLocals visits a `.locals` directive.
	VisitLocals(count int)
	// VisitRegisters visits a `.registers` directive.
	VisitRegisters(count int)
	// VisitLine visits a `.line` debug directive.
	VisitLine(number int)
	// VisitBlock visits a label definition (`:name`).
	VisitBlock(name string)
	// VisitCatch visits a `.catch` directive. The try block is delimited by
	// the start and end labels; handler names the catch target.
	VisitCatch(excName, tryStart, tryEnd, handler string)
	// VisitCatchAll visits a `.catchall` directive.
	VisitCatchAll(excName, tryStart, tryEnd, handler string)
	// VisitInvoke visits any `invoke-*` instruction. invType is the suffix
	// after the first dash (direct, virtual, static, ...).
	VisitInvoke(invType string, registers []string, owner, method string)
	// VisitReturn visits any `return*` instruction. retType is the suffix
	// after the dash, empty for the plain `return`.
	VisitReturn(retType string, args []string)
	// VisitGoto visits a `goto*` instruction.
	VisitGoto(label string)
	// VisitInstruction visits every other instruction with its comma-split
	// argument list.
	VisitInstruction(name string, args []string)
	// VisitPackedSwitch visits a `.packed-switch` table. firstKey is the raw
	// base literal; labels are the case targets in order.
	VisitPackedSwitch(firstKey string, labels []string)
	// VisitSparseSwitch visits a `.sparse-switch` table mapping raw case
	// literals to labels.
	VisitSparseSwitch(branches map[string]string)
	// VisitArrayData visits an `.array-data` table. width is the raw
	// element-width token; values hold the decoded literals.
	VisitArrayData(width string, values []any)
	// VisitLocal visits a `.local` debug directive.
	VisitLocal(register, name, descriptor, fullDescriptor string)
	// VisitPrologue visits a `.prologue` directive.
	VisitPrologue()
	// VisitRestart visits a `.restart` directive.
	VisitRestart(register string)
}

// FieldVisitor receives events inside a `.field` scope.
type FieldVisitor interface {
	Visitor

	// VisitAnnotation opens an annotation scope on the field.
	VisitAnnotation(flags types.AccessFlags, signature string) AnnotationVisitor
}

// ClassVisitor receives top-level events of a Smali class.
type ClassVisitor interface {
	Visitor

	// VisitClass is called once the `.class` directive has been parsed. The
	// name is a type descriptor such as "Lcom/example/A;".
	VisitClass(name string, flags types.AccessFlags)
	// VisitSuper visits the `.super` directive.
	VisitSuper(superClass string)
	// VisitImplements visits an `.implements` directive.
	VisitImplements(iface string)
	// VisitSource visits the `.source` directive.
	VisitSource(source string)
	// VisitDebug visits a `.debug` directive.
	VisitDebug(enabled int)
	// VisitField opens a field scope. A trailing assignment on the field
	// line is passed as the raw value token, empty when absent.
	VisitField(name string, flags types.AccessFlags, fieldType, value string) FieldVisitor
	// VisitMethod opens a method scope.
	VisitMethod(name string, flags types.AccessFlags, parameters []string, returnType string) MethodVisitor
	// VisitInnerClass opens a nested class scope.
	VisitInnerClass(name string, flags types.AccessFlags) ClassVisitor
	// VisitAnnotation opens an annotation scope on the class.
	VisitAnnotation(flags types.AccessFlags, signature string) AnnotationVisitor
}
