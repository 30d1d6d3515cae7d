// Package writer re-emits canonical Smali from visitor events.
//
// The writers implement the same visitor interfaces the reader drives, so a
// parse can be piped straight into a writer to normalize a source file:
// one directive per line, four-space indentation per nesting scope, blank
// lines around field and method blocks. Events arrive in document order, so
// all writers of one rewrite share a single line buffer.
package writer

import (
	"strconv"
	"strings"

	"github.com/cwbudde/go-smali/internal/reader"
	"github.com/cwbudde/go-smali/internal/types"
	"github.com/cwbudde/go-smali/internal/visitor"
)

const indentStep = "    "

// buffer collects the emitted lines of one rewrite.
type buffer struct {
	lines []string
}

// add appends a line at the given indentation level.
func (b *buffer) add(indent int, text string) {
	b.lines = append(b.lines, strings.Repeat(indentStep, indent)+text)
}

// addRaw appends a pre-formatted line unchanged.
func (b *buffer) addRaw(text string) {
	b.lines = append(b.lines, text)
}

// blank appends an empty separator line unless the buffer already ends
// with one (or is empty).
func (b *buffer) blank() {
	if len(b.lines) == 0 || b.lines[len(b.lines)-1] == "" {
		return
	}
	b.lines = append(b.lines, "")
}

// attachComment appends an end-of-line comment to the last emitted line.
func (b *buffer) attachComment(text string) {
	if len(b.lines) == 0 {
		b.lines = append(b.lines, "# "+text)
		return
	}
	b.lines[len(b.lines)-1] += " # " + text
}

// SmaliWriter is a ClassVisitor that renders the visited class back into
// Smali source text. It also acts as a copy handler so lines a filtering
// visitor declined survive a rewrite unchanged.
type SmaliWriter struct {
	buf    *buffer
	indent int
}

// NewWriter creates a class writer with an empty output buffer.
func NewWriter() *SmaliWriter {
	return &SmaliWriter{buf: &buffer{}}
}

// Code returns the emitted source text.
func (w *SmaliWriter) Code() string {
	if len(w.buf.lines) == 0 {
		return ""
	}
	return strings.Join(w.buf.lines, "\n") + "\n"
}

// Copy implements reader.CopyHandler by appending the raw line. Blank
// lines are dropped; block separation is re-established on emission.
func (w *SmaliWriter) Copy(line string, _ reader.Scope) {
	if strings.TrimSpace(line) == "" {
		return
	}
	w.buf.addRaw(line)
}

// withFlags renders a directive with optional access flags and a trailing
// operand.
func withFlags(directive string, flags types.AccessFlags, rest string) string {
	parts := []string{directive}
	parts = append(parts, flags.Names()...)
	if rest != "" {
		parts = append(parts, rest)
	}
	return strings.Join(parts, " ")
}

func (w *SmaliWriter) VisitClass(name string, flags types.AccessFlags) {
	w.buf.add(w.indent, withFlags(".class", flags, name))
}

func (w *SmaliWriter) VisitSuper(superClass string) {
	w.buf.add(w.indent, ".super "+superClass)
}

func (w *SmaliWriter) VisitImplements(iface string) {
	w.buf.add(w.indent, ".implements "+iface)
}

func (w *SmaliWriter) VisitSource(source string) {
	w.buf.add(w.indent, `.source "`+source+`"`)
}

func (w *SmaliWriter) VisitDebug(enabled int) {
	w.buf.add(w.indent, ".debug "+strconv.Itoa(enabled))
}

func (w *SmaliWriter) VisitField(name string, flags types.AccessFlags, fieldType, value string) visitor.FieldVisitor {
	w.buf.blank()
	decl := withFlags(".field", flags, name+":"+fieldType)
	if value != "" {
		decl += " = " + value
	}
	w.buf.add(w.indent, decl)
	return &FieldWriter{buf: w.buf, indent: w.indent}
}

func (w *SmaliWriter) VisitMethod(name string, flags types.AccessFlags, parameters []string, returnType string) visitor.MethodVisitor {
	w.buf.blank()
	signature := name + "(" + strings.Join(parameters, "") + ")" + returnType
	w.buf.add(w.indent, withFlags(".method", flags, signature))
	return &MethodWriter{buf: w.buf, indent: w.indent + 1}
}

func (w *SmaliWriter) VisitInnerClass(name string, flags types.AccessFlags) visitor.ClassVisitor {
	w.buf.blank()
	w.buf.add(w.indent, withFlags(".class", flags, name))
	return &SmaliWriter{buf: w.buf, indent: w.indent}
}

func (w *SmaliWriter) VisitAnnotation(flags types.AccessFlags, signature string) visitor.AnnotationVisitor {
	w.buf.blank()
	w.buf.add(w.indent, withFlags(".annotation", flags, signature))
	return &AnnotationWriter{buf: w.buf, indent: w.indent + 1, end: ".end annotation"}
}

func (w *SmaliWriter) VisitComment(text string) {
	w.buf.add(w.indent, "# "+text)
}

func (w *SmaliWriter) VisitEOLComment(text string) {
	w.buf.attachComment(text)
}

func (w *SmaliWriter) VisitEnd() {}

// FieldWriter renders annotations attached to a field. The closing
// `.end field` is only written when the source carried one, which is the
// case exactly when the reader reports VisitEnd.
type FieldWriter struct {
	buf     *buffer
	indent  int
	hasBody bool
}

func (w *FieldWriter) VisitAnnotation(flags types.AccessFlags, signature string) visitor.AnnotationVisitor {
	w.hasBody = true
	w.buf.add(w.indent+1, withFlags(".annotation", flags, signature))
	return &AnnotationWriter{buf: w.buf, indent: w.indent + 2, end: ".end annotation"}
}

func (w *FieldWriter) VisitComment(text string) {
	w.buf.add(w.indent+1, "# "+text)
}

func (w *FieldWriter) VisitEOLComment(text string) {
	w.buf.attachComment(text)
}

func (w *FieldWriter) VisitEnd() {
	w.buf.add(w.indent, ".end field")
}

// AnnotationWriter renders annotation and subannotation bodies.
type AnnotationWriter struct {
	buf    *buffer
	indent int
	end    string
}

func (w *AnnotationWriter) VisitValue(name, value string) {
	w.buf.add(w.indent, name+" = "+value)
}

func (w *AnnotationWriter) VisitArray(name string, values []string) {
	w.buf.add(w.indent, name+" = {")
	for i, value := range values {
		if i < len(values)-1 {
			value += ","
		}
		w.buf.add(w.indent+1, value)
	}
	w.buf.add(w.indent, "}")
}

func (w *AnnotationWriter) VisitSubannotation(name string, flags types.AccessFlags, signature string) visitor.AnnotationVisitor {
	w.buf.add(w.indent, name+" = "+withFlags(".subannotation", flags, signature))
	return &AnnotationWriter{buf: w.buf, indent: w.indent + 1, end: ".end subannotation"}
}

func (w *AnnotationWriter) VisitEnum(name, owner, constName, valueType string) {
	w.buf.add(w.indent, name+" = .enum "+owner+"->"+constName+":"+valueType)
}

func (w *AnnotationWriter) VisitComment(text string) {
	w.buf.add(w.indent, "# "+text)
}

func (w *AnnotationWriter) VisitEOLComment(text string) {
	w.buf.attachComment(text)
}

func (w *AnnotationWriter) VisitEnd() {
	w.buf.add(w.indent-1, w.end)
}

// MethodWriter renders a method body.
type MethodWriter struct {
	buf    *buffer
	indent int
}

func (w *MethodWriter) VisitAnnotation(flags types.AccessFlags, signature string) visitor.AnnotationVisitor {
	w.buf.add(w.indent, withFlags(".annotation", flags, signature))
	return &AnnotationWriter{buf: w.buf, indent: w.indent + 1, end: ".end annotation"}
}

func (w *MethodWriter) VisitParam(register, name string) {
	if name != "" {
		w.buf.add(w.indent, ".param "+register+`, "`+name+`"`)
		return
	}
	w.buf.add(w.indent, ".param "+register)
}

func (w *MethodWriter) VisitLocals(count int) {
	w.buf.add(w.indent, ".locals "+strconv.Itoa(count))
}

func (w *MethodWriter) VisitRegisters(count int) {
	w.buf.add(w.indent, ".registers "+strconv.Itoa(count))
}

func (w *MethodWriter) VisitLine(number int) {
	w.buf.add(w.indent, ".line "+strconv.Itoa(number))
}

func (w *MethodWriter) VisitBlock(name string) {
	w.buf.add(w.indent, ":"+name)
}

func (w *MethodWriter) VisitCatch(excName, tryStart, tryEnd, handler string) {
	w.buf.add(w.indent, ".catch "+excName+" {:"+tryStart+" .. :"+tryEnd+"} :"+handler)
}

func (w *MethodWriter) VisitCatchAll(_, tryStart, tryEnd, handler string) {
	w.buf.add(w.indent, ".catchall {:"+tryStart+" .. :"+tryEnd+"} :"+handler)
}

func (w *MethodWriter) VisitInvoke(invType string, registers []string, owner, method string) {
	w.buf.add(w.indent, "invoke-"+invType+" {"+strings.Join(registers, ", ")+"}, "+owner+"->"+method)
}

func (w *MethodWriter) VisitReturn(retType string, args []string) {
	ins := "return"
	if retType != "" {
		ins += "-" + retType
	}
	if len(args) > 0 {
		ins += " " + strings.Join(args, ", ")
	}
	w.buf.add(w.indent, ins)
}

func (w *MethodWriter) VisitGoto(label string) {
	w.buf.add(w.indent, "goto :"+label)
}

func (w *MethodWriter) VisitInstruction(name string, args []string) {
	if len(args) == 0 {
		w.buf.add(w.indent, name)
		return
	}
	w.buf.add(w.indent, name+" "+strings.Join(args, ", "))
}

func (w *MethodWriter) VisitPackedSwitch(firstKey string, labels []string) {
	w.buf.add(w.indent, ".packed-switch "+firstKey)
	for _, label := range labels {
		w.buf.add(w.indent+1, ":"+label)
	}
	w.buf.add(w.indent, ".end packed-switch")
}

func (w *MethodWriter) VisitSparseSwitch(branches map[string]string) {
	w.buf.add(w.indent, ".sparse-switch")
	for _, key := range sortedBranchKeys(branches) {
		w.buf.add(w.indent+1, key+" -> :"+branches[key])
	}
	w.buf.add(w.indent, ".end sparse-switch")
}

func (w *MethodWriter) VisitArrayData(width string, values []any) {
	w.buf.add(w.indent, ".array-data "+width)
	for _, value := range values {
		w.buf.add(w.indent+1, renderValue(value))
	}
	w.buf.add(w.indent, ".end array-data")
}

func (w *MethodWriter) VisitLocal(register, name, descriptor, fullDescriptor string) {
	w.buf.add(w.indent, ".local "+register+`, "`+name+`":`+descriptor+", "+fullDescriptor)
}

func (w *MethodWriter) VisitPrologue() {
	w.buf.add(w.indent, ".prologue")
}

func (w *MethodWriter) VisitRestart(register string) {
	w.buf.add(w.indent, ".restart local "+register)
}

func (w *MethodWriter) VisitComment(text string) {
	w.buf.add(w.indent, "# "+text)
}

func (w *MethodWriter) VisitEOLComment(text string) {
	w.buf.attachComment(text)
}

func (w *MethodWriter) VisitEnd() {
	w.buf.add(w.indent-1, ".end method")
}

// sortedBranchKeys orders sparse-switch cases by their numeric value so
// output is deterministic; non-numeric keys sort last, lexically.
func sortedBranchKeys(branches map[string]string) []string {
	keys := make([]string, 0, len(branches))
	for key := range branches {
		keys = append(keys, key)
	}
	numeric := func(key string) (int64, bool) {
		v, err := types.ParseValue(key)
		if err != nil {
			return 0, false
		}
		n, ok := v.(int64)
		return n, ok
	}
	// Insertion sort; switch tables are small.
	for i := 1; i < len(keys); i++ {
		for j := i; j > 0; j-- {
			a, aok := numeric(keys[j-1])
			b, bok := numeric(keys[j])
			swap := false
			switch {
			case aok && bok:
				swap = b < a
			case aok != bok:
				swap = bok
			default:
				swap = keys[j] < keys[j-1]
			}
			if !swap {
				break
			}
			keys[j-1], keys[j] = keys[j], keys[j-1]
		}
	}
	return keys
}

// renderValue formats a decoded array-data literal so that re-parsing it
// yields the same value.
func renderValue(value any) string {
	switch v := value.(type) {
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		s := strconv.FormatFloat(v, 'f', -1, 64)
		if !strings.Contains(s, ".") {
			s += ".0"
		}
		return s
	case bool:
		if v {
			return "true"
		}
		return "false"
	case string:
		return strconv.Quote(v)
	case *types.Descriptor:
		return v.String()
	default:
		return ""
	}
}
