package reader

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"testing"

	"github.com/cwbudde/go-smali/internal/types"
	"github.com/cwbudde/go-smali/internal/visitor"
)

// recorder captures every visitor event as a rendered string so tests can
// assert on exact event streams.
type recorder struct {
	events *[]string
}

func newRecorder() *classRecorder {
	var events []string
	return &classRecorder{recorder: recorder{events: &events}}
}

func (r recorder) log(format string, args ...any) {
	*r.events = append(*r.events, fmt.Sprintf(format, args...))
}

type classRecorder struct {
	visitor.BaseClassVisitor
	recorder
}

func (r *classRecorder) VisitClass(name string, flags types.AccessFlags) {
	r.log("class %s %v", name, flags.Names())
}

func (r *classRecorder) VisitSuper(superClass string) { r.log("super %s", superClass) }

func (r *classRecorder) VisitImplements(iface string) { r.log("implements %s", iface) }

func (r *classRecorder) VisitSource(source string) { r.log("source %s", source) }

func (r *classRecorder) VisitDebug(enabled int) { r.log("debug %d", enabled) }

func (r *classRecorder) VisitComment(text string) { r.log("comment %s", text) }

func (r *classRecorder) VisitEOLComment(text string) { r.log("eol %s", text) }

func (r *classRecorder) VisitEnd() { r.log("end class") }

func (r *classRecorder) VisitField(name string, flags types.AccessFlags, fieldType, value string) visitor.FieldVisitor {
	r.log("field %s:%s %v value=%q", name, fieldType, flags.Names(), value)
	return &fieldRecorder{recorder: r.recorder}
}

func (r *classRecorder) VisitMethod(name string, flags types.AccessFlags, parameters []string, returnType string) visitor.MethodVisitor {
	r.log("method %s(%s)%s %v", name, strings.Join(parameters, ""), returnType, flags.Names())
	return &methodRecorder{recorder: r.recorder}
}

func (r *classRecorder) VisitInnerClass(name string, flags types.AccessFlags) visitor.ClassVisitor {
	r.log("inner-class %s %v", name, flags.Names())
	return &classRecorder{recorder: r.recorder}
}

func (r *classRecorder) VisitAnnotation(flags types.AccessFlags, signature string) visitor.AnnotationVisitor {
	r.log("annotation %s %v", signature, flags.Names())
	return &annotationRecorder{recorder: r.recorder}
}

type fieldRecorder struct {
	visitor.BaseFieldVisitor
	recorder
}

func (r *fieldRecorder) VisitAnnotation(flags types.AccessFlags, signature string) visitor.AnnotationVisitor {
	r.log("field-annotation %s", signature)
	return &annotationRecorder{recorder: r.recorder}
}

func (r *fieldRecorder) VisitEnd() { r.log("end field") }

type methodRecorder struct {
	visitor.BaseMethodVisitor
	recorder
}

func (r *methodRecorder) VisitParam(register, name string) { r.log("param %s %q", register, name) }

func (r *methodRecorder) VisitLocals(count int) { r.log("locals %d", count) }

func (r *methodRecorder) VisitRegisters(count int) { r.log("registers %d", count) }

func (r *methodRecorder) VisitLine(number int) { r.log("line %d", number) }

func (r *methodRecorder) VisitBlock(name string) { r.log("block %s", name) }

func (r *methodRecorder) VisitCatch(excName, tryStart, tryEnd, handler string) {
	r.log("catch %s %s..%s -> %s", excName, tryStart, tryEnd, handler)
}

func (r *methodRecorder) VisitCatchAll(excName, tryStart, tryEnd, handler string) {
	r.log("catchall %s %s..%s -> %s", excName, tryStart, tryEnd, handler)
}

func (r *methodRecorder) VisitInvoke(invType string, registers []string, owner, method string) {
	r.log("invoke %s {%s} %s->%s", invType, strings.Join(registers, ","), owner, method)
}

func (r *methodRecorder) VisitReturn(retType string, args []string) {
	r.log("return %q %v", retType, args)
}

func (r *methodRecorder) VisitGoto(label string) { r.log("goto %s", label) }

func (r *methodRecorder) VisitInstruction(name string, args []string) {
	r.log("ins %s %v", name, args)
}

func (r *methodRecorder) VisitPackedSwitch(firstKey string, labels []string) {
	r.log("packed-switch %s %v", firstKey, labels)
}

func (r *methodRecorder) VisitSparseSwitch(branches map[string]string) {
	keys := make([]string, 0, len(branches))
	for key := range branches {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		parts = append(parts, key+"->"+branches[key])
	}
	r.log("sparse-switch %s", strings.Join(parts, " "))
}

func (r *methodRecorder) VisitArrayData(width string, values []any) {
	r.log("array-data %s %v", width, values)
}

func (r *methodRecorder) VisitLocal(register, name, descriptor, fullDescriptor string) {
	r.log("local %s %q %s %s", register, name, descriptor, fullDescriptor)
}

func (r *methodRecorder) VisitPrologue() { r.log("prologue") }

func (r *methodRecorder) VisitRestart(register string) { r.log("restart %s", register) }

func (r *methodRecorder) VisitEOLComment(text string) { r.log("eol %s", text) }

func (r *methodRecorder) VisitComment(text string) { r.log("comment %s", text) }

func (r *methodRecorder) VisitEnd() { r.log("end method") }

type annotationRecorder struct {
	visitor.BaseAnnotationVisitor
	recorder
}

func (r *annotationRecorder) VisitValue(name, value string) { r.log("value %s=%s", name, value) }

func (r *annotationRecorder) VisitArray(name string, values []string) {
	r.log("array %s=%v", name, values)
}

func (r *annotationRecorder) VisitEnum(name, owner, constName, valueType string) {
	r.log("enum %s=%s->%s:%s", name, owner, constName, valueType)
}

func (r *annotationRecorder) VisitSubannotation(name string, flags types.AccessFlags, signature string) visitor.AnnotationVisitor {
	r.log("subannotation %s=%s", name, signature)
	return &annotationRecorder{recorder: r.recorder}
}

func (r *annotationRecorder) VisitEnd() { r.log("end annotation") }

func parseEvents(t *testing.T, source string, opts ...Option) []string {
	t.Helper()
	rec := newRecorder()
	r := New(opts...)
	if err := r.VisitString(source, rec); err != nil {
		t.Fatalf("Visit: %v", err)
	}
	return *rec.events
}

func TestParseClassHeader(t *testing.T) {
	source := `.class public final Lcom/example/Hello;
.super Ljava/lang/Object;
.source "Hello.java"
.implements Ljava/io/Serializable;
`
	events := parseEvents(t, source)
	want := []string{
		"class Lcom/example/Hello; [public final]",
		"super Ljava/lang/Object;",
		"source Hello.java",
		"implements Ljava/io/Serializable;",
		"end class",
	}
	assertEvents(t, events, want)
}

func assertEvents(t *testing.T, got, want []string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %d events, want %d:\ngot:  %v\nwant: %v", len(got), len(want), got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("event %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestParseField(t *testing.T) {
	source := `.class public LA;
.super Ljava/lang/Object;

.field private static COUNT:I = 0x0

.field public name:Ljava/lang/String;
`
	events := parseEvents(t, source)
	want := []string{
		"class LA; [public]",
		"super Ljava/lang/Object;",
		`field COUNT:I [private static] value="0x0"`,
		`field name:Ljava/lang/String; [public] value=""`,
		"end class",
	}
	assertEvents(t, events, want)
}

func TestParseMethodBody(t *testing.T) {
	source := `.class public LA;
.super Ljava/lang/Object;

.method public static add(II)I
    .locals 1

    add-int v0, p0, p1

    return v0
.end method
`
	events := parseEvents(t, source)
	want := []string{
		"class LA; [public]",
		"super Ljava/lang/Object;",
		"method add(II)I [public static]",
		"locals 1",
		"ins add-int [v0 p0 p1]",
		`return "" [v0]`,
		"end method",
		"end class",
	}
	assertEvents(t, events, want)
}

func TestParseInvokeAndGoto(t *testing.T) {
	source := `.class public LA;
.super Ljava/lang/Object;

.method public run()V
    .locals 1

    :start
    invoke-virtual {p0, v0}, LA;->step(I)V

    goto :start
.end method
`
	events := parseEvents(t, source)
	want := []string{
		"class LA; [public]",
		"super Ljava/lang/Object;",
		"method run()V [public]",
		"locals 1",
		"block start",
		"invoke virtual {p0,v0} LA;->step(I)V",
		"goto start",
		"end method",
		"end class",
	}
	assertEvents(t, events, want)
}

func TestParseSwitchTables(t *testing.T) {
	source := `.class public LA;
.super Ljava/lang/Object;

.method public static pick(I)I
    .locals 1

    :data
    .packed-switch 0x0
        :a
        :b
    .end packed-switch

    :sdata
    .sparse-switch
        0x1 -> :a
        0x10 -> :b
    .end sparse-switch

    :adata
    .array-data 4
        0x1
        0x2
    .end array-data

    return p0
.end method
`
	events := parseEvents(t, source)
	want := []string{
		"class LA; [public]",
		"super Ljava/lang/Object;",
		"method pick(I)I [public static]",
		"locals 1",
		"block data",
		"packed-switch 0x0 [a b]",
		"block sdata",
		"sparse-switch 0x1->a 0x10->b",
		"block adata",
		"array-data 4 [1 2]",
		`return "" [p0]`,
		"end method",
		"end class",
	}
	assertEvents(t, events, want)
}

func TestParseCatch(t *testing.T) {
	source := `.class public LA;
.super Ljava/lang/Object;

.method public risky()V
    .locals 1

    .catch Ljava/lang/NullPointerException; {:try_start_0 .. :try_end_0} :handler
    .catchall {:try_start_0 .. :try_end_0} :any

    return-void
.end method
`
	events := parseEvents(t, source)
	want := []string{
		"class LA; [public]",
		"super Ljava/lang/Object;",
		"method risky()V [public]",
		"locals 1",
		"catch Ljava/lang/NullPointerException; try_start_0..try_end_0 -> handler",
		"catchall Ljava/lang/Exception; try_start_0..try_end_0 -> any",
		`return "void" []`,
		"end method",
		"end class",
	}
	assertEvents(t, events, want)
}

func TestParseAnnotations(t *testing.T) {
	source := `.class public LA;
.super Ljava/lang/Object;

.annotation system Ldalvik/annotation/MemberClasses;
    value = {
        LA$B;,
        LA$C;
    }
    name = "outer"
    kind = .enum Ldalvik/Kind;->MEMBER:Ldalvik/Kind;
.end annotation
`
	events := parseEvents(t, source)
	want := []string{
		"class LA; [public]",
		"super Ljava/lang/Object;",
		"annotation Ldalvik/annotation/MemberClasses; [system]",
		"array value=[LA$B; LA$C;]",
		"value name=\"outer\"",
		"enum kind=Ldalvik/Kind;->MEMBER:Ldalvik/Kind;",
		"end annotation",
		"end class",
	}
	assertEvents(t, events, want)
}

func TestParseComments(t *testing.T) {
	source := `.class public LA; # the class
.super Ljava/lang/Object;
# standalone
`
	events := parseEvents(t, source, WithComments(true))
	want := []string{
		"class LA; [public]",
		"eol the class",
		"super Ljava/lang/Object;",
		"comment standalone",
		"end class",
	}
	assertEvents(t, events, want)

	// Without the option, comments vanish from the stream.
	events = parseEvents(t, source)
	want = []string{
		"class LA; [public]",
		"super Ljava/lang/Object;",
		"end class",
	}
	assertEvents(t, events, want)
}

func TestParseSnippet(t *testing.T) {
	source := `.method public static f()I
    .locals 1

    const/4 v0, 0x5

    return v0
.end method
`
	events := parseEvents(t, source, WithSnippet(true))
	want := []string{
		"method f()I [public static]",
		"locals 1",
		"ins const/4 [v0 0x5]",
		`return "" [v0]`,
		"end method",
		"end class",
	}
	assertEvents(t, events, want)
}

func TestParseLocalDebug(t *testing.T) {
	source := `.class public LA;
.super Ljava/lang/Object;

.method public f()V
    .locals 1
    .param p1, "other"

    .local v0, "name":Ljava/lang/String;, Ljava/lang/String;
    .prologue
    .line 42

    return-void
.end method
`
	events := parseEvents(t, source)
	want := []string{
		"class LA; [public]",
		"super Ljava/lang/Object;",
		"method f()V [public]",
		"locals 1",
		`param p1 "other"`,
		`local v0 "name" Ljava/lang/String; Ljava/lang/String;`,
		"prologue",
		"line 42",
		`return "void" []`,
		"end method",
		"end class",
	}
	assertEvents(t, events, want)
}

func TestSyntaxErrors(t *testing.T) {
	tests := []struct {
		name   string
		source string
	}{
		{"bad directive", ".class public LA;\n.bogus foo\n"},
		{"bad super descriptor", ".class public LA;\n.super NotADescriptor\n"},
		{"statement outside scopes", ".class public LA;\nadd-int v0, v1, v2\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := newRecorder()
			err := New().VisitString(tt.source, rec)
			if err == nil {
				t.Fatal("expected syntax error")
			}
			var syntaxErr *SyntaxError
			if !errors.As(err, &syntaxErr) {
				t.Fatalf("error type = %T, want *SyntaxError", err)
			}
		})
	}
}

func TestValidationToggle(t *testing.T) {
	// An invalid field descriptor passes when validation is off.
	source := ".class public LA;\n.super Ljava/lang/Object;\n.field public x:NotAType\n"
	rec := newRecorder()
	if err := New(WithValidation(false)).VisitString(source, rec); err != nil {
		t.Fatalf("lenient parse failed: %v", err)
	}
	if err := New().VisitString(source, newRecorder()); err == nil {
		t.Fatal("validating parse succeeded, want error")
	}
}

func TestCopyHandler(t *testing.T) {
	// A visitor that declines fields routes the field line to the copy
	// handler.
	source := ".class public LA;\n.super Ljava/lang/Object;\n.field public x:I\n"

	var copied []string
	handler := copyFunc(func(line string, scope Scope) {
		copied = append(copied, fmt.Sprintf("%s|%s", scope, line))
	})

	decliner := &decliningVisitor{}
	r := New(WithCopyHandler(handler))
	if err := r.VisitString(source, decliner); err != nil {
		t.Fatalf("Visit: %v", err)
	}
	if len(copied) != 1 || !strings.Contains(copied[0], ".field public x:I") {
		t.Errorf("copied = %v", copied)
	}
	if !strings.HasPrefix(copied[0], "field|") {
		t.Errorf("copied scope = %v, want field scope", copied)
	}
}

type copyFunc func(line string, scope Scope)

func (f copyFunc) Copy(line string, scope Scope) { f(line, scope) }

// decliningVisitor accepts the class but returns nil for every nested
// scope.
type decliningVisitor struct {
	visitor.BaseClassVisitor
}
