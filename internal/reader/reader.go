// Package reader implements a line-driven Smali source parser.
//
// The reader is a pushdown automaton over visitor scopes: it recognizes
// directives, labels, instructions and annotation values, keeps a stack of
// active visitors (the top of the stack is the current scope), and emits
// semantic events to them. It accepts the output of standard DEX
// disassemblers.
package reader

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/golang/glog"

	"github.com/cwbudde/go-smali/internal/line"
	"github.com/cwbudde/go-smali/internal/types"
	"github.com/cwbudde/go-smali/internal/visitor"
)

// ErrorMode controls how the reader treats an unexpected end of line inside
// a directive.
type ErrorMode int

const (
	// Strict raises a syntax error on unexpected end of line.
	Strict ErrorMode = iota
	// Ignore silently tolerates it.
	Ignore
)

// Option configures a Reader.
type Option func(*Reader)

// WithValidation makes the reader fail on malformed tokens and descriptors
// instead of silently continuing.
func WithValidation(validate bool) Option {
	return func(r *Reader) { r.validate = validate }
}

// WithComments forwards '#' comments as events instead of discarding them.
func WithComments(comments bool) Option {
	return func(r *Reader) { r.comments = comments }
}

// WithSnippet skips the initial `.class` directive. Used for expressions
// typed at a shell.
func WithSnippet(snippet bool) Option {
	return func(r *Reader) { r.snippet = snippet }
}

// WithErrorMode selects the end-of-line error policy.
func WithErrorMode(mode ErrorMode) Option {
	return func(r *Reader) { r.mode = mode }
}

// WithCopyHandler installs a handler for lines no visitor consumed.
func WithCopyHandler(h CopyHandler) Option {
	return func(r *Reader) { r.copyHandler = h }
}

// Reader parses Smali source and drives a ClassVisitor.
type Reader struct {
	validate    bool
	comments    bool
	snippet     bool
	mode        ErrorMode
	copyHandler CopyHandler

	src    *bufio.Reader
	line   *line.Line
	lineno int
	stack  []visitor.Visitor
}

// New creates a reader. The defaults match a validating class parse:
// validation on, comments off, snippet off, strict errors.
func New(opts ...Option) *Reader {
	r := &Reader{validate: true, line: line.New("")}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Visit parses the given source and reports events to v. The reader does
// not take ownership of src and never closes it.
func (r *Reader) Visit(src io.Reader, v visitor.ClassVisitor) error {
	if src == nil || v == nil {
		return errors.New("reader: source and visitor must be non-nil")
	}

	r.src = bufio.NewReader(src)
	r.lineno = 0
	r.stack = []visitor.Visitor{v}

	if !r.snippet {
		if _, err := r.classDef(true, false); err != nil {
			if err == io.EOF {
				// Small snippets may legitimately run dry before a class
				// definition appears.
				if r.validate {
					return &SyntaxError{Line: r.lineno, Msg: "expected a class definition - got EOF"}
				}
				return nil
			}
			return err
		}
	}
	return r.doVisit()
}

// VisitString parses Smali source held in a string.
func (r *Reader) VisitString(source string, v visitor.ClassVisitor) error {
	return r.Visit(strings.NewReader(source), v)
}

// current returns the active visitor (top of the scope stack).
func (r *Reader) current() visitor.Visitor {
	return r.stack[len(r.stack)-1]
}

func (r *Reader) push(v visitor.Visitor) { r.stack = append(r.stack, v) }

func (r *Reader) pop() visitor.Visitor {
	v := r.current()
	r.stack = r.stack[:len(r.stack)-1]
	return v
}

// scope maps the active visitor to the copy-handler scope.
func (r *Reader) scope() Scope {
	switch r.current().(type) {
	case visitor.AnnotationVisitor:
		return ScopeAnnotation
	case visitor.ClassVisitor:
		return ScopeClass
	case visitor.MethodVisitor:
		return ScopeMethod
	case visitor.FieldVisitor:
		return ScopeField
	default:
		return ScopeClass
	}
}

func (r *Reader) copyLine() {
	if r.copyHandler != nil {
		r.copyHandler.Copy(r.line.Raw, r.scope())
	}
}

// nextLine reads until the next code statement. Whole-line comments are
// reported (or copied) immediately. Returns io.EOF when the source is
// exhausted.
func (r *Reader) nextLine() error {
	for {
		raw, err := r.src.ReadString('\n')
		if raw == "" && err != nil {
			if err == io.EOF {
				return io.EOF
			}
			return err
		}
		r.lineno++
		r.line.Reset(raw)

		if strings.HasPrefix(strings.TrimSpace(raw), "#") {
			if r.comments {
				if visitor.IsEmpty(r.current()) {
					r.copyLine()
				} else {
					r.current().VisitComment(r.line.EOLComment)
				}
			}
			continue
		}
		return nil
	}
}

// syntaxErrorf builds a SyntaxError for the current line.
func (r *Reader) syntaxErrorf(format string, args ...any) error {
	return &SyntaxError{Line: r.lineno, Text: r.line.Raw, Msg: fmt.Sprintf(format, args...)}
}

// eol maps an end-of-line error according to the error mode. Other errors
// pass through.
func (r *Reader) eol(err error) error {
	if err == nil || !errors.Is(err, line.ErrEndOfLine) {
		return err
	}
	if r.mode == Strict {
		return r.syntaxErrorf("unexpected EOL (end of line)")
	}
	return nil
}

// validateToken checks the directive token when validation is enabled.
func (r *Reader) validateToken(token string, expected line.Directive) error {
	if !r.validate {
		return nil
	}
	if token == "" || token[0] != '.' {
		return r.syntaxErrorf("expected '.' before token - got %q", token)
	}
	if token[1:] != expected.String() {
		return r.syntaxErrorf("expected %q - got %q", expected.String(), token[1:])
	}
	return nil
}

// validateDescriptor checks a type descriptor when validation is enabled.
func (r *Reader) validateDescriptor(name string) error {
	if !r.validate {
		return nil
	}
	if !types.IsTypeDescriptor(name) {
		return r.syntaxErrorf("expected type descriptor - got %q", name)
	}
	return nil
}

// publishComment forwards a pending end-of-line comment when comment
// events are enabled.
func (r *Reader) publishComment() {
	if r.comments && r.line.HasEOL() && !visitor.IsEmpty(r.current()) {
		r.current().VisitEOLComment(r.line.EOLComment)
	}
}

// readAccessFlags consumes leading access-modifier keywords.
func (r *Reader) readAccessFlags() ([]string, error) {
	var flags []string
	for {
		tok, err := r.line.Peek()
		if err != nil {
			return flags, err
		}
		if !types.IsKnownFlag(tok) {
			return flags, nil
		}
		flags = append(flags, tok)
		r.line.Next()
	}
}

// collectValues gathers the remaining tokens of the line, splitting
// unquoted comma-joined values.
func (r *Reader) collectValues(stripChars string) []string {
	var values []string
	for r.line.HasNext() {
		value, _ := r.line.Next()
		value = strings.TrimRight(value, stripChars)
		if value == "" {
			continue
		}
		first, last := value[0], value[len(value)-1]
		if first != '"' && first != '\'' && last != '"' && last != '\'' && strings.Contains(value, ",") {
			for _, part := range strings.Split(value, ",") {
				if part != "" {
					values = append(values, part)
				}
			}
		} else {
			values = append(values, value)
		}
	}
	return values
}

// finish unwinds the scope stack at end of input and closes the class.
func (r *Reader) finish() {
	for len(r.stack) > 0 {
		if _, ok := r.current().(visitor.ClassVisitor); ok {
			r.current().VisitEnd()
			return
		}
		r.pop()
	}
}

// doVisit is the main parse loop.
func (r *Reader) doVisit() error {
	for {
		if err := r.nextLine(); err != nil {
			if err == io.EOF {
				r.finish()
				return nil
			}
			return err
		}
		if r.line.Len() == 0 {
			r.copyLine()
			continue
		}

		statement, _ := r.line.Peek()
		var err error
		switch {
		case statement[0] == '.':
			err = r.handleToken()
		case statement[0] == ':':
			err = r.handleBlock()
		default:
			if _, ok := r.current().(visitor.AnnotationVisitor); ok {
				err = r.handleValue()
			} else if _, ok := r.current().(visitor.MethodVisitor); ok {
				err = r.handleInstruction()
			} else {
				err = r.syntaxErrorf("invalid statement: %q", statement)
			}
		}

		switch {
		case err == nil:
		case err == io.EOF:
			r.finish()
			return nil
		case errors.Is(err, line.ErrEndOfLine):
			return r.syntaxErrorf("unexpected EOL (end of line)")
		default:
			return err
		}
	}
}

// handleToken dispatches a dot-directive.
func (r *Reader) handleToken() error {
	statement, _ := r.line.Peek()
	directive := line.Directive(statement[1:])
	glog.V(2).Infof("reader: line %d directive .%s", r.lineno, directive)

	// A field scope is closed implicitly by any directive that is neither
	// an annotation nor an explicit end marker.
	// Class and method visitors also satisfy FieldVisitor (both have
	// VisitAnnotation), so they are excluded explicitly.
	cur := r.current()
	_, isClass := cur.(visitor.ClassVisitor)
	_, isMethod := cur.(visitor.MethodVisitor)
	if _, ok := cur.(visitor.FieldVisitor); ok && !isClass && !isMethod {
		if directive != line.DirAnnotation && directive != line.DirEnd {
			r.pop()
		}
	}

	switch directive {
	case line.DirImplements:
		return r.handleImplements()
	case line.DirClass:
		cv, err := r.classDef(false, true)
		if err != nil {
			return err
		}
		r.push(cv)
		return nil
	case line.DirSuper:
		return r.handleSuper()
	case line.DirSource:
		return r.handleSource()
	case line.DirDebug:
		return r.handleDebug()
	case line.DirField:
		return r.handleField()
	case line.DirMethod:
		return r.handleMethod()
	case line.DirEnd:
		return r.handleEnd()
	case line.DirAnnotation:
		return r.handleAnnotation()
	case line.DirSubannotation:
		return r.handleSubannotation()
	case line.DirEnum:
		return r.handleEnum()
	case line.DirParam, line.DirParameter:
		return r.handleParam()
	case line.DirLine:
		return r.handleMethodInt(line.DirLine)
	case line.DirLocals:
		return r.handleMethodInt(line.DirLocals)
	case line.DirRegisters:
		return r.handleMethodInt(line.DirRegisters)
	case line.DirPrologue:
		return r.handlePrologue()
	case line.DirRestart:
		return r.handleRestart()
	case line.DirCatch:
		return r.handleCatch(false)
	case line.DirCatchAll:
		return r.handleCatch(true)
	case line.DirLocal:
		return r.handleLocal()
	case line.DirPackedSwitch:
		return r.handlePackedSwitch()
	case line.DirSparseSwitch:
		return r.handleSparseSwitch()
	case line.DirArrayData:
		return r.handleArrayData()
	default:
		return r.syntaxErrorf("invalid directive: %q", statement)
	}
}

// classDef parses and verifies a class definition.
func (r *Reader) classDef(advance, inner bool) (visitor.ClassVisitor, error) {
	if advance {
		if err := r.nextLine(); err != nil {
			return nil, err
		}
	}

	token, err := r.line.Next()
	if err != nil {
		return nil, r.eol(err)
	}
	if err := r.validateToken(token, line.DirClass); err != nil {
		return nil, err
	}

	flags, err := r.readAccessFlags()
	if err != nil {
		return nil, r.eol(err)
	}
	name, err := r.line.Peek()
	if err != nil {
		return nil, r.eol(err)
	}
	if err := r.validateDescriptor(name); err != nil {
		return nil, err
	}

	accessFlags := types.FlagsFromNames(flags)
	var cv visitor.ClassVisitor
	if inner {
		if parent, ok := r.current().(visitor.ClassVisitor); ok {
			cv = parent.VisitInnerClass(name, accessFlags)
		}
	} else {
		cv, _ = r.current().(visitor.ClassVisitor)
		if cv != nil {
			cv.VisitClass(name, accessFlags)
		}
	}
	r.publishComment()
	if cv == nil {
		cv = visitor.EmptyClass
	}
	return cv, nil
}

func (r *Reader) handleImplements() error {
	if _, err := r.line.Next(); err != nil {
		return r.eol(err)
	}
	cv, ok := r.current().(visitor.ClassVisitor)
	if !ok || visitor.IsEmpty(cv) {
		r.copyLine()
		return nil
	}
	name, err := r.line.Peek()
	if err != nil {
		return r.eol(err)
	}
	if err := r.validateDescriptor(name); err != nil {
		return err
	}
	cv.VisitImplements(name)
	r.publishComment()
	return nil
}

func (r *Reader) handleSuper() error {
	token, err := r.line.Next()
	if err != nil {
		return r.eol(err)
	}
	if err := r.validateToken(token, line.DirSuper); err != nil {
		return err
	}
	superClass, err := r.line.Peek()
	if err != nil {
		return r.eol(err)
	}
	if !types.IsTypeDescriptor(superClass) {
		return r.syntaxErrorf("expected super-class type descriptor - got %q", superClass)
	}
	if cv, ok := r.current().(visitor.ClassVisitor); ok && !visitor.IsEmpty(cv) {
		cv.VisitSuper(superClass)
	} else {
		r.copyLine()
	}
	r.publishComment()
	return nil
}

func (r *Reader) handleSource() error {
	token, err := r.line.Next()
	if err != nil {
		return r.eol(err)
	}
	if err := r.validateToken(token, line.DirSource); err != nil {
		return err
	}
	source, err := r.line.Peek()
	if err != nil {
		return r.eol(err)
	}
	source = strings.ReplaceAll(source, `"`, "")
	if cv, ok := r.current().(visitor.ClassVisitor); ok && !visitor.IsEmpty(cv) {
		cv.VisitSource(source)
	} else {
		r.copyLine()
	}
	r.publishComment()
	return nil
}

func (r *Reader) handleDebug() error {
	token, err := r.line.Next()
	if err != nil {
		return r.eol(err)
	}
	if err := r.validateToken(token, line.DirDebug); err != nil {
		return err
	}
	enabled, err := r.line.Peek()
	if err != nil {
		return r.eol(err)
	}
	number, err := strconv.Atoi(enabled)
	if err != nil {
		return r.syntaxErrorf("expected number in .debug directive - got %q", enabled)
	}
	if cv, ok := r.current().(visitor.ClassVisitor); ok && !visitor.IsEmpty(cv) {
		cv.VisitDebug(number)
	} else {
		r.copyLine()
	}
	r.publishComment()
	return nil
}

func (r *Reader) handleField() error {
	token, err := r.line.Next()
	if err != nil {
		return r.eol(err)
	}
	if err := r.validateToken(token, line.DirField); err != nil {
		return err
	}

	flags, err := r.readAccessFlags()
	if err != nil {
		return r.eol(err)
	}
	accessFlags := types.FlagsFromNames(flags)

	// A field declaration is `<name>:<descriptor>`, optionally followed by
	// ` = <value>`.
	decl, err := r.line.Next()
	if err != nil {
		return r.eol(err)
	}
	name, descriptor, ok := strings.Cut(decl, ":")
	if !ok {
		return r.syntaxErrorf("expected field declaration <name>:<descriptor> - got %q", decl)
	}
	if err := r.validateDescriptor(descriptor); err != nil {
		return err
	}
	name = strings.TrimPrefix(strings.TrimSuffix(name, ">"), "<")

	var value string
	if r.line.HasNext() {
		value = r.line.Last()
	}

	var fv visitor.FieldVisitor
	if cv, ok := r.current().(visitor.ClassVisitor); ok && !visitor.IsEmpty(cv) {
		fv = cv.VisitField(name, accessFlags, descriptor, value)
		r.publishComment()
	}
	if fv == nil {
		fv = visitor.EmptyField
	}
	r.push(fv)
	if visitor.IsEmpty(fv) {
		r.copyLine()
	}
	return nil
}

func (r *Reader) handleMethod() error {
	token, err := r.line.Next()
	if err != nil {
		return r.eol(err)
	}
	if err := r.validateToken(token, line.DirMethod); err != nil {
		return err
	}

	flags, err := r.readAccessFlags()
	if err != nil {
		return r.eol(err)
	}
	accessFlags := types.FlagsFromNames(flags)

	sigToken, err := r.line.Peek()
	if err != nil {
		return r.eol(err)
	}
	signature := types.NewDescriptor(sigToken).Signature()
	if signature == nil {
		return r.syntaxErrorf("expected a method signature - got %q", sigToken)
	}

	var mv visitor.MethodVisitor
	if cv, ok := r.current().(visitor.ClassVisitor); ok && !visitor.IsEmpty(cv) {
		params := make([]string, 0, len(signature.ParameterTypes()))
		for _, p := range signature.ParameterTypes() {
			params = append(params, p.String())
		}
		mv = cv.VisitMethod(signature.Name(), accessFlags, params, signature.ReturnType().String())
	}
	if mv == nil {
		mv = visitor.EmptyMethod
	}
	r.push(mv)
	r.publishComment()
	if visitor.IsEmpty(mv) {
		r.copyLine()
	}
	return nil
}

// handleEnd pops the active visitor. `.end local` and `.end param` are
// plain debug markers and close no scope.
func (r *Reader) handleEnd() error {
	if _, err := r.line.Next(); err != nil {
		return r.eol(err)
	}
	directive, err := r.line.Peek()
	if err != nil {
		return r.eol(err)
	}
	if d := line.Directive(directive); d == line.DirLocal || d == line.DirParam {
		r.copyLine()
		return nil
	}

	if len(r.stack) == 1 {
		// `.end class` on the root scope; the final VisitEnd is issued by
		// finish() so the visitor sees exactly one end event.
		return nil
	}
	v := r.pop()
	if !visitor.IsEmpty(v) {
		v.VisitEnd()
	} else {
		r.copyLine()
	}
	return nil
}

func (r *Reader) handleAnnotation() error {
	token, err := r.line.Next()
	if err != nil {
		return r.eol(err)
	}
	if err := r.validateToken(token, line.DirAnnotation); err != nil {
		return err
	}

	flags, err := r.readAccessFlags()
	if err != nil {
		return r.eol(err)
	}
	descriptor, err := r.line.Peek()
	if err != nil {
		return r.eol(err)
	}
	if err := r.validateDescriptor(descriptor); err != nil {
		return err
	}

	var av visitor.AnnotationVisitor
	accessFlags := types.FlagsFromNames(flags)
	switch cur := r.current().(type) {
	case visitor.ClassVisitor:
		if !visitor.IsEmpty(cur) {
			av = cur.VisitAnnotation(accessFlags, descriptor)
		}
	case visitor.MethodVisitor:
		if !visitor.IsEmpty(cur) {
			av = cur.VisitAnnotation(accessFlags, descriptor)
		}
	case visitor.FieldVisitor:
		if !visitor.IsEmpty(cur) {
			av = cur.VisitAnnotation(accessFlags, descriptor)
		}
	}
	if av == nil {
		av = visitor.EmptyAnnotation
	}
	r.push(av)
	r.publishComment()
	if visitor.IsEmpty(av) {
		r.copyLine()
	}
	return nil
}

func (r *Reader) handleSubannotation() error {
	// The value name precedes the assignment; it must be recovered from the
	// cleaned line because the cursor already sits on the directive.
	name := r.line.Cleaned
	if idx := strings.Index(name, "="); idx != -1 {
		name = strings.TrimSpace(name[:idx])
	}

	token, err := r.line.Next()
	if err != nil {
		return r.eol(err)
	}
	if err := r.validateToken(token, line.DirSubannotation); err != nil {
		return err
	}

	flags, err := r.readAccessFlags()
	if err != nil {
		return r.eol(err)
	}
	descriptor, err := r.line.Peek()
	if err != nil {
		return r.eol(err)
	}
	if err := r.validateDescriptor(descriptor); err != nil {
		return err
	}

	var av visitor.AnnotationVisitor
	if cur, ok := r.current().(visitor.AnnotationVisitor); ok && !visitor.IsEmpty(cur) {
		av = cur.VisitSubannotation(name, types.FlagsFromNames(flags), descriptor)
	}
	if av == nil {
		av = visitor.EmptyAnnotation
	}
	r.push(av)
	r.publishComment()
	if visitor.IsEmpty(av) {
		r.copyLine()
	}
	return nil
}

func (r *Reader) handleEnum() error {
	name := r.line.Cleaned
	if idx := strings.Index(name, "="); idx != -1 {
		name = strings.TrimSpace(name[:idx])
	}

	token, err := r.line.Next()
	if err != nil {
		return r.eol(err)
	}
	if err := r.validateToken(token, line.DirEnum); err != nil {
		return err
	}

	ref, err := r.line.Peek()
	if err != nil {
		return r.eol(err)
	}
	descriptor, value, ok := strings.Cut(ref, "->")
	if !ok {
		return r.syntaxErrorf("expected enum reference <owner>-><name>:<type> - got %q", ref)
	}
	if err := r.validateDescriptor(descriptor); err != nil {
		return err
	}
	valName, valDescriptor, ok := strings.Cut(value, ":")
	if !ok {
		return r.syntaxErrorf("expected enum constant <name>:<type> - got %q", value)
	}
	if err := r.validateDescriptor(valDescriptor); err != nil {
		return err
	}
	valName = strings.TrimPrefix(strings.TrimSuffix(valName, ">"), "<")

	if cur, ok := r.current().(visitor.AnnotationVisitor); ok && !visitor.IsEmpty(cur) {
		cur.VisitEnum(name, descriptor, valName, valDescriptor)
	} else {
		r.copyLine()
	}
	return nil
}

// handleValue parses a `name = value` pair inside an annotation scope.
func (r *Reader) handleValue() error {
	valName, err := r.line.Next()
	if err != nil {
		return r.eol(err)
	}
	// Skip the assignment operator.
	if _, err := r.line.Next(); err != nil {
		return r.eol(err)
	}

	statement, err := r.line.Peek()
	if err != nil {
		return r.eol(err)
	}
	if statement[0] == '.' {
		return r.handleToken()
	}

	cur, _ := r.current().(visitor.AnnotationVisitor)
	doCopy := visitor.IsEmpty(r.current())
	cleaned := r.line.Cleaned
	if doCopy {
		r.copyLine()
	}

	if strings.Contains(cleaned, "{") {
		var values []string
		if strings.Contains(cleaned, "}") {
			inner := cleaned[strings.Index(cleaned, "{")+1 : strings.Index(cleaned, "}")]
			for _, v := range strings.Split(inner, ",") {
				if v = strings.TrimSpace(v); v != "" {
					values = append(values, v)
				}
			}
		} else {
			// The array spans multiple lines; read until the closing brace.
			r.publishComment()
			if err := r.nextLine(); err != nil {
				return err
			}
			for !strings.HasSuffix(r.line.Cleaned, "}") && !strings.HasPrefix(r.line.Cleaned, "}") {
				value, err := r.line.Peek()
				if err != nil {
					return r.eol(err)
				}
				r.publishComment()
				values = append(values, strings.TrimRight(value, ","))
				if doCopy {
					r.copyLine()
				}
				if err := r.nextLine(); err != nil {
					return err
				}
			}
			if doCopy {
				r.copyLine()
			}
		}
		if cur != nil && !doCopy {
			cur.VisitArray(valName, values)
		}
		return nil
	}

	if cur != nil && !doCopy {
		value, err := r.line.Peek()
		if err != nil {
			return r.eol(err)
		}
		cur.VisitValue(valName, value)
	}
	return nil
}

func (r *Reader) handleParam() error {
	mv, ok := r.current().(visitor.MethodVisitor)
	if !ok || visitor.IsEmpty(mv) {
		r.copyLine()
		return nil
	}

	if _, err := r.line.Next(); err != nil {
		return r.eol(err)
	}
	register, err := r.line.Next()
	if err != nil {
		return r.eol(err)
	}
	register = strings.TrimRight(register, ",")

	var name string
	if strings.Contains(r.line.Cleaned, `"`) {
		tok, err := r.line.Peek()
		if err != nil {
			return r.eol(err)
		}
		name = strings.Trim(tok, `"`)
	}
	mv.VisitParam(register, name)
	r.publishComment()
	return nil
}

// handleMethodInt covers the directives carrying a single integer
// (.line, .locals, .registers).
func (r *Reader) handleMethodInt(directive line.Directive) error {
	token, err := r.line.Next()
	if err != nil {
		return r.eol(err)
	}
	if err := r.validateToken(token, directive); err != nil {
		return err
	}
	value, err := r.line.Peek()
	if err != nil {
		return r.eol(err)
	}

	mv, ok := r.current().(visitor.MethodVisitor)
	if !ok || visitor.IsEmpty(mv) {
		r.copyLine()
		return nil
	}
	number, err := strconv.Atoi(value)
	if err != nil {
		return r.syntaxErrorf("expected number after .%s - got %q", directive, value)
	}
	switch directive {
	case line.DirLine:
		mv.VisitLine(number)
	case line.DirLocals:
		mv.VisitLocals(number)
	case line.DirRegisters:
		mv.VisitRegisters(number)
	}
	r.publishComment()
	return nil
}

func (r *Reader) handleBlock() error {
	statement, _ := r.line.Peek()
	blockID := strings.TrimPrefix(statement, ":")
	if mv, ok := r.current().(visitor.MethodVisitor); ok && !visitor.IsEmpty(mv) {
		mv.VisitBlock(blockID)
		r.publishComment()
	} else {
		r.copyLine()
	}
	return nil
}

func (r *Reader) handleCatch(catchAll bool) error {
	mv, ok := r.current().(visitor.MethodVisitor)
	if !ok || visitor.IsEmpty(mv) {
		r.copyLine()
		return nil
	}

	descriptor := "Ljava/lang/Exception;"
	if !catchAll {
		if _, err := r.line.Next(); err != nil {
			return r.eol(err)
		}
		var err error
		descriptor, err = r.line.Peek()
		if err != nil {
			return r.eol(err)
		}
	}
	if err := r.validateDescriptor(descriptor); err != nil {
		return err
	}

	cleaned := r.line.Cleaned
	start, end := strings.Index(cleaned, "{"), strings.Index(cleaned, "}")
	if start == -1 || end == -1 || end < start {
		return r.syntaxErrorf("expected try-block range { :start .. :end }")
	}
	parts := strings.Fields(cleaned[start+1 : end])
	if len(parts) != 3 {
		return r.syntaxErrorf("expected try-block range with two labels - got %q", cleaned[start+1:end])
	}
	tryStart := strings.TrimPrefix(parts[0], ":")
	tryEnd := strings.TrimPrefix(parts[2], ":")
	handler := strings.TrimPrefix(r.line.Last(), ":")

	if catchAll {
		mv.VisitCatchAll(descriptor, tryStart, tryEnd, handler)
	} else {
		mv.VisitCatch(descriptor, tryStart, tryEnd, handler)
	}
	r.publishComment()
	return nil
}

func (r *Reader) handleLocal() error {
	mv, ok := r.current().(visitor.MethodVisitor)
	if !ok || visitor.IsEmpty(mv) {
		r.copyLine()
		return nil
	}

	if _, err := r.line.Next(); err != nil {
		return r.eol(err)
	}
	values := r.collectValues("")
	if len(values) != 3 && r.validate {
		return r.syntaxErrorf("expected 3 values in .local statement - got %d", len(values))
	}
	if len(values) < 3 {
		return nil
	}

	register := values[0]
	name, descriptor, ok := strings.Cut(strings.TrimSuffix(values[1], ","), ":")
	if !ok {
		return r.syntaxErrorf("expected <name>:<descriptor> in .local statement - got %q", values[1])
	}
	fullDescriptor := values[2]
	if err := r.validateDescriptor(descriptor); err != nil {
		return err
	}
	if err := r.validateDescriptor(fullDescriptor); err != nil {
		return err
	}
	mv.VisitLocal(register, strings.Trim(name, `"`), descriptor, fullDescriptor)
	r.publishComment()
	return nil
}

func (r *Reader) handlePrologue() error {
	if mv, ok := r.current().(visitor.MethodVisitor); ok && !visitor.IsEmpty(mv) {
		mv.VisitPrologue()
		r.publishComment()
	} else {
		r.copyLine()
	}
	return nil
}

func (r *Reader) handleRestart() error {
	mv, ok := r.current().(visitor.MethodVisitor)
	if !ok || visitor.IsEmpty(mv) {
		r.copyLine()
		return nil
	}
	mv.VisitRestart(r.line.Last())
	r.publishComment()
	return nil
}

// handleInstruction parses a method instruction. Invoke, return and goto
// families have dedicated events; everything else is generic.
func (r *Reader) handleInstruction() error {
	mv, ok := r.current().(visitor.MethodVisitor)
	if !ok || visitor.IsEmpty(mv) {
		r.copyLine()
		return nil
	}

	instruction, err := r.line.Next()
	if err != nil {
		return r.eol(err)
	}
	subIns := ""
	if idx := strings.Index(instruction, "-"); idx != -1 {
		subIns = instruction[idx+1:]
	}

	switch {
	case strings.HasPrefix(instruction, "invoke"):
		cleaned := r.line.Cleaned
		start, end := strings.Index(cleaned, "{"), strings.Index(cleaned, "}")
		if start == -1 || end == -1 || end < start {
			return r.syntaxErrorf("expected register list { ... } in invoke")
		}
		var registers []string
		for _, reg := range strings.Split(cleaned[start+1:end], ",") {
			if reg = strings.TrimSpace(reg); reg != "" {
				registers = append(registers, reg)
			}
		}

		methodSig := r.line.Last()
		descriptor, signature, ok := strings.Cut(methodSig, "->")
		if !ok {
			return r.syntaxErrorf("expected <owner>-><signature> in invoke - got %q", methodSig)
		}
		if err := r.validateDescriptor(descriptor); err != nil {
			return err
		}
		mv.VisitInvoke(subIns, registers, descriptor, signature)

	case strings.HasPrefix(instruction, "return"):
		mv.VisitReturn(subIns, r.collectValues(","))

	case strings.HasPrefix(instruction, "goto"):
		label, err := r.line.Peek()
		if err != nil {
			return r.eol(err)
		}
		mv.VisitGoto(strings.TrimPrefix(label, ":"))

	default:
		mv.VisitInstruction(instruction, r.collectValues(","))
	}
	r.publishComment()
	return nil
}

func (r *Reader) handlePackedSwitch() error {
	doCopy := visitor.IsEmpty(r.current())
	mv, _ := r.current().(visitor.MethodVisitor)

	if _, err := r.line.Next(); err != nil {
		return r.eol(err)
	}
	firstKey, err := r.line.Peek()
	if err != nil {
		return r.eol(err)
	}
	if doCopy {
		r.copyLine()
	}
	r.publishComment()
	if err := r.nextLine(); err != nil {
		return err
	}

	var labels []string
	for {
		value, err := r.line.Next()
		if err != nil {
			return r.eol(err)
		}
		r.publishComment()
		if doCopy {
			r.copyLine()
		}
		if value[0] == ':' {
			labels = append(labels, strings.TrimPrefix(value, ":"))
		} else if strings.Contains(value, line.DirEnd.String()) {
			break
		}
		if err := r.nextLine(); err != nil {
			return err
		}
	}

	if mv != nil && !doCopy {
		mv.VisitPackedSwitch(firstKey, labels)
	}
	return nil
}

func (r *Reader) handleSparseSwitch() error {
	doCopy := visitor.IsEmpty(r.current())
	mv, _ := r.current().(visitor.MethodVisitor)

	if _, err := r.line.Next(); err != nil {
		return r.eol(err)
	}
	if doCopy {
		r.copyLine()
	}
	r.publishComment()

	branches := make(map[string]string)
	for {
		if err := r.nextLine(); err != nil {
			return err
		}
		key, err := r.line.Peek()
		if err != nil {
			return r.eol(err)
		}
		r.publishComment()
		if doCopy {
			r.copyLine()
		}
		if key[0] == '.' && key[1:] == line.DirEnd.String() {
			break
		}
		branches[key] = strings.TrimPrefix(r.line.Last(), ":")
	}

	if mv != nil && !doCopy {
		mv.VisitSparseSwitch(branches)
		r.publishComment()
	}
	return nil
}

func (r *Reader) handleArrayData() error {
	doCopy := visitor.IsEmpty(r.current())
	mv, _ := r.current().(visitor.MethodVisitor)

	if _, err := r.line.Next(); err != nil {
		return r.eol(err)
	}
	// The element width stays raw; it may be hexadecimal.
	width, err := r.line.Peek()
	if err != nil {
		return r.eol(err)
	}
	if doCopy {
		r.copyLine()
	}
	r.publishComment()

	var values []any
	for {
		if err := r.nextLine(); err != nil {
			return err
		}
		token, err := r.line.Peek()
		if err != nil {
			return r.eol(err)
		}
		r.publishComment()
		if doCopy {
			r.copyLine()
		}
		if token[0] == '.' && token[1:] == line.DirEnd.String() {
			break
		}
		value, err := types.ParseValue(token)
		if err != nil {
			if r.validate {
				return r.syntaxErrorf("invalid array-data value %q", token)
			}
			continue
		}
		values = append(values, value)
	}

	if mv != nil && !doCopy {
		mv.VisitArrayData(width, values)
	}
	return nil
}
