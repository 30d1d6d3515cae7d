package line

// Directive identifies a Smali dot-directive. The string value is the
// directive name as it appears in source, without the leading dot.
type Directive string

// All directives understood by the reader.
const (
	DirAnnotation    Directive = "annotation"
	DirArrayData     Directive = "array-data"
	DirCatch         Directive = "catch"
	DirCatchAll      Directive = "catchall"
	DirClass         Directive = "class"
	DirDebug         Directive = "debug"
	DirEnd           Directive = "end"
	DirEnum          Directive = "enum"
	DirField         Directive = "field"
	DirImplements    Directive = "implements"
	DirLine          Directive = "line"
	DirLocal         Directive = "local"
	DirLocals        Directive = "locals"
	DirMethod        Directive = "method"
	DirPackedSwitch  Directive = "packed-switch"
	DirParam         Directive = "param"
	DirParameter     Directive = "parameter"
	DirPrologue      Directive = "prologue"
	DirRegisters     Directive = "registers"
	DirRestart       Directive = "restart"
	DirSource        Directive = "source"
	DirSparseSwitch  Directive = "sparse-switch"
	DirSubannotation Directive = "subannotation"
	DirSuper         Directive = "super"
)

func (d Directive) String() string { return string(d) }

var directives = map[Directive]bool{
	DirAnnotation: true, DirArrayData: true, DirCatch: true, DirCatchAll: true,
	DirClass: true, DirDebug: true, DirEnd: true, DirEnum: true, DirField: true,
	DirImplements: true, DirLine: true, DirLocal: true, DirLocals: true,
	DirMethod: true, DirPackedSwitch: true, DirParam: true, DirParameter: true,
	DirPrologue: true, DirRegisters: true, DirRestart: true, DirSource: true,
	DirSparseSwitch: true, DirSubannotation: true, DirSuper: true,
}

// IsDirective reports whether name (without the leading dot) is a known
// directive.
func IsDirective(name string) bool {
	return directives[Directive(name)]
}
