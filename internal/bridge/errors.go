// Package bridge implements the reflective Smali class model and the
// register-based virtual machine that executes parsed method bodies.
package bridge

import (
	"errors"
	"fmt"
)

// Sentinel errors for model lookups. They are wrapped with context via
// fmt.Errorf("%w", ...), so errors.Is works at the API boundary.
var (
	// ErrNoSuchClass reports that a class is not defined in the VM.
	ErrNoSuchClass = errors.New("no such class")
	// ErrNoSuchMethod reports that a method lookup failed.
	ErrNoSuchMethod = errors.New("no such method")
	// ErrNoSuchField reports that a field lookup failed.
	ErrNoSuchField = errors.New("no such field")
	// ErrNoSuchRegister reports a read of an unknown register.
	ErrNoSuchRegister = errors.New("no such register")
	// ErrNoSuchOpcode reports that no executor exists for an opcode.
	ErrNoSuchOpcode = errors.New("no such opcode")
	// ErrInvalidOpcode reports an unknown opcode in strict mode.
	ErrInvalidOpcode = errors.New("invalid opcode")
	// ErrUnsupported reports an operation the model refuses, such as
	// writing a final field or instantiating an abstract class.
	ErrUnsupported = errors.New("unsupported operation")
)

// ExecutionError is a runtime error raised inside the VM. Name carries the
// Java-style exception class name (e.g. "ClassCastError"), Message the
// detail text.
type ExecutionError struct {
	Name    string
	Message string
	// Value holds the thrown register value for explicit `throw`
	// instructions; nil otherwise.
	Value any
}

// NewExecutionError creates an execution error with a formatted message.
func NewExecutionError(name, format string, args ...any) *ExecutionError {
	return &ExecutionError{Name: name, Message: fmt.Sprintf(format, args...)}
}

func (e *ExecutionError) Error() string {
	if e.Message == "" {
		return e.Name
	}
	return e.Name + ": " + e.Message
}
