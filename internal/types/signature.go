package types

import (
	"fmt"
	"strings"
)

// Well-known special method names.
const (
	Clinit = "<clinit>"
	Init   = "<init>"
)

// Signature is a parsed method signature. Both the qualified form
// `Lowner;->name(params)ret` and the bare form `name(params)ret` are
// accepted.
type Signature struct {
	sig        string
	name       string
	owner      *Descriptor
	params     []*Descriptor
	returnType *Descriptor
}

// ParseSignature parses the given method signature string.
func ParseSignature(sig string) (*Signature, error) {
	lparen := strings.Index(sig, "(")
	rparen := strings.Index(sig, ")")
	if lparen == -1 || rparen == -1 || rparen < lparen {
		return nil, fmt.Errorf("invalid method signature: %q", sig)
	}

	s := &Signature{sig: sig}

	name := sig[:lparen]
	var owner string
	if idx := strings.Index(name, "->"); idx != -1 {
		owner = name[:idx]
		name = name[idx+2:]
	}
	if owner != "" {
		s.owner = NewDescriptor(owner)
	}
	if name != Init && name != Clinit {
		name = strings.TrimPrefix(strings.TrimSuffix(name, ">"), "<")
	}
	s.name = name

	params, err := splitParameters(sig[lparen+1 : rparen])
	if err != nil {
		return nil, fmt.Errorf("invalid method signature %q: %w", sig, err)
	}
	s.params = params

	ret := sig[rparen+1:]
	if ret == "" {
		return nil, fmt.Errorf("invalid method signature %q: missing return type", sig)
	}
	s.returnType = NewDescriptor(ret)
	return s, nil
}

// splitParameters decomposes the parameter segment of a method descriptor
// into individual type descriptors.
func splitParameters(params string) ([]*Descriptor, error) {
	var list []*Descriptor
	var current strings.Builder
	inClass := false

	for i := 0; i < len(params); i++ {
		ch := params[i]
		current.WriteByte(ch)

		if ch == 'L' && !inClass {
			inClass = true
			continue
		}
		if ch == ';' {
			inClass = false
		}
		if ch == '[' || inClass {
			continue
		}

		list = append(list, NewDescriptor(current.String()))
		current.Reset()
	}
	if current.Len() > 0 {
		if inClass {
			return nil, fmt.Errorf("unterminated class descriptor %q", current.String())
		}
		list = append(list, NewDescriptor(current.String()))
	}
	return list, nil
}

// Sig returns the original signature string.
func (s *Signature) Sig() string { return s.sig }

func (s *Signature) String() string { return s.sig }

// Name returns the method name; `<init>` and `<clinit>` are preserved.
func (s *Signature) Name() string { return s.name }

// DeclaringClass returns the descriptor of the owning class, or nil for
// bare signatures.
func (s *Signature) DeclaringClass() *Descriptor { return s.owner }

// ParameterTypes returns the parameter type descriptors.
func (s *Signature) ParameterTypes() []*Descriptor { return s.params }

// ReturnType returns the return type descriptor.
func (s *Signature) ReturnType() *Descriptor { return s.returnType }

// Descriptor returns the method descriptor, i.e. the `(params)ret` part of
// the signature.
func (s *Signature) Descriptor() string {
	return s.sig[strings.Index(s.sig, "("):]
}
