// Package types implements the DEX type-descriptor algebra used throughout
// the Smali toolchain: descriptors (`I`, `Ljava/lang/String;`, `[[B`),
// method signatures (`name(params)ret`), access-flag sets, and Smali
// literal values.
package types

import (
	"regexp"
	"strings"
)

// Kind classifies a type descriptor.
type Kind int

const (
	KindUnknown Kind = iota
	KindArray
	KindPrimitive
	KindClass
	KindMethod
)

func (k Kind) String() string {
	switch k {
	case KindArray:
		return "array"
	case KindPrimitive:
		return "primitive"
	case KindClass:
		return "class"
	case KindMethod:
		return "method"
	default:
		return "unknown"
	}
}

var (
	rePrimitive  = regexp.MustCompile(`^\[*[ZCBSIFVJD]$`)
	reDescriptor = regexp.MustCompile(`^\[*((L\S*;$)|([ZCBSIFVJD])$)`)
	rePretty     = regexp.MustCompile(`/|(->)`)
)

// Descriptor is a parsed DEX type descriptor. It accepts descriptor syntax
// (`Lcom/a/B;`), dotted class names (`com.a.B`), bare internal names
// (`com/a/B`), primitives, arrays of any of these, and method signatures.
// Non-canonical inputs are normalized on construction.
type Descriptor struct {
	value string
	kind  Kind
	dim   int
	elem  *Descriptor
}

// NewDescriptor parses and normalizes the given type string.
func NewDescriptor(value string) *Descriptor {
	d := &Descriptor{dim: strings.Count(value, "[")}
	d.value = d.clean(value)
	if d.dim > 0 && d.kind != KindMethod {
		d.kind = KindArray
		d.elem = NewDescriptor(strings.ReplaceAll(d.value, "[", ""))
	}
	return d
}

// clean normalizes the raw type string and classifies it.
func (d *Descriptor) clean(value string) string {
	if rePrimitive.MatchString(value) {
		d.kind = KindPrimitive
		return value
	}

	value = strings.ReplaceAll(value, ".", "/")
	if strings.Contains(value, "(") {
		d.kind = KindMethod
		return value
	}

	// Class normalization: wrap the element name in `L...;` if the input
	// used a bare internal or dotted name.
	idx := strings.LastIndex(value, "[") + 1
	if idx < len(value) && value[idx] != 'L' {
		if d.dim > 0 {
			value = value[:idx] + "L" + value[idx:]
		} else {
			value = "L" + value
		}
	}
	if !strings.HasSuffix(value, ";") {
		value += ";"
	}

	d.kind = KindClass
	return value
}

// String returns the canonical descriptor form.
func (d *Descriptor) String() string { return d.value }

// Kind returns the descriptor classification. Arrays report KindArray; use
// ElementType to inspect the element.
func (d *Descriptor) Kind() Kind { return d.kind }

// Dim returns the number of array dimensions (zero for non-arrays).
func (d *Descriptor) Dim() int { return d.dim }

// ElementType returns the underlying array element descriptor, or nil when
// this descriptor is not an array.
func (d *Descriptor) ElementType() *Descriptor { return d.elem }

// IsSignature reports whether this descriptor is a method signature.
func (d *Descriptor) IsSignature() bool { return d.kind == KindMethod }

// Signature parses this descriptor as a method signature. It returns nil
// when the descriptor does not describe a method.
func (d *Descriptor) Signature() *Signature {
	if d.kind != KindMethod {
		return nil
	}
	sig, err := ParseSignature(d.value)
	if err != nil {
		return nil
	}
	return sig
}

// PrettyName returns the Java-style name: `Lcom/a/B;` becomes `com.a.B`,
// arrays append one `[]` per dimension.
func (d *Descriptor) PrettyName() string {
	value := d.value
	if d.elem != nil {
		value = d.elem.value
	}
	value = strings.TrimSuffix(strings.TrimPrefix(value, "L"), ";")
	return rePretty.ReplaceAllString(value, ".") + strings.Repeat("[]", d.dim)
}

// DVMName returns the internal name without `L` and `;`. Array dimensions
// are not rendered; the element class name is returned.
func (d *Descriptor) DVMName() string {
	value := d.value
	if d.elem != nil {
		value = d.elem.value
	}
	return strings.TrimSuffix(strings.TrimPrefix(value, "L"), ";")
}

// SimpleName returns the last segment of the pretty name.
func (d *Descriptor) SimpleName() string {
	parts := strings.Split(d.PrettyName(), ".")
	return parts[len(parts)-1]
}

// Equals reports whether both descriptors normalize to the same value.
func (d *Descriptor) Equals(other *Descriptor) bool {
	return other != nil && d.value == other.value
}

// IsTypeDescriptor reports whether value is a valid (non-method) type
// descriptor.
func IsTypeDescriptor(value string) bool {
	return reDescriptor.MatchString(value)
}
