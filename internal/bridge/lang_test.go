package bridge

import (
	"errors"
	"testing"

	"github.com/cwbudde/go-smali/internal/types"
)

func newTestMethod(t *testing.T, vm *VM, class *Class, signature string, flags types.AccessFlags) *Method {
	t.Helper()
	method, err := NewMethod(vm, class, signature, flags)
	if err != nil {
		t.Fatalf("NewMethod(%q): %v", signature, err)
	}
	return method
}

// TestBrokerResolution tests overload resolution by argument count and
// return-type hint.
func TestBrokerResolution(t *testing.T) {
	vm := NewVM()
	class := NewClass(vm, nil, "LA;", types.AccPublic)
	void := newTestMethod(t, vm, class, "foo(I)V", types.AccPublic)
	nonVoid := newTestMethod(t, vm, class, "foo(I)I", types.AccPublic)
	other := newTestMethod(t, vm, class, "foo(II)I", types.AccPublic)

	broker := NewMethodBroker("foo", void, nonVoid, other)

	t.Run("unique by count", func(t *testing.T) {
		method, err := broker.Resolve(2, NoHint)
		if err != nil {
			t.Fatalf("Resolve: %v", err)
		}
		if method != other {
			t.Errorf("Resolve(2) = %s", method.Signature())
		}
	})

	t.Run("hint selects non-void", func(t *testing.T) {
		method, err := broker.Resolve(1, WantsValue)
		if err != nil {
			t.Fatalf("Resolve: %v", err)
		}
		if method != nonVoid {
			t.Errorf("Resolve(1, WantsValue) = %s", method.Signature())
		}
	})

	t.Run("hint selects void", func(t *testing.T) {
		method, err := broker.Resolve(1, WantsVoid)
		if err != nil {
			t.Fatalf("Resolve: %v", err)
		}
		if method != void {
			t.Errorf("Resolve(1, WantsVoid) = %s", method.Signature())
		}
	})

	t.Run("ambiguous without hint", func(t *testing.T) {
		if _, err := broker.Resolve(1, NoHint); !errors.Is(err, ErrNoSuchMethod) {
			t.Errorf("Resolve(1) error = %v, want ErrNoSuchMethod", err)
		}
	})

	t.Run("no match", func(t *testing.T) {
		if _, err := broker.Resolve(5, NoHint); !errors.Is(err, ErrNoSuchMethod) {
			t.Errorf("Resolve(5) error = %v, want ErrNoSuchMethod", err)
		}
	})

	t.Run("single overload ignores hint", func(t *testing.T) {
		single := NewMethodBroker("bar", void)
		method, err := single.Resolve(99, WantsValue)
		if err != nil {
			t.Fatalf("Resolve: %v", err)
		}
		if method != void {
			t.Errorf("single-overload broker resolved %s", method.Signature())
		}
	})
}

func TestClassMethodLookup(t *testing.T) {
	vm := NewVM()
	class := NewClass(vm, nil, "LA;", types.AccPublic)
	a := newTestMethod(t, vm, class, "foo(I)V", types.AccPublic)
	b := newTestMethod(t, vm, class, "foo(I)I", types.AccPublic)
	solo := newTestMethod(t, vm, class, "bar()V", types.AccPublic)
	class.AddMethod(a)
	class.AddMethod(b)
	class.AddMethod(solo)

	// A simple name resolves only when the broker holds one overload.
	if method, err := class.Method("bar"); err != nil || method != solo {
		t.Errorf("Method(\"bar\") = %v, %v", method, err)
	}
	if _, err := class.Method("foo"); !errors.Is(err, ErrNoSuchMethod) {
		t.Errorf("Method(\"foo\") error = %v, want ErrNoSuchMethod", err)
	}
	if method, err := class.Method("foo(I)I"); err != nil || method != b {
		t.Errorf("Method(\"foo(I)I\") = %v, %v", method, err)
	}
	if _, err := class.Method("missing()V"); !errors.Is(err, ErrNoSuchMethod) {
		t.Errorf("Method(\"missing()V\") error = %v", err)
	}

	declared := class.DeclaredMethods(0)
	if len(declared) != 3 {
		t.Errorf("DeclaredMethods(0) = %d methods", len(declared))
	}
}

func TestClassFields(t *testing.T) {
	vm := NewVM()
	class := NewClass(vm, nil, "LA;", types.AccPublic)
	class.AddField(NewField("I", class, "a:I", types.AccPublic|types.AccStatic, "a", int64(1)))
	class.AddField(NewField("I", class, "b:I", types.AccPrivate, "b", nil))

	field, err := class.Field("a")
	if err != nil {
		t.Fatalf("Field: %v", err)
	}
	if field.Value() != int64(1) {
		t.Errorf("Value() = %v", field.Value())
	}
	if _, err := class.Field("missing"); !errors.Is(err, ErrNoSuchField) {
		t.Errorf("Field(\"missing\") error = %v", err)
	}

	if got := len(class.Fields(0)); got != 2 {
		t.Errorf("Fields(0) = %d", got)
	}
	if got := len(class.Fields(types.AccStatic)); got != 1 {
		t.Errorf("Fields(AccStatic) = %d", got)
	}
}

func TestObjectFieldAccess(t *testing.T) {
	vm := NewVM()
	class := NewClass(vm, nil, "LA;", types.AccPublic)
	class.AddField(NewField("I", class, "x:I", types.AccPublic, "x", nil))
	class.AddField(NewField("I", class, "c:I", types.AccPublic|types.AccFinal, "c", nil))
	class.AddField(NewField("I", class, "s:I", types.AccPublic|types.AccStatic, "s", int64(7)))

	object, err := NewObject(class)
	if err != nil {
		t.Fatalf("NewObject: %v", err)
	}

	// Instance fields start at the null sentinel.
	value, err := object.Get("x")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if value != nil {
		t.Errorf("initial x = %v, want nil", value)
	}

	if err := object.Set("x", int64(42)); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if value, _ := object.Get("x"); value != int64(42) {
		t.Errorf("x = %v", value)
	}

	// Static reads and writes go through the class slot.
	if value, _ := object.Get("s"); value != int64(7) {
		t.Errorf("s = %v", value)
	}
	if err := object.Set("s", int64(8)); err != nil {
		t.Fatalf("Set static: %v", err)
	}
	if field, _ := class.Field("s"); field.Value() != int64(8) {
		t.Errorf("class-level s = %v", field.Value())
	}

	// Final fields refuse writes.
	if err := object.Set("c", int64(1)); !errors.Is(err, ErrUnsupported) {
		t.Errorf("final write error = %v, want ErrUnsupported", err)
	}
}

func TestObjectAbstractRefusal(t *testing.T) {
	vm := NewVM()
	for _, flags := range []types.AccessFlags{types.AccAbstract, types.AccInterface} {
		class := NewClass(vm, nil, "LA;", types.AccPublic|flags)
		if _, err := NewObject(class); !errors.Is(err, ErrUnsupported) {
			t.Errorf("NewObject(%v) error = %v, want ErrUnsupported", flags.Names(), err)
		}
	}
}

// TestIsAssignable tests the super-chain walk used by check-cast.
func TestIsAssignable(t *testing.T) {
	vm := NewVM()
	object := NewClass(vm, nil, "Ljava/lang/Object;", types.AccPublic)
	base := NewClass(vm, nil, "LBase;", types.AccPublic)
	base.SetSuperClass(types.NewDescriptor("Ljava/lang/Object;"))
	mid := NewClass(vm, nil, "LMid;", types.AccPublic)
	mid.SetSuperClass(types.NewDescriptor("LBase;"))
	leaf := NewClass(vm, nil, "LLeaf;", types.AccPublic)
	leaf.SetSuperClass(types.NewDescriptor("LMid;"))
	for _, c := range []*Class{object, base, mid, leaf} {
		vm.NewClass(c)
	}

	tests := []struct {
		target   *Class
		source   *Class
		expected bool
	}{
		{base, leaf, true},  // grandparent
		{mid, leaf, true},   // parent
		{leaf, leaf, true},  // identity
		{leaf, base, false}, // wrong direction
		{object, leaf, true},
		{base, nil, false},
	}
	for _, tt := range tests {
		if got := tt.target.IsAssignable(tt.source); got != tt.expected {
			t.Errorf("%v.IsAssignable(%v) = %v, want %v", tt.target, tt.source, got, tt.expected)
		}
	}
}

func TestAnnotationAttributes(t *testing.T) {
	annotation := NewAnnotation(nil, "Lcom/Anno;", 0)
	annotation.Set("age", int64(30))
	if !annotation.Has("age") {
		t.Error("Has(\"age\") = false")
	}
	if annotation.Get("age") != int64(30) {
		t.Errorf("Get(\"age\") = %v", annotation.Get("age"))
	}
	if annotation.Get("missing") != nil {
		t.Error("Get(\"missing\") != nil")
	}
}

func TestMemberAnnotations(t *testing.T) {
	vm := NewVM()
	class := NewClass(vm, nil, "LA;", types.AccPublic)
	annotation := NewAnnotation(class, "Lcom/Anno;", 0)
	class.AddAnnotation(annotation)

	if !class.IsAnnotationPresent("Lcom/Anno;") {
		t.Error("IsAnnotationPresent = false")
	}
	// Dotted names normalize to the same key.
	if got := class.Annotations("com.Anno"); len(got) != 1 {
		t.Errorf("Annotations(\"com.Anno\") = %d entries", len(got))
	}
	if class.IsAnnotationPresent("Lcom/Other;") {
		t.Error("IsAnnotationPresent(other) = true")
	}
}
