package types

import (
	"reflect"
	"testing"
)

func TestFlagsFromNames(t *testing.T) {
	tests := []struct {
		names    []string
		expected AccessFlags
	}{
		{[]string{"public"}, AccPublic},
		{[]string{"public", "final"}, AccPublic | AccFinal},
		{[]string{"private", "static", "synthetic"}, AccPrivate | AccStatic | AccSynthetic},
		{[]string{"declared-synchronized"}, AccDeclaredSynchronized},
		{[]string{"PUBLIC"}, AccPublic},
		{[]string{"bogus"}, 0},
		{nil, 0},
	}

	for _, tt := range tests {
		if got := FlagsFromNames(tt.names); got != tt.expected {
			t.Errorf("FlagsFromNames(%v) = %#x, want %#x", tt.names, got, tt.expected)
		}
	}
}

// TestFlagsRoundTrip tests that converting a flag set to names and back
// reproduces the set for arbitrary subsets of the flag table.
func TestFlagsRoundTrip(t *testing.T) {
	subsets := []AccessFlags{
		AccPublic,
		AccPublic | AccStatic | AccFinal,
		AccPrivate | AccDeclaredSynchronized,
		AccInterface | AccAbstract | AccAnnotation,
		AccSystem | AccRuntime | AccBuild,
		0,
	}
	for _, flags := range subsets {
		if got := FlagsFromNames(flags.Names()); got != flags {
			t.Errorf("round trip of %#x = %#x", flags, got)
		}
	}
}

func TestFlagNamesOrder(t *testing.T) {
	flags := AccFinal | AccPublic | AccStatic
	want := []string{"public", "static", "final"}
	if got := flags.Names(); !reflect.DeepEqual(got, want) {
		t.Errorf("Names() = %v, want %v", got, want)
	}
}

// TestFlagsHas tests that membership is a set intersection, not equality.
func TestFlagsHas(t *testing.T) {
	flags := AccPublic | AccStatic
	if !flags.Has(AccStatic) {
		t.Error("Has(AccStatic) = false")
	}
	if !flags.Has(AccPublic | AccProtected) {
		t.Error("composite query with one matching bit = false")
	}
	if flags.Has(AccFinal) {
		t.Error("Has(AccFinal) = true")
	}
}

func TestIsKnownFlag(t *testing.T) {
	for _, name := range []string{"public", "declared-synchronized", "build"} {
		if !IsKnownFlag(name) {
			t.Errorf("IsKnownFlag(%q) = false", name)
		}
	}
	for _, name := range []string{"Public", "declared_synchronized", "v0", ""} {
		if IsKnownFlag(name) {
			t.Errorf("IsKnownFlag(%q) = true", name)
		}
	}
}
