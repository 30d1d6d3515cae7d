package line

import (
	"errors"
	"reflect"
	"testing"
)

func TestLineTokens(t *testing.T) {
	l := New(".method public static main([Ljava/lang/String;)V")

	tok, err := l.Peek()
	if err != nil {
		t.Fatalf("Peek: %v", err)
	}
	if tok != ".method" {
		t.Errorf("Peek() = %q, want .method", tok)
	}

	// Peek must not advance.
	if tok2, _ := l.Peek(); tok2 != ".method" {
		t.Errorf("second Peek() = %q", tok2)
	}

	want := []string{".method", "public", "static", "main([Ljava/lang/String;)V"}
	var got []string
	for l.HasNext() {
		tok, err := l.Next()
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		got = append(got, tok)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("tokens = %v, want %v", got, want)
	}

	if _, err := l.Next(); !errors.Is(err, ErrEndOfLine) {
		t.Errorf("Next past end = %v, want ErrEndOfLine", err)
	}
}

func TestLineLast(t *testing.T) {
	l := New("invoke-direct {v0}, Lcom/Ex;-><init>()V")
	if got := l.Last(); got != "Lcom/Ex;-><init>()V" {
		t.Errorf("Last() = %q", got)
	}
	// Last must not move the cursor.
	if tok, _ := l.Peek(); tok != "invoke-direct" {
		t.Errorf("Peek() after Last() = %q", tok)
	}
}

func TestLineEOLComment(t *testing.T) {
	tests := []struct {
		input   string
		cleaned string
		comment string
		hasEOL  bool
	}{
		{".super Ljava/lang/Object; # parent class", ".super Ljava/lang/Object;", "parent class", true},
		{".locals 2", ".locals 2", "", false},
		// A '#' inside a string literal is not a comment.
		{`const-string v0, "a # b"`, `const-string v0, "a # b"`, "", false},
		{`const-string v0, "a b" # trailing`, `const-string v0, "a b"`, "trailing", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			l := New(tt.input)
			if l.Cleaned != tt.cleaned {
				t.Errorf("Cleaned = %q, want %q", l.Cleaned, tt.cleaned)
			}
			if l.HasEOL() != tt.hasEOL {
				t.Errorf("HasEOL() = %v, want %v", l.HasEOL(), tt.hasEOL)
			}
			if l.EOLComment != tt.comment {
				t.Errorf("EOLComment = %q, want %q", l.EOLComment, tt.comment)
			}
		})
	}
}

func TestSplitKeepsStrings(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"a b c", []string{"a", "b", "c"}},
		{`.local v0, "my var":Ljava/lang/String;`, []string{".local", "v0,", `"my var":Ljava/lang/String;`}},
		{"single", []string{"single"}},
	}

	for _, tt := range tests {
		if got := Split(tt.input, " "); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("Split(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestLineReset(t *testing.T) {
	l := New(".locals 1")
	l.Reset(".registers 4")
	tok, err := l.Next()
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if tok != ".registers" {
		t.Errorf("Next() = %q", tok)
	}

	l.Reset("")
	if l.HasNext() {
		t.Error("HasNext() = true after empty reset")
	}
}

func TestIsDirective(t *testing.T) {
	for _, name := range []string{"class", "packed-switch", "end", "array-data"} {
		if !IsDirective(name) {
			t.Errorf("IsDirective(%q) = false", name)
		}
	}
	if IsDirective("invoke-static") {
		t.Error("IsDirective(\"invoke-static\") = true")
	}
}
