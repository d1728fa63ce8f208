package manifest

import (
	"errors"
	"testing"
)

func TestResolvePath(t *testing.T) {
	m := New(
		NewItem(strp("b"), "c", "Note", "", nil),
		NewItem(strp("a"), "b", "Chapter", "", nil),
		NewItem(nil, "a", "Notebook", "", nil),
	)
	tests := []struct {
		slug string
		want string
	}{
		{"a", "/Notebook"},
		{"b", "/Notebook/Chapter"},
		{"c", "/Notebook/Chapter/Note"},
	}
	for _, tt := range tests {
		it, _ := m.BySlug(tt.slug)
		got, err := ResolvePath(it, m)
		if err != nil {
			t.Fatalf("ResolvePath(%s): %v", tt.slug, err)
		}
		if got != tt.want {
			t.Errorf("ResolvePath(%s) = %q, want %q", tt.slug, got, tt.want)
		}
		again, _ := ResolvePath(it, m)
		if again != got {
			t.Errorf("ResolvePath(%s) not deterministic: %q then %q", tt.slug, got, again)
		}
	}
}

func TestResolvePathUnknownParent(t *testing.T) {
	m := New(NewItem(strp("ghost"), "x", "X", "", nil))
	_, err := ResolvePath(m.Items()[0], m)
	if !errors.Is(err, ErrUnknownParent) {
		t.Fatalf("err = %v, want ErrUnknownParent", err)
	}
	// Queries surface the same failure.
	if _, err := m.List("/"); !errors.Is(err, ErrUnknownParent) {
		t.Errorf("List err = %v, want ErrUnknownParent", err)
	}
}

func TestResolvePathCycle(t *testing.T) {
	m := New(
		NewItem(strp("b"), "a", "A", "", nil),
		NewItem(strp("a"), "b", "B", "", nil),
	)
	if _, err := ResolvePath(m.Items()[0], m); !errors.Is(err, ErrParentCycle) {
		t.Fatalf("err = %v, want ErrParentCycle", err)
	}

	self := New(NewItem(strp("s"), "s", "S", "", nil))
	if _, err := ResolvePath(self.Items()[0], self); !errors.Is(err, ErrParentCycle) {
		t.Fatalf("self parent: err = %v, want ErrParentCycle", err)
	}
}

func TestResolvePathTitleNotSanitized(t *testing.T) {
	m := New(
		NewItem(strp("a"), "b", "x/y", "", nil),
		NewItem(nil, "a", "A", "", nil),
	)
	got, err := ResolvePath(m.Items()[0], m)
	if err != nil {
		t.Fatalf("ResolvePath: %v", err)
	}
	if got != "/A/x/y" {
		t.Errorf("path = %q, want /A/x/y", got)
	}
}

func TestDir(t *testing.T) {
	tests := map[string]string{
		"/A":     "/",
		"/A/B":   "/A",
		"/A/B/C": "/A/B",
		"A":      "/",
		"/":      "/",
	}
	for in, want := range tests {
		if got := Dir(in); got != want {
			t.Errorf("Dir(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestCleanQuery(t *testing.T) {
	tests := map[string]string{
		"":       "/",
		"/":      "/",
		"/A/":    "/A",
		"A/B":    "/A/B",
		" /A/B ": "/A/B",
	}
	for in, want := range tests {
		if got := CleanQuery(in); got != want {
			t.Errorf("CleanQuery(%q) = %q, want %q", in, got, want)
		}
	}
}
