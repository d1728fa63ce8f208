package slug

import (
	"strings"
	"testing"
)

func TestMake(t *testing.T) {
	tests := map[string]string{
		"Hello World":        "hello-world",
		"  Trim me  ":        "trim-me",
		"Chapter 1: Intro!":  "chapter-1-intro",
		"already-slugged":    "already-slugged",
		"Ünïcode Ñame":       "n-code-ame",
		"!!!":                Fallback,
		"":                   Fallback,
		"a//b..c":            "a-b-c",
		"Mixed_CASE 42 Done": "mixed-case-42-done",
	}
	for in, want := range tests {
		if got := Make(in); got != want {
			t.Errorf("Make(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestUniqueFree(t *testing.T) {
	got := Unique("note", func(string) bool { return false })
	if got != "note" {
		t.Errorf("Unique = %q, want note", got)
	}
}

func TestUniqueTaken(t *testing.T) {
	taken := map[string]bool{"note": true}
	got := Unique("note", func(s string) bool { return taken[s] })
	if got == "note" || !strings.HasPrefix(got, "note-") {
		t.Fatalf("Unique = %q, want note-<suffix>", got)
	}
	if len(got) != len("note-")+8 {
		t.Errorf("suffix length: %q", got)
	}
}
