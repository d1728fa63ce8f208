package manifest

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func sample(t *testing.T) Manifest {
	t.Helper()
	m, err := Empty().Insert("", "nb", "Notebook", "my notebook", []string{"work", "draft", "work"})
	if err != nil {
		t.Fatal(err)
	}
	m, err = m.Insert("/Notebook", "ch1", "Chapter 1", "", nil)
	if err != nil {
		t.Fatal(err)
	}
	m, err = m.Insert("/Notebook/Chapter 1", "n1", "Note", "leaf", []string{"x"})
	if err != nil {
		t.Fatal(err)
	}
	return m
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	for name, m := range map[string]Manifest{
		"empty":  Empty(),
		"sample": sample(t),
	} {
		t.Run(name, func(t *testing.T) {
			data, err := Encode(m)
			if err != nil {
				t.Fatalf("Encode: %v", err)
			}
			got, err := Decode(data)
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if diff := cmp.Diff(m.Items(), got.Items()); diff != "" {
				t.Errorf("round trip mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestEncodeShape(t *testing.T) {
	data, err := Encode(New(NewItem(nil, "a", "A", "", nil)))
	if err != nil {
		t.Fatal(err)
	}
	var doc map[string][]map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	items := doc["items"]
	if len(items) != 1 {
		t.Fatalf("items = %v", items)
	}
	if v, ok := items[0]["parent"]; !ok || v != nil {
		t.Errorf("parent = %v (present %v), want explicit null", v, ok)
	}
	if tags, ok := items[0]["tags"].([]any); !ok || len(tags) != 0 {
		t.Errorf("tags = %v, want []", items[0]["tags"])
	}
}

func TestDecodeErrors(t *testing.T) {
	cases := map[string]string{
		"not json":          `{`,
		"missing items":     `{}`,
		"items not array":   `{"items": 3}`,
		"missing slug":      `{"items":[{"title":"A","description":"","tags":[]}]}`,
		"missing title":     `{"items":[{"slug":"a","description":"","tags":[]}]}`,
		"missing desc":      `{"items":[{"slug":"a","title":"A","tags":[]}]}`,
		"missing tags":      `{"items":[{"slug":"a","title":"A","description":""}]}`,
		"null tags":         `{"items":[{"slug":"a","title":"A","description":"","tags":null}]}`,
		"title wrong type":  `{"items":[{"slug":"a","title":5,"description":"","tags":[]}]}`,
		"tags wrong type":   `{"items":[{"slug":"a","title":"A","description":"","tags":[1]}]}`,
		"parent wrong type": `{"items":[{"parent":1,"slug":"a","title":"A","description":"","tags":[]}]}`,
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := Decode([]byte(doc)); !errors.Is(err, ErrDecode) {
				t.Errorf("err = %v, want ErrDecode", err)
			}
		})
	}
}

func TestDecodeOptionalParent(t *testing.T) {
	m, err := Decode([]byte(`{"items":[
		{"slug":"b","title":"B","description":"","tags":[],"parent":"a"},
		{"slug":"a","title":"A","description":"","tags":["t"]}
	]}`))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	a, _ := m.BySlug("a")
	if !a.IsRoot() {
		t.Error("absent parent should decode as root")
	}
	if ok, _ := m.Exists("/A/B"); !ok {
		t.Error("expected /A/B to resolve")
	}
}

func TestLoadOrInitCreatesDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", FileName)
	m, err := LoadOrInit(path)
	if err != nil {
		t.Fatalf("LoadOrInit: %v", err)
	}
	if m.Len() != 0 {
		t.Errorf("len = %d, want 0", m.Len())
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("document not created: %v", err)
	}
	if got := strings.Join(strings.Fields(string(data)), ""); got != `{"items":[]}` {
		t.Errorf("document = %q", data)
	}
}

func TestLoadOrInitMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	if err := os.WriteFile(path, []byte("not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadOrInit(path); !errors.Is(err, ErrDecode) {
		t.Fatalf("err = %v, want ErrDecode", err)
	}
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	m := sample(t)
	if err := Save(path, m); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if Locked(path) {
		t.Error("lock left behind after Save")
	}
	got, err := LoadOrInit(path)
	if err != nil {
		t.Fatalf("LoadOrInit: %v", err)
	}
	if diff := cmp.Diff(m.Items(), got.Items()); diff != "" {
		t.Errorf("reloaded manifest mismatch (-want +got):\n%s", diff)
	}
}

func TestSaveFailsWhileLocked(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	if _, err := LoadOrInit(path); err != nil {
		t.Fatal(err)
	}
	if err := Lock(path); err != nil {
		t.Fatal(err)
	}
	if err := Save(path, sample(t)); !errors.Is(err, ErrLockHeld) {
		t.Fatalf("err = %v, want ErrLockHeld", err)
	}
	// Nothing was written and the foreign lock is untouched.
	got, err := LoadOrInit(path)
	if err != nil {
		t.Fatal(err)
	}
	if got.Len() != 0 {
		t.Errorf("len = %d, want 0", got.Len())
	}
	if !Locked(path) {
		t.Error("Save must not release a lock it did not take")
	}
}
