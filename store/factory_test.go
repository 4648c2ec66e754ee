package store

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewStoreFactory_MemoryAndFile(t *testing.T) {
	for _, kind := range []string{"memory", "mem"} {
		st, err := NewStore(kind, "")
		if err != nil {
			t.Fatalf("NewStore %s failed: %v", kind, err)
		}
		if _, ok := st.(*InMemoryStore); !ok {
			t.Fatalf("expected *InMemoryStore for %s, got %T", kind, st)
		}
	}

	path := filepath.Join(t.TempDir(), "factory_store.json")
	st, err := NewStore("file", path)
	if err != nil {
		t.Fatalf("NewStore file failed: %v", err)
	}
	fs, ok := st.(*FileStore)
	if !ok {
		t.Fatalf("expected *FileStore, got %T", st)
	}
	if fs.Path() != path {
		t.Fatalf("unexpected path %s", fs.Path())
	}
}

func TestNewStoreFactory_Errors(t *testing.T) {
	if _, err := NewStore("file", ""); err == nil {
		t.Fatal("expected error when file path is missing")
	}
	if _, err := NewStore("postgres", "x"); err == nil {
		t.Fatal("expected error for unknown kind")
	}
}

func TestNewStoreFactory_FileFormatByExtension(t *testing.T) {
	dir := t.TempDir()
	for name, marker := range map[string]string{
		"snap.json": `"products"`,
		"snap.yaml": "products:",
		"snap.yml":  "products:",
	} {
		path := filepath.Join(dir, name)
		st, err := NewStore("file", path)
		if err != nil {
			t.Fatalf("NewStore %s failed: %v", name, err)
		}
		if err := st.Save(context.Background(), sampleSnapshot()); err != nil {
			t.Fatalf("save %s: %v", name, err)
		}
		b, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("read %s: %v", name, err)
		}
		if !strings.Contains(string(b), marker) {
			t.Fatalf("%s: expected %q in %s", name, marker, b)
		}
	}
}
