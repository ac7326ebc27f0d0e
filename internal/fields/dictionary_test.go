package fields

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeDict(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fields.yaml")
	writeDict(t, path, "fields:\n  - name\n  - email\n  - phone\n")

	d, err := Load(path, nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	defer d.Close()

	got := d.Fields()
	if len(got) != 3 || got[0] != "name" || got[2] != "phone" {
		t.Errorf("fields: got %v", got)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), nil); err == nil {
		t.Fatal("expected error for missing dictionary")
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fields.yaml")
	writeDict(t, path, "fields: [")
	if _, err := Load(path, nil); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestFieldsReturnsCopy(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fields.yaml")
	writeDict(t, path, "fields: [name]\n")
	d, err := Load(path, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer d.Close()

	got := d.Fields()
	got[0] = "mutated"
	if d.Fields()[0] != "name" {
		t.Error("Fields() must return a copy")
	}
}

func TestWatchReloads(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "fields.yaml")
	writeDict(t, path, "fields: [name]\n")

	d, err := Load(path, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer d.Close()
	if err := d.Watch(); err != nil {
		t.Fatalf("Watch: %v", err)
	}

	writeDict(t, path, "fields: [name, email]\n")

	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if len(d.Fields()) == 2 {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatalf("dictionary not reloaded, fields: %v", d.Fields())
}
