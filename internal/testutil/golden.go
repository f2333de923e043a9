package testutil

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

// Golden compares rendered output against testdata/<name>.golden.
// Running the tests with AGENDA_UPDATE_GOLDEN set rewrites the file instead.
func Golden(t *testing.T, name string, got []byte) {
	t.Helper()

	path := filepath.Join("testdata", name+".golden")

	if os.Getenv("AGENDA_UPDATE_GOLDEN") != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatalf("create testdata dir: %v", err)
		}
		if err := os.WriteFile(path, got, 0644); err != nil {
			t.Fatalf("update golden file: %v", err)
		}
		return
	}

	want, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden file %s: %v\nGot:\n%s", path, err, got)
	}
	if !bytes.Equal(got, want) {
		t.Errorf("%s: output mismatch\nWant:\n%s\nGot:\n%s", name, want, got)
	}
}
