// Package testsupport carries the small helpers shared by package tests:
// fixture loading and temp files scoped to the test lifetime.
package testsupport

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

// Fixture reads a fixture file, failing the test on any error. Paths are
// relative to the test package directory.
func Fixture(t *testing.T, path string) []byte {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("load fixture %s: %v", path, err)
	}
	return data
}

// FixtureJSON reads a JSON fixture into dest.
func FixtureJSON(t *testing.T, path string, dest any) {
	t.Helper()

	if err := json.Unmarshal(Fixture(t, path), dest); err != nil {
		t.Fatalf("unmarshal fixture %s: %v", path, err)
	}
}

// Path returns the conventional location of a named fixture file.
func Path(name string) string {
	return filepath.Join("testdata", name)
}

// TempFile writes content to a file that is removed when the test finishes.
func TempFile(t *testing.T, content []byte) string {
	t.Helper()

	f, err := os.CreateTemp(t.TempDir(), "fixture-*")
	if err != nil {
		t.Fatalf("create temp file: %v", err)
	}
	if _, err := f.Write(content); err != nil {
		f.Close()
		t.Fatalf("write temp file: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("close temp file: %v", err)
	}
	return f.Name()
}
