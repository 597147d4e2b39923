package testsupport

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFixture(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sample.txt")
	content := []byte("fixture content")

	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("write sample: %v", err)
	}

	got := Fixture(t, path)
	if string(got) != string(content) {
		t.Errorf("expected %q, got %q", content, got)
	}
}

func TestFixtureJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sample.json")
	if err := os.WriteFile(path, []byte(`{"name":"sanctions","count":3}`), 0o644); err != nil {
		t.Fatalf("write sample: %v", err)
	}

	var got struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}
	FixtureJSON(t, path, &got)

	if got.Name != "sanctions" || got.Count != 3 {
		t.Errorf("unexpected decode: %+v", got)
	}
}

func TestPath(t *testing.T) {
	if got, want := Path("seed.json"), filepath.Join("testdata", "seed.json"); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestTempFile(t *testing.T) {
	content := []byte("capacity: 500\n")
	path := TempFile(t, content)

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read temp file: %v", err)
	}
	if string(got) != string(content) {
		t.Errorf("expected %q, got %q", content, got)
	}
}
