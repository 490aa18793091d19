package report

import (
	"path/filepath"
	"testing"
)

func TestWriteReadManifest(t *testing.T) {
	path := filepath.Join(t.TempDir(), "manifest.yaml")

	m := &Manifest{
		Version: "1.0",
		Icons: []Icon{
			{Name: "sword", Input: "sword-animated.svg", Output: "sword.png", CycleMS: 3000, FrameCount: 60},
			{Name: "orbit", Input: "orbit-animated.svg", Output: "orbit.png", CycleMS: 10000, FrameCount: 200, Capped: true},
		},
	}

	if err := WriteManifest(m, path); err != nil {
		t.Fatalf("WriteManifest failed: %v", err)
	}

	got, err := ReadManifest(path)
	if err != nil {
		t.Fatalf("ReadManifest failed: %v", err)
	}

	if got.Version != m.Version || len(got.Icons) != len(m.Icons) {
		t.Fatalf("Round trip mismatch: %+v", got)
	}
	for i := range m.Icons {
		if got.Icons[i] != m.Icons[i] {
			t.Errorf("Icon %d: expected %+v, got %+v", i, m.Icons[i], got.Icons[i])
		}
	}
}

func TestReadManifestMissing(t *testing.T) {
	if _, err := ReadManifest(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("Expected an error for a missing manifest")
	}
}
