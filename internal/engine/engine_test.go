package engine

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ivlev/svg2apng/internal/config"
	"github.com/ivlev/svg2apng/internal/encoder"
	"github.com/ivlev/svg2apng/internal/report"
	"github.com/ivlev/svg2apng/internal/source"
)

// fakePage renders solid frames and fails on documents marked with "boom".
type fakePage struct {
	size      int
	loaded    int
	seeks     []float64
	failLoads int
}

func (f *fakePage) LoadDocument(markup string, size int) error {
	if strings.Contains(markup, "boom") {
		f.failLoads++
		return fmt.Errorf("render process crashed")
	}
	f.size = size
	f.loaded++
	return nil
}

func (f *fakePage) Seek(ms float64) error {
	f.seeks = append(f.seeks, ms)
	return nil
}

func (f *fakePage) Capture() ([]byte, error) {
	img := image.NewNRGBA(image.Rect(0, 0, f.size, f.size))
	img.SetNRGBA(0, 0, color.NRGBA{R: 255, A: 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func testConfig(dir string) *config.Config {
	cfg := config.Default()
	cfg.InputDir = dir
	cfg.Size = 8
	cfg.EncodeWorkers = 1
	return cfg
}

func TestRunConvertsBatchAndSurvivesFailures(t *testing.T) {
	dir := t.TempDir()

	good := `<svg><style>.a { animation: spin 100ms linear infinite; }</style></svg>`
	bad := `<svg>boom<style>.a { animation: spin 100ms linear infinite; }</style></svg>`
	os.WriteFile(filepath.Join(dir, "good-animated.svg"), []byte(good), 0644)
	os.WriteFile(filepath.Join(dir, "bad-animated.svg"), []byte(bad), 0644)

	src, err := source.NewDirSource(dir, "-animated")
	if err != nil {
		t.Fatal(err)
	}

	cfg := testConfig(dir)
	cfg.ManifestPath = filepath.Join(dir, "manifest.yaml")

	page := &fakePage{}
	project := NewProject(cfg, src, page, encoder.APNG{})

	if err := project.Run(); err != nil {
		t.Fatalf("Run must survive per-document failures, got %v", err)
	}

	// Exactly one artifact: the good document
	if _, err := os.Stat(filepath.Join(dir, "good.png")); err != nil {
		t.Errorf("Expected good.png artifact: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "bad.png")); err == nil {
		t.Error("Failed document must not produce an artifact")
	}
	if page.failLoads != 1 {
		t.Errorf("Expected 1 failed load, got %d", page.failLoads)
	}

	// cycle 100ms at 20 fps -> 2 frames, steady state starts at 100ms
	if len(page.seeks) != 2 {
		t.Fatalf("Expected 2 seeks, got %v", page.seeks)
	}
	if page.seeks[0] != 100 || page.seeks[1] != 150 {
		t.Errorf("Unexpected sample times: %v", page.seeks)
	}

	m, err := report.ReadManifest(cfg.ManifestPath)
	if err != nil {
		t.Fatalf("Manifest missing: %v", err)
	}
	if len(m.Icons) != 1 || m.Icons[0].Name != "good" {
		t.Fatalf("Unexpected manifest: %+v", m)
	}
	if m.Icons[0].CycleMS != 100 || m.Icons[0].FrameCount != 2 {
		t.Errorf("Unexpected manifest entry: %+v", m.Icons[0])
	}
}

func TestRunDefaultCycleWhenNoTimings(t *testing.T) {
	dir := t.TempDir()
	os.WriteFile(filepath.Join(dir, "static-animated.svg"), []byte("<svg><rect/></svg>"), 0644)

	src, err := source.NewDirSource(dir, "-animated")
	if err != nil {
		t.Fatal(err)
	}

	page := &fakePage{}
	project := NewProject(testConfig(dir), src, page, encoder.APNG{})
	if err := project.Run(); err != nil {
		t.Fatal(err)
	}

	// Default 2000ms cycle at 20 fps -> 40 frames starting at 2000ms
	if len(page.seeks) != 40 {
		t.Fatalf("Expected 40 seeks, got %d", len(page.seeks))
	}
	if page.seeks[0] != 2000 {
		t.Errorf("Expected sampling to start at 2000ms, got %f", page.seeks[0])
	}
}

func TestRunEmptyDirectory(t *testing.T) {
	dir := t.TempDir()
	src, err := source.NewDirSource(dir, "-animated")
	if err != nil {
		t.Fatal(err)
	}

	project := NewProject(testConfig(dir), src, &fakePage{}, encoder.APNG{})
	if err := project.Run(); err != nil {
		t.Fatalf("Empty directory must not be an error: %v", err)
	}
}

func TestRunOverwritesExistingArtifact(t *testing.T) {
	dir := t.TempDir()
	svg := `<svg><style>.a { animation: spin 100ms linear infinite; }</style></svg>`
	os.WriteFile(filepath.Join(dir, "coin-animated.svg"), []byte(svg), 0644)
	os.WriteFile(filepath.Join(dir, "coin.png"), []byte("stale"), 0644)

	src, err := source.NewDirSource(dir, "-animated")
	if err != nil {
		t.Fatal(err)
	}

	project := NewProject(testConfig(dir), src, &fakePage{}, encoder.APNG{})
	if err := project.Run(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "coin.png"))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(data, []byte("\x89PNG")) {
		t.Error("Existing artifact must be overwritten with a fresh PNG stream")
	}
}
