package cmd

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"pngfit/internal/processor"
)

func writePNG(t *testing.T, path string, w, h int) []byte {
	t.Helper()

	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewGray(image.Rect(0, 0, w, h))); err != nil {
		t.Fatalf("encode: %v", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return buf.Bytes()
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append(args, "--no-progress"))
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestDryRunLeavesFilesAlone(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "wide.png")
	original := writePNG(t, path, 300, 100)

	out, err := execute(t, "-d", dir, "-m", "64", "--dry-run")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !strings.Contains(out, "wide.png") || !strings.Contains(out, "DRY RUN") {
		t.Fatalf("unexpected output:\n%s", out)
	}

	after, _ := os.ReadFile(path)
	if !bytes.Equal(after, original) {
		t.Fatalf("dry run modified the file")
	}
	if cfg.MaxEdge != 64 || !cfg.DryRun {
		t.Fatalf("flags not applied: %+v", cfg)
	}
}

func TestEmptyDirectorySucceeds(t *testing.T) {
	out, err := execute(t, "-d", t.TempDir())
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !strings.Contains(out, "No PNG files found") {
		t.Fatalf("unexpected output:\n%s", out)
	}
}

func TestMissingDirectoryFails(t *testing.T) {
	_, err := execute(t, "-d", filepath.Join(t.TempDir(), "absent"))
	if !errors.Is(err, processor.ErrDirectoryNotFound) {
		t.Fatalf("expected ErrDirectoryNotFound, got %v", err)
	}
}

func TestScanListsOversizedFiles(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "big.png"), 200, 100)
	writePNG(t, filepath.Join(dir, "tiny.png"), 10, 10)

	out, err := execute(t, "scan", "-d", dir, "-m", "64")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	for _, want := range []string{"Needs resizing (1)", "big.png", "200×100 → 64×32", "Already optimal (1)", "tiny.png"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestConfigFileAndEnvPrecedence(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "a.png"), 10, 10)

	configFile := filepath.Join(t.TempDir(), "pngfit.yaml")
	if err := os.WriteFile(configFile, []byte("max_edge: 500\nworkers: 3\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PNGFIT_WORKERS", "5")

	if _, err := execute(t, "scan", "-d", dir, "--config", configFile); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if cfg.Workers != 5 {
		t.Errorf("env should override config file: workers = %d", cfg.Workers)
	}
}
