package main

import (
	"errors"
	"image"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/phanxgames/dispersion"
	"go.uber.org/zap"
)

func TestReadPNG_WrapsErrors(t *testing.T) {
	dir := t.TempDir()
	missing := filepath.Join(dir, "missing.png")
	_, err := readPNG(missing)
	if !errors.Is(err, fs.ErrNotExist) || !strings.Contains(err.Error(), missing) {
		t.Errorf("missing file: err = %v, want wrapped not-exist naming the path", err)
	}

	bad := filepath.Join(dir, "bad.png")
	if err := os.WriteFile(bad, []byte("not a png"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := readPNG(bad); err == nil || !strings.HasPrefix(err.Error(), "decode "+bad) {
		t.Errorf("bad file: err = %v, want decode error naming the path", err)
	}
}

func TestRunScript_WrapsErrors(t *testing.T) {
	dir := t.TempDir()
	e := dispersion.NewEmptyEffect(image.Rect(0, 0, 4, 4))
	canvas := dispersion.NewImageSurface(4, 4)
	l := zap.NewNop()

	err := runScript(l, filepath.Join(dir, "none.json"), dir, e, canvas, 0)
	if !errors.Is(err, fs.ErrNotExist) || !strings.HasPrefix(err.Error(), "read script:") {
		t.Errorf("missing script: err = %v", err)
	}

	path := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(path, []byte(`{"steps": []}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := runScript(l, path, dir, e, canvas, 0); err == nil || !strings.Contains(err.Error(), path) {
		t.Errorf("empty script: err = %v, want error naming %s", err, path)
	}

	ok := filepath.Join(dir, "ok.json")
	if err := os.WriteFile(ok, []byte(`{"steps": [{"action": "draw"}, {"action": "capture", "label": "x"}]}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := runScript(l, ok, dir, e, canvas, 2); err != nil {
		t.Fatalf("runScript: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "0001_x.png")); err != nil {
		t.Errorf("capture not written: %v", err)
	}
}
