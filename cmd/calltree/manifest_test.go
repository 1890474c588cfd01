package main

import (
	"os"
	"path/filepath"
	"testing"

	"calltree/internal/layout"
)

func writeManifest(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "calltree.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write manifest: %v", err)
	}
	return path
}

func TestLoadProjectManifest(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, `
[package]
name = "demo"

[run]
main = "fib.ct"
call = "fib(3)"

[layout]
h = 3.0
skew = 0.5
`)

	manifest, ok, err := loadProjectManifest(dir)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if !ok {
		t.Fatal("manifest not found")
	}
	if manifest.Config.Package.Name != "demo" {
		t.Errorf("package name = %q", manifest.Config.Package.Name)
	}
	if manifest.Config.Run.Main != "fib.ct" || manifest.Config.Run.Call != "fib(3)" {
		t.Errorf("run section = %+v", manifest.Config.Run)
	}

	// Unset layout fields inherit engine defaults.
	sp := layout.New(manifest.Config.Layout.spacing()).Spacing()
	if sp.H != 3.0 || sp.Skew != 0.5 {
		t.Errorf("explicit spacing lost: %+v", sp)
	}
	if sp.V != layout.DefaultSpacing.V || sp.Z != layout.DefaultSpacing.Z {
		t.Errorf("defaults not applied: %+v", sp)
	}
}

func TestLoadProjectManifest_FoundInParent(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, "[run]\nmain = \"x.ct\"\ncall = \"f()\"\n")
	nested := filepath.Join(dir, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("mkdir failed: %v", err)
	}

	manifest, ok, err := loadProjectManifest(nested)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if !ok {
		t.Fatal("upward search did not find manifest")
	}
	if manifest.Root != dir {
		t.Errorf("manifest root = %q, want %q", manifest.Root, dir)
	}
}

func TestLoadProjectManifest_Malformed(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, "[run\nbroken")

	_, ok, err := loadProjectManifest(dir)
	if err == nil {
		t.Fatal("expected parse error")
	}
	if !ok {
		t.Error("malformed manifest should still report found")
	}
}
