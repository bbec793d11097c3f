package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "engine.toml")
	body := "max_import_depth = 32\nallow_http = true\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	opts, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if opts.MaxImportDepth != 32 {
		t.Errorf("MaxImportDepth = %d, want 32", opts.MaxImportDepth)
	}
	if !opts.AllowHTTP {
		t.Error("AllowHTTP = false, want true")
	}
	if opts.QuirksMode {
		t.Error("QuirksMode should keep its Default() value of false when absent from the file")
	}
}

func TestLoadMissingFileErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Error("expected an error loading a nonexistent config file")
	}
}

func TestDefaultMatchesResourceCeiling(t *testing.T) {
	if Default().MaxImportDepth != 256 {
		t.Errorf("Default().MaxImportDepth = %d, want 256 to match resource.MaxImportDepth", Default().MaxImportDepth)
	}
}
