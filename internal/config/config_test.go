package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	content := `
paths = ["./src"]

[exclude]
dirs = [".git", "build"]
files = ["*.generated.kt"]

[rule]
allow_implicit_it_shadows = true
include_tests = true

[watch]
debounce = "1s"
max_rescans_per_second = 2.0

[output]
sarif = "report.sarif"
markdown = "report.md"
tsv = "findings.tsv"

[history]
path = "history.db"

[observability]
addr = ":9090"
otlp_endpoint = "localhost:4317"
`
	tmpfile, err := os.CreateTemp("", "config*.toml")
	if err != nil {
		t.Fatal(err)
	}
	defer os.Remove(tmpfile.Name())

	if _, err := tmpfile.Write([]byte(content)); err != nil {
		t.Fatal(err)
	}
	if err := tmpfile.Close(); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(tmpfile.Name())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if len(cfg.Paths) != 1 || cfg.Paths[0] != "./src" {
		t.Errorf("Unexpected Paths: %v", cfg.Paths)
	}
	if !cfg.Rule.AllowImplicitItShadows {
		t.Error("Expected AllowImplicitItShadows to be true")
	}
	if !cfg.Rule.IncludeTests {
		t.Error("Expected IncludeTests to be true")
	}
	if cfg.Watch.Debounce != time.Second {
		t.Errorf("Expected debounce 1s, got %v", cfg.Watch.Debounce)
	}
	if cfg.Watch.MaxRescansPerSecond != 2.0 {
		t.Errorf("Expected max rescans 2.0, got %v", cfg.Watch.MaxRescansPerSecond)
	}
	if cfg.Output.SARIF != "report.sarif" {
		t.Errorf("Expected SARIF report.sarif, got %s", cfg.Output.SARIF)
	}
	if cfg.History.Path != "history.db" {
		t.Errorf("Expected history path history.db, got %s", cfg.History.Path)
	}
	if cfg.Observability.OTLPEndpoint != "localhost:4317" {
		t.Errorf("Expected OTLP endpoint localhost:4317, got %s", cfg.Observability.OTLPEndpoint)
	}
}

func TestLoad_Defaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "minimal.toml")
	if err := os.WriteFile(path, []byte(""), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if len(cfg.Paths) != 1 || cfg.Paths[0] != "." {
		t.Errorf("Expected default paths [.], got %v", cfg.Paths)
	}
	if cfg.Watch.Debounce != 500*time.Millisecond {
		t.Errorf("Expected default debounce 500ms, got %v", cfg.Watch.Debounce)
	}
	if cfg.Watch.MaxRescansPerSecond != 4 {
		t.Errorf("Expected default max rescans 4, got %v", cfg.Watch.MaxRescansPerSecond)
	}
	if len(cfg.Exclude.Dirs) == 0 {
		t.Error("Expected default exclude dirs")
	}
	if cfg.Rule.AllowImplicitItShadows {
		t.Error("Expected AllowImplicitItShadows to default to false")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err == nil {
		t.Error("Expected error for missing config file")
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if len(cfg.Paths) != 1 || cfg.Paths[0] != "." {
		t.Errorf("Expected default paths [.], got %v", cfg.Paths)
	}
	if cfg.Watch.Debounce == 0 {
		t.Error("Expected non-zero default debounce")
	}
}
