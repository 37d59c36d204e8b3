package output

import (
	"strings"
	"testing"

	"shadowlint/internal/parser"
)

func TestTSVGenerate(t *testing.T) {
	gen := NewTSVGenerator()

	tsv, err := gen.Generate(sampleFindings())
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	lines := strings.Split(strings.TrimRight(tsv, "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("Expected header plus 2 rows, got %d lines", len(lines))
	}
	if lines[0] != "File\tLine\tColumn\tName\tKind\tSeverity\tMessage" {
		t.Errorf("Unexpected header: %q", lines[0])
	}

	fields := strings.Split(lines[1], "\t")
	if len(fields) != 7 {
		t.Fatalf("Expected 7 columns, got %d", len(fields))
	}
	if fields[0] != "/project/src/Counter.kt" || fields[3] != "count" || fields[4] != "parameter" {
		t.Errorf("Unexpected row: %q", lines[1])
	}
}

func TestTSVGenerateStructuralErrors(t *testing.T) {
	gen := NewTSVGenerator()

	tsv, err := gen.GenerateStructuralErrors([]parser.StructuralError{
		{
			Kind:     "missing",
			Snippet:  "a\tb",
			Location: parser.Location{File: "Broken.kt", Line: 1, Column: 2},
		},
	})
	if err != nil {
		t.Fatalf("GenerateStructuralErrors failed: %v", err)
	}

	lines := strings.Split(strings.TrimRight(tsv, "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("Expected header plus 1 row, got %d lines", len(lines))
	}
	fields := strings.Split(lines[1], "\t")
	if fields[0] != "structural_missing" {
		t.Errorf("Expected structural_missing type, got %q", fields[0])
	}
	// Tabs inside snippets must not add columns.
	if len(fields) != 5 {
		t.Errorf("Expected 5 columns, got %d: %q", len(fields), lines[1])
	}
}
