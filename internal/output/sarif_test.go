package output

import (
	"encoding/json"
	"strings"
	"testing"

	"shadowlint/internal/parser"
	"shadowlint/internal/shadow"
)

func sampleFindings() []shadow.Finding {
	return []shadow.Finding{
		{
			Name:     "count",
			Kind:     shadow.KindParameter,
			Message:  "name is already bound in this or an enclosing lexical scope; bindings must use unique names",
			Severity: "warning",
			Location: parser.Location{File: "/project/src/Counter.kt", Line: 5, Column: 18},
		},
		{
			Name:     "it",
			Kind:     shadow.KindParameter,
			Message:  "name is already bound in this or an enclosing lexical scope; bindings must use unique names",
			Severity: "warning",
			Location: parser.Location{File: "/project/src/Mapper.kt", Line: 12, Column: 9},
		},
	}
}

func sampleErrors() []parser.StructuralError {
	return []parser.StructuralError{
		{
			Kind:     "error",
			Snippet:  "fun broken( {",
			Location: parser.Location{File: "/project/src/Broken.kt", Line: 2, Column: 1},
		},
	}
}

func TestGenerateSARIF(t *testing.T) {
	data, err := GenerateSARIF("/project", "1.0.0", sampleFindings(), sampleErrors())
	if err != nil {
		t.Fatalf("GenerateSARIF failed: %v", err)
	}

	var report sarifReport
	if err := json.Unmarshal(data, &report); err != nil {
		t.Fatalf("Generated SARIF is not valid JSON: %v", err)
	}

	if report.Version != "2.1.0" {
		t.Errorf("Expected SARIF version 2.1.0, got %s", report.Version)
	}
	if len(report.Runs) != 1 {
		t.Fatalf("Expected 1 run, got %d", len(report.Runs))
	}

	run := report.Runs[0]
	if run.Tool.Driver.Name != "shadowlint" {
		t.Errorf("Expected driver shadowlint, got %s", run.Tool.Driver.Name)
	}
	if len(run.Tool.Driver.Rules) != 2 {
		t.Errorf("Expected 2 rule definitions, got %d", len(run.Tool.Driver.Rules))
	}
	if len(run.Results) != 3 {
		t.Fatalf("Expected 3 results, got %d", len(run.Results))
	}

	first := run.Results[0]
	if first.RuleID != shadow.RuleID {
		t.Errorf("Expected rule %s, got %s", shadow.RuleID, first.RuleID)
	}
	if first.Level != "warning" {
		t.Errorf("Expected warning level, got %s", first.Level)
	}
	uri := first.Locations[0].PhysicalLocation.ArtifactLocation.URI
	if uri != "src/Counter.kt" {
		t.Errorf("Expected project-relative URI, got %s", uri)
	}
	if first.Locations[0].PhysicalLocation.Region.StartLine != 5 {
		t.Errorf("Expected start line 5, got %d", first.Locations[0].PhysicalLocation.Region.StartLine)
	}

	last := run.Results[2]
	if last.RuleID != "SHDW900" {
		t.Errorf("Expected structural error rule, got %s", last.RuleID)
	}
	if last.Level != "note" {
		t.Errorf("Expected note level, got %s", last.Level)
	}
}

func TestGenerateSARIF_Empty(t *testing.T) {
	data, err := GenerateSARIF("/project", "1.0.0", nil, nil)
	if err != nil {
		t.Fatalf("GenerateSARIF failed: %v", err)
	}

	var report sarifReport
	if err := json.Unmarshal(data, &report); err != nil {
		t.Fatalf("Generated SARIF is not valid JSON: %v", err)
	}
	if len(report.Runs[0].Results) != 0 {
		t.Errorf("Expected no results, got %d", len(report.Runs[0].Results))
	}
}

func TestRelativeURI(t *testing.T) {
	if got := relativeURI("/project", "/project/src/A.kt"); got != "src/A.kt" {
		t.Errorf("Expected src/A.kt, got %s", got)
	}
	// Paths outside the project root are passed through untouched.
	if got := relativeURI("/project", "/elsewhere/B.kt"); !strings.Contains(got, "elsewhere") {
		t.Errorf("Expected outside path to be preserved, got %s", got)
	}
	if got := relativeURI("", "src/C.kt"); got != "src/C.kt" {
		t.Errorf("Expected unchanged path with empty root, got %s", got)
	}
}
