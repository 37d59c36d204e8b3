package output

import (
	"encoding/json"
	"path/filepath"
	"strings"

	"shadowlint/internal/parser"
	"shadowlint/internal/shadow"
)

// SARIF v2.1.0 schema – see https://schemastore.azurewebsites.net/schemas/json/sarif-2.1.0-rtm.5.json

const (
	sarifSchema  = "https://schemastore.azurewebsites.net/schemas/json/sarif-2.1.0-rtm.5.json"
	sarifVersion = "2.1.0"

	ruleIDShadowedName    = shadow.RuleID
	ruleIDStructuralError = "SHDW900"
)

// sarifReport is the top-level SARIF document.
type sarifReport struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool    sarifTool     `json:"tool"`
	Results []sarifResult `json:"results"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name    string      `json:"name"`
	Version string      `json:"version"`
	Rules   []sarifRule `json:"rules"`
}

type sarifRule struct {
	ID               string                 `json:"id"`
	Name             string                 `json:"name"`
	ShortDescription sarifMessage           `json:"shortDescription"`
	DefaultConfig    sarifRuleDefaultConfig `json:"defaultConfiguration"`
}

type sarifRuleDefaultConfig struct {
	Level string `json:"level"`
}

type sarifResult struct {
	RuleID    string          `json:"ruleId"`
	Level     string          `json:"level"`
	Message   sarifMessage    `json:"message"`
	Locations []sarifLocation `json:"locations,omitempty"`
}

type sarifMessage struct {
	Text string `json:"text"`
}

type sarifLocation struct {
	PhysicalLocation sarifPhysicalLocation `json:"physicalLocation"`
}

type sarifPhysicalLocation struct {
	ArtifactLocation sarifArtifactLocation `json:"artifactLocation"`
	Region           *sarifRegion          `json:"region,omitempty"`
}

type sarifArtifactLocation struct {
	URI       string `json:"uri"`
	URIBaseID string `json:"uriBaseId"`
}

type sarifRegion struct {
	StartLine   int `json:"startLine,omitempty"`
	StartColumn int `json:"startColumn,omitempty"`
}

// GenerateSARIF builds a SARIF v2.1.0 document from findings and
// structural errors. All file URIs are made relative to projectRoot;
// absolute paths are never included so that reports are safe to share.
func GenerateSARIF(projectRoot, toolVersion string, findings []shadow.Finding, errs []parser.StructuralError) ([]byte, error) {
	results := make([]sarifResult, 0, len(findings)+len(errs))

	for _, f := range findings {
		results = append(results, sarifResult{
			RuleID:    ruleIDShadowedName,
			Level:     "warning",
			Message:   sarifMessage{Text: "Shadowed name '" + f.Name + "' (" + f.Kind.String() + "): " + f.Message},
			Locations: []sarifLocation{fileLocation(projectRoot, f.Location)},
		})
	}

	for _, e := range errs {
		results = append(results, sarifResult{
			RuleID:    ruleIDStructuralError,
			Level:     "note",
			Message:   sarifMessage{Text: "Structural " + e.Kind + " in syntax tree near: " + e.Snippet},
			Locations: []sarifLocation{fileLocation(projectRoot, e.Location)},
		})
	}

	report := sarifReport{
		Schema:  sarifSchema,
		Version: sarifVersion,
		Runs: []sarifRun{{
			Tool: sarifTool{Driver: sarifDriver{
				Name:    "shadowlint",
				Version: toolVersion,
				Rules: []sarifRule{
					{
						ID:               ruleIDShadowedName,
						Name:             "ShadowedName",
						ShortDescription: sarifMessage{Text: "Bindings must use names that are unique within their lexical scope and the scopes enclosing it."},
						DefaultConfig:    sarifRuleDefaultConfig{Level: "warning"},
					},
					{
						ID:               ruleIDStructuralError,
						Name:             "StructuralError",
						ShortDescription: sarifMessage{Text: "The syntax tree contained an unparsable region; analysis continued best-effort."},
						DefaultConfig:    sarifRuleDefaultConfig{Level: "note"},
					},
				},
			}},
			Results: results,
		}},
	}

	return json.MarshalIndent(report, "", "  ")
}

func fileLocation(projectRoot string, loc parser.Location) sarifLocation {
	return sarifLocation{
		PhysicalLocation: sarifPhysicalLocation{
			ArtifactLocation: sarifArtifactLocation{
				URI:       relativeURI(projectRoot, loc.File),
				URIBaseID: "SRCROOT",
			},
			Region: &sarifRegion{
				StartLine:   loc.Line,
				StartColumn: loc.Column,
			},
		},
	}
}

func relativeURI(projectRoot, path string) string {
	if projectRoot != "" {
		if rel, err := filepath.Rel(projectRoot, path); err == nil && !strings.HasPrefix(rel, "..") {
			path = rel
		}
	}
	return filepath.ToSlash(path)
}
