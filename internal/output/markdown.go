package output

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"shadowlint/internal/parser"
	"shadowlint/internal/shadow"
)

type MarkdownReportData struct {
	FilesScanned int

	Findings         []shadow.Finding
	StructuralErrors []parser.StructuralError
}

type MarkdownReportOptions struct {
	ProjectName string
	Version     string
	GeneratedAt time.Time
}

type MarkdownGenerator struct{}

func NewMarkdownGenerator() *MarkdownGenerator {
	return &MarkdownGenerator{}
}

func (m *MarkdownGenerator) Generate(data MarkdownReportData, opts MarkdownReportOptions) (string, error) {
	if opts.GeneratedAt.IsZero() {
		opts.GeneratedAt = time.Now().UTC()
	}

	var b strings.Builder
	b.WriteString("---\n")
	b.WriteString("title: Name Shadowing Report\n")
	b.WriteString("project: " + nonEmpty(opts.ProjectName, "unknown") + "\n")
	b.WriteString("generated_at: " + opts.GeneratedAt.UTC().Format(time.RFC3339) + "\n")
	b.WriteString("version: " + nonEmpty(opts.Version, "unknown") + "\n")
	b.WriteString("---\n\n")

	b.WriteString("# Name Shadowing Report\n\n")
	b.WriteString("## Summary\n\n")
	b.WriteString(fmt.Sprintf("- Files scanned: %d\n", data.FilesScanned))
	b.WriteString(fmt.Sprintf("- Shadowed names: %d\n", len(data.Findings)))
	b.WriteString(fmt.Sprintf("- Structural errors: %d\n\n", len(data.StructuralErrors)))

	if len(data.Findings) == 0 {
		b.WriteString("No shadowed names detected.\n")
	} else {
		b.WriteString("## Findings\n\n")
		for _, file := range findingFiles(data.Findings) {
			b.WriteString("### `" + file + "`\n\n")
			b.WriteString("| Line | Column | Name | Kind |\n")
			b.WriteString("|------|--------|------|------|\n")
			for _, f := range data.Findings {
				if f.Location.File != file {
					continue
				}
				b.WriteString(fmt.Sprintf("| %d | %d | `%s` | %s |\n",
					f.Location.Line, f.Location.Column, f.Name, f.Kind))
			}
			b.WriteString("\n")
		}
	}

	if len(data.StructuralErrors) > 0 {
		b.WriteString("## Structural Errors\n\n")
		for _, e := range data.StructuralErrors {
			b.WriteString(fmt.Sprintf("- `%s:%d:%d` %s near `%s`\n",
				e.Location.File, e.Location.Line, e.Location.Column, e.Kind, e.Snippet))
		}
		b.WriteString("\n")
	}

	return b.String(), nil
}

func findingFiles(findings []shadow.Finding) []string {
	seen := make(map[string]bool)
	files := make([]string, 0)
	for _, f := range findings {
		if !seen[f.Location.File] {
			seen[f.Location.File] = true
			files = append(files, f.Location.File)
		}
	}
	sort.Strings(files)
	return files
}

func nonEmpty(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
