package output

import (
	"fmt"
	"strings"

	"shadowlint/internal/parser"
	"shadowlint/internal/shadow"
)

type TSVGenerator struct{}

func NewTSVGenerator() *TSVGenerator {
	return &TSVGenerator{}
}

func (t *TSVGenerator) Generate(findings []shadow.Finding) (string, error) {
	var buf strings.Builder

	buf.WriteString("File\tLine\tColumn\tName\tKind\tSeverity\tMessage\n")
	for _, f := range findings {
		buf.WriteString(fmt.Sprintf("%s\t%d\t%d\t%s\t%s\t%s\t%s\n",
			f.Location.File,
			f.Location.Line,
			f.Location.Column,
			f.Name,
			f.Kind,
			f.Severity,
			f.Message,
		))
	}

	return buf.String(), nil
}

func (t *TSVGenerator) GenerateStructuralErrors(errs []parser.StructuralError) (string, error) {
	var buf strings.Builder

	buf.WriteString("Type\tFile\tLine\tColumn\tSnippet\n")
	for _, e := range errs {
		buf.WriteString(fmt.Sprintf("structural_%s\t%s\t%d\t%d\t%s\n",
			e.Kind,
			e.Location.File,
			e.Location.Line,
			e.Location.Column,
			strings.ReplaceAll(e.Snippet, "\t", " "),
		))
	}

	return buf.String(), nil
}
