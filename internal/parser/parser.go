package parser

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"unicode/utf8"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/kotlin"
)

const (
	// DefaultMaxFileSize is the maximum file size the parser will accept.
	DefaultMaxFileSize = 10 * 1024 * 1024

	warnFileSize = 1 * 1024 * 1024
)

var (
	ErrFileTooLarge        = errors.New("file exceeds maximum size limit")
	ErrInvalidContent      = errors.New("content is not valid UTF-8")
	ErrUnsupportedLanguage = errors.New("unsupported language")
)

// Parser parses Kotlin source into tree-sitter syntax trees. It is safe
// for concurrent use: each ParseFile call creates its own tree-sitter
// parser instance.
type Parser struct {
	maxFileSize int64
	language    *sitter.Language
}

// ParseResult owns one parsed source unit. Close must be called once the
// tree is no longer needed.
type ParseResult struct {
	Path   string
	Source []byte
	Root   *sitter.Node

	tree *sitter.Tree
}

func (r *ParseResult) Close() {
	if r != nil && r.tree != nil {
		r.tree.Close()
		r.tree = nil
	}
}

func NewParser() *Parser {
	return &Parser{
		maxFileSize: DefaultMaxFileSize,
		language:    kotlin.GetLanguage(),
	}
}

// IsSupportedPath reports whether the path looks like a Kotlin source file.
func (p *Parser) IsSupportedPath(path string) bool {
	switch filepath.Ext(path) {
	case ".kt", ".kts":
		return true
	}
	return false
}

// IsTestFile applies the common Kotlin test naming conventions.
func (p *Parser) IsTestFile(path string) bool {
	base := filepath.Base(path)
	return strings.HasSuffix(base, "Test.kt") || strings.HasSuffix(base, "Tests.kt")
}

// ParseFile parses one Kotlin source unit. Parsing is error tolerant: a
// tree is returned even for syntactically invalid input, with ERROR nodes
// left in place for the analysis to record as structural errors.
func (p *Parser) ParseFile(ctx context.Context, path string, content []byte) (*ParseResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("parse canceled before start: %w", err)
	}
	if !p.IsSupportedPath(path) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedLanguage, path)
	}
	if int64(len(content)) > p.maxFileSize {
		return nil, fmt.Errorf("%w: size %d exceeds limit %d", ErrFileTooLarge, len(content), p.maxFileSize)
	}
	if len(content) > warnFileSize {
		slog.Warn("parsing large file", "path", path, "size_bytes", len(content))
	}
	if !utf8.Valid(content) {
		return nil, ErrInvalidContent
	}

	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(p.language)

	tree, err := parser.ParseCtx(ctx, nil, content)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if tree == nil {
		return nil, fmt.Errorf("parse %s: no tree produced", path)
	}

	return &ParseResult{
		Path:   path,
		Source: content,
		Root:   tree.RootNode(),
		tree:   tree,
	}, nil
}

// IsGeneratedFile checks the first lines of content for generated-code
// markers so tool output is not linted.
func IsGeneratedFile(content []byte) bool {
	head := content
	if len(head) > 512 {
		head = head[:512]
	}
	for _, line := range bytes.Split(head, []byte("\n")) {
		trimmed := bytes.TrimSpace(line)
		if !bytes.HasPrefix(trimmed, []byte("//")) {
			break
		}
		lower := bytes.ToLower(trimmed)
		if bytes.Contains(lower, []byte("generated by")) || bytes.Contains(lower, []byte("do not edit")) {
			return true
		}
	}
	return false
}
