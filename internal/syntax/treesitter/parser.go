// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package treesitter parses C/C++ sources in process with the tree-sitter
// C++ grammar. It does not run a preprocessor, so every node belongs to the
// main file and included headers are never read.
package treesitter

import (
	"context"
	"fmt"
	"os"
	"time"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/cpp"
	"go.uber.org/zap"

	"github.com/petar-djukic/go-stubgen/internal/syntax"
)

// Parser implements syntax.Parser on top of tree-sitter.
type Parser struct {
	log *zap.Logger
}

// Verify interface compliance at compile time.
var _ syntax.Parser = (*Parser)(nil)

// New creates a tree-sitter backed parser. A nil logger disables logging.
func New(log *zap.Logger) *Parser {
	if log == nil {
		log = zap.NewNop()
	}
	return &Parser{log: log}
}

// Parse reads the source file named in args and parses it. Other compiler
// arguments are accepted but have no effect.
func (p *Parser) Parse(ctx context.Context, args []string) (syntax.Unit, error) {
	path, err := syntax.SourceFile(args)
	if err != nil {
		return nil, &syntax.ParseError{Code: syntax.CodeInvalidArgs, Err: err}
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, &syntax.ParseError{Code: syntax.CodeFailure, Err: fmt.Errorf("reading %s: %w", path, err)}
	}

	return p.ParseSource(ctx, path, content)
}

// ParseSource parses content as the file at path.
func (p *Parser) ParseSource(ctx context.Context, path string, content []byte) (*syntax.TranslationUnit, error) {
	start := time.Now()

	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(cpp.GetLanguage())

	tree, err := parser.ParseCtx(ctx, nil, content)
	if err != nil {
		return nil, &syntax.ParseError{Code: syntax.CodeCrashed, Err: err}
	}
	if tree == nil {
		return nil, &syntax.ParseError{Code: syntax.CodeCrashed}
	}
	defer tree.Close()

	root := tree.RootNode()
	conv := &converter{src: content}
	unit := &syntax.TranslationUnit{
		Path:  path,
		Diags: diagnostics(path, root),
		Tree:  &syntax.Cursor{MainFile: true, Inner: conv.children(root)},
	}

	p.log.Debug("tree-sitter parse finished",
		zap.String("file", path),
		zap.Int("diagnostics", len(unit.Diags)),
		zap.Duration("elapsed", time.Since(start)))

	return unit, nil
}

// diagnostics reports ERROR and MISSING nodes as error-severity
// diagnostics in source order.
func diagnostics(path string, root *sitter.Node) []syntax.Diagnostic {
	if root == nil || !root.HasError() {
		return nil
	}

	var diags []syntax.Diagnostic
	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		pos := n.StartPoint()
		switch {
		case n.Type() == "ERROR":
			diags = append(diags, syntax.Diagnostic{
				Severity: syntax.SeverityError,
				Message:  "syntax error",
				File:     path,
				Line:     int(pos.Row) + 1,
				Column:   int(pos.Column) + 1,
			})
			return
		case n.IsMissing():
			diags = append(diags, syntax.Diagnostic{
				Severity: syntax.SeverityError,
				Message:  fmt.Sprintf("expected '%s'", n.Type()),
				File:     path,
				Line:     int(pos.Row) + 1,
				Column:   int(pos.Column) + 1,
			})
		}
		if !n.HasError() {
			return
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			walk(n.Child(i))
		}
	}
	walk(root)

	return diags
}
