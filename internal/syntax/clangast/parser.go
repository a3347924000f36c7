// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package clangast parses C/C++ sources by running clang and reading its
// JSON AST dump. Compiler arguments are passed through, so include paths,
// macros, and language options behave exactly as in a real build.
package clangast

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/petar-djukic/go-stubgen/internal/syntax"
	"github.com/petar-djukic/go-stubgen/internal/toolchain"
)

// DefaultClang is the executable used when none is configured.
const DefaultClang = "clang"

// dumpArgs precede the user's arguments on every invocation.
var dumpArgs = []string{"-fsyntax-only", "-fno-color-diagnostics", "-Xclang", "-ast-dump=json"}

// Config configures the clang backend.
type Config struct {
	Clang   string        // Executable name or path (default "clang")
	Timeout time.Duration // Upper bound for one parse (default 60s)
	WorkDir string        // Directory clang runs in (default: current)
}

// Parser implements syntax.Parser by running clang.
type Parser struct {
	cfg Config
	log *zap.Logger
}

// Verify interface compliance at compile time.
var _ syntax.Parser = (*Parser)(nil)

// New creates a clang-backed parser. A nil logger disables logging.
func New(cfg Config, log *zap.Logger) *Parser {
	if cfg.Clang == "" {
		cfg.Clang = DefaultClang
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = toolchain.DefaultTimeout
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Parser{cfg: cfg, log: log}
}

// Parse runs clang over args and converts the AST of the main file.
//
// Diagnostics are read from clang's standard error. When clang reports
// errors the unit is still returned so the caller can print them; a
// missing or unreadable AST with no diagnostics is a ParseError.
func (p *Parser) Parse(ctx context.Context, args []string) (syntax.Unit, error) {
	path, err := syntax.SourceFile(args)
	if err != nil {
		return nil, &syntax.ParseError{Code: syntax.CodeInvalidArgs, Err: err}
	}

	start := time.Now()
	cmdArgs := append(append([]string(nil), dumpArgs...), args...)
	out, err := toolchain.Run(ctx, p.cfg.WorkDir, p.cfg.Timeout, p.cfg.Clang, cmdArgs...)
	if err != nil {
		code := syntax.CodeFailure
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			code = syntax.CodeCrashed
		}
		return nil, &syntax.ParseError{Code: code, Err: err}
	}

	unit := &syntax.TranslationUnit{
		Path:  path,
		Diags: toolchain.ParseDiagnostics(out.Stderr),
	}

	if strings.TrimSpace(out.Stdout) == "" {
		if len(unit.Diags) == 0 {
			return nil, &syntax.ParseError{
				Code: syntax.CodeCrashed,
				Err:  fmt.Errorf("%s exited with status %d and produced no AST", p.cfg.Clang, out.ExitCode),
			}
		}
		return unit, nil
	}

	tree, err := Convert([]byte(out.Stdout), path)
	if err != nil {
		return nil, &syntax.ParseError{Code: syntax.CodeASTReadFailed, Err: err}
	}
	unit.Tree = tree

	p.log.Debug("clang parse finished",
		zap.String("clang", p.cfg.Clang),
		zap.String("file", path),
		zap.Int("exit_code", out.ExitCode),
		zap.Int("diagnostics", len(unit.Diags)),
		zap.Duration("elapsed", time.Since(start)))

	return unit, nil
}
