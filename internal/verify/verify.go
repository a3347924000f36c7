// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package verify compiles a generated stub with the C++ compiler to prove
// it is well formed against the header it stubs.
package verify

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/petar-djukic/go-stubgen/internal/syntax"
	"github.com/petar-djukic/go-stubgen/internal/toolchain"
)

// DefaultCompiler compiles the stub when none is configured.
const DefaultCompiler = "c++"

// Result holds the outcome of compiling a stub.
type Result struct {
	OK     bool                // Compiler exited with status 0
	Errors []syntax.Diagnostic // Diagnostics at error severity or above
	Output string              // Raw compiler output (stderr)
}

// Config configures the compile check.
type Config struct {
	Compiler string        // Executable (default "c++")
	WorkDir  string        // Directory the stub's include path is relative to (default: current)
	Timeout  time.Duration // Upper bound for the compile (default 60s)
	Args     []string      // Compiler arguments of the original unit; the source file is removed
}

// Stub writes source to a temp file and compiles it with -fsyntax-only.
// The original unit's flags are reused so include paths and macros match.
// An error is returned only when the compiler could not be run.
func Stub(ctx context.Context, cfg Config, source []byte) (*Result, error) {
	if cfg.Compiler == "" {
		cfg.Compiler = DefaultCompiler
	}
	workDir := cfg.WorkDir
	if workDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("resolving working directory: %w", err)
		}
		workDir = wd
	}
	workDir, err := filepath.Abs(workDir)
	if err != nil {
		return nil, fmt.Errorf("resolving working directory: %w", err)
	}

	tmpDir, err := os.MkdirTemp("", "stubgen-verify-*")
	if err != nil {
		return nil, fmt.Errorf("creating temp dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	stubPath := filepath.Join(tmpDir, "stub.cpp")
	if err := os.WriteFile(stubPath, source, 0o644); err != nil {
		return nil, fmt.Errorf("writing stub: %w", err)
	}

	args := []string{"-fsyntax-only", "-iquote", workDir}
	args = append(args, syntax.WithoutSource(cfg.Args)...)
	args = append(args, "-x", "c++", stubPath)

	out, err := toolchain.Run(ctx, workDir, cfg.Timeout, cfg.Compiler, args...)
	if err != nil {
		return nil, err
	}

	result := &Result{OK: out.ExitCode == 0, Output: out.Stderr}
	for _, d := range toolchain.ParseDiagnostics(out.Stderr) {
		if d.IsError() {
			result.Errors = append(result.Errors, d)
		}
	}
	return result, nil
}
