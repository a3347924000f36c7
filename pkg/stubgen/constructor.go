// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package stubgen

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/petar-djukic/go-stubgen/internal/pipeline"
	"github.com/petar-djukic/go-stubgen/internal/syntax"
	"github.com/petar-djukic/go-stubgen/internal/syntax/clangast"
	"github.com/petar-djukic/go-stubgen/internal/syntax/treesitter"
	"github.com/petar-djukic/go-stubgen/internal/toolchain"
	"github.com/petar-djukic/go-stubgen/internal/verify"
)

// lookPath is replaced in tests.
var lookPath = exec.LookPath

// New validates the config, picks a parser backend, and returns a
// ready-to-use Generator. Nothing is parsed until Generate.
func New(cfg Config) (Generator, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	applyDefaults(&cfg)

	backend := resolveBackend(cfg)
	var parser syntax.Parser
	switch backend {
	case BackendClang:
		parser = clangast.New(clangast.Config{Clang: cfg.Clang, Timeout: cfg.Timeout}, cfg.Logger)
	default:
		parser = treesitter.New(cfg.Logger)
	}
	cfg.Logger.Debug("parser backend selected", zap.String("backend", backend))

	runner := pipeline.NewRunner(pipeline.Deps{
		Parser:      parser,
		Diagnostics: cfg.Diagnostics,
		Logger:      cfg.Logger,
		StubName:    cfg.StubName,
		IncludePath: cfg.IncludePath,
	})

	return &generatorAdapter{runner: runner, backend: backend}, nil
}

// generatorAdapter adapts internal/pipeline.Runner to the public Generator
// interface.
type generatorAdapter struct {
	runner  *pipeline.Runner
	backend string
}

func (a *generatorAdapter) Generate(ctx context.Context, args []string) (*Result, error) {
	ir, err := a.runner.Run(ctx, args)
	if ir == nil {
		return &Result{Backend: a.backend}, err
	}
	return &Result{
		Source:       ir.Source,
		StubName:     ir.StubName,
		IncludePath:  ir.IncludePath,
		Declarations: ir.Collection.Declarations,
		Namespaces:   ir.Collection.Namespaces,
		Diagnostics:  ir.Diagnostics,
		Backend:      a.backend,
	}, err
}

// validateConfig checks field values.
func validateConfig(cfg Config) error {
	switch cfg.Backend {
	case "", BackendAuto, BackendClang, BackendTreeSitter:
	default:
		return fmt.Errorf("Backend %q is not one of %s", cfg.Backend,
			strings.Join([]string{BackendAuto, BackendClang, BackendTreeSitter}, ", "))
	}
	if cfg.Timeout < 0 {
		return fmt.Errorf("Timeout must not be negative, got %s", cfg.Timeout)
	}
	return nil
}

// applyDefaults fills in zero-value fields with their defaults.
func applyDefaults(cfg *Config) {
	if cfg.Backend == "" {
		cfg.Backend = BackendAuto
	}
	if cfg.Clang == "" {
		cfg.Clang = clangast.DefaultClang
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = toolchain.DefaultTimeout
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
}

// resolveBackend turns auto into clang when the clang executable is on
// PATH and into treesitter otherwise.
func resolveBackend(cfg Config) string {
	if cfg.Backend != BackendAuto {
		return cfg.Backend
	}
	if _, err := lookPath(cfg.Clang); err == nil {
		return BackendClang
	}
	return BackendTreeSitter
}

// VerifyConfig configures Verify.
type VerifyConfig struct {
	Compiler string        // C++ compiler (default "c++")
	WorkDir  string        // Directory the stub's include is relative to (default: current)
	Timeout  time.Duration // Upper bound for the compile (default 60s)
}

// Verify compiles source with the original unit's compiler arguments. It
// returns an error wrapping ErrVerifyFailure, listing the compiler's
// errors, when the stub does not compile.
func Verify(ctx context.Context, cfg VerifyConfig, args []string, source []byte) error {
	res, err := verify.Stub(ctx, verify.Config{
		Compiler: cfg.Compiler,
		WorkDir:  cfg.WorkDir,
		Timeout:  cfg.Timeout,
		Args:     args,
	}, source)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrVerifyFailure, err)
	}
	if res.OK {
		return nil
	}

	lines := make([]string, 0, len(res.Errors))
	for _, d := range res.Errors {
		lines = append(lines, d.String())
	}
	if len(lines) == 0 {
		lines = append(lines, strings.TrimSpace(res.Output))
	}
	return fmt.Errorf("%w:\n%s", ErrVerifyFailure, strings.Join(lines, "\n"))
}
