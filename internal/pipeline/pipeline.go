// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package pipeline runs one stub generation: parse the unit, surface its
// diagnostics, collect declarations, and render the stub.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/petar-djukic/go-stubgen/internal/collect"
	"github.com/petar-djukic/go-stubgen/internal/emit"
	"github.com/petar-djukic/go-stubgen/internal/syntax"
	"github.com/petar-djukic/go-stubgen/pkg/types"
)

// Errors returned by Run. The public package re-exports them.
var (
	ErrUsage        = errors.New("usage: stubgen <compiler arguments...> <source file>")
	ErrParseFailure = errors.New("parse failed")
	ErrDiagnostics  = errors.New("source has errors")
)

// RunResult holds the outcome of a Runner.Run invocation.
type RunResult struct {
	Source      []byte              // Rendered stub; nil on failure
	StubName    string              // Prefix used for free functions and the reset routine
	IncludePath string              // Path included by the stub
	Collection  types.Collection    // Declarations and namespaces in discovery order
	Diagnostics []syntax.Diagnostic // Every diagnostic the parser reported
}

// Deps holds injected dependencies for the runner.
type Deps struct {
	Parser      syntax.Parser
	Diagnostics io.Writer // Receives "ERROR: ..." and "WARNING: ..." lines; nil discards
	Logger      *zap.Logger
	StubName    string // Overrides the name derived from the source file
	IncludePath string // Overrides the include of the source file
}

// Runner executes the generation pipeline.
type Runner struct {
	deps Deps
}

// NewRunner creates a Runner with the given dependencies.
func NewRunner(deps Deps) *Runner {
	if deps.Diagnostics == nil {
		deps.Diagnostics = io.Discard
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	return &Runner{deps: deps}
}

// Run parses the unit described by args and renders its stub. Every
// diagnostic at warning severity or above is printed before Run decides
// whether to abort, so a caller sees the complete list.
func (r *Runner) Run(ctx context.Context, args []string) (*RunResult, error) {
	result := &RunResult{}
	if len(args) == 0 {
		return result, ErrUsage
	}

	start := time.Now()
	unit, err := r.deps.Parser.Parse(ctx, args)
	if err != nil {
		return result, fmt.Errorf("%w: %w", ErrParseFailure, err)
	}
	result.Diagnostics = unit.Diagnostics()

	errCount, err := r.report(result.Diagnostics)
	if err != nil {
		return result, err
	}
	if errCount > 0 {
		return result, fmt.Errorf("%w: %d error(s)", ErrDiagnostics, errCount)
	}

	result.Collection = collect.Collect(unit.Root(), r.deps.Logger)

	result.StubName = r.deps.StubName
	if result.StubName == "" {
		result.StubName = emit.StubName(unit.Spelling())
	}
	result.IncludePath = r.deps.IncludePath
	if result.IncludePath == "" {
		result.IncludePath = unit.Spelling()
	}

	result.Source = emit.Render(emit.Input{
		StubName:    result.StubName,
		IncludePath: result.IncludePath,
		Collection:  result.Collection,
	})

	r.deps.Logger.Debug("stub generated",
		zap.String("file", unit.Spelling()),
		zap.String("stub", result.StubName),
		zap.Int("declarations", len(result.Collection.Declarations)),
		zap.Int("namespaces", len(result.Collection.Namespaces)),
		zap.Duration("elapsed", time.Since(start)))

	return result, nil
}

// report prints diagnostics in the order received and counts those at
// error severity or above.
func (r *Runner) report(diags []syntax.Diagnostic) (int, error) {
	errCount := 0
	for _, d := range diags {
		if d.Severity < syntax.SeverityWarning {
			continue
		}
		label := syntax.SeverityWarning.String()
		if d.IsError() {
			label = syntax.SeverityError.String()
			errCount++
		}
		if _, err := fmt.Fprintf(r.deps.Diagnostics, "%s: %s\n", label, d); err != nil {
			return errCount, fmt.Errorf("writing diagnostics: %w", err)
		}
	}
	return errCount, nil
}
