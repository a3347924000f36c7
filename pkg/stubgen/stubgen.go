// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package stubgen defines the public interface for go-stubgen, a generator
// of C/C++ test stubs with call counters, return overrides, argument
// captures, and hooks.
package stubgen

import (
	"context"
	"errors"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/petar-djukic/go-stubgen/internal/output"
	"github.com/petar-djukic/go-stubgen/internal/pipeline"
	"github.com/petar-djukic/go-stubgen/internal/syntax"
	"github.com/petar-djukic/go-stubgen/pkg/types"
)

// Error types for the stubgen API.
var (
	ErrInvalidConfig = errors.New("invalid config")
	ErrUsage         = pipeline.ErrUsage
	ErrParseFailure  = pipeline.ErrParseFailure
	ErrDiagnostics   = pipeline.ErrDiagnostics
	ErrStale         = output.ErrStale
	ErrVerifyFailure = errors.New("stub does not compile")
)

// Backend names accepted in Config.Backend.
const (
	BackendAuto       = "auto"
	BackendClang      = "clang"
	BackendTreeSitter = "treesitter"
)

// Config configures a Generator instance.
type Config struct {
	Backend     string        // auto, clang, or treesitter (default auto)
	Clang       string        // clang executable for the clang backend (default "clang")
	Timeout     time.Duration // Upper bound for one parse (default 60s)
	StubName    string        // Overrides the name derived from the source file
	IncludePath string        // Overrides the include of the source file
	Diagnostics io.Writer     // Receives diagnostic lines (default: discarded)
	Logger      *zap.Logger   // Operational logging (default: no-op)
}

// Diagnostic is one message reported while parsing.
type Diagnostic = syntax.Diagnostic

// Result holds the outcome of a Generator.Generate invocation.
type Result struct {
	Source       []byte              // Rendered stub source; nil on failure
	StubName     string              // Prefix for free functions and the reset routine
	IncludePath  string              // Path the stub includes
	Declarations []types.Declaration // Stubbed declarations in discovery order
	Namespaces   []types.Namespace   // Namespaces in discovery order
	Diagnostics  []Diagnostic        // Everything the parser reported
	Backend      string              // Backend that parsed the unit
}

// Generator turns one compilation unit into stub source.
type Generator interface {
	// Generate parses the unit described by compiler-style args, prints
	// its diagnostics, collects its declarations, and renders the stub.
	Generate(ctx context.Context, args []string) (*Result, error)
}
