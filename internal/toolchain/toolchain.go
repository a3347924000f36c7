// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package toolchain runs external compiler tools and parses their
// diagnostic output.
package toolchain

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/petar-djukic/go-stubgen/internal/syntax"
)

// DefaultTimeout bounds a single tool invocation.
const DefaultTimeout = 60 * time.Second

// Output holds what a finished command produced.
type Output struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Run executes a command with a timeout. A non-zero exit status is not an
// error: it is reported in ExitCode. Run fails only when the command could
// not be started or did not finish in time.
func Run(ctx context.Context, dir string, timeout time.Duration, name string, args ...string) (Output, error) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	cmdCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(cmdCtx, name, args...)
	cmd.Dir = dir
	cmd.WaitDelay = time.Second

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	out := Output{Stdout: stdout.String(), Stderr: stderr.String()}

	if cmdCtx.Err() != nil {
		return out, fmt.Errorf("running %s: %w", name, cmdCtx.Err())
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		out.ExitCode = exitErr.ExitCode()
		return out, nil
	}
	if err != nil {
		return out, fmt.Errorf("running %s: %w", name, err)
	}
	return out, nil
}

// locatedRegex matches clang/gcc diagnostics with a location:
// calc.h:3:10: error: unknown type name 'foo'
// calc.h:3: warning: something
var locatedRegex = regexp.MustCompile(`^(.+?):(\d+)(?::(\d+))?: (warning|error|fatal error|note|remark): (.*)$`)

// bareRegex matches diagnostics without a location:
// clang: error: no such file or directory: 'x.h'
// error: unable to open output file
var bareRegex = regexp.MustCompile(`^(?:\S+: )?(warning|error|fatal error): (.*)$`)

// ParseDiagnostics extracts diagnostics from compiler output in the order
// they were printed. Context lines, carets, and summaries are skipped.
func ParseDiagnostics(output string) []syntax.Diagnostic {
	var diags []syntax.Diagnostic
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimRight(line, "\r")
		if line == "" || strings.HasPrefix(line, " ") {
			continue
		}

		if m := locatedRegex.FindStringSubmatch(line); m != nil {
			lineNum, _ := strconv.Atoi(m[2])
			colNum := 0
			if m[3] != "" {
				colNum, _ = strconv.Atoi(m[3])
			}
			diags = append(diags, syntax.Diagnostic{
				Severity: syntax.ParseSeverity(m[4]),
				Message:  m[5],
				File:     m[1],
				Line:     lineNum,
				Column:   colNum,
			})
			continue
		}

		if m := bareRegex.FindStringSubmatch(line); m != nil {
			diags = append(diags, syntax.Diagnostic{
				Severity: syntax.ParseSeverity(m[1]),
				Message:  m[2],
			})
		}
	}
	return diags
}
