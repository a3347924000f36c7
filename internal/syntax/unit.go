// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package syntax

import (
	"context"
	"errors"
	"fmt"
)

// Severity orders diagnostics the way C/C++ front ends do.
type Severity int

const (
	SeverityIgnored Severity = iota
	SeverityNote
	SeverityWarning
	SeverityError
	SeverityFatal
)

// String returns the label used when a diagnostic is printed.
func (s Severity) String() string {
	switch s {
	case SeverityIgnored:
		return "IGNORED"
	case SeverityNote:
		return "NOTE"
	case SeverityWarning:
		return "WARNING"
	case SeverityError:
		return "ERROR"
	case SeverityFatal:
		return "FATAL"
	default:
		return "UNKNOWN"
	}
}

// ParseSeverity maps a compiler severity word ("warning", "fatal error",
// ...) to a Severity.
func ParseSeverity(word string) Severity {
	switch word {
	case "note", "remark":
		return SeverityNote
	case "warning":
		return SeverityWarning
	case "error":
		return SeverityError
	case "fatal error":
		return SeverityFatal
	default:
		return SeverityIgnored
	}
}

// Diagnostic is one message reported by the front end.
type Diagnostic struct {
	Severity Severity
	Message  string
	File     string // Empty when the diagnostic has no location
	Line     int    // 1-based, 0 if not available
	Column   int    // 1-based, 0 if not available
}

// IsError reports whether the diagnostic is at error severity or above.
func (d Diagnostic) IsError() bool {
	return d.Severity >= SeverityError
}

func (d Diagnostic) String() string {
	switch {
	case d.File == "":
		return d.Message
	case d.Column > 0:
		return fmt.Sprintf("%s:%d:%d: %s", d.File, d.Line, d.Column, d.Message)
	default:
		return fmt.Sprintf("%s:%d: %s", d.File, d.Line, d.Message)
	}
}

// Unit is a parsed translation unit.
type Unit interface {
	// Spelling returns the path of the main file as it was requested.
	Spelling() string
	// Diagnostics returns every diagnostic in the order reported.
	Diagnostics() []Diagnostic
	// Root returns the translation unit node.
	Root() Node
}

// Parser turns compiler-style arguments into a translation unit.
type Parser interface {
	Parse(ctx context.Context, args []string) (Unit, error)
}

// Failure codes carried by ParseError.
const (
	CodeFailure       = 1 // Generic front end failure
	CodeCrashed       = 2 // Front end process died or produced no tree
	CodeInvalidArgs   = 3 // Arguments could not be interpreted
	CodeASTReadFailed = 4 // Tree output could not be decoded
)

// ParseError reports that no translation unit could be constructed.
type ParseError struct {
	Code int
	Err  error
}

func (e *ParseError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("parser returned code %d", e.Code)
	}
	return fmt.Sprintf("parser returned code %d: %v", e.Code, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ErrNoSource is returned when no source file can be found among the
// compiler arguments.
var ErrNoSource = errors.New("no source file in arguments")

// TranslationUnit is the Unit implementation shared by the backends.
type TranslationUnit struct {
	Path  string
	Diags []Diagnostic
	Tree  *Cursor
}

// Verify interface compliance at compile time.
var _ Unit = (*TranslationUnit)(nil)

func (u *TranslationUnit) Spelling() string { return u.Path }

func (u *TranslationUnit) Diagnostics() []Diagnostic { return u.Diags }

// Root returns the tree root, or an empty translation unit cursor when the
// backend produced no tree.
func (u *TranslationUnit) Root() Node {
	if u.Tree == nil {
		return &Cursor{MainFile: true}
	}
	return u.Tree
}
