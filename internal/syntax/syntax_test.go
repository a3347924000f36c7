// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package syntax

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSourceFile(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"source first", []string{"widget.h", "-x", "c++"}, "widget.h"},
		{"flags before source", []string{"-std=c++17", "-Iinclude", "calc.h"}, "calc.h"},
		{"separate flag values skipped", []string{"-I", "include", "-D", "DEBUG", "-x", "c++", "api.hpp"}, "api.hpp"},
		{"double dash", []string{"-x", "c++", "--", "-odd.h"}, "-odd.h"},
		{"Xclang value skipped", []string{"-Xclang", "foo", "main.cpp"}, "main.cpp"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SourceFile(tt.args)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSourceFile_NoSource(t *testing.T) {
	_, err := SourceFile([]string{"-x", "c++", "-Wall"})
	assert.ErrorIs(t, err, ErrNoSource)

	_, err = SourceFile(nil)
	assert.ErrorIs(t, err, ErrNoSource)
}

func TestWithoutSource(t *testing.T) {
	got := WithoutSource([]string{"-x", "c++", "widget.h", "-Iinclude"})
	assert.Equal(t, []string{"-x", "c++", "-Iinclude"}, got)

	got = WithoutSource([]string{"-x", "c++", "--", "widget.h"})
	assert.Equal(t, []string{"-x", "c++"}, got)
}

func TestSameFile(t *testing.T) {
	assert.True(t, SameFile("widget.h", "./widget.h"))
	assert.True(t, SameFile("src/../widget.h", "widget.h"))
	assert.False(t, SameFile("widget.h", "gadget.h"))
	assert.False(t, SameFile("", "widget.h"))
}

func TestParseSeverity(t *testing.T) {
	assert.Equal(t, SeverityWarning, ParseSeverity("warning"))
	assert.Equal(t, SeverityError, ParseSeverity("error"))
	assert.Equal(t, SeverityFatal, ParseSeverity("fatal error"))
	assert.Equal(t, SeverityNote, ParseSeverity("note"))
	assert.Equal(t, SeverityIgnored, ParseSeverity("bogus"))
}

func TestDiagnostic_IsErrorAndString(t *testing.T) {
	warn := Diagnostic{Severity: SeverityWarning, Message: "unused", File: "a.h", Line: 3, Column: 7}
	assert.False(t, warn.IsError())
	assert.Equal(t, "a.h:3:7: unused", warn.String())

	fatal := Diagnostic{Severity: SeverityFatal, Message: "'missing.h' file not found"}
	assert.True(t, fatal.IsError())
	assert.Equal(t, "'missing.h' file not found", fatal.String())
}

func TestParseError(t *testing.T) {
	err := &ParseError{Code: CodeCrashed, Err: errors.New("signal: killed")}
	assert.Equal(t, "parser returned code 2: signal: killed", err.Error())
	assert.Equal(t, "parser returned code 1", (&ParseError{Code: CodeFailure}).Error())

	var pe *ParseError
	require.ErrorAs(t, error(err), &pe)
	assert.Equal(t, CodeCrashed, pe.Code)
}

func TestCursor_Children(t *testing.T) {
	root := (&Cursor{MainFile: true}).Append(
		&Cursor{NodeKind: KindNamespace, Name: "app"},
		&Cursor{NodeKind: KindFunction, Name: "add"},
	)

	children := root.Children()
	require.Len(t, children, 2)
	assert.Equal(t, KindNamespace, children[0].Kind())
	assert.Equal(t, "add", children[1].Spelling())
	assert.Nil(t, (&Cursor{}).Children())
}

func TestSpelledType(t *testing.T) {
	assert.Equal(t, TypeVoid, SpelledType("void").Kind)
	assert.Equal(t, TypeOther, SpelledType("void *").Kind)
	assert.Equal(t, TypeInvalid, SpelledType("").Kind)
}

func TestTranslationUnit_EmptyRoot(t *testing.T) {
	u := &TranslationUnit{Path: "widget.h"}
	assert.Empty(t, u.Root().Children())
	assert.Equal(t, "widget.h", u.Spelling())
}
