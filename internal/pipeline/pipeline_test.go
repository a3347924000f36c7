// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package pipeline

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petar-djukic/go-stubgen/internal/syntax"
)

// fakeParser returns a canned unit or error and records its arguments.
type fakeParser struct {
	unit  syntax.Unit
	err   error
	calls [][]string
}

func (f *fakeParser) Parse(_ context.Context, args []string) (syntax.Unit, error) {
	f.calls = append(f.calls, args)
	if f.err != nil {
		return nil, f.err
	}
	return f.unit, nil
}

func calcUnit(diags ...syntax.Diagnostic) *syntax.TranslationUnit {
	fn := &syntax.Cursor{
		NodeKind: syntax.KindFunction,
		Name:     "add",
		Result:   syntax.SpelledType("int"),
		MainFile: true,
	}
	fn.Append(
		&syntax.Cursor{NodeKind: syntax.KindParam, Name: "a", OwnType: syntax.SpelledType("int"), MainFile: true},
		&syntax.Cursor{NodeKind: syntax.KindParam, Name: "b", OwnType: syntax.SpelledType("int"), MainFile: true},
	)
	header := &syntax.Cursor{NodeKind: syntax.KindFunction, Name: "printf", Result: syntax.SpelledType("int")}
	ns := &syntax.Cursor{NodeKind: syntax.KindNamespace, Name: "app", MainFile: true}
	ns.Append(fn)

	return &syntax.TranslationUnit{
		Path:  "src/calc.h",
		Diags: diags,
		Tree:  (&syntax.Cursor{MainFile: true}).Append(header, ns),
	}
}

func TestRun_Generates(t *testing.T) {
	parser := &fakeParser{unit: calcUnit()}
	var diag bytes.Buffer
	r := NewRunner(Deps{Parser: parser, Diagnostics: &diag})

	res, err := r.Run(context.Background(), []string{"-Iinclude", "src/calc.h"})
	require.NoError(t, err)

	assert.Equal(t, [][]string{{"-Iinclude", "src/calc.h"}}, parser.calls)
	assert.Equal(t, "calc", res.StubName)
	assert.Equal(t, "src/calc.h", res.IncludePath)
	require.Len(t, res.Collection.Declarations, 1)

	out := string(res.Source)
	assert.True(t, strings.HasPrefix(out, "#include <stdint.h>\n#include <stdlib.h>\n#include \"src/calc.h\"\n"))
	assert.Contains(t, out, "using namespace app;\n")
	assert.Contains(t, out, "int g_calc_add_return;\n")
	assert.Contains(t, out, "void stub_calc_reset(void)\n")
	assert.NotContains(t, out, "printf", "header declarations are filtered")
	assert.Empty(t, diag.String())
}

func TestRun_Overrides(t *testing.T) {
	r := NewRunner(Deps{Parser: &fakeParser{unit: calcUnit()}, StubName: "mock", IncludePath: "calc.h"})

	res, err := r.Run(context.Background(), []string{"src/calc.h"})
	require.NoError(t, err)
	assert.Contains(t, string(res.Source), "#include \"calc.h\"\n")
	assert.Contains(t, string(res.Source), "uint32_t g_mock_add_callCount = 0;\n")
	assert.Contains(t, string(res.Source), "void stub_mock_reset(void)\n")
}

func TestRun_Idempotent(t *testing.T) {
	r := NewRunner(Deps{Parser: &fakeParser{unit: calcUnit()}})

	first, err := r.Run(context.Background(), []string{"src/calc.h"})
	require.NoError(t, err)
	second, err := r.Run(context.Background(), []string{"src/calc.h"})
	require.NoError(t, err)
	assert.Equal(t, first.Source, second.Source)
}

func TestRun_UsageError(t *testing.T) {
	parser := &fakeParser{unit: calcUnit()}
	r := NewRunner(Deps{Parser: parser})

	res, err := r.Run(context.Background(), nil)
	assert.ErrorIs(t, err, ErrUsage)
	assert.Nil(t, res.Source)
	assert.Empty(t, parser.calls, "nothing is parsed")
}

func TestRun_ParseFailure(t *testing.T) {
	r := NewRunner(Deps{Parser: &fakeParser{err: &syntax.ParseError{Code: syntax.CodeCrashed}}})

	res, err := r.Run(context.Background(), []string{"calc.h"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrParseFailure)
	assert.Contains(t, err.Error(), "parser returned code 2")

	var pe *syntax.ParseError
	require.True(t, errors.As(err, &pe))
	assert.Nil(t, res.Source)
}

func TestRun_DiagnosticsDrainedBeforeAbort(t *testing.T) {
	unit := calcUnit(
		syntax.Diagnostic{Severity: syntax.SeverityError, Message: "unknown type name 'foo'", File: "calc.h", Line: 3, Column: 9},
		syntax.Diagnostic{Severity: syntax.SeverityNote, Message: "declared here"},
		syntax.Diagnostic{Severity: syntax.SeverityWarning, Message: "unused parameter"},
		syntax.Diagnostic{Severity: syntax.SeverityFatal, Message: "too many errors"},
	)
	var diag bytes.Buffer
	r := NewRunner(Deps{Parser: &fakeParser{unit: unit}, Diagnostics: &diag})

	res, err := r.Run(context.Background(), []string{"calc.h"})
	assert.ErrorIs(t, err, ErrDiagnostics)
	assert.Contains(t, err.Error(), "2 error(s)")
	assert.Nil(t, res.Source, "no stub on diagnostic errors")
	assert.Len(t, res.Diagnostics, 4)

	assert.Equal(t,
		"ERROR: calc.h:3:9: unknown type name 'foo'\n"+
			"WARNING: unused parameter\n"+
			"ERROR: too many errors\n",
		diag.String())
}

func TestRun_WarningsDoNotAbort(t *testing.T) {
	unit := calcUnit(syntax.Diagnostic{Severity: syntax.SeverityWarning, Message: "deprecated"})
	var diag bytes.Buffer
	r := NewRunner(Deps{Parser: &fakeParser{unit: unit}, Diagnostics: &diag})

	res, err := r.Run(context.Background(), []string{"calc.h"})
	require.NoError(t, err)
	assert.NotEmpty(t, res.Source)
	assert.Equal(t, "WARNING: deprecated\n", diag.String())
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("closed") }

func TestRun_DiagnosticWriterFailure(t *testing.T) {
	unit := calcUnit(syntax.Diagnostic{Severity: syntax.SeverityWarning, Message: "deprecated"})
	r := NewRunner(Deps{Parser: &fakeParser{unit: unit}, Diagnostics: failingWriter{}})

	_, err := r.Run(context.Background(), []string{"calc.h"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "writing diagnostics")
}
