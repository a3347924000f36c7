// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package emit renders the stub source file for a collected set of
// declarations. Output depends only on its input: same declarations, same
// bytes.
package emit

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/petar-djukic/go-stubgen/pkg/types"
)

const indent = "    "

// Input is everything the emitter needs for one stub file.
type Input struct {
	StubName    string           // Prefix for free-function variables and the reset routine
	IncludePath string           // Path of the original file, included verbatim
	Collection  types.Collection // Declarations and namespaces in discovery order
}

// ResetName returns the name of the generated reset routine.
func ResetName(stubName string) string {
	return "stub_" + stubName + "_reset"
}

// Render returns the complete stub source.
func Render(in Input) []byte {
	var buf bytes.Buffer
	p := &printer{w: &buf}

	p.includes(in.IncludePath)
	p.namespaces(in.Collection.Namespaces)
	for _, d := range in.Collection.Declarations {
		p.variables(in.StubName, d)
	}
	p.reset(in.StubName, in.Collection.Declarations)
	for i, d := range in.Collection.Declarations {
		if i > 0 {
			p.line("")
		}
		p.body(in.StubName, d)
	}

	return buf.Bytes()
}

// printer accumulates output lines.
type printer struct {
	w *bytes.Buffer
}

func (p *printer) line(format string, args ...any) {
	fmt.Fprintf(p.w, format, args...)
	p.w.WriteByte('\n')
}

func (p *printer) includes(path string) {
	p.line("#include <stdint.h>")
	p.line("#include <stdlib.h>")
	p.line("#include \"%s\"", path)
	p.line("")
}

// namespaces prints one using-directive per recorded namespace in
// discovery order. Repeats are kept; anonymous namespaces are dropped.
func (p *printer) namespaces(list []types.Namespace) {
	for _, ns := range list {
		if ns.Name == "" {
			continue
		}
		p.line("using namespace %s;", ns.Name)
	}
	p.line("")
}

func (p *printer) variables(stubName string, d types.Declaration) {
	n := NamesFor(stubName, d)

	if !d.IsVoid() {
		p.line("%s %s;", d.ReturnType, n.Return)
	}
	p.line("uint32_t %s = 0;", n.CallCount)
	for i, param := range d.Params {
		p.line("%s %s;", param.Type, n.Captures[i])
	}
	p.line("%s (*%s)(%s);", hookReturn(d), n.Hook, typeList(d.Params))
	p.line("")
}

// reset prints the reset routine: every call counter is zeroed, then every
// hook is cleared, in two passes over the declarations.
func (p *printer) reset(stubName string, decls []types.Declaration) {
	p.line("void %s(void)", ResetName(stubName))
	p.line("{")
	p.line(indent + "// TODO: reset return values to their defaults")
	p.line(indent + "// TODO: reset argument captures to their defaults")
	p.line("")
	for _, d := range decls {
		p.line(indent+"%s = 0;", NamesFor(stubName, d).CallCount)
	}
	p.line("")
	for _, d := range decls {
		p.line(indent+"%s = NULL;", NamesFor(stubName, d).Hook)
	}
	p.line("}")
	p.line("")
}

func (p *printer) body(stubName string, d types.Declaration) {
	n := NamesFor(stubName, d)

	p.line("%s %s(%s)", d.ReturnType, d.QualifiedName(), paramList(d.Params))
	p.line("{")
	if !d.IsVoid() {
		p.line(indent+"%s %s = %s;", d.ReturnType, n.Result, n.Return)
	}
	p.line(indent+"%s++;", n.CallCount)
	for i, param := range d.Params {
		p.line(indent+"%s = %s;", n.Captures[i], param.Name)
	}
	p.line(indent+"if (%s != NULL) {", n.Hook)
	call := fmt.Sprintf("%s(%s)", n.Hook, argList(d.Params))
	if d.IsVoid() {
		p.line(indent+indent+"%s;", call)
	} else {
		p.line(indent+indent+"%s = %s;", n.Result, call)
	}
	p.line(indent + "}")
	if !d.IsVoid() {
		p.line(indent+"return %s;", n.Result)
	}
	p.line("}")
}

func hookReturn(d types.Declaration) string {
	if d.IsVoid() {
		return "void"
	}
	return d.ReturnType
}

// typeList renders the hook's parameter types, or "void" when there are none.
func typeList(params []types.Param) string {
	if len(params) == 0 {
		return "void"
	}
	parts := make([]string, len(params))
	for i, param := range params {
		parts[i] = param.Type
	}
	return strings.Join(parts, ", ")
}

// paramList renders a definition's parameters, or "void" when there are none.
func paramList(params []types.Param) string {
	if len(params) == 0 {
		return "void"
	}
	parts := make([]string, len(params))
	for i, param := range params {
		parts[i] = param.Type + " " + param.Name
	}
	return strings.Join(parts, ", ")
}

func argList(params []types.Param) string {
	parts := make([]string, len(params))
	for i, param := range params {
		parts[i] = param.Name
	}
	return strings.Join(parts, ", ")
}
