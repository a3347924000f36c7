// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package emit

import (
	"path/filepath"
	"strings"

	"github.com/petar-djukic/go-stubgen/pkg/types"
)

// defaultStubName is used when the source path yields no usable base name.
const defaultStubName = "stub"

// StubName derives the stub name from a source path: the base name without
// its extension, with characters that cannot appear in a C identifier
// replaced by underscores.
func StubName(path string) string {
	base := filepath.Base(path)
	if base == "." || base == string(filepath.Separator) {
		return defaultStubName
	}
	if ext := filepath.Ext(base); ext != "" && ext != base {
		base = strings.TrimSuffix(base, ext)
	}
	return Identifier(base)
}

// Identifier rewrites s into a valid C identifier.
func Identifier(s string) string {
	if s == "" {
		return defaultStubName
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '_', c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
			b.WriteByte(c)
		case c >= '0' && c <= '9':
			if i == 0 {
				b.WriteByte('_')
			}
			b.WriteByte(c)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}

// reservedSuffixes are the per-declaration variable suffixes a parameter
// capture must not collide with.
var reservedSuffixes = map[string]bool{
	"return":    true,
	"callCount": true,
	"hook":      true,
}

// Names holds the generated identifiers for one declaration.
type Names struct {
	Prefix    string   // Owner class, or the stub name for free functions
	Return    string   // Return-capture variable
	CallCount string   // Call counter
	Hook      string   // Hook function pointer
	Captures  []string // Argument captures, one per parameter
	Result    string   // Local result variable inside the stub body
}

// NamesFor computes the identifiers for d. Free functions use stubName as
// the prefix; methods use their owning class.
func NamesFor(stubName string, d types.Declaration) Names {
	prefix := stubName
	if d.Owner != "" {
		prefix = d.Owner
	}
	base := "g_" + prefix + "_" + d.Name

	n := Names{
		Prefix:    prefix,
		Return:    base + "_return",
		CallCount: base + "_callCount",
		Hook:      base + "_hook",
		Result:    resultName(d.Params),
	}
	for _, p := range d.Params {
		suffix := p.Name
		if reservedSuffixes[suffix] {
			suffix += "_arg"
		}
		n.Captures = append(n.Captures, base+"_"+suffix)
	}
	return n
}

// resultName picks a local variable name that does not shadow a parameter.
func resultName(params []types.Param) string {
	name := "ret"
	for taken(name, params) {
		name += "_"
	}
	return name
}

func taken(name string, params []types.Param) bool {
	for _, p := range params {
		if p.Name == name {
			return true
		}
	}
	return false
}
