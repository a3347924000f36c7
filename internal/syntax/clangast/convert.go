// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package clangast

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/petar-djukic/go-stubgen/internal/syntax"
)

// jsonLoc is a source location as printed by clang's JSON dumper. The file
// is omitted when it matches the previously printed location.
type jsonLoc struct {
	File         string   `json:"file"`
	Line         int      `json:"line"`
	SpellingLoc  *jsonLoc `json:"spellingLoc"`
	ExpansionLoc *jsonLoc `json:"expansionLoc"`
}

type jsonRange struct {
	Begin jsonLoc `json:"begin"`
	End   jsonLoc `json:"end"`
}

type jsonType struct {
	QualType string `json:"qualType"`
}

// jsonNode is the subset of a clang AST node the converter reads.
type jsonNode struct {
	Kind         string     `json:"kind"`
	Name         string     `json:"name"`
	Loc          jsonLoc    `json:"loc"`
	Range        jsonRange  `json:"range"`
	IsImplicit   bool       `json:"isImplicit"`
	StorageClass string     `json:"storageClass"`
	Variadic     bool       `json:"variadic"`
	Type         jsonType   `json:"type"`
	Inner        []jsonNode `json:"inner"`
}

// opaqueKinds are kept as childless cursors. Their inner declarations are
// patterns, not stubbable entities.
var opaqueKinds = map[string]bool{
	"FunctionTemplateDecl":                   true,
	"ClassTemplateDecl":                      true,
	"ClassTemplateSpecializationDecl":        true,
	"ClassTemplatePartialSpecializationDecl": true,
	"VarTemplateDecl":                        true,
	"TypeAliasTemplateDecl":                  true,
	"ConceptDecl":                            true,
	"CXXConstructorDecl":                     true,
	"CXXDestructorDecl":                      true,
	"CXXConversionDecl":                      true,
	"CXXDeductionGuideDecl":                  true,
	"FriendDecl":                             true,
	"VarDecl":                                true,
	"FieldDecl":                              true,
	"StaticAssertDecl":                       true,
}

// Convert decodes a clang JSON AST dump and returns the translation unit
// cursor. Nodes whose expansion location is in mainFile are marked as
// main-file nodes.
func Convert(data []byte, mainFile string) (*syntax.Cursor, error) {
	var root jsonNode
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("decoding clang AST: %w", err)
	}
	if root.Kind != "TranslationUnitDecl" {
		return nil, fmt.Errorf("decoding clang AST: root is %q, want TranslationUnitDecl", root.Kind)
	}

	c := &converter{main: mainFile}
	tu := &syntax.Cursor{MainFile: true}
	for i := range root.Inner {
		if cur := c.node(&root.Inner[i]); cur != nil {
			tu.Inner = append(tu.Inner, cur)
		}
	}
	return tu, nil
}

// converter walks nodes in the order clang printed them so that omitted
// file names can be filled in from the previous location.
type converter struct {
	main string
	file string
}

// locate consumes a location and returns its expansion file.
func (c *converter) locate(l *jsonLoc) string {
	if l.SpellingLoc != nil || l.ExpansionLoc != nil {
		if l.SpellingLoc != nil {
			c.locate(l.SpellingLoc)
		}
		if l.ExpansionLoc != nil {
			return c.locate(l.ExpansionLoc)
		}
		return c.file
	}
	if l.File != "" {
		c.file = l.File
	}
	return c.file
}

func (c *converter) node(n *jsonNode) *syntax.Cursor {
	file := c.locate(&n.Loc)
	c.locate(&n.Range.Begin)
	c.locate(&n.Range.End)

	if n.IsImplicit {
		c.skip(n.Inner)
		return nil
	}

	cur := &syntax.Cursor{
		Name:     n.Name,
		MainFile: syntax.SameFile(file, c.main),
	}

	switch {
	case n.Kind == "NamespaceDecl":
		cur.NodeKind = syntax.KindNamespace
		cur.Inner = c.children(n.Inner)

	case n.Kind == "CXXRecordDecl", n.Kind == "RecordDecl":
		cur.NodeKind = syntax.KindClass
		cur.Inner = c.children(n.Inner)

	case n.Kind == "FunctionDecl", n.Kind == "CXXMethodDecl":
		cur.NodeKind = syntax.KindFunction
		if n.Kind == "CXXMethodDecl" {
			cur.NodeKind = syntax.KindMethod
		}
		cur.Result = syntax.SpelledType(ResultType(n.Type.QualType))
		cur.Static = n.StorageClass == "static"
		cur.Variadic = n.Variadic
		cur.Inner = c.params(n.Inner)

	case n.Kind == "ParmVarDecl":
		cur.NodeKind = syntax.KindParam
		cur.OwnType = syntax.SpelledType(n.Type.QualType)
		c.skip(n.Inner)

	case opaqueKinds[n.Kind]:
		c.skip(n.Inner)

	default:
		cur.Inner = c.children(n.Inner)
	}
	return cur
}

func (c *converter) children(inner []jsonNode) []*syntax.Cursor {
	var out []*syntax.Cursor
	for i := range inner {
		if cur := c.node(&inner[i]); cur != nil {
			out = append(out, cur)
		}
	}
	return out
}

// params keeps the parameters of a function and only tracks locations
// through its body.
func (c *converter) params(inner []jsonNode) []*syntax.Cursor {
	var out []*syntax.Cursor
	for i := range inner {
		n := &inner[i]
		if n.Kind != "ParmVarDecl" {
			c.skipNode(n)
			continue
		}
		if cur := c.node(n); cur != nil {
			out = append(out, cur)
		}
	}
	return out
}

// skip advances the file tracking through nodes that are not converted.
func (c *converter) skip(inner []jsonNode) {
	for i := range inner {
		c.skipNode(&inner[i])
	}
}

func (c *converter) skipNode(n *jsonNode) {
	c.locate(&n.Loc)
	c.locate(&n.Range.Begin)
	c.locate(&n.Range.End)
	c.skip(n.Inner)
}

// trailingSpecifiers may follow the parameter list of a function type
// spelling and end in their own parenthesized group.
var trailingSpecifiers = []string{"__attribute__", "throw", "noexcept"}

// ResultType extracts the return type from a function type spelling such
// as "int (int, char *)", "const char *(void) const",
// "void (int) __attribute__((noreturn))", or "auto (int) -> int".
func ResultType(fnType string) string {
	s := strings.TrimSpace(fnType)
	if arrow := trailingReturn(s); arrow >= 0 {
		return strings.TrimSpace(s[arrow+2:])
	}
	for {
		open := matchingOpen(s)
		if open < 0 {
			return s
		}
		head := strings.TrimSpace(s[:open])
		rest, ok := trimTrailingSpecifier(head)
		if !ok {
			return head
		}
		s = rest
	}
}

// trailingReturn returns the index of the "->" that introduces a trailing
// return type, or -1. Arrows inside parentheses belong to the parameters
// or to a decltype.
func trailingReturn(s string) int {
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
		case '-':
			if depth == 0 && i+1 < len(s) && s[i+1] == '>' {
				return i
			}
		}
	}
	return -1
}

// matchingOpen returns the index of the "(" that matches the last ")" of
// s, or -1.
func matchingOpen(s string) int {
	end := strings.LastIndexByte(s, ')')
	if end < 0 {
		return -1
	}
	depth := 0
	for i := end; i >= 0; i-- {
		switch s[i] {
		case ')':
			depth++
		case '(':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// trimTrailingSpecifier removes a specifier keyword whose argument group
// was matched instead of the parameter list.
func trimTrailingSpecifier(head string) (string, bool) {
	for _, kw := range trailingSpecifiers {
		if !strings.HasSuffix(head, kw) {
			continue
		}
		rest := strings.TrimSpace(strings.TrimSuffix(head, kw))
		if strings.HasSuffix(withoutQualifiers(rest), ")") {
			return rest, true
		}
	}
	return head, false
}

// functionQualifiers may appear between a parameter list and a trailing
// specifier, as in "void () const noexcept(true)".
var functionQualifiers = map[string]bool{
	"const": true, "volatile": true, "&": true, "&&": true, "noexcept": true,
}

func withoutQualifiers(s string) string {
	fields := strings.Fields(s)
	for len(fields) > 0 && functionQualifiers[fields[len(fields)-1]] {
		fields = fields[:len(fields)-1]
	}
	return strings.Join(fields, " ")
}
