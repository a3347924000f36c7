// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package treesitter

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/petar-djukic/go-stubgen/internal/syntax"
)

// containers are node types whose children are walked as-is.
var containers = map[string]bool{
	"linkage_specification": true,
	"declaration_list":      true,
	"preproc_ifdef":         true,
	"preproc_if":            true,
	"preproc_else":          true,
	"preproc_elif":          true,
	"preproc_elifdef":       true,
}

// opaque are node types kept as childless KindOther cursors.
var opaque = map[string]bool{
	"template_declaration": true,
	"type_definition":      true,
	"alias_declaration":    true,
	"using_declaration":    true,
	"enum_specifier":       true,
}

// converter turns a tree-sitter tree into syntax cursors. Every string is
// copied out of the source buffer.
type converter struct {
	src []byte
}

func (c *converter) text(n *sitter.Node) string {
	if n == nil {
		return ""
	}
	return normalize(n.Content(c.src))
}

// normalize collapses runs of whitespace to single spaces.
func normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// children converts the named children of n, dropping nodes that carry
// nothing for the collector.
func (c *converter) children(n *sitter.Node) []*syntax.Cursor {
	var out []*syntax.Cursor
	for i := 0; i < int(n.NamedChildCount()); i++ {
		if cur := c.node(n.NamedChild(i)); cur != nil {
			out = append(out, cur)
		}
	}
	return out
}

func (c *converter) node(n *sitter.Node) *syntax.Cursor {
	switch t := n.Type(); {
	case t == "namespace_definition":
		cur := &syntax.Cursor{
			NodeKind: syntax.KindNamespace,
			Name:     c.text(n.ChildByFieldName("name")),
			MainFile: true,
		}
		if body := n.ChildByFieldName("body"); body != nil {
			cur.Inner = c.children(body)
		}
		return cur

	case t == "class_specifier", t == "struct_specifier":
		return c.class(n)

	case t == "function_definition", t == "declaration":
		if fn := c.function(n, false); fn != nil {
			return fn
		}
		// class Foo { ... } instance;
		if typ := n.ChildByFieldName("type"); typ != nil && isClass(typ) {
			return c.class(typ)
		}
		return &syntax.Cursor{MainFile: true}

	case containers[t]:
		return &syntax.Cursor{MainFile: true, Inner: c.children(n)}

	case opaque[t]:
		return &syntax.Cursor{MainFile: true}

	default:
		return nil
	}
}

func isClass(n *sitter.Node) bool {
	return n.Type() == "class_specifier" || n.Type() == "struct_specifier"
}

// class converts a class or struct specifier. Forward declarations have
// no body and therefore no members.
func (c *converter) class(n *sitter.Node) *syntax.Cursor {
	cur := &syntax.Cursor{
		NodeKind: syntax.KindClass,
		Name:     c.text(n.ChildByFieldName("name")),
		MainFile: true,
	}
	if body := n.ChildByFieldName("body"); body != nil {
		cur.Inner = c.members(body)
	}
	return cur
}

// members collects method declarations and inline method definitions of a
// class body, looking through preprocessor conditionals.
func (c *converter) members(body *sitter.Node) []*syntax.Cursor {
	var out []*syntax.Cursor
	for i := 0; i < int(body.NamedChildCount()); i++ {
		child := body.NamedChild(i)
		switch t := child.Type(); {
		case t == "field_declaration", t == "function_definition", t == "declaration":
			if m := c.function(child, true); m != nil {
				out = append(out, m)
			}
		case containers[t]:
			out = append(out, c.members(child)...)
		}
	}
	return out
}

// function converts a declaration or definition whose declarator is a
// plain function declarator. It returns nil for anything else, including
// constructors and destructors (no type) and function pointer variables.
func (c *converter) function(n *sitter.Node, member bool) *syntax.Cursor {
	typ := n.ChildByFieldName("type")
	decl := n.ChildByFieldName("declarator")
	if typ == nil || decl == nil {
		return nil
	}

	var deco decorations
	for decl != nil && decl.Type() != "function_declarator" {
		switch decl.Type() {
		case "pointer_declarator":
			deco.pointer(c.qualifiers(decl))
			decl = decl.ChildByFieldName("declarator")
		case "reference_declarator":
			deco.reference(refToken(decl))
			decl = lastNamed(decl)
		default:
			return nil
		}
	}
	if decl == nil {
		return nil
	}

	nameNode := decl.ChildByFieldName("declarator")
	if nameNode == nil {
		return nil
	}

	kind := syntax.KindFunction
	if member {
		kind = syntax.KindMethod
	}
	switch nameNode.Type() {
	case "identifier", "field_identifier", "operator_name":
	case "qualified_identifier":
		// Out-of-line definition of a member: Class::method.
		kind = syntax.KindMethod
	default:
		return nil
	}

	result := c.baseType(n, typ) + deco.String()
	if trailing := c.trailingReturn(decl); trailing != "" {
		result = trailing
	}

	cur := &syntax.Cursor{
		NodeKind: kind,
		Name:     c.text(nameNode),
		Result:   syntax.SpelledType(result),
		MainFile: true,
		Static:   c.hasStorageClass(n, "static"),
	}
	if params := decl.ChildByFieldName("parameters"); params != nil {
		cur.Inner, cur.Variadic = c.params(params)
	}
	return cur
}

// trailingReturn spells the type after "->" in a function declarator
// such as "auto next(int n) -> int", or returns "".
func (c *converter) trailingReturn(decl *sitter.Node) string {
	for i := 0; i < int(decl.NamedChildCount()); i++ {
		child := decl.NamedChild(i)
		if child.Type() != "trailing_return_type" {
			continue
		}
		if desc := lastNamed(child); desc != nil {
			return normalize(c.text(desc))
		}
	}
	return ""
}

// params converts a parameter list. A lone unnamed void parameter means
// no parameters.
func (c *converter) params(list *sitter.Node) ([]*syntax.Cursor, bool) {
	var out []*syntax.Cursor
	variadic := false

	for i := 0; i < int(list.ChildCount()); i++ {
		child := list.Child(i)
		switch child.Type() {
		case "...", "variadic_parameter_declaration":
			variadic = true
		case "parameter_declaration", "optional_parameter_declaration":
			typ := child.ChildByFieldName("type")
			decl := child.ChildByFieldName("declarator")
			base := c.baseType(child, typ)
			if decl == nil && base == "void" {
				continue
			}
			spelling, name := c.paramType(child, base, decl)
			out = append(out, &syntax.Cursor{
				NodeKind: syntax.KindParam,
				Name:     name,
				OwnType:  syntax.SpelledType(spelling),
				MainFile: true,
			})
		}
	}
	return out, variadic
}

// paramType spells a parameter's type the way a compiler does: arrays
// decay to pointers and the name is removed from function pointer
// declarators.
func (c *converter) paramType(param *sitter.Node, base string, decl *sitter.Node) (string, string) {
	var deco decorations
	for decl != nil {
		switch decl.Type() {
		case "identifier":
			return base + deco.String(), c.text(decl)
		case "pointer_declarator", "abstract_pointer_declarator":
			deco.pointer(c.qualifiers(decl))
			decl = decl.ChildByFieldName("declarator")
		case "reference_declarator", "abstract_reference_declarator":
			deco.reference(refToken(decl))
			decl = lastNamed(decl)
		case "array_declarator", "abstract_array_declarator":
			deco.pointer(nil)
			decl = decl.ChildByFieldName("declarator")
		default:
			// Function pointers and parenthesized declarators: take the
			// written text without the parameter name or default value.
			return c.unnamed(param, firstIdentifier(decl))
		}
	}
	return base + deco.String(), ""
}

func (c *converter) unnamed(param, id *sitter.Node) (string, string) {
	start, end := param.StartByte(), param.EndByte()
	if def := param.ChildByFieldName("default_value"); def != nil {
		end = def.StartByte()
	}

	var b strings.Builder
	name := ""
	if id != nil && id.StartByte() >= start && id.EndByte() <= end {
		name = c.text(id)
		b.Write(c.src[start:id.StartByte()])
		b.Write(c.src[id.EndByte():end])
	} else {
		b.Write(c.src[start:end])
	}

	spelled := normalize(strings.TrimSuffix(strings.TrimSpace(b.String()), "="))
	spelled = strings.ReplaceAll(spelled, "( *)", "(*)")
	spelled = strings.ReplaceAll(spelled, "(* )", "(*)")
	return spelled, name
}

// baseType spells the type specifier of a declaration including its
// cv-qualifiers, e.g. "const char".
func (c *converter) baseType(decl, typ *sitter.Node) string {
	if typ == nil {
		return ""
	}
	var quals []string
	for i := 0; i < int(decl.NamedChildCount()); i++ {
		child := decl.NamedChild(i)
		if child.Type() == "type_qualifier" {
			quals = append(quals, c.text(child))
		}
	}
	if len(quals) == 0 {
		return c.text(typ)
	}
	return strings.Join(quals, " ") + " " + c.text(typ)
}

// qualifiers returns the cv-qualifiers attached to a pointer declarator.
func (c *converter) qualifiers(decl *sitter.Node) []string {
	var quals []string
	for i := 0; i < int(decl.NamedChildCount()); i++ {
		child := decl.NamedChild(i)
		if child.Type() == "type_qualifier" {
			quals = append(quals, c.text(child))
		}
	}
	return quals
}

func (c *converter) hasStorageClass(decl *sitter.Node, class string) bool {
	for i := 0; i < int(decl.NamedChildCount()); i++ {
		child := decl.NamedChild(i)
		if child.Type() == "storage_class_specifier" && c.text(child) == class {
			return true
		}
	}
	return false
}

// refToken returns "&" or "&&" for a reference declarator.
func refToken(decl *sitter.Node) string {
	for i := 0; i < int(decl.ChildCount()); i++ {
		if t := decl.Child(i).Type(); t == "&" || t == "&&" {
			return t
		}
	}
	return "&"
}

func lastNamed(n *sitter.Node) *sitter.Node {
	count := int(n.NamedChildCount())
	if count == 0 {
		return nil
	}
	return n.NamedChild(count - 1)
}

// firstIdentifier finds the declared name inside a nested declarator.
func firstIdentifier(n *sitter.Node) *sitter.Node {
	if n == nil {
		return nil
	}
	if n.Type() == "identifier" {
		return n
	}
	if decl := n.ChildByFieldName("declarator"); decl != nil {
		return firstIdentifier(decl)
	}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		if child.Type() == "parameter_list" {
			continue
		}
		if id := firstIdentifier(child); id != nil {
			return id
		}
	}
	return nil
}

// decorations accumulates pointer and reference suffixes in declarator
// order, spelled as "int *", "char *const *", "Widget &".
type decorations struct {
	b strings.Builder
}

func (d *decorations) pointer(quals []string) {
	d.start()
	d.b.WriteString("*")
	for _, q := range quals {
		d.b.WriteString(q)
		d.b.WriteString(" ")
	}
}

func (d *decorations) reference(token string) {
	d.start()
	d.b.WriteString(token)
}

func (d *decorations) start() {
	if d.b.Len() == 0 {
		d.b.WriteString(" ")
	}
}

func (d *decorations) String() string {
	return strings.TrimRight(d.b.String(), " ")
}
