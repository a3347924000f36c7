// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package syntax defines the parsed-tree interface consumed by the
// declaration collector, independent of the C/C++ front end that produced
// it. Backends live in subpackages and convert their native trees into
// Cursor values with owned strings.
package syntax

// Kind identifies the category of a syntax node. Only the kinds relevant
// to stub generation are distinguished; everything else is KindOther.
type Kind int

const (
	KindOther     Kind = iota // Any node the collector does not model
	KindNamespace             // namespace declaration
	KindClass                 // class or struct declaration
	KindFunction              // free function declaration
	KindMethod                // instance or static method declaration
	KindParam                 // function parameter declaration
)

// String returns the human-readable name of the node kind.
func (k Kind) String() string {
	switch k {
	case KindOther:
		return "Other"
	case KindNamespace:
		return "Namespace"
	case KindClass:
		return "Class"
	case KindFunction:
		return "Function"
	case KindMethod:
		return "Method"
	case KindParam:
		return "Param"
	default:
		return "Unknown"
	}
}

// TypeKind is the coarse classification of a type.
type TypeKind int

const (
	TypeInvalid TypeKind = iota // Node carries no type
	TypeVoid                    // void
	TypeOther                   // Any other spelled type
)

// Type is a type spelling with its coarse kind.
type Type struct {
	Spelling string
	Kind     TypeKind
}

// SpelledType builds a Type from its spelling, classifying "void" as
// TypeVoid and anything else non-empty as TypeOther.
func SpelledType(spelling string) Type {
	switch spelling {
	case "":
		return Type{}
	case "void":
		return Type{Spelling: spelling, Kind: TypeVoid}
	default:
		return Type{Spelling: spelling, Kind: TypeOther}
	}
}

// Node is the per-node query surface of a parsed translation unit.
type Node interface {
	// Kind returns the node category.
	Kind() Kind
	// Spelling returns the declared identifier; empty for anonymous nodes.
	Spelling() string
	// Type returns the node's own type. For parameters this is the
	// parameter type.
	Type() Type
	// ResultType returns the return type of function and method nodes.
	ResultType() Type
	// InMainFile reports whether the node is written in the file that was
	// requested for parsing rather than in an included file.
	InMainFile() bool
	// IsStatic reports a static storage class.
	IsStatic() bool
	// IsVariadic reports a C-style variadic parameter list.
	IsVariadic() bool
	// Children returns the direct children in source order.
	Children() []Node
}

// Cursor is the concrete Node produced by the backends. All strings are
// owned copies; nothing refers back into the front end's memory.
type Cursor struct {
	NodeKind Kind
	Name     string
	OwnType  Type
	Result   Type
	MainFile bool
	Static   bool
	Variadic bool
	Inner    []*Cursor
}

// Verify interface compliance at compile time.
var _ Node = (*Cursor)(nil)

func (c *Cursor) Kind() Kind { return c.NodeKind }
func (c *Cursor) Spelling() string { return c.Name }
func (c *Cursor) Type() Type { return c.OwnType }
func (c *Cursor) ResultType() Type { return c.Result }
func (c *Cursor) InMainFile() bool { return c.MainFile }
func (c *Cursor) IsStatic() bool { return c.Static }
func (c *Cursor) IsVariadic() bool { return c.Variadic }

// Children returns the child cursors as Nodes.
func (c *Cursor) Children() []Node {
	if len(c.Inner) == 0 {
		return nil
	}
	nodes := make([]Node, len(c.Inner))
	for i, child := range c.Inner {
		nodes[i] = child
	}
	return nodes
}

// Append adds children and returns the cursor for chaining.
func (c *Cursor) Append(children ...*Cursor) *Cursor {
	c.Inner = append(c.Inner, children...)
	return c
}
