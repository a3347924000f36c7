// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package types defines the declaration model shared by the collector,
// the emitter, and the public stubgen API.
package types

// ReturnKind classifies a declaration's return type as far as stub
// generation cares: void returns get no capture variable and no return
// statement.
type ReturnKind int

const (
	ReturnValue ReturnKind = iota // Any non-void return type
	ReturnVoid                    // void
)

// String returns the human-readable name of the return kind.
func (k ReturnKind) String() string {
	switch k {
	case ReturnValue:
		return "Value"
	case ReturnVoid:
		return "Void"
	default:
		return "Unknown"
	}
}

// Param is one function parameter in declaration order.
type Param struct {
	Name string // Parameter identifier
	Type string // Type spelling as written in source
}

// Declaration describes one free function or instance method discovered in
// the scanned file. It is built once by the collector and never mutated
// afterwards.
type Declaration struct {
	Name       string     // Function or method identifier
	ReturnType string     // Return type spelling
	ReturnKind ReturnKind // Void or non-void
	Owner      string     // Class name; empty for free functions
	Params     []Param    // Parameters in declaration order
}

// IsMethod reports whether the declaration belongs to a class.
func (d Declaration) IsMethod() bool {
	return d.Owner != ""
}

// IsVoid reports whether the declaration returns nothing.
func (d Declaration) IsVoid() bool {
	return d.ReturnKind == ReturnVoid
}

// QualifiedName returns Owner::Name for methods and Name for free functions.
func (d Declaration) QualifiedName() string {
	if d.Owner == "" {
		return d.Name
	}
	return d.Owner + "::" + d.Name
}

// Namespace records the spelling of a namespace declared in the scanned
// file. Anonymous namespaces have an empty Name.
type Namespace struct {
	Name string
}

// Collection is the ordered output of one collector pass. Both slices are
// append-only and preserve depth-first discovery order.
type Collection struct {
	Declarations []Declaration
	Namespaces   []Namespace
}
