// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package collect walks a parsed translation unit and records the free
// functions, instance methods, and namespaces declared in its main file.
package collect

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/petar-djukic/go-stubgen/internal/syntax"
	"github.com/petar-djukic/go-stubgen/pkg/types"
)

// action is the per-node decision of the walk.
type action int

const (
	actionSkip      action = iota // Not in the main file; ignore the subtree
	actionRecurse                 // Walk the children
	actionNamespace               // Record the namespace, then walk the children
	actionClass                   // Scan direct children for methods
	actionFunction                // Record a free function; do not descend
)

// classify decides what the walk does with a node.
func classify(n syntax.Node) action {
	if !n.InMainFile() {
		return actionSkip
	}
	switch n.Kind() {
	case syntax.KindNamespace:
		return actionNamespace
	case syntax.KindClass:
		return actionClass
	case syntax.KindFunction:
		return actionFunction
	case syntax.KindMethod, syntax.KindParam:
		// Out-of-line method definitions and stray parameters are not
		// stubbed at this level.
		return actionSkip
	default:
		return actionRecurse
	}
}

// Collector accumulates declaration records for a single run.
type Collector struct {
	log    *zap.Logger
	result types.Collection
}

// New creates a Collector. A nil logger disables logging.
func New(log *zap.Logger) *Collector {
	if log == nil {
		log = zap.NewNop()
	}
	return &Collector{log: log}
}

// Collect walks the children of root depth-first and returns the ordered
// declarations and namespaces found in the main file.
func Collect(root syntax.Node, log *zap.Logger) types.Collection {
	c := New(log)
	c.Walk(root)
	return c.Result()
}

// Walk visits the children of n. It may be called more than once; records
// keep accumulating in discovery order.
func (c *Collector) Walk(n syntax.Node) {
	for _, child := range n.Children() {
		switch classify(child) {
		case actionSkip:
		case actionRecurse:
			c.Walk(child)
		case actionNamespace:
			c.result.Namespaces = append(c.result.Namespaces, types.Namespace{Name: child.Spelling()})
			c.Walk(child)
		case actionClass:
			c.scanClass(child)
		case actionFunction:
			c.record(child, "")
		}
	}
}

// Result returns the records collected so far. The slices are copies.
func (c *Collector) Result() types.Collection {
	return types.Collection{
		Declarations: append([]types.Declaration(nil), c.result.Declarations...),
		Namespaces:   append([]types.Namespace(nil), c.result.Namespaces...),
	}
}

// scanClass records the direct instance methods of a class. Nested types,
// fields, and constructors are ignored.
func (c *Collector) scanClass(class syntax.Node) {
	owner := class.Spelling()
	for _, member := range class.Children() {
		if member.Kind() != syntax.KindMethod {
			continue
		}
		if owner == "" {
			c.exclude(member, "", "anonymous class")
			continue
		}
		if member.IsStatic() {
			c.exclude(member, owner, "static method")
			continue
		}
		c.record(member, owner)
	}
}

// record builds a Declaration for a function or method node unless policy
// excludes it.
func (c *Collector) record(fn syntax.Node, owner string) {
	if reason := excluded(fn); reason != "" {
		c.exclude(fn, owner, reason)
		return
	}

	result := fn.ResultType()
	kind := types.ReturnValue
	if result.Kind == syntax.TypeVoid {
		kind = types.ReturnVoid
	}

	c.result.Declarations = append(c.result.Declarations, types.Declaration{
		Name:       fn.Spelling(),
		ReturnType: result.Spelling,
		ReturnKind: kind,
		Owner:      owner,
		Params:     params(fn),
	})
}

// params collects the parameter children of a function node in order.
// Unnamed parameters get positional names so captures stay addressable.
func params(fn syntax.Node) []types.Param {
	var out []types.Param
	for _, child := range fn.Children() {
		if child.Kind() != syntax.KindParam {
			continue
		}
		name := child.Spelling()
		if name == "" {
			name = fmt.Sprintf("arg%d", len(out))
		}
		out = append(out, types.Param{Name: name, Type: child.Type().Spelling})
	}
	return out
}

// excluded returns the reason a function shape is not stubbed, or "".
func excluded(fn syntax.Node) string {
	switch {
	case fn.IsVariadic():
		return "variadic"
	case isOperator(fn.Spelling()):
		return "operator overload"
	case fn.Spelling() == "":
		return "unnamed"
	default:
		return ""
	}
}

// isOperator reports whether name spells an operator function such as
// "operator+" or "operator bool".
func isOperator(name string) bool {
	rest, ok := strings.CutPrefix(name, "operator")
	if !ok {
		return false
	}
	if rest == "" {
		return false
	}
	r := rest[0]
	return !(r == '_' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9')
}

func (c *Collector) exclude(fn syntax.Node, owner, reason string) {
	c.log.Debug("declaration excluded",
		zap.String("name", fn.Spelling()),
		zap.String("owner", owner),
		zap.String("reason", reason))
}
