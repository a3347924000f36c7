// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package emit

import (
	"bytes"
	"strings"
	"testing"

	"pgregory.net/rapid"

	"github.com/petar-djukic/go-stubgen/pkg/types"
)

var typeSpellings = []string{"int", "double", "const char *", "uint8_t", "Widget &", "std::string"}

// collectionGen draws declarations with unique names so the
// generated identifiers do not overlap.
func collectionGen() *rapid.Generator[types.Collection] {
	return rapid.Custom(func(t *rapid.T) types.Collection {
		n := rapid.IntRange(0, 8).Draw(t, "count")
		var coll types.Collection
		for i := 0; i < n; i++ {
			d := types.Declaration{
				Name:       "fn" + string(rune('a'+i)),
				ReturnType: rapid.SampledFrom(append([]string{"void"}, typeSpellings...)).Draw(t, "ret"),
				Owner:      rapid.SampledFrom([]string{"", "Widget", "Engine"}).Draw(t, "owner"),
			}
			if d.ReturnType == "void" {
				d.ReturnKind = types.ReturnVoid
			}
			params := rapid.IntRange(0, 4).Draw(t, "params")
			for j := 0; j < params; j++ {
				d.Params = append(d.Params, types.Param{
					Name: "p" + string(rune('a'+j)),
					Type: rapid.SampledFrom(typeSpellings).Draw(t, "ptype"),
				})
			}
			coll.Declarations = append(coll.Declarations, d)
		}
		for _, name := range rapid.SliceOfN(rapid.SampledFrom([]string{"", "app", "detail"}), 0, 4).Draw(t, "ns") {
			coll.Namespaces = append(coll.Namespaces, types.Namespace{Name: name})
		}
		return coll
	})
}

// TestRender_Deterministic_Property proves rendering twice yields the same
// bytes.
func TestRender_Deterministic_Property(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		in := Input{StubName: "unit", IncludePath: "unit.h", Collection: collectionGen().Draw(rt, "coll")}
		if !bytes.Equal(Render(in), Render(in)) {
			rt.Fatalf("render is not deterministic")
		}
	})
}

// TestRender_ResetComplete_Property proves every declaration has exactly one
// counter reset and one hook reset.
func TestRender_ResetComplete_Property(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		in := Input{StubName: "unit", IncludePath: "unit.h", Collection: collectionGen().Draw(rt, "coll")}
		out := string(Render(in))

		for _, d := range in.Collection.Declarations {
			n := NamesFor(in.StubName, d)
			if c := strings.Count(out, "    "+n.CallCount+" = 0;\n"); c != 1 {
				rt.Fatalf("%s reset %d times", n.CallCount, c)
			}
			if c := strings.Count(out, "    "+n.Hook+" = NULL;\n"); c != 1 {
				rt.Fatalf("%s cleared %d times", n.Hook, c)
			}
		}
	})
}

// TestRender_VoidHandling_Property proves void declarations get no return
// capture, no local result, and no return statement.
func TestRender_VoidHandling_Property(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		coll := collectionGen().Draw(rt, "coll")
		for _, d := range coll.Declarations {
			in := Input{StubName: "unit", Collection: types.Collection{Declarations: []types.Declaration{d}}}
			out := string(Render(in))
			n := NamesFor(in.StubName, d)
			body := out[strings.Index(out, d.ReturnType+" "+d.QualifiedName()+"("):]

			if d.IsVoid() {
				if strings.Contains(out, n.Return) {
					rt.Fatalf("void %s has a return capture", d.Name)
				}
				if strings.Contains(body, "return") {
					rt.Fatalf("void %s body returns", d.Name)
				}
			} else {
				if !strings.Contains(out, d.ReturnType+" "+n.Return+";\n") {
					rt.Fatalf("%s lacks a return capture", d.Name)
				}
				if !strings.Contains(body, "    return "+n.Result+";\n") {
					rt.Fatalf("%s lacks a return statement", d.Name)
				}
			}
		}
	})
}

// TestRender_DeclarationOrder_Property proves stub bodies follow discovery
// order.
func TestRender_DeclarationOrder_Property(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		in := Input{StubName: "unit", Collection: collectionGen().Draw(rt, "coll")}
		out := string(Render(in))
		last := -1
		for _, d := range in.Collection.Declarations {
			pos := strings.Index(out, " "+d.QualifiedName()+"(")
			if pos <= last {
				rt.Fatalf("%s out of order", d.QualifiedName())
			}
			last = pos
		}
	})
}
