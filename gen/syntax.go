// Copyright 2025 The Rivaas Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package gen

import (
	"errors"
	"go/ast"
	"go/parser"
	"go/scanner"
	"go/token"
	"go/types"
	"reflect"
	"strconv"

	"rivaas.dev/endpoint"
)

const endpointPath = "rivaas.dev/endpoint"

// fileSyntax is the result of the syntax stage for one file.
type fileSyntax struct {
	Path        string
	Package     string
	Candidates  []candidate
	Structs     []structDecl
	Methods     []methodDecl
	Diagnostics []Diagnostic
}

// structDecl lists the embedded fields of a struct type of the package.
type structDecl struct {
	Name   string
	Embeds []embedField
}

// embedField is an embedded field other than endpoint.Base. Local fields
// name a type of the package; the methods of others are not visible.
type embedField struct {
	Type  string
	Local bool
	Pos   Position
}

// candidate is a struct type embedding endpoint.Base.
type candidate struct {
	Name    string
	Pos     Position
	Static  bool
	Markers []markerField
	Injects []endpoint.Injection
}

// markerField is an endpoint.Route field and its raw tag.
type markerField struct {
	Tag string
	Pos Position
}

// methodDecl is an exported method of a named type of the package.
type methodDecl struct {
	Recv      string
	Name      string
	Pos       Position
	Signature endpoint.Signature
}

// parseSyntax runs the syntax stage on f.
func parseSyntax(pkgPath string, f File) *fileSyntax {
	out := &fileSyntax{Path: f.Path}

	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, f.Path, f.Content, parser.SkipObjectResolution)
	if err != nil {
		out.Diagnostics = append(out.Diagnostics, parseDiagnostic(f.Path, err))
		return out
	}
	out.Package = file.Name.Name

	sc := newScope(pkgPath, file)
	pos := func(p token.Pos) Position {
		at := fset.Position(p)
		return Position{File: f.Path, Line: at.Line, Column: at.Column}
	}

	for _, decl := range file.Decls {
		switch d := decl.(type) {
		case *ast.GenDecl:
			if d.Tok != token.TYPE {
				continue
			}
			for _, spec := range d.Specs {
				ts, ok := spec.(*ast.TypeSpec)
				if !ok || ts.TypeParams != nil || ts.Assign.IsValid() {
					continue
				}
				st, ok := ts.Type.(*ast.StructType)
				if !ok {
					continue
				}
				if c, ok := candidateOf(sc, ts.Name.Name, st, pos); ok {
					c.Pos = pos(ts.Name.Pos())
					out.Candidates = append(out.Candidates, c)
				}
				if embeds := embedsOf(sc, st, pos); len(embeds) > 0 {
					out.Structs = append(out.Structs, structDecl{Name: ts.Name.Name, Embeds: embeds})
				}
			}
		case *ast.FuncDecl:
			recv, ok := receiverName(d)
			if !ok || !d.Name.IsExported() {
				continue
			}
			out.Methods = append(out.Methods, methodDecl{
				Recv:      recv,
				Name:      d.Name.Name,
				Pos:       pos(d.Name.Pos()),
				Signature: sc.signature(d.Type),
			})
		}
	}

	return out
}

func parseDiagnostic(path string, err error) Diagnostic {
	d := Diagnostic{
		Severity: SeverityError,
		Kind:     DiagParse,
		Pos:      Position{File: path},
		Message:  err.Error(),
	}
	var list scanner.ErrorList
	if errors.As(err, &list) && len(list) > 0 {
		d.Pos.Line, d.Pos.Column = list[0].Pos.Line, list[0].Pos.Column
		d.Message = list[0].Msg
	}

	return d
}

// candidateOf inspects the fields of st. It reports false when st does not
// embed endpoint.Base.
func candidateOf(sc *scope, name string, st *ast.StructType, pos func(token.Pos) Position) (candidate, bool) {
	c := candidate{Name: name, Static: true}
	isEndpoint := false
	for _, f := range st.Fields.List {
		tag := ""
		if f.Tag != nil {
			if t, err := strconv.Unquote(f.Tag.Value); err == nil {
				tag = t
			}
		}

		switch {
		case len(f.Names) == 0 && isBase(sc, f.Type):
			isEndpoint = true
		case sc.isEndpointRef(f.Type, "Route"):
			for range max(1, len(f.Names)) {
				c.Markers = append(c.Markers, markerField{Tag: tag, Pos: pos(f.Pos())})
			}
		default:
			c.Static = false
			if _, ok := reflect.StructTag(tag).Lookup(endpoint.TagInject); !ok {
				continue
			}
			typ := sc.typeName(f.Type)
			for _, n := range fieldNames(f) {
				c.Injects = append(c.Injects, endpoint.Injection{Field: n, Type: typ})
			}
		}
	}

	return c, isEndpoint
}

// embedsOf returns the embedded fields of st through which methods may be
// promoted.
func embedsOf(sc *scope, st *ast.StructType, pos func(token.Pos) Position) []embedField {
	var out []embedField
	for _, f := range st.Fields.List {
		if len(f.Names) > 0 || isBase(sc, f.Type) || sc.isEndpointRef(f.Type, "Route") {
			continue
		}
		expr := f.Type
		if star, ok := expr.(*ast.StarExpr); ok {
			expr = star.X
		}
		e := embedField{Type: sc.typeName(expr), Pos: pos(f.Pos())}
		if id, ok := expr.(*ast.Ident); ok && types.Universe.Lookup(id.Name) == nil {
			e.Type, e.Local = id.Name, true
		}
		out = append(out, e)
	}

	return out
}

func isBase(sc *scope, expr ast.Expr) bool {
	if star, ok := expr.(*ast.StarExpr); ok {
		expr = star.X
	}

	return sc.isEndpointRef(expr, "Base")
}

// fieldNames returns the names a field declares; an embedded field is named
// after its type.
func fieldNames(f *ast.Field) []string {
	if len(f.Names) > 0 {
		names := make([]string, len(f.Names))
		for i, n := range f.Names {
			names[i] = n.Name
		}
		return names
	}

	expr := f.Type
	if star, ok := expr.(*ast.StarExpr); ok {
		expr = star.X
	}
	switch t := expr.(type) {
	case *ast.Ident:
		return []string{t.Name}
	case *ast.SelectorExpr:
		return []string{t.Sel.Name}
	default:
		return []string{types.ExprString(t)}
	}
}

// receiverName returns the base type name of a method receiver. Methods of
// generic types are skipped.
func receiverName(fn *ast.FuncDecl) (string, bool) {
	if fn.Recv == nil || len(fn.Recv.List) != 1 {
		return "", false
	}
	expr := fn.Recv.List[0].Type
	if star, ok := expr.(*ast.StarExpr); ok {
		expr = star.X
	}
	id, ok := expr.(*ast.Ident)
	if !ok {
		return "", false
	}

	return id.Name, true
}
