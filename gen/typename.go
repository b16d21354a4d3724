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
	"go/ast"
	"go/types"
	"path"
	"strconv"
	"strings"

	"rivaas.dev/endpoint"
)

// scope resolves identifiers of one file to canonical type names, the same
// names [endpoint.TypeName] derives from reflection.
type scope struct {
	pkgPath string
	imports map[string]string // local name to import path
}

func newScope(pkgPath string, f *ast.File) *scope {
	s := &scope{pkgPath: pkgPath, imports: make(map[string]string)}
	for _, imp := range f.Imports {
		p, err := strconv.Unquote(imp.Path.Value)
		if err != nil {
			continue
		}
		name := importName(p)
		if imp.Name != nil {
			name = imp.Name.Name
		}
		if name == "_" || name == "." {
			continue
		}
		s.imports[name] = p
	}

	return s
}

// importName guesses the package name of an import path from its last
// element, as the go tool's conventions suggest: "go-yaml" is yaml and a
// trailing major version is skipped.
func importName(p string) string {
	base := path.Base(p)
	if isMajorVersion(base) {
		if dir := path.Dir(p); dir != "." {
			base = path.Base(dir)
		}
	}
	base = strings.TrimPrefix(base, "go-")
	base = strings.TrimSuffix(base, "-go")
	if i := strings.IndexAny(base, ".-"); i > 0 {
		base = base[:i]
	}

	return base
}

func isMajorVersion(s string) bool {
	if len(s) < 2 || s[0] != 'v' {
		return false
	}
	_, err := strconv.Atoi(s[1:])

	return err == nil
}

// isEndpointRef reports whether expr is a qualified reference to name in
// package rivaas.dev/endpoint.
func (s *scope) isEndpointRef(expr ast.Expr, name string) bool {
	sel, ok := expr.(*ast.SelectorExpr)
	if !ok || sel.Sel.Name != name {
		return false
	}
	x, ok := sel.X.(*ast.Ident)

	return ok && s.imports[x.Name] == endpointPath
}

// typeName renders the type expression expr.
func (s *scope) typeName(expr ast.Expr) string {
	switch t := expr.(type) {
	case *ast.ParenExpr:
		return s.typeName(t.X)
	case *ast.StarExpr:
		return "*" + s.typeName(t.X)
	case *ast.Ellipsis:
		return "[]" + s.typeName(t.Elt)
	case *ast.ArrayType:
		if t.Len == nil {
			return "[]" + s.typeName(t.Elt)
		}
	case *ast.Ident:
		if types.Universe.Lookup(t.Name) != nil {
			return t.Name
		}
		return s.pkgPath + "." + t.Name
	case *ast.SelectorExpr:
		if x, ok := t.X.(*ast.Ident); ok {
			if p, ok := s.imports[x.Name]; ok {
				return p + "." + t.Sel.Name
			}
		}
	case *ast.InterfaceType:
		if t.Methods == nil || len(t.Methods.List) == 0 {
			return "any"
		}
	}

	return types.ExprString(expr)
}

// signature renders the parameters and results of fn.
func (s *scope) signature(fn *ast.FuncType) endpoint.Signature {
	var sig endpoint.Signature
	if fn.Params != nil {
		for _, f := range fn.Params.List {
			if _, ok := f.Type.(*ast.Ellipsis); ok {
				sig.Variadic = true
			}
			name := s.typeName(f.Type)
			for range max(1, len(f.Names)) {
				sig.Params = append(sig.Params, name)
			}
		}
	}
	if fn.Results != nil {
		for _, f := range fn.Results.List {
			name := s.typeName(f.Type)
			for range max(1, len(f.Names)) {
				sig.Results = append(sig.Results, name)
			}
		}
	}

	return sig
}
