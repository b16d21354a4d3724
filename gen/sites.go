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
	"go/parser"
	"go/token"
	"path"

	"rivaas.dev/endpoint"
)

// locateSites runs the sites stage on f: it returns the position of every
// call of endpoint.MapAll, at the MapAll identifier, in source order.
// Sites are recorded against pkgPath, or "main" for commands, and the base
// name of the file, as the runtime reports them. Files that do not parse
// have no sites; the syntax stage reports them.
func locateSites(pkgPath string, f File) []endpoint.CallSite {
	fset := token.NewFileSet()
	parsed, err := parser.ParseFile(fset, f.Path, f.Content, parser.SkipObjectResolution)
	if err != nil {
		return nil
	}

	sc := newScope("", parsed)
	pkg, file := pkgPath, path.Base(f.Path)
	if parsed.Name.Name == "main" {
		pkg = "main"
	}
	var sites []endpoint.CallSite
	ast.Inspect(parsed, func(n ast.Node) bool {
		call, ok := n.(*ast.CallExpr)
		if !ok || !sc.isEndpointRef(call.Fun, "MapAll") {
			return true
		}
		sel, _ := call.Fun.(*ast.SelectorExpr)
		at := fset.Position(sel.Sel.Pos())
		sites = append(sites, endpoint.CallSite{Package: pkg, File: file, Line: at.Line, Column: at.Column})

		return true
	})

	return sites
}
