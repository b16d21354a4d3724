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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rivaas.dev/endpoint"
)

func testScope() *scope {
	return &scope{
		pkgPath: "example.com/shop",
		imports: map[string]string{
			"rt":       "rivaas.dev/router",
			"http":     "net/http",
			"endpoint": endpointPath,
		},
	}
}

// TestImportName tests package name guessing from import paths
func TestImportName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path string
		want string
	}{
		{path: "net/http", want: "http"},
		{path: "rivaas.dev/router", want: "router"},
		{path: "github.com/cespare/xxhash/v2", want: "xxhash"},
		{path: "github.com/goccy/go-yaml", want: "yaml"},
		{path: "gopkg.in/yaml.v3", want: "yaml"},
		{path: "github.com/mattn/go-isatty", want: "isatty"},
		{path: "example.com/client-go", want: "client"},
		{path: "v2", want: "v2"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, importName(tt.path))
		})
	}
}

// TestScope_TypeName tests that type expressions render to the names
// reflection produces
func TestScope_TypeName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		expr string
		want string
	}{
		{expr: "*rt.Context", want: "*rivaas.dev/router.Context"},
		{expr: "http.ResponseWriter", want: "net/http.ResponseWriter"},
		{expr: "*http.Request", want: "*net/http.Request"},
		{expr: "error", want: "error"},
		{expr: "any", want: "any"},
		{expr: "interface{}", want: "any"},
		{expr: "[]endpoint.Verb", want: "[]rivaas.dev/endpoint.Verb"},
		{expr: "User", want: "example.com/shop.User"},
		{expr: "(*User)", want: "*example.com/shop.User"},
		{expr: "map[string]int", want: "map[string]int"},
		{expr: "[4]byte", want: "[4]byte"},
		{expr: "unknown.Thing", want: "unknown.Thing"},
	}

	sc := testScope()
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			t.Parallel()

			expr, err := parser.ParseExpr(tt.expr)
			require.NoError(t, err)
			assert.Equal(t, tt.want, sc.typeName(expr))
		})
	}
}

// TestScope_Signature tests that parameters and results are expanded per
// name
func TestScope_Signature(t *testing.T) {
	t.Parallel()

	src := `package shop

func (Shop) A(c *rt.Context) (*User, error) { return nil, nil }
func (Shop) B(w http.ResponseWriter, r *http.Request) {}
func (Shop) C(a, b string, rest ...int) (n int, err error) { return }
`
	file, err := parser.ParseFile(token.NewFileSet(), "shop.go", src, 0)
	require.NoError(t, err)

	sc := testScope()
	var sigs []endpoint.Signature
	for _, decl := range file.Decls {
		fn, ok := decl.(*ast.FuncDecl)
		require.True(t, ok)
		sigs = append(sigs, sc.signature(fn.Type))
	}

	assert.Equal(t, []endpoint.Signature{
		{Params: []string{"*rivaas.dev/router.Context"}, Results: []string{"*example.com/shop.User", "error"}},
		{Params: []string{"net/http.ResponseWriter", "*net/http.Request"}},
		{Params: []string{"string", "string", "[]int"}, Results: []string{"int", "error"}, Variadic: true},
	}, sigs)
}

// TestNewScope tests that import aliases are honored and blank and dot
// imports ignored
func TestNewScope(t *testing.T) {
	t.Parallel()

	src := `package shop

import (
	"net/http"
	ep "rivaas.dev/endpoint"
	_ "embed"
	. "strings"
	"github.com/goccy/go-yaml"
)
`
	file, err := parser.ParseFile(token.NewFileSet(), "shop.go", src, parser.ImportsOnly)
	require.NoError(t, err)

	sc := newScope("example.com/shop", file)
	assert.Equal(t, map[string]string{
		"http": "net/http",
		"ep":   endpointPath,
		"yaml": "github.com/goccy/go-yaml",
	}, sc.imports)

	sel, err := parser.ParseExpr("ep.Base")
	require.NoError(t, err)
	assert.True(t, sc.isEndpointRef(sel, "Base"))
	assert.False(t, sc.isEndpointRef(sel, "Route"))

	other, err := parser.ParseExpr("http.Base")
	require.NoError(t, err)
	assert.False(t, sc.isEndpointRef(other, "Base"))
}
