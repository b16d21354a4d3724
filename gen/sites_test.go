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
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"rivaas.dev/endpoint"
)

// TestLocateSites tests that MapAll calls are found at the MapAll
// identifier, whatever the import name
func TestLocateSites(t *testing.T) {
	t.Parallel()

	src := strings.Join([]string{
		"package shop",
		"",
		"import (",
		"\tep \"rivaas.dev/endpoint\"",
		"\t\"example.com/other\"",
		")",
		"",
		"func setup() {",
		"\tep.MapAll(nil, nil)",
		"\tother.MapAll(nil, nil)",
		"\t_, _ = ep.MapAll(nil, nil); _, _ = ep.MapAll(nil, nil)",
		"\t_ = ep.Map",
		"}",
	}, "\n")

	sites := locateSites("example.com/shop", File{Path: "/src/shop/setup.go", Content: []byte(src)})

	assert.Equal(t, []endpoint.CallSite{
		{Package: "example.com/shop", File: "setup.go", Line: 9, Column: 5},
		{Package: "example.com/shop", File: "setup.go", Line: 11, Column: 12},
		{Package: "example.com/shop", File: "setup.go", Line: 11, Column: 40},
	}, sites)
}

// TestLocateSites_Main tests that call sites of commands are recorded
// against package main
func TestLocateSites_Main(t *testing.T) {
	t.Parallel()

	src := "package main\n\nimport \"rivaas.dev/endpoint\"\n\nfunc main() {\n\tendpoint.MapAll(nil, nil)\n}\n"
	sites := locateSites("example.com/shop/cmd/shop", File{Path: "/src/shop/cmd/shop/main.go", Content: []byte(src)})

	assert.Equal(t, []endpoint.CallSite{{Package: "main", File: "main.go", Line: 6, Column: 11}}, sites)
}

// TestLocateSites_Unparsable tests that a file with syntax errors has no
// sites
func TestLocateSites_Unparsable(t *testing.T) {
	t.Parallel()

	assert.Empty(t, locateSites("example.com/shop", File{Path: "/src/shop/bad.go", Content: []byte("package shop\n\nfunc (")}))
	assert.Empty(t, locateSites("example.com/shop", File{Path: "/src/shop/none.go", Content: []byte("package shop\n")}))
}
