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

package fixtures

import (
	"net/http"
	"strings"

	"rivaas.dev/router"

	"rivaas.dev/endpoint"
)

// Multi maps one handler on several verbs and paths and configures each
// route from the full route context.
type Multi struct {
	endpoint.Base
	_ endpoint.Route `handler:"Handle" GET:"/multi,/multi/2" DELETE:"/multi/2"`
	_ endpoint.Route `handler:"Create" POST:"/multi/3" with:"audit"`
}

func (Multi) Handle(c *router.Context) error {
	return c.String(http.StatusOK, c.Request.Method+" "+c.Request.URL.Path)
}

func (Multi) Create(c *router.Context) error {
	return c.String(http.StatusCreated, "created")
}

// Configure describes every route as "<method> <verbs> <path>".
func (Multi) Configure(b endpoint.Builder, path string, verbs []endpoint.Verb, method string) {
	names := make([]string, len(verbs))
	for i, v := range verbs {
		names[i] = string(v)
	}
	b.SetDescription(method + " " + strings.Join(names, ",") + " " + path)
	if path == "/multi/3" {
		b.SetName("multi.create")
	}
}
