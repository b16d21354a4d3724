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

	"rivaas.dev/router"

	"rivaas.dev/endpoint"
)

// Listing serves a fixed list of items. Endpoints embed it to share the
// handler together with its route configuration.
type Listing struct {
	items []string
}

// List writes the items as JSON.
func (l Listing) List(c *router.Context) error {
	return c.JSON(http.StatusOK, l.items)
}

// Configure tags every route of the embedding endpoint.
func (Listing) Configure(b endpoint.Builder, path string) {
	b.SetTags("listing", path)
}

// Widgets is served by methods promoted from Listing.
type Widgets struct {
	endpoint.Base
	Listing
	_ endpoint.Route `handler:"List" GET:"/widgets"`
}
