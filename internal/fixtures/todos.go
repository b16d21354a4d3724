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

// Todos is stateless; its handlers are bound to the zero value.
type Todos struct {
	endpoint.Base
	_ endpoint.Route `handler:"List" GET:"/todos,/maybe" TRACE:"/opts"`
	_ endpoint.Route `handler:"Create" POST:"/todos" with:"audit"`
}

func (Todos) List(c *router.Context) error {
	return c.JSON(http.StatusOK, []string{"write tests"})
}

func (Todos) Create(c *router.Context) error {
	return c.String(http.StatusCreated, "created")
}
