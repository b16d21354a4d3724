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

package bridge

import (
	"net/http"

	"rivaas.dev/router"

	"rivaas.dev/endpoint"
)

// Scope returns middleware that attaches a per-request [endpoint.Resolver]
// to the request context. Injected endpoint fields are resolved from it
// before the mapping's own resolver.
//
// Example:
//
//	r.Use(bridge.Scope(func(req *http.Request) endpoint.Resolver {
//	    return container.Scope(req)
//	}))
func Scope(fn func(*http.Request) endpoint.Resolver) router.HandlerFunc {
	return func(c *router.Context) {
		if res := fn(c.Request); res != nil {
			c.Request = c.Request.WithContext(endpoint.WithRequestResolver(c.Request.Context(), res))
		}
		c.Next()
	}
}
