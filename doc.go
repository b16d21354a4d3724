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

// Package endpoint maps declaratively described HTTP endpoints onto a router.
//
// An endpoint is a struct that embeds [Base] and declares its routes with
// blank [Route] marker fields. Each marker names a handler method and lists
// one or more paths per HTTP verb in its struct tag:
//
//	type Todos struct {
//	    endpoint.Base
//	    _ endpoint.Route `handler:"List" GET:"/todos,/maybe" TRACE:"/opts"`
//	    _ endpoint.Route `handler:"Create" POST:"/todos" with:"auth"`
//	}
//
//	func (Todos) List(c *router.Context) error   { ... }
//	func (Todos) Create(c *router.Context) error { ... }
//
// The declarations above produce four registrations, in order:
// GET /todos, GET /maybe, TRACE /opts and POST /todos.
//
// # Two Engines
//
// Routes are registered either at startup by the runtime engine ([Map]),
// which inspects registered types with reflection, or by code generated ahead
// of time by the endpointgen command, which analyzes the package source and
// emits direct, statically typed registration calls. Both engines share the
// tag grammar, the handler shape rules and the [Session] that drives
// registration, so they produce the same routes in the same order.
//
// [MapAll] is the entry point meant for application code. When generated code
// has installed an interceptor for the calling source line, MapAll runs the
// generated routine; otherwise it falls back to [Map].
//
// # Quick Start
//
//	package main
//
//	import (
//	    "net/http"
//
//	    "rivaas.dev/endpoint"
//	    "rivaas.dev/endpoint/bridge"
//	    "rivaas.dev/router"
//	)
//
//	func main() {
//	    r := router.MustNew()
//	    reg := endpoint.MustNewRegistry(Todos{})
//
//	    if _, err := endpoint.MapAll(bridge.New(r), reg, endpoint.WithPrefix("/api")); err != nil {
//	        panic(err)
//	    }
//
//	    http.ListenAndServe(":8080", r)
//	}
//
// # Handler Shapes
//
// Handler methods must have one of the following signatures once the receiver
// is removed:
//
//	func(*router.Context)
//	func(*router.Context) error
//	func(*router.Context) (T, error)
//	func(http.ResponseWriter, *http.Request)
//	func(http.ResponseWriter, *http.Request) error
//
// Any other signature is reported as a [ShapeError] before a single route is
// registered.
//
// # Configuration Hooks
//
// After a route is registered, its [Builder] is passed to the hooks named in
// the marker's "with" key (see [WithHook]) and then to the type's Configure
// method, if it has one. Configure may take one of four forms, from the most
// to the least specific:
//
//	Configure(b endpoint.Builder, path string, verbs []endpoint.Verb, method string)
//	Configure(b endpoint.Builder, path string, verbs []endpoint.Verb)
//	Configure(b endpoint.Builder, path string)
//	Configure(b endpoint.Builder)
//
// A type may also implement Register(endpoint.Router) to add routes that
// cannot be expressed with markers. Register runs before the type's marker
// routes are mapped.
//
// # Dependencies
//
// Fields tagged `inject:""` are resolved for every request from the request's
// [Resolver] (see [WithRequestResolver]) or the one given to [WithResolver].
// Each request works on its own copy of the endpoint, so handlers of such
// types are safe for concurrent use.
package endpoint
