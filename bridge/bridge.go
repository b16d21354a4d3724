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

// Package bridge adapts a rivaas.dev/router Router to the registration
// surface of the endpoint package.
//
// Groups are tracked by the bridge itself: every route is registered on the
// underlying router with its full path, so routes mapped through the bridge
// behave exactly like routes registered directly.
//
// Example:
//
//	r := router.MustNew()
//	reg := endpoint.MustNewRegistry(Todos{})
//	if _, err := endpoint.MapAll(bridge.New(r), reg); err != nil {
//	    log.Fatal(err)
//	}
package bridge

import (
	"fmt"
	"log/slog"
	"sync"

	riverrors "rivaas.dev/errors"
	"rivaas.dev/router"
	"rivaas.dev/router/route"

	"rivaas.dev/endpoint"
)

// Router implements [endpoint.Router] on top of a rivaas router.
type Router struct {
	r      *router.Router
	prefix string
	state  *state
}

// state is shared by a router and all of its groups.
type state struct {
	formatter riverrors.Formatter
	logger    *slog.Logger

	mu     sync.Mutex
	routes []*Route
}

// New returns a bridge registering routes on r.
func New(r *router.Router, opts ...Option) *Router {
	st := &state{
		formatter: riverrors.NewRFC9457(""),
		logger:    router.NoopLogger(),
	}
	for _, opt := range opts {
		opt(st)
	}

	return &Router{r: r, state: st}
}

// Unwrap returns the underlying rivaas router.
func (b *Router) Unwrap() *router.Router {
	return b.r
}

// GET registers h for GET requests.
func (b *Router) GET(path string, h endpoint.Handler) endpoint.Builder {
	return b.add([]endpoint.Verb{endpoint.VerbGet}, path, h)
}

// POST registers h for POST requests.
func (b *Router) POST(path string, h endpoint.Handler) endpoint.Builder {
	return b.add([]endpoint.Verb{endpoint.VerbPost}, path, h)
}

// PUT registers h for PUT requests.
func (b *Router) PUT(path string, h endpoint.Handler) endpoint.Builder {
	return b.add([]endpoint.Verb{endpoint.VerbPut}, path, h)
}

// DELETE registers h for DELETE requests.
func (b *Router) DELETE(path string, h endpoint.Handler) endpoint.Builder {
	return b.add([]endpoint.Verb{endpoint.VerbDelete}, path, h)
}

// PATCH registers h for PATCH requests.
func (b *Router) PATCH(path string, h endpoint.Handler) endpoint.Builder {
	return b.add([]endpoint.Verb{endpoint.VerbPatch}, path, h)
}

// Handle registers h for every verb in verbs.
func (b *Router) Handle(verbs []endpoint.Verb, path string, h endpoint.Handler) endpoint.Builder {
	return b.add(verbs, path, h)
}

// Group returns a router registering under prefix, relative to b.
func (b *Router) Group(prefix string) endpoint.Router {
	return &Router{r: b.r, prefix: endpoint.JoinPath(b.prefix, prefix), state: b.state}
}

// Prefix returns the full prefix of b.
func (b *Router) Prefix() string {
	if b.prefix == "" {
		return "/"
	}

	return b.prefix
}

// Routes returns every route registered through b or any of its groups, in
// registration order.
func (b *Router) Routes() []*Route {
	b.state.mu.Lock()
	defer b.state.mu.Unlock()

	out := make([]*Route, len(b.state.routes))
	copy(out, b.state.routes)

	return out
}

// add adapts h and registers it once per verb. It panics when h has no
// supported shape, as registration happens during startup.
func (b *Router) add(verbs []endpoint.Verb, path string, h endpoint.Handler) *Route {
	hf, err := b.state.adapt(h)
	if err != nil {
		panic(fmt.Errorf("bridge: %s: %w", path, err))
	}

	rt := &Route{verbs: append([]endpoint.Verb(nil), verbs...), pattern: endpoint.JoinPath(b.prefix, path)}
	for _, v := range verbs {
		rt.routes = append(rt.routes, b.register(v, rt.pattern, hf))
	}

	b.state.mu.Lock()
	b.state.routes = append(b.state.routes, rt)
	b.state.mu.Unlock()

	b.state.logger.Debug("route registered", "verbs", verbs, "pattern", rt.pattern)

	return rt
}

func (b *Router) register(v endpoint.Verb, pattern string, hf router.HandlerFunc) *route.Route {
	switch v {
	case endpoint.VerbGet:
		return b.r.GET(pattern, hf)
	case endpoint.VerbPost:
		return b.r.POST(pattern, hf)
	case endpoint.VerbPut:
		return b.r.PUT(pattern, hf)
	case endpoint.VerbDelete:
		return b.r.DELETE(pattern, hf)
	case endpoint.VerbPatch:
		return b.r.PATCH(pattern, hf)
	case endpoint.VerbHead:
		return b.r.HEAD(pattern, hf)
	case endpoint.VerbOptions:
		return b.r.OPTIONS(pattern, hf)
	default:
		return b.r.AddRouteWithConstraints(string(v), pattern, []route.Handler{hf})
	}
}
