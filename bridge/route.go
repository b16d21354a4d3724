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
	"strings"

	"rivaas.dev/router/route"

	"rivaas.dev/endpoint"
)

// Route is the [endpoint.Builder] of a registration. It fronts one rivaas
// route per verb.
type Route struct {
	verbs    []endpoint.Verb
	pattern  string
	routes   []*route.Route
	metadata []any
}

// Verbs returns the verbs of the registration.
func (r *Route) Verbs() []endpoint.Verb {
	return append([]endpoint.Verb(nil), r.verbs...)
}

// Pattern returns the full path of the registration.
func (r *Route) Pattern() string {
	return r.pattern
}

// WithMetadata appends items to the route metadata.
func (r *Route) WithMetadata(items ...any) endpoint.Builder {
	r.metadata = append(r.metadata, items...)
	return r
}

// Metadata returns the route metadata.
func (r *Route) Metadata() []any {
	return append([]any(nil), r.metadata...)
}

// SetName names the underlying route. Route names are unique per router, so
// a registration spanning several verbs names each route "<name>:<verb>".
// Like rivaas, it panics on a duplicate name.
func (r *Route) SetName(name string) endpoint.Builder {
	if len(r.routes) == 1 {
		r.routes[0].SetName(name)
		return r
	}
	for _, rr := range r.routes {
		rr.SetName(name + ":" + strings.ToLower(rr.Method()))
	}

	return r
}

// SetDescription sets the description of the underlying routes.
func (r *Route) SetDescription(desc string) endpoint.Builder {
	for _, rr := range r.routes {
		rr.SetDescription(desc)
	}

	return r
}

// SetTags adds tags to the underlying routes.
func (r *Route) SetTags(tags ...string) endpoint.Builder {
	for _, rr := range r.routes {
		rr.SetTags(tags...)
	}

	return r
}

// Routes returns the underlying rivaas routes, one per verb.
func (r *Route) Routes() []*route.Route {
	return append([]*route.Route(nil), r.routes...)
}
