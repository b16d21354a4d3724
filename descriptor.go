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

package endpoint

import "slices"

// Descriptor describes an endpoint type: its capabilities and its declared
// handler methods. Both the runtime engine and the static compiler produce
// descriptors; two descriptors of the same type are equal field by field.
type Descriptor struct {
	Name    string
	PkgPath string

	// Static is set when the type has no state besides its markers, so its
	// handlers can be bound to the zero value.
	Static bool
	// Register is set when the type has a Register(Router) hook.
	Register bool
	// Configure is the arity of the type's Configure hook, 0 when absent.
	Configure int

	Injects []Injection
	Methods []*MethodDescriptor
}

// Injection is a field resolved per request.
type Injection struct {
	Field string
	Type  string // canonical type name
}

// MethodDescriptor describes a handler method and the routes declared for it.
type MethodDescriptor struct {
	Name         string
	Shape        Shape
	Declarations []Declaration
	Hooks        []string

	Owner *Descriptor `json:"-"`
}

// RouteInfo identifies one (verb, path) registration of a handler method.
// Path is the path as declared, relative to the mapping prefix.
type RouteInfo struct {
	Type   string
	Method string
	Verb   Verb
	Path   string
}

// String returns the package qualified type name.
func (d *Descriptor) String() string {
	if d.PkgPath == "" {
		return d.Name
	}

	return d.PkgPath + "." + d.Name
}

// Rehydrates reports whether handlers of the type need a fresh instance per
// request.
func (d *Descriptor) Rehydrates() bool {
	return len(d.Injects) > 0
}

// Routes returns the routes declared by d in registration order: methods in
// marker order, then declarations, then paths.
func (d *Descriptor) Routes() []RouteInfo {
	var out []RouteInfo
	for _, m := range d.Methods {
		for _, decl := range m.Declarations {
			for _, p := range decl.Paths {
				out = append(out, RouteInfo{Type: d.Name, Method: m.Name, Verb: decl.Verb, Path: p})
			}
		}
	}

	return out
}

// GroupMarkers merges markers naming the same handler into one method
// descriptor per handler, in order of first appearance. Hooks are merged
// without repetition. Shapes are left unset.
func GroupMarkers(markers []Marker) []*MethodDescriptor {
	var (
		out   []*MethodDescriptor
		index = make(map[string]*MethodDescriptor)
	)
	for _, m := range markers {
		md, ok := index[m.Handler]
		if !ok {
			md = &MethodDescriptor{Name: m.Handler}
			index[m.Handler] = md
			out = append(out, md)
		}
		md.Declarations = append(md.Declarations, m.Declarations...)
		for _, h := range m.Hooks {
			if !slices.Contains(md.Hooks, h) {
				md.Hooks = append(md.Hooks, h)
			}
		}
	}

	return out
}
