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

import (
	"errors"
	"reflect"
)

// MapAll maps every endpoint of reg onto r. When generated code has
// installed an interceptor for the calling line (see [Intercept]), the
// generated routine runs instead of runtime discovery.
//
// Example:
//
//	mapping, err := endpoint.MapAll(bridge.New(r), reg, endpoint.WithTiming(true))
func MapAll(r Router, reg *Registry, opts ...Option) (*Mapping, error) {
	if fn, _, ok := callerInterceptor(1); ok {
		return fn(r, reg, opts...)
	}

	return Map(r, reg, opts...)
}

// Map discovers the endpoints of reg and maps them onto r.
//
// Types are mapped in registration order. For each type, Register runs
// first; then, for every handler method in marker order, every declaration
// and every path, the handler is registered, tagged with [Metadata] and
// passed to the hooks named by the marker and to the type's Configure hook.
//
// Configuration and shape errors abort the mapping before any route is
// registered. Declaration errors skip the offending declaration only; they
// are joined into the returned error alongside the completed mapping.
func Map(r Router, reg *Registry, opts ...Option) (*Mapping, error) {
	return MapTypes(r, reg, reg.mapper, opts...)
}

// TypeMapper is the registration routine of one endpoint type, as built by
// discovery or emitted by the static compiler.
type TypeMapper struct {
	// Hooks lists the configuration hooks named by the type's markers.
	Hooks []string
	// Map registers the routes of the type. It may be nil.
	Map func(*Session) error
	// Errors holds declaration errors, reported after the mapping completes.
	Errors []error
	// Fatal fails the mapping before any registration.
	Fatal error
}

// MapTypes maps the candidates of reg that lookup knows onto r, in
// registration order. It is the driver behind [Map] and generated mapping
// routines, so both fail alike: before touching r on a nil router, an empty
// registry, an invalid configuration, an unknown hook or a fatal error of a
// registered type.
func MapTypes(r Router, reg *Registry, lookup func(reflect.Type) (TypeMapper, bool), opts ...Option) (*Mapping, error) {
	if r == nil {
		return nil, ErrNilRouter
	}
	if reg.Len() == 0 {
		return nil, ErrNoCandidates
	}

	var (
		mappers []TypeMapper
		hooks   []string
		fatal   []error
	)
	for _, typ := range reg.Types() {
		tm, ok := lookup(typ)
		if !ok {
			continue
		}
		if tm.Fatal != nil {
			fatal = append(fatal, tm.Fatal)
			continue
		}
		mappers = append(mappers, tm)
		hooks = append(hooks, tm.Hooks...)
	}
	if err := errors.Join(fatal...); err != nil {
		return nil, err
	}

	s, err := newSession(r, reg, hooks, opts)
	if err != nil {
		return nil, err
	}
	for _, tm := range mappers {
		if tm.Map == nil {
			continue
		}
		if err := tm.Map(s); err != nil {
			return nil, err
		}
	}
	for _, tm := range mappers {
		for _, err := range tm.Errors {
			s.Report(err)
		}
	}

	return s.Done()
}

func mapEndpoint(s *Session, b *binding) error {
	d := b.desc
	if d.Register {
		if reg, ok := b.value().(Registerer); ok {
			if err := s.Register(d.Name, reg.Register); err != nil {
				return err
			}
		}
	}

	configure, _ := ConfigureHook(b.value())
	for _, m := range d.Methods {
		h := b.target(s, m)
		for _, decl := range m.Declarations {
			for _, p := range decl.Paths {
				rb := MapVerb(s.Group(), decl.Verb, p, h)
				info := RouteInfo{Type: d.Name, Method: m.Name, Verb: decl.Verb, Path: p}
				if err := s.Bind(rb, info, m.Hooks...); err != nil {
					return err
				}
				if configure != nil {
					configure(&RouteContext{Builder: rb, Path: p, Verbs: []Verb{decl.Verb}, Method: m.Name})
				}
			}
		}
	}

	return nil
}
