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
	"fmt"
	"reflect"
	"sync"
)

// Registry holds the candidate endpoint types of an application together
// with the prototype value each is instantiated from. Candidates keep their
// registration order, which is the order the runtime engine maps them in.
//
// A Registry is built during setup and passed to [Map] or [MapAll]; there is
// no package level registry. It is safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	entries []*entry
	index   map[reflect.Type]*entry
	cache   map[reflect.Type]*description
}

type entry struct {
	typ   reflect.Type
	proto reflect.Value
}

// NewRegistry returns a registry holding candidates. See [Registry.Add].
func NewRegistry(candidates ...any) (*Registry, error) {
	r := &Registry{
		index: make(map[reflect.Type]*entry),
		cache: make(map[reflect.Type]*description),
	}
	if err := r.Add(candidates...); err != nil {
		return nil, err
	}

	return r, nil
}

// MustNewRegistry is like [NewRegistry] but panics on error.
func MustNewRegistry(candidates ...any) *Registry {
	r, err := NewRegistry(candidates...)
	if err != nil {
		panic(err)
	}

	return r
}

// Add registers candidates. A candidate is a struct value or a pointer to a
// struct; its current value becomes the prototype every endpoint instance is
// copied from. A nil pointer registers the type with a zero prototype.
// Candidates that do not embed [Base] are accepted and skipped by discovery.
// A type registered twice keeps its first prototype.
func (r *Registry) Add(candidates ...any) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, c := range candidates {
		typ, proto, err := prototypeOf(c)
		if err != nil {
			return err
		}
		if _, ok := r.index[typ]; ok {
			continue
		}
		e := &entry{typ: typ, proto: proto}
		r.entries = append(r.entries, e)
		r.index[typ] = e
	}

	return nil
}

// Len returns the number of registered candidates.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.entries)
}

// Types returns the registered candidate types in registration order.
func (r *Registry) Types() []reflect.Type {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]reflect.Type, len(r.entries))
	for i, e := range r.entries {
		out[i] = e.typ
	}

	return out
}

// Describe returns the descriptor of the endpoint type of v, which may be a
// value, a pointer or a [reflect.Type]. The result is computed once per type
// and cached. It returns nil and no error when the type is not an endpoint;
// declaration and shape errors are joined into the returned error.
func (r *Registry) Describe(v any) (*Descriptor, error) {
	typ, ok := v.(reflect.Type)
	if !ok {
		typ = reflect.TypeOf(v)
	}
	for typ != nil && typ.Kind() == reflect.Pointer {
		typ = typ.Elem()
	}
	if typ == nil {
		return nil, ErrInvalidCandidate
	}
	d := r.describe(typ)

	return d.desc, d.joined()
}

// describe is the cached capability query.
func (r *Registry) describe(typ reflect.Type) *description {
	r.mu.RLock()
	d, ok := r.cache[typ]
	r.mu.RUnlock()
	if ok {
		return d
	}

	d = describe(typ)

	r.mu.Lock()
	defer r.mu.Unlock()
	if cached, ok := r.cache[typ]; ok {
		return cached
	}
	r.cache[typ] = d

	return d
}

// Prototype returns a copy of the prototype registered for T, or the zero
// value of T when reg is nil or T is not registered.
func Prototype[T any](reg *Registry) T {
	var zero T
	if reg == nil {
		return zero
	}
	reg.mu.RLock()
	e, ok := reg.index[reflect.TypeFor[T]()]
	reg.mu.RUnlock()
	if !ok {
		return zero
	}

	return e.proto.Interface().(T)
}

func prototypeOf(c any) (reflect.Type, reflect.Value, error) {
	v := reflect.ValueOf(c)
	if !v.IsValid() {
		return nil, reflect.Value{}, fmt.Errorf("%w: <nil>", ErrInvalidCandidate)
	}
	typ := v.Type()
	if typ.Kind() == reflect.Pointer {
		typ = typ.Elem()
		if typ.Kind() != reflect.Struct {
			return nil, reflect.Value{}, fmt.Errorf("%w: %s", ErrInvalidCandidate, v.Type())
		}
		if v.IsNil() {
			return typ, reflect.Zero(typ), nil
		}
		v = v.Elem()
	}
	if typ.Kind() != reflect.Struct {
		return nil, reflect.Value{}, fmt.Errorf("%w: %s", ErrInvalidCandidate, typ)
	}

	proto := reflect.New(typ).Elem()
	proto.Set(v)

	return typ, proto, nil
}
