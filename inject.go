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
	"context"
	"errors"
	"fmt"
	"reflect"
	"sync"
	"unsafe"
)

// Resolver provides dependencies by type. Implementations are typically
// backed by a dependency injection container scoped to a request.
type Resolver interface {
	Resolve(ctx context.Context, t reflect.Type) (any, error)
}

// ResolverFunc adapts a function to [Resolver].
type ResolverFunc func(ctx context.Context, t reflect.Type) (any, error)

// Resolve calls f(ctx, t).
func (f ResolverFunc) Resolve(ctx context.Context, t reflect.Type) (any, error) {
	return f(ctx, t)
}

type resolverKey struct{}

// WithRequestResolver returns a copy of ctx carrying r. Injected fields are
// resolved from the request's resolver first and from the mapping's resolver
// (see [WithResolver]) second.
func WithRequestResolver(ctx context.Context, r Resolver) context.Context {
	return context.WithValue(ctx, resolverKey{}, r)
}

// RequestResolver returns the resolver carried by ctx.
func RequestResolver(ctx context.Context) (Resolver, bool) {
	r, ok := ctx.Value(resolverKey{}).(Resolver)

	return r, ok && r != nil
}

// Services is a small, type keyed [Resolver]. It is safe for concurrent use.
type Services struct {
	mu        sync.RWMutex
	providers map[reflect.Type]func(context.Context) (any, error)
}

// NewServices returns an empty service set.
func NewServices() *Services {
	return &Services{providers: make(map[reflect.Type]func(context.Context) (any, error))}
}

// Provide registers v as the value of type T.
//
// Example:
//
//	services := endpoint.NewServices()
//	endpoint.Provide(services, store)
func Provide[T any](s *Services, v T) {
	ProvideFunc(s, func(context.Context) (T, error) { return v, nil })
}

// ProvideFunc registers fn as the constructor of type T. fn runs on every
// resolution.
func ProvideFunc[T any](s *Services, fn func(context.Context) (T, error)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.providers[reflect.TypeFor[T]()] = func(ctx context.Context) (any, error) {
		return fn(ctx)
	}
}

// Resolve implements [Resolver].
func (s *Services) Resolve(ctx context.Context, t reflect.Type) (any, error) {
	s.mu.RLock()
	fn, ok := s.providers[t]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrDependencyMissing
	}

	return fn(ctx)
}

// resolve looks t up in the request resolver, then in fallback.
func resolve(ctx context.Context, fallback Resolver, t reflect.Type) (any, error) {
	var errs []error
	for _, r := range resolvers(ctx, fallback) {
		v, err := r.Resolve(ctx, t)
		if err == nil && v != nil {
			return v, nil
		}
		if err != nil && !errors.Is(err, ErrDependencyMissing) {
			return nil, &DependencyError{Type: TypeName(t), Err: err}
		}
		if err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) == 0 {
		return nil, &DependencyError{Type: TypeName(t), Err: ErrDependencyMissing}
	}

	return nil, &DependencyError{Type: TypeName(t), Err: errors.Join(errs...)}
}

func resolvers(ctx context.Context, fallback Resolver) []Resolver {
	out := make([]Resolver, 0, 2)
	if r, ok := RequestResolver(ctx); ok {
		out = append(out, r)
	}
	if fallback != nil {
		out = append(out, fallback)
	}

	return out
}

// Inject resolves the dependency of type T for the current request and
// stores it in dst. Generated code uses it to populate injected fields.
func Inject[T any](ctx context.Context, s *Session, dst *T) error {
	t := reflect.TypeFor[T]()
	v, err := resolve(ctx, s.cfg.resolver, t)
	if err != nil {
		return err
	}
	typed, ok := v.(T)
	if !ok {
		return &DependencyError{Type: TypeName(t), Err: fmt.Errorf("%w: resolver returned %T", ErrDependencyMissing, v)}
	}
	*dst = typed

	return nil
}

// hydrate resolves every injected field of the addressable struct value v.
func hydrate(ctx context.Context, s *Session, d *Descriptor, v reflect.Value) error {
	for _, inj := range d.Injects {
		field := v.FieldByName(inj.Field)
		dep, err := resolve(ctx, s.cfg.resolver, field.Type())
		if err != nil {
			return err
		}
		dv := reflect.ValueOf(dep)
		if !dv.Type().AssignableTo(field.Type()) {
			return &DependencyError{Type: inj.Type, Err: fmt.Errorf("%w: resolver returned %s", ErrDependencyMissing, dv.Type())}
		}
		settable(field).Set(dv)
	}

	return nil
}

// settable returns a settable view of the field f of an addressable struct,
// exported or not.
func settable(f reflect.Value) reflect.Value {
	if f.CanSet() {
		return f
	}

	return reflect.NewAt(f.Type(), unsafe.Pointer(f.UnsafeAddr())).Elem()
}
