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

var (
	baseType  = reflect.TypeFor[Base]()
	routeType = reflect.TypeFor[Route]()

	registererType        = reflect.TypeFor[Registerer]()
	routeConfigurerType   = reflect.TypeFor[RouteConfigurer]()
	verbConfigurerType    = reflect.TypeFor[VerbConfigurer]()
	pathConfigurerType    = reflect.TypeFor[PathConfigurer]()
	builderConfigurerType = reflect.TypeFor[BuilderConfigurer]()
)

// description is the cached result of the capability query for one type.
type description struct {
	desc     *Descriptor // nil when the type is not an endpoint
	declErrs []*DeclarationError
	err      error // shape errors, fatal
}

func (d *description) joined() error {
	errs := make([]error, 0, len(d.declErrs)+1)
	for _, e := range d.declErrs {
		errs = append(errs, e)
	}
	errs = append(errs, d.err)

	return errors.Join(errs...)
}

// discovered is an endpoint type ready to be mapped.
type discovered struct {
	desc  *Descriptor
	typ   reflect.Type
	proto reflect.Value
}

// mapper runs the capability query for a registered candidate and returns
// its registration routine. Types that are not endpoints are unknown.
func (r *Registry) mapper(typ reflect.Type) (TypeMapper, bool) {
	d := r.describe(typ)
	if d.desc == nil {
		return TypeMapper{}, false
	}

	var tm TypeMapper
	for _, de := range d.declErrs {
		tm.Errors = append(tm.Errors, de)
	}
	if d.err != nil {
		tm.Fatal = d.err
		return tm, true
	}
	for _, m := range d.desc.Methods {
		tm.Hooks = append(tm.Hooks, m.Hooks...)
	}

	r.mu.RLock()
	e, ok := r.index[typ]
	r.mu.RUnlock()
	if !ok {
		return TypeMapper{}, false
	}
	f := discovered{desc: d.desc, typ: e.typ, proto: e.proto}
	tm.Map = func(s *Session) error {
		return mapEndpoint(s, newBinding(f))
	}

	return tm, true
}

// IsEndpoint reports whether typ is a struct that embeds [Base] directly.
func IsEndpoint(typ reflect.Type) bool {
	if typ.Kind() != reflect.Struct {
		return false
	}
	for i := 0; i < typ.NumField(); i++ {
		if isBaseField(typ.Field(i)) {
			return true
		}
	}

	return false
}

func isBaseField(f reflect.StructField) bool {
	return f.Anonymous && (f.Type == baseType || f.Type == reflect.PointerTo(baseType))
}

// describe builds the descriptor of typ from its fields and method set.
func describe(typ reflect.Type) *description {
	if !IsEndpoint(typ) {
		return &description{}
	}

	d := &Descriptor{Name: typ.Name(), PkgPath: typ.PkgPath(), Static: true}
	out := &description{desc: d}

	var markers []Marker
	for i := 0; i < typ.NumField(); i++ {
		f := typ.Field(i)
		switch {
		case isBaseField(f):
		case f.Type == routeType:
			m, errs := ParseMarker(string(f.Tag))
			for _, e := range errs {
				e.Type = d.Name
				out.declErrs = append(out.declErrs, e)
			}
			if m.Valid() {
				markers = append(markers, m)
			}
		default:
			d.Static = false
			if _, ok := f.Tag.Lookup(TagInject); ok {
				d.Injects = append(d.Injects, Injection{Field: f.Name, Type: TypeName(f.Type)})
			}
		}
	}

	ptr := reflect.PointerTo(typ)
	d.Register = ptr.Implements(registererType)
	switch {
	case ptr.Implements(routeConfigurerType):
		d.Configure = 4
	case ptr.Implements(verbConfigurerType):
		d.Configure = 3
	case ptr.Implements(pathConfigurerType):
		d.Configure = 2
	case ptr.Implements(builderConfigurerType):
		d.Configure = 1
	}

	var shapeErrs []error
	d.Methods = GroupMarkers(markers)
	for _, m := range d.Methods {
		m.Owner = d
		method, ok := ptr.MethodByName(m.Name)
		if !ok {
			shapeErrs = append(shapeErrs, &ShapeError{Type: d.Name, Method: m.Name, Err: ErrUnknownMethod})
			continue
		}
		sig := SignatureOf(method.Type, true)
		shape, err := ClassifyShape(sig)
		if err != nil {
			shapeErrs = append(shapeErrs, &ShapeError{Type: d.Name, Method: m.Name, Signature: sig.String(), Err: err})
			continue
		}
		m.Shape = shape
	}
	out.err = errors.Join(shapeErrs...)

	return out
}
