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
	"net/http"
	"reflect"

	"rivaas.dev/router"
)

var errorType = reflect.TypeFor[error]()

// binding is the instance the handlers of one endpoint type are bound to
// for the lifetime of a mapping.
type binding struct {
	desc *Descriptor
	inst reflect.Value // *T holding a copy of the prototype
}

func newBinding(f discovered) *binding {
	inst := reflect.New(f.typ)
	inst.Elem().Set(f.proto)

	return &binding{desc: f.desc, inst: inst}
}

// value returns the bound instance as *T.
func (b *binding) value() any {
	return b.inst.Interface()
}

// target builds the dispatch target of m. The returned value has the
// method's exact signature without the receiver.
//
// Handlers of static and stateful types are method values on the bound
// instance. Handlers of types with injected fields are wrappers that, for
// every call, copy the bound instance, resolve its dependencies and invoke
// the method on the copy.
func (b *binding) target(s *Session, m *MethodDescriptor) Handler {
	bound := b.inst.MethodByName(m.Name)
	if !b.desc.Rehydrates() {
		return bound.Interface()
	}

	method, _ := b.inst.Type().MethodByName(m.Name)
	fnType := bound.Type()
	elem := b.inst.Type().Elem()

	return reflect.MakeFunc(fnType, func(args []reflect.Value) []reflect.Value {
		w, req := requestOf(m.Shape, args)
		fresh := reflect.New(elem)
		fresh.Elem().Set(b.inst.Elem())
		if err := hydrate(req.Context(), s, b.desc, fresh.Elem()); err != nil {
			return failed(s, m.Shape, fnType, w, req, err)
		}

		return fresh.Method(method.Index).Call(args)
	}).Interface()
}

func requestOf(shape Shape, args []reflect.Value) (http.ResponseWriter, *http.Request) {
	switch shape {
	case ShapeContext, ShapeContextError, ShapeContextValue:
		c, _ := args[0].Interface().(*router.Context)
		return c.Response, c.Request
	default:
		w, _ := args[0].Interface().(http.ResponseWriter)
		req, _ := args[1].Interface().(*http.Request)
		return w, req
	}
}

// failed produces the results of a handler whose endpoint could not be
// prepared. Error returning shapes hand the error to the router; the others
// write it as the response.
func failed(s *Session, shape Shape, fnType reflect.Type, w http.ResponseWriter, req *http.Request, err error) []reflect.Value {
	if !shape.ReturnsError() {
		s.Fail(w, req, err)
		return nil
	}

	out := make([]reflect.Value, fnType.NumOut())
	for i := range out {
		out[i] = reflect.Zero(fnType.Out(i))
	}
	ev := reflect.New(errorType).Elem()
	ev.Set(reflect.ValueOf(err))
	out[len(out)-1] = ev

	return out
}
