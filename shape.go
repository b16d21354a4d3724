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
	"reflect"
	"strings"
)

// Shape classifies a handler signature. The router bridge dispatches each
// shape through its own adapter.
type Shape int

// Handler shapes, as signatures without the receiver.
const (
	ShapeInvalid      Shape = iota
	ShapeContext            // func(*router.Context)
	ShapeContextError       // func(*router.Context) error
	ShapeContextValue       // func(*router.Context) (T, error)
	ShapeHTTP               // func(http.ResponseWriter, *http.Request)
	ShapeHTTPError          // func(http.ResponseWriter, *http.Request) error
)

var shapeNames = [...]string{
	ShapeInvalid:      "invalid",
	ShapeContext:      "context",
	ShapeContextError: "context-error",
	ShapeContextValue: "context-value",
	ShapeHTTP:         "http",
	ShapeHTTPError:    "http-error",
}

func (s Shape) String() string {
	if s < 0 || int(s) >= len(shapeNames) {
		return "invalid"
	}

	return shapeNames[s]
}

// ReturnsError reports whether handlers of this shape return an error as
// their last result.
func (s Shape) ReturnsError() bool {
	return s == ShapeContextError || s == ShapeContextValue || s == ShapeHTTPError
}

// Canonical type names. A canonical name is the import path qualified name of
// a type, with "*" and "[]" prefixes for pointers and slices. The static
// compiler derives the same names from source.
const (
	TypeContext        = "*rivaas.dev/router.Context"
	TypeResponseWriter = "net/http.ResponseWriter"
	TypeRequest        = "*net/http.Request"
	TypeError          = "error"
	TypeString         = "string"
	TypeBuilder        = "rivaas.dev/endpoint.Builder"
	TypeRouter         = "rivaas.dev/endpoint.Router"
	TypeVerbs          = "[]rivaas.dev/endpoint.Verb"
	TypeBase           = "rivaas.dev/endpoint.Base"
	TypeRoute          = "rivaas.dev/endpoint.Route"
)

// Signature is a function signature expressed with canonical type names.
type Signature struct {
	Params   []string
	Results  []string
	Variadic bool
}

func (s Signature) String() string {
	var b strings.Builder
	b.WriteString("func(")
	for i, p := range s.Params {
		if i > 0 {
			b.WriteString(", ")
		}
		if s.Variadic && i == len(s.Params)-1 {
			b.WriteString("..." + strings.TrimPrefix(p, "[]"))
			continue
		}
		b.WriteString(p)
	}
	b.WriteString(")")
	switch len(s.Results) {
	case 0:
	case 1:
		b.WriteString(" " + s.Results[0])
	default:
		b.WriteString(" (" + strings.Join(s.Results, ", ") + ")")
	}

	return b.String()
}

func (s Signature) is(params, results []string) bool {
	if s.Variadic || len(s.Params) != len(params) || len(s.Results) != len(results) {
		return false
	}
	for i := range params {
		if s.Params[i] != params[i] {
			return false
		}
	}
	for i := range results {
		if results[i] != "" && s.Results[i] != results[i] {
			return false
		}
	}

	return true
}

// ClassifyShape returns the handler shape of sig, or [ErrUnsupportedShape].
func ClassifyShape(sig Signature) (Shape, error) {
	switch {
	case sig.is([]string{TypeContext}, nil):
		return ShapeContext, nil
	case sig.is([]string{TypeContext}, []string{TypeError}):
		return ShapeContextError, nil
	case sig.is([]string{TypeContext}, []string{"", TypeError}) && sig.Results[0] != TypeError:
		return ShapeContextValue, nil
	case sig.is([]string{TypeResponseWriter, TypeRequest}, nil):
		return ShapeHTTP, nil
	case sig.is([]string{TypeResponseWriter, TypeRequest}, []string{TypeError}):
		return ShapeHTTPError, nil
	default:
		return ShapeInvalid, ErrUnsupportedShape
	}
}

// ConfigureArity returns the arity of a Configure hook with signature sig,
// from 4 (builder, path, verbs, method) down to 1 (builder), or 0 when sig is
// not a Configure hook.
func ConfigureArity(sig Signature) int {
	full := []string{TypeBuilder, TypeString, TypeVerbs, TypeString}
	for n := len(full); n > 0; n-- {
		if sig.is(full[:n], nil) {
			return n
		}
	}

	return 0
}

// IsRegisterSignature reports whether sig is the signature of a Register hook.
func IsRegisterSignature(sig Signature) bool {
	return sig.is([]string{TypeRouter}, nil)
}

// TypeName returns the canonical name of t.
func TypeName(t reflect.Type) string {
	switch t.Kind() {
	case reflect.Pointer:
		return "*" + TypeName(t.Elem())
	case reflect.Slice:
		if t.Name() == "" {
			return "[]" + TypeName(t.Elem())
		}
	case reflect.Interface:
		if t.Name() == "" && t.NumMethod() == 0 {
			return "any"
		}
	}
	if t.Name() == "" {
		return t.String()
	}
	if t.PkgPath() == "" {
		return t.Name()
	}

	return t.PkgPath() + "." + t.Name()
}

// SignatureOf returns the canonical signature of the function type fn,
// dropping the first parameter when skipReceiver is set.
func SignatureOf(fn reflect.Type, skipReceiver bool) Signature {
	sig := Signature{Variadic: fn.IsVariadic()}
	start := 0
	if skipReceiver {
		start = 1
	}
	for i := start; i < fn.NumIn(); i++ {
		sig.Params = append(sig.Params, TypeName(fn.In(i)))
	}
	for i := 0; i < fn.NumOut(); i++ {
		sig.Results = append(sig.Results, TypeName(fn.Out(i)))
	}

	return sig
}
