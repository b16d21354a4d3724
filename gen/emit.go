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

package gen

import (
	"bytes"
	"fmt"
	"go/format"
	"slices"
	"strconv"
	"strings"

	"rivaas.dev/endpoint"
)

// DefaultGenerator names the generator in the header of generated files.
const DefaultGenerator = "endpointgen"

// emitInput is the input of the emit stage.
type emitInput struct {
	Generator string
	Package   string
	PkgPath   string
	Types     []emitType
	Sites     []endpoint.CallSite
}

// emitType is a candidate as the emit stage sees it.
type emitType struct {
	Descriptor *endpoint.Descriptor
	Failures   []failure
}

type emitted struct {
	Source []byte
	Err    error
}

var scopedHelpers = map[endpoint.Shape]string{
	endpoint.ShapeContext:      "ScopedContext",
	endpoint.ShapeContextError: "ScopedContextError",
	endpoint.ShapeContextValue: "ScopedContextValue",
	endpoint.ShapeHTTP:         "ScopedHTTP",
	endpoint.ShapeHTTPError:    "ScopedHTTPError",
}

// emit renders the generated source. MapEndpoints hands a lookup table to
// endpoint.MapTypes, which walks the registry like endpoint.Map does; each
// type's routine registers its routes in [endpoint.Descriptor.Routes] order.
func emit(in emitInput) ([]byte, error) {
	var (
		buf   bytes.Buffer
		ctx   bool
		fatal bool
	)
	for _, t := range in.Types {
		d := t.Descriptor
		ctx = ctx || (len(d.Routes()) > 0 && d.Rehydrates())
		fatal = fatal || slices.ContainsFunc(t.Failures, func(f failure) bool { return f.Shape })
	}

	p := func(format string, args ...any) {
		fmt.Fprintf(&buf, format, args...)
	}

	p("// Code generated by %s. DO NOT EDIT.\n\n", in.Generator)
	p("package %s\n\n", in.Package)
	p("import (\n")
	if ctx {
		p("\t\"context\"\n")
	}
	if fatal {
		p("\t\"errors\"\n")
	}
	p("\t\"reflect\"\n\n\t%q\n)\n\n", endpointPath)

	if len(in.Sites) > 0 {
		p("func init() {\n")
		for _, site := range in.Sites {
			p("\tendpoint.Intercept(endpoint.CallSite{Package: %q, File: %q, Line: %d, Column: %d}, MapEndpoints)\n",
				site.Package, site.File, site.Line, site.Column)
		}
		p("}\n\n")
	}

	p("// MapEndpoints maps the endpoints of package %s registered in reg onto r.\n", in.Package)
	p("// It performs the registrations of endpoint.Map with direct calls.\n")
	p("func MapEndpoints(r endpoint.Router, reg *endpoint.Registry, opts ...endpoint.Option) (*endpoint.Mapping, error) {\n")
	p("\treturn endpoint.MapTypes(r, reg, endpointMapper, opts...)\n}\n\n")

	p("// endpointMapper returns the registration routine of an endpoint type.\n")
	p("func endpointMapper(t reflect.Type) (endpoint.TypeMapper, bool) {\n")
	p("\tswitch t {\n")
	for _, t := range in.Types {
		if fields := mapperFields(t); fields != "" {
			p("\tcase reflect.TypeFor[%s]():\n", t.Descriptor.Name)
			p("\t\treturn endpoint.TypeMapper{%s}, true\n", fields)
		}
	}
	p("\t}\n\n\treturn endpoint.TypeMapper{}, false\n}\n")

	for _, t := range in.Types {
		if mapped(t.Descriptor) {
			p("\n")
			emitMapFunc(p, t.Descriptor)
		}
	}

	src, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("gen: format generated source: %w", err)
	}

	return src, nil
}

// mapped reports whether d has a registration routine.
func mapped(d *endpoint.Descriptor) bool {
	return d.Register || len(d.Routes()) > 0
}

// mapperFields renders the fields of the endpoint.TypeMapper of t, empty
// when there is nothing to map or report.
func mapperFields(t emitType) string {
	d := t.Descriptor

	var hooks []string
	for _, m := range d.Methods {
		for _, h := range m.Hooks {
			if !slices.Contains(hooks, h) {
				hooks = append(hooks, h)
			}
		}
	}

	var decl, shape []string
	for _, f := range t.Failures {
		if f.Shape {
			shape = append(shape, fmt.Sprintf("&endpoint.ShapeError{Type: %q, Method: %q, Signature: %q, Err: endpoint.%s}",
				d.Name, f.Handler, f.Signature, f.Err))
			continue
		}
		decl = append(decl, fmt.Sprintf("&endpoint.DeclarationError{Type: %q, Handler: %q, Key: %q, Err: endpoint.%s}",
			d.Name, f.Handler, f.Key, f.Err))
	}

	var fields []string
	if len(hooks) > 0 {
		fields = append(fields, "Hooks: []string{"+quoteList(hooks)+"}")
	}
	if mapped(d) {
		fields = append(fields, "Map: "+mapFuncName(d))
	}
	if len(decl) > 0 {
		fields = append(fields, "Errors: []error{"+strings.Join(decl, ", ")+"}")
	}
	if len(shape) > 0 {
		fields = append(fields, "Fatal: errors.Join("+strings.Join(shape, ", ")+")")
	}

	return strings.Join(fields, ", ")
}

func emitMapFunc(p func(string, ...any), d *endpoint.Descriptor) {
	routes := d.Routes()
	hooked := d.Register || d.Configure > 0

	p("func %s(s *endpoint.Session) error {\n", mapFuncName(d))
	switch {
	case d.Static:
		p("\te := &%s{}\n", d.Name)
	default:
		p("\tproto := endpoint.Prototype[%s](s.Registry())\n", d.Name)
		if !d.Rehydrates() || hooked {
			p("\te := &proto\n")
		}
	}
	if d.Register {
		p("\tif err := s.Register(%q, e.Register); err != nil {\n\t\treturn err\n\t}\n", d.Name)
	}
	if len(routes) > 0 {
		p("\tg := s.Group()\n")
		p("\tvar b endpoint.Builder\n")
	}

	for _, m := range d.Methods {
		target := "e." + m.Name
		if d.Rehydrates() {
			target = fmt.Sprintf("endpoint.%s(s, proto, %s, (*%s).%s)",
				scopedHelpers[m.Shape], hydrateFuncName(d), d.Name, m.Name)
		}
		for _, decl := range m.Declarations {
			for _, path := range decl.Paths {
				if decl.Verb.Primitive() {
					p("\tb = g.%s(%q, %s)\n", decl.Verb, path, target)
				} else {
					p("\tb = g.Handle([]endpoint.Verb{%s}, %q, %s)\n", verbConst(decl.Verb), path, target)
				}
				p("\tif err := s.Bind(b, endpoint.RouteInfo{Type: %q, Method: %q, Verb: %s, Path: %q}%s); err != nil {\n\t\treturn err\n\t}\n",
					d.Name, m.Name, verbConst(decl.Verb), path, hookArgs(m.Hooks))
				emitConfigure(p, d.Configure, decl.Verb, path, m.Name)
			}
		}
	}
	p("\n\treturn nil\n}\n")

	if len(routes) > 0 && d.Rehydrates() {
		p("\nfunc %s(ctx context.Context, s *endpoint.Session, e *%s) error {\n", hydrateFuncName(d), d.Name)
		for _, inj := range d.Injects {
			p("\tif err := endpoint.Inject(ctx, s, &e.%s); err != nil {\n\t\treturn err\n\t}\n", inj.Field)
		}
		p("\n\treturn nil\n}\n")
	}
}

func emitConfigure(p func(string, ...any), arity int, v endpoint.Verb, path, method string) {
	verbs := "[]endpoint.Verb{" + verbConst(v) + "}"
	switch arity {
	case 4:
		p("\te.Configure(b, %q, %s, %q)\n", path, verbs, method)
	case 3:
		p("\te.Configure(b, %q, %s)\n", path, verbs)
	case 2:
		p("\te.Configure(b, %q)\n", path)
	case 1:
		p("\te.Configure(b)\n")
	}
}

func mapFuncName(d *endpoint.Descriptor) string {
	return "map" + d.Name + "Endpoint"
}

func hydrateFuncName(d *endpoint.Descriptor) string {
	return "hydrate" + d.Name + "Endpoint"
}

// verbConst returns the endpoint constant naming v, VerbGet for GET.
func verbConst(v endpoint.Verb) string {
	s := string(v)

	return "endpoint.Verb" + s[:1] + strings.ToLower(s[1:])
}

func hookArgs(hooks []string) string {
	if len(hooks) == 0 {
		return ""
	}

	return ", " + quoteList(hooks)
}

func quoteList(items []string) string {
	quoted := make([]string, len(items))
	for i, s := range items {
		quoted[i] = strconv.Quote(s)
	}

	return strings.Join(quoted, ", ")
}
