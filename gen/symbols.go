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
	"errors"
	"fmt"
	"slices"
	"strings"

	"rivaas.dev/endpoint"
)

// symbolInput is the input of the symbols stage for one candidate: the
// candidate, its method set across the package and the foreign types it
// embeds.
type symbolInput struct {
	PkgPath   string
	Candidate candidate
	Methods   []methodDecl
	Foreign   []embedField
}

// symbols is the result of the symbols stage.
type symbols struct {
	Descriptor  *endpoint.Descriptor
	Positions   []Position // of the routes of Descriptor, in order
	Failures    []failure
	Diagnostics []Diagnostic
}

// failure is a declaration or shape error of a candidate. Generated code
// returns it when the candidate is registered, as discovery would.
type failure struct {
	Shape     bool
	Handler   string
	Key       string // declaration errors
	Signature string // shape errors
	Err       string // name of the wrapped endpoint error
}

var sentinels = []struct {
	err  error
	name string
}{
	{endpoint.ErrUnsupportedVerb, "ErrUnsupportedVerb"},
	{endpoint.ErrEmptyRoute, "ErrEmptyRoute"},
	{endpoint.ErrMissingHandler, "ErrMissingHandler"},
	{endpoint.ErrMalformedTag, "ErrMalformedTag"},
	{endpoint.ErrUnknownMethod, "ErrUnknownMethod"},
	{endpoint.ErrUnsupportedShape, "ErrUnsupportedShape"},
}

func sentinelName(err error) string {
	for _, s := range sentinels {
		if errors.Is(err, s.err) {
			return s.name
		}
	}

	return "ErrMalformedTag"
}

// resolveSymbols builds the descriptor of a candidate. Declaration errors
// drop the declaration; unknown handlers and unsupported shapes drop the
// method. Each is reported as an error diagnostic.
func resolveSymbols(in symbolInput) *symbols {
	c := in.Candidate
	d := &endpoint.Descriptor{
		Name:    c.Name,
		PkgPath: in.PkgPath,
		Static:  c.Static,
		Injects: c.Injects,
	}
	out := &symbols{Descriptor: d}

	methods := make(map[string]methodDecl, len(in.Methods))
	for _, m := range in.Methods {
		if _, ok := methods[m.Name]; !ok {
			methods[m.Name] = m
		}
	}
	if m, ok := methods["Register"]; ok {
		d.Register = endpoint.IsRegisterSignature(m.Signature)
	}
	if m, ok := methods["Configure"]; ok {
		d.Configure = endpoint.ConfigureArity(m.Signature)
	}
	if !d.Register || d.Configure == 0 {
		for _, e := range in.Foreign {
			out.Diagnostics = append(out.Diagnostics, Diagnostic{
				Severity: SeverityWarning,
				Kind:     DiagForeignEmbed,
				Pos:      e.Pos,
				Type:     c.Name,
				Message: fmt.Sprintf("endpoint %s: Register and Configure hooks promoted from embedded %s are not compiled",
					c.Name, e.Type),
			})
		}
	}

	var (
		markers   []endpoint.Marker
		markerPos = make(map[string]Position)
	)
	for _, mf := range c.Markers {
		m, errs := endpoint.ParseMarker(mf.Tag)
		for _, err := range errs {
			err.Type = c.Name
			out.Diagnostics = append(out.Diagnostics, declarationDiagnostic(mf.Pos, err))
			out.Failures = append(out.Failures, failure{
				Handler: err.Handler,
				Key:     err.Key,
				Err:     sentinelName(err.Err),
			})
		}
		if !m.Valid() {
			continue
		}
		markers = append(markers, m)
		if _, ok := markerPos[m.Handler]; !ok {
			markerPos[m.Handler] = mf.Pos
		}
	}

	for _, md := range endpoint.GroupMarkers(markers) {
		pos := markerPos[md.Name]
		m, ok := methods[md.Name]
		if !ok {
			err := &endpoint.ShapeError{Type: c.Name, Method: md.Name, Err: endpoint.ErrUnknownMethod}
			diag := shapeDiagnostic(pos, DiagUnknownMethod, err)
			if len(in.Foreign) > 0 {
				diag.Kind = DiagForeignEmbed
				diag.Message += fmt.Sprintf(" (methods promoted from %s are not compiled)", foreignNames(in.Foreign))
			}
			out.Diagnostics = append(out.Diagnostics, diag)
			out.Failures = append(out.Failures, failure{Shape: true, Handler: md.Name, Err: sentinelName(err.Err)})
			continue
		}
		shape, err := endpoint.ClassifyShape(m.Signature)
		if err != nil {
			err := &endpoint.ShapeError{Type: c.Name, Method: md.Name, Signature: m.Signature.String(), Err: err}
			out.Diagnostics = append(out.Diagnostics, shapeDiagnostic(m.Pos, DiagUnsupportedShape, err))
			out.Failures = append(out.Failures, failure{
				Shape:     true,
				Handler:   md.Name,
				Signature: err.Signature,
				Err:       sentinelName(err.Err),
			})
			continue
		}
		md.Shape = shape
		md.Owner = d
		d.Methods = append(d.Methods, md)
		for range d.Routes()[len(out.Positions):] {
			out.Positions = append(out.Positions, pos)
		}
	}

	return out
}

func shapeDiagnostic(pos Position, kind DiagnosticKind, err *endpoint.ShapeError) Diagnostic {
	return Diagnostic{
		Severity: SeverityError,
		Kind:     kind,
		Pos:      pos,
		Type:     err.Type,
		Method:   err.Method,
		Message:  err.Error(),
	}
}

func foreignNames(embeds []embedField) string {
	names := make([]string, len(embeds))
	for i, e := range embeds {
		names[i] = e.Type
	}

	return strings.Join(names, ", ")
}

// methodSet returns the exported methods of the pointer to typ, including
// those promoted from embedded types of the package, and the foreign types
// embedded along the way. A name declared twice at the shallowest depth it
// appears at is ambiguous and left out.
func methodSet(typ string, methods map[string][]methodDecl, structs map[string][]embedField) ([]methodDecl, []embedField) {
	var (
		out     []methodDecl
		foreign []embedField
		settled = make(map[string]bool)
		visited = map[string]bool{typ: true}
		level   = []string{typ}
	)
	for len(level) > 0 {
		var (
			names []string
			found = make(map[string][]methodDecl)
			next  []string
		)
		for _, t := range level {
			for _, m := range methods[t] {
				if _, ok := found[m.Name]; !ok {
					names = append(names, m.Name)
				}
				found[m.Name] = append(found[m.Name], m)
			}
			for _, e := range structs[t] {
				switch {
				case !e.Local:
					foreign = append(foreign, e)
				case !visited[e.Type]:
					next = append(next, e.Type)
				}
			}
		}
		for _, name := range names {
			if settled[name] {
				continue
			}
			settled[name] = true
			if len(found[name]) == 1 {
				out = append(out, found[name][0])
			}
		}
		for _, t := range next {
			visited[t] = true
		}
		level = next
	}
	slices.SortStableFunc(foreign, func(a, b embedField) int {
		return strings.Compare(a.Type, b.Type)
	})

	return out, slices.CompactFunc(foreign, func(a, b embedField) bool { return a.Type == b.Type })
}
