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

	"rivaas.dev/endpoint"
)

// Severity grades a diagnostic.
type Severity int

const (
	// SeverityWarning marks a suspicious but compiled declaration.
	SeverityWarning Severity = iota
	// SeverityError marks a declaration that was left out of the output.
	SeverityError
)

func (s Severity) String() string {
	if s == SeverityError {
		return "error"
	}

	return "warning"
}

// DiagnosticKind categorizes diagnostics.
type DiagnosticKind string

const (
	// Source diagnostics
	DiagParse DiagnosticKind = "parse_error"

	// Declaration diagnostics
	DiagUnsupportedVerb DiagnosticKind = "unsupported_verb"
	DiagEmptyRoute      DiagnosticKind = "empty_route"
	DiagMissingHandler  DiagnosticKind = "missing_handler"
	DiagMalformedTag    DiagnosticKind = "malformed_tag"
	DiagDuplicateRoute  DiagnosticKind = "duplicate_route"

	// Handler diagnostics
	DiagUnknownMethod    DiagnosticKind = "unknown_method"
	DiagUnsupportedShape DiagnosticKind = "unsupported_shape"
	DiagForeignEmbed     DiagnosticKind = "foreign_embed"
)

// Position is a 1-based source position.
type Position struct {
	File   string
	Line   int
	Column int
}

func (p Position) String() string {
	return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Column)
}

// Diagnostic is a problem found in the compiled sources.
type Diagnostic struct {
	Severity Severity
	Kind     DiagnosticKind
	Pos      Position
	Type     string
	Method   string
	Message  string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s: %s", d.Pos, d.Severity, d.Message)
}

// DiagnosticHandler receives the diagnostics of every run.
//
// Example:
//
//	handler := gen.DiagnosticHandlerFunc(func(d gen.Diagnostic) {
//	    fmt.Fprintln(os.Stderr, d)
//	})
//	p := gen.NewPipeline(gen.WithDiagnostics(handler))
type DiagnosticHandler interface {
	OnDiagnostic(Diagnostic)
}

// DiagnosticHandlerFunc is a function adapter for DiagnosticHandler.
type DiagnosticHandlerFunc func(Diagnostic)

func (f DiagnosticHandlerFunc) OnDiagnostic(d Diagnostic) {
	f(d)
}

// declarationDiagnostic converts a marker error into a diagnostic.
func declarationDiagnostic(pos Position, err *endpoint.DeclarationError) Diagnostic {
	kind := DiagMalformedTag
	switch {
	case errors.Is(err, endpoint.ErrUnsupportedVerb):
		kind = DiagUnsupportedVerb
	case errors.Is(err, endpoint.ErrEmptyRoute):
		kind = DiagEmptyRoute
	case errors.Is(err, endpoint.ErrMissingHandler):
		kind = DiagMissingHandler
	}

	return Diagnostic{
		Severity: SeverityError,
		Kind:     kind,
		Pos:      pos,
		Type:     err.Type,
		Method:   err.Handler,
		Message:  err.Error(),
	}
}
