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
	"fmt"
	"net/http"
)

var (
	// ErrNilRouter indicates that no router was given to the mapper.
	ErrNilRouter = errors.New("router is nil")

	// ErrNoCandidates indicates that no candidate types were supplied for discovery.
	ErrNoCandidates = errors.New("at least one candidate endpoint must be registered")

	// ErrInvalidCandidate indicates that a registry candidate is not a struct or a pointer to one.
	ErrInvalidCandidate = errors.New("candidate must be a struct or a pointer to a struct")

	// ErrEmptyPrefix indicates that the route prefix is empty.
	ErrEmptyPrefix = errors.New("route prefix must not be empty")

	// ErrUnknownHook indicates that a marker references a hook that was not configured.
	ErrUnknownHook = errors.New("unknown configuration hook")

	// ErrMalformedTag indicates that a marker's struct tag does not follow the key:"value" convention.
	ErrMalformedTag = errors.New("malformed marker tag")

	// ErrUnsupportedVerb indicates that a marker declares a verb outside the supported set.
	ErrUnsupportedVerb = errors.New("unsupported HTTP verb")

	// ErrEmptyRoute indicates that a route declaration lists no paths.
	ErrEmptyRoute = errors.New("route declaration has no paths")

	// ErrMissingHandler indicates that a marker does not name a valid handler method.
	ErrMissingHandler = errors.New("route marker has no handler")

	// ErrUnknownMethod indicates that a marker names a method the type does not have.
	ErrUnknownMethod = errors.New("handler method not found")

	// ErrUnsupportedShape indicates that a handler's signature cannot be bound to a router.
	ErrUnsupportedShape = errors.New("handler signature is not supported")

	// ErrDependencyMissing indicates that an injected dependency could not be resolved for a request.
	ErrDependencyMissing = errors.New("dependency not available in scope")

	// ErrDuplicateIntercept indicates that two interceptors claim the same call site.
	ErrDuplicateIntercept = errors.New("call site already intercepted")
)

// DeclarationError reports a route marker, or one declaration within it,
// that could not be turned into routes. Sibling declarations are unaffected.
type DeclarationError struct {
	Type    string // endpoint type, empty while parsing a bare tag
	Handler string
	Key     string // tag key that failed
	Err     error
}

func (e *DeclarationError) Error() string {
	target := e.Handler
	if e.Type != "" {
		target = e.Type + "." + e.Handler
	}
	if e.Key == "" {
		return fmt.Sprintf("endpoint %s: %v", target, e.Err)
	}

	return fmt.Sprintf("endpoint %s: %s: %v", target, e.Key, e.Err)
}

func (e *DeclarationError) Unwrap() error {
	return e.Err
}

// ShapeError reports a handler method that cannot become a dispatch target.
type ShapeError struct {
	Type      string
	Method    string
	Signature string
	Err       error
}

func (e *ShapeError) Error() string {
	if e.Signature == "" {
		return fmt.Sprintf("endpoint %s.%s: %v", e.Type, e.Method, e.Err)
	}

	return fmt.Sprintf("endpoint %s.%s: %v: %s", e.Type, e.Method, e.Err, e.Signature)
}

func (e *ShapeError) Unwrap() error {
	return e.Err
}

// DependencyError reports a dependency that could not be resolved while
// preparing an endpoint for a request.
// It satisfies the ErrorType and ErrorCode interfaces of rivaas.dev/errors.
type DependencyError struct {
	Type string // canonical type name of the dependency
	Err  error
}

func (e *DependencyError) Error() string {
	return fmt.Sprintf("resolve %s: %v", e.Type, e.Err)
}

func (e *DependencyError) Unwrap() error {
	return e.Err
}

// HTTPStatus returns 500: a missing dependency is a server fault.
func (e *DependencyError) HTTPStatus() int {
	return http.StatusInternalServerError
}

// Code returns the machine readable problem code.
func (e *DependencyError) Code() string {
	return "dependency_missing"
}
