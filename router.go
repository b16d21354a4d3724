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

// Handler is a dispatch target. Its dynamic type is one of the handler
// shapes listed in the package documentation; routers adapt each shape to
// their own handler type.
type Handler = any

// Router is the registration surface endpoints are mapped onto.
// The bridge package adapts rivaas.dev/router; the endpointtest package
// provides an in-memory implementation.
type Router interface {
	GET(path string, h Handler) Builder
	POST(path string, h Handler) Builder
	PUT(path string, h Handler) Builder
	DELETE(path string, h Handler) Builder
	PATCH(path string, h Handler) Builder

	// Handle registers h for every verb in verbs.
	Handle(verbs []Verb, path string, h Handler) Builder

	// Group returns a router whose routes are registered under prefix.
	Group(prefix string) Router

	// Prefix returns the full path prefix of the router.
	Prefix() string
}

// Builder configures a registered route.
type Builder interface {
	Verbs() []Verb
	// Pattern returns the full registered path, prefix included.
	Pattern() string

	WithMetadata(items ...any) Builder
	Metadata() []any

	SetName(name string) Builder
	SetDescription(desc string) Builder
	SetTags(tags ...string) Builder
}

// Metadata is attached to every route mapped from a marker and identifies
// the endpoint it came from.
type Metadata struct {
	Type   string
	Method string
}

// MapVerb registers h on r under (v, path) with the most specific
// registration method available for v.
func MapVerb(r Router, v Verb, path string, h Handler) Builder {
	switch v {
	case VerbGet:
		return r.GET(path, h)
	case VerbPost:
		return r.POST(path, h)
	case VerbPut:
		return r.PUT(path, h)
	case VerbDelete:
		return r.DELETE(path, h)
	case VerbPatch:
		return r.PATCH(path, h)
	default:
		return r.Handle([]Verb{v}, path, h)
	}
}

// MetadataOf returns the first [Metadata] attached to b.
func MetadataOf(b Builder) (Metadata, bool) {
	for _, item := range b.Metadata() {
		if md, ok := item.(Metadata); ok {
			return md, true
		}
	}

	return Metadata{}, false
}

// JoinPath joins a group prefix and a route path, keeping exactly one slash
// between them. A prefix of "/" adds nothing.
func JoinPath(prefix, path string) string {
	prefix = trimTrailingSlash(prefix)
	switch {
	case path == "":
		if prefix == "" {
			return "/"
		}
		return prefix
	case path[0] != '/':
		path = "/" + path
	}

	return prefix + path
}

func trimTrailingSlash(s string) string {
	for len(s) > 0 && s[len(s)-1] == '/' {
		s = s[:len(s)-1]
	}

	return s
}
