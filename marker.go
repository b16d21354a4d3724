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
	"go/token"
	"slices"
	"strconv"
	"strings"
)

// Base marks a struct as an endpoint. Embed it directly:
//
//	type Users struct {
//	    endpoint.Base
//	    ...
//	}
type Base struct{}

// Route is the type of a route marker field. Marker fields are usually blank
// and carry their declaration in the struct tag:
//
//	_ endpoint.Route `handler:"Get" GET:"/users/:id"`
type Route struct{}

// Struct tag keys understood by the discovery engines.
const (
	// TagHandler names the handler method of a marker.
	TagHandler = "handler"
	// TagHooks lists the configuration hooks applied to every route of a marker.
	TagHooks = "with"
	// TagInject marks a field as a dependency resolved per request.
	TagInject = "inject"
)

// Declaration maps one verb to one or more paths.
type Declaration struct {
	Verb  Verb
	Paths []string
}

// Marker is the parsed form of a [Route] marker tag.
type Marker struct {
	Handler      string
	Declarations []Declaration
	Hooks        []string
}

// ParseMarker parses the struct tag of a [Route] marker. Keys are processed in
// the order they appear in the tag. Keys made only of upper-case letters are
// verb keys; an unsupported verb or an empty path list invalidates that key
// alone and is reported in the returned errors, as is a verb spelled in mixed
// case such as Post. A missing handler or a malformed tag invalidates the
// whole marker.
func ParseMarker(tag string) (Marker, []*DeclarationError) {
	var (
		m    Marker
		errs []*DeclarationError
	)

	scanErr := scanTag(tag, func(key, value string) {
		switch {
		case key == TagHandler:
			m.Handler = strings.TrimSpace(value)
		case key == TagHooks:
			m.Hooks = append(m.Hooks, splitList(value)...)
		case isVerbKey(key):
			verb, err := ParseVerb(key)
			if err != nil {
				errs = append(errs, &DeclarationError{Key: key, Err: ErrUnsupportedVerb})
				return
			}
			paths := splitList(value)
			if len(paths) == 0 {
				errs = append(errs, &DeclarationError{Key: key, Err: ErrEmptyRoute})
				return
			}
			m.Declarations = append(m.Declarations, Declaration{Verb: verb, Paths: paths})
		case isMisspelledVerb(key):
			errs = append(errs, &DeclarationError{Key: key, Err: ErrUnsupportedVerb})
		}
	})
	if scanErr != nil {
		errs = append(errs, &DeclarationError{Err: ErrMalformedTag})
		m.Declarations = nil
	}
	if !m.Valid() {
		errs = append(errs, &DeclarationError{Key: TagHandler, Err: ErrMissingHandler})
		m.Declarations = nil
	}
	for _, err := range errs {
		err.Handler = m.Handler
	}

	return m, errs
}

// Valid reports whether the marker names a handler that can be bound: an
// exported Go identifier.
func (m Marker) Valid() bool {
	return token.IsIdentifier(m.Handler) && token.IsExported(m.Handler)
}

// scanTag walks the key:"value" pairs of a struct tag in order. It follows
// the conventions of reflect.StructTag but keeps repeated keys.
func scanTag(tag string, fn func(key, value string)) error {
	for tag != "" {
		i := 0
		for i < len(tag) && tag[i] == ' ' {
			i++
		}
		tag = tag[i:]
		if tag == "" {
			break
		}

		i = 0
		for i < len(tag) && tag[i] > ' ' && tag[i] != ':' && tag[i] != '"' && tag[i] != 0x7f {
			i++
		}
		if i == 0 || i+1 >= len(tag) || tag[i] != ':' || tag[i+1] != '"' {
			return ErrMalformedTag
		}
		key := tag[:i]
		tag = tag[i+1:]

		i = 1
		for i < len(tag) && tag[i] != '"' {
			if tag[i] == '\\' {
				i++
			}
			i++
		}
		if i >= len(tag) {
			return ErrMalformedTag
		}
		value, err := strconv.Unquote(tag[:i+1])
		if err != nil {
			return ErrMalformedTag
		}
		tag = tag[i+1:]

		fn(key, value)
	}

	return nil
}

func isVerbKey(key string) bool {
	if key == "" {
		return false
	}
	for i := 0; i < len(key); i++ {
		if key[i] < 'A' || key[i] > 'Z' {
			return false
		}
	}

	return true
}

// isMisspelledVerb reports whether key names a supported verb in other than
// upper case.
func isMisspelledVerb(key string) bool {
	upper := strings.ToUpper(key)

	return upper != key && Verb(upper).Valid()
}

// splitList splits a comma separated list, trimming blanks and dropping empty
// and repeated entries.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" || slices.Contains(out, part) {
			continue
		}
		out = append(out, part)
	}

	return out
}
