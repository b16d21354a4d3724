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
	"fmt"
	"net/http"
)

// Verb is an HTTP method a route can be declared for.
type Verb string

// Supported verbs.
const (
	VerbConnect Verb = http.MethodConnect
	VerbDelete  Verb = http.MethodDelete
	VerbGet     Verb = http.MethodGet
	VerbHead    Verb = http.MethodHead
	VerbOptions Verb = http.MethodOptions
	VerbPatch   Verb = http.MethodPatch
	VerbPost    Verb = http.MethodPost
	VerbPut     Verb = http.MethodPut
	VerbTrace   Verb = http.MethodTrace
)

var verbs = [...]Verb{
	VerbConnect, VerbDelete, VerbGet, VerbHead, VerbOptions,
	VerbPatch, VerbPost, VerbPut, VerbTrace,
}

// Verbs returns the supported verbs.
func Verbs() []Verb {
	out := make([]Verb, len(verbs))
	copy(out, verbs[:])

	return out
}

// ParseVerb returns the verb named by s. Names are case-sensitive and must be
// upper case, as they appear on the wire.
func ParseVerb(s string) (Verb, error) {
	v := Verb(s)
	if !v.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedVerb, s)
	}

	return v, nil
}

// Valid reports whether v is one of the supported verbs.
func (v Verb) Valid() bool {
	for _, known := range verbs {
		if v == known {
			return true
		}
	}

	return false
}

// Primitive reports whether [Router] has a dedicated registration method for v.
// Other verbs are registered through [Router.Handle].
func (v Verb) Primitive() bool {
	switch v {
	case VerbGet, VerbPost, VerbPut, VerbDelete, VerbPatch:
		return true
	default:
		return false
	}
}

func (v Verb) String() string {
	return string(v)
}
