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

// RouteContext describes a registered route to a configuration hook.
type RouteContext struct {
	Builder Builder
	// Path is the path as declared, before the prefix is applied.
	// The full path is Builder.Pattern().
	Path   string
	Verbs  []Verb
	Method string
}

// Hook customizes a registered route. Hooks referenced from markers are
// configured with [WithHook].
type Hook func(rc *RouteContext)

// Registerer is implemented by endpoints that register routes by hand.
type Registerer interface {
	Register(r Router)
}

// RouteConfigurer is the most specific Configure hook.
type RouteConfigurer interface {
	Configure(b Builder, path string, verbs []Verb, method string)
}

// VerbConfigurer is a Configure hook without the method name.
type VerbConfigurer interface {
	Configure(b Builder, path string, verbs []Verb)
}

// PathConfigurer is a Configure hook receiving the builder and the path.
type PathConfigurer interface {
	Configure(b Builder, path string)
}

// BuilderConfigurer is the least specific Configure hook.
type BuilderConfigurer interface {
	Configure(b Builder)
}

// ConfigureHook returns the Configure hook of v as a [Hook], picking the most
// specific form v implements, together with its arity. It returns nil, 0 when
// v has no Configure hook.
func ConfigureHook(v any) (Hook, int) {
	switch c := v.(type) {
	case RouteConfigurer:
		return func(rc *RouteContext) { c.Configure(rc.Builder, rc.Path, rc.Verbs, rc.Method) }, 4
	case VerbConfigurer:
		return func(rc *RouteContext) { c.Configure(rc.Builder, rc.Path, rc.Verbs) }, 3
	case PathConfigurer:
		return func(rc *RouteContext) { c.Configure(rc.Builder, rc.Path) }, 2
	case BuilderConfigurer:
		return func(rc *RouteContext) { c.Configure(rc.Builder) }, 1
	default:
		return nil, 0
	}
}
