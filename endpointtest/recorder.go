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

// Package endpointtest provides an in-memory [endpoint.Router] for tests.
//
// A [Recorder] keeps every registration in order together with its handler,
// so tests can assert on what was mapped and invoke handlers directly:
//
//	rec := endpointtest.NewRecorder()
//	_, err := endpoint.Map(rec, reg)
//	require.NoError(t, err)
//	assert.Equal(t, []string{"GET /todos"}, rec.Keys())
package endpointtest

import (
	"sync"

	"rivaas.dev/endpoint"
)

// Registration is one call made on a [Recorder].
type Registration struct {
	Verbs   []endpoint.Verb
	Path    string // as passed to the router
	Pattern string // prefix included
	Handler endpoint.Handler
	Builder *Builder
}

// Recorder records registrations. Groups share the recording of their root.
type Recorder struct {
	prefix string
	log    *journal
}

type journal struct {
	mu   sync.Mutex
	regs []*Registration
}

// NewRecorder returns an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{log: &journal{}}
}

func (r *Recorder) GET(path string, h endpoint.Handler) endpoint.Builder {
	return r.record([]endpoint.Verb{endpoint.VerbGet}, path, h)
}

func (r *Recorder) POST(path string, h endpoint.Handler) endpoint.Builder {
	return r.record([]endpoint.Verb{endpoint.VerbPost}, path, h)
}

func (r *Recorder) PUT(path string, h endpoint.Handler) endpoint.Builder {
	return r.record([]endpoint.Verb{endpoint.VerbPut}, path, h)
}

func (r *Recorder) DELETE(path string, h endpoint.Handler) endpoint.Builder {
	return r.record([]endpoint.Verb{endpoint.VerbDelete}, path, h)
}

func (r *Recorder) PATCH(path string, h endpoint.Handler) endpoint.Builder {
	return r.record([]endpoint.Verb{endpoint.VerbPatch}, path, h)
}

func (r *Recorder) Handle(verbs []endpoint.Verb, path string, h endpoint.Handler) endpoint.Builder {
	return r.record(verbs, path, h)
}

func (r *Recorder) Group(prefix string) endpoint.Router {
	return &Recorder{prefix: endpoint.JoinPath(r.prefix, prefix), log: r.log}
}

func (r *Recorder) Prefix() string {
	if r.prefix == "" {
		return "/"
	}

	return r.prefix
}

// Registrations returns every registration in order.
func (r *Recorder) Registrations() []*Registration {
	r.log.mu.Lock()
	defer r.log.mu.Unlock()

	return append([]*Registration(nil), r.log.regs...)
}

// Keys returns one "VERB pattern" entry per verb of every registration, in
// order.
func (r *Recorder) Keys() []string {
	var keys []string
	for _, reg := range r.Registrations() {
		for _, v := range reg.Verbs {
			keys = append(keys, string(v)+" "+reg.Pattern)
		}
	}

	return keys
}

// Find returns the first registration of (v, pattern).
func (r *Recorder) Find(v endpoint.Verb, pattern string) (*Registration, bool) {
	for _, reg := range r.Registrations() {
		if reg.Pattern != pattern {
			continue
		}
		for _, rv := range reg.Verbs {
			if rv == v {
				return reg, true
			}
		}
	}

	return nil, false
}

func (r *Recorder) record(verbs []endpoint.Verb, path string, h endpoint.Handler) *Builder {
	pattern := endpoint.JoinPath(r.prefix, path)
	b := &Builder{verbs: append([]endpoint.Verb(nil), verbs...), pattern: pattern}

	r.log.mu.Lock()
	defer r.log.mu.Unlock()
	r.log.regs = append(r.log.regs, &Registration{
		Verbs:   b.verbs,
		Path:    path,
		Pattern: pattern,
		Handler: h,
		Builder: b,
	})

	return b
}

// Builder is the [endpoint.Builder] handed out by a [Recorder].
type Builder struct {
	verbs       []endpoint.Verb
	pattern     string
	metadata    []any
	name        string
	description string
	tags        []string
}

func (b *Builder) Verbs() []endpoint.Verb { return append([]endpoint.Verb(nil), b.verbs...) }
func (b *Builder) Pattern() string        { return b.pattern }
func (b *Builder) Metadata() []any        { return append([]any(nil), b.metadata...) }

// Name returns the name set with SetName.
func (b *Builder) Name() string { return b.name }

// Description returns the description set with SetDescription.
func (b *Builder) Description() string { return b.description }

// Tags returns the tags added with SetTags.
func (b *Builder) Tags() []string { return append([]string(nil), b.tags...) }

func (b *Builder) WithMetadata(items ...any) endpoint.Builder {
	b.metadata = append(b.metadata, items...)
	return b
}

func (b *Builder) SetName(name string) endpoint.Builder {
	b.name = name
	return b
}

func (b *Builder) SetDescription(desc string) endpoint.Builder {
	b.description = desc
	return b
}

func (b *Builder) SetTags(tags ...string) endpoint.Builder {
	b.tags = append(b.tags, tags...)
	return b
}
