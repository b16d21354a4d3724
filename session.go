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
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"time"

	riverrors "rivaas.dev/errors"
)

// Session drives one mapping. It owns the prefix group, applies metadata
// and configuration hooks to registered routes and records them in a
// [Mapping]. The runtime engine and generated code both register through a
// Session, which keeps their effects identical.
//
// A Session is used by a single goroutine during startup; the handlers it
// helps build may run concurrently afterwards.
type Session struct {
	cfg     *Config
	reg     *Registry
	group   Router
	mapping *Mapping
	started time.Time
	errs    []error
}

// NewSession validates the configuration, creates the prefix group on r and
// hands it to the group callback. Routines that bind hooks should check them
// with [Session.Require] before registering; [MapTypes] checks them before
// the session is created.
func NewSession(r Router, reg *Registry, opts ...Option) (*Session, error) {
	return newSession(r, reg, nil, opts)
}

// newSession is [NewSession] checking the named hooks before r is touched.
func newSession(r Router, reg *Registry, hooks []string, opts []Option) (*Session, error) {
	if r == nil {
		return nil, ErrNilRouter
	}
	cfg := newConfig(opts...)
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if err := cfg.require(hooks); err != nil {
		return nil, err
	}

	s := &Session{
		cfg:     cfg,
		reg:     reg,
		group:   r.Group(cfg.Prefix),
		mapping: &Mapping{},
		started: time.Now(),
	}
	if cfg.ConfigureGroup != nil {
		cfg.ConfigureGroup(s.group)
	}

	return s, nil
}

// Group returns the router endpoints are mapped onto.
func (s *Session) Group() Router {
	return s.group
}

// Registry returns the registry the session was created with, possibly nil.
func (s *Session) Registry() *Registry {
	return s.reg
}

// Config returns the session configuration.
func (s *Session) Config() *Config {
	return s.cfg
}

// Require checks that every named hook is configured.
func (s *Session) Require(hooks ...string) error {
	return s.cfg.require(hooks)
}

// Register runs the manual registration hook of the endpoint typ. A panic
// raised by the hook is returned as an error.
func (s *Session) Register(typ string, fn func(Router)) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("endpoint %s: register: %v", typ, p)
		}
	}()

	s.mapping.touch(typ)
	fn(s.group)
	s.cfg.logger.Debug("endpoint registered routes by hand", "endpoint", typ)

	return nil
}

// Bind finishes a route registered from a marker: it attaches the endpoint
// [Metadata], runs the named hooks in order and records the route. The
// type-level Configure hook, if any, runs after Bind.
func (s *Session) Bind(b Builder, info RouteInfo, hooks ...string) error {
	b.WithMetadata(Metadata{Type: info.Type, Method: info.Method})

	rc := &RouteContext{Builder: b, Path: info.Path, Verbs: []Verb{info.Verb}, Method: info.Method}
	for _, name := range hooks {
		h, ok := s.cfg.hooks[name]
		if !ok {
			return fmt.Errorf("%w: %q on %s.%s", ErrUnknownHook, name, info.Type, info.Method)
		}
		h(rc)
	}

	s.mapping.touch(info.Type)
	s.mapping.Routes = append(s.mapping.Routes, RegisteredRoute{
		Index:   len(s.mapping.Routes),
		Verb:    info.Verb,
		Path:    info.Path,
		Pattern: b.Pattern(),
		Type:    info.Type,
		Method:  info.Method,
		Builder: b,
	})
	s.cfg.logger.Debug("route mapped",
		"verb", info.Verb,
		"pattern", b.Pattern(),
		"endpoint", info.Type,
		"method", info.Method,
	)

	return nil
}

// Report records a non-fatal error, returned by [Session.Done].
func (s *Session) Report(err error) {
	if err != nil {
		s.errs = append(s.errs, err)
	}
}

// Done completes the mapping. The returned error joins every reported error;
// the mapping is returned either way.
func (s *Session) Done() (*Mapping, error) {
	if s.cfg.LogTiming {
		s.cfg.logger.Info("endpoints mapped",
			"routes", len(s.mapping.Routes),
			"endpoints", len(s.mapping.Types),
			"duration", time.Since(s.started),
		)
	}

	return s.mapping, errors.Join(s.errs...)
}

// Fail writes err as the response using the configured error formatter.
func (s *Session) Fail(w http.ResponseWriter, r *http.Request, err error) {
	if writeErr := WriteError(w, r, s.cfg.formatter, err); writeErr != nil {
		s.cfg.logger.Error("failed to write error response", "err", writeErr)
	}
	s.cfg.logger.Warn("endpoint request failed", "path", r.URL.Path, "err", err)
}

// WriteError formats err with f and writes it to w.
func WriteError(w http.ResponseWriter, r *http.Request, f riverrors.Formatter, err error) error {
	resp := f.Format(r, err)
	for k, vs := range resp.Headers {
		for _, v := range vs {
			w.Header().Add(k, v)
		}
	}
	w.Header().Set("Content-Type", resp.ContentType)
	w.WriteHeader(resp.Status)

	return json.NewEncoder(w).Encode(resp.Body)
}

// RegisteredRoute is a route mapped from a marker.
type RegisteredRoute struct {
	// Index is the position of the route in registration order.
	Index   int
	Verb    Verb
	Path    string // as declared
	Pattern string // as registered, prefix included
	Type    string
	Method  string
	Builder Builder
}

// Mapping is the result of mapping a set of endpoints.
type Mapping struct {
	// Routes holds the routes mapped from markers, in registration order.
	Routes []RegisteredRoute
	// Types holds the names of the mapped endpoint types, in order.
	Types []string
}

// Len returns the number of mapped routes.
func (m *Mapping) Len() int {
	return len(m.Routes)
}

// Lookup returns the routes registered under (v, pattern).
func (m *Mapping) Lookup(v Verb, pattern string) []RegisteredRoute {
	var out []RegisteredRoute
	for _, r := range m.Routes {
		if r.Verb == v && r.Pattern == pattern {
			out = append(out, r)
		}
	}

	return out
}

func (m *Mapping) touch(typ string) {
	if !slices.Contains(m.Types, typ) {
		m.Types = append(m.Types, typ)
	}
}
