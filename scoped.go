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
	"context"
	"net/http"

	"rivaas.dev/router"
)

// The Scoped helpers build per-request dispatch targets for generated code.
// Each call of the returned handler copies proto, populates the injected
// fields of the copy with hydrate and invokes m, given as a method
// expression such as (*Users).Create, on it.

// ScopedContext returns a func(*router.Context) handler.
func ScopedContext[E any](s *Session, proto E, hydrate func(context.Context, *Session, *E) error, m func(*E, *router.Context)) func(*router.Context) {
	return func(c *router.Context) {
		e := proto
		if err := hydrate(c.Request.Context(), s, &e); err != nil {
			s.Fail(c.Response, c.Request, err)
			return
		}
		m(&e, c)
	}
}

// ScopedContextError returns a func(*router.Context) error handler.
func ScopedContextError[E any](s *Session, proto E, hydrate func(context.Context, *Session, *E) error, m func(*E, *router.Context) error) func(*router.Context) error {
	return func(c *router.Context) error {
		e := proto
		if err := hydrate(c.Request.Context(), s, &e); err != nil {
			return err
		}

		return m(&e, c)
	}
}

// ScopedContextValue returns a func(*router.Context) (T, error) handler.
func ScopedContextValue[E, T any](s *Session, proto E, hydrate func(context.Context, *Session, *E) error, m func(*E, *router.Context) (T, error)) func(*router.Context) (T, error) {
	return func(c *router.Context) (T, error) {
		e := proto
		if err := hydrate(c.Request.Context(), s, &e); err != nil {
			var zero T
			return zero, err
		}

		return m(&e, c)
	}
}

// ScopedHTTP returns a func(http.ResponseWriter, *http.Request) handler.
func ScopedHTTP[E any](s *Session, proto E, hydrate func(context.Context, *Session, *E) error, m func(*E, http.ResponseWriter, *http.Request)) func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		e := proto
		if err := hydrate(r.Context(), s, &e); err != nil {
			s.Fail(w, r, err)
			return
		}
		m(&e, w, r)
	}
}

// ScopedHTTPError returns a func(http.ResponseWriter, *http.Request) error handler.
func ScopedHTTPError[E any](s *Session, proto E, hydrate func(context.Context, *Session, *E) error, m func(*E, http.ResponseWriter, *http.Request) error) func(http.ResponseWriter, *http.Request) error {
	return func(w http.ResponseWriter, r *http.Request) error {
		e := proto
		if err := hydrate(r.Context(), s, &e); err != nil {
			return err
		}

		return m(&e, w, r)
	}
}
