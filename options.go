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
	"io"
	"log/slog"
	"slices"

	riverrors "rivaas.dev/errors"
)

// noopLogger is used when no logger is configured.
var noopLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// DefaultPrefix is the route prefix used when none is configured.
const DefaultPrefix = "/"

// Config holds the settings of one mapping.
type Config struct {
	// Prefix is prepended to every mapped route. Defaults to "/".
	Prefix string
	// ConfigureGroup, when set, receives the prefix group before any route
	// is mapped.
	ConfigureGroup func(Router)
	// LogTiming logs how long the mapping took.
	LogTiming bool

	logger    *slog.Logger
	hooks     map[string]Hook
	resolver  Resolver
	formatter riverrors.Formatter
}

// Option configures a mapping.
type Option func(*Config)

func newConfig(opts ...Option) *Config {
	c := &Config{
		Prefix:    DefaultPrefix,
		logger:    noopLogger,
		hooks:     make(map[string]Hook),
		formatter: riverrors.NewRFC9457(""),
	}
	for _, opt := range opts {
		opt(c)
	}

	return c
}

func (c *Config) validate() error {
	if c.Prefix == "" {
		return ErrEmptyPrefix
	}

	return nil
}

// require checks that every named hook is configured. Each unknown name is
// reported once.
func (c *Config) require(hooks []string) error {
	var (
		errs    []error
		unknown []string
	)
	for _, name := range hooks {
		if _, ok := c.hooks[name]; ok || slices.Contains(unknown, name) {
			continue
		}
		unknown = append(unknown, name)
		errs = append(errs, fmt.Errorf("%w: %q", ErrUnknownHook, name))
	}

	return errors.Join(errs...)
}

// Logger returns the configured logger.
func (c *Config) Logger() *slog.Logger {
	return c.logger
}

// WithPrefix sets the prefix of every mapped route.
// An empty prefix causes the mapping to fail.
//
// Example:
//
//	endpoint.Map(r, reg, endpoint.WithPrefix("/api/v1"))
func WithPrefix(prefix string) Option {
	return func(c *Config) {
		c.Prefix = prefix
	}
}

// WithGroup sets a callback that receives the prefix group before routes are
// mapped onto it.
//
// Example:
//
//	endpoint.Map(r, reg, endpoint.WithGroup(func(g endpoint.Router) {
//	    g.GET("/healthz", healthz)
//	}))
func WithGroup(fn func(Router)) Option {
	return func(c *Config) {
		c.ConfigureGroup = fn
	}
}

// WithTiming logs the duration and size of the mapping at info level.
func WithTiming(enabled bool) Option {
	return func(c *Config) {
		c.LogTiming = enabled
	}
}

// WithLogger sets the logger. A nil logger disables logging.
//
// Example:
//
//	endpoint.Map(r, reg, endpoint.WithLogger(slog.Default()))
func WithLogger(logger *slog.Logger) Option {
	return func(c *Config) {
		if logger == nil {
			logger = noopLogger
		}
		c.logger = logger
	}
}

// WithHook registers a configuration hook that markers reference by name in
// their "with" key. Registering a name twice replaces the earlier hook.
//
// Example:
//
//	endpoint.Map(r, reg, endpoint.WithHook("admin", func(rc *endpoint.RouteContext) {
//	    rc.Builder.SetTags("admin")
//	}))
func WithHook(name string, h Hook) Option {
	return func(c *Config) {
		c.hooks[name] = h
	}
}

// WithResolver sets the resolver used for injected fields when the request
// carries no resolver of its own.
func WithResolver(r Resolver) Option {
	return func(c *Config) {
		c.resolver = r
	}
}

// WithErrorFormatter sets the formatter that renders request-time failures,
// such as unresolvable dependencies. The default is RFC 9457 problem details.
//
// Example:
//
//	endpoint.Map(r, reg, endpoint.WithErrorFormatter(errors.NewSimple()))
func WithErrorFormatter(f riverrors.Formatter) Option {
	return func(c *Config) {
		if f != nil {
			c.formatter = f
		}
	}
}
