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
	"io"
	"log/slog"
	"runtime"
)

var noopLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// Option configures a [Pipeline].
type Option func(*Pipeline)

// WithLogger sets the logger of the pipeline. The default discards.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithDiagnostics sets the handler receiving the diagnostics of every run,
// in addition to [Result.Diagnostics].
func WithDiagnostics(h DiagnosticHandler) Option {
	return func(p *Pipeline) {
		p.diagnostics = h
	}
}

// WithGenerator sets the generator name written in the header of the
// generated source.
func WithGenerator(name string) Option {
	return func(p *Pipeline) {
		if name != "" {
			p.generator = name
		}
	}
}

// WithInterceptors enables or disables the sites stage and the interceptor
// installation in the generated source. It is enabled by default.
func WithInterceptors(enabled bool) Option {
	return func(p *Pipeline) {
		p.intercept = enabled
	}
}

// WithWorkers bounds the number of files or candidates processed
// concurrently. The default is GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(p *Pipeline) {
		if n > 0 {
			p.workers = n
		}
	}
}

func defaultWorkers() int {
	return runtime.GOMAXPROCS(0)
}
