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

package bridge

import (
	"log/slog"

	riverrors "rivaas.dev/errors"
)

// Option configures a bridge.
type Option func(*state)

// WithErrorFormatter sets the formatter used for errors returned by
// handlers. The default renders RFC 9457 problem details.
//
// Example:
//
//	bridge.New(r, bridge.WithErrorFormatter(errors.NewSimple()))
func WithErrorFormatter(f riverrors.Formatter) Option {
	return func(st *state) {
		if f != nil {
			st.formatter = f
		}
	}
}

// WithLogger sets the logger used for registration and response failures.
func WithLogger(logger *slog.Logger) Option {
	return func(st *state) {
		if logger != nil {
			st.logger = logger
		}
	}
}
