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

import "errors"

// Static errors for the compiler.
var (
	// ErrNoFiles is returned when a package has no source files to compile.
	ErrNoFiles = errors.New("gen: no source files")

	// ErrPackageName is returned when no package name can be determined.
	ErrPackageName = errors.New("gen: missing package name")

	// ErrMultiplePackages is returned by [Load] when a pattern matches more
	// than one package.
	ErrMultiplePackages = errors.New("gen: pattern matches more than one package")
)
