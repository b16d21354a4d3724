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

// Package fixtures declares endpoints exercised by the runtime engine tests
// and, as source, by the static compiler tests. Both must agree on what the
// package declares.
package fixtures

// Candidates returns one value of every endpoint type of the package in
// source order: files by name, declarations top to bottom.
func Candidates() []any {
	return []any{
		Health{version: "1.2.3"},
		Legacy{},
		Manual{},
		Multi{},
		Todos{},
		Users{greeting: "hello"},
		Widgets{Listing: Listing{items: []string{"bolt", "nut"}}},
	}
}
