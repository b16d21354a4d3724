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

// Package gen is the static registration compiler of rivaas.dev/endpoint.
//
// It reads the Go sources of one package, finds the endpoint types declared
// in them and emits a source file that registers their routes with direct,
// statically typed calls: method values and method expressions instead of
// reflection. The generated file also installs interceptors for the
// [endpoint.MapAll] calls it finds, so that an application switches from
// runtime discovery to the generated routine by regenerating, without
// editing its call sites.
//
// # Pipeline
//
// A [Pipeline] runs four stages, each memoized on an xxhash of its input:
//
//   - syntax, per file: imports, endpoint candidates, marker tags, injected
//     fields and method signatures rendered as canonical type names
//   - symbols, per candidate: the [endpoint.Descriptor] and its diagnostics
//   - sites, per file: the positions of MapAll calls
//   - emit, per package: the gofmt'ed generated source
//
// Files and candidates are processed in parallel. Results keep source order:
// files in the order given, declarations top to bottom. Running a pipeline
// again on an edited package only re-executes the stages whose input
// changed; [Stats] reports what ran.
//
// # Usage
//
// The endpointgen command drives a pipeline from go:generate:
//
//	//go:generate go run rivaas.dev/endpoint/cmd/endpointgen
//
// Library use:
//
//	pkg, err := gen.Load(ctx, ".", nil)
//	if err != nil {
//	    return err
//	}
//	res, err := gen.NewPipeline().Run(ctx, pkg)
//	if err != nil {
//	    return err
//	}
//	if err := os.WriteFile("endpoints_gen.go", res.Source, 0o644); err != nil {
//	    return err
//	}
//	if res.HasErrors() {
//	    // report res.Diagnostics
//	}
package gen
