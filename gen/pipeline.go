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
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"rivaas.dev/endpoint"
)

// Pipeline compiles packages into registration source. It keeps the memo
// tables of its stages between runs, so running it again after an edit
// only recomputes what the edit affects. A Pipeline runs one package at a
// time; concurrent calls to [Pipeline.Run] are serialized.
type Pipeline struct {
	mu  sync.Mutex
	run uint64

	logger      *slog.Logger
	diagnostics DiagnosticHandler
	generator   string
	intercept   bool
	workers     int

	syntax  *memo[*fileSyntax]
	symbols *memo[*symbols]
	sites   *memo[[]endpoint.CallSite]
	emit    *memo[emitted]
}

// NewPipeline returns a pipeline with empty memo tables.
func NewPipeline(opts ...Option) *Pipeline {
	p := &Pipeline{
		logger:    noopLogger,
		generator: DefaultGenerator,
		intercept: true,
		workers:   defaultWorkers(),
		syntax:    newMemo[*fileSyntax](),
		symbols:   newMemo[*symbols](),
		sites:     newMemo[[]endpoint.CallSite](),
		emit:      newMemo[emitted](),
	}
	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Result is the outcome of a run. Descriptors are shared with the memo
// tables and must not be modified.
type Result struct {
	Package     string
	Descriptors []*endpoint.Descriptor
	Sites       []endpoint.CallSite
	Diagnostics []Diagnostic
	Source      []byte
	Stats       Stats
}

// HasErrors reports whether any diagnostic is an error.
func (r *Result) HasErrors() bool {
	for _, d := range r.Diagnostics {
		if d.Severity == SeverityError {
			return true
		}
	}

	return false
}

// Routes returns the routes of every descriptor in registration order.
func (r *Result) Routes() []endpoint.RouteInfo {
	var out []endpoint.RouteInfo
	for _, d := range r.Descriptors {
		out = append(out, d.Routes()...)
	}

	return out
}

// Run compiles pkg. Problems in the sources are reported as diagnostics and
// do not fail the run; the returned error is reserved for missing input,
// cancellation and internal failures.
func (p *Pipeline) Run(ctx context.Context, pkg *Package) (*Result, error) {
	if pkg == nil || len(pkg.Files) == 0 {
		return nil, ErrNoFiles
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.run++
	run := p.run
	start := time.Now()

	files, sites, err := p.scan(ctx, run, pkg)
	if err != nil {
		return nil, err
	}

	name := pkg.Name
	for _, f := range files {
		if name == "" {
			name = f.Package
		}
	}
	if name == "" {
		return nil, ErrPackageName
	}

	resolved, err := p.resolve(ctx, run, pkg.Path, files)
	if err != nil {
		return nil, err
	}

	res := &Result{Package: name}
	for _, f := range files {
		res.Diagnostics = append(res.Diagnostics, f.Diagnostics...)
	}
	for _, s := range resolved {
		res.Descriptors = append(res.Descriptors, s.Descriptor)
		res.Diagnostics = append(res.Diagnostics, s.Diagnostics...)
	}
	res.Diagnostics = append(res.Diagnostics, duplicates(resolved)...)
	for _, s := range sites {
		res.Sites = append(res.Sites, s...)
	}

	in := emitInput{
		Generator: p.generator,
		Package:   name,
		PkgPath:   pkg.Path,
		Sites:     res.Sites,
	}
	for _, s := range resolved {
		in.Types = append(in.Types, emitType{Descriptor: s.Descriptor, Failures: s.Failures})
	}
	key, err := keyOfValue(in)
	if err != nil {
		return nil, fmt.Errorf("gen: hash emit input: %w", err)
	}
	out := p.emit.get(key, run, func() emitted {
		src, err := emit(in)
		return emitted{Source: src, Err: err}
	})
	if out.Err != nil {
		return nil, out.Err
	}
	res.Source = out.Source

	p.syntax.sweep(run)
	p.symbols.sweep(run)
	p.sites.sweep(run)
	p.emit.sweep(run)
	res.Stats = Stats{
		Syntax:  p.syntax.stats(),
		Symbols: p.symbols.stats(),
		Sites:   p.sites.stats(),
		Emit:    p.emit.stats(),
	}

	if p.diagnostics != nil {
		for _, d := range res.Diagnostics {
			p.diagnostics.OnDiagnostic(d)
		}
	}
	p.logger.Debug("package compiled",
		"package", name,
		"files", len(files),
		"endpoints", len(res.Descriptors),
		"sites", len(res.Sites),
		"diagnostics", len(res.Diagnostics),
		"duration", time.Since(start),
	)

	return res, nil
}

// scan runs the syntax and sites stages over every file in parallel.
func (p *Pipeline) scan(ctx context.Context, run uint64, pkg *Package) ([]*fileSyntax, [][]endpoint.CallSite, error) {
	files := make([]*fileSyntax, len(pkg.Files))
	sites := make([][]endpoint.CallSite, len(pkg.Files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)
	for i, f := range pkg.Files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			files[i] = p.syntax.get(keyOf([]byte(pkg.Path), []byte(f.Path), f.Content), run, func() *fileSyntax {
				return parseSyntax(pkg.Path, f)
			})
			if p.intercept {
				sites[i] = p.sites.get(keyOf([]byte(pkg.Path), []byte(f.Path), f.Content), run, func() []endpoint.CallSite {
					return locateSites(pkg.Path, f)
				})
			}

			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	return files, sites, nil
}

// resolve runs the symbols stage over every candidate in parallel.
// Candidates keep file order, then declaration order. Each candidate is
// keyed by its own declaration and the methods it can call, promoted ones
// included, so an edit to an embedded type re-resolves its embedders.
func (p *Pipeline) resolve(ctx context.Context, run uint64, pkgPath string, files []*fileSyntax) ([]*symbols, error) {
	var (
		methods = make(map[string][]methodDecl)
		structs = make(map[string][]embedField)
	)
	for _, f := range files {
		for _, m := range f.Methods {
			methods[m.Recv] = append(methods[m.Recv], m)
		}
		for _, st := range f.Structs {
			structs[st.Name] = st.Embeds
		}
	}

	var inputs []symbolInput
	for _, f := range files {
		for _, c := range f.Candidates {
			set, foreign := methodSet(c.Name, methods, structs)
			inputs = append(inputs, symbolInput{PkgPath: pkgPath, Candidate: c, Methods: set, Foreign: foreign})
		}
	}

	resolved := make([]*symbols, len(inputs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)
	for i, in := range inputs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			key, err := keyOfValue(in)
			if err != nil {
				return fmt.Errorf("gen: hash %s: %w", in.Candidate.Name, err)
			}
			resolved[i] = p.symbols.get(key, run, func() *symbols {
				return resolveSymbols(in)
			})

			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return resolved, nil
}

// duplicates warns about (verb, path) pairs declared more than once. Every
// occurrence is still registered.
func duplicates(resolved []*symbols) []Diagnostic {
	var (
		out   []Diagnostic
		first = make(map[string]endpoint.RouteInfo)
	)
	for _, s := range resolved {
		for i, r := range s.Descriptor.Routes() {
			key := string(r.Verb) + " " + r.Path
			prev, ok := first[key]
			if !ok {
				first[key] = r
				continue
			}
			out = append(out, Diagnostic{
				Severity: SeverityWarning,
				Kind:     DiagDuplicateRoute,
				Pos:      s.Positions[i],
				Type:     r.Type,
				Method:   r.Method,
				Message: fmt.Sprintf("endpoint %s.%s: %s %s is also mapped by %s.%s",
					r.Type, r.Method, r.Verb, r.Path, prev.Type, prev.Method),
			})
		}
	}

	return out
}
