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

package gen_test

import (
	"context"
	"go/format"
	"go/parser"
	"go/token"
	"strings"
	"sync"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"rivaas.dev/endpoint"
	"rivaas.dev/endpoint/gen"
)

func lines(ls ...string) []byte {
	return []byte(strings.Join(ls, "\n") + "\n")
}

// shopPackage is a package with one MapAll call site, two endpoints
// declaring the same route and a few broken declarations.
func shopPackage() *gen.Package {
	return &gen.Package{
		Path: "example.com/shop",
		Files: []gen.File{
			{Path: "/src/shop/catalog.go", Content: lines(
				"package shop",
				"",
				"import (",
				"\t\"rivaas.dev/endpoint\"",
				"\t\"rivaas.dev/router\"",
				")",
				"",
				"type Catalog struct {",
				"\tendpoint.Base",
				"\t_ endpoint.Route `handler:\"List\" GET:\"/items\" FETCH:\"/items\"`",
				"\t_ endpoint.Route `handler:\"Missing\" GET:\"/missing\"`",
				"\t_ endpoint.Route `handler:\"Bad\" GET:\"/bad\"`",
				"}",
				"",
				"func (Catalog) List(c *router.Context) error { return nil }",
				"",
				"func (Catalog) Bad(s string) {}",
			)},
			{Path: "/src/shop/main.go", Content: lines(
				"package shop",
				"",
				"import \"rivaas.dev/endpoint\"",
				"",
				"func Setup(r endpoint.Router) error {",
				"\t_, err := endpoint.MapAll(r, endpoint.MustNewRegistry(Catalog{}, Orders{}))",
				"\treturn err",
				"}",
			)},
			{Path: "/src/shop/orders.go", Content: lines(
				"package shop",
				"",
				"import (",
				"\t\"net/http\"",
				"",
				"\t\"rivaas.dev/endpoint\"",
				")",
				"",
				"type Orders struct {",
				"\tendpoint.Base",
				"\t_ endpoint.Route `handler:\"List\" GET:\"/items\" TRACE:\"/orders\" with:\"audit\"`",
				"}",
				"",
				"func (Orders) List(w http.ResponseWriter, r *http.Request) {}",
			)},
		},
	}
}

func withFile(pkg *gen.Package, path string, content []byte) *gen.Package {
	out := &gen.Package{Name: pkg.Name, Path: pkg.Path}
	for _, f := range pkg.Files {
		if f.Path == path {
			f.Content = content
		}
		out.Files = append(out.Files, f)
	}

	return out
}

func kinds(ds []gen.Diagnostic) []gen.DiagnosticKind {
	out := make([]gen.DiagnosticKind, len(ds))
	for i, d := range ds {
		out[i] = d.Kind
	}

	return out
}

var _ = Describe("Pipeline", func() {
	var (
		ctx context.Context
		p   *gen.Pipeline
	)

	BeforeEach(func() {
		ctx = context.Background()
		p = gen.NewPipeline()
	})

	Describe("compiling a package", func() {
		var res *gen.Result

		BeforeEach(func() {
			var err error
			res, err = p.Run(ctx, shopPackage())
			Expect(err).NotTo(HaveOccurred())
		})

		It("should take the package name from the sources", func() {
			Expect(res.Package).To(Equal("shop"))
		})

		It("should describe candidates in file order", func() {
			Expect(res.Descriptors).To(HaveLen(2))
			Expect(res.Descriptors[0].Name).To(Equal("Catalog"))
			Expect(res.Descriptors[1].Name).To(Equal("Orders"))
		})

		It("should keep valid declarations next to broken ones", func() {
			Expect(res.Routes()).To(Equal([]endpoint.RouteInfo{
				{Type: "Catalog", Method: "List", Verb: endpoint.VerbGet, Path: "/items"},
				{Type: "Orders", Method: "List", Verb: endpoint.VerbGet, Path: "/items"},
				{Type: "Orders", Method: "List", Verb: endpoint.VerbTrace, Path: "/orders"},
			}))
		})

		It("should report every problem in order", func() {
			Expect(kinds(res.Diagnostics)).To(Equal([]gen.DiagnosticKind{
				gen.DiagUnsupportedVerb,
				gen.DiagUnknownMethod,
				gen.DiagUnsupportedShape,
				gen.DiagDuplicateRoute,
			}))
			Expect(res.HasErrors()).To(BeTrue())

			verb := res.Diagnostics[0]
			Expect(verb.Severity).To(Equal(gen.SeverityError))
			Expect(verb.Pos).To(Equal(gen.Position{File: "/src/shop/catalog.go", Line: 10, Column: 2}))
			Expect(verb.String()).To(HavePrefix("/src/shop/catalog.go:10:2: error: "))
			Expect(verb.Message).To(ContainSubstring("FETCH"))

			shape := res.Diagnostics[2]
			Expect(shape.Method).To(Equal("Bad"))
			Expect(shape.Pos.Line).To(Equal(17))

			dup := res.Diagnostics[3]
			Expect(dup.Severity).To(Equal(gen.SeverityWarning))
			Expect(dup.Type).To(Equal("Orders"))
			Expect(dup.Pos.File).To(Equal("/src/shop/orders.go"))
			Expect(dup.Message).To(ContainSubstring("Catalog.List"))
		})

		It("should locate the MapAll call site", func() {
			Expect(res.Sites).To(Equal([]endpoint.CallSite{
				{Package: "example.com/shop", File: "main.go", Line: 6, Column: 21},
			}))
		})

		It("should emit formatted, parsable source", func() {
			formatted, err := format.Source(res.Source)
			Expect(err).NotTo(HaveOccurred())
			Expect(formatted).To(Equal(res.Source))

			f, err := parser.ParseFile(token.NewFileSet(), "endpoints_gen.go", res.Source, 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(f.Name.Name).To(Equal("shop"))
		})

		It("should emit direct registrations", func() {
			src := string(res.Source)
			Expect(src).To(HavePrefix("// Code generated by endpointgen. DO NOT EDIT.\n"))
			Expect(src).To(ContainSubstring(
				`endpoint.Intercept(endpoint.CallSite{Package: "example.com/shop", File: "main.go", Line: 6, Column: 21}, MapEndpoints)`))
			Expect(src).To(ContainSubstring("return endpoint.MapTypes(r, reg, endpointMapper, opts...)"))
			Expect(src).To(ContainSubstring(`return endpoint.TypeMapper{Hooks: []string{"audit"}, Map: mapOrdersEndpoint}, true`))
			Expect(src).To(ContainSubstring("e := &Catalog{}"))
			Expect(src).To(ContainSubstring(`b = g.GET("/items", e.List)`))
			Expect(src).To(ContainSubstring(`b = g.Handle([]endpoint.Verb{endpoint.VerbTrace}, "/orders", e.List)`))
			Expect(src).To(ContainSubstring(
				`s.Bind(b, endpoint.RouteInfo{Type: "Orders", Method: "List", Verb: endpoint.VerbTrace, Path: "/orders"}, "audit")`))
			Expect(src).NotTo(ContainSubstring("e.Missing"))
			Expect(src).NotTo(ContainSubstring("e.Bad"))
			Expect(src).NotTo(ContainSubstring(`"context"`))
		})

		It("should replay the errors discovery returns", func() {
			src := string(res.Source)
			Expect(src).To(ContainSubstring(
				`Errors: []error{&endpoint.DeclarationError{Type: "Catalog", Handler: "List", Key: "FETCH", Err: endpoint.ErrUnsupportedVerb}}`))
			Expect(src).To(ContainSubstring(
				`Fatal: errors.Join(&endpoint.ShapeError{Type: "Catalog", Method: "Missing", Signature: "", Err: endpoint.ErrUnknownMethod}, ` +
					`&endpoint.ShapeError{Type: "Catalog", Method: "Bad", Signature: "`))
			Expect(src).To(ContainSubstring(`Err: endpoint.ErrUnsupportedShape})}, true`))
			Expect(src).To(ContainSubstring("\t\"errors\"\n"))
		})
	})

	Describe("promoted methods", func() {
		kit := func(configure string) *gen.Package {
			return &gen.Package{
				Path: "example.com/kit",
				Files: []gen.File{{Path: "/src/kit/kit.go", Content: lines(
					"package kit",
					"",
					"import (",
					"\t\"sync\"",
					"",
					"\t\"rivaas.dev/endpoint\"",
					"\t\"rivaas.dev/router\"",
					")",
					"",
					"type Lister struct{}",
					"",
					"func (Lister) List(c *router.Context) error { return nil }",
					"",
					configure,
					"",
					"type Inner struct {",
					"\t*Lister",
					"}",
					"",
					"type Shelf struct {",
					"\tendpoint.Base",
					"\tInner",
					"\t_ endpoint.Route `handler:\"List\" GET:\"/shelf\"`",
					"}",
					"",
					"type Locked struct {",
					"\tendpoint.Base",
					"\tsync.Mutex",
					"\t_ endpoint.Route `handler:\"Lock\" GET:\"/lock\"`",
					"}",
					"",
					"type A struct{}",
					"type B struct{}",
					"",
					"func (A) Get(c *router.Context) error { return nil }",
					"func (B) Get(c *router.Context) error { return nil }",
					"",
					"type Twin struct {",
					"\tendpoint.Base",
					"\tA",
					"\tB",
					"\t_ endpoint.Route `handler:\"Get\" GET:\"/twin\"`",
					"}",
				)}},
			}
		}
		const withConfigure = "func (Lister) Configure(b endpoint.Builder) {}"

		It("should resolve handlers and hooks through embedded types of the package", func() {
			res, err := p.Run(ctx, kit(withConfigure))
			Expect(err).NotTo(HaveOccurred())

			Expect(res.Descriptors).To(HaveLen(3))
			shelf := res.Descriptors[0]
			Expect(shelf.Name).To(Equal("Shelf"))
			Expect(shelf.Configure).To(Equal(1))
			Expect(shelf.Methods).To(HaveLen(1))
			Expect(shelf.Methods[0].Shape).To(Equal(endpoint.ShapeContextError))

			src := string(res.Source)
			Expect(src).To(ContainSubstring(`b = g.GET("/shelf", e.List)`))
			Expect(src).To(ContainSubstring("\te.Configure(b)\n"))
		})

		It("should report foreign embeds and ambiguous selectors", func() {
			res, err := p.Run(ctx, kit(withConfigure))
			Expect(err).NotTo(HaveOccurred())

			Expect(kinds(res.Diagnostics)).To(Equal([]gen.DiagnosticKind{
				gen.DiagForeignEmbed,
				gen.DiagForeignEmbed,
				gen.DiagUnknownMethod,
			}))

			hooks := res.Diagnostics[0]
			Expect(hooks.Severity).To(Equal(gen.SeverityWarning))
			Expect(hooks.Type).To(Equal("Locked"))
			Expect(hooks.Pos).To(Equal(gen.Position{File: "/src/kit/kit.go", Line: 28, Column: 2}))
			Expect(hooks.Message).To(ContainSubstring("sync.Mutex"))

			lock := res.Diagnostics[1]
			Expect(lock.Severity).To(Equal(gen.SeverityError))
			Expect(lock.Method).To(Equal("Lock"))
			Expect(lock.Message).To(ContainSubstring("sync.Mutex"))

			Expect(res.Diagnostics[2].Type).To(Equal("Twin"))
			Expect(res.Diagnostics[2].Method).To(Equal("Get"))
			Expect(string(res.Source)).To(ContainSubstring(`Method: "Lock", Signature: "", Err: endpoint.ErrUnknownMethod`))
		})

		It("should re-resolve an endpoint when an embedded type changes", func() {
			_, err := p.Run(ctx, kit(withConfigure))
			Expect(err).NotTo(HaveOccurred())

			res, err := p.Run(ctx, kit("func (Lister) Describe() string { return \"\" }"))
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Descriptors[0].Configure).To(BeZero())
			Expect(string(res.Source)).NotTo(ContainSubstring("e.Configure"))
		})
	})

	Describe("running again", func() {
		It("should serve an unchanged package from the memo tables", func() {
			first, err := p.Run(ctx, shopPackage())
			Expect(err).NotTo(HaveOccurred())
			Expect(first.Stats.Syntax).To(Equal(gen.StageStats{Executed: 3, Hits: 0, Entries: 3}))
			Expect(first.Stats.Symbols).To(Equal(gen.StageStats{Executed: 2, Hits: 0, Entries: 2}))
			Expect(first.Stats.Emit).To(Equal(gen.StageStats{Executed: 1, Hits: 0, Entries: 1}))

			second, err := p.Run(ctx, shopPackage())
			Expect(err).NotTo(HaveOccurred())
			Expect(second.Source).To(Equal(first.Source))
			Expect(second.Stats).To(Equal(gen.Stats{
				Syntax:  gen.StageStats{Executed: 0, Hits: 3, Entries: 3},
				Symbols: gen.StageStats{Executed: 0, Hits: 2, Entries: 2},
				Sites:   gen.StageStats{Executed: 0, Hits: 3, Entries: 3},
				Emit:    gen.StageStats{Executed: 0, Hits: 1, Entries: 1},
			}))
		})

		It("should reparse only an edited file", func() {
			pkg := shopPackage()
			first, err := p.Run(ctx, pkg)
			Expect(err).NotTo(HaveOccurred())

			orders := append([]byte(nil), pkg.Files[2].Content...)
			orders = append(orders, []byte("\n// Orders lists orders.\n")...)
			second, err := p.Run(ctx, withFile(pkg, "/src/shop/orders.go", orders))
			Expect(err).NotTo(HaveOccurred())

			Expect(second.Stats.Syntax).To(Equal(gen.StageStats{Executed: 1, Hits: 2, Entries: 3}))
			Expect(second.Stats.Sites).To(Equal(gen.StageStats{Executed: 1, Hits: 2, Entries: 3}))
			Expect(second.Stats.Symbols).To(Equal(gen.StageStats{Executed: 0, Hits: 2, Entries: 2}))
			Expect(second.Stats.Emit).To(Equal(gen.StageStats{Executed: 0, Hits: 1, Entries: 1}))
			Expect(second.Source).To(Equal(first.Source))
		})

		It("should re-emit when a declaration changes", func() {
			pkg := shopPackage()
			first, err := p.Run(ctx, pkg)
			Expect(err).NotTo(HaveOccurred())

			edited := strings.Replace(string(pkg.Files[2].Content), `GET:"/items"`, `GET:"/orders"`, 1)
			second, err := p.Run(ctx, withFile(pkg, "/src/shop/orders.go", []byte(edited)))
			Expect(err).NotTo(HaveOccurred())

			Expect(second.Stats.Symbols).To(Equal(gen.StageStats{Executed: 1, Hits: 1, Entries: 2}))
			Expect(second.Stats.Emit).To(Equal(gen.StageStats{Executed: 1, Hits: 0, Entries: 1}))
			Expect(second.Source).NotTo(Equal(first.Source))
			Expect(kinds(second.Diagnostics)).NotTo(ContainElement(gen.DiagDuplicateRoute))
		})

		It("should give the same output as a fresh pipeline", func() {
			pkg := shopPackage()
			_, err := p.Run(ctx, withFile(pkg, "/src/shop/orders.go", []byte("package shop\n")))
			Expect(err).NotTo(HaveOccurred())
			warm, err := p.Run(ctx, pkg)
			Expect(err).NotTo(HaveOccurred())

			cold, err := gen.NewPipeline(gen.WithWorkers(1)).Run(ctx, pkg)
			Expect(err).NotTo(HaveOccurred())
			Expect(warm.Source).To(Equal(cold.Source))
			Expect(warm.Diagnostics).To(Equal(cold.Diagnostics))
		})

		It("should serialize concurrent runs", func() {
			var (
				wg      sync.WaitGroup
				mu      sync.Mutex
				sources [][]byte
			)
			for range 8 {
				wg.Add(1)
				go func() {
					defer GinkgoRecover()
					defer wg.Done()

					res, err := p.Run(ctx, shopPackage())
					Expect(err).NotTo(HaveOccurred())
					mu.Lock()
					sources = append(sources, res.Source)
					mu.Unlock()
				}()
			}
			wg.Wait()

			Expect(sources).To(HaveLen(8))
			for _, src := range sources[1:] {
				Expect(src).To(Equal(sources[0]))
			}
		})
	})

	Describe("options", func() {
		It("should leave out interceptors when disabled", func() {
			res, err := gen.NewPipeline(gen.WithInterceptors(false)).Run(ctx, shopPackage())
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Sites).To(BeEmpty())
			Expect(res.Stats.Sites).To(Equal(gen.StageStats{}))
			Expect(string(res.Source)).NotTo(ContainSubstring("func init()"))
		})

		It("should name the generator in the header", func() {
			res, err := gen.NewPipeline(gen.WithGenerator("shopgen")).Run(ctx, shopPackage())
			Expect(err).NotTo(HaveOccurred())
			Expect(string(res.Source)).To(HavePrefix("// Code generated by shopgen. DO NOT EDIT.\n"))
		})

		It("should hand diagnostics to the handler", func() {
			var got []gen.Diagnostic
			handler := gen.DiagnosticHandlerFunc(func(d gen.Diagnostic) {
				got = append(got, d)
			})
			res, err := gen.NewPipeline(gen.WithDiagnostics(handler)).Run(ctx, shopPackage())
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(Equal(res.Diagnostics))
		})
	})

	Describe("failures", func() {
		It("should reject an empty package", func() {
			_, err := p.Run(ctx, nil)
			Expect(err).To(MatchError(gen.ErrNoFiles))
			_, err = p.Run(ctx, &gen.Package{Name: "shop"})
			Expect(err).To(MatchError(gen.ErrNoFiles))
		})

		It("should report files that do not parse", func() {
			pkg := shopPackage()
			pkg.Files = append(pkg.Files, gen.File{Path: "/src/shop/zz.go", Content: []byte("package shop\n\nfunc (")})
			res, err := p.Run(ctx, pkg)
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Diagnostics[0].Kind).To(Equal(gen.DiagParse))
			Expect(res.Diagnostics[0].Pos.File).To(Equal("/src/shop/zz.go"))
			Expect(res.Descriptors).To(HaveLen(2))
		})

		It("should fail without a package name", func() {
			pkg := &gen.Package{Files: []gen.File{{Path: "/src/x.go", Content: []byte("func (")}}}
			_, err := p.Run(ctx, pkg)
			Expect(err).To(MatchError(gen.ErrPackageName))
		})

		It("should stop on cancellation", func() {
			cancelled, cancel := context.WithCancel(ctx)
			cancel()
			_, err := p.Run(cancelled, shopPackage())
			Expect(err).To(MatchError(context.Canceled))
		})
	})
})
