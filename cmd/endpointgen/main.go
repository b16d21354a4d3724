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

// Command endpointgen compiles the endpoint declarations of a Go package
// into a source file that registers their routes with direct calls.
//
// Run it from a go:generate directive in the package declaring endpoints:
//
//	//go:generate go run rivaas.dev/endpoint/cmd/endpointgen
//
// The generated file defines MapEndpoints and, for every endpoint.MapAll
// call found in the package, installs an interceptor that routes the call
// to it. Declaration problems are printed as diagnostics; the file is still
// written, and the command exits with status 1 if any is an error.
package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"rivaas.dev/logging"

	"rivaas.dev/endpoint/gen"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stderr)
	stop()
	os.Exit(code)
}

// run executes the command and returns its exit status.
func run(ctx context.Context, args []string, stderr io.Writer) int {
	cfg, err := parseArgs(args, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	if err != nil {
		fmt.Fprintln(stderr, "endpointgen:", err)
		return 2
	}

	lg, err := newLogger(cfg, stderr)
	if err != nil {
		fmt.Fprintln(stderr, "endpointgen:", err)
		return 2
	}
	defer func() {
		_ = lg.Shutdown(context.Background())
	}()
	logger := lg.Logger()

	g := newGenerator(cfg, logger)
	if cfg.Watch {
		logger.Info("watching for changes", "dir", cfg.Dir)
		err := gen.Watch(ctx, gen.WatchConfig{
			Dir:    cfg.Dir,
			Ignore: []string{filepath.Base(cfg.Output)},
			Logger: logger,
		}, func(ctx context.Context) error {
			_, err := g.generate(ctx)
			return err
		})
		if err != nil {
			logger.Error("watch failed", "err", err)
			return 1
		}
		return 0
	}

	failed, err := g.generate(ctx)
	if err != nil {
		logger.Error("generation failed", "dir", cfg.Dir, "err", err)
		return 1
	}
	if failed {
		return 1
	}

	return 0
}

// loggerProvider is the part of the rivaas logger the command uses.
type loggerProvider interface {
	Logger() *slog.Logger
	Shutdown(ctx context.Context) error
}

func newLogger(cfg Config, w io.Writer) (loggerProvider, error) {
	level, err := parseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	opts := []logging.Option{
		logging.WithOutput(w),
		logging.WithLevel(level),
		logging.WithServiceName("endpointgen"),
	}
	switch cfg.LogFormat {
	case "json":
		opts = append(opts, logging.WithJSONHandler())
	case "text":
		opts = append(opts, logging.WithTextHandler())
	default:
		opts = append(opts, logging.WithConsoleHandler())
	}

	lg, err := logging.New(opts...)
	if err != nil {
		return nil, err
	}

	return lg, nil
}

// generator compiles one package, reusing its pipeline across runs.
type generator struct {
	cfg      Config
	logger   *slog.Logger
	pipeline *gen.Pipeline
}

func newGenerator(cfg Config, logger *slog.Logger) *generator {
	report := gen.DiagnosticHandlerFunc(func(d gen.Diagnostic) {
		level := slog.LevelWarn
		if d.Severity == gen.SeverityError {
			level = slog.LevelError
		}
		logger.Log(context.Background(), level, d.Message,
			"kind", d.Kind,
			"pos", d.Pos.String(),
		)
	})

	return &generator{
		cfg:    cfg,
		logger: logger,
		pipeline: gen.NewPipeline(
			gen.WithLogger(logger),
			gen.WithDiagnostics(report),
			gen.WithInterceptors(cfg.Intercept),
		),
	}
}

// generate compiles the package and writes or checks the output. It
// reports whether error diagnostics were found or the output is stale.
func (g *generator) generate(ctx context.Context) (bool, error) {
	pkg, err := gen.Load(ctx, ".", &gen.LoadConfig{
		Dir:     g.cfg.Dir,
		Tags:    g.cfg.Tags,
		Exclude: []string{filepath.Base(g.cfg.Output)},
	})
	if err != nil {
		return false, err
	}
	res, err := g.pipeline.Run(ctx, pkg)
	if err != nil {
		return false, err
	}

	path := g.cfg.outputPath()
	current, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return false, err
	}
	upToDate := err == nil && bytes.Equal(current, res.Source)

	switch {
	case g.cfg.Check && !upToDate:
		g.logger.Error("generated file is stale", "file", path)
		return true, nil
	case !g.cfg.Check && !upToDate:
		if err := os.WriteFile(path, res.Source, 0o644); err != nil {
			return false, fmt.Errorf("write %s: %w", path, err)
		}
	}

	g.logger.Info("endpoints compiled",
		"package", res.Package,
		"endpoints", len(res.Descriptors),
		"routes", len(res.Routes()),
		"sites", len(res.Sites),
		"file", path,
		"written", !g.cfg.Check && !upToDate,
	)
	g.logger.Debug("pipeline stats",
		"syntax", res.Stats.Syntax.Executed,
		"symbols", res.Stats.Symbols.Executed,
		"sites", res.Stats.Sites.Executed,
		"emit", res.Stats.Emit.Executed,
	)

	return res.HasErrors(), nil
}
