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
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"golang.org/x/tools/go/packages"
)

// LoadConfig configures [Load].
type LoadConfig struct {
	// Dir is the directory the pattern is resolved in. Empty means the
	// current directory.
	Dir string
	// Tags are build tags applied when selecting files.
	Tags []string
	// Exclude lists base names of files to leave out, typically the
	// generated output itself.
	Exclude []string
}

// Load resolves pattern with the go command and reads the Go files of the
// single matching package, honoring build constraints.
func Load(ctx context.Context, pattern string, cfg *LoadConfig) (*Package, error) {
	if cfg == nil {
		cfg = &LoadConfig{}
	}
	pcfg := &packages.Config{
		Context: ctx,
		Mode:    packages.NeedName | packages.NeedFiles,
		Dir:     cfg.Dir,
	}
	if len(cfg.Tags) > 0 {
		pcfg.BuildFlags = []string{"-tags=" + strings.Join(cfg.Tags, ",")}
	}

	pkgs, err := packages.Load(pcfg, pattern)
	if err != nil {
		return nil, fmt.Errorf("gen: load %s: %w", pattern, err)
	}
	if len(pkgs) != 1 {
		return nil, fmt.Errorf("%w: %s (%d)", ErrMultiplePackages, pattern, len(pkgs))
	}

	p := pkgs[0]
	if len(p.Errors) > 0 {
		errs := make([]error, len(p.Errors))
		for i, e := range p.Errors {
			errs[i] = e
		}
		return nil, fmt.Errorf("gen: load %s: %w", pattern, errors.Join(errs...))
	}

	var paths []string
	for _, f := range p.GoFiles {
		if isSourceFile(filepath.Base(f), cfg.Exclude) {
			paths = append(paths, f)
		}
	}
	pkg, err := readFiles(p.PkgPath, paths)
	if err != nil {
		return nil, err
	}
	pkg.Name = p.Name

	return pkg, nil
}
