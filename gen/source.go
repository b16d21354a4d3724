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
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DefaultOutput is the file name the generated source is written to.
const DefaultOutput = "endpoints_gen.go"

// File is one source file of a package.
type File struct {
	// Path is the absolute, slash separated file path. It is the path
	// recorded in intercepted call sites.
	Path    string
	Content []byte
}

// Package is the input of a pipeline run.
type Package struct {
	// Name is the package name. When empty it is taken from the first file.
	Name string
	// Path is the import path, used to qualify local type names.
	Path  string
	Files []File
}

// ReadPackage reads the non-test Go files of dir in name order, skipping
// files named in exclude. importPath qualifies the package's own types.
func ReadPackage(dir, importPath string, exclude ...string) (*Package, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(abs)
	if err != nil {
		return nil, fmt.Errorf("gen: read package: %w", err)
	}

	var paths []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !isSourceFile(name, exclude) {
			continue
		}
		paths = append(paths, filepath.Join(abs, name))
	}

	return readFiles(importPath, paths)
}

func readFiles(importPath string, paths []string) (*Package, error) {
	pkg := &Package{Path: importPath}
	for _, p := range paths {
		content, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("gen: read source: %w", err)
		}
		pkg.Files = append(pkg.Files, File{Path: filepath.ToSlash(p), Content: content})
	}
	if len(pkg.Files) == 0 {
		return nil, ErrNoFiles
	}

	return pkg, nil
}

func isSourceFile(name string, exclude []string) bool {
	if !strings.HasSuffix(name, ".go") || strings.HasSuffix(name, "_test.go") {
		return false
	}
	if strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") {
		return false
	}
	for _, x := range exclude {
		if name == x {
			return false
		}
	}

	return true
}
