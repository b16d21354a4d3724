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

package endpoint

import (
	"cmp"
	"fmt"
	"path"
	"runtime"
	"slices"
	"strings"
	"sync"
)

// CallSite is the source position of a [MapAll] call: the import path of
// the calling package ("main" for commands), the base name of the file and
// a 1-based line and column. It does not depend on where the module is
// checked out or whether the binary was built with -trimpath.
type CallSite struct {
	Package string
	File    string
	Line    int
	Column  int
}

func (c CallSite) String() string {
	return fmt.Sprintf("%s/%s:%d:%d", c.Package, c.File, c.Line, c.Column)
}

// MapFunc is the signature of [Map], [MapAll] and generated mapping routines.
type MapFunc func(r Router, reg *Registry, opts ...Option) (*Mapping, error)

// interceptors is filled by the init functions of generated code.
var interceptors = struct {
	sync.RWMutex
	sites map[CallSite]MapFunc
}{sites: make(map[CallSite]MapFunc)}

// Intercept redirects the [MapAll] call at site to fn. It is called from
// generated code and panics when site is already intercepted.
func Intercept(site CallSite, fn MapFunc) {
	interceptors.Lock()
	defer interceptors.Unlock()

	if _, ok := interceptors.sites[site]; ok {
		panic(fmt.Errorf("%w: %s", ErrDuplicateIntercept, site))
	}
	interceptors.sites[site] = fn
}

// Interceptors returns the intercepted call sites ordered by package, file,
// line and column.
func Interceptors() []CallSite {
	interceptors.RLock()
	defer interceptors.RUnlock()

	out := make([]CallSite, 0, len(interceptors.sites))
	for site := range interceptors.sites {
		out = append(out, site)
	}
	slices.SortFunc(out, func(a, b CallSite) int {
		return cmp.Or(
			cmp.Compare(a.Package, b.Package),
			cmp.Compare(a.File, b.File),
			cmp.Compare(a.Line, b.Line),
			cmp.Compare(a.Column, b.Column),
		)
	})

	return out
}

// interceptorAt returns the routine installed for a call on the line of
// at. The runtime reports no column, so the leftmost site on the line wins.
func interceptorAt(at CallSite) (MapFunc, CallSite, bool) {
	interceptors.RLock()
	defer interceptors.RUnlock()

	var (
		found MapFunc
		site  CallSite
	)
	for s, fn := range interceptors.sites {
		if s.Package != at.Package || s.File != at.File || s.Line != at.Line {
			continue
		}
		if found == nil || s.Column < site.Column {
			found, site = fn, s
		}
	}

	return found, site, found != nil
}

// callerInterceptor looks up the interceptor for the caller skip frames up.
func callerInterceptor(skip int) (MapFunc, CallSite, bool) {
	at, ok := callerSite(skip + 1)
	if !ok {
		return nil, CallSite{}, false
	}

	return interceptorAt(at)
}

// callerSite returns the call site of the caller skip frames up, without a
// column.
func callerSite(skip int) (CallSite, bool) {
	pcs := make([]uintptr, 1)
	if runtime.Callers(skip+2, pcs) == 0 {
		return CallSite{}, false
	}
	frame, _ := runtime.CallersFrames(pcs).Next()
	if frame.Function == "" || frame.File == "" {
		return CallSite{}, false
	}

	return CallSite{
		Package: funcPackage(frame.Function),
		File:    path.Base(frame.File),
		Line:    frame.Line,
	}, true
}

// funcPackage returns the import path of a qualified function name such as
// "example.com/app/api.(*Server).Start".
func funcPackage(name string) string {
	slash := strings.LastIndexByte(name, '/')
	dot := strings.IndexByte(name[slash+1:], '.')
	if dot < 0 {
		return name
	}

	return strings.ReplaceAll(name[:slash+1+dot], "%2e", ".")
}
