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

package endpoint_test

import (
	"errors"
	"net/http"
	"reflect"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rivaas.dev/logging"

	"rivaas.dev/endpoint"
	"rivaas.dev/endpoint/endpointtest"
	"rivaas.dev/endpoint/internal/fixtures"
)

// hookLog records the routes a hook was applied to.
type hookLog struct {
	mu    sync.Mutex
	calls []string
}

func (h *hookLog) hook(rc *endpoint.RouteContext) {
	h.mu.Lock()
	defer h.mu.Unlock()

	verbs := make([]string, len(rc.Verbs))
	for i, v := range rc.Verbs {
		verbs[i] = string(v)
	}
	h.calls = append(h.calls, rc.Method+" "+strings.Join(verbs, ",")+" "+rc.Path)
}

func mapFixtures(t *testing.T, opts ...endpoint.Option) (*endpointtest.Recorder, *endpoint.Mapping, *hookLog, error) {
	t.Helper()

	audit := &hookLog{}
	rec := endpointtest.NewRecorder()
	reg := endpoint.MustNewRegistry(fixtures.Candidates()...)
	opts = append([]endpoint.Option{endpoint.WithHook("audit", audit.hook)}, opts...)
	mapping, err := endpoint.Map(rec, reg, opts...)

	return rec, mapping, audit, err
}

// TestMap_RegistrationOrder tests that routes are registered type by type,
// method by method, declaration by declaration and path by path
func TestMap_RegistrationOrder(t *testing.T) {
	t.Parallel()

	rec, mapping, _, err := mapFixtures(t)
	require.ErrorIs(t, err, endpoint.ErrUnsupportedVerb)
	require.NotNil(t, mapping)

	assert.Equal(t, []string{
		"GET /healthz",
		"HEAD /healthz",
		"GET /legacy",
		"GET /something",
		"GET /manual/marked",
		"GET /multi",
		"GET /multi/2",
		"DELETE /multi/2",
		"POST /multi/3",
		"GET /todos",
		"GET /maybe",
		"TRACE /opts",
		"POST /todos",
		"GET /users/:id",
		"POST /users",
		"GET /widgets",
	}, rec.Keys())

	assert.Equal(t, []string{"Health", "Legacy", "Manual", "Multi", "Todos", "Users", "Widgets"}, mapping.Types)
	for i, r := range mapping.Routes {
		assert.Equal(t, i, r.Index)
	}
}

// TestMap_RegistrationCount tests that every declared path yields exactly one
// registration
func TestMap_RegistrationCount(t *testing.T) {
	t.Parallel()

	reg := endpoint.MustNewRegistry(fixtures.Candidates()...)
	want := 0
	for _, typ := range reg.Types() {
		d, _ := reg.Describe(typ)
		if d != nil {
			want += len(d.Routes())
		}
	}

	_, mapping, _, _ := mapFixtures(t)
	assert.Equal(t, want, mapping.Len())
	assert.Equal(t, 15, mapping.Len())
}

// TestMap_StackedVerbs tests a handler declared with two verbs and three paths
func TestMap_StackedVerbs(t *testing.T) {
	t.Parallel()

	rec := endpointtest.NewRecorder()
	reg := endpoint.MustNewRegistry(fixtures.Todos{})
	mapping, err := endpoint.Map(rec, reg, endpoint.WithHook("audit", func(*endpoint.RouteContext) {}))
	require.NoError(t, err)

	var list []string
	for _, r := range mapping.Routes {
		if r.Method == "List" {
			list = append(list, string(r.Verb)+" "+r.Path)
		}
	}
	assert.Equal(t, []string{"GET /todos", "GET /maybe", "TRACE /opts"}, list)

	trace, ok := rec.Find(endpoint.VerbTrace, "/opts")
	require.True(t, ok)
	assert.Equal(t, []endpoint.Verb{endpoint.VerbTrace}, trace.Verbs)
}

// TestMap_Hooks tests that declarative hooks and Configure see exactly the
// route they apply to
func TestMap_Hooks(t *testing.T) {
	t.Parallel()

	rec, _, audit, _ := mapFixtures(t)
	assert.Equal(t, []string{"Create POST /multi/3", "Create POST /todos"}, audit.calls)

	create, ok := rec.Find(endpoint.VerbPost, "/multi/3")
	require.True(t, ok)
	assert.Equal(t, "Create POST /multi/3", create.Builder.Description())
	assert.Equal(t, "multi.create", create.Builder.Name())

	del, ok := rec.Find(endpoint.VerbDelete, "/multi/2")
	require.True(t, ok)
	assert.Equal(t, "Handle DELETE /multi/2", del.Builder.Description())
	assert.Empty(t, del.Builder.Name())

	health, ok := rec.Find(endpoint.VerbHead, "/healthz")
	require.True(t, ok)
	assert.Equal(t, []string{"ops"}, health.Builder.Tags())

	user, ok := rec.Find(endpoint.VerbGet, "/users/:id")
	require.True(t, ok)
	assert.Equal(t, []string{"users", "/users/:id"}, user.Builder.Tags())
}

// TestMap_Metadata tests that mapped routes reference their endpoint
func TestMap_Metadata(t *testing.T) {
	t.Parallel()

	rec, mapping, _, _ := mapFixtures(t)
	for _, r := range mapping.Routes {
		md, ok := endpoint.MetadataOf(r.Builder)
		require.True(t, ok, r.Pattern)
		assert.Equal(t, endpoint.Metadata{Type: r.Type, Method: r.Method}, md)
	}

	manual, ok := rec.Find(endpoint.VerbGet, "/something")
	require.True(t, ok)
	_, ok = endpoint.MetadataOf(manual.Builder)
	assert.False(t, ok, "hand registered routes carry no endpoint metadata")
}

// TestMap_ManualAndDeclared tests that Register and markers are both honored,
// Register first
func TestMap_ManualAndDeclared(t *testing.T) {
	t.Parallel()

	rec := endpointtest.NewRecorder()
	mapping, err := endpoint.Map(rec, endpoint.MustNewRegistry(fixtures.Manual{}))
	require.NoError(t, err)

	assert.Equal(t, []string{"GET /something", "GET /manual/marked"}, rec.Keys())
	require.Equal(t, 1, mapping.Len())
	assert.Equal(t, "/manual/marked", mapping.Routes[0].Path)
}

// TestMap_DeclarationErrors tests that an unsupported verb is reported while
// its siblings are registered
func TestMap_DeclarationErrors(t *testing.T) {
	t.Parallel()

	rec := endpointtest.NewRecorder()
	mapping, err := endpoint.Map(rec, endpoint.MustNewRegistry(fixtures.Legacy{}))
	require.ErrorIs(t, err, endpoint.ErrUnsupportedVerb)

	var de *endpoint.DeclarationError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "Legacy", de.Type)
	assert.Equal(t, "Fetch", de.Handler)
	assert.Equal(t, "FETCH", de.Key)

	assert.Equal(t, []string{"GET /legacy"}, rec.Keys())
	assert.Equal(t, 1, mapping.Len())
}

// TestMap_Prefix tests the route prefix and the group callback
func TestMap_Prefix(t *testing.T) {
	t.Parallel()

	var group endpoint.Router
	rec := endpointtest.NewRecorder()
	mapping, err := endpoint.Map(rec, endpoint.MustNewRegistry(fixtures.Manual{}),
		endpoint.WithPrefix("/api"),
		endpoint.WithGroup(func(g endpoint.Router) { group = g }),
	)
	require.NoError(t, err)

	require.NotNil(t, group)
	assert.Equal(t, "/api", group.Prefix())
	assert.Equal(t, []string{"GET /api/something", "GET /api/manual/marked"}, rec.Keys())
	assert.Equal(t, "/manual/marked", mapping.Routes[0].Path)
	assert.Equal(t, "/api/manual/marked", mapping.Routes[0].Pattern)
	assert.Len(t, mapping.Lookup(endpoint.VerbGet, "/api/manual/marked"), 1)
}

// TestMap_ConfigurationErrors tests errors returned before any registration
func TestMap_ConfigurationErrors(t *testing.T) {
	t.Parallel()

	reg := endpoint.MustNewRegistry(fixtures.Todos{})
	group := healthzGroup(t)

	tests := []struct {
		name string
		r    endpoint.Router
		reg  *endpoint.Registry
		opts []endpoint.Option
		want error
	}{
		{"nil router", nil, reg, nil, endpoint.ErrNilRouter},
		{"nil registry", endpointtest.NewRecorder(), nil, nil, endpoint.ErrNoCandidates},
		{"empty registry", endpointtest.NewRecorder(), endpoint.MustNewRegistry(), nil, endpoint.ErrNoCandidates},
		{"empty prefix", endpointtest.NewRecorder(), reg, []endpoint.Option{endpoint.WithPrefix("")}, endpoint.ErrEmptyPrefix},
		{"unknown hook", endpointtest.NewRecorder(), reg, nil, endpoint.ErrUnknownHook},
		{"unknown hook with group", endpointtest.NewRecorder(), reg, []endpoint.Option{group}, endpoint.ErrUnknownHook},
		{"empty prefix with group", endpointtest.NewRecorder(), reg, []endpoint.Option{group, endpoint.WithPrefix("")}, endpoint.ErrEmptyPrefix},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			mapping, err := endpoint.Map(tt.r, tt.reg, tt.opts...)
			require.ErrorIs(t, err, tt.want)
			assert.Nil(t, mapping)
			if rec, ok := tt.r.(*endpointtest.Recorder); ok {
				assert.Empty(t, rec.Registrations())
			}
		})
	}
}

// TestMap_TimingLog tests the mapping summary logged with WithTiming
func TestMap_TimingLog(t *testing.T) {
	t.Parallel()

	th := logging.NewTestHelper(t)
	_, _, _, err := mapFixtures(t, endpoint.WithLogger(th.Logger.Logger()), endpoint.WithTiming(true))
	require.ErrorIs(t, err, endpoint.ErrUnsupportedVerb)

	assert.True(t, th.ContainsLog("endpoints mapped"))
	assert.True(t, th.ContainsAttr("routes", 15))
	assert.True(t, th.ContainsAttr("endpoints", 7))
	assert.True(t, th.ContainsLog("route mapped"))
}

// TestMap_NoTimingLog tests that the summary is not logged by default
func TestMap_NoTimingLog(t *testing.T) {
	t.Parallel()

	th := logging.NewTestHelper(t, logging.WithLevel(logging.LevelInfo))
	_, _, _, _ = mapFixtures(t, endpoint.WithLogger(th.Logger.Logger()))

	assert.False(t, th.ContainsLog("endpoints mapped"))
	assert.False(t, th.ContainsLog("route mapped"))
}

// TestMapTypes tests the driver shared by discovery and generated code
func TestMapTypes(t *testing.T) {
	t.Parallel()

	var order []string
	mapper := func(name string, hooks ...string) endpoint.TypeMapper {
		return endpoint.TypeMapper{
			Hooks: hooks,
			Map: func(s *endpoint.Session) error {
				order = append(order, name)
				s.Group().GET("/"+name, func(http.ResponseWriter, *http.Request) {})
				return nil
			},
		}
	}
	lookup := func(typ reflect.Type) (endpoint.TypeMapper, bool) {
		switch typ {
		case reflect.TypeFor[fixtures.Todos]():
			return mapper("todos", "audit"), true
		case reflect.TypeFor[fixtures.Health]():
			tm := mapper("health")
			tm.Errors = []error{errors.New("declared twice")}
			return tm, true
		}
		return endpoint.TypeMapper{}, false
	}

	t.Run("registration order", func(t *testing.T) {
		rec := endpointtest.NewRecorder()
		reg := endpoint.MustNewRegistry(fixtures.Health{}, fixtures.Manual{}, fixtures.Todos{})
		_, err := endpoint.MapTypes(rec, reg, lookup, endpoint.WithHook("audit", func(*endpoint.RouteContext) {}))
		require.EqualError(t, err, "declared twice")
		assert.Equal(t, []string{"health", "todos"}, order)
		assert.Equal(t, []string{"GET /health", "GET /todos"}, rec.Keys())
	})

	t.Run("fatal", func(t *testing.T) {
		boom := errors.New("boom")
		rec := endpointtest.NewRecorder()
		_, err := endpoint.MapTypes(rec, endpoint.MustNewRegistry(fixtures.Manual{}),
			func(reflect.Type) (endpoint.TypeMapper, bool) {
				return endpoint.TypeMapper{Fatal: boom, Map: func(*endpoint.Session) error { return nil }}, true
			}, healthzGroup(t))
		require.ErrorIs(t, err, boom)
		assert.Empty(t, rec.Registrations())
	})

	t.Run("hooks of unregistered types", func(t *testing.T) {
		rec := endpointtest.NewRecorder()
		mapping, err := endpoint.MapTypes(rec, endpoint.MustNewRegistry(fixtures.Health{}), lookup)
		require.EqualError(t, err, "declared twice")
		assert.Empty(t, mapping.Routes)
	})
}

// healthzGroup returns a group callback registering GET /healthz.
func healthzGroup(t *testing.T) endpoint.Option {
	t.Helper()

	return endpoint.WithGroup(func(g endpoint.Router) {
		g.GET("/healthz", func(http.ResponseWriter, *http.Request) {})
	})
}
