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
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestMemo tests hits, misses and eviction of unused entries
func TestMemo(t *testing.T) {
	t.Parallel()

	m := newMemo[string]()
	calls := 0
	compute := func(v string) func() string {
		return func() string {
			calls++
			return v
		}
	}

	assert.Equal(t, "a", m.get(1, 1, compute("a")))
	assert.Equal(t, "b", m.get(2, 1, compute("b")))
	assert.Equal(t, "a", m.get(1, 1, compute("other")))
	assert.Equal(t, 2, calls)
	m.sweep(1)
	assert.Equal(t, StageStats{Executed: 2, Hits: 1, Entries: 2}, m.stats())

	assert.Equal(t, "a", m.get(1, 2, compute("other")))
	m.sweep(2)
	assert.Equal(t, StageStats{Executed: 0, Hits: 1, Entries: 1}, m.stats())
	assert.Equal(t, 2, calls)

	assert.Equal(t, "c", m.get(2, 3, compute("c")))
	assert.Equal(t, 3, calls)
}

// TestKeyOf tests that part boundaries take part in the key
func TestKeyOf(t *testing.T) {
	t.Parallel()

	assert.Equal(t, keyOf([]byte("a"), []byte("b")), keyOf([]byte("a"), []byte("b")))
	assert.NotEqual(t, keyOf([]byte("ab"), []byte("c")), keyOf([]byte("a"), []byte("bc")))
	assert.NotEqual(t, keyOf([]byte("a")), keyOf([]byte("a"), nil))
}

// TestKeyOfValue tests that equal values hash equally
func TestKeyOfValue(t *testing.T) {
	t.Parallel()

	type input struct {
		Name  string
		Paths []string
	}

	a, err := keyOfValue(input{Name: "x", Paths: []string{"/a"}})
	assert.NoError(t, err)
	b, err := keyOfValue(input{Name: "x", Paths: []string{"/a"}})
	assert.NoError(t, err)
	c, err := keyOfValue(input{Name: "x", Paths: []string{"/b"}})
	assert.NoError(t, err)

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)

	_, err = keyOfValue(func() {})
	assert.Error(t, err)
}
