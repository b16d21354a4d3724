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
	"encoding/json"
	"sync"
	"sync/atomic"

	"github.com/cespare/xxhash/v2"
)

// memo is a content addressed cache for one pipeline stage. Entries not
// used during a run are evicted when the run completes.
type memo[V any] struct {
	mu      sync.Mutex
	entries map[uint64]*memoEntry[V]

	executed atomic.Int64
	hits     atomic.Int64
}

type memoEntry[V any] struct {
	value V
	run   uint64
}

func newMemo[V any]() *memo[V] {
	return &memo[V]{entries: make(map[uint64]*memoEntry[V])}
}

// get returns the value cached under key, computing and storing it on a
// miss. run marks the entry as used by the current run.
func (m *memo[V]) get(key, run uint64, compute func() V) V {
	m.mu.Lock()
	if e, ok := m.entries[key]; ok {
		e.run = run
		m.mu.Unlock()
		m.hits.Add(1)

		return e.value
	}
	m.mu.Unlock()

	v := compute()
	m.executed.Add(1)

	m.mu.Lock()
	m.entries[key] = &memoEntry[V]{value: v, run: run}
	m.mu.Unlock()

	return v
}

// sweep evicts the entries not used by run.
func (m *memo[V]) sweep(run uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for k, e := range m.entries {
		if e.run != run {
			delete(m.entries, k)
		}
	}
}

func (m *memo[V]) len() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return len(m.entries)
}

// stats returns and resets the counters.
func (m *memo[V]) stats() StageStats {
	return StageStats{
		Executed: int(m.executed.Swap(0)),
		Hits:     int(m.hits.Swap(0)),
		Entries:  m.len(),
	}
}

// keyOf hashes the given parts, separated so that ("ab", "c") and
// ("a", "bc") differ.
func keyOf(parts ...[]byte) uint64 {
	d := xxhash.New()
	for _, p := range parts {
		_, _ = d.Write(p)
		_, _ = d.Write([]byte{0})
	}

	return d.Sum64()
}

// keyOfValue hashes the JSON encoding of v. Stage inputs are plain data, so
// equal inputs encode identically.
func keyOfValue(v any) (uint64, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return 0, err
	}

	return xxhash.Sum64(b), nil
}

// StageStats counts the work of one stage during a run.
type StageStats struct {
	// Executed is the number of stage invocations that missed the cache.
	Executed int
	// Hits is the number of stage invocations served from the cache.
	Hits int
	// Entries is the size of the stage cache after the run.
	Entries int
}

// Stats reports the work of a pipeline run.
type Stats struct {
	Syntax  StageStats
	Symbols StageStats
	Sites   StageStats
	Emit    StageStats
}
