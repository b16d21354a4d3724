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

package fixtures

import (
	"net/http"

	"rivaas.dev/endpoint"
)

// Health reports the service version. It carries state but no injected
// dependencies, so its handlers are bound to a single instance.
type Health struct {
	endpoint.Base
	_ endpoint.Route `handler:"Check" GET:"/healthz" HEAD:"/healthz"`

	version string
}

func (h Health) Check(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("X-Version", h.version)
	w.WriteHeader(http.StatusNoContent)
}

func (Health) Configure(b endpoint.Builder) {
	b.SetTags("ops")
}
