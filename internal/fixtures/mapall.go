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

import "rivaas.dev/endpoint"

// MapAll maps the endpoints of reg onto r. The call below is served by the
// generated MapEndpoints.
func MapAll(r endpoint.Router, reg *endpoint.Registry, opts ...endpoint.Option) (*endpoint.Mapping, error) {
	return endpoint.MapAll(r, reg, opts...)
}
