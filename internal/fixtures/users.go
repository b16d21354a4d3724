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
	"encoding/json"
	"net/http"
	"sync"

	"rivaas.dev/router"

	"rivaas.dev/endpoint"
)

// User is a stored user.
type User struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ErrUserNotFound is returned for unknown user ids.
var ErrUserNotFound = notFound("user not found")

type notFound string

func (e notFound) Error() string   { return string(e) }
func (e notFound) HTTPStatus() int { return http.StatusNotFound }

// Store is an in-memory user store.
type Store struct {
	mu    sync.RWMutex
	users map[string]User
}

// NewStore returns a store holding users.
func NewStore(users ...User) *Store {
	s := &Store{users: make(map[string]User)}
	for _, u := range users {
		s.users[u.ID] = u
	}

	return s
}

// Get returns the user with the given id.
func (s *Store) Get(id string) (User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]

	return u, ok
}

// Put stores u.
func (s *Store) Put(u User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.ID] = u
}

// Users resolves its store for every request.
type Users struct {
	endpoint.Base
	_ endpoint.Route `handler:"Get" GET:"/users/:id"`
	_ endpoint.Route `handler:"Create" POST:"/users"`

	greeting string
	store    *Store `inject:""`
}

func (u *Users) Get(c *router.Context) (*User, error) {
	user, ok := u.store.Get(c.Param("id"))
	if !ok {
		return nil, ErrUserNotFound
	}
	user.Name = u.greeting + " " + user.Name

	return &user, nil
}

func (u *Users) Create(w http.ResponseWriter, r *http.Request) error {
	var user User
	if err := json.NewDecoder(r.Body).Decode(&user); err != nil {
		return err
	}
	u.store.Put(user)
	w.WriteHeader(http.StatusCreated)

	return nil
}

func (Users) Configure(b endpoint.Builder, path string) {
	b.SetTags("users", path)
}
