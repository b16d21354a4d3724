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

package bridge

import (
	"fmt"
	"net/http"
	"reflect"

	"rivaas.dev/router"

	"rivaas.dev/endpoint"
)

// adapt converts a dispatch target into a rivaas handler. Each supported
// shape has its own adapter; only func(*router.Context) (T, error) goes
// through reflection, since T is not known statically.
func (st *state) adapt(h endpoint.Handler) (router.HandlerFunc, error) {
	switch fn := h.(type) {
	case nil:
		return nil, fmt.Errorf("%w: nil handler", endpoint.ErrUnsupportedShape)
	case router.HandlerFunc:
		return fn, nil
	case func(*router.Context):
		return fn, nil
	case func(*router.Context) error:
		return func(c *router.Context) {
			if err := fn(c); err != nil {
				st.fail(c, err)
			}
		}, nil
	case func(http.ResponseWriter, *http.Request):
		return func(c *router.Context) {
			fn(c.Response, c.Request)
		}, nil
	case func(http.ResponseWriter, *http.Request) error:
		return func(c *router.Context) {
			if err := fn(c.Response, c.Request); err != nil {
				st.fail(c, err)
			}
		}, nil
	case http.Handler:
		return func(c *router.Context) {
			fn.ServeHTTP(c.Response, c.Request)
		}, nil
	}

	v := reflect.ValueOf(h)
	if v.Kind() != reflect.Func || v.IsNil() {
		return nil, fmt.Errorf("%w: %T", endpoint.ErrUnsupportedShape, h)
	}
	sig := endpoint.SignatureOf(v.Type(), false)
	if shape, err := endpoint.ClassifyShape(sig); err != nil || shape != endpoint.ShapeContextValue {
		return nil, fmt.Errorf("%w: %s", endpoint.ErrUnsupportedShape, sig)
	}

	return func(c *router.Context) {
		out := v.Call([]reflect.Value{reflect.ValueOf(c)})
		if err, _ := out[1].Interface().(error); err != nil {
			st.fail(c, err)
			return
		}
		if err := c.JSON(http.StatusOK, out[0].Interface()); err != nil {
			st.logger.Error("failed to write response", "err", err)
		}
	}, nil
}

// fail writes err through the configured formatter.
func (st *state) fail(c *router.Context, err error) {
	if writeErr := endpoint.WriteError(c.Response, c.Request, st.formatter, err); writeErr != nil {
		st.logger.Error("failed to write error response", "err", writeErr)
	}
}
