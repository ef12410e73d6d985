// Copyright 2025 The recordd Authors
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/recordd/recordd/confengine"
)

func TestNewDisabled(t *testing.T) {
	conf, err := confengine.LoadContent([]byte("{}"))
	assert.NoError(t, err)

	s, err := New(conf)
	assert.NoError(t, err)
	assert.Nil(t, s)
}

func TestServerRoutes(t *testing.T) {
	conf, err := confengine.LoadContent([]byte(`
server:
  enabled: true
  address: 127.0.0.1:0
`))
	assert.NoError(t, err)

	s, err := New(conf)
	assert.NoError(t, err)
	assert.NotNil(t, s)

	s.RegisterGetRoute("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("pong"))
	})

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pong", w.Body.String())

	// 方法不匹配
	w = httptest.NewRecorder()
	s.router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/ping", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}
