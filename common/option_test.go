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

package common

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestOptions(t *testing.T) {
	opts := Options{
		"chunkSize":    "4096",
		"follow":       true,
		"compression":  "snappy",
		"pollInterval": "200ms",
		"fields":       []any{"a", "b"},
	}

	n, err := opts.GetInt("chunkSize")
	assert.NoError(t, err)
	assert.Equal(t, 4096, n)

	b, err := opts.GetBool("follow")
	assert.NoError(t, err)
	assert.True(t, b)

	s, err := opts.GetString("compression")
	assert.NoError(t, err)
	assert.Equal(t, "snappy", s)

	d, err := opts.GetDuration("pollInterval")
	assert.NoError(t, err)
	assert.Equal(t, 200*time.Millisecond, d)

	ss, err := opts.GetStringSlice("fields")
	assert.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, ss)

	_, err = opts.GetInt("not-exists")
	assert.Error(t, err)
}

func TestRecordClone(t *testing.T) {
	r := &Record{
		Source: "app.log",
		Time:   1700000000,
		Data:   map[string]any{"msg": "ok"},
	}

	cloned := r.Clone()
	cloned.Data["msg"] = "changed"
	assert.Equal(t, "ok", r.Data["msg"])
	assert.Equal(t, r.Source, cloned.Source)
}
