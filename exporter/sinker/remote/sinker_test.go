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

package remote

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang/snappy"
	"github.com/stretchr/testify/assert"

	"github.com/recordd/recordd/common"
	"github.com/recordd/recordd/exporter"
	"github.com/recordd/recordd/internal/json"
)

func TestSinkerBatchPush(t *testing.T) {
	received := make(chan []*common.Record, 1)
	svr := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "snappy", r.Header.Get("Content-Encoding"))
		assert.Equal(t, "secret", r.Header.Get("X-Token"))

		compressed, err := io.ReadAll(r.Body)
		assert.NoError(t, err)
		body, err := snappy.Decode(nil, compressed)
		assert.NoError(t, err)

		var records []*common.Record
		assert.NoError(t, json.Unmarshal(body, &records))
		received <- records
	}))
	defer svr.Close()

	s, err := New(exporter.Config{
		Remote: exporter.RemoteConfig{
			Enabled:  true,
			Endpoint: svr.URL,
			Header:   map[string]string{"X-Token": "secret"},
			Batch:    2,
			Interval: time.Hour, // 仅靠批量阈值触发
		},
	})
	assert.NoError(t, err)
	defer s.Close()

	assert.NoError(t, s.Sink(&common.Record{Source: "app.log", Data: map[string]any{"seq": 1}}))
	assert.NoError(t, s.Sink(&common.Record{Source: "app.log", Data: map[string]any{"seq": 2}}))

	select {
	case records := <-received:
		assert.Len(t, records, 2)
		assert.Equal(t, "app.log", records[0].Source)
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for batch push")
	}
}

func TestSinkerFlushOnClose(t *testing.T) {
	received := make(chan int, 1)
	svr := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		compressed, _ := io.ReadAll(r.Body)
		body, _ := snappy.Decode(nil, compressed)

		var records []*common.Record
		assert.NoError(t, json.Unmarshal(body, &records))
		received <- len(records)
	}))
	defer svr.Close()

	s, err := New(exporter.Config{
		Remote: exporter.RemoteConfig{
			Enabled:  true,
			Endpoint: svr.URL,
			Batch:    100,
			Interval: time.Hour,
		},
	})
	assert.NoError(t, err)

	assert.NoError(t, s.Sink(&common.Record{Source: "app.log", Data: map[string]any{"seq": 1}}))
	s.Close()

	select {
	case n := <-received:
		assert.Equal(t, 1, n)
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for final flush")
	}
}

func TestSinkerDisabled(t *testing.T) {
	s, err := New(exporter.Config{})
	assert.NoError(t, err)
	assert.Nil(t, s)
}
