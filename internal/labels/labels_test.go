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

package labels

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFrom(t *testing.T) {
	ls := From(map[string]string{
		"source": "app.log",
		"host":   "node-1",
	})

	assert.Equal(t, Labels{
		{Name: "host", Value: "node-1"},
		{Name: "source", Value: "app.log"},
	}, ls)
}

func TestLabelsHash(t *testing.T) {
	l1 := From(map[string]string{"source": "app.log", "host": "node-1"})
	l2 := From(map[string]string{"host": "node-1", "source": "app.log"})
	l3 := From(map[string]string{"source": "app.log", "host": "node-2"})

	// 哈希与 map 遍历顺序无关 仅由内容决定
	assert.Equal(t, l1.Hash(), l2.Hash())
	assert.NotEqual(t, l1.Hash(), l3.Hash())
}
