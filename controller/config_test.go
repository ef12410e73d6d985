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

package controller

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/recordd/recordd/cursor"
	"github.com/recordd/recordd/tailer"
)

func TestDecodeConfig(t *testing.T) {
	cfg := DecodeConfig{}
	assert.Equal(t, tailer.PolicySkip, cfg.decodePolicy())
	assert.Equal(t, cursor.TailDiscard, cfg.tailPolicy())
	assert.True(t, cfg.cursorConfig().TrimCR)

	cfg = DecodeConfig{
		Policy:      "failfast",
		Tail:        "emit",
		KeepCR:      true,
		BlockSize:   4096,
		MaxBuffered: 1 << 20,
	}
	assert.Equal(t, tailer.PolicyFailFast, cfg.decodePolicy())
	assert.Equal(t, cursor.TailEmit, cfg.tailPolicy())

	cc := cfg.cursorConfig()
	assert.False(t, cc.TrimCR)
	assert.Equal(t, 4096, cc.BlockSize)
	assert.Equal(t, 1<<20, cc.MaxBuffered)
}
