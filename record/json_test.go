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

package record

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/recordd/recordd/internal/chainbuf"
)

func newTestView(t *testing.T, blockSize int, s string) (chainbuf.View, *chainbuf.Chain) {
	chain := chainbuf.New(blockSize, 0)
	assert.NoError(t, chain.Append([]byte(s)))
	return chain.Unconsumed(), chain
}

func TestJSONDecoderDecode(t *testing.T) {
	v, chain := newTestView(t, 1024, `{"level":"info","code":200,"msg":"ok"}`)
	defer chain.Release()

	dec := NewJSONDecoder("nginx.access")
	r, err := dec.Decode(v)
	assert.NoError(t, err)

	assert.Equal(t, "nginx.access", r.Source)
	assert.NotZero(t, r.Time)
	assert.Equal(t, "info", r.Data["level"])
	assert.Equal(t, float64(200), r.Data["code"])
	assert.Equal(t, "ok", r.Data["msg"])
}

func TestJSONDecoderDecodeMultiSegment(t *testing.T) {
	// 跨段 View 解码前先物化为连续拷贝
	v, chain := newTestView(t, 8, `{"level":"info","msg":"segmented input"}`)
	defer chain.Release()

	_, ok := v.Contiguous()
	assert.False(t, ok)

	r, err := NewJSONDecoder("test").Decode(v)
	assert.NoError(t, err)
	assert.Equal(t, "segmented input", r.Data["msg"])
}

func TestJSONDecoderDecodeFailed(t *testing.T) {
	v, chain := newTestView(t, 1024, `level=info msg=ok`)
	defer chain.Release()

	_, err := NewJSONDecoder("test").Decode(v)
	assert.Error(t, err)
	assert.True(t, IsDecodeError(err))

	var de *DecodeError
	assert.ErrorAs(t, err, &de)
	assert.Equal(t, "level=info msg=ok", de.Preview)
	assert.NotNil(t, de.Err)
}

func TestJSONDecoderPreviewTruncated(t *testing.T) {
	// 预览仅保留前 256 字节 避免坏数据撑爆日志
	line := "x" + strings.Repeat("y", 1024)
	v, chain := newTestView(t, 1024, line)
	defer chain.Release()

	_, err := NewJSONDecoder("test").Decode(v)
	var de *DecodeError
	assert.ErrorAs(t, err, &de)
	assert.Len(t, de.Preview, previewSize)
}

func TestIsDecodeError(t *testing.T) {
	assert.False(t, IsDecodeError(nil))
	assert.False(t, IsDecodeError(assert.AnError))
	assert.True(t, IsDecodeError(&DecodeError{Err: assert.AnError}))
}
