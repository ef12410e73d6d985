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

package chainbuf

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func newTestView(t *testing.T, blockSize int, s string) (View, *Chain) {
	chain := New(blockSize, 0)
	assert.NoError(t, chain.Append([]byte(s)))
	return chain.Unconsumed(), chain
}

func TestViewRange(t *testing.T) {
	v, chain := newTestView(t, 4, "hello world")
	defer chain.Release()

	var chunks []string
	v.Range(func(p []byte) bool {
		chunks = append(chunks, string(p))
		return true
	})
	assert.Equal(t, []string{"hell", "o wo", "rld"}, chunks)

	// 返回 false 中止遍历
	var n int
	v.Range(func(p []byte) bool {
		n++
		return false
	})
	assert.Equal(t, 1, n)
}

func TestViewAt(t *testing.T) {
	v, chain := newTestView(t, 4, "hello world")
	defer chain.Release()

	assert.Equal(t, 11, v.Len())
	assert.Equal(t, byte('h'), v.At(0))
	assert.Equal(t, byte('o'), v.At(4)) // 段边界
	assert.Equal(t, byte('d'), v.At(10))
}

func TestViewIndexByte(t *testing.T) {
	v, chain := newTestView(t, 4, "hello world")
	defer chain.Release()

	assert.Equal(t, 2, v.IndexByte('l'))
	assert.Equal(t, 6, v.IndexByte('w')) // 跨段查找
	assert.Equal(t, 10, v.IndexByte('d'))
	assert.Equal(t, -1, v.IndexByte('x'))
}

func TestViewSlice(t *testing.T) {
	v, chain := newTestView(t, 4, "hello world")
	defer chain.Release()

	assert.Equal(t, []byte("world"), v.Slice(6, 11).Bytes())
	assert.Equal(t, []byte("lo w"), v.Slice(3, 7).Bytes())
	assert.Equal(t, 0, v.Slice(5, 5).Len())
}

func TestViewContiguous(t *testing.T) {
	v, chain := newTestView(t, 4, "hello world")
	defer chain.Release()

	// 跨段 View 不提供连续字节片
	_, ok := v.Contiguous()
	assert.False(t, ok)

	// 单段子窗口零拷贝取片
	b, ok := v.Slice(4, 8).Contiguous()
	assert.True(t, ok)
	assert.Equal(t, []byte("o wo"), b)

	b, ok = v.Slice(0, 4).Contiguous()
	assert.True(t, ok)
	assert.Equal(t, []byte("hell"), b)
}

func TestViewBytes(t *testing.T) {
	v, chain := newTestView(t, 4, "hello world")
	defer chain.Release()

	assert.Equal(t, []byte("hello world"), v.Bytes())
	assert.Equal(t, []byte{}, View{}.Bytes())
}
