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
	"github.com/valyala/bytebufferpool"
)

// segment 持有一块固定容量的内存
//
// 不变式 consumed <= length <= cap(block)
// segment 由 Chain 独占持有 完全消费且无 View 引用后归还 bytebufferpool
type segment struct {
	bb       *bytebufferpool.ByteBuffer
	block    []byte
	length   int // 已写入的有效字节数
	consumed int // 已消费释放的字节数
	next     *segment
}

func newSegment(size int) *segment {
	bb := bytebufferpool.Get()
	if cap(bb.B) < size {
		bb.B = make([]byte, size)
	}
	return &segment{
		bb:    bb,
		block: bb.B[:size],
	}
}

// write 向 segment 写入数据 返回实际写入的字节数
func (seg *segment) write(p []byte) int {
	n := copy(seg.block[seg.length:], p)
	seg.length += n
	return n
}

// writable 返回 segment 剩余可写容量
func (seg *segment) writable() int {
	return len(seg.block) - seg.length
}

// exhausted 返回 segment 是否已被完全消费
func (seg *segment) exhausted() bool {
	return seg.consumed == seg.length
}

// free 归还内存块 此后任何指向该 segment 的 Position 均失效
func (seg *segment) free() {
	bytebufferpool.Put(seg.bb)
	seg.bb = nil
	seg.block = nil
	seg.next = nil
}
