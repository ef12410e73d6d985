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
	"bytes"
)

// View 是对 chain 的零拷贝只读逻辑窗口 可能跨越多个 segment
//
// View 不拥有内存 仅在其跨越的 segment 存活期间有效
// 驱动方保证同一时刻至多一个 View 处于活跃状态 因此无需引用计数
// 如需在 View 失效后继续使用数据 请先调用 Bytes 拷贝一份
type View struct {
	start Position
	n     int
}

// Len 返回 View 的逻辑长度
func (v View) Len() int {
	return v.n
}

// Range 按逻辑顺序遍历 View 覆盖的各连续字节片
//
// f 返回 false 时中止遍历 传入的字节片为只读 不允许修改
func (v View) Range(f func(p []byte) bool) {
	seg, off, n := v.start.seg, v.start.off, v.n
	for n > 0 && seg != nil {
		end := seg.length
		if end > off+n {
			end = off + n
		}
		if end > off {
			if !f(seg.block[off:end]) {
				return
			}
			n -= end - off
		}
		seg, off = seg.next, 0
	}
}

// At 返回逻辑偏移 i 处的字节 i 必须在 [0, Len) 内
func (v View) At(i int) byte {
	seg, off := v.start.seg, v.start.off
	for {
		if i < seg.length-off {
			return seg.block[off+i]
		}
		i -= seg.length - off
		seg, off = seg.next, 0
	}
}

// IndexByte 返回 b 在 View 内首次出现的逻辑偏移 未找到时返回 -1
//
// 扫描按 segment 分片进行 跨段边界不产生任何拷贝
func (v View) IndexByte(b byte) int {
	idx := -1
	var base int
	v.Range(func(p []byte) bool {
		if i := bytes.IndexByte(p, b); i >= 0 {
			idx = base + i
			return false
		}
		base += len(p)
		return true
	})
	return idx
}

// Slice 返回 [i, j) 的子窗口 仅做表示层运算 不发生拷贝
func (v View) Slice(i, j int) View {
	return View{start: v.start.advance(i).normalize(), n: j - i}
}

// Contiguous 在 View 未跨段时返回底层字节片 避免拷贝
func (v View) Contiguous() ([]byte, bool) {
	p := v.start.normalize()
	if p.seg == nil {
		return nil, v.n == 0
	}
	if p.seg.length-p.off >= v.n {
		return p.seg.block[p.off : p.off+v.n], true
	}
	return nil, false
}

// Bytes 将 View 物化为一份独立拥有的连续拷贝
//
// 拷贝永远不会隐式发生 仅在调用方显式请求时进行
func (v View) Bytes() []byte {
	b := make([]byte, 0, v.n)
	v.Range(func(p []byte) bool {
		b = append(b, p...)
		return true
	})
	return b
}
