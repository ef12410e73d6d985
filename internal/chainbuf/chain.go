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

// Package chainbuf 提供由定长 segment 链接而成的流式缓冲区
//
// Chain 的逻辑内容为各 segment 未消费区间的有序拼接
// 即等于 `尚未释放给消费方` 的那部分流字节
// 所有读操作均为零拷贝 通过 View 以逻辑窗口的形式暴露
package chainbuf

import (
	"github.com/pkg/errors"
)

func newError(format string, args ...any) error {
	format = "chainbuf: " + format
	return errors.Errorf(format, args...)
}

var (
	// ErrAllocExceeded 缓冲区增长超出配置上限
	ErrAllocExceeded = newError("buffered bytes exceeded limit")
)

// Position 标识 chain 中的一个逻辑位置
//
// off 为 segment 内的绝对偏移 取值范围 [0, length]
// Position 所指向的 segment 被释放后即失效 调用方不得越过消费边界持有 Position
type Position struct {
	seg *segment
	off int
}

func (p Position) valid() bool {
	return p.seg != nil
}

// normalize 将落在 segment 末尾的位置折算到下一个 segment 的起点
//
// (seg, seg.length) 与 (seg.next, 0) 指向同一逻辑位置 统一取后者
func (p Position) normalize() Position {
	for p.seg != nil && p.off == p.seg.length && p.seg.next != nil {
		p = Position{seg: p.seg.next}
	}
	return p
}

// advance 返回从 p 前进 n 字节后的位置 越过缓冲数据末尾时停在末尾
func (p Position) advance(n int) Position {
	seg, off := p.seg, p.off
	for n > 0 {
		room := seg.length - off
		if n < room {
			off += n
			break
		}
		n -= room
		if seg.next == nil {
			off = seg.length
			break
		}
		seg, off = seg.next, 0
	}
	return Position{seg: seg, off: off}
}

// distance 返回 a 到 b 的逻辑字节数 要求 b 不早于 a
func distance(a, b Position) int {
	if a.seg == b.seg {
		return b.off - a.off
	}
	n := a.seg.length - a.off
	for seg := a.seg.next; seg != nil; seg = seg.next {
		if seg == b.seg {
			return n + b.off
		}
		n += seg.length
	}
	return n
}

// Chain 维护按写入顺序链接的存活 segment
//
// 头部为最老的未消费 segment chain 同时记录两个边界
// * 消费边界 其之前的字节已释放给消费方
// * 检查边界 其之前的字节已被扫描过但因未发现分隔符而保留
//
// Chain 不支持并发读写 单个消费方应独占一条 Chain
type Chain struct {
	head, tail *segment
	blockSize  int
	maxBytes   int
	segments   int
	examined   Position
}

// New 创建并返回 *Chain 实例
//
// blockSize 为单个 segment 的容量 maxBytes 为缓冲字节上限 0 表示不设限
// 上限针对的是缓冲总量 单条记录允许跨越任意多个 segment
func New(blockSize, maxBytes int) *Chain {
	if blockSize <= 0 {
		blockSize = 16 * 1024
	}
	return &Chain{
		blockSize: blockSize,
		maxBytes:  maxBytes,
	}
}

// Append 将 chunk 拷贝至链尾 必要时分配新的 segment
//
// 未匹配的缓冲字节永远不会被丢弃 超出 maxBytes 上限时返回 ErrAllocExceeded
func (c *Chain) Append(chunk []byte) error {
	if len(chunk) == 0 {
		return nil
	}
	if c.maxBytes > 0 && c.Buffered()+len(chunk) > c.maxBytes {
		return ErrAllocExceeded
	}

	// 整条 chain 均已消费完时 重置尾部 segment 进行复用
	if c.tail != nil && c.tail.exhausted() && c.tail.writable() == 0 {
		c.tail.length = 0
		c.tail.consumed = 0
		c.examined = Position{seg: c.tail}
	}

	for len(chunk) > 0 {
		if c.tail == nil || c.tail.writable() == 0 {
			seg := newSegment(c.blockSize)
			if c.tail == nil {
				c.head, c.tail = seg, seg
			} else {
				c.tail.next = seg
				c.tail = seg
			}
			c.segments++
		}
		n := c.tail.write(chunk)
		chunk = chunk[n:]
	}

	if !c.examined.valid() {
		c.examined = Position{seg: c.head, off: c.head.consumed}
	}
	return nil
}

// Consumed 返回消费边界
func (c *Chain) Consumed() Position {
	if c.head == nil {
		return Position{}
	}
	return Position{seg: c.head, off: c.head.consumed}.normalize()
}

// Examined 返回检查边界
func (c *Chain) Examined() Position {
	return c.examined.normalize()
}

// End 返回缓冲数据末尾位置
func (c *Chain) End() Position {
	if c.tail == nil {
		return Position{}
	}
	return Position{seg: c.tail, off: c.tail.length}
}

// AdvanceTo 推进消费/检查边界并释放已完全消费的 segment
//
// consumed 之前的字节视为已释放 examined 之前的字节视为已扫描但保留
// 调用方必须保证此刻没有任何 View 仍引用被释放的区间
func (c *Chain) AdvanceTo(consumed, examined Position) {
	if !consumed.valid() {
		return
	}
	for seg := c.head; seg != nil; seg = seg.next {
		if seg == consumed.seg {
			seg.consumed = consumed.off
			break
		}
		seg.consumed = seg.length
	}
	c.examined = examined.normalize()

	// 保留尾部 segment 用于复用 其余完全消费的头部 segment 立即释放
	for c.head != nil && c.head != c.tail && c.head.exhausted() && c.head.writable() == 0 {
		seg := c.head
		c.head = seg.next
		seg.free()
		c.segments--
	}
}

// Buffered 返回未消费的缓冲字节总数
func (c *Chain) Buffered() int {
	var n int
	for seg := c.head; seg != nil; seg = seg.next {
		n += seg.length - seg.consumed
	}
	return n
}

// Unexamined 返回已缓冲但尚未扫描的字节数
func (c *Chain) Unexamined() int {
	if c.tail == nil {
		return 0
	}
	return distance(c.Examined(), c.End())
}

// Segments 返回存活的 segment 数量
func (c *Chain) Segments() int {
	return c.segments
}

// Allocated 返回当前占用的内存块总字节数
func (c *Chain) Allocated() int {
	return c.segments * c.blockSize
}

// Slice 以 start 为起点构造长度为 n 的零拷贝 View
func (c *Chain) Slice(start Position, n int) View {
	return View{start: start.normalize(), n: n}
}

// Unconsumed 返回覆盖整个未消费区间的 View
func (c *Chain) Unconsumed() View {
	return View{start: c.Consumed(), n: c.Buffered()}
}

// Release 释放所有 segment 此后 chain 回到初始空状态
func (c *Chain) Release() {
	for seg := c.head; seg != nil; {
		next := seg.next
		seg.free()
		seg = next
	}
	c.head, c.tail = nil, nil
	c.segments = 0
	c.examined = Position{}
}
