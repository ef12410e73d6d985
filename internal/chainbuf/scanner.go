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

var (
	CharCRLF = []byte("\r\n")
	CharCR   = []byte("\r")
	CharLF   = []byte("\n")
)

// Scanner 在 chain 的未检查区域内向前查找分隔符
//
// 扫描从检查边界开始 已扫描过的区间不会被重复扫描
// 命中后产出的 View 不包含分隔符本身 trimCR 开启时还会剔除其前紧邻的 `\r`
type Scanner struct {
	chain  *Chain
	delim  byte
	trimCR bool
}

// NewScanner 创建并返回 *Scanner 实例
func NewScanner(chain *Chain, delim byte, trimCR bool) *Scanner {
	return &Scanner{
		chain:  chain,
		delim:  delim,
		trimCR: trimCR,
	}
}

// Scan 从检查边界继续向前扫描分隔符
//
// 命中时返回 [消费边界, P) 的记录 View 与 P+1 处的推进位置
// 边界的实际推进由调用方在 View 释放后通过 Chain.AdvanceTo 完成
// 这样记录所跨的 segment 在 View 活跃期间不会被回收
//
// 未命中时仅将检查边界推进至缓冲数据末尾 消费边界保持不变
// 调用方应向 Source 请求更多字节后重试
func (s *Scanner) Scan() (View, Position, bool) {
	c := s.chain
	if c.head == nil {
		return View{}, Position{}, false
	}

	consumed := c.Consumed()
	examined := c.Examined()
	pending := distance(consumed, examined)

	// 逐 segment 查找分隔符 rel 为相对检查边界的偏移
	var rel int
	relIdx := -1
	seg, off := examined.seg, examined.off
	for seg != nil {
		if off < seg.length {
			if i := bytes.IndexByte(seg.block[off:seg.length], s.delim); i >= 0 {
				relIdx = rel + i
				break
			}
			rel += seg.length - off
		}
		seg, off = seg.next, 0
	}

	if relIdx == -1 {
		c.AdvanceTo(consumed, c.End())
		return View{}, Position{}, false
	}

	rawLen := pending + relIdx
	next := consumed.advance(rawLen + 1)

	rec := View{start: consumed, n: rawLen}
	if s.trimCR && rawLen > 0 && rec.At(rawLen-1) == CharCR[0] {
		rec.n--
	}
	return rec, next, true
}
