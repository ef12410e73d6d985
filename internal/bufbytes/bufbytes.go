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

// Package bufbytes 提供容量受限的字节捕获
//
// 用于在日志中携带记录内容的截断预览 超出容量的部分直接丢弃
package bufbytes

import (
	"unicode/utf8"
)

type Bytes struct {
	size int
	buf  []byte
}

func New(size int) *Bytes {
	return &Bytes{
		size: size,
	}
}

// Write 追加 p 超出容量的字节会被静默丢弃
func (b *Bytes) Write(p []byte) {
	n := (b.size - len(b.buf)) - len(p)
	if n >= 0 {
		b.buf = append(b.buf, p...)
		return
	}

	l := b.size - len(b.buf)
	if l > 0 {
		b.buf = append(b.buf, p[:l]...)
	}
}

func (b *Bytes) Len() int {
	return len(b.buf)
}

func (b *Bytes) Text() string {
	return string(b.buf)
}

// Truncated 返回是否发生过截断
func (b *Bytes) Truncated() bool {
	return len(b.buf) >= b.size
}

// SafeText 返回剔除末尾残缺 utf8 序列后的文本
func (b *Bytes) SafeText() string {
	buf := b.buf
	for len(buf) > 0 && !utf8.Valid(buf) {
		buf = buf[:len(buf)-1]
	}
	return string(buf)
}

func (b *Bytes) Clone() []byte {
	if b.buf == nil {
		return nil
	}
	return append([]byte{}, b.buf...)
}

func (b *Bytes) Reset() {
	b.buf = b.buf[:0]
}
