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
	"github.com/recordd/recordd/cursor"
	"github.com/recordd/recordd/source"
	"github.com/recordd/recordd/tailer"
)

type Config struct {
	// Sources 数据源列表 每个数据源对应一个独立的 Tailer
	Sources []source.Config `config:"sources"`

	// Decode 切分与解码特性
	Decode DecodeConfig `config:"decode"`
}

type DecodeConfig struct {
	// Policy 解码失败策略 skip | failfast
	Policy string `config:"policy"`

	// Tail 流结束时残缺尾部的处理策略 discard | emit
	Tail string `config:"tail"`

	// KeepCR 保留分隔符前的 `\r` 默认剔除以兼容 CRLF 输入
	KeepCR bool `config:"keepCR"`

	// BlockSize 单个缓冲 segment 的容量
	BlockSize int `config:"blockSize"`

	// MaxBuffered 单个 Tailer 的缓冲字节上限 0 表示不设限
	MaxBuffered int `config:"maxBuffered"`
}

func (c DecodeConfig) decodePolicy() tailer.DecodePolicy {
	if c.Policy == "failfast" {
		return tailer.PolicyFailFast
	}
	return tailer.PolicySkip
}

func (c DecodeConfig) tailPolicy() cursor.TailPolicy {
	if c.Tail == "emit" {
		return cursor.TailEmit
	}
	return cursor.TailDiscard
}

func (c DecodeConfig) cursorConfig() cursor.Config {
	return cursor.Config{
		TrimCR:      !c.KeepCR,
		Tail:        c.tailPolicy(),
		BlockSize:   c.BlockSize,
		MaxBuffered: c.MaxBuffered,
	}
}
