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

// Package tailer 将 Source / Cursor / Decoder 组装成面向消费方的记录流
//
// 产出的记录流是 forward-only 的 不可重放 Source 结束后流即有穷
// 同一个 Tailer 仅允许一个消费方 并行消费请创建多个实例
package tailer

import (
	"context"
	"io"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/recordd/recordd/common"
	"github.com/recordd/recordd/cursor"
	"github.com/recordd/recordd/internal/chainbuf"
	"github.com/recordd/recordd/logger"
	"github.com/recordd/recordd/record"
)

// DecodePolicy 解码失败的处理策略
type DecodePolicy uint8

const (
	// PolicySkip 跳过解码失败的记录并继续 为默认策略
	PolicySkip DecodePolicy = iota

	// PolicyFailFast 首个解码失败即终止整个流
	PolicyFailFast
)

// Options Tailer 可选项
type Options struct {
	// Cursor 底层 Cursor 配置
	Cursor cursor.Config

	// Policy 解码失败的处理策略
	Policy DecodePolicy

	// Predicate 快速路径谓词 为 nil 时走通用解码路径
	//
	// 被谓词拒绝的记录不会触发 Decode 调用
	Predicate cursor.Predicate
}

// Tailer 驱动单个数据源的记录消费
type Tailer struct {
	id   string
	name string
	src  cursor.Source
	cur  *cursor.Cursor
	dec  record.Decoder
	opts Options
}

// New 创建并返回 *Tailer 实例
func New(name string, src cursor.Source, dec record.Decoder, opts Options) *Tailer {
	return &Tailer{
		id:   uuid.New().String(),
		name: name,
		src:  src,
		cur:  cursor.New(src, opts.Cursor),
		dec:  dec,
		opts: opts,
	}
}

// ID 返回 Tailer 唯一标识
func (t *Tailer) ID() string {
	return t.id
}

// Name 返回数据源名称
func (t *Tailer) Name() string {
	return t.name
}

// Next 产出下一条已解码记录
//
// 配置了 Predicate 时为快速路径 被拒绝的记录直接跳过且不触发解码
// 流结束后返回 io.EOF PolicySkip 下解码失败仅计数并继续
func (t *Tailer) Next(ctx context.Context) (*common.Record, error) {
	for {
		v, err := t.nextView(ctx)
		if err != nil {
			return nil, err
		}

		r, err := t.dec.Decode(v)
		if err != nil {
			decodeFailures.Inc()
			if t.opts.Policy == PolicyFailFast {
				t.cur.Close()
				return nil, err
			}

			var de *record.DecodeError
			if errors.As(err, &de) {
				logger.Warnf("tailer (%s) skips bad record: %v, preview: %s", t.name, de.Err, de.Preview)
			} else {
				logger.Warnf("tailer (%s) skips bad record: %v", t.name, err)
			}
			continue
		}

		recordsDecoded.Inc()
		return r, nil
	}
}

// NextRaw 产出下一条记录的原始字节 View 不经过解码
//
// 与 Next 相同 返回的 View 仅在下一次调用前有效
func (t *Tailer) NextRaw(ctx context.Context) (chainbuf.View, error) {
	return t.nextView(ctx)
}

func (t *Tailer) nextView(ctx context.Context) (chainbuf.View, error) {
	if t.opts.Predicate != nil {
		return t.cur.NextMatched(ctx, t.opts.Predicate)
	}
	return t.cur.Next(ctx)
}

// State 返回底层 Cursor 状态
func (t *Tailer) State() cursor.State {
	return t.cur.State()
}

// Close 关闭 Tailer 释放缓冲并关闭底层 Source
func (t *Tailer) Close() {
	t.cur.Close()
	if closer, ok := t.src.(io.Closer); ok {
		closer.Close()
	}
}
