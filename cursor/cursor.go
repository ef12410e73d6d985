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

// Package cursor 实现拉取式的记录切分驱动
//
// Cursor 以状态机的方式驱动整个切分流程
// 向 Source 请求字节 运行 Scanner 产出记录 View 再推进边界回收 segment
// 除向 Source 请求字节这一个挂起点外 其余操作均为同步的边界运算
package cursor

import (
	"context"
	"io"

	"github.com/pkg/errors"

	"github.com/recordd/recordd/common"
	"github.com/recordd/recordd/internal/chainbuf"
)

func newError(format string, args ...any) error {
	format = "cursor: " + format
	return errors.Errorf(format, args...)
}

var (
	// ErrClosed cursor 已关闭
	ErrClosed = newError("closed")
)

// State 标识 Cursor 所处的状态
type State int32

const (
	// StateAwaitingData 已发起读取 等待 Source 返回
	StateAwaitingData State = iota

	// StateScanning 缓冲区内有待扫描字节 正在查找分隔符
	StateScanning

	// StateYielding 一条完整记录 View 已产出且尚未释放
	StateYielding

	// StateDraining Source 已结束 继续扫描缓冲区内剩余的记录
	StateDraining

	// StateCompleted 所有记录均已产出
	StateCompleted

	// StateCancelled 收到取消信号 已释放全部 segment
	StateCancelled

	// StateFailed 读取或分配失败 已释放全部 segment
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateAwaitingData:
		return "awaitingData"
	case StateScanning:
		return "scanning"
	case StateYielding:
		return "yielding"
	case StateDraining:
		return "draining"
	case StateCompleted:
		return "completed"
	case StateCancelled:
		return "cancelled"
	case StateFailed:
		return "failed"
	}
	return "unknown"
}

// Source 字节来源 由调用方注入
//
// Next 返回下一块字节 io.EOF 表示流正常结束 其余 error 视为读取失败
// 返回的字节片仅需在本次调用返回至下一次调用之间有效 Cursor 会将其拷贝进 chain
type Source interface {
	Next(ctx context.Context) ([]byte, error)
}

// Predicate 快速路径谓词 直接运行在记录的原始字节 View 上
//
// 返回 false 时 Cursor 直接推进边界 该记录不会被产出
// 谓词之间不支持链式组合 如有多个条件请由调用方预先合并成一个
type Predicate func(v chainbuf.View) bool

// TailPolicy 流结束时对无分隔符结尾字节的处理策略
type TailPolicy uint8

const (
	// TailDiscard 丢弃末尾的残缺记录 为默认策略
	//
	// 与 append-only 日志的写入习惯匹配 写入方总是以分隔符终结每条记录
	// 残缺的尾部意味着写入尚未完成
	TailDiscard TailPolicy = iota

	// TailEmit 将末尾的残缺记录作为最后一条记录产出
	TailEmit
)

// Config Cursor 配置项
type Config struct {
	// Delimiter 记录分隔符 默认为 `\n`
	Delimiter byte

	// TrimCR 是否剔除分隔符前紧邻的 `\r` 以兼容 CRLF 输入
	TrimCR bool

	// Tail 流结束时残缺尾部的处理策略
	Tail TailPolicy

	// BlockSize 单个 segment 的容量 默认 common.DefaultBlockSize
	BlockSize int

	// MaxBuffered 缓冲字节上限 0 表示不设限
	//
	// 超限时 Next 返回 chainbuf.ErrAllocExceeded 并终结 Cursor
	MaxBuffered int
}

func (c Config) blockSize() int {
	if c.BlockSize <= 0 {
		return common.DefaultBlockSize
	}
	return c.BlockSize
}

func (c Config) delimiter() byte {
	if c.Delimiter == 0 {
		return chainbuf.CharLF[0]
	}
	return c.Delimiter
}

// Cursor 记录切分的驱动状态机
//
// 单个 Cursor 仅允许一个逻辑消费方 `不允许也不应该成为并发操作`
// 同一时刻至多一个 View 处于活跃状态 这是零拷贝 View 无需引用追踪的前提
// 并行消费同一数据源请为每个消费方创建独立的 Cursor 实例
type Cursor struct {
	conf    Config
	src     Source
	chain   *chainbuf.Chain
	scanner *chainbuf.Scanner

	state State
	err   error

	// pending 记录上一条已产出 View 对应的推进位置
	// 消费方请求下一条记录时才真正推进 保证活跃 View 所跨 segment 不被回收
	pending    chainbuf.Position
	hasPending bool
	eof        bool
}

// New 创建并返回 *Cursor 实例
func New(src Source, conf Config) *Cursor {
	chain := chainbuf.New(conf.blockSize(), conf.MaxBuffered)
	return &Cursor{
		conf:    conf,
		src:     src,
		chain:   chain,
		scanner: chainbuf.NewScanner(chain, conf.delimiter(), conf.TrimCR),
	}
}

// Next 产出下一条记录的原始字节 View
//
// 返回的 View 仅在下一次 Next / Close 调用前有效
// 调用 Next 即视为释放上一条 View 消费边界随之推进 对应 segment 允许被回收
// 流结束后返回 io.EOF 取消后返回 ctx.Err()
func (c *Cursor) Next(ctx context.Context) (chainbuf.View, error) {
	return c.next(ctx, nil)
}

// NextMatched 快速路径入口 仅产出令 pred 为 true 的记录
//
// 被拒绝的记录不经过任何解码与拷贝 直接推进边界
// 该路径以放弃算子组合能力换取零分配的过滤开销
func (c *Cursor) NextMatched(ctx context.Context, pred Predicate) (chainbuf.View, error) {
	return c.next(ctx, pred)
}

func (c *Cursor) next(ctx context.Context, pred Predicate) (chainbuf.View, error) {
	switch c.state {
	case StateCompleted:
		return chainbuf.View{}, io.EOF
	case StateCancelled, StateFailed:
		return chainbuf.View{}, c.err
	}

	// 请求下一条记录等价于释放上一条 推进消费边界并回收 segment
	if c.hasPending {
		c.chain.AdvanceTo(c.pending, c.pending)
		c.hasPending = false
	}

	for {
		// 协作式取消检查点 每轮循环检查一次
		if err := ctx.Err(); err != nil {
			c.cancel(err)
			return chainbuf.View{}, err
		}

		if c.eof {
			c.state = StateDraining
		} else {
			c.state = StateScanning
		}

		rec, next, found := c.scanner.Scan()
		if found {
			if pred != nil && !pred(rec) {
				// 快速路径拒绝 立即推进 无需等待释放
				c.chain.AdvanceTo(next, next)
				recordsFiltered.Inc()
				continue
			}
			c.pending, c.hasPending = next, true
			c.state = StateYielding
			recordsTotal.Inc()
			return rec, nil
		}

		if c.eof {
			// Draining 完成 按策略处理残缺尾部
			if c.conf.Tail == TailEmit && c.chain.Buffered() > 0 {
				rec := c.chain.Unconsumed()
				end := c.chain.End()
				if pred != nil && !pred(rec) {
					c.chain.AdvanceTo(end, end)
					recordsFiltered.Inc()
					c.complete()
					return chainbuf.View{}, io.EOF
				}
				c.pending, c.hasPending = end, true
				c.state = StateYielding
				recordsTotal.Inc()
				return rec, nil
			}
			c.complete()
			return chainbuf.View{}, io.EOF
		}

		// 缓冲区已扫描完且无匹配 这是唯一的挂起点
		c.state = StateAwaitingData
		chunk, err := c.src.Next(ctx)
		switch {
		case err == nil:
			if err := c.chain.Append(chunk); err != nil {
				c.fail(err)
				return chainbuf.View{}, c.err
			}
			bytesTotal.Add(float64(len(chunk)))
		case errors.Is(err, io.EOF):
			c.eof = true
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			c.cancel(err)
			return chainbuf.View{}, err
		default:
			c.fail(errors.WithMessage(err, "cursor: read source"))
			return chainbuf.View{}, c.err
		}
	}
}

// State 返回 Cursor 当前状态
func (c *Cursor) State() State {
	return c.state
}

// Buffered 返回当前缓冲的未消费字节数
func (c *Cursor) Buffered() int {
	return c.chain.Buffered()
}

// Allocated 返回当前持有的内存块总字节数
func (c *Cursor) Allocated() int {
	return c.chain.Allocated()
}

// Close 关闭 Cursor 并释放全部 segment
//
// 已处于终态时为幂等操作 否则后续 Next 返回 ErrClosed
func (c *Cursor) Close() {
	switch c.state {
	case StateCompleted, StateCancelled, StateFailed:
		return
	}
	c.cancel(ErrClosed)
}

// complete 正常终结 释放全部 segment
func (c *Cursor) complete() {
	c.chain.Release()
	c.hasPending = false
	c.state = StateCompleted
}

// cancel 取消并释放全部 segment 不再产出任何记录
//
// 取消是有序退出而非失败 错误值仅用于向调用方透传取消原因
func (c *Cursor) cancel(err error) {
	c.chain.Release()
	c.hasPending = false
	c.state = StateCancelled
	c.err = err
}

// fail 读取或分配失败 释放全部 segment 并进入终态
func (c *Cursor) fail(err error) {
	c.chain.Release()
	c.hasPending = false
	c.state = StateFailed
	c.err = err
}
