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

package source

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/recordd/recordd/cursor"
)

const defaultPollInterval = 500 * time.Millisecond

func init() {
	Register("file", func(conf Config) (cursor.Source, error) {
		return NewFile(conf)
	})
}

// fileSource 读取 append-only 文件
//
// follow 模式下读到文件末尾不会结束 而是按 pollInterval 轮询等待新写入
// 只能通过 ctx 取消退出 与 tail -f 行为一致
type fileSource struct {
	f        *os.File
	r        io.Reader
	buf      []byte
	follow   bool
	interval time.Duration
	err      error
}

// NewFile 创建并返回文件形态的 Source
func NewFile(conf Config) (cursor.Source, error) {
	if conf.Path == "" {
		return nil, newError("(%s) path required", conf.Name)
	}

	f, err := os.Open(conf.Path)
	if err != nil {
		return nil, err
	}

	r, err := wrapCompress(f, conf.Options)
	if err != nil {
		f.Close()
		return nil, err
	}

	follow, _ := conf.Options.GetBool("follow")
	interval, err := conf.Options.GetDuration("pollInterval")
	if err != nil || interval <= 0 {
		interval = defaultPollInterval
	}
	return &fileSource{
		f:        f,
		r:        r,
		buf:      make([]byte, chunkSize(conf.Options)),
		follow:   follow,
		interval: interval,
	}, nil
}

// Next 实现 cursor.Source 接口
func (s *fileSource) Next(ctx context.Context) ([]byte, error) {
	if s.err != nil {
		return nil, s.err
	}

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		n, err := s.r.Read(s.buf)
		if n > 0 {
			if err != nil && err != io.EOF {
				s.err = err
			}
			return s.buf[:n], nil
		}

		switch {
		case err == nil:
		case err == io.EOF && s.follow:
			// 等待写入方追加新数据
			select {
			case <-time.After(s.interval):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		default:
			s.err = err
			return nil, err
		}
	}
}

// Close 关闭底层文件
func (s *fileSource) Close() error {
	return s.f.Close()
}
