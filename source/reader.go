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

	"github.com/golang/snappy"

	"github.com/recordd/recordd/cursor"
)

func init() {
	Register("stdin", func(conf Config) (cursor.Source, error) {
		r, err := wrapCompress(os.Stdin, conf.Options)
		if err != nil {
			return nil, err
		}
		return NewReader(r, chunkSize(conf.Options)), nil
	})
}

// readerSource 将任意 io.Reader 适配为 cursor.Source
//
// 复用同一块读缓冲 返回的 chunk 在下一次 Next 调用前有效
// 与 cursor 的拷贝式 Append 契约一致
type readerSource struct {
	r   io.Reader
	buf []byte
	err error
}

// NewReader 创建并返回 io.Reader 形态的 Source
func NewReader(r io.Reader, chunkSize int) cursor.Source {
	if chunkSize <= 0 {
		chunkSize = 32 * 1024
	}
	return &readerSource{
		r:   r,
		buf: make([]byte, chunkSize),
	}
}

// Next 实现 cursor.Source 接口
func (s *readerSource) Next(ctx context.Context) ([]byte, error) {
	if s.err != nil {
		return nil, s.err
	}

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		n, err := s.r.Read(s.buf)
		if n > 0 {
			// 先交付本次读到的字节 错误留到下一次调用再上报
			if err != nil {
				s.err = err
			}
			return s.buf[:n], nil
		}
		if err != nil {
			s.err = err
			return nil, err
		}
	}
}

// wrapCompress 按 compression 配置包装解压缩 Reader
func wrapCompress(r io.Reader, opts map[string]any) (io.Reader, error) {
	v, ok := opts["compression"]
	if !ok {
		return r, nil
	}

	switch v {
	case CompressNone, "":
		return r, nil
	case CompressSnappy:
		return snappy.NewReader(r), nil
	}
	return nil, newError("unsupported compression %v", v)
}
