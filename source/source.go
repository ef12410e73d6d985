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

// Package source 提供 cursor.Source 的若干实现
//
// Source 只负责产出字节块 记录边界的发现与缓冲均由 cursor 完成
// 存储侧的命名规则 鉴权与重试策略不属于本层
package source

import (
	"github.com/pkg/errors"

	"github.com/recordd/recordd/common"
	"github.com/recordd/recordd/cursor"
)

func newError(format string, args ...any) error {
	format = "source: " + format
	return errors.Errorf(format, args...)
}

var (
	// ErrUnknownType 未注册的 Source 类型
	ErrUnknownType = newError("unknown source type")
)

const (
	// CompressNone 不解压缩
	CompressNone = "none"

	// CompressSnappy snappy stream 格式解压缩
	CompressSnappy = "snappy"
)

// Config 单个数据源的配置
type Config struct {
	Name    string         `config:"name"`
	Type    string         `config:"type"`
	Path    string         `config:"path"`
	Options common.Options `config:"options"`
}

// Validate 校验配置合法性
func (c Config) Validate() error {
	if c.Name == "" {
		return newError("name required")
	}
	if c.Type == "" {
		return newError("(%s) type required", c.Name)
	}
	return nil
}

// CreateFunc 定义了创建 Source 的方法
type CreateFunc func(Config) (cursor.Source, error)

var sourceFactory = map[string]CreateFunc{}

func Get(name string) CreateFunc {
	return sourceFactory[name]
}

func Register(name string, createFunc CreateFunc) {
	sourceFactory[name] = createFunc
}

// New 按配置创建 Source 实例
func New(conf Config) (cursor.Source, error) {
	f := Get(conf.Type)
	if f == nil {
		return nil, errors.WithMessage(ErrUnknownType, conf.Type)
	}
	return f(conf)
}

func chunkSize(opts common.Options) int {
	n, err := opts.GetInt("chunkSize")
	if err != nil || n <= 0 {
		return common.DefaultChunkSize
	}
	return n
}
