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

// Package record 定义记录解码器边界
//
// 解码失败是 per-record 级别的 默认不会终结整个流
package record

import (
	"github.com/pkg/errors"

	"github.com/recordd/recordd/common"
	"github.com/recordd/recordd/internal/chainbuf"
)

// Decoder 记录解码器定义
//
// 所有解码器都需实现本接口 将一条已切分记录的字节 View 解码为 *common.Record
type Decoder interface {
	// Decode 解码数据 不允许修改从 View 读取到的任何字节
	// 如有修改需求 请先通过 View.Bytes 拷贝一份
	//
	// v 为 `已经切分好的` 单条记录 不含分隔符
	// 返回的 *common.Record 必须拥有独立内存 不得继续引用 v
	Decode(v chainbuf.View) (*common.Record, error)
}

// DecodeError 单条记录的解码失败
//
// 携带记录内容的截断预览 便于定位坏数据 不作为流级别的致命错误
type DecodeError struct {
	Preview string
	Err     error
}

func (e *DecodeError) Error() string {
	return "record: decode failed: " + e.Err.Error()
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// IsDecodeError 返回 err 是否为记录级别的解码失败
func IsDecodeError(err error) bool {
	var de *DecodeError
	return errors.As(err, &de)
}
