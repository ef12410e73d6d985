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

package record

import (
	"github.com/goccy/go-json"

	"github.com/recordd/recordd/common"
	"github.com/recordd/recordd/internal/bufbytes"
	"github.com/recordd/recordd/internal/chainbuf"
	"github.com/recordd/recordd/internal/fasttime"
)

const previewSize = 256

// JSONDecoder 将 NDJSON 行解码为 *common.Record
type JSONDecoder struct {
	source string
}

// NewJSONDecoder 创建并返回 *JSONDecoder 实例
//
// source 会被写入每条 Record 的 Source 字段 用于标识记录来源
func NewJSONDecoder(source string) *JSONDecoder {
	return &JSONDecoder{
		source: source,
	}
}

// Decode 实现 Decoder 接口
//
// View 未跨段时直接在原始字节上解码 跨段时才物化一份连续拷贝
func (d *JSONDecoder) Decode(v chainbuf.View) (*common.Record, error) {
	b, ok := v.Contiguous()
	if !ok {
		b = v.Bytes()
	}

	data := make(map[string]any)
	if err := json.Unmarshal(b, &data); err != nil {
		preview := bufbytes.New(previewSize)
		preview.Write(b)
		return nil, &DecodeError{
			Preview: preview.SafeText(),
			Err:     err,
		}
	}
	return &common.Record{
		Source: d.source,
		Time:   fasttime.UnixTimestamp(),
		Data:   data,
	}, nil
}
