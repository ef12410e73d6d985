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

package common

// Record 代表一条已解码的记录
//
// Data 在 JSON 解码场景下为 map[string]any
// Record 一经产出便拥有自己的内存 不再引用 chain 中的任何字节
type Record struct {
	Source string         `json:"source"`
	Time   int64          `json:"time"`
	Data   map[string]any `json:"data"`
}

// Clone 拷贝一份 Record 顶层字段
//
// Data 仅做浅拷贝 processor 修改 key 时需先 Clone
func (r *Record) Clone() *Record {
	data := make(map[string]any, len(r.Data))
	for k, v := range r.Data {
		data[k] = v
	}
	return &Record{
		Source: r.Source,
		Time:   r.Time,
		Data:   data,
	}
}
