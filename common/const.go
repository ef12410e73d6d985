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

const (
	// App 应用程序名称
	App = "recordd"

	// Version 应用程序版本
	Version = "v0.1.0"

	// DefaultBlockSize 默认的 Segment 内存块长度
	//
	// 单条 Record 通常远小于 16K 但允许跨越多个 Segment
	// Block 过大会在低流量场景下浪费内存 过小则会带来更频繁的跨段遍历
	DefaultBlockSize = 16 * 1024

	// DefaultChunkSize 默认单次向 Source 请求的字节数
	DefaultChunkSize = 32 * 1024
)
