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

package cursor

import (
	"context"
	"fmt"
	"io"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"github.com/recordd/recordd/internal/chainbuf"
)

type chunkSource struct {
	chunks [][]byte
	i      int
}

func (s *chunkSource) Next(ctx context.Context) ([]byte, error) {
	if s.i >= len(s.chunks) {
		return nil, io.EOF
	}
	chunk := s.chunks[s.i]
	s.i++
	return chunk, nil
}

type funcSource func(ctx context.Context) ([]byte, error)

func (f funcSource) Next(ctx context.Context) ([]byte, error) {
	return f(ctx)
}

// splitChunks 将 s 在每个切分点处断开 模拟任意到达的分块
func splitChunks(s string, cuts ...int) [][]byte {
	var chunks [][]byte
	prev := 0
	for _, cut := range cuts {
		chunks = append(chunks, []byte(s[prev:cut]))
		prev = cut
	}
	return append(chunks, []byte(s[prev:]))
}

func collect(t *testing.T, cur *Cursor) []string {
	var records []string
	for {
		v, err := cur.Next(context.Background())
		if err != nil {
			assert.ErrorIs(t, err, io.EOF)
			return records
		}
		records = append(records, string(v.Bytes()))
	}
}

func TestCursorTailPolicy(t *testing.T) {
	const input = "a\nbb\n\nccc"

	tests := []struct {
		name    string
		tail    TailPolicy
		records []string
	}{
		{
			name:    "discard drops the trailing partial record",
			tail:    TailDiscard,
			records: []string{"a", "bb", ""},
		},
		{
			name:    "emit yields the trailing partial record",
			tail:    TailEmit,
			records: []string{"a", "bb", "", "ccc"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := &chunkSource{chunks: [][]byte{[]byte(input)}}
			cur := New(src, Config{Tail: tt.tail})

			assert.Equal(t, tt.records, collect(t, cur))
			assert.Equal(t, StateCompleted, cur.State())
			assert.Equal(t, 0, cur.Allocated())
		})
	}
}

func TestCursorChunkBoundaryIndependence(t *testing.T) {
	const input = "alpha\nbeta\ngamma\n\ndelta\n"
	want := []string{"alpha", "beta", "gamma", "", "delta"}

	// 记录序列与分块方式无关 分隔符本身也可能被切分在两块之间
	for i := 0; i <= len(input); i++ {
		src := &chunkSource{chunks: splitChunks(input, i)}
		cur := New(src, Config{})
		assert.Equal(t, want, collect(t, cur), "split at %d", i)
	}

	for i := 1; i < len(input); i++ {
		for j := i; j <= len(input); j++ {
			src := &chunkSource{chunks: splitChunks(input, i, j)}
			cur := New(src, Config{})
			assert.Equal(t, want, collect(t, cur), "split at %d/%d", i, j)
		}
	}
}

func TestCursorByteAtATime(t *testing.T) {
	const input = "a\nbb\n\nccc\n"

	var chunks [][]byte
	for i := range input {
		chunks = append(chunks, []byte{input[i]})
	}

	cur := New(&chunkSource{chunks: chunks}, Config{})
	assert.Equal(t, []string{"a", "bb", "", "ccc"}, collect(t, cur))
}

func TestCursorRecordSpansSegments(t *testing.T) {
	const input = "0123456789abcdef0123456789abcdef\nxy\n"

	cur := New(&chunkSource{chunks: [][]byte{[]byte(input)}}, Config{BlockSize: 4})
	assert.Equal(t, []string{"0123456789abcdef0123456789abcdef", "xy"}, collect(t, cur))
}

func TestCursorDeferredRelease(t *testing.T) {
	src := &chunkSource{chunks: [][]byte{[]byte("abcdefgh\nxy\n")}}
	cur := New(src, Config{BlockSize: 4})

	ctx := context.Background()
	v, err := cur.Next(ctx)
	assert.NoError(t, err)
	assert.Equal(t, StateYielding, cur.State())

	// View 活跃期间消费边界不推进 所跨 segment 不会被回收
	assert.Equal(t, 12, cur.Buffered())
	assert.Equal(t, []byte("abcdefgh"), v.Bytes())

	// 请求下一条记录即释放上一条 对应 segment 允许回收
	v, err = cur.Next(ctx)
	assert.NoError(t, err)
	assert.Equal(t, 3, cur.Buffered())
	assert.Equal(t, []byte("xy"), v.Bytes())
}

func TestCursorFastPath(t *testing.T) {
	const input = "ccc\nab\ncdd\nxx"
	pred := func(v chainbuf.View) bool {
		return v.Len() > 0 && v.At(0) == 'c'
	}

	src := &chunkSource{chunks: [][]byte{[]byte(input)}}
	cur := New(src, Config{Tail: TailEmit})

	ctx := context.Background()
	var records []string
	for {
		v, err := cur.NextMatched(ctx, pred)
		if err != nil {
			assert.ErrorIs(t, err, io.EOF)
			break
		}
		records = append(records, string(v.Bytes()))
	}

	// 被拒绝的记录直接推进边界 尾部记录同样经过谓词
	assert.Equal(t, []string{"ccc", "cdd"}, records)
	assert.Equal(t, StateCompleted, cur.State())
}

func TestCursorCancelledContext(t *testing.T) {
	t.Run("cancelled before first call", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		cur := New(&chunkSource{chunks: [][]byte{[]byte("a\n")}}, Config{})
		_, err := cur.Next(ctx)
		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, StateCancelled, cur.State())
	})

	t.Run("cancelled while awaiting data", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())

		calls := 0
		src := funcSource(func(ctx context.Context) ([]byte, error) {
			calls++
			if calls == 1 {
				return []byte("partial without delimiter"), nil
			}
			cancel()
			return nil, ctx.Err()
		})

		cur := New(src, Config{})
		_, err := cur.Next(ctx)
		assert.ErrorIs(t, err, context.Canceled)

		// 取消后释放全部 segment 且不再产出任何记录
		assert.Equal(t, StateCancelled, cur.State())
		assert.Equal(t, 0, cur.Allocated())

		_, err = cur.Next(context.Background())
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestCursorSourceError(t *testing.T) {
	boom := errors.New("connection reset")

	calls := 0
	src := funcSource(func(ctx context.Context) ([]byte, error) {
		calls++
		if calls == 1 {
			return []byte("a\nbb"), nil
		}
		return nil, boom
	})

	cur := New(src, Config{})
	ctx := context.Background()

	v, err := cur.Next(ctx)
	assert.NoError(t, err)
	assert.Equal(t, []byte("a"), v.Bytes())

	_, err = cur.Next(ctx)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, StateFailed, cur.State())
	assert.Equal(t, 0, cur.Allocated())

	// 终态保持 错误可重复观察
	_, err = cur.Next(ctx)
	assert.ErrorIs(t, err, boom)
}

func TestCursorAllocExceeded(t *testing.T) {
	src := &chunkSource{chunks: [][]byte{
		[]byte("0123456789abcdef"),
		[]byte("0123456789abcdef"),
	}}
	cur := New(src, Config{BlockSize: 16, MaxBuffered: 16})

	_, err := cur.Next(context.Background())
	assert.ErrorIs(t, err, chainbuf.ErrAllocExceeded)
	assert.Equal(t, StateFailed, cur.State())
	assert.Equal(t, 0, cur.Allocated())
}

func TestCursorMemoryBound(t *testing.T) {
	const (
		total     = 10000
		perChunk  = 8
		blockSize = 256
	)

	emitted := 0
	src := funcSource(func(ctx context.Context) ([]byte, error) {
		if emitted >= total {
			return nil, io.EOF
		}
		var chunk []byte
		for i := 0; i < perChunk && emitted < total; i++ {
			chunk = append(chunk, fmt.Sprintf("record-%06d\n", emitted)...)
			emitted++
		}
		return chunk, nil
	})

	cur := New(src, Config{BlockSize: blockSize})
	ctx := context.Background()

	// 持有内存与记录总数无关 始终不超过一个 chunk 加最长记录的量级
	count, maxAlloc := 0, 0
	for {
		v, err := cur.Next(ctx)
		if err != nil {
			assert.ErrorIs(t, err, io.EOF)
			break
		}
		assert.Equal(t, 13, v.Len())
		count++
		if alloc := cur.Allocated(); alloc > maxAlloc {
			maxAlloc = alloc
		}
	}

	assert.Equal(t, total, count)
	assert.LessOrEqual(t, maxAlloc, 2*blockSize)
	assert.Equal(t, 0, cur.Allocated())
}

func TestCursorClose(t *testing.T) {
	src := &chunkSource{chunks: [][]byte{[]byte("a\nbb\nccc\n")}}
	cur := New(src, Config{})

	ctx := context.Background()
	_, err := cur.Next(ctx)
	assert.NoError(t, err)

	cur.Close()
	assert.Equal(t, StateCancelled, cur.State())
	assert.Equal(t, 0, cur.Allocated())

	_, err = cur.Next(ctx)
	assert.ErrorIs(t, err, ErrClosed)

	// 已处于终态时 Close 幂等
	cur.Close()
	assert.Equal(t, StateCancelled, cur.State())
}

func TestCursorCustomDelimiter(t *testing.T) {
	src := &chunkSource{chunks: [][]byte{[]byte("a|bb|ccc|")}}
	cur := New(src, Config{Delimiter: '|'})

	assert.Equal(t, []string{"a", "bb", "ccc"}, collect(t, cur))
}

func TestCursorEmptyStream(t *testing.T) {
	cur := New(&chunkSource{}, Config{})

	_, err := cur.Next(context.Background())
	assert.ErrorIs(t, err, io.EOF)
	assert.Equal(t, StateCompleted, cur.State())
}
