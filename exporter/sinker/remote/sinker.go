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

// Package remote 将记录批量推送至远端 HTTP 接收方
//
// 记录按来源分组攒批 批满或到达刷新间隔时编码为 JSON 数组
// 经 snappy 压缩后 POST 至配置的 Endpoint
package remote

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/golang/snappy"

	"github.com/recordd/recordd/common"
	"github.com/recordd/recordd/exporter"
	"github.com/recordd/recordd/internal/json"
	"github.com/recordd/recordd/internal/labels"
	"github.com/recordd/recordd/logger"
)

const Name = "remote"

func init() {
	exporter.Register(Name, New)
}

type batch struct {
	source  string
	records []*common.Record
}

// Sinker 批量推送记录的 Sinker 实现
type Sinker struct {
	ctx    context.Context
	cancel context.CancelFunc

	cli *http.Client
	cfg *exporter.RemoteConfig

	mut     sync.Mutex
	batches map[uint64]*batch
}

func New(conf exporter.Config) (exporter.Sinker, error) {
	cfg := &conf.Remote
	if !cfg.Enabled {
		return nil, nil
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cli := &http.Client{
		Timeout: cfg.Timeout,
		Transport: &http.Transport{
			MaxIdleConnsPerHost: common.Concurrency(),
		},
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Sinker{
		ctx:     ctx,
		cancel:  cancel,
		cfg:     cfg,
		cli:     cli,
		batches: make(map[uint64]*batch),
	}
	go s.loopFlush()
	return s, nil
}

func (s *Sinker) Name() string {
	return Name
}

// Sink 实现 Sinker 接口 仅攒批 实际推送由批量阈值或定时器触发
func (s *Sinker) Sink(r *common.Record) error {
	h := labels.From(map[string]string{"source": r.Source}).Hash()

	s.mut.Lock()
	b, ok := s.batches[h]
	if !ok {
		b = &batch{source: r.Source}
		s.batches[h] = b
	}
	b.records = append(b.records, r)

	var full *batch
	if len(b.records) >= s.cfg.Batch {
		full = b
		delete(s.batches, h)
	}
	s.mut.Unlock()

	if full != nil {
		return s.push(full)
	}
	return nil
}

func (s *Sinker) loopFlush() {
	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			return

		case <-ticker.C:
			s.flush()
		}
	}
}

func (s *Sinker) flush() {
	s.mut.Lock()
	batches := s.batches
	s.batches = make(map[uint64]*batch)
	s.mut.Unlock()

	for _, b := range batches {
		if len(b.records) == 0 {
			continue
		}
		if err := s.push(b); err != nil {
			logger.Warnf("failed to push records batch (%s): %v", b.source, err)
		}
	}
}

func (s *Sinker) push(b *batch) error {
	body, err := json.Marshal(b.records)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(s.ctx, s.cfg.Timeout)
	defer cancel()

	compressed := snappy.Encode(nil, body)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.Endpoint, bytes.NewBuffer(compressed))
	if err != nil {
		return err
	}
	req.Header.Add("Content-Encoding", "snappy")
	req.Header.Set("Content-Type", "application/json")

	for k, v := range s.cfg.Header {
		req.Header.Add(k, v)
	}

	rsp, err := s.cli.Do(req)
	if err != nil {
		return err
	}

	if rsp.StatusCode >= 400 {
		logger.Warnf("failed to sink records, status_code: %d", rsp.StatusCode)
	}

	io.Copy(io.Discard, rsp.Body)
	defer rsp.Body.Close()
	return nil
}

// Close 停止定时器并做最后一次刷新
func (s *Sinker) Close() {
	s.flush()
	s.cancel()
}
