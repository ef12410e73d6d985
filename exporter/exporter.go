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

// Package exporter 负责将处理完毕的记录分发至各 Sinker
//
// 每个 Sinker 独占一条 pubsub 订阅队列 互不阻塞
// 队列写满时记录被丢弃 以保证消费侧慢速不拖垮切分主循环
package exporter

import (
	"context"
	"time"

	"github.com/recordd/recordd/common"
	"github.com/recordd/recordd/confengine"
	"github.com/recordd/recordd/internal/pubsub"
	"github.com/recordd/recordd/internal/wait"
	"github.com/recordd/recordd/logger"
)

const popTimeout = time.Second

type Exporter struct {
	ctx    context.Context
	cancel context.CancelFunc
	conf   Config

	ps      *pubsub.PubSub
	sinkers []Sinker
	queues  []pubsub.Queue
}

func New(conf *confengine.Config) (*Exporter, error) {
	var cfg Config
	if conf.Has("exporter") {
		if err := conf.UnpackChild("exporter", &cfg); err != nil {
			return nil, err
		}
	}

	var sinkers []Sinker
	for _, name := range []string{"console", "file", "remote"} {
		f := Get(name)
		if f == nil {
			continue
		}
		sinker, err := f(cfg)
		if err != nil {
			return nil, err
		}
		if sinker != nil {
			sinkers = append(sinkers, sinker)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Exporter{
		ctx:     ctx,
		cancel:  cancel,
		conf:    cfg,
		ps:      pubsub.New(),
		sinkers: sinkers,
	}, nil
}

// Start 为每个 Sinker 启动独立的消费循环
func (e *Exporter) Start() {
	for _, sinker := range e.sinkers {
		q := e.ps.Subscribe(e.conf.GetQueueSize())
		e.queues = append(e.queues, q)
		go e.loopSink(sinker, q)
	}
}

func (e *Exporter) loopSink(sinker Sinker, q pubsub.Queue) {
	wait.Until(e.ctx, func() {
		r, ok := q.PopTimeout(popTimeout)
		if !ok || r == nil {
			return
		}
		if err := sinker.Sink(r); err != nil {
			logger.Warnf("sinker (%s) failed to sink record: %v", sinker.Name(), err)
		}
	})
}

// Export 发布一条记录至所有订阅队列
func (e *Exporter) Export(r *common.Record) {
	e.ps.Publish(r)
}

// Close 停止消费并关闭所有 Sinker
func (e *Exporter) Close() {
	e.cancel()
	for _, q := range e.queues {
		e.ps.Unsubscribe(q)
		q.Close()
	}
	for _, sinker := range e.sinkers {
		sinker.Close()
	}
}
