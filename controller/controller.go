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

// Package controller 负责组装并驱动整个进程
//
// 每个数据源对应一条独立的消费链路 Source -> Cursor -> Decoder -> Pipeline -> Exporter
// 链路之间不共享任何可变状态
package controller

import (
	"context"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/recordd/recordd/common"
	"github.com/recordd/recordd/confengine"
	"github.com/recordd/recordd/cursor"
	"github.com/recordd/recordd/exporter"
	"github.com/recordd/recordd/internal/rescue"
	"github.com/recordd/recordd/logger"
	"github.com/recordd/recordd/pipeline"
	"github.com/recordd/recordd/record"
	"github.com/recordd/recordd/server"
	"github.com/recordd/recordd/source"
	"github.com/recordd/recordd/tailer"
)

type Controller struct {
	ctx       context.Context
	cancel    context.CancelFunc
	cfg       Config
	buildInfo common.BuildInfo

	pl      *pipeline.Pipeline
	exp     *exporter.Exporter
	svr     *server.Server
	tailers []*tailer.Tailer

	wg sync.WaitGroup
}

func setupLogger(conf *confengine.Config) error {
	var opts logger.Options
	if conf.Has("logger") {
		if err := conf.UnpackChild("logger", &opts); err != nil {
			return err
		}
	}

	if opts.Filename == "" {
		opts.Filename = "recordd.log"
	}
	if opts.MaxBackups <= 0 {
		opts.MaxBackups = 10
	}
	if opts.MaxAge <= 0 {
		opts.MaxAge = 7
	}
	if opts.MaxSize <= 0 {
		opts.MaxSize = 100
	}

	logger.SetOptions(opts)
	return nil
}

func New(conf *confengine.Config, buildInfo common.BuildInfo) (*Controller, error) {
	if err := setupLogger(conf); err != nil {
		return nil, err
	}

	var cfg Config
	if conf.Has("controller") {
		if err := conf.UnpackChild("controller", &cfg); err != nil {
			return nil, err
		}
	}

	// 所有数据源配置一次性校验 聚合上报全部错误
	errs := make([]error, 0, len(cfg.Sources))
	for _, sc := range cfg.Sources {
		errs = append(errs, sc.Validate())
	}
	if err := confengine.MergeErrors(errs...); err != nil {
		return nil, err
	}

	exp, err := exporter.New(conf)
	if err != nil {
		return nil, err
	}

	pl, err := pipeline.New(conf)
	if err != nil {
		return nil, err
	}

	svr, err := server.New(conf)
	if err != nil {
		return nil, err
	}

	tailers := make([]*tailer.Tailer, 0, len(cfg.Sources))
	for _, sc := range cfg.Sources {
		src, err := source.New(sc)
		if err != nil {
			return nil, errors.WithMessagef(err, "create source (%s)", sc.Name)
		}
		tailers = append(tailers, tailer.New(sc.Name, src, record.NewJSONDecoder(sc.Name), tailer.Options{
			Cursor: cfg.Decode.cursorConfig(),
			Policy: cfg.Decode.decodePolicy(),
		}))
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Controller{
		ctx:       ctx,
		cancel:    cancel,
		cfg:       cfg,
		buildInfo: buildInfo,
		pl:        pl,
		exp:       exp,
		svr:       svr,
		tailers:   tailers,
	}, nil
}

func (c *Controller) Start() error {
	c.setupServer()

	if c.svr != nil {
		go func() {
			err := c.svr.ListenAndServe()
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Errorf("failed to start server: %v", err)
			}
		}()
	}

	c.exp.Start()
	for _, t := range c.tailers {
		c.wg.Add(1)
		go c.loopTail(t)
	}
	activeTailers.Set(float64(len(c.tailers)))
	return nil
}

// loopTail 驱动单个 Tailer 的消费循环
//
// 流结束 取消或致命错误都会退出循环 单链路的失败不影响其余链路
func (c *Controller) loopTail(t *tailer.Tailer) {
	defer c.wg.Done()
	defer rescue.HandleCrash()
	defer activeTailers.Dec()

	for {
		r, err := t.Next(c.ctx)
		switch {
		case err == nil:
		case errors.Is(err, io.EOF):
			logger.Infof("tailer (%s) drained", t.Name())
			return
		case errors.Is(err, context.Canceled), errors.Is(err, cursor.ErrClosed):
			return
		default:
			logger.Errorf("tailer (%s) aborted: %v", t.Name(), err)
			return
		}

		c.pl.Handle(r, func(dst *common.Record) {
			c.exp.Export(dst)
			handledRecords.Inc()
		})
	}
}

func (c *Controller) setupServer() {
	if c.svr == nil {
		return
	}

	// Metric Routes
	c.svr.RegisterGetRoute("/metrics", func(w http.ResponseWriter, r *http.Request) {
		c.recordMetrics()
		promhttp.Handler().ServeHTTP(w, r)
	})

	// Admin Routes
	c.svr.RegisterPostRoute("/-/logger", func(w http.ResponseWriter, r *http.Request) {
		level := r.FormValue("level")
		logger.SetLoggerLevel(level)
		w.Write([]byte(`{"status": "success"}`))
	})
}

func (c *Controller) recordMetrics() {
	uptime.Set(float64(time.Now().Unix() - common.Started()))
	buildInfo.WithLabelValues(c.buildInfo.Version, c.buildInfo.GitHash, c.buildInfo.Time).Set(1)
}

func (c *Controller) Stop() {
	c.cancel()
	for _, t := range c.tailers {
		t.Close()
	}
	c.wg.Wait()

	c.exp.Close()
	c.pl.Clean()
	if c.svr != nil {
		c.svr.Close()
	}
}
