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

// Package pipeline 将 processor 按配置顺序编排成处理链
package pipeline

import (
	"github.com/recordd/recordd/common"
	"github.com/recordd/recordd/confengine"
	"github.com/recordd/recordd/logger"
	"github.com/recordd/recordd/processor"
)

type Config struct {
	Name       string   `config:"name"`
	Processors []string `config:"processors"`
}

type Configs []Config

type Pipeline struct {
	configs Configs
	psmgr   *processor.Manager
}

func New(conf *confengine.Config) (*Pipeline, error) {
	configs, err := loadPipeline(conf)
	if err != nil {
		return nil, err
	}

	psmgr, err := processor.NewManager(conf)
	if err != nil {
		return nil, err
	}
	return &Pipeline{
		configs: configs,
		psmgr:   psmgr,
	}, nil
}

// Handle 依次对 src 应用各 processor 并将最终记录交给 f
//
// 任一 processor 返回 nil 表示记录被过滤 f 不会被调用
// processor 错误仅记录日志 该记录继续向后传递
func (p *Pipeline) Handle(src *common.Record, f func(dst *common.Record)) {
	dst := src
	for i := 0; i < len(p.configs); i++ {
		for _, name := range p.configs[i].Processors {
			ps, ok := p.psmgr.Get(name)
			if !ok {
				continue
			}

			r, err := ps.Process(dst)
			if err != nil {
				logger.Warnf("processor (%s) failed: %v", name, err)
				continue
			}
			if r == nil {
				return
			}
			dst = r
		}
	}
	f(dst)
}

// Clean 清理所有 processor 资源
func (p *Pipeline) Clean() {
	p.psmgr.Clean()
}

func loadPipeline(conf *confengine.Config) (Configs, error) {
	if !conf.Has("pipeline") {
		return nil, nil
	}

	var configs Configs
	if err := conf.UnpackChild("pipeline", &configs); err != nil {
		return nil, err
	}
	return configs, nil
}
