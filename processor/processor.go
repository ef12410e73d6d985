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

// Package processor 提供解码后记录的处理器
//
// 快速路径的字节级过滤由 cursor 负责 这里是通用路径上的后置处理
// 允许任意组合与链式编排 以灵活性换取少量分配开销
package processor

import (
	"github.com/pkg/errors"

	"github.com/recordd/recordd/common"
	"github.com/recordd/recordd/confengine"
)

type Configs []Config

type Config struct {
	Name   string         `config:"name"`
	Config map[string]any `config:"config"`
}

// Processor 定义了记录处理接口的行为
//
// Process 返回 nil 表示该记录被过滤 不再向后传递
type Processor interface {
	// Name 返回处理器的名称
	Name() string

	// Process 处理 *common.Record 数据 可以原地修改并返回同一实例
	Process(*common.Record) (*common.Record, error)

	// Clean 清理资源
	Clean()
}

type CreateFunc func(conf map[string]any) (Processor, error)

var processorFactory = map[string]CreateFunc{}

func Register(name string, f CreateFunc) {
	processorFactory[name] = f
}

func Get(name string) (CreateFunc, error) {
	f, ok := processorFactory[name]
	if !ok {
		return nil, errors.Errorf("processor factory (%s) not found", name)
	}
	return f, nil
}

func loadProcessors(conf *confengine.Config) ([]Processor, error) {
	if !conf.Has("processor") {
		return nil, nil
	}

	var configs Configs
	if err := conf.UnpackChild("processor", &configs); err != nil {
		return nil, err
	}

	var processors []Processor
	for _, pcfg := range configs {
		f, err := Get(pcfg.Name)
		if err != nil {
			return nil, err
		}
		con, err := f(pcfg.Config)
		if err != nil {
			return nil, err
		}
		processors = append(processors, con)
	}
	return processors, nil
}

// Manager 管理着 processor 列表 仅负责 Processor 的加载和检索
type Manager struct {
	processors []Processor
}

func NewManager(conf *confengine.Config) (*Manager, error) {
	processors, err := loadProcessors(conf)
	if err != nil {
		return nil, err
	}

	return &Manager{
		processors: processors,
	}, nil
}

func (mgr *Manager) Get(name string) (Processor, bool) {
	for _, p := range mgr.processors {
		if p.Name() == name {
			return p, true
		}
	}
	return nil, false
}

func (mgr *Manager) Clean() {
	for _, p := range mgr.processors {
		p.Clean()
	}
}
