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

// Package minlevel 按日志级别过滤记录
//
// 记录的级别字段低于阈值时被丢弃 缺失级别字段的记录不做过滤
package minlevel

import (
	"strings"

	"github.com/recordd/recordd/common"
	"github.com/recordd/recordd/internal/mapstructure"
	"github.com/recordd/recordd/processor"
)

const Name = "minlevel"

func init() {
	processor.Register(Name, New)
}

var levelRanks = map[string]int{
	"trace": 0,
	"debug": 1,
	"info":  2,
	"warn":  3,
	"error": 4,
	"fatal": 5,
}

type Config struct {
	// Field 级别字段名 默认为 level
	Field string `config:"field" mapstructure:"field"`

	// Level 允许通过的最低级别
	Level string `config:"level" mapstructure:"level"`
}

type Factory struct {
	field string
	rank  int
}

func New(conf map[string]any) (processor.Processor, error) {
	cfg := &Config{}
	if err := mapstructure.Decode(conf, cfg); err != nil {
		return nil, err
	}

	if cfg.Field == "" {
		cfg.Field = "level"
	}
	rank, ok := levelRanks[strings.ToLower(cfg.Level)]
	if !ok {
		rank = 0
	}
	return &Factory{
		field: cfg.Field,
		rank:  rank,
	}, nil
}

func (f *Factory) Name() string {
	return Name
}

func (f *Factory) Process(r *common.Record) (*common.Record, error) {
	v, ok := r.Data[f.field]
	if !ok {
		return r, nil
	}

	s, ok := v.(string)
	if !ok {
		return r, nil
	}
	rank, ok := levelRanks[strings.ToLower(s)]
	if !ok {
		return r, nil
	}
	if rank < f.rank {
		return nil, nil
	}
	return r, nil
}

func (f *Factory) Clean() {}
