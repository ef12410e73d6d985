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

// Package fieldstrip 删除记录中不需要落盘的字段
package fieldstrip

import (
	"github.com/recordd/recordd/common"
	"github.com/recordd/recordd/internal/mapstructure"
	"github.com/recordd/recordd/processor"
)

const Name = "fieldstrip"

func init() {
	processor.Register(Name, New)
}

type Config struct {
	// Fields 需要删除的字段名列表
	Fields []string `config:"fields" mapstructure:"fields"`
}

type Factory struct {
	fields map[string]struct{}
}

func New(conf map[string]any) (processor.Processor, error) {
	cfg := &Config{}
	if err := mapstructure.Decode(conf, cfg); err != nil {
		return nil, err
	}

	fields := make(map[string]struct{}, len(cfg.Fields))
	for _, f := range cfg.Fields {
		fields[f] = struct{}{}
	}
	return &Factory{fields: fields}, nil
}

func (f *Factory) Name() string {
	return Name
}

func (f *Factory) Process(r *common.Record) (*common.Record, error) {
	if len(f.fields) == 0 {
		return r, nil
	}

	for k := range f.fields {
		delete(r.Data, k)
	}
	return r, nil
}

func (f *Factory) Clean() {}
