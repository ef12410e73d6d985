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

package filelog

import (
	"io"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/recordd/recordd/common"
	"github.com/recordd/recordd/exporter"
	"github.com/recordd/recordd/internal/json"
)

const Name = "file"

func init() {
	exporter.Register(Name, New)
}

// Sinker 将记录以 NDJSON 形式写入滚动文件
type Sinker struct {
	wr      io.WriteCloser
	encoder *json.Encoder
}

func New(conf exporter.Config) (exporter.Sinker, error) {
	cfg := &conf.File
	if !cfg.Enabled {
		return nil, nil
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	wr := &lumberjack.Logger{
		Filename:   cfg.Filename,
		MaxSize:    cfg.MaxSize,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAge,
		LocalTime:  true,
	}
	return &Sinker{
		wr:      wr,
		encoder: json.NewEncoder(wr),
	}, nil
}

func (s *Sinker) Name() string {
	return Name
}

func (s *Sinker) Sink(r *common.Record) error {
	return s.encoder.Encode(r)
}

func (s *Sinker) Close() {
	s.wr.Close()
}
