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

package console

import (
	"os"

	"github.com/recordd/recordd/common"
	"github.com/recordd/recordd/exporter"
	"github.com/recordd/recordd/internal/json"
)

const Name = "console"

func init() {
	exporter.Register(Name, New)
}

// Sinker 将记录以 NDJSON 形式写入 stdout
type Sinker struct {
	encoder *json.Encoder
}

func New(conf exporter.Config) (exporter.Sinker, error) {
	if !conf.Console.Enabled {
		return nil, nil
	}

	return &Sinker{
		encoder: json.NewEncoder(os.Stdout),
	}, nil
}

func (s *Sinker) Name() string {
	return Name
}

func (s *Sinker) Sink(r *common.Record) error {
	return s.encoder.Encode(r)
}

func (s *Sinker) Close() {}
