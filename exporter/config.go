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

package exporter

import (
	"net/url"
	"time"
)

const defaultTimeout = 15 * time.Second

type Config struct {
	// QueueSize 每个 Sinker 的订阅队列长度
	QueueSize int `config:"queueSize"`

	Console ConsoleConfig `config:"console"`
	File    FileConfig    `config:"file"`
	Remote  RemoteConfig  `config:"remote"`
}

func (c *Config) GetQueueSize() int {
	if c.QueueSize <= 0 {
		return 1024
	}
	return c.QueueSize
}

type ConsoleConfig struct {
	Enabled bool `config:"enabled"`
}

type FileConfig struct {
	Enabled    bool   `config:"enabled"`
	Filename   string `config:"filename"`
	MaxSize    int    `config:"maxSize"` // unit: MB
	MaxAge     int    `config:"maxAge"`  // unit: days
	MaxBackups int    `config:"maxBackups"`
}

func (fc *FileConfig) Validate() error {
	if fc.Filename == "" {
		return newError("file sinker requires filename")
	}

	if fc.MaxSize <= 0 {
		fc.MaxSize = 100
	}
	if fc.MaxAge <= 0 {
		fc.MaxAge = 7
	}
	if fc.MaxBackups <= 0 {
		fc.MaxBackups = 10
	}
	return nil
}

type RemoteConfig struct {
	Enabled  bool              `config:"enabled"`
	Endpoint string            `config:"endpoint"`
	Header   map[string]string `config:"header"`
	Batch    int               `config:"batch"`
	Interval time.Duration     `config:"interval"`
	Timeout  time.Duration     `config:"timeout"`
}

func (rc *RemoteConfig) Validate() error {
	_, err := url.Parse(rc.Endpoint)
	if err != nil {
		return err
	}

	if rc.Batch <= 0 {
		rc.Batch = 100
	}
	if rc.Timeout <= 0 {
		rc.Timeout = defaultTimeout
	}
	if rc.Interval <= 0 {
		rc.Interval = 3 * time.Second
	}
	return nil
}
