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

package cursor

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/recordd/recordd/common"
)

var (
	recordsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: common.App,
			Name:      "cursor_records_total",
			Help:      "Cursor yielded records total",
		},
	)

	recordsFiltered = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: common.App,
			Name:      "cursor_records_filtered_total",
			Help:      "Cursor fastpath filtered records total",
		},
	)

	bytesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: common.App,
			Name:      "cursor_read_bytes_total",
			Help:      "Cursor read bytes total",
		},
	)
)
