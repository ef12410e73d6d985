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

package tailer

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/recordd/recordd/common"
)

var (
	recordsDecoded = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: common.App,
			Name:      "tailer_decoded_records_total",
			Help:      "Tailer decoded records total",
		},
	)

	decodeFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: common.App,
			Name:      "tailer_decode_failures_total",
			Help:      "Tailer decode failures total",
		},
	)
)
