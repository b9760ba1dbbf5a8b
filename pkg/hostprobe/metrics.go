// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package hostprobe

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	fastProbeDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name: "hostprobe_fast_duration_seconds",
		Help: "Duration of the fast-tier host probe.",
	})

	deepCollectorDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name: "hostprobe_deep_collector_duration_seconds",
		Help: "Duration of a single deep-tier collector, by category.",
	}, []string{"category"})

	deepCacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hostprobe_deep_cache_hits_total",
		Help: "Deep-tier probe results served from cache, by category.",
	}, []string{"category"})
)
