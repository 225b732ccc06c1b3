/*
 * Copyright 2025 tomoncle.
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package repository

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/tomoncle/mapper/query"
)

var (
	operationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "mapper",
		Name:      "operations_total",
		Help:      "Persistence operations by table, operation and outcome.",
	}, []string{"table", "op", "outcome"})

	operationDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "mapper",
		Name:      "operation_duration_seconds",
		Help:      "Time spent in one persistence operation, transaction included.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"table", "op"})
)

// Collectors returns the repository metrics for the caller to register.
func Collectors() []prometheus.Collector {
	return []prometheus.Collector{operationsTotal, operationDuration}
}

func observe(table string, op query.Op, start time.Time, err error) {
	operationsTotal.WithLabelValues(table, string(op), outcome(err)).Inc()
	operationDuration.WithLabelValues(table, string(op)).Observe(time.Since(start).Seconds())
}
