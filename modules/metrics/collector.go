// Copyright 2026 The Gitea Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package metrics

import (
	"context"

	actions_model "code.gitea.io/dispatcher/models/actions"
	"code.gitea.io/dispatcher/modules/log"
	"code.gitea.io/dispatcher/modules/optional"

	"github.com/prometheus/client_golang/prometheus"
)

var reportedStatuses = []actions_model.Status{
	actions_model.StatusPending,
	actions_model.StatusRunning,
	actions_model.StatusSuccess,
	actions_model.StatusFailed,
	actions_model.StatusCancelled,
}

// Collector reads the build and runner counts from the database on every scrape
type Collector struct {
	Builds  *prometheus.Desc
	Runners *prometheus.Desc
}

// NewCollector returns a new Collector with all prometheus.Desc initialized
func NewCollector() Collector {
	return Collector{
		Builds: prometheus.NewDesc(
			namespace+"builds",
			"Number of builds by status",
			[]string{"status"}, nil,
		),
		Runners: prometheus.NewDesc(
			namespace+"runners",
			"Number of registered runners",
			[]string{"active"}, nil,
		),
	}
}

// Describe returns all possible prometheus.Desc
func (c Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.Builds
	ch <- c.Runners
}

// Collect returns the metrics with values
func (c Collector) Collect(ch chan<- prometheus.Metric) {
	ctx := context.Background()

	counts, err := actions_model.CountBuildsByStatus(ctx)
	if err != nil {
		log.Error("Unable to count builds: %v", err)
		return
	}
	for _, status := range reportedStatuses {
		ch <- prometheus.MustNewConstMetric(c.Builds, prometheus.GaugeValue, float64(counts[status]), status.String())
	}

	for _, active := range []bool{true, false} {
		n, err := actions_model.CountRunners(ctx, actions_model.FindRunnerOptions{IsActive: optional.Some(active)})
		if err != nil {
			log.Error("Unable to count runners: %v", err)
			return
		}
		label := "false"
		if active {
			label = "true"
		}
		ch <- prometheus.MustNewConstMetric(c.Runners, prometheus.GaugeValue, float64(n), label)
	}
}
