// Copyright 2026 The Gitea Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "dispatcher_"

// Poll outcomes
const (
	PollClaimed  = "claimed"
	PollNoWork   = "no_work"
	PollUpToDate = "up_to_date"
	PollInactive = "inactive"
	PollError    = "error"
)

var (
	// PollsTotal counts the polls of runners by outcome
	PollsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: namespace + "polls_total",
		Help: "Number of polls for work by outcome",
	}, []string{"outcome"})

	// ClaimConflictsTotal counts the builds lost to another runner between select and update
	ClaimConflictsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: namespace + "claim_conflicts_total",
		Help: "Number of claim attempts that lost their build to a concurrent claim",
	})

	// RegistrationsTotal counts runner registrations by scope, rejected ones included
	RegistrationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: namespace + "runner_registrations_total",
		Help: "Number of runner registrations by scope",
	}, []string{"scope"})
)

func init() {
	prometheus.MustRegister(PollsTotal, ClaimConflictsTotal, RegistrationsTotal)
}
