// Copyright 2026 The Gitea Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package actions

import (
	"context"
	"time"

	actions_model "code.gitea.io/dispatcher/models/actions"
	"code.gitea.io/dispatcher/models/db"
	"code.gitea.io/dispatcher/modules/log"
	"code.gitea.io/dispatcher/modules/metrics"
	"code.gitea.io/dispatcher/modules/setting"
)

// DispatcherOptions configures a Dispatcher
type DispatcherOptions struct {
	// Hooks run in the claim transaction, the pipeline status sync is always first
	Hooks []actions_model.ClaimHook
	// PollTimeout bounds a single poll, setting.Actions.PollTimeout when zero
	PollTimeout time.Duration
}

// Dispatcher hands pending builds to polling runners
type Dispatcher struct {
	hooks       []actions_model.ClaimHook
	pollTimeout time.Duration
}

// NewDispatcher creates a dispatcher
func NewDispatcher(opts DispatcherOptions) *Dispatcher {
	hooks := append([]actions_model.ClaimHook{actions_model.SyncPipelineOnClaim}, opts.Hooks...)
	return &Dispatcher{
		hooks:       hooks,
		pollTimeout: opts.PollTimeout,
	}
}

// PollResult is the answer to a poll. Build is nil when there is no work.
//
// BuildsVersion is the version the runner should send with its next poll. It is 0 when the
// runner must look again regardless of the version: after a claim, when the claim gave up
// on conflicts, or when the version of its scope had only just been created.
type PollResult struct {
	Build         *actions_model.ActionBuild
	BuildsVersion int64
}

// Poll looks for a build for the runner. knownVersion is the builds version the runner got from its
// previous poll, when it still matches the version of the runner's scope there is no new work and
// the store is not searched.
func (d *Dispatcher) Poll(ctx context.Context, runner *actions_model.ActionRunner, knownVersion int64) (*PollResult, error) {
	timeout := d.pollTimeout
	if timeout <= 0 {
		timeout = setting.Actions.PollTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := actions_model.UpdateRunnerLastOnline(ctx, runner); err != nil {
		log.Warn("Unable to record that runner %s is online: %v", runner.UUID, err)
	}

	if !runner.IsActive {
		metrics.PollsTotal.WithLabelValues(metrics.PollInactive).Inc()
		return &PollResult{}, nil
	}

	scope := runner.Scope()
	latest, existed, err := actions_model.GetBuildsVersion(ctx, actions_model.VersionScope(scope))
	if err != nil {
		metrics.PollsTotal.WithLabelValues(metrics.PollError).Inc()
		return nil, db.WrapStoreError(ctx, "get builds version", err)
	}
	if knownVersion > 0 && existed && knownVersion == latest {
		metrics.PollsTotal.WithLabelValues(metrics.PollUpToDate).Inc()
		return &PollResult{BuildsVersion: latest}, nil
	}

	exhausted := false
	for _, q := range actions_model.CandidateQueries(runner) {
		res, err := actions_model.Claim(ctx, q, runner.ID, d.hooks...)
		if err != nil {
			metrics.PollsTotal.WithLabelValues(metrics.PollError).Inc()
			return nil, db.WrapStoreError(ctx, "claim build", err)
		}
		if res.Conflicts > 0 {
			metrics.ClaimConflictsTotal.Add(float64(res.Conflicts))
		}
		if res.Build != nil {
			metrics.PollsTotal.WithLabelValues(metrics.PollClaimed).Inc()
			log.Debug("Runner %s claimed build %d with %s", runner.UUID, res.Build.ID, q)
			return &PollResult{Build: res.Build}, nil
		}
		exhausted = exhausted || res.Exhausted
	}

	metrics.PollsTotal.WithLabelValues(metrics.PollNoWork).Inc()
	if exhausted || !existed {
		return &PollResult{}, nil
	}
	return &PollResult{BuildsVersion: latest}, nil
}
