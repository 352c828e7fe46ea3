// Copyright 2026 The Gitea Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package actions

import (
	"context"
	"errors"

	"code.gitea.io/dispatcher/models/db"
	"code.gitea.io/dispatcher/modules/log"
	"code.gitea.io/dispatcher/modules/setting"
	"code.gitea.io/dispatcher/modules/timeutil"

	"xorm.io/builder"
)

// ClaimHook runs inside the claim transaction right after the build was marked running.
// An error rolls the claim back.
type ClaimHook func(ctx context.Context, buildID, runnerID int64, claimed timeutil.TimeStamp) error

// ClaimResult is the outcome of Claim. Build is nil when nothing was claimed.
type ClaimResult struct {
	Build *ActionBuild
	// Conflicts counts the builds another runner took between our select and our update
	Conflicts int
	// Exhausted is set when every attempt ended in a conflict, more work may be pending
	Exhausted bool
}

var errClaimInTransaction = errors.New("a claim must own its transactions")

// Claim hands the oldest pending build matching q to the runner.
//
// Every attempt is one transaction: the select locks the row it returns, the build is then
// updated on the condition that it is still pending and unowned, and the hooks run. When the
// update affects no row the attempt is rolled back and the next one skips that build.
// After setting.Actions.ClaimMaxAttempts conflicts the claim gives up without an error.
func Claim(ctx context.Context, q *BuildQuery, runnerID int64, hooks ...ClaimHook) (*ClaimResult, error) {
	if db.InTransaction(ctx) {
		return nil, errClaimInTransaction
	}

	maxAttempts := max(setting.Actions.ClaimMaxAttempts, 1)
	result := &ClaimResult{}
	var tried []int64
	for range maxAttempts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		build, err := db.WithTx2(ctx, func(ctx context.Context) (*ActionBuild, error) {
			return claimOnce(ctx, q, runnerID, tried, hooks)
		})
		var conflict claimConflictError
		if errors.As(err, &conflict) {
			log.Trace("Runner %d lost build %d to another runner, retrying", runnerID, conflict.BuildID)
			result.Conflicts++
			tried = append(tried, conflict.BuildID)
			continue
		} else if err != nil {
			return nil, err
		}
		result.Build = build
		return result, nil
	}
	result.Exhausted = true
	return result, nil
}

// ClaimBuild is Claim reporting only the claimed build, false means no work
func ClaimBuild(ctx context.Context, q *BuildQuery, runnerID int64, hooks ...ClaimHook) (*ActionBuild, bool, error) {
	result, err := Claim(ctx, q, runnerID, hooks...)
	if err != nil {
		return nil, false, err
	}
	return result.Build, result.Build != nil, nil
}

func claimOnce(ctx context.Context, q *BuildQuery, runnerID int64, exclude []int64, hooks []ClaimHook) (*ActionBuild, error) {
	cond := q.ToConds()
	if len(exclude) > 0 {
		cond = cond.And(builder.NotIn("id", exclude))
	}
	id, has, err := db.GetOldestIDForUpdate(ctx, "action_build", cond)
	if err != nil || !has {
		return nil, err
	}

	now := timeutil.TimeStampNow()
	claimed := &ActionBuild{Status: StatusRunning, RunnerID: runnerID, Started: now}
	n, err := db.GetEngine(ctx).ID(id).
		Where(builder.Eq{"status": StatusPending, "runner_id": 0}).
		Cols("status", "runner_id", "started").
		Update(claimed)
	if err != nil {
		return nil, err
	} else if n != 1 {
		return nil, claimConflictError{BuildID: id}
	}

	for _, hook := range hooks {
		if err := hook(ctx, id, runnerID, now); err != nil {
			return nil, err
		}
	}
	return GetBuildByID(ctx, id)
}
