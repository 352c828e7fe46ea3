// Copyright 2026 The Gitea Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package actions

import (
	"context"
	"fmt"

	"code.gitea.io/dispatcher/models/db"
	"code.gitea.io/dispatcher/modules/timeutil"
	"code.gitea.io/dispatcher/modules/util"

	"xorm.io/builder"
)

// UpdateBuildResult records the final status of a running build reported by the runner owning it.
// Reporting the status a build already ended with again is a no-op.
func UpdateBuildResult(ctx context.Context, runnerID, buildID int64, status Status) (*ActionBuild, error) {
	if !status.IsDone() {
		return nil, ValidationError{Field: "status", Message: fmt.Sprintf("%q is not a final status", status)}
	}

	return db.WithTx2(ctx, func(ctx context.Context) (*ActionBuild, error) {
		build, err := GetBuildByID(ctx, buildID)
		if err != nil {
			return nil, err
		}
		if build.RunnerID != runnerID {
			return nil, util.NewPermissionDeniedErrorf("build %d is not owned by runner %d", buildID, runnerID)
		}
		if build.Status == status {
			return build, nil
		}
		if err := finishBuild(ctx, build, status, builder.Eq{"runner_id": runnerID}); err != nil {
			return nil, err
		}
		return build, nil
	})
}

// StopBuild ends a running build with the given final status, whichever runner owns it.
// It reports false when the build was no longer running.
func StopBuild(ctx context.Context, buildID int64, status Status) (bool, error) {
	if !status.IsDone() {
		return false, ValidationError{Field: "status", Message: fmt.Sprintf("%q is not a final status", status)}
	}
	return db.WithTx2(ctx, func(ctx context.Context) (bool, error) {
		build, err := GetBuildByID(ctx, buildID)
		if err != nil {
			return false, err
		}
		if !build.Status.IsRunning() {
			return false, nil
		}
		if err := finishBuild(ctx, build, status, builder.NewCond()); err != nil {
			return false, err
		}
		return true, nil
	})
}

func finishBuild(ctx context.Context, build *ActionBuild, status Status, cond builder.Cond) error {
	if !build.Status.canTransitTo(status) {
		return util.NewInvalidArgumentErrorf("build %d can not go from %s to %s", build.ID, build.Status, status)
	}
	build.Status = status
	build.Stopped = timeutil.TimeStampNow()
	n, err := db.GetEngine(ctx).ID(build.ID).
		Where(builder.Eq{"status": StatusRunning}.And(cond)).
		Cols("status", "stopped").
		Update(build)
	if err != nil {
		return err
	} else if n != 1 {
		return util.NewInvalidArgumentErrorf("build %d changed concurrently", build.ID)
	}
	return SyncPipelineStatus(ctx, build.PipelineID)
}

// FindEndlessBuilds returns the running builds started before startedBefore
func FindEndlessBuilds(ctx context.Context, startedBefore timeutil.TimeStamp) ([]*ActionBuild, error) {
	return FindBuilds(ctx, FindBuildOptions{
		Status:        []Status{StatusRunning},
		StartedBefore: startedBefore,
	})
}
