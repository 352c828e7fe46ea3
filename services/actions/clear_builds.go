// Copyright 2026 The Gitea Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package actions

import (
	"context"
	"fmt"
	"time"

	actions_model "code.gitea.io/dispatcher/models/actions"
	"code.gitea.io/dispatcher/modules/log"
	"code.gitea.io/dispatcher/modules/setting"
	"code.gitea.io/dispatcher/modules/timeutil"
)

// StopZombieBuilds fails the running builds whose runner went silent
func StopZombieBuilds(ctx context.Context) error {
	builds, err := actions_model.FindZombieBuilds(ctx, timeutil.TimeStampNow().AddDuration(-setting.Actions.ZombieBuildTimeout))
	if err != nil {
		return fmt.Errorf("find zombie builds: %w", err)
	}
	return stopBuilds(ctx, builds, "zombie")
}

// StopEndlessBuilds fails the builds that have been running for too long
func StopEndlessBuilds(ctx context.Context) error {
	builds, err := actions_model.FindEndlessBuilds(ctx, timeutil.TimeStampNow().AddDuration(-setting.Actions.EndlessBuildTimeout))
	if err != nil {
		return fmt.Errorf("find endless builds: %w", err)
	}
	return stopBuilds(ctx, builds, "endless")
}

func stopBuilds(ctx context.Context, builds []*actions_model.ActionBuild, reason string) error {
	stopped := 0
	for _, build := range builds {
		if err := ctx.Err(); err != nil {
			return err
		}
		ok, err := actions_model.StopBuild(ctx, build.ID, actions_model.StatusFailed)
		if err != nil {
			log.Error("Unable to stop %s build %d: %v", reason, build.ID, err)
			continue
		}
		if ok {
			stopped++
			log.Warn("Stopped %s build %d of runner %d started %s ago", reason, build.ID, build.RunnerID, time.Since(build.Started.AsTime()).Round(time.Second))
		}
	}
	if stopped > 0 {
		log.Info("Stopped %d %s builds", stopped, reason)
	}
	return nil
}
