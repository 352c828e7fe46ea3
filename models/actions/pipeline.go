// Copyright 2026 The Gitea Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package actions

import (
	"context"
	"fmt"
	"strings"

	"code.gitea.io/dispatcher/models/db"
	"code.gitea.io/dispatcher/modules/timeutil"
	"code.gitea.io/dispatcher/modules/util"
)

// ActionPipeline groups the builds triggered together for one ref.
// Its status is derived from its builds.
type ActionPipeline struct {
	ID        int64
	ProjectID int64  `xorm:"index(project_ref)"`
	Ref       string `xorm:"VARCHAR(255) index(project_ref)"`
	CommitSHA string `xorm:"VARCHAR(64)"`
	Status    Status `xorm:"index"`
	Started   timeutil.TimeStamp
	Stopped   timeutil.TimeStamp
	Created   timeutil.TimeStamp `xorm:"created"`
	Updated   timeutil.TimeStamp `xorm:"updated"`
}

func init() {
	db.RegisterModel(new(ActionPipeline))
}

// GetPipelineByID returns the pipeline with the given id
func GetPipelineByID(ctx context.Context, id int64) (*ActionPipeline, error) {
	var pipeline ActionPipeline
	has, err := db.GetEngine(ctx).Where("id=?", id).Get(&pipeline)
	if err != nil {
		return nil, err
	} else if !has {
		return nil, fmt.Errorf("pipeline with id %d: %w", id, util.ErrNotExist)
	}
	return &pipeline, nil
}

// InsertPipeline inserts a pipeline with its builds, all pending, and wakes the runners watching the project
func InsertPipeline(ctx context.Context, pipeline *ActionPipeline, builds []*ActionBuild) error {
	if pipeline.ProjectID <= 0 {
		return ValidationError{Field: "project_id", Message: "must be set"}
	}
	pipeline.Ref = strings.TrimSpace(pipeline.Ref)
	if pipeline.Ref == "" || len(pipeline.Ref) > 255 {
		return ValidationError{Field: "ref", Message: "must be between 1 and 255 characters"}
	}
	if len(builds) == 0 {
		return ValidationError{Field: "builds", Message: "a pipeline needs at least one build"}
	}
	for _, build := range builds {
		build.Tags = util.SliceUnique(build.Tags)
		if err := ValidateTags(build.Tags); err != nil {
			return err
		}
	}

	return db.WithTx(ctx, func(ctx context.Context) error {
		pipeline.Status = StatusPending
		pipeline.Started, pipeline.Stopped = 0, 0
		if err := db.Insert(ctx, pipeline); err != nil {
			return err
		}
		for i, build := range builds {
			build.PipelineID = pipeline.ID
			build.ProjectID = pipeline.ProjectID
			build.Ref = pipeline.Ref
			build.CommitSHA = pipeline.CommitSHA
			if build.Name == "" {
				build.Name = fmt.Sprintf("build-%d", i+1)
			}
			build.NumTags = len(build.Tags)
			build.Status = StatusPending
			build.RunnerID = 0
			build.Started, build.Stopped = 0, 0
			if err := db.Insert(ctx, build); err != nil {
				return err
			}
			if err := insertBuildTags(ctx, build); err != nil {
				return err
			}
		}
		return IncreaseBuildsVersion(ctx, pipeline.ProjectID)
	})
}

// SyncPipelineStatus recomputes the status of the pipeline from its builds.
// It must run in the transaction that changed a build, so the pipeline never lags behind.
func SyncPipelineStatus(ctx context.Context, pipelineID int64) error {
	if pipelineID == 0 {
		return nil
	}
	pipeline, err := GetPipelineByID(ctx, pipelineID)
	if err != nil {
		return err
	}
	builds, err := GetBuildsByPipelineID(ctx, pipelineID)
	if err != nil {
		return err
	}
	status := aggregateBuildStatus(builds)
	if status == pipeline.Status {
		return nil
	}
	pipeline.Status = status
	if pipeline.Started.IsZero() && !status.IsPending() {
		pipeline.Started = timeutil.TimeStampNow()
	}
	if pipeline.Stopped.IsZero() && status.IsDone() {
		pipeline.Stopped = timeutil.TimeStampNow()
	}
	_, err = db.GetEngine(ctx).ID(pipeline.ID).Cols("status", "started", "stopped").Update(pipeline)
	return err
}

// SyncPipelineOnClaim is the claim hook keeping the pipeline status in step with its builds
func SyncPipelineOnClaim(ctx context.Context, buildID, _ int64, _ timeutil.TimeStamp) error {
	build, err := GetBuildByID(ctx, buildID)
	if err != nil {
		return err
	}
	return SyncPipelineStatus(ctx, build.PipelineID)
}

func aggregateBuildStatus(builds []*ActionBuild) Status {
	if len(builds) == 0 {
		return StatusUnknown
	}
	allDone := true
	allPending := true
	hasFailure := false
	hasCancelled := false
	for _, build := range builds {
		if !build.Status.IsDone() {
			allDone = false
		}
		if build.Status != StatusPending {
			allPending = false
		}
		switch build.Status {
		case StatusFailed:
			hasFailure = true
		case StatusCancelled:
			hasCancelled = true
		}
	}
	switch {
	case allDone && hasFailure:
		return StatusFailed
	case allDone && hasCancelled:
		return StatusCancelled
	case allDone:
		return StatusSuccess
	case allPending:
		return StatusPending
	}
	return StatusRunning
}
