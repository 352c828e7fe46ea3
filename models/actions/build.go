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

// ActionBuild is one unit of work of a pipeline, executed by exactly one runner.
// RunnerID is 0 while the build is pending and never changes once it is set.
type ActionBuild struct {
	ID         int64
	PipelineID int64  `xorm:"index"`
	ProjectID  int64  `xorm:"index(project_ref)"`
	Ref        string `xorm:"VARCHAR(255) index(project_ref)"`
	CommitSHA  string `xorm:"VARCHAR(64)"`
	Name       string `xorm:"VARCHAR(255)"`
	// Tags a runner must offer one of to run the build, nil when any runner may run it
	Tags     []string `xorm:"JSON TEXT"`
	NumTags  int      `xorm:"index"`
	RunnerID int64    `xorm:"index"`
	Status   Status   `xorm:"index"`
	Started  timeutil.TimeStamp
	Stopped  timeutil.TimeStamp
	Created  timeutil.TimeStamp `xorm:"created"`
	Updated  timeutil.TimeStamp `xorm:"updated index"`
}

// ActionBuildTag holds the tags of a build one per row, so tag intersection is a SQL sub query
type ActionBuildTag struct {
	ID      int64
	BuildID int64  `xorm:"UNIQUE(build_tag)"`
	Tag     string `xorm:"VARCHAR(255) UNIQUE(build_tag) index"`
}

func init() {
	db.RegisterModel(new(ActionBuild))
	db.RegisterModel(new(ActionBuildTag))
}

// GetBuildByID returns the build with the given id
func GetBuildByID(ctx context.Context, id int64) (*ActionBuild, error) {
	var build ActionBuild
	has, err := db.GetEngine(ctx).Where("id=?", id).Get(&build)
	if err != nil {
		return nil, err
	} else if !has {
		return nil, fmt.Errorf("build with id %d: %w", id, util.ErrNotExist)
	}
	return &build, nil
}

// GetBuildsByPipelineID returns the builds of a pipeline ordered by id
func GetBuildsByPipelineID(ctx context.Context, pipelineID int64) ([]*ActionBuild, error) {
	var builds []*ActionBuild
	if err := db.GetEngine(ctx).Where("pipeline_id=?", pipelineID).OrderBy("id").Find(&builds); err != nil {
		return nil, err
	}
	return builds, nil
}

func insertBuildTags(ctx context.Context, build *ActionBuild) error {
	if len(build.Tags) == 0 {
		return nil
	}
	rows := make([]*ActionBuildTag, 0, len(build.Tags))
	for _, tag := range build.Tags {
		rows = append(rows, &ActionBuildTag{BuildID: build.ID, Tag: tag})
	}
	return db.Insert(ctx, rows)
}

// FindBuildOptions filters builds, zero values match everything
type FindBuildOptions struct {
	ProjectID     int64
	PipelineID    int64
	RunnerID      int64
	Status        []Status
	StartedBefore timeutil.TimeStamp
}

func (opts FindBuildOptions) ToConds() builder.Cond {
	cond := builder.NewCond()
	if opts.ProjectID > 0 {
		cond = cond.And(builder.Eq{"project_id": opts.ProjectID})
	}
	if opts.PipelineID > 0 {
		cond = cond.And(builder.Eq{"pipeline_id": opts.PipelineID})
	}
	if opts.RunnerID > 0 {
		cond = cond.And(builder.Eq{"runner_id": opts.RunnerID})
	}
	if len(opts.Status) > 0 {
		cond = cond.And(builder.In("status", opts.Status))
	}
	if opts.StartedBefore > 0 {
		cond = cond.And(builder.Gt{"started": 0}).And(builder.Lt{"started": opts.StartedBefore})
	}
	return cond
}

// FindBuilds returns the builds matching opts ordered by id
func FindBuilds(ctx context.Context, opts FindBuildOptions) ([]*ActionBuild, error) {
	var builds []*ActionBuild
	return builds, db.GetEngine(ctx).Where(opts.ToConds()).Asc("id").Find(&builds)
}

// FindZombieBuilds returns the running builds whose runner has not been seen since lastOnlineBefore
func FindZombieBuilds(ctx context.Context, lastOnlineBefore timeutil.TimeStamp) ([]*ActionBuild, error) {
	var builds []*ActionBuild
	err := db.GetEngine(ctx).
		Where(builder.Eq{"status": StatusRunning}).
		And(builder.In("runner_id", builder.Select("id").From("action_runner").Where(builder.Lt{"last_online": lastOnlineBefore}))).
		Asc("id").
		Find(&builds)
	return builds, err
}

// CountBuildsByStatus returns the number of builds per status
func CountBuildsByStatus(ctx context.Context) (map[Status]int64, error) {
	type statusCount struct {
		Status Status
		Count  int64
	}
	var counts []statusCount
	if err := db.GetEngine(ctx).Table("action_build").Select("status, COUNT(*) AS count").GroupBy("status").Find(&counts); err != nil {
		return nil, err
	}
	result := make(map[Status]int64, len(counts))
	for _, c := range counts {
		result[c.Status] = c.Count
	}
	return result, nil
}
