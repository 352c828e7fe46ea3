// Copyright 2026 The Gitea Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package actions

import (
	"context"
	"fmt"

	actions_model "code.gitea.io/dispatcher/models/actions"
	"code.gitea.io/dispatcher/models/db"
	"code.gitea.io/dispatcher/modules/log"
	"code.gitea.io/dispatcher/modules/util"
)

// BuildOptions describes one build of a new pipeline
type BuildOptions struct {
	Name string
	// Tags is the comma separated list of tags a runner needs to take the build
	Tags string
}

// PipelineOptions describes a pipeline to create
type PipelineOptions struct {
	ProjectID int64
	Ref       string
	CommitSHA string
	Builds    []BuildOptions
}

// CreatePipeline creates a pipeline of pending builds for an existing project
func CreatePipeline(ctx context.Context, projects ProjectResolver, opts PipelineOptions) (*actions_model.ActionPipeline, []*actions_model.ActionBuild, error) {
	if projects == nil {
		projects = ProjectModelResolver()
	}
	exist, err := projects.ProjectExists(ctx, opts.ProjectID)
	if err != nil {
		return nil, nil, db.WrapStoreError(ctx, "check project", err)
	} else if !exist {
		return nil, nil, util.NewNotExistErrorf("project %d does not exist", opts.ProjectID)
	}

	pipeline := &actions_model.ActionPipeline{
		ProjectID: opts.ProjectID,
		Ref:       opts.Ref,
		CommitSHA: opts.CommitSHA,
	}
	builds := make([]*actions_model.ActionBuild, 0, len(opts.Builds))
	for _, b := range opts.Builds {
		builds = append(builds, &actions_model.ActionBuild{
			Name: b.Name,
			Tags: actions_model.ParseTags(b.Tags),
		})
	}
	if err := actions_model.InsertPipeline(ctx, pipeline, builds); err != nil {
		return nil, nil, db.WrapStoreError(ctx, fmt.Sprintf("insert pipeline for project %d", opts.ProjectID), err)
	}
	log.Info("Created pipeline %d with %d builds for %s of project %d", pipeline.ID, len(builds), pipeline.Ref, pipeline.ProjectID)
	return pipeline, builds, nil
}
