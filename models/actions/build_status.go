// Copyright 2026 The Gitea Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package actions

import (
	"context"

	"code.gitea.io/dispatcher/models/db"
	"code.gitea.io/dispatcher/modules/util"

	"xorm.io/builder"
)

// LastStatus returns the status of the newest build of the project for ref, StatusUnknown if there is none
func LastStatus(ctx context.Context, projectID int64, ref string) (Status, error) {
	var build ActionBuild
	has, err := db.GetEngine(ctx).
		Where(builder.Eq{"project_id": projectID, "ref": ref}).
		Desc("id").
		Cols("status").
		Get(&build)
	if err != nil || !has {
		return StatusUnknown, err
	}
	return build.Status, nil
}

// LastStatuses returns the status of the newest build of every project, whatever its ref.
// Every requested project is in the result, StatusUnknown when it has no build.
func LastStatuses(ctx context.Context, projectIDs []int64) (map[int64]Status, error) {
	projectIDs = util.SliceUnique(projectIDs)
	statuses := make(map[int64]Status, len(projectIDs))
	for _, id := range projectIDs {
		statuses[id] = StatusUnknown
	}
	if len(projectIDs) == 0 {
		return statuses, nil
	}

	var builds []*ActionBuild
	newest := builder.Select("MAX(id)").From("action_build").
		Where(builder.In("project_id", projectIDs)).
		GroupBy("project_id")
	if err := db.GetEngine(ctx).
		Where(builder.In("id", newest)).
		Cols("project_id", "status").
		Find(&builds); err != nil {
		return nil, err
	}
	for _, build := range builds {
		statuses[build.ProjectID] = build.Status
	}
	return statuses, nil
}
