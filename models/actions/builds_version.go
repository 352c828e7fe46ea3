// Copyright 2026 The Gitea Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package actions

import (
	"context"

	"code.gitea.io/dispatcher/models/db"
	"code.gitea.io/dispatcher/modules/log"
	"code.gitea.io/dispatcher/modules/timeutil"

	"xorm.io/builder"
)

// ActionBuildsVersion counts the changes to the pending builds of a scope.
// ProjectID 0 is the global scope, bumped for every new build.
// A runner that saw the current version has nothing new to claim.
type ActionBuildsVersion struct {
	ID          int64 `xorm:"pk autoincr"`
	ProjectID   int64 `xorm:"UNIQUE"`
	Version     int64
	CreatedUnix timeutil.TimeStamp `xorm:"created"`
	UpdatedUnix timeutil.TimeStamp `xorm:"updated"`
}

func init() {
	db.RegisterModel(new(ActionBuildsVersion))
}

// GetBuildsVersion returns the version of the scope and whether it existed before this call.
// A missing version is created as 1.
func GetBuildsVersion(ctx context.Context, projectID int64) (version int64, existed bool, err error) {
	v, has, err := db.Get[ActionBuildsVersion](ctx, builder.Eq{"project_id": projectID})
	if err != nil {
		return 0, false, err
	} else if has {
		return v.Version, true, nil
	}

	v = &ActionBuildsVersion{ProjectID: projectID, Version: 1}
	if err = db.Insert(ctx, v); err != nil {
		// another poll created it first
		v, has, errGet := db.Get[ActionBuildsVersion](ctx, builder.Eq{"project_id": projectID})
		if errGet != nil || !has {
			return 0, false, err
		}
		return v.Version, false, nil
	}
	return v.Version, false, nil
}

func increaseBuildsVersionByScope(ctx context.Context, projectID int64) error {
	_, err := db.GetEngine(ctx).Exec("UPDATE action_builds_version SET version = version + 1 WHERE project_id = ?", projectID)
	return err
}

// IncreaseBuildsVersion bumps the global version and the version of the project
func IncreaseBuildsVersion(ctx context.Context, projectID int64) error {
	if err := increaseBuildsVersionByScope(ctx, 0); err != nil {
		log.Error("IncreaseBuildsVersion(global): %v", err)
		return err
	}
	if projectID == 0 {
		return nil
	}
	if err := increaseBuildsVersionByScope(ctx, projectID); err != nil {
		log.Error("IncreaseBuildsVersion(project %d): %v", projectID, err)
		return err
	}
	return nil
}

// IncreaseRunnerScopeVersion bumps only the version of the scope the runner polls with,
// so its next poll searches the store whatever version it knows
func IncreaseRunnerScopeVersion(ctx context.Context, r *ActionRunner) error {
	return increaseBuildsVersionByScope(ctx, VersionScope(r.Scope()))
}
