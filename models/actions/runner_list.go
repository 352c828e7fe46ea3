// Copyright 2026 The Gitea Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package actions

import (
	"context"

	"code.gitea.io/dispatcher/models/db"
	"code.gitea.io/dispatcher/modules/optional"

	"xorm.io/builder"
)

type RunnerList []*ActionRunner

// FindRunnerOptions filters runners, unset options match everything
type FindRunnerOptions struct {
	ProjectID optional.Option[int64]
	IsGlobal  optional.Option[bool]
	IsActive  optional.Option[bool]
	Tag       string
}

func (opts FindRunnerOptions) ToConds() builder.Cond {
	cond := builder.NewCond()
	if opts.ProjectID.Has() {
		cond = cond.And(builder.Eq{"project_id": opts.ProjectID.Value()})
	}
	if opts.IsGlobal.Has() {
		cond = cond.And(builder.Eq{"is_global": opts.IsGlobal.Value()})
	}
	if opts.IsActive.Has() {
		cond = cond.And(builder.Eq{"is_active": opts.IsActive.Value()})
	}
	if opts.Tag != "" {
		cond = cond.And(builder.Like{"tags", `"` + opts.Tag + `"`})
	}
	return cond
}

// FindRunners returns the runners matching opts ordered by id
func FindRunners(ctx context.Context, opts FindRunnerOptions) (RunnerList, error) {
	var runners RunnerList
	return runners, db.GetEngine(ctx).Where(opts.ToConds()).Asc("id").Find(&runners)
}

// CountRunners counts the runners matching opts
func CountRunners(ctx context.Context, opts FindRunnerOptions) (int64, error) {
	return db.GetEngine(ctx).Where(opts.ToConds()).Count(new(ActionRunner))
}

// ProjectIDs returns the distinct non zero project ids of the runners
func (runners RunnerList) ProjectIDs() []int64 {
	ids := make([]int64, 0, len(runners))
	seen := make(map[int64]struct{}, len(runners))
	for _, r := range runners {
		if r.ProjectID == 0 {
			continue
		}
		if _, ok := seen[r.ProjectID]; !ok {
			seen[r.ProjectID] = struct{}{}
			ids = append(ids, r.ProjectID)
		}
	}
	return ids
}
