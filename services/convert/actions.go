// Copyright 2026 The Gitea Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package convert

import (
	actions_model "code.gitea.io/dispatcher/models/actions"
	api "code.gitea.io/dispatcher/modules/structs"
)

// ToActionRunner converts a runner to its API format, the token is never included
func ToActionRunner(r *actions_model.ActionRunner) *api.ActionRunner {
	tags := r.Tags
	if tags == nil {
		tags = []string{}
	}
	return &api.ActionRunner{
		ID:           r.ID,
		UUID:         r.UUID,
		Name:         r.Name,
		Description:  r.Description,
		IsGlobal:     r.IsGlobal,
		ProjectID:    r.ProjectID,
		Tags:         tags,
		RunUntagged:  r.RunUntagged,
		IsActive:     r.IsActive,
		Locked:       r.Locked,
		Platform:     r.Platform,
		Architecture: r.Architecture,
		Version:      r.Version,
		LastOnline:   r.LastOnline.AsTimePtr(),
	}
}

// ToActionBuild converts a build to the descriptor sent to runners
func ToActionBuild(b *actions_model.ActionBuild) *api.ActionBuild {
	tags := b.Tags
	if tags == nil {
		tags = []string{}
	}
	return &api.ActionBuild{
		ID:         b.ID,
		PipelineID: b.PipelineID,
		ProjectID:  b.ProjectID,
		Name:       b.Name,
		Ref:        b.Ref,
		CommitSHA:  b.CommitSHA,
		Tags:       tags,
		Status:     b.Status.String(),
		RunnerID:   b.RunnerID,
		Started:    b.Started.AsTimePtr(),
		Stopped:    b.Stopped.AsTimePtr(),
	}
}

// ToProjectStatuses converts the newest statuses of projects, ordered like projectIDs
func ToProjectStatuses(projectIDs []int64, statuses map[int64]actions_model.Status) []*api.ProjectStatus {
	ret := make([]*api.ProjectStatus, 0, len(statuses))
	seen := make(map[int64]bool, len(statuses))
	for _, id := range projectIDs {
		status, ok := statuses[id]
		if !ok || seen[id] {
			continue
		}
		seen[id] = true
		ret = append(ret, &api.ProjectStatus{ProjectID: id, Status: status.String()})
	}
	return ret
}
