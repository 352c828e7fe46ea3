// Copyright 2026 The Gitea Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package actions

import (
	"context"
	"fmt"

	actions_model "code.gitea.io/dispatcher/models/actions"
	"code.gitea.io/dispatcher/models/db"
	"code.gitea.io/dispatcher/modules/log"
)

// ReportResult records the final status the runner reports for one of its builds
func ReportResult(ctx context.Context, runner *actions_model.ActionRunner, buildID int64, status string) (*actions_model.ActionBuild, error) {
	s, ok := actions_model.StatusFromString(status)
	if !ok {
		return nil, actions_model.ValidationError{Field: "status", Message: fmt.Sprintf("unknown status %q", status)}
	}
	build, err := actions_model.UpdateBuildResult(ctx, runner.ID, buildID, s)
	if err != nil {
		return nil, db.WrapStoreError(ctx, "update build result", err)
	}
	log.Debug("Runner %s finished build %d: %s", runner.UUID, build.ID, build.Status)
	return build, nil
}
