// Copyright 2026 The Gitea Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package project

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	actions_model "code.gitea.io/dispatcher/models/actions"
	"code.gitea.io/dispatcher/models/db"
	api "code.gitea.io/dispatcher/modules/structs"
	"code.gitea.io/dispatcher/services/context"
	"code.gitea.io/dispatcher/services/convert"
)

// maxStatusesPerRequest bounds the ids of a batched status lookup
const maxStatusesPerRequest = 100

// GetStatus returns the status of the newest build of a project for a ref
func GetStatus(ctx *context.APIContext) {
	projectID := ctx.PathParamInt64("id")
	if projectID <= 0 {
		ctx.APIErrorNotFound()
		return
	}
	ref := strings.TrimSpace(ctx.Req.URL.Query().Get("ref"))
	if ref == "" {
		ctx.APIError(http.StatusUnprocessableEntity, "ref is required")
		return
	}

	status, err := actions_model.LastStatus(ctx, projectID, ref)
	if err != nil {
		ctx.APIErrorFromError(db.WrapStoreError(ctx, "last status", err))
		return
	}
	ctx.JSON(http.StatusOK, &api.ProjectStatus{
		ProjectID: projectID,
		Ref:       ref,
		Status:    status.String(),
	})
}

// ListStatuses returns the status of the newest build of each project in the ids query parameter
func ListStatuses(ctx *context.APIContext) {
	projectIDs, err := parseProjectIDs(ctx.Req.URL.Query().Get("ids"))
	if err != nil {
		ctx.APIError(http.StatusUnprocessableEntity, err)
		return
	}

	statuses, err := actions_model.LastStatuses(ctx, projectIDs)
	if err != nil {
		ctx.APIErrorFromError(db.WrapStoreError(ctx, "last statuses", err))
		return
	}
	ctx.JSON(http.StatusOK, convert.ToProjectStatuses(projectIDs, statuses))
}

func parseProjectIDs(s string) ([]int64, error) {
	fields := strings.Split(s, ",")
	ids := make([]int64, 0, len(fields))
	for _, f := range fields {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		id, err := strconv.ParseInt(f, 10, 64)
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("ids: %q is not a project id", f)
		}
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("ids: at least one project id is required")
	}
	if len(ids) > maxStatusesPerRequest {
		return nil, fmt.Errorf("ids: at most %d project ids are allowed", maxStatusesPerRequest)
	}
	return ids, nil
}
