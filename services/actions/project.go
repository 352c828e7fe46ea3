// Copyright 2026 The Gitea Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package actions

import (
	"context"

	project_model "code.gitea.io/dispatcher/models/project"
)

// ProjectResolver answers the questions the dispatcher has about projects
type ProjectResolver interface {
	// ResolveSelfRegistrationToken returns the project whose runners token is token,
	// or an error wrapping util.ErrNotExist
	ResolveSelfRegistrationToken(ctx context.Context, token string) (int64, error)
	ProjectExists(ctx context.Context, id int64) (bool, error)
}

type projectModelResolver struct{}

// ProjectModelResolver resolves projects from the project table
func ProjectModelResolver() ProjectResolver {
	return projectModelResolver{}
}

func (projectModelResolver) ResolveSelfRegistrationToken(ctx context.Context, token string) (int64, error) {
	p, err := project_model.GetProjectByRunnersToken(ctx, token)
	if err != nil {
		return 0, err
	}
	return p.ID, nil
}

func (projectModelResolver) ProjectExists(ctx context.Context, id int64) (bool, error) {
	return project_model.ExistProjectByID(ctx, id)
}
