// Copyright 2026 The Gitea Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package runner

import (
	"net/http"
	"strconv"

	"code.gitea.io/dispatcher/modules/optional"
	api "code.gitea.io/dispatcher/modules/structs"
	"code.gitea.io/dispatcher/modules/web"
	actions_service "code.gitea.io/dispatcher/services/actions"
	"code.gitea.io/dispatcher/services/context"
	"code.gitea.io/dispatcher/services/convert"

	"github.com/go-chi/chi/v5"
)

// Options are the services behind the runner API
type Options struct {
	Registry   *actions_service.RunnerRegistry
	Dispatcher *actions_service.Dispatcher
}

type runnerService struct {
	registry   *actions_service.RunnerRegistry
	dispatcher *actions_service.Dispatcher
}

// Routes returns the runner API, it expects the APIContext middleware in front of it
func Routes(opts Options) chi.Router {
	s := &runnerService{
		registry:   opts.Registry,
		dispatcher: opts.Dispatcher,
	}

	r := chi.NewRouter()
	r.Post("/register", web.Wrap(s.Register))
	r.Group(func(r chi.Router) {
		r.Use(web.MiddleAPI(s.withRunner))
		r.Post("/builds/request", web.Wrap(s.RequestBuild))
		r.Patch("/builds/{id}", web.Wrap(s.UpdateBuild))
		r.Put("/runner", web.Wrap(s.UpdateRunner))
	})
	return r
}

// Register registers a new runner with a registration token
func (s *runnerService) Register(ctx *context.APIContext) {
	var form api.RegisterRunnerOption
	if err := ctx.DecodeJSON(&form); err != nil {
		ctx.APIError(http.StatusUnprocessableEntity, err)
		return
	}

	runner, err := s.registry.Register(ctx, form.Token, actions_service.RegisterOptions{
		Name:         form.Name,
		Description:  form.Description,
		Platform:     form.Platform,
		Architecture: form.Architecture,
		Version:      form.Version,
		Tags:         form.Tags,
		Locked:       form.Locked,
		RunUntagged:  form.RunUntagged,
	})
	if err != nil {
		ctx.APIErrorFromError(err)
		return
	}

	ctx.Runner = runner
	res := convert.ToActionRunner(runner)
	res.Token = runner.Token
	ctx.JSON(http.StatusCreated, res)
}

// RequestBuild claims the next build for the runner. The builds version the runner got from its
// previous request is sent back in the X-Runner-Builds-Version header.
func (s *runnerService) RequestBuild(ctx *context.APIContext) {
	known, _ := strconv.ParseInt(ctx.Req.Header.Get(buildsVersionHeaderKey), 10, 64)

	res, err := s.dispatcher.Poll(ctx, ctx.Runner, known)
	if err != nil {
		ctx.APIErrorFromError(err)
		return
	}

	ctx.Resp.Header().Set(buildsVersionHeaderKey, strconv.FormatInt(res.BuildsVersion, 10))
	if res.Build == nil {
		ctx.Status(http.StatusNoContent)
		return
	}
	ctx.JSON(http.StatusCreated, convert.ToActionBuild(res.Build))
}

// UpdateRunner is the check-in of a runner changing its own information
func (s *runnerService) UpdateRunner(ctx *context.APIContext) {
	var form api.UpdateRunnerOption
	if err := ctx.DecodeJSON(&form); err != nil {
		ctx.APIError(http.StatusUnprocessableEntity, err)
		return
	}

	runner, err := s.registry.UpdateInfo(ctx, ctx.Runner, actions_service.UpdateOptions{
		Name:         optional.FromPtr(form.Name),
		Description:  optional.FromPtr(form.Description),
		Platform:     optional.FromPtr(form.Platform),
		Architecture: optional.FromPtr(form.Architecture),
		Version:      optional.FromPtr(form.Version),
		Tags:         optional.FromPtr(form.Tags),
		RunUntagged:  optional.FromPtr(form.RunUntagged),
		IsActive:     optional.FromPtr(form.IsActive),
		Locked:       optional.FromPtr(form.Locked),
	})
	if err != nil {
		ctx.APIErrorFromError(err)
		return
	}
	ctx.Runner = runner
	ctx.JSON(http.StatusOK, convert.ToActionRunner(runner))
}

// UpdateBuild records the final status of a build owned by the runner
func (s *runnerService) UpdateBuild(ctx *context.APIContext) {
	var form api.UpdateBuildOption
	if err := ctx.DecodeJSON(&form); err != nil {
		ctx.APIError(http.StatusUnprocessableEntity, err)
		return
	}

	build, err := actions_service.ReportResult(ctx, ctx.Runner, ctx.PathParamInt64("id"), form.Status)
	if err != nil {
		ctx.APIErrorFromError(err)
		return
	}
	ctx.JSON(http.StatusOK, convert.ToActionBuild(build))
}
