// Copyright 2026 The Gitea Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package runner

import (
	"errors"
	"net/http"

	"code.gitea.io/dispatcher/modules/util"
	"code.gitea.io/dispatcher/services/context"
)

const (
	tokenHeaderKey         = "X-Runner-Token"
	buildsVersionHeaderKey = "X-Runner-Builds-Version"
)

// withRunner authenticates the runner by its token and stores it in the context
func (s *runnerService) withRunner(ctx *context.APIContext) {
	token := ctx.Req.Header.Get(tokenHeaderKey)
	if token == "" {
		ctx.APIError(http.StatusUnauthorized, "missing runner token")
		return
	}
	runner, err := s.registry.LookupByToken(ctx, token)
	if err != nil {
		if errors.Is(err, util.ErrNotExist) {
			ctx.APIError(http.StatusUnauthorized, "unregistered runner")
			return
		}
		ctx.APIErrorFromError(err)
		return
	}
	ctx.Runner = runner
}
