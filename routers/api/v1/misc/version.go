// Copyright 2026 The Gitea Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package misc

import (
	"net/http"

	"code.gitea.io/dispatcher/modules/setting"
	"code.gitea.io/dispatcher/services/context"
)

// ServerVersion is the version of the running server
type ServerVersion struct {
	Version string `json:"version"`
}

// Version shows the version of the server
func Version(ctx *context.APIContext) {
	ctx.JSON(http.StatusOK, &ServerVersion{Version: setting.AppVer})
}
