// Copyright 2026 The Gitea Authors. All rights reserved.
// SPDX-License-Identifier: MIT

// Package v1 is the read-only public API of the dispatcher
//
// It reports the outcome of builds per project, everything that changes builds goes through the
// runner API.
package v1

import (
	"code.gitea.io/dispatcher/modules/setting"
	"code.gitea.io/dispatcher/modules/web"
	"code.gitea.io/dispatcher/routers/api/v1/misc"
	"code.gitea.io/dispatcher/routers/api/v1/project"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

// Routes returns the public API, it expects the APIContext middleware in front of it
func Routes() chi.Router {
	r := chi.NewRouter()
	if setting.CORSConfig.Enabled {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   setting.CORSConfig.AllowDomain,
			AllowedMethods:   setting.CORSConfig.Methods,
			AllowCredentials: setting.CORSConfig.AllowCredentials,
			MaxAge:           int(setting.CORSConfig.MaxAge.Seconds()),
		}))
	}
	r.Get("/version", web.Wrap(misc.Version))
	r.Route("/projects", func(r chi.Router) {
		r.Get("/statuses", web.Wrap(project.ListStatuses))
		r.Get("/{id}/status", web.Wrap(project.GetStatus))
	})
	return r
}
