// Copyright 2026 The Gitea Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package web

import (
	"net/http"

	"code.gitea.io/dispatcher/services/context"
)

// Wrap converts API handlers to a standard library one, the chain stops at the first handler writing a response
func Wrap(handlers ...func(ctx *context.APIContext)) http.HandlerFunc {
	if len(handlers) == 0 {
		panic("No handlers found")
	}
	return func(resp http.ResponseWriter, req *http.Request) {
		ctx := context.GetAPIContext(req)
		for _, handler := range handlers {
			handler(ctx)
			if ctx.Written() {
				return
			}
		}
	}
}

// MiddleAPI wrap a context function as a chi middleware
func MiddleAPI(f func(ctx *context.APIContext)) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(resp http.ResponseWriter, req *http.Request) {
			ctx := context.GetAPIContext(req)
			f(ctx)
			if ctx.Written() {
				return
			}
			next.ServeHTTP(ctx.Resp, ctx.Req)
		})
	}
}
