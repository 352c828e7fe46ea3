// Copyright 2026 The Gitea Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package common

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"strings"

	"code.gitea.io/dispatcher/modules/log"
	"code.gitea.io/dispatcher/modules/setting"
	"code.gitea.io/dispatcher/services/context"

	"github.com/chi-middleware/proxy"
	"github.com/go-chi/chi/v5/middleware"
)

// ProtocolMiddlewares returns the middlewares every route goes through
func ProtocolMiddlewares() []func(http.Handler) http.Handler {
	handlers := []func(http.Handler) http.Handler{
		func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(resp http.ResponseWriter, req *http.Request) {
				// First of all escape the URL RawPath to ensure that all routing is done using a correctly escaped URL
				req.URL.RawPath = req.URL.EscapedPath()
				next.ServeHTTP(resp, req)
			})
		},
	}

	if setting.ReverseProxyLimit > 0 {
		opt := proxy.NewForwardedHeadersOptions().
			WithForwardLimit(setting.ReverseProxyLimit).
			ClearTrustedProxies()
		for _, n := range setting.ReverseProxyTrustedProxies {
			if !strings.Contains(n, "/") {
				opt.AddTrustedProxy(n)
			} else {
				opt.AddTrustedNetwork(n)
			}
		}
		handlers = append(handlers, proxy.ForwardedHeaders(opt))
	}

	handlers = append(handlers, context.APIContexter(), middleware.StripSlashes)

	if setting.Log.EnableAccessLog {
		handlers = append(handlers, context.AccessLogger())
	}
	if qos := QoS(); qos != nil {
		handlers = append(handlers, qos)
	}

	handlers = append(handlers, func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(resp http.ResponseWriter, req *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					combinedErr := fmt.Errorf("PANIC: %v\n%s", err, debug.Stack())
					log.Error("%v", combinedErr)
					if ctx := context.GetAPIContext(req); ctx != nil && !ctx.Written() {
						ctx.APIErrorInternal(combinedErr)
					}
				}
			}()
			next.ServeHTTP(resp, req)
		})
	})
	return handlers
}
