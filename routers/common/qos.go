// Copyright 2026 The Gitea Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package common

import (
	"fmt"
	"net/http"
	"strings"

	"code.gitea.io/dispatcher/modules/log"
	"code.gitea.io/dispatcher/modules/setting"
	"code.gitea.io/dispatcher/services/context"

	"github.com/bohde/codel"
)

type Priority int

func (p Priority) String() string {
	switch p {
	case HighPriority:
		return "high"
	case DefaultPriority:
		return "default"
	case LowPriority:
		return "low"
	default:
		return fmt.Sprintf("%d", p)
	}
}

const (
	LowPriority     = Priority(-10)
	DefaultPriority = Priority(0)
	HighPriority    = Priority(10)
)

const runnerTokenHeader = "X-Runner-Token"

// QoS bounds the number of requests served at the same time. Waiting requests
// are admitted by priority: runners reporting results first, then polling runners
// and registrations, then the status API. Requests waiting too long get a 503.
// It returns nil when QoS is disabled.
func QoS() func(next http.Handler) http.Handler {
	if !setting.QoS.Enabled {
		return nil
	}

	maxOutstanding := setting.QoS.MaxInFlightRequests
	if maxOutstanding <= 0 {
		maxOutstanding = 10
	}

	c := codel.NewPriority(codel.Options{
		// The maximum number of waiting requests.
		MaxPending: setting.QoS.MaxWaitingRequests,
		// The maximum number of in-flight requests.
		MaxOutstanding: maxOutstanding,
		// The target latency that a blocked request should wait
		// for. After this, it might be dropped.
		TargetLatency: setting.QoS.TargetWaitTime,
	})

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			priority := requestPriority(req)

			if err := c.Acquire(req.Context(), int(priority)); err != nil {
				log.Warn("QoS error, dropping request %s %s of priority %s: %v", req.Method, req.URL.Path, priority, err)
				renderServiceUnavailable(w, req)
				return
			}
			defer c.Release()

			next.ServeHTTP(w, req)
		})
	}
}

// requestPriority assigns a priority value for a request based upon
// whether a runner sends it and whether it finishes work
func requestPriority(req *http.Request) Priority {
	if req.Header.Get(runnerTokenHeader) != "" {
		// a result frees a runner, a poll may hand out more work
		if req.Method == http.MethodPatch {
			return HighPriority
		}
		return DefaultPriority
	}
	if strings.HasPrefix(req.URL.Path, "/api/runner/") {
		return DefaultPriority
	}
	return LowPriority
}

// renderServiceUnavailable tells the client to come back later
func renderServiceUnavailable(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Retry-After", "1")
	if ctx := context.GetAPIContext(req); ctx != nil {
		ctx.APIError(http.StatusServiceUnavailable, "the server is busy, retry later")
		return
	}
	http.Error(w, "503 Service Unavailable", http.StatusServiceUnavailable)
}
