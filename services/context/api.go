// Copyright 2026 The Gitea Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package context

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	actions_model "code.gitea.io/dispatcher/models/actions"
	"code.gitea.io/dispatcher/modules/json"
	"code.gitea.io/dispatcher/modules/log"
	"code.gitea.io/dispatcher/modules/setting"
	"code.gitea.io/dispatcher/modules/util"

	"github.com/go-chi/chi/v5"
)

// APIContext is the context of an API request
type APIContext struct {
	context.Context
	Resp *Response
	Req  *http.Request

	// Runner is the runner authenticated by its token, nil on other routes
	Runner *actions_model.ActionRunner
}

// APIError is the body of every error response
// swagger:response error
type APIError struct {
	Message string `json:"message"`
	URL     string `json:"url,omitempty"`
}

type apiContextKeyType struct{}

var apiContextKey = apiContextKeyType{}

// GetAPIContext returns the APIContext stored by APIContexter
func GetAPIContext(req *http.Request) *APIContext {
	ctx, _ := req.Context().Value(apiContextKey).(*APIContext)
	return ctx
}

// APIContexter returns a middleware creating the APIContext of every request
func APIContexter() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			ctx := &APIContext{Resp: WrapResponseWriter(w)}
			ctx.Req = req.WithContext(context.WithValue(req.Context(), apiContextKey, ctx))
			ctx.Context = ctx.Req.Context()
			ctx.Resp.Header().Set("Content-Type", "application/json;charset=utf-8")
			next.ServeHTTP(ctx.Resp, ctx.Req)
		})
	}
}

// Written reports whether the response was started
func (ctx *APIContext) Written() bool {
	return ctx.Resp.WrittenStatus() != 0
}

// Status writes a response without a body
func (ctx *APIContext) Status(status int) {
	ctx.Resp.WriteHeader(status)
}

// JSON writes obj as the JSON body of the response
func (ctx *APIContext) JSON(status int, obj any) {
	ctx.Resp.WriteHeader(status)
	if err := json.NewEncoder(ctx.Resp).Encode(obj); err != nil {
		log.Error("Render JSON failed: %v", err)
	}
}

// APIError responds with the message of obj, an error or a string
func (ctx *APIContext) APIError(status int, obj any) {
	var message string
	switch v := obj.(type) {
	case error:
		message = v.Error()
	case string:
		message = v
	default:
		message = fmt.Sprintf("%v", v)
	}
	ctx.JSON(status, APIError{Message: message})
}

// APIErrorInternal logs err and responds with a 500 that does not leak it
func (ctx *APIContext) APIErrorInternal(err error) {
	log.Error("%s %s: %v", ctx.Req.Method, ctx.Req.URL.Path, err)
	message := "internal server error"
	if !setting.IsProd {
		message = err.Error()
	}
	ctx.JSON(http.StatusInternalServerError, APIError{Message: message})
}

// APIErrorNotFound responds with a 404
func (ctx *APIContext) APIErrorNotFound(objs ...any) {
	message := "the target couldn't be found"
	for _, obj := range objs {
		if err, ok := obj.(error); ok && !errors.Is(err, context.Canceled) {
			message = err.Error()
		}
	}
	ctx.JSON(http.StatusNotFound, APIError{Message: message})
}

// APIErrorFromError responds with the status code err stands for
func (ctx *APIContext) APIErrorFromError(err error) {
	switch {
	case errors.Is(err, util.ErrUnavailable), errors.Is(err, context.DeadlineExceeded):
		log.Error("%s %s: %v", ctx.Req.Method, ctx.Req.URL.Path, err)
		ctx.JSON(http.StatusServiceUnavailable, APIError{Message: "the store is unavailable, try again later"})
	case errors.Is(err, util.ErrInvalidArgument):
		ctx.APIError(http.StatusUnprocessableEntity, err)
	case errors.Is(err, util.ErrPermissionDenied):
		ctx.APIError(http.StatusForbidden, err)
	case errors.Is(err, util.ErrNotExist):
		ctx.APIErrorNotFound(err)
	case errors.Is(err, util.ErrAlreadyExist):
		ctx.APIError(http.StatusConflict, err)
	default:
		ctx.APIErrorInternal(err)
	}
}

// PathParamInt64 returns the named path parameter as an int64, 0 if it is not a number
func (ctx *APIContext) PathParamInt64(name string) int64 {
	v, _ := strconv.ParseInt(chi.URLParam(ctx.Req, name), 10, 64)
	return v
}

// DecodeJSON decodes the request body into obj
func (ctx *APIContext) DecodeJSON(obj any) error {
	defer ctx.Req.Body.Close()
	return json.NewDecoder(ctx.Req.Body).Decode(obj)
}
