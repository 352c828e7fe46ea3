// Copyright 2026 The Gitea Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package context

import (
	"net/http"
)

// ResponseWriter represents a response writer that remembers what was written
type ResponseWriter interface {
	http.ResponseWriter
	http.Flusher

	WrittenStatus() int
	WrittenSize() int
}

var _ ResponseWriter = &Response{}

// Response represents a response
type Response struct {
	http.ResponseWriter
	written int
	status  int
}

// Write writes bytes to HTTP endpoint
func (r *Response) Write(bs []byte) (int, error) {
	size, err := r.ResponseWriter.Write(bs)
	r.written += size
	if r.status == 0 {
		r.status = http.StatusOK
	}
	return size, err
}

// WriteHeader write status code
func (r *Response) WriteHeader(statusCode int) {
	if r.status == 0 {
		r.status = statusCode
		r.ResponseWriter.WriteHeader(statusCode)
	}
}

// Flush flushes cached data
func (r *Response) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// WrittenStatus returned status code written
func (r *Response) WrittenStatus() int {
	return r.status
}

// WrittenSize returns the number of body bytes written
func (r *Response) WrittenSize() int {
	return r.written
}

func WrapResponseWriter(resp http.ResponseWriter) *Response {
	if v, ok := resp.(*Response); ok {
		return v
	}
	return &Response{ResponseWriter: resp}
}
