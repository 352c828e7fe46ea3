// Copyright 2026 The Gitea Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package db

import (
	"context"
	"errors"
	"fmt"

	"code.gitea.io/dispatcher/modules/util"
)

// ErrNotExist represents a non-exist error.
type ErrNotExist struct {
	Resource string
	ID       int64
}

// IsErrNotExist checks if an error is an ErrNotExist
func IsErrNotExist(err error) bool {
	var e ErrNotExist
	return errors.As(err, &e)
}

func (err ErrNotExist) Error() string {
	name := "record"
	if err.Resource != "" {
		name = err.Resource
	}
	if err.ID != 0 {
		return fmt.Sprintf("%s does not exist [id: %d]", name, err.ID)
	}
	return name + " does not exist"
}

// Unwrap unwraps this as a ErrNotExist err
func (err ErrNotExist) Unwrap() error {
	return util.ErrNotExist
}

// ErrStoreUnavailable wraps a failure of the database itself, as opposed to a missing or invalid record
type ErrStoreUnavailable struct {
	Op  string
	Err error
}

func (err ErrStoreUnavailable) Error() string {
	return fmt.Sprintf("store unavailable during %s: %v", err.Op, err.Err)
}

func (err ErrStoreUnavailable) Unwrap() []error {
	return []error{util.ErrUnavailable, err.Err}
}

// IsErrStoreUnavailable checks if an error is an ErrStoreUnavailable
func IsErrStoreUnavailable(err error) bool {
	var e ErrStoreUnavailable
	return errors.As(err, &e)
}

// WrapStoreError marks err as a store failure unless it is already classified
// or it is the cancellation of ctx
func WrapStoreError(ctx context.Context, op string, err error) error {
	if err == nil || IsErrStoreUnavailable(err) {
		return err
	}
	if errors.Is(err, util.ErrNotExist) || errors.Is(err, util.ErrInvalidArgument) ||
		errors.Is(err, util.ErrPermissionDenied) || errors.Is(err, util.ErrAlreadyExist) {
		return err
	}
	if ctx.Err() != nil && errors.Is(err, ctx.Err()) {
		return err
	}
	return ErrStoreUnavailable{Op: op, Err: err}
}
