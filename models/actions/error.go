// Copyright 2026 The Gitea Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package actions

import (
	"errors"
	"fmt"

	"code.gitea.io/dispatcher/modules/util"
)

// ValidationError is a malformed runner or build field, its message is meant for the caller
type ValidationError struct {
	Field   string
	Message string
}

func (err ValidationError) Error() string {
	if err.Field == "" {
		return err.Message
	}
	return err.Field + ": " + err.Message
}

func (err ValidationError) Unwrap() error {
	return util.ErrInvalidArgument
}

// IsValidationError checks if an error is a ValidationError
func IsValidationError(err error) bool {
	var e ValidationError
	return errors.As(err, &e)
}

// claimConflictError means the selected build was taken between the select and the update
type claimConflictError struct {
	BuildID int64
}

func (err claimConflictError) Error() string {
	return fmt.Sprintf("build %d was claimed concurrently", err.BuildID)
}
