// Copyright 2026 The Gitea Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package actions

import (
	"errors"

	"code.gitea.io/dispatcher/modules/util"
)

// RegistrationError is a registration refused because of the token it presented
type RegistrationError struct {
	Reason string
}

func (err RegistrationError) Error() string {
	return "runner registration refused: " + err.Reason
}

func (err RegistrationError) Unwrap() error {
	return util.ErrPermissionDenied
}

// ErrUnknownProject is returned when a registration token is neither the global secret nor a project token
var ErrUnknownProject = RegistrationError{Reason: "the token does not match the global secret or any project"}

// IsRegistrationError checks if an error is a RegistrationError
func IsRegistrationError(err error) bool {
	var e RegistrationError
	return errors.As(err, &e)
}
