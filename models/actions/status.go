// Copyright 2026 The Gitea Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package actions

// Status represents the status of a build or a pipeline
type Status int

// The values are stored in the database, do not reorder.
const (
	StatusUnknown   Status = iota // 0, only reported when nothing is known yet
	StatusSuccess                 // 1
	StatusFailed                  // 2
	StatusCancelled               // 3
	StatusPending                 // 4, waiting for a runner
	StatusRunning                 // 5
)

var statusNames = map[Status]string{
	StatusUnknown:   "unknown",
	StatusSuccess:   "success",
	StatusFailed:    "failed",
	StatusCancelled: "cancelled",
	StatusPending:   "pending",
	StatusRunning:   "running",
}

// String returns the string name of the Status
func (s Status) String() string {
	return statusNames[s]
}

// StatusFromString returns the Status named s and whether the name is known
func StatusFromString(s string) (Status, bool) {
	for status, name := range statusNames {
		if name == s {
			return status, true
		}
	}
	return StatusUnknown, false
}

func (s Status) IsUnknown() bool {
	return s == StatusUnknown
}

func (s Status) IsSuccess() bool {
	return s == StatusSuccess
}

func (s Status) IsFailed() bool {
	return s == StatusFailed
}

func (s Status) IsCancelled() bool {
	return s == StatusCancelled
}

func (s Status) IsPending() bool {
	return s == StatusPending
}

func (s Status) IsRunning() bool {
	return s == StatusRunning
}

// IsDone returns whether the Status is final
func (s Status) IsDone() bool {
	return s.In(StatusSuccess, StatusFailed, StatusCancelled)
}

// In returns whether s is one of the given statuses
func (s Status) In(statuses ...Status) bool {
	for _, v := range statuses {
		if s == v {
			return true
		}
	}
	return false
}

// MarshalText lets statuses appear by name in JSON
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// canTransitTo reports whether a build may move from s to next.
// pending only leaves by being claimed, done statuses never change.
func (s Status) canTransitTo(next Status) bool {
	switch s {
	case StatusPending:
		return next == StatusRunning
	case StatusRunning:
		return next.IsDone()
	default:
		return false
	}
}
