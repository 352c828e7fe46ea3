// Copyright 2026 The Gitea Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package timeutil

import (
	"sync/atomic"
	"time"
)

// TimeStamp is a unix timestamp in seconds, the format every table stores times in
type TimeStamp int64

var mock atomic.Int64

// MockSet freezes TimeStampNow at now until MockUnset is called
func MockSet(now time.Time) {
	mock.Store(now.Unix())
}

// MockUnset reverts TimeStampNow to the system clock
func MockUnset() {
	mock.Store(0)
}

// TimeStampNow returns the current time
func TimeStampNow() TimeStamp {
	if v := mock.Load(); v != 0 {
		return TimeStamp(v)
	}
	return TimeStamp(time.Now().Unix())
}

// AddDuration adds d rounded down to seconds
func (ts TimeStamp) AddDuration(d time.Duration) TimeStamp {
	return ts + TimeStamp(d/time.Second)
}

// AsTime converts the timestamp to a time.Time in the local location
func (ts TimeStamp) AsTime() time.Time {
	return time.Unix(int64(ts), 0)
}

// AsTimePtr is AsTime for optional API fields, nil for the zero timestamp
func (ts TimeStamp) AsTimePtr() *time.Time {
	if ts.IsZero() {
		return nil
	}
	tm := ts.AsTime()
	return &tm
}

// IsZero reports whether the timestamp was never set
func (ts TimeStamp) IsZero() bool {
	return ts == 0
}
