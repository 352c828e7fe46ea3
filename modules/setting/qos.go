// Copyright 2026 The Gitea Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package setting

import (
	"runtime"
	"time"
)

// QoS settings, they limit the API requests served at the same time
var QoS = struct {
	Enabled             bool
	MaxInFlightRequests int
	MaxWaitingRequests  int
	TargetWaitTime      time.Duration
}{}

func loadQoSFrom(rootCfg ConfigProvider) {
	sec := rootCfg.Section("qos")
	QoS.Enabled = sec.Key("ENABLED").MustBool(false)
	QoS.MaxInFlightRequests = sec.Key("MAX_INFLIGHT").MustInt(4 * runtime.NumCPU())
	QoS.MaxWaitingRequests = sec.Key("MAX_WAITING").MustInt(100)
	QoS.TargetWaitTime = sec.Key("TARGET_WAIT_TIME").MustDuration(250 * time.Millisecond)
}
