// Copyright 2026 The Gitea Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package setting

// Metrics settings
var Metrics = struct {
	Enabled bool
	Token   string
}{}

func loadMetricsFrom(rootCfg ConfigProvider) {
	sec := rootCfg.Section("metrics")
	Metrics.Enabled = sec.Key("ENABLED").MustBool(false)
	Metrics.Token = sec.Key("TOKEN").String()
}
