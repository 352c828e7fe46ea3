// Copyright 2026 The Gitea Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package setting

import (
	"time"

	"code.gitea.io/dispatcher/modules/log"
)

// CORSConfig defines CORS settings of the public status API
var CORSConfig = struct {
	Enabled          bool
	AllowDomain      []string
	Methods          []string
	MaxAge           time.Duration
	AllowCredentials bool
}{
	AllowDomain: []string{"*"},
	Methods:     []string{"GET", "HEAD", "OPTIONS"},
	MaxAge:      10 * time.Minute,
}

func loadCorsFrom(rootCfg ConfigProvider) {
	mustMapSetting(rootCfg, "cors", &CORSConfig)
	if CORSConfig.Enabled {
		log.Info("CORS Service Enabled")
	}
}

func mustMapSetting(rootCfg ConfigProvider, sectionName string, setting any) {
	if err := rootCfg.Section(sectionName).MapTo(setting); err != nil {
		log.Fatal("Failed to map %s settings: %v", sectionName, err)
	}
}
