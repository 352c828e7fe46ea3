// Copyright 2026 The Gitea Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package setting

import (
	"os"
	"path/filepath"
	"strings"

	"code.gitea.io/dispatcher/modules/log"
)

var (
	// AppPath is the absolute path of the running binary
	AppPath string
	// AppWorkPath is the base path for relative paths in the config, defaults to the binary's directory
	AppWorkPath string
	// CustomConf is the path of app.ini
	CustomConf string
	// AppVer is the version of the binary, set by main
	AppVer string

	RunMode string
	IsProd  bool
	// IsInTesting is set by the test main, commands then use the engine of the tests
	IsInTesting bool

	CfgProvider ConfigProvider
)

func init() {
	AppPath, _ = os.Executable()
	InitWorkPathAndConfig(os.Getenv, "", "")
}

// InitWorkPathAndConfig resolves the work path and the config file. The command line values win over
// DISPATCHER_WORK_DIR, which wins over the directory of the binary.
func InitWorkPathAndConfig(getEnv func(string) string, workPath, customConf string) {
	AppWorkPath = filepath.Dir(AppPath)
	if v := getEnv("DISPATCHER_WORK_DIR"); v != "" {
		AppWorkPath = v
	}
	if workPath != "" {
		AppWorkPath = workPath
	}
	CustomConf = filepath.Join(AppWorkPath, "custom", "conf", "app.ini")
	if customConf != "" {
		if !filepath.IsAbs(customConf) {
			customConf = filepath.Join(AppWorkPath, customConf)
		}
		CustomConf = customConf
	}
}

// InitCfgProvider reads CustomConf, failing hard when it cannot be parsed
func InitCfgProvider(file string) {
	var err error
	if CfgProvider, err = NewConfigProviderFromFile(file); err != nil {
		log.Fatal("Unable to init config provider from %q: %v", file, err)
	}
}

// LoadCommonSettings loads the sections every sub-command needs
func LoadCommonSettings() {
	if err := loadCommonSettingsFrom(CfgProvider); err != nil {
		log.Fatal("Unable to load settings from %q: %v", CustomConf, err)
	}
}

func loadCommonSettingsFrom(cfg ConfigProvider) error {
	loadRunModeFrom(cfg)
	loadLogGlobalFrom(cfg)
	loadServerFrom(cfg)
	loadDBSetting(cfg)
	loadMetricsFrom(cfg)
	loadQoSFrom(cfg)
	loadCorsFrom(cfg)
	return loadActionsFrom(cfg)
}

func loadRunModeFrom(rootCfg ConfigProvider) {
	RunMode = rootCfg.Section("").Key("RUN_MODE").MustString("prod")
	IsProd = strings.EqualFold(RunMode, "prod")
}

// LoadSettingsForTest loads an in-memory config with every default applied
func LoadSettingsForTest(content string) error {
	cfg, err := NewConfigProviderFromData(content)
	if err != nil {
		return err
	}
	CfgProvider = cfg
	return loadCommonSettingsFrom(cfg)
}
