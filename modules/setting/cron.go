// Copyright 2026 The Gitea Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package setting

// GetCronSettings maps the [cron.name] section onto config, keeping the defaults already in config
func GetCronSettings(name string, config any) (any, error) {
	return config, CfgProvider.Section("cron." + name).MapTo(config)
}
