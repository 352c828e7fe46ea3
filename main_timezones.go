// Copyright 2026 The Gitea Authors. All rights reserved.
// SPDX-License-Identifier: MIT

//go:build windows

package main

// The cron scheduler runs in the local time zone. Windows may lack the time zone data,
// so the binary carries its own copy there. Other platforms can build with "-tags timetzdata".
import _ "time/tzdata"
