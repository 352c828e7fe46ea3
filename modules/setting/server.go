// Copyright 2026 The Gitea Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package setting

import (
	"net"
	"time"
)

// Server settings
var (
	HTTPAddr string
	HTTPPort string
	// GracefulHammerTime is how long the server waits for in-flight polls on shutdown
	GracefulHammerTime time.Duration

	// ReverseProxyLimit is the number of X-Forwarded-For hops trusted, 0 ignores the header
	ReverseProxyLimit          int
	ReverseProxyTrustedProxies []string
)

func loadServerFrom(rootCfg ConfigProvider) {
	sec := rootCfg.Section("server")
	HTTPAddr = sec.Key("HTTP_ADDR").MustString("0.0.0.0")
	HTTPPort = sec.Key("HTTP_PORT").MustString("3000")
	GracefulHammerTime = sec.Key("GRACEFUL_HAMMER_TIME").MustDuration(60 * time.Second)
	ReverseProxyLimit = sec.Key("REVERSE_PROXY_LIMIT").MustInt(1)
	ReverseProxyTrustedProxies = sec.Key("REVERSE_PROXY_TRUSTED_PROXIES").Strings(",")
	if len(ReverseProxyTrustedProxies) == 0 {
		ReverseProxyTrustedProxies = []string{"127.0.0.0/8", "::1/128"}
	}
}

// ListenAddr is HTTP_ADDR:HTTP_PORT
func ListenAddr() string {
	return net.JoinHostPort(HTTPAddr, HTTPPort)
}
