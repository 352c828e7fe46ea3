// Copyright 2026 The Gitea Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package setting

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"code.gitea.io/dispatcher/modules/log"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadActionsDefaults(t *testing.T) {
	require.NoError(t, LoadSettingsForTest(""))
	assert.Empty(t, Actions.RegistrationToken)
	assert.Equal(t, 5, Actions.ClaimMaxAttempts)
	assert.Equal(t, 10*time.Second, Actions.PollTimeout)
	assert.Equal(t, 10*time.Minute, Actions.ZombieBuildTimeout)
	assert.Equal(t, 3*time.Hour, Actions.EndlessBuildTimeout)
	assert.True(t, Database.Type.IsSQLite3())
	assert.Equal(t, "0.0.0.0:3000", ListenAddr())
	assert.Equal(t, log.INFO, Log.Level)
}

func TestLoadActions(t *testing.T) {
	require.NoError(t, LoadSettingsForTest(`
[actions]
REGISTRATION_TOKEN = GLOBAL123
CLAIM_MAX_ATTEMPTS = 3
POLL_TIMEOUT = 2s
`))
	assert.Equal(t, "GLOBAL123", Actions.RegistrationToken)
	assert.Equal(t, 3, Actions.ClaimMaxAttempts)
	assert.Equal(t, 2*time.Second, Actions.PollTimeout)

	assert.Error(t, LoadSettingsForTest("[actions]\nCLAIM_MAX_ATTEMPTS = 0\n"))
	assert.Equal(t, 3, Actions.ClaimMaxAttempts)

	// absent keys fall back to the defaults, not to the previous load
	require.NoError(t, LoadSettingsForTest(""))
	assert.Equal(t, 5, Actions.ClaimMaxAttempts)
	assert.Equal(t, 10*time.Second, Actions.PollTimeout)
	assert.Empty(t, Actions.RegistrationToken)
}

func TestLoadMinRunnerVersion(t *testing.T) {
	t.Cleanup(func() { Actions.MinRunnerVersion = "" })

	require.NoError(t, LoadSettingsForTest("[actions]\nMIN_RUNNER_VERSION = v0.3.0\n"))
	assert.Equal(t, "v0.3.0", Actions.MinRunnerVersion)

	err := LoadSettingsForTest("[actions]\nMIN_RUNNER_VERSION = latest\n")
	assert.ErrorContains(t, err, "MIN_RUNNER_VERSION")
}

func TestLoadServerAndCors(t *testing.T) {
	t.Cleanup(func() {
		CORSConfig.Enabled = false
		QoS.Enabled = false
	})

	require.NoError(t, LoadSettingsForTest(`
[server]
REVERSE_PROXY_TRUSTED_PROXIES = 10.0.0.0/8, 192.168.1.1

[cors]
ENABLED = true
ALLOW_DOMAIN = https://a.example.com, https://b.example.com

[qos]
ENABLED = true
MAX_INFLIGHT = 8
`))
	assert.Equal(t, 1, ReverseProxyLimit)
	assert.Equal(t, []string{"10.0.0.0/8", "192.168.1.1"}, ReverseProxyTrustedProxies)
	assert.True(t, CORSConfig.Enabled)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, CORSConfig.AllowDomain)
	assert.Equal(t, []string{"GET", "HEAD", "OPTIONS"}, CORSConfig.Methods)
	assert.True(t, QoS.Enabled)
	assert.Equal(t, 8, QoS.MaxInFlightRequests)
	assert.Equal(t, 250*time.Millisecond, QoS.TargetWaitTime)
}

func TestLoadActionsTokenURI(t *testing.T) {
	tokenFile := filepath.Join(t.TempDir(), "token")
	require.NoError(t, os.WriteFile(tokenFile, []byte("from-file\n"), 0o600))

	require.NoError(t, LoadSettingsForTest("[actions]\nREGISTRATION_TOKEN_URI = file:"+tokenFile+"\n"))
	assert.Equal(t, "from-file", Actions.RegistrationToken)

	err := LoadSettingsForTest("[actions]\nREGISTRATION_TOKEN = a\nREGISTRATION_TOKEN_URI = file:" + tokenFile + "\n")
	assert.ErrorContains(t, err, "cannot specify both")
}

func TestDBConnStr(t *testing.T) {
	defer func(old DatabaseType, path, host string) {
		Database.Type, Database.Path, Database.Host = old, path, host
	}(Database.Type, Database.Path, Database.Host)

	Database.Type = "sqlite3"
	Database.Path = "/tmp/d.db"
	Database.Timeout = 500
	Database.SQLiteJournalMode = ""
	connStr, err := DBConnStr()
	require.NoError(t, err)
	assert.Equal(t, "file:/tmp/d.db?mode=rwc&_busy_timeout=500&_txlock=immediate", connStr)

	assert.Equal(t, "postgres://u:p@localhost:5432/ci?sslmode=disable",
		getPostgreSQLConnectionString("localhost:5432", "u", "p", "ci", "disable"))
	assert.Equal(t, "postgres://u:p@localhost/ci?sslmode=require&application_name=d",
		getPostgreSQLConnectionString("localhost", "u", "p", "ci?application_name=d", "require"))

	host, port := ParseMSSQLHostPort("db.local,1444")
	assert.Equal(t, "db.local", host)
	assert.Equal(t, "1444", port)
	host, port = ParseMSSQLHostPort("")
	assert.Equal(t, "127.0.0.1", host)
	assert.Equal(t, "1433", port)

	Database.Type = "oracle"
	_, err = DBConnStr()
	assert.Error(t, err)
}

func TestGetCronSettings(t *testing.T) {
	require.NoError(t, LoadSettingsForTest(`
[cron.stop_zombie_builds]
ENABLED = false
SCHEDULE = @every 1m
`))
	type baseConfig struct {
		Enabled    bool
		RunAtStart bool
		Schedule   string
	}
	cfg := &baseConfig{Enabled: true, RunAtStart: true, Schedule: "@every 5m"}
	_, err := GetCronSettings("stop_zombie_builds", cfg)
	require.NoError(t, err)
	assert.False(t, cfg.Enabled)
	assert.True(t, cfg.RunAtStart)
	assert.Equal(t, "@every 1m", cfg.Schedule)
}

func TestInitWorkPathAndConfig(t *testing.T) {
	defer func(workPath, customConf string) {
		AppWorkPath, CustomConf = workPath, customConf
	}(AppWorkPath, CustomConf)

	env := map[string]string{}
	getEnv := func(k string) string { return env[k] }

	InitWorkPathAndConfig(getEnv, "", "")
	assert.Equal(t, filepath.Dir(AppPath), AppWorkPath)

	env["DISPATCHER_WORK_DIR"] = "/srv/dispatcher"
	InitWorkPathAndConfig(getEnv, "", "")
	assert.Equal(t, "/srv/dispatcher", AppWorkPath)
	assert.Equal(t, "/srv/dispatcher/custom/conf/app.ini", CustomConf)

	InitWorkPathAndConfig(getEnv, "/tmp/work", "conf.ini")
	assert.Equal(t, "/tmp/work", AppWorkPath)
	assert.Equal(t, "/tmp/work/conf.ini", CustomConf)

	InitWorkPathAndConfig(getEnv, "", "/etc/dispatcher.ini")
	assert.Equal(t, "/etc/dispatcher.ini", CustomConf)
}
