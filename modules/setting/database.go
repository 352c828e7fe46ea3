// Copyright 2026 The Gitea Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package setting

import (
	"fmt"
	"net"
	"net/url"
	"path/filepath"
	"strings"
	"time"
)

// DatabaseType is the configured DB_TYPE
type DatabaseType string

func (t DatabaseType) String() string {
	return string(t)
}

func (t DatabaseType) IsSQLite3() bool {
	return t == "sqlite3"
}

func (t DatabaseType) IsMySQL() bool {
	return t == "mysql"
}

func (t DatabaseType) IsMSSQL() bool {
	return t == "mssql"
}

func (t DatabaseType) IsPostgreSQL() bool {
	return t == "postgres"
}

// SupportedDatabaseTypes are the DB_TYPE values with a registered driver
var SupportedDatabaseTypes = []string{"mysql", "postgres", "mssql", "sqlite3"}

// Database holds the database settings
var Database = struct {
	Type              DatabaseType
	Host              string
	Name              string
	User              string
	Passwd            string
	Schema            string
	SSLMode           string
	Path              string
	LogSQL            bool
	MysqlCharset      string
	Timeout           int // seconds
	SQLiteJournalMode string
	DBConnectRetries  int
	DBConnectBackoff  time.Duration
	MaxIdleConns      int
	MaxOpenConns      int
	ConnMaxLifetime   time.Duration
}{
	Timeout:         500,
	MaxIdleConns:    2,
	ConnMaxLifetime: 3 * time.Second,
}

func loadDBSetting(rootCfg ConfigProvider) {
	sec := rootCfg.Section("database")
	Database.Type = DatabaseType(sec.Key("DB_TYPE").MustString("sqlite3"))

	Database.Host = sec.Key("HOST").String()
	Database.Name = sec.Key("NAME").String()
	Database.User = sec.Key("USER").String()
	if len(Database.Passwd) == 0 {
		Database.Passwd = sec.Key("PASSWD").String()
	}
	Database.Schema = sec.Key("SCHEMA").String()
	Database.SSLMode = sec.Key("SSL_MODE").MustString("disable")
	Database.MysqlCharset = sec.Key("MYSQL_CHARSET").MustString("utf8mb4")

	Database.Path = sec.Key("PATH").MustString(filepath.Join(AppWorkPath, "data", "dispatcher.db"))
	if !filepath.IsAbs(Database.Path) {
		Database.Path = filepath.Join(AppWorkPath, Database.Path)
	}
	Database.Timeout = sec.Key("SQLITE_TIMEOUT").MustInt(500)
	Database.SQLiteJournalMode = sec.Key("SQLITE_JOURNAL_MODE").MustString("")

	Database.MaxIdleConns = sec.Key("MAX_IDLE_CONNS").MustInt(2)
	if Database.Type.IsMySQL() {
		Database.ConnMaxLifetime = sec.Key("CONN_MAX_LIFETIME").MustDuration(3 * time.Second)
	} else {
		Database.ConnMaxLifetime = sec.Key("CONN_MAX_LIFETIME").MustDuration(0)
	}
	Database.MaxOpenConns = sec.Key("MAX_OPEN_CONNS").MustInt(0)

	Database.LogSQL = sec.Key("LOG_SQL").MustBool(false)
	Database.DBConnectRetries = sec.Key("DB_RETRIES").MustInt(10)
	Database.DBConnectBackoff = sec.Key("DB_RETRY_BACKOFF").MustDuration(3 * time.Second)
}

// DBConnStr returns the driver specific data source name of the configured database
func DBConnStr() (string, error) {
	var connStr string
	paramSep := "?"
	if strings.Contains(Database.Name, paramSep) {
		paramSep = "&"
	}
	switch Database.Type {
	case "mysql":
		connType := "tcp"
		if len(Database.Host) > 0 && Database.Host[0] == '/' {
			connType = "unix"
		}
		tls := Database.SSLMode
		if tls == "disable" {
			tls = "false"
		}
		connStr = fmt.Sprintf("%s:%s@%s(%s)/%s%sparseTime=true&tls=%s&charset=%s",
			Database.User, Database.Passwd, connType, Database.Host, Database.Name, paramSep, tls, Database.MysqlCharset)
	case "postgres":
		connStr = getPostgreSQLConnectionString(Database.Host, Database.User, Database.Passwd, Database.Name, Database.SSLMode)
	case "mssql":
		host, port := ParseMSSQLHostPort(Database.Host)
		connStr = fmt.Sprintf("server=%s; port=%s; database=%s; user id=%s; password=%s;", host, port, Database.Name, Database.User, Database.Passwd)
	case "sqlite3":
		journalMode := ""
		if Database.SQLiteJournalMode != "" {
			journalMode = "&_journal_mode=" + Database.SQLiteJournalMode
		}
		// _txlock=immediate makes every transaction take the write lock at BEGIN,
		// so two claims on sqlite serialize instead of failing at commit
		connStr = fmt.Sprintf("file:%s?mode=rwc&_busy_timeout=%d&_txlock=immediate%s",
			Database.Path, Database.Timeout, journalMode)
	default:
		return "", fmt.Errorf("unknown database type: %s", Database.Type)
	}
	return connStr, nil
}

func getPostgreSQLConnectionString(dbHost, dbUser, dbPasswd, dbName, dbsslMode string) (connStr string) {
	dbName, dbParam, _ := strings.Cut(dbName, "?")
	if strings.HasPrefix(dbHost, "/") { // looks like a unix socket
		connStr = fmt.Sprintf("postgres://%s:%s@:%s/%s?sslmode=%s&host=%s",
			url.PathEscape(dbUser), url.PathEscape(dbPasswd), "5432", dbName, dbsslMode, dbHost)
	} else {
		connStr = (&url.URL{
			Scheme:   "postgres",
			User:     url.UserPassword(dbUser, dbPasswd),
			Host:     dbHost,
			Path:     dbName,
			RawQuery: "sslmode=" + url.QueryEscape(dbsslMode),
		}).String()
	}
	if dbParam != "" {
		connStr += "&" + dbParam
	}
	return connStr
}

// ParseMSSQLHostPort splits the host into host and port
func ParseMSSQLHostPort(info string) (string, string) {
	host, port := "127.0.0.1", "1433"
	if strings.Contains(info, ":") {
		if h, p, err := net.SplitHostPort(info); err == nil {
			host, port = h, p
		}
	} else if strings.Contains(info, ",") {
		host, port, _ = strings.Cut(info, ",")
		host, port = strings.TrimSpace(host), strings.TrimSpace(port)
	} else if len(info) > 0 {
		host = info
	}
	if host == "" {
		host = "127.0.0.1"
	}
	if port == "" {
		port = "1433"
	}
	return host, port
}
