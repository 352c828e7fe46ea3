// Copyright 2026 The Gitea Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package db

import (
	"context"
	"database/sql"
	"fmt"
	"reflect"
	"strings"
	"time"

	"code.gitea.io/dispatcher/modules/log"
	"code.gitea.io/dispatcher/modules/setting"

	"xorm.io/xorm"
	"xorm.io/xorm/names"
	"xorm.io/xorm/schemas"

	_ "github.com/go-sql-driver/mysql"  // Needed for the MySQL driver
	_ "github.com/lib/pq"               // Needed for the Postgresql driver
	_ "github.com/mattn/go-sqlite3"     // Needed for the SQLite driver
	_ "github.com/microsoft/go-mssqldb" // Needed for the MSSQL driver
)

var (
	xormEngine *xorm.Engine
	tables     []any
)

// Engine represents a xorm engine or session.
type Engine interface {
	Table(tableNameOrBean any) *xorm.Session
	Count(...any) (int64, error)
	Delete(...any) (int64, error)
	Exec(...any) (sql.Result, error)
	Find(any, ...any) error
	Get(beans ...any) (bool, error)
	ID(any) *xorm.Session
	In(string, ...any) *xorm.Session
	Incr(column string, arg ...any) *xorm.Session
	Insert(...any) (int64, error)
	Where(any, ...any) *xorm.Session
	Asc(colNames ...string) *xorm.Session
	Desc(colNames ...string) *xorm.Session
	Limit(limit int, start ...int) *xorm.Session
	SQL(any, ...any) *xorm.Session
	Select(string) *xorm.Session
	Cols(...string) *xorm.Session
	NoAutoTime() *xorm.Session
	GroupBy(keys string) *xorm.Session
	Exist(...any) (bool, error)
	Context(ctx context.Context) *xorm.Session
	Ping() error
}

var (
	_ Engine = (*xorm.Engine)(nil)
	_ Engine = (*xorm.Session)(nil)
)

// RegisterModel registers a model so that SyncAllTables creates its table
func RegisterModel(bean any) {
	tables = append(tables, bean)
}

// NewEngine creates an engine for the configured database without connecting to it
func NewEngine() (*xorm.Engine, error) {
	connStr, err := setting.DBConnStr()
	if err != nil {
		return nil, err
	}

	var engine *xorm.Engine
	if setting.Database.Type.IsPostgreSQL() && len(setting.Database.Schema) > 0 {
		engine, err = xorm.NewEngine(setting.Database.Type.String(), connStr)
		if err == nil {
			engine.Dialect().SetParams(map[string]string{"schema": setting.Database.Schema})
		}
	} else {
		engine, err = xorm.NewEngine(setting.Database.Type.String(), connStr)
	}
	if err != nil {
		return nil, err
	}
	if setting.Database.Type.IsMySQL() {
		engine.Dialect().SetParams(map[string]string{"rowFormat": "DYNAMIC"})
	}
	engine.SetSchema(setting.Database.Schema)
	return engine, nil
}

// InitEngine initializes the xorm engine and checks the connection
func InitEngine(ctx context.Context) error {
	xe, err := NewEngine()
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	xe.SetMapper(names.GonicMapper{})
	xe.SetLogger(NewXORMLogger(setting.Database.LogSQL))
	xe.ShowSQL(setting.Database.LogSQL)
	xe.SetMaxOpenConns(setting.Database.MaxOpenConns)
	xe.SetMaxIdleConns(setting.Database.MaxIdleConns)
	xe.SetConnMaxLifetime(setting.Database.ConnMaxLifetime)
	xe.SetDefaultContext(ctx)

	if err = xe.PingContext(ctx); err != nil {
		_ = xe.Close()
		return fmt.Errorf("failed to ping database: %w", err)
	}
	SetDefaultEngine(ctx, xe)
	return nil
}

// SetDefaultEngine replaces the package engine, tests use it to point at a temporary database
func SetDefaultEngine(ctx context.Context, eng *xorm.Engine) {
	xormEngine = eng
	xormEngine.SetDefaultContext(ctx)
}

// UnsetDefaultEngine closes and drops the package engine
func UnsetDefaultEngine() {
	if xormEngine != nil {
		_ = xormEngine.Close()
		xormEngine = nil
	}
}

// InitEngineWithRetry retries InitEngine up to DB_RETRIES times, waiting DB_RETRY_BACKOFF in between
func InitEngineWithRetry(ctx context.Context) (err error) {
	for i := 0; i < setting.Database.DBConnectRetries; i++ {
		if err = InitEngine(ctx); err == nil {
			return nil
		}
		log.Error("ORM engine initialization attempt #%d/%d failed. Error: %v", i+1, setting.Database.DBConnectRetries, err)
		log.Info("Backing off for %s before next attempt", setting.Database.DBConnectBackoff)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(setting.Database.DBConnectBackoff):
		}
	}
	if err == nil {
		err = fmt.Errorf("no connection attempt was made, DB_RETRIES is %d", setting.Database.DBConnectRetries)
	}
	return err
}

// SyncAllTables creates or updates the tables of all registered models
func SyncAllTables() error {
	return xormEngine.Sync(tables...)
}

// TableName returns the table name of a bean
func TableName(bean any) string {
	return xormEngine.TableName(bean)
}

// TableInfo returns the schema of a bean
func TableInfo(v any) (*schemas.Table, error) {
	return xormEngine.TableInfo(v)
}

// NamesToBean returns the registered models for the given table names, all of them when names is empty
func NamesToBean(names ...string) ([]any, error) {
	if len(names) == 0 {
		return tables, nil
	}
	beanMap := make(map[string]any)
	for _, bean := range tables {
		beanMap[strings.ToLower(reflect.Indirect(reflect.ValueOf(bean)).Type().Name())] = bean
		beanMap[strings.ToLower(xormEngine.TableName(bean))] = bean
		beanMap[strings.ToLower(xormEngine.TableName(bean, true))] = bean
	}

	gotBean := make(map[any]bool)
	var beans []any
	for _, name := range names {
		bean, ok := beanMap[strings.ToLower(strings.TrimSpace(name))]
		if !ok {
			return nil, fmt.Errorf("no table found that matches: %s", name)
		}
		if !gotBean[bean] {
			beans = append(beans, bean)
			gotBean[bean] = true
		}
	}
	return beans, nil
}
