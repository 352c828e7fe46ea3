// Copyright 2026 The Gitea Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package db

import (
	"context"
	"errors"
	"fmt"

	"code.gitea.io/dispatcher/modules/setting"

	"xorm.io/builder"
)

// BuilderDialect returns the xorm.Builder dialect of the engine
func BuilderDialect() string {
	switch {
	case setting.Database.Type.IsMySQL():
		return builder.MYSQL
	case setting.Database.Type.IsSQLite3():
		return builder.SQLITE
	case setting.Database.Type.IsPostgreSQL():
		return builder.POSTGRES
	case setting.Database.Type.IsMSSQL():
		return builder.MSSQL
	default:
		return ""
	}
}

var errNotInTransaction = errors.New("a locking select needs a transaction")

// oldestIDForUpdateSQL renders a select of the smallest id in table matching condSQL that
// also locks the returned row until the end of the transaction.
// SQLite has no row locks, its connections open transactions with BEGIN IMMEDIATE instead.
func oldestIDForUpdateSQL(table, condSQL string) string {
	where := ""
	if condSQL != "" {
		where = " WHERE " + condSQL
	}
	switch {
	case setting.Database.Type.IsMSSQL():
		return fmt.Sprintf("SELECT TOP 1 id FROM %s WITH (UPDLOCK, ROWLOCK, READPAST)%s ORDER BY id ASC", table, where)
	case setting.Database.Type.IsPostgreSQL():
		return fmt.Sprintf("SELECT id FROM %s%s ORDER BY id ASC LIMIT 1 FOR UPDATE SKIP LOCKED", table, where)
	case setting.Database.Type.IsMySQL():
		return fmt.Sprintf("SELECT id FROM %s%s ORDER BY id ASC LIMIT 1 FOR UPDATE", table, where)
	default:
		return fmt.Sprintf("SELECT id FROM %s%s ORDER BY id ASC LIMIT 1", table, where)
	}
}

// GetOldestIDForUpdate returns the smallest id of the rows of table matching cond and holds
// a write lock on that row until the transaction of ctx ends. It must run inside a transaction.
func GetOldestIDForUpdate(ctx context.Context, table string, cond builder.Cond) (int64, bool, error) {
	if !InTransaction(ctx) {
		return 0, false, errNotInTransaction
	}
	condSQL, args, err := builder.ToSQL(cond)
	if err != nil {
		return 0, false, fmt.Errorf("render condition: %w", err)
	}

	var id int64
	has, err := GetEngine(ctx).SQL(oldestIDForUpdateSQL(table, condSQL), args...).Get(&id)
	if err != nil || !has {
		return 0, false, err
	}
	return id, true, nil
}
