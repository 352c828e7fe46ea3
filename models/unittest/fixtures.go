// Copyright 2026 The Gitea Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package unittest

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"code.gitea.io/dispatcher/models/db"

	"gopkg.in/yaml.v3"
	"xorm.io/builder"
)

type fixtureTable struct {
	name string
	rows []map[string]any
}

func readFixture(table string) (*fixtureTable, error) {
	buf, err := os.ReadFile(filepath.Join(FixturesDir(), table+".yml"))
	if errors.Is(err, os.ErrNotExist) {
		return &fixtureTable{name: table}, nil
	} else if err != nil {
		return nil, err
	}
	ft := &fixtureTable{name: table}
	if err = yaml.Unmarshal(buf, &ft.rows); err != nil {
		return nil, fmt.Errorf("parse fixture %s: %w", table, err)
	}
	return ft, nil
}

// loadFixtures empties every registered table and inserts the rows of its fixture file, if any.
func loadFixtures() error {
	beans, err := db.NamesToBean()
	if err != nil {
		return err
	}
	return db.WithTx(context.Background(), func(ctx context.Context) error {
		for _, bean := range beans {
			table := db.TableName(bean)
			ft, err := readFixture(table)
			if err != nil {
				return err
			}
			if _, err = db.Exec(ctx, "DELETE FROM "+table); err != nil {
				return fmt.Errorf("clear %s: %w", table, err)
			}
			for _, row := range ft.rows {
				query, args, err := builder.Insert(builder.Eq(row)).Into(table).ToSQL()
				if err != nil {
					return err
				}
				if _, err = db.Exec(ctx, append([]any{query}, args...)...); err != nil {
					return fmt.Errorf("insert fixture into %s: %w", table, err)
				}
			}
		}
		return nil
	})
}
