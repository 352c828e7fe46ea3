// Copyright 2026 The Gitea Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package unittest

import (
	"context"

	"code.gitea.io/dispatcher/models/db"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"xorm.io/builder"
)

// Cond is an alias of builder.Cond for the conditions of the assertion helpers
type Cond = builder.Cond

// LoadBeanIfExists loads the bean, its non zero fields and conditions select the row
func LoadBeanIfExists(bean any, conditions ...any) (bool, error) {
	e := db.GetEngine(context.Background())
	for _, condition := range conditions {
		e = e.Where(condition)
	}
	return e.Get(bean)
}

// AssertExistsAndLoadBean assert that a bean exists and load it from the test database
func AssertExistsAndLoadBean[T any](t require.TestingT, bean T, conditions ...any) T {
	exists, err := LoadBeanIfExists(bean, conditions...)
	require.NoError(t, err)
	require.True(t, exists, "Expected to find %+v (of type %T, with conditions %+v), but did not", bean, bean, conditions)
	return bean
}

// AssertNotExistsBean assert that a bean does not exist in the test database
func AssertNotExistsBean(t assert.TestingT, bean any, conditions ...any) {
	exists, err := LoadBeanIfExists(bean, conditions...)
	assert.NoError(t, err)
	assert.False(t, exists)
}

// GetCount returns the number of rows of bean's table matching conditions
func GetCount(t assert.TestingT, bean any, conditions ...any) int {
	e := db.GetEngine(context.Background())
	for _, condition := range conditions {
		e = e.Where(condition)
	}
	count, err := e.Count(bean)
	assert.NoError(t, err)
	return int(count)
}

// AssertCount assert the count of a bean
func AssertCount(t assert.TestingT, bean, expected any) bool {
	return assert.EqualValues(t, expected, GetCount(t, bean))
}

// AssertCountByCond test the count of database entries matching bean
func AssertCountByCond(t assert.TestingT, tableName string, cond builder.Cond, expected int) bool {
	count, err := db.GetEngine(context.Background()).Table(tableName).Where(cond).Count()
	assert.NoError(t, err)
	return assert.EqualValues(t, expected, count, "Failed consistency test, the counted bean (of table %s) was %+v", tableName, cond)
}
