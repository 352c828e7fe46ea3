// Copyright 2026 The Gitea Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package unittest

import (
	"context"
	"reflect"

	"code.gitea.io/dispatcher/models/db"

	"github.com/stretchr/testify/assert"
	"xorm.io/builder"
)

// these values are copied from the actions package to prevent from cycle-import
const (
	actionsStatusPending = 4
	actionsStatusRunning = 5
)

var consistencyCheckMap = make(map[string]func(t assert.TestingT, bean any))

// CheckConsistencyFor test that all matching database entries are consistent
func CheckConsistencyFor(t assert.TestingT, beansToCheck ...any) {
	for _, bean := range beansToCheck {
		sliceType := reflect.SliceOf(reflect.TypeOf(bean))
		ptrToSliceValue := reflect.New(sliceType)
		ptrToSliceValue.Elem().Set(reflect.MakeSlice(sliceType, 0, 10))

		assert.NoError(t, db.GetEngine(context.Background()).Table(bean).Find(ptrToSliceValue.Interface()))
		sliceValue := ptrToSliceValue.Elem()

		for i := 0; i < sliceValue.Len(); i++ {
			checkForConsistency(t, sliceValue.Index(i).Interface())
		}
	}
}

func checkForConsistency(t assert.TestingT, bean any) {
	tb, err := db.TableInfo(bean)
	assert.NoError(t, err)
	f := consistencyCheckMap[tb.Name]
	if f == nil {
		assert.Fail(t, "unknown bean type: %#v", bean)
		return
	}
	f(t, bean)
}

type reflectionValue struct {
	v reflect.Value
}

func reflectionWrap(v any) *reflectionValue {
	return &reflectionValue{v: reflect.Indirect(reflect.ValueOf(v))}
}

func (rv reflectionValue) int(fieldName string) int {
	return int(rv.v.FieldByName(fieldName).Int())
}

func init() {
	// a pending build has no runner, a running one has a runner and a start time
	consistencyCheckMap["action_build"] = func(t assert.TestingT, bean any) {
		build := reflectionWrap(bean)
		switch build.int("Status") {
		case actionsStatusPending:
			assert.Zero(t, build.int("RunnerID"), "pending build %d has a runner", build.int("ID"))
		case actionsStatusRunning:
			assert.NotZero(t, build.int("RunnerID"), "running build %d has no runner", build.int("ID"))
			assert.NotZero(t, build.int("Started"), "running build %d has no start time", build.int("ID"))
		}
	}

	consistencyCheckMap["action_build_tag"] = func(t assert.TestingT, bean any) {
		tag := reflectionWrap(bean)
		AssertCountByCond(t, "action_build", builder.Eq{"id": tag.int("BuildID")}, 1)
	}

	consistencyCheckMap["action_pipeline"] = func(t assert.TestingT, bean any) {
		pipeline := reflectionWrap(bean)
		count, err := db.GetEngine(context.Background()).Table("action_build").
			Where(builder.Eq{"pipeline_id": pipeline.int("ID")}).Count()
		assert.NoError(t, err)
		assert.NotZero(t, count, "pipeline %d has no builds", pipeline.int("ID"))
	}
}
