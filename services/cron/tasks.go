// Copyright 2026 The Gitea Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package cron

import (
	"context"
	"fmt"
	"reflect"
	"runtime/debug"
	"strings"
	"sync"

	"code.gitea.io/dispatcher/modules/graceful"
	"code.gitea.io/dispatcher/modules/log"
	"code.gitea.io/dispatcher/modules/setting"
	"code.gitea.io/dispatcher/modules/timeutil"
)

var (
	lock     = sync.Mutex{}
	started  = false
	tasks    = []*Task{}
	tasksMap = map[string]*Task{}
)

// Task represents a Cron task
type Task struct {
	lock      sync.Mutex
	Name      string
	config    Config
	fun       func(context.Context, Config) error
	running   bool
	ExecTimes int64
	LastRun   timeutil.TimeStamp
	LastError error
}

// DoRunAtStart returns if this task should run at the start
func (t *Task) DoRunAtStart() bool {
	return t.config.DoRunAtStart()
}

// IsEnabled returns if this task is enabled as cron task
func (t *Task) IsEnabled() bool {
	return t.config.IsEnabled()
}

// GetConfig will return a copy of the task's config
func (t *Task) GetConfig() Config {
	if reflect.TypeOf(t.config).Kind() == reflect.Ptr {
		// Pointer:
		return reflect.New(reflect.ValueOf(t.config).Elem().Type()).Interface().(Config)
	}
	// Not pointer:
	return reflect.New(reflect.TypeOf(t.config)).Elem().Interface().(Config)
}

// Run will run the task with its registered config, a run still in progress is not overlapped
func (t *Task) Run() {
	t.lock.Lock()
	if t.running {
		t.lock.Unlock()
		log.Debug("Cron task %s is still running, skipping this run", t.Name)
		return
	}
	t.running = true
	t.ExecTimes++
	config := t.config
	t.lock.Unlock()

	var err error
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%v\n%s", r, debug.Stack())
			log.Error("PANIC whilst running task: %s Value: %v", t.Name, err)
		}
		t.lock.Lock()
		t.running = false
		t.LastRun = timeutil.TimeStampNow()
		t.LastError = err
		t.lock.Unlock()
	}()

	graceful.GetManager().RunWithShutdownContext(func(ctx context.Context) {
		log.Trace("%s", config.FormatMessage(t.Name, "started"))
		if err = t.fun(ctx, config); err != nil {
			log.Error("%s", config.FormatMessage(t.Name, "error", err))
			return
		}
		log.Trace("%s", config.FormatMessage(t.Name, "finished"))
	})
}

// GetTask gets the named task
func GetTask(name string) *Task {
	lock.Lock()
	defer lock.Unlock()
	return tasksMap[name]
}

// RegisterTask allows a task to be registered with the cron service
func RegisterTask(name string, config Config, fun func(context.Context, Config) error) error {
	log.Debug("Registering task: %s", name)

	if _, err := setting.GetCronSettings(name, config); err != nil {
		log.Error("Unable to register cron task with name: %s Error: %v", name, err)
		return err
	}

	task := &Task{
		Name:   name,
		config: config,
		fun:    fun,
	}
	lock.Lock()
	locked := true
	defer func() {
		if locked {
			lock.Unlock()
		}
	}()
	if _, has := tasksMap[task.Name]; has {
		log.Error("A task with this name: %s has already been registered", name)
		return fmt.Errorf("duplicate task with name: %s", task.Name)
	}

	if config.IsEnabled() {
		if err := addTaskToScheduler(task); err != nil {
			return err
		}
	}

	tasks = append(tasks, task)
	tasksMap[task.Name] = task
	if started && config.IsEnabled() && config.DoRunAtStart() {
		lock.Unlock()
		locked = false
		task.Run()
	}

	return nil
}

// RegisterTaskFatal will register a task but if there is an error log.Fatal
func RegisterTaskFatal(name string, config Config, fun func(context.Context, Config) error) {
	if err := RegisterTask(name, config, fun); err != nil {
		log.Fatal("Unable to register cron task %s Error: %v", name, err)
	}
}

func addTaskToScheduler(task *Task) error {
	schedule := task.config.GetSchedule()
	// name and schedule can't be read back from a job, they are kept as tags
	tags := []string{task.Name, schedule}
	if scheduleHasSeconds(schedule) {
		if _, err := c.CronWithSeconds(schedule).Tag(tags...).Do(task.Run); err != nil {
			log.Error("Unable to register cron task with name: %s Error: %v", task.Name, err)
			return err
		}
		return nil
	}
	if _, err := c.Cron(schedule).Tag(tags...).Do(task.Run); err != nil {
		log.Error("Unable to register cron task with name: %s Error: %v", task.Name, err)
		return err
	}
	return nil
}

func scheduleHasSeconds(schedule string) bool {
	return len(strings.Fields(schedule)) >= 6
}
