// Copyright 2026 The Gitea Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package actions

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"code.gitea.io/dispatcher/models/db"
	"code.gitea.io/dispatcher/modules/timeutil"
	"code.gitea.io/dispatcher/modules/util"

	"github.com/google/uuid"
	"xorm.io/builder"
)

// ActionRunner represents a registered build agent.
//
// The scope of a runner is described by three fields which the matcher combines:
// IsGlobal, ProjectID (0 means no project) and Tags (nil means no tags) with RunUntagged.
// See Scope for how they are interpreted.
type ActionRunner struct {
	ID          int64
	UUID        string `xorm:"CHAR(36) UNIQUE"`
	Name        string `xorm:"VARCHAR(255)"`
	Description string `xorm:"TEXT"`

	IsGlobal    bool     `xorm:"index"`
	ProjectID   int64    `xorm:"index"`
	Tags        []string `xorm:"JSON TEXT"`
	RunUntagged bool
	IsActive    bool `xorm:"index"`
	// Locked runners can not be reassigned to another project
	Locked bool

	Platform     string `xorm:"VARCHAR(255)"`
	Architecture string `xorm:"VARCHAR(255)"`
	Version      string `xorm:"VARCHAR(64)"`

	// Token is only set right after creation, the database keeps its salted hash
	Token          string `xorm:"-"`
	TokenHash      string `xorm:"UNIQUE"`
	TokenSalt      string
	TokenLastEight string `xorm:"index token_last_eight"`

	LastOnline timeutil.TimeStamp `xorm:"index"`
	Created    timeutil.TimeStamp `xorm:"created"`
	Updated    timeutil.TimeStamp `xorm:"updated"`
}

func init() {
	db.RegisterModel(new(ActionRunner))
}

// ErrRunnerNotExist represents an error for a runner that does not exist
type ErrRunnerNotExist struct {
	ID    int64
	UUID  string
	Token string
}

func (err ErrRunnerNotExist) Error() string {
	switch {
	case err.UUID != "":
		return fmt.Sprintf("runner does not exist [uuid: %s]", err.UUID)
	case err.Token != "":
		return "runner does not exist [token: ****]"
	}
	return fmt.Sprintf("runner does not exist [id: %d]", err.ID)
}

func (err ErrRunnerNotExist) Unwrap() error {
	return util.ErrNotExist
}

// validate checks the fields a runner can set on registration and check-in
func (r *ActionRunner) validate() error {
	r.Name = strings.TrimSpace(r.Name)
	if len(r.Name) > 255 {
		return ValidationError{Field: "name", Message: "must be at most 255 characters"}
	}
	if len(r.Platform) > 255 || len(r.Architecture) > 255 {
		return ValidationError{Field: "platform", Message: "platform and architecture must be at most 255 characters"}
	}
	if len(r.Version) > 64 {
		return ValidationError{Field: "version", Message: "must be at most 64 characters"}
	}
	if len(r.Description) > 1024 {
		return ValidationError{Field: "description", Message: "must be at most 1024 characters"}
	}
	if r.IsGlobal && r.ProjectID != 0 {
		return ValidationError{Field: "project_id", Message: "a global runner can not belong to a project"}
	}
	if len(r.Tags) == 0 {
		r.Tags = nil
	}
	return ValidateTags(r.Tags)
}

// CreateRunner validates r, gives it a fresh token and inserts it.
// The plain token is left in r.Token for the caller to hand out once.
func CreateRunner(ctx context.Context, r *ActionRunner) error {
	if err := r.validate(); err != nil {
		return err
	}
	token, salt, hash, lastEight, err := generateSaltedToken()
	if err != nil {
		return err
	}
	r.Token, r.TokenSalt, r.TokenHash, r.TokenLastEight = token, salt, hash, lastEight
	r.UUID = uuid.New().String()
	r.LastOnline = timeutil.TimeStampNow()
	return db.Insert(ctx, r)
}

// GetRunnerByID returns the runner with the given id
func GetRunnerByID(ctx context.Context, id int64) (*ActionRunner, error) {
	r, exist, err := db.GetByID[ActionRunner](ctx, id)
	if err != nil {
		return nil, err
	} else if !exist {
		return nil, ErrRunnerNotExist{ID: id}
	}
	return r, nil
}

// GetRunnerByUUID returns the runner with the given public identifier
func GetRunnerByUUID(ctx context.Context, uuid string) (*ActionRunner, error) {
	r, exist, err := db.Get[ActionRunner](ctx, builder.Eq{"uuid": uuid})
	if err != nil {
		return nil, err
	} else if !exist {
		return nil, ErrRunnerNotExist{UUID: uuid}
	}
	return r, nil
}

// GetRunnerByToken returns the runner authenticated by token.
// Successful lookups are cached so the key derivation only runs once per token.
func GetRunnerByToken(ctx context.Context, token string) (*ActionRunner, error) {
	if len(token) < 8 {
		return nil, ErrRunnerNotExist{Token: token}
	}
	lastEight := token[len(token)-8:]

	cache := getRunnerTokenCache()
	if id, ok := cache.Get(token); ok {
		r, err := GetRunnerByID(ctx, id)
		if err == nil && r.TokenLastEight == lastEight {
			return r, nil
		}
		cache.Remove(token)
		if err != nil && !IsErrRunnerNotExist(err) {
			return nil, err
		}
	}

	var runners []*ActionRunner
	if err := db.GetEngine(ctx).Where(builder.Eq{"token_last_eight": lastEight}).Find(&runners); err != nil {
		return nil, err
	}
	for _, r := range runners {
		if r.tokenMatches(token) {
			cache.Add(token, r.ID)
			return r, nil
		}
	}
	return nil, ErrRunnerNotExist{Token: token}
}

// IsErrRunnerNotExist checks if an error is an ErrRunnerNotExist
func IsErrRunnerNotExist(err error) bool {
	var e ErrRunnerNotExist
	return errors.As(err, &e)
}

// UpdateRunner updates the given columns of r, validating the runner first
func UpdateRunner(ctx context.Context, r *ActionRunner, cols ...string) error {
	if err := r.validate(); err != nil {
		return err
	}
	e := db.GetEngine(ctx).ID(r.ID)
	if len(cols) > 0 {
		e.Cols(cols...)
	}
	_, err := e.Update(r)
	return err
}

// UpdateRunnerLastOnline records that the runner was seen now
func UpdateRunnerLastOnline(ctx context.Context, r *ActionRunner) error {
	r.LastOnline = timeutil.TimeStampNow()
	_, err := db.GetEngine(ctx).ID(r.ID).Cols("last_online").NoAutoTime().Update(r)
	return err
}
