// Copyright 2026 The Gitea Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package project

import (
	"context"
	"crypto/subtle"
	"fmt"
	"strings"

	"code.gitea.io/dispatcher/models/db"
	"code.gitea.io/dispatcher/modules/timeutil"
	"code.gitea.io/dispatcher/modules/util"

	"xorm.io/builder"
)

// ErrProjectNotExist represents a "ProjectNotExist" kind of error.
type ErrProjectNotExist struct {
	ID   int64
	Name string
}

// IsErrProjectNotExist checks if an error is a ErrProjectNotExist
func IsErrProjectNotExist(err error) bool {
	_, ok := err.(ErrProjectNotExist)
	return ok
}

func (err ErrProjectNotExist) Error() string {
	if err.Name != "" {
		return fmt.Sprintf("project does not exist [name: %s]", err.Name)
	}
	return fmt.Sprintf("project does not exist [id: %d]", err.ID)
}

func (err ErrProjectNotExist) Unwrap() error {
	return util.ErrNotExist
}

// Project is the owner of pipelines and of project scoped runners.
// Projects are managed elsewhere, the dispatcher only reads them.
type Project struct {
	ID        int64  `xorm:"pk autoincr"`
	Name      string `xorm:"UNIQUE NOT NULL"`
	IsPrivate bool   `xorm:"INDEX"`
	// RunnersToken lets a runner register itself for this project only
	RunnersToken string `xorm:"UNIQUE NOT NULL"`

	CreatedUnix timeutil.TimeStamp `xorm:"created"`
	UpdatedUnix timeutil.TimeStamp `xorm:"updated"`
}

func init() {
	db.RegisterModel(new(Project))
}

func generateRunnersToken() (string, error) {
	return util.CryptoRandomHex(20)
}

// CreateProject inserts p, generating its runners token when none is set
func CreateProject(ctx context.Context, p *Project) error {
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return util.NewInvalidArgumentErrorf("project name is empty")
	}
	if p.RunnersToken == "" {
		token, err := generateRunnersToken()
		if err != nil {
			return err
		}
		p.RunnersToken = token
	}
	return db.WithTx(ctx, func(ctx context.Context) error {
		exist, err := db.Exist[Project](ctx, builder.Eq{"name": p.Name})
		if err != nil {
			return err
		} else if exist {
			return util.NewAlreadyExistErrorf("project %q already exists", p.Name)
		}
		return db.Insert(ctx, p)
	})
}

// GetProjectByID returns the project with the given id
func GetProjectByID(ctx context.Context, id int64) (*Project, error) {
	p, exist, err := db.GetByID[Project](ctx, id)
	if err != nil {
		return nil, err
	} else if !exist {
		return nil, ErrProjectNotExist{ID: id}
	}
	return p, nil
}

// GetProjectByName returns the project with the given name
func GetProjectByName(ctx context.Context, name string) (*Project, error) {
	p, exist, err := db.Get[Project](ctx, builder.Eq{"name": name})
	if err != nil {
		return nil, err
	} else if !exist {
		return nil, ErrProjectNotExist{Name: name}
	}
	return p, nil
}

// GetProjectByRunnersToken resolves a self registration token. Empty tokens never match.
func GetProjectByRunnersToken(ctx context.Context, token string) (*Project, error) {
	if token == "" {
		return nil, util.NewNotExistErrorf("empty runners token")
	}
	p, exist, err := db.Get[Project](ctx, builder.Eq{"runners_token": token})
	if err != nil {
		return nil, err
	}
	if !exist || subtle.ConstantTimeCompare([]byte(p.RunnersToken), []byte(token)) != 1 {
		return nil, util.NewNotExistErrorf("no project for runners token")
	}
	return p, nil
}

// ExistProjectByID reports whether a project with the id exists
func ExistProjectByID(ctx context.Context, id int64) (bool, error) {
	if id <= 0 {
		return false, nil
	}
	return db.Exist[Project](ctx, builder.Eq{"id": id})
}

// ResetRunnersToken replaces the runners token of p. Runners registered with the old token keep working.
func ResetRunnersToken(ctx context.Context, p *Project) error {
	token, err := generateRunnersToken()
	if err != nil {
		return err
	}
	p.RunnersToken = token
	_, err = db.GetEngine(ctx).ID(p.ID).Cols("runners_token").Update(p)
	return err
}
