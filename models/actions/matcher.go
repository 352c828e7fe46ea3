// Copyright 2026 The Gitea Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package actions

import (
	"fmt"

	"code.gitea.io/dispatcher/modules/util"

	"xorm.io/builder"
)

// RunnerScope is the kind of work a runner accepts. It is one of
// GlobalScope, TagScope or ProjectScope.
type RunnerScope interface {
	isRunnerScope()
	String() string
}

// GlobalScope accepts every pending build
type GlobalScope struct{}

// TagScope accepts pending builds of any project by their tags.
// With RunUntagged only builds requiring no tags are accepted and Tags are ignored,
// otherwise only builds requiring at least one of Tags.
type TagScope struct {
	Tags        []string
	RunUntagged bool
}

// ProjectScope accepts the pending builds of one project
type ProjectScope struct {
	ProjectID int64
}

func (GlobalScope) isRunnerScope()  {}
func (TagScope) isRunnerScope()     {}
func (ProjectScope) isRunnerScope() {}

func (GlobalScope) String() string { return "global" }

func (s TagScope) String() string {
	if s.RunUntagged {
		return "untagged"
	}
	return "tags(" + JoinTags(s.Tags) + ")"
}

func (s ProjectScope) String() string {
	return fmt.Sprintf("project(%d)", s.ProjectID)
}

// Scope classifies the runner. The first matching rule wins:
//
//  1. no project, no tags: GlobalScope
//  2. no project, run_untagged: TagScope with RunUntagged, even when the runner has tags
//  3. no project: TagScope matching the tags
//  4. project set: ProjectScope
func (r *ActionRunner) Scope() RunnerScope {
	switch {
	case r.ProjectID == 0 && len(r.Tags) == 0:
		return GlobalScope{}
	case r.ProjectID == 0:
		return TagScope{Tags: r.Tags, RunUntagged: r.RunUntagged}
	default:
		return ProjectScope{ProjectID: r.ProjectID}
	}
}

// VersionScope is the project id whose builds version a runner of this scope watches, 0 is global
func VersionScope(scope RunnerScope) int64 {
	if s, ok := scope.(ProjectScope); ok {
		return s.ProjectID
	}
	return 0
}

// BuildQuery selects pending unclaimed builds
type BuildQuery struct {
	// ProjectID restricts to one project when not 0
	ProjectID int64
	// UntaggedOnly restricts to builds without required tags
	UntaggedOnly bool
	// AnyOfTags restricts to builds requiring at least one of the tags when not empty
	AnyOfTags []string
}

// ToConds returns the condition on the action_build table
func (q *BuildQuery) ToConds() builder.Cond {
	cond := builder.NewCond().And(builder.Eq{"status": StatusPending, "runner_id": 0})
	if q.ProjectID != 0 {
		cond = cond.And(builder.Eq{"project_id": q.ProjectID})
	}
	if q.UntaggedOnly {
		cond = cond.And(builder.Eq{"num_tags": 0})
	}
	if len(q.AnyOfTags) > 0 {
		cond = cond.And(builder.In("id",
			builder.Select("build_id").From("action_build_tag").Where(builder.In("tag", q.AnyOfTags))))
	}
	return cond
}

// Match is the in-memory form of ToConds
func (q *BuildQuery) Match(b *ActionBuild) bool {
	if !b.Status.IsPending() || b.RunnerID != 0 {
		return false
	}
	if q.ProjectID != 0 && b.ProjectID != q.ProjectID {
		return false
	}
	if q.UntaggedOnly && len(b.Tags) > 0 {
		return false
	}
	if len(q.AnyOfTags) > 0 && !util.SliceIntersects(q.AnyOfTags, b.Tags) {
		return false
	}
	return true
}

func (q *BuildQuery) String() string {
	switch {
	case q.ProjectID != 0:
		return fmt.Sprintf("pending builds of project %d", q.ProjectID)
	case q.UntaggedOnly:
		return "pending untagged builds"
	case len(q.AnyOfTags) > 0:
		return "pending builds tagged with any of " + JoinTags(q.AnyOfTags)
	}
	return "all pending builds"
}

// CandidateQueries returns the queries to try, in order, for the runner.
// Every scope maps to exactly one query, tag filtering inside a project scope is not applied.
func CandidateQueries(r *ActionRunner) []*BuildQuery {
	switch s := r.Scope().(type) {
	case GlobalScope:
		return []*BuildQuery{{}}
	case TagScope:
		if s.RunUntagged {
			return []*BuildQuery{{UntaggedOnly: true}}
		}
		return []*BuildQuery{{AnyOfTags: s.Tags}}
	case ProjectScope:
		return []*BuildQuery{{ProjectID: s.ProjectID}}
	}
	return nil
}
