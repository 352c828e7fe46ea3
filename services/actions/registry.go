// Copyright 2026 The Gitea Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package actions

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"slices"

	actions_model "code.gitea.io/dispatcher/models/actions"
	"code.gitea.io/dispatcher/models/db"
	"code.gitea.io/dispatcher/modules/log"
	"code.gitea.io/dispatcher/modules/metrics"
	"code.gitea.io/dispatcher/modules/optional"
	"code.gitea.io/dispatcher/modules/util"

	"github.com/hashicorp/go-version"
)

// RegistryOptions configures a RunnerRegistry
type RegistryOptions struct {
	// GlobalRegistrationToken registers runners with global scope, empty disables it
	GlobalRegistrationToken string
	Projects                ProjectResolver
	// MinRunnerVersion rejects runners announcing an older or unparsable version, empty accepts all
	MinRunnerVersion string
}

// RunnerRegistry registers runners and authenticates them by their token
type RunnerRegistry struct {
	globalToken string
	projects    ProjectResolver
	minVersion  *version.Version
}

// NewRunnerRegistry creates a registry, projects are resolved from the database unless opts says otherwise
func NewRunnerRegistry(opts RegistryOptions) *RunnerRegistry {
	if opts.Projects == nil {
		opts.Projects = ProjectModelResolver()
	}
	r := &RunnerRegistry{
		globalToken: opts.GlobalRegistrationToken,
		projects:    opts.Projects,
	}
	if opts.MinRunnerVersion != "" {
		v, err := version.NewVersion(opts.MinRunnerVersion)
		if err != nil {
			log.Error("Ignoring the invalid minimum runner version %q: %v", opts.MinRunnerVersion, err)
		} else {
			r.minVersion = v
		}
	}
	return r
}

func (r *RunnerRegistry) checkVersion(announced string) error {
	if r.minVersion == nil {
		return nil
	}
	v, err := version.NewVersion(announced)
	if err != nil {
		return actions_model.ValidationError{Field: "version", Message: fmt.Sprintf("%q is not a version", announced)}
	}
	if v.LessThan(r.minVersion) {
		return actions_model.ValidationError{Field: "version", Message: fmt.Sprintf("runner version %s is older than the required %s", v, r.minVersion)}
	}
	return nil
}

// RegisterOptions are the fields a runner announces on registration
type RegisterOptions struct {
	Name         string
	Description  string
	Platform     string
	Architecture string
	Version      string
	// Tags is the comma separated tag list of the runner
	Tags        string
	Locked      bool
	RunUntagged bool
}

// Register creates a runner for the registration token. The global secret gives a global runner,
// a project runners token a runner of that project. The returned runner carries its plain token.
func (r *RunnerRegistry) Register(ctx context.Context, token string, opts RegisterOptions) (*actions_model.ActionRunner, error) {
	runner := &actions_model.ActionRunner{
		Name:         opts.Name,
		Description:  opts.Description,
		Platform:     opts.Platform,
		Architecture: opts.Architecture,
		Version:      opts.Version,
		Tags:         actions_model.ParseTags(opts.Tags),
		RunUntagged:  opts.RunUntagged,
		Locked:       opts.Locked,
		IsActive:     true,
	}

	switch {
	case token == "":
		metrics.RegistrationsTotal.WithLabelValues("rejected").Inc()
		return nil, ErrUnknownProject
	case r.globalToken != "" && subtle.ConstantTimeCompare([]byte(token), []byte(r.globalToken)) == 1:
		runner.IsGlobal = true
	default:
		projectID, err := r.projects.ResolveSelfRegistrationToken(ctx, token)
		if errors.Is(err, util.ErrNotExist) {
			metrics.RegistrationsTotal.WithLabelValues("rejected").Inc()
			return nil, ErrUnknownProject
		} else if err != nil {
			return nil, db.WrapStoreError(ctx, "resolve registration token", err)
		}
		runner.ProjectID = projectID
	}

	if err := r.checkVersion(opts.Version); err != nil {
		metrics.RegistrationsTotal.WithLabelValues("rejected").Inc()
		return nil, err
	}
	if err := actions_model.CreateRunner(ctx, runner); err != nil {
		return nil, db.WrapStoreError(ctx, "create runner", err)
	}

	scope := "project"
	if runner.IsGlobal {
		scope = "global"
	}
	metrics.RegistrationsTotal.WithLabelValues(scope).Inc()
	log.Info("Registered runner %s (%s) with scope %s", runner.UUID, runner.Name, runner.Scope())
	return runner, nil
}

// UpdateOptions lists the runner fields to change, unset options are left alone
type UpdateOptions struct {
	Name         optional.Option[string]
	Description  optional.Option[string]
	Platform     optional.Option[string]
	Architecture optional.Option[string]
	Version      optional.Option[string]
	Tags         optional.Option[string]
	RunUntagged  optional.Option[bool]
	IsActive     optional.Option[bool]
	Locked       optional.Option[bool]
}

// UpdateInfo applies opts to the runner and returns the updated copy, runner itself is not modified.
// The scope of a runner never changes, only its tags and the untagged flag.
func (r *RunnerRegistry) UpdateInfo(ctx context.Context, runner *actions_model.ActionRunner, opts UpdateOptions) (*actions_model.ActionRunner, error) {
	updated := *runner
	var cols []string
	setString := func(opt optional.Option[string], field *string, col string) {
		if opt.Has() {
			*field = opt.Value()
			cols = append(cols, col)
		}
	}
	setBool := func(opt optional.Option[bool], field *bool, col string) {
		if opt.Has() {
			*field = opt.Value()
			cols = append(cols, col)
		}
	}
	setString(opts.Name, &updated.Name, "name")
	setString(opts.Description, &updated.Description, "description")
	setString(opts.Platform, &updated.Platform, "platform")
	setString(opts.Architecture, &updated.Architecture, "architecture")
	setString(opts.Version, &updated.Version, "version")
	if opts.Tags.Has() {
		updated.Tags = actions_model.ParseTags(opts.Tags.Value())
		cols = append(cols, "tags")
	}
	setBool(opts.RunUntagged, &updated.RunUntagged, "run_untagged")
	setBool(opts.IsActive, &updated.IsActive, "is_active")
	setBool(opts.Locked, &updated.Locked, "locked")

	if len(cols) == 0 {
		return &updated, nil
	}

	// the builds the runner matches change, its known builds version no longer says there is no work
	matchingChanged := !slices.Equal(runner.Tags, updated.Tags) ||
		runner.RunUntagged != updated.RunUntagged ||
		runner.IsActive != updated.IsActive
	err := db.WithTx(ctx, func(ctx context.Context) error {
		if err := actions_model.UpdateRunner(ctx, &updated, cols...); err != nil {
			return err
		}
		if matchingChanged {
			return actions_model.IncreaseRunnerScopeVersion(ctx, &updated)
		}
		return nil
	})
	if err != nil {
		return nil, db.WrapStoreError(ctx, "update runner", err)
	}
	return &updated, nil
}

// LookupByToken returns the runner authenticated by token, an unknown token wraps util.ErrNotExist
func (r *RunnerRegistry) LookupByToken(ctx context.Context, token string) (*actions_model.ActionRunner, error) {
	runner, err := actions_model.GetRunnerByToken(ctx, token)
	if err != nil {
		return nil, db.WrapStoreError(ctx, "lookup runner", err)
	}
	return runner, nil
}
