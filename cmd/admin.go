// Copyright 2026 The Gitea Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package cmd

import (
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"

	actions_model "code.gitea.io/dispatcher/models/actions"
	project_model "code.gitea.io/dispatcher/models/project"
	"code.gitea.io/dispatcher/modules/optional"
	actions_service "code.gitea.io/dispatcher/services/actions"

	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v2"
)

// cmdAdmin represents the available admin sub-command.
func cmdAdmin() *cli.Command {
	return &cli.Command{
		Name:  "admin",
		Usage: "Perform common administrative operations",
		Subcommands: []*cli.Command{
			subcmdProject(),
			subcmdPipeline(),
			subcmdRunner(),
		},
	}
}

func subcmdProject() *cli.Command {
	return &cli.Command{
		Name:  "project",
		Usage: "Modify projects",
		Subcommands: []*cli.Command{
			{
				Name:   "create",
				Usage:  "Create a new project",
				Action: runCreateProject,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "name",
						Usage: "Project name",
					},
					&cli.BoolFlag{
						Name:  "private",
						Usage: "Project is private",
					},
				},
			},
			{
				Name:   "reset-token",
				Usage:  "Generate a new runners registration token for a project",
				Action: runResetProjectToken,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "name",
						Usage: "Project name",
					},
				},
			},
		},
	}
}

func subcmdPipeline() *cli.Command {
	return &cli.Command{
		Name:  "pipeline",
		Usage: "Modify pipelines",
		Subcommands: []*cli.Command{
			{
				Name:   "create",
				Usage:  "Create a pipeline of pending builds",
				Action: runCreatePipeline,
				Flags: []cli.Flag{
					&cli.Int64Flag{
						Name:  "project-id",
						Usage: "ID of the project the pipeline belongs to",
					},
					&cli.StringFlag{
						Name:  "ref",
						Usage: "Git reference of the pipeline, e.g. refs/heads/main",
					},
					&cli.StringFlag{
						Name:  "sha",
						Usage: "Commit SHA of the pipeline",
					},
					&cli.StringSliceFlag{
						Name:  "build",
						Usage: `A build as "name" or "name:tag1 tag2", can be repeated`,
					},
				},
			},
		},
	}
}

func subcmdRunner() *cli.Command {
	return &cli.Command{
		Name:  "runner",
		Usage: "Manage runners",
		Subcommands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List runners",
				Action: runListRunners,
				Flags: []cli.Flag{
					&cli.Int64Flag{
						Name:  "project-id",
						Usage: "Only list the runners of this project",
					},
					&cli.BoolFlag{
						Name:  "inactive",
						Usage: "Only list the inactive runners",
					},
				},
			},
			{
				Name:   "deactivate",
				Usage:  "Stop handing out builds to a runner",
				Action: func(c *cli.Context) error { return runSetRunnerActive(c, false) },
				Flags:  []cli.Flag{runnerUUIDFlag()},
			},
			{
				Name:   "activate",
				Usage:  "Hand out builds to a runner again",
				Action: func(c *cli.Context) error { return runSetRunnerActive(c, true) },
				Flags:  []cli.Flag{runnerUUIDFlag()},
			},
		},
	}
}

func runnerUUIDFlag() cli.Flag {
	return &cli.StringFlag{
		Name:  "uuid",
		Usage: "UUID of the runner",
	}
}

func runCreateProject(c *cli.Context) error {
	if err := argsSet(c, "name"); err != nil {
		return err
	}

	ctx, cancel := installSignals()
	defer cancel()

	if err := initDB(ctx); err != nil {
		return err
	}

	p := &project_model.Project{
		Name:      c.String("name"),
		IsPrivate: c.Bool("private"),
	}
	if err := project_model.CreateProject(ctx, p); err != nil {
		return fmt.Errorf("CreateProject: %w", err)
	}

	_, _ = fmt.Fprintf(c.App.Writer, "Project %q has been created with id %d\nRunners token: %s\n", p.Name, p.ID, p.RunnersToken)
	return nil
}

func runResetProjectToken(c *cli.Context) error {
	if err := argsSet(c, "name"); err != nil {
		return err
	}

	ctx, cancel := installSignals()
	defer cancel()

	if err := initDB(ctx); err != nil {
		return err
	}

	p, err := project_model.GetProjectByName(ctx, c.String("name"))
	if err != nil {
		return err
	}
	if err := project_model.ResetRunnersToken(ctx, p); err != nil {
		return fmt.Errorf("ResetRunnersToken: %w", err)
	}

	_, _ = fmt.Fprintf(c.App.Writer, "Runners token of project %q: %s\n", p.Name, p.RunnersToken)
	return nil
}

func parseBuildFlags(values []string) ([]actions_service.BuildOptions, error) {
	builds := make([]actions_service.BuildOptions, 0, len(values))
	for _, v := range values {
		name, tags, _ := strings.Cut(v, ":")
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, fmt.Errorf("build %q has no name", v)
		}
		builds = append(builds, actions_service.BuildOptions{Name: name, Tags: tags})
	}
	return builds, nil
}

func runCreatePipeline(c *cli.Context) error {
	if err := argsSet(c, "project-id", "ref", "build"); err != nil {
		return err
	}
	builds, err := parseBuildFlags(c.StringSlice("build"))
	if err != nil {
		return err
	}

	ctx, cancel := installSignals()
	defer cancel()

	if err := initDB(ctx); err != nil {
		return err
	}

	pipeline, created, err := actions_service.CreatePipeline(ctx, nil, actions_service.PipelineOptions{
		ProjectID: c.Int64("project-id"),
		Ref:       c.String("ref"),
		CommitSHA: c.String("sha"),
		Builds:    builds,
	})
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintf(c.App.Writer, "Pipeline %d has been created\n", pipeline.ID)
	for _, b := range created {
		_, _ = fmt.Fprintf(c.App.Writer, "Build %d: %s [%s]\n", b.ID, b.Name, strings.Join(b.Tags, ","))
	}
	return nil
}

func runListRunners(c *cli.Context) error {
	ctx, cancel := installSignals()
	defer cancel()

	if err := initDB(ctx); err != nil {
		return err
	}

	opts := actions_model.FindRunnerOptions{}
	if c.IsSet("project-id") {
		opts.ProjectID = optional.Some(c.Int64("project-id"))
	}
	if c.Bool("inactive") {
		opts.IsActive = optional.Some(false)
	}
	runners, err := actions_model.FindRunners(ctx, opts)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(c.App.Writer, 0, 8, 1, '\t', 0)
	_, _ = fmt.Fprintf(w, "ID\tUUID\tName\tScope\tActive\tLast Online\n")
	for _, r := range runners {
		lastOnline := "never"
		if !r.LastOnline.IsZero() {
			lastOnline = humanize.Time(r.LastOnline.AsTime())
		}
		_, _ = fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%t\t%s\n", r.ID, r.UUID, r.Name, r.Scope(), r.IsActive, lastOnline)
	}
	return w.Flush()
}

func runSetRunnerActive(c *cli.Context, active bool) error {
	if err := argsSet(c, "uuid"); err != nil {
		return err
	}

	ctx, cancel := installSignals()
	defer cancel()

	if err := initDB(ctx); err != nil {
		return err
	}

	runner, err := actions_model.GetRunnerByUUID(ctx, c.String("uuid"))
	if err != nil {
		if actions_model.IsErrRunnerNotExist(err) {
			return errors.New("no runner with this uuid")
		}
		return err
	}
	registry := actions_service.NewRunnerRegistry(actions_service.RegistryOptions{})
	if _, err := registry.UpdateInfo(ctx, runner, actions_service.UpdateOptions{IsActive: optional.Some(active)}); err != nil {
		return err
	}

	state := "deactivated"
	if active {
		state = "activated"
	}
	_, _ = fmt.Fprintf(c.App.Writer, "Runner %s has been %s\n", runner.Name, state)
	return nil
}
