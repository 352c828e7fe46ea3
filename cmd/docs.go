// Copyright 2026 The Gitea Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v2"
)

// cmdDocs represents the available docs sub-command.
func cmdDocs() *cli.Command {
	return &cli.Command{
		Name:        "docs",
		Usage:       "Output CLI documentation",
		Description: "A command to output the dispatcher's CLI documentation, optionally to a file.",
		Action:      runDocs,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "man",
				Usage: "Output man pages instead",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Path to output to instead of stdout (will overwrite if exists)",
			},
		},
	}
}

func runDocs(ctx *cli.Context) error {
	docs, err := ctx.App.ToMarkdown()
	if ctx.Bool("man") {
		docs, err = ctx.App.ToMan()
	}
	if err != nil {
		return err
	}

	if !ctx.Bool("man") {
		// the markdown starts with the man page title line
		docs = strings.TrimPrefix(docs, "% "+ctx.App.Name+" 8\n\n")
	}

	out := ctx.App.Writer
	if ctx.String("output") != "" {
		fi, err := os.Create(ctx.String("output"))
		if err != nil {
			return err
		}
		defer fi.Close()
		out = fi
	}

	_, err = fmt.Fprintln(out, docs)
	return err
}
