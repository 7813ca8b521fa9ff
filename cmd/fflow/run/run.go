// Copyright (c) fflowtools 2026. All rights reserved.
// SPDX-License-Identifier: MIT

// Package run implements the subcommand that executes one raw job.
package run

import (
	"context"

	"github.com/fflowtools/fflow/cmd/fflow/jobcmd"
	"github.com/fflowtools/fflow/internal/flow"
	"github.com/fflowtools/fflow/internal/runjob"
	"github.com/urfave/cli/v3"
)

const cwdFlag = "cwd"

// RunCmd executes a single raw command line as one supervised job.
var RunCmd = &cli.Command{
	Name:        "run",
	Usage:       "fflow run [--yes|--no] -- ffmpeg -i in.mp4 out.mp4",
	Description: "Run one raw command as a supervised job, with progress and overwrite-prompt handling.",
	Flags: append(jobcmd.PromptFlags(),
		&cli.StringFlag{
			Name:  cwdFlag,
			Usage: "Working directory for the job",
		},
	),
	Action: actionFunc,
}

func actionFunc(ctx context.Context, cmd *cli.Command) error {
	tokens := cmd.Args().Slice()
	if len(tokens) == 0 {
		return cli.Exit("Please provide a command to run", 1)
	}

	spec := runjob.JobSpec{
		Tokens: tokens,
		Cwd:    cmd.String(cwdFlag),
	}

	entries, err := jobcmd.Run(ctx, cmd, []runjob.JobSpec{spec}, flow.PolicyStopOnFailure, nil)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	if code := jobcmd.ExitMirror(entries); code != 0 {
		return cli.Exit("", code)
	}

	return nil
}
