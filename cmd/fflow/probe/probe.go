// Copyright (c) fflowtools 2026. All rights reserved.
// SPDX-License-Identifier: MIT

// Package probe implements the stream-inspection subcommand.
package probe

import (
	"context"

	"github.com/fflowtools/fflow/cmd/fflow/jobcmd"
	"github.com/fflowtools/fflow/internal/flow"
	"github.com/fflowtools/fflow/internal/runjob"
	"github.com/fflowtools/fflow/internal/translate"
	"github.com/urfave/cli/v3"
)

const inputArg = "input"

// ProbeCmd decodes an input without writing output, so its stream metadata
// can be reported.
var ProbeCmd = &cli.Command{
	Name:        "probe",
	Usage:       "fflow probe in.mp4",
	Description: "Inspect an input's stream metadata by decoding it to a null output.",
	Arguments: []cli.Argument{
		&cli.StringArg{
			Name:      inputArg,
			UsageText: "INPUT",
			Config: cli.StringConfig{
				TrimSpace: true,
			},
		},
	},
	Flags:  jobcmd.PromptFlags(),
	Action: actionFunc,
}

func actionFunc(ctx context.Context, cmd *cli.Command) error {
	spec, err := translate.Probe("", cmd.StringArg(inputArg))
	if err != nil {
		return cli.Exit("Please provide an input to probe", 1)
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
