// Copyright (c) fflowtools 2026. All rights reserved.
// SPDX-License-Identifier: MIT

// Package batch implements the subcommand that runs a .flw script.
package batch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/TylerBrock/colorjson"
	"github.com/fflowtools/fflow/cmd/fflow/jobcmd"
	"github.com/fflowtools/fflow/internal/flow"
	"github.com/fflowtools/fflow/internal/format"
	"github.com/fflowtools/fflow/internal/history"
	"github.com/spf13/afero"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"
)

// Flag and argument names.
const (
	fileArg      = "file"
	ContinueFlag = "continue-on-failure"
	JSONFlag     = "json"
)

// BatchCmd parses a .flw script and executes its jobs sequentially.
var BatchCmd = &cli.Command{
	Name:        "batch",
	Usage:       "fflow batch jobs.flw [--continue-on-failure] [--yes|--no] [--json]",
	Description: "Run every job in a batch script one at a time, then print the ordered outcomes.",
	Arguments: []cli.Argument{
		&cli.StringArg{
			Name:      fileArg,
			UsageText: "FLWFILE",
			Config: cli.StringConfig{
				TrimSpace: true,
			},
		},
	},
	Flags: append(jobcmd.PromptFlags(),
		&cli.BoolFlag{
			Name:  ContinueFlag,
			Usage: "Attempt every job regardless of earlier failures",
		},
		&cli.BoolFlag{
			Name:  JSONFlag,
			Usage: "Print the outcomes as JSON",
		},
	),
	Action: actionFunc,
}

func actionFunc(ctx context.Context, cmd *cli.Command) error {
	path := cmd.StringArg(fileArg)
	if path == "" {
		return cli.Exit("Please provide a batch script to run", 1)
	}

	script, err := flow.ParseFile(afero.NewOsFs(), path)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	policy := flow.PolicyStopOnFailure
	if cmd.Bool(ContinueFlag) {
		policy = flow.PolicyContinueOnFailure
	}

	log := history.NewLog()
	out := jobcmd.OutWriter(cmd)

	display := jobcmd.NewDisplay(out)
	runner := &flow.Runner{
		Policy:   policy,
		OnPrompt: jobcmd.PromptFunc(cmd, out),
		OnEvent:  display.Handle,
		History:  log,
	}

	entries, runErr := runner.Run(ctx, script)

	if cmd.Bool(JSONFlag) {
		if err := writeJSON(out, entries); err != nil {
			return cli.Exit(err.Error(), 1)
		}
	} else {
		fmt.Fprintln(out)

		if err := format.WriteEntries(out, entries); err != nil {
			return cli.Exit(err.Error(), 1)
		}
	}

	if runErr != nil {
		return cli.Exit(runErr.Error(), 1)
	}

	if code := jobcmd.ExitMirror(entries); code != 0 {
		return cli.Exit("", code)
	}

	return nil
}

func writeJSON(out io.Writer, entries []history.Entry) error {
	data, err := json.Marshal(entries)
	if err != nil {
		return err
	}

	var obj any
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}

	f := colorjson.NewFormatter()
	f.Indent = 2
	f.DisabledColor = !term.IsTerminal(int(os.Stdout.Fd()))

	pretty, err := f.Marshal(obj)
	if err != nil {
		return err
	}

	pretty = append(pretty, '\n')
	_, err = out.Write(pretty)

	return err
}
