// Copyright (c) fflowtools 2026. All rights reserved.
// SPDX-License-Identifier: MIT

// Package main contains the fflow command-line interface (CLI).
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/fflowtools/fflow"
	"github.com/fflowtools/fflow/cmd/fflow/batch"
	"github.com/fflowtools/fflow/cmd/fflow/console"
	"github.com/fflowtools/fflow/cmd/fflow/encode"
	"github.com/fflowtools/fflow/cmd/fflow/presets"
	"github.com/fflowtools/fflow/cmd/fflow/probe"
	"github.com/fflowtools/fflow/cmd/fflow/run"
	"github.com/fflowtools/fflow/internal/ctxlog"
	"github.com/fflowtools/fflow/internal/signalbroker"
	"github.com/urfave/cli/v3"
)

// rootCmd is the root command for the CLI.
var rootCmd = &cli.Command{
	Commands: []*cli.Command{
		run.RunCmd,
		encode.EncodeCmd,
		probe.ProbeCmd,
		batch.BatchCmd,
		presets.PresetsCmd,
		console.ConsoleCmd,
	},
	Writer:    os.Stdout,
	ErrWriter: os.Stderr,
	Name:      "fflow",
	Description: `Fflow supervises ffmpeg invocations: it parses the encoder's progress
output into structured samples, relays overwrite prompts to the caller, and runs
.flw batch scripts job by job with a session run history.`,
	Usage:                 "fflow batch myjobs.flw",
	Copyright:             "Copyright (c) fflowtools 2026. All rights reserved.",
	EnableShellCompletion: true,
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	ctx = ctxlog.New(ctx, ctxlog.DefaultLogger)
	defer cancel()

	sigCh := signalbroker.New(ctx)

	go signalbroker.Watch(ctx, sigCh, cancel)

	rootCmd.Version = fmt.Sprintf("%s (commit: %s)", fflow.Version, fflow.Commit)

	err := rootCmd.Run(ctx, os.Args)

	// Check if the context was cancelled (e.g., due to signals)
	if ctx.Err() != nil {
		ctxlog.Logger(ctx).Error("command terminated due to cancellation", "error", ctx.Err())
		os.Exit(1)
	}

	if err != nil {
		ctxlog.Logger(ctx).Error("command execution failed", "error", err)
		os.Exit(1)
	}
}
