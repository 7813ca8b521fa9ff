// Copyright (c) fflowtools 2026. All rights reserved.
// SPDX-License-Identifier: MIT

// Package presets implements the subcommand that lists encoding presets.
package presets

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/fflowtools/fflow/cmd/fflow/jobcmd"
	"github.com/fflowtools/fflow/internal/preset"
	"github.com/spf13/afero"
	"github.com/urfave/cli/v3"
)

const fileFlag = "file"

// PresetsCmd lists the built-in and user-defined presets.
var PresetsCmd = &cli.Command{
	Name:        "presets",
	Usage:       "fflow presets [--file presets.yaml]",
	Description: "List the built-in speed presets and any user-defined presets.",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  fileFlag,
			Usage: "Path to the user presets file",
			Value: "presets.yaml",
		},
	},
	Action: actionFunc,
}

func actionFunc(_ context.Context, cmd *cli.Command) error {
	lib, err := preset.Load(afero.NewOsFs(), cmd.String(fileFlag))
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	w := tabwriter.NewWriter(jobcmd.OutWriter(cmd), 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tSOURCE\tARGS")

	for _, p := range lib.All() {
		source := "user"
		if p.Builtin() {
			source = "builtin"
		}

		fmt.Fprintf(w, "%s\t%s\t%s\n", p.Name, source, strings.Join(p.Args(), " "))
	}

	return w.Flush()
}
