// Copyright (c) fflowtools 2026. All rights reserved.
// SPDX-License-Identifier: MIT

// Package encode implements the convenience transcode subcommand.
package encode

import (
	"context"
	"fmt"

	"github.com/fflowtools/fflow/cmd/fflow/jobcmd"
	"github.com/fflowtools/fflow/internal/flow"
	"github.com/fflowtools/fflow/internal/preset"
	"github.com/fflowtools/fflow/internal/runjob"
	"github.com/fflowtools/fflow/internal/translate"
	"github.com/spf13/afero"
	"github.com/urfave/cli/v3"
)

// Flag names.
const (
	InputFlag       = "input"
	OutputFlag      = "output"
	VideoCodecFlag  = "vcodec"
	AudioCodecFlag  = "acodec"
	SpeedFlag       = "speed"
	PresetFlag      = "preset"
	PresetsFileFlag = "presets-file"
)

// DefaultPresetsFile is where user presets are looked for.
const DefaultPresetsFile = "presets.yaml"

// EncodeCmd translates the convenience flags into a raw job and runs it.
// Arguments after the flags are passed through to the encoder verbatim.
var EncodeCmd = &cli.Command{
	Name:        "encode",
	Usage:       "fflow encode -i in.mp4 --preset archive -o out.mkv",
	Description: "Transcode inputs to an output, expanding codec flags and named presets.",
	Flags: append(jobcmd.PromptFlags(),
		&cli.StringSliceFlag{
			Name:    InputFlag,
			Aliases: []string{"i"},
			Usage:   "Input path, repeatable",
		},
		&cli.StringFlag{
			Name:    OutputFlag,
			Aliases: []string{"o"},
			Usage:   "Output path",
		},
		&cli.StringFlag{
			Name:  VideoCodecFlag,
			Usage: "Video codec for -c:v",
		},
		&cli.StringFlag{
			Name:  AudioCodecFlag,
			Usage: "Audio codec for -c:a",
		},
		&cli.StringFlag{
			Name:  SpeedFlag,
			Usage: "Encoder speed preset for -preset",
		},
		&cli.StringFlag{
			Name:    PresetFlag,
			Aliases: []string{"p"},
			Usage:   "Named preset to expand",
		},
		&cli.StringFlag{
			Name:  PresetsFileFlag,
			Usage: "Path to the user presets file",
			Value: DefaultPresetsFile,
		},
	),
	Action: actionFunc,
}

func actionFunc(ctx context.Context, cmd *cli.Command) error {
	spec, err := BuildSpec(cmd)
	if err != nil {
		return cli.Exit(err.Error(), 1)
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

// BuildSpec assembles the encode job from the subcommand's flags and
// pass-through arguments.
func BuildSpec(cmd *cli.Command) (runjob.JobSpec, error) {
	req := translate.EncodeRequest{
		Inputs:     cmd.StringSlice(InputFlag),
		Output:     cmd.String(OutputFlag),
		VideoCodec: cmd.String(VideoCodecFlag),
		AudioCodec: cmd.String(AudioCodecFlag),
		Speed:      cmd.String(SpeedFlag),
		ExtraArgs:  cmd.Args().Slice(),
	}

	if name := cmd.String(PresetFlag); name != "" {
		lib, err := preset.Load(afero.NewOsFs(), cmd.String(PresetsFileFlag))
		if err != nil {
			return runjob.JobSpec{}, err
		}

		p, ok := lib.Get(name)
		if !ok {
			return runjob.JobSpec{}, fmt.Errorf("unknown preset %q", name)
		}

		req.ApplyPreset(p)
	}

	return req.JobSpec()
}
